package complexity

// DefaultThreshold is the score above which a function is flagged.
const DefaultThreshold = 10

// Recommendation is attached to every function over the threshold.
const Recommendation = "Consider refactoring: extract into smaller functions"

// Record is the cyclomatic complexity of one function.
type Record struct {
	Function         string `json:"function" toon:"function"`
	File             string `json:"file" toon:"file"`
	Line             uint32 `json:"line" toon:"line"`
	EndLine          uint32 `json:"end_line" toon:"end_line"`
	Score            int    `json:"score" toon:"score"`
	ExceedsThreshold bool   `json:"exceeds_threshold" toon:"exceeds_threshold"`
	Recommendation   string `json:"recommendation,omitempty" toon:"recommendation,omitempty"`
}

// Summary provides aggregate statistics.
type Summary struct {
	TotalFunctions int     `json:"total_functions" toon:"total_functions"`
	Threshold      int     `json:"threshold" toon:"threshold"`
	MeanScore      float64 `json:"mean_score" toon:"mean_score"`
	MaxScore       int     `json:"max_score" toon:"max_score"`
	P50Score       float64 `json:"p50_score" toon:"p50_score"`
	P90Score       float64 `json:"p90_score" toon:"p90_score"`
	ExceedingCount int     `json:"exceeding_count" toon:"exceeding_count"`
}

// Hotspot identifies a high-complexity location in the codebase.
type Hotspot struct {
	File     string `json:"file" toon:"file"`
	Function string `json:"function" toon:"function"`
	Line     uint32 `json:"line" toon:"line"`
	Score    int    `json:"score" toon:"score"`
}
