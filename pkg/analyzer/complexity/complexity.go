// Package complexity turns extracted function scores into threshold-checked
// records and summary statistics.
package complexity

import (
	"sort"

	"github.com/panbanda/tangle/pkg/extract"
	"github.com/panbanda/tangle/pkg/stats"
)

// Calculate builds one record per function of file. A non-positive threshold
// falls back to DefaultThreshold.
func Calculate(file string, fns []extract.RawFunction, threshold int) []Record {
	if threshold <= 0 {
		threshold = DefaultThreshold
	}

	records := make([]Record, 0, len(fns))
	for _, fn := range fns {
		r := Record{
			Function: fn.Name,
			File:     file,
			Line:     fn.Line,
			EndLine:  fn.EndLine,
			Score:    fn.Complexity,
		}
		r.ExceedsThreshold = r.Score > threshold
		if r.ExceedsThreshold {
			r.Recommendation = Recommendation
		}
		records = append(records, r)
	}
	return records
}

// Summarize computes mean, max, percentiles and the exceeding count.
func Summarize(records []Record, threshold int) Summary {
	if threshold <= 0 {
		threshold = DefaultThreshold
	}

	s := Summary{
		TotalFunctions: len(records),
		Threshold:      threshold,
	}
	if len(records) == 0 {
		return s
	}

	scores := make([]int, len(records))
	for i, r := range records {
		scores[i] = r.Score
		if r.Score > s.MaxScore {
			s.MaxScore = r.Score
		}
		if r.ExceedsThreshold {
			s.ExceedingCount++
		}
	}

	values := stats.Ints(scores)
	s.MeanScore = stats.Mean(values)
	s.P50Score = stats.Quantile(values, 0.5)
	s.P90Score = stats.Quantile(values, 0.9)

	return s
}

// Hotspots returns the n highest scoring functions, ties broken by file then line.
func Hotspots(records []Record, n int) []Hotspot {
	ranked := make([]Record, len(records))
	copy(ranked, records)
	sort.SliceStable(ranked, func(i, j int) bool {
		a, b := ranked[i], ranked[j]
		if a.Score != b.Score {
			return a.Score > b.Score
		}
		if a.File != b.File {
			return a.File < b.File
		}
		return a.Line < b.Line
	})
	if n > 0 && len(ranked) > n {
		ranked = ranked[:n]
	}

	hotspots := make([]Hotspot, 0, len(ranked))
	for _, r := range ranked {
		hotspots = append(hotspots, Hotspot{File: r.File, Function: r.Function, Line: r.Line, Score: r.Score})
	}
	return hotspots
}
