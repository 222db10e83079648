package complexity

import (
	"testing"

	"github.com/panbanda/tangle/pkg/extract"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCalculate(t *testing.T) {
	fns := []extract.RawFunction{
		{Name: "simple", Line: 1, EndLine: 2, Complexity: 1},
		{Name: "edge", Line: 4, EndLine: 20, Complexity: 10},
		{Name: "tangled", Line: 22, EndLine: 80, Complexity: 11},
	}

	records := Calculate("svc/handler.py", fns, 0)
	require.Len(t, records, 3)

	assert.Equal(t, "simple", records[0].Function)
	assert.Equal(t, "svc/handler.py", records[0].File)
	assert.Equal(t, 1, records[0].Score)
	assert.False(t, records[0].ExceedsThreshold)
	assert.Empty(t, records[0].Recommendation)

	assert.False(t, records[1].ExceedsThreshold, "score equal to threshold does not exceed")

	assert.True(t, records[2].ExceedsThreshold)
	assert.Equal(t, Recommendation, records[2].Recommendation)
	assert.Equal(t, uint32(22), records[2].Line)
	assert.Equal(t, uint32(80), records[2].EndLine)
}

func TestCalculate_CustomThreshold(t *testing.T) {
	records := Calculate("a.js", []extract.RawFunction{{Name: "f", Complexity: 4}}, 3)
	require.Len(t, records, 1)
	assert.True(t, records[0].ExceedsThreshold)
}

func TestCalculate_NoFunctions(t *testing.T) {
	records := Calculate("empty.py", nil, 10)
	assert.NotNil(t, records)
	assert.Empty(t, records)
}

func TestSummarize(t *testing.T) {
	var fns []extract.RawFunction
	for i := 1; i <= 10; i++ {
		fns = append(fns, extract.RawFunction{Name: "f", Line: uint32(i), Complexity: i * 2})
	}
	records := Calculate("x.py", fns, 10)

	s := Summarize(records, 10)
	assert.Equal(t, 10, s.TotalFunctions)
	assert.Equal(t, 20, s.MaxScore)
	assert.InDelta(t, 11.0, s.MeanScore, 1e-9)
	assert.Equal(t, 10.0, s.P50Score)
	assert.Equal(t, 18.0, s.P90Score)
	assert.Equal(t, 5, s.ExceedingCount)
}

func TestSummarize_Empty(t *testing.T) {
	s := Summarize(nil, 0)
	assert.Equal(t, Summary{Threshold: DefaultThreshold}, s)
}

func TestHotspots(t *testing.T) {
	records := []Record{
		{File: "b.py", Function: "x", Line: 3, Score: 7},
		{File: "a.py", Function: "y", Line: 9, Score: 7},
		{File: "a.py", Function: "z", Line: 1, Score: 12},
		{File: "a.py", Function: "w", Line: 2, Score: 7},
	}

	hs := Hotspots(records, 3)
	require.Len(t, hs, 3)
	assert.Equal(t, "z", hs[0].Function)
	assert.Equal(t, "w", hs[1].Function)
	assert.Equal(t, "y", hs[2].Function)
}
