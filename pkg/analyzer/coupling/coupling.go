// Package coupling computes fan-in and fan-out for every module in a
// dependency graph.
package coupling

import (
	"sort"

	"github.com/panbanda/tangle/pkg/analyzer/graph"
	"github.com/panbanda/tangle/pkg/stats"
)

// DefaultThreshold is the total coupling above which a module is flagged.
const DefaultThreshold = 10

// TopN is the number of most coupled modules kept in the summary.
const TopN = 5

const (
	recommendCentral = "Central module: many files depend on it, keep its interface small and stable"
	recommendFanOut  = "Reduce outgoing dependencies: depend on fewer modules or introduce a facade"
	recommendSplit   = "Split this module: it both depends on and is depended on by many modules"
)

// Record holds the coupling figures for one module.
type Record struct {
	File             string `json:"file" toon:"file"`
	FanIn            int    `json:"fan_in" toon:"fan_in"`
	FanOut           int    `json:"fan_out" toon:"fan_out"`
	Total            int    `json:"total" toon:"total"`
	ExceedsThreshold bool   `json:"exceeds_threshold" toon:"exceeds_threshold"`
	Recommendation   string `json:"recommendation,omitempty" toon:"recommendation,omitempty"`
}

// Summary aggregates coupling over all modules.
type Summary struct {
	TotalModules   int      `json:"total_modules" toon:"total_modules"`
	Threshold      int      `json:"threshold" toon:"threshold"`
	MeanTotal      float64  `json:"mean_total" toon:"mean_total"`
	MaxTotal       int      `json:"max_total" toon:"max_total"`
	ExceedingCount int      `json:"exceeding_count" toon:"exceeding_count"`
	Top            []Record `json:"top" toon:"top"`
}

// Analysis is the full coupling result.
type Analysis struct {
	Records []Record `json:"records" toon:"records"`
	Summary Summary  `json:"summary" toon:"summary"`
}

// Calculate returns one record per graph node, in node order. A non-positive
// threshold falls back to DefaultThreshold.
func Calculate(g *graph.DependencyGraph, threshold int) []Record {
	if threshold <= 0 {
		threshold = DefaultThreshold
	}

	nodes := g.Nodes()
	records := make([]Record, 0, len(nodes))
	for _, n := range nodes {
		records = append(records, NewRecord(n, g.FanIn(n), g.FanOut(n), threshold))
	}
	return records
}

// NewRecord builds a record and its recommendation.
func NewRecord(file string, fanIn, fanOut, threshold int) Record {
	r := Record{
		File:   file,
		FanIn:  fanIn,
		FanOut: fanOut,
		Total:  fanIn + fanOut,
	}
	r.ExceedsThreshold = r.Total > threshold
	if r.ExceedsThreshold {
		r.Recommendation = recommend(fanIn, fanOut)
	}
	return r
}

func recommend(fanIn, fanOut int) string {
	switch {
	case fanIn > fanOut:
		return recommendCentral
	case fanOut > fanIn:
		return recommendFanOut
	default:
		return recommendSplit
	}
}

// Summarize computes the mean, max, exceeding count and the top modules by
// total. Ties are broken by file name.
func Summarize(records []Record, threshold int) Summary {
	if threshold <= 0 {
		threshold = DefaultThreshold
	}

	s := Summary{
		TotalModules: len(records),
		Threshold:    threshold,
		Top:          make([]Record, 0, TopN),
	}

	totals := make([]int, len(records))
	for i, r := range records {
		totals[i] = r.Total
		if r.Total > s.MaxTotal {
			s.MaxTotal = r.Total
		}
		if r.ExceedsThreshold {
			s.ExceedingCount++
		}
	}
	s.MeanTotal = stats.Mean(stats.Ints(totals))

	s.Top = append(s.Top, TopRecords(records, TopN)...)

	return s
}

// TopRecords returns the n records with the highest total, ties broken by
// file name. records is not modified.
func TopRecords(records []Record, n int) []Record {
	ranked := make([]Record, len(records))
	copy(ranked, records)
	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].Total != ranked[j].Total {
			return ranked[i].Total > ranked[j].Total
		}
		return ranked[i].File < ranked[j].File
	})
	if n >= 0 && len(ranked) > n {
		ranked = ranked[:n]
	}
	return ranked
}

// Analyze computes records and summary in one call.
func Analyze(g *graph.DependencyGraph, threshold int) *Analysis {
	records := Calculate(g, threshold)
	return &Analysis{
		Records: records,
		Summary: Summarize(records, threshold),
	}
}
