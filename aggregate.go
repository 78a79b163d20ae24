package main

import (
	"encoding/csv"
	"fmt"
	"math"
	"os"
	"slices"
	"strconv"
	"strings"
)

// AggregatedStat is the representative cost of one (implementation, scenario,
// size) triple: the median ns/op across all pooled repetitions.
type AggregatedStat struct {
	ImplName string
	Scenario string
	N        int
	NsPerOp  float64
}

// median computes the median of the finite values, averaging the two middle
// order statistics for even counts. NaN entries (failed coercions upstream)
// are skipped rather than poisoning the group; an all-NaN group stays NaN.
func median(values []float64) float64 {
	finite := make([]float64, 0, len(values))
	for _, v := range values {
		if !math.IsNaN(v) {
			finite = append(finite, v)
		}
	}
	if len(finite) == 0 {
		return math.NaN()
	}
	slices.Sort(finite)
	mid := len(finite) / 2
	if len(finite)%2 == 1 {
		return finite[mid]
	}
	return (finite[mid-1] + finite[mid]) / 2
}

// Aggregate reduces pooled raw samples to one row per (impl, scenario, N)
// triple. Rows whose size failed coercion cannot be grouped and are dropped.
// Zero input rows is a configuration error and aborts the aggregation.
func Aggregate(samples []Sample) ([]AggregatedStat, error) {
	if len(samples) == 0 {
		return nil, fmt.Errorf("no input rows to aggregate")
	}
	type groupKey struct {
		impl, scenario string
		n              int
	}
	groups := make(map[groupKey][]float64)
	for _, sample := range samples {
		if math.IsNaN(sample.N) {
			continue
		}
		key := groupKey{impl: sample.ImplName, scenario: sample.Scenario, n: int(sample.N)}
		groups[key] = append(groups[key], sample.NsPerOp)
	}
	stats := make([]AggregatedStat, 0, len(groups))
	for key, values := range groups {
		stats = append(stats, AggregatedStat{
			ImplName: key.impl,
			Scenario: key.scenario,
			N:        key.n,
			NsPerOp:  median(values),
		})
	}
	slices.SortFunc(stats, func(a, b AggregatedStat) int {
		if c := strings.Compare(a.Scenario, b.Scenario); c != 0 {
			return c
		}
		if a.N != b.N {
			return a.N - b.N
		}
		return strings.Compare(a.ImplName, b.ImplName)
	})
	return stats, nil
}

// formatCsvFloat renders non-finite values the way the downstream tooling
// expects them spelled.
func formatCsvFloat(v float64) string {
	switch {
	case math.IsNaN(v):
		return "nan"
	case math.IsInf(v, 1):
		return "inf"
	case math.IsInf(v, -1):
		return "-inf"
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// WriteAggregate saves the aggregated table as impl_name,scenario,N,ns_per_op.
func WriteAggregate(path string, stats []AggregatedStat) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create aggregate file %v: %w", path, err)
	}
	defer file.Close()
	w := csv.NewWriter(file)
	defer w.Flush()
	if err := w.Write([]string{"impl_name", "scenario", "N", "ns_per_op"}); err != nil {
		return err
	}
	for _, stat := range stats {
		record := []string{stat.ImplName, stat.Scenario, strconv.Itoa(stat.N), formatCsvFloat(stat.NsPerOp)}
		if err := w.Write(record); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}
