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

// BreakEvenEstimate is the operation count M* at which an implementation's
// total cost curve (init + M*ns_per_op) crosses the baseline's for one size.
type BreakEvenEstimate struct {
	N            int
	Scenario     string
	Baseline     string
	Impl         string
	BreakEvenOps float64
}

// breakEvenOps evaluates the linear crossover. The deltaOp <= 0 branch keeps
// the historical decision table: a worse init with an equal-or-better per-op
// cost still reports 0 rather than "wins only after amortization". Known to
// be debatable; preserved on purpose for comparability with archived results.
func breakEvenOps(baseInit, baseOp, implInit, implOp float64) float64 {
	if math.IsNaN(baseInit) || math.IsNaN(baseOp) || math.IsNaN(implInit) || math.IsNaN(implOp) {
		return math.NaN()
	}
	deltaInit := baseInit - implInit
	deltaOp := implOp - baseOp
	if deltaOp <= 0 {
		if deltaInit < 0 {
			return 0
		}
		return math.Inf(1)
	}
	return math.Max(0, deltaInit/deltaOp)
}

// BreakEven computes crossover estimates for every size in the aggregated
// table, comparing each implementation against the baseline on the target
// scenario. An empty impls list compares everything except the baseline.
// Missing combinations degrade to NaN rows, never to errors.
func BreakEven(agg []AggregatedStat, scenario string, baseline string, impls []string) []BreakEvenEstimate {
	type cell struct {
		impl, scenario string
		n              int
	}
	table := make(map[cell]float64, len(agg))
	sizes := make([]int, 0)
	names := make([]string, 0)
	for _, stat := range agg {
		table[cell{impl: stat.ImplName, scenario: stat.Scenario, n: stat.N}] = stat.NsPerOp
		if !slices.Contains(sizes, stat.N) {
			sizes = append(sizes, stat.N)
		}
		if !slices.Contains(names, stat.ImplName) {
			names = append(names, stat.ImplName)
		}
	}
	slices.Sort(sizes)
	slices.Sort(names)

	if len(impls) == 0 {
		for _, name := range names {
			if name != baseline {
				impls = append(impls, name)
			}
		}
	}

	pick := func(impl, scenario string, n int) float64 {
		if v, ok := table[cell{impl: impl, scenario: scenario, n: n}]; ok {
			return v
		}
		return math.NaN()
	}

	estimates := make([]BreakEvenEstimate, 0, len(sizes)*len(impls))
	for _, n := range sizes {
		baseInit := pick(baseline, "INIT_ONLY", n)
		baseOp := pick(baseline, scenario, n)
		for _, impl := range impls {
			implInit := pick(impl, "INIT_ONLY", n)
			implOp := pick(impl, scenario, n)
			estimates = append(estimates, BreakEvenEstimate{
				N:            n,
				Scenario:     scenario,
				Baseline:     baseline,
				Impl:         impl,
				BreakEvenOps: breakEvenOps(baseInit, baseOp, implInit, implOp),
			})
		}
	}
	slices.SortFunc(estimates, func(a, b BreakEvenEstimate) int {
		if c := strings.Compare(a.Scenario, b.Scenario); c != 0 {
			return c
		}
		if a.N != b.N {
			return a.N - b.N
		}
		return strings.Compare(a.Impl, b.Impl)
	})
	return estimates
}

// WriteBreakEven saves estimates as N,scenario,baseline,impl,break_even_ops,
// appending when the file already holds rows for other target scenarios.
func WriteBreakEven(path string, estimates []BreakEvenEstimate, appendRows bool) error {
	flags := os.O_CREATE | os.O_WRONLY
	if appendRows {
		flags |= os.O_APPEND
	} else {
		flags |= os.O_TRUNC
	}
	file, err := os.OpenFile(path, flags, 0o644)
	if err != nil {
		return fmt.Errorf("failed to create break-even file %v: %w", path, err)
	}
	defer file.Close()
	w := csv.NewWriter(file)
	defer w.Flush()
	if !appendRows {
		if err := w.Write([]string{"N", "scenario", "baseline", "impl", "break_even_ops"}); err != nil {
			return err
		}
	}
	for _, estimate := range estimates {
		record := []string{
			strconv.Itoa(estimate.N),
			estimate.Scenario,
			estimate.Baseline,
			estimate.Impl,
			formatCsvFloat(estimate.BreakEvenOps),
		}
		if err := w.Write(record); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}
