package main

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func breakEvenFixture(baseInit, baseOp, implInit, implOp float64) []AggregatedStat {
	return []AggregatedStat{
		{ImplName: "std_vector", Scenario: "INIT_ONLY", N: 1000, NsPerOp: baseInit},
		{ImplName: "std_vector", Scenario: "WRITE_RANDOM", N: 1000, NsPerOp: baseOp},
		{ImplName: "fast_init", Scenario: "INIT_ONLY", N: 1000, NsPerOp: implInit},
		{ImplName: "fast_init", Scenario: "WRITE_RANDOM", N: 1000, NsPerOp: implOp},
	}
}

func TestBreakEvenCrossover(t *testing.T) {
	// init 100 vs 50, per-op 5 vs 10: 50ns of saved init buys 10 extra ops.
	agg := breakEvenFixture(100, 5, 50, 10)
	estimates := BreakEven(agg, "WRITE_RANDOM", "std_vector", []string{"fast_init"})
	require.Len(t, estimates, 1)
	require.Equal(t, 10.0, estimates[0].BreakEvenOps)
}

func TestBreakEvenEqualPerOp(t *testing.T) {
	agg := breakEvenFixture(100, 5, 50, 5)
	estimates := BreakEven(agg, "WRITE_RANDOM", "std_vector", []string{"fast_init"})
	require.Len(t, estimates, 1)
	require.True(t, math.IsInf(estimates[0].BreakEvenOps, 1))
}

func TestBreakEvenLegacyBoundary(t *testing.T) {
	// deltaOp <= 0 with deltaInit < 0 reports 0. Historical branch table,
	// kept bit-for-bit.
	agg := breakEvenFixture(100, 5, 150, 3)
	estimates := BreakEven(agg, "WRITE_RANDOM", "std_vector", []string{"fast_init"})
	require.Len(t, estimates, 1)
	require.Equal(t, 0.0, estimates[0].BreakEvenOps)
}

func TestBreakEvenWorseEverywhere(t *testing.T) {
	// Costlier init and costlier per-op: crossover clamps at 0 from the
	// negative side of the ratio.
	agg := breakEvenFixture(50, 5, 100, 10)
	estimates := BreakEven(agg, "WRITE_RANDOM", "std_vector", []string{"fast_init"})
	require.Len(t, estimates, 1)
	require.Equal(t, 0.0, estimates[0].BreakEvenOps)
}

func TestBreakEvenMissingBaseline(t *testing.T) {
	agg := []AggregatedStat{
		{ImplName: "fast_init", Scenario: "INIT_ONLY", N: 1000, NsPerOp: 50},
		{ImplName: "fast_init", Scenario: "WRITE_RANDOM", N: 1000, NsPerOp: 10},
		{ImplName: "other", Scenario: "INIT_ONLY", N: 1000, NsPerOp: 70},
		{ImplName: "other", Scenario: "WRITE_RANDOM", N: 1000, NsPerOp: 12},
	}
	estimates := BreakEven(agg, "WRITE_RANDOM", "std_vector", nil)
	require.Len(t, estimates, 2)
	for _, estimate := range estimates {
		require.True(t, math.IsNaN(estimate.BreakEvenOps), estimate.Impl)
	}
}

func TestBreakEvenDefaultsToAllImpls(t *testing.T) {
	agg := append(breakEvenFixture(100, 5, 50, 10),
		AggregatedStat{ImplName: "third", Scenario: "INIT_ONLY", N: 1000, NsPerOp: 10},
		AggregatedStat{ImplName: "third", Scenario: "WRITE_RANDOM", N: 1000, NsPerOp: 4},
	)
	estimates := BreakEven(agg, "WRITE_RANDOM", "std_vector", nil)
	require.Len(t, estimates, 2)
	require.Equal(t, "fast_init", estimates[0].Impl)
	require.Equal(t, "third", estimates[1].Impl)
	require.True(t, math.IsInf(estimates[1].BreakEvenOps, 1))
}

func TestBreakEvenPerSizeRows(t *testing.T) {
	agg := breakEvenFixture(100, 5, 50, 10)
	agg = append(agg,
		AggregatedStat{ImplName: "std_vector", Scenario: "INIT_ONLY", N: 2000, NsPerOp: 200},
		AggregatedStat{ImplName: "std_vector", Scenario: "WRITE_RANDOM", N: 2000, NsPerOp: 5},
		AggregatedStat{ImplName: "fast_init", Scenario: "INIT_ONLY", N: 2000, NsPerOp: 100},
		AggregatedStat{ImplName: "fast_init", Scenario: "WRITE_RANDOM", N: 2000, NsPerOp: 7},
	)
	estimates := BreakEven(agg, "WRITE_RANDOM", "std_vector", []string{"fast_init"})
	require.Len(t, estimates, 2)
	require.Equal(t, 1000, estimates[0].N)
	require.Equal(t, 10.0, estimates[0].BreakEvenOps)
	require.Equal(t, 2000, estimates[1].N)
	require.Equal(t, 50.0, estimates[1].BreakEvenOps)
}

func TestBreakEvenOpsTable(t *testing.T) {
	nan := math.NaN()
	require.True(t, math.IsNaN(breakEvenOps(nan, 5, 50, 10)))
	require.True(t, math.IsNaN(breakEvenOps(100, nan, 50, 10)))
	require.True(t, math.IsNaN(breakEvenOps(100, 5, nan, 10)))
	require.True(t, math.IsNaN(breakEvenOps(100, 5, 50, nan)))
	require.Equal(t, 10.0, breakEvenOps(100, 5, 50, 10))
	require.True(t, math.IsInf(breakEvenOps(100, 5, 50, 5), 1))
	require.Equal(t, 0.0, breakEvenOps(100, 5, 150, 3))
	require.True(t, math.IsInf(breakEvenOps(100, 5, 50, 3), 1))
}
