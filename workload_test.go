package main

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

type opRecord struct {
	read  bool
	index int
	value int64
}

// recorderArray captures the exact operation sequence a scenario issues.
type recorderArray struct {
	n   int
	ops []opRecord
}

func (r *recorderArray) Name() string { return "recorder" }
func (r *recorderArray) Size() int    { return r.n }
func (r *recorderArray) Init(v int64) int64 {
	return 0
}
func (r *recorderArray) Read(i int) int64 {
	r.ops = append(r.ops, opRecord{read: true, index: i})
	return 0
}
func (r *recorderArray) Write(i int, v int64) {
	r.ops = append(r.ops, opRecord{index: i, value: v})
}
func (r *recorderArray) Counters() Counters { return Counters{} }

func TestOperationCounts(t *testing.T) {
	for _, tc := range []struct {
		scenario string
		n        int
		ops      int
	}{
		{"READ_UNWRITTEN", 1000, 10000},
		{"READ_UNWRITTEN", 1_200_000, 1_000_000},
		{"WRITE_SEQUENTIAL", 1000, 1000},
		{"WRITE_SEQUENTIAL", 1_200_000, 1_200_000},
		{"WRITE_RANDOM", 1000, 1000},
		{"WRITE_RANDOM", 1_200_000, 1_000_000},
		{"MIXED_R50W50", 1000, 1000},
		{"ADVERSARIAL_HOTSPOT", 1000, 1000},
		{"INIT_ONLY", 1000, 1},
	} {
		t.Run(fmt.Sprintf("%v-%v", tc.scenario, tc.n), func(t *testing.T) {
			arr, err := (&SliceFactory{}).New(tc.n)
			require.Nil(t, err)
			result, err := RunScenario(arr, tc.scenario, tc.n, 42)
			require.Nil(t, err)
			require.Equal(t, tc.ops, result.Ops)
		})
	}
}

func TestInitOnlyReportsInitTime(t *testing.T) {
	arr, err := (&SliceFactory{}).New(10000)
	require.Nil(t, err)
	result, err := RunScenario(arr, "INIT_ONLY", 10000, 42)
	require.Nil(t, err)
	require.Equal(t, 1, result.Ops)
	require.Equal(t, result.TotalNs, result.InitNs)
	require.Equal(t, 0.0, result.NsPerOp)
}

func TestScenarioDeterminism(t *testing.T) {
	for _, scenario := range Scenarios {
		if scenario == "INIT_ONLY" {
			continue
		}
		t.Run(scenario, func(t *testing.T) {
			first := &recorderArray{n: 1000}
			second := &recorderArray{n: 1000}
			_, err := RunScenario(first, scenario, 1000, 42)
			require.Nil(t, err)
			_, err = RunScenario(second, scenario, 1000, 42)
			require.Nil(t, err)
			require.Equal(t, first.ops, second.ops)
		})
	}
}

func TestScenarioSeedsDiffer(t *testing.T) {
	first := &recorderArray{n: 1000}
	second := &recorderArray{n: 1000}
	_, err := RunScenario(first, "WRITE_RANDOM", 1000, 42)
	require.Nil(t, err)
	_, err = RunScenario(second, "WRITE_RANDOM", 1000, 43)
	require.Nil(t, err)
	require.NotEqual(t, first.ops, second.ops)
}

func TestWriteSequentialPattern(t *testing.T) {
	rec := &recorderArray{n: 100}
	_, err := RunScenario(rec, "WRITE_SEQUENTIAL", 100, 42)
	require.Nil(t, err)
	require.Len(t, rec.ops, 100)
	for i, op := range rec.ops {
		require.False(t, op.read)
		require.Equal(t, i, op.index)
		require.Equal(t, int64(i), op.value)
	}
}

func TestMixedReadShare(t *testing.T) {
	rec := &recorderArray{n: 100_000}
	_, err := RunScenario(rec, "MIXED_R90W10", 100_000, 42)
	require.Nil(t, err)
	reads := 0
	for _, op := range rec.ops {
		if op.read {
			reads++
		}
	}
	share := float64(reads) / float64(len(rec.ops))
	require.InDelta(t, 0.9, share, 0.02)
}

func TestAdversarialHotspotSkew(t *testing.T) {
	n := 100_000
	rec := &recorderArray{n: n}
	_, err := RunScenario(rec, "ADVERSARIAL_HOTSPOT", n, 42)
	require.Nil(t, err)
	hot := 0
	for _, op := range rec.ops {
		require.False(t, op.read)
		if op.index < n/10 {
			hot++
		}
	}
	// Half the draws target the first tenth of the range, plus the uniform
	// draws that land there by chance.
	share := float64(hot) / float64(len(rec.ops))
	require.InDelta(t, 0.55, share, 0.02)
}

func TestMixedReadPct(t *testing.T) {
	pct, err := MixedReadPct("MIXED_R70W30")
	require.Nil(t, err)
	require.Equal(t, 70, pct)

	pct, err = MixedReadPct("MIXED_R10W90")
	require.Nil(t, err)
	require.Equal(t, 10, pct)

	_, err = MixedReadPct("WRITE_RANDOM")
	require.NotNil(t, err)
	_, err = MixedReadPct("MIXED_WR")
	require.NotNil(t, err)
}

func TestUnknownScenario(t *testing.T) {
	arr, err := (&SliceFactory{}).New(100)
	require.Nil(t, err)
	_, err = RunScenario(arr, "NO_SUCH_SCENARIO", 100, 42)
	require.NotNil(t, err)
}
