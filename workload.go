package main

import (
	"fmt"
	"math/rand"
	"strconv"
	"strings"
	"time"
)

// Scenarios lists every workload in the order the legacy drivers run them.
var Scenarios = []string{
	"INIT_ONLY", "READ_UNWRITTEN", "WRITE_SEQUENTIAL", "WRITE_RANDOM",
	"MIXED_R90W10", "MIXED_R80W20", "MIXED_R70W30", "MIXED_R50W50", "MIXED_R30W70", "MIXED_R10W90",
	"ADVERSARIAL_HOTSPOT",
}

const opsCap = 1_000_000

// WorkloadResult is the timing outcome of a single scenario execution.
type WorkloadResult struct {
	Ops     int
	TotalNs int64
	NsPerOp float64
	InitNs  int64
}

// sink keeps read results observable so the compiler cannot elide the reads.
var sink int64

func consume(v int64) { sink ^= v }

// MixedReadPct extracts the read percentage from a MIXED_R{p}W{100-p} name.
func MixedReadPct(scenario string) (int, error) {
	suffix, ok := strings.CutPrefix(scenario, "MIXED_")
	if !ok {
		return 0, fmt.Errorf("not a mixed scenario: %v", scenario)
	}
	rPos, wPos := strings.IndexByte(suffix, 'R'), strings.IndexByte(suffix, 'W')
	if rPos < 0 || wPos < 0 || wPos <= rPos {
		return 0, fmt.Errorf("malformed mixed scenario: %v", scenario)
	}
	pct, err := strconv.Atoi(suffix[rPos+1 : wPos])
	if err != nil {
		return 0, fmt.Errorf("malformed mixed scenario %v: %w", scenario, err)
	}
	return pct, nil
}

// RunScenario executes one workload against one array instance and reports
// timing. The generator is recreated from the seed on every call so the exact
// same index/value sequence is replayed for every implementation under
// comparison; index and value generation happens outside the timed window
// wherever the scenario pre-generates its access pattern.
func RunScenario(arr Array, scenario string, n int, seed int64) (WorkloadResult, error) {
	rng := rand.New(rand.NewSource(seed))
	randVal := func() int64 { return int64(rng.Intn(2001) - 1000) }
	mkIdx := func(m int) []int {
		idx := make([]int, m)
		for i := range idx {
			idx[i] = rng.Intn(n)
		}
		return idx
	}

	switch {
	case scenario == "INIT_ONLY":
		start := time.Now()
		arr.Init(42)
		elapsed := time.Since(start).Nanoseconds()
		return WorkloadResult{Ops: 1, TotalNs: elapsed, NsPerOp: 0, InitNs: elapsed}, nil

	case scenario == "READ_UNWRITTEN":
		arr.Init(123)
		m := min(opsCap, 10*n)
		idx := mkIdx(m)
		start := time.Now()
		var acc int64
		for _, j := range idx {
			acc ^= arr.Read(j)
		}
		elapsed := time.Since(start).Nanoseconds()
		consume(acc)
		return WorkloadResult{Ops: m, TotalNs: elapsed, NsPerOp: float64(elapsed) / float64(m)}, nil

	case scenario == "WRITE_SEQUENTIAL":
		arr.Init(0)
		start := time.Now()
		for i := 0; i < n; i++ {
			arr.Write(i, int64(i))
		}
		elapsed := time.Since(start).Nanoseconds()
		return WorkloadResult{Ops: n, TotalNs: elapsed, NsPerOp: float64(elapsed) / float64(n)}, nil

	case scenario == "WRITE_RANDOM":
		arr.Init(0)
		m := min(opsCap, n)
		idx := mkIdx(m)
		start := time.Now()
		for _, j := range idx {
			arr.Write(j, randVal())
		}
		elapsed := time.Since(start).Nanoseconds()
		return WorkloadResult{Ops: m, TotalNs: elapsed, NsPerOp: float64(elapsed) / float64(m)}, nil

	case strings.HasPrefix(scenario, "MIXED_"):
		readPct, err := MixedReadPct(scenario)
		if err != nil {
			return WorkloadResult{}, err
		}
		arr.Init(42)
		m := min(opsCap, n)
		// The coin flip is drawn before the corresponding index so the
		// read/write decision stream and the index stream interleave the same
		// way in every driver.
		kinds := make([]bool, m)
		idx := make([]int, m)
		for i := 0; i < m; i++ {
			kinds[i] = rng.Intn(100) < readPct
			idx[i] = rng.Intn(n)
		}
		start := time.Now()
		var acc int64
		for i := 0; i < m; i++ {
			if kinds[i] {
				acc ^= arr.Read(idx[i])
			} else {
				arr.Write(idx[i], randVal())
			}
		}
		elapsed := time.Since(start).Nanoseconds()
		consume(acc)
		return WorkloadResult{Ops: m, TotalNs: elapsed, NsPerOp: float64(elapsed) / float64(m)}, nil

	case scenario == "ADVERSARIAL_HOTSPOT":
		arr.Init(0)
		m := min(opsCap, n)
		hotspot := max(1, n/10)
		start := time.Now()
		for i := 0; i < m; i++ {
			var j int
			if rng.Intn(2) == 0 {
				j = rng.Intn(hotspot)
			} else {
				j = rng.Intn(n)
			}
			arr.Write(j, randVal())
		}
		elapsed := time.Since(start).Nanoseconds()
		return WorkloadResult{Ops: m, TotalNs: elapsed, NsPerOp: float64(elapsed) / float64(m)}, nil
	}
	return WorkloadResult{}, fmt.Errorf("unknown scenario: %v", scenario)
}
