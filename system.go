package main

import (
	"context"
	"fmt"
	"math"
	"runtime"

	"github.com/shirou/gopsutil/cpu"
	"github.com/shirou/gopsutil/host"
	"github.com/shirou/gopsutil/mem"
)

const Version = "v1"

// System wires the whole harness together: the measurement batch over every
// registered implementation, the pooling+aggregation step and the break-even
// analysis. Execution is strictly sequential; one measurement at a time.
type System struct {
	factories []Factory
	scenarios []string
	sizes     []int
	seed      int64
	reps      int
	warmup    int
	outfile   string
	inputs    []string
	baseline  string
	targets   []string
	compare   []string
	aggfile   string
	befile    string
	storage   *Storage
}

type SysInfo struct {
	Arch     string
	Hostname string
	Platform string
	CPUCount int
	CPUFreq  float64
	RAM      float64
}

func HostStat() SysInfo {
	hostStat, _ := host.Info()
	cpuStat, _ := cpu.Info()
	vmStat, _ := mem.VirtualMemory()
	totalFreq := 0.0
	for _, cpu := range cpuStat {
		totalFreq += cpu.Mhz
	}
	info := SysInfo{
		Arch:     runtime.GOARCH,
		Hostname: hostStat.Hostname,
		Platform: hostStat.Platform,
		CPUCount: len(cpuStat),
		CPUFreq:  totalFreq / float64(len(cpuStat)) * 1000,
		RAM:      float64(vmStat.Total) / 1024 / 1024 / 1024,
	}
	return info
}

func (s *System) Run(ctx context.Context) error {
	Logger.Infof("start benchmark")

	info := HostStat()
	Logger.Infof("host stat: %+v", info)

	if len(s.sizes) > 0 && s.reps > 0 {
		if err := s.RunBatch(ctx); err != nil {
			return err
		}
	} else {
		Logger.Infof("no sizes or repetitions configured, skipping measurement batch")
	}

	return s.Analyze(info)
}

// RunBatch executes every (implementation, size, scenario, repetition)
// combination one at a time and persists each row as soon as it completes.
func (s *System) RunBatch(ctx context.Context) error {
	writer, err := NewResultWriter(s.outfile)
	if err != nil {
		return err
	}
	defer writer.Close()

	for _, factory := range s.factories {
		for _, n := range s.sizes {
			if _, err := factory.New(n); err != nil {
				Logger.Errorf("skipping %v at N=%v: %v", factory.Name(), n, err)
				continue
			}
			for _, scenario := range s.scenarios {
				for i := 0; i < s.warmup; i++ {
					Logger.Infof("warmup #%v/%v: %v %v N=%v", i+1, s.warmup, factory.Name(), scenario, n)
					arr, err := factory.New(n)
					if err != nil {
						return fmt.Errorf("failed to construct %v for warmup: %w", factory.Name(), err)
					}
					if _, err := RunScenario(arr, scenario, n, s.seed); err != nil {
						return fmt.Errorf("warmup failed for %v: %w", scenario, err)
					}
				}
				for rep := 1; rep <= s.reps; rep++ {
					if ctx.Err() != nil {
						return ctx.Err()
					}
					// Fresh instance and fresh generator per repetition so
					// every run replays the identical operation sequence.
					arr, err := factory.New(n)
					if err != nil {
						return fmt.Errorf("failed to construct %v: %w", factory.Name(), err)
					}
					result, err := RunScenario(arr, scenario, n, s.seed)
					if err != nil {
						return fmt.Errorf("failed to run %v on %v: %w", scenario, factory.Name(), err)
					}
					if err := writer.WriteRow(factory.Name(), scenario, n, s.seed, rep, result, arr.Counters()); err != nil {
						return err
					}
					Logger.Infof("%v %v N=%v rep=%v: %v ops in %vns (%.4f ns/op)",
						factory.Name(), scenario, n, rep, result.Ops, result.TotalNs, result.NsPerOp)
				}
			}
		}
	}
	Logger.Infof("measurement batch finished, results saved to %v", s.outfile)
	return nil
}

// Analyze pools every configured result file, aggregates to medians and
// derives break-even estimates for each target scenario.
func (s *System) Analyze(info SysInfo) error {
	samples, err := LoadSamples(s.inputs)
	if err != nil {
		return err
	}
	agg, err := Aggregate(samples)
	if err != nil {
		return fmt.Errorf("aggregation failed: %w", err)
	}
	if err := WriteAggregate(s.aggfile, agg); err != nil {
		return err
	}
	Logger.Infof("aggregated %v samples into %v rows at %v", len(samples), len(agg), s.aggfile)

	estimates := make([]BreakEvenEstimate, 0)
	for i, scenario := range s.targets {
		local := BreakEven(agg, scenario, s.baseline, s.compare)
		if err := WriteBreakEven(s.befile, local, i > 0); err != nil {
			return err
		}
		s.logBreakEven(local)
		estimates = append(estimates, local...)
	}
	Logger.Infof("break-even estimates saved to %v", s.befile)

	if s.storage != nil {
		if err := s.storage.Publish(info, agg, estimates); err != nil {
			Logger.Errorf("failed to publish results, they remain on disk: %v", err)
		}
	}
	return nil
}

func (s *System) logBreakEven(estimates []BreakEvenEstimate) {
	for _, e := range estimates {
		switch {
		case math.IsInf(e.BreakEvenOps, 1):
			Logger.Infof("%v N=%v %v vs %v: per-op faster and init cheaper, wins for all M", e.Scenario, e.N, e.Impl, e.Baseline)
		case math.IsNaN(e.BreakEvenOps):
			Logger.Infof("%v N=%v %v vs %v: insufficient data", e.Scenario, e.N, e.Impl, e.Baseline)
		default:
			Logger.Infof("%v N=%v %v vs %v: M* = %.0f ops after init", e.Scenario, e.N, e.Impl, e.Baseline, e.BreakEvenOps)
		}
	}
}
