package main

import (
	"context"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"github.com/joho/godotenv"
)

var (
	BENCHMARK_SIZES     = StringEnv("BENCHMARK_SIZES", "10000,100000,1000000")
	BENCHMARK_REPS      = IntEnv("BENCHMARK_REPS", 3)
	BENCHMARK_WARMUP    = IntEnv("BENCHMARK_WARMUP", 0)
	BENCHMARK_SEED      = Int64Env("BENCHMARK_SEED", 42)
	BENCHMARK_SCENARIOS = StringEnv("BENCHMARK_SCENARIOS", "")
	BENCHMARK_IMPLS     = StringEnv("BENCHMARK_IMPLS", "")
	BENCHMARK_OUTFILE   = StringEnv("BENCHMARK_OUTFILE", "go-results.csv")
	BENCHMARK_INPUTS    = StringEnv("BENCHMARK_INPUTS", "results.csv,python-results.csv,go-results.csv,rust-results.csv")
	BENCHMARK_BASELINE  = StringEnv("BENCHMARK_BASELINE", "std_vector")
	BENCHMARK_TARGETS   = StringEnv("BENCHMARK_TARGETS", "WRITE_RANDOM")
	BENCHMARK_COMPARE   = StringEnv("BENCHMARK_COMPARE", "")
	AGGREGATE_OUTFILE   = StringEnv("AGGREGATE_OUTFILE", "aggregate.csv")
	BREAK_EVEN_OUTFILE  = StringEnv("BREAK_EVEN_OUTFILE", "break_even.csv")
	TURSO_ORG_NAME      = StringEnv("TURSO_ORG_NAME", "")
	TURSO_GROUP_NAME    = StringEnv("TURSO_GROUP_NAME", "array-benchmark")
	TURSO_API_TOKEN     = StringEnv("TURSO_API_TOKEN", "")
	TURSO_AUTH_TOKEN    = StringEnv("TURSO_AUTH_TOKEN", "")
	TURSO_DB_NAME       = StringEnv("TURSO_DB_NAME", "")
)

func StringEnv(key string, def string) string {
	value, ok := os.LookupEnv(key)
	if !ok {
		return def
	}
	return value
}

func IntEnv(key string, def int) int {
	value, ok := os.LookupEnv(key)
	if !ok {
		return def
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return def
	}
	return parsed
}

func Int64Env(key string, def int64) int64 {
	value, ok := os.LookupEnv(key)
	if !ok {
		return def
	}
	parsed, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return def
	}
	return parsed
}

func splitList(s string) []string {
	items := make([]string, 0)
	for _, item := range strings.Split(s, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	return items
}

// AllFactories lists every implementation this harness can measure.
func AllFactories() []Factory {
	return []Factory{
		&SliceFactory{},
		&MapFactory{},
		&InplaceBlock2Factory{},
		&InplaceBlock4Factory{},
	}
}

func selectFactories(names []string) []Factory {
	all := AllFactories()
	if len(names) == 0 {
		return all
	}
	selected := make([]Factory, 0, len(names))
	for _, name := range names {
		found := false
		for _, factory := range all {
			if factory.Name() == name {
				selected = append(selected, factory)
				found = true
			}
		}
		if !found {
			Logger.Errorf("unknown implementation %v, skipping", name)
		}
	}
	return selected
}

func main() {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		Logger.Errorf("failed to load .env file: %v", err)
	}

	scenarios := splitList(BENCHMARK_SCENARIOS)
	if len(scenarios) == 0 {
		scenarios = Scenarios
	}

	var storage *Storage
	if TURSO_AUTH_TOKEN != "" {
		storage = &Storage{
			OrgName:   TURSO_ORG_NAME,
			GroupName: TURSO_GROUP_NAME,
			ApiToken:  TURSO_API_TOKEN,
			AuthToken: TURSO_AUTH_TOKEN,
			DbName:    TURSO_DB_NAME,
		}
	}

	system := &System{
		factories: selectFactories(splitList(BENCHMARK_IMPLS)),
		scenarios: scenarios,
		sizes:     ParseSizes(BENCHMARK_SIZES),
		seed:      BENCHMARK_SEED,
		reps:      BENCHMARK_REPS,
		warmup:    BENCHMARK_WARMUP,
		outfile:   BENCHMARK_OUTFILE,
		inputs:    splitList(BENCHMARK_INPUTS),
		baseline:  BENCHMARK_BASELINE,
		targets:   splitList(BENCHMARK_TARGETS),
		compare:   splitList(BENCHMARK_COMPARE),
		aggfile:   AGGREGATE_OUTFILE,
		befile:    BREAK_EVEN_OUTFILE,
		storage:   storage,
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := system.Run(ctx); err != nil {
		Logger.Fatalf("benchmark failed: %v", err)
	}
}
