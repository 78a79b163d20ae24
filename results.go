package main

import (
	"encoding/csv"
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"
	"time"
)

// ResultHeader is the shared raw schema; every driver (C++, Python, Rust and
// this harness) emits exactly these columns in this order.
var ResultHeader = []string{
	"timestamp_iso", "impl_name", "scenario", "N", "seed", "rep_id",
	"ops_in_run", "total_time_ns", "ns_per_op", "init_time_ns_if_recorded",
	"relocations_count", "conversions_count",
}

// Sample is one pooled raw measurement row. Numeric fields are floats because
// rows arriving from other drivers may fail coercion, in which case the field
// is NaN and the row is kept.
type Sample struct {
	Timestamp   string
	ImplName    string
	Scenario    string
	N           float64
	Seed        float64
	RepID       float64
	Ops         float64
	TotalNs     float64
	NsPerOp     float64
	InitNs      float64
	Relocations float64
	Conversions float64
}

// ResultWriter appends raw rows to a CSV file, flushing after every row so an
// interrupted run loses at most the row in flight.
type ResultWriter struct {
	file *os.File
	w    *csv.Writer
}

func NewResultWriter(path string) (*ResultWriter, error) {
	file, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("failed to create results file %v: %w", path, err)
	}
	w := csv.NewWriter(file)
	if err := w.Write(ResultHeader); err != nil {
		file.Close()
		return nil, fmt.Errorf("failed to write results header: %w", err)
	}
	w.Flush()
	return &ResultWriter{file: file, w: w}, nil
}

func (r *ResultWriter) WriteRow(impl string, scenario string, n int, seed int64, rep int, result WorkloadResult, ctr Counters) error {
	record := []string{
		time.Now().UTC().Format(time.RFC3339),
		impl,
		scenario,
		strconv.Itoa(n),
		strconv.FormatInt(seed, 10),
		strconv.Itoa(rep),
		strconv.Itoa(result.Ops),
		strconv.FormatInt(result.TotalNs, 10),
		fmt.Sprintf("%.4f", result.NsPerOp),
		strconv.FormatInt(result.InitNs, 10),
		strconv.FormatInt(ctr.Relocations, 10),
		strconv.FormatInt(ctr.Conversions, 10),
	}
	if err := r.w.Write(record); err != nil {
		return fmt.Errorf("failed to write result row: %w", err)
	}
	r.w.Flush()
	return r.w.Error()
}

func (r *ResultWriter) Close() error {
	r.w.Flush()
	return r.file.Close()
}

// coerce parses a numeric column, degrading to NaN instead of failing.
func coerce(s string) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return math.NaN()
	}
	return v
}

// LoadSamples pools raw rows from several result files. Files that do not
// exist are skipped; producers are independent so pooling is plain
// concatenation.
func LoadSamples(paths []string) ([]Sample, error) {
	samples := make([]Sample, 0)
	for _, path := range paths {
		file, err := os.Open(path)
		if os.IsNotExist(err) {
			Logger.Infof("results file %v not found, skipping", path)
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("failed to open results file %v: %w", path, err)
		}
		reader := csv.NewReader(file)
		reader.FieldsPerRecord = -1
		records, err := reader.ReadAll()
		file.Close()
		if err != nil {
			return nil, fmt.Errorf("failed to read results file %v: %w", path, err)
		}
		for _, rec := range records {
			if len(rec) < len(ResultHeader) || rec[0] == "timestamp_iso" {
				continue
			}
			samples = append(samples, Sample{
				Timestamp:   rec[0],
				ImplName:    rec[1],
				Scenario:    rec[2],
				N:           coerce(rec[3]),
				Seed:        coerce(rec[4]),
				RepID:       coerce(rec[5]),
				Ops:         coerce(rec[6]),
				TotalNs:     coerce(rec[7]),
				NsPerOp:     coerce(rec[8]),
				InitNs:      coerce(rec[9]),
				Relocations: coerce(rec[10]),
				Conversions: coerce(rec[11]),
			})
		}
		Logger.Infof("loaded results from %v, %v rows so far", path, len(samples))
	}
	return samples, nil
}

// ParseSizes parses a comma-separated size list with k/m/g suffixes.
func ParseSizes(s string) []int {
	sizes := make([]int, 0)
	for _, token := range strings.Split(s, ",") {
		token = strings.TrimSpace(token)
		if token == "" {
			continue
		}
		mult := 1.0
		switch {
		case strings.HasSuffix(token, "k"), strings.HasSuffix(token, "K"):
			token, mult = token[:len(token)-1], 1e3
		case strings.HasSuffix(token, "m"), strings.HasSuffix(token, "M"):
			token, mult = token[:len(token)-1], 1e6
		case strings.HasSuffix(token, "g"), strings.HasSuffix(token, "G"):
			token, mult = token[:len(token)-1], 1e9
		}
		value, err := strconv.ParseFloat(token, 64)
		if err != nil {
			Logger.Errorf("skipping malformed size token %v: %v", token, err)
			continue
		}
		sizes = append(sizes, int(value*mult))
	}
	return sizes
}
