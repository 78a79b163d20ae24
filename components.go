package main

// Counters collects bookkeeping totals an implementation may track while
// serving operations. Relocations and Conversions are meaningful only for the
// in-place chained arrays; everything else reports them as zero.
type Counters struct {
	Inits       int64
	Relocations int64
	Conversions int64
}

// Array is the capability every container under comparison must expose.
// Init returns the elapsed nanoseconds of the fill itself so the harness can
// record init cost separately from the surrounding scenario loop.
type Array interface {
	Name() string
	Size() int
	Init(v int64) int64
	Read(i int) int64
	Write(i int, v int64)
	Counters() Counters
}

// Factory constructs a sized Array instance. A construction error skips the
// implementation for the whole batch instead of failing the run.
type Factory interface {
	Name() string
	New(n int) (Array, error)
}
