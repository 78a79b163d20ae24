package main

import (
	"fmt"
	"time"
)

// SliceArray is the plain []int64 baseline for the Go runtime.
type SliceArray struct {
	n   int
	a   []int64
	ctr Counters
}

type SliceFactory struct{}

func (f *SliceFactory) Name() string { return "go_slice_int64" }
func (f *SliceFactory) New(n int) (Array, error) {
	if n <= 0 {
		return nil, fmt.Errorf("size must be positive, got %v", n)
	}
	return &SliceArray{n: n, a: make([]int64, n)}, nil
}

func (s *SliceArray) Name() string { return "go_slice_int64" }
func (s *SliceArray) Size() int    { return s.n }
func (s *SliceArray) Init(v int64) int64 {
	s.ctr.Inits++
	start := time.Now()
	for i := range s.a {
		s.a[i] = v
	}
	return time.Since(start).Nanoseconds()
}
func (s *SliceArray) Read(i int) int64     { return s.a[i] }
func (s *SliceArray) Write(i int, v int64) { s.a[i] = v }
func (s *SliceArray) Counters() Counters   { return s.ctr }
