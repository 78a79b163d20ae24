package main

import (
	"fmt"
	"time"
)

// MapArray backs the container with a map. It exists as a deliberately
// cache-hostile comparison point, not as a serious contender.
type MapArray struct {
	n   int
	a   map[int]int64
	ctr Counters
}

type MapFactory struct{}

func (f *MapFactory) Name() string { return "go_map_int64" }
func (f *MapFactory) New(n int) (Array, error) {
	if n <= 0 {
		return nil, fmt.Errorf("size must be positive, got %v", n)
	}
	return &MapArray{n: n, a: make(map[int]int64, n)}, nil
}

func (m *MapArray) Name() string { return "go_map_int64" }
func (m *MapArray) Size() int    { return m.n }
func (m *MapArray) Init(v int64) int64 {
	m.ctr.Inits++
	start := time.Now()
	for i := 0; i < m.n; i++ {
		m.a[i] = v
	}
	return time.Since(start).Nanoseconds()
}
func (m *MapArray) Read(i int) int64     { return m.a[i] }
func (m *MapArray) Write(i int, v int64) { m.a[i] = v }
func (m *MapArray) Counters() Counters   { return m.ctr }
