package main

import (
	"fmt"
	"time"
)

// InplaceBlock2 is an array with constant-time Init. The backing store is
// split into blocks of two words. Blocks left of the boundary b are either
// written or chained to an unwritten block right of the boundary; a chained
// pair stores mutual back-pointers in the first word of each block, and the
// displaced payload lives in the second word of the far block. Reads resolve
// through the chain; everything not reachable as written data reads as the
// last Init value.
type InplaceBlock2 struct {
	n       int
	nBlocks int
	a       []int64
	b       int
	initv   int64
	ctr     Counters
}

type InplaceBlock2Factory struct{}

func (f *InplaceBlock2Factory) Name() string { return "go_inplace_block2" }
func (f *InplaceBlock2Factory) New(n int) (Array, error) {
	if n <= 0 {
		return nil, fmt.Errorf("size must be positive, got %v", n)
	}
	if n%2 != 0 {
		return nil, fmt.Errorf("block-2 layout requires even size, got %v", n)
	}
	return &InplaceBlock2{n: n, nBlocks: n / 2, a: make([]int64, n)}, nil
}

func (s *InplaceBlock2) Name() string { return "go_inplace_block2" }
func (s *InplaceBlock2) Size() int    { return s.n }

func (s *InplaceBlock2) Init(v int64) int64 {
	start := time.Now()
	s.ctr.Inits++
	s.initv = v
	s.b = 0
	return time.Since(start).Nanoseconds()
}

func (s *InplaceBlock2) Read(i int) int64     { return s.readAt(i) }
func (s *InplaceBlock2) Write(i int, v int64) { s.writeAt(i, v) }

func (s *InplaceBlock2) Counters() Counters { return s.ctr }

func (s *InplaceBlock2) blockOf(i int) int   { return i >> 1 }
func (s *InplaceBlock2) firstOf(blk int) int { return blk << 1 }

// chainedTo reports the block bi is chained with, or -1. A chain is only
// valid when the pointers are mutual and the pair crosses the boundary b.
func (s *InplaceBlock2) chainedTo(bi int) int {
	k0 := s.a[s.firstOf(bi)]
	if k0&1 != 0 {
		return -1
	}
	if k0 < 0 || int(k0) >= s.n {
		return -1
	}
	k := int(k0) >> 1
	cross := (bi < s.b && k >= s.b) || (k < s.b && bi >= s.b)
	if !cross {
		return -1
	}
	if s.a[int(k0)] != int64(s.firstOf(bi)) {
		return -1
	}
	return k
}

func (s *InplaceBlock2) makeChain(bi, bj int) {
	s.a[s.firstOf(bi)] = int64(s.firstOf(bj))
	s.a[s.firstOf(bj)] = int64(s.firstOf(bi))
	s.ctr.Conversions++
}

func (s *InplaceBlock2) breakChain(bi int) {
	if k := s.chainedTo(bi); k >= 0 {
		s.a[s.firstOf(k)] = int64(s.firstOf(k))
		s.ctr.Conversions++
	}
}

func (s *InplaceBlock2) initBlock(bi int) {
	s.a[s.firstOf(bi)] = s.initv
	s.a[s.firstOf(bi)+1] = s.initv
}

// extend grows the written area by one block and returns the block whose
// payload now lives at the former boundary.
func (s *InplaceBlock2) extend() int {
	b0 := s.b
	k := s.chainedTo(b0)
	s.b++
	if k < 0 {
		s.initBlock(b0)
		s.breakChain(b0)
		return b0
	}
	s.a[s.firstOf(b0)] = s.a[s.firstOf(k)+1]
	s.breakChain(b0)
	s.initBlock(k)
	s.breakChain(k)
	s.ctr.Relocations++
	return k
}

func (s *InplaceBlock2) readAt(i int) int64 {
	bi := s.blockOf(i)
	k := s.chainedTo(bi)
	if i < 2*s.b {
		if k >= 0 {
			return s.initv
		}
		return s.a[i]
	}
	if k >= 0 {
		if i&1 == 0 {
			return s.a[s.firstOf(k)+1]
		}
		return s.a[i]
	}
	return s.initv
}

func (s *InplaceBlock2) writeAt(i int, v int64) {
	bi := s.blockOf(i)
	k := s.chainedTo(bi)

	if bi < s.b {
		if k < 0 {
			s.a[i] = v
			s.breakChain(bi)
			return
		}
		bj := s.extend()
		if bj == bi {
			s.a[i] = v
			s.breakChain(bi)
			return
		}
		s.a[s.firstOf(bj)], s.a[s.firstOf(bi)] = s.a[s.firstOf(bi)], s.a[s.firstOf(bj)]
		s.a[s.firstOf(bj)+1], s.a[s.firstOf(bi)+1] = s.a[s.firstOf(bi)+1], s.a[s.firstOf(bj)+1]
		s.ctr.Relocations++
		s.makeChain(bj, k)
		s.initBlock(bi)
		s.a[i] = v
		s.breakChain(bi)
		return
	}

	if k >= 0 {
		if i&1 == 0 {
			s.a[s.firstOf(k)+1] = v
		} else {
			s.a[i] = v
		}
		return
	}
	bk := s.extend()
	if bk == bi {
		s.a[i] = v
		s.breakChain(bi)
		return
	}
	s.initBlock(bi)
	s.makeChain(bk, bi)
	if i&1 == 0 {
		s.a[s.firstOf(bk)+1] = v
	} else {
		s.a[i] = v
	}
}
