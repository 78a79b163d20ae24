package main

import (
	"fmt"
	"time"
)

// InplaceBlock4 refines the block-2 scheme to four-word blocks so that a
// chained pair can carry three displaced payload words, leaving room to pack
// the init value and the boundary b into the last block. Once every block has
// been written the flag flips and the structure degenerates to a flat array.
type InplaceBlock4 struct {
	n       int
	nBlocks int
	a       []int64
	b       int
	initv   int64
	flag    bool
	ctr     Counters
}

type InplaceBlock4Factory struct{}

func (f *InplaceBlock4Factory) Name() string { return "go_inplace_block4" }
func (f *InplaceBlock4Factory) New(n int) (Array, error) {
	if n <= 0 {
		return nil, fmt.Errorf("size must be positive, got %v", n)
	}
	if n%4 != 0 {
		return nil, fmt.Errorf("block-4 layout requires size divisible by 4, got %v", n)
	}
	return &InplaceBlock4{n: n, nBlocks: n / 4, a: make([]int64, n)}, nil
}

func (s *InplaceBlock4) Name() string { return "go_inplace_block4" }
func (s *InplaceBlock4) Size() int    { return s.n }

func (s *InplaceBlock4) Init(v int64) int64 {
	start := time.Now()
	s.ctr.Inits++
	s.initv = v
	s.b = 0
	s.flag = s.nBlocks == 0
	s.syncMeta()
	return time.Since(start).Nanoseconds()
}

func (s *InplaceBlock4) Read(i int) int64     { return s.readAt(i) }
func (s *InplaceBlock4) Write(i int, v int64) { s.writeAt(i, v) }
func (s *InplaceBlock4) Counters() Counters   { return s.ctr }

func (s *InplaceBlock4) blockOf(i int) int   { return i >> 2 }
func (s *InplaceBlock4) firstOf(blk int) int { return blk << 2 }

// syncMeta mirrors initv and b into the tail block while the structure is
// still chained; once flag is set the tail block holds ordinary data.
func (s *InplaceBlock4) syncMeta() {
	s.flag = s.b >= s.nBlocks
	if !s.flag {
		mb := s.nBlocks - 1
		s.a[s.firstOf(mb)+1] = s.initv
		s.a[s.firstOf(mb)+2] = int64(s.b)
	}
}

func (s *InplaceBlock4) chainedTo(bi int) int {
	k0 := s.a[s.firstOf(bi)]
	if k0&3 != 0 {
		return -1
	}
	if k0 < 0 || int(k0) >= s.n {
		return -1
	}
	k := int(k0) >> 2
	cross := (bi < s.b && k >= s.b) || (k < s.b && bi >= s.b)
	if !cross {
		return -1
	}
	if s.a[int(k0)] != int64(s.firstOf(bi)) {
		return -1
	}
	return k
}

func (s *InplaceBlock4) makeChain(bi, bj int) {
	s.a[s.firstOf(bi)] = int64(s.firstOf(bj))
	s.a[s.firstOf(bj)] = int64(s.firstOf(bi))
	s.ctr.Conversions++
}

func (s *InplaceBlock4) breakChain(bi int) {
	if k := s.chainedTo(bi); k >= 0 {
		s.a[s.firstOf(k)] = int64(s.firstOf(k))
		s.ctr.Conversions++
	}
}

func (s *InplaceBlock4) initBlock(bi int) {
	base := s.firstOf(bi)
	s.a[base] = s.initv
	s.a[base+1] = s.initv
	s.a[base+2] = s.initv
	s.a[base+3] = s.initv
}

func (s *InplaceBlock4) extend() int {
	b0 := s.b
	k := s.chainedTo(b0)
	s.b++
	if k < 0 {
		s.initBlock(b0)
		s.breakChain(b0)
		s.syncMeta()
		return b0
	}
	s.a[s.firstOf(b0)] = s.a[s.firstOf(k)+1]
	s.a[s.firstOf(b0)+1] = s.a[s.firstOf(k)+2]
	s.a[s.firstOf(b0)+2] = s.a[s.firstOf(k)+3]
	s.breakChain(b0)
	s.initBlock(k)
	s.breakChain(k)
	s.ctr.Relocations++
	s.syncMeta()
	return k
}

func (s *InplaceBlock4) readAt(i int) int64 {
	if s.flag {
		return s.a[i]
	}
	bi := s.blockOf(i)
	k := s.chainedTo(bi)
	if i < 4*s.b {
		if k >= 0 {
			return s.initv
		}
		return s.a[i]
	}
	if k >= 0 {
		switch i & 3 {
		case 0:
			return s.a[s.firstOf(k)+1]
		case 1:
			return s.a[s.firstOf(k)+2]
		case 2:
			return s.a[s.firstOf(k)+3]
		}
		return s.a[i]
	}
	return s.initv
}

func (s *InplaceBlock4) writeAt(i int, v int64) {
	if s.flag {
		s.a[i] = v
		return
	}
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
		for t := 0; t < 4; t++ {
			s.a[s.firstOf(bj)+t], s.a[s.firstOf(bi)+t] = s.a[s.firstOf(bi)+t], s.a[s.firstOf(bj)+t]
		}
		s.ctr.Relocations++
		s.makeChain(bj, k)
		s.initBlock(bi)
		s.a[i] = v
		s.breakChain(bi)
		return
	}

	if k >= 0 {
		switch i & 3 {
		case 0:
			s.a[s.firstOf(k)+1] = v
		case 1:
			s.a[s.firstOf(k)+2] = v
		case 2:
			s.a[s.firstOf(k)+3] = v
		case 3:
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
	switch i & 3 {
	case 0:
		s.a[s.firstOf(bk)+1] = v
	case 1:
		s.a[s.firstOf(bk)+2] = v
	case 2:
		s.a[s.firstOf(bk)+3] = v
	case 3:
		s.a[i] = v
	}
}
