// Copyright 2026 the RVLab Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package rvclk

import (
	"encoding/json"
	"fmt"
	"math/rand"
	"strconv"
	"sync"
	"time"

	"github.com/spf13/afero"
)

// SimOp is one access seen by a SimMemory with tracing enabled.
type SimOp struct {
	Write   bool
	Fence   bool
	Address uintptr
	Data    uint32
}

func (o SimOp) String() string {
	switch {
	case o.Fence:
		return "{fence}"
	case o.Write:
		return fmt.Sprintf("{write @ %08x = %08x}", o.Address, o.Data)
	}
	return fmt.Sprintf("{read @ %08x = %08x}", o.Address, o.Data)
}

// SimMemory is a register file for running without hardware. Unwritten
// registers read as zero. A fresh safety seed is drawn from the seed
// source every time the system clock divider is written; the signature
// written back is stored but not checked.
type SimMemory struct {
	m      sync.Mutex
	base   uintptr
	regs   map[uintptr]uint32
	seeds  func() uint32
	trace  bool
	ops    []SimOp
	fences int
}

// NewSimMemory returns a register file for a clock block at base. A nil
// seeds function draws seeds from math/rand.
func NewSimMemory(base uintptr, seeds func() uint32) *SimMemory {
	if seeds == nil {
		r := rand.New(rand.NewSource(time.Now().UnixNano()))
		seeds = r.Uint32
	}
	s := &SimMemory{
		base:  base,
		regs:  make(map[uintptr]uint32),
		seeds: seeds,
	}
	s.regs[base+CLK_SAFETY_DUMMY] = seeds()
	return s
}

// EnableTrace starts recording accesses, see Ops.
func (s *SimMemory) EnableTrace() {
	s.m.Lock()
	defer s.m.Unlock()
	s.trace = true
}

// Ops returns the recorded accesses and clears the record.
func (s *SimMemory) Ops() []SimOp {
	s.m.Lock()
	defer s.m.Unlock()
	ops := s.ops
	s.ops = nil
	return ops
}

func (s *SimMemory) Fences() int {
	s.m.Lock()
	defer s.m.Unlock()
	return s.fences
}

func (s *SimMemory) record(o SimOp) {
	if s.trace {
		s.ops = append(s.ops, o)
	}
}

func (s *SimMemory) MustRead32(a uintptr) uint32 {
	s.m.Lock()
	defer s.m.Unlock()
	d := s.regs[a]
	s.record(SimOp{Address: a, Data: d})
	return d
}

func (s *SimMemory) MustWrite32(a uintptr, d uint32) {
	s.m.Lock()
	defer s.m.Unlock()
	s.regs[a] = d
	s.record(SimOp{Write: true, Address: a, Data: d})
	if a == s.base+CLK_DIV_SYS {
		s.regs[s.base+CLK_SAFETY_DUMMY] = s.seeds()
	}
}

func (s *SimMemory) Fence() {
	s.m.Lock()
	defer s.m.Unlock()
	s.fences++
	s.record(SimOp{Fence: true})
}

func (s *SimMemory) Close() {
}

// Snapshots are JSON objects mapping "0x%08x" addresses to values.

// LoadSnapshot replaces the register contents with the ones stored at path.
func (s *SimMemory) LoadSnapshot(fs afero.Fs, path string) error {
	b, err := afero.ReadFile(fs, path)
	if err != nil {
		return err
	}
	raw := map[string]uint32{}
	if err := json.Unmarshal(b, &raw); err != nil {
		return fmt.Errorf("parse register snapshot %s: %w", path, err)
	}
	regs := make(map[uintptr]uint32, len(raw))
	for k, v := range raw {
		a, err := strconv.ParseUint(k, 0, 64)
		if err != nil {
			return fmt.Errorf("parse register snapshot %s: bad address %q", path, k)
		}
		regs[uintptr(a)] = v
	}
	s.m.Lock()
	defer s.m.Unlock()
	s.regs = regs
	return nil
}

// SaveSnapshot writes all registers that have been set to path.
func (s *SimMemory) SaveSnapshot(fs afero.Fs, path string) error {
	s.m.Lock()
	raw := make(map[string]uint32, len(s.regs))
	for a, v := range s.regs {
		raw[fmt.Sprintf("0x%08x", a)] = v
	}
	s.m.Unlock()

	b, err := json.MarshalIndent(raw, "", "  ")
	if err != nil {
		return err
	}
	return afero.WriteFile(fs, path, append(b, '\n'), 0644)
}
