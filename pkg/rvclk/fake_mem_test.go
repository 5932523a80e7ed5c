// Copyright 2026 the RVLab Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package rvclk

import (
	"fmt"
	"testing"
)

type op struct {
	write   bool
	fence   bool
	address uintptr
	data32  uint32
}

// fakeMem replays a script of expected register operations and fails the
// test on any access that does not match the next entry.
type fakeMem struct {
	t   *testing.T
	ops []op
}

func opstr(o *op) string {
	if o.fence {
		return "{fence}"
	}
	t := "read"
	if o.write {
		t = "write"
	}
	return fmt.Sprintf("{%s @ %08x = %08x}", t, o.address, o.data32)
}

func (m *fakeMem) next(got string) (op, bool) {
	m.t.Helper()
	if len(m.ops) == 0 {
		m.t.Errorf("Expected no more operations, got %s", got)
		return op{}, false
	}
	o := m.ops[0]
	m.ops = m.ops[1:]
	return o, true
}

func (m *fakeMem) MustRead32(a uintptr) uint32 {
	m.t.Helper()
	o, ok := m.next(fmt.Sprintf("32 bit read on %08x", a))
	if !ok {
		return 0
	}
	if o.write || o.fence || o.address != a {
		m.t.Errorf("Expected %s, got 32 bit read on %08x", opstr(&o), a)
	}
	return o.data32
}

func (m *fakeMem) MustWrite32(a uintptr, d uint32) {
	m.t.Helper()
	o, ok := m.next(fmt.Sprintf("32 bit write of %08x on %08x", d, a))
	if !ok {
		return
	}
	if !o.write || o.address != a || o.data32 != d {
		m.t.Errorf("Expected %s, got 32 bit write of %08x on %08x", opstr(&o), d, a)
	}
}

func (m *fakeMem) Fence() {
	m.t.Helper()
	o, ok := m.next("fence")
	if !ok {
		return
	}
	if !o.fence {
		m.t.Errorf("Expected %s, got fence", opstr(&o))
	}
}

func (m *fakeMem) ExpectWrite32(a uintptr, d uint32) {
	m.ops = append(m.ops, op{write: true, address: a, data32: d})
}

func (m *fakeMem) ExpectFence() {
	m.ops = append(m.ops, op{fence: true})
}

func (m *fakeMem) FakeRead32(a uintptr, d uint32) {
	m.ops = append(m.ops, op{address: a, data32: d})
}

// Done fails the test if scripted operations were not performed.
func (m *fakeMem) Done() {
	m.t.Helper()
	for i := range m.ops {
		m.t.Errorf("Expected %s, never happened", opstr(&m.ops[i]))
	}
	m.ops = nil
}

func (m *fakeMem) Close() {
}

func fakeMemory(t *testing.T) *fakeMem {
	return &fakeMem{t, make([]op, 0)}
}
