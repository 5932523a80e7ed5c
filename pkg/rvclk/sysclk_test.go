// Copyright 2026 the RVLab Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package rvclk

import (
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"golang.org/x/sync/errgroup"
)

func TestSetSysclock(t *testing.T) {
	fm := fakeMemory(t)
	c := OpenWithMemory(fm, CLK_BASE)
	before := testutil.ToFloat64(sysclkResult(resultSigned))

	fm.ExpectWrite32(0x1d000100, 4)
	fm.ExpectFence()
	fm.FakeRead32(0x1d00010c, 0x00000001)
	fm.ExpectWrite32(0x1d00010c, 0x0004ec76)
	if err := c.SetSysclock(4); err != nil {
		t.Fatalf("SetSysclock(4): %v", err)
	}
	fm.Done()

	if got := testutil.ToFloat64(sysclkResult(resultSigned)) - before; got != 1 {
		t.Errorf("signed counter moved by %v, want 1", got)
	}
	if got := testutil.ToFloat64(sysclkDivider); got != 4 {
		t.Errorf("divider gauge = %v, want 4", got)
	}
}

func TestSetSysclockOtherBase(t *testing.T) {
	fm := fakeMemory(t)
	c := OpenWithMemory(fm, 0x40000000)
	fm.ExpectWrite32(0x40000100, 0xffffffff)
	fm.ExpectFence()
	fm.FakeRead32(0x4000010c, 0xdeadbeef)
	fm.ExpectWrite32(0x4000010c, 0x174af6dc)
	if err := c.SetSysclock(0xffffffff); err != nil {
		t.Fatalf("SetSysclock: %v", err)
	}
	fm.Done()
}

func TestSetSysclockZeroSeed(t *testing.T) {
	fm := fakeMemory(t)
	c := OpenWithMemory(fm, CLK_BASE)
	before := testutil.ToFloat64(sysclkResult(resultNoSignature))

	// The divider is already written, nothing goes back to the seed register.
	fm.ExpectWrite32(0x1d000100, 2)
	fm.ExpectFence()
	fm.FakeRead32(0x1d00010c, 0x00000100)
	err := c.SetSysclock(2)
	if !errors.Is(err, ErrDivisionByZero) {
		t.Fatalf("SetSysclock(2) error = %v, want ErrDivisionByZero", err)
	}
	fm.Done()

	if got := testutil.ToFloat64(sysclkResult(resultNoSignature)) - before; got != 1 {
		t.Errorf("no_signature counter moved by %v, want 1", got)
	}
}

func TestSysclock(t *testing.T) {
	fm := fakeMemory(t)
	c := OpenWithMemory(fm, CLK_BASE)
	fm.FakeRead32(0x1d000100, 10)
	if got := c.Sysclock(); got != 10 {
		t.Errorf("Sysclock() = %d, want 10", got)
	}
	fm.Done()
}

// For every seed the sequence is divider write, fence, seed read and
// signature write, in that order.
func TestSetSysclockSequence(t *testing.T) {
	seeds := []uint32{1, 2, 3, 0xff, 0x12345678, 0xffffcd95, 0xcafebabe}
	i := 0
	sim := NewSimMemory(CLK_BASE, func() uint32 {
		s := seeds[i%len(seeds)]
		i++
		return s
	})
	sim.EnableTrace()
	c := OpenWithMemory(sim, CLK_BASE)

	for n := 0; n < len(seeds); n++ {
		// The seed for this call is drawn by the divider write.
		seed := seeds[(n+1)%len(seeds)]
		sig, _ := Signature(seed)
		div := uint32(n + 1)
		if err := c.SetSysclock(div); err != nil {
			t.Fatalf("SetSysclock(%d): %v", div, err)
		}
		want := []SimOp{
			{Write: true, Address: 0x1d000100, Data: div},
			{Fence: true},
			{Address: 0x1d00010c, Data: seed},
			{Write: true, Address: 0x1d00010c, Data: sig},
		}
		if diff := cmp.Diff(want, sim.Ops()); diff != "" {
			t.Errorf("SetSysclock(%d) ops mismatch (-want +got):\n%s", div, diff)
		}
	}
}

// Concurrent callers must never sign a seed that was handed out for another
// caller's divider write.
func TestSetSysclockSerialized(t *testing.T) {
	var m sync.Mutex
	next := uint32(0x11)
	sim := NewSimMemory(CLK_BASE, func() uint32 {
		m.Lock()
		defer m.Unlock()
		next += 0x101
		if next&0xff == 0 {
			next++
		}
		return next
	})
	sim.EnableTrace()
	c := OpenWithMemory(sim, CLK_BASE)

	var g errgroup.Group
	for w := 0; w < 8; w++ {
		w := w
		g.Go(func() error {
			for n := 0; n < 200; n++ {
				if err := c.SetSysclock(uint32(w*1000 + n + 1)); err != nil {
					return fmt.Errorf("worker %d: %w", w, err)
				}
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		t.Fatal(err)
	}

	ops := sim.Ops()
	if len(ops) != 8*200*4 {
		t.Fatalf("got %d ops, want %d", len(ops), 8*200*4)
	}
	used := map[uint32]bool{}
	for i := 0; i < len(ops); i += 4 {
		wr, fence, rd, sig := ops[i], ops[i+1], ops[i+2], ops[i+3]
		if !wr.Write || wr.Address != 0x1d000100 || !fence.Fence || rd.Write || rd.Address != 0x1d00010c || !sig.Write {
			t.Fatalf("interleaved sequence at op %d: %v %v %v %v", i, wr, fence, rd, sig)
		}
		if used[rd.Data] {
			t.Fatalf("seed 0x%08x signed twice", rd.Data)
		}
		used[rd.Data] = true
		want, _ := Signature(rd.Data)
		if sig.Data != want {
			t.Fatalf("signature for seed 0x%08x = 0x%08x, want 0x%08x", rd.Data, sig.Data, want)
		}
	}
}
