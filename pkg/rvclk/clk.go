// Copyright 2026 the RVLab Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Library for the variable clocking block of the RVLab SoC.
//
// The system clock (sys_clk) is watched by a hardware safety module. Every
// change of its divider has to be confirmed by writing back a signature
// computed from a seed the hardware hands out. If the confirmation is late
// or wrong, the safety module resets the whole SoC and leaves an error code
// in the safety status register, which can be read after the reset with
// ClassifyBootFault. There is no other feedback: a successful SetSysclock
// only means the confirmation was written.
//
// The six auxiliary MMCM outputs are not monitored and can be changed
// freely.
//
// Call rvclk.Open() (or OpenWithMemory for a simulated register file) and
// Close() as the first and last thing before and after using the library.

package rvclk

import (
	"fmt"
	"sync"
)

type Clk struct {
	mem  memProvider
	base uintptr

	// Serializes the whole system clock sequence, see SetSysclock.
	sysclk sync.Mutex
}

// Open maps the clock block at base through /dev/mem.
func Open(base uintptr) (*Clk, error) {
	mem, err := openHostMemory()
	if err != nil {
		return nil, fmt.Errorf("open clock block at 0x%08x: %w", base, err)
	}
	return &Clk{mem: mem, base: base}, nil
}

func OpenWithMemory(mem memProvider, base uintptr) *Clk {
	return &Clk{mem: mem, base: base}
}

func (c *Clk) Close() {
	c.mem.Close()
}
