// Copyright 2026 the RVLab Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package rvclk

import (
	"fmt"
)

const (
	// Default location of the variable clocking block on the RVLab SoC.
	CLK_BASE uintptr = 0x1d000000

	CLK_DIV_SYS        uintptr = 0x100
	CLK_SAFETY_STATUS  uintptr = 0x108
	CLK_SAFETY_DUMMY   uintptr = 0x10C
	CLK_DIV_AUX_FIRST  uintptr = 0x110
	CLK_DIV_AUX_STRIDE uintptr = 0x10
)

var (
	clkRegs = map[uintptr]string{
		CLK_DIV_SYS:       "System Clock Divider",
		CLK_SAFETY_STATUS: "Clock Safety Status Register",
		CLK_SAFETY_DUMMY:  "Clock Safety Seed/Signature Register",
		0x110:             "Clock Divider #1",
		0x120:             "Clock Divider #2",
		0x130:             "Clock Divider #3",
		0x140:             "Clock Divider #4",
		0x150:             "Clock Divider #5",
		0x160:             "Clock Divider #6",
	}
)

// RegisterName returns a human readable name for a clock block offset.
func RegisterName(off uintptr) (string, error) {
	n, ok := clkRegs[off]
	if !ok {
		return "", fmt.Errorf("unknown clock register offset 0x%x", off)
	}
	return n, nil
}

func (c *Clk) reg(off uintptr) uintptr {
	return c.base + off
}
