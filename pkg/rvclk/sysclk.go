// Copyright 2026 the RVLab Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package rvclk

import (
	"fmt"

	"github.com/rvlab/rvlab-go/pkg/logger"
)

var (
	log = logger.LogContainer.GetSimpleLogger()
)

// Sysclock returns the current system clock divider.
func (c *Clk) Sysclock() uint32 {
	return c.Mem().MustRead32(c.reg(CLK_DIV_SYS))
}

// SetSysclock changes the system clock divider and confirms the change to
// the safety module.
//
// Once the divider is written the SoC is in an unverified state until the
// signature lands in the seed register; if that never happens the safety
// module resets the SoC after its timeout. A nil error therefore only means
// that the signature was written, not that the hardware accepted it. A
// rejected change shows up after the reset through ClassifyBootFault.
//
// If the seed cannot be signed (ErrDivisionByZero) the divider has already
// been written and nothing is written back.
func (c *Clk) SetSysclock(div uint32) error {
	c.sysclk.Lock()
	defer c.sysclk.Unlock()

	c.Mem().MustWrite32(c.reg(CLK_DIV_SYS), div)
	// The safety module only sees the new divider after this point, the
	// seed must not be read before it.
	c.Mem().Fence()

	seed := c.Mem().MustRead32(c.reg(CLK_SAFETY_DUMMY))
	sig, err := Signature(seed)
	if err != nil {
		sysclkResult(resultNoSignature).Inc()
		log.Warnw("sys_clk change left unconfirmed", "divider", div, "seed", fmt.Sprintf("0x%08x", seed), "err", err)
		return fmt.Errorf("set sys_clk divider %d: %w", div, err)
	}
	c.Mem().MustWrite32(c.reg(CLK_SAFETY_DUMMY), sig)

	sysclkResult(resultSigned).Inc()
	sysclkDivider.Set(float64(div))
	log.Debugw("sys_clk divider changed", "divider", div,
		"seed", fmt.Sprintf("0x%08x", seed), "signature", fmt.Sprintf("0x%08x", sig))
	return nil
}
