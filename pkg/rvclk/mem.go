// Copyright 2026 the RVLab Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package rvclk

// memProvider is the register port of the clock block. Addresses are
// absolute bus addresses.
type memProvider interface {
	MustRead32(uintptr) uint32
	MustWrite32(uintptr, uint32)
	// Fence orders all preceding writes before any following access.
	Fence()
	Close()
}

func (c *Clk) Mem() memProvider {
	return c.mem
}
