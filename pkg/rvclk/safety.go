// Copyright 2026 the RVLab Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package rvclk

const (
	// ShiftMask is applied to the shift amount of both shifts in Signature.
	// It mirrors a 32 bit barrel shifter that only looks at the low 5 bits
	// (RISC-V SLL/SRL). The derived shift amount is always within 0..15, so
	// the mask does not change any result today. Whether the safety module
	// would agree for wider shifts cannot be checked from software.
	ShiftMask = 31

	safetyOffset    uint32 = 0x326b
	safetyThreshold uint32 = 0xcba
	safetyFactor    uint32 = 25
	safetyMagic     uint32 = 0xbb22d947
)

// Signature computes the value the safety module expects back for seed.
// The steps have to match the hardware bit for bit, including all
// wraparounds.
func Signature(seed uint32) (uint32, error) {
	low := uint8(seed)
	inv := ^(low | 0xf0)
	shift := uint(inv) & ShiftMask

	s := seed + safetyOffset
	s <<= shift
	s -= uint32(low)
	s >>= shift

	var tmp uint8 = 0x24
	if s > safetyThreshold {
		tmp = low & 0x2
	}
	s |= uint32(tmp) << 2

	if low == 0 {
		return 0, ErrDivisionByZero
	}
	s /= uint32(low)
	s *= safetyFactor

	if s == safetyMagic {
		return s - 200, nil
	}
	return s + 3, nil
}
