// Copyright 2026 the RVLab Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package rvclk

import (
	"fmt"
)

// FaultCode is the reason the safety module gave for the last reset.
// Values other than the named ones are kept as is and reported as unknown.
type FaultCode uint32

const (
	FaultNone FaultCode = iota
	FaultFetchWaitTimeout
	FaultWrongSafetyData
	FaultVerificationTimeout
)

// Known reports whether the code is one of the named fault codes.
func (f FaultCode) Known() bool {
	return f <= FaultVerificationTimeout
}

// Code returns the raw status register value.
func (f FaultCode) Code() uint32 {
	return uint32(f)
}

func (f FaultCode) String() string {
	switch f {
	case FaultNone:
		return "00 No Error"
	case FaultFetchWaitTimeout:
		return "01 FetchWait Timeout"
	case FaultWrongSafetyData:
		return "10 Wrong Safety Data"
	case FaultVerificationTimeout:
		return "11 Verification Timeout"
	}
	return fmt.Sprintf("(Unknown error 0x%08x)", uint32(f))
}

// ClassifyBootFault reads the safety status register once. It is only
// meaningful right after reset.
func (c *Clk) ClassifyBootFault() FaultCode {
	f := FaultCode(c.Mem().MustRead32(c.reg(CLK_SAFETY_STATUS)))
	bootFault.Set(float64(f))
	if f != FaultNone {
		log.Warnw("safety module reset detected", "code", f.String())
	}
	return f
}
