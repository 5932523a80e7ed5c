// Copyright 2026 the RVLab Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package rvclk

import (
	"errors"
)

var (
	// ErrDivisionByZero is returned when the low byte of the safety seed is
	// zero. The signature cannot be computed for such a seed.
	ErrDivisionByZero = errors.New("safety seed has a zero low byte, signature would divide by zero")

	// ErrGatedDomain is returned when the system clock is written through the
	// plain divider setter instead of SetSysclock.
	ErrGatedDomain = errors.New("system clock divider must be changed with SetSysclock")

	ErrUnknownDomain = errors.New("unknown clock domain")
)
