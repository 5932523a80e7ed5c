// Copyright 2026 the RVLab Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

//go:build !linux
// +build !linux

package rvclk

import (
	"errors"
)

type hostMem struct {
	memProvider
}

func openHostMemory() (*hostMem, error) {
	return nil, errors.New("/dev/mem access is only supported on linux")
}
