// Copyright 2026 the RVLab Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package config

import (
	"github.com/rvlab/rvlab-go/pkg/rvclk"
)

// Set with -ldflags "-X github.com/rvlab/rvlab-go/config.gitVersion=..."
var (
	gitVersion = "devel"
	gitHash    = "unknown"
)

type Version struct {
	Version string
	GitHash string
}

type Clock struct {
	// Bus address of the variable clocking block.
	Base uintptr
	// Frequency the MMCM output dividers divide, in Hz.
	ReferenceHz uint64
}

// Frequency returns the output frequency for a divider, 0 for divider 0.
func (c Clock) Frequency(div uint32) uint64 {
	if div == 0 {
		return 0
	}
	return c.ReferenceHz / uint64(div)
}

type Console struct {
	// UART device for the monitor. Empty means the controlling terminal.
	Device string
	Baud   int
}

type Log struct {
	Debug bool
	// Additional JSON log output, empty to disable.
	File string
}

type Config struct {
	Clock   Clock
	Console Console
	// Listen addresses of the management service and the metrics endpoint.
	GrpcAddress    string
	MetricsAddress string
	Log            Log
	Version        Version
}

var DefaultConfig = &Config{
	Clock: Clock{
		Base: rvclk.CLK_BASE,
		// The MMCM VCO runs at 1 GHz, divider 20 gives the 50 MHz boot clock.
		ReferenceHz: 1000000000,
	},

	Console: Console{
		Device: "",
		Baud:   115200,
	},

	// Plaintext, the lab network is trusted. Use localhost to keep it private.
	GrpcAddress: "[::]:8370",

	// Same port the Prometheus exporter for the lab boards always used.
	MetricsAddress: "[::]:9370",

	Log: Log{
		Debug: false,
		File:  "",
	},

	Version: Version{
		Version: gitVersion,
		GitHash: gitHash,
	},
}
