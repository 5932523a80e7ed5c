// Copyright 2026 the RVLab Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// rvmon is the interactive RVLab monitor.
package main

import (
	"errors"
	"flag"
	"os"

	"github.com/rvlab/rvlab-go/config"
	"github.com/rvlab/rvlab-go/pkg/bootcheck"
	"github.com/rvlab/rvlab-go/pkg/logger"
	"github.com/rvlab/rvlab-go/pkg/monitor"
	"github.com/rvlab/rvlab-go/pkg/platform"
)

var (
	device      = flag.String("device", config.DefaultConfig.Console.Device, "UART to run the monitor on, empty for this terminal")
	baud        = flag.Int("baud", config.DefaultConfig.Console.Baud, "UART baud rate")
	debug       = flag.Bool("debug", config.DefaultConfig.Log.Debug, "Log register sequences")
	logFile     = flag.String("log_file", config.DefaultConfig.Log.File, "Also write JSON logs to this file")
	ignoreFault = flag.Bool("ignore_fault", false, "Start the monitor even after a safety reset")

	log = logger.LogContainer.GetSimpleLogger()
)

func main() {
	flag.Parse()
	os.Exit(run())
}

func run() int {
	logger.SetDebug(*debug)
	if err := logger.SetLogFile(*logFile); err != nil {
		log.Errorf("log file: %v", err)
		return 1
	}
	defer logger.SetLogFile("")

	p, err := platform.Open(config.DefaultConfig.Clock)
	if err != nil {
		log.Errorf("open clock block: %v", err)
		return 1
	}
	defer func() {
		if err := p.Close(); err != nil {
			log.Errorf("close clock block: %v", err)
		}
	}()

	con, err := openConsole(*device, *baud)
	if err != nil {
		log.Errorf("open console: %v", err)
		return 1
	}
	defer con.close()
	out := con.out

	if _, err := bootcheck.Check(p.Clk, out, bootcheck.Options{Color: con.color}); err != nil {
		if !errors.Is(err, bootcheck.ErrSafetyReset) || !*ignoreFault {
			log.Errorf("boot check: %v", err)
			return 2
		}
	}

	m := monitor.New(p.Clk, p.Clk.Mem(), config.DefaultConfig.Clock, con.in, out)
	if err := m.Run(); err != nil {
		log.Errorf("monitor: %v", err)
		return 1
	}
	return 0
}
