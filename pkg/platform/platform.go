// Copyright 2026 the RVLab Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package platform opens the clock block the commands operate on, either
// the real one through /dev/mem or a simulated register file.
package platform

import (
	"errors"
	"flag"
	"os"

	"github.com/rvlab/rvlab-go/config"
	"github.com/rvlab/rvlab-go/pkg/logger"
	"github.com/rvlab/rvlab-go/pkg/rvclk"
	"github.com/spf13/afero"
)

var (
	log = logger.LogContainer.GetSimpleLogger()

	simulate = flag.Bool("sim", false, "Use a simulated register file instead of /dev/mem")
	simState = flag.String("sim_state", "", "Load the simulated registers from this file and save them on exit")
)

// Platform owns the opened clock block.
type Platform struct {
	Clk *rvclk.Clk

	fs    afero.Fs
	sim   *rvclk.SimMemory
	state string
}

// Open honours the -sim and -sim_state flags.
func Open(c config.Clock) (*Platform, error) {
	if *simulate {
		return OpenSim(afero.NewOsFs(), c, *simState)
	}
	clk, err := rvclk.Open(c.Base)
	if err != nil {
		return nil, err
	}
	return &Platform{Clk: clk}, nil
}

// OpenSim opens a simulated clock block. If state names an existing file
// the registers are loaded from it.
func OpenSim(fs afero.Fs, c config.Clock, state string) (*Platform, error) {
	sim := rvclk.NewSimMemory(c.Base, nil)
	if state != "" {
		err := sim.LoadSnapshot(fs, state)
		switch {
		case errors.Is(err, os.ErrNotExist):
			log.Infow("no simulator state yet, starting from reset values", "file", state)
		case err != nil:
			return nil, err
		}
	}
	return &Platform{
		Clk:   rvclk.OpenWithMemory(sim, c.Base),
		fs:    fs,
		sim:   sim,
		state: state,
	}, nil
}

// Simulated reports whether the registers are simulated.
func (p *Platform) Simulated() bool {
	return p.sim != nil
}

// Close releases the register port and saves the simulator state.
func (p *Platform) Close() error {
	p.Clk.Close()
	if p.sim == nil || p.state == "" {
		return nil
	}
	return p.sim.SaveSnapshot(p.fs, p.state)
}
