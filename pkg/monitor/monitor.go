// Copyright 2026 the RVLab Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package monitor implements the interactive RVLab monitor: a small line
// editor and a table of commands for peeking and poking registers and
// changing clock dividers.
package monitor

import (
	"bufio"
	"errors"
	"fmt"
	"io"

	"github.com/google/shlex"
	"github.com/rvlab/rvlab-go/config"
	"github.com/rvlab/rvlab-go/pkg/logger"
	"github.com/rvlab/rvlab-go/pkg/rvclk"
)

var (
	log = logger.LogContainer.GetSimpleLogger()

	errQuit = errors.New("quit")
)

// Clock is the part of *rvclk.Clk the monitor uses.
type Clock interface {
	Sysclock() uint32
	SetSysclock(uint32) error
	Divider(rvclk.Domain) (uint32, error)
	SetDivider(rvclk.Domain, uint32) error
	ClassifyBootFault() rvclk.FaultCode
}

// Bus gives lw, sw and dump access to 32 bit words.
type Bus interface {
	MustRead32(uintptr) uint32
	MustWrite32(uintptr, uint32)
}

type Monitor struct {
	clk   Clock
	bus   Bus
	clock config.Clock
	in    *bufio.Reader
	out   io.Writer
}

func New(clk Clock, bus Bus, clock config.Clock, in io.Reader, out io.Writer) *Monitor {
	return &Monitor{
		clk:   clk,
		bus:   bus,
		clock: clock,
		in:    bufio.NewReader(in),
		out:   out,
	}
}

func (m *Monitor) printf(format string, a ...interface{}) {
	fmt.Fprintf(m.out, format, a...)
}

// Run reads and executes commands until quit or the end of input.
func (m *Monitor) Run() error {
	m.printf("Welcome to rvlab monitor.\n")
	for {
		line, err := m.readLine()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
		if err := m.Exec(line); err == errQuit {
			return nil
		}
	}
}

// Exec runs a single command line. It only returns an error for quit,
// problems are reported on the console.
func (m *Monitor) Exec(line string) error {
	args, err := shlex.Split(line)
	if err != nil {
		m.printf("Error: %v.\n", err)
		return nil
	}
	if len(args) == 0 {
		return nil
	}
	c := lookup(args[0])
	if c == nil {
		m.printf("Unknown command. Use 'help' for help.\n")
		return nil
	}
	switch {
	case len(args)-1 < c.nargs:
		m.printf("Too few arguments provided to %s.\n", c.name)
		return nil
	case len(args)-1 > c.nargs:
		m.printf("Too many arguments provided to %s.\n", c.name)
		return nil
	}
	return m.run(c, args)
}

// run keeps the monitor alive when a register access panics.
func (m *Monitor) run(c *command, args []string) (err error) {
	defer func() {
		if r := recover(); r != nil {
			log.Errorw("monitor command failed", "command", c.name, "panic", r)
			m.printf("Error: %v\n", r)
			err = nil
		}
	}()
	return c.run(m, args)
}
