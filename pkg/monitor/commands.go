// Copyright 2026 the RVLab Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package monitor

import (
	"errors"
	"strconv"
	"strings"

	"github.com/rvlab/rvlab-go/pkg/rvclk"
)

type command struct {
	name  string
	help  string
	nargs int
	run   func(m *Monitor, args []string) error
}

var commands []command

func init() {
	commands = []command{
		{"help", ": Print help.", 0, cmdHelp},
		{"lw", " ADDR: Load word.", 1, cmdLw},
		{"sw", " ADDR DATA: Store word.", 2, cmdSw},
		{"dump", " ADDR BYTES: Dump memory.", 2, cmdDump},
		{"sysclk_get", ": Get sys_clk clock divisor.", 0, cmdSysclkGet},
		{"sysclk_set", " DIV: Set sys_clk clock divisor.", 1, cmdSysclkSet},
		{"clk_get", " N: Get divisor of auxiliary clock N (1-6).", 1, cmdClkGet},
		{"clk_set", " N DIV: Set divisor of auxiliary clock N (1-6).", 2, cmdClkSet},
		{"bootstatus", ": Show why the SoC was last reset by the safety module.", 0, cmdBootStatus},
		{"quit", ": Exit the program", 0, cmdQuit},
	}
}

func lookup(name string) *command {
	for i := range commands {
		if commands[i].name == name {
			return &commands[i]
		}
	}
	return nil
}

// ParseNumber reads a 32 bit number the way strtoul(s, &end, 0) does with
// a check for trailing garbage: 0x or 0X for hex, a leading 0 for octal,
// decimal otherwise. Go only forms like 0b, 0o and digit separators are
// rejected.
func ParseNumber(s string) (uint32, bool) {
	if strings.ContainsRune(s, '_') {
		return 0, false
	}
	base := 10
	switch {
	case len(s) > 1 && s[0] == '0' && (s[1] == 'x' || s[1] == 'X'):
		s, base = s[2:], 16
	case len(s) > 1 && s[0] == '0':
		s, base = s[1:], 8
	}
	v, err := strconv.ParseUint(s, base, 32)
	if err != nil {
		return 0, false
	}
	return uint32(v), true
}

func (m *Monitor) parseAddr(s string) (uintptr, bool) {
	a, ok := ParseNumber(s)
	if !ok {
		m.printf("Error: Failed to parse ADDR.\n")
		return 0, false
	}
	if a%4 != 0 {
		m.printf("Error: ADDR must be word aligned.\n")
		return 0, false
	}
	return uintptr(a), true
}

// regName names clock block registers for lw and sw.
func (m *Monitor) regName(a uintptr) string {
	if a < m.clock.Base {
		return ""
	}
	n, err := rvclk.RegisterName(a - m.clock.Base)
	if err != nil {
		return ""
	}
	return " (" + n + ")"
}

func cmdHelp(m *Monitor, args []string) error {
	m.printf("Help:\n")
	for _, c := range commands {
		m.printf("\t%s%s\n", c.name, c.help)
	}
	return nil
}

func cmdLw(m *Monitor, args []string) error {
	a, ok := m.parseAddr(args[1])
	if !ok {
		return nil
	}
	m.printf("read 0x%08x: 0x%08x%s\n", a, m.bus.MustRead32(a), m.regName(a))
	return nil
}

func cmdSw(m *Monitor, args []string) error {
	a, ok := m.parseAddr(args[1])
	if !ok {
		return nil
	}
	d, ok := ParseNumber(args[2])
	if !ok {
		m.printf("Error: Failed to parse DATA.\n")
		return nil
	}
	m.bus.MustWrite32(a, d)
	m.printf("wrote 0x%08x: 0x%08x%s\n", a, d, m.regName(a))
	return nil
}

// cmdDump prints bytes, 16 per row, reading whole little endian words.
func cmdDump(m *Monitor, args []string) error {
	a, ok := ParseNumber(args[1])
	if !ok {
		m.printf("Error: Failed to parse ADDR.\n")
		return nil
	}
	n, ok := ParseNumber(args[2])
	if !ok {
		m.printf("Error: Failed to parse BYTES.\n")
		return nil
	}
	addr := uintptr(a)
	var word uint32
	for i := uint32(0); i < n; i++ {
		if i == 0 || addr%4 == 0 {
			word = m.bus.MustRead32(addr &^ 3)
		}
		if i&0xf == 0 {
			m.printf("\n%08x:", addr)
		}
		m.printf(" %02x", uint8(word>>(8*(addr%4))))
		addr++
	}
	m.printf("\n")
	return nil
}

func cmdSysclkGet(m *Monitor, args []string) error {
	div := m.clk.Sysclock()
	m.printf("sys_clk divider value: %d (%d Hz)\n", div, m.clock.Frequency(div))
	return nil
}

func cmdSysclkSet(m *Monitor, args []string) error {
	div, ok := ParseNumber(args[1])
	if !ok {
		m.printf("Error: Failed to parse DIV.\n")
		return nil
	}
	if err := m.clk.SetSysclock(div); err != nil {
		if errors.Is(err, rvclk.ErrDivisionByZero) {
			m.printf("Error: %v.\nThe divider is written but unconfirmed, expect a safety reset.\n", err)
			return nil
		}
		m.printf("Error: %v.\n", err)
		return nil
	}
	m.printf("updated system clock divisor to %d.\n", div)
	return nil
}

func (m *Monitor) parseAux(s string) (rvclk.Domain, bool) {
	n, ok := ParseNumber(s)
	if !ok || n < 1 || n > 6 {
		m.printf("Error: Failed to parse N.\n")
		return 0, false
	}
	return rvclk.Domain(n), true
}

func cmdClkGet(m *Monitor, args []string) error {
	d, ok := m.parseAux(args[1])
	if !ok {
		return nil
	}
	div, err := m.clk.Divider(d)
	if err != nil {
		m.printf("Error: %v.\n", err)
		return nil
	}
	m.printf("%s divider value: %d (%d Hz)\n", d, div, m.clock.Frequency(div))
	return nil
}

func cmdClkSet(m *Monitor, args []string) error {
	d, ok := m.parseAux(args[1])
	if !ok {
		return nil
	}
	div, ok := ParseNumber(args[2])
	if !ok {
		m.printf("Error: Failed to parse DIV.\n")
		return nil
	}
	if err := m.clk.SetDivider(d, div); err != nil {
		m.printf("Error: %v.\n", err)
		return nil
	}
	m.printf("updated %s divisor to %d.\n", d, div)
	return nil
}

func cmdBootStatus(m *Monitor, args []string) error {
	f := m.clk.ClassifyBootFault()
	if f == rvclk.FaultNone {
		m.printf("no safety reset recorded.\n")
		return nil
	}
	m.printf("safety reset, error code: %s\n", f)
	return nil
}

func cmdQuit(m *Monitor, args []string) error {
	return errQuit
}
