// Copyright 2026 the RVLab Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package monitor

import (
	"bytes"
	"strings"
	"testing"

	"github.com/rvlab/rvlab-go/config"
	"github.com/rvlab/rvlab-go/pkg/rvclk"
)

func newTestMonitor(t *testing.T, in string, seed uint32) (*Monitor, *rvclk.SimMemory, *bytes.Buffer) {
	t.Helper()
	sim := rvclk.NewSimMemory(rvclk.CLK_BASE, func() uint32 { return seed })
	c := rvclk.OpenWithMemory(sim, rvclk.CLK_BASE)
	out := &bytes.Buffer{}
	return New(c, sim, config.DefaultConfig.Clock, strings.NewReader(in), out), sim, out
}

func TestExec(t *testing.T) {
	for _, tc := range []struct {
		line string
		want string
	}{
		{"", ""},
		{"bogus", "Unknown command. Use 'help' for help.\n"},
		{"lw", "Too few arguments provided to lw.\n"},
		{"sysclk_get 1", "Too many arguments provided to sysclk_get.\n"},
		{"lw zz", "Error: Failed to parse ADDR.\n"},
		{"lw 0x1d000102", "Error: ADDR must be word aligned.\n"},
		{"sw 0x1d000110 x", "Error: Failed to parse DATA.\n"},
		{"sw 0x1d000110 0x10", "wrote 0x1d000110: 0x00000010 (Clock Divider #1)\n"},
		{"sw 0x1d000120 010", "wrote 0x1d000120: 0x00000008 (Clock Divider #2)\n"},
		{"sw 0x10000000 1", "wrote 0x10000000: 0x00000001\n"},
		{"lw 0x1d000110", "read 0x1d000110: 0x00000000 (Clock Divider #1)\n"},
		{"lw 0x1d000108", "read 0x1d000108: 0x00000000 (Clock Safety Status Register)\n"},
		{"sysclk_set", "Too few arguments provided to sysclk_set.\n"},
		{"sysclk_set 4x", "Error: Failed to parse DIV.\n"},
		{"sysclk_set 20", "updated system clock divisor to 20.\n"},
		{"sysclk_set 1_0", "Error: Failed to parse DIV.\n"},
		{"sysclk_set 0b101", "Error: Failed to parse DIV.\n"},
		{"sysclk_set 0o17", "Error: Failed to parse DIV.\n"},
		{"sysclk_set 0x_1f", "Error: Failed to parse DIV.\n"},
		{"sysclk_set 0x", "Error: Failed to parse DIV.\n"},
		{"sysclk_set +5", "Error: Failed to parse DIV.\n"},
		{"sysclk_set 0X1F", "updated system clock divisor to 31.\n"},
		{"sysclk_get", "sys_clk divider value: 0 (0 Hz)\n"},
		{"clk_set 0 4", "Error: Failed to parse N.\n"},
		{"clk_set 7 4", "Error: Failed to parse N.\n"},
		{"clk_set 3 10", "updated clk3 divisor to 10.\n"},
		{"clk_get 2", "clk2 divider value: 0 (0 Hz)\n"},
		{"bootstatus", "no safety reset recorded.\n"},
	} {
		m, _, out := newTestMonitor(t, "", 1)
		if err := m.Exec(tc.line); err != nil {
			t.Errorf("Exec(%q) = %v", tc.line, err)
		}
		if out.String() != tc.want {
			t.Errorf("Exec(%q) printed %q, want %q", tc.line, out.String(), tc.want)
		}
	}
}

func TestParseNumber(t *testing.T) {
	for _, tc := range []struct {
		in   string
		want uint32
		ok   bool
	}{
		{"0", 0, true},
		{"10", 10, true},
		{"0x1f", 31, true},
		{"0XFF", 255, true},
		{"017", 15, true},
		{"00", 0, true},
		{"4294967295", 0xffffffff, true},
		{"0xffffffff", 0xffffffff, true},
		{"4294967296", 0, false},
		{"", 0, false},
		{"1_0", 0, false},
		{"0x_1f", 0, false},
		{"0b101", 0, false},
		{"0o17", 0, false},
		{"08", 0, false},
		{"0x", 0, false},
		{"12z", 0, false},
		{"-1", 0, false},
		{"+1", 0, false},
	} {
		got, ok := ParseNumber(tc.in)
		if ok != tc.ok || got != tc.want {
			t.Errorf("ParseNumber(%q) = %d, %v; want %d, %v", tc.in, got, ok, tc.want, tc.ok)
		}
	}
}

func TestSysclkSetRejectsGoLiterals(t *testing.T) {
	for _, arg := range []string{"1_0", "0b101", "0o17", "0x_1f"} {
		m, sim, out := newTestMonitor(t, "", 1)
		sim.EnableTrace()
		m.Exec("sysclk_set " + arg)
		if out.String() != "Error: Failed to parse DIV.\n" {
			t.Errorf("sysclk_set %s printed %q", arg, out.String())
		}
		if ops := sim.Ops(); len(ops) != 0 {
			t.Errorf("sysclk_set %s touched registers: %v", arg, ops)
		}
	}
}

func TestExecBadQuoting(t *testing.T) {
	m, _, out := newTestMonitor(t, "", 1)
	m.Exec("lw 'unterminated")
	if !strings.HasPrefix(out.String(), "Error: ") {
		t.Errorf("got %q", out.String())
	}
}

func TestClockCommands(t *testing.T) {
	m, sim, out := newTestMonitor(t, "", 1)
	m.Exec("sysclk_set 0x14")
	m.Exec("sysclk_get")
	m.Exec("clk_set 6 5")
	m.Exec("clk_get 6")
	want := "updated system clock divisor to 20.\n" +
		"sys_clk divider value: 20 (50000000 Hz)\n" +
		"updated clk6 divisor to 5.\n" +
		"clk6 divider value: 5 (200000000 Hz)\n"
	if out.String() != want {
		t.Errorf("got %q, want %q", out.String(), want)
	}
	if s := sim.MustRead32(rvclk.CLK_BASE + rvclk.CLK_SAFETY_DUMMY); s != 0x0004ec76 {
		t.Errorf("signature register = 0x%08x, want 0x0004ec76", s)
	}
	if sim.Fences() != 1 {
		t.Errorf("fences = %d, want 1", sim.Fences())
	}
}

func TestSysclkSetZeroSeed(t *testing.T) {
	m, _, out := newTestMonitor(t, "", 0x1200)
	m.Exec("sysclk_set 2")
	if !strings.HasPrefix(out.String(), "Error: set sys_clk divider 2: safety seed has a zero low byte") {
		t.Errorf("got %q", out.String())
	}
}

func TestBootStatusFault(t *testing.T) {
	m, sim, out := newTestMonitor(t, "", 1)
	sim.MustWrite32(rvclk.CLK_BASE+rvclk.CLK_SAFETY_STATUS, 3)
	m.Exec("bootstatus")
	if want := "safety reset, error code: 11 Verification Timeout\n"; out.String() != want {
		t.Errorf("got %q, want %q", out.String(), want)
	}
}

func TestDump(t *testing.T) {
	m, sim, out := newTestMonitor(t, "", 1)
	sim.MustWrite32(0x1000, 0x03020100)
	sim.MustWrite32(0x1004, 0x07060504)
	sim.MustWrite32(0x1008, 0x0b0a0908)
	sim.MustWrite32(0x100c, 0x0f0e0d0c)
	sim.MustWrite32(0x1010, 0x13121110)
	m.Exec("dump 0x1002 17")
	want := "\n00001002: 02 03 04 05 06 07 08 09 0a 0b 0c 0d 0e 0f 10 11" +
		"\n00001012: 12\n"
	if out.String() != want {
		t.Errorf("got %q, want %q", out.String(), want)
	}
}

func TestHelp(t *testing.T) {
	m, _, out := newTestMonitor(t, "", 1)
	m.Exec("help")
	for _, c := range commands {
		if !strings.Contains(out.String(), "\t"+c.name+c.help+"\n") {
			t.Errorf("help misses %s", c.name)
		}
	}
}

type panicBus struct{}

func (panicBus) MustRead32(uintptr) uint32   { panic("bus error") }
func (panicBus) MustWrite32(uintptr, uint32) { panic("bus error") }

func TestPanicRecovered(t *testing.T) {
	m, _, out := newTestMonitor(t, "", 1)
	m.bus = panicBus{}
	if err := m.Exec("lw 0"); err != nil {
		t.Errorf("Exec = %v", err)
	}
	if out.String() != "Error: bus error\n" {
		t.Errorf("got %q", out.String())
	}
}

func TestRun(t *testing.T) {
	in := "sysclk_get\r" +
		"clk_gx\x7fet 1\n" + // backspace
		"\x1b[Asysclk_get\n" + // cursor up is dropped
		"quit\n" +
		"sysclk_get\n"
	m, _, out := newTestMonitor(t, in, 1)
	if err := m.Run(); err != nil {
		t.Fatalf("Run() = %v", err)
	}
	want := "Welcome to rvlab monitor.\n" +
		"> sysclk_get\n" +
		"sys_clk divider value: 0 (0 Hz)\n" +
		"> clk_gx\b\033[Ket 1\n" +
		"clk1 divider value: 0 (0 Hz)\n" +
		"> sysclk_get\n" +
		"sys_clk divider value: 0 (0 Hz)\n" +
		"> quit\n"
	if out.String() != want {
		t.Errorf("got\n%q\nwant\n%q", out.String(), want)
	}
}

func TestRunEOF(t *testing.T) {
	m, _, out := newTestMonitor(t, "help", 1)
	if err := m.Run(); err != nil {
		t.Fatalf("Run() = %v", err)
	}
	if out.String() != "Welcome to rvlab monitor.\n> help" {
		t.Errorf("got %q", out.String())
	}
}

func TestRunCtrlD(t *testing.T) {
	m, _, out := newTestMonitor(t, "\x04sysclk_get\n", 1)
	if err := m.Run(); err != nil {
		t.Fatalf("Run() = %v", err)
	}
	if out.String() != "Welcome to rvlab monitor.\n> " {
		t.Errorf("got %q", out.String())
	}
}

func TestLineLimit(t *testing.T) {
	m, _, out := newTestMonitor(t, strings.Repeat("a", 300)+"\n", 1)
	l, err := m.readLine()
	if err != nil {
		t.Fatal(err)
	}
	if len(l) != lineSize-1 {
		t.Errorf("line length %d, want %d", len(l), lineSize-1)
	}
	if out.Len() != len(prompt)+lineSize-1+1 {
		t.Errorf("echoed %d bytes", out.Len())
	}
}
