// Copyright 2026 the RVLab Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package rvclk

import (
	"fmt"
	"strconv"
	"strings"
)

// Domain selects one of the MMCM clock outputs.
type Domain int

const (
	System Domain = iota
	Aux1
	Aux2
	Aux3
	Aux4
	Aux5
	Aux6
)

// AuxDomains lists the domains that are not watched by the safety module.
var AuxDomains = []Domain{Aux1, Aux2, Aux3, Aux4, Aux5, Aux6}

func (d Domain) Valid() bool {
	return d >= System && d <= Aux6
}

func (d Domain) String() string {
	switch {
	case d == System:
		return "sys_clk"
	case d.Valid():
		return fmt.Sprintf("clk%d", int(d))
	}
	return fmt.Sprintf("Domain(%d)", int(d))
}

// ParseDomain accepts "sys", "sys_clk", "clkN" and plain "N" (0 is sys_clk).
func ParseDomain(s string) (Domain, error) {
	switch s {
	case "sys", "sys_clk", "system":
		return System, nil
	}
	n, err := strconv.Atoi(strings.TrimPrefix(s, "clk"))
	if err != nil || !Domain(n).Valid() {
		return 0, fmt.Errorf("%w: %q", ErrUnknownDomain, s)
	}
	return Domain(n), nil
}

func (d Domain) offset() uintptr {
	if d == System {
		return CLK_DIV_SYS
	}
	return CLK_DIV_AUX_FIRST + uintptr(d-Aux1)*CLK_DIV_AUX_STRIDE
}

// Divider returns the divider of any domain, including sys_clk.
func (c *Clk) Divider(d Domain) (uint32, error) {
	if !d.Valid() {
		return 0, fmt.Errorf("%w: %d", ErrUnknownDomain, int(d))
	}
	return c.Mem().MustRead32(c.reg(d.offset())), nil
}

// SetDivider writes the divider of an auxiliary domain as is. There is no
// fence and no confirmation, the safety module only watches sys_clk.
func (c *Clk) SetDivider(d Domain, div uint32) error {
	switch {
	case d == System:
		return ErrGatedDomain
	case !d.Valid():
		return fmt.Errorf("%w: %d", ErrUnknownDomain, int(d))
	}
	c.Mem().MustWrite32(c.reg(d.offset()), div)
	return nil
}
