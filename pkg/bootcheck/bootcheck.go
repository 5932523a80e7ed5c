// Copyright 2026 the RVLab Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package bootcheck reports a safety module reset found at startup.
package bootcheck

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/rvlab/rvlab-go/pkg/rvclk"
)

var ErrSafetyReset = errors.New("SoC has performed a safety reset")

type Classifier interface {
	ClassifyBootFault() rvclk.FaultCode
}

type Options struct {
	// Color enables ANSI colour and style escapes.
	Color bool
}

// Check classifies the last reset. On a safety reset the diagnostic panel
// is written to w and the returned error wraps ErrSafetyReset. Deciding
// whether to halt is left to the caller.
func Check(c Classifier, w io.Writer, o Options) (rvclk.FaultCode, error) {
	f := c.ClassifyBootFault()
	if f == rvclk.FaultNone {
		return f, nil
	}
	if err := Render(w, f, o); err != nil {
		return f, err
	}
	return f, fmt.Errorf("%w: %v", ErrSafetyReset, f)
}

// Render writes the diagnostic panel for fault code f.
func Render(w io.Writer, f rvclk.FaultCode, o Options) error {
	esc := func(code, s string) string {
		if !o.Color {
			return s
		}
		return "\033[" + code + "m" + s + "\033[0m"
	}
	tag := "[" + esc("36", "RVLAB") + "]"

	lines := []string{
		"",
		"",
		" -------------------- " + esc("31;1", "CRITICAL ERROR") + " -------------------- ",
		" The RVLab SoC has performed a safety reset.",
		" This is most likely because you tried to set",
		" the system clock to a too high frequency.",
		" Consider using a higher divider value.",
		" ",
		" If you believe this to be an error, consult the",
		" RVLab documentation section on variable clocking.",
		" ",
		" Error code: " + f.String(),
	}
	var b strings.Builder
	for i, l := range lines {
		if i > 2 {
			b.WriteString(tag)
		}
		b.WriteString(l)
		b.WriteString("\n")
	}
	_, err := io.WriteString(w, b.String())
	return err
}
