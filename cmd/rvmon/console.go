// Copyright 2026 the RVLab Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"bytes"
	"io"
	"os"

	"github.com/tarm/serial"
	"golang.org/x/term"
)

type console struct {
	in    io.Reader
	out   io.Writer
	color bool
	close func() error
}

// openConsole picks the UART if one is configured, otherwise the terminal
// the monitor was started from.
func openConsole(device string, baud int) (*console, error) {
	if device != "" {
		s, err := serial.OpenPort(&serial.Config{Name: device, Baud: baud})
		if err != nil {
			return nil, err
		}
		return &console{in: s, out: s, color: true, close: s.Close}, nil
	}

	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return &console{in: os.Stdin, out: os.Stdout, close: func() error { return nil }}, nil
	}
	old, err := term.MakeRaw(fd)
	if err != nil {
		return nil, err
	}
	return &console{
		in:    os.Stdin,
		out:   crlfWriter{os.Stdout},
		color: true,
		close: func() error { return term.Restore(fd, old) },
	}, nil
}

// crlfWriter turns \n into \r\n, a raw terminal does not.
type crlfWriter struct {
	w io.Writer
}

func (c crlfWriter) Write(p []byte) (int, error) {
	if _, err := c.w.Write(bytes.ReplaceAll(p, []byte("\n"), []byte("\r\n"))); err != nil {
		return 0, err
	}
	return len(p), nil
}
