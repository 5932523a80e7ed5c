// Copyright 2026 the RVLab Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package monitor

import (
	"io"
)

const (
	lineSize = 256
	prompt   = "> "
)

// readLine reads one line from the console with echo and minimal editing.
// Backspace removes the last character, ANSI escape sequences from cursor
// keys are dropped, anything beyond lineSize-1 bytes is ignored.
func (m *Monitor) readLine() (string, error) {
	line := make([]byte, 0, lineSize)
	io.WriteString(m.out, prompt)

	for {
		c, err := m.in.ReadByte()
		if err != nil {
			return "", err
		}
		switch {
		case c == 4 && len(line) == 0:
			// ^D on an empty line, a raw terminal has no EOF of its own.
			return "", io.EOF
		case c == '\n' || c == '\r':
			io.WriteString(m.out, "\n")
			return string(line), nil
		case c == 127 || c == '\b':
			if len(line) > 0 {
				io.WriteString(m.out, "\b\033[K")
				line = line[:len(line)-1]
			}
		case c == '\033':
			// Arrow keys end in A..D.
			for {
				c, err = m.in.ReadByte()
				if err != nil {
					return "", err
				}
				if c >= 'A' && c <= 'D' {
					break
				}
			}
		default:
			if len(line) < lineSize-1 {
				m.out.Write([]byte{c})
				line = append(line, c)
			}
		}
	}
}
