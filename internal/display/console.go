// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package display

import (
	"fmt"
	"io"
	"strings"
)

// Console is a Buffer that repaints a framed copy of itself to a terminal
// on every Flush that changed something.
type Console struct {
	*Buffer
	w    io.Writer
	last string

	// Clear screen before each frame (ANSI); off for plain logs.
	ANSI bool
}

// NewConsole returns a console grid writing frames to w.
func NewConsole(w io.Writer) *Console {
	return &Console{Buffer: NewBuffer(), w: w, ANSI: true}
}

func (c *Console) Flush() error {
	s := c.String()
	if s == c.last {
		return nil
	}
	c.last = s

	var sb strings.Builder
	if c.ANSI {
		sb.WriteString("\033[H\033[2J")
	}
	border := "+" + strings.Repeat("-", Cols) + "+\n"
	sb.WriteString(border)
	for _, line := range strings.Split(s, "\n") {
		sb.WriteString("|" + line + "|\n")
	}
	sb.WriteString(border)
	if _, err := io.WriteString(c.w, sb.String()); err != nil {
		return fmt.Errorf("display: console write: %w", err)
	}
	return nil
}
