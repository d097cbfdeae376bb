// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

// Package display renders the clock face on a 20x4 character grid.
//
// Drivers implement Grid: an HD44780 LCD on GPIO, an SSD1306 OLED that
// draws the same cells as pixels, and an in-memory Buffer for tests and
// the bench console. Character codes 0-7 are the big-digit glyphs.
package display

// Grid size of the clock face.
const (
	Rows = 4
	Cols = 20
)

// Grid is a character display. Print writes text starting at (row, col)
// and clips at the right edge.
type Grid interface {
	Print(row, col int, text string) error
	Clear() error
}

// Flusher is implemented by grids that buffer writes until Flush.
type Flusher interface {
	Flush() error
}

func flush(g Grid) error {
	if f, ok := g.(Flusher); ok {
		return f.Flush()
	}
	return nil
}
