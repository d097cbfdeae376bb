// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package display

import (
	"fmt"
	"strings"
	"sync"
)

// glyphRunes approximate the custom characters in a terminal.
var glyphRunes = [8]rune{'┌', '┐', '└', '┘', '│', '═', '┤', '├'}

// Buffer is an in-memory Grid.
type Buffer struct {
	mu    sync.Mutex
	cells [Rows][Cols]byte

	// Prints counts Print calls.
	Prints int
}

// NewBuffer returns a blank buffer.
func NewBuffer() *Buffer {
	b := &Buffer{}
	b.clear()
	return b
}

func (b *Buffer) clear() {
	for r := range b.cells {
		for c := range b.cells[r] {
			b.cells[r][c] = ' '
		}
	}
}

func (b *Buffer) Print(row, col int, text string) error {
	if row < 0 || row >= Rows || col < 0 || col >= Cols {
		return fmt.Errorf("display: position (%d,%d) outside %dx%d grid", row, col, Rows, Cols)
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.Prints++
	for i := 0; i < len(text) && col+i < Cols; i++ {
		b.cells[row][col+i] = text[i]
	}
	return nil
}

func (b *Buffer) Clear() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.clear()
	return nil
}

// Row returns the raw character codes of row r.
func (b *Buffer) Row(r int) string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return string(b.cells[r][:])
}

// Cells returns a copy of the grid.
func (b *Buffer) Cells() [Rows][Cols]byte {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.cells
}

// String renders the grid for a terminal, one line per row.
func (b *Buffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	var sb strings.Builder
	for r := range b.cells {
		if r > 0 {
			sb.WriteByte('\n')
		}
		for _, ch := range b.cells[r] {
			if ch < 8 {
				sb.WriteRune(glyphRunes[ch])
			} else {
				sb.WriteByte(ch)
			}
		}
	}
	return sb.String()
}
