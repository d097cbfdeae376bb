// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package display

import "fmt"

// Glyph strokes on a 5x8 cell.
const (
	strokeTop    = 1 << iota // rows 0-1
	strokeBottom             // rows 6-7
	strokeLeft               // cols 0-1
	strokeRight              // cols 3-4
)

// glyphStrokes are the strokes of the eight custom characters, by code.
var glyphStrokes = [8]int{
	strokeTop | strokeLeft,
	strokeTop | strokeRight,
	strokeLeft | strokeBottom,
	strokeRight | strokeBottom,
	strokeRight,
	strokeTop | strokeBottom,
	strokeTop | strokeRight | strokeBottom,
	strokeTop | strokeLeft | strokeBottom,
}

// GlyphPatterns returns the 5x8 bitmaps of the custom characters, one byte
// per row with bit 4 the leftmost pixel, ready for HD44780 CGRAM.
func GlyphPatterns() [8][8]byte {
	var out [8][8]byte
	for code, s := range glyphStrokes {
		for y := 0; y < 8; y++ {
			var row byte
			if s&strokeTop != 0 && y < 2 {
				row = 0x1F
			}
			if s&strokeBottom != 0 && y >= 6 {
				row = 0x1F
			}
			if s&strokeLeft != 0 {
				row |= 0x18
			}
			if s&strokeRight != 0 {
				row |= 0x03
			}
			out[code][y] = row
		}
	}
	return out
}

// Cells of a big digit: top-left, top-right, bottom-left, bottom-right.
// '_' draws a bottom bar from the character ROM.
var bigDigits = [10][4]byte{
	{0, 1, 2, 3},
	{' ', 4, ' ', 4},
	{5, 6, 2, '_'},
	{5, 6, '_', 3},
	{2, 3, ' ', 4},
	{7, 5, '_', 3},
	{7, 5, 2, 3},
	{5, 1, ' ', 4},
	{7, 6, 2, 3},
	{7, 6, '_', 3},
}

// BigDigit draws digit d as a 2x2 block whose top-left cell is (row, col).
func BigDigit(g Grid, d, row, col int) error {
	if d < 0 || d > 9 {
		return fmt.Errorf("display: big digit %d out of range", d)
	}
	c := bigDigits[d]
	if err := g.Print(row, col, string([]byte{c[0], c[1]})); err != nil {
		return err
	}
	return g.Print(row+1, col, string([]byte{c[2], c[3]}))
}

// BigDigits draws value as two big digits at (row, col) and (row, col+2).
func BigDigits(g Grid, value, row, col int) error {
	if value < 0 || value > 99 {
		return fmt.Errorf("display: big value %d out of range", value)
	}
	if err := BigDigit(g, value/10, row, col); err != nil {
		return err
	}
	return BigDigit(g, value%10, row, col+2)
}
