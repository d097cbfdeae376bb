// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package display

import (
	"fmt"
	"image"
	"log"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
	"periph.io/x/conn/v3/i2c"
	"periph.io/x/devices/v3/ssd1306"
	"periph.io/x/devices/v3/ssd1306/image1bit"
)

// Cell size on the 128x64 panel: 20 columns of 6px, 4 rows of 16px.
// The right 8px stay dark.
const (
	cellW = 6
	cellH = 16

	panelW = 128
	panelH = 64
)

// panel is the part of *ssd1306.Dev the OLED grid draws through.
type panel interface {
	Bounds() image.Rectangle
	Draw(r image.Rectangle, src image.Image, sp image.Point) error
}

// OLED renders the character grid on an SSD1306 128x64 panel. Writes are
// buffered until Flush.
type OLED struct {
	dev   panel
	ssd   *ssd1306.Dev
	img   *image1bit.VerticalLSB
	cells [Rows][Cols]byte
	dirty bool
}

// OpenOLED initializes an SSD1306 at addr on bus.
func OpenOLED(bus i2c.Bus, addr uint16) (*OLED, error) {
	dev, err := ssd1306.NewI2C(bus, addr, &ssd1306.DefaultOpts)
	if err != nil {
		return nil, fmt.Errorf("display: ssd1306 at 0x%02X: %w", addr, err)
	}
	log.Printf("display: SSD1306 initialized at 0x%02X", addr)
	o := newOLED(dev)
	o.ssd = dev
	return o, nil
}

func newOLED(dev panel) *OLED {
	o := &OLED{
		dev: dev,
		img: image1bit.NewVerticalLSB(image.Rect(0, 0, panelW, panelH)),
	}
	for r := range o.cells {
		for c := range o.cells[r] {
			o.cells[r][c] = ' '
		}
	}
	o.dirty = true
	return o
}

func (o *OLED) Print(row, col int, text string) error {
	if row < 0 || row >= Rows || col < 0 || col >= Cols {
		return fmt.Errorf("display: position (%d,%d) outside %dx%d grid", row, col, Rows, Cols)
	}
	for i := 0; i < len(text) && col+i < Cols; i++ {
		if o.cells[row][col+i] == text[i] {
			continue
		}
		o.cells[row][col+i] = text[i]
		o.renderCell(row, col+i)
		o.dirty = true
	}
	return nil
}

func (o *OLED) Clear() error {
	for r := range o.cells {
		for c := range o.cells[r] {
			o.cells[r][c] = ' '
		}
	}
	for i := range o.img.Pix {
		o.img.Pix[i] = 0
	}
	o.dirty = true
	return nil
}

// Flush sends the frame to the panel if anything changed.
func (o *OLED) Flush() error {
	if !o.dirty {
		return nil
	}
	if err := o.dev.Draw(o.dev.Bounds(), o.img, image.Point{}); err != nil {
		return fmt.Errorf("display: ssd1306 draw: %w", err)
	}
	o.dirty = false
	return nil
}

// SetContrast sets panel brightness. It is a no-op without a real panel.
func (o *OLED) SetContrast(level uint8) error {
	if o.ssd == nil {
		return nil
	}
	return o.ssd.SetContrast(level)
}

// Halt turns the panel off.
func (o *OLED) Halt() error {
	if o.ssd == nil {
		return nil
	}
	return o.ssd.Halt()
}

func (o *OLED) renderCell(row, col int) {
	x0, y0 := col*cellW, row*cellH
	for y := y0; y < y0+cellH; y++ {
		for x := x0; x < x0+cellW; x++ {
			o.img.SetBit(x, y, image1bit.Off)
		}
	}

	ch := o.cells[row][col]
	if ch < 8 {
		// Custom glyph: the 5x8 pattern doubled vertically.
		pattern := GlyphPatterns()[ch]
		for gy, bits := range pattern {
			for gx := 0; gx < 5; gx++ {
				if bits&(0x10>>gx) != 0 {
					o.img.SetBit(x0+gx, y0+2*gy, image1bit.On)
					o.img.SetBit(x0+gx, y0+2*gy+1, image1bit.On)
				}
			}
		}
		return
	}

	drawer := &font.Drawer{
		Dst:  o.img,
		Src:  &image.Uniform{image1bit.On},
		Face: basicfont.Face7x13,
		Dot:  fixed.P(x0, y0+12),
	}
	drawer.DrawBytes([]byte{ch})
}
