// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package display

import (
	"fmt"
	"log"
	"time"

	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
)

// HD44780 instruction set.
// Datasheet: https://www.sparkfun.com/datasheets/LCD/HD44780.pdf
const (
	cmdClear       = 0x01
	cmdEntryMode   = 0x06 // increment, no shift
	cmdDisplayOn   = 0x0C // display on, cursor off, blink off
	cmdFunctionSet = 0x28 // 4-bit bus, 2 lines, 5x8 font
	cmdSetCGRAM    = 0x40
	cmdSetDDRAM    = 0x80
)

// DDRAM address of the first cell of each row on a 20x4 module.
var rowOffsets = [Rows]byte{0x00, 0x40, 0x14, 0x54}

// HD44780 drives a 20x4 character LCD over a 4-bit parallel bus.
// RW is expected to be tied low; the driver never reads busy state and
// waits out the worst-case execution times instead.
type HD44780 struct {
	rs   gpio.PinOut
	en   gpio.PinOut
	data [4]gpio.PinOut // D4..D7

	sleep  func(time.Duration)
	shadow [Rows][Cols]byte
}

// OpenHD44780 looks the pins up by name in the periph registry and
// initializes the module. host.Init must have been called.
func OpenHD44780(rsName, enName string, dataNames [4]string) (*HD44780, error) {
	lookup := func(name string) (gpio.PinOut, error) {
		p := gpioreg.ByName(name)
		if p == nil {
			return nil, fmt.Errorf("display: gpio pin %q not found", name)
		}
		return p, nil
	}
	rs, err := lookup(rsName)
	if err != nil {
		return nil, err
	}
	en, err := lookup(enName)
	if err != nil {
		return nil, err
	}
	var data [4]gpio.PinOut
	for i, name := range dataNames {
		if data[i], err = lookup(name); err != nil {
			return nil, err
		}
	}
	d, err := NewHD44780(rs, en, data)
	if err != nil {
		return nil, err
	}
	log.Printf("display: HD44780 initialized (RS=%s EN=%s D4-D7=%v)", rsName, enName, dataNames)
	return d, nil
}

// NewHD44780 initializes the module on the given pins and loads the
// big-digit glyphs into CGRAM.
func NewHD44780(rs, en gpio.PinOut, data [4]gpio.PinOut) (*HD44780, error) {
	return newHD44780(rs, en, data, time.Sleep)
}

func newHD44780(rs, en gpio.PinOut, data [4]gpio.PinOut, sleep func(time.Duration)) (*HD44780, error) {
	d := &HD44780{rs: rs, en: en, data: data, sleep: sleep}
	if err := d.init(); err != nil {
		return nil, fmt.Errorf("display: hd44780 init: %w", err)
	}
	return d, nil
}

func (d *HD44780) init() error {
	if err := d.en.Out(gpio.Low); err != nil {
		return err
	}
	if err := d.rs.Out(gpio.Low); err != nil {
		return err
	}
	d.sleep(50 * time.Millisecond)

	// Reset into 8-bit mode three times, then switch to 4-bit.
	for _, wait := range []time.Duration{4500 * time.Microsecond, 150 * time.Microsecond, 150 * time.Microsecond} {
		if err := d.nibble(0x03); err != nil {
			return err
		}
		d.sleep(wait)
	}
	if err := d.nibble(0x02); err != nil {
		return err
	}

	for _, c := range []byte{cmdFunctionSet, cmdDisplayOn, cmdEntryMode} {
		if err := d.command(c); err != nil {
			return err
		}
	}

	if err := d.command(cmdSetCGRAM); err != nil {
		return err
	}
	for _, glyph := range GlyphPatterns() {
		for _, row := range glyph {
			if err := d.write(row); err != nil {
				return err
			}
		}
	}
	return d.Clear()
}

// Print writes text at (row, col), clipped at the row end. Text that
// matches what is already on screen is not resent.
func (d *HD44780) Print(row, col int, text string) error {
	if row < 0 || row >= Rows || col < 0 || col >= Cols {
		return fmt.Errorf("display: position (%d,%d) outside %dx%d grid", row, col, Rows, Cols)
	}
	if col+len(text) > Cols {
		text = text[:Cols-col]
	}
	if string(d.shadow[row][col:col+len(text)]) == text {
		return nil
	}
	if err := d.command(cmdSetDDRAM | (rowOffsets[row] + byte(col))); err != nil {
		return err
	}
	for i := 0; i < len(text); i++ {
		if err := d.write(text[i]); err != nil {
			return err
		}
		d.shadow[row][col+i] = text[i]
	}
	return nil
}

// Clear blanks the display and homes the cursor.
func (d *HD44780) Clear() error {
	if err := d.command(cmdClear); err != nil {
		return err
	}
	d.sleep(2 * time.Millisecond)
	for r := range d.shadow {
		for c := range d.shadow[r] {
			d.shadow[r][c] = ' '
		}
	}
	return nil
}

// Halt blanks the display.
func (d *HD44780) Halt() error {
	return d.Clear()
}

func (d *HD44780) command(b byte) error {
	if err := d.rs.Out(gpio.Low); err != nil {
		return err
	}
	return d.send(b)
}

func (d *HD44780) write(b byte) error {
	if err := d.rs.Out(gpio.High); err != nil {
		return err
	}
	return d.send(b)
}

func (d *HD44780) send(b byte) error {
	if err := d.nibble(b >> 4); err != nil {
		return err
	}
	return d.nibble(b & 0x0F)
}

func (d *HD44780) nibble(n byte) error {
	for i, p := range d.data {
		if err := p.Out(gpio.Level(n&(1<<i) != 0)); err != nil {
			return err
		}
	}
	if err := d.en.Out(gpio.High); err != nil {
		return err
	}
	d.sleep(time.Microsecond)
	if err := d.en.Out(gpio.Low); err != nil {
		return err
	}
	d.sleep(50 * time.Microsecond)
	return nil
}
