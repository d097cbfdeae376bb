// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

// Package backlight drives display brightness from a 0-255 level.
package backlight

// Output sets the display brightness. 0 is darkest, 255 brightest.
type Output interface {
	Set(level uint8) error
}

// None is an Output for displays without brightness control.
type None struct{}

func (None) Set(uint8) error { return nil }

// Fake records levels for tests.
type Fake struct {
	Levels []uint8
	Err    error
}

func (f *Fake) Set(level uint8) error {
	f.Levels = append(f.Levels, level)
	return f.Err
}

// Last returns the most recent level, or -1 before the first Set.
func (f *Fake) Last() int {
	if len(f.Levels) == 0 {
		return -1
	}
	return int(f.Levels[len(f.Levels)-1])
}
