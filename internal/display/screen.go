// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package display

import (
	"errors"
	"fmt"

	"github.com/relabs-tech/gps_clock/internal/tz"
)

// Big-digit columns of HH, MM and SS, and the divider columns between them.
var (
	digitCols   = [3]int{3, 8, 13}
	dividerCols = [2]int{7, 12}
)

// Screen lays out the clock face and the startup messages on a Grid.
type Screen struct {
	grid Grid
}

// NewScreen returns a Screen drawing on g.
func NewScreen(g Grid) *Screen {
	return &Screen{grid: g}
}

// DrawClock draws the satellite count, the big HH MM SS and the date line.
func (s *Screen) DrawClock(local tz.Local, satellites int) error {
	var errs []error
	add := func(err error) {
		if err != nil {
			errs = append(errs, err)
		}
	}

	add(s.grid.Print(0, 0, satelliteLine(satellites)))
	for i, v := range [3]int{local.Hour, local.Minute, local.Second} {
		add(BigDigits(s.grid, v, 1, digitCols[i]))
	}
	add(s.grid.Print(3, 0, fmt.Sprintf("%-10s%02d.%02d.%4d",
		local.Weekday, local.Day, local.Month, local.Year)))
	add(flush(s.grid))
	return errors.Join(errs...)
}

// DrawDivider shows or hides the separators between HH, MM and SS.
func (s *Screen) DrawDivider(show bool) error {
	ch := " "
	if show {
		ch = "o"
	}
	for row := 1; row <= 2; row++ {
		for _, col := range dividerCols {
			if err := s.grid.Print(row, col, ch); err != nil {
				return err
			}
		}
	}
	return flush(s.grid)
}

// Starting is the first screen after power-up.
func (s *Screen) Starting() error {
	return s.message("  Starting GPS...   ")
}

// CheckingRTC is shown while the stored time is checked.
func (s *Screen) CheckingRTC() error {
	return s.message("  Checking RTC...   ")
}

// WaitingForSatellites is shown while the RTC has no usable time.
func (s *Screen) WaitingForSatellites() error {
	if err := s.grid.Clear(); err != nil {
		return err
	}
	for row, text := range []string{"  Time is not set.  ", "    Waiting for    ", "    satellites!    "} {
		if err := s.grid.Print(row, 0, text); err != nil {
			return err
		}
	}
	return flush(s.grid)
}

// AcquireStatus updates the satellite count under WaitingForSatellites.
func (s *Screen) AcquireStatus(satellites int) error {
	if err := s.grid.Print(3, 0, satelliteLine(satellites)); err != nil {
		return err
	}
	return flush(s.grid)
}

// Clear blanks the grid.
func (s *Screen) Clear() error {
	if err := s.grid.Clear(); err != nil {
		return err
	}
	return flush(s.grid)
}

func (s *Screen) message(text string) error {
	if err := s.grid.Clear(); err != nil {
		return err
	}
	if err := s.grid.Print(0, 0, text); err != nil {
		return err
	}
	return flush(s.grid)
}

func satelliteLine(n int) string {
	return fmt.Sprintf("Satellites count: %02d", n)
}
