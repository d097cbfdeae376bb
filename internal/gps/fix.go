// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package gps

import "fmt"

// Fix is one poll of the receiver's decoded state.
//
// The Updated flags are edge-triggered: Parser.Poll reports each decoded
// time or date at most once, and clears the flag as it hands the Fix out.
// The Valid flags and the field values persist until a newer sentence
// replaces them.
type Fix struct {
	TimeValid   bool
	TimeUpdated bool
	DateValid   bool
	DateUpdated bool

	SatellitesValid bool
	Satellites      int

	Hour   int
	Minute int
	Second int

	Day   int
	Month int
	Year  int // full year, e.g. 2025
}

// Ready reports whether time and date are both valid and freshly updated.
func (f Fix) Ready() bool {
	return f.TimeValid && f.TimeUpdated && f.DateValid && f.DateUpdated
}

func (f Fix) String() string {
	return fmt.Sprintf("%04d-%02d-%02d %02d:%02d:%02d sats=%d (time valid=%t updated=%t, date valid=%t updated=%t)",
		f.Year, f.Month, f.Day, f.Hour, f.Minute, f.Second, f.Satellites,
		f.TimeValid, f.TimeUpdated, f.DateValid, f.DateUpdated)
}
