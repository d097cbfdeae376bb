// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package clock

// BacklightLevel returns the night level for hours inside the dim window
// and the day level otherwise. Both ends of the window are night hours.
// A window with DimStartHour after DimEndHour wraps over midnight.
func BacklightLevel(hour int, b Brightness) uint8 {
	if b.DimStartHour <= b.DimEndHour {
		if hour >= b.DimStartHour && hour <= b.DimEndHour {
			return b.Night
		}
		return b.Day
	}
	if hour <= b.DimEndHour || hour >= b.DimStartHour {
		return b.Night
	}
	return b.Day
}
