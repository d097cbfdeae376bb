// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

// Package clock holds the clock's policies and its run loop.
// The loop drains the GPS feed, disciplines the RTC and converts the
// stored UTC to local time. It also decides when to redraw the display
// and how bright the backlight should be.
package clock

import "time"

// Brightness is the two-level backlight schedule.
type Brightness struct {
	DimStartHour int   // first night hour, inclusive
	DimEndHour   int   // last night hour, inclusive
	Day          uint8 // level outside the night window
	Night        uint8 // level inside the night window
}

// Settings are the tunables of the run loop.
type Settings struct {
	Backlight Brightness

	MinSatellites    int // satellites required before GPS time is trusted
	ToleranceSeconds int // correct only when the seconds differ by more than this

	BlinkInterval time.Duration // divider visible for this long after each tick
	LoopInterval  time.Duration // pause between iterations

	AcquireTimeout      time.Duration // 0 waits forever
	AcquirePollInterval time.Duration
	MinPlausibleYear    int // an RTC year below this forces acquisition
}

// DefaultSettings returns the values the clock has always shipped with.
func DefaultSettings() Settings {
	return Settings{
		Backlight: Brightness{
			DimStartHour: 22,
			DimEndHour:   6,
			Day:          255,
			Night:        20,
		},
		MinSatellites:       6,
		ToleranceSeconds:    5,
		BlinkInterval:       500 * time.Millisecond,
		LoopInterval:        50 * time.Millisecond,
		AcquireTimeout:      0,
		AcquirePollInterval: 100 * time.Millisecond,
		MinPlausibleYear:    2025,
	}
}
