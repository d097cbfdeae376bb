// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package clock

import "time"

// Divider is the requested state of the HH:MM:SS separators.
type Divider int

const (
	DividerKeep Divider = iota
	DividerShow
	DividerHide
)

// Decision is what the display should do this iteration.
type Decision struct {
	Redraw  bool
	Divider Divider
}

// Refresher gates redraws to once per RTC second and blinks the dividers.
type Refresher struct {
	BlinkInterval time.Duration

	lastSecond int
	lastRedraw time.Time
	ticked     bool
}

// NewRefresher returns a refresher whose first Tick always redraws.
func NewRefresher(blink time.Duration) *Refresher {
	return &Refresher{BlinkInterval: blink, lastSecond: -1}
}

// Tick advances the policy with the current RTC second and monotonic time.
func (r *Refresher) Tick(second int, now time.Time) Decision {
	if second != r.lastSecond {
		r.lastSecond = second
		r.lastRedraw = now
		r.ticked = true
		return Decision{Redraw: true, Divider: DividerShow}
	}
	if r.ticked && now.Sub(r.lastRedraw) > r.BlinkInterval {
		r.ticked = false
		return Decision{Divider: DividerHide}
	}
	return Decision{}
}
