// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package clock

import (
	"fmt"
	"log"

	"github.com/relabs-tech/gps_clock/internal/gps"
	"github.com/relabs-tech/gps_clock/internal/rtc"
)

// Outcome is the result of one drift check.
type Outcome int

const (
	Corrected           Outcome = iota // RTC overwritten from GPS
	SkipStale                          // no fresh time and date in this poll
	SkipSatellites                     // too few satellites to trust the fix
	SkipCentury                        // GPS year outside the RTC's century
	SkipWithinTolerance                // RTC close enough already
)

func (o Outcome) String() string {
	switch o {
	case Corrected:
		return "corrected"
	case SkipStale:
		return "stale fix"
	case SkipSatellites:
		return "too few satellites"
	case SkipCentury:
		return "year outside RTC century"
	case SkipWithinTolerance:
		return "within tolerance"
	default:
		return fmt.Sprintf("Outcome(%d)", int(o))
	}
}

// Corrector overwrites the RTC from GPS when the two disagree.
type Corrector struct {
	Store            rtc.Store
	MinSatellites    int
	ToleranceSeconds int
}

// NewCorrector returns a corrector writing to store.
func NewCorrector(store rtc.Store, minSatellites, toleranceSeconds int) *Corrector {
	return &Corrector{
		Store:            store,
		MinSatellites:    minSatellites,
		ToleranceSeconds: toleranceSeconds,
	}
}

// Decide reports what Correct would do, without touching the store.
//
// Only the seconds fields are compared. A fix that differs by whole
// minutes but agrees on the second is left alone.
func (c *Corrector) Decide(fix gps.Fix, now rtc.Registers) Outcome {
	if !fix.Ready() {
		return SkipStale
	}
	if fix.Satellites < c.MinSatellites {
		return SkipSatellites
	}
	if fix.Year < rtc.Century || fix.Year > rtc.Century+99 {
		return SkipCentury
	}
	diff := fix.Second - now.Second
	if diff < 0 {
		diff = -diff
	}
	if diff <= c.ToleranceSeconds {
		return SkipWithinTolerance
	}
	return Corrected
}

// Correct writes the fix's time then its date to the store when Decide
// says so. Writes are never partial on the skip paths.
func (c *Corrector) Correct(fix gps.Fix, now rtc.Registers) (Outcome, error) {
	o := c.Decide(fix, now)
	if o != Corrected {
		return o, nil
	}
	if err := c.Store.SetTime(fix.Hour, fix.Minute, fix.Second); err != nil {
		return o, fmt.Errorf("clock: set rtc time: %w", err)
	}
	if err := c.Store.SetDate(fix.Day, fix.Month, fix.Year%100); err != nil {
		return o, fmt.Errorf("clock: set rtc date: %w", err)
	}
	log.Printf("clock: corrected RTC %s -> %04d-%02d-%02d %02d:%02d:%02d UTC (%d satellites)",
		now, fix.Year, fix.Month, fix.Day, fix.Hour, fix.Minute, fix.Second, fix.Satellites)
	return o, nil
}
