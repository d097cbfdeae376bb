// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package tz

import "fmt"

// Zone is a single time zone built from a DST rule and a standard-time rule.
// It holds no state beyond the two rules, so every method is a pure function
// of its arguments.
type Zone struct {
	dst Rule
	std Rule
}

// NewZone validates both rules and returns the zone.
func NewZone(dst, std Rule) (Zone, error) {
	if err := dst.Validate(); err != nil {
		return Zone{}, fmt.Errorf("tz: dst rule %s: %w", dst.Abbrev, err)
	}
	if err := std.Validate(); err != nil {
		return Zone{}, fmt.Errorf("tz: std rule %s: %w", std.Abbrev, err)
	}
	if dst.Offset != std.Offset && dst.Month == std.Month && dst.Week == std.Week && dst.Weekday == std.Weekday {
		return Zone{}, fmt.Errorf("tz: dst and std rules fire on the same day (%s %s of %s)", dst.Week, dst.Weekday, monthAbbrev(dst.Month))
	}
	return Zone{dst: dst, std: std}, nil
}

// DST returns the daylight-saving rule.
func (z Zone) DST() Rule { return z.dst }

// STD returns the standard-time rule.
func (z Zone) STD() Rule { return z.std }

// Transitions returns the UTC instants at which daylight time starts and
// standard time resumes during year.
func (z Zone) Transitions(year int) (dstStart, stdStart Epoch) {
	dstStart = z.dst.fireLocal(year) - Epoch(z.std.Offset*secsPerMinute)
	stdStart = z.std.fireLocal(year) - Epoch(z.dst.Offset*secsPerMinute)
	return dstStart, stdStart
}

// IsDST reports whether daylight time is in force at utc.
func (z Zone) IsDST(utc Epoch) bool {
	if z.dst.Offset == z.std.Offset {
		return false
	}
	dstStart, stdStart := z.Transitions(Decompose(utc).Year)
	if dstStart < stdStart {
		// Northern hemisphere: DST sits inside the calendar year.
		return utc >= dstStart && utc < stdStart
	}
	// Southern hemisphere: DST wraps across the new year.
	return !(utc >= stdStart && utc < dstStart)
}

// IsLocalDST reports whether local, a wall-clock instant in this zone, falls
// inside daylight time. Times inside the spring gap count as DST, and times
// in the repeated autumn hour resolve to daylight time (the earlier instant).
func (z Zone) IsLocalDST(local Epoch) bool {
	if z.dst.Offset == z.std.Offset {
		return false
	}
	year := Decompose(local).Year
	dstStart := z.dst.fireLocal(year)
	stdStart := z.std.fireLocal(year)
	if dstStart < stdStart {
		return local >= dstStart && local < stdStart
	}
	return !(local >= stdStart && local < dstStart)
}

// Rule returns the rule in force at utc.
func (z Zone) Rule(utc Epoch) Rule {
	if z.IsDST(utc) {
		return z.dst
	}
	return z.std
}

// ToLocal shifts utc by the offset in force and returns the rule used.
func (z Zone) ToLocal(utc Epoch) (Epoch, Rule) {
	r := z.Rule(utc)
	return utc + Epoch(r.Offset*secsPerMinute), r
}

// ToUTC is the inverse of ToLocal, with the ambiguity rules of IsLocalDST.
func (z Zone) ToUTC(local Epoch) Epoch {
	if z.IsLocalDST(local) {
		return local - Epoch(z.dst.Offset*secsPerMinute)
	}
	return local - Epoch(z.std.Offset*secsPerMinute)
}

// Local is a converted wall-clock reading.
type Local struct {
	CalendarTime
	Weekday Weekday
	Abbrev  string
	Offset  int // minutes east of UTC
}

// Convert reads utc as a UTC calendar time and returns the local wall clock.
func (z Zone) Convert(utc CalendarTime) Local {
	local, r := z.ToLocal(Compose(utc))
	return Local{
		CalendarTime: Decompose(local),
		Weekday:      DayOfWeek(local),
		Abbrev:       r.Abbrev,
		Offset:       r.Offset,
	}
}
