// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package tz

import (
	"fmt"
	"strconv"
	"strings"
)

// Week selects which occurrence of a weekday within a month a rule fires on.
type Week int

const (
	Last Week = iota
	First
	Second
	Third
	Fourth
)

var weekNames = [...]string{"last", "first", "second", "third", "fourth"}

func (w Week) String() string {
	if w < Last || w > Fourth {
		return fmt.Sprintf("Week(%d)", int(w))
	}
	return weekNames[w]
}

// ParseWeek accepts "last", "first".."fourth" or "1".."4".
func ParseWeek(s string) (Week, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for i, name := range weekNames {
		if s == name {
			return Week(i), nil
		}
	}
	if n, err := strconv.Atoi(s); err == nil && n >= 1 && n <= 4 {
		return Week(n), nil
	}
	return Last, fmt.Errorf("unknown week %q (want last, first, second, third or fourth)", s)
}

// Weekday follows the 0=Sunday..6=Saturday convention.
type Weekday int

const (
	Sunday Weekday = iota
	Monday
	Tuesday
	Wednesday
	Thursday
	Friday
	Saturday
)

var dayNames = [...]string{"Sunday", "Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday"}

func (d Weekday) String() string {
	if d < Sunday || d > Saturday {
		return fmt.Sprintf("Weekday(%d)", int(d))
	}
	return dayNames[d]
}

// ParseWeekday accepts full or three-letter English day names.
func ParseWeekday(s string) (Weekday, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for i, name := range dayNames {
		full := strings.ToLower(name)
		if s == full || s == full[:3] {
			return Weekday(i), nil
		}
	}
	return Sunday, fmt.Errorf("unknown weekday %q", s)
}

var monthNames = [...]string{"january", "february", "march", "april", "may", "june",
	"july", "august", "september", "october", "november", "december"}

// ParseMonth accepts full or three-letter English month names, or "1".."12".
func ParseMonth(s string) (int, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for i, name := range monthNames {
		if s == name || s == name[:3] {
			return i + 1, nil
		}
	}
	if n, err := strconv.Atoi(s); err == nil && n >= 1 && n <= 12 {
		return n, nil
	}
	return 0, fmt.Errorf("unknown month %q", s)
}

// Rule describes one transition: "the Week'th Weekday of Month at Hour",
// with Hour read on the local clock in force before the transition.
// Offset is the UTC offset in minutes that applies after it.
type Rule struct {
	Abbrev  string
	Week    Week
	Weekday Weekday
	Month   int
	Hour    int
	Offset  int
}

func (r Rule) String() string {
	return fmt.Sprintf("%s (%s %s of %s %02d:00, UTC%+03d:%02d)",
		r.Abbrev, r.Week, r.Weekday, monthAbbrev(r.Month),
		r.Hour, r.Offset/60, abs(r.Offset%60))
}

// Validate checks the rule's fields.
func (r Rule) Validate() error {
	if r.Week < Last || r.Week > Fourth {
		return fmt.Errorf("week must be last or first-fourth, got %d", int(r.Week))
	}
	if r.Weekday < Sunday || r.Weekday > Saturday {
		return fmt.Errorf("weekday must be 0-6, got %d", int(r.Weekday))
	}
	if r.Month < 1 || r.Month > 12 {
		return fmt.Errorf("month must be 1-12, got %d", r.Month)
	}
	if r.Hour < 0 || r.Hour > 23 {
		return fmt.Errorf("hour must be 0-23, got %d", r.Hour)
	}
	if r.Offset < -14*60 || r.Offset > 14*60 {
		return fmt.Errorf("offset must be within +/-840 minutes, got %d", r.Offset)
	}
	return nil
}

// fireLocal returns the wall-clock instant at which r fires in year,
// expressed on the local clock in force just before the change.
func (r Rule) fireLocal(year int) Epoch {
	month, y, week := r.Month, year, r.Week
	if week == Last {
		// Find the first occurrence in the following month, then step back a week.
		month++
		if month > 12 {
			month = 1
			y++
		}
		week = First
	}

	t := Compose(CalendarTime{Year: y, Month: month, Day: 1, Hour: r.Hour})
	shift := (int(r.Weekday)-int(DayOfWeek(t))+7)%7 + (int(week)-1)*7
	t += Epoch(shift) * secsPerDay
	if r.Week == Last {
		t -= secsPerWeek
	}
	return t
}

func monthAbbrev(m int) string {
	if m < 1 || m > 12 {
		return strconv.Itoa(m)
	}
	name := monthNames[m-1]
	return strings.ToUpper(name[:1]) + name[1:3]
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
