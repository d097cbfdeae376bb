// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

// Package tz converts the RTC's UTC calendar fields to local wall-clock time.
//
// The arithmetic is done on Epoch values (seconds since 1970-01-01 00:00:00)
// so that offsets and weekday lookups never touch broken-out fields directly.
// Nothing here depends on the host's zoneinfo database.
package tz

import "fmt"

// CalendarTime is a Gregorian calendar point at second resolution.
// It carries either the raw RTC value (treated as UTC) or a converted local value.
type CalendarTime struct {
	Year   int
	Month  int // 1-12
	Day    int // 1-31
	Hour   int // 0-23
	Minute int // 0-59
	Second int // 0-59
}

func (c CalendarTime) String() string {
	return fmt.Sprintf("%04d-%02d-%02d %02d:%02d:%02d", c.Year, c.Month, c.Day, c.Hour, c.Minute, c.Second)
}

// Valid reports whether c names a real calendar point.
func (c CalendarTime) Valid() bool {
	if c.Month < 1 || c.Month > 12 {
		return false
	}
	if c.Day < 1 || c.Day > DaysIn(c.Year, c.Month) {
		return false
	}
	return c.Hour >= 0 && c.Hour < 24 &&
		c.Minute >= 0 && c.Minute < 60 &&
		c.Second >= 0 && c.Second < 60
}

// Epoch is a count of seconds since 1970-01-01 00:00:00.
type Epoch int64

const (
	secsPerMinute = 60
	secsPerHour   = 60 * secsPerMinute
	secsPerDay    = 24 * secsPerHour
	secsPerWeek   = 7 * secsPerDay
)

// IsLeap applies the 4/100/400 rule.
func IsLeap(year int) bool {
	return year%4 == 0 && (year%100 != 0 || year%400 == 0)
}

var monthDays = [12]int{31, 28, 31, 30, 31, 30, 31, 31, 30, 31, 30, 31}

// DaysIn returns the number of days in month of year.
func DaysIn(year, month int) int {
	if month < 1 || month > 12 {
		return 0
	}
	if month == 2 && IsLeap(year) {
		return 29
	}
	return monthDays[month-1]
}

// Compose turns calendar fields into an Epoch. Out-of-range fields are not
// rejected; they simply produce whatever the day arithmetic yields.
func Compose(c CalendarTime) Epoch {
	days := daysFromCivil(c.Year, c.Month, c.Day)
	return Epoch(days*secsPerDay +
		int64(c.Hour)*secsPerHour +
		int64(c.Minute)*secsPerMinute +
		int64(c.Second))
}

// Decompose is the inverse of Compose.
func Decompose(e Epoch) CalendarTime {
	days := floorDiv(int64(e), secsPerDay)
	rem := int64(e) - days*secsPerDay
	y, m, d := civilFromDays(days)
	return CalendarTime{
		Year:   y,
		Month:  m,
		Day:    d,
		Hour:   int(rem / secsPerHour),
		Minute: int(rem % secsPerHour / secsPerMinute),
		Second: int(rem % secsPerMinute),
	}
}

// DayOfWeek returns the weekday of e. 1970-01-01 was a Thursday.
func DayOfWeek(e Epoch) Weekday {
	days := floorDiv(int64(e), secsPerDay)
	return Weekday(floorMod(days+4, 7))
}

// daysFromCivil counts days from 1970-01-01 using 400-year eras with
// March-based years, so the leap day is always the last day of the year.
func daysFromCivil(y, m, d int) int64 {
	if m <= 2 {
		y--
	}
	era := floorDiv(int64(y), 400)
	yoe := int64(y) - era*400
	mp := int64((m + 9) % 12)
	doy := (153*mp+2)/5 + int64(d) - 1
	doe := yoe*365 + yoe/4 - yoe/100 + doy
	return era*146097 + doe - 719468
}

func civilFromDays(z int64) (year, month, day int) {
	z += 719468
	era := floorDiv(z, 146097)
	doe := z - era*146097
	yoe := (doe - doe/1460 + doe/36524 - doe/146096) / 365
	doy := doe - (365*yoe + yoe/4 - yoe/100)
	mp := (5*doy + 2) / 153
	day = int(doy - (153*mp+2)/5 + 1)
	if mp < 10 {
		month = int(mp + 3)
	} else {
		month = int(mp - 9)
	}
	year = int(yoe + era*400)
	if month <= 2 {
		year++
	}
	return year, month, day
}

func floorDiv(a, b int64) int64 {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

func floorMod(a, b int64) int64 {
	return a - floorDiv(a, b)*b
}
