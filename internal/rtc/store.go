// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

// Package rtc provides the battery-backed clock store the clock reads and
// disciplines. The real implementation talks to a DS3231 over I2C.
// The memory implementation free-runs from a supplied clock for tests and
// the bench console.
package rtc

import (
	"errors"
	"fmt"

	"github.com/relabs-tech/gps_clock/internal/tz"
)

// Century is the fixed century of the 2-digit year register. Dates outside
// 2000-2099 cannot be stored.
const Century = 2000

// ErrYearOutOfRange is returned for a 2-digit year outside 0-99.
var ErrYearOutOfRange = errors.New("rtc: year out of range")

// Registers is one burst read of the clock registers, kept in UTC.
type Registers struct {
	Second int
	Minute int
	Hour   int
	Day    int
	Month  int
	Year   int // 2-digit, offset from Century
}

// Calendar returns the registers as a full-year UTC calendar time.
func (r Registers) Calendar() tz.CalendarTime {
	return tz.CalendarTime{
		Year:   r.Year + Century,
		Month:  r.Month,
		Day:    r.Day,
		Hour:   r.Hour,
		Minute: r.Minute,
		Second: r.Second,
	}
}

func (r Registers) String() string {
	return r.Calendar().String()
}

// Store is the clock peripheral.
//
// Read returns all fields from a single snapshot, so a second rollover
// between field reads cannot produce a torn value.
type Store interface {
	Read() (Registers, error)
	SetTime(hour, minute, second int) error
	SetDate(day, month, year2 int) error
	// IsTimeSet reports false after a power loss or before the first write.
	IsTimeSet() (bool, error)
}

func checkTime(hour, minute, second int) error {
	if hour < 0 || hour > 23 || minute < 0 || minute > 59 || second < 0 || second > 59 {
		return fmt.Errorf("rtc: invalid time %02d:%02d:%02d", hour, minute, second)
	}
	return nil
}

func checkDate(day, month, year2 int) error {
	if year2 < 0 || year2 > 99 {
		return fmt.Errorf("%w: %d", ErrYearOutOfRange, year2)
	}
	if month < 1 || month > 12 || day < 1 || day > tz.DaysIn(Century+year2, month) {
		return fmt.Errorf("rtc: invalid date %02d.%02d.%02d", day, month, year2)
	}
	return nil
}

func bcdToDec(b byte) int {
	return int(b) - 6*(int(b)>>4)
}

func decToBCD(n int) byte {
	return byte(n/10*16 + n%10)
}
