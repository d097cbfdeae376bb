// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package rtc

import (
	"time"

	"github.com/relabs-tech/gps_clock/internal/tz"
)

// Memory is an in-memory Store that free-runs from now, the way the real
// chip keeps counting between writes. It starts at 2000-01-01 00:00:00
// with the time-set flag cleared, like a DS3231 after battery loss.
type Memory struct {
	now func() time.Time

	base tz.Epoch // register value at the instant `at`
	at   time.Time
	set  bool

	// SetTimeCalls and SetDateCalls count writes, for tests.
	SetTimeCalls int
	SetDateCalls int

	// ReadError, if set, is returned by Read.
	ReadError error
}

// NewMemory returns a cleared store clocked by now.
// A nil now freezes the store between writes.
func NewMemory(now func() time.Time) *Memory {
	if now == nil {
		frozen := time.Unix(0, 0)
		now = func() time.Time { return frozen }
	}
	m := &Memory{now: now}
	m.base = tz.Compose(tz.CalendarTime{Year: Century, Month: 1, Day: 1})
	m.at = now()
	return m
}

// NewMemoryAt returns a store already set to r.
func NewMemoryAt(now func() time.Time, r Registers) *Memory {
	m := NewMemory(now)
	m.base = tz.Compose(r.Calendar())
	m.set = true
	return m
}

func (m *Memory) current() tz.Epoch {
	return m.base + tz.Epoch(m.now().Sub(m.at)/time.Second)
}

func (m *Memory) rebase(c tz.CalendarTime) {
	m.base = tz.Compose(c)
	m.at = m.now()
}

// Read returns the free-running register value.
func (m *Memory) Read() (Registers, error) {
	if m.ReadError != nil {
		return Registers{}, m.ReadError
	}
	c := tz.Decompose(m.current())
	return Registers{
		Second: c.Second,
		Minute: c.Minute,
		Hour:   c.Hour,
		Day:    c.Day,
		Month:  c.Month,
		Year:   c.Year - Century,
	}, nil
}

// SetTime replaces the time of day, keeping the date, and marks the store set.
func (m *Memory) SetTime(hour, minute, second int) error {
	if err := checkTime(hour, minute, second); err != nil {
		return err
	}
	c := tz.Decompose(m.current())
	c.Hour, c.Minute, c.Second = hour, minute, second
	m.rebase(c)
	m.set = true
	m.SetTimeCalls++
	return nil
}

// SetDate replaces the date, keeping the time of day.
func (m *Memory) SetDate(day, month, year2 int) error {
	if err := checkDate(day, month, year2); err != nil {
		return err
	}
	c := tz.Decompose(m.current())
	c.Day, c.Month, c.Year = day, month, Century+year2
	m.rebase(c)
	m.SetDateCalls++
	return nil
}

// IsTimeSet reports whether SetTime has been called.
func (m *Memory) IsTimeSet() (bool, error) {
	return m.set, nil
}

// Writes returns the total number of SetTime and SetDate calls.
func (m *Memory) Writes() int {
	return m.SetTimeCalls + m.SetDateCalls
}
