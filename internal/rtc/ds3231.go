// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package rtc

import (
	"fmt"
	"log"

	"periph.io/x/conn/v3/i2c"

	"github.com/relabs-tech/gps_clock/internal/tz"
)

// DS3231Addr is the fixed I2C address of the DS3231 (and DS1307).
const DS3231Addr = 0x68

// DS3231 register map.
// Datasheet: https://www.analog.com/media/en/technical-documentation/data-sheets/DS3231.pdf
const (
	regSeconds = 0x00
	regMinutes = 0x01
	regHours   = 0x02
	regWeekday = 0x03
	regDate    = 0x04
	regMonth   = 0x05
	regYear    = 0x06
	regControl = 0x0E
	regStatus  = 0x0F

	hour12Mode = 0x40
	hourPM     = 0x20
	statusOSF  = 0x80 // oscillator stopped since last set: time is not trustworthy
)

// DS3231 is a Store backed by a DS3231 real-time clock.
type DS3231 struct {
	dev *i2c.Dev
}

// NewDS3231 probes the chip at addr on bus. addr 0 selects DS3231Addr.
func NewDS3231(bus i2c.Bus, addr uint16) (*DS3231, error) {
	if addr == 0 {
		addr = DS3231Addr
	}
	d := &DS3231{dev: &i2c.Dev{Bus: bus, Addr: addr}}
	status, err := d.status()
	if err != nil {
		return nil, fmt.Errorf("rtc: ds3231 probe at 0x%02X: %w", addr, err)
	}
	log.Printf("rtc: DS3231 initialized at 0x%02X (oscillator stop flag=%t)", addr, status&statusOSF != 0)
	return d, nil
}

// Read burst-reads seconds through year.
func (d *DS3231) Read() (Registers, error) {
	var buf [regYear + 1]byte
	if err := d.dev.Tx([]byte{regSeconds}, buf[:]); err != nil {
		return Registers{}, fmt.Errorf("rtc: read time registers: %w", err)
	}

	hour := bcdToDec(buf[regHours] & 0x3F)
	if buf[regHours]&hour12Mode != 0 {
		hour = bcdToDec(buf[regHours]&0x1F) % 12
		if buf[regHours]&hourPM != 0 {
			hour += 12
		}
	}

	return Registers{
		Second: bcdToDec(buf[regSeconds] & 0x7F),
		Minute: bcdToDec(buf[regMinutes] & 0x7F),
		Hour:   hour,
		Day:    bcdToDec(buf[regDate] & 0x3F),
		Month:  bcdToDec(buf[regMonth] & 0x1F),
		Year:   bcdToDec(buf[regYear]),
	}, nil
}

// SetTime writes hours, minutes and seconds in 24-hour mode and clears the
// oscillator stop flag.
func (d *DS3231) SetTime(hour, minute, second int) error {
	if err := checkTime(hour, minute, second); err != nil {
		return err
	}
	w := []byte{regSeconds, decToBCD(second), decToBCD(minute), decToBCD(hour)}
	if err := d.dev.Tx(w, nil); err != nil {
		return fmt.Errorf("rtc: write time: %w", err)
	}

	status, err := d.status()
	if err != nil {
		return err
	}
	if status&statusOSF != 0 {
		if err := d.dev.Tx([]byte{regStatus, status &^ statusOSF}, nil); err != nil {
			return fmt.Errorf("rtc: clear oscillator stop flag: %w", err)
		}
	}
	return nil
}

// SetDate writes weekday, day, month and the 2-digit year.
func (d *DS3231) SetDate(day, month, year2 int) error {
	if err := checkDate(day, month, year2); err != nil {
		return err
	}
	// The chip counts weekdays 1-7; Sunday=1 keeps it aligned with tz.Weekday.
	wd := tz.DayOfWeek(tz.Compose(tz.CalendarTime{Year: Century + year2, Month: month, Day: day}))
	w := []byte{regWeekday, decToBCD(int(wd) + 1), decToBCD(day), decToBCD(month), decToBCD(year2)}
	if err := d.dev.Tx(w, nil); err != nil {
		return fmt.Errorf("rtc: write date: %w", err)
	}
	return nil
}

// IsTimeSet reports whether the oscillator has run uninterrupted since the
// last SetTime.
func (d *DS3231) IsTimeSet() (bool, error) {
	status, err := d.status()
	if err != nil {
		return false, err
	}
	return status&statusOSF == 0, nil
}

// EnableOscillator clears EOSC in the control register so the clock keeps
// running on battery power.
func (d *DS3231) EnableOscillator() error {
	var ctrl [1]byte
	if err := d.dev.Tx([]byte{regControl}, ctrl[:]); err != nil {
		return fmt.Errorf("rtc: read control: %w", err)
	}
	if ctrl[0]&0x80 == 0 {
		return nil
	}
	if err := d.dev.Tx([]byte{regControl, ctrl[0] &^ 0x80}, nil); err != nil {
		return fmt.Errorf("rtc: write control: %w", err)
	}
	return nil
}

func (d *DS3231) status() (byte, error) {
	var buf [1]byte
	if err := d.dev.Tx([]byte{regStatus}, buf[:]); err != nil {
		return 0, fmt.Errorf("rtc: read status: %w", err)
	}
	return buf[0], nil
}
