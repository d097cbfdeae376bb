// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package backlight

import (
	"fmt"
	"log"

	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/conn/v3/physic"
)

// DefaultFrequency is used when no PWM frequency is configured.
const DefaultFrequency = 1 * physic.KiloHertz

// PWM drives the backlight LED through a PWM-capable GPIO pin.
// Unchanged levels are not rewritten.
type PWM struct {
	pin  gpio.PinOut
	freq physic.Frequency
	last int
}

// OpenPWM looks up pinName in the periph registry. hz <= 0 selects
// DefaultFrequency. host.Init must have been called.
func OpenPWM(pinName string, hz int) (*PWM, error) {
	p := gpioreg.ByName(pinName)
	if p == nil {
		return nil, fmt.Errorf("backlight: gpio pin %q not found", pinName)
	}
	freq := DefaultFrequency
	if hz > 0 {
		freq = physic.Frequency(hz) * physic.Hertz
	}
	log.Printf("backlight: PWM on %s at %s", pinName, freq)
	return NewPWM(p, freq), nil
}

// NewPWM returns a PWM output on pin.
func NewPWM(pin gpio.PinOut, freq physic.Frequency) *PWM {
	return &PWM{pin: pin, freq: freq, last: -1}
}

// DutyFor maps a 0-255 level onto the periph duty range.
func DutyFor(level uint8) gpio.Duty {
	return gpio.Duty(int64(level) * int64(gpio.DutyMax) / 255)
}

func (p *PWM) Set(level uint8) error {
	if int(level) == p.last {
		return nil
	}
	var err error
	if level == 0 {
		err = p.pin.Out(gpio.Low)
	} else {
		err = p.pin.PWM(DutyFor(level), p.freq)
	}
	if err != nil {
		return fmt.Errorf("backlight: set level %d on %s: %w", level, p.pin, err)
	}
	p.last = int(level)
	return nil
}

// Halt stops the PWM and turns the backlight off.
func (p *PWM) Halt() error {
	p.last = -1
	if err := p.pin.Halt(); err != nil {
		return err
	}
	return p.pin.Out(gpio.Low)
}
