// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package app

import (
	"errors"
	"fmt"
	"log"
	"os"
	"time"

	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/i2c/i2creg"

	"github.com/relabs-tech/gps_clock/internal/backlight"
	"github.com/relabs-tech/gps_clock/internal/config"
	"github.com/relabs-tech/gps_clock/internal/display"
	"github.com/relabs-tech/gps_clock/internal/rtc"
)

// peripherals are the devices selected by the configuration.
type peripherals struct {
	store rtc.Store
	grid  display.Grid
	light backlight.Output

	buses   map[string]i2c.BusCloser
	closers []func() error
}

// openPeripherals opens the RTC, display and backlight drivers named in
// cfg. host.Init must have been called. On error everything opened so far
// is closed.
func openPeripherals(cfg *config.Config) (p *peripherals, err error) {
	p = &peripherals{buses: map[string]i2c.BusCloser{}}
	defer func() {
		if err != nil {
			p.Close()
			p = nil
		}
	}()

	switch cfg.RTC.Driver {
	case "memory":
		p.store = rtc.NewMemory(time.Now)
		log.Println("rtc: using in-memory clock store")
	default:
		bus, err := p.bus(cfg.RTC.I2CBus)
		if err != nil {
			return p, err
		}
		ds, err := rtc.NewDS3231(bus, cfg.RTC.I2CAddr)
		if err != nil {
			return p, err
		}
		if err := ds.EnableOscillator(); err != nil {
			log.Printf("rtc: %v", err)
		}
		p.store = ds
	}

	var oled *display.OLED
	switch cfg.Display.Driver {
	case "ssd1306":
		bus, err := p.bus(cfg.Display.I2CBus)
		if err != nil {
			return p, err
		}
		if oled, err = display.OpenOLED(bus, cfg.Display.I2CAddr); err != nil {
			return p, err
		}
		p.grid = oled
		p.closers = append(p.closers, oled.Halt)
	case "console":
		p.grid = display.NewConsole(os.Stdout)
	default:
		var pins [4]string
		copy(pins[:], cfg.Display.DataPins)
		lcd, err := display.OpenHD44780(cfg.Display.RSPin, cfg.Display.ENPin, pins)
		if err != nil {
			return p, err
		}
		p.grid = lcd
		p.closers = append(p.closers, lcd.Halt)
	}

	switch cfg.Backlight.Driver {
	case "pwm":
		pwm, err := backlight.OpenPWM(cfg.Backlight.Pin, cfg.Backlight.FrequencyHz)
		if err != nil {
			return p, err
		}
		p.light = pwm
		p.closers = append(p.closers, pwm.Halt)
	case "contrast":
		p.light = backlight.NewContrast(oled)
	default:
		p.light = backlight.None{}
	}
	return p, nil
}

// bus opens each named I2C bus once; the RTC and the OLED may share one.
func (p *peripherals) bus(name string) (i2c.Bus, error) {
	if b, ok := p.buses[name]; ok {
		return b, nil
	}
	b, err := i2creg.Open(name)
	if err != nil {
		return nil, fmt.Errorf("failed to open I2C bus %q: %w", name, err)
	}
	log.Printf("i2c: opened bus %s", b)
	p.buses[name] = b
	return b, nil
}

// Close halts the display and backlight, then closes the buses.
func (p *peripherals) Close() error {
	var errs []error
	for i := len(p.closers) - 1; i >= 0; i-- {
		if err := p.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	for name, b := range p.buses {
		if err := b.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close I2C bus %q: %w", name, err))
		}
	}
	return errors.Join(errs...)
}
