// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/relabs-tech/gps_clock/internal/clock"
	"github.com/relabs-tech/gps_clock/internal/tz"
)

// Config holds all application configuration values.
type Config struct {
	GPS       GPSConfig       `yaml:"gps"`
	RTC       RTCConfig       `yaml:"rtc"`
	Display   DisplayConfig   `yaml:"display"`
	Backlight BacklightConfig `yaml:"backlight"`
	Clock     ClockConfig     `yaml:"clock"`
	Zone      ZoneConfig      `yaml:"zone"`
}

type GPSConfig struct {
	SerialPort string `yaml:"serial_port"`
	BaudRate   int    `yaml:"baud_rate"`
}

type RTCConfig struct {
	Driver  string `yaml:"driver"` // ds3231 | memory
	I2CBus  string `yaml:"i2c_bus"`
	I2CAddr uint16 `yaml:"i2c_addr"`
}

type DisplayConfig struct {
	Driver   string   `yaml:"driver"` // hd44780 | ssd1306 | console
	RSPin    string   `yaml:"rs_pin"`
	ENPin    string   `yaml:"en_pin"`
	DataPins []string `yaml:"data_pins"` // D4..D7
	I2CBus   string   `yaml:"i2c_bus"`
	I2CAddr  uint16   `yaml:"i2c_addr"`
}

type BacklightConfig struct {
	Driver      string `yaml:"driver"` // pwm | contrast | none
	Pin         string `yaml:"pin"`
	FrequencyHz int    `yaml:"frequency_hz"`
}

type ClockConfig struct {
	DimStartHour               int           `yaml:"dim_start_hour"`
	DimEndHour                 int           `yaml:"dim_end_hour"`
	DayBrightness              int           `yaml:"day_brightness"`
	NightBrightness            int           `yaml:"night_brightness"`
	MinSatellites              int           `yaml:"min_satellites"`
	CorrectionToleranceSeconds int           `yaml:"correction_tolerance_seconds"`
	BlinkInterval              time.Duration `yaml:"blink_interval"`
	LoopInterval               time.Duration `yaml:"loop_interval"`
	AcquireTimeout             time.Duration `yaml:"acquire_timeout"`
	AcquirePollInterval        time.Duration `yaml:"acquire_poll_interval"`
	MinPlausibleYear           int           `yaml:"min_plausible_year"`
}

// RuleConfig is a transition rule as written in the file. Week, weekday
// and month accept names ("last", "Sun", "Mar") or numbers.
type RuleConfig struct {
	Abbrev        string `yaml:"abbrev"`
	Week          string `yaml:"week"`
	Weekday       string `yaml:"weekday"`
	Month         string `yaml:"month"`
	Hour          int    `yaml:"hour"`
	OffsetMinutes int    `yaml:"offset_minutes"`
}

type ZoneConfig struct {
	DST RuleConfig `yaml:"dst"`
	STD RuleConfig `yaml:"std"`
}

// Package-level configuration state:
//   - globalConfig: the configuration loaded by InitGlobal.
//   - configOnce: ensures InitGlobal() only runs once.
//   - configMu: guards globalConfig for concurrent readers.
var (
	globalConfig *Config
	configOnce   sync.Once
	configMu     sync.RWMutex
)

// Default returns the configuration the clock ships with: a DS3231 RTC,
// a 20x4 HD44780 on the Adafruit pinout, PWM backlight on GPIO12 and
// Eastern European time.
func Default() *Config {
	s := clock.DefaultSettings()
	return &Config{
		GPS: GPSConfig{
			SerialPort: "/dev/serial0",
			BaudRate:   9600,
		},
		RTC: RTCConfig{
			Driver:  "ds3231",
			I2CAddr: 0x68,
		},
		Display: DisplayConfig{
			Driver:   "hd44780",
			RSPin:    "GPIO27",
			ENPin:    "GPIO22",
			DataPins: []string{"GPIO25", "GPIO24", "GPIO23", "GPIO18"},
			I2CAddr:  0x3C,
		},
		Backlight: BacklightConfig{
			Driver:      "pwm",
			Pin:         "GPIO12",
			FrequencyHz: 1000,
		},
		Clock: ClockConfig{
			DimStartHour:               s.Backlight.DimStartHour,
			DimEndHour:                 s.Backlight.DimEndHour,
			DayBrightness:              int(s.Backlight.Day),
			NightBrightness:            int(s.Backlight.Night),
			MinSatellites:              s.MinSatellites,
			CorrectionToleranceSeconds: s.ToleranceSeconds,
			BlinkInterval:              s.BlinkInterval,
			LoopInterval:               s.LoopInterval,
			AcquireTimeout:             s.AcquireTimeout,
			AcquirePollInterval:        s.AcquirePollInterval,
			MinPlausibleYear:           s.MinPlausibleYear,
		},
		Zone: ZoneConfig{
			DST: RuleConfig{Abbrev: "EEST", Week: "last", Weekday: "Sun", Month: "Mar", Hour: 3, OffsetMinutes: 180},
			STD: RuleConfig{Abbrev: "EET", Week: "last", Weekday: "Sun", Month: "Oct", Hour: 4, OffsetMinutes: 120},
		},
	}
}

// Load reads the YAML file at configPath over the defaults. Keys missing
// from the file keep their default value; unknown keys are an error.
func Load(configPath string) (*Config, error) {
	b, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open config file: %w", err)
	}
	return Parse(b)
}

// Parse decodes YAML over the defaults and validates the result.
func Parse(b []byte) (*Config, error) {
	cfg := Default()
	dec := yaml.NewDecoder(bytes.NewReader(b))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// validate checks ranges and driver names.
func (c *Config) validate() error {
	if c.GPS.SerialPort == "" {
		return fmt.Errorf("gps.serial_port is required")
	}
	if c.GPS.BaudRate <= 0 {
		return fmt.Errorf("gps.baud_rate must be positive, got %d", c.GPS.BaudRate)
	}

	switch c.RTC.Driver {
	case "ds3231", "memory":
	default:
		return fmt.Errorf("rtc.driver must be ds3231 or memory, got %q", c.RTC.Driver)
	}

	switch c.Display.Driver {
	case "hd44780":
		if c.Display.RSPin == "" || c.Display.ENPin == "" {
			return fmt.Errorf("display.rs_pin and display.en_pin are required for hd44780")
		}
		if len(c.Display.DataPins) != 4 {
			return fmt.Errorf("display.data_pins must list 4 pins (D4-D7), got %d", len(c.Display.DataPins))
		}
	case "ssd1306", "console":
	default:
		return fmt.Errorf("display.driver must be hd44780, ssd1306 or console, got %q", c.Display.Driver)
	}

	switch c.Backlight.Driver {
	case "pwm":
		if c.Backlight.Pin == "" {
			return fmt.Errorf("backlight.pin is required for pwm")
		}
	case "contrast":
		if c.Display.Driver != "ssd1306" {
			return fmt.Errorf("backlight.driver contrast requires display.driver ssd1306, got %q", c.Display.Driver)
		}
	case "none":
	default:
		return fmt.Errorf("backlight.driver must be pwm, contrast or none, got %q", c.Backlight.Driver)
	}

	k := c.Clock
	if k.DimStartHour < 0 || k.DimStartHour > 23 {
		return fmt.Errorf("clock.dim_start_hour must be 0-23, got %d", k.DimStartHour)
	}
	if k.DimEndHour < 0 || k.DimEndHour > 23 {
		return fmt.Errorf("clock.dim_end_hour must be 0-23, got %d", k.DimEndHour)
	}
	if k.DayBrightness < 0 || k.DayBrightness > 255 {
		return fmt.Errorf("clock.day_brightness must be 0-255, got %d", k.DayBrightness)
	}
	if k.NightBrightness < 0 || k.NightBrightness > 255 {
		return fmt.Errorf("clock.night_brightness must be 0-255, got %d", k.NightBrightness)
	}
	if k.MinSatellites < 0 {
		return fmt.Errorf("clock.min_satellites must not be negative, got %d", k.MinSatellites)
	}
	if k.CorrectionToleranceSeconds < 0 || k.CorrectionToleranceSeconds > 59 {
		return fmt.Errorf("clock.correction_tolerance_seconds must be 0-59, got %d", k.CorrectionToleranceSeconds)
	}
	if k.BlinkInterval <= 0 || k.BlinkInterval >= time.Second {
		return fmt.Errorf("clock.blink_interval must be between 0 and 1s, got %s", k.BlinkInterval)
	}
	if k.LoopInterval <= 0 {
		return fmt.Errorf("clock.loop_interval must be positive, got %s", k.LoopInterval)
	}
	if k.AcquireTimeout < 0 {
		return fmt.Errorf("clock.acquire_timeout must not be negative, got %s", k.AcquireTimeout)
	}
	if k.AcquirePollInterval <= 0 {
		return fmt.Errorf("clock.acquire_poll_interval must be positive, got %s", k.AcquirePollInterval)
	}

	if _, err := c.TimeZone(); err != nil {
		return err
	}
	return nil
}

// Settings returns the run-loop settings.
func (c *Config) Settings() clock.Settings {
	k := c.Clock
	return clock.Settings{
		Backlight: clock.Brightness{
			DimStartHour: k.DimStartHour,
			DimEndHour:   k.DimEndHour,
			Day:          uint8(k.DayBrightness),
			Night:        uint8(k.NightBrightness),
		},
		MinSatellites:       k.MinSatellites,
		ToleranceSeconds:    k.CorrectionToleranceSeconds,
		BlinkInterval:       k.BlinkInterval,
		LoopInterval:        k.LoopInterval,
		AcquireTimeout:      k.AcquireTimeout,
		AcquirePollInterval: k.AcquirePollInterval,
		MinPlausibleYear:    k.MinPlausibleYear,
	}
}

// TimeZone builds the zone from the dst and std rules.
func (c *Config) TimeZone() (tz.Zone, error) {
	dst, err := c.Zone.DST.Rule()
	if err != nil {
		return tz.Zone{}, fmt.Errorf("zone.dst: %w", err)
	}
	std, err := c.Zone.STD.Rule()
	if err != nil {
		return tz.Zone{}, fmt.Errorf("zone.std: %w", err)
	}
	z, err := tz.NewZone(dst, std)
	if err != nil {
		return tz.Zone{}, fmt.Errorf("zone: %w", err)
	}
	return z, nil
}

// Rule parses the names in r.
func (r RuleConfig) Rule() (tz.Rule, error) {
	if r.Abbrev == "" {
		return tz.Rule{}, fmt.Errorf("abbrev is required")
	}
	week, err := tz.ParseWeek(r.Week)
	if err != nil {
		return tz.Rule{}, err
	}
	day, err := tz.ParseWeekday(r.Weekday)
	if err != nil {
		return tz.Rule{}, err
	}
	month, err := tz.ParseMonth(r.Month)
	if err != nil {
		return tz.Rule{}, err
	}
	rule := tz.Rule{
		Abbrev:  r.Abbrev,
		Week:    week,
		Weekday: day,
		Month:   month,
		Hour:    r.Hour,
		Offset:  r.OffsetMinutes,
	}
	if err := rule.Validate(); err != nil {
		return tz.Rule{}, err
	}
	return rule, nil
}

// InitGlobal initializes the global configuration from file.
// Only the first call loads; later calls return the first result.
func InitGlobal(configPath string) error {
	var err error
	configOnce.Do(func() {
		configMu.Lock()
		defer configMu.Unlock()
		globalConfig, err = Load(configPath)
	})
	return err
}

// Get returns the global configuration instance.
// InitGlobal must be called first, or this will return nil.
func Get() *Config {
	configMu.RLock()
	defer configMu.RUnlock()
	return globalConfig
}
