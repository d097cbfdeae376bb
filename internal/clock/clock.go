// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package clock

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/relabs-tech/gps_clock/internal/gps"
	"github.com/relabs-tech/gps_clock/internal/rtc"
	"github.com/relabs-tech/gps_clock/internal/tz"
)

// FixSource is a GPS receiver: Drain consumes pending input without
// blocking and Poll returns the one-shot fix event.
type FixSource interface {
	Drain() int
	Poll() gps.Fix
}

// stoppable is a FixSource whose reader can die, like gps.Feed.
type stoppable interface {
	Err() error
}

// Screen renders the clock face.
type Screen interface {
	DrawClock(local tz.Local, satellites int) error
	DrawDivider(show bool) error
}

// Light is the backlight output.
type Light interface {
	Set(level uint8) error
}

// Deps are the peripherals and settings of a Clock.
type Deps struct {
	Source   FixSource
	Store    rtc.Store
	Zone     tz.Zone
	Screen   Screen
	Light    Light // optional
	Settings Settings

	// Now is the monotonic time source for the blink timer; time.Now if nil.
	Now func() time.Time
}

// Clock is the run loop. It owns all loop state and must be driven from a
// single goroutine.
type Clock struct {
	source    FixSource
	store     rtc.Store
	zone      tz.Zone
	screen    Screen
	light     Light
	settings  Settings
	now       func() time.Time
	corrector *Corrector
	refresher *Refresher

	localHour int
	feedDown  bool
}

// New validates deps and returns a Clock.
func New(d Deps) (*Clock, error) {
	if d.Source == nil {
		return nil, errors.New("clock: nil fix source")
	}
	if d.Store == nil {
		return nil, errors.New("clock: nil rtc store")
	}
	if d.Screen == nil {
		return nil, errors.New("clock: nil screen")
	}
	if d.Now == nil {
		d.Now = time.Now
	}
	if d.Settings.LoopInterval <= 0 {
		d.Settings.LoopInterval = DefaultSettings().LoopInterval
	}
	return &Clock{
		source:    d.Source,
		store:     d.Store,
		zone:      d.Zone,
		screen:    d.Screen,
		light:     d.Light,
		settings:  d.Settings,
		now:       d.Now,
		corrector: NewCorrector(d.Store, d.Settings.MinSatellites, d.Settings.ToleranceSeconds),
		refresher: NewRefresher(d.Settings.BlinkInterval),
	}, nil
}

// Step runs one iteration: drain the GPS, discipline the RTC, then redraw
// and set the backlight as the policies decide.
//
// An RTC read failure ends the iteration early. Display and backlight
// failures are reported together after the iteration completes.
func (c *Clock) Step() error {
	c.source.Drain()
	fix := c.source.Poll()
	c.checkFeed()

	regs, err := c.store.Read()
	if err != nil {
		return fmt.Errorf("clock: read rtc: %w", err)
	}

	var errs []error
	outcome, err := c.corrector.Correct(fix, regs)
	if err != nil {
		errs = append(errs, err)
	}
	if outcome == Corrected && err == nil {
		if regs, err = c.store.Read(); err != nil {
			return fmt.Errorf("clock: read rtc after correction: %w", err)
		}
	}

	d := c.refresher.Tick(regs.Second, c.now())
	if d.Redraw {
		local := c.zone.Convert(regs.Calendar())
		c.localHour = local.Hour
		if err := c.screen.DrawClock(local, fix.Satellites); err != nil {
			errs = append(errs, fmt.Errorf("clock: draw: %w", err))
		}
	}
	switch d.Divider {
	case DividerShow, DividerHide:
		if err := c.screen.DrawDivider(d.Divider == DividerShow); err != nil {
			errs = append(errs, fmt.Errorf("clock: draw divider: %w", err))
		}
	}

	if c.light != nil {
		if err := c.light.Set(BacklightLevel(c.localHour, c.settings.Backlight)); err != nil {
			errs = append(errs, fmt.Errorf("clock: backlight: %w", err))
		}
	}
	return errors.Join(errs...)
}

// Run steps the clock every LoopInterval until ctx is done. Step errors
// are logged and the loop carries on.
func (c *Clock) Run(ctx context.Context) error {
	ticker := time.NewTicker(c.settings.LoopInterval)
	defer ticker.Stop()

	log.Printf("clock: running (zone %s / %s, loop every %s)",
		c.zone.DST().Abbrev, c.zone.STD().Abbrev, c.settings.LoopInterval)
	for {
		if err := c.Step(); err != nil {
			log.Printf("clock: step error: %v", err)
		}
		select {
		case <-ctx.Done():
			log.Println("clock: stopping")
			return nil
		case <-ticker.C:
		}
	}
}

// checkFeed logs once when the GPS reader has stopped. The clock keeps
// running on RTC time.
func (c *Clock) checkFeed() {
	if c.feedDown {
		return
	}
	s, ok := c.source.(stoppable)
	if !ok {
		return
	}
	err := s.Err()
	if err == nil || errors.Is(err, context.Canceled) {
		return
	}
	log.Printf("clock: GPS feed stopped: %v; running on RTC time", err)
	c.feedDown = true
}
