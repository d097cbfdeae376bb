// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package app

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"periph.io/x/host/v3"

	"github.com/relabs-tech/gps_clock/internal/backlight"
	"github.com/relabs-tech/gps_clock/internal/clock"
	"github.com/relabs-tech/gps_clock/internal/config"
	"github.com/relabs-tech/gps_clock/internal/display"
	"github.com/relabs-tech/gps_clock/internal/gps"
	"github.com/relabs-tech/gps_clock/internal/rtc"
)

// RunClock opens the hardware named in the configuration file and runs
// the clock until SIGINT or SIGTERM.
func RunClock(configPath string) error {
	if err := config.InitGlobal(configPath); err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	cfg := config.Get()

	// Initialize periph
	if _, err := host.Init(); err != nil {
		return fmt.Errorf("failed to initialize periph: %w", err)
	}

	hw, err := openPeripherals(cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := hw.Close(); err != nil {
			log.Printf("shutdown: %v", err)
		}
	}()

	port, err := gps.OpenSerial(cfg.GPS.SerialPort, cfg.GPS.BaudRate)
	if err != nil {
		return err
	}
	defer port.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	feed := gps.NewFeed(gps.NewParser(), 0)
	feed.Start(ctx, port)

	return runClock(ctx, cfg, feed, hw.store, hw.grid, hw.light)
}

// runClock is the power-up sequence followed by the run loop. It is shared
// by the hardware clock and the mock console.
func runClock(ctx context.Context, cfg *config.Config, src clock.FixSource, store rtc.Store, grid display.Grid, light backlight.Output) error {
	settings := cfg.Settings()
	zone, err := cfg.TimeZone()
	if err != nil {
		return err
	}

	// Lights on before anything is drawn.
	if err := light.Set(settings.Backlight.Day); err != nil {
		log.Printf("backlight: %v", err)
	}

	screen := display.NewScreen(grid)
	if err := screen.Starting(); err != nil {
		log.Printf("display: %v", err)
	}
	if err := screen.CheckingRTC(); err != nil {
		log.Printf("display: %v", err)
	}

	need, err := clock.NeedsAcquisition(store, settings.MinPlausibleYear)
	if err != nil {
		log.Printf("clock: %v; waiting for GPS time", err)
		need = true
	}
	if need {
		if err := acquire(ctx, screen, src, store, settings); err != nil {
			return err
		}
		if ctx.Err() != nil {
			return nil
		}
	}

	if err := screen.Clear(); err != nil {
		log.Printf("display: %v", err)
	}
	c, err := clock.New(clock.Deps{
		Source:   src,
		Store:    store,
		Zone:     zone,
		Screen:   screen,
		Light:    light,
		Settings: settings,
	})
	if err != nil {
		return err
	}
	return c.Run(ctx)
}

// acquire shows the waiting screen and blocks until GPS time is written.
// A timeout is not fatal: the clock starts on whatever the RTC holds and
// the drift corrector takes over once satellites appear.
func acquire(ctx context.Context, screen *display.Screen, src clock.FixSource, store rtc.Store, s clock.Settings) error {
	log.Println("clock: RTC time not set, waiting for satellites")
	if err := screen.WaitingForSatellites(); err != nil {
		log.Printf("display: %v", err)
	}

	_, err := clock.Acquire(ctx, clock.AcquireParams{
		Source:        src,
		Store:         store,
		MinSatellites: s.MinSatellites,
		PollInterval:  s.AcquirePollInterval,
		Timeout:       s.AcquireTimeout,
		Status: func(n int) {
			if err := screen.AcquireStatus(n); err != nil {
				log.Printf("display: %v", err)
			}
		},
	})
	switch {
	case err == nil:
		return nil
	case errors.Is(err, clock.ErrAcquireTimeout):
		log.Printf("clock: no GPS time after %s, running on RTC time", s.AcquireTimeout)
		return nil
	case errors.Is(err, context.Canceled):
		return nil
	default:
		return err
	}
}
