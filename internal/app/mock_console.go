// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package app

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/relabs-tech/gps_clock/internal/config"
	"github.com/relabs-tech/gps_clock/internal/display"
	"github.com/relabs-tech/gps_clock/internal/gps"
	"github.com/relabs-tech/gps_clock/internal/rtc"
)

// MockOptions configure the bench console.
type MockOptions struct {
	ConfigPath string        // optional; defaults apply when empty
	Satellites int           // satellites the simulated receiver ends up with
	Warmup     time.Duration // time until all satellites are in view
	Start      time.Time     // simulated UTC at launch; zero means now
	Out        io.Writer     // frames go here; stdout if nil
}

// RunMockConsole runs the whole clock against a simulated receiver, an
// in-memory RTC and a terminal display until SIGINT or SIGTERM.
func RunMockConsole(opts MockOptions) error {
	cfg := config.Default()
	if opts.ConfigPath != "" {
		var err error
		if cfg, err = config.Load(opts.ConfigPath); err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
	}
	if opts.Out == nil {
		opts.Out = os.Stdout
	}

	now := time.Now
	if !opts.Start.IsZero() {
		skew := opts.Start.Sub(time.Now())
		now = func() time.Time { return time.Now().Add(skew) }
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	sim := gps.NewSimulator(now, opts.Satellites, opts.Warmup)
	store := rtc.NewMemory(time.Now)
	grid := display.NewConsole(opts.Out)
	light := &loggingLight{last: -1}

	log.Printf("mock console: %d satellites after %s, starting at %s", opts.Satellites, opts.Warmup, now().UTC().Format(time.RFC3339))
	return runClock(ctx, cfg, sim, store, grid, light)
}

// loggingLight reports backlight changes instead of driving a pin.
type loggingLight struct {
	last int
}

func (l *loggingLight) Set(level uint8) error {
	if l.last != int(level) {
		log.Printf("backlight: level %d", level)
		l.last = int(level)
	}
	return nil
}
