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
)

// ErrAcquireTimeout is the cause returned when AcquireParams.Timeout elapses.
var ErrAcquireTimeout = errors.New("clock: timed out waiting for GPS time")

// NeedsAcquisition reports whether the RTC lost its time or holds a year
// too old to be real.
func NeedsAcquisition(store rtc.Store, minYear int) (bool, error) {
	set, err := store.IsTimeSet()
	if err != nil {
		return false, fmt.Errorf("clock: check rtc: %w", err)
	}
	if !set {
		return true, nil
	}
	r, err := store.Read()
	if err != nil {
		return false, fmt.Errorf("clock: read rtc: %w", err)
	}
	return r.Year+rtc.Century < minYear, nil
}

// AcquireParams configures Acquire.
type AcquireParams struct {
	Source        FixSource
	Store         rtc.Store
	MinSatellites int

	PollInterval time.Duration // default 100ms
	Timeout      time.Duration // 0 waits until ctx is done

	// Status, if set, is called with the satellite count on every poll.
	Status func(satellites int)
}

// Acquire polls the GPS until it delivers a trusted time, then writes it
// to the store unconditionally and returns the fix used.
//
// A fix is trusted once time is valid and fresh, the date is valid and
// enough satellites are in view. Fixes outside the RTC's century are
// ignored.
func Acquire(ctx context.Context, p AcquireParams) (gps.Fix, error) {
	if p.PollInterval <= 0 {
		p.PollInterval = 100 * time.Millisecond
	}
	if p.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeoutCause(ctx, p.Timeout, ErrAcquireTimeout)
		defer cancel()
	}

	ticker := time.NewTicker(p.PollInterval)
	defer ticker.Stop()

	for {
		p.Source.Drain()
		fix := p.Source.Poll()
		if p.Status != nil {
			p.Status(fix.Satellites)
		}

		if fix.TimeValid && fix.TimeUpdated && fix.DateValid && fix.Satellites >= p.MinSatellites {
			if fix.Year >= rtc.Century && fix.Year <= rtc.Century+99 {
				if err := p.Store.SetTime(fix.Hour, fix.Minute, fix.Second); err != nil {
					return fix, fmt.Errorf("clock: set rtc time: %w", err)
				}
				if err := p.Store.SetDate(fix.Day, fix.Month, fix.Year%100); err != nil {
					return fix, fmt.Errorf("clock: set rtc date: %w", err)
				}
				log.Printf("clock: acquired time from GPS: %s", fix)
				return fix, nil
			}
			log.Printf("clock: ignoring GPS fix with year %d", fix.Year)
		}

		select {
		case <-ctx.Done():
			return gps.Fix{}, context.Cause(ctx)
		case <-ticker.C:
		}
	}
}
