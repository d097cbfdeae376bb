package gps

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log"
	"os"
	"strings"
	"testing"
	"time"
)

func TestParserRMCSetsTimeAndDate(t *testing.T) {
	p := NewParser()
	if !p.Encode(nmeaLine("GPRMC,103015.00,A,5027.000,N,03031.000,E,0.0,0.0,140725,0.0,E")) {
		t.Fatal("expected RMC to update the parser")
	}
	f := p.Poll()
	if !f.TimeValid || !f.TimeUpdated || !f.DateValid || !f.DateUpdated {
		t.Fatalf("expected fresh time and date, got %s", f)
	}
	if f.Hour != 10 || f.Minute != 30 || f.Second != 15 {
		t.Errorf("expected 10:30:15, got %02d:%02d:%02d", f.Hour, f.Minute, f.Second)
	}
	if f.Day != 14 || f.Month != 7 || f.Year != 2025 {
		t.Errorf("expected 2025-07-14, got %04d-%02d-%02d", f.Year, f.Month, f.Day)
	}
	if f.SatellitesValid {
		t.Error("RMC should not set a satellite count")
	}
}

func TestParserPollIsOneShot(t *testing.T) {
	p := NewParser()
	p.Encode(nmeaLine("GPRMC,103015.00,A,5027.000,N,03031.000,E,0.0,0.0,140725,0.0,E"))

	first := p.Poll()
	if !first.Ready() {
		t.Fatalf("first poll should be ready, got %s", first)
	}
	second := p.Poll()
	if second.TimeUpdated || second.DateUpdated {
		t.Errorf("second poll should not report updates, got %s", second)
	}
	if !second.TimeValid || !second.DateValid || second.Second != 15 {
		t.Errorf("valid flags and values should persist, got %s", second)
	}
}

func TestParserGGASetsSatellites(t *testing.T) {
	p := NewParser()
	p.Encode(nmeaLine("GPGGA,103016.00,4807.038,N,01131.000,E,1,08,0.9,545.4,M,46.9,M,,"))
	f := p.Poll()
	if !f.SatellitesValid || f.Satellites != 8 {
		t.Errorf("expected 8 satellites, got %d (valid=%t)", f.Satellites, f.SatellitesValid)
	}
	if !f.TimeUpdated || f.Second != 16 {
		t.Errorf("GGA should update time, got %s", f)
	}
	if f.DateValid {
		t.Error("GGA carries no date")
	}
}

func TestParserZDA(t *testing.T) {
	p := NewParser()
	p.Encode(nmeaLine("GPZDA,201530.00,04,07,2025,00,00"))
	f := p.Poll()
	if !f.Ready() {
		t.Fatalf("expected fresh time and date, got %s", f)
	}
	if f.Year != 2025 || f.Month != 7 || f.Day != 4 || f.Hour != 20 {
		t.Errorf("unexpected ZDA decode: %s", f)
	}
}

func TestParserIgnoresNoise(t *testing.T) {
	p := NewParser()
	good := nmeaLine("GPRMC,103015.00,A,5027.000,N,03031.000,E,0.0,0.0,140725,0.0,E")
	bad := good[:len(good)-2] + "00"

	for _, line := range []string{"", "   ", "garbage", bad} {
		if p.Encode(line) {
			t.Errorf("Encode(%q) should not update", line)
		}
	}
	if f := p.Poll(); f.TimeValid || f.DateValid {
		t.Errorf("noise must not produce a fix, got %s", f)
	}
}

func TestFeedDrainsLines(t *testing.T) {
	input := strings.Join([]string{
		nmeaLine("GPGGA,103016.00,4807.038,N,01131.000,E,1,07,0.9,545.4,M,46.9,M,,"),
		"noise",
		nmeaLine("GPRMC,103016.00,A,5027.000,N,03031.000,E,0.0,0.0,140725,0.0,E"),
	}, "\r\n") + "\r\n"

	feed := NewFeed(NewParser(), 16)
	feed.Start(context.Background(), strings.NewReader(input))

	deadline := time.Now().Add(2 * time.Second)
	for feed.Err() == nil {
		if time.Now().After(deadline) {
			t.Fatal("reader did not reach EOF")
		}
		time.Sleep(time.Millisecond)
	}

	if n := feed.Drain(); n != 3 {
		t.Errorf("expected 3 lines drained, got %d", n)
	}
	if n := feed.Drain(); n != 0 {
		t.Errorf("second drain should be empty, got %d", n)
	}
	f := feed.Poll()
	if !f.Ready() || f.Satellites != 7 {
		t.Errorf("expected ready fix with 7 satellites, got %s", f)
	}
}

func waitErr(t *testing.T, feed *Feed) error {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for feed.Err() == nil {
		if time.Now().After(deadline) {
			t.Fatal("reader did not stop")
		}
		time.Sleep(time.Millisecond)
	}
	return feed.Err()
}

func TestFeedReadErrors(t *testing.T) {
	var buf bytes.Buffer
	log.SetOutput(&buf)
	defer log.SetOutput(os.Stderr)

	// Port closed on shutdown: the read fails after cancel and stays quiet.
	pr, pw := io.Pipe()
	ctx, cancel := context.WithCancel(context.Background())
	feed := NewFeed(NewParser(), 4)
	feed.Start(ctx, pr)
	cancel()
	pw.CloseWithError(os.ErrClosed)
	if err := waitErr(t, feed); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled after shutdown, got %v", err)
	}
	if strings.Contains(buf.String(), "read error") {
		t.Errorf("shutdown should not log a read error, got %q", buf.String())
	}

	// The same failure while running is reported.
	pr, pw = io.Pipe()
	feed = NewFeed(NewParser(), 4)
	feed.Start(context.Background(), pr)
	pw.CloseWithError(os.ErrClosed)
	if err := waitErr(t, feed); !errors.Is(err, os.ErrClosed) {
		t.Errorf("expected os.ErrClosed, got %v", err)
	}
	if !strings.Contains(buf.String(), "gps: read error") {
		t.Errorf("expected a read error log, got %q", buf.String())
	}
}

func TestFeedDropsOldestWhenFull(t *testing.T) {
	feed := NewFeed(NewParser(), 2)
	feed.push("a")
	feed.push("b")
	feed.push("c")
	if got := <-feed.lines; got != "b" {
		t.Errorf("expected oldest surviving line b, got %q", got)
	}
	if got := <-feed.lines; got != "c" {
		t.Errorf("expected newest line c, got %q", got)
	}
}

func TestSimulatorEmitsOncePerSecond(t *testing.T) {
	now := time.Date(2025, 3, 30, 0, 59, 58, 0, time.UTC)
	sim := NewSimulator(func() time.Time { return now }, 9, 0)

	if n := sim.Drain(); n != 2 {
		t.Fatalf("expected 2 sentences, got %d", n)
	}
	if n := sim.Drain(); n != 0 {
		t.Errorf("same second should emit nothing, got %d", n)
	}
	f := sim.Poll()
	if !f.Ready() || f.Satellites != 9 {
		t.Fatalf("expected ready fix with 9 satellites, got %s", f)
	}
	if f.Year != 2025 || f.Month != 3 || f.Day != 30 || f.Second != 58 {
		t.Errorf("unexpected simulated fix %s", f)
	}

	now = now.Add(1500 * time.Millisecond)
	sim.Drain()
	if f := sim.Poll(); f.Second != 59 || !f.TimeUpdated {
		t.Errorf("expected updated second 59, got %s", f)
	}
}

func TestSimulatorWarmup(t *testing.T) {
	start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	now := start
	sim := NewSimulator(func() time.Time { return now }, 10, 10*time.Second)

	sim.Drain()
	if f := sim.Poll(); f.Satellites != 0 {
		t.Errorf("expected 0 satellites at start, got %d", f.Satellites)
	}
	now = start.Add(5 * time.Second)
	sim.Drain()
	if f := sim.Poll(); f.Satellites != 5 {
		t.Errorf("expected 5 satellites half way, got %d", f.Satellites)
	}
	now = start.Add(time.Minute)
	sim.Drain()
	if f := sim.Poll(); f.Satellites != 10 {
		t.Errorf("expected 10 satellites after warmup, got %d", f.Satellites)
	}
}

func TestFakeSourceRepeatsLastWithoutUpdates(t *testing.T) {
	src := NewFakeSource(Fix{TimeValid: true, TimeUpdated: true, DateValid: true, DateUpdated: true, Satellites: 7})
	if f := src.Poll(); !f.Ready() {
		t.Fatalf("first poll should be ready, got %s", f)
	}
	f := src.Poll()
	if f.TimeUpdated || f.DateUpdated {
		t.Errorf("repeated fix should not be updated, got %s", f)
	}
	if f.Satellites != 7 {
		t.Errorf("expected satellites to persist, got %d", f.Satellites)
	}
	src.Drain()
	if src.Drains != 1 {
		t.Errorf("expected 1 drain, got %d", src.Drains)
	}
}
