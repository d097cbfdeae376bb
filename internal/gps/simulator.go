// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package gps

import (
	"fmt"
	"time"
)

// Simulator stands in for a receiver on the bench: once per second of the
// supplied clock it encodes an RMC and a GGA sentence into its parser.
// The satellite count ramps from zero to Satellites over Warmup.
type Simulator struct {
	parser *Parser
	now    func() time.Time

	Satellites int
	Warmup     time.Duration

	start    time.Time
	lastUnix int64
}

// NewSimulator returns a simulator driven by now.
func NewSimulator(now func() time.Time, satellites int, warmup time.Duration) *Simulator {
	return &Simulator{
		parser:     NewParser(),
		now:        now,
		Satellites: satellites,
		Warmup:     warmup,
		start:      now(),
		lastUnix:   -1,
	}
}

// Drain emits the sentences for the current second, if not already emitted.
func (s *Simulator) Drain() int {
	t := s.now().UTC()
	if t.Unix() == s.lastUnix {
		return 0
	}
	s.lastUnix = t.Unix()

	lines := sentences(t, s.satellitesAt(t))
	for _, line := range lines {
		s.parser.Encode(line)
	}
	return len(lines)
}

// Poll returns the parser's one-shot fix event.
func (s *Simulator) Poll() Fix {
	return s.parser.Poll()
}

func (s *Simulator) satellitesAt(t time.Time) int {
	if s.Warmup <= 0 {
		return s.Satellites
	}
	elapsed := t.Sub(s.start)
	if elapsed >= s.Warmup {
		return s.Satellites
	}
	return int(int64(s.Satellites) * int64(elapsed) / int64(s.Warmup))
}

// sentences renders the RMC and GGA lines a receiver would send at t.
func sentences(t time.Time, sats int) []string {
	status, quality := "A", 1
	if sats < 4 {
		status, quality = "V", 0
	}
	hms := t.Format("150405") + ".00"
	rmc := fmt.Sprintf("GPRMC,%s,%s,5027.000,N,03031.000,E,0.0,0.0,%s,0.0,E",
		hms, status, t.Format("020106"))
	gga := fmt.Sprintf("GPGGA,%s,5027.000,N,03031.000,E,%d,%02d,0.9,179.0,M,26.0,M,,",
		hms, quality, sats)
	return []string{nmeaLine(rmc), nmeaLine(gga)}
}

// nmeaLine frames payload with '$', '*' and the XOR checksum.
func nmeaLine(payload string) string {
	ck := byte(0)
	for i := 0; i < len(payload); i++ {
		ck ^= payload[i]
	}
	return fmt.Sprintf("$%s*%02X", payload, ck)
}
