// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package gps

import (
	"strings"

	nmea "github.com/adrianmo/go-nmea"
)

// Parser accumulates receiver state from NMEA sentences.
//
// Time is taken from RMC, GGA and ZDA; date from RMC and ZDA; satellite
// count from GGA. A value counts as valid once the receiver has sent a
// non-empty field for it, and as updated until the next Poll.
type Parser struct {
	hour, minute, second   int
	timeValid, timeUpdated bool

	day, month, year       int
	dateValid, dateUpdated bool

	satellites      int
	satellitesValid bool
}

// NewParser returns an empty parser.
func NewParser() *Parser {
	return &Parser{}
}

// Encode feeds one line to the parser and reports whether it changed any
// decoded field. Blank lines and non-NMEA noise are ignored.
func (p *Parser) Encode(line string) bool {
	line = strings.TrimSpace(line)
	if line == "" || !strings.HasPrefix(line, "$") {
		return false
	}

	sentence, err := nmea.Parse(line)
	if err != nil {
		// partial sentences after port open are normal
		return false
	}

	switch sentence.DataType() {
	case nmea.TypeRMC:
		m := sentence.(nmea.RMC)
		t := p.commitTime(m.Time)
		d := false
		if m.Date.Valid {
			d = p.commitDate(m.Date.DD, m.Date.MM, 2000+m.Date.YY)
		}
		return t || d

	case nmea.TypeGGA:
		m := sentence.(nmea.GGA)
		p.commitTime(m.Time)
		p.satellites = int(m.NumSatellites)
		p.satellitesValid = true
		return true

	case nmea.TypeZDA:
		m := sentence.(nmea.ZDA)
		t := p.commitTime(m.Time)
		d := false
		if m.Day > 0 && m.Month > 0 && m.Year > 0 {
			d = p.commitDate(int(m.Day), int(m.Month), int(m.Year))
		}
		return t || d

	default:
		// GSA, GSV, VTG etc. carry nothing the clock needs
		return false
	}
}

func (p *Parser) commitTime(t nmea.Time) bool {
	if !t.Valid {
		return false
	}
	p.hour, p.minute, p.second = t.Hour, t.Minute, t.Second
	p.timeValid = true
	p.timeUpdated = true
	return true
}

func (p *Parser) commitDate(day, month, year int) bool {
	p.day, p.month, p.year = day, month, year
	p.dateValid = true
	p.dateUpdated = true
	return true
}

// Poll returns the current state and clears the updated flags, so each
// decoded time and date is reported as updated exactly once.
func (p *Parser) Poll() Fix {
	f := Fix{
		TimeValid:       p.timeValid,
		TimeUpdated:     p.timeUpdated,
		DateValid:       p.dateValid,
		DateUpdated:     p.dateUpdated,
		SatellitesValid: p.satellitesValid,
		Satellites:      p.satellites,
		Hour:            p.hour,
		Minute:          p.minute,
		Second:          p.second,
		Day:             p.day,
		Month:           p.month,
		Year:            p.year,
	}
	p.timeUpdated = false
	p.dateUpdated = false
	return f
}
