// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package main

import (
	"flag"
	"log"
	"time"

	"github.com/relabs-tech/gps_clock/internal/app"
)

func main() {
	configPath := flag.String("config", "", "Optional configuration file (defaults apply when empty)")
	satellites := flag.Int("satellites", 9, "Satellites the simulated receiver reaches")
	warmup := flag.Duration("warmup", 10*time.Second, "Time until all satellites are in view")
	start := flag.String("start", "", "Simulated UTC start time, RFC3339 (e.g. 2025-03-30T00:59:30Z)")
	flag.Parse()

	opts := app.MockOptions{
		ConfigPath: *configPath,
		Satellites: *satellites,
		Warmup:     *warmup,
	}
	if *start != "" {
		t, err := time.Parse(time.RFC3339, *start)
		if err != nil {
			log.Fatalf("invalid -start: %v", err)
		}
		opts.Start = t
	}

	log.Println("starting gps-clock (mock console)")

	if err := app.RunMockConsole(opts); err != nil {
		log.Fatalf("fatal: %v", err)
	}
}
