// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package main

import (
	"flag"
	"log"

	"github.com/relabs-tech/gps_clock/internal/app"
)

func main() {
	configPath := flag.String("config", "gps_clock.yaml", "Path to configuration file")
	flag.Parse()

	log.Println("starting gps-clock (GPS -> RTC -> display)")

	if err := app.RunClock(*configPath); err != nil {
		log.Fatalf("fatal: %v", err)
	}
}
