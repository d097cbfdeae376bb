// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package gps

import (
	"fmt"
	"io"
	"log"

	serial "github.com/jacobsa/go-serial/serial"
)

// OpenSerial opens the receiver's UART at 8N1.
// NOTE: typical port names are /dev/serial0, /dev/ttyAMA0, /dev/ttyUSB0 or /dev/ttyACM0.
func OpenSerial(portName string, baud int) (io.ReadWriteCloser, error) {
	if portName == "" {
		return nil, fmt.Errorf("gps: serial port name is empty")
	}
	if baud <= 0 {
		baud = 9600
	}
	opts := serial.OpenOptions{
		PortName:              portName,
		BaudRate:              uint(baud),
		DataBits:              8,
		StopBits:              1,
		MinimumReadSize:       1,
		ParityMode:            serial.PARITY_NONE,
		InterCharacterTimeout: 0,
	}

	port, err := serial.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("gps: open %s: %w", portName, err)
	}
	log.Printf("gps: serial port opened on %s at %d baud", opts.PortName, opts.BaudRate)
	return port, nil
}
