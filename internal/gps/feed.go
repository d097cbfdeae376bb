// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package gps

import (
	"bufio"
	"context"
	"errors"
	"io"
	"log"
	"sync"
)

// Feed pumps NMEA lines from a serial stream into a Parser.
//
// A background goroutine does the blocking reads and hands complete lines
// over a buffered channel. Drain and Poll are meant for the single goroutine
// that owns the parser; they never block.
type Feed struct {
	parser *Parser
	lines  chan string

	mu  sync.Mutex
	err error
}

// NewFeed returns a feed that decodes into parser. backlog bounds the number
// of lines held between drains; older lines are dropped when it is full.
func NewFeed(parser *Parser, backlog int) *Feed {
	if backlog <= 0 {
		backlog = 64
	}
	return &Feed{parser: parser, lines: make(chan string, backlog)}
}

// Start reads r line by line until ctx is done or r fails.
// The caller owns r and closes it to unblock a pending read.
func (f *Feed) Start(ctx context.Context, r io.Reader) {
	go f.read(ctx, r)
}

func (f *Feed) read(ctx context.Context, r io.Reader) {
	reader := bufio.NewReader(r)
	for {
		line, err := reader.ReadString('\n')
		if line != "" {
			f.push(line)
		}
		if err != nil {
			// Closing the port on shutdown fails the blocked read.
			if ctx.Err() != nil {
				f.setErr(ctx.Err())
				return
			}
			if !errors.Is(err, io.EOF) {
				log.Printf("gps: read error: %v", err)
			}
			f.setErr(err)
			return
		}
		if ctx.Err() != nil {
			f.setErr(ctx.Err())
			return
		}
	}
}

func (f *Feed) push(line string) {
	select {
	case f.lines <- line:
	default:
		// Backlog full: drop the oldest line so the newest time survives.
		select {
		case <-f.lines:
		default:
		}
		select {
		case f.lines <- line:
		default:
		}
	}
}

// Drain decodes every line received since the last call and returns how
// many lines it consumed.
func (f *Feed) Drain() int {
	n := 0
	for {
		select {
		case line := <-f.lines:
			f.parser.Encode(line)
			n++
		default:
			return n
		}
	}
}

// Poll returns the parser's one-shot fix event.
func (f *Feed) Poll() Fix {
	return f.parser.Poll()
}

// Err returns the error that stopped the reader, if any.
func (f *Feed) Err() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.err
}

func (f *Feed) setErr(err error) {
	f.mu.Lock()
	f.err = err
	f.mu.Unlock()
}
