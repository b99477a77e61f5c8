// Copyright 2026 The Vortice Authors
// SPDX-License-Identifier: BSD-3-Clause

package vortice

import "time"

// GameTime is the frame clock handed to systems on every tick.
type GameTime struct {
	// Total is the time since the run started.
	Total time.Duration
	// Elapsed is the time since the previous tick.
	Elapsed time.Duration
	// FrameCount is the number of ticks that ran Update, including this one.
	FrameCount uint64
}

// advance moves the clock to total and counts a frame.
func (t *GameTime) advance(total time.Duration) {
	t.Elapsed = total - t.Total
	t.Total = total
	t.FrameCount++
}

// stopwatch measures run time against an injectable time source.
type stopwatch struct {
	now     func() time.Time
	started time.Time
	stopped time.Duration
	running bool
}

func (s *stopwatch) start() {
	s.started = s.now()
	s.stopped = 0
	s.running = true
}

func (s *stopwatch) stop() {
	if s.running {
		s.stopped = s.now().Sub(s.started)
		s.running = false
	}
}

func (s *stopwatch) elapsed() time.Duration {
	if !s.running {
		return s.stopped
	}
	return s.now().Sub(s.started)
}
