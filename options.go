// Copyright 2026 The Vortice Authors
// SPDX-License-Identifier: BSD-3-Clause

package vortice

import (
	"log/slog"
	"time"

	"github.com/Sina-Ebrahimi/vortice/graphics"
)

// GameOption configures a Game.
type GameOption func(*gameOptions)

type gameOptions struct {
	systems     []System
	services    []func(*Services)
	initialize  func(*Game) error
	beginRun    func(*Game)
	endRun      func(*Game)
	activated   func(*Game)
	deactivated func(*Game)
	presentMode graphics.PresentMode
	now         func() time.Time
	logger      *slog.Logger
}

func defaultGameOptions() gameOptions {
	return gameOptions{now: time.Now}
}

// WithSystems appends systems in the order they run each tick.
func WithSystems(systems ...System) GameOption {
	return func(o *gameOptions) {
		o.systems = append(o.systems, systems...)
	}
}

// WithServices registers game services after the context's own, so the
// game can override platform defaults.
func WithServices(fn func(*Services)) GameOption {
	return func(o *gameOptions) {
		o.services = append(o.services, fn)
	}
}

// WithInitialize sets the hook run once per Run after the swap chain exists
// and before the clock starts. An error aborts the run.
func WithInitialize(fn func(*Game) error) GameOption {
	return func(o *gameOptions) { o.initialize = fn }
}

// WithBeginRun sets the hook run when the clock starts.
func WithBeginRun(fn func(*Game)) GameOption {
	return func(o *gameOptions) { o.beginRun = fn }
}

// WithEndRun sets the hook run when the loop finalizes after an exit
// request.
func WithEndRun(fn func(*Game)) GameOption {
	return func(o *gameOptions) { o.endRun = fn }
}

// WithActivated sets the hook run when the view gains focus.
func WithActivated(fn func(*Game)) GameOption {
	return func(o *gameOptions) { o.activated = fn }
}

// WithDeactivated sets the hook run when the view loses focus.
func WithDeactivated(fn func(*Game)) GameOption {
	return func(o *gameOptions) { o.deactivated = fn }
}

// WithPresentMode sets the present mode of the swap chain created by Run.
func WithPresentMode(m graphics.PresentMode) GameOption {
	return func(o *gameOptions) { o.presentMode = m }
}

// WithClock replaces the time source of the frame clock.
func WithClock(now func() time.Time) GameOption {
	return func(o *gameOptions) {
		if now != nil {
			o.now = now
		}
	}
}

// WithGameLogger sets the logger of the game. Nil uses the package logger.
func WithGameLogger(l *slog.Logger) GameOption {
	return func(o *gameOptions) { o.logger = l }
}
