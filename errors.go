// Copyright 2026 The Vortice Authors
// SPDX-License-Identifier: BSD-3-Clause

package vortice

import "errors"

var (
	// ErrAlreadyRunning is returned by Run when the game is not in the
	// NotRunning state.
	ErrAlreadyRunning = errors.New("vortice: game is already running")

	// ErrServiceNotFound is returned when a required service was not
	// registered.
	ErrServiceNotFound = errors.New("vortice: service not found")

	// ErrRunEnded is returned by the loop callback handed to
	// Context.RunMainLoop once the game has left the running state.
	// Contexts stop ticking and return nil when they see it.
	ErrRunEnded = errors.New("vortice: run ended")

	// ErrNilContext is returned by New when no context is supplied.
	ErrNilContext = errors.New("vortice: nil game context")
)
