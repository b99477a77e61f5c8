// Copyright 2026 The Vortice Authors
// SPDX-License-Identifier: BSD-3-Clause

package vortice

import "github.com/Sina-Ebrahimi/vortice/graphics"

// Context is the platform a game runs on. It owns the native event pump and
// decides when ticks happen.
type Context interface {
	// View returns the main view.
	View() View

	// ConfigureServices registers platform services, typically the
	// graphics device. It runs before the game registers its own.
	ConfigureServices(s *Services)

	// RunMainLoop calls init once and then tick until tick returns an
	// error. ErrRunEnded ends the loop cleanly and RunMainLoop returns nil.
	// Any other error is returned as is.
	RunMainLoop(init func() error, tick func() error) error
}

// View is a drawable region of the platform.
type View interface {
	// ClientSize returns the drawable size in pixels.
	ClientSize() (width, height int)

	// Surface returns the native handles a swap chain presents to.
	Surface() graphics.SurfaceSource

	// OnSizeChanged registers fn to be called when the client size changes.
	OnSizeChanged(fn func(width, height int))
}

// ActivationNotifier is implemented by contexts that report focus changes.
type ActivationNotifier interface {
	OnActivationChanged(fn func(active bool))
}
