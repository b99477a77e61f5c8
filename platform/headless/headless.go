// Copyright 2026 The Vortice Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package headless runs games without a window.
//
// The view has a fixed size until Resize is called and presents to an
// off-screen swap chain. The graphics device comes from the software
// backend unless other graphics options are given, which makes the
// context suitable for tests, servers and benchmarks.
package headless

import (
	"errors"
	"log/slog"
	"slices"
	"sync"
	"sync/atomic"

	"github.com/Sina-Ebrahimi/vortice"
	"github.com/Sina-Ebrahimi/vortice/audio"
	"github.com/Sina-Ebrahimi/vortice/graphics"
	"github.com/Sina-Ebrahimi/vortice/internal/logging"

	_ "github.com/Sina-Ebrahimi/vortice/backend/software"
)

// Default view size.
const (
	DefaultWidth  = 1280
	DefaultHeight = 720
)

// Options configures a headless context.
type Options struct {
	// Width and Height set the client size. Zero uses the defaults.
	Width, Height int

	// MaxFrames stops the loop after that many ticks. Zero runs until the
	// game exits or Exit is called.
	MaxFrames uint64

	// Graphics is passed to graphics.Create. Without a WithBackend option
	// the software backend is used.
	Graphics []graphics.Option

	// Audio is registered as the audio device when set.
	Audio audio.Device

	// Logger overrides the package logger.
	Logger *slog.Logger
}

// Context is a windowless vortice.Context.
type Context struct {
	opts   Options
	view   *View
	logger *slog.Logger

	exit   atomic.Bool
	frames atomic.Uint64

	mu         sync.Mutex
	activation []func(bool)
}

var (
	_ vortice.Context            = (*Context)(nil)
	_ vortice.ActivationNotifier = (*Context)(nil)
)

// New returns a headless context.
func New(opts Options) *Context {
	if opts.Width <= 0 {
		opts.Width = DefaultWidth
	}
	if opts.Height <= 0 {
		opts.Height = DefaultHeight
	}
	return &Context{
		opts:   opts,
		view:   &View{width: opts.Width, height: opts.Height},
		logger: logging.Or(opts.Logger),
	}
}

// View returns the off-screen view.
func (c *Context) View() vortice.View { return c.view }

// Frames returns the number of ticks run by the last RunMainLoop.
func (c *Context) Frames() uint64 { return c.frames.Load() }

// ConfigureServices registers a lazily created graphics device and, when
// configured, the audio device.
func (c *Context) ConfigureServices(s *vortice.Services) {
	gopts := append([]graphics.Option{graphics.WithBackend(graphics.BackendSoftware)}, c.opts.Graphics...)
	if c.opts.Logger != nil {
		gopts = append(gopts, graphics.WithLogger(c.opts.Logger))
	}
	vortice.RegisterFactory(s, func(*vortice.Services) (*graphics.Device, error) {
		return graphics.Create(gopts...)
	})
	if c.opts.Audio != nil {
		vortice.Register(s, c.opts.Audio)
	}
}

// RunMainLoop calls init, then tick until the game ends, Exit is called or
// MaxFrames ticks have run.
func (c *Context) RunMainLoop(init func() error, tick func() error) error {
	c.exit.Store(false)
	c.frames.Store(0)

	if err := init(); err != nil {
		return err
	}
	c.setActive(true)
	for !c.exit.Load() {
		if c.opts.MaxFrames > 0 && c.frames.Load() >= c.opts.MaxFrames {
			c.logger.Debug("headless: frame limit reached", "frames", c.opts.MaxFrames)
			break
		}
		err := tick()
		c.frames.Add(1)
		if errors.Is(err, vortice.ErrRunEnded) {
			break
		}
		if err != nil {
			return err
		}
	}
	c.setActive(false)
	return nil
}

// Exit stops the loop before the next tick.
func (c *Context) Exit() { c.exit.Store(true) }

// OnActivationChanged registers fn for focus changes. The loop reports
// active when it starts and inactive when it stops.
func (c *Context) OnActivationChanged(fn func(active bool)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.activation = append(c.activation, fn)
}

// SetActive reports a focus change, as a window manager would.
func (c *Context) SetActive(active bool) { c.setActive(active) }

func (c *Context) setActive(active bool) {
	c.mu.Lock()
	fns := slices.Clone(c.activation)
	c.mu.Unlock()
	for _, fn := range fns {
		fn(active)
	}
}

// Resize changes the client size and notifies listeners.
func (c *Context) Resize(width, height int) { c.view.resize(width, height) }

// View is the off-screen view of a headless context.
type View struct {
	mu        sync.Mutex
	width     int
	height    int
	listeners []func(w, h int)
}

// ClientSize returns the view size in pixels.
func (v *View) ClientSize() (width, height int) {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.width, v.height
}

// Surface returns an empty surface; swap chains stay off-screen.
func (v *View) Surface() graphics.SurfaceSource { return graphics.SurfaceSource{} }

// OnSizeChanged registers fn to be called on Resize.
func (v *View) OnSizeChanged(fn func(width, height int)) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.listeners = append(v.listeners, fn)
}

func (v *View) resize(width, height int) {
	v.mu.Lock()
	if width == v.width && height == v.height {
		v.mu.Unlock()
		return
	}
	v.width, v.height = width, height
	fns := slices.Clone(v.listeners)
	v.mu.Unlock()
	for _, fn := range fns {
		fn(width, height)
	}
}
