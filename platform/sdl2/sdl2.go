// Copyright 2026 The Vortice Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package sdl2 runs games in an SDL2 window.
//
// The context owns the window and the event pump. Events are drained in
// batches between ticks: quit and terminate requests end the loop, window
// size changes reach the view listeners, focus changes drive activation,
// and keyboard and mouse events feed the input manager that the context
// registers as a service.
//
// SDL requires its calls on the main thread, from New through Close. Lock
// the main goroutine to it in the main package and call everything from
// main:
//
//	func init() { runtime.LockOSThread() }
package sdl2

import (
	"errors"
	"fmt"
	"log/slog"
	"runtime"
	"slices"
	"sync"
	"sync/atomic"

	"github.com/veandco/go-sdl2/sdl"

	"github.com/Sina-Ebrahimi/vortice"
	"github.com/Sina-Ebrahimi/vortice/audio"
	"github.com/Sina-Ebrahimi/vortice/graphics"
	"github.com/Sina-Ebrahimi/vortice/input"
	"github.com/Sina-Ebrahimi/vortice/internal/logging"

	_ "github.com/Sina-Ebrahimi/vortice/backend/native"
	_ "github.com/Sina-Ebrahimi/vortice/backend/software"
)

// eventBatch is the number of events peeked per call.
const eventBatch = 64

// Options configures the window.
type Options struct {
	Title         string
	Width, Height int
	Resizable     bool

	// Graphics is passed to graphics.Create.
	Graphics []graphics.Option

	// Audio is registered as the audio device when set.
	Audio audio.Device

	Logger *slog.Logger
}

// Context is a vortice.Context backed by an SDL window.
type Context struct {
	opts   Options
	logger *slog.Logger
	window *sdl.Window
	view   *View
	input  *input.Manager

	exit   atomic.Bool
	events []sdl.Event

	mu         sync.Mutex
	activation []func(bool)
}

var (
	_ vortice.Context            = (*Context)(nil)
	_ vortice.ActivationNotifier = (*Context)(nil)
)

// New initializes SDL and opens the window. Close releases both.
func New(opts Options) (*Context, error) {
	if opts.Title == "" {
		opts.Title = "vortice"
	}
	if opts.Width <= 0 {
		opts.Width = 1280
	}
	if opts.Height <= 0 {
		opts.Height = 720
	}

	if err := sdl.Init(sdl.INIT_VIDEO | sdl.INIT_TIMER | sdl.INIT_GAMECONTROLLER); err != nil {
		return nil, fmt.Errorf("sdl2: init: %w", err)
	}
	flags := uint32(sdl.WINDOW_SHOWN | sdl.WINDOW_VULKAN)
	if opts.Resizable {
		flags |= sdl.WINDOW_RESIZABLE
	}
	window, err := sdl.CreateWindow(opts.Title,
		sdl.WINDOWPOS_UNDEFINED, sdl.WINDOWPOS_UNDEFINED,
		int32(opts.Width), int32(opts.Height), flags)
	if err != nil {
		sdl.Quit()
		return nil, fmt.Errorf("sdl2: create window: %w", err)
	}

	c := newContext(opts)
	c.window = window
	c.view.surface = surfaceOf(window, c.logger)
	w, h := window.GetSize()
	c.view.width, c.view.height = int(w), int(h)
	c.logger.Info("sdl2: window created", "title", opts.Title, "width", w, "height", h)
	return c, nil
}

func newContext(opts Options) *Context {
	return &Context{
		opts:   opts,
		logger: logging.Or(opts.Logger),
		view:   &View{width: opts.Width, height: opts.Height},
		input:  input.NewManager(),
		events: make([]sdl.Event, eventBatch),
	}
}

// Window returns the SDL window.
func (c *Context) Window() *sdl.Window { return c.window }

// View returns the window view.
func (c *Context) View() vortice.View { return c.view }

// Input returns the manager the event pump feeds.
func (c *Context) Input() *input.Manager { return c.input }

// ConfigureServices registers the input manager, a lazily created graphics
// device and, when configured, the audio device.
func (c *Context) ConfigureServices(s *vortice.Services) {
	vortice.Register(s, c.input)

	gopts := append([]graphics.Option(nil), c.opts.Graphics...)
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

// RunMainLoop calls init, then pumps events and ticks until the window is
// closed, Exit is called or the game ends. It must run on the goroutine that
// called New.
func (c *Context) RunMainLoop(init func() error, tick func() error) error {
	// Keeps the loop on one thread when main did not lock it.
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	c.exit.Store(false)
	if err := init(); err != nil {
		return err
	}
	for {
		if err := c.pump(); err != nil {
			return err
		}
		if c.exit.Load() {
			return nil
		}
		err := tick()
		if errors.Is(err, vortice.ErrRunEnded) {
			return nil
		}
		if err != nil {
			return err
		}
	}
}

// Exit stops the loop before the next tick.
func (c *Context) Exit() { c.exit.Store(true) }

// OnActivationChanged registers fn for window focus changes.
func (c *Context) OnActivationChanged(fn func(active bool)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.activation = append(c.activation, fn)
}

// Close destroys the window and shuts SDL down.
func (c *Context) Close() error {
	var err error
	if c.window != nil {
		err = c.window.Destroy()
		c.window = nil
	}
	sdl.Quit()
	return err
}

// pump drains the event queue in batches.
func (c *Context) pump() error {
	sdl.PumpEvents()
	for {
		n, err := sdl.PeepEvents(c.events, sdl.GETEVENT, sdl.FIRSTEVENT, sdl.LASTEVENT)
		if err != nil {
			return fmt.Errorf("sdl2: peep events: %w", err)
		}
		for _, e := range c.events[:n] {
			c.handle(e)
		}
		if n < len(c.events) {
			return nil
		}
	}
}

func (c *Context) handle(e sdl.Event) {
	switch e := e.(type) {
	case *sdl.QuitEvent:
		c.logger.Debug("sdl2: quit requested")
		c.Exit()
	case *sdl.WindowEvent:
		c.handleWindow(e)
	case *sdl.KeyboardEvent:
		k := translateKey(e.Keysym.Sym)
		if k == input.KeyUnknown {
			return
		}
		if e.Type == sdl.KEYDOWN {
			c.input.Press(k)
		} else {
			c.input.Release(k)
		}
	case *sdl.MouseButtonEvent:
		b, ok := translateButton(e.Button)
		if !ok {
			return
		}
		c.input.MoveCursor(int(e.X), int(e.Y))
		if e.Type == sdl.MOUSEBUTTONDOWN {
			c.input.PressButton(b)
		} else {
			c.input.ReleaseButton(b)
		}
	case *sdl.MouseMotionEvent:
		c.input.MoveCursor(int(e.X), int(e.Y))
	case *sdl.MouseWheelEvent:
		c.input.Scroll(float32(e.X), float32(e.Y))
	default:
		if e.GetType() == sdl.APP_TERMINATING {
			c.logger.Debug("sdl2: application terminating")
			c.Exit()
		}
	}
}

func (c *Context) handleWindow(e *sdl.WindowEvent) {
	switch e.Event {
	case sdl.WINDOWEVENT_SIZE_CHANGED:
		c.view.resize(int(e.Data1), int(e.Data2))
	case sdl.WINDOWEVENT_FOCUS_GAINED:
		c.setActive(true)
	case sdl.WINDOWEVENT_FOCUS_LOST:
		c.setActive(false)
	case sdl.WINDOWEVENT_CLOSE:
		c.Exit()
	}
}

func (c *Context) setActive(active bool) {
	c.mu.Lock()
	fns := slices.Clone(c.activation)
	c.mu.Unlock()
	for _, fn := range fns {
		fn(active)
	}
}

// surfaceOf extracts native handles from the window manager info. The
// window itself always travels in Window.
func surfaceOf(w *sdl.Window, logger *slog.Logger) graphics.SurfaceSource {
	s := graphics.SurfaceSource{Window: w}
	info, err := w.GetWMInfo()
	if err != nil {
		logger.Debug("sdl2: window manager info unavailable", "err", err)
		return s
	}
	switch info.Subsystem {
	case sdl.SYSWM_X11:
		x := info.GetX11Info()
		s.Display = uintptr(x.Display)
		s.Handle = uintptr(x.Window)
	case sdl.SYSWM_WINDOWS:
		s.Handle = uintptr(info.GetWindowsInfo().Window)
	}
	return s
}

// View is the client area of the window.
type View struct {
	mu        sync.Mutex
	width     int
	height    int
	surface   graphics.SurfaceSource
	listeners []func(w, h int)
}

// ClientSize returns the drawable size in pixels.
func (v *View) ClientSize() (width, height int) {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.width, v.height
}

// Surface returns the window handles.
func (v *View) Surface() graphics.SurfaceSource { return v.surface }

// OnSizeChanged registers fn for window size changes.
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
