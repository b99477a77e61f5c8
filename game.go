// Copyright 2026 The Vortice Authors
// SPDX-License-Identifier: BSD-3-Clause

package vortice

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/Sina-Ebrahimi/vortice/audio"
	"github.com/Sina-Ebrahimi/vortice/graphics"
	"github.com/Sina-Ebrahimi/vortice/input"
	"github.com/Sina-Ebrahimi/vortice/internal/logging"
)

// RunState is the lifecycle state of a Game.
type RunState int32

const (
	NotRunning RunState = iota
	Running
	ExitRequested
)

func (s RunState) String() string {
	switch s {
	case NotRunning:
		return "NotRunning"
	case Running:
		return "Running"
	case ExitRequested:
		return "ExitRequested"
	default:
		return fmt.Sprintf("RunState(%d)", int32(s))
	}
}

// Game hosts the frame loop.
//
// The context drives Tick. Frames, resizes and the run hooks are
// serialized by tickMu so platform callbacks never overlap a frame; mu
// guards the fields read by accessors and is never held while user code
// runs, so systems and hooks may call any accessor. A resize raised while
// tickMu is held, including from a system on the ticking goroutine, is
// recorded and applied by the holder once the frame is presented.
type Game struct {
	context  Context
	services *Services
	opts     gameOptions
	logger   *slog.Logger

	device *graphics.Device
	input  *input.Manager
	audio  audio.Device

	state  atomic.Int32
	active atomic.Bool

	tickMu sync.Mutex
	clock  stopwatch
	begun  bool

	mu        sync.Mutex
	systems   []System
	time      GameTime
	swapChain *graphics.SwapChain
	resizeTo  [2]int
	resizing  bool

	closeOnce sync.Once
	closeErr  error
}

// New builds the service container and resolves the graphics device and
// input manager, which are required, and the audio device, which is not.
func New(ctx Context, opts ...GameOption) (*Game, error) {
	if ctx == nil {
		return nil, ErrNilContext
	}
	o := defaultGameOptions()
	for _, opt := range opts {
		opt(&o)
	}

	g := &Game{
		context:  ctx,
		services: NewServices(),
		opts:     o,
		logger:   logging.Or(o.logger),
		systems:  append([]System(nil), o.systems...),
		clock:    stopwatch{now: o.now},
	}

	ctx.ConfigureServices(g.services)
	Register(g.services, g)
	if !Has[*input.Manager](g.services) {
		Register(g.services, input.NewManager())
	}
	for _, fn := range o.services {
		fn(g.services)
	}

	var err error
	if g.input, err = Resolve[*input.Manager](g.services); err != nil {
		return nil, err
	}
	if g.device, err = Resolve[*graphics.Device](g.services); err != nil {
		return nil, err
	}
	if a, ok := Optional[audio.Device](g.services); ok {
		g.audio = a
	}

	ctx.View().OnSizeChanged(g.resize)
	if n, ok := ctx.(ActivationNotifier); ok {
		n.OnActivationChanged(g.setActive)
	}
	return g, nil
}

// Services returns the service container.
func (g *Game) Services() *Services { return g.services }

// View returns the context's main view.
func (g *Game) View() View { return g.context.View() }

// GraphicsDevice returns the graphics device.
func (g *Game) GraphicsDevice() *graphics.Device { return g.device }

// Input returns the input manager.
func (g *Game) Input() *input.Manager { return g.input }

// Audio returns the audio device, or nil when none was registered.
func (g *Game) Audio() audio.Device { return g.audio }

// State returns the lifecycle state.
func (g *Game) State() RunState { return RunState(g.state.Load()) }

// IsActive reports whether the view has focus.
func (g *Game) IsActive() bool { return g.active.Load() }

// Time returns the frame clock as of the last tick.
func (g *Game) Time() GameTime {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.time
}

// SwapChain returns the swap chain of the view, or nil before Run.
func (g *Game) SwapChain() *graphics.SwapChain {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.swapChain
}

// AddSystem appends a system. It takes effect from the next tick.
func (g *Game) AddSystem(s System) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.systems = append(g.systems, s)
}

// Systems returns the registered systems in run order.
func (g *Game) Systems() []System {
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([]System(nil), g.systems...)
}

// Run starts the game and blocks until the context's loop returns. It fails
// with ErrAlreadyRunning unless the game is NotRunning.
func (g *Game) Run() error {
	if !g.state.CompareAndSwap(int32(NotRunning), int32(Running)) {
		return ErrAlreadyRunning
	}
	g.logger.Info("vortice: run started")

	err := g.context.RunMainLoop(g.initializeBeforeRun, g.step)
	if errors.Is(err, ErrRunEnded) {
		err = nil
	}

	// The loop may stop without an exit request (init failure, window
	// destroyed, tick error): finalize here so the next Run can start.
	g.tickMu.Lock()
	g.finalize()
	g.applyResize()
	g.tickMu.Unlock()
	return err
}

// Exit requests the loop to end. The request is observed at the start of
// the next tick.
func (g *Game) Exit() {
	g.state.CompareAndSwap(int32(Running), int32(ExitRequested))
}

func (g *Game) initializeBeforeRun() error {
	g.tickMu.Lock()
	defer g.tickMu.Unlock()
	defer g.applyResize()

	w, h := g.context.View().ClientSize()
	sc, err := g.device.CreateSwapChain(g.context.View().Surface(), graphics.SwapChainDescriptor{
		Width:       w,
		Height:      h,
		PresentMode: g.opts.presentMode,
	})
	if err != nil {
		return fmt.Errorf("vortice: create swap chain: %w", err)
	}
	g.mu.Lock()
	old := g.swapChain
	g.swapChain = sc
	g.time = GameTime{}
	g.mu.Unlock()
	if old != nil {
		old.Close()
	}

	if g.opts.initialize != nil {
		if err := g.opts.initialize(g); err != nil {
			return err
		}
	}

	g.clock.start()
	g.begun = true
	if g.opts.beginRun != nil {
		g.opts.beginRun(g)
	}
	return nil
}

// step is the loop callback handed to the context.
func (g *Game) step() error {
	if err := g.Tick(); err != nil {
		return err
	}
	if g.State() == NotRunning {
		return ErrRunEnded
	}
	return nil
}

// Tick runs one frame: Update, BeginDraw and Draw on every system, then
// EndDraw on every system and a present, which run even when an earlier
// step failed. The first failing system aborts the remaining calls of its
// phase. When an exit was requested, Tick finalizes the run instead.
// Resizes requested during the frame take effect after the present.
func (g *Game) Tick() (err error) {
	g.tickMu.Lock()
	defer g.tickMu.Unlock()
	g.applyResize()

	switch g.State() {
	case ExitRequested:
		g.finalize()
		return nil
	case NotRunning:
		return nil
	}

	g.mu.Lock()
	g.time.advance(g.clock.elapsed())
	t := g.time
	systems := g.systems
	sc := g.swapChain
	g.mu.Unlock()

	defer func() {
		err = errors.Join(err, endDraw(systems, sc))
		g.input.NextTick()
		g.applyResize()
	}()

	for _, s := range systems {
		if err := s.Update(t); err != nil {
			return err
		}
	}
	for _, s := range systems {
		if err := s.BeginDraw(); err != nil {
			return err
		}
	}
	for _, s := range systems {
		if err := s.Draw(t); err != nil {
			return err
		}
	}
	return nil
}

func endDraw(systems []System, sc *graphics.SwapChain) error {
	var errs []error
	for _, s := range systems {
		if err := s.EndDraw(); err != nil {
			errs = append(errs, err)
		}
	}
	if sc != nil {
		if err := sc.Present(); err != nil {
			errs = append(errs, fmt.Errorf("vortice: present: %w", err))
		}
	}
	return errors.Join(errs...)
}

// finalize ends the run. Callers hold tickMu.
func (g *Game) finalize() {
	if g.State() == NotRunning {
		return
	}
	if g.begun {
		if g.opts.endRun != nil {
			g.opts.endRun(g)
		}
		g.clock.stop()
		g.begun = false
	}
	g.state.Store(int32(NotRunning))
	g.logger.Info("vortice: run ended", "frames", g.Time().FrameCount)
}

// resize records the new size and applies it unless a frame, init or
// finalize holds tickMu, in which case the holder applies it before
// releasing the lock, or the next tick does.
func (g *Game) resize(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	g.mu.Lock()
	g.resizeTo = [2]int{width, height}
	g.resizing = true
	g.mu.Unlock()
	if g.tickMu.TryLock() {
		g.applyResize()
		g.tickMu.Unlock()
	}
}

// applyResize resizes the swap chain to the last recorded size. Callers
// hold tickMu. Without a swap chain the request is dropped; the next one is
// created at the view size.
func (g *Game) applyResize() {
	g.mu.Lock()
	size, pending, sc := g.resizeTo, g.resizing, g.swapChain
	g.resizing = false
	g.mu.Unlock()
	if !pending || sc == nil {
		return
	}
	if err := sc.Resize(size[0], size[1]); err != nil {
		g.logger.Warn("vortice: swap chain resize failed", "width", size[0], "height", size[1], "error", err)
	}
}

func (g *Game) setActive(active bool) {
	if g.active.Swap(active) == active {
		return
	}
	if active {
		if g.audio != nil {
			_ = g.audio.Resume()
		}
		if g.opts.activated != nil {
			g.opts.activated(g)
		}
		return
	}
	g.input.Reset()
	if g.audio != nil {
		_ = g.audio.Suspend()
	}
	if g.opts.deactivated != nil {
		g.opts.deactivated(g)
	}
}

// Close waits for the GPU, then releases the swap chain, the graphics device
// and the audio device. It is safe to call more than once, but not from a
// system or hook; those call Exit.
func (g *Game) Close() error {
	g.closeOnce.Do(func() {
		var errs []error
		if !g.device.Closed() {
			if err := g.device.WaitIdle(context.Background()); err != nil {
				errs = append(errs, err)
			}
		}
		g.tickMu.Lock()
		g.mu.Lock()
		sc := g.swapChain
		g.swapChain = nil
		g.mu.Unlock()
		if sc != nil {
			sc.Close()
		}
		g.tickMu.Unlock()
		if err := g.device.Close(); err != nil {
			errs = append(errs, err)
		}
		if g.audio != nil {
			if err := g.audio.Close(); err != nil {
				errs = append(errs, err)
			}
		}
		g.closeErr = errors.Join(errs...)
	})
	return g.closeErr
}
