// Copyright 2026 The Vortice Authors
// SPDX-License-Identifier: BSD-3-Clause

package audio

import (
	"errors"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/ebitengine/oto/v3"

	"github.com/Sina-Ebrahimi/vortice/internal/logging"
)

// DefaultSampleRate is the output rate used when Options leaves it zero.
const DefaultSampleRate = 48000

// Options configures the oto device.
type Options struct {
	SampleRate int
	BufferSize time.Duration
	Logger     *slog.Logger
}

// oto allows a single context per process, so every device shares it.
var (
	contextMu  sync.Mutex
	shared     *oto.Context
	newContext = oto.NewContext
)

func acquireContext(op *oto.NewContextOptions, logger *slog.Logger) (*oto.Context, error) {
	contextMu.Lock()
	defer contextMu.Unlock()
	if shared != nil {
		return shared, nil
	}
	ctx, ready, err := newContext(op)
	if err != nil {
		return nil, err
	}
	go func() {
		<-ready
		logger.Info("audio: context ready", "sampleRate", op.SampleRate)
	}()
	shared = ctx
	return ctx, nil
}

// Oto is a device backed by ebitengine/oto.
type Oto struct {
	opts    oto.NewContextOptions
	logger  *slog.Logger
	context func() *oto.Context

	mu      sync.Mutex
	players map[io.Closer]struct{}
	closed  bool
}

// NewOto returns an oto device. The context is created on first use.
func NewOto(o Options) *Oto {
	if o.SampleRate <= 0 {
		o.SampleRate = DefaultSampleRate
	}
	if o.BufferSize <= 0 {
		o.BufferSize = 32 * time.Millisecond
	}
	d := &Oto{
		opts: oto.NewContextOptions{
			SampleRate:   o.SampleRate,
			ChannelCount: 2,
			Format:       oto.FormatFloat32LE,
			BufferSize:   o.BufferSize,
		},
		logger:  logging.Or(o.Logger),
		players: make(map[io.Closer]struct{}),
	}
	d.context = sync.OnceValue(func() *oto.Context {
		ctx, err := acquireContext(&d.opts, d.logger)
		if err != nil {
			d.logger.Warn("audio: failed to initialize oto context, using null device", "error", err)
			return nil
		}
		return ctx
	})
	return d
}

// Backend reports BackendOto, or BackendNull once context creation failed.
func (d *Oto) Backend() Backend {
	if d.context() == nil {
		return BackendNull
	}
	return BackendOto
}

// Suspend pauses the shared context.
func (d *Oto) Suspend() error {
	if ctx := d.context(); ctx != nil {
		return ctx.Suspend()
	}
	return nil
}

// Resume resumes the shared context.
func (d *Oto) Resume() error {
	if ctx := d.context(); ctx != nil {
		return ctx.Resume()
	}
	return nil
}

// Play starts a player reading from r.
func (d *Oto) Play(r io.Reader) Player {
	ctx := d.context()
	if ctx == nil {
		return Null{}.Play(r)
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return Null{}.Play(r)
	}
	p := ctx.NewPlayer(r)
	p.Play()
	d.players[p] = struct{}{}
	return &otoPlayer{Player: p, device: d}
}

// Close closes every player the device started, which frees their
// buffers. The shared context stays alive for other devices.
func (d *Oto) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.closed = true
	var errs []error
	for p := range d.players {
		errs = append(errs, p.Close())
		delete(d.players, p)
	}
	return errors.Join(errs...)
}

func (d *Oto) forget(p io.Closer) {
	d.mu.Lock()
	defer d.mu.Unlock()
	delete(d.players, p)
}

type otoPlayer struct {
	*oto.Player
	device *Oto
}

// Close closes the player and detaches it from the device.
func (p *otoPlayer) Close() error {
	p.device.forget(p.Player)
	return p.Player.Close()
}
