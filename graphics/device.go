// Copyright 2026 The Vortice Authors
// SPDX-License-Identifier: BSD-3-Clause

package graphics

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/Sina-Ebrahimi/vortice/internal/logging"
)

// Device owns a native logical device together with its factory, graphics
// queue and idle fence.
//
// Device operations are not safe for concurrent use.
type Device struct {
	backend    Backend
	factory    Factory
	adapter    Adapter
	native     NativeDevice
	queue      NativeQueue
	fence      *Fence
	descriptor AdapterDescriptor
	level      FeatureLevel
	caps       Capabilities
	validation ValidationReport
	tearing    bool

	waitTimeout time.Duration
	logger      *slog.Logger

	closed    atomic.Bool
	closeOnce sync.Once
	closeErr  error
}

// releaser collects cleanup steps during construction and runs them in
// reverse order on failure.
type releaser []func()

func (r *releaser) push(fn func()) { *r = append(*r, fn) }

func (r releaser) run() {
	for i := len(r) - 1; i >= 0; i-- {
		r[i]()
	}
}

// Create creates a device on the best compatible adapter.
//
// The sequence is: validation layer, factory, adapter selection, validation
// message filter, capability probe, graphics queue, idle fence at 0. On
// failure every handle acquired so far is released in reverse order and the
// returned error is a *DeviceCreationError.
func Create(opts ...Option) (*Device, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	logger := logging.Or(o.logger)

	b, err := lookupBackend(o.backend)
	if err != nil {
		return nil, &DeviceCreationError{Stage: StageFactory, Err: fmt.Errorf("%q: %w", o.backend, err)}
	}

	var cleanup releaser
	fail := func(stage Stage, err error) (*Device, error) {
		cleanup.run()
		logger.Warn("graphics: device creation failed", "backend", b.Name(), "stage", stage, "err", err)
		return nil, &DeviceCreationError{Stage: stage, Err: err}
	}

	report := ConfigureDebugLayer(b, o.validation, logger)

	factory, err := b.CreateFactory(o.validation != ValidationDisabled)
	if err != nil {
		return fail(StageFactory, err)
	}
	cleanup.push(factory.Release)

	tearing := false
	if tr, ok := factory.(TearingReporter); ok {
		supported, err := tr.TearingSupport()
		if err != nil {
			logger.Warn("graphics: variable refresh rate not supported", "err", err)
		} else {
			tearing = supported
		}
	}

	sel, err := SelectAdapter(factory, o.preference, o.levels, logger)
	if err != nil {
		return fail(StageAdapter, err)
	}
	cleanup.push(sel.Release)

	if o.name != "" {
		sel.Device.SetName(o.name)
	}

	installed, err := InstallMessageFilter(sel.Device, o.validation, logger)
	if err != nil {
		return fail(StageFilter, err)
	}
	report.FilterInstalled = installed

	caps := Probe(sel.Descriptor, sel.Device, logger)

	queue, err := sel.Device.CreateCommandQueue(CommandQueueGraphics)
	if err != nil {
		return fail(StageQueue, err)
	}
	cleanup.push(queue.Release)
	queue.SetName("Graphics Command Queue")

	nf, err := sel.Device.CreateFence(0)
	if err != nil {
		return fail(StageFence, err)
	}

	d := &Device{
		backend:     b,
		factory:     factory,
		adapter:     sel.Adapter,
		native:      sel.Device,
		queue:       queue,
		fence:       newFence(nf, 0),
		descriptor:  sel.Descriptor,
		level:       sel.FeatureLevel,
		caps:        caps,
		validation:  report,
		tearing:     tearing,
		waitTimeout: o.waitTimeout,
		logger:      logger,
	}

	logger.Info("graphics: device created",
		"backend", b.Name(),
		"adapter", sel.Descriptor.Name,
		"type", caps.AdapterType,
		"level", sel.FeatureLevel,
		"validation", o.validation)
	return d, nil
}

// Backend returns the name of the backend the device was created on.
func (d *Device) Backend() string { return d.backend.Name() }

// Adapter returns the descriptor of the selected adapter.
func (d *Device) Adapter() AdapterDescriptor { return d.descriptor }

// AdapterType returns the probed adapter classification.
func (d *Device) AdapterType() AdapterType { return d.caps.AdapterType }

// FeatureLevel returns the level the device was created at.
func (d *Device) FeatureLevel() FeatureLevel { return d.level }

// Capabilities returns a copy of the capability record.
func (d *Device) Capabilities() Capabilities { return d.caps }

// TearingSupported reports whether the factory allows tearing presents.
func (d *Device) TearingSupported() bool { return d.tearing }

// ValidationMode returns the validation mode the device was created with.
func (d *Device) ValidationMode() ValidationMode { return d.validation.Mode }

// Validation returns what the validation layer actually enabled.
func (d *Device) Validation() ValidationReport { return d.validation }

// Native returns the backend device.
func (d *Device) Native() NativeDevice { return d.native }

// Queue returns the graphics queue.
func (d *Device) Queue() NativeQueue { return d.queue }

// Fence returns the idle fence.
func (d *Device) Fence() *Fence { return d.fence }

// WaitIdle blocks until all work submitted to the graphics queue before the
// call has completed. It signals the idle fence to its next value and waits
// for it, bounded by the configured wait timeout. A timeout or native wait
// failure returns an error wrapping ErrDeviceLost.
func (d *Device) WaitIdle(ctx context.Context) error {
	if d.closed.Load() {
		return ErrDeviceClosed
	}
	return d.waitIdle(ctx)
}

func (d *Device) waitIdle(ctx context.Context) error {
	v, err := d.fence.SignalNext(d.queue)
	if err != nil {
		return err
	}
	return d.fence.WaitFor(ctx, v, d.waitTimeout)
}

// Close waits for the device to go idle and releases the fence, queue,
// device, adapter and factory in that order. Only the first call has an
// effect; later calls return the first result.
//
// A device that still has outstanding references after release is reported
// through the logger with a live object dump when the backend offers one.
func (d *Device) Close() error {
	d.closeOnce.Do(func() {
		d.closed.Store(true)

		var errs []error
		if err := d.waitIdle(context.Background()); err != nil {
			errs = append(errs, fmt.Errorf("wait idle: %w", err))
		}

		d.fence.release()
		d.queue.Release()

		reporter, _ := d.native.(LiveObjectReporter)
		if refs := d.native.Release(); refs > 0 {
			attrs := []any{"refs", refs}
			if reporter != nil {
				attrs = append(attrs, "live", reporter.ReportLiveObjects())
			}
			d.logger.Warn("graphics: device released with live references", attrs...)
		}

		d.adapter.Release()
		d.factory.Release()

		d.closeErr = errors.Join(errs...)
		d.logger.Debug("graphics: device closed", "backend", d.backend.Name())
	})
	return d.closeErr
}

// Closed reports whether Close has been called.
func (d *Device) Closed() bool { return d.closed.Load() }
