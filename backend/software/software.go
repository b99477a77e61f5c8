// Copyright 2026 The Vortice Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package software provides a pure Go reference backend for vortice.
//
// It implements every native interface of the graphics package without any
// GPU: queues execute work on their own goroutine, fences complete
// asynchronously, and every object is reference counted so leaks show up
// in live object reports. It is the fallback when no hardware backend is
// available, and it is what headless runs and tests use.
//
// Importing the package registers it under graphics.BackendSoftware:
//
//	import _ "github.com/Sina-Ebrahimi/vortice/backend/software"
package software

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/Sina-Ebrahimi/vortice/graphics"
)

// Errors reported by the software backend.
var (
	// ErrDeviceRemoved is returned by fence waits after Device.Lose.
	ErrDeviceRemoved = errors.New("software: device removed")

	// ErrReleased is returned by operations on released objects.
	ErrReleased = errors.New("software: object released")

	// ErrUnsupportedLevel is returned when an adapter cannot create a device
	// at the requested feature level.
	ErrUnsupportedLevel = errors.New("software: feature level not supported")
)

func init() {
	graphics.Register(graphics.BackendSoftware, func() graphics.Backend {
		return New()
	})
}

// AdapterConfig describes a simulated adapter.
type AdapterConfig struct {
	Descriptor   graphics.AdapterDescriptor
	MaxLevel     graphics.FeatureLevel
	Architecture graphics.Architecture
	Options      graphics.Options
}

// DefaultAdapters returns the adapters of a default backend: a basic render
// driver followed by a discrete reference adapter.
func DefaultAdapters() []AdapterConfig {
	return []AdapterConfig{
		{
			Descriptor: graphics.AdapterDescriptor{
				Name:     "Basic Render Driver",
				VendorID: graphics.VendorMicrosoft,
				DeviceID: 0x8c,
				Software: true,
			},
			MaxLevel: graphics.FeatureLevel121,
		},
		{
			Descriptor: graphics.AdapterDescriptor{
				Name:     "Vortice Reference Adapter",
				VendorID: graphics.VendorMicrosoft,
				DeviceID: 0x1,
			},
			MaxLevel: graphics.FeatureLevel122,
			Options: graphics.Options{
				RaytracingTier: 11,
				RenderPassTier: 2,
				WaveOps:        true,
			},
		},
	}
}

// Option configures a Backend.
type Option func(*Backend)

// WithAdapters replaces the simulated adapters.
func WithAdapters(adapters ...AdapterConfig) Option {
	return func(b *Backend) {
		b.adapters = append([]AdapterConfig(nil), adapters...)
	}
}

// WithoutDebugLayer makes the backend report no validation layer.
func WithoutDebugLayer() Option {
	return func(b *Backend) {
		b.noDebug = true
	}
}

// WithoutGPUValidation hides the extended validation interface.
func WithoutGPUValidation() Option {
	return func(b *Backend) {
		b.noGPUValidation = true
	}
}

// WithFilterError makes info queue filter installation fail with err.
func WithFilterError(err error) Option {
	return func(b *Backend) {
		b.filterErr = err
	}
}

// WithTearing sets the reported variable refresh rate support.
func WithTearing(supported bool) Option {
	return func(b *Backend) {
		b.tearing = supported
	}
}

// Backend is the software graphics backend.
type Backend struct {
	adapters        []AdapterConfig
	noDebug         bool
	noGPUValidation bool
	filterErr       error
	tearing         bool

	mu    sync.Mutex
	debug *Debug
}

// New creates a software backend.
func New(opts ...Option) *Backend {
	b := &Backend{adapters: DefaultAdapters(), tearing: true}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Name returns graphics.BackendSoftware.
func (b *Backend) Name() string { return graphics.BackendSoftware }

// Supported always reports true.
func (b *Backend) Supported() bool { return true }

// DebugInterface returns the validation layer. Without WithoutGPUValidation
// the result also implements graphics.GPUValidationDebug.
func (b *Backend) DebugInterface() (graphics.Debug, error) {
	if b.noDebug {
		return nil, errors.New("software: debug layer not installed")
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.debug == nil {
		b.debug = &Debug{}
	}
	if b.noGPUValidation {
		return baseDebug{b.debug}, nil
	}
	return b.debug, nil
}

// DebugState returns the validation layer state, or nil when
// DebugInterface was never called.
func (b *Backend) DebugState() *Debug {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.debug
}

// CreateFactory creates an adapter factory.
func (b *Backend) CreateFactory(debug bool) (graphics.Factory, error) {
	return &Factory{backend: b, debug: debug}, nil
}

// Debug records which validation features were enabled.
type Debug struct {
	mu                 sync.Mutex
	layer              bool
	gpuBased           bool
	synchronizedQueues bool
}

// EnableDebugLayer turns on the validation layer.
func (d *Debug) EnableDebugLayer() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.layer = true
}

// SetEnableGPUBasedValidation toggles GPU-based validation.
func (d *Debug) SetEnableGPUBasedValidation(enable bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.gpuBased = enable
}

// SetEnableSynchronizedCommandQueueValidation toggles queue validation.
func (d *Debug) SetEnableSynchronizedCommandQueueValidation(enable bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.synchronizedQueues = enable
}

// State returns the layer, GPU-based and synchronized queue flags.
func (d *Debug) State() (layer, gpuBased, synchronizedQueues bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.layer, d.gpuBased, d.synchronizedQueues
}

// baseDebug exposes only graphics.Debug.
type baseDebug struct{ d *Debug }

func (b baseDebug) EnableDebugLayer() { b.d.EnableDebugLayer() }

// Factory enumerates simulated adapters.
type Factory struct {
	backend *Backend
	debug   bool

	mu       sync.Mutex
	released bool
}

// Adapters returns the adapters in configuration order.
func (f *Factory) Adapters() ([]graphics.Adapter, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.released {
		return nil, ErrReleased
	}
	out := make([]graphics.Adapter, len(f.backend.adapters))
	for i, cfg := range f.backend.adapters {
		out[i] = &Adapter{factory: f, cfg: cfg}
	}
	return out, nil
}

// AdaptersByPreference orders discrete adapters first for high performance
// and unified-memory adapters first for low power. The sort is stable.
func (f *Factory) AdaptersByPreference(p graphics.PowerPreference) ([]graphics.Adapter, error) {
	adapters, err := f.Adapters()
	if err != nil || p == graphics.PowerPreferenceDefault {
		return adapters, err
	}
	rank := func(a graphics.Adapter) int {
		uma := a.(*Adapter).cfg.Architecture.UMA || a.(*Adapter).cfg.Descriptor.UnifiedMemory
		if uma == (p == graphics.PowerPreferenceLowPower) {
			return 0
		}
		return 1
	}
	sort.SliceStable(adapters, func(i, j int) bool { return rank(adapters[i]) < rank(adapters[j]) })
	return adapters, nil
}

// TearingSupport reports the configured tearing support.
func (f *Factory) TearingSupport() (bool, error) { return f.backend.tearing, nil }

// Release releases the factory.
func (f *Factory) Release() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.released = true
}

// Adapter is a simulated adapter.
type Adapter struct {
	factory  *Factory
	cfg      AdapterConfig
	released bool
}

// Descriptor returns the configured descriptor.
func (a *Adapter) Descriptor() (graphics.AdapterDescriptor, error) {
	if a.released {
		return graphics.AdapterDescriptor{}, ErrReleased
	}
	return a.cfg.Descriptor, nil
}

// CreateDevice creates a device when level is at most the adapter's
// maximum feature level.
func (a *Adapter) CreateDevice(level graphics.FeatureLevel) (graphics.NativeDevice, error) {
	if a.released {
		return nil, ErrReleased
	}
	if level > a.cfg.MaxLevel {
		return nil, fmt.Errorf("%w: %s on %q (max %s)", ErrUnsupportedLevel, level, a.cfg.Descriptor.Name, a.cfg.MaxLevel)
	}
	return newDevice(a, level), nil
}

// Release releases the adapter.
func (a *Adapter) Release() { a.released = true }
