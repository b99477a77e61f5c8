// Copyright 2026 The Vortice Authors
// SPDX-License-Identifier: BSD-3-Clause

package graphics

import "time"

// Backend is the entry point of a native graphics API binding.
//
// Backends register themselves with Register from an init function.
// Optional behaviour is discovered by type assertion on the values a
// backend returns: a Backend may implement DebugProvider, a Factory may
// implement PreferenceEnumerator and TearingReporter, and so on.
type Backend interface {
	// Name returns the backend identifier (e.g. "native", "software").
	Name() string

	// Supported reports whether the native API can be used on this machine.
	// It may be expensive; callers go through IsSupported, which caches it.
	Supported() bool

	// CreateFactory creates the enumeration root. When debug is true the
	// factory is created with the native debug flag set.
	CreateFactory(debug bool) (Factory, error)
}

// DebugProvider is implemented by backends that expose a validation layer.
type DebugProvider interface {
	DebugInterface() (Debug, error)
}

// Debug is the base validation-layer interface.
type Debug interface {
	EnableDebugLayer()
}

// GPUValidationDebug is the extended validation-layer interface. Its
// absence only reduces what ValidationGPU can enable.
type GPUValidationDebug interface {
	Debug
	SetEnableGPUBasedValidation(enable bool)
	SetEnableSynchronizedCommandQueueValidation(enable bool)
}

// Factory enumerates adapters.
type Factory interface {
	// Adapters returns the adapters in native order. The caller owns the
	// returned adapters and must release them.
	Adapters() ([]Adapter, error)
	Release()
}

// PreferenceEnumerator is implemented by factories whose platform can
// pre-sort adapters by power preference.
type PreferenceEnumerator interface {
	AdaptersByPreference(p PowerPreference) ([]Adapter, error)
}

// TearingReporter is implemented by factories that can report variable
// refresh rate support.
type TearingReporter interface {
	TearingSupport() (bool, error)
}

// Adapter is an enumerated physical or virtual graphics device.
type Adapter interface {
	Descriptor() (AdapterDescriptor, error)

	// CreateDevice creates a logical device at the given feature level.
	// It fails when the adapter does not support the level.
	CreateDevice(level FeatureLevel) (NativeDevice, error)

	Release()
}

// NativeDevice is the logical device of a backend.
type NativeDevice interface {
	SetName(name string)
	CreateCommandQueue(t CommandQueueType) (NativeQueue, error)
	CreateFence(initial uint64) (NativeFence, error)
	CreateSwapChain(surface SurfaceSource, desc SwapChainDescriptor, queue NativeQueue) (NativeSwapChain, error)
	CreateTexture(desc TextureDescriptor) (NativeResource, error)
	CreateBuffer(desc BufferDescriptor, data []byte) (NativeResource, error)

	// Release drops the caller's reference and returns the number of
	// references still held on the device.
	Release() uint32
}

// ArchitectureQuerier reports memory architecture of the device.
type ArchitectureQuerier interface {
	Architecture() (Architecture, error)
}

// Architecture is the memory architecture of a device.
type Architecture struct {
	UMA           bool
	CacheCoherent bool
}

// OptionsQuerier reports optional hardware tiers.
type OptionsQuerier interface {
	Options() (Options, error)
}

// Options holds optional hardware tiers reported by a device.
type Options struct {
	// RaytracingTier is 0 when unsupported, 10 for tier 1.0, 11 for 1.1.
	RaytracingTier int
	// RenderPassTier is 0 when unsupported.
	RenderPassTier int
	WaveOps        bool
}

// LimitsQuerier is implemented by devices that can report dynamic limits.
// Zero fields keep the static platform value.
type LimitsQuerier interface {
	QueryLimits() (Limits, error)
}

// InfoQueueProvider is implemented by devices created with validation.
type InfoQueueProvider interface {
	InfoQueue() (InfoQueue, error)
}

// InfoQueue receives validation messages.
type InfoQueue interface {
	SetBreakOnSeverity(s MessageSeverity, enable bool) error
	PushEmptyStorageFilter() error
	AddStorageFilterEntries(f InfoQueueFilter) error
	Release()
}

// LiveObjectReporter dumps objects still alive on a device.
type LiveObjectReporter interface {
	ReportLiveObjects() string
}

// NativeQueue is a submission channel.
type NativeQueue interface {
	SetName(name string)

	// Signal enqueues a fence update to value after all work previously
	// submitted to the queue.
	Signal(f NativeFence, value uint64) error

	Release()
}

// NativeFence is a 64-bit counter advanced by queue signals.
type NativeFence interface {
	CompletedValue() uint64

	// Wait blocks until the completed value reaches value or timeout
	// elapses. A negative timeout waits without bound. It reports whether
	// the value was reached.
	Wait(value uint64, timeout time.Duration) (bool, error)

	Release()
}

// NativeSwapChain is a ring of presentable back buffers.
type NativeSwapChain interface {
	BackBufferCount() int
	CurrentBackBufferIndex() int
	BackBuffer(i int) (NativeResource, error)
	Present(syncInterval int) error
	ResizeBuffers(width, height int) error
	Release()
}

// NativeResource is a texture or buffer allocation.
type NativeResource interface {
	Release()
}
