// Copyright 2026 The Vortice Authors
// SPDX-License-Identifier: BSD-3-Clause

package graphics

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"
)

var errFake = errors.New("fake failure")

// fakeBackend is a Backend without a debug layer.
type fakeBackend struct {
	name      string
	supported bool
	factory   Factory
	err       error
	debugFlag *bool
}

func (b *fakeBackend) Name() string    { return b.name }
func (b *fakeBackend) Supported() bool { return b.supported }
func (b *fakeBackend) CreateFactory(debug bool) (Factory, error) {
	if b.debugFlag != nil {
		*b.debugFlag = debug
	}
	if b.err != nil {
		return nil, b.err
	}
	return b.factory, nil
}

// fakeDebugBackend adds a debug interface.
type fakeDebugBackend struct {
	fakeBackend
	debug Debug
}

func (b *fakeDebugBackend) DebugInterface() (Debug, error) { return b.debug, nil }

type fakeDebug struct {
	enabled bool
}

func (d *fakeDebug) EnableDebugLayer() { d.enabled = true }

type fakeGPUDebug struct {
	fakeDebug
	gpu  bool
	sync bool
}

func (d *fakeGPUDebug) SetEnableGPUBasedValidation(v bool)                { d.gpu = v }
func (d *fakeGPUDebug) SetEnableSynchronizedCommandQueueValidation(v bool) { d.sync = v }

type fakeFactory struct {
	adapters []*fakeAdapter
	enumErr  error
	released bool
}

func (f *fakeFactory) Adapters() ([]Adapter, error) {
	if f.enumErr != nil {
		return nil, f.enumErr
	}
	out := make([]Adapter, len(f.adapters))
	for i, a := range f.adapters {
		out[i] = a
	}
	return out, nil
}

func (f *fakeFactory) Release() { f.released = true }

// fakePreferenceFactory sorts discrete adapters first for high
// performance and reports tearing support.
type fakePreferenceFactory struct {
	fakeFactory
	tearing    bool
	tearingErr error
	lastPref   PowerPreference
}

func (f *fakePreferenceFactory) AdaptersByPreference(p PowerPreference) ([]Adapter, error) {
	f.lastPref = p
	all, err := f.Adapters()
	if err != nil || p != PowerPreferenceHighPerformance {
		return all, err
	}
	var first, rest []Adapter
	for _, a := range all {
		if !a.(*fakeAdapter).desc.UnifiedMemory {
			first = append(first, a)
		} else {
			rest = append(rest, a)
		}
	}
	return append(first, rest...), nil
}

func (f *fakePreferenceFactory) TearingSupport() (bool, error) { return f.tearing, f.tearingErr }

type fakeAdapter struct {
	desc     AdapterDescriptor
	descErr  error
	maxLevel FeatureLevel
	device   *fakeDevice
	tried    []FeatureLevel
	released int
}

func (a *fakeAdapter) Descriptor() (AdapterDescriptor, error) { return a.desc, a.descErr }

func (a *fakeAdapter) CreateDevice(level FeatureLevel) (NativeDevice, error) {
	a.tried = append(a.tried, level)
	if a.maxLevel == 0 || level > a.maxLevel {
		return nil, fmt.Errorf("level %s unsupported", level)
	}
	if a.device == nil {
		a.device = newFakeDevice()
	}
	a.device.refs = 1
	return a.device, nil
}

func (a *fakeAdapter) Release() { a.released++ }

func hardwareAdapter(name string, level FeatureLevel) *fakeAdapter {
	return &fakeAdapter{
		desc:     AdapterDescriptor{Name: name, VendorID: VendorNVIDIA, DeviceID: 0x2204},
		maxLevel: level,
	}
}

func softwareAdapter() *fakeAdapter {
	return &fakeAdapter{
		desc:     AdapterDescriptor{Name: "Basic Render Driver", VendorID: VendorMicrosoft, Software: true},
		maxLevel: FeatureLevel122,
	}
}

type fakeDevice struct {
	name     string
	refs     uint32
	leak     uint32
	queueErr error
	fenceErr error
	released bool

	queue *fakeQueue
	fence *fakeFence
	iq    *fakeInfoQueue
}

func newFakeDevice() *fakeDevice { return &fakeDevice{} }

func (d *fakeDevice) SetName(name string) { d.name = name }

func (d *fakeDevice) CreateCommandQueue(CommandQueueType) (NativeQueue, error) {
	if d.queueErr != nil {
		return nil, d.queueErr
	}
	if d.queue == nil {
		d.queue = &fakeQueue{}
	}
	return d.queue, nil
}

func (d *fakeDevice) CreateFence(initial uint64) (NativeFence, error) {
	if d.fenceErr != nil {
		return nil, d.fenceErr
	}
	if d.fence == nil {
		d.fence = newFakeFence(initial)
	}
	return d.fence, nil
}

func (d *fakeDevice) CreateSwapChain(_ SurfaceSource, desc SwapChainDescriptor, _ NativeQueue) (NativeSwapChain, error) {
	return &fakeSwapChain{count: desc.BufferCount, w: desc.Width, h: desc.Height}, nil
}

func (d *fakeDevice) CreateTexture(TextureDescriptor) (NativeResource, error) {
	return &fakeResource{}, nil
}

func (d *fakeDevice) CreateBuffer(BufferDescriptor, []byte) (NativeResource, error) {
	return &fakeResource{}, nil
}

func (d *fakeDevice) Release() uint32 {
	d.released = true
	if d.refs > 0 {
		d.refs--
	}
	return d.refs + d.leak
}

func (d *fakeDevice) InfoQueue() (InfoQueue, error) {
	if d.iq == nil {
		return nil, errors.New("no info queue")
	}
	return d.iq, nil
}

func (d *fakeDevice) ReportLiveObjects() string {
	return fmt.Sprintf("%d live objects", d.leak)
}

// fakeProbeDevice answers every optional capability query.
type fakeProbeDevice struct {
	fakeDevice
	arch    Architecture
	archErr error
	opts    Options
	optsErr error
	limits  Limits
}

func (d *fakeProbeDevice) Architecture() (Architecture, error) { return d.arch, d.archErr }
func (d *fakeProbeDevice) Options() (Options, error)           { return d.opts, d.optsErr }
func (d *fakeProbeDevice) QueryLimits() (Limits, error)        { return d.limits, nil }

type fakeInfoQueue struct {
	breaks   map[MessageSeverity]bool
	pushed   int
	filters  []InfoQueueFilter
	addErr   error
	released bool
}

func (q *fakeInfoQueue) SetBreakOnSeverity(s MessageSeverity, enable bool) error {
	if q.breaks == nil {
		q.breaks = make(map[MessageSeverity]bool)
	}
	q.breaks[s] = enable
	return nil
}

func (q *fakeInfoQueue) PushEmptyStorageFilter() error {
	q.pushed++
	return nil
}

func (q *fakeInfoQueue) AddStorageFilterEntries(f InfoQueueFilter) error {
	if q.addErr != nil {
		return q.addErr
	}
	q.filters = append(q.filters, f)
	return nil
}

func (q *fakeInfoQueue) Release() { q.released = true }

// fakeQueue completes signals immediately unless stalled.
type fakeQueue struct {
	stalled  bool
	signals  []uint64
	err      error
	name     string
	released bool
}

func (q *fakeQueue) SetName(name string) { q.name = name }

func (q *fakeQueue) Signal(f NativeFence, value uint64) error {
	if q.err != nil {
		return q.err
	}
	q.signals = append(q.signals, value)
	if !q.stalled {
		f.(*fakeFence).complete(value)
	}
	return nil
}

func (q *fakeQueue) Release() { q.released = true }

type fakeFence struct {
	mu        sync.Mutex
	completed uint64
	waitErr   error
	waits     int
	released  bool
}

func newFakeFence(initial uint64) *fakeFence { return &fakeFence{completed: initial} }

func (f *fakeFence) complete(v uint64) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if v > f.completed {
		f.completed = v
	}
}

func (f *fakeFence) CompletedValue() uint64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.completed
}

func (f *fakeFence) Wait(value uint64, timeout time.Duration) (bool, error) {
	f.mu.Lock()
	f.waits++
	err := f.waitErr
	f.mu.Unlock()
	if err != nil {
		return false, err
	}
	if f.CompletedValue() >= value {
		return true, nil
	}
	if timeout > 0 {
		time.Sleep(min(timeout, time.Millisecond))
	}
	return f.CompletedValue() >= value, nil
}

func (f *fakeFence) Release() { f.released = true }

type fakeSwapChain struct {
	count    int
	index    int
	w, h     int
	presents []int
	released bool
}

func (s *fakeSwapChain) BackBufferCount() int        { return s.count }
func (s *fakeSwapChain) CurrentBackBufferIndex() int { return s.index }

func (s *fakeSwapChain) BackBuffer(i int) (NativeResource, error) {
	if i < 0 || i >= s.count {
		return nil, errFake
	}
	return &fakeResource{}, nil
}

func (s *fakeSwapChain) Present(interval int) error {
	s.presents = append(s.presents, interval)
	s.index = (s.index + 1) % s.count
	return nil
}

func (s *fakeSwapChain) ResizeBuffers(w, h int) error {
	s.w, s.h = w, h
	return nil
}

func (s *fakeSwapChain) Release() { s.released = true }

type fakeResource struct {
	released int
}

func (r *fakeResource) Release() { r.released++ }

// registerFake registers b under a test-unique name and returns the name.
func registerFake(t *testing.T, b Backend) string {
	t.Helper()
	name := "fake-" + strings.ReplaceAll(t.Name(), "/", "-")
	Register(name, func() Backend { return b })
	t.Cleanup(func() { Unregister(name) })
	return name
}
