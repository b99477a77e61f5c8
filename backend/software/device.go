// Copyright 2026 The Vortice Authors
// SPDX-License-Identifier: BSD-3-Clause

package software

import (
	"fmt"
	"sort"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/Sina-Ebrahimi/vortice/graphics"
)

// Device is a simulated logical device.
//
// Every child object holds a reference on the device until it is released,
// so Release reports leaked children in its return value.
type Device struct {
	adapter *Adapter
	level   graphics.FeatureLevel
	debug   bool

	mu       sync.Mutex
	name     string
	refs     int
	nextID   int
	live     map[int]string
	infoQ    *InfoQueue
	lost     atomic.Bool
	lostCh   chan struct{}
	lostOnce sync.Once
}

func newDevice(a *Adapter, level graphics.FeatureLevel) *Device {
	return &Device{
		adapter: a,
		level:   level,
		debug:   a.factory.debug,
		refs:    1,
		live:    make(map[int]string),
		lostCh:  make(chan struct{}),
	}
}

// track registers a child object and returns its release function.
func (d *Device) track(kind, label string) func() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.nextID++
	id := d.nextID
	desc := kind
	if label != "" {
		desc = fmt.Sprintf("%s %q", kind, label)
	}
	d.live[id] = desc
	var once sync.Once
	return func() {
		once.Do(func() {
			d.mu.Lock()
			defer d.mu.Unlock()
			delete(d.live, id)
		})
	}
}

// FeatureLevel returns the level the device was created at.
func (d *Device) FeatureLevel() graphics.FeatureLevel { return d.level }

// Name returns the debug name.
func (d *Device) Name() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.name
}

// SetName sets the debug name.
func (d *Device) SetName(name string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.name = name
}

// LiveObjects returns descriptions of the child objects not yet released,
// in creation order.
func (d *Device) LiveObjects() []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	ids := make([]int, 0, len(d.live))
	for id := range d.live {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = d.live[id]
	}
	return out
}

// ReportLiveObjects formats LiveObjects as a single diagnostic string.
func (d *Device) ReportLiveObjects() string {
	live := d.LiveObjects()
	if len(live) == 0 {
		return "no live objects"
	}
	return fmt.Sprintf("%d live objects: %s", len(live), strings.Join(live, ", "))
}

// Lose simulates device removal. Pending and future fence waits fail with
// ErrDeviceRemoved and queues stop executing work.
func (d *Device) Lose() {
	d.lostOnce.Do(func() {
		d.lost.Store(true)
		close(d.lostCh)
	})
}

// Lost reports whether Lose was called.
func (d *Device) Lost() bool { return d.lost.Load() }

// Architecture reports the configured memory architecture.
func (d *Device) Architecture() (graphics.Architecture, error) {
	return d.adapter.cfg.Architecture, nil
}

// Options reports the configured optional tiers.
func (d *Device) Options() (graphics.Options, error) {
	return d.adapter.cfg.Options, nil
}

// QueryLimits reports no dynamic limits, keeping the static defaults.
func (d *Device) QueryLimits() (graphics.Limits, error) {
	return graphics.Limits{}, nil
}

// InfoQueue returns the validation message queue. It exists only on
// devices created from a debug factory.
func (d *Device) InfoQueue() (graphics.InfoQueue, error) {
	if !d.debug {
		return nil, fmt.Errorf("software: device created without debug factory")
	}
	d.mu.Lock()
	if d.infoQ == nil {
		d.infoQ = &InfoQueue{failAdd: d.adapter.factory.backend.filterErr}
	}
	iq := d.infoQ
	d.mu.Unlock()
	return iq, nil
}

// Messages returns the info queue, or nil when none was created.
func (d *Device) Messages() *InfoQueue {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.infoQ
}

// CreateCommandQueue starts a queue worker.
func (d *Device) CreateCommandQueue(t graphics.CommandQueueType) (graphics.NativeQueue, error) {
	if d.lost.Load() {
		return nil, ErrDeviceRemoved
	}
	return newQueue(d, t, d.track("queue", t.String())), nil
}

// CreateFence creates a fence at initial.
func (d *Device) CreateFence(initial uint64) (graphics.NativeFence, error) {
	if d.lost.Load() {
		return nil, ErrDeviceRemoved
	}
	return newFence(d, initial, d.track("fence", "")), nil
}

// CreateSwapChain creates an off-screen back-buffer ring.
func (d *Device) CreateSwapChain(surface graphics.SurfaceSource, desc graphics.SwapChainDescriptor, queue graphics.NativeQueue) (graphics.NativeSwapChain, error) {
	q, ok := queue.(*Queue)
	if !ok || q.device != d {
		return nil, fmt.Errorf("software: swap chain queue belongs to another device")
	}
	return newSwapChain(d, surface, desc, d.track("swap chain", "")), nil
}

// CreateTexture allocates host memory for every layer and mip level.
func (d *Device) CreateTexture(desc graphics.TextureDescriptor) (graphics.NativeResource, error) {
	if d.lost.Load() {
		return nil, ErrDeviceRemoved
	}
	return newTexture(desc, d.track("texture", desc.Label)), nil
}

// CreateBuffer allocates host memory and copies data into it.
func (d *Device) CreateBuffer(desc graphics.BufferDescriptor, data []byte) (graphics.NativeResource, error) {
	if d.lost.Load() {
		return nil, ErrDeviceRemoved
	}
	return newBuffer(desc, data, d.track("buffer", desc.Label)), nil
}

// Release drops one reference and returns the references still held,
// counting live child objects.
func (d *Device) Release() uint32 {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.refs > 0 {
		d.refs--
	}
	return uint32(d.refs + len(d.live))
}
