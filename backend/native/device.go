// Copyright 2026 The Vortice Authors
// SPDX-License-Identifier: BSD-3-Clause

package native

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	"github.com/Sina-Ebrahimi/vortice/graphics"
)

// Device wraps an open HAL device and its queue.
//
// Child objects are tracked so Release can report the ones still alive.
type Device struct {
	adapter *Adapter
	level   graphics.FeatureLevel
	device  hal.Device
	queue   hal.Queue
	limits  gputypes.Limits

	mu       sync.Mutex
	name     string
	nextID   int
	live     map[int]string
	released bool
}

func newDevice(a *Adapter, level graphics.FeatureLevel, device hal.Device, queue hal.Queue, limits gputypes.Limits) *Device {
	return &Device{
		adapter: a,
		level:   level,
		device:  device,
		queue:   queue,
		limits:  limits,
		live:    make(map[int]string),
	}
}

func (d *Device) track(kind, label string) func() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.nextID++
	id := d.nextID
	if label != "" {
		kind = fmt.Sprintf("%s %q", kind, label)
	}
	d.live[id] = kind
	var once sync.Once
	return func() {
		once.Do(func() {
			d.mu.Lock()
			defer d.mu.Unlock()
			delete(d.live, id)
		})
	}
}

// HalDevice returns the underlying HAL device.
func (d *Device) HalDevice() hal.Device { return d.device }

// HalQueue returns the underlying HAL queue.
func (d *Device) HalQueue() hal.Queue { return d.queue }

// FeatureLevel returns the level the device was created at.
func (d *Device) FeatureLevel() graphics.FeatureLevel { return d.level }

// Name returns the debug name.
func (d *Device) Name() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.name
}

// SetName records the debug name.
func (d *Device) SetName(name string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.name = name
}

// Architecture reports unified memory for integrated adapters.
func (d *Device) Architecture() (graphics.Architecture, error) {
	uma := d.adapter.desc.UnifiedMemory
	return graphics.Architecture{UMA: uma, CacheCoherent: uma}, nil
}

// QueryLimits reports the limits the device was opened with.
func (d *Device) QueryLimits() (graphics.Limits, error) {
	l := d.limits
	return graphics.Limits{
		MaxVertexAttributes:             uint32(l.MaxVertexAttributes),
		MaxVertexBindings:               uint32(l.MaxVertexBuffers),
		MaxVertexBindingStride:          uint32(l.MaxVertexBufferArrayStride),
		MaxTextureDimension1D:           uint32(l.MaxTextureDimension1D),
		MaxTextureDimension2D:           uint32(l.MaxTextureDimension2D),
		MaxTextureDimension3D:           uint32(l.MaxTextureDimension3D),
		MaxTextureArrayLayers:           uint32(l.MaxTextureArrayLayers),
		MaxColorAttachments:             uint32(l.MaxColorAttachments),
		MaxUniformBufferRange:           uint32(min(uint64(l.MaxUniformBufferBindingSize), math.MaxUint32)),
		MaxStorageBufferRange:           uint32(min(uint64(l.MaxStorageBufferBindingSize), math.MaxUint32)),
		MinUniformBufferOffsetAlignment: uint64(l.MinUniformBufferOffsetAlignment),
		MinStorageBufferOffsetAlignment: uint64(l.MinStorageBufferOffsetAlignment),
		MaxComputeSharedMemorySize:      uint32(l.MaxComputeWorkgroupStorageSize),
		MaxComputeWorkGroupCountX:       uint32(l.MaxComputeWorkgroupsPerDimension),
		MaxComputeWorkGroupCountY:       uint32(l.MaxComputeWorkgroupsPerDimension),
		MaxComputeWorkGroupCountZ:       uint32(l.MaxComputeWorkgroupsPerDimension),
		MaxComputeWorkGroupInvocations:  uint32(l.MaxComputeInvocationsPerWorkgroup),
		MaxComputeWorkGroupSizeX:        uint32(l.MaxComputeWorkgroupSizeX),
		MaxComputeWorkGroupSizeY:        uint32(l.MaxComputeWorkgroupSizeY),
		MaxComputeWorkGroupSizeZ:        uint32(l.MaxComputeWorkgroupSizeZ),
	}, nil
}

// LiveObjects returns the child objects not yet released, in creation
// order.
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

// ReportLiveObjects formats LiveObjects for a diagnostic log line.
func (d *Device) ReportLiveObjects() string {
	live := d.LiveObjects()
	if len(live) == 0 {
		return "no live objects"
	}
	return fmt.Sprintf("%d live objects: %s", len(live), strings.Join(live, ", "))
}

// CreateCommandQueue returns the device queue. Only graphics queues exist.
func (d *Device) CreateCommandQueue(t graphics.CommandQueueType) (graphics.NativeQueue, error) {
	if t != graphics.CommandQueueGraphics {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedQueue, t)
	}
	return &Queue{device: d, untrack: d.track("queue", t.String())}, nil
}

// CreateFence creates a fence tracked through queue submission indices.
// Values up to initial count as already reached.
func (d *Device) CreateFence(initial uint64) (graphics.NativeFence, error) {
	return &Fence{
		device:  d,
		reached: initial,
		untrack: d.track("fence", ""),
	}, nil
}

// Release destroys the HAL device and returns the number of child objects
// still alive.
func (d *Device) Release() uint32 {
	d.mu.Lock()
	defer d.mu.Unlock()
	if !d.released {
		d.released = true
		d.device.Destroy()
	}
	return uint32(len(d.live))
}

// Queue submits signals to the HAL queue.
type Queue struct {
	device  *Device
	untrack func()

	mu   sync.Mutex
	name string
}

// Name returns the debug name.
func (q *Queue) Name() string {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.name
}

// SetName records the debug name.
func (q *Queue) SetName(name string) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.name = name
}

// Signal submits an empty batch and records its submission index against
// value. The fence reaches value once the HAL reports that index complete,
// which happens only after all earlier submissions.
func (q *Queue) Signal(f graphics.NativeFence, value uint64) error {
	nf, ok := f.(*Fence)
	if !ok || nf.device != q.device {
		return fmt.Errorf("%w: fence %T", ErrForeignObject, f)
	}
	index, err := q.device.queue.Submit(nil)
	if err != nil {
		return fmt.Errorf("native: signal fence to %d: %w", value, err)
	}
	nf.record(value, index)
	return nil
}

// Release drops the queue wrapper. The HAL queue lives with the device.
func (q *Queue) Release() { q.untrack() }

// pollInterval is the sleep between completion polls in Fence.Wait.
const pollInterval = 500 * time.Microsecond

// submission pairs a logical fence value with the HAL submission index
// that signals it.
type submission struct {
	value uint64
	index uint64
}

// Fence maps logical fence values onto HAL submission indices.
//
// Pending submissions are kept in increasing value order. Since the HAL
// completes submissions in order, the completed value is the value of the
// last pending entry whose index PollCompleted has passed.
type Fence struct {
	device  *Device
	untrack func()

	mu      sync.Mutex
	reached uint64
	pending []submission
}

func (f *Fence) record(value, index uint64) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if value <= f.reached {
		return
	}
	if n := len(f.pending); n > 0 && value <= f.pending[n-1].value {
		return
	}
	f.pending = append(f.pending, submission{value: value, index: index})
}

// Pending returns the number of signals not yet known to be complete.
func (f *Fence) Pending() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.pending)
}

// poll retires the pending signals the HAL reports complete and returns the
// completed value.
func (f *Fence) poll() uint64 {
	done := f.device.queue.PollCompleted()
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for n < len(f.pending) && f.pending[n].index <= done {
		f.reached = f.pending[n].value
		n++
	}
	f.pending = f.pending[n:]
	return f.reached
}

// CompletedValue polls the HAL for the last completed value.
func (f *Fence) CompletedValue() uint64 { return f.poll() }

// Wait polls until the fence reaches value or timeout elapses. A negative
// timeout waits without bound.
func (f *Fence) Wait(value uint64, timeout time.Duration) (bool, error) {
	if f.poll() >= value {
		return true, nil
	}
	if timeout == 0 {
		return false, nil
	}
	var deadline <-chan time.Time
	if timeout > 0 {
		t := time.NewTimer(timeout)
		defer t.Stop()
		deadline = t.C
	}
	tick := time.NewTicker(pollInterval)
	defer tick.Stop()
	for {
		select {
		case <-deadline:
			return f.poll() >= value, nil
		case <-tick.C:
			if f.poll() >= value {
				return true, nil
			}
		}
	}
}

// Release drops the fence. Pending submissions complete on their own.
func (f *Fence) Release() { f.untrack() }
