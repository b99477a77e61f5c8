// Copyright 2026 The Vortice Authors
// SPDX-License-Identifier: BSD-3-Clause

package software

import (
	"fmt"
	"sync"
	"time"

	"github.com/Sina-Ebrahimi/vortice/graphics"
)

// queueDepth is the number of operations a queue buffers before Submit
// blocks.
const queueDepth = 64

// Queue executes submitted work in order on a dedicated goroutine.
type Queue struct {
	device  *Device
	typ     graphics.CommandQueueType
	untrack func()

	mu     sync.Mutex
	name   string
	closed bool
	ops    chan func()
	done   chan struct{}
}

func newQueue(d *Device, t graphics.CommandQueueType, untrack func()) *Queue {
	q := &Queue{
		device:  d,
		typ:     t,
		untrack: untrack,
		ops:     make(chan func(), queueDepth),
		done:    make(chan struct{}),
	}
	go q.run()
	return q
}

func (q *Queue) run() {
	defer close(q.done)
	for op := range q.ops {
		if q.device.lost.Load() {
			continue
		}
		op()
	}
}

// Type returns the queue type.
func (q *Queue) Type() graphics.CommandQueueType { return q.typ }

// Name returns the debug name.
func (q *Queue) Name() string {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.name
}

// SetName sets the debug name.
func (q *Queue) SetName(name string) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.name = name
}

// Submit enqueues work to run after everything submitted before it.
func (q *Queue) Submit(work func()) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		return ErrReleased
	}
	q.ops <- work
	return nil
}

// Signal enqueues an update of f to value.
func (q *Queue) Signal(f graphics.NativeFence, value uint64) error {
	sf, ok := f.(*Fence)
	if !ok {
		return fmt.Errorf("software: cannot signal foreign fence %T", f)
	}
	return q.Submit(func() { sf.advance(value) })
}

// Release drains the queue and stops its goroutine.
func (q *Queue) Release() {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return
	}
	q.closed = true
	close(q.ops)
	q.mu.Unlock()

	<-q.done
	q.untrack()
}

// Fence is a monotonic counter advanced by queue signals.
type Fence struct {
	device  *Device
	untrack func()

	mu        sync.Mutex
	completed uint64
	changed   chan struct{}
}

func newFence(d *Device, initial uint64, untrack func()) *Fence {
	return &Fence{
		device:    d,
		untrack:   untrack,
		completed: initial,
		changed:   make(chan struct{}),
	}
}

// advance raises the completed value. Lower values are ignored.
func (f *Fence) advance(v uint64) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if v <= f.completed {
		return
	}
	f.completed = v
	close(f.changed)
	f.changed = make(chan struct{})
}

// CompletedValue returns the highest value reached.
func (f *Fence) CompletedValue() uint64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.completed
}

// Wait blocks until the fence reaches value or timeout elapses. A zero
// timeout polls; a negative timeout waits without bound.
func (f *Fence) Wait(value uint64, timeout time.Duration) (bool, error) {
	var expired <-chan time.Time
	if timeout > 0 {
		t := time.NewTimer(timeout)
		defer t.Stop()
		expired = t.C
	}

	for {
		f.mu.Lock()
		reached := f.completed >= value
		changed := f.changed
		f.mu.Unlock()

		if reached {
			return true, nil
		}
		if f.device.lost.Load() {
			return false, ErrDeviceRemoved
		}
		if timeout == 0 {
			return false, nil
		}

		select {
		case <-changed:
		case <-f.device.lostCh:
		case <-expired:
			return f.CompletedValue() >= value, nil
		}
	}
}

// Release releases the fence.
func (f *Fence) Release() { f.untrack() }
