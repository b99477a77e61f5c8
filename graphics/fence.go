// Copyright 2026 The Vortice Authors
// SPDX-License-Identifier: BSD-3-Clause

package graphics

import (
	"context"
	"fmt"
	"time"
)

// fenceWaitSlice bounds a single native wait so a cancelled context is
// noticed promptly.
const fenceWaitSlice = 50 * time.Millisecond

// Fence is a monotonic 64-bit counter used to wait for queue completion.
// It is not safe for concurrent use.
type Fence struct {
	native NativeFence
	last   uint64
}

func newFence(native NativeFence, initial uint64) *Fence {
	return &Fence{native: native, last: initial}
}

// Native returns the backend fence.
func (f *Fence) Native() NativeFence { return f.native }

// LastSignaled returns the highest value ever signaled through f.
func (f *Fence) LastSignaled() uint64 { return f.last }

// CompletedValue returns the value the device has reached.
func (f *Fence) CompletedValue() uint64 { return f.native.CompletedValue() }

// Signal enqueues an update of the fence to value on q. Values must be
// strictly increasing.
func (f *Fence) Signal(q NativeQueue, value uint64) error {
	if value <= f.last {
		return fmt.Errorf("graphics: fence value %d not above last signaled %d", value, f.last)
	}
	if err := q.Signal(f.native, value); err != nil {
		return fmt.Errorf("graphics: signal fence: %w", err)
	}
	f.last = value
	return nil
}

// SignalNext signals the next value in sequence and returns it.
func (f *Fence) SignalNext(q NativeQueue) (uint64, error) {
	v := f.last + 1
	if err := f.Signal(q, v); err != nil {
		return 0, err
	}
	return v, nil
}

// WaitFor blocks until the fence reaches value, ctx is done, or timeout
// elapses. A zero timeout waits without bound. Native wait failures and
// timeouts are reported as ErrDeviceLost.
func (f *Fence) WaitFor(ctx context.Context, value uint64, timeout time.Duration) error {
	if f.native.CompletedValue() >= value {
		return nil
	}

	var deadline time.Time
	if timeout > 0 {
		deadline = time.Now().Add(timeout)
	}

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		slice := fenceWaitSlice
		if !deadline.IsZero() {
			remaining := time.Until(deadline)
			if remaining <= 0 {
				return fmt.Errorf("%w: fence %d not reached within %v (completed %d)",
					ErrDeviceLost, value, timeout, f.native.CompletedValue())
			}
			slice = min(slice, remaining)
		}

		done, err := f.native.Wait(value, slice)
		if err != nil {
			return fmt.Errorf("%w: %w", ErrDeviceLost, err)
		}
		if done || f.native.CompletedValue() >= value {
			return nil
		}
	}
}

func (f *Fence) release() {
	if f.native != nil {
		f.native.Release()
		f.native = nil
	}
}
