// Copyright 2026 The Vortice Authors
// SPDX-License-Identifier: BSD-3-Clause

package graphics

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestFenceSignalMonotonic(t *testing.T) {
	nf := newFakeFence(0)
	q := &fakeQueue{}
	f := newFence(nf, 0)

	for want := uint64(1); want <= 3; want++ {
		v, err := f.SignalNext(q)
		if err != nil {
			t.Fatalf("SignalNext() error = %v", err)
		}
		if v != want {
			t.Errorf("SignalNext() = %d, want %d", v, want)
		}
	}

	if err := f.Signal(q, 2); err == nil {
		t.Error("Signal(2) after 3 succeeded")
	}
	if err := f.Signal(q, 3); err == nil {
		t.Error("Signal(3) after 3 succeeded")
	}
	if f.LastSignaled() != 3 || f.CompletedValue() != 3 {
		t.Errorf("last = %d, completed = %d, want 3, 3", f.LastSignaled(), f.CompletedValue())
	}
}

func TestFenceSignalQueueError(t *testing.T) {
	f := newFence(newFakeFence(0), 0)
	if _, err := f.SignalNext(&fakeQueue{err: errFake}); !errors.Is(err, errFake) {
		t.Fatalf("SignalNext() error = %v, want %v", err, errFake)
	}
	if f.LastSignaled() != 0 {
		t.Errorf("LastSignaled() = %d after failed signal, want 0", f.LastSignaled())
	}
}

func TestFenceWaitForCompleted(t *testing.T) {
	nf := newFakeFence(5)
	f := newFence(nf, 5)
	if err := f.WaitFor(context.Background(), 4, time.Second); err != nil {
		t.Fatalf("WaitFor() error = %v", err)
	}
	if nf.waits != 0 {
		t.Errorf("native waits = %d, want 0 for reached value", nf.waits)
	}
}

func TestFenceWaitForAsync(t *testing.T) {
	nf := newFakeFence(0)
	f := newFence(nf, 0)
	q := &fakeQueue{stalled: true}
	v, err := f.SignalNext(q)
	if err != nil {
		t.Fatal(err)
	}

	go func() {
		time.Sleep(5 * time.Millisecond)
		nf.complete(v)
	}()

	if err := f.WaitFor(context.Background(), v, time.Second); err != nil {
		t.Fatalf("WaitFor() error = %v", err)
	}
}

func TestFenceWaitForTimeout(t *testing.T) {
	f := newFence(newFakeFence(0), 0)
	if _, err := f.SignalNext(&fakeQueue{stalled: true}); err != nil {
		t.Fatal(err)
	}
	err := f.WaitFor(context.Background(), 1, 10*time.Millisecond)
	if !errors.Is(err, ErrDeviceLost) {
		t.Errorf("WaitFor() error = %v, want %v", err, ErrDeviceLost)
	}
}

func TestFenceWaitForNativeError(t *testing.T) {
	nf := newFakeFence(0)
	nf.waitErr = errFake
	f := newFence(nf, 0)
	err := f.WaitFor(context.Background(), 1, time.Second)
	if !errors.Is(err, ErrDeviceLost) || !errors.Is(err, errFake) {
		t.Errorf("WaitFor() error = %v, want ErrDeviceLost wrapping %v", err, errFake)
	}
}

func TestFenceWaitForCancel(t *testing.T) {
	f := newFence(newFakeFence(0), 0)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := f.WaitFor(ctx, 1, 0); !errors.Is(err, context.Canceled) {
		t.Errorf("WaitFor() error = %v, want %v", err, context.Canceled)
	}
}
