// Copyright 2026 The Vortice Authors
// SPDX-License-Identifier: BSD-3-Clause

package graphics

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"
	"time"
)

type deviceFixture struct {
	backend *fakeDebugBackend
	factory *fakePreferenceFactory
	adapter *fakeAdapter
	debug   *fakeGPUDebug
	device  *fakeDevice
	name    string
}

func newDeviceFixture(t *testing.T) *deviceFixture {
	t.Helper()
	fx := &deviceFixture{
		adapter: hardwareAdapter("GPU", FeatureLevel121),
		debug:   &fakeGPUDebug{},
		device:  &fakeDevice{iq: &fakeInfoQueue{}},
	}
	fx.adapter.device = fx.device
	fx.factory = &fakePreferenceFactory{
		fakeFactory: fakeFactory{adapters: []*fakeAdapter{softwareAdapter(), fx.adapter}},
		tearing:     true,
	}
	fx.backend = &fakeDebugBackend{
		fakeBackend: fakeBackend{name: "fake", supported: true, factory: fx.factory},
		debug:       fx.debug,
	}
	fx.name = registerFake(t, fx.backend)
	return fx
}

func (fx *deviceFixture) create(t *testing.T, opts ...Option) *Device {
	t.Helper()
	d, err := Create(append([]Option{WithBackend(fx.name)}, opts...)...)
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	return d
}

func TestCreate(t *testing.T) {
	fx := newDeviceFixture(t)
	var debugFlag bool
	fx.backend.debugFlag = &debugFlag

	d := fx.create(t, WithValidation(ValidationVerbose))
	defer d.Close()

	if d.Adapter().Name != "GPU" {
		t.Errorf("Adapter().Name = %q, want GPU", d.Adapter().Name)
	}
	if d.FeatureLevel() != FeatureLevel121 {
		t.Errorf("FeatureLevel() = %v, want %v", d.FeatureLevel(), FeatureLevel121)
	}
	if d.AdapterType() != AdapterTypeDiscreteGPU {
		t.Errorf("AdapterType() = %v, want discrete", d.AdapterType())
	}
	if !d.TearingSupported() {
		t.Error("TearingSupported() = false")
	}
	if !debugFlag {
		t.Error("factory not created with debug flag")
	}
	if !d.Validation().FilterInstalled {
		t.Error("validation filter not installed")
	}
	if fx.device.name != "VorticeDevice" {
		t.Errorf("device name = %q", fx.device.name)
	}
	if fx.device.queue.name != "Graphics Command Queue" {
		t.Errorf("queue name = %q", fx.device.queue.name)
	}
	if got := d.Fence().CompletedValue(); got != 0 {
		t.Errorf("fence starts at %d, want 0", got)
	}
	if d.Backend() != "fake" {
		t.Errorf("Backend() = %q", d.Backend())
	}
}

func TestCreateValidationDisabled(t *testing.T) {
	fx := newDeviceFixture(t)
	debugFlag := true
	fx.backend.debugFlag = &debugFlag

	d := fx.create(t)
	defer d.Close()

	if debugFlag || fx.debug.enabled {
		t.Error("debug enabled without validation")
	}
	if len(fx.device.iq.filters) != 0 {
		t.Error("filter installed without validation")
	}
}

func TestCreateFailures(t *testing.T) {
	tests := []struct {
		name    string
		breakIt func(fx *deviceFixture)
		stage   Stage
		opts    []Option
		wantErr error
		wantAs  bool
	}{
		{
			name:    "factory",
			breakIt: func(fx *deviceFixture) { fx.backend.err = errFake },
			stage:   StageFactory,
			wantErr: errFake,
		},
		{
			name:    "no adapter",
			breakIt: func(fx *deviceFixture) { fx.adapter.maxLevel = 0 },
			stage:   StageAdapter,
			wantErr: ErrNoCompatibleAdapter,
		},
		{
			name:    "filter",
			breakIt: func(fx *deviceFixture) { fx.device.iq.addErr = errFake },
			stage:   StageFilter,
			opts:    []Option{WithValidation(ValidationEnabled)},
			wantErr: errFake,
			wantAs:  true,
		},
		{
			name:    "queue",
			breakIt: func(fx *deviceFixture) { fx.device.queueErr = errFake },
			stage:   StageQueue,
			wantErr: errFake,
		},
		{
			name:    "fence",
			breakIt: func(fx *deviceFixture) { fx.device.fenceErr = errFake },
			stage:   StageFence,
			wantErr: errFake,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fx := newDeviceFixture(t)
			tt.breakIt(fx)

			d, err := Create(append([]Option{WithBackend(fx.name)}, tt.opts...)...)
			if d != nil {
				t.Fatal("Create() returned a device on failure")
			}
			var ce *DeviceCreationError
			if !errors.As(err, &ce) {
				t.Fatalf("error = %v, want *DeviceCreationError", err)
			}
			if ce.Stage != tt.stage {
				t.Errorf("Stage = %q, want %q", ce.Stage, tt.stage)
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("error = %v, want wrapping %v", err, tt.wantErr)
			}
			if tt.wantAs {
				var fe *ValidationFilterInstallError
				if !errors.As(err, &fe) {
					t.Errorf("error = %v, want *ValidationFilterInstallError", err)
				}
			}

			if tt.stage != StageFactory && !fx.factory.released {
				t.Error("factory not released")
			}
			if tt.stage != StageFactory && fx.adapter.released != 1 {
				t.Errorf("adapter released %d times, want 1", fx.adapter.released)
			}
			if (tt.stage == StageFilter || tt.stage == StageQueue || tt.stage == StageFence) && !fx.device.released {
				t.Error("device not released")
			}
			if tt.stage == StageFence && !fx.device.queue.released {
				t.Error("queue not released")
			}
		})
	}
}

func TestCreateUnknownBackend(t *testing.T) {
	_, err := Create(WithBackend("does-not-exist"))
	if !errors.Is(err, ErrBackendNotAvailable) {
		t.Errorf("Create() error = %v, want %v", err, ErrBackendNotAvailable)
	}
}

func TestDeviceWaitIdle(t *testing.T) {
	fx := newDeviceFixture(t)
	d := fx.create(t)
	defer d.Close()

	for i := 0; i < 2; i++ {
		if err := d.WaitIdle(context.Background()); err != nil {
			t.Fatalf("WaitIdle() #%d error = %v", i+1, err)
		}
	}

	signals := fx.device.queue.signals
	if len(signals) != 2 {
		t.Fatalf("signals = %v, want 2", signals)
	}
	if signals[0] >= signals[1] {
		t.Errorf("signals not increasing: %v", signals)
	}
	if d.Fence().CompletedValue() != signals[1] {
		t.Errorf("completed = %d, want %d", d.Fence().CompletedValue(), signals[1])
	}
}

func TestDeviceWaitIdleDeviceLost(t *testing.T) {
	fx := newDeviceFixture(t)
	d := fx.create(t, WithWaitTimeout(10*time.Millisecond))

	fx.device.queue.stalled = true
	if err := d.WaitIdle(context.Background()); !errors.Is(err, ErrDeviceLost) {
		t.Errorf("WaitIdle() error = %v, want %v", err, ErrDeviceLost)
	}

	fx.device.queue.stalled = false
	if err := d.Close(); err != nil {
		t.Errorf("Close() error = %v", err)
	}
}

func TestDeviceClose(t *testing.T) {
	fx := newDeviceFixture(t)
	d := fx.create(t)

	if err := d.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if err := d.Close(); err != nil {
		t.Fatalf("second Close() error = %v", err)
	}

	if len(fx.device.queue.signals) != 1 {
		t.Errorf("signals = %v, want one wait-idle signal", fx.device.queue.signals)
	}
	if !fx.device.fence.released || !fx.device.queue.released || !fx.device.released {
		t.Error("fence, queue or device not released")
	}
	if fx.adapter.released != 1 || !fx.factory.released {
		t.Error("adapter or factory not released")
	}
	if !d.Closed() {
		t.Error("Closed() = false")
	}

	if err := d.WaitIdle(context.Background()); !errors.Is(err, ErrDeviceClosed) {
		t.Errorf("WaitIdle() after Close error = %v, want %v", err, ErrDeviceClosed)
	}
	if _, err := d.CreateBuffer(BufferDescriptor{Size: 4, Usage: BufferUsageVertex}, nil); !errors.Is(err, ErrDeviceClosed) {
		t.Errorf("CreateBuffer() after Close error = %v, want %v", err, ErrDeviceClosed)
	}
}

func TestDeviceCloseReportsLeaks(t *testing.T) {
	fx := newDeviceFixture(t)
	fx.device.leak = 2

	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	d := fx.create(t, WithLogger(logger))

	if err := d.Close(); err != nil {
		t.Fatalf("Close() error = %v, leaks must not fail", err)
	}
	out := buf.String()
	if !strings.Contains(out, "live references") || !strings.Contains(out, "2 live objects") {
		t.Errorf("leak report missing from log:\n%s", out)
	}
}

func TestDeviceSwapChain(t *testing.T) {
	fx := newDeviceFixture(t)
	d := fx.create(t)
	defer d.Close()

	sc, err := d.CreateSwapChain(SurfaceSource{Handle: 1}, SwapChainDescriptor{Width: 640, Height: 480})
	if err != nil {
		t.Fatalf("CreateSwapChain() error = %v", err)
	}
	defer sc.Close()

	if sc.BackBufferCount() != DefaultBackBufferCount {
		t.Errorf("BackBufferCount() = %d, want %d", sc.BackBufferCount(), DefaultBackBufferCount)
	}
	if sc.Format() != TextureFormatBGRA8Unorm {
		t.Errorf("Format() = %v, want BGRA8Unorm", sc.Format())
	}

	for i := 0; i < 3; i++ {
		if err := sc.Present(); err != nil {
			t.Fatalf("Present() error = %v", err)
		}
	}
	if sc.PresentCount() != 3 {
		t.Errorf("PresentCount() = %d, want 3", sc.PresentCount())
	}
	if sc.CurrentBackBufferIndex() != 1 {
		t.Errorf("CurrentBackBufferIndex() = %d, want 1", sc.CurrentBackBufferIndex())
	}

	before := len(fx.device.queue.signals)
	if err := sc.Resize(800, 600); err != nil {
		t.Fatalf("Resize() error = %v", err)
	}
	if w, h := sc.Size(); w != 800 || h != 600 {
		t.Errorf("Size() = %dx%d, want 800x600", w, h)
	}
	if len(fx.device.queue.signals) != before+1 {
		t.Error("Resize() did not wait for idle")
	}
	if err := sc.Resize(800, 600); err != nil {
		t.Fatalf("Resize() same size error = %v", err)
	}
	if len(fx.device.queue.signals) != before+1 {
		t.Error("Resize() to same size waited for idle")
	}
}

func TestDeviceSwapChainInvalid(t *testing.T) {
	fx := newDeviceFixture(t)
	d := fx.create(t)
	defer d.Close()

	tests := []SwapChainDescriptor{
		{Width: 0, Height: 10},
		{Width: 10, Height: 10, Format: TextureFormatDepth32Float},
		{Width: 10, Height: 10, BufferCount: 17},
	}
	for _, desc := range tests {
		if _, err := d.CreateSwapChain(SurfaceSource{}, desc); !errors.Is(err, ErrInvalidDescriptor) {
			t.Errorf("CreateSwapChain(%+v) error = %v, want %v", desc, err, ErrInvalidDescriptor)
		}
	}
}

func TestDeviceImmediateFallsBackWithoutTearing(t *testing.T) {
	fx := newDeviceFixture(t)
	fx.factory.tearing = false
	d := fx.create(t)
	defer d.Close()

	sc, err := d.CreateSwapChain(SurfaceSource{}, SwapChainDescriptor{Width: 8, Height: 8, PresentMode: PresentModeImmediate})
	if err != nil {
		t.Fatal(err)
	}
	defer sc.Close()
	if sc.PresentMode() != PresentModeFifo {
		t.Errorf("PresentMode() = %v, want fifo", sc.PresentMode())
	}
}

func TestDeviceResources(t *testing.T) {
	fx := newDeviceFixture(t)
	d := fx.create(t)
	defer d.Close()

	tex, err := d.CreateTexture(TextureDescriptor{
		Label:  "albedo",
		Width:  256,
		Height: 256,
		Format: TextureFormatRGBA8Unorm,
		Usage:  TextureUsageSampled | TextureUsageCopyDst,
	})
	if err != nil {
		t.Fatalf("CreateTexture() error = %v", err)
	}
	if got := tex.Descriptor(); got.MipLevels != 1 || got.ArrayLayers != 1 || got.SampleCount != 1 {
		t.Errorf("defaults not applied: %+v", got)
	}
	tex.Release()
	tex.Release()
	if r := tex.Native().(*fakeResource); r.released != 1 {
		t.Errorf("texture released %d times, want 1", r.released)
	}

	buf, err := d.CreateBuffer(BufferDescriptor{Size: 16, Usage: BufferUsageUniform}, []byte{1, 2, 3, 4})
	if err != nil {
		t.Fatalf("CreateBuffer() error = %v", err)
	}
	if buf.Size() != 16 {
		t.Errorf("Size() = %d, want 16", buf.Size())
	}
	buf.Release()

	invalid := []TextureDescriptor{
		{Width: 0, Height: 1, Format: TextureFormatRGBA8Unorm, Usage: TextureUsageSampled},
		{Width: 1, Height: 1, Usage: TextureUsageSampled},
		{Width: 1, Height: 1, Format: TextureFormatRGBA8Unorm},
		{Width: 1 << 20, Height: 1, Format: TextureFormatRGBA8Unorm, Usage: TextureUsageSampled},
	}
	for _, desc := range invalid {
		if _, err := d.CreateTexture(desc); !errors.Is(err, ErrInvalidDescriptor) {
			t.Errorf("CreateTexture(%+v) error = %v, want %v", desc, err, ErrInvalidDescriptor)
		}
	}

	if _, err := d.CreateBuffer(BufferDescriptor{Size: 2, Usage: BufferUsageVertex}, []byte{1, 2, 3}); !errors.Is(err, ErrInvalidDescriptor) {
		t.Errorf("CreateBuffer() oversized data error = %v, want %v", err, ErrInvalidDescriptor)
	}
	if _, err := d.CreateBuffer(BufferDescriptor{Size: 0, Usage: BufferUsageVertex}, nil); !errors.Is(err, ErrInvalidDescriptor) {
		t.Errorf("CreateBuffer() zero size error = %v, want %v", err, ErrInvalidDescriptor)
	}
}
