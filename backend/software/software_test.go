// Copyright 2026 The Vortice Authors
// SPDX-License-Identifier: BSD-3-Clause

package software

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/Sina-Ebrahimi/vortice/graphics"
)

// register installs b under a test-unique name.
func register(t *testing.T, b *Backend) string {
	t.Helper()
	name := "software-" + strings.ReplaceAll(t.Name(), "/", "-")
	graphics.Register(name, func() graphics.Backend { return b })
	t.Cleanup(func() { graphics.Unregister(name) })
	return name
}

func TestRegistered(t *testing.T) {
	if !graphics.IsRegistered(graphics.BackendSoftware) {
		t.Fatal("software backend not registered")
	}
	if !graphics.IsSupported(graphics.BackendSoftware) {
		t.Error("software backend not supported")
	}
}

func TestCreateSkipsBasicRenderDriver(t *testing.T) {
	d, err := graphics.Create(graphics.WithBackend(graphics.BackendSoftware))
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	defer d.Close()

	if d.Adapter().Software {
		t.Errorf("selected software adapter %q", d.Adapter().Name)
	}
	if d.Adapter().Name != "Vortice Reference Adapter" {
		t.Errorf("Adapter().Name = %q", d.Adapter().Name)
	}
	if d.FeatureLevel() != graphics.FeatureLevel122 {
		t.Errorf("FeatureLevel() = %v, want 12.2", d.FeatureLevel())
	}
	caps := d.Capabilities()
	if !caps.Features.Raytracing || !caps.Features.RenderPass || !caps.Features.WaveOps {
		t.Errorf("Features = %+v", caps.Features)
	}
	if caps.AdapterType != graphics.AdapterTypeDiscreteGPU {
		t.Errorf("AdapterType = %v, want discrete", caps.AdapterType)
	}
}

func TestCreateOnlySoftwareAdapters(t *testing.T) {
	b := New(WithAdapters(DefaultAdapters()[0]))
	_, err := graphics.Create(graphics.WithBackend(register(t, b)))
	if !errors.Is(err, graphics.ErrNoCompatibleAdapter) {
		t.Errorf("Create() error = %v, want %v", err, graphics.ErrNoCompatibleAdapter)
	}
}

func TestCreateFallsBackToOlderLevel(t *testing.T) {
	b := New(WithAdapters(AdapterConfig{
		Descriptor: graphics.AdapterDescriptor{Name: "legacy", VendorID: graphics.VendorAMD},
		MaxLevel:   graphics.FeatureLevel111,
	}))
	d, err := graphics.Create(graphics.WithBackend(register(t, b)))
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	defer d.Close()
	if d.FeatureLevel() != graphics.FeatureLevel111 {
		t.Errorf("FeatureLevel() = %v, want 11.1", d.FeatureLevel())
	}
}

func TestPowerPreference(t *testing.T) {
	adapters := []AdapterConfig{
		{
			Descriptor:   graphics.AdapterDescriptor{Name: "integrated", VendorID: graphics.VendorIntel, UnifiedMemory: true},
			MaxLevel:     graphics.FeatureLevel121,
			Architecture: graphics.Architecture{UMA: true, CacheCoherent: true},
		},
		{
			Descriptor: graphics.AdapterDescriptor{Name: "discrete", VendorID: graphics.VendorNVIDIA},
			MaxLevel:   graphics.FeatureLevel122,
		},
	}
	tests := []struct {
		pref graphics.PowerPreference
		want string
		typ  graphics.AdapterType
	}{
		{graphics.PowerPreferenceHighPerformance, "discrete", graphics.AdapterTypeDiscreteGPU},
		{graphics.PowerPreferenceLowPower, "integrated", graphics.AdapterTypeIntegratedGPU},
		{graphics.PowerPreferenceDefault, "integrated", graphics.AdapterTypeIntegratedGPU},
	}

	name := register(t, New(WithAdapters(adapters...)))
	for _, tt := range tests {
		t.Run(tt.pref.String(), func(t *testing.T) {
			d, err := graphics.Create(graphics.WithBackend(name), graphics.WithPowerPreference(tt.pref))
			if err != nil {
				t.Fatalf("Create() error = %v", err)
			}
			defer d.Close()
			if d.Adapter().Name != tt.want {
				t.Errorf("Adapter().Name = %q, want %q", d.Adapter().Name, tt.want)
			}
			if d.AdapterType() != tt.typ {
				t.Errorf("AdapterType() = %v, want %v", d.AdapterType(), tt.typ)
			}
		})
	}
}

func TestValidationModes(t *testing.T) {
	tests := []struct {
		mode       graphics.ValidationMode
		opts       []Option
		severities int
		gpu        bool
	}{
		{graphics.ValidationEnabled, nil, 4, false},
		{graphics.ValidationVerbose, nil, 5, false},
		{graphics.ValidationGPU, nil, 4, true},
		{graphics.ValidationGPU, []Option{WithoutGPUValidation()}, 4, false},
	}

	for _, tt := range tests {
		t.Run(tt.mode.String(), func(t *testing.T) {
			b := New(tt.opts...)
			d, err := graphics.Create(graphics.WithBackend(register(t, b)), graphics.WithValidation(tt.mode))
			if err != nil {
				t.Fatalf("Create() error = %v", err)
			}
			defer d.Close()

			layer, gpu, synced := b.DebugState().State()
			if !layer {
				t.Error("debug layer not enabled")
			}
			if gpu != tt.gpu || synced != tt.gpu {
				t.Errorf("gpu validation = %v/%v, want %v", gpu, synced, tt.gpu)
			}

			iq := d.Native().(*Device).Messages()
			if iq == nil {
				t.Fatal("no info queue created")
			}
			f := iq.Filter()
			if len(f.AllowSeverities) != tt.severities {
				t.Errorf("allow list has %d severities, want %d", len(f.AllowSeverities), tt.severities)
			}
			if !iq.BreaksOn(graphics.SeverityCorruption) || !iq.BreaksOn(graphics.SeverityError) {
				t.Error("break on corruption/error not set")
			}
			if iq.Allows(graphics.SeverityWarning, graphics.MessageMapInvalidNullRange) {
				t.Error("denied message admitted")
			}
			if got := iq.Allows(graphics.SeverityInfo, 1); got != (tt.mode == graphics.ValidationVerbose) {
				t.Errorf("info admitted = %v in %v", got, tt.mode)
			}
		})
	}
}

func TestValidationWithoutDebugLayer(t *testing.T) {
	b := New(WithoutDebugLayer())
	d, err := graphics.Create(graphics.WithBackend(register(t, b)), graphics.WithValidation(graphics.ValidationEnabled))
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	defer d.Close()
	if d.Validation().DebugLayer {
		t.Error("DebugLayer reported without debug interface")
	}
}

func TestFilterFailureAbortsCreate(t *testing.T) {
	errFilter := errors.New("filter rejected")
	b := New(WithFilterError(errFilter))
	_, err := graphics.Create(graphics.WithBackend(register(t, b)), graphics.WithValidation(graphics.ValidationEnabled))

	var fe *graphics.ValidationFilterInstallError
	if !errors.As(err, &fe) || !errors.Is(err, errFilter) {
		t.Errorf("Create() error = %v, want *ValidationFilterInstallError wrapping %v", err, errFilter)
	}
}

func TestFenceCompletesAsynchronously(t *testing.T) {
	d, err := graphics.Create(graphics.WithBackend(graphics.BackendSoftware))
	if err != nil {
		t.Fatal(err)
	}
	defer d.Close()

	q := d.Queue().(*Queue)
	release := make(chan struct{})
	if err := q.Submit(func() { <-release }); err != nil {
		t.Fatal(err)
	}

	v, err := d.Fence().SignalNext(q)
	if err != nil {
		t.Fatal(err)
	}
	if d.Fence().CompletedValue() >= v {
		t.Fatal("fence completed before queued work ran")
	}

	done := make(chan error, 1)
	go func() { done <- d.WaitIdle(context.Background()) }()

	select {
	case err := <-done:
		t.Fatalf("WaitIdle() returned %v while work pending", err)
	case <-time.After(20 * time.Millisecond):
	}

	close(release)
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("WaitIdle() error = %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("WaitIdle() did not return")
	}
	if d.Fence().CompletedValue() < v+1 {
		t.Errorf("CompletedValue() = %d, want >= %d", d.Fence().CompletedValue(), v+1)
	}
}

func TestWaitIdleIdempotent(t *testing.T) {
	d, err := graphics.Create(graphics.WithBackend(graphics.BackendSoftware))
	if err != nil {
		t.Fatal(err)
	}
	defer d.Close()

	var last uint64
	for i := 0; i < 3; i++ {
		if err := d.WaitIdle(context.Background()); err != nil {
			t.Fatalf("WaitIdle() #%d error = %v", i+1, err)
		}
		v := d.Fence().CompletedValue()
		if v <= last {
			t.Errorf("fence went from %d to %d", last, v)
		}
		last = v
	}
}

func TestDeviceLost(t *testing.T) {
	d, err := graphics.Create(graphics.WithBackend(graphics.BackendSoftware), graphics.WithWaitTimeout(time.Second))
	if err != nil {
		t.Fatal(err)
	}
	d.Native().(*Device).Lose()

	if err := d.WaitIdle(context.Background()); !errors.Is(err, graphics.ErrDeviceLost) {
		t.Errorf("WaitIdle() error = %v, want %v", err, graphics.ErrDeviceLost)
	}
	if err := d.Close(); !errors.Is(err, graphics.ErrDeviceLost) {
		t.Errorf("Close() error = %v, want %v", err, graphics.ErrDeviceLost)
	}
}

func TestLiveObjectReport(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	d, err := graphics.Create(graphics.WithBackend(graphics.BackendSoftware), graphics.WithLogger(logger))
	if err != nil {
		t.Fatal(err)
	}
	if _, err := d.CreateTexture(graphics.TextureDescriptor{
		Label:  "leaked",
		Width:  4,
		Height: 4,
		Format: graphics.TextureFormatRGBA8Unorm,
		Usage:  graphics.TextureUsageSampled,
	}); err != nil {
		t.Fatal(err)
	}

	if err := d.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if !strings.Contains(buf.String(), `texture \"leaked\"`) {
		t.Errorf("leak report missing:\n%s", buf.String())
	}
}

func TestCleanCloseHasNoLiveObjects(t *testing.T) {
	d, err := graphics.Create(graphics.WithBackend(graphics.BackendSoftware))
	if err != nil {
		t.Fatal(err)
	}
	native := d.Native().(*Device)

	sc, err := d.CreateSwapChain(graphics.SurfaceSource{}, graphics.SwapChainDescriptor{Width: 4, Height: 4})
	if err != nil {
		t.Fatal(err)
	}
	buf, err := d.CreateBuffer(graphics.BufferDescriptor{Label: "vb", Size: 8, Usage: graphics.BufferUsageVertex}, []byte{1, 2})
	if err != nil {
		t.Fatal(err)
	}
	if got := buf.Native().(*Buffer).Bytes(); !bytes.Equal(got, []byte{1, 2, 0, 0, 0, 0, 0, 0}) {
		t.Errorf("buffer contents = %v", got)
	}

	sc.Close()
	buf.Release()
	if err := d.Close(); err != nil {
		t.Fatal(err)
	}
	if live := native.LiveObjects(); len(live) != 0 {
		t.Errorf("LiveObjects() = %v, want none", live)
	}
}

func TestSwapChainRing(t *testing.T) {
	d, err := graphics.Create(graphics.WithBackend(graphics.BackendSoftware))
	if err != nil {
		t.Fatal(err)
	}
	defer d.Close()

	sc, err := d.CreateSwapChain(graphics.SurfaceSource{}, graphics.SwapChainDescriptor{
		Width:       16,
		Height:      8,
		BufferCount: 3,
		PresentMode: graphics.PresentModeImmediate,
	})
	if err != nil {
		t.Fatal(err)
	}
	defer sc.Close()

	for i := 0; i < 4; i++ {
		if got := sc.CurrentBackBufferIndex(); got != i%3 {
			t.Errorf("frame %d index = %d, want %d", i, got, i%3)
		}
		bb, err := sc.CurrentBackBuffer()
		if err != nil {
			t.Fatal(err)
		}
		bb.(*Texture).Fill([]byte{0xff, 0, 0, 0xff})
		if err := sc.Present(); err != nil {
			t.Fatal(err)
		}
	}

	if err := sc.Resize(32, 32); err != nil {
		t.Fatal(err)
	}
	bb, _ := sc.CurrentBackBuffer()
	if got := bb.(*Texture).Len(); got != 32*32*4 {
		t.Errorf("resized back buffer = %d bytes, want %d", got, 32*32*4)
	}
}

func TestTexturePixels(t *testing.T) {
	tex := newTexture(graphics.TextureDescriptor{
		Width:     4,
		Height:    2,
		MipLevels: 2,
		Format:    graphics.TextureFormatRGBA8Unorm,
	}, func() {})

	if got, want := tex.Len(), (4*2+2*1)*4; got != want {
		t.Errorf("Len() = %d, want %d", got, want)
	}
	tex.Fill([]byte{1, 2, 3, 4})
	if px := tex.Pixel(3, 1); !bytes.Equal(px, []byte{1, 2, 3, 4}) {
		t.Errorf("Pixel(3, 1) = %v", px)
	}
	if tex.Pixel(4, 0) != nil {
		t.Error("Pixel out of range returned data")
	}
}

func TestQueueReleaseDrains(t *testing.T) {
	d := newDevice(&Adapter{factory: &Factory{backend: New()}}, graphics.FeatureLevel120)
	nq, _ := d.CreateCommandQueue(graphics.CommandQueueCopy)
	q := nq.(*Queue)

	ran := 0
	for i := 0; i < 10; i++ {
		if err := q.Submit(func() { ran++ }); err != nil {
			t.Fatal(err)
		}
	}
	q.Release()
	if ran != 10 {
		t.Errorf("ran %d ops before release, want 10", ran)
	}
	if err := q.Submit(func() {}); !errors.Is(err, ErrReleased) {
		t.Errorf("Submit() after Release error = %v, want %v", err, ErrReleased)
	}
	q.Release()
}

func TestFenceWaitPolls(t *testing.T) {
	d := newDevice(&Adapter{factory: &Factory{backend: New()}}, graphics.FeatureLevel120)
	f := newFence(d, 3, func() {})

	if ok, err := f.Wait(3, 0); !ok || err != nil {
		t.Errorf("Wait(3, 0) = %v, %v", ok, err)
	}
	if ok, err := f.Wait(4, 0); ok || err != nil {
		t.Errorf("Wait(4, 0) = %v, %v, want false, nil", ok, err)
	}
	f.advance(2)
	if f.CompletedValue() != 3 {
		t.Errorf("fence moved backwards to %d", f.CompletedValue())
	}
	if ok, _ := f.Wait(10, 5*time.Millisecond); ok {
		t.Error("Wait(10) reached without signal")
	}
}
