// Copyright 2026 The Vortice Authors
// SPDX-License-Identifier: BSD-3-Clause

package graphics

import (
	"context"
	"fmt"
	"sync"
)

// SwapChain is a ring of back buffers bound to a platform surface.
// It must be closed before the Device that created it.
type SwapChain struct {
	device  *Device
	surface SurfaceSource
	native  NativeSwapChain
	desc    SwapChainDescriptor

	presents uint64

	closeOnce sync.Once
}

// CreateSwapChain creates a swap chain for surface on the graphics queue.
// Zero Format and BufferCount take BGRA8Unorm and DefaultBackBufferCount.
func (d *Device) CreateSwapChain(surface SurfaceSource, desc SwapChainDescriptor) (*SwapChain, error) {
	if d.closed.Load() {
		return nil, ErrDeviceClosed
	}
	desc, err := desc.normalize()
	if err != nil {
		return nil, err
	}
	if desc.PresentMode == PresentModeImmediate && !d.tearing {
		d.logger.Debug("graphics: tearing unsupported, presenting with fifo")
		desc.PresentMode = PresentModeFifo
	}

	native, err := d.native.CreateSwapChain(surface, desc, d.queue)
	if err != nil {
		return nil, fmt.Errorf("graphics: create swap chain: %w", err)
	}
	d.logger.Debug("graphics: swap chain created",
		"width", desc.Width, "height", desc.Height,
		"format", desc.Format, "buffers", desc.BufferCount, "present", desc.PresentMode)
	return &SwapChain{device: d, surface: surface, native: native, desc: desc}, nil
}

// Descriptor returns the current swap chain descriptor.
func (s *SwapChain) Descriptor() SwapChainDescriptor { return s.desc }

// Size returns the back-buffer size.
func (s *SwapChain) Size() (width, height int) { return s.desc.Width, s.desc.Height }

// Format returns the back-buffer colour format.
func (s *SwapChain) Format() TextureFormat { return s.desc.Format }

// PresentMode returns the effective present mode.
func (s *SwapChain) PresentMode() PresentMode { return s.desc.PresentMode }

// Fullscreen reports whether the swap chain was created fullscreen.
func (s *SwapChain) Fullscreen() bool { return s.desc.Fullscreen }

// BackBufferCount returns the ring size.
func (s *SwapChain) BackBufferCount() int { return s.native.BackBufferCount() }

// CurrentBackBufferIndex returns the index of the buffer to render into.
func (s *SwapChain) CurrentBackBufferIndex() int { return s.native.CurrentBackBufferIndex() }

// CurrentBackBuffer returns the buffer to render into.
func (s *SwapChain) CurrentBackBuffer() (NativeResource, error) {
	return s.native.BackBuffer(s.native.CurrentBackBufferIndex())
}

// PresentCount returns the number of successful presents.
func (s *SwapChain) PresentCount() uint64 { return s.presents }

// Present hands the current back buffer to the display.
func (s *SwapChain) Present() error {
	interval := 1
	if s.desc.PresentMode != PresentModeFifo {
		interval = 0
	}
	if err := s.native.Present(interval); err != nil {
		return fmt.Errorf("graphics: present: %w", err)
	}
	s.presents++
	return nil
}

// Resize waits for the device to go idle and resizes the back buffers.
// Resizing to the current size is a no-op.
func (s *SwapChain) Resize(width, height int) error {
	if width <= 0 || height <= 0 {
		return fmt.Errorf("%w: swap chain size %dx%d", ErrInvalidDescriptor, width, height)
	}
	if width == s.desc.Width && height == s.desc.Height {
		return nil
	}
	if err := s.device.WaitIdle(context.Background()); err != nil {
		return err
	}
	if err := s.native.ResizeBuffers(width, height); err != nil {
		return fmt.Errorf("graphics: resize swap chain: %w", err)
	}
	s.desc.Width, s.desc.Height = width, height
	return nil
}

// Close releases the swap chain. Later calls are no-ops.
func (s *SwapChain) Close() {
	s.closeOnce.Do(func() {
		s.native.Release()
	})
}
