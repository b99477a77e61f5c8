// Copyright 2026 The Vortice Authors
// SPDX-License-Identifier: BSD-3-Clause

package software

import (
	"fmt"
	"sync"

	"github.com/Sina-Ebrahimi/vortice/graphics"
)

// SwapChain is an off-screen ring of back buffers.
type SwapChain struct {
	device  *Device
	surface graphics.SurfaceSource
	format  graphics.TextureFormat
	untrack func()

	mu       sync.Mutex
	buffers  []*Texture
	index    int
	presents []int
}

func newSwapChain(d *Device, surface graphics.SurfaceSource, desc graphics.SwapChainDescriptor, untrack func()) *SwapChain {
	s := &SwapChain{
		device:  d,
		surface: surface,
		format:  desc.Format,
		untrack: untrack,
	}
	s.allocate(desc.Width, desc.Height, desc.BufferCount)
	return s
}

func (s *SwapChain) allocate(w, h, count int) {
	s.buffers = make([]*Texture, count)
	for i := range s.buffers {
		s.buffers[i] = newTexture(graphics.TextureDescriptor{
			Label:  fmt.Sprintf("back buffer %d", i),
			Width:  w,
			Height: h,
			Format: s.format,
			Usage:  graphics.TextureUsageRenderTarget | graphics.TextureUsageCopySrc,
		}, func() {})
	}
	s.index = 0
}

// Surface returns the surface the swap chain was created for.
func (s *SwapChain) Surface() graphics.SurfaceSource { return s.surface }

// BackBufferCount returns the ring size.
func (s *SwapChain) BackBufferCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.buffers)
}

// CurrentBackBufferIndex returns the buffer to render into.
func (s *SwapChain) CurrentBackBufferIndex() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.index
}

// BackBuffer returns buffer i as a *Texture.
func (s *SwapChain) BackBuffer(i int) (graphics.NativeResource, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i < 0 || i >= len(s.buffers) {
		return nil, fmt.Errorf("software: back buffer %d out of range [0, %d)", i, len(s.buffers))
	}
	return s.buffers[i], nil
}

// Present rotates to the next back buffer.
func (s *SwapChain) Present(syncInterval int) error {
	if s.device.lost.Load() {
		return ErrDeviceRemoved
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.presents = append(s.presents, syncInterval)
	s.index = (s.index + 1) % len(s.buffers)
	return nil
}

// Presents returns the sync interval of every present so far.
func (s *SwapChain) Presents() []int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]int(nil), s.presents...)
}

// ResizeBuffers reallocates the ring at the new size.
func (s *SwapChain) ResizeBuffers(width, height int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.allocate(width, height, len(s.buffers))
	return nil
}

// Release frees the swap chain.
func (s *SwapChain) Release() { s.untrack() }
