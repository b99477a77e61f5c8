// Copyright 2026 The Vortice Authors
// SPDX-License-Identifier: BSD-3-Clause

package native

import (
	"fmt"
	"sync"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	"github.com/Sina-Ebrahimi/vortice/graphics"
)

var formats = map[graphics.TextureFormat]gputypes.TextureFormat{
	graphics.TextureFormatRGBA8Unorm:          gputypes.TextureFormatRGBA8Unorm,
	graphics.TextureFormatBGRA8Unorm:          gputypes.TextureFormatBGRA8Unorm,
	graphics.TextureFormatRGBA16Float:         gputypes.TextureFormatRGBA16Float,
	graphics.TextureFormatR32Float:            gputypes.TextureFormatR32Float,
	graphics.TextureFormatDepth32Float:        gputypes.TextureFormatDepth32Float,
	graphics.TextureFormatDepth24PlusStencil8: gputypes.TextureFormatDepth24PlusStencil8,
}

// halFormat maps a texture format to its HAL equivalent.
func halFormat(f graphics.TextureFormat) (gputypes.TextureFormat, error) {
	hf, ok := formats[f]
	if !ok {
		return gputypes.TextureFormatUndefined, fmt.Errorf("%w: %s", ErrUnsupportedFormat, f)
	}
	return hf, nil
}

func halTextureUsage(u graphics.TextureUsage) gputypes.TextureUsage {
	var out gputypes.TextureUsage
	if u&graphics.TextureUsageCopySrc != 0 {
		out |= gputypes.TextureUsageCopySrc
	}
	if u&graphics.TextureUsageCopyDst != 0 {
		out |= gputypes.TextureUsageCopyDst
	}
	if u&graphics.TextureUsageSampled != 0 {
		out |= gputypes.TextureUsageTextureBinding
	}
	if u&graphics.TextureUsageStorage != 0 {
		out |= gputypes.TextureUsageStorageBinding
	}
	if u&graphics.TextureUsageRenderTarget != 0 {
		out |= gputypes.TextureUsageRenderAttachment
	}
	return out
}

func halBufferUsage(u graphics.BufferUsage) gputypes.BufferUsage {
	var out gputypes.BufferUsage
	for _, m := range []struct {
		from graphics.BufferUsage
		to   gputypes.BufferUsage
	}{
		{graphics.BufferUsageCopySrc, gputypes.BufferUsageCopySrc},
		{graphics.BufferUsageCopyDst, gputypes.BufferUsageCopyDst},
		{graphics.BufferUsageVertex, gputypes.BufferUsageVertex},
		{graphics.BufferUsageIndex, gputypes.BufferUsageIndex},
		{graphics.BufferUsageUniform, gputypes.BufferUsageUniform},
		{graphics.BufferUsageStorage, gputypes.BufferUsageStorage},
		{graphics.BufferUsageIndirect, gputypes.BufferUsageIndirect},
	} {
		if u&m.from != 0 {
			out |= m.to
		}
	}
	return out
}

// Texture is a HAL texture.
type Texture struct {
	device  *Device
	texture hal.Texture
	desc    graphics.TextureDescriptor
	untrack func()
	once    sync.Once
}

// CreateTexture creates a 2D HAL texture.
func (d *Device) CreateTexture(desc graphics.TextureDescriptor) (graphics.NativeResource, error) {
	return d.createTexture(desc)
}

func (d *Device) createTexture(desc graphics.TextureDescriptor) (*Texture, error) {
	format, err := halFormat(desc.Format)
	if err != nil {
		return nil, err
	}
	t, err := d.device.CreateTexture(&hal.TextureDescriptor{
		Label: desc.Label,
		Size: hal.Extent3D{
			Width:              uint32(desc.Width),
			Height:             uint32(desc.Height),
			DepthOrArrayLayers: uint32(max(desc.ArrayLayers, 1)),
		},
		MipLevelCount: uint32(max(desc.MipLevels, 1)),
		SampleCount:   uint32(max(desc.SampleCount, 1)),
		Dimension:     gputypes.TextureDimension2D,
		Format:        format,
		Usage:         halTextureUsage(desc.Usage),
	})
	if err != nil {
		return nil, fmt.Errorf("native: create texture %q: %w", desc.Label, err)
	}
	return &Texture{device: d, texture: t, desc: desc, untrack: d.track("texture", desc.Label)}, nil
}

// Descriptor returns the texture descriptor.
func (t *Texture) Descriptor() graphics.TextureDescriptor { return t.desc }

// HalTexture returns the underlying HAL texture.
func (t *Texture) HalTexture() hal.Texture { return t.texture }

// Release destroys the HAL texture.
func (t *Texture) Release() {
	t.once.Do(func() {
		t.device.device.DestroyTexture(t.texture)
		t.untrack()
	})
}

// Buffer is a HAL buffer.
type Buffer struct {
	device  *Device
	buffer  hal.Buffer
	desc    graphics.BufferDescriptor
	untrack func()
	once    sync.Once
}

// CreateBuffer creates a HAL buffer and uploads data through the queue.
// Buffers with initial data get copy-destination usage added.
func (d *Device) CreateBuffer(desc graphics.BufferDescriptor, data []byte) (graphics.NativeResource, error) {
	usage := halBufferUsage(desc.Usage)
	if len(data) > 0 {
		usage |= gputypes.BufferUsageCopyDst
	}
	b, err := d.device.CreateBuffer(&hal.BufferDescriptor{
		Label: desc.Label,
		Size:  desc.Size,
		Usage: usage,
	})
	if err != nil {
		return nil, fmt.Errorf("native: create buffer %q: %w", desc.Label, err)
	}
	if len(data) > 0 {
		if err := d.queue.WriteBuffer(b, 0, data); err != nil {
			d.device.DestroyBuffer(b)
			return nil, fmt.Errorf("native: upload buffer %q: %w", desc.Label, err)
		}
	}
	return &Buffer{device: d, buffer: b, desc: desc, untrack: d.track("buffer", desc.Label)}, nil
}

// Descriptor returns the buffer descriptor.
func (b *Buffer) Descriptor() graphics.BufferDescriptor { return b.desc }

// HalBuffer returns the underlying HAL buffer.
func (b *Buffer) HalBuffer() hal.Buffer { return b.buffer }

// Release destroys the HAL buffer.
func (b *Buffer) Release() {
	b.once.Do(func() {
		b.device.device.DestroyBuffer(b.buffer)
		b.untrack()
	})
}

// SwapChain is a ring of off-screen HAL render targets.
type SwapChain struct {
	device  *Device
	surface graphics.SurfaceSource
	format  graphics.TextureFormat
	untrack func()

	mu       sync.Mutex
	buffers  []*Texture
	index    int
	presents uint64
}

// CreateSwapChain allocates the back-buffer ring. The queue must be one
// created by this device.
func (d *Device) CreateSwapChain(surface graphics.SurfaceSource, desc graphics.SwapChainDescriptor, queue graphics.NativeQueue) (graphics.NativeSwapChain, error) {
	if q, ok := queue.(*Queue); !ok || q.device != d {
		return nil, fmt.Errorf("%w: queue %T", ErrForeignObject, queue)
	}
	s := &SwapChain{device: d, surface: surface, format: desc.Format}
	if err := s.allocate(desc.Width, desc.Height, desc.BufferCount); err != nil {
		return nil, err
	}
	s.untrack = d.track("swap chain", "")
	return s, nil
}

func (s *SwapChain) allocate(w, h, count int) error {
	buffers := make([]*Texture, 0, count)
	for i := 0; i < count; i++ {
		t, err := s.device.createTexture(graphics.TextureDescriptor{
			Label:  fmt.Sprintf("back buffer %d", i),
			Width:  w,
			Height: h,
			Format: s.format,
			Usage:  graphics.TextureUsageRenderTarget | graphics.TextureUsageCopySrc,
		})
		if err != nil {
			for _, b := range buffers {
				b.Release()
			}
			return err
		}
		buffers = append(buffers, t)
	}
	s.releaseBuffers()
	s.buffers = buffers
	s.index = 0
	return nil
}

func (s *SwapChain) releaseBuffers() {
	for _, b := range s.buffers {
		b.Release()
	}
	s.buffers = nil
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
		return nil, fmt.Errorf("native: back buffer %d out of range [0, %d)", i, len(s.buffers))
	}
	return s.buffers[i], nil
}

// Present advances to the next back buffer.
func (s *SwapChain) Present(int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.presents++
	s.index = (s.index + 1) % len(s.buffers)
	return nil
}

// Presents returns the number of frames presented.
func (s *SwapChain) Presents() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.presents
}

// ResizeBuffers recreates the ring at the new size.
func (s *SwapChain) ResizeBuffers(width, height int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.allocate(width, height, len(s.buffers))
}

// Release destroys the back buffers.
func (s *SwapChain) Release() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.releaseBuffers()
	if s.untrack != nil {
		s.untrack()
	}
}
