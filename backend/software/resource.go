// Copyright 2026 The Vortice Authors
// SPDX-License-Identifier: BSD-3-Clause

package software

import (
	"sync"

	"github.com/Sina-Ebrahimi/vortice/graphics"
)

// Texture is a host memory texture.
type Texture struct {
	desc    graphics.TextureDescriptor
	untrack func()

	mu     sync.Mutex
	pixels []byte
}

func newTexture(desc graphics.TextureDescriptor, untrack func()) *Texture {
	return &Texture{
		desc:    desc,
		untrack: untrack,
		pixels:  make([]byte, textureSize(desc)),
	}
}

// textureSize returns the bytes needed for every layer and mip level.
func textureSize(desc graphics.TextureDescriptor) int {
	bpp := desc.Format.BytesPerPixel()
	layers := max(desc.ArrayLayers, 1)
	mips := max(desc.MipLevels, 1)
	samples := max(desc.SampleCount, 1)

	size := 0
	w, h := desc.Width, desc.Height
	for i := 0; i < mips; i++ {
		size += w * h * bpp
		w, h = max(w/2, 1), max(h/2, 1)
	}
	return size * layers * samples
}

// Descriptor returns the texture descriptor.
func (t *Texture) Descriptor() graphics.TextureDescriptor { return t.desc }

// Len returns the size of the backing memory in bytes.
func (t *Texture) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.pixels)
}

// Fill sets every byte of the first mip level of the first layer to the
// repeating pattern px.
func (t *Texture) Fill(px []byte) {
	if len(px) == 0 {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	n := t.desc.Width * t.desc.Height * t.desc.Format.BytesPerPixel()
	for i := 0; i < n && i < len(t.pixels); i++ {
		t.pixels[i] = px[i%len(px)]
	}
}

// Pixel returns the bytes of the texel at x, y in the first mip level, or
// nil when out of range.
func (t *Texture) Pixel(x, y int) []byte {
	t.mu.Lock()
	defer t.mu.Unlock()
	if x < 0 || y < 0 || x >= t.desc.Width || y >= t.desc.Height {
		return nil
	}
	bpp := t.desc.Format.BytesPerPixel()
	off := (y*t.desc.Width + x) * bpp
	out := make([]byte, bpp)
	copy(out, t.pixels[off:off+bpp])
	return out
}

// Release frees the texture.
func (t *Texture) Release() { t.untrack() }

// Buffer is a host memory buffer.
type Buffer struct {
	desc    graphics.BufferDescriptor
	untrack func()

	mu   sync.Mutex
	data []byte
}

func newBuffer(desc graphics.BufferDescriptor, initial []byte, untrack func()) *Buffer {
	data := make([]byte, desc.Size)
	copy(data, initial)
	return &Buffer{desc: desc, untrack: untrack, data: data}
}

// Descriptor returns the buffer descriptor.
func (b *Buffer) Descriptor() graphics.BufferDescriptor { return b.desc }

// Bytes returns a copy of the buffer contents.
func (b *Buffer) Bytes() []byte {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]byte, len(b.data))
	copy(out, b.data)
	return out
}

// Write copies data into the buffer at offset and returns the number of
// bytes written.
func (b *Buffer) Write(offset int, data []byte) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	if offset < 0 || offset >= len(b.data) {
		return 0
	}
	return copy(b.data[offset:], data)
}

// Release frees the buffer.
func (b *Buffer) Release() { b.untrack() }
