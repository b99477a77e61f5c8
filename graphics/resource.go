// Copyright 2026 The Vortice Authors
// SPDX-License-Identifier: BSD-3-Clause

package graphics

import (
	"fmt"
	"sync"
)

// Texture is a device texture allocation.
type Texture struct {
	desc    TextureDescriptor
	native  NativeResource
	release sync.Once
}

// CreateTexture allocates a texture. Zero ArrayLayers, MipLevels and
// SampleCount default to 1.
func (d *Device) CreateTexture(desc TextureDescriptor) (*Texture, error) {
	if d.closed.Load() {
		return nil, ErrDeviceClosed
	}
	desc, err := desc.normalize(d.caps.Limits)
	if err != nil {
		return nil, err
	}
	native, err := d.native.CreateTexture(desc)
	if err != nil {
		return nil, fmt.Errorf("graphics: create texture %q: %w", desc.Label, err)
	}
	return &Texture{desc: desc, native: native}, nil
}

// Descriptor returns the normalized descriptor.
func (t *Texture) Descriptor() TextureDescriptor { return t.desc }

// Native returns the backend resource.
func (t *Texture) Native() NativeResource { return t.native }

// Release frees the texture. Later calls are no-ops.
func (t *Texture) Release() {
	t.release.Do(t.native.Release)
}

// Buffer is a device buffer allocation.
type Buffer struct {
	desc    BufferDescriptor
	native  NativeResource
	release sync.Once
}

// CreateBuffer allocates a buffer and uploads data, which may be shorter
// than the buffer or nil.
func (d *Device) CreateBuffer(desc BufferDescriptor, data []byte) (*Buffer, error) {
	if d.closed.Load() {
		return nil, ErrDeviceClosed
	}
	if err := desc.validate(data); err != nil {
		return nil, err
	}
	native, err := d.native.CreateBuffer(desc, data)
	if err != nil {
		return nil, fmt.Errorf("graphics: create buffer %q: %w", desc.Label, err)
	}
	return &Buffer{desc: desc, native: native}, nil
}

// Descriptor returns the buffer descriptor.
func (b *Buffer) Descriptor() BufferDescriptor { return b.desc }

// Size returns the buffer size in bytes.
func (b *Buffer) Size() uint64 { return b.desc.Size }

// Native returns the backend resource.
func (b *Buffer) Native() NativeResource { return b.native }

// Release frees the buffer. Later calls are no-ops.
func (b *Buffer) Release() {
	b.release.Do(b.native.Release)
}
