// Copyright 2026 The Vortice Authors
// SPDX-License-Identifier: BSD-3-Clause

package graphics

import "fmt"

// DefaultBackBufferCount is the swap chain ring size used when a
// descriptor leaves BufferCount at zero.
const DefaultBackBufferCount = 2

// SwapChainDescriptor describes a swap chain.
type SwapChainDescriptor struct {
	Width       int
	Height      int
	Format      TextureFormat
	PresentMode PresentMode
	Fullscreen  bool

	// BufferCount is the back-buffer ring size. Zero means
	// DefaultBackBufferCount.
	BufferCount int
}

func (d SwapChainDescriptor) normalize() (SwapChainDescriptor, error) {
	if d.Width <= 0 || d.Height <= 0 {
		return d, fmt.Errorf("%w: swap chain size %dx%d", ErrInvalidDescriptor, d.Width, d.Height)
	}
	if d.Format == TextureFormatUndefined {
		d.Format = TextureFormatBGRA8Unorm
	}
	if d.Format.IsDepth() {
		return d, fmt.Errorf("%w: swap chain format %s", ErrInvalidDescriptor, d.Format)
	}
	if d.BufferCount == 0 {
		d.BufferCount = DefaultBackBufferCount
	}
	if d.BufferCount < 1 || d.BufferCount > 16 {
		return d, fmt.Errorf("%w: swap chain buffer count %d", ErrInvalidDescriptor, d.BufferCount)
	}
	return d, nil
}

// TextureUsage is a set of texture usage flags.
type TextureUsage uint32

const (
	TextureUsageCopySrc TextureUsage = 1 << iota
	TextureUsageCopyDst
	TextureUsageSampled
	TextureUsageStorage
	TextureUsageRenderTarget
)

// TextureDescriptor describes a 2D texture.
type TextureDescriptor struct {
	Label       string
	Width       int
	Height      int
	ArrayLayers int
	MipLevels   int
	SampleCount int
	Format      TextureFormat
	Usage       TextureUsage
}

func (d TextureDescriptor) normalize(limits Limits) (TextureDescriptor, error) {
	if d.Width <= 0 || d.Height <= 0 {
		return d, fmt.Errorf("%w: texture size %dx%d", ErrInvalidDescriptor, d.Width, d.Height)
	}
	if maxDim := int(limits.MaxTextureDimension2D); maxDim > 0 && (d.Width > maxDim || d.Height > maxDim) {
		return d, fmt.Errorf("%w: texture size %dx%d exceeds %d", ErrInvalidDescriptor, d.Width, d.Height, maxDim)
	}
	if d.Format == TextureFormatUndefined {
		return d, fmt.Errorf("%w: texture format undefined", ErrInvalidDescriptor)
	}
	if d.Usage == 0 {
		return d, fmt.Errorf("%w: texture usage empty", ErrInvalidDescriptor)
	}
	if d.ArrayLayers == 0 {
		d.ArrayLayers = 1
	}
	if d.MipLevels == 0 {
		d.MipLevels = 1
	}
	if d.SampleCount == 0 {
		d.SampleCount = 1
	}
	return d, nil
}

// BufferUsage is a set of buffer usage flags.
type BufferUsage uint32

const (
	BufferUsageCopySrc BufferUsage = 1 << iota
	BufferUsageCopyDst
	BufferUsageVertex
	BufferUsageIndex
	BufferUsageUniform
	BufferUsageStorage
	BufferUsageIndirect
)

// BufferDescriptor describes a linear buffer.
type BufferDescriptor struct {
	Label string
	Size  uint64
	Usage BufferUsage
}

func (d BufferDescriptor) validate(data []byte) error {
	if d.Size == 0 {
		return fmt.Errorf("%w: buffer size 0", ErrInvalidDescriptor)
	}
	if d.Usage == 0 {
		return fmt.Errorf("%w: buffer usage empty", ErrInvalidDescriptor)
	}
	if uint64(len(data)) > d.Size {
		return fmt.Errorf("%w: initial data %d bytes exceeds buffer size %d", ErrInvalidDescriptor, len(data), d.Size)
	}
	return nil
}
