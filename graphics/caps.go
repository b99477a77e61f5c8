// Copyright 2026 The Vortice Authors
// SPDX-License-Identifier: BSD-3-Clause

package graphics

import (
	"log/slog"

	"github.com/Sina-Ebrahimi/vortice/internal/logging"
)

// Features is the set of optional capabilities of a device.
type Features struct {
	IndependentBlend       bool
	ComputeShader          bool
	TessellationShader     bool
	MultiViewport          bool
	IndexUint32            bool
	MultiDrawIndirect      bool
	FillModeNonSolid       bool
	SamplerAnisotropy      bool
	TextureCompressionETC2 bool
	TextureCompressionASTC bool
	TextureCompressionBC   bool
	TextureCubeArray       bool
	Raytracing             bool
	WaveOps                bool
	RenderPass             bool
}

// Limits holds the numeric limits of a device.
type Limits struct {
	MaxVertexAttributes             uint32
	MaxVertexBindings               uint32
	MaxVertexAttributeOffset        uint32
	MaxVertexBindingStride          uint32
	MaxTextureDimension1D           uint32
	MaxTextureDimension2D           uint32
	MaxTextureDimension3D           uint32
	MaxTextureDimensionCube         uint32
	MaxTextureArrayLayers           uint32
	MaxColorAttachments             uint32
	MaxUniformBufferRange           uint32
	MaxStorageBufferRange           uint32
	MinUniformBufferOffsetAlignment uint64
	MinStorageBufferOffsetAlignment uint64
	MaxSamplerAnisotropy            uint32
	MaxViewports                    uint32
	MaxViewportWidth                uint32
	MaxViewportHeight               uint32
	MaxTessellationPatchSize        uint32
	MaxComputeSharedMemorySize      uint32
	MaxComputeWorkGroupCountX       uint32
	MaxComputeWorkGroupCountY       uint32
	MaxComputeWorkGroupCountZ       uint32
	MaxComputeWorkGroupInvocations  uint32
	MaxComputeWorkGroupSizeX        uint32
	MaxComputeWorkGroupSizeY        uint32
	MaxComputeWorkGroupSizeZ        uint32
}

// Capabilities is the probed capability record of a device.
// It is computed once at device creation and never changes.
type Capabilities struct {
	AdapterType   AdapterType
	VendorID      VendorID
	DeviceID      uint32
	CacheCoherent bool
	Features      Features
	Limits        Limits
}

// Render pass and raytracing tier thresholds.
const (
	renderPassTier1 = 1
	raytracingTier1 = 10
)

// DefaultLimits returns the static platform limits used for every value a
// device cannot report dynamically.
func DefaultLimits() Limits {
	return Limits{
		MaxVertexAttributes:             16,
		MaxVertexBindings:               16,
		MaxVertexAttributeOffset:        2047,
		MaxVertexBindingStride:          2048,
		MaxTextureDimension1D:           16384,
		MaxTextureDimension2D:           16384,
		MaxTextureDimension3D:           2048,
		MaxTextureDimensionCube:         16384,
		MaxTextureArrayLayers:           2048,
		MaxColorAttachments:             8,
		MaxUniformBufferRange:           4096 * 16,
		MaxStorageBufferRange:           ^uint32(0),
		MinUniformBufferOffsetAlignment: 256,
		MinStorageBufferOffsetAlignment: 16,
		MaxSamplerAnisotropy:            16,
		MaxViewports:                    16,
		MaxViewportWidth:                32767,
		MaxViewportHeight:               32767,
		MaxTessellationPatchSize:        32,
		MaxComputeSharedMemorySize:      16384,
		MaxComputeWorkGroupCountX:       65535,
		MaxComputeWorkGroupCountY:       65535,
		MaxComputeWorkGroupCountZ:       65535,
		MaxComputeWorkGroupInvocations:  1024,
		MaxComputeWorkGroupSizeX:        1024,
		MaxComputeWorkGroupSizeY:        1024,
		MaxComputeWorkGroupSizeZ:        64,
	}
}

// Probe builds the capability record for a device created on adapter.
// Optional queries the device does not implement, or that fail, leave the
// corresponding values at their disabled or static defaults. Probe never
// mutates the device. A nil logger uses the package logger.
func Probe(adapter AdapterDescriptor, device NativeDevice, logger *slog.Logger) Capabilities {
	logger = logging.Or(logger)
	caps := Capabilities{
		VendorID: adapter.VendorID,
		DeviceID: adapter.DeviceID,
		Features: Features{
			IndependentBlend:     true,
			ComputeShader:        true,
			TessellationShader:   true,
			MultiViewport:        true,
			IndexUint32:          true,
			MultiDrawIndirect:    true,
			FillModeNonSolid:     true,
			SamplerAnisotropy:    true,
			TextureCompressionBC: true,
			TextureCubeArray:     true,
		},
		Limits: DefaultLimits(),
	}

	switch {
	case adapter.Software:
		caps.AdapterType = AdapterTypeCPU
	default:
		arch, ok := queryArchitecture(adapter, device, logger)
		if arch.UMA {
			caps.AdapterType = AdapterTypeIntegratedGPU
		} else {
			caps.AdapterType = AdapterTypeDiscreteGPU
		}
		if ok {
			caps.CacheCoherent = arch.CacheCoherent
		}
	}

	if q, ok := device.(OptionsQuerier); ok {
		opts, err := q.Options()
		if err != nil {
			logger.Warn("graphics: options query failed", "err", err)
		} else {
			caps.Features.Raytracing = opts.RaytracingTier >= raytracingTier1
			caps.Features.WaveOps = opts.WaveOps
			caps.Features.RenderPass = opts.RenderPassTier > renderPassTier1 && adapter.VendorID != VendorIntel
		}
	}

	if q, ok := device.(LimitsQuerier); ok {
		dyn, err := q.QueryLimits()
		if err != nil {
			logger.Warn("graphics: limits query failed", "err", err)
		} else {
			caps.Limits = mergeLimits(caps.Limits, dyn)
		}
	}

	return caps
}

// queryArchitecture falls back to the adapter's own memory flags when the
// device cannot answer.
func queryArchitecture(adapter AdapterDescriptor, device NativeDevice, logger *slog.Logger) (Architecture, bool) {
	fallback := Architecture{UMA: adapter.UnifiedMemory, CacheCoherent: adapter.CacheCoherent}
	q, ok := device.(ArchitectureQuerier)
	if !ok {
		return fallback, true
	}
	arch, err := q.Architecture()
	if err != nil {
		logger.Warn("graphics: architecture query failed", "err", err)
		return Architecture{UMA: adapter.UnifiedMemory}, false
	}
	return arch, true
}

// mergeLimits overrides base with every non-zero field of dyn.
func mergeLimits(base, dyn Limits) Limits {
	set32 := func(dst *uint32, v uint32) {
		if v != 0 {
			*dst = v
		}
	}
	set64 := func(dst *uint64, v uint64) {
		if v != 0 {
			*dst = v
		}
	}
	set32(&base.MaxVertexAttributes, dyn.MaxVertexAttributes)
	set32(&base.MaxVertexBindings, dyn.MaxVertexBindings)
	set32(&base.MaxVertexAttributeOffset, dyn.MaxVertexAttributeOffset)
	set32(&base.MaxVertexBindingStride, dyn.MaxVertexBindingStride)
	set32(&base.MaxTextureDimension1D, dyn.MaxTextureDimension1D)
	set32(&base.MaxTextureDimension2D, dyn.MaxTextureDimension2D)
	set32(&base.MaxTextureDimension3D, dyn.MaxTextureDimension3D)
	set32(&base.MaxTextureDimensionCube, dyn.MaxTextureDimensionCube)
	set32(&base.MaxTextureArrayLayers, dyn.MaxTextureArrayLayers)
	set32(&base.MaxColorAttachments, dyn.MaxColorAttachments)
	set32(&base.MaxUniformBufferRange, dyn.MaxUniformBufferRange)
	set32(&base.MaxStorageBufferRange, dyn.MaxStorageBufferRange)
	set64(&base.MinUniformBufferOffsetAlignment, dyn.MinUniformBufferOffsetAlignment)
	set64(&base.MinStorageBufferOffsetAlignment, dyn.MinStorageBufferOffsetAlignment)
	set32(&base.MaxSamplerAnisotropy, dyn.MaxSamplerAnisotropy)
	set32(&base.MaxViewports, dyn.MaxViewports)
	set32(&base.MaxViewportWidth, dyn.MaxViewportWidth)
	set32(&base.MaxViewportHeight, dyn.MaxViewportHeight)
	set32(&base.MaxTessellationPatchSize, dyn.MaxTessellationPatchSize)
	set32(&base.MaxComputeSharedMemorySize, dyn.MaxComputeSharedMemorySize)
	set32(&base.MaxComputeWorkGroupCountX, dyn.MaxComputeWorkGroupCountX)
	set32(&base.MaxComputeWorkGroupCountY, dyn.MaxComputeWorkGroupCountY)
	set32(&base.MaxComputeWorkGroupCountZ, dyn.MaxComputeWorkGroupCountZ)
	set32(&base.MaxComputeWorkGroupInvocations, dyn.MaxComputeWorkGroupInvocations)
	set32(&base.MaxComputeWorkGroupSizeX, dyn.MaxComputeWorkGroupSizeX)
	set32(&base.MaxComputeWorkGroupSizeY, dyn.MaxComputeWorkGroupSizeY)
	set32(&base.MaxComputeWorkGroupSizeZ, dyn.MaxComputeWorkGroupSizeZ)
	return base
}
