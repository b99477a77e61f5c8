// Copyright 2026 The Vortice Authors
// SPDX-License-Identifier: BSD-3-Clause

package graphics

import (
	"fmt"
	"strings"
)

// PowerPreference orders adapter candidates during selection.
type PowerPreference uint8

const (
	// PowerPreferenceDefault keeps the platform's enumeration order.
	PowerPreferenceDefault PowerPreference = iota
	// PowerPreferenceLowPower prefers integrated adapters.
	PowerPreferenceLowPower
	// PowerPreferenceHighPerformance prefers discrete adapters.
	PowerPreferenceHighPerformance
)

// String returns the configuration name of the preference.
func (p PowerPreference) String() string {
	switch p {
	case PowerPreferenceDefault:
		return "default"
	case PowerPreferenceLowPower:
		return "low-power"
	case PowerPreferenceHighPerformance:
		return "high-performance"
	default:
		return fmt.Sprintf("PowerPreference(%d)", uint8(p))
	}
}

// ParsePowerPreference parses the names produced by PowerPreference.String.
func ParsePowerPreference(s string) (PowerPreference, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "default":
		return PowerPreferenceDefault, nil
	case "low-power", "lowpower":
		return PowerPreferenceLowPower, nil
	case "high-performance", "highperformance":
		return PowerPreferenceHighPerformance, nil
	}
	return PowerPreferenceDefault, fmt.Errorf("graphics: unknown power preference %q", s)
}

// ValidationMode selects how much of the native validation layer is enabled.
type ValidationMode uint8

const (
	// ValidationDisabled creates the device without any debug layer.
	ValidationDisabled ValidationMode = iota
	// ValidationEnabled enables the debug layer and a four-severity message filter.
	ValidationEnabled
	// ValidationGPU additionally requests GPU-based and synchronized queue validation.
	ValidationGPU
	// ValidationVerbose is ValidationEnabled plus informational messages.
	ValidationVerbose
)

// String returns the configuration name of the mode.
func (m ValidationMode) String() string {
	switch m {
	case ValidationDisabled:
		return "disabled"
	case ValidationEnabled:
		return "enabled"
	case ValidationGPU:
		return "gpu"
	case ValidationVerbose:
		return "verbose"
	default:
		return fmt.Sprintf("ValidationMode(%d)", uint8(m))
	}
}

// ParseValidationMode parses the names produced by ValidationMode.String.
func ParseValidationMode(s string) (ValidationMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "disabled", "off":
		return ValidationDisabled, nil
	case "enabled", "on":
		return ValidationEnabled, nil
	case "gpu":
		return ValidationGPU, nil
	case "verbose":
		return ValidationVerbose, nil
	}
	return ValidationDisabled, fmt.Errorf("graphics: unknown validation mode %q", s)
}

// FeatureLevel is a capability tier a device may be created at.
// Higher values are newer tiers.
type FeatureLevel uint32

// Feature levels, encoded as major<<12 | minor<<8.
const (
	FeatureLevel110 FeatureLevel = 0xb000
	FeatureLevel111 FeatureLevel = 0xb100
	FeatureLevel120 FeatureLevel = 0xc000
	FeatureLevel121 FeatureLevel = 0xc100
	FeatureLevel122 FeatureLevel = 0xc200
)

// featureLevels is the probe order used during adapter selection.
var featureLevels = []FeatureLevel{
	FeatureLevel122,
	FeatureLevel121,
	FeatureLevel120,
	FeatureLevel111,
	FeatureLevel110,
}

// FeatureLevels returns every known feature level, newest first.
func FeatureLevels() []FeatureLevel {
	out := make([]FeatureLevel, len(featureLevels))
	copy(out, featureLevels)
	return out
}

// Major returns the major version of the level.
func (l FeatureLevel) Major() int { return int(l>>12) & 0xf }

// Minor returns the minor version of the level.
func (l FeatureLevel) Minor() int { return int(l>>8) & 0xf }

func (l FeatureLevel) String() string {
	return fmt.Sprintf("%d.%d", l.Major(), l.Minor())
}

// VendorID is a PCI vendor identifier.
type VendorID uint32

// Known adapter vendors.
const (
	VendorAMD       VendorID = 0x1002
	VendorNVIDIA    VendorID = 0x10de
	VendorIntel     VendorID = 0x8086
	VendorARM       VendorID = 0x13b5
	VendorQualcomm  VendorID = 0x5143
	VendorMicrosoft VendorID = 0x1414
)

func (v VendorID) String() string {
	switch v {
	case VendorAMD:
		return "AMD"
	case VendorNVIDIA:
		return "NVIDIA"
	case VendorIntel:
		return "Intel"
	case VendorARM:
		return "ARM"
	case VendorQualcomm:
		return "Qualcomm"
	case VendorMicrosoft:
		return "Microsoft"
	default:
		return fmt.Sprintf("0x%04x", uint32(v))
	}
}

// AdapterType classifies the adapter a device was created on.
type AdapterType uint8

const (
	AdapterTypeOther AdapterType = iota
	AdapterTypeIntegratedGPU
	AdapterTypeDiscreteGPU
	AdapterTypeCPU
)

func (t AdapterType) String() string {
	switch t {
	case AdapterTypeIntegratedGPU:
		return "integrated"
	case AdapterTypeDiscreteGPU:
		return "discrete"
	case AdapterTypeCPU:
		return "cpu"
	default:
		return "other"
	}
}

// AdapterDescriptor is an immutable snapshot of an enumerated adapter.
type AdapterDescriptor struct {
	Name     string
	VendorID VendorID
	DeviceID uint32

	// Software marks basic-render or emulated adapters. They are never
	// selected for device creation.
	Software bool

	UnifiedMemory bool
	CacheCoherent bool
}

// CommandQueueType identifies a submission channel.
type CommandQueueType uint8

const (
	CommandQueueGraphics CommandQueueType = iota
	CommandQueueCompute
	CommandQueueCopy
)

func (t CommandQueueType) String() string {
	switch t {
	case CommandQueueGraphics:
		return "Graphics"
	case CommandQueueCompute:
		return "Compute"
	case CommandQueueCopy:
		return "Copy"
	default:
		return fmt.Sprintf("CommandQueueType(%d)", uint8(t))
	}
}

// TextureFormat is a pixel format.
type TextureFormat uint8

const (
	TextureFormatUndefined TextureFormat = iota
	TextureFormatRGBA8Unorm
	TextureFormatBGRA8Unorm
	TextureFormatRGBA16Float
	TextureFormatR32Float
	TextureFormatDepth32Float
	TextureFormatDepth24PlusStencil8
)

// BytesPerPixel returns the texel size, or 0 for TextureFormatUndefined.
func (f TextureFormat) BytesPerPixel() int {
	switch f {
	case TextureFormatRGBA8Unorm, TextureFormatBGRA8Unorm, TextureFormatR32Float,
		TextureFormatDepth32Float, TextureFormatDepth24PlusStencil8:
		return 4
	case TextureFormatRGBA16Float:
		return 8
	default:
		return 0
	}
}

// IsDepth reports whether the format carries depth.
func (f TextureFormat) IsDepth() bool {
	return f == TextureFormatDepth32Float || f == TextureFormatDepth24PlusStencil8
}

func (f TextureFormat) String() string {
	switch f {
	case TextureFormatRGBA8Unorm:
		return "RGBA8Unorm"
	case TextureFormatBGRA8Unorm:
		return "BGRA8Unorm"
	case TextureFormatRGBA16Float:
		return "RGBA16Float"
	case TextureFormatR32Float:
		return "R32Float"
	case TextureFormatDepth32Float:
		return "Depth32Float"
	case TextureFormatDepth24PlusStencil8:
		return "Depth24PlusStencil8"
	default:
		return "Undefined"
	}
}

// PresentMode controls how a swap chain hands frames to the display.
type PresentMode uint8

const (
	// PresentModeFifo waits for vertical blank.
	PresentModeFifo PresentMode = iota
	// PresentModeImmediate presents without waiting and may tear.
	PresentModeImmediate
	// PresentModeMailbox replaces the queued frame without tearing.
	PresentModeMailbox
)

func (m PresentMode) String() string {
	switch m {
	case PresentModeFifo:
		return "fifo"
	case PresentModeImmediate:
		return "immediate"
	case PresentModeMailbox:
		return "mailbox"
	default:
		return fmt.Sprintf("PresentMode(%d)", uint8(m))
	}
}

// ParsePresentMode parses the names produced by PresentMode.String.
func ParsePresentMode(s string) (PresentMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "fifo", "vsync":
		return PresentModeFifo, nil
	case "immediate":
		return PresentModeImmediate, nil
	case "mailbox":
		return PresentModeMailbox, nil
	}
	return PresentModeFifo, fmt.Errorf("graphics: unknown present mode %q", s)
}

// SurfaceSource identifies the platform drawable a swap chain binds to.
type SurfaceSource struct {
	// Display is the platform display connection, if any.
	Display uintptr
	// Handle is the native window or layer handle.
	Handle uintptr
	// Window is the platform library's window object, for backends that
	// bind through it rather than raw handles.
	Window any
}
