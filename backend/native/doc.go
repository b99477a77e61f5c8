// Copyright 2026 The Vortice Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package native binds the graphics device interfaces to the gogpu/wgpu
// hardware abstraction layer.
//
// Importing the package registers the "native" backend, which drives Vulkan
// through hal/vulkan:
//
//	import _ "github.com/Sina-Ebrahimi/vortice/backend/native"
//
//	dev, err := graphics.Create(graphics.WithBackend(graphics.BackendNative))
//
// HAL adapters expose the WebGPU core feature set, which the backend reports
// as feature level 12.0. A device owns the single queue the HAL opens with
// it; only the graphics queue type is available. Fences track the
// submission index of each signal and complete when the queue reports that
// index done.
//
// Adapters of any type other than CPU are hardware candidates.
//
// Devices created by this backend can be shared with gogpu consumers through
// ProviderFor, which returns a gpucontext.DeviceProvider that also exposes
// the underlying hal.Device and hal.Queue.
//
// Swap chains are rendered into an off-screen ring of HAL textures; window
// presentation is left to the platform layer.
package native
