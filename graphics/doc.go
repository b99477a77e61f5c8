// Copyright 2026 The Vortice Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package graphics is the backend-neutral graphics core of vortice.
//
// A native graphics API is bound by implementing Backend and the object
// interfaces it hands out (Factory, Adapter, NativeDevice, NativeQueue,
// NativeFence, NativeSwapChain). Optional native features are additional
// interfaces probed with type assertions, so a backend implements only what
// its API offers.
//
// # Device creation
//
// Create runs a fixed sequence:
//
//  1. Enable the validation layer when requested (ConfigureDebugLayer).
//  2. Create the factory, flagged for debug when validating.
//  3. Select the first hardware adapter that accepts a feature level,
//     trying 12.2, 12.1, 12.0, 11.1 and 11.0 in that order (SelectAdapter).
//  4. Install the validation message filter (InstallMessageFilter).
//  5. Probe capabilities (Probe).
//  6. Create the graphics queue and the idle fence.
//
// # Synchronization
//
// Each Device owns one Fence. WaitIdle signals the fence to its next value
// on the graphics queue and blocks until the device reaches it. Fence values
// only ever increase.
//
// # Backends
//
// Backends register with Register, usually from an init function:
//
//	import _ "github.com/Sina-Ebrahimi/vortice/backend/software"
//
// Without WithBackend, Create uses the first supported backend in priority
// order: native, then software.
package graphics
