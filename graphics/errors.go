// Copyright 2026 The Vortice Authors
// SPDX-License-Identifier: BSD-3-Clause

package graphics

import (
	"errors"
	"fmt"
)

// Common graphics errors.
var (
	// ErrNoCompatibleAdapter is returned when no hardware adapter supports
	// any of the requested feature levels.
	ErrNoCompatibleAdapter = errors.New("graphics: no compatible adapter found")

	// ErrDeviceLost is returned when the native device stops answering
	// fence waits.
	ErrDeviceLost = errors.New("graphics: device lost")

	// ErrDeviceClosed is returned by operations on a closed Device.
	ErrDeviceClosed = errors.New("graphics: device closed")

	// ErrBackendNotAvailable is returned when the requested backend is not
	// registered or not supported on this machine.
	ErrBackendNotAvailable = errors.New("graphics: backend not available")

	// ErrInvalidDescriptor is returned for malformed resource descriptors.
	ErrInvalidDescriptor = errors.New("graphics: invalid descriptor")
)

// Stage names the step of device construction that failed.
type Stage string

// Device construction stages, in execution order.
const (
	StageValidation Stage = "validation"
	StageFactory    Stage = "factory"
	StageAdapter    Stage = "adapter"
	StageFilter     Stage = "validation filter"
	StageQueue      Stage = "command queue"
	StageFence      Stage = "fence"
)

// DeviceCreationError reports a failed Create.
type DeviceCreationError struct {
	Stage Stage
	Err   error
}

func (e *DeviceCreationError) Error() string {
	return fmt.Sprintf("graphics: create device: %s: %v", e.Stage, e.Err)
}

func (e *DeviceCreationError) Unwrap() error { return e.Err }

// ValidationFilterInstallError reports that the validation message filter
// could not be installed on a device created with validation enabled.
type ValidationFilterInstallError struct {
	Err error
}

func (e *ValidationFilterInstallError) Error() string {
	return fmt.Sprintf("graphics: install validation filter: %v", e.Err)
}

func (e *ValidationFilterInstallError) Unwrap() error { return e.Err }
