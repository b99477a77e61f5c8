// Copyright 2026 The Vortice Authors
// SPDX-License-Identifier: BSD-3-Clause

package native

import "errors"

var (
	// ErrNoHALBackend is returned when the HAL has no Vulkan backend.
	ErrNoHALBackend = errors.New("native: vulkan HAL backend not registered")

	// ErrUnsupportedLevel is returned by Adapter.CreateDevice for feature
	// levels above what the HAL core feature set provides.
	ErrUnsupportedLevel = errors.New("native: feature level not supported")

	// ErrUnsupportedQueue is returned for queue types other than graphics.
	ErrUnsupportedQueue = errors.New("native: only the graphics queue is available")

	// ErrForeignObject is returned when an object from another backend is
	// passed to this one.
	ErrForeignObject = errors.New("native: object does not belong to this backend")

	// ErrUnsupportedFormat is returned for formats without a HAL mapping.
	ErrUnsupportedFormat = errors.New("native: texture format not supported")
)
