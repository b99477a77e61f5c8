// Copyright 2026 The Vortice Authors
// SPDX-License-Identifier: BSD-3-Clause

package graphics

import (
	"log/slog"
	"time"
)

// DefaultWaitTimeout bounds WaitIdle unless WithWaitTimeout overrides it.
const DefaultWaitTimeout = 5 * time.Second

// Option configures Create.
//
// Example:
//
//	dev, err := graphics.Create(
//		graphics.WithValidation(graphics.ValidationEnabled),
//		graphics.WithPowerPreference(graphics.PowerPreferenceHighPerformance),
//	)
type Option func(*options)

type options struct {
	backend     string
	validation  ValidationMode
	preference  PowerPreference
	levels      []FeatureLevel
	waitTimeout time.Duration
	name        string
	logger      *slog.Logger
}

func defaultOptions() options {
	return options{
		preference:  PowerPreferenceHighPerformance,
		waitTimeout: DefaultWaitTimeout,
		name:        "VorticeDevice",
	}
}

// WithBackend selects a registered backend by name. The empty name picks
// the highest-priority supported backend.
func WithBackend(name string) Option {
	return func(o *options) {
		o.backend = name
	}
}

// WithValidation sets the validation mode.
func WithValidation(mode ValidationMode) Option {
	return func(o *options) {
		o.validation = mode
	}
}

// WithPowerPreference sets the adapter ordering policy.
func WithPowerPreference(p PowerPreference) Option {
	return func(o *options) {
		o.preference = p
	}
}

// WithFeatureLevels restricts the feature levels tried during selection,
// in the order given.
func WithFeatureLevels(levels ...FeatureLevel) Option {
	return func(o *options) {
		o.levels = append([]FeatureLevel(nil), levels...)
	}
}

// WithWaitTimeout bounds WaitIdle. Zero waits without bound.
func WithWaitTimeout(d time.Duration) Option {
	return func(o *options) {
		if d >= 0 {
			o.waitTimeout = d
		}
	}
}

// WithName sets the debug name of the native device.
func WithName(name string) Option {
	return func(o *options) {
		o.name = name
	}
}

// WithLogger sets a logger for this device only. Without it the package
// logger is used.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		o.logger = l
	}
}
