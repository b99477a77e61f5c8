// Copyright 2026 The Vortice Authors
// SPDX-License-Identifier: BSD-3-Clause

package vortice

import (
	"log/slog"

	"github.com/Sina-Ebrahimi/vortice/internal/logging"
)

// SetLogger configures the logger for vortice and all its sub-packages.
// By default, vortice produces no log output. Call SetLogger to enable
// logging.
//
// SetLogger is safe for concurrent use: it stores the new logger atomically.
// Pass nil to disable logging (restore default silent behavior).
//
// Log levels used by vortice:
//   - [slog.LevelDebug]: internal steps (feature level attempts, backend probes)
//   - [slog.LevelInfo]: lifecycle events (adapter selected, device created, run started)
//   - [slog.LevelWarn]: degraded features (no debug layer, null audio) and leak reports
//
// Example:
//
//	// Enable info-level logging to stderr:
//	vortice.SetLogger(slog.Default())
//
//	// Enable debug-level logging for full diagnostics:
//	vortice.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
//	    Level: slog.LevelDebug,
//	})))
func SetLogger(l *slog.Logger) {
	logging.SetLogger(l)
}

// Logger returns the current logger used by vortice.
// Sub-packages read the same logger through internal/logging, so a logger
// set here reaches graphics, the backends and the platforms.
//
// Logger is safe for concurrent use.
func Logger() *slog.Logger {
	return logging.Logger()
}
