// Copyright 2026 The Vortice Authors
// SPDX-License-Identifier: BSD-3-Clause

package graphics

import (
	"fmt"
	"log/slog"
)

// MessageSeverity is the severity of a validation message.
type MessageSeverity uint8

const (
	SeverityCorruption MessageSeverity = iota
	SeverityError
	SeverityWarning
	SeverityInfo
	SeverityMessage
)

func (s MessageSeverity) String() string {
	switch s {
	case SeverityCorruption:
		return "corruption"
	case SeverityError:
		return "error"
	case SeverityWarning:
		return "warning"
	case SeverityInfo:
		return "info"
	case SeverityMessage:
		return "message"
	default:
		return fmt.Sprintf("MessageSeverity(%d)", uint8(s))
	}
}

// MessageID identifies a validation message.
type MessageID uint32

// Validation messages that fire for legitimate engine usage.
const (
	MessageClearRenderTargetViewMismatchingClearValue MessageID = 820
	MessageClearDepthStencilViewMismatchingClearValue MessageID = 821
	MessageMapInvalidNullRange                        MessageID = 1008
	MessageUnmapInvalidNullRange                      MessageID = 1009
	MessageExecuteCommandListsWrongSwapChainBuffer    MessageID = 1166
	MessageResourceBarrierMismatchingCommandListType  MessageID = 1178
)

// InfoQueueFilter is an allow/deny filter for validation messages.
type InfoQueueFilter struct {
	AllowSeverities []MessageSeverity
	DenyIDs         []MessageID
}

// MessageFilter returns the storage filter installed for mode. Verbose
// additionally lets informational messages through.
func MessageFilter(mode ValidationMode) InfoQueueFilter {
	f := InfoQueueFilter{
		AllowSeverities: []MessageSeverity{
			SeverityCorruption,
			SeverityError,
			SeverityWarning,
			SeverityMessage,
		},
		DenyIDs: []MessageID{
			MessageClearRenderTargetViewMismatchingClearValue,
			MessageClearDepthStencilViewMismatchingClearValue,
			MessageMapInvalidNullRange,
			MessageUnmapInvalidNullRange,
			MessageExecuteCommandListsWrongSwapChainBuffer,
			MessageResourceBarrierMismatchingCommandListType,
		},
	}
	if mode == ValidationVerbose {
		f.AllowSeverities = append(f.AllowSeverities, SeverityInfo)
	}
	return f
}

// ValidationReport describes what the validation layer turned on.
type ValidationReport struct {
	Mode               ValidationMode
	DebugLayer         bool
	GPUBasedValidation bool
	FilterInstalled    bool
}

// ConfigureDebugLayer enables the backend validation layer before device
// creation. A backend without a debug interface only produces a warning.
// In ValidationGPU mode the extended interface is used when present.
func ConfigureDebugLayer(b Backend, mode ValidationMode, logger *slog.Logger) ValidationReport {
	r := ValidationReport{Mode: mode}
	if mode == ValidationDisabled {
		return r
	}

	dp, ok := b.(DebugProvider)
	if !ok {
		logger.Warn("graphics: debug device not available", "backend", b.Name())
		return r
	}
	dbg, err := dp.DebugInterface()
	if err != nil || dbg == nil {
		logger.Warn("graphics: debug device not available", "backend", b.Name(), "err", err)
		return r
	}

	dbg.EnableDebugLayer()
	r.DebugLayer = true

	if mode == ValidationGPU {
		if ext, ok := dbg.(GPUValidationDebug); ok {
			ext.SetEnableGPUBasedValidation(true)
			ext.SetEnableSynchronizedCommandQueueValidation(true)
			r.GPUBasedValidation = true
		} else {
			logger.Info("graphics: GPU-based validation not supported", "backend", b.Name())
		}
	}

	logger.Debug("graphics: debug layer enabled", "mode", mode, "gpu", r.GPUBasedValidation)
	return r
}

// InstallMessageFilter configures the info queue of a device created with
// validation. Devices without an info queue are left untouched. Any failure
// after the info queue is obtained is returned as a
// *ValidationFilterInstallError.
func InstallMessageFilter(device NativeDevice, mode ValidationMode, logger *slog.Logger) (bool, error) {
	if mode == ValidationDisabled {
		return false, nil
	}
	p, ok := device.(InfoQueueProvider)
	if !ok {
		logger.Debug("graphics: device has no info queue")
		return false, nil
	}
	iq, err := p.InfoQueue()
	if err != nil || iq == nil {
		logger.Warn("graphics: info queue not available", "err", err)
		return false, nil
	}
	defer iq.Release()

	for _, s := range []MessageSeverity{SeverityCorruption, SeverityError} {
		if err := iq.SetBreakOnSeverity(s, true); err != nil {
			return false, &ValidationFilterInstallError{Err: fmt.Errorf("break on %s: %w", s, err)}
		}
	}
	if err := iq.PushEmptyStorageFilter(); err != nil {
		return false, &ValidationFilterInstallError{Err: fmt.Errorf("push empty storage filter: %w", err)}
	}
	f := MessageFilter(mode)
	if err := iq.AddStorageFilterEntries(f); err != nil {
		return false, &ValidationFilterInstallError{Err: err}
	}

	logger.Debug("graphics: validation filter installed",
		"severities", len(f.AllowSeverities), "denied", len(f.DenyIDs))
	return true, nil
}
