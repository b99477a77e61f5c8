// Copyright 2026 The Vortice Authors
// SPDX-License-Identifier: BSD-3-Clause

package graphics

import (
	"fmt"
	"log/slog"

	"github.com/Sina-Ebrahimi/vortice/internal/logging"
)

// SelectedAdapter is the outcome of a successful adapter selection.
// The caller owns Adapter and Device and must release both.
type SelectedAdapter struct {
	Adapter      Adapter
	Descriptor   AdapterDescriptor
	Device       NativeDevice
	FeatureLevel FeatureLevel
}

// Release releases the device and then the adapter.
func (s *SelectedAdapter) Release() {
	if s == nil {
		return
	}
	if s.Device != nil {
		s.Device.Release()
		s.Device = nil
	}
	if s.Adapter != nil {
		s.Adapter.Release()
		s.Adapter = nil
	}
}

// EnumerateAdapters returns the factory's adapters, pre-sorted by the
// platform when the factory supports preference-aware enumeration.
func EnumerateAdapters(f Factory, pref PowerPreference) ([]Adapter, error) {
	if pe, ok := f.(PreferenceEnumerator); ok {
		return pe.AdaptersByPreference(pref)
	}
	return f.Adapters()
}

// SelectAdapter picks the first hardware adapter that can create a device
// at one of levels, trying levels in the given order. Software adapters are
// never candidates. A nil levels slice uses FeatureLevels.
//
// Adapters that are not selected are released. When no adapter yields a
// device, the error wraps ErrNoCompatibleAdapter.
func SelectAdapter(f Factory, pref PowerPreference, levels []FeatureLevel, logger *slog.Logger) (*SelectedAdapter, error) {
	logger = logging.Or(logger)
	if levels == nil {
		levels = featureLevels
	}

	adapters, err := EnumerateAdapters(f, pref)
	if err != nil {
		return nil, fmt.Errorf("enumerate adapters: %w", err)
	}

	var selected *SelectedAdapter
	defer func() {
		for _, a := range adapters {
			if selected == nil || a != selected.Adapter {
				a.Release()
			}
		}
	}()

	for i, a := range adapters {
		desc, err := a.Descriptor()
		if err != nil {
			return nil, fmt.Errorf("adapter %d descriptor: %w", i, err)
		}
		if desc.Software {
			logger.Debug("graphics: skipping software adapter", "name", desc.Name)
			continue
		}

		for _, level := range levels {
			dev, err := a.CreateDevice(level)
			if err != nil {
				logger.Debug("graphics: feature level rejected",
					"adapter", desc.Name, "level", level, "err", err)
				continue
			}
			selected = &SelectedAdapter{
				Adapter:      a,
				Descriptor:   desc,
				Device:       dev,
				FeatureLevel: level,
			}
			logger.Info("graphics: adapter selected",
				"name", desc.Name, "vendor", desc.VendorID, "level", level)
			return selected, nil
		}
	}

	return nil, ErrNoCompatibleAdapter
}
