// Copyright 2026 The Vortice Authors
// SPDX-License-Identifier: BSD-3-Clause

package graphics

import (
	"slices"
	"sync/atomic"
	"testing"
)

type countingBackend struct {
	fakeBackend
	probes *atomic.Int32
}

func (b *countingBackend) Supported() bool {
	b.probes.Add(1)
	return b.supported
}

func TestRegistry(t *testing.T) {
	name := registerFake(t, &fakeBackend{name: "fake", supported: true})

	if !IsRegistered(name) {
		t.Errorf("IsRegistered(%q) = false", name)
	}
	if !slices.Contains(Available(), name) {
		t.Errorf("Available() = %v, missing %q", Available(), name)
	}
	if b := GetBackend(name); b == nil || b.Name() != "fake" {
		t.Errorf("GetBackend(%q) = %v", name, b)
	}

	Unregister(name)
	if IsRegistered(name) || GetBackend(name) != nil {
		t.Error("backend still registered after Unregister")
	}
}

func TestIsSupportedComputedOnce(t *testing.T) {
	var probes atomic.Int32
	name := registerFake(t, &countingBackend{
		fakeBackend: fakeBackend{name: "counting", supported: true},
		probes:      &probes,
	})

	for i := 0; i < 5; i++ {
		if !IsSupported(name) {
			t.Fatalf("IsSupported(%q) = false", name)
		}
	}
	if got := probes.Load(); got != 1 {
		t.Errorf("Supported() called %d times, want 1", got)
	}
}

func TestIsSupportedUnsupported(t *testing.T) {
	name := registerFake(t, &fakeBackend{name: "fake"})
	if IsSupported(name) {
		t.Errorf("IsSupported(%q) = true for unsupported backend", name)
	}
	if _, err := lookupBackend(name); err == nil {
		t.Error("lookupBackend() succeeded for unsupported backend")
	}
	if IsSupported("missing") {
		t.Error("IsSupported(missing) = true")
	}
}

func TestFeatureLevelOrder(t *testing.T) {
	levels := FeatureLevels()
	if len(levels) != 5 {
		t.Fatalf("len(FeatureLevels()) = %d, want 5", len(levels))
	}
	for i := 1; i < len(levels); i++ {
		if levels[i] >= levels[i-1] {
			t.Errorf("levels not descending at %d: %v", i, levels)
		}
	}
	if levels[0].String() != "12.2" || levels[4].String() != "11.0" {
		t.Errorf("levels = %v", levels)
	}

	levels[0] = 0
	if FeatureLevels()[0] != FeatureLevel122 {
		t.Error("FeatureLevels() exposes internal slice")
	}
}

func TestParsePowerPreference(t *testing.T) {
	for _, p := range []PowerPreference{PowerPreferenceDefault, PowerPreferenceLowPower, PowerPreferenceHighPerformance} {
		got, err := ParsePowerPreference(p.String())
		if err != nil || got != p {
			t.Errorf("ParsePowerPreference(%q) = %v, %v", p.String(), got, err)
		}
	}
	if _, err := ParsePowerPreference("turbo"); err == nil {
		t.Error("ParsePowerPreference(turbo) succeeded")
	}
}
