// Copyright 2026 The Vortice Authors
// SPDX-License-Identifier: BSD-3-Clause

package graphics

import (
	"sort"
	"sync"
)

// Backend names used by the bundled backends.
const (
	BackendNative   = "native"
	BackendSoftware = "software"
)

// BackendFactory creates a backend instance.
type BackendFactory func() Backend

type registration struct {
	factory   BackendFactory
	supported func() bool
}

var (
	registryMu sync.RWMutex
	backends   = make(map[string]registration)

	// Native hardware first, the pure-Go reference backend as fallback.
	backendPriority = []string{BackendNative, BackendSoftware}
)

// Register registers a backend factory under name, replacing any previous
// registration. It is typically called from init functions in backend
// packages.
func Register(name string, factory BackendFactory) {
	registryMu.Lock()
	defer registryMu.Unlock()
	backends[name] = registration{
		factory:   factory,
		supported: sync.OnceValue(func() bool { return probeSupport(factory) }),
	}
}

// Unregister removes a backend from the registry.
// This is useful for testing.
func Unregister(name string) {
	registryMu.Lock()
	defer registryMu.Unlock()
	delete(backends, name)
}

// Available returns the registered backend names in sorted order.
func Available() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()

	names := make([]string, 0, len(backends))
	for name := range backends {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// IsRegistered checks if a backend with the given name is registered.
func IsRegistered(name string) bool {
	registryMu.RLock()
	defer registryMu.RUnlock()
	_, ok := backends[name]
	return ok
}

// IsSupported reports whether the named backend is registered and usable
// on this machine. The native probe runs at most once per registration.
func IsSupported(name string) bool {
	registryMu.RLock()
	r, ok := backends[name]
	registryMu.RUnlock()
	return ok && r.supported()
}

// GetBackend returns a backend instance by name.
// Returns nil if the backend is not registered.
func GetBackend(name string) Backend {
	registryMu.RLock()
	defer registryMu.RUnlock()

	r, ok := backends[name]
	if !ok {
		return nil
	}
	return r.factory()
}

// DefaultBackend returns the highest-priority supported backend, falling
// back to any other supported registration. Returns nil when none is usable.
func DefaultBackend() Backend {
	for _, name := range backendPriority {
		if IsSupported(name) {
			if b := GetBackend(name); b != nil {
				return b
			}
		}
	}

	for _, name := range Available() {
		if IsSupported(name) {
			if b := GetBackend(name); b != nil {
				return b
			}
		}
	}
	return nil
}

func probeSupport(factory BackendFactory) bool {
	b := factory()
	if b == nil {
		return false
	}
	return b.Supported()
}

// lookupBackend resolves an explicit name or the default backend.
func lookupBackend(name string) (Backend, error) {
	if name == "" {
		if b := DefaultBackend(); b != nil {
			return b, nil
		}
		return nil, ErrBackendNotAvailable
	}
	if !IsSupported(name) {
		return nil, ErrBackendNotAvailable
	}
	b := GetBackend(name)
	if b == nil {
		return nil, ErrBackendNotAvailable
	}
	return b, nil
}
