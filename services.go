// Copyright 2026 The Vortice Authors
// SPDX-License-Identifier: BSD-3-Clause

package vortice

import (
	"fmt"
	"reflect"
	"sync"
)

// Services is a type-keyed service container. Each service type maps to one
// singleton, either registered directly or built lazily by a factory on
// first resolution.
type Services struct {
	mu      sync.RWMutex
	entries map[reflect.Type]*serviceEntry
}

type serviceEntry struct {
	once    sync.Once
	factory func(*Services) (any, error)
	value   any
	err     error
}

// NewServices returns an empty container.
func NewServices() *Services {
	return &Services{entries: make(map[reflect.Type]*serviceEntry)}
}

func (s *Services) set(t reflect.Type, e *serviceEntry) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[t] = e
}

func (s *Services) get(t reflect.Type) (*serviceEntry, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.entries[t]
	return e, ok
}

// Register adds v as the singleton for T, replacing any earlier
// registration.
func Register[T any](s *Services, v T) {
	e := &serviceEntry{value: v}
	e.once.Do(func() {})
	s.set(reflect.TypeFor[T](), e)
}

// RegisterFactory registers a constructor for T. It runs at most once, on
// the first Resolve.
func RegisterFactory[T any](s *Services, factory func(*Services) (T, error)) {
	s.set(reflect.TypeFor[T](), &serviceEntry{
		factory: func(s *Services) (any, error) { return factory(s) },
	})
}

// Has reports whether T is registered.
func Has[T any](s *Services) bool {
	_, ok := s.get(reflect.TypeFor[T]())
	return ok
}

// Resolve returns the singleton for T. It fails with ErrServiceNotFound when
// T is not registered, or with the factory error.
func Resolve[T any](s *Services) (T, error) {
	var zero T
	t := reflect.TypeFor[T]()
	e, ok := s.get(t)
	if !ok {
		return zero, fmt.Errorf("%w: %v", ErrServiceNotFound, t)
	}
	e.once.Do(func() { e.value, e.err = e.factory(s) })
	if e.err != nil {
		return zero, fmt.Errorf("vortice: build %v: %w", t, e.err)
	}
	v, _ := e.value.(T)
	return v, nil
}

// Optional returns the singleton for T, or the zero value when T is not
// registered or failed to build.
func Optional[T any](s *Services) (T, bool) {
	v, err := Resolve[T](s)
	return v, err == nil
}
