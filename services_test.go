// Copyright 2026 The Vortice Authors
// SPDX-License-Identifier: BSD-3-Clause

package vortice

import (
	"errors"
	"testing"
)

type greeter interface{ Greet() string }

type english struct{ name string }

func (e english) Greet() string { return "hello " + e.name }

func TestServicesRegisterResolve(t *testing.T) {
	s := NewServices()
	Register[greeter](s, english{"world"})

	g, err := Resolve[greeter](s)
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if got := g.Greet(); got != "hello world" {
		t.Errorf("Greet() = %q", got)
	}
	// Concrete and interface types are distinct keys.
	if Has[english](s) {
		t.Error("Has[english]() = true, only the interface was registered")
	}
}

func TestServicesNotFound(t *testing.T) {
	s := NewServices()
	_, err := Resolve[*int](s)
	if !errors.Is(err, ErrServiceNotFound) {
		t.Errorf("Resolve() error = %v, want ErrServiceNotFound", err)
	}
	if _, ok := Optional[*int](s); ok {
		t.Error("Optional() = true for a missing service")
	}
}

func TestServicesFactoryRunsOnce(t *testing.T) {
	s := NewServices()
	calls := 0
	RegisterFactory(s, func(*Services) (*english, error) {
		calls++
		return &english{"factory"}, nil
	})

	a, err := Resolve[*english](s)
	if err != nil {
		t.Fatal(err)
	}
	b, _ := Resolve[*english](s)
	if a != b {
		t.Error("factory services should be singletons")
	}
	if calls != 1 {
		t.Errorf("factory calls = %d, want 1", calls)
	}
}

func TestServicesFactoryDependsOnOthers(t *testing.T) {
	s := NewServices()
	Register(s, "vortice")
	RegisterFactory(s, func(s *Services) (greeter, error) {
		name, err := Resolve[string](s)
		return english{name}, err
	})
	g, err := Resolve[greeter](s)
	if err != nil {
		t.Fatal(err)
	}
	if got := g.Greet(); got != "hello vortice" {
		t.Errorf("Greet() = %q", got)
	}
}

func TestServicesFactoryError(t *testing.T) {
	s := NewServices()
	RegisterFactory(s, func(*Services) (greeter, error) { return nil, errBoom })

	if _, err := Resolve[greeter](s); !errors.Is(err, errBoom) {
		t.Errorf("Resolve() error = %v, want errBoom", err)
	}
	if _, ok := Optional[greeter](s); ok {
		t.Error("Optional() = true for a failed factory")
	}
}

func TestServicesOverride(t *testing.T) {
	s := NewServices()
	Register(s, 1)
	Register(s, 2)
	if v, _ := Resolve[int](s); v != 2 {
		t.Errorf("Resolve[int]() = %d, want the later registration", v)
	}
}
