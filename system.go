// Copyright 2026 The Vortice Authors
// SPDX-License-Identifier: BSD-3-Clause

package vortice

// System is a per-frame participant of the game loop. Systems are called in
// registration order.
type System interface {
	Update(t GameTime) error
	BeginDraw() error
	Draw(t GameTime) error

	// EndDraw runs after every Draw of the frame, even when one failed.
	EndDraw() error
}

// BaseSystem implements System with no-ops. Embed it to override only the
// methods a system needs.
type BaseSystem struct{}

func (BaseSystem) Update(GameTime) error { return nil }
func (BaseSystem) BeginDraw() error      { return nil }
func (BaseSystem) Draw(GameTime) error   { return nil }
func (BaseSystem) EndDraw() error        { return nil }

// SystemFuncs adapts plain functions to System. Nil fields are no-ops.
type SystemFuncs struct {
	UpdateFunc    func(GameTime) error
	BeginDrawFunc func() error
	DrawFunc      func(GameTime) error
	EndDrawFunc   func() error
}

func (s SystemFuncs) Update(t GameTime) error {
	if s.UpdateFunc == nil {
		return nil
	}
	return s.UpdateFunc(t)
}

func (s SystemFuncs) BeginDraw() error {
	if s.BeginDrawFunc == nil {
		return nil
	}
	return s.BeginDrawFunc()
}

func (s SystemFuncs) Draw(t GameTime) error {
	if s.DrawFunc == nil {
		return nil
	}
	return s.DrawFunc(t)
}

func (s SystemFuncs) EndDraw() error {
	if s.EndDrawFunc == nil {
		return nil
	}
	return s.EndDrawFunc()
}
