// Copyright 2026 The Vortice Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package input tracks keyboard and mouse state for the game loop.
//
// Platforms feed events into a Manager between ticks. Systems read the
// state during Update; edge queries (just pressed, just released) reflect
// the events since the previous tick and are cleared by NextTick, which the
// game calls at the end of every tick.
package input

import (
	"fmt"
	"sync"
)

// Key identifies a keyboard key independent of the platform.
type Key uint16

const (
	KeyUnknown Key = iota
	KeyEscape
	KeyEnter
	KeySpace
	KeyTab
	KeyBackspace
	KeyLeft
	KeyRight
	KeyUp
	KeyDown
	KeyLeftShift
	KeyRightShift
	KeyLeftControl
	KeyRightControl
	KeyLeftAlt
	KeyRightAlt
	KeyF1
	KeyF2
	KeyF3
	KeyF4
	KeyF5
	KeyF6
	KeyF7
	KeyF8
	KeyF9
	KeyF10
	KeyF11
	KeyF12
	Key0
	Key1
	Key2
	Key3
	Key4
	Key5
	Key6
	Key7
	Key8
	Key9
	KeyA
	KeyB
	KeyC
	KeyD
	KeyE
	KeyF
	KeyG
	KeyH
	KeyI
	KeyJ
	KeyK
	KeyL
	KeyM
	KeyN
	KeyO
	KeyP
	KeyQ
	KeyR
	KeyS
	KeyT
	KeyU
	KeyV
	KeyW
	KeyX
	KeyY
	KeyZ
)

var keyNames = map[Key]string{
	KeyEscape: "Escape", KeyEnter: "Enter", KeySpace: "Space", KeyTab: "Tab",
	KeyBackspace: "Backspace", KeyLeft: "Left", KeyRight: "Right", KeyUp: "Up",
	KeyDown: "Down", KeyLeftShift: "LeftShift", KeyRightShift: "RightShift",
	KeyLeftControl: "LeftControl", KeyRightControl: "RightControl",
	KeyLeftAlt: "LeftAlt", KeyRightAlt: "RightAlt",
}

func (k Key) String() string {
	switch {
	case k >= KeyF1 && k <= KeyF12:
		return fmt.Sprintf("F%d", k-KeyF1+1)
	case k >= Key0 && k <= Key9:
		return string(rune('0' + k - Key0))
	case k >= KeyA && k <= KeyZ:
		return string(rune('A' + k - KeyA))
	}
	if name, ok := keyNames[k]; ok {
		return name
	}
	return "Unknown"
}

// MouseButton identifies a mouse button.
type MouseButton uint8

const (
	MouseButtonLeft MouseButton = iota
	MouseButtonMiddle
	MouseButtonRight
	MouseButtonX1
	MouseButtonX2
)

// edges holds held state and per-tick transitions of a set of buttons.
type edges[T comparable] struct {
	down     map[T]bool
	pressed  map[T]bool
	released map[T]bool
}

func newEdges[T comparable]() edges[T] {
	return edges[T]{down: map[T]bool{}, pressed: map[T]bool{}, released: map[T]bool{}}
}

func (e *edges[T]) press(v T) {
	if !e.down[v] {
		e.pressed[v] = true
	}
	e.down[v] = true
}

func (e *edges[T]) release(v T) {
	if e.down[v] {
		e.released[v] = true
	}
	delete(e.down, v)
}

func (e *edges[T]) next() {
	clear(e.pressed)
	clear(e.released)
}

func (e *edges[T]) reset() {
	clear(e.down)
	e.next()
}

// Manager is the input state shared by platform and game. It is safe for
// concurrent use.
type Manager struct {
	mu      sync.Mutex
	keys    edges[Key]
	buttons edges[MouseButton]
	x, y    int
	wheelX  float32
	wheelY  float32
}

// NewManager returns a manager with nothing pressed.
func NewManager() *Manager {
	return &Manager{keys: newEdges[Key](), buttons: newEdges[MouseButton]()}
}

// Press records a key going down. Repeats of a held key are not new
// presses.
func (m *Manager) Press(k Key) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.keys.press(k)
}

// Release records a key going up.
func (m *Manager) Release(k Key) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.keys.release(k)
}

// PressButton records a mouse button going down.
func (m *Manager) PressButton(b MouseButton) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.buttons.press(b)
}

// ReleaseButton records a mouse button going up.
func (m *Manager) ReleaseButton(b MouseButton) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.buttons.release(b)
}

// MoveCursor records the cursor position in view pixels.
func (m *Manager) MoveCursor(x, y int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.x, m.y = x, y
}

// Scroll accumulates wheel movement for the current tick.
func (m *Manager) Scroll(dx, dy float32) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.wheelX += dx
	m.wheelY += dy
}

func (m *Manager) IsKeyDown(k Key) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.keys.down[k]
}

// IsKeyJustPressed reports whether k went down since the last tick.
func (m *Manager) IsKeyJustPressed(k Key) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.keys.pressed[k]
}

// IsKeyJustReleased reports whether k went up since the last tick.
func (m *Manager) IsKeyJustReleased(k Key) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.keys.released[k]
}

func (m *Manager) IsButtonDown(b MouseButton) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.buttons.down[b]
}

func (m *Manager) IsButtonJustPressed(b MouseButton) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.buttons.pressed[b]
}

func (m *Manager) IsButtonJustReleased(b MouseButton) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.buttons.released[b]
}

// Cursor returns the last cursor position.
func (m *Manager) Cursor() (x, y int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.x, m.y
}

// Wheel returns the wheel movement since the last tick.
func (m *Manager) Wheel() (dx, dy float32) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.wheelX, m.wheelY
}

// NextTick clears per-tick edges and wheel movement. Held state persists.
func (m *Manager) NextTick() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.keys.next()
	m.buttons.next()
	m.wheelX, m.wheelY = 0, 0
}

// Reset releases everything, as when the view loses focus.
func (m *Manager) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.keys.reset()
	m.buttons.reset()
	m.wheelX, m.wheelY = 0, 0
}
