// Copyright 2026 The Vortice Authors
// SPDX-License-Identifier: BSD-3-Clause

package sdl2

import (
	"github.com/veandco/go-sdl2/sdl"

	"github.com/Sina-Ebrahimi/vortice/input"
)

var keymap = map[sdl.Keycode]input.Key{
	sdl.K_ESCAPE:    input.KeyEscape,
	sdl.K_RETURN:    input.KeyEnter,
	sdl.K_KP_ENTER:  input.KeyEnter,
	sdl.K_SPACE:     input.KeySpace,
	sdl.K_TAB:       input.KeyTab,
	sdl.K_BACKSPACE: input.KeyBackspace,
	sdl.K_LEFT:      input.KeyLeft,
	sdl.K_RIGHT:     input.KeyRight,
	sdl.K_UP:        input.KeyUp,
	sdl.K_DOWN:      input.KeyDown,
	sdl.K_LSHIFT:    input.KeyLeftShift,
	sdl.K_RSHIFT:    input.KeyRightShift,
	sdl.K_LCTRL:     input.KeyLeftControl,
	sdl.K_RCTRL:     input.KeyRightControl,
	sdl.K_LALT:      input.KeyLeftAlt,
	sdl.K_RALT:      input.KeyRightAlt,
	sdl.K_F1:        input.KeyF1,
	sdl.K_F2:        input.KeyF2,
	sdl.K_F3:        input.KeyF3,
	sdl.K_F4:        input.KeyF4,
	sdl.K_F5:        input.KeyF5,
	sdl.K_F6:        input.KeyF6,
	sdl.K_F7:        input.KeyF7,
	sdl.K_F8:        input.KeyF8,
	sdl.K_F9:        input.KeyF9,
	sdl.K_F10:       input.KeyF10,
	sdl.K_F11:       input.KeyF11,
	sdl.K_F12:       input.KeyF12,
}

// translateKey maps an SDL keycode to an input key.
func translateKey(code sdl.Keycode) input.Key {
	switch {
	case code >= sdl.K_0 && code <= sdl.K_9:
		return input.Key0 + input.Key(code-sdl.K_0)
	case code >= sdl.K_a && code <= sdl.K_z:
		return input.KeyA + input.Key(code-sdl.K_a)
	}
	if k, ok := keymap[code]; ok {
		return k
	}
	return input.KeyUnknown
}

// translateButton maps an SDL mouse button index.
func translateButton(b uint8) (input.MouseButton, bool) {
	switch b {
	case sdl.BUTTON_LEFT:
		return input.MouseButtonLeft, true
	case sdl.BUTTON_MIDDLE:
		return input.MouseButtonMiddle, true
	case sdl.BUTTON_RIGHT:
		return input.MouseButtonRight, true
	case sdl.BUTTON_X1:
		return input.MouseButtonX1, true
	case sdl.BUTTON_X2:
		return input.MouseButtonX2, true
	}
	return 0, false
}
