// Copyright 2026 The Vortice Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package vortice hosts games on top of the graphics, audio and input
// packages.
//
// # Overview
//
// A Game is built from a platform Context, which owns the window and the
// event pump, and a set of Systems that take part in every frame:
//
//	ctx := headless.New(headless.Options{Width: 1280, Height: 720})
//	g, err := vortice.New(ctx, vortice.WithSystems(renderer, physics))
//	if err != nil {
//		log.Fatal(err)
//	}
//	defer g.Close()
//
//	if err := g.Run(); err != nil {
//		log.Fatal(err)
//	}
//
// # Services
//
// New builds a Services container. The context registers its services
// first (the graphics device, usually an input manager), then the game adds
// its own through WithServices. The graphics device and the input manager
// are required; an audio.Device is used when present.
//
// # Frame loop
//
// Run moves the game from NotRunning to Running, creates the swap chain for
// the view, calls the Initialize and BeginRun hooks and hands Tick to the
// context. Each Tick calls, in registration order, Update, BeginDraw and
// Draw on every system, then EndDraw on every system and presents the swap
// chain. EndDraw and the present run even when an earlier call failed; the
// failure is returned after the present.
//
// Exit moves the game to ExitRequested. The request is observed at the
// start of the next tick, which runs EndRun and returns the game to
// NotRunning instead of drawing.
//
// # Logging
//
// vortice is silent by default. SetLogger installs a log/slog logger shared
// by every sub-package.
package vortice

// Version is the current version of the module.
const Version = "0.1.0"
