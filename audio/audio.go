// Copyright 2026 The Vortice Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package audio provides the audio device used by games.
//
// NewOto returns a device backed by ebitengine/oto. Its context is created on
// first use; when that fails the device logs a warning and behaves like the
// null device from then on, so games never have to handle a missing sound
// card.
package audio

import (
	"encoding/binary"
	"io"
	"math"
)

// Backend identifies an audio implementation.
type Backend string

const (
	BackendNull Backend = "null"
	BackendOto  Backend = "oto"
)

// Device is an audio output.
type Device interface {
	Backend() Backend

	// Suspend pauses all output, as when the game loses focus.
	Suspend() error
	Resume() error

	// Play starts streaming interleaved float32 little-endian stereo
	// frames from r.
	Play(r io.Reader) Player

	// Close stops every player started by the device.
	Close() error
}

// Player controls one playing stream.
type Player interface {
	Play()
	Pause()
	IsPlaying() bool
	Volume() float64
	SetVolume(v float64)
	Close() error
}

// StereoSample is one interleaved stereo frame.
type StereoSample [2]float32

// StereoBytes encodes samples in the float32 little-endian layout Play
// expects.
func StereoBytes(samples []StereoSample) []byte {
	out := make([]byte, 0, len(samples)*8)
	for _, s := range samples {
		out = binary.LittleEndian.AppendUint32(out, math.Float32bits(s[0]))
		out = binary.LittleEndian.AppendUint32(out, math.Float32bits(s[1]))
	}
	return out
}

// Null is a device that discards all output.
type Null struct{}

// NewNull returns the null device.
func NewNull() Null { return Null{} }

func (Null) Backend() Backend       { return BackendNull }
func (Null) Suspend() error         { return nil }
func (Null) Resume() error          { return nil }
func (Null) Play(io.Reader) Player  { return &nullPlayer{volume: 1} }
func (Null) Close() error           { return nil }

type nullPlayer struct {
	volume float64
}

func (p *nullPlayer) Play()               {}
func (p *nullPlayer) Pause()              {}
func (p *nullPlayer) IsPlaying() bool     { return false }
func (p *nullPlayer) Volume() float64     { return p.volume }
func (p *nullPlayer) SetVolume(v float64) { p.volume = v }
func (p *nullPlayer) Close() error        { return nil }
