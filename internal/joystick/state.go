// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

// Package joystick receives operator gamepad input.
package joystick

// State is one snapshot of the operator's gamepad.
// Axes are raw readings in about [-32768, 32768]; Buttons are held levels.
type State struct {
	Axes    []float64 `json:"axes"`
	Buttons []bool    `json:"buttons"`
}

// Axis returns axis i, or 0 when the gamepad has fewer axes.
func (s State) Axis(i int) float64 {
	if i < 0 || i >= len(s.Axes) {
		return 0
	}
	return s.Axes[i]
}

// Button reports whether button i is held.
func (s State) Button(i int) bool {
	if i < 0 || i >= len(s.Buttons) {
		return false
	}
	return s.Buttons[i]
}

// Source is anything that can report the current gamepad state.
type Source interface {
	State() State
}

// Fixed is a Source that always reports the same state.
type Fixed State

// State implements Source.
func (f Fixed) State() State {
	return State(f)
}
