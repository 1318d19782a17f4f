// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package drive

// DefaultSlowModeFactor scales the mixer output while slow mode is on.
const DefaultSlowModeFactor = 0.5

// SlowMode is a two-state toggle flipped once per button press.
// It tracks the previous button level itself, so a held button toggles once.
type SlowMode struct {
	Factor float64

	active      bool
	prevPressed bool
}

// NewSlowMode returns an inactive toggle.
func NewSlowMode(factor float64) *SlowMode {
	return &SlowMode{Factor: factor}
}

// Update feeds the current button level and reports whether slow mode is on.
func (s *SlowMode) Update(pressed bool) bool {
	if pressed && !s.prevPressed {
		s.active = !s.active
	}
	s.prevPressed = pressed
	return s.active
}

// Active reports the current mode.
func (s *SlowMode) Active() bool {
	return s.active
}

// Apply scales cmd by Factor when slow mode is on.
func (s *SlowMode) Apply(cmd DriveCommand) DriveCommand {
	if !s.active {
		return cmd
	}
	return cmd.Scale(s.Factor)
}
