// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package drive

import "math"

const (
	// DefaultMaxJoy is the magnitude of a fully deflected joystick axis.
	DefaultMaxJoy = 32768.0
	// DefaultDeadZone is applied after squaring.
	DefaultDeadZone = 0.02
)

// Shaper normalizes raw joystick axis readings.
type Shaper struct {
	MaxJoy   float64
	DeadZone float64
}

// DefaultShaper returns a Shaper using the standard joystick scale and dead zone.
func DefaultShaper() Shaper {
	return Shaper{MaxJoy: DefaultMaxJoy, DeadZone: DefaultDeadZone}
}

// Shape maps a raw axis reading to [-1, 1].
//
// The axis sign is inverted (pushing the stick forward reports a negative
// value), the result is squared keeping its sign, and anything below the dead
// zone becomes exactly 0.
func (s Shaper) Shape(raw float64) float64 {
	v := -raw / s.MaxJoy
	v = math.Copysign(v*v, v)
	if math.Abs(v) < s.DeadZone {
		return 0.0
	}
	return v
}

// ShapeAxis is Shape with the default scale and dead zone.
func ShapeAxis(raw float64) float64 {
	return DefaultShaper().Shape(raw)
}
