// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

// Package drive turns operator joystick input into left/right wheel commands
// for a four-wheel differential drivetrain.
package drive

import "math"

// DriveCommand holds normalized wheel velocity fractions of maximum speed.
// Both sides are kept in [-1, 1].
type DriveCommand struct {
	Left  float64 `json:"left"`
	Right float64 `json:"right"`
}

// Scale multiplies both sides by k.
func (c DriveCommand) Scale(k float64) DriveCommand {
	return DriveCommand{Left: c.Left * k, Right: c.Right * k}
}

// WheelVelocities are the per-motor angular velocities in rad/s.
// Front and back motors on a side always receive the same value.
type WheelVelocities struct {
	FrontLeft  float64 `json:"fl"`
	FrontRight float64 `json:"fr"`
	BackLeft   float64 `json:"bl"`
	BackRight  float64 `json:"br"`
}

// ToWheelVelocities scales the command by the motor free speed (rad/s).
func (c DriveCommand) ToWheelVelocities(freeSpeed float64) WheelVelocities {
	l := c.Left * freeSpeed
	r := c.Right * freeSpeed
	return WheelVelocities{FrontLeft: l, FrontRight: r, BackLeft: l, BackRight: r}
}

// clampUnit limits |v| to 1 keeping the sign.
func clampUnit(v float64) float64 {
	return math.Copysign(math.Min(math.Abs(v), 1.0), v)
}
