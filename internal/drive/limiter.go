// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package drive

import "math"

// WheelLimiterState is the command that was sent on the previous tick.
type WheelLimiterState struct {
	PrevLeft  float64 `json:"prev_left"`
	PrevRight float64 `json:"prev_right"`
}

// SlewLimiter bounds how fast each side's normalized command may change so the
// implied wheel acceleration never exceeds MaxAccel.
type SlewLimiter struct {
	MaxSpeed float64 // m/s at command 1.0
	MaxAccel float64 // m/s^2

	state WheelLimiterState
}

// NewSlewLimiter creates a limiter starting from a stopped drivetrain.
func NewSlewLimiter(maxSpeed, maxAccel float64) *SlewLimiter {
	return &SlewLimiter{MaxSpeed: maxSpeed, MaxAccel: maxAccel}
}

// MaxStep is the largest normalized change allowed over dt seconds.
func (l *SlewLimiter) MaxStep(dt float64) float64 {
	if dt <= 0 || l.MaxSpeed <= 0 {
		return 0
	}
	return l.MaxAccel * dt / l.MaxSpeed
}

// Limit applies the acceleration bound to both sides and remembers the result
// for the next call.
func (l *SlewLimiter) Limit(cmd DriveCommand, dt float64) DriveCommand {
	step := l.MaxStep(dt)
	out := DriveCommand{
		Left:  limitStep(l.state.PrevLeft, cmd.Left, step),
		Right: limitStep(l.state.PrevRight, cmd.Right, step),
	}
	l.state = WheelLimiterState{PrevLeft: out.Left, PrevRight: out.Right}
	return out
}

// State returns the previously emitted command.
func (l *SlewLimiter) State() WheelLimiterState {
	return l.state
}

// Reset forgets the previous command, as if the drivetrain were stopped.
func (l *SlewLimiter) Reset() {
	l.state = WheelLimiterState{}
}

// LimitStep is the single-side limiter: it moves from prev towards cmd by at
// most maxAccel*dt/maxSpeed.
func LimitStep(prev, cmd, dt, maxSpeed, maxAccel float64) float64 {
	l := SlewLimiter{MaxSpeed: maxSpeed, MaxAccel: maxAccel}
	return limitStep(prev, cmd, l.MaxStep(dt))
}

func limitStep(prev, cmd, step float64) float64 {
	delta := cmd - prev
	if math.Abs(delta) <= step {
		return cmd
	}
	return prev + math.Copysign(step, delta)
}
