// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package odometry

import "math"

// IntegrateHeading advances a heading in degrees by a yaw rate in rad/s over
// dt seconds and wraps the result into [0, 360).
//
// This is open-loop integration; gyro bias accumulates as drift.
func IntegrateHeading(prevDeg, omega, dt float64) float64 {
	return WrapDegrees(prevDeg + omega*dt*180/math.Pi)
}

// WrapDegrees maps any finite angle into [0, 360).
func WrapDegrees(deg float64) float64 {
	h := math.Mod(deg, 360)
	if h < 0 {
		h += 360
	}
	// a tiny negative remainder rounds up to exactly 360
	if h >= 360 {
		h -= 360
	}
	return h
}

// Radians converts degrees to radians.
func Radians(deg float64) float64 {
	return deg * math.Pi / 180
}

// Degrees converts radians to degrees.
func Degrees(rad float64) float64 {
	return rad * 180 / math.Pi
}
