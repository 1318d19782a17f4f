// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

// Package odometry estimates the planar pose of a differential drive robot by
// dead reckoning from cumulative wheel distances and a gyro heading.
package odometry

import (
	"fmt"
	"math"
	"strconv"
)

// DefaultHeading points the robot along +Y.
const DefaultHeading = 90.0

// Pose2D is the canonical planar pose published by the drivetrain.
// X and Y are metres, Heading is degrees in [0, 360).
type Pose2D struct {
	X       float64 `json:"x"`
	Y       float64 `json:"y"`
	Heading float64 `json:"heading"`
}

// String renders the pose as "(x, y, heading)" with five decimals each.
func (p Pose2D) String() string {
	return fmt.Sprintf("(%.5f, %.5f, %.5f)", p.X, p.Y, p.Heading)
}

// FormatPoseLine renders the per-tick log line:
//
//	<time>, Pose = (<x>, <y>, <heading>)
//
// where time is the elapsed run time in seconds, printed with the shortest
// exact decimal and at least one fractional digit (12.0, 0.032).
func FormatPoseLine(seconds float64, p Pose2D) string {
	return formatSeconds(seconds) + ", Pose = " + p.String()
}

func formatSeconds(s float64) string {
	if s == math.Trunc(s) && !math.IsInf(s, 0) {
		return strconv.FormatFloat(s, 'f', 1, 64)
	}
	return strconv.FormatFloat(s, 'f', -1, 64)
}
