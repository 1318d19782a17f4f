// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package odometry

import "math"

// OdometryState is everything the estimator carries between updates.
type OdometryState struct {
	PrevLeftDistance  float64 `json:"prev_left_distance"`
	PrevRightDistance float64 `json:"prev_right_distance"`
	Pose              Pose2D  `json:"pose"`
}

// Estimator integrates wheel travel along the gyro heading.
//
// Each update assumes the robot moved in a straight line since the previous
// one, which holds while the tick is short relative to the turn rate.
type Estimator struct {
	state OdometryState
}

// NewEstimator starts the estimator at the given pose with zero travelled
// distance on both sides.
func NewEstimator(start Pose2D) *Estimator {
	e := &Estimator{}
	e.Reset(start.X, start.Y, start.Heading)
	return e
}

// Update consumes the current heading (degrees, already wrapped) and the
// cumulative distance travelled by each side in metres.
func (e *Estimator) Update(headingDeg, leftDistance, rightDistance float64) Pose2D {
	// heading 0 lies along the sensor +X axis, pose +Y is forward at heading 0
	angle := Radians(headingDeg) + math.Pi/2
	avgDelta := 0.5 * ((leftDistance - e.state.PrevLeftDistance) + (rightDistance - e.state.PrevRightDistance))

	e.state.Pose.X += math.Sin(angle) * avgDelta
	e.state.Pose.Y += -math.Cos(angle) * avgDelta
	e.state.Pose.Heading = headingDeg

	e.state.PrevLeftDistance = leftDistance
	e.state.PrevRightDistance = rightDistance
	return e.state.Pose
}

// Reset moves the estimator to a new pose and zeroes both distance
// accumulators.
func (e *Estimator) Reset(x, y, headingDeg float64) {
	e.state = OdometryState{Pose: Pose2D{X: x, Y: y, Heading: headingDeg}}
}

// Pose returns the current estimate.
func (e *Estimator) Pose() Pose2D {
	return e.state.Pose
}

// Heading returns the last heading passed to Update (or Reset).
func (e *Estimator) Heading() float64 {
	return e.state.Pose.Heading
}

// State returns a copy of the internal state.
func (e *Estimator) State() OdometryState {
	return e.state
}
