// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

// Package sensors defines the drivetrain sensor sample and its sources.
package sensors

import (
	"fmt"

	"github.com/golang/geo/r3"
)

// Reading is one sample of the drivetrain sensors.
type Reading struct {
	// Cumulative encoder counts since power-up for the front left and front
	// right wheels.
	LeftTicks  float64 `json:"left_ticks"`
	RightTicks float64 `json:"right_ticks"`

	// Gyro angular velocity in rad/s in the sensor frame.
	Gyro r3.Vector `json:"gyro"`
}

// Source is anything that can provide drivetrain readings over time:
// the serial link, the simulator, a replay.
type Source interface {
	Read() (Reading, error)
}

// GyroReader provides only angular velocity, in rad/s.
type GyroReader interface {
	ReadGyro() (r3.Vector, error)
}

// VerticalRate picks the gyro component about the vertical axis.
func VerticalRate(g r3.Vector, axis string) float64 {
	switch axis {
	case "x":
		return g.X
	case "z":
		return g.Z
	default:
		return g.Y
	}
}

// Distances converts the encoder counts to metres.
func (r Reading) Distances(distancePerTick float64) (left, right float64) {
	return r.LeftTicks * distancePerTick, r.RightTicks * distancePerTick
}

type gyroOverride struct {
	src  Source
	gyro GyroReader
}

// WithGyro returns a Source whose gyro vector comes from gyro instead of src.
func WithGyro(src Source, gyro GyroReader) Source {
	return &gyroOverride{src: src, gyro: gyro}
}

func (g *gyroOverride) Read() (Reading, error) {
	r, err := g.src.Read()
	if err != nil {
		return Reading{}, err
	}
	v, err := g.gyro.ReadGyro()
	if err != nil {
		return Reading{}, fmt.Errorf("gyro: %w", err)
	}
	r.Gyro = v
	return r, nil
}
