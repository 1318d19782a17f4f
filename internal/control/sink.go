// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package control

import (
	"fmt"
	"io"

	"github.com/relabs-tech/drivetrain_computer/internal/odometry"
)

// NewPoseLineWriter returns a sink that prints one pose line per tick.
func NewPoseLineWriter(w io.Writer) TickSink {
	return TickSinkFunc(func(t Tick) error {
		_, err := fmt.Fprintln(w, odometry.FormatPoseLine(t.Elapsed, t.Pose))
		return err
	})
}
