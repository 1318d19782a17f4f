// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package app

import (
	"context"
	"io"

	"github.com/relabs-tech/drivetrain_computer/internal/config"
	"github.com/relabs-tech/drivetrain_computer/internal/control"
	"github.com/relabs-tech/drivetrain_computer/internal/joystick"
	customlog "github.com/relabs-tech/drivetrain_computer/internal/log"
	"github.com/relabs-tech/drivetrain_computer/internal/sim"
)

// ScriptStep holds a gamepad state for a span of simulated seconds.
type ScriptStep struct {
	Duration float64
	Speed    float64 // raw axis value
	Rotation float64 // raw axis value
	Slow     bool    // slow-mode button held
}

// DefaultScript drives a short lap: forward, turn left, slow forward, stop.
var DefaultScript = []ScriptStep{
	{Duration: 1.0, Speed: -32768},
	{Duration: 0.5, Rotation: -16384},
	{Duration: 0.1, Slow: true},
	{Duration: 1.0, Speed: -32768},
	{Duration: 0.5},
}

// scriptedJoystick replays a script against the plant's simulated clock.
type scriptedJoystick struct {
	clock  interface{ Elapsed() float64 }
	input  config.InputConfig
	script []ScriptStep
}

// scriptDuration is the total length of the script in seconds.
func scriptDuration(script []ScriptStep) float64 {
	var total float64
	for _, s := range script {
		total += s.Duration
	}
	return total
}

func (j *scriptedJoystick) State() joystick.State {
	t := j.clock.Elapsed()
	step := ScriptStep{}
	for _, s := range j.script {
		if t < s.Duration {
			step = s
			break
		}
		t -= s.Duration
	}

	n := max(j.input.SpeedAxis, j.input.RotationAxis) + 1
	st := joystick.State{
		Axes:    make([]float64, n),
		Buttons: make([]bool, j.input.SlowModeButton+1),
	}
	st.Axes[j.input.SpeedAxis] = step.Speed
	st.Axes[j.input.RotationAxis] = step.Rotation
	st.Buttons[j.input.SlowModeButton] = step.Slow
	return st
}

// RunMockConsole drives the simulated plant through script and prints a pose
// line per tick. It returns when the script ends or ctx is cancelled.
func RunMockConsole(ctx context.Context, cfg *config.Config, logger customlog.Logger, out io.Writer, script []ScriptStep) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	plant := sim.New(cfg)
	end := scriptDuration(script)

	runner := &control.Runner{
		Loop:     control.NewLoop(cfg),
		Joystick: &scriptedJoystick{clock: plant, input: cfg.Input, script: script},
		Sensors:  plant,
		Motors:   plant,
		Plant:    plant,
		Sinks: []control.TickSink{
			control.NewPoseLineWriter(out),
			control.TickSinkFunc(func(t control.Tick) error {
				if t.Elapsed >= end {
					cancel()
				}
				return nil
			}),
		},
		Period: cfg.NominalPeriod(),
		// replay runs on the nominal clock so output is repeatable
		UseMeasured: false,
		Logger:      logger,
	}
	return runner.Run(ctx)
}
