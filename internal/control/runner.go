// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package control

import (
	"context"
	"time"

	"github.com/relabs-tech/drivetrain_computer/internal/drive"
	"github.com/relabs-tech/drivetrain_computer/internal/joystick"
	customlog "github.com/relabs-tech/drivetrain_computer/internal/log"
	"github.com/relabs-tech/drivetrain_computer/internal/sensors"
)

// MotorSink receives the four motor velocities every tick.
type MotorSink interface {
	SetWheelVelocities(w drive.WheelVelocities) error
}

// TickSink receives the result of every tick.
type TickSink interface {
	Publish(t Tick) error
}

// TickSinkFunc adapts a function to TickSink.
type TickSinkFunc func(t Tick) error

// Publish implements TickSink.
func (f TickSinkFunc) Publish(t Tick) error {
	return f(t)
}

// Advancer is a simulated plant that moves forward in time after each
// motor command.
type Advancer interface {
	Advance(dt float64)
}

// Runner drives a Loop at a fixed period against its collaborators.
type Runner struct {
	Loop     *Loop
	Joystick joystick.Source
	Sensors  sensors.Source
	Motors   MotorSink
	Sinks    []TickSink
	// Plant is optional. When set it is advanced by dt after the motors are
	// commanded, so the next sensor read sees the motion.
	Plant Advancer

	Period      time.Duration
	UseMeasured bool
	Logger      customlog.Logger

	lastTick time.Time
}

// Run ticks until ctx is cancelled.
func (r *Runner) Run(ctx context.Context) error {
	ticker := time.NewTicker(r.Period)
	defer ticker.Stop()

	r.Logger.Infof("control loop started (period %v, measured dt %v)", r.Period, r.UseMeasured)

	for {
		select {
		case <-ctx.Done():
			r.Logger.Infof("control loop stopped")
			return nil
		case now := <-ticker.C:
			r.step(now)
		}
	}
}

// dt returns the period to integrate over for a tick at now.
func (r *Runner) dt(now time.Time) float64 {
	nominal := r.Period.Seconds()
	if !r.UseMeasured || r.lastTick.IsZero() {
		r.lastTick = now
		return nominal
	}
	dt := now.Sub(r.lastTick).Seconds()
	r.lastTick = now
	if dt <= 0 {
		return nominal
	}
	return dt
}

func (r *Runner) step(now time.Time) Tick {
	dt := r.dt(now)

	var reading *sensors.Reading
	if s, err := r.Sensors.Read(); err != nil {
		r.Logger.Warnf("sensor read failed, pose not updated: %v", err)
	} else {
		reading = &s
	}

	tick := r.Loop.Step(r.Joystick.State(), reading, dt)

	if err := r.Motors.SetWheelVelocities(tick.Wheels); err != nil {
		r.Logger.Errorf("failed to command motors: %v", err)
	}
	if r.Plant != nil {
		r.Plant.Advance(dt)
	}

	for _, s := range r.Sinks {
		if err := s.Publish(tick); err != nil {
			r.Logger.Errorf("failed to publish tick: %v", err)
		}
	}
	return tick
}
