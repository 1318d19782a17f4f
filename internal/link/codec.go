// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

// Package link talks to the drivetrain microcontroller over a serial port.
//
// Both directions use NMEA 0183 framing with the "RB" talker ID:
//
//	$RBODO,<left ticks>,<right ticks>,<gyro x>,<gyro y>,<gyro z>*CS   controller -> host
//	$RBDRV,<fl>,<fr>,<bl>,<br>*CS                                      host -> controller
//
// Gyro rates are rad/s, wheel velocities are motor rad/s.
package link

import (
	"fmt"

	nmea "github.com/adrianmo/go-nmea"
	"github.com/golang/geo/r3"

	"github.com/relabs-tech/drivetrain_computer/internal/drive"
	"github.com/relabs-tech/drivetrain_computer/internal/sensors"
)

const (
	TalkerID = "RB"
	// TypeODO is encoder and gyro telemetry.
	TypeODO = "ODO"
	// TypeDRV is a wheel velocity command.
	TypeDRV = "DRV"
)

// Telemetry is a parsed $RBODO sentence.
type Telemetry struct {
	nmea.BaseSentence
	LeftTicks  float64
	RightTicks float64
	GyroX      float64
	GyroY      float64
	GyroZ      float64
}

// Reading converts the sentence to a sensor reading.
func (t Telemetry) Reading() sensors.Reading {
	return sensors.Reading{
		LeftTicks:  t.LeftTicks,
		RightTicks: t.RightTicks,
		Gyro:       r3.Vector{X: t.GyroX, Y: t.GyroY, Z: t.GyroZ},
	}
}

// Drive is a parsed $RBDRV sentence.
type Drive struct {
	nmea.BaseSentence
	Velocities drive.WheelVelocities
}

func newParser() *nmea.SentenceParser {
	return &nmea.SentenceParser{
		CustomParsers: map[string]nmea.ParserFunc{
			TypeODO: parseTelemetry,
			TypeDRV: parseDrive,
		},
	}
}

func parseTelemetry(s nmea.BaseSentence) (nmea.Sentence, error) {
	p := nmea.NewParser(s)
	p.AssertType(TypeODO)
	return Telemetry{
		BaseSentence: s,
		LeftTicks:    p.Float64(0, "left ticks"),
		RightTicks:   p.Float64(1, "right ticks"),
		GyroX:        p.Float64(2, "gyro x"),
		GyroY:        p.Float64(3, "gyro y"),
		GyroZ:        p.Float64(4, "gyro z"),
	}, p.Err()
}

func parseDrive(s nmea.BaseSentence) (nmea.Sentence, error) {
	p := nmea.NewParser(s)
	p.AssertType(TypeDRV)
	return Drive{
		BaseSentence: s,
		Velocities: drive.WheelVelocities{
			FrontLeft:  p.Float64(0, "front left"),
			FrontRight: p.Float64(1, "front right"),
			BackLeft:   p.Float64(2, "back left"),
			BackRight:  p.Float64(3, "back right"),
		},
	}, p.Err()
}

// Parse decodes one line from the link.
func Parse(line string) (nmea.Sentence, error) {
	return newParser().Parse(line)
}

// EncodeDrive frames a wheel velocity command, including the trailing CRLF.
func EncodeDrive(w drive.WheelVelocities) string {
	return frame(fmt.Sprintf("%s%s,%.4f,%.4f,%.4f,%.4f",
		TalkerID, TypeDRV, w.FrontLeft, w.FrontRight, w.BackLeft, w.BackRight))
}

// EncodeTelemetry frames a reading as the controller would send it.
func EncodeTelemetry(r sensors.Reading) string {
	return frame(fmt.Sprintf("%s%s,%.0f,%.0f,%.6f,%.6f,%.6f",
		TalkerID, TypeODO, r.LeftTicks, r.RightTicks, r.Gyro.X, r.Gyro.Y, r.Gyro.Z))
}

func frame(body string) string {
	return "$" + body + "*" + nmea.Checksum(body) + "\r\n"
}
