// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package sensors

import (
	"fmt"
	"math"

	"github.com/golang/geo/r3"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/devices/v3/mpu9250"
	"periph.io/x/host/v3"

	customlog "github.com/relabs-tech/drivetrain_computer/internal/log"
)

// LSB per °/s for each GYRO_FS_SEL setting.
var gyroSensitivity = [4]float64{131.0, 65.5, 32.8, 16.4}

type imuGyro struct {
	imu         *mpu9250.MPU9250
	sensitivity float64
}

// NewIMUGyro initializes an MPU9250 over SPI and returns it as a GyroReader.
// gyroRange is the GYRO_FS_SEL code, 0-3.
func NewIMUGyro(spiDev, csPin string, gyroRange byte, logger customlog.Logger) (GyroReader, error) {
	if gyroRange > 3 {
		return nil, fmt.Errorf("IMU: gyro range %d out of 0-3", gyroRange)
	}

	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("IMU: periph host init: %w", err)
	}

	cs := gpioreg.ByName(csPin)
	if cs == nil {
		return nil, fmt.Errorf("IMU: CS pin %q not found", csPin)
	}

	tr, err := mpu9250.NewSpiTransport(spiDev, cs)
	if err != nil {
		return nil, fmt.Errorf("IMU: SPI transport (%s): %w", spiDev, err)
	}

	imu, err := mpu9250.New(tr)
	if err != nil {
		return nil, fmt.Errorf("IMU: device creation: %w", err)
	}

	if err := imu.Init(); err != nil {
		return nil, fmt.Errorf("IMU: initialization: %w", err)
	}

	if err := imu.SetGyroRange(gyroRange); err != nil {
		return nil, fmt.Errorf("IMU: set gyro range: %w", err)
	}
	logger.Infof("IMU: gyroscope range set to %d (±%d°/s)", gyroRange, []int{250, 500, 1000, 2000}[gyroRange])

	// The robot must be still while this runs.
	if err := imu.Calibrate(); err != nil {
		logger.Warnf("IMU: calibration failed, gyro bias will show up as heading drift: %v", err)
	} else {
		logger.Infof("IMU: calibration complete")
	}

	return &imuGyro{imu: imu, sensitivity: gyroSensitivity[gyroRange]}, nil
}

// ReadGyro reads the three gyro axes and converts them to rad/s.
func (s *imuGyro) ReadGyro() (r3.Vector, error) {
	gx, err := s.imu.GetRotationX()
	if err != nil {
		return r3.Vector{}, fmt.Errorf("IMU gyro X: %w", err)
	}
	gy, err := s.imu.GetRotationY()
	if err != nil {
		return r3.Vector{}, fmt.Errorf("IMU gyro Y: %w", err)
	}
	gz, err := s.imu.GetRotationZ()
	if err != nil {
		return r3.Vector{}, fmt.Errorf("IMU gyro Z: %w", err)
	}

	return r3.Vector{
		X: countsToRadians(gx, s.sensitivity),
		Y: countsToRadians(gy, s.sensitivity),
		Z: countsToRadians(gz, s.sensitivity),
	}, nil
}

func countsToRadians(counts int16, sensitivity float64) float64 {
	return float64(counts) / sensitivity * math.Pi / 180
}
