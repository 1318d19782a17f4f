package sim

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/relabs-tech/drivetrain_computer/internal/config"
	"github.com/relabs-tech/drivetrain_computer/internal/drive"
	"github.com/relabs-tech/drivetrain_computer/internal/sensors"
)

func TestPlantDrivesStraight(t *testing.T) {
	cfg := config.Default()
	p := New(cfg)

	// full command on both sides for one second
	w := drive.DriveCommand{Left: 1, Right: 1}.ToWheelVelocities(cfg.FreeSpeedRadPerSec())
	require.NoError(t, p.SetWheelVelocities(w))
	for i := 0; i < 50; i++ {
		p.Advance(0.02)
	}

	r, err := p.Read()
	require.NoError(t, err)

	l, rr := r.Distances(cfg.DistancePerTick())
	assert.InDelta(t, cfg.MaxSpeed(), l, 1e-9)
	assert.InDelta(t, cfg.MaxSpeed(), rr, 1e-9)
	assert.Equal(t, 0.0, sensors.VerticalRate(r.Gyro, cfg.Odometry.GyroAxis))
	assert.InDelta(t, 1.0, p.Elapsed(), 1e-9)
}

func TestPlantSpinsCounterclockwise(t *testing.T) {
	cfg := config.Default()
	cfg.Odometry.GyroAxis = "z"
	p := New(cfg)

	w := drive.ArcadeMix(0, 1).ToWheelVelocities(cfg.FreeSpeedRadPerSec())
	require.NoError(t, p.SetWheelVelocities(w))
	p.Advance(0.1)

	r, err := p.Read()
	require.NoError(t, err)
	assert.InDelta(t, -r.LeftTicks, r.RightTicks, 1e-9)

	want := cfg.MaxSpeed() / cfg.Drivetrain.TrackWidth
	assert.InDelta(t, want, r.Gyro.Z, 1e-9)
	assert.Equal(t, 0.0, r.Gyro.Y)
}
