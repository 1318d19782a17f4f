package control

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/relabs-tech/drivetrain_computer/internal/config"
	"github.com/relabs-tech/drivetrain_computer/internal/drive"
	"github.com/relabs-tech/drivetrain_computer/internal/joystick"
	"github.com/relabs-tech/drivetrain_computer/internal/odometry"
	"github.com/relabs-tech/drivetrain_computer/internal/sensors"
)

const tickDt = 0.032

// gamepad builds a state with the default axis/button layout.
func gamepad(speed, rotation float64, slow bool) joystick.State {
	return joystick.State{
		Axes:    []float64{0, 0, speed, rotation},
		Buttons: []bool{false, slow},
	}
}

func TestLoopIdleStaysAtStartPose(t *testing.T) {
	l := NewLoop(config.Default())

	for i := 0; i < 10; i++ {
		tick := l.Step(gamepad(0, 0, false), &sensors.Reading{}, tickDt)
		assert.Equal(t, drive.DriveCommand{}, tick.Command)
		assert.Equal(t, drive.WheelVelocities{}, tick.Wheels)
	}

	assert.Equal(t, odometry.Pose2D{X: 0, Y: 0, Heading: 90}, l.Pose())
}

func TestLoopFullForwardIsAccelerationLimited(t *testing.T) {
	cfg := config.Default()
	l := NewLoop(cfg)
	step := cfg.Drivetrain.MaxAccel * tickDt / cfg.MaxSpeed()

	tick := l.Step(gamepad(-32768, 0, false), nil, tickDt)
	assert.InDelta(t, step, tick.Command.Left, 1e-12)
	assert.InDelta(t, step, tick.Command.Right, 1e-12)
	assert.InDelta(t, step*cfg.FreeSpeedRadPerSec(), tick.Wheels.FrontLeft, 1e-9)
	assert.Equal(t, tick.Wheels.FrontLeft, tick.Wheels.BackLeft)
	assert.Equal(t, tick.Wheels.FrontRight, tick.Wheels.BackRight)

	for i := 0; i < 100; i++ {
		tick = l.Step(gamepad(-32768, 0, false), nil, tickDt)
	}
	assert.Equal(t, 0.5, tick.Command.Left)
	assert.Equal(t, 0.5, tick.Command.Right)
}

func TestLoopSlowModeHalvesTarget(t *testing.T) {
	l := NewLoop(config.Default())

	tick := l.Step(gamepad(-32768, 0, true), nil, tickDt)
	require.True(t, tick.SlowMode)

	// holding the button must not toggle again
	for i := 0; i < 100; i++ {
		tick = l.Step(gamepad(-32768, 0, true), nil, tickDt)
	}
	assert.True(t, tick.SlowMode)
	assert.Equal(t, 0.25, tick.Command.Left)

	l.Step(gamepad(-32768, 0, false), nil, tickDt)
	tick = l.Step(gamepad(-32768, 0, true), nil, tickDt)
	assert.False(t, tick.SlowMode)
}

func TestLoopEstimateDrivesAlongHeading(t *testing.T) {
	cfg := config.Default()
	l := NewLoop(cfg)
	perMetre := 1 / cfg.DistancePerTick()

	pose := l.Estimate(sensors.Reading{LeftTicks: perMetre, RightTicks: perMetre}, tickDt)
	assert.InDelta(t, 0, pose.X, 1e-9)
	assert.InDelta(t, 1, pose.Y, 1e-9)
	assert.Equal(t, 90.0, pose.Heading)

	pose = l.Estimate(sensors.Reading{LeftTicks: 2 * perMetre, RightTicks: 2 * perMetre}, tickDt)
	assert.InDelta(t, 2, pose.Y, 1e-9)
}

func TestLoopEstimateIntegratesGyro(t *testing.T) {
	l := NewLoop(config.Default())

	// 1 rad/s about the default Y axis for one second
	var pose odometry.Pose2D
	for i := 0; i < 100; i++ {
		r := sensors.Reading{}
		r.Gyro.Y = 1
		pose = l.Estimate(r, 0.01)
	}
	assert.InDelta(t, 90+57.29577951308232, pose.Heading, 1e-9)
}

func TestLoopMissingReadingKeepsPose(t *testing.T) {
	cfg := config.Default()
	l := NewLoop(cfg)
	perMetre := 1 / cfg.DistancePerTick()

	l.Step(gamepad(0, 0, false), &sensors.Reading{LeftTicks: perMetre, RightTicks: perMetre}, tickDt)
	before := l.Pose()
	tick := l.Step(gamepad(0, 0, false), nil, tickDt)
	assert.Equal(t, before, tick.Pose)
	assert.InDelta(t, 2*tickDt, tick.Elapsed, 1e-12)
}

func TestLoopResetPose(t *testing.T) {
	l := NewLoop(config.Default())
	l.ResetPose(odometry.Pose2D{X: 1, Y: 2, Heading: -90})
	assert.Equal(t, odometry.Pose2D{X: 1, Y: 2, Heading: 270}, l.Pose())
}
