package config

import (
	"math"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig(t *testing.T) {
	configContent := `
drivetrain:
  max_accel_mps2: 4.5
  encoder_cpr: 20
input:
  slow_mode_button: 3
timing:
  nominal_period_ms: 20
  use_measured_period: false
odometry:
  start_x: 1.5
  gyro_axis: "z"
mqtt:
  broker: "tcp://robot.local:1883"
  topic_pose: "test/pose"
sim:
  enabled: true
logging:
  level: "debug"
`
	configPath := filepath.Join(t.TempDir(), "drivetrain_config.yaml")
	require.NoError(t, os.WriteFile(configPath, []byte(configContent), 0644))

	cfg, err := Load(configPath)
	require.NoError(t, err)

	assert.Equal(t, 4.5, cfg.Drivetrain.MaxAccel)
	assert.Equal(t, 20.0, cfg.Drivetrain.EncoderCPR)
	assert.Equal(t, 3, cfg.Input.SlowModeButton)
	assert.Equal(t, 20*time.Millisecond, cfg.NominalPeriod())
	assert.False(t, cfg.Timing.UseMeasuredPeriod)
	assert.Equal(t, 1.5, cfg.Odometry.StartX)
	assert.Equal(t, "z", cfg.Odometry.GyroAxis)
	assert.Equal(t, "tcp://robot.local:1883", cfg.MQTT.Broker)
	assert.Equal(t, "test/pose", cfg.MQTT.TopicPose)
	assert.True(t, cfg.Sim.Enabled)
	assert.Equal(t, "debug", cfg.Logging.Level)

	// untouched keys keep their defaults
	assert.Equal(t, 6.67, cfg.Drivetrain.Gearing)
	assert.Equal(t, 90.0, cfg.Odometry.StartHeading)
	assert.Equal(t, "drivetrain/command", cfg.MQTT.TopicCommand)
	assert.Equal(t, 2, cfg.Input.SpeedAxis)
}

func TestLoadConfigMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestParseRejectsInvalid(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		want string
	}{
		{"bad yaml", "drivetrain: [", "error parsing config file"},
		{"zero gearing", "drivetrain:\n  drive_gearing: 0\n", "drivetrain.drive_gearing"},
		{"dead zone", "input:\n  dead_zone: 1.5\n", "input.dead_zone"},
		{"gyro axis", "odometry:\n  gyro_axis: w\n", "odometry.gyro_axis"},
		{"gyro range", "imu:\n  gyro_range: 4\n", "imu.gyro_range"},
		{"period", "timing:\n  nominal_period_ms: 0\n", "timing.nominal_period_ms"},
		{"serial", "serial:\n  port: \"\"\n", "serial.port"},
		{"telemetry timeout", "serial:\n  telemetry_timeout_ms: -1\n", "serial.telemetry_timeout_ms"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.yaml))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestDerivedQuantities(t *testing.T) {
	cfg := Default()

	freeSpeed := 5330 * 2 * math.Pi / 60
	assert.InDelta(t, freeSpeed, cfg.FreeSpeedRadPerSec(), 1e-9)

	maxSpeed := (5 * 0.0254 / 2) * freeSpeed / 6.67
	assert.InDelta(t, maxSpeed, cfg.MaxSpeed(), 1e-9)
	assert.InDelta(t, 5.32, cfg.MaxSpeed(), 0.01)

	corner := math.Hypot(18.15*0.0254/2, 17.75*0.0254/2)
	assert.InDelta(t, maxSpeed/corner, cfg.MaxRotation(), 1e-9)

	assert.InDelta(t, math.Pi*5*0.0254/(5*6.67), cfg.DistancePerTick(), 1e-12)
}

func TestSetAndGet(t *testing.T) {
	cfg := Default()
	Set(cfg)
	assert.Same(t, cfg, Get())
}

func TestSimOptionAppliesBeforeValidation(t *testing.T) {
	data := []byte("serial:\n  port: \"\"\n")

	_, err := Parse(data)
	require.Error(t, err)

	cfg, err := Parse(data, WithSim())
	require.NoError(t, err)
	assert.True(t, cfg.Sim.Enabled)
	assert.Empty(t, cfg.Serial.Port)

	configPath := filepath.Join(t.TempDir(), "drivetrain_config.yaml")
	require.NoError(t, os.WriteFile(configPath, data, 0644))
	cfg, err = Load(configPath, WithSim())
	require.NoError(t, err)
	assert.True(t, cfg.Sim.Enabled)
}

func TestFromDefaults(t *testing.T) {
	cfg, err := FromDefaults(WithSim())
	require.NoError(t, err)
	assert.True(t, cfg.Sim.Enabled)
	assert.Equal(t, 100*time.Millisecond, cfg.TelemetryTimeout())
}
