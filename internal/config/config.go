// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package config

import (
	"fmt"
	"math"
	"os"
	"sync"
	"time"

	"gopkg.in/yaml.v3"
)

const inchToMeter = 0.0254

// Config holds all application configuration values.
type Config struct {
	Drivetrain DrivetrainConfig `yaml:"drivetrain" json:"drivetrain"`
	Input      InputConfig      `yaml:"input" json:"input"`
	Timing     TimingConfig     `yaml:"timing" json:"timing"`
	Odometry   OdometryConfig   `yaml:"odometry" json:"odometry"`
	MQTT       MQTTConfig       `yaml:"mqtt" json:"mqtt"`
	Serial     SerialConfig     `yaml:"serial" json:"serial"`
	IMU        IMUConfig        `yaml:"imu" json:"imu"`
	Web        WebConfig        `yaml:"web" json:"web"`
	Display    DisplayConfig    `yaml:"display" json:"display"`
	Logging    LoggingConfig    `yaml:"logging" json:"logging"`
	Sim        SimConfig        `yaml:"sim" json:"sim"`
}

// DrivetrainConfig describes the physical drivetrain. Lengths are metres.
type DrivetrainConfig struct {
	WheelBase         float64 `yaml:"wheel_base_m" json:"wheel_base_m"`
	TrackWidth        float64 `yaml:"track_width_m" json:"track_width_m"`
	WheelDiameter     float64 `yaml:"wheel_diameter_m" json:"wheel_diameter_m"`
	Gearing           float64 `yaml:"drive_gearing" json:"drive_gearing"`
	MotorFreeSpeedRPM float64 `yaml:"motor_free_speed_rpm" json:"motor_free_speed_rpm"`
	MaxAccel          float64 `yaml:"max_accel_mps2" json:"max_accel_mps2"`
	EncoderCPR        float64 `yaml:"encoder_cpr" json:"encoder_cpr"`
}

// InputConfig controls joystick shaping and the axis/button mapping.
type InputConfig struct {
	MaxJoy         float64 `yaml:"max_joy" json:"max_joy"`
	DeadZone       float64 `yaml:"dead_zone" json:"dead_zone"`
	SlowModeFactor float64 `yaml:"slow_mode_factor" json:"slow_mode_factor"`
	SpeedAxis      int     `yaml:"speed_axis" json:"speed_axis"`
	RotationAxis   int     `yaml:"rotation_axis" json:"rotation_axis"`
	SlowModeButton int     `yaml:"slow_mode_button" json:"slow_mode_button"`
}

// TimingConfig holds the control period.
type TimingConfig struct {
	NominalPeriodMS   int  `yaml:"nominal_period_ms" json:"nominal_period_ms"`
	UseMeasuredPeriod bool `yaml:"use_measured_period" json:"use_measured_period"`
	SensorSamplingMS  int  `yaml:"sensor_sampling_ms" json:"sensor_sampling_ms"`
}

// OdometryConfig holds the start pose and gyro axis selection.
type OdometryConfig struct {
	StartX       float64 `yaml:"start_x" json:"start_x"`
	StartY       float64 `yaml:"start_y" json:"start_y"`
	StartHeading float64 `yaml:"start_heading_deg" json:"start_heading_deg"`
	// GyroAxis is the gyro component about the vertical axis: "x", "y" or "z".
	GyroAxis string `yaml:"gyro_axis" json:"gyro_axis"`
}

// MQTTConfig holds broker and topic settings.
type MQTTConfig struct {
	Broker          string `yaml:"broker" json:"broker"`
	ClientIDDrive   string `yaml:"client_id_drive" json:"client_id_drive"`
	ClientIDConsole string `yaml:"client_id_console" json:"client_id_console"`
	ClientIDWeb     string `yaml:"client_id_web" json:"client_id_web"`
	ClientIDDisplay string `yaml:"client_id_display" json:"client_id_display"`
	TopicPose       string `yaml:"topic_pose" json:"topic_pose"`
	TopicCommand    string `yaml:"topic_command" json:"topic_command"`
}

// SerialConfig is the link to the motor/encoder controller.
type SerialConfig struct {
	Port     string `yaml:"port" json:"port"`
	BaudRate int    `yaml:"baud_rate" json:"baud_rate"`
	// TelemetryTimeoutMS is the oldest telemetry the loop will use; 0 disables the check.
	TelemetryTimeoutMS int `yaml:"telemetry_timeout_ms" json:"telemetry_timeout_ms"`
}

// IMUConfig selects an optional SPI gyro that overrides the link gyro.
type IMUConfig struct {
	Enabled   bool   `yaml:"enabled" json:"enabled"`
	SPIDevice string `yaml:"spi_device" json:"spi_device"`
	CSPin     string `yaml:"cs_pin" json:"cs_pin"`
	// GyroRange: 0=±250°/s, 1=±500°/s, 2=±1000°/s, 3=±2000°/s
	GyroRange byte `yaml:"gyro_range" json:"gyro_range"`
}

// WebConfig holds the HTTP listeners.
type WebConfig struct {
	JoystickAddr string `yaml:"joystick_addr" json:"joystick_addr"`
	PoseAddr     string `yaml:"pose_addr" json:"pose_addr"`
	StaticDir    string `yaml:"static_dir" json:"static_dir"`
}

// DisplayConfig holds the OLED refresh interval.
type DisplayConfig struct {
	UpdateIntervalMS int `yaml:"update_interval_ms" json:"update_interval_ms"`
}

// LoggingConfig holds log level and optional file directory.
type LoggingConfig struct {
	Level  string `yaml:"level" json:"level"`
	LogDir string `yaml:"log_dir,omitempty" json:"log_dir,omitempty"`
}

// SimConfig enables the built-in kinematic plant instead of the serial link.
type SimConfig struct {
	Enabled bool `yaml:"enabled" json:"enabled"`
}

var (
	globalConfig *Config
	configOnce   sync.Once
	configMu     sync.RWMutex
)

// Default returns the configuration of the reference drivetrain.
func Default() *Config {
	return &Config{
		Drivetrain: DrivetrainConfig{
			WheelBase:         18.15 * inchToMeter,
			TrackWidth:        17.75 * inchToMeter,
			WheelDiameter:     5.0 * inchToMeter,
			Gearing:           6.67,
			MotorFreeSpeedRPM: 5330,
			MaxAccel:          9.8,
			EncoderCPR:        5.0,
		},
		Input: InputConfig{
			MaxJoy:         32768.0,
			DeadZone:       0.02,
			SlowModeFactor: 0.5,
			SpeedAxis:      2,
			RotationAxis:   3,
			SlowModeButton: 1,
		},
		Timing: TimingConfig{
			NominalPeriodMS:   32,
			UseMeasuredPeriod: true,
			SensorSamplingMS:  20,
		},
		Odometry: OdometryConfig{
			StartHeading: 90,
			GyroAxis:     "y",
		},
		MQTT: MQTTConfig{
			Broker:          "tcp://localhost:1883",
			ClientIDDrive:   "drivetrain-loop",
			ClientIDConsole: "drivetrain-console",
			ClientIDWeb:     "drivetrain-web",
			ClientIDDisplay: "drivetrain-display",
			TopicPose:       "drivetrain/pose",
			TopicCommand:    "drivetrain/command",
		},
		Serial: SerialConfig{
			Port:               "/dev/ttyACM0",
			BaudRate:           115200,
			TelemetryTimeoutMS: 100,
		},
		IMU: IMUConfig{
			SPIDevice: "/dev/spidev0.0",
			CSPin:     "8",
		},
		Web: WebConfig{
			JoystickAddr: ":8081",
			PoseAddr:     ":8080",
			StaticDir:    "web",
		},
		Display: DisplayConfig{
			UpdateIntervalMS: 200,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Option adjusts a configuration after the file is decoded and before it is
// validated, e.g. command line overrides.
type Option func(*Config)

// WithSim forces the simulated plant on.
func WithSim() Option {
	return func(c *Config) {
		c.Sim.Enabled = true
	}
}

// Load reads the YAML configuration file on top of Default and validates it.
func Load(configPath string, opts ...Option) (*Config, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	return Parse(data, opts...)
}

// Parse decodes YAML bytes on top of Default and validates the result.
func Parse(data []byte, opts ...Option) (*Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("error parsing config file: %w", err)
	}
	return finish(cfg, opts)
}

// FromDefaults validates Default with opts applied.
func FromDefaults(opts ...Option) (*Config, error) {
	return finish(Default(), opts)
}

func finish(cfg *Config, opts []Option) (*Config, error) {
	for _, opt := range opts {
		opt(cfg)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// validate checks that all required fields are set and in range.
func (c *Config) validate() error {
	d := c.Drivetrain
	if d.WheelDiameter <= 0 {
		return fmt.Errorf("drivetrain.wheel_diameter_m must be positive, got %v", d.WheelDiameter)
	}
	if d.Gearing <= 0 {
		return fmt.Errorf("drivetrain.drive_gearing must be positive, got %v", d.Gearing)
	}
	if d.MotorFreeSpeedRPM <= 0 {
		return fmt.Errorf("drivetrain.motor_free_speed_rpm must be positive, got %v", d.MotorFreeSpeedRPM)
	}
	if d.MaxAccel <= 0 {
		return fmt.Errorf("drivetrain.max_accel_mps2 must be positive, got %v", d.MaxAccel)
	}
	if d.EncoderCPR <= 0 {
		return fmt.Errorf("drivetrain.encoder_cpr must be positive, got %v", d.EncoderCPR)
	}
	if d.TrackWidth <= 0 {
		return fmt.Errorf("drivetrain.track_width_m must be positive, got %v", d.TrackWidth)
	}
	if c.Input.MaxJoy <= 0 {
		return fmt.Errorf("input.max_joy must be positive, got %v", c.Input.MaxJoy)
	}
	if c.Input.DeadZone < 0 || c.Input.DeadZone >= 1 {
		return fmt.Errorf("input.dead_zone must be in [0, 1), got %v", c.Input.DeadZone)
	}
	if c.Input.SlowModeFactor <= 0 || c.Input.SlowModeFactor > 1 {
		return fmt.Errorf("input.slow_mode_factor must be in (0, 1], got %v", c.Input.SlowModeFactor)
	}
	if c.Input.SpeedAxis < 0 || c.Input.RotationAxis < 0 {
		return fmt.Errorf("input axis indices must not be negative")
	}
	if c.Timing.NominalPeriodMS <= 0 {
		return fmt.Errorf("timing.nominal_period_ms is required")
	}
	switch c.Odometry.GyroAxis {
	case "x", "y", "z":
	default:
		return fmt.Errorf("odometry.gyro_axis must be x, y or z, got %q", c.Odometry.GyroAxis)
	}
	if c.IMU.GyroRange > 3 {
		return fmt.Errorf("imu.gyro_range must be 0-3 (0=±250°/s, 1=±500°/s, 2=±1000°/s, 3=±2000°/s), got %d", c.IMU.GyroRange)
	}
	if c.MQTT.Broker == "" {
		return fmt.Errorf("mqtt.broker is required")
	}
	if c.Serial.TelemetryTimeoutMS < 0 {
		return fmt.Errorf("serial.telemetry_timeout_ms must not be negative, got %d", c.Serial.TelemetryTimeoutMS)
	}
	if !c.Sim.Enabled && c.Serial.Port == "" {
		return fmt.Errorf("serial.port is required unless sim.enabled is set")
	}
	return nil
}

// FreeSpeedRadPerSec is the motor free speed in rad/s.
func (c *Config) FreeSpeedRadPerSec() float64 {
	return c.Drivetrain.MotorFreeSpeedRPM * 2 * math.Pi / 60.0
}

// MaxSpeed is the linear wheel speed in m/s at a command of 1.0:
// radius * free speed / gear ratio.
func (c *Config) MaxSpeed() float64 {
	return (c.Drivetrain.WheelDiameter / 2.0) * c.FreeSpeedRadPerSec() / c.Drivetrain.Gearing
}

// MaxRotation treats the robot as a point mass on a circle through the wheel
// contact points: tangential speed over the corner radius, in rad/s.
func (c *Config) MaxRotation() float64 {
	return c.MaxSpeed() / math.Hypot(c.Drivetrain.WheelBase/2, c.Drivetrain.TrackWidth/2)
}

// DistancePerTick converts encoder ticks to metres of travel.
func (c *Config) DistancePerTick() float64 {
	return (math.Pi * c.Drivetrain.WheelDiameter) / (c.Drivetrain.EncoderCPR * c.Drivetrain.Gearing)
}

// NominalPeriod is the configured control period.
func (c *Config) NominalPeriod() time.Duration {
	return time.Duration(c.Timing.NominalPeriodMS) * time.Millisecond
}

// TelemetryTimeout is the maximum age of link telemetry.
func (c *Config) TelemetryTimeout() time.Duration {
	return time.Duration(c.Serial.TelemetryTimeoutMS) * time.Millisecond
}

// InitGlobal initializes the global configuration from file.
// Uses sync.Once to ensure this only runs once, even if called multiple times.
func InitGlobal(configPath string, opts ...Option) error {
	var err error
	configOnce.Do(func() {
		configMu.Lock()
		defer configMu.Unlock()
		globalConfig, err = Load(configPath, opts...)
	})
	return err
}

// Set installs cfg as the global configuration. Used by binaries that build
// their configuration from flags instead of a file.
func Set(cfg *Config) {
	configOnce.Do(func() {})
	configMu.Lock()
	defer configMu.Unlock()
	globalConfig = cfg
}

// Get returns the global configuration instance.
// InitGlobal must be called first, or this will return nil.
func Get() *Config {
	configMu.RLock()
	defer configMu.RUnlock()
	return globalConfig
}
