package app

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/relabs-tech/drivetrain_computer/internal/config"
	customlog "github.com/relabs-tech/drivetrain_computer/internal/log"
)

type fixedClock float64

func (c fixedClock) Elapsed() float64 { return float64(c) }

func TestScriptedJoystickFollowsClock(t *testing.T) {
	input := config.Default().Input
	script := []ScriptStep{
		{Duration: 1, Speed: -32768},
		{Duration: 1, Rotation: 100, Slow: true},
	}

	st := (&scriptedJoystick{clock: fixedClock(0.5), input: input, script: script}).State()
	assert.Equal(t, -32768.0, st.Axis(input.SpeedAxis))
	assert.False(t, st.Button(input.SlowModeButton))

	st = (&scriptedJoystick{clock: fixedClock(1.5), input: input, script: script}).State()
	assert.Equal(t, 0.0, st.Axis(input.SpeedAxis))
	assert.Equal(t, 100.0, st.Axis(input.RotationAxis))
	assert.True(t, st.Button(input.SlowModeButton))

	// past the end the gamepad is neutral
	st = (&scriptedJoystick{clock: fixedClock(5), input: input, script: script}).State()
	assert.Equal(t, 0.0, st.Axis(input.SpeedAxis))
	assert.False(t, st.Button(input.SlowModeButton))
}

func TestRunMockConsolePrintsPoseLines(t *testing.T) {
	var out bytes.Buffer
	script := []ScriptStep{{Duration: 0.1, Speed: -32768}}

	err := RunMockConsole(context.Background(), config.Default(), customlog.Discard(), &out, script)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, "0.032, Pose = (0.00000, 0.00000, 90.00000)", lines[0])
	for _, l := range lines {
		assert.Contains(t, l, ", Pose = (")
	}
}
