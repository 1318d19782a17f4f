package odometry

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPoseString(t *testing.T) {
	p := Pose2D{X: 0.000001, Y: -1.5, Heading: 90}
	assert.Equal(t, "(0.00000, -1.50000, 90.00000)", p.String())
}

func TestFormatPoseLine(t *testing.T) {
	p := Pose2D{X: 0, Y: 1, Heading: 90}
	assert.Equal(t, "0.032, Pose = (0.00000, 1.00000, 90.00000)", FormatPoseLine(0.032, p))
	assert.Equal(t, "12.0, Pose = (0.00000, 1.00000, 90.00000)", FormatPoseLine(12, p))
	assert.Equal(t, "0.0, Pose = (0.00000, 1.00000, 90.00000)", FormatPoseLine(0, p))
	assert.Equal(t, "1.5, Pose = (0.00000, 1.00000, 90.00000)", FormatPoseLine(1.5, p))
}
