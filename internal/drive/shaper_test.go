package drive

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestShapeAxisZero(t *testing.T) {
	v := ShapeAxis(0)
	assert.Equal(t, 0.0, v)
	assert.False(t, math.Signbit(v))
}

func TestShapeAxisFullDeflection(t *testing.T) {
	// Forward on the stick reads negative.
	assert.InDelta(t, 1.0, ShapeAxis(-32768), 1e-12)
	assert.InDelta(t, -1.0, ShapeAxis(32768), 1e-12)
}

func TestShapeAxisSquareLaw(t *testing.T) {
	assert.InDelta(t, 0.25, ShapeAxis(-16384), 1e-12)
	assert.InDelta(t, -0.25, ShapeAxis(16384), 1e-12)
}

func TestShapeAxisDeadZone(t *testing.T) {
	// 0.14^2 = 0.0196, just inside the dead zone.
	raw := 0.14 * DefaultMaxJoy
	assert.Equal(t, 0.0, ShapeAxis(raw))
	assert.Equal(t, 0.0, ShapeAxis(-raw))

	// 0.15^2 = 0.0225, outside.
	raw = 0.15 * DefaultMaxJoy
	assert.InDelta(t, -0.0225, ShapeAxis(raw), 1e-12)
	assert.InDelta(t, 0.0225, ShapeAxis(-raw), 1e-12)
}

func TestShapeAxisPreservesSign(t *testing.T) {
	for raw := -32768.0; raw <= 32768; raw += 512 {
		v := ShapeAxis(raw)
		if v == 0 {
			continue
		}
		assert.GreaterOrEqual(t, math.Abs(v), DefaultDeadZone)
		assert.Equal(t, raw < 0, v > 0, "raw=%v v=%v", raw, v)
	}
}

func TestShaperCustomScale(t *testing.T) {
	s := Shaper{MaxJoy: 100, DeadZone: 0.1}
	assert.Equal(t, 0.0, s.Shape(-30))
	assert.InDelta(t, 0.16, s.Shape(-40), 1e-12)
}
