package common

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSphericalRoundTrip(t *testing.T) {
	cases := []struct {
		name                string
		radius, theta, phi  float32
	}{
		{"overhead-ish", 10, 0.5, 0.3},
		{"equator", 250, -1.2, float32(math.Pi / 2)},
		{"near-pole", 5, 2.9, 0.05},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			x, y, z := SphericalToCartesian(tc.radius, tc.theta, tc.phi)
			r, theta, phi := CartesianToSpherical(x, y, z)
			assert.InDelta(t, tc.radius, r, 1e-3)
			assert.InDelta(t, tc.theta, theta, 1e-4)
			assert.InDelta(t, tc.phi, phi, 1e-4)
		})
	}
}

func TestSphericalToCartesianAxes(t *testing.T) {
	// phi = pi/2, theta = 0 puts the point on the +Z axis.
	x, y, z := SphericalToCartesian(1, 0, float32(math.Pi/2))
	assert.InDelta(t, 0, x, 1e-6)
	assert.InDelta(t, 0, y, 1e-6)
	assert.InDelta(t, 1, z, 1e-6)

	// phi = 0 points straight up regardless of theta.
	x, y, z = SphericalToCartesian(3, 1.7, 0)
	assert.InDelta(t, 0, x, 1e-5)
	assert.InDelta(t, 3, y, 1e-5)
	assert.InDelta(t, 0, z, 1e-5)
}

func TestLerpClamp(t *testing.T) {
	assert.InDelta(t, 5, Lerp(0, 10, 0.5), 1e-6)
	assert.InDelta(t, 0, Lerp(0, 10, 0), 1e-6)
	assert.InDelta(t, 10, Lerp(0, 10, 1), 1e-6)

	assert.EqualValues(t, 1, Clamp(-3, 1, 2))
	assert.EqualValues(t, 2, Clamp(7, 1, 2))
	assert.EqualValues(t, 1.5, Clamp(1.5, 1, 2))
}

func TestLookAtTransformsEyeToOrigin(t *testing.T) {
	var view [16]float32
	LookAt(view[:], 0, 0, 5, 0, 0, 0, 0, 1, 0)

	// The eye position must map to the view-space origin.
	ex, ey, ez := transformPoint(view[:], 0, 0, 5)
	assert.InDelta(t, 0, ex, 1e-5)
	assert.InDelta(t, 0, ey, 1e-5)
	assert.InDelta(t, 0, ez, 1e-5)

	// The look target sits on the negative view-space Z axis.
	tx, ty, tz := transformPoint(view[:], 0, 0, 0)
	assert.InDelta(t, 0, tx, 1e-5)
	assert.InDelta(t, 0, ty, 1e-5)
	assert.InDelta(t, -5, tz, 1e-5)
}

func TestInvert4RoundTrip(t *testing.T) {
	var proj, inv, id [16]float32
	Perspective(proj[:], float32(math.Pi/4), 16.0/9.0, 0.1, 100)
	require.True(t, Invert4(inv[:], proj[:]))

	Mul4(id[:], proj[:], inv[:])
	var expected [16]float32
	Identity(expected[:])
	for i := range id {
		assert.InDelta(t, expected[i], id[i], 1e-4)
	}
}

func TestInvert4Singular(t *testing.T) {
	var zero, out [16]float32
	out[3] = 42
	assert.False(t, Invert4(out[:], zero[:]))
	assert.EqualValues(t, 42, out[3]) // output untouched on failure
}

// transformPoint applies a column-major 4x4 matrix to a point (w = 1).
func transformPoint(m []float32, x, y, z float32) (float32, float32, float32) {
	ox := m[0]*x + m[4]*y + m[8]*z + m[12]
	oy := m[1]*x + m[5]*y + m[9]*z + m[13]
	oz := m[2]*x + m[6]*y + m[10]*z + m[14]
	return ox, oy, oz
}
