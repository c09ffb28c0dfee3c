package camera

import (
	"testing"

	"github.com/chewxy/math32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDragIgnoredWhenInactive(t *testing.T) {
	ctrl := NewOrbitController()
	before := ctrl.TargetPose()

	ctrl.Drag(100, 100)
	ctrl.Drag(350, 80)

	assert.Equal(t, before, ctrl.TargetPose())
	assert.False(t, ctrl.Dragging())
}

func TestDragRotatesByPointerDelta(t *testing.T) {
	const height = 600
	ctrl := NewOrbitController(
		WithViewportHeight(height),
		WithRotateSpeed(1.5),
	)
	start := ctrl.TargetPose()

	ctrl.BeginDrag(100, 200)
	ctrl.Drag(130, 190)

	scale := ctrl.RotateSpeed() * (math32.Pi / float32(height))
	got := ctrl.TargetPose()
	assert.InDelta(t, start.Theta-30*scale, got.Theta, 1e-5)
	assert.InDelta(t, start.Phi-(-10)*scale, got.Phi, 1e-5)
	assert.InDelta(t, start.Radius, got.Radius, 1e-6)

	// The anchor advances with each Drag: a second identical position is a
	// zero delta.
	mid := ctrl.TargetPose()
	ctrl.Drag(130, 190)
	assert.Equal(t, mid, ctrl.TargetPose())
}

func TestBeginDragDoesNotRestart(t *testing.T) {
	ctrl := NewOrbitController(WithViewportHeight(600))

	ctrl.BeginDrag(0, 0)
	ctrl.Drag(10, 0)
	afterFirst := ctrl.TargetPose()

	// A second BeginDrag while active must not move the anchor; dragging
	// from (10, 0) to (10, 0) is a zero delta.
	ctrl.BeginDrag(500, 500)
	ctrl.Drag(10, 0)
	assert.Equal(t, afterFirst, ctrl.TargetPose())
}

func TestEndDragIdempotent(t *testing.T) {
	ctrl := NewOrbitController()
	ctrl.BeginDrag(0, 0)
	require.True(t, ctrl.Dragging())

	ctrl.EndDrag()
	ctrl.EndDrag()
	assert.False(t, ctrl.Dragging())

	before := ctrl.TargetPose()
	ctrl.Drag(50, 50)
	assert.Equal(t, before, ctrl.TargetPose())
}

func TestPolarClampDuringDrag(t *testing.T) {
	ctrl := NewOrbitController(WithViewportHeight(100))

	// Drag far enough downward to push phi well past the upper bound.
	ctrl.BeginDrag(0, 0)
	ctrl.Drag(0, -10000)
	assert.InDelta(t, ctrl.MaxPolar(), ctrl.TargetPose().Phi, 1e-6)
	assert.Greater(t, math32.Pi, ctrl.TargetPose().Phi)

	// And the other way.
	ctrl.Drag(0, 10000)
	assert.InDelta(t, ctrl.MinPolar(), ctrl.TargetPose().Phi, 1e-6)
	assert.Less(t, float32(0), ctrl.TargetPose().Phi)
}

func TestThetaUnbounded(t *testing.T) {
	ctrl := NewOrbitController(WithViewportHeight(100))

	ctrl.BeginDrag(0, 0)
	ctrl.Drag(-100000, 0)
	assert.Greater(t, ctrl.TargetPose().Theta, float32(100))
}

func TestZoomScalesAndClamps(t *testing.T) {
	ctrl := NewOrbitController(
		WithRadius(10),
		WithRadiusBounds(2, 50),
		WithZoomSpeed(0.5),
	)

	ctrl.Zoom(4)
	assert.InDelta(t, 12, ctrl.TargetPose().Radius, 1e-5)

	ctrl.Zoom(-100)
	assert.InDelta(t, ctrl.MinRadius(), ctrl.TargetPose().Radius, 1e-5)

	ctrl.Zoom(10000)
	assert.InDelta(t, ctrl.MaxRadius(), ctrl.TargetPose().Radius, 1e-5)
}

func TestUpdateConvergesMonotonically(t *testing.T) {
	ctrl := NewOrbitController(
		WithRadius(10),
		WithRadiusBounds(1, 100),
		WithDamping(0.2),
	)
	ctrl.Zoom(40) // target radius 20 at default zoom speed 0.25

	target := ctrl.TargetPose().Radius
	prev := ctrl.Pose().Radius
	prevGap := math32.Abs(target - prev)
	for i := 0; i < 200; i++ {
		ctrl.Update()
		cur := ctrl.Pose().Radius
		gap := math32.Abs(target - cur)
		assert.GreaterOrEqual(t, cur, prev, "radius must not overshoot backwards")
		assert.LessOrEqual(t, gap, prevGap, "gap to target must shrink every tick")
		prev, prevGap = cur, gap
	}
	assert.InDelta(t, target, ctrl.Pose().Radius, 1e-3)
}

func TestHigherDampingConvergesFaster(t *testing.T) {
	converge := func(damping float32) float32 {
		ctrl := NewOrbitController(WithRadius(10), WithDamping(damping))
		ctrl.Zoom(40)
		for i := 0; i < 10; i++ {
			ctrl.Update()
		}
		return math32.Abs(ctrl.TargetPose().Radius - ctrl.Pose().Radius)
	}

	assert.Less(t, converge(0.3), converge(0.05))
}

func TestControllerStartsAtRest(t *testing.T) {
	ctrl := NewOrbitController(WithPose(Pose{Radius: 7, Theta: 1, Phi: 1.2}))
	assert.Equal(t, ctrl.TargetPose(), ctrl.Pose())

	before := ctrl.Pose()
	for i := 0; i < 5; i++ {
		ctrl.Update()
	}
	assert.Equal(t, before, ctrl.Pose())
}

func TestSyncAdoptsExternalPosition(t *testing.T) {
	ctrl := NewOrbitController(WithTarget(1, 2, 3), WithRadiusBounds(0.5, 100))

	// Put the camera 10 units along +Z from the target.
	ctrl.Sync(1, 2, 13)

	pose := ctrl.Pose()
	assert.InDelta(t, 10, pose.Radius, 1e-4)
	assert.InDelta(t, 0, pose.Theta, 1e-4)
	assert.InDelta(t, math32.Pi/2, pose.Phi, 1e-4)
	assert.Equal(t, pose, ctrl.TargetPose())

	x, y, z := ctrl.Position()
	assert.InDelta(t, 1, x, 1e-3)
	assert.InDelta(t, 2, y, 1e-3)
	assert.InDelta(t, 13, z, 1e-3)
}

func TestSyncClampsToBounds(t *testing.T) {
	ctrl := NewOrbitController(WithRadiusBounds(1, 5))

	ctrl.Sync(0, 0, 50)
	assert.InDelta(t, 5, ctrl.Pose().Radius, 1e-5)

	// Directly above the target lands on the polar clamp, not phi = 0.
	ctrl.Sync(0, 3, 0)
	assert.InDelta(t, ctrl.MinPolar(), ctrl.Pose().Phi, 1e-5)
}

func TestSetTargetShiftsPosition(t *testing.T) {
	ctrl := NewOrbitController(WithPose(Pose{Radius: 4, Theta: 0, Phi: math32.Pi / 2}))

	x0, y0, z0 := ctrl.Position()
	ctrl.SetTarget(10, 0, 0)
	x1, y1, z1 := ctrl.Position()

	assert.InDelta(t, x0+10, x1, 1e-5)
	assert.InDelta(t, y0, y1, 1e-5)
	assert.InDelta(t, z0, z1, 1e-5)
}

func TestViewportHeightNormalizesDrag(t *testing.T) {
	sweep := func(height int) float32 {
		ctrl := NewOrbitController(WithViewportHeight(height))
		start := ctrl.TargetPose().Theta
		ctrl.BeginDrag(0, 0)
		ctrl.Drag(float32(height), 0)
		return math32.Abs(ctrl.TargetPose().Theta - start)
	}

	// A drag spanning the viewport height sweeps the same angle at any
	// resolution.
	assert.InDelta(t, sweep(480), sweep(1440), 1e-4)
	assert.InDelta(t, math32.Pi, sweep(480), 1e-4)
}

func TestInvalidOptionsFallBackToDefaults(t *testing.T) {
	ctrl := NewOrbitController(
		WithDamping(0),
		WithDamping(2),
		WithRotateSpeed(-1),
		WithZoomSpeed(0),
		WithRadiusBounds(5, 1),
		WithViewportHeight(0),
	)

	assert.InDelta(t, defaultDamping, ctrl.Damping(), 1e-6)
	assert.InDelta(t, defaultRotateSpeed, ctrl.RotateSpeed(), 1e-6)
	assert.InDelta(t, defaultZoomSpeed, ctrl.ZoomSpeed(), 1e-6)
	assert.InDelta(t, defaultMinRadius, ctrl.MinRadius(), 1e-6)
	assert.InDelta(t, defaultMaxRadius, ctrl.MaxRadius(), 1e-6)
}
