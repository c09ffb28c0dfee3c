package camera

// Pose is a spherical camera position about the orbit target: Radius is the
// distance from the target, Theta the azimuth around the Y axis (unbounded,
// wrapping), Phi the polar angle from the +Y axis (clamped strictly inside
// (0, π) so the look direction never degenerates at the poles).
type Pose struct {
	Radius float32
	Theta  float32
	Phi    float32
}

// OrbitController translates discrete pointer/wheel input into a smoothly
// animated orbital camera pose. Input handlers mutate an immediate, clamped
// target pose; Update advances a damped current pose toward it each tick.
// Separating the two removes jitter from noisy pointer input and gives a
// single damping knob.
//
// None of these operations can fail; out-of-range inputs are clamped, not
// rejected.
type OrbitController interface {
	// BeginDrag records (x, y) as the drag anchor and marks dragging active.
	// No effect if a drag is already active; only button-down transitions
	// start a drag.
	//
	// Parameters:
	//   - x, y: pointer position in pixels
	BeginDrag(x, y float32)

	// Drag rotates the target pose by the pointer delta since the last
	// recorded point and advances the anchor. No-op unless dragging is
	// active. Angular speed is normalized by the viewport height so drags
	// are resolution-independent; the polar angle is clamped afterwards.
	//
	// Parameters:
	//   - x, y: pointer position in pixels
	Drag(x, y float32)

	// EndDrag marks dragging inactive. Idempotent.
	EndDrag()

	// Dragging reports whether a drag is currently active.
	//
	// Returns:
	//   - bool: true while the primary button is held
	Dragging() bool

	// Zoom adjusts the target radius by delta scaled by the zoom speed,
	// clamped to the radius bounds. Positive delta (scroll down/away)
	// increases distance, zooming out.
	//
	// Parameters:
	//   - delta: wheel delta
	Zoom(delta float32)

	// Update advances the current pose toward the target pose by the damping
	// fraction, one step of first-order exponential smoothing per call, so
	// convergence speed depends on the tick rate. Call once per engine tick.
	Update()

	// Position returns the camera's world-space position, derived from the
	// current (damped) pose about the orbit target.
	//
	// Returns:
	//   - x, y, z: world-space camera position
	Position() (x, y, z float32)

	// Target returns the orbit/look-at point.
	//
	// Returns:
	//   - x, y, z: world-space target position
	Target() (x, y, z float32)

	// SetTarget sets the orbit/look-at point. The spherical poses are
	// unchanged; the derived position shifts with the target.
	//
	// Parameters:
	//   - x, y, z: world-space coordinates
	SetTarget(x, y, z float32)

	// Pose returns the current (damped) pose.
	//
	// Returns:
	//   - Pose: the pose rendered this frame
	Pose() Pose

	// TargetPose returns the target pose input handlers steer toward.
	//
	// Returns:
	//   - Pose: the clamped target pose
	TargetPose() Pose

	// Sync re-derives both the current and target pose from a world-space
	// camera position, clamped to the controller's bounds. This is the only
	// way external camera repositioning becomes visible to the controller;
	// callers that move the camera without Sync deliberately leave the
	// controller steering from its last known pose.
	//
	// Parameters:
	//   - x, y, z: world-space camera position
	Sync(x, y, z float32)

	// SetViewportHeight sets the viewport height in pixels used to normalize
	// drag rotation speed. Values below 1 are ignored.
	//
	// Parameters:
	//   - height: viewport height in pixels
	SetViewportHeight(height int)

	// MinRadius returns the minimum allowed orbit radius.
	//
	// Returns:
	//   - float32: minimum zoom distance
	MinRadius() float32

	// MaxRadius returns the maximum allowed orbit radius.
	//
	// Returns:
	//   - float32: maximum zoom distance
	MaxRadius() float32

	// MinPolar returns the minimum allowed polar angle in radians.
	//
	// Returns:
	//   - float32: minimum polar angle (> 0)
	MinPolar() float32

	// MaxPolar returns the maximum allowed polar angle in radians.
	//
	// Returns:
	//   - float32: maximum polar angle (< π)
	MaxPolar() float32

	// RotateSpeed returns the drag rotation speed multiplier.
	//
	// Returns:
	//   - float32: rotation speed constant
	RotateSpeed() float32

	// ZoomSpeed returns the wheel zoom speed multiplier.
	//
	// Returns:
	//   - float32: zoom speed constant
	ZoomSpeed() float32

	// Damping returns the per-tick interpolation fraction the current pose
	// chases the target pose with. Lower values are smoother and slower.
	//
	// Returns:
	//   - float32: damping fraction in (0, 1]
	Damping() float32
}
