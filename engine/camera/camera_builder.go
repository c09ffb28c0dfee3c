package camera

import "github.com/chewxy/math32"

const (
	defaultFov    = math32.Pi / 4
	defaultAspect = 16.0 / 9.0
	defaultNear   = 0.1
	defaultFar    = 1000.0
)

// CameraOption is a functional option for configuring a Camera.
type CameraOption func(*cameraImpl)

// NewCamera creates a new Camera with the provided options. If no controller
// is supplied a default OrbitController is created. The matrices are computed
// once before returning so the camera is usable immediately.
//
// Parameters:
//   - opts: optional CameraOption functions
//
// Returns:
//   - Camera: the configured camera
func NewCamera(opts ...CameraOption) Camera {
	c := &cameraImpl{
		fov:    defaultFov,
		aspect: defaultAspect,
		near:   defaultNear,
		far:    defaultFar,
	}

	for _, opt := range opts {
		opt(c)
	}

	if c.controller == nil {
		c.controller = NewOrbitController()
	}

	c.Update()
	return c
}

// WithController attaches an existing OrbitController to the camera.
//
// Parameters:
//   - controller: the controller to drive the camera with
//
// Returns:
//   - CameraOption: the option function
func WithController(controller OrbitController) CameraOption {
	return func(c *cameraImpl) {
		if controller == nil {
			return
		}
		c.controller = controller
	}
}

// WithFov sets the vertical field of view in radians. Ignored unless in
// (0, π).
//
// Parameters:
//   - fov: vertical field of view
//
// Returns:
//   - CameraOption: the option function
func WithFov(fov float32) CameraOption {
	return func(c *cameraImpl) {
		if fov <= 0 || fov >= math32.Pi {
			return
		}
		c.fov = fov
	}
}

// WithAspect sets the projection aspect ratio. Ignored unless positive.
//
// Parameters:
//   - aspect: width / height
//
// Returns:
//   - CameraOption: the option function
func WithAspect(aspect float32) CameraOption {
	return func(c *cameraImpl) {
		if aspect <= 0 {
			return
		}
		c.aspect = aspect
	}
}

// WithClipPlanes sets the near and far clip distances. Ignored unless
// 0 < near < far.
//
// Parameters:
//   - near: near clip distance
//   - far: far clip distance
//
// Returns:
//   - CameraOption: the option function
func WithClipPlanes(near, far float32) CameraOption {
	return func(c *cameraImpl) {
		if near <= 0 || near >= far {
			return
		}
		c.near = near
		c.far = far
	}
}
