package camera

import (
	"github.com/chewxy/math32"

	"github.com/Carmen-Shannon/oxy-view/common"
)

const (
	defaultRadius         = 5.0
	defaultPhi            = math32.Pi / 2
	defaultMinRadius      = 0.5
	defaultMaxRadius      = 100.0
	defaultPolarMargin    = 0.05
	defaultDamping        = 0.1
	defaultRotateSpeed    = 1.0
	defaultZoomSpeed      = 0.25
	defaultViewportHeight = 720
)

// OrbitControllerOption is a functional option for configuring an OrbitController.
type OrbitControllerOption func(*orbitControllerImpl)

// NewOrbitController creates a new OrbitController with the provided options.
// The controller starts at rest: the current and target pose are equal, so the
// camera holds still until input arrives.
//
// Parameters:
//   - opts: optional OrbitControllerOption functions
//
// Returns:
//   - OrbitController: the configured controller
func NewOrbitController(opts ...OrbitControllerOption) OrbitController {
	c := &orbitControllerImpl{
		target: Pose{
			Radius: defaultRadius,
			Phi:    defaultPhi,
		},
		minRadius:      defaultMinRadius,
		maxRadius:      defaultMaxRadius,
		minPolar:       defaultPolarMargin,
		maxPolar:       math32.Pi - defaultPolarMargin,
		rotateSpeed:    defaultRotateSpeed,
		zoomSpeed:      defaultZoomSpeed,
		damping:        defaultDamping,
		viewportHeight: defaultViewportHeight,
	}

	for _, opt := range opts {
		opt(c)
	}

	c.clampTargetLocked()
	c.current = c.target
	return c
}

// WithPose sets the initial pose of the controller.
//
// Parameters:
//   - pose: the starting spherical pose
//
// Returns:
//   - OrbitControllerOption: the option function
func WithPose(pose Pose) OrbitControllerOption {
	return func(c *orbitControllerImpl) {
		c.target = pose
	}
}

// WithRadius sets the initial orbit radius.
//
// Parameters:
//   - radius: distance from the orbit target
//
// Returns:
//   - OrbitControllerOption: the option function
func WithRadius(radius float32) OrbitControllerOption {
	return func(c *orbitControllerImpl) {
		c.target.Radius = radius
	}
}

// WithTarget sets the orbit/look-at point.
//
// Parameters:
//   - x, y, z: world-space coordinates
//
// Returns:
//   - OrbitControllerOption: the option function
func WithTarget(x, y, z float32) OrbitControllerOption {
	return func(c *orbitControllerImpl) {
		c.lookX = x
		c.lookY = y
		c.lookZ = z
	}
}

// WithRadiusBounds sets the minimum and maximum orbit radius. Ignored unless
// 0 < minimum <= maximum.
//
// Parameters:
//   - minimum: closest allowed zoom distance
//   - maximum: farthest allowed zoom distance
//
// Returns:
//   - OrbitControllerOption: the option function
func WithRadiusBounds(minimum, maximum float32) OrbitControllerOption {
	return func(c *orbitControllerImpl) {
		if minimum <= 0 || minimum > maximum {
			return
		}
		c.minRadius = minimum
		c.maxRadius = maximum
	}
}

// WithPolarBounds sets the minimum and maximum polar angle in radians. Values
// are clamped strictly inside (0, π); ignored unless minimum <= maximum.
//
// Parameters:
//   - minimum: smallest allowed polar angle
//   - maximum: largest allowed polar angle
//
// Returns:
//   - OrbitControllerOption: the option function
func WithPolarBounds(minimum, maximum float32) OrbitControllerOption {
	return func(c *orbitControllerImpl) {
		if minimum > maximum {
			return
		}
		c.minPolar = common.Clamp(minimum, 1e-4, math32.Pi-1e-4)
		c.maxPolar = common.Clamp(maximum, c.minPolar, math32.Pi-1e-4)
	}
}

// WithDamping sets the per-tick interpolation fraction. Ignored unless in
// (0, 1].
//
// Parameters:
//   - damping: interpolation fraction
//
// Returns:
//   - OrbitControllerOption: the option function
func WithDamping(damping float32) OrbitControllerOption {
	return func(c *orbitControllerImpl) {
		if damping <= 0 || damping > 1 {
			return
		}
		c.damping = damping
	}
}

// WithRotateSpeed sets the drag rotation speed multiplier. Ignored unless
// positive.
//
// Parameters:
//   - speed: rotation speed constant
//
// Returns:
//   - OrbitControllerOption: the option function
func WithRotateSpeed(speed float32) OrbitControllerOption {
	return func(c *orbitControllerImpl) {
		if speed <= 0 {
			return
		}
		c.rotateSpeed = speed
	}
}

// WithZoomSpeed sets the wheel zoom speed multiplier. Ignored unless positive.
//
// Parameters:
//   - speed: zoom speed constant
//
// Returns:
//   - OrbitControllerOption: the option function
func WithZoomSpeed(speed float32) OrbitControllerOption {
	return func(c *orbitControllerImpl) {
		if speed <= 0 {
			return
		}
		c.zoomSpeed = speed
	}
}

// WithViewportHeight sets the viewport height in pixels used to normalize
// drag rotation speed. Ignored unless positive.
//
// Parameters:
//   - height: viewport height in pixels
//
// Returns:
//   - OrbitControllerOption: the option function
func WithViewportHeight(height int) OrbitControllerOption {
	return func(c *orbitControllerImpl) {
		if height < 1 {
			return
		}
		c.viewportHeight = float32(height)
	}
}
