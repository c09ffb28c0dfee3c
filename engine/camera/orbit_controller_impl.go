package camera

import (
	"sync"

	"github.com/chewxy/math32"

	"github.com/Carmen-Shannon/oxy-view/common"
)

type orbitControllerImpl struct {
	mu sync.Mutex

	current Pose
	target  Pose

	lookX, lookY, lookZ float32

	dragging       bool
	dragX, dragY   float32
	viewportHeight float32

	minRadius, maxRadius float32
	minPolar, maxPolar   float32
	rotateSpeed          float32
	zoomSpeed            float32
	damping              float32
}

var _ OrbitController = &orbitControllerImpl{}

func (c *orbitControllerImpl) BeginDrag(x, y float32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.dragging {
		return
	}
	c.dragging = true
	c.dragX = x
	c.dragY = y
}

func (c *orbitControllerImpl) Drag(x, y float32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.dragging {
		return
	}

	dx := x - c.dragX
	dy := y - c.dragY
	c.dragX = x
	c.dragY = y

	// Normalize by viewport height so a full-height drag sweeps the same
	// angle at any resolution.
	scale := c.rotateSpeed * (math32.Pi / c.viewportHeight)
	c.target.Theta -= dx * scale
	c.target.Phi -= dy * scale
	c.clampTargetLocked()
}

func (c *orbitControllerImpl) EndDrag() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.dragging = false
}

func (c *orbitControllerImpl) Dragging() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.dragging
}

func (c *orbitControllerImpl) Zoom(delta float32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.target.Radius += delta * c.zoomSpeed
	c.clampTargetLocked()
}

func (c *orbitControllerImpl) Update() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.current.Radius = common.Lerp(c.current.Radius, c.target.Radius, c.damping)
	c.current.Theta = common.Lerp(c.current.Theta, c.target.Theta, c.damping)
	c.current.Phi = common.Lerp(c.current.Phi, c.target.Phi, c.damping)
}

func (c *orbitControllerImpl) Position() (x, y, z float32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	px, py, pz := common.SphericalToCartesian(c.current.Radius, c.current.Theta, c.current.Phi)
	return c.lookX + px, c.lookY + py, c.lookZ + pz
}

func (c *orbitControllerImpl) Target() (x, y, z float32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lookX, c.lookY, c.lookZ
}

func (c *orbitControllerImpl) SetTarget(x, y, z float32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lookX = x
	c.lookY = y
	c.lookZ = z
}

func (c *orbitControllerImpl) Pose() Pose {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.current
}

func (c *orbitControllerImpl) TargetPose() Pose {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.target
}

func (c *orbitControllerImpl) Sync(x, y, z float32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	radius, theta, phi := common.CartesianToSpherical(x-c.lookX, y-c.lookY, z-c.lookZ)
	pose := Pose{
		Radius: common.Clamp(radius, c.minRadius, c.maxRadius),
		Theta:  theta,
		Phi:    common.Clamp(phi, c.minPolar, c.maxPolar),
	}
	c.current = pose
	c.target = pose
}

func (c *orbitControllerImpl) SetViewportHeight(height int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if height < 1 {
		return
	}
	c.viewportHeight = float32(height)
}

func (c *orbitControllerImpl) MinRadius() float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.minRadius
}

func (c *orbitControllerImpl) MaxRadius() float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.maxRadius
}

func (c *orbitControllerImpl) MinPolar() float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.minPolar
}

func (c *orbitControllerImpl) MaxPolar() float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.maxPolar
}

func (c *orbitControllerImpl) RotateSpeed() float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.rotateSpeed
}

func (c *orbitControllerImpl) ZoomSpeed() float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.zoomSpeed
}

func (c *orbitControllerImpl) Damping() float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.damping
}

// clampTargetLocked clamps the target pose to the controller's bounds.
// Caller must hold c.mu. Theta is deliberately unbounded.
func (c *orbitControllerImpl) clampTargetLocked() {
	c.target.Radius = common.Clamp(c.target.Radius, c.minRadius, c.maxRadius)
	c.target.Phi = common.Clamp(c.target.Phi, c.minPolar, c.maxPolar)
}
