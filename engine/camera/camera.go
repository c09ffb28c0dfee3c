package camera

import (
	"sync"

	"github.com/Carmen-Shannon/oxy-view/common"
)

// Camera derives view and projection matrices from an OrbitController each
// tick. Matrices are column-major, WebGPU clip space (depth 0..1).
type Camera interface {
	// Update recomputes the view, projection and inverse view-projection
	// matrices from the controller's current pose. Call once per tick, after
	// the controller's Update.
	Update()

	// View returns the view matrix.
	//
	// Returns:
	//   - [16]float32: column-major view matrix
	View() [16]float32

	// Projection returns the perspective projection matrix.
	//
	// Returns:
	//   - [16]float32: column-major projection matrix
	Projection() [16]float32

	// InverseViewProjection returns the inverse of projection * view, used to
	// unproject clip-space positions when rendering the environment
	// background.
	//
	// Returns:
	//   - [16]float32: column-major inverse view-projection matrix
	InverseViewProjection() [16]float32

	// Position returns the camera's world-space position as of the last
	// Update.
	//
	// Returns:
	//   - x, y, z: world-space camera position
	Position() (x, y, z float32)

	// SetAspect sets the projection aspect ratio. Values <= 0 are ignored.
	//
	// Parameters:
	//   - aspect: width / height
	SetAspect(aspect float32)

	// Controller returns the attached OrbitController.
	//
	// Returns:
	//   - OrbitController: the controller driving this camera
	Controller() OrbitController
}

type cameraImpl struct {
	mu sync.Mutex

	controller OrbitController

	fov    float32
	aspect float32
	near   float32
	far    float32

	view        [16]float32
	projection  [16]float32
	invViewProj [16]float32

	posX, posY, posZ float32
}

var _ Camera = &cameraImpl{}

func (c *cameraImpl) Update() {
	c.mu.Lock()
	defer c.mu.Unlock()

	ex, ey, ez := c.controller.Position()
	tx, ty, tz := c.controller.Target()
	c.posX, c.posY, c.posZ = ex, ey, ez

	common.LookAt(c.view[:], ex, ey, ez, tx, ty, tz, 0, 1, 0)
	common.Perspective(c.projection[:], c.fov, c.aspect, c.near, c.far)

	var viewProj [16]float32
	common.Mul4(viewProj[:], c.projection[:], c.view[:])
	if !common.Invert4(c.invViewProj[:], viewProj[:]) {
		common.Identity(c.invViewProj[:])
	}
}

func (c *cameraImpl) View() [16]float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.view
}

func (c *cameraImpl) Projection() [16]float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.projection
}

func (c *cameraImpl) InverseViewProjection() [16]float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.invViewProj
}

func (c *cameraImpl) Position() (x, y, z float32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.posX, c.posY, c.posZ
}

func (c *cameraImpl) SetAspect(aspect float32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if aspect <= 0 {
		return
	}
	c.aspect = aspect
}

func (c *cameraImpl) Controller() OrbitController {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.controller
}
