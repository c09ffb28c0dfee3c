package renderer

import (
	"github.com/Carmen-Shannon/oxy-view/common"
	"github.com/Carmen-Shannon/oxy-view/engine/renderer/material"
)

// renderer is the implementation of the Renderer interface.
type renderer struct {
	backendType RendererBackendType
	backend     RendererBackend

	// Pre-creation config collected from builder options
	forceFallbackAdapter bool
	pendingPresentMode   *PresentMode
	pendingMSAA          *MSAASampleCount
	pendingClearColor    *[4]float64
}

// Renderer defines the interface for the rendering system.
//
// The Renderer carries two fixed pipelines: an environment background pass
// that fills the frame from the equirectangular environment map, and a lit
// surface pass that draws meshes with per-mesh material parameters. The
// Renderer also implements a backend which allows for multiple backend API
// implementations to exist.
type Renderer interface {
	// SetCameraPose uploads the camera matrices and position for the next
	// frame. Call once per frame before BeginFrame.
	//
	// Parameters:
	//   - view: column-major view matrix
	//   - proj: column-major projection matrix
	//   - invViewProj: column-major inverse view-projection matrix
	//   - x, y, z: world-space camera position
	SetCameraPose(view, proj, invViewProj [16]float32, x, y, z float32)

	// SetEnvironment replaces the environment map with the provided RGBA
	// staging data. The previous environment texture is released.
	//
	// Parameters:
	//   - stagingData: decoded equirectangular pixel data
	//
	// Returns:
	//   - error: an error if texture creation fails
	SetEnvironment(stagingData common.TextureStagingData) error

	// CreateMesh uploads vertex and index data to the GPU and returns a mesh
	// handle. The caller owns the handle and must Release it when done.
	//
	// Parameters:
	//   - name: the mesh identifier, used for GPU resource labels
	//   - vertices: the vertex data
	//   - indices: the index data
	//   - materialIndex: index into the owning model's material list, or -1
	//   - diffuse: decoded diffuse texture pixels, or nil for an untextured mesh
	//
	// Returns:
	//   - Mesh: the mesh handle
	//   - error: an error if buffer or texture creation fails
	CreateMesh(name string, vertices []Vertex, indices []uint32, materialIndex int, diffuse *common.TextureStagingData) (Mesh, error)

	// BeginFrame acquires the swapchain texture and begins the main render
	// pass. Must be paired with EndFrame after all draw invocations within a
	// single frame.
	//
	// Returns:
	//   - error: an error if the swapchain texture could not be acquired
	BeginFrame() error

	// DrawBackground encodes the fullscreen environment background pass.
	// Call between BeginFrame and EndFrame, before any DrawMesh calls.
	DrawBackground()

	// DrawMesh encodes a draw of the given mesh with the given material
	// parameters within the current render pass.
	//
	// Parameters:
	//   - mesh: the mesh handle to draw
	//   - params: the material parameters to draw with
	DrawMesh(mesh Mesh, params material.Params)

	// EndFrame ends the current render pass and submits the command buffer
	// to the GPU. Does not present the surface; call Present after EndFrame.
	EndFrame()

	// Present presents the surface to the display and releases the swapchain
	// texture. Must be called once per frame after EndFrame.
	Present()

	// Resize configures the underlying backend to handle a new surface size.
	//
	// Parameters:
	//   - width: the new width of the surface in pixels
	//   - height: the new height of the surface in pixels
	Resize(width, height int)

	// SetPresentMode sets the surface present mode. A call to Resize is
	// required after changing this for the new mode to take effect.
	//
	// Parameters:
	//   - mode: the PresentMode to use
	SetPresentMode(mode PresentMode)

	// Release frees all GPU resources held by the renderer.
	Release()
}

var _ Renderer = &renderer{}

func (r *renderer) SetCameraPose(view, proj, invViewProj [16]float32, x, y, z float32) {
	r.backend.SetCameraPose(view, proj, invViewProj, x, y, z)
}

func (r *renderer) SetEnvironment(stagingData common.TextureStagingData) error {
	return r.backend.SetEnvironment(stagingData)
}

func (r *renderer) CreateMesh(name string, vertices []Vertex, indices []uint32, materialIndex int, diffuse *common.TextureStagingData) (Mesh, error) {
	return r.backend.CreateMesh(name, vertices, indices, materialIndex, diffuse)
}

func (r *renderer) BeginFrame() error {
	return r.backend.BeginFrame()
}

func (r *renderer) DrawBackground() {
	r.backend.DrawBackground()
}

func (r *renderer) DrawMesh(mesh Mesh, params material.Params) {
	r.backend.DrawMesh(mesh, params)
}

func (r *renderer) EndFrame() {
	r.backend.EndFrame()
}

func (r *renderer) Present() {
	r.backend.Present()
}

func (r *renderer) Resize(width, height int) {
	r.backend.ConfigureSurface(width, height)
}

func (r *renderer) SetPresentMode(mode PresentMode) {
	r.backend.SetPresentMode(mode)
}

func (r *renderer) Release() {
	r.backend.Release()
}
