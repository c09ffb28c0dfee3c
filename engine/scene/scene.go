// Package scene owns the viewer's drawable state: one camera, one live
// model, and the material override shared across model swaps.
package scene

import (
	"sync"

	"github.com/Carmen-Shannon/oxy-view/engine/camera"
	"github.com/Carmen-Shannon/oxy-view/engine/model"
	"github.com/Carmen-Shannon/oxy-view/engine/renderer"
	"github.com/Carmen-Shannon/oxy-view/engine/renderer/material"
)

type sceneImpl struct {
	mu       sync.Mutex
	cam      camera.Camera
	r        renderer.Renderer
	live     model.Model
	override material.Material
}

// Scene is the single-model viewer scene.
type Scene interface {
	// Attach makes m the live model and returns the model it replaces. The
	// persisted material override, if any, is applied to the incoming
	// model. The caller owns the returned model and is responsible for
	// releasing it.
	//
	// Parameters:
	//   - m: the model to display, may be nil
	//
	// Returns:
	//   - model.Model: the previously live model, or nil
	Attach(m model.Model) model.Model

	// Detach removes the live model without releasing it.
	//
	// Returns:
	//   - model.Model: the detached model, or nil
	Detach() model.Model

	// Live returns the currently displayed model.
	//
	// Returns:
	//   - model.Model: the live model, or nil
	Live() model.Model

	// ApplyMaterial overrides the material on the live model and persists
	// the override so future attaches receive it too. Passing nil clears
	// the override and restores each model's imported materials.
	//
	// Parameters:
	//   - mat: the override material, or nil to clear
	ApplyMaterial(mat material.Material)

	// Camera returns the scene camera.
	//
	// Returns:
	//   - camera.Camera: the camera
	Camera() camera.Camera

	// Draw uploads the camera pose and issues the background and mesh draw
	// calls for the current frame. Call between the renderer's BeginFrame
	// and EndFrame.
	Draw()
}

var _ Scene = &sceneImpl{}

func (s *sceneImpl) Attach(m model.Model) model.Model {
	s.mu.Lock()
	defer s.mu.Unlock()

	if m != nil && s.override != nil {
		m.ApplyMaterial(s.override)
	}

	previous := s.live
	s.live = m
	return previous
}

func (s *sceneImpl) Detach() model.Model {
	s.mu.Lock()
	defer s.mu.Unlock()

	previous := s.live
	s.live = nil
	return previous
}

func (s *sceneImpl) Live() model.Model {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.live
}

func (s *sceneImpl) ApplyMaterial(mat material.Material) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.override = mat
	if s.live != nil {
		s.live.ApplyMaterial(mat)
	}
}

func (s *sceneImpl) Camera() camera.Camera {
	return s.cam
}

func (s *sceneImpl) Draw() {
	s.mu.Lock()
	live := s.live
	s.mu.Unlock()

	x, y, z := s.cam.Position()
	s.r.SetCameraPose(s.cam.View(), s.cam.Projection(), s.cam.InverseViewProjection(), x, y, z)
	s.r.DrawBackground()

	if live == nil || live.Released() {
		return
	}
	for _, mesh := range live.Meshes() {
		s.r.DrawMesh(mesh, live.MaterialFor(mesh).Params())
	}
}
