package scene

import (
	"github.com/Carmen-Shannon/oxy-view/engine/camera"
	"github.com/Carmen-Shannon/oxy-view/engine/renderer"
	"github.com/Carmen-Shannon/oxy-view/engine/renderer/material"
)

// SceneBuilderOption is a functional option for configuring a scene.
// Use the With* functions to create options.
type SceneBuilderOption func(s *sceneImpl)

// NewScene creates a Scene drawing through the given renderer from the
// given camera's point of view.
//
// Parameters:
//   - cam: the scene camera, must not be nil
//   - r: the renderer, must not be nil
//   - options: optional configuration
//
// Returns:
//   - Scene: the configured scene
func NewScene(cam camera.Camera, r renderer.Renderer, options ...SceneBuilderOption) Scene {
	if cam == nil {
		panic("scene requires a camera")
	}
	if r == nil {
		panic("scene requires a renderer")
	}

	s := &sceneImpl{cam: cam, r: r}
	for _, opt := range options {
		opt(s)
	}
	return s
}

// WithMaterialOverride starts the scene with a material override already in
// place, so the first attached model receives it.
//
// Parameters:
//   - mat: the override material
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithMaterialOverride(mat material.Material) SceneBuilderOption {
	return func(s *sceneImpl) {
		s.override = mat
	}
}
