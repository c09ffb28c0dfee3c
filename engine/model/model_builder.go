package model

import "github.com/Carmen-Shannon/oxy-view/engine/renderer/material"

// ModelOption is a functional option for configuring a Model.
type ModelOption func(*modelImpl)

// NewModel creates a new Model with the provided options. A fallback material
// is always present so MaterialFor never returns nil.
//
// Parameters:
//   - name: the model identifier
//   - opts: optional ModelOption functions
//
// Returns:
//   - Model: the configured model
func NewModel(name string, opts ...ModelOption) Model {
	m := &modelImpl{
		name:     name,
		fallback: material.NewMaterial(),
	}

	for _, opt := range opts {
		opt(m)
	}

	return m
}

// WithMeshes sets the model's mesh handles.
//
// Parameters:
//   - meshes: the mesh handles
//
// Returns:
//   - ModelOption: the option function
func WithMeshes(meshes ...Mesh) ModelOption {
	return func(m *modelImpl) {
		m.meshes = meshes
	}
}

// WithMaterials sets the model's imported materials, indexed by the meshes'
// material indices.
//
// Parameters:
//   - materials: the materials
//
// Returns:
//   - ModelOption: the option function
func WithMaterials(materials ...material.Material) ModelOption {
	return func(m *modelImpl) {
		m.materials = materials
	}
}

// WithFallbackMaterial replaces the default material used when a mesh has no
// imported material. Ignored if nil.
//
// Parameters:
//   - fallback: the fallback material
//
// Returns:
//   - ModelOption: the option function
func WithFallbackMaterial(fallback material.Material) ModelOption {
	return func(m *modelImpl) {
		if fallback == nil {
			return
		}
		m.fallback = fallback
	}
}
