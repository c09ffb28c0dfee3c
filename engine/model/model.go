// package model ties GPU mesh handles to their materials and owns their
// release. A Model is the unit the scene attaches and the swap coordinator
// exchanges; releasing it frees every GPU resource it holds, exactly once.
package model

import (
	"sync"

	"github.com/Carmen-Shannon/oxy-view/engine/renderer/material"
)

// Mesh is the narrow view of a GPU mesh handle the model layer needs. The
// renderer's mesh type satisfies it.
type Mesh interface {
	// Name returns the mesh identifier.
	//
	// Returns:
	//   - string: the mesh name
	Name() string

	// IndexCount returns the number of indices to draw.
	//
	// Returns:
	//   - uint32: the index count
	IndexCount() uint32

	// MaterialIndex returns the index into the model's material list this
	// mesh was imported with, or -1 if none.
	//
	// Returns:
	//   - int: the material index
	MaterialIndex() int

	// Release frees the mesh's GPU buffers.
	Release()
}

// Model is a loaded asset: GPU meshes plus the materials parsed alongside
// them. Models are created by the loader and owned by whoever holds the
// handle; Release is idempotent.
type Model interface {
	// Name returns the model identifier, usually derived from the source
	// file path.
	//
	// Returns:
	//   - string: the model name
	Name() string

	// Meshes returns the model's meshes. The returned slice must not be
	// mutated.
	//
	// Returns:
	//   - []Mesh: the mesh handles
	Meshes() []Mesh

	// Materials returns the model's imported materials. The returned slice
	// must not be mutated.
	//
	// Returns:
	//   - []material.Material: the materials
	Materials() []material.Material

	// ApplyMaterial overrides the material used for every mesh in the model.
	// Passing nil clears the override, restoring the imported materials.
	//
	// Parameters:
	//   - m: the override material, or nil
	ApplyMaterial(m material.Material)

	// MaterialFor resolves the material to draw a mesh with: the override if
	// one is applied, otherwise the mesh's imported material, otherwise the
	// model's fallback material.
	//
	// Parameters:
	//   - mesh: the mesh being drawn
	//
	// Returns:
	//   - material.Material: the material to draw with, never nil
	MaterialFor(mesh Mesh) material.Material

	// Release frees all GPU resources held by the model. Idempotent; after
	// the first call the model must not be drawn.
	Release()

	// Released reports whether Release has been called.
	//
	// Returns:
	//   - bool: true once released
	Released() bool
}

type modelImpl struct {
	mu sync.Mutex

	name      string
	meshes    []Mesh
	materials []material.Material
	fallback  material.Material
	override  material.Material
	released  bool
}

var _ Model = &modelImpl{}

func (m *modelImpl) Name() string {
	return m.name
}

func (m *modelImpl) Meshes() []Mesh {
	return m.meshes
}

func (m *modelImpl) Materials() []material.Material {
	return m.materials
}

func (m *modelImpl) ApplyMaterial(mat material.Material) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.override = mat
}

func (m *modelImpl) MaterialFor(mesh Mesh) material.Material {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.override != nil {
		return m.override
	}
	if mesh != nil {
		if idx := mesh.MaterialIndex(); idx >= 0 && idx < len(m.materials) {
			return m.materials[idx]
		}
	}
	return m.fallback
}

func (m *modelImpl) Release() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.released {
		return
	}
	m.released = true
	for _, mesh := range m.meshes {
		mesh.Release()
	}
}

func (m *modelImpl) Released() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.released
}
