package renderer

import (
	"sync"

	"github.com/cogentcore/webgpu/wgpu"
)

// Mesh is a GPU mesh handle: vertex and index buffers plus a per-mesh
// material uniform. Meshes are created by the Renderer and released by their
// owning model.
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

	// MaterialIndex returns the index into the owning model's material list,
	// or -1 if the mesh was imported without a material.
	//
	// Returns:
	//   - int: the material index
	MaterialIndex() int

	// Release frees the mesh's GPU buffers, bind group, and diffuse texture
	// if one was created. Idempotent.
	Release()
}

type meshImpl struct {
	name          string
	indexCount    uint32
	materialIndex int

	vertexBuffer   *wgpu.Buffer
	indexBuffer    *wgpu.Buffer
	materialBuffer *wgpu.Buffer
	materialGroup  *wgpu.BindGroup

	// Set only for textured meshes; untextured meshes bind the backend's
	// shared white texture, which the backend owns.
	diffuseTexture *wgpu.Texture
	diffuseView    *wgpu.TextureView

	releaseOnce sync.Once
}

var _ Mesh = &meshImpl{}

func (m *meshImpl) Name() string {
	return m.name
}

func (m *meshImpl) IndexCount() uint32 {
	return m.indexCount
}

func (m *meshImpl) MaterialIndex() int {
	return m.materialIndex
}

func (m *meshImpl) Release() {
	m.releaseOnce.Do(func() {
		if m.materialGroup != nil {
			m.materialGroup.Release()
		}
		if m.diffuseView != nil {
			m.diffuseView.Release()
		}
		if m.diffuseTexture != nil {
			m.diffuseTexture.Release()
		}
		if m.materialBuffer != nil {
			m.materialBuffer.Release()
		}
		if m.indexBuffer != nil {
			m.indexBuffer.Release()
		}
		if m.vertexBuffer != nil {
			m.vertexBuffer.Release()
		}
	})
}
