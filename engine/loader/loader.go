// Package loader imports glTF 2.0 assets (.gltf and .glb) into renderable
// models. Geometry is uploaded to the GPU through a MeshFactory so the
// parsing and extraction layers stay free of graphics dependencies.
package loader

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/Carmen-Shannon/oxy-view/common"
	"github.com/Carmen-Shannon/oxy-view/engine/model"
	"github.com/Carmen-Shannon/oxy-view/engine/renderer"
	"github.com/Carmen-Shannon/oxy-view/engine/renderer/material"
)

// MeshFactory creates GPU mesh resources from extracted geometry. It is
// satisfied by renderer.Renderer.
type MeshFactory interface {
	// CreateMesh uploads vertex and index data and returns a handle to the
	// GPU resources.
	//
	// Parameters:
	//   - name: debug label for the mesh
	//   - vertices: interleaved vertex data
	//   - indices: triangle index list
	//   - materialIndex: index into the model's material list, or -1
	//   - diffuse: decoded diffuse texture pixels, or nil for an untextured mesh
	//
	// Returns:
	//   - renderer.Mesh: handle to the created mesh
	//   - error: error if GPU resource creation fails
	CreateMesh(name string, vertices []renderer.Vertex, indices []uint32, materialIndex int, diffuse *common.TextureStagingData) (renderer.Mesh, error)
}

type loaderImpl struct {
	factory MeshFactory
}

// Loader imports model files into ready-to-draw models.
type Loader interface {
	// Load parses the file at path, extracts its geometry and materials, and
	// uploads the geometry through the mesh factory.
	//
	// The context is checked between pipeline stages and between mesh
	// uploads. When the context is cancelled mid-load, every mesh created so
	// far is released before the context error is returned.
	//
	// Parameters:
	//   - ctx: context for cancellation
	//   - path: path to a .gltf or .glb file
	//
	// Returns:
	//   - model.Model: the loaded model
	//   - error: error if parsing, extraction, or upload fails
	Load(ctx context.Context, path string) (model.Model, error)
}

var _ Loader = &loaderImpl{}

func (l *loaderImpl) Load(ctx context.Context, path string) (model.Model, error) {
	parser := newGLTFParser()
	if err := parser.Parse(path); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	importedMaterials, err := extractMaterials(parser)
	if err != nil {
		return nil, fmt.Errorf("failed to extract materials from %s: %w", path, err)
	}

	meshes, err := extractMeshes(parser)
	if err != nil {
		return nil, fmt.Errorf("failed to extract meshes from %s: %w", path, err)
	}

	// Decode each material's diffuse texture once; meshes sharing a material
	// share the staging data.
	diffuseByMaterial := make(map[int]*common.TextureStagingData, len(importedMaterials))
	for i, imported := range importedMaterials {
		if imported.DiffuseTexture == nil {
			continue
		}
		pixels, width, height, err := imported.DiffuseTexture.Decode()
		if err != nil {
			return nil, fmt.Errorf("failed to decode diffuse texture for material %s: %w", imported.Name, err)
		}
		diffuseByMaterial[i] = &common.TextureStagingData{
			Pixels: pixels,
			Width:  width,
			Height: height,
		}
	}

	gpuMeshes := make([]model.Mesh, 0, len(meshes))
	releaseAll := func() {
		for _, m := range gpuMeshes {
			m.Release()
		}
	}

	for _, data := range meshes {
		if err := ctx.Err(); err != nil {
			releaseAll()
			return nil, err
		}

		gpuMesh, err := l.factory.CreateMesh(data.Name, data.Vertices, data.Indices, data.MaterialIndex, diffuseByMaterial[data.MaterialIndex])
		if err != nil {
			releaseAll()
			return nil, fmt.Errorf("failed to create mesh %s: %w", data.Name, err)
		}
		gpuMeshes = append(gpuMeshes, gpuMesh)
	}

	materials := make([]material.Material, len(importedMaterials))
	for i, imported := range importedMaterials {
		materials[i] = material.FromImported(imported)
	}

	return model.NewModel(
		modelName(path),
		model.WithMeshes(gpuMeshes...),
		model.WithMaterials(materials...),
	), nil
}

// modelName derives a display name from the file path.
func modelName(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
