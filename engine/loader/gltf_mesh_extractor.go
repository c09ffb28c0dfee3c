package loader

import (
	"errors"
	"fmt"

	"github.com/chewxy/math32"

	"github.com/Carmen-Shannon/oxy-view/common"
	"github.com/Carmen-Shannon/oxy-view/engine/renderer"
)

// glTF attribute semantic names.
// Reference: https://registry.khronos.org/glTF/specs/2.0/glTF-2.0.html#meshes
const (
	gltfAttributePosition = "POSITION"
	gltfAttributeNormal   = "NORMAL"
	gltfAttributeTexCoord = "TEXCOORD_0"
)

// meshData is the CPU-side geometry extracted from one glTF primitive,
// ready for GPU upload.
type meshData struct {
	// Name identifies the primitive, derived from the mesh name.
	Name string

	// Vertices is the interleaved vertex data.
	Vertices []renderer.Vertex

	// Indices is the triangle index list.
	Indices []uint32

	// MaterialIndex is the index into the document's material list, or -1.
	MaterialIndex int
}

// extractMeshes reads every triangle primitive in the document into meshData.
// Primitives with non-triangle topology are rejected; missing normals are
// computed from the triangle faces and missing UVs default to zero.
//
// Parameters:
//   - parser: the parser holding a loaded document
//
// Returns:
//   - []meshData: the extracted geometry
//   - error: error if extraction fails
func extractMeshes(parser gltfParser) ([]meshData, error) {
	doc := parser.Document()
	if doc == nil {
		return nil, errors.New("no document loaded")
	}

	var meshes []meshData
	for meshIdx, mesh := range doc.Meshes {
		for primIdx, prim := range mesh.Primitives {
			if prim.Mode != nil && *prim.Mode != gltfPrimitiveModeTriangles {
				return nil, fmt.Errorf("mesh %d primitive %d: unsupported primitive mode %d", meshIdx, primIdx, *prim.Mode)
			}

			data, err := extractPrimitive(parser, &prim)
			if err != nil {
				return nil, fmt.Errorf("mesh %d primitive %d: %w", meshIdx, primIdx, err)
			}

			name := common.Coalesce(mesh.Name, fmt.Sprintf("mesh%d", meshIdx))
			if len(mesh.Primitives) > 1 {
				name = fmt.Sprintf("%s/%d", name, primIdx)
			}
			data.Name = name
			meshes = append(meshes, data)
		}
	}

	if len(meshes) == 0 {
		return nil, errors.New("document contains no triangle meshes")
	}

	return meshes, nil
}

// extractPrimitive reads one primitive's attributes into interleaved vertices.
func extractPrimitive(parser gltfParser, prim *gltfPrimitive) (meshData, error) {
	posAccessor, ok := prim.Attributes[gltfAttributePosition]
	if !ok {
		return meshData{}, errors.New("primitive has no POSITION attribute")
	}

	positions, err := parser.ReadVec3Accessor(posAccessor)
	if err != nil {
		return meshData{}, fmt.Errorf("failed to read positions: %w", err)
	}

	var indices []uint32
	if prim.Indices != nil {
		indices, err = parser.ReadIndicesAccessor(*prim.Indices)
		if err != nil {
			return meshData{}, fmt.Errorf("failed to read indices: %w", err)
		}
	} else {
		// Non-indexed geometry: synthesize a sequential index list.
		indices = make([]uint32, len(positions))
		for i := range indices {
			indices[i] = uint32(i)
		}
	}

	for _, idx := range indices {
		if int(idx) >= len(positions) {
			return meshData{}, fmt.Errorf("index %d out of range for %d vertices", idx, len(positions))
		}
	}

	var normals [][3]float32
	if normalAccessor, hasNormals := prim.Attributes[gltfAttributeNormal]; hasNormals {
		normals, err = parser.ReadVec3Accessor(normalAccessor)
		if err != nil {
			return meshData{}, fmt.Errorf("failed to read normals: %w", err)
		}
		if len(normals) != len(positions) {
			return meshData{}, fmt.Errorf("normal count %d does not match position count %d", len(normals), len(positions))
		}
	} else {
		normals = computeNormals(positions, indices)
	}

	var uvs [][2]float32
	if uvAccessor, hasUVs := prim.Attributes[gltfAttributeTexCoord]; hasUVs {
		uvs, err = parser.ReadVec2Accessor(uvAccessor)
		if err != nil {
			return meshData{}, fmt.Errorf("failed to read UVs: %w", err)
		}
		if len(uvs) != len(positions) {
			return meshData{}, fmt.Errorf("UV count %d does not match position count %d", len(uvs), len(positions))
		}
	} else {
		uvs = make([][2]float32, len(positions))
	}

	vertices := make([]renderer.Vertex, len(positions))
	for i := range positions {
		vertices[i] = renderer.Vertex{
			Position: positions[i],
			Normal:   normals[i],
			UV:       uvs[i],
		}
	}

	materialIndex := -1
	if prim.Material != nil {
		materialIndex = *prim.Material
	}

	return meshData{
		Vertices:      vertices,
		Indices:       indices,
		MaterialIndex: materialIndex,
	}, nil
}

// computeNormals derives smooth per-vertex normals by accumulating face
// normals over shared vertices.
func computeNormals(positions [][3]float32, indices []uint32) [][3]float32 {
	normals := make([][3]float32, len(positions))

	for i := 0; i+2 < len(indices); i += 3 {
		a := positions[indices[i]]
		b := positions[indices[i+1]]
		c := positions[indices[i+2]]

		abX, abY, abZ := b[0]-a[0], b[1]-a[1], b[2]-a[2]
		acX, acY, acZ := c[0]-a[0], c[1]-a[1], c[2]-a[2]

		nx := abY*acZ - abZ*acY
		ny := abZ*acX - abX*acZ
		nz := abX*acY - abY*acX

		for _, idx := range []uint32{indices[i], indices[i+1], indices[i+2]} {
			normals[idx][0] += nx
			normals[idx][1] += ny
			normals[idx][2] += nz
		}
	}

	for i := range normals {
		n := normals[i]
		length := math32.Sqrt(n[0]*n[0] + n[1]*n[1] + n[2]*n[2])
		if length > 0 {
			normals[i] = [3]float32{n[0] / length, n[1] / length, n[2] / length}
		} else {
			normals[i] = [3]float32{0, 1, 0}
		}
	}

	return normals
}
