package loader

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/Carmen-Shannon/oxy-view/common"
)

// extractMaterials converts the document's materials into ImportedMaterial
// values with glTF spec defaults applied for absent factors: white base
// color, metallic 1, roughness 1, no emission.
// Reference: https://registry.khronos.org/glTF/specs/2.0/glTF-2.0.html#reference-material-pbrmetallicroughness
//
// Parameters:
//   - parser: the parser holding a loaded document
//
// Returns:
//   - []common.ImportedMaterial: one entry per document material
//   - error: error if an embedded texture cannot be read
func extractMaterials(parser gltfParser) ([]common.ImportedMaterial, error) {
	doc := parser.Document()
	if doc == nil {
		return nil, nil
	}

	materials := make([]common.ImportedMaterial, len(doc.Materials))
	for i, mat := range doc.Materials {
		imported := common.ImportedMaterial{
			Name:      common.Coalesce(mat.Name, fmt.Sprintf("material%d", i)),
			BaseColor: [4]float32{1, 1, 1, 1},
			Metallic:  1,
			Roughness: 1,
		}

		if pbr := mat.PbrMetallicRoughness; pbr != nil {
			if pbr.BaseColorFactor != nil {
				imported.BaseColor = *pbr.BaseColorFactor
			}
			if pbr.MetallicFactor != nil {
				imported.Metallic = *pbr.MetallicFactor
			}
			if pbr.RoughnessFactor != nil {
				imported.Roughness = *pbr.RoughnessFactor
			}
			if pbr.BaseColorTexture != nil {
				tex, err := extractTexture(parser, pbr.BaseColorTexture.Index)
				if err != nil {
					return nil, fmt.Errorf("material %d: %w", i, err)
				}
				imported.DiffuseTexture = tex
			}
		}

		if mat.EmissiveFactor != nil {
			imported.EmissiveColor = [4]float32{
				mat.EmissiveFactor[0],
				mat.EmissiveFactor[1],
				mat.EmissiveFactor[2],
				0,
			}
		}

		materials[i] = imported
	}

	return materials, nil
}

// extractTexture resolves a texture index to its image bytes or file path.
func extractTexture(parser gltfParser, textureIndex int) (*common.ImportedTexture, error) {
	doc := parser.Document()
	if textureIndex < 0 || textureIndex >= len(doc.Textures) {
		return nil, fmt.Errorf("texture index %d out of range", textureIndex)
	}

	tex := &doc.Textures[textureIndex]
	if tex.Source == nil {
		return nil, fmt.Errorf("texture %d has no image source", textureIndex)
	}
	if *tex.Source < 0 || *tex.Source >= len(doc.Images) {
		return nil, fmt.Errorf("texture %d: image index %d out of range", textureIndex, *tex.Source)
	}

	img := &doc.Images[*tex.Source]
	imported := &common.ImportedTexture{
		Name:     common.Coalesce(img.Name, fmt.Sprintf("image%d", *tex.Source)),
		MimeType: img.MimeType,
	}

	switch {
	case img.BufferView != nil:
		// Embedded in the binary chunk (GLB).
		data, err := parser.ReadBufferView(*img.BufferView)
		if err != nil {
			return nil, fmt.Errorf("image %d: %w", *tex.Source, err)
		}
		imported.Data = data
	case strings.HasPrefix(img.URI, "data:"):
		p, ok := parser.(*gltfParserImpl)
		if !ok {
			return nil, fmt.Errorf("image %d: data URI requires the built-in parser", *tex.Source)
		}
		data, err := p.loadDataURI(img.URI)
		if err != nil {
			return nil, fmt.Errorf("image %d: %w", *tex.Source, err)
		}
		imported.Data = data
	case img.URI != "":
		imported.Path = filepath.Join(parser.BaseDir(), img.URI)
	default:
		return nil, fmt.Errorf("image %d has no URI and no bufferView", *tex.Source)
	}

	return imported, nil
}
