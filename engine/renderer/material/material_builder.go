package material

import "github.com/Carmen-Shannon/oxy-view/common"

// MaterialOption is a functional option for configuring a Material.
type MaterialOption func(*materialImpl)

// NewMaterial creates a new Material with the provided options. The default
// is an opaque mid-grey dielectric with roughness 0.5.
//
// Parameters:
//   - opts: optional MaterialOption functions
//
// Returns:
//   - Material: the configured material
func NewMaterial(opts ...MaterialOption) Material {
	m := &materialImpl{
		name: "default",
		params: Params{
			BaseColor:         [4]float32{0.5, 0.5, 0.5, 1},
			MetallicRoughness: [4]float32{0, 0.5, 0, 0},
		},
	}

	for _, opt := range opts {
		opt(m)
	}

	return m
}

// WithName sets the material identifier.
//
// Parameters:
//   - name: the material name
//
// Returns:
//   - MaterialOption: the option function
func WithName(name string) MaterialOption {
	return func(m *materialImpl) {
		if name == "" {
			return
		}
		m.name = name
	}
}

// WithBaseColor sets the albedo color, clamped to [0, 1].
//
// Parameters:
//   - r, g, b, a: color components
//
// Returns:
//   - MaterialOption: the option function
func WithBaseColor(r, g, b, a float32) MaterialOption {
	return func(m *materialImpl) {
		m.SetBaseColor(r, g, b, a)
	}
}

// WithMetallic sets the metallic factor, clamped to [0, 1].
//
// Parameters:
//   - v: metallic factor
//
// Returns:
//   - MaterialOption: the option function
func WithMetallic(v float32) MaterialOption {
	return func(m *materialImpl) {
		m.SetMetallic(v)
	}
}

// WithRoughness sets the roughness factor, clamped to [0, 1].
//
// Parameters:
//   - v: roughness factor
//
// Returns:
//   - MaterialOption: the option function
func WithRoughness(v float32) MaterialOption {
	return func(m *materialImpl) {
		m.SetRoughness(v)
	}
}

// WithEmissive sets the emissive color.
//
// Parameters:
//   - r, g, b: emissive color components
//
// Returns:
//   - MaterialOption: the option function
func WithEmissive(r, g, b float32) MaterialOption {
	return func(m *materialImpl) {
		m.SetEmissive(r, g, b)
	}
}

// WithDiffuseTexture attaches an embedded diffuse texture.
//
// Parameters:
//   - texture: the diffuse texture
//
// Returns:
//   - MaterialOption: the option function
func WithDiffuseTexture(texture *common.ImportedTexture) MaterialOption {
	return func(m *materialImpl) {
		m.diffuse = texture
	}
}

// FromImported builds a Material from parameters parsed out of a model file.
//
// Parameters:
//   - imported: the parsed material
//
// Returns:
//   - Material: the configured material
func FromImported(imported common.ImportedMaterial) Material {
	return NewMaterial(
		WithName(imported.Name),
		WithBaseColor(imported.BaseColor[0], imported.BaseColor[1], imported.BaseColor[2], imported.BaseColor[3]),
		WithMetallic(imported.Metallic),
		WithRoughness(imported.Roughness),
		WithEmissive(imported.EmissiveColor[0], imported.EmissiveColor[1], imported.EmissiveColor[2]),
		WithDiffuseTexture(imported.DiffuseTexture),
	)
}
