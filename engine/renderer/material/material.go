// package material defines surface shading parameters for rendered meshes.
// A Material is a small mutable parameter block; the renderer snapshots it
// into a GPU uniform each frame, so setter calls take effect on the next draw.
package material

import (
	"sync"

	"github.com/Carmen-Shannon/oxy-view/common"
)

// Params is the GPU-facing material parameter block. The layout matches the
// WGSL material uniform: three vec4 fields, 48 bytes, 16-byte aligned.
type Params struct {
	// BaseColor is the albedo color (RGBA).
	BaseColor [4]float32

	// Emissive is the emissive color (RGB, w unused).
	Emissive [4]float32

	// MetallicRoughness packs metallic in x and roughness in y. z is 1 when
	// the material carries a diffuse texture and 0 otherwise; w is padding.
	MetallicRoughness [4]float32
}

// Material holds the shading parameters for a mesh surface. All setters clamp
// to valid ranges and are safe for concurrent use.
type Material interface {
	// Name returns the material identifier.
	//
	// Returns:
	//   - string: the material name
	Name() string

	// Params returns a snapshot of the current GPU parameter block.
	//
	// Returns:
	//   - Params: the uniform-ready parameters
	Params() Params

	// SetBaseColor sets the albedo color. Components are clamped to [0, 1].
	//
	// Parameters:
	//   - r, g, b, a: color components
	SetBaseColor(r, g, b, a float32)

	// SetMetallic sets the metallic factor, clamped to [0, 1].
	//
	// Parameters:
	//   - v: metallic factor
	SetMetallic(v float32)

	// SetRoughness sets the roughness factor, clamped to [0, 1].
	//
	// Parameters:
	//   - v: roughness factor
	SetRoughness(v float32)

	// SetEmissive sets the emissive color. Components are clamped to be
	// non-negative; emissive values above 1 are allowed for bloom-style
	// output.
	//
	// Parameters:
	//   - r, g, b: emissive color components
	SetEmissive(r, g, b float32)

	// AdjustMetallic adds delta to the metallic factor, clamped to [0, 1].
	//
	// Parameters:
	//   - delta: amount to add
	//
	// Returns:
	//   - float32: the resulting metallic factor
	AdjustMetallic(delta float32) float32

	// AdjustRoughness adds delta to the roughness factor, clamped to [0, 1].
	//
	// Parameters:
	//   - delta: amount to add
	//
	// Returns:
	//   - float32: the resulting roughness factor
	AdjustRoughness(delta float32) float32

	// Metallic returns the current metallic factor.
	//
	// Returns:
	//   - float32: metallic factor in [0, 1]
	Metallic() float32

	// Roughness returns the current roughness factor.
	//
	// Returns:
	//   - float32: roughness factor in [0, 1]
	Roughness() float32

	// DiffuseTexture returns the embedded diffuse texture, or nil if the
	// material is untextured.
	//
	// Returns:
	//   - *common.ImportedTexture: the diffuse texture, if any
	DiffuseTexture() *common.ImportedTexture
}

type materialImpl struct {
	mu sync.Mutex

	name    string
	params  Params
	diffuse *common.ImportedTexture
}

var _ Material = &materialImpl{}

func (m *materialImpl) Name() string {
	return m.name
}

func (m *materialImpl) Params() Params {
	m.mu.Lock()
	defer m.mu.Unlock()
	p := m.params
	if m.diffuse != nil {
		p.MetallicRoughness[2] = 1
	}
	return p
}

func (m *materialImpl) SetBaseColor(r, g, b, a float32) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.params.BaseColor = [4]float32{
		common.Clamp(r, 0, 1),
		common.Clamp(g, 0, 1),
		common.Clamp(b, 0, 1),
		common.Clamp(a, 0, 1),
	}
}

func (m *materialImpl) SetMetallic(v float32) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.params.MetallicRoughness[0] = common.Clamp(v, 0, 1)
}

func (m *materialImpl) SetRoughness(v float32) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.params.MetallicRoughness[1] = common.Clamp(v, 0, 1)
}

func (m *materialImpl) SetEmissive(r, g, b float32) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.params.Emissive = [4]float32{
		max(r, 0),
		max(g, 0),
		max(b, 0),
		0,
	}
}

func (m *materialImpl) AdjustMetallic(delta float32) float32 {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.params.MetallicRoughness[0] = common.Clamp(m.params.MetallicRoughness[0]+delta, 0, 1)
	return m.params.MetallicRoughness[0]
}

func (m *materialImpl) AdjustRoughness(delta float32) float32 {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.params.MetallicRoughness[1] = common.Clamp(m.params.MetallicRoughness[1]+delta, 0, 1)
	return m.params.MetallicRoughness[1]
}

func (m *materialImpl) Metallic() float32 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.params.MetallicRoughness[0]
}

func (m *materialImpl) Roughness() float32 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.params.MetallicRoughness[1]
}

func (m *materialImpl) DiffuseTexture() *common.ImportedTexture {
	return m.diffuse
}
