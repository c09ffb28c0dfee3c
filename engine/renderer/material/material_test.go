package material

import (
	"testing"
	"unsafe"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Carmen-Shannon/oxy-view/common"
)

func TestParamsLayout(t *testing.T) {
	// The WGSL uniform expects three vec4s.
	assert.EqualValues(t, 48, unsafe.Sizeof(Params{}))
}

func TestDefaults(t *testing.T) {
	m := NewMaterial()
	p := m.Params()

	assert.Equal(t, "default", m.Name())
	assert.Equal(t, [4]float32{0.5, 0.5, 0.5, 1}, p.BaseColor)
	assert.EqualValues(t, 0, m.Metallic())
	assert.InDelta(t, 0.5, m.Roughness(), 1e-6)
}

func TestAdjustClampsToUnitRange(t *testing.T) {
	m := NewMaterial(WithMetallic(0.9), WithRoughness(0.1))

	assert.InDelta(t, 1, m.AdjustMetallic(0.5), 1e-6)
	assert.InDelta(t, 1, m.AdjustMetallic(0.1), 1e-6)
	assert.InDelta(t, 0, m.AdjustRoughness(-0.5), 1e-6)
	assert.InDelta(t, 0.25, m.AdjustRoughness(0.25), 1e-6)
}

func TestSettersClamp(t *testing.T) {
	m := NewMaterial()

	m.SetBaseColor(2, -1, 0.5, 3)
	assert.Equal(t, [4]float32{1, 0, 0.5, 1}, m.Params().BaseColor)

	m.SetMetallic(7)
	assert.EqualValues(t, 1, m.Metallic())

	m.SetEmissive(-1, 2, 0.5)
	assert.Equal(t, [4]float32{0, 2, 0.5, 0}, m.Params().Emissive)
}

func TestFromImported(t *testing.T) {
	tex := &common.ImportedTexture{Name: "albedo", MimeType: "image/png"}
	m := FromImported(common.ImportedMaterial{
		Name:          "gold",
		BaseColor:     [4]float32{1, 0.85, 0.4, 1},
		Metallic:      1,
		Roughness:     0.2,
		EmissiveColor: [4]float32{0.1, 0, 0, 0},
		DiffuseTexture: tex,
	})

	require.Equal(t, "gold", m.Name())
	assert.EqualValues(t, 1, m.Metallic())
	assert.InDelta(t, 0.2, m.Roughness(), 1e-6)
	assert.Equal(t, [4]float32{0.1, 0, 0, 0}, m.Params().Emissive)
	assert.Same(t, tex, m.DiffuseTexture())
}

func TestParamsFlagsDiffuseTexture(t *testing.T) {
	plain := NewMaterial()
	assert.EqualValues(t, 0, plain.Params().MetallicRoughness[2])

	tex := &common.ImportedTexture{Name: "albedo", MimeType: "image/png"}
	textured := NewMaterial(WithDiffuseTexture(tex))
	assert.EqualValues(t, 1, textured.Params().MetallicRoughness[2])
}

func TestParamsIsSnapshot(t *testing.T) {
	m := NewMaterial()
	p := m.Params()
	m.SetMetallic(1)
	assert.EqualValues(t, 0, p.MetallicRoughness[0])
}
