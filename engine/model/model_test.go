package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Carmen-Shannon/oxy-view/engine/renderer/material"
)

type stubMesh struct {
	name     string
	matIndex int
	released int
}

func (s *stubMesh) Name() string       { return s.name }
func (s *stubMesh) IndexCount() uint32 { return 36 }
func (s *stubMesh) MaterialIndex() int { return s.matIndex }
func (s *stubMesh) Release()           { s.released++ }

func TestReleaseIsIdempotent(t *testing.T) {
	a := &stubMesh{name: "a", matIndex: 0}
	b := &stubMesh{name: "b", matIndex: -1}
	m := NewModel("crate", WithMeshes(a, b))

	require.False(t, m.Released())
	m.Release()
	m.Release()
	m.Release()

	assert.True(t, m.Released())
	assert.Equal(t, 1, a.released)
	assert.Equal(t, 1, b.released)
}

func TestMaterialForResolvesInOrder(t *testing.T) {
	imported := material.NewMaterial(material.WithName("imported"))
	fallback := material.NewMaterial(material.WithName("fallback"))
	mesh := &stubMesh{name: "a", matIndex: 0}
	bare := &stubMesh{name: "b", matIndex: -1}
	outOfRange := &stubMesh{name: "c", matIndex: 5}

	m := NewModel("crate",
		WithMeshes(mesh, bare, outOfRange),
		WithMaterials(imported),
		WithFallbackMaterial(fallback),
	)

	assert.Same(t, imported, m.MaterialFor(mesh))
	assert.Same(t, fallback, m.MaterialFor(bare))
	assert.Same(t, fallback, m.MaterialFor(outOfRange))
	assert.Same(t, fallback, m.MaterialFor(nil))
}

func TestApplyMaterialOverridesAndClears(t *testing.T) {
	imported := material.NewMaterial(material.WithName("imported"))
	override := material.NewMaterial(material.WithName("override"))
	mesh := &stubMesh{matIndex: 0}
	m := NewModel("crate", WithMeshes(mesh), WithMaterials(imported))

	m.ApplyMaterial(override)
	assert.Same(t, override, m.MaterialFor(mesh))

	m.ApplyMaterial(nil)
	assert.Same(t, imported, m.MaterialFor(mesh))
}

func TestMaterialForNeverNil(t *testing.T) {
	m := NewModel("empty")
	assert.NotNil(t, m.MaterialFor(nil))
}
