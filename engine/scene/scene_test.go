package scene

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Carmen-Shannon/oxy-view/common"
	"github.com/Carmen-Shannon/oxy-view/engine/camera"
	"github.com/Carmen-Shannon/oxy-view/engine/model"
	"github.com/Carmen-Shannon/oxy-view/engine/renderer"
	"github.com/Carmen-Shannon/oxy-view/engine/renderer/material"
)

type recordingRenderer struct {
	poseUploads     int
	backgroundDraws int
	meshDraws       []material.Params
}

func (r *recordingRenderer) SetCameraPose(view, proj, invViewProj [16]float32, x, y, z float32) {
	r.poseUploads++
}

func (r *recordingRenderer) SetEnvironment(common.TextureStagingData) error { return nil }

func (r *recordingRenderer) CreateMesh(string, []renderer.Vertex, []uint32, int, *common.TextureStagingData) (renderer.Mesh, error) {
	return nil, nil
}

func (r *recordingRenderer) BeginFrame() error { return nil }
func (r *recordingRenderer) DrawBackground()   { r.backgroundDraws++ }

func (r *recordingRenderer) DrawMesh(mesh renderer.Mesh, params material.Params) {
	r.meshDraws = append(r.meshDraws, params)
}

func (r *recordingRenderer) EndFrame()                           {}
func (r *recordingRenderer) Present()                            {}
func (r *recordingRenderer) Resize(width, height int)            {}
func (r *recordingRenderer) SetPresentMode(renderer.PresentMode) {}
func (r *recordingRenderer) Release()                            {}

type stubMesh struct {
	name     string
	matIndex int
}

func (m *stubMesh) Name() string       { return m.name }
func (m *stubMesh) IndexCount() uint32 { return 3 }
func (m *stubMesh) MaterialIndex() int { return m.matIndex }
func (m *stubMesh) Release()           {}

func newTestScene(t *testing.T) (Scene, *recordingRenderer) {
	t.Helper()
	r := &recordingRenderer{}
	return NewScene(camera.NewCamera(), r), r
}

func testModel(name string, mats ...material.Material) model.Model {
	return model.NewModel(
		name,
		model.WithMeshes(&stubMesh{name: name + "/mesh", matIndex: 0}),
		model.WithMaterials(mats...),
	)
}

func TestAttachReturnsPrevious(t *testing.T) {
	s, _ := newTestScene(t)

	a := testModel("a")
	b := testModel("b")

	assert.Nil(t, s.Attach(a))
	assert.Same(t, a, s.Live())
	assert.Same(t, a, s.Attach(b))
	assert.Same(t, b, s.Live())
}

func TestDetachClearsLiveWithoutReleasing(t *testing.T) {
	s, _ := newTestScene(t)

	m := testModel("a")
	s.Attach(m)

	detached := s.Detach()
	require.Same(t, m, detached)
	assert.Nil(t, s.Live())
	assert.False(t, detached.Released())
}

func TestApplyMaterialPersistsAcrossAttaches(t *testing.T) {
	s, _ := newTestScene(t)

	imported := material.NewMaterial(material.WithBaseColor(0, 1, 0, 1))
	first := testModel("a", imported)
	s.Attach(first)

	override := material.NewMaterial(material.WithBaseColor(1, 0, 0, 1))
	s.ApplyMaterial(override)
	assert.Same(t, override, first.MaterialFor(first.Meshes()[0]))

	// A later attach receives the same override.
	second := testModel("b", imported)
	s.Attach(second)
	assert.Same(t, override, second.MaterialFor(second.Meshes()[0]))

	// Clearing restores the imported material and stops affecting future
	// attaches.
	s.ApplyMaterial(nil)
	assert.Same(t, imported, second.MaterialFor(second.Meshes()[0]))
	third := testModel("c", imported)
	s.Attach(third)
	assert.Same(t, imported, third.MaterialFor(third.Meshes()[0]))
}

func TestDrawWithoutModelStillDrawsBackground(t *testing.T) {
	s, r := newTestScene(t)

	s.Draw()

	assert.Equal(t, 1, r.poseUploads)
	assert.Equal(t, 1, r.backgroundDraws)
	assert.Empty(t, r.meshDraws)
}

func TestDrawUsesResolvedMaterialParams(t *testing.T) {
	s, r := newTestScene(t)

	mat := material.NewMaterial(material.WithBaseColor(1, 0, 0, 1))
	s.Attach(testModel("a", mat))

	s.Draw()

	require.Len(t, r.meshDraws, 1)
	assert.Equal(t, mat.Params(), r.meshDraws[0])
}

func TestDrawSkipsReleasedModel(t *testing.T) {
	s, r := newTestScene(t)

	m := testModel("a")
	s.Attach(m)
	m.Release()

	s.Draw()

	assert.Equal(t, 1, r.backgroundDraws)
	assert.Empty(t, r.meshDraws)
}
