package loader

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/binary"
	"errors"
	"fmt"
	"image"
	"image/png"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Carmen-Shannon/oxy-view/common"
	"github.com/Carmen-Shannon/oxy-view/engine/renderer"
)

type fakeMesh struct {
	name          string
	indexCount    uint32
	materialIndex int
	diffuse       *common.TextureStagingData
	released      int
}

func (m *fakeMesh) Name() string       { return m.name }
func (m *fakeMesh) IndexCount() uint32 { return m.indexCount }
func (m *fakeMesh) MaterialIndex() int { return m.materialIndex }
func (m *fakeMesh) Release()           { m.released++ }

type fakeFactory struct {
	created  []*fakeMesh
	failOn   int
	onCreate func()
}

func (f *fakeFactory) CreateMesh(name string, vertices []renderer.Vertex, indices []uint32, materialIndex int, diffuse *common.TextureStagingData) (renderer.Mesh, error) {
	if f.onCreate != nil {
		f.onCreate()
	}
	if f.failOn > 0 && len(f.created)+1 == f.failOn {
		return nil, errors.New("out of GPU memory")
	}
	mesh := &fakeMesh{
		name:          name,
		indexCount:    uint32(len(indices)),
		materialIndex: materialIndex,
		diffuse:       diffuse,
	}
	f.created = append(f.created, mesh)
	return mesh, nil
}

// triangleBuffer packs three float32 positions followed by three uint16
// indices, matching the buffer views in triangleJSON.
func triangleBuffer() []byte {
	var buf bytes.Buffer
	positions := [][3]float32{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}}
	for _, pos := range positions {
		for _, v := range pos {
			bits := math.Float32bits(v)
			var b [4]byte
			binary.LittleEndian.PutUint32(b[:], bits)
			buf.Write(b[:])
		}
	}
	for _, idx := range []uint16{0, 1, 2} {
		var b [2]byte
		binary.LittleEndian.PutUint16(b[:], idx)
		buf.Write(b[:])
	}
	return buf.Bytes()
}

// triangleJSON builds a single-triangle document. meshCount controls how many
// meshes share the same accessors; withMaterial adds a red metallic material.
func triangleJSON(meshCount int, withMaterial bool) string {
	uri := "data:application/octet-stream;base64," + base64.StdEncoding.EncodeToString(triangleBuffer())

	meshes := ""
	for i := 0; i < meshCount; i++ {
		if i > 0 {
			meshes += ","
		}
		materialRef := ""
		if withMaterial {
			materialRef = `,"material":0`
		}
		meshes += fmt.Sprintf(`{"name":"tri%d","primitives":[{"attributes":{"POSITION":0},"indices":1%s}]}`, i, materialRef)
	}

	materials := ""
	if withMaterial {
		materials = `,"materials":[{"name":"red","pbrMetallicRoughness":{"baseColorFactor":[1,0,0,1],"metallicFactor":0.75,"roughnessFactor":0.25},"emissiveFactor":[0.1,0.2,0.3]}]`
	}

	return fmt.Sprintf(`{
		"asset":{"version":"2.0"},
		"meshes":[%s],
		"accessors":[
			{"bufferView":0,"componentType":5126,"count":3,"type":"VEC3"},
			{"bufferView":1,"componentType":5123,"count":3,"type":"SCALAR"}
		],
		"bufferViews":[
			{"buffer":0,"byteOffset":0,"byteLength":36},
			{"buffer":0,"byteOffset":36,"byteLength":6}
		],
		"buffers":[{"uri":"%s","byteLength":42}]%s
	}`, meshes, uri, materials)
}

func writeTempGLTF(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadTriangleFromDataURI(t *testing.T) {
	path := writeTempGLTF(t, "spinner.gltf", triangleJSON(1, true))
	factory := &fakeFactory{}
	l := NewLoader(factory)

	m, err := l.Load(context.Background(), path)
	require.NoError(t, err)

	assert.Equal(t, "spinner", m.Name())
	require.Len(t, m.Meshes(), 1)
	assert.Equal(t, "tri0", m.Meshes()[0].Name())
	assert.Equal(t, uint32(3), m.Meshes()[0].IndexCount())
	assert.Equal(t, 0, m.Meshes()[0].MaterialIndex())

	require.Len(t, m.Materials(), 1)
	params := m.Materials()[0].Params()
	assert.Equal(t, [4]float32{1, 0, 0, 1}, params.BaseColor)
	assert.InDelta(t, 0.75, params.MetallicRoughness[0], 1e-6)
	assert.InDelta(t, 0.25, params.MetallicRoughness[1], 1e-6)
	assert.Equal(t, [4]float32{0.1, 0.2, 0.3, 0}, params.Emissive)

	require.Len(t, factory.created, 1)
	assert.Nil(t, factory.created[0].diffuse)
}

// encodeTestPNG returns an opaque white PNG of the given size.
func encodeTestPNG(t *testing.T, width, height int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for i := range img.Pix {
		img.Pix[i] = 0xFF
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestLoadDecodesDiffuseTextureForMeshUpload(t *testing.T) {
	bufURI := "data:application/octet-stream;base64," + base64.StdEncoding.EncodeToString(triangleBuffer())
	pngURI := "data:image/png;base64," + base64.StdEncoding.EncodeToString(encodeTestPNG(t, 2, 2))
	json := fmt.Sprintf(`{
		"asset":{"version":"2.0"},
		"meshes":[{"name":"tri0","primitives":[{"attributes":{"POSITION":0},"indices":1,"material":0}]}],
		"accessors":[
			{"bufferView":0,"componentType":5126,"count":3,"type":"VEC3"},
			{"bufferView":1,"componentType":5123,"count":3,"type":"SCALAR"}
		],
		"bufferViews":[
			{"buffer":0,"byteOffset":0,"byteLength":36},
			{"buffer":0,"byteOffset":36,"byteLength":6}
		],
		"buffers":[{"uri":"%s","byteLength":42}],
		"materials":[{"name":"skin","pbrMetallicRoughness":{"baseColorTexture":{"index":0}}}],
		"textures":[{"source":0}],
		"images":[{"mimeType":"image/png","uri":"%s"}]
	}`, bufURI, pngURI)
	path := writeTempGLTF(t, "textured.gltf", json)

	factory := &fakeFactory{}
	m, err := NewLoader(factory).Load(context.Background(), path)
	require.NoError(t, err)

	require.Len(t, factory.created, 1)
	staged := factory.created[0].diffuse
	require.NotNil(t, staged)
	assert.Equal(t, uint32(2), staged.Width)
	assert.Equal(t, uint32(2), staged.Height)
	assert.Len(t, staged.Pixels, 16)

	// The textured flag rides in the material params so the shader blends in
	// the sampled texel.
	require.Len(t, m.Materials(), 1)
	assert.Equal(t, float32(1), m.Materials()[0].Params().MetallicRoughness[2])
}

func TestLoadFailsOnUndecodableDiffuseTexture(t *testing.T) {
	bufURI := "data:application/octet-stream;base64," + base64.StdEncoding.EncodeToString(triangleBuffer())
	badURI := "data:image/png;base64," + base64.StdEncoding.EncodeToString([]byte("not a png"))
	json := fmt.Sprintf(`{
		"asset":{"version":"2.0"},
		"meshes":[{"name":"tri0","primitives":[{"attributes":{"POSITION":0},"indices":1,"material":0}]}],
		"accessors":[
			{"bufferView":0,"componentType":5126,"count":3,"type":"VEC3"},
			{"bufferView":1,"componentType":5123,"count":3,"type":"SCALAR"}
		],
		"bufferViews":[
			{"buffer":0,"byteOffset":0,"byteLength":36},
			{"buffer":0,"byteOffset":36,"byteLength":6}
		],
		"buffers":[{"uri":"%s","byteLength":42}],
		"materials":[{"name":"skin","pbrMetallicRoughness":{"baseColorTexture":{"index":0}}}],
		"textures":[{"source":0}],
		"images":[{"mimeType":"image/png","uri":"%s"}]
	}`, bufURI, badURI)
	path := writeTempGLTF(t, "badtex.gltf", json)

	factory := &fakeFactory{}
	_, err := NewLoader(factory).Load(context.Background(), path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "diffuse texture")
	assert.Empty(t, factory.created)
}

func TestLoadWithoutMaterialsUsesFallback(t *testing.T) {
	path := writeTempGLTF(t, "bare.gltf", triangleJSON(1, false))
	l := NewLoader(&fakeFactory{})

	m, err := l.Load(context.Background(), path)
	require.NoError(t, err)

	assert.Empty(t, m.Materials())
	assert.Equal(t, -1, m.Meshes()[0].MaterialIndex())
	require.NotNil(t, m.MaterialFor(m.Meshes()[0]))
}

func TestLoadComputesNormalsWhenAbsent(t *testing.T) {
	parser := newGLTFParser()
	require.NoError(t, parser.ParseReader(bytes.NewReader([]byte(triangleJSON(1, false))), false))

	meshes, err := extractMeshes(parser)
	require.NoError(t, err)
	require.Len(t, meshes, 1)

	// Counter-clockwise triangle in the XY plane faces +Z.
	for _, v := range meshes[0].Vertices {
		assert.InDelta(t, 0, v.Normal[0], 1e-6)
		assert.InDelta(t, 0, v.Normal[1], 1e-6)
		assert.InDelta(t, 1, v.Normal[2], 1e-6)
	}
}

func TestLoadReleasesMeshesOnFactoryFailure(t *testing.T) {
	path := writeTempGLTF(t, "two.gltf", triangleJSON(2, false))
	factory := &fakeFactory{failOn: 2}
	l := NewLoader(factory)

	_, err := l.Load(context.Background(), path)
	require.Error(t, err)

	require.Len(t, factory.created, 1)
	assert.Equal(t, 1, factory.created[0].released)
}

func TestLoadReleasesMeshesOnCancel(t *testing.T) {
	path := writeTempGLTF(t, "two.gltf", triangleJSON(2, false))

	ctx, cancel := context.WithCancel(context.Background())
	factory := &fakeFactory{onCreate: cancel}
	l := NewLoader(factory)

	_, err := l.Load(ctx, path)
	require.ErrorIs(t, err, context.Canceled)

	require.Len(t, factory.created, 1)
	assert.Equal(t, 1, factory.created[0].released)
}

func TestLoadRejectsMissingPosition(t *testing.T) {
	json := `{
		"asset":{"version":"2.0"},
		"meshes":[{"primitives":[{"attributes":{"NORMAL":0}}]}],
		"accessors":[{"bufferView":0,"componentType":5126,"count":3,"type":"VEC3"}],
		"bufferViews":[{"buffer":0,"byteLength":36}],
		"buffers":[{"uri":"data:application/octet-stream;base64,` +
		base64.StdEncoding.EncodeToString(make([]byte, 36)) + `","byteLength":36}]
	}`
	path := writeTempGLTF(t, "nopos.gltf", json)

	_, err := NewLoader(&fakeFactory{}).Load(context.Background(), path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "POSITION")
}

func TestLoadRejectsUnsupportedPrimitiveMode(t *testing.T) {
	json := strings.Replace(triangleJSON(1, false), `"indices":1`, `"indices":1,"mode":1`, 1)
	path := writeTempGLTF(t, "lines.gltf", json)

	_, err := NewLoader(&fakeFactory{}).Load(context.Background(), path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "primitive mode")
}

// --- GLB parsing ---

// buildGLB assembles a GLB container around the given JSON and binary chunks.
func buildGLB(t *testing.T, jsonChunk, binChunk []byte) []byte {
	t.Helper()

	pad := func(data []byte, filler byte) []byte {
		for len(data)%4 != 0 {
			data = append(data, filler)
		}
		return data
	}
	jsonChunk = pad(jsonChunk, ' ')
	binChunk = pad(binChunk, 0)

	var buf bytes.Buffer
	total := 12 + 8 + len(jsonChunk)
	if binChunk != nil {
		total += 8 + len(binChunk)
	}

	require.NoError(t, binary.Write(&buf, binary.LittleEndian, gltfGLBHeader{
		Magic:   gltfGLBMagic,
		Version: gltfGLBVersion,
		Length:  uint32(total),
	}))
	require.NoError(t, binary.Write(&buf, binary.LittleEndian, gltfGLBChunkHeader{
		ChunkLength: uint32(len(jsonChunk)),
		ChunkType:   gltfGLBChunkJSON,
	}))
	buf.Write(jsonChunk)
	if binChunk != nil {
		require.NoError(t, binary.Write(&buf, binary.LittleEndian, gltfGLBChunkHeader{
			ChunkLength: uint32(len(binChunk)),
			ChunkType:   gltfGLBChunkBIN,
		}))
		buf.Write(binChunk)
	}

	return buf.Bytes()
}

func TestParseGLBTriangle(t *testing.T) {
	json := []byte(`{
		"asset":{"version":"2.0"},
		"meshes":[{"name":"tri","primitives":[{"attributes":{"POSITION":0},"indices":1}]}],
		"accessors":[
			{"bufferView":0,"componentType":5126,"count":3,"type":"VEC3"},
			{"bufferView":1,"componentType":5123,"count":3,"type":"SCALAR"}
		],
		"bufferViews":[
			{"buffer":0,"byteOffset":0,"byteLength":36},
			{"buffer":0,"byteOffset":36,"byteLength":6}
		],
		"buffers":[{"byteLength":42}]
	}`)
	glb := buildGLB(t, json, triangleBuffer())

	parser := newGLTFParser()
	require.NoError(t, parser.ParseReader(bytes.NewReader(glb), true))

	meshes, err := extractMeshes(parser)
	require.NoError(t, err)
	require.Len(t, meshes, 1)
	assert.Equal(t, "tri", meshes[0].Name)
	assert.Len(t, meshes[0].Vertices, 3)
	assert.Equal(t, []uint32{0, 1, 2}, meshes[0].Indices)
	assert.Equal(t, [3]float32{1, 0, 0}, meshes[0].Vertices[1].Position)
}

func TestParseGLBRejectsBadMagic(t *testing.T) {
	glb := buildGLB(t, []byte(`{"asset":{"version":"2.0"}}`), nil)
	binary.LittleEndian.PutUint32(glb[:4], 0xDEADBEEF)

	err := newGLTFParser().ParseReader(bytes.NewReader(glb), true)
	require.ErrorIs(t, err, errInvalidGLBMagic)
}

func TestParseGLBRejectsBadVersion(t *testing.T) {
	glb := buildGLB(t, []byte(`{"asset":{"version":"2.0"}}`), nil)
	binary.LittleEndian.PutUint32(glb[4:8], 1)

	err := newGLTFParser().ParseReader(bytes.NewReader(glb), true)
	require.ErrorIs(t, err, errInvalidGLBVersion)
}

func TestParseGLBRejectsMissingJSONChunk(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, binary.Write(&buf, binary.LittleEndian, gltfGLBHeader{
		Magic:   gltfGLBMagic,
		Version: gltfGLBVersion,
		Length:  12,
	}))

	err := newGLTFParser().ParseReader(bytes.NewReader(buf.Bytes()), true)
	require.ErrorIs(t, err, errMissingJSONChunk)
}

func TestParseRejectsWrongAssetVersion(t *testing.T) {
	err := newGLTFParser().ParseReader(bytes.NewReader([]byte(`{"asset":{"version":"1.0"}}`)), false)
	require.ErrorIs(t, err, errInvalidGLTFVersion)
}
