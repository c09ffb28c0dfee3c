package environment

import (
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Carmen-Shannon/oxy-view/common"
)

type captureTarget struct {
	uploads []common.TextureStagingData
	err     error
}

func (t *captureTarget) SetEnvironment(stagingData common.TextureStagingData) error {
	if t.err != nil {
		return t.err
	}
	t.uploads = append(t.uploads, stagingData)
	return nil
}

func writeTestPNG(t *testing.T, width, height int) string {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x), G: uint8(y), B: 128, A: 255})
		}
	}

	path := filepath.Join(t.TempDir(), "env.png")
	f, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, png.Encode(f, img))
	require.NoError(t, f.Close())
	return path
}

func TestLoadUploadsDecodedPixels(t *testing.T) {
	target := &captureTarget{}
	env := NewEnvironment(target)

	path := writeTestPNG(t, 4, 2)
	require.NoError(t, env.Load(path))

	require.Len(t, target.uploads, 1)
	upload := target.uploads[0]
	assert.Equal(t, uint32(4), upload.Width)
	assert.Equal(t, uint32(2), upload.Height)
	assert.Len(t, upload.Pixels, 4*2*4)
	assert.Equal(t, path, env.Path())
}

func TestLoadMissingFileFails(t *testing.T) {
	target := &captureTarget{}
	env := NewEnvironment(target)

	err := env.Load(filepath.Join(t.TempDir(), "missing.png"))
	require.Error(t, err)
	assert.Empty(t, target.uploads)
	assert.Empty(t, env.Path())
}

func TestLoadKeepsPathOnUploadFailure(t *testing.T) {
	target := &captureTarget{}
	env := NewEnvironment(target)

	good := writeTestPNG(t, 2, 2)
	require.NoError(t, env.Load(good))

	target.err = errors.New("device lost")
	err := env.Load(writeTestPNG(t, 2, 2))
	require.Error(t, err)
	assert.Equal(t, good, env.Path())
}
