package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg := Load(filepath.Join(t.TempDir(), "nope.toml"))
	assert.Equal(t, Default(), cfg)
}

func TestLoadInvalidFileReturnsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "viewer.toml")
	require.NoError(t, os.WriteFile(path, []byte("not [valid toml"), 0o644))

	cfg := Load(path)
	assert.Equal(t, Default(), cfg)
}

func TestSaveLoadRoundTrip(t *testing.T) {
	cfg := Default()
	cfg.Window.Title = "Round Trip"
	cfg.Camera.MaxRadius = 42
	cfg.Material.Metallic = 1
	cfg.Engine.Profiling = true
	cfg.Environment = "assets/studio.png"
	cfg.Models = []string{"assets/helmet.glb", "assets/sphere.gltf"}

	path := filepath.Join(t.TempDir(), "nested", "viewer.toml")
	require.NoError(t, Save(path, cfg))

	assert.Equal(t, cfg, Load(path))
}

func TestLoadMergesPartialFileOverDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "viewer.toml")
	require.NoError(t, os.WriteFile(path, []byte("[window]\nwidth = 640\n"), 0o644))

	cfg := Load(path)
	assert.Equal(t, 640, cfg.Window.Width)
	assert.Equal(t, Default().Window.Title, cfg.Window.Title)
	assert.Equal(t, Default().Camera, cfg.Camera)
}
