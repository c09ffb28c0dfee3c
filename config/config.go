// Package config holds the viewer's persisted preferences. Settings load
// from a TOML file and fall back to defaults when the file is missing or
// invalid.
package config

import (
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
)

// DefaultConfigPath is the path to the viewer config file, relative to the
// process working directory.
const DefaultConfigPath = "config/viewer.toml"

// WindowConfig holds window creation settings.
type WindowConfig struct {
	Title  string `toml:"title"`
	Width  int    `toml:"width"`
	Height int    `toml:"height"`
}

// CameraConfig holds orbit controller bounds and speeds.
type CameraConfig struct {
	Radius      float32 `toml:"radius"`
	MinRadius   float32 `toml:"min_radius"`
	MaxRadius   float32 `toml:"max_radius"`
	Damping     float32 `toml:"damping"`
	RotateSpeed float32 `toml:"rotate_speed"`
	ZoomSpeed   float32 `toml:"zoom_speed"`
}

// MaterialConfig holds the starting values for the shared override material
// the letter keys adjust.
type MaterialConfig struct {
	BaseColor [4]float32 `toml:"base_color"`
	Metallic  float32    `toml:"metallic"`
	Roughness float32    `toml:"roughness"`
}

// EngineConfig holds loop rates and profiling.
type EngineConfig struct {
	TickRate   float64 `toml:"tick_rate"`
	FrameLimit float64 `toml:"frame_limit"`
	Profiling  bool    `toml:"profiling"`
}

// Config is the root viewer configuration. Persisted across runs.
type Config struct {
	Window      WindowConfig   `toml:"window"`
	Camera      CameraConfig   `toml:"camera"`
	Material    MaterialConfig `toml:"material"`
	Engine      EngineConfig   `toml:"engine"`
	Environment string         `toml:"environment"`

	// Models is the catalog bound to the number keys: Models[0] loads on
	// key 1, Models[1] on key 2, and so on.
	Models []string `toml:"models"`
}

// Default returns the default viewer configuration.
func Default() Config {
	return Config{
		Window: WindowConfig{
			Title:  "Material Viewer",
			Width:  1280,
			Height: 720,
		},
		Camera: CameraConfig{
			Radius:      5,
			MinRadius:   0.5,
			MaxRadius:   100,
			Damping:     0.1,
			RotateSpeed: 1,
			ZoomSpeed:   0.25,
		},
		Material: MaterialConfig{
			BaseColor: [4]float32{0.5, 0.5, 0.5, 1},
			Metallic:  0,
			Roughness: 0.5,
		},
		Engine: EngineConfig{
			TickRate:   60,
			FrameLimit: 0,
			Profiling:  false,
		},
	}
}

// Load reads the configuration from path. If the file is missing or
// invalid, returns Default() and does not create a file.
//
// Parameters:
//   - path: path to the TOML config file
//
// Returns:
//   - Config: the loaded configuration, or defaults
func Load(path string) Config {
	data, err := os.ReadFile(path)
	if err != nil {
		return Default()
	}

	cfg := Default()
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return Default()
	}
	return cfg
}

// Save writes the configuration to path, creating the directory if needed.
//
// Parameters:
//   - path: path to the TOML config file
//   - cfg: the configuration to persist
//
// Returns:
//   - error: error if marshalling or writing fails
func Save(path string, cfg Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}

	data, err := toml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
