// Package environment loads equirectangular environment images and uploads
// them to the renderer, where they light the model and fill the background.
package environment

import (
	"fmt"
	"path/filepath"
	"strings"
	"sync"

	"github.com/Carmen-Shannon/oxy-view/common"
)

// Target receives decoded environment pixels. It is satisfied by
// renderer.Renderer.
type Target interface {
	SetEnvironment(stagingData common.TextureStagingData) error
}

type environmentImpl struct {
	mu     sync.Mutex
	target Target
	path   string
}

// Environment manages the active environment map.
type Environment interface {
	// Load decodes the image at path and uploads it to the target. On
	// failure the previously loaded environment stays active.
	//
	// Parameters:
	//   - path: path to a PNG or JPEG equirectangular image
	//
	// Returns:
	//   - error: error if decoding or upload fails
	Load(path string) error

	// Path returns the path of the most recently loaded environment.
	//
	// Returns:
	//   - string: the path, or empty when nothing has been loaded
	Path() string
}

var _ Environment = &environmentImpl{}

func (e *environmentImpl) Load(path string) error {
	tex := &common.ImportedTexture{
		Name: strings.TrimSuffix(filepath.Base(path), filepath.Ext(path)),
		Path: path,
	}

	pixels, width, height, err := tex.Decode()
	if err != nil {
		return fmt.Errorf("failed to decode environment %s: %w", path, err)
	}

	if err := e.target.SetEnvironment(common.TextureStagingData{
		Pixels: pixels,
		Width:  width,
		Height: height,
	}); err != nil {
		return fmt.Errorf("failed to upload environment %s: %w", path, err)
	}

	e.mu.Lock()
	e.path = path
	e.mu.Unlock()
	return nil
}

func (e *environmentImpl) Path() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.path
}

// NewEnvironment creates an Environment uploading to the given target.
//
// Parameters:
//   - target: destination for decoded pixels, typically the renderer
//
// Returns:
//   - Environment: the configured environment
func NewEnvironment(target Target) Environment {
	if target == nil {
		panic("environment requires an upload target")
	}
	return &environmentImpl{target: target}
}
