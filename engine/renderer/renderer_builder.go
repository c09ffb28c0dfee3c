package renderer

import "github.com/Carmen-Shannon/oxy-view/engine/window"

// RendererBuilderOption is a functional option for configuring a Renderer.
type RendererBuilderOption func(*renderer)

// NewRenderer creates a new Renderer instance with the specified backend type,
// bound to the given window's surface. The surface is configured for the
// window's current size before returning.
//
// Parameters:
//   - backendType: the type of rendering backend to use (e.g., WGPU)
//   - w: the window providing the platform surface descriptor
//   - options: variadic list of RendererBuilderOption functions
//
// Returns:
//   - Renderer: a new instance of Renderer configured with the specified backend and options
func NewRenderer(backendType RendererBackendType, w window.Window, options ...RendererBuilderOption) Renderer {
	r := &renderer{
		backendType: backendType,
	}

	// Apply options first so config flags (e.g. forceFallbackAdapter) are
	// available before the backend requests a GPU adapter.
	for _, opt := range options {
		opt(r)
	}

	msaa := MSAA4x // default
	if r.pendingMSAA != nil {
		msaa = *r.pendingMSAA
	}

	clearColor := [4]float64{0.1, 0.1, 0.1, 1.0}
	if r.pendingClearColor != nil {
		clearColor = *r.pendingClearColor
	}

	switch backendType {
	case BackendTypeWGPU:
		fallthrough
	default:
		r.backend = newWGPURendererBackend(w.SurfaceDescriptor(), r.forceFallbackAdapter, msaa, clearColor)
	}

	if r.pendingPresentMode != nil {
		r.backend.SetPresentMode(*r.pendingPresentMode)
	}

	r.backend.ConfigureSurface(w.Width(), w.Height())
	return r
}

// WithForceFallbackAdapter forces the backend to use a software fallback
// adapter. Useful for headless environments or debugging driver issues.
//
// Returns:
//   - RendererBuilderOption: the option function
func WithForceFallbackAdapter() RendererBuilderOption {
	return func(r *renderer) {
		r.forceFallbackAdapter = true
	}
}

// WithPresentMode sets the initial surface present mode.
//
// Parameters:
//   - mode: the PresentMode to use
//
// Returns:
//   - RendererBuilderOption: the option function
func WithPresentMode(mode PresentMode) RendererBuilderOption {
	return func(r *renderer) {
		r.pendingPresentMode = &mode
	}
}

// WithMSAA sets the MSAA sample count for the main render pass.
//
// Parameters:
//   - count: the sample count
//
// Returns:
//   - RendererBuilderOption: the option function
func WithMSAA(count MSAASampleCount) RendererBuilderOption {
	return func(r *renderer) {
		r.pendingMSAA = &count
	}
}

// WithClearColor sets the render pass clear color, used wherever the
// environment background does not cover the frame.
//
// Parameters:
//   - red, green, blue, alpha: color components in [0, 1]
//
// Returns:
//   - RendererBuilderOption: the option function
func WithClearColor(red, green, blue, alpha float64) RendererBuilderOption {
	return func(r *renderer) {
		r.pendingClearColor = &[4]float64{red, green, blue, alpha}
	}
}
