package renderer

import (
	"fmt"
	"runtime"
	"sync"

	"github.com/cogentcore/webgpu/wgpu"

	"github.com/Carmen-Shannon/oxy-view/common"
	"github.com/Carmen-Shannon/oxy-view/engine/renderer/material"
)

const (
	vertexStride        = 32  // 8 floats per vertex
	cameraUniformSize   = 208 // 3 mat4x4 + vec4
	materialUniformSize = 48  // 3 vec4
)

type wgpuRendererBackendImpl struct {
	mu     *sync.Mutex
	device *wgpu.Device
	queue  *wgpu.Queue

	instance *wgpu.Instance
	adapter  *wgpu.Adapter
	surface  *wgpu.Surface

	surfaceFormat        *wgpu.TextureFormat
	msaaTextureView      *wgpu.TextureView
	depthTextureView     *wgpu.TextureView
	renderPassDescriptor *wgpu.RenderPassDescriptor

	presentMode wgpu.PresentMode
	sampleCount MSAASampleCount
	clearColor  wgpu.Color

	// Fixed pipeline state shared by every frame.
	frameLayout    *wgpu.BindGroupLayout
	materialLayout *wgpu.BindGroupLayout

	cameraBuffer    *wgpu.Buffer
	envSampler      *wgpu.Sampler
	envTexture      *wgpu.Texture
	envTextureView  *wgpu.TextureView
	frameBindGroup  *wgpu.BindGroup

	// Shared by every material bind group; meshes without a diffuse texture
	// bind the 1x1 white texture.
	materialSampler  *wgpu.Sampler
	whiteTexture     *wgpu.Texture
	whiteTextureView *wgpu.TextureView

	surfacePipeline    *wgpu.RenderPipeline
	backgroundPipeline *wgpu.RenderPipeline

	// Frame state for batched rendering across multiple draw calls
	frameEncoder *wgpu.CommandEncoder
	framePass    *wgpu.RenderPassEncoder
	frameSurface *wgpu.Texture
	frameView    *wgpu.TextureView
}

type wgpuRendererBackend interface {
	// ConfigureSurface is a wrapper for boilerplate logic required when calling ConfigureSurface on a surface.
	// This is required when the surface size changes, such as when the window is resized.
	//
	// Parameters:
	//   - width: the new width of the surface in pixels
	//   - height: the new height of the surface in pixels
	ConfigureSurface(width, height int)

	// SetPresentMode sets the surface present mode which controls how frames are delivered to the display.
	//
	// Parameters:
	//   - mode: the PresentMode to use (VSync or Uncapped)
	SetPresentMode(mode PresentMode)

	// SetCameraPose writes the camera matrices and position into the camera
	// uniform buffer for the next frame.
	//
	// Parameters:
	//   - view: column-major view matrix
	//   - proj: column-major projection matrix
	//   - invViewProj: column-major inverse view-projection matrix
	//   - x, y, z: world-space camera position
	SetCameraPose(view, proj, invViewProj [16]float32, x, y, z float32)

	// SetEnvironment creates a GPU texture from the staging data, rebuilds
	// the frame bind group around it, and releases the previous environment
	// texture.
	//
	// Parameters:
	//   - stagingData: decoded equirectangular RGBA pixel data
	//
	// Returns:
	//   - error: an error if texture or bind group creation fails
	SetEnvironment(stagingData common.TextureStagingData) error

	// CreateMesh creates GPU vertex and index buffers plus a per-mesh
	// material uniform and bind group, and returns the mesh handle. When
	// diffuse staging data is provided, a per-mesh diffuse texture is created
	// and bound; otherwise the shared white texture is bound in its place.
	//
	// Parameters:
	//   - name: the mesh identifier, used for GPU resource labels
	//   - vertices: the vertex data
	//   - indices: the index data
	//   - materialIndex: index into the owning model's material list, or -1
	//   - diffuse: decoded diffuse texture pixels, or nil for an untextured mesh
	//
	// Returns:
	//   - Mesh: the mesh handle
	//   - error: an error if buffer or texture creation fails
	CreateMesh(name string, vertices []Vertex, indices []uint32, materialIndex int, diffuse *common.TextureStagingData) (Mesh, error)

	// BeginFrame acquires the next swapchain texture, creates a command encoder, and begins
	// the main render pass. Must be paired with EndFrame after all draw invocations.
	//
	// Returns:
	//   - error: an error if the swapchain texture could not be acquired
	BeginFrame() error

	// DrawBackground encodes the fullscreen environment pass within the
	// current render pass started by BeginFrame.
	DrawBackground()

	// DrawMesh writes the material parameters into the mesh's uniform buffer
	// and encodes an indexed draw within the current render pass.
	//
	// Parameters:
	//   - mesh: the mesh handle to draw
	//   - params: the material parameters to draw with
	DrawMesh(mesh Mesh, params material.Params)

	// EndFrame ends the current render pass and submits the command buffer to the GPU.
	// Does not present the surface; call Present() after EndFrame to display the frame.
	// Must be called after BeginFrame and all draw invocations.
	EndFrame()

	// Present presents the surface to the display and releases the swapchain texture.
	// Must be called once per frame after EndFrame.
	Present()

	// Release frees all GPU resources held by the backend.
	Release()
}

var _ RendererBackend = &wgpuRendererBackendImpl{}

func newWGPURendererBackend(surfaceDescriptor *wgpu.SurfaceDescriptor, forceFallbackAdapter bool, sampleCount MSAASampleCount, clearColor [4]float64) wgpuRendererBackend {
	runtime.LockOSThread()
	w := &wgpuRendererBackendImpl{
		mu:          &sync.Mutex{},
		instance:    wgpu.CreateInstance(nil),
		presentMode: wgpu.PresentModeImmediate,
		sampleCount: sampleCount,
		clearColor: wgpu.Color{
			R: clearColor[0], G: clearColor[1], B: clearColor[2], A: clearColor[3],
		},
	}
	w.surface = w.instance.CreateSurface(surfaceDescriptor)

	a, err := w.instance.RequestAdapter(&wgpu.RequestAdapterOptions{
		ForceFallbackAdapter: forceFallbackAdapter,
		CompatibleSurface:    w.surface,
	})
	if err != nil {
		panic(err)
	}
	w.adapter = a

	d, err := a.RequestDevice(&wgpu.DeviceDescriptor{
		Label: "Main Device",
		RequiredLimits: &wgpu.RequiredLimits{
			Limits: wgpu.DefaultLimits(),
		},
	})
	if err != nil {
		panic(err)
	}
	w.device = d
	w.queue = d.GetQueue()

	w.initFixedResources()

	return w
}

// initFixedResources creates the device-lifetime resources that do not depend
// on the surface format: the camera uniform, the environment sampler, the
// bind group layouts, and a 1x1 placeholder environment so the frame bind
// group is valid before the first environment load.
func (b *wgpuRendererBackendImpl) initFixedResources() {
	var err error
	b.cameraBuffer, err = b.device.CreateBuffer(&wgpu.BufferDescriptor{
		Label: "Camera Uniform Buffer",
		Size:  cameraUniformSize,
		Usage: wgpu.BufferUsageUniform | wgpu.BufferUsageCopyDst,
	})
	if err != nil {
		panic(err)
	}

	b.envSampler, err = b.device.CreateSampler(&wgpu.SamplerDescriptor{
		Label:         "Environment Sampler",
		AddressModeU:  wgpu.AddressModeRepeat,
		AddressModeV:  wgpu.AddressModeClampToEdge,
		AddressModeW:  wgpu.AddressModeRepeat,
		MagFilter:     wgpu.FilterModeLinear,
		MinFilter:     wgpu.FilterModeLinear,
		MipmapFilter:  wgpu.MipmapFilterModeLinear,
		LodMinClamp:   0.0,
		LodMaxClamp:   32.0,
		MaxAnisotropy: 1,
	})
	if err != nil {
		panic(err)
	}

	b.frameLayout, err = b.device.CreateBindGroupLayout(&wgpu.BindGroupLayoutDescriptor{
		Label: "Frame Bind Group Layout",
		Entries: []wgpu.BindGroupLayoutEntry{
			{
				Binding:    0,
				Visibility: wgpu.ShaderStageVertex | wgpu.ShaderStageFragment,
				Buffer: wgpu.BufferBindingLayout{
					Type:           wgpu.BufferBindingTypeUniform,
					MinBindingSize: cameraUniformSize,
				},
			},
			{
				Binding:    1,
				Visibility: wgpu.ShaderStageFragment,
				Texture: wgpu.TextureBindingLayout{
					SampleType:    wgpu.TextureSampleTypeFloat,
					ViewDimension: wgpu.TextureViewDimension2D,
				},
			},
			{
				Binding:    2,
				Visibility: wgpu.ShaderStageFragment,
				Sampler: wgpu.SamplerBindingLayout{
					Type: wgpu.SamplerBindingTypeFiltering,
				},
			},
		},
	})
	if err != nil {
		panic(err)
	}

	b.materialLayout, err = b.device.CreateBindGroupLayout(&wgpu.BindGroupLayoutDescriptor{
		Label: "Material Bind Group Layout",
		Entries: []wgpu.BindGroupLayoutEntry{
			{
				Binding:    0,
				Visibility: wgpu.ShaderStageFragment,
				Buffer: wgpu.BufferBindingLayout{
					Type:           wgpu.BufferBindingTypeUniform,
					MinBindingSize: materialUniformSize,
				},
			},
			{
				Binding:    1,
				Visibility: wgpu.ShaderStageFragment,
				Texture: wgpu.TextureBindingLayout{
					SampleType:    wgpu.TextureSampleTypeFloat,
					ViewDimension: wgpu.TextureViewDimension2D,
				},
			},
			{
				Binding:    2,
				Visibility: wgpu.ShaderStageFragment,
				Sampler: wgpu.SamplerBindingLayout{
					Type: wgpu.SamplerBindingTypeFiltering,
				},
			},
		},
	})
	if err != nil {
		panic(err)
	}

	b.materialSampler, err = b.device.CreateSampler(&wgpu.SamplerDescriptor{
		Label:         "Material Sampler",
		AddressModeU:  wgpu.AddressModeRepeat,
		AddressModeV:  wgpu.AddressModeRepeat,
		AddressModeW:  wgpu.AddressModeRepeat,
		MagFilter:     wgpu.FilterModeLinear,
		MinFilter:     wgpu.FilterModeLinear,
		MipmapFilter:  wgpu.MipmapFilterModeLinear,
		LodMinClamp:   0.0,
		LodMaxClamp:   32.0,
		MaxAnisotropy: 1,
	})
	if err != nil {
		panic(err)
	}

	// Untextured meshes bind this in the diffuse slot; sampling it is a no-op
	// in the shader.
	b.whiteTexture, b.whiteTextureView, err = b.createTextureLocked("Default Diffuse Texture", common.TextureStagingData{
		Pixels: []byte{255, 255, 255, 255},
		Width:  1,
		Height: 1,
	})
	if err != nil {
		panic(err)
	}

	// Mid-grey placeholder so meshes are lit sensibly before an environment
	// is loaded.
	if setErr := b.setEnvironmentLocked(common.TextureStagingData{
		Pixels: []byte{128, 128, 128, 255},
		Width:  1,
		Height: 1,
	}); setErr != nil {
		panic(setErr)
	}
}

func (b *wgpuRendererBackendImpl) ConfigureSurface(width, height int) {
	b.mu.Lock()
	defer b.mu.Unlock()

	capabilities := b.surface.GetCapabilities(b.adapter)
	b.surfaceFormat = &capabilities.Formats[0]

	b.surface.Configure(b.adapter, b.device, &wgpu.SurfaceConfiguration{
		Usage:       wgpu.TextureUsageRenderAttachment,
		Format:      *b.surfaceFormat,
		Width:       uint32(width),
		Height:      uint32(height),
		PresentMode: b.presentMode,
		AlphaMode:   capabilities.AlphaModes[0],
	})

	count := uint32(b.sampleCount)
	msaaEnabled := count > 1

	if msaaEnabled {
		// The render pass draws into the MSAA texture; the resolved result
		// is written to the swapchain view as the ResolveTarget.
		msaaTexture, err := b.device.CreateTexture(&wgpu.TextureDescriptor{
			Label: "MSAA Texture",
			Size: wgpu.Extent3D{
				Width:              uint32(width),
				Height:             uint32(height),
				DepthOrArrayLayers: 1,
			},
			MipLevelCount: 1,
			SampleCount:   count,
			Dimension:     wgpu.TextureDimension2D,
			Format:        *b.surfaceFormat,
			Usage:         wgpu.TextureUsageRenderAttachment,
		})
		if err != nil {
			panic(err)
		}
		b.msaaTextureView, err = msaaTexture.CreateView(nil)
		if err != nil {
			panic(err)
		}
	} else {
		b.msaaTextureView = nil
	}

	// Depth texture sample count must match the color attachment.
	depthTexture, err := b.device.CreateTexture(&wgpu.TextureDescriptor{
		Label: "Depth Texture",
		Size: wgpu.Extent3D{
			Width:              uint32(width),
			Height:             uint32(height),
			DepthOrArrayLayers: 1,
		},
		MipLevelCount: 1,
		SampleCount:   count,
		Dimension:     wgpu.TextureDimension2D,
		Format:        wgpu.TextureFormatDepth24Plus,
		Usage:         wgpu.TextureUsageRenderAttachment,
	})
	if err != nil {
		panic(err)
	}
	b.depthTextureView, err = depthTexture.CreateView(nil)
	if err != nil {
		panic(err)
	}

	storeOp := wgpu.StoreOpStore
	if msaaEnabled {
		storeOp = wgpu.StoreOpDiscard // Don't store MSAA data, just resolve
	}
	b.renderPassDescriptor = &wgpu.RenderPassDescriptor{
		ColorAttachments: []wgpu.RenderPassColorAttachment{
			{
				View:          b.msaaTextureView, // nil when MSAA is off; set in BeginFrame
				ResolveTarget: nil,               // set per-frame when MSAA is on
				LoadOp:        wgpu.LoadOpClear,
				StoreOp:       storeOp,
				ClearValue:    b.clearColor,
			},
		},
		DepthStencilAttachment: &wgpu.RenderPassDepthStencilAttachment{
			View:            b.depthTextureView, // Persistent until resize
			DepthLoadOp:     wgpu.LoadOpClear,
			DepthStoreOp:    wgpu.StoreOpDiscard,
			DepthClearValue: 1.0,
		},
	}

	if b.surfacePipeline == nil {
		b.buildPipelinesLocked()
	}
}

// buildPipelinesLocked creates the two fixed render pipelines. Requires the
// surface format, so it runs on the first ConfigureSurface. Caller must hold
// b.mu.
func (b *wgpuRendererBackendImpl) buildPipelinesLocked() {
	surfaceModule, err := b.device.CreateShaderModule(&wgpu.ShaderModuleDescriptor{
		Label: "Surface Shader",
		WGSLDescriptor: &wgpu.ShaderModuleWGSLDescriptor{
			Code: surfaceShaderSource,
		},
	})
	if err != nil {
		panic(err)
	}
	backgroundModule, err := b.device.CreateShaderModule(&wgpu.ShaderModuleDescriptor{
		Label: "Background Shader",
		WGSLDescriptor: &wgpu.ShaderModuleWGSLDescriptor{
			Code: backgroundShaderSource,
		},
	})
	if err != nil {
		panic(err)
	}

	surfaceLayout, err := b.device.CreatePipelineLayout(&wgpu.PipelineLayoutDescriptor{
		Label:            "Surface Pipeline Layout",
		BindGroupLayouts: []*wgpu.BindGroupLayout{b.frameLayout, b.materialLayout},
	})
	if err != nil {
		panic(err)
	}

	b.surfacePipeline, err = b.device.CreateRenderPipeline(&wgpu.RenderPipelineDescriptor{
		Label:  "Surface Render Pipeline",
		Layout: surfaceLayout,
		Vertex: wgpu.VertexState{
			Module:     surfaceModule,
			EntryPoint: "vs_main",
			Buffers: []wgpu.VertexBufferLayout{
				{
					ArrayStride: vertexStride,
					StepMode:    wgpu.VertexStepModeVertex,
					Attributes: []wgpu.VertexAttribute{
						{Format: wgpu.VertexFormatFloat32x3, Offset: 0, ShaderLocation: 0},
						{Format: wgpu.VertexFormatFloat32x3, Offset: 12, ShaderLocation: 1},
						{Format: wgpu.VertexFormatFloat32x2, Offset: 24, ShaderLocation: 2},
					},
				},
			},
		},
		Fragment: &wgpu.FragmentState{
			Module:     surfaceModule,
			EntryPoint: "fs_main",
			Targets: []wgpu.ColorTargetState{
				{
					Format:    *b.surfaceFormat,
					WriteMask: wgpu.ColorWriteMaskAll,
				},
			},
		},
		Primitive: wgpu.PrimitiveState{
			Topology:  wgpu.PrimitiveTopologyTriangleList,
			FrontFace: wgpu.FrontFaceCCW,
			CullMode:  wgpu.CullModeBack,
		},
		Multisample: wgpu.MultisampleState{
			Count: uint32(b.sampleCount),
			Mask:  0xFFFFFFFF,
		},
		DepthStencil: &wgpu.DepthStencilState{
			Format:            wgpu.TextureFormatDepth24Plus,
			DepthWriteEnabled: true,
			DepthCompare:      wgpu.CompareFunctionLess,
			StencilFront: wgpu.StencilFaceState{
				Compare: wgpu.CompareFunctionAlways,
			},
			StencilBack: wgpu.StencilFaceState{
				Compare: wgpu.CompareFunctionAlways,
			},
		},
	})
	if err != nil {
		panic(err)
	}

	backgroundLayout, err := b.device.CreatePipelineLayout(&wgpu.PipelineLayoutDescriptor{
		Label:            "Background Pipeline Layout",
		BindGroupLayouts: []*wgpu.BindGroupLayout{b.frameLayout},
	})
	if err != nil {
		panic(err)
	}

	// The background draws at the far plane with depth writes off, so any
	// mesh drawn afterwards covers it.
	b.backgroundPipeline, err = b.device.CreateRenderPipeline(&wgpu.RenderPipelineDescriptor{
		Label:  "Background Render Pipeline",
		Layout: backgroundLayout,
		Vertex: wgpu.VertexState{
			Module:     backgroundModule,
			EntryPoint: "vs_main",
		},
		Fragment: &wgpu.FragmentState{
			Module:     backgroundModule,
			EntryPoint: "fs_main",
			Targets: []wgpu.ColorTargetState{
				{
					Format:    *b.surfaceFormat,
					WriteMask: wgpu.ColorWriteMaskAll,
				},
			},
		},
		Primitive: wgpu.PrimitiveState{
			Topology:  wgpu.PrimitiveTopologyTriangleList,
			FrontFace: wgpu.FrontFaceCCW,
			CullMode:  wgpu.CullModeNone,
		},
		Multisample: wgpu.MultisampleState{
			Count: uint32(b.sampleCount),
			Mask:  0xFFFFFFFF,
		},
		DepthStencil: &wgpu.DepthStencilState{
			Format:            wgpu.TextureFormatDepth24Plus,
			DepthWriteEnabled: false,
			DepthCompare:      wgpu.CompareFunctionAlways,
			StencilFront: wgpu.StencilFaceState{
				Compare: wgpu.CompareFunctionAlways,
			},
			StencilBack: wgpu.StencilFaceState{
				Compare: wgpu.CompareFunctionAlways,
			},
		},
	})
	if err != nil {
		panic(err)
	}
}

func (b *wgpuRendererBackendImpl) SetPresentMode(mode PresentMode) {
	b.mu.Lock()
	defer b.mu.Unlock()

	switch mode {
	case PresentModeVSync:
		b.presentMode = wgpu.PresentModeFifo
	case PresentModeUncapped:
		fallthrough
	default:
		b.presentMode = wgpu.PresentModeImmediate
	}
}

func (b *wgpuRendererBackendImpl) SetCameraPose(view, proj, invViewProj [16]float32, x, y, z float32) {
	b.mu.Lock()
	defer b.mu.Unlock()

	u := cameraUniform{
		View:        view,
		Proj:        proj,
		InvViewProj: invViewProj,
		CamPos:      [4]float32{x, y, z, 1},
	}
	b.queue.WriteBuffer(b.cameraBuffer, 0, common.StructToBytes(&u))
}

func (b *wgpuRendererBackendImpl) SetEnvironment(stagingData common.TextureStagingData) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.setEnvironmentLocked(stagingData)
}

// createTextureLocked creates a sampled RGBA texture from staging data and
// uploads the pixels. Caller must hold b.mu (or be the constructor).
func (b *wgpuRendererBackendImpl) createTextureLocked(label string, stagingData common.TextureStagingData) (*wgpu.Texture, *wgpu.TextureView, error) {
	if stagingData.Width == 0 || stagingData.Height == 0 {
		return nil, nil, fmt.Errorf("%s staging data has zero dimensions", label)
	}
	if uint32(len(stagingData.Pixels)) != stagingData.Width*stagingData.Height*4 {
		return nil, nil, fmt.Errorf("%s staging data size mismatch: got %d bytes for %dx%d", label, len(stagingData.Pixels), stagingData.Width, stagingData.Height)
	}

	tex, err := b.device.CreateTexture(&wgpu.TextureDescriptor{
		Label:     label,
		Usage:     wgpu.TextureUsageTextureBinding | wgpu.TextureUsageCopyDst,
		Dimension: wgpu.TextureDimension2D,
		Size: wgpu.Extent3D{
			Width:              stagingData.Width,
			Height:             stagingData.Height,
			DepthOrArrayLayers: 1,
		},
		Format:        wgpu.TextureFormatRGBA8UnormSrgb,
		MipLevelCount: 1,
		SampleCount:   1,
	})
	if err != nil {
		return nil, nil, err
	}

	b.queue.WriteTexture(
		&wgpu.ImageCopyTexture{
			Texture:  tex,
			MipLevel: 0,
			Origin:   wgpu.Origin3D{},
			Aspect:   wgpu.TextureAspectAll,
		},
		stagingData.Pixels,
		&wgpu.TextureDataLayout{
			Offset:       0,
			BytesPerRow:  stagingData.Width * 4,
			RowsPerImage: stagingData.Height,
		},
		&wgpu.Extent3D{
			Width:              stagingData.Width,
			Height:             stagingData.Height,
			DepthOrArrayLayers: 1,
		},
	)

	view, err := tex.CreateView(nil)
	if err != nil {
		tex.Release()
		return nil, nil, err
	}

	return tex, view, nil
}

// setEnvironmentLocked uploads the environment texture and rebuilds the frame
// bind group around it. Caller must hold b.mu (or be the constructor).
func (b *wgpuRendererBackendImpl) setEnvironmentLocked(stagingData common.TextureStagingData) error {
	tex, view, err := b.createTextureLocked("Environment Texture", stagingData)
	if err != nil {
		return err
	}

	bindGroup, err := b.device.CreateBindGroup(&wgpu.BindGroupDescriptor{
		Label:  "Frame Bind Group",
		Layout: b.frameLayout,
		Entries: []wgpu.BindGroupEntry{
			{Binding: 0, Buffer: b.cameraBuffer, Offset: 0, Size: wgpu.WholeSize},
			{Binding: 1, TextureView: view},
			{Binding: 2, Sampler: b.envSampler},
		},
	})
	if err != nil {
		view.Release()
		tex.Release()
		return err
	}

	if b.frameBindGroup != nil {
		b.frameBindGroup.Release()
	}
	if b.envTextureView != nil {
		b.envTextureView.Release()
	}
	if b.envTexture != nil {
		b.envTexture.Release()
	}
	b.envTexture = tex
	b.envTextureView = view
	b.frameBindGroup = bindGroup

	return nil
}

func (b *wgpuRendererBackendImpl) CreateMesh(name string, vertices []Vertex, indices []uint32, materialIndex int, diffuse *common.TextureStagingData) (Mesh, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if len(vertices) == 0 || len(indices) == 0 {
		return nil, fmt.Errorf("mesh %q has no geometry", name)
	}

	vertexBuffer, err := b.device.CreateBuffer(&wgpu.BufferDescriptor{
		Label: name + " Vertex Buffer",
		Size:  uint64(len(vertices)) * vertexStride,
		Usage: wgpu.BufferUsageVertex | wgpu.BufferUsageCopyDst,
	})
	if err != nil {
		return nil, err
	}
	b.queue.WriteBuffer(vertexBuffer, 0, common.SliceToBytes(vertices))

	indexBuffer, err := b.device.CreateBuffer(&wgpu.BufferDescriptor{
		Label: name + " Index Buffer",
		Size:  uint64(len(indices)) * 4,
		Usage: wgpu.BufferUsageIndex | wgpu.BufferUsageCopyDst,
	})
	if err != nil {
		vertexBuffer.Release()
		return nil, err
	}
	b.queue.WriteBuffer(indexBuffer, 0, common.SliceToBytes(indices))

	materialBuffer, err := b.device.CreateBuffer(&wgpu.BufferDescriptor{
		Label: name + " Material Buffer",
		Size:  materialUniformSize,
		Usage: wgpu.BufferUsageUniform | wgpu.BufferUsageCopyDst,
	})
	if err != nil {
		indexBuffer.Release()
		vertexBuffer.Release()
		return nil, err
	}

	var diffuseTexture *wgpu.Texture
	var diffuseView *wgpu.TextureView
	boundView := b.whiteTextureView
	if diffuse != nil {
		diffuseTexture, diffuseView, err = b.createTextureLocked(name+" Diffuse Texture", *diffuse)
		if err != nil {
			materialBuffer.Release()
			indexBuffer.Release()
			vertexBuffer.Release()
			return nil, err
		}
		boundView = diffuseView
	}

	materialGroup, err := b.device.CreateBindGroup(&wgpu.BindGroupDescriptor{
		Label:  name + " Material Bind Group",
		Layout: b.materialLayout,
		Entries: []wgpu.BindGroupEntry{
			{Binding: 0, Buffer: materialBuffer, Offset: 0, Size: wgpu.WholeSize},
			{Binding: 1, TextureView: boundView},
			{Binding: 2, Sampler: b.materialSampler},
		},
	})
	if err != nil {
		if diffuseView != nil {
			diffuseView.Release()
		}
		if diffuseTexture != nil {
			diffuseTexture.Release()
		}
		materialBuffer.Release()
		indexBuffer.Release()
		vertexBuffer.Release()
		return nil, err
	}

	return &meshImpl{
		name:           name,
		indexCount:     uint32(len(indices)),
		materialIndex:  materialIndex,
		vertexBuffer:   vertexBuffer,
		indexBuffer:    indexBuffer,
		materialBuffer: materialBuffer,
		materialGroup:  materialGroup,
		diffuseTexture: diffuseTexture,
		diffuseView:    diffuseView,
	}, nil
}

func (b *wgpuRendererBackendImpl) BeginFrame() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	// If a previous frame's surface texture is still held, avoid acquiring
	// another one. Prevents wgpu-native validation errors like "Surface
	// image is already acquired" when frames overlap.
	if b.frameSurface != nil {
		return fmt.Errorf("previous frame surface not yet presented")
	}

	surfaceTexture, err := b.surface.GetCurrentTexture()
	if err != nil {
		return err
	}

	view, err := surfaceTexture.CreateView(nil)
	if err != nil {
		surfaceTexture.Release()
		return err
	}

	encoder, err := b.device.CreateCommandEncoder(nil)
	if err != nil {
		view.Release()
		surfaceTexture.Release()
		return err
	}

	// When MSAA is enabled, the MSAA texture is the color attachment View and
	// the swapchain view is the ResolveTarget. When MSAA is off, the swapchain
	// view is the color attachment View directly and ResolveTarget is nil.
	if b.sampleCount > 1 {
		b.renderPassDescriptor.ColorAttachments[0].ResolveTarget = view
	} else {
		b.renderPassDescriptor.ColorAttachments[0].View = view
	}
	pass := encoder.BeginRenderPass(b.renderPassDescriptor)

	b.frameEncoder = encoder
	b.framePass = pass
	b.frameSurface = surfaceTexture
	b.frameView = view

	return nil
}

func (b *wgpuRendererBackendImpl) DrawBackground() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.framePass == nil || b.backgroundPipeline == nil {
		return
	}

	b.framePass.SetPipeline(b.backgroundPipeline)
	b.framePass.SetBindGroup(0, b.frameBindGroup, nil)
	b.framePass.Draw(3, 1, 0, 0)
}

func (b *wgpuRendererBackendImpl) DrawMesh(mesh Mesh, params material.Params) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.framePass == nil || b.surfacePipeline == nil {
		return
	}

	impl, ok := mesh.(*meshImpl)
	if !ok {
		return
	}

	b.queue.WriteBuffer(impl.materialBuffer, 0, common.StructToBytes(&params))

	b.framePass.SetPipeline(b.surfacePipeline)
	b.framePass.SetBindGroup(0, b.frameBindGroup, nil)
	b.framePass.SetBindGroup(1, impl.materialGroup, nil)
	b.framePass.SetVertexBuffer(0, impl.vertexBuffer, 0, wgpu.WholeSize)
	b.framePass.SetIndexBuffer(impl.indexBuffer, wgpu.IndexFormatUint32, 0, wgpu.WholeSize)
	b.framePass.DrawIndexed(impl.indexCount, 1, 0, 0, 0)
}

func (b *wgpuRendererBackendImpl) EndFrame() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.framePass == nil {
		return
	}

	b.framePass.End()

	commandBuffer, err := b.frameEncoder.Finish(nil)
	if err != nil {
		b.frameEncoder.Release()
		b.frameView.Release()
		b.frameSurface.Release()
		b.frameEncoder = nil
		b.framePass = nil
		b.frameSurface = nil
		b.frameView = nil
		return
	}

	b.queue.Submit(commandBuffer)

	commandBuffer.Release()
	b.frameEncoder.Release()
	b.frameEncoder = nil
	b.framePass = nil
}

func (b *wgpuRendererBackendImpl) Present() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.frameSurface == nil {
		return
	}

	b.surface.Present()

	if b.frameView != nil {
		b.frameView.Release()
		b.frameView = nil
	}
	if b.frameSurface != nil {
		b.frameSurface.Release()
		b.frameSurface = nil
	}
}

func (b *wgpuRendererBackendImpl) Release() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.frameBindGroup != nil {
		b.frameBindGroup.Release()
	}
	if b.envTextureView != nil {
		b.envTextureView.Release()
	}
	if b.envTexture != nil {
		b.envTexture.Release()
	}
	if b.whiteTextureView != nil {
		b.whiteTextureView.Release()
	}
	if b.whiteTexture != nil {
		b.whiteTexture.Release()
	}
	if b.materialSampler != nil {
		b.materialSampler.Release()
	}
	if b.envSampler != nil {
		b.envSampler.Release()
	}
	if b.cameraBuffer != nil {
		b.cameraBuffer.Release()
	}
	if b.device != nil {
		b.device.Release()
	}
	if b.surface != nil {
		b.surface.Release()
	}
	if b.instance != nil {
		b.instance.Release()
	}
}
