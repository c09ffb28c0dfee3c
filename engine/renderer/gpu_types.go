package renderer

// Vertex is the GPU vertex layout shared by every mesh pipeline: position,
// normal and UV, tightly packed at 32 bytes.
type Vertex struct {
	// Position is the model-space vertex position.
	Position [3]float32

	// Normal is the model-space vertex normal.
	Normal [3]float32

	// UV is the texture coordinate.
	UV [2]float32
}

// cameraUniform is the GPU-facing camera block bound at group 0 binding 0.
// Layout must match the CameraUniform struct in the WGSL shaders: three
// mat4x4 plus a vec4, 208 bytes.
type cameraUniform struct {
	View        [16]float32
	Proj        [16]float32
	InvViewProj [16]float32
	CamPos      [4]float32
}
