package loader

// NewLoader creates a Loader that uploads geometry through the given factory.
//
// Parameters:
//   - factory: destination for extracted geometry, typically the renderer
//
// Returns:
//   - Loader: the configured loader
func NewLoader(factory MeshFactory) Loader {
	if factory == nil {
		panic("loader requires a mesh factory")
	}
	return &loaderImpl{factory: factory}
}
