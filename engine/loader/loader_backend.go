package loader

import (
	"io"
)

// loaderBackend defines the generic interface for decoding and encoding rig assets.
// Concrete implementations (yamlLoaderBackend, gltfLoaderBackend) handle format-specific details.
type loaderBackend interface {
	// Load decodes an asset from the given file path. Backends that reference
	// side files (external glTF buffers) resolve them relative to path.
	//
	// Parameters:
	//   - path: the file path to load
	//
	// Returns:
	//   - *Asset: the decoded asset
	//   - error: error if decoding fails
	Load(path string) (*Asset, error)

	// LoadReader decodes an asset from a stream.
	//
	// Parameters:
	//   - r: the reader providing asset data
	//
	// Returns:
	//   - *Asset: the decoded asset
	//   - error: error if decoding fails
	LoadReader(r io.Reader) (*Asset, error)

	// Write encodes an asset to a stream.
	//
	// Parameters:
	//   - w: the destination writer
	//   - asset: the asset to encode
	//
	// Returns:
	//   - error: error if encoding fails
	Write(w io.Writer, asset *Asset) error
}
