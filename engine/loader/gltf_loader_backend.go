package loader

import (
	"encoding/base64"
	"encoding/json"
	"io"

	"github.com/pkg/errors"
	"github.com/qmuntal/gltf"
)

// gltfLoaderBackendImpl is the implementation of gltfLoaderBackend.
type gltfLoaderBackendImpl struct {
	importer gltfImporter
	exporter gltfExporter
	binary   bool
}

// gltfLoaderBackend is a loaderBackend implementation for glTF/GLB files.
// It delegates to the gltfImporter and gltfExporter for the rig semantics and to
// github.com/qmuntal/gltf for the container encoding.
type gltfLoaderBackend interface {
	loaderBackend
}

var _ gltfLoaderBackend = &gltfLoaderBackendImpl{}

// newGLTFLoaderBackend creates a new glTF loader backend.
//
// Parameters:
//   - ticksPerSecond: the rate used to convert between ticks and seconds
//   - binary: true to write GLB, false to write glTF JSON with an embedded buffer
//
// Returns:
//   - gltfLoaderBackend: the loader backend for glTF/GLB files
func newGLTFLoaderBackend(ticksPerSecond float32, binary bool) gltfLoaderBackend {
	return &gltfLoaderBackendImpl{
		importer: newGLTFImporter(ticksPerSecond),
		exporter: newGLTFExporter(ticksPerSecond),
		binary:   binary,
	}
}

func (b *gltfLoaderBackendImpl) Load(path string) (*Asset, error) {
	return b.importer.Import(path)
}

func (b *gltfLoaderBackendImpl) LoadReader(r io.Reader) (*Asset, error) {
	return b.importer.ImportReader(r)
}

func (b *gltfLoaderBackendImpl) Write(w io.Writer, asset *Asset) error {
	mirror, bin, err := b.exporter.Export(asset)
	if err != nil {
		return err
	}

	doc, err := b.toDocument(mirror, bin)
	if err != nil {
		return err
	}

	enc := gltf.NewEncoder(w)
	enc.AsBinary = b.binary
	if err := enc.Encode(doc); err != nil {
		return errors.Wrap(err, "failed to encode glTF document")
	}
	return nil
}

// toDocument maps the exported document onto the library's type and attaches the buffer.
// JSON output embeds the buffer as a data URI; GLB output stores it in the BIN chunk.
func (b *gltfLoaderBackendImpl) toDocument(mirror *gltfDocument, bin []byte) (*gltf.Document, error) {
	if len(mirror.Buffers) > 0 && !b.binary {
		mirror.Buffers[0].URI = "data:application/octet-stream;base64," + base64.StdEncoding.EncodeToString(bin)
	}

	raw, err := json.Marshal(mirror)
	if err != nil {
		return nil, errors.Wrap(err, "failed to encode glTF document")
	}

	doc := new(gltf.Document)
	if err := json.Unmarshal(raw, doc); err != nil {
		return nil, errors.Wrap(err, "failed to map glTF document")
	}
	if len(doc.Buffers) > 0 {
		doc.Buffers[0].Data = bin
	}
	return doc, nil
}
