package loader

import (
	"bytes"
	"encoding/binary"
	"encoding/json"
	"io"

	"github.com/pkg/errors"
	"github.com/qmuntal/gltf"
)

// Common errors returned by the parser
var (
	errNoDocument         = errors.New("no glTF document loaded")
	errInvalidGLTFVersion = errors.New("invalid glTF version: must be 2.0")
	errSparseAccessor     = errors.New("sparse accessors are not supported")
)

// gltfParserImpl is the implementation of the gltfParser interface.
type gltfParserImpl struct {
	document *gltfDocument
}

// gltfParser decodes glTF/GLB containers and reads typed accessor data out of them.
// This is internal to the loader package.
type gltfParser interface {
	// Parse loads a .gltf or .glb file, resolving external and embedded buffers.
	//
	// Parameters:
	//   - path: path to the glTF or GLB file
	//
	// Returns:
	//   - error: error if parsing fails
	Parse(path string) error

	// ParseReader parses glTF JSON or GLB data from a stream. Buffers must be embedded.
	//
	// Parameters:
	//   - r: reader containing glTF JSON or GLB data
	//
	// Returns:
	//   - error: error if parsing fails
	ParseReader(r io.Reader) error

	// Document returns the parsed document, or nil before a successful parse.
	Document() *gltfDocument

	// ReadScalarAccessor reads an accessor as SCALAR FLOAT data.
	ReadScalarAccessor(accessorIndex int) ([]float32, error)

	// ReadVec3Accessor reads an accessor as VEC3 FLOAT data.
	ReadVec3Accessor(accessorIndex int) ([][3]float32, error)

	// ReadVec4Accessor reads an accessor as VEC4 FLOAT data.
	ReadVec4Accessor(accessorIndex int) ([][4]float32, error)
}

var _ gltfParser = &gltfParserImpl{}

// newGLTFParser creates a new glTF parser instance.
//
// Returns:
//   - gltfParser: a new parser instance
func newGLTFParser() gltfParser {
	return &gltfParserImpl{}
}

func (p *gltfParserImpl) Parse(path string) error {
	doc, err := gltf.Open(path)
	if err != nil {
		return errors.Wrapf(err, "failed to open %s", path)
	}
	return p.adopt(doc)
}

func (p *gltfParserImpl) ParseReader(r io.Reader) error {
	doc := new(gltf.Document)
	if err := gltf.NewDecoder(r).Decode(doc); err != nil {
		return errors.Wrap(err, "failed to decode glTF stream")
	}
	return p.adopt(doc)
}

func (p *gltfParserImpl) Document() *gltfDocument {
	return p.document
}

// adopt mirrors a decoded document into the local schema and carries over buffer bytes.
func (p *gltfParserImpl) adopt(doc *gltf.Document) error {
	raw, err := json.Marshal(doc)
	if err != nil {
		return errors.Wrap(err, "failed to re-encode glTF document")
	}

	var mirror gltfDocument
	if err := json.Unmarshal(raw, &mirror); err != nil {
		return errors.Wrap(err, "failed to map glTF document")
	}
	if mirror.Asset.Version != "2.0" {
		return errInvalidGLTFVersion
	}
	if len(mirror.Buffers) != len(doc.Buffers) {
		return errors.Errorf("buffer count mismatch: %d != %d", len(mirror.Buffers), len(doc.Buffers))
	}
	for i := range doc.Buffers {
		mirror.Buffers[i].Data = doc.Buffers[i].Data
	}

	p.document = &mirror
	return nil
}

func (p *gltfParserImpl) ReadScalarAccessor(accessorIndex int) ([]float32, error) {
	return readFloatAccessor[float32](p.document, accessorIndex, gltfAccessorTypeScalar, 1)
}

func (p *gltfParserImpl) ReadVec3Accessor(accessorIndex int) ([][3]float32, error) {
	return readFloatAccessor[[3]float32](p.document, accessorIndex, gltfAccessorTypeVec3, 3)
}

func (p *gltfParserImpl) ReadVec4Accessor(accessorIndex int) ([][4]float32, error) {
	return readFloatAccessor[[4]float32](p.document, accessorIndex, gltfAccessorTypeVec4, 4)
}

// readFloatAccessor copies the elements of a FLOAT accessor of the given type into a
// typed slice, honoring the buffer view's byte stride.
func readFloatAccessor[T any](doc *gltfDocument, accessorIndex int, accessorType string, components int) ([]T, error) {
	if doc == nil {
		return nil, errNoDocument
	}
	if accessorIndex < 0 || accessorIndex >= len(doc.Accessors) {
		return nil, errors.Errorf("accessor index %d out of range", accessorIndex)
	}

	acc := &doc.Accessors[accessorIndex]
	if acc.Type != accessorType || acc.ComponentType != gltfComponentTypeFloat {
		return nil, errors.Errorf("accessor %d is not %s FLOAT: type=%s, componentType=%d", accessorIndex, accessorType, acc.Type, acc.ComponentType)
	}
	if acc.Sparse != nil {
		return nil, errSparseAccessor
	}
	if acc.BufferView == nil {
		// A bufferless accessor is all zeros.
		return make([]T, acc.Count), nil
	}
	if *acc.BufferView < 0 || *acc.BufferView >= len(doc.BufferViews) {
		return nil, errors.Errorf("accessor %d: bufferView %d out of range", accessorIndex, *acc.BufferView)
	}

	bv := &doc.BufferViews[*acc.BufferView]
	if bv.Buffer < 0 || bv.Buffer >= len(doc.Buffers) {
		return nil, errors.Errorf("bufferView %d: buffer %d out of range", *acc.BufferView, bv.Buffer)
	}
	buf := doc.Buffers[bv.Buffer].Data

	elementSize := 4 * components
	stride := elementSize
	if bv.ByteStride != nil && *bv.ByteStride > 0 {
		stride = *bv.ByteStride
	}

	start := bv.ByteOffset + acc.ByteOffset
	if acc.Count > 0 {
		if end := start + (acc.Count-1)*stride + elementSize; end > len(buf) {
			return nil, errors.Errorf("accessor %d overruns its buffer (%d > %d)", accessorIndex, end, len(buf))
		}
	}

	packed := make([]byte, acc.Count*elementSize)
	for i := 0; i < acc.Count; i++ {
		src := start + i*stride
		copy(packed[i*elementSize:(i+1)*elementSize], buf[src:src+elementSize])
	}

	result := make([]T, acc.Count)
	if err := binary.Read(bytes.NewReader(packed), binary.LittleEndian, result); err != nil {
		return nil, errors.Wrapf(err, "accessor %d", accessorIndex)
	}
	return result, nil
}
