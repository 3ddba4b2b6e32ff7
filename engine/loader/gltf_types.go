// gltf_types.go holds the subset of the glTF 2.0 JSON schema a rig needs: the node
// hierarchy, keyframe animations and the accessors backing them. Container IO (GLB
// chunks, data URIs, external buffers) is left to github.com/qmuntal/gltf; documents
// are bridged into these types through their JSON form.
// Reference: https://registry.khronos.org/glTF/specs/2.0/glTF-2.0.html
package loader

import "encoding/json"

// gltfDocument is the rig-relevant part of a glTF root object.
type gltfDocument struct {
	Asset       gltfAsset        `json:"asset"`
	Scene       *int             `json:"scene,omitempty"`
	Scenes      []gltfScene      `json:"scenes,omitempty"`
	Nodes       []gltfNode       `json:"nodes,omitempty"`
	Accessors   []gltfAccessor   `json:"accessors,omitempty"`
	BufferViews []gltfBufferView `json:"bufferViews,omitempty"`
	Buffers     []gltfBuffer     `json:"buffers,omitempty"`
	Animations  []gltfAnimation  `json:"animations,omitempty"`
}

type gltfAsset struct {
	// Version must be "2.0".
	Version   string `json:"version"`
	Generator string `json:"generator,omitempty"`
}

type gltfScene struct {
	Name  string `json:"name,omitempty"`
	Nodes []int  `json:"nodes,omitempty"`
}

// gltfNode is one joint of the hierarchy. Absent TRS fields take their glTF defaults.
// Reference: https://registry.khronos.org/glTF/specs/2.0/glTF-2.0.html#reference-node
type gltfNode struct {
	Name     string `json:"name,omitempty"`
	Children []int  `json:"children,omitempty"`

	// Matrix is column-major and replaces TRS when present.
	Matrix *[16]float32 `json:"matrix,omitempty"`

	Translation *[3]float32 `json:"translation,omitempty"`

	// Rotation is a unit quaternion (x, y, z, w).
	Rotation *[4]float32 `json:"rotation,omitempty"`

	Scale *[3]float32 `json:"scale,omitempty"`
}

// gltfAccessor describes a typed view over buffer bytes.
// Reference: https://registry.khronos.org/glTF/specs/2.0/glTF-2.0.html#reference-accessor
type gltfAccessor struct {
	BufferView    *int        `json:"bufferView,omitempty"`
	ByteOffset    int         `json:"byteOffset,omitempty"`
	ComponentType int         `json:"componentType"`
	Count         int         `json:"count"`
	Type          string      `json:"type"`
	Max           []float32   `json:"max,omitempty"`
	Min           []float32   `json:"min,omitempty"`
	Sparse        *gltfSparse `json:"sparse,omitempty"`
}

// gltfSparse only records that an accessor is sparse; sparse data is rejected.
type gltfSparse struct {
	Count int `json:"count"`
}

const (
	gltfComponentTypeFloat = 5126

	gltfAccessorTypeScalar = "SCALAR"
	gltfAccessorTypeVec3   = "VEC3"
	gltfAccessorTypeVec4   = "VEC4"
)

type gltfBufferView struct {
	Buffer     int  `json:"buffer"`
	ByteOffset int  `json:"byteOffset,omitempty"`
	ByteLength int  `json:"byteLength"`
	ByteStride *int `json:"byteStride,omitempty"`
}

type gltfBuffer struct {
	URI        string `json:"uri,omitempty"`
	ByteLength int    `json:"byteLength"`

	// Data is filled from the decoded container, never from JSON.
	Data []byte `json:"-"`
}

// gltfAnimation is a set of channels, each driving one node property from a sampler.
// Reference: https://registry.khronos.org/glTF/specs/2.0/glTF-2.0.html#reference-animation
type gltfAnimation struct {
	Name     string            `json:"name,omitempty"`
	Channels []gltfAnimChannel `json:"channels"`
	Samplers []gltfAnimSampler `json:"samplers"`
	Extras   json.RawMessage   `json:"extras,omitempty"`
}

// settings decodes the animation's extras. Extras written by other tools are ignored.
func (a *gltfAnimation) settings() gltfAnimExtras {
	var extras gltfAnimExtras
	if len(a.Extras) > 0 {
		_ = json.Unmarshal(a.Extras, &extras)
	}
	return extras
}

// gltfAnimExtras carries playback settings glTF has no field for, so a rig exported
// and re-imported keeps its tick grid and loop flag.
type gltfAnimExtras struct {
	TicksPerSecond float32 `json:"ticks_per_second,omitempty"`
	Loop           bool    `json:"loop,omitempty"`
}

type gltfAnimChannel struct {
	Sampler int            `json:"sampler"`
	Target  gltfAnimTarget `json:"target"`
}

type gltfAnimTarget struct {
	Node *int   `json:"node,omitempty"`
	Path string `json:"path"`
}

// gltfAnimSampler pairs keyframe times (seconds) with output values.
type gltfAnimSampler struct {
	Input         int    `json:"input"`
	Output        int    `json:"output"`
	Interpolation string `json:"interpolation,omitempty"`
}

const (
	gltfInterpolationLinear      = "LINEAR"
	gltfInterpolationStep        = "STEP"
	gltfInterpolationCubicSpline = "CUBICSPLINE"

	gltfAnimPathTranslation = "translation"
	gltfAnimPathRotation    = "rotation"
	gltfAnimPathScale       = "scale"
)
