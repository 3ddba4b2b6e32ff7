package loader

import (
	"bytes"
	"encoding/binary"
	"encoding/json"

	"github.com/Carmen-Shannon/oxy-anim/engine/animator"
	"github.com/Carmen-Shannon/oxy-anim/engine/game_object"
	"github.com/Carmen-Shannon/oxy-anim/engine/transform"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/pkg/errors"
)

// gltfGenerator is written into the asset block of exported documents.
const gltfGenerator = "oxy-anim"

// gltfExporterImpl is the implementation of the gltfExporter interface.
type gltfExporterImpl struct {
	ticksPerSecond float32
}

// gltfExporter turns an Asset into a glTF document and its single binary buffer.
//
// Nodes are written depth-first from the roots. The timeline becomes one animation
// with one LINEAR sampler per animated channel of each tracked node; keyframe ticks
// are converted to seconds with the asset's tick rate.
type gltfExporter interface {
	// Export builds the document for an asset.
	//
	// Parameters:
	//   - asset: the asset to export
	//
	// Returns:
	//   - *gltfDocument: the document, whose first buffer (if any) holds the returned bytes
	//   - []byte: the binary buffer contents
	//   - error: error if the timeline targets nodes outside the asset
	Export(asset *Asset) (*gltfDocument, []byte, error)
}

var _ gltfExporter = &gltfExporterImpl{}

// newGLTFExporter creates a new glTF exporter.
//
// Parameters:
//   - ticksPerSecond: the rate used for assets that do not carry one
//
// Returns:
//   - gltfExporter: the exporter
func newGLTFExporter(ticksPerSecond float32) gltfExporter {
	return &gltfExporterImpl{ticksPerSecond: ticksPerSecond}
}

// gltfBufferBuilder appends accessor data to a single binary buffer.
type gltfBufferBuilder struct {
	doc *gltfDocument
	bin bytes.Buffer
}

// addFloats writes float data as a new buffer view and accessor, returning the accessor index.
func (b *gltfBufferBuilder) addFloats(data any, count int, accessorType string, minV, maxV []float32) (int, error) {
	offset := b.bin.Len()
	if err := binary.Write(&b.bin, binary.LittleEndian, data); err != nil {
		return 0, errors.Wrap(err, "failed to write accessor data")
	}

	view := len(b.doc.BufferViews)
	b.doc.BufferViews = append(b.doc.BufferViews, gltfBufferView{
		Buffer:     0,
		ByteOffset: offset,
		ByteLength: b.bin.Len() - offset,
	})

	b.doc.Accessors = append(b.doc.Accessors, gltfAccessor{
		BufferView:    &view,
		ComponentType: gltfComponentTypeFloat,
		Count:         count,
		Type:          accessorType,
		Min:           minV,
		Max:           maxV,
	})
	return len(b.doc.Accessors) - 1, nil
}

func (e *gltfExporterImpl) Export(asset *Asset) (*gltfDocument, []byte, error) {
	doc := &gltfDocument{
		Asset: gltfAsset{Version: "2.0", Generator: gltfGenerator},
	}

	animated := make(map[uint64]bool)
	if asset.Timeline != nil {
		for _, target := range asset.Timeline.Targets() {
			animated[target.ID()] = true
		}
	}

	indexByID := make(map[uint64]int)
	var add func(node game_object.GameObject) int
	add = func(node game_object.GameObject) int {
		idx := len(doc.Nodes)
		indexByID[node.ID()] = idx
		doc.Nodes = append(doc.Nodes, gltfNodeFromTransform(node.Name(), node.Transform(), animated[node.ID()]))
		for _, child := range node.Children() {
			c := add(child)
			doc.Nodes[idx].Children = append(doc.Nodes[idx].Children, c)
		}
		return idx
	}

	scene := gltfScene{Name: asset.Name}
	for _, root := range asset.Roots {
		scene.Nodes = append(scene.Nodes, add(root))
	}
	sceneIndex := 0
	doc.Scene = &sceneIndex
	doc.Scenes = []gltfScene{scene}

	if asset.Timeline == nil || asset.Timeline.Len() == 0 {
		return doc, nil, nil
	}

	tps := asset.TicksPerSecond
	if tps <= 0 {
		tps = e.ticksPerSecond
	}

	builder := &gltfBufferBuilder{doc: doc}
	anim := gltfAnimation{Name: asset.Timeline.Name()}
	if anim.Name == "" {
		anim.Name = asset.Name
	}

	for _, target := range asset.Timeline.Targets() {
		nodeIndex, ok := indexByID[target.ID()]
		if !ok {
			return nil, nil, errors.Errorf("timeline target %q is not part of the asset", target.Name())
		}
		if err := e.exportTrack(builder, &anim, nodeIndex, asset.Timeline.KeyFrames(target), tps); err != nil {
			return nil, nil, errors.Wrapf(err, "track %q", target.Name())
		}
	}

	extras, err := json.Marshal(gltfAnimExtras{TicksPerSecond: tps, Loop: asset.Loop})
	if err != nil {
		return nil, nil, errors.Wrap(err, "failed to encode animation extras")
	}
	anim.Extras = extras
	doc.Animations = []gltfAnimation{anim}

	doc.Buffers = []gltfBuffer{{ByteLength: builder.bin.Len()}}
	return doc, builder.bin.Bytes(), nil
}

// exportTrack writes one sampler and channel per channel driven by any of the frames.
func (e *gltfExporterImpl) exportTrack(b *gltfBufferBuilder, anim *gltfAnimation, nodeIndex int, frames []animator.KeyFrame, tps float32) error {
	if len(frames) == 0 {
		return nil
	}

	var mask animator.Channel
	times := make([]float32, len(frames))
	for i, kf := range frames {
		m := kf.Channels
		if m == animator.ChannelEmpty {
			m = animator.ChannelAll
		}
		mask |= m
		times[i] = float32(kf.Tick) / tps
	}

	input, err := b.addFloats(times, len(times), gltfAccessorTypeScalar, []float32{times[0]}, []float32{times[len(times)-1]})
	if err != nil {
		return err
	}

	addChannel := func(path string, data any, accessorType string) error {
		output, err := b.addFloats(data, len(frames), accessorType, nil, nil)
		if err != nil {
			return err
		}
		node := nodeIndex
		anim.Samplers = append(anim.Samplers, gltfAnimSampler{
			Input:         input,
			Output:        output,
			Interpolation: gltfInterpolationLinear,
		})
		anim.Channels = append(anim.Channels, gltfAnimChannel{
			Sampler: len(anim.Samplers) - 1,
			Target:  gltfAnimTarget{Node: &node, Path: path},
		})
		return nil
	}

	if mask.Has(animator.ChannelTranslation) {
		values := make([][3]float32, len(frames))
		for i := range frames {
			values[i] = frames[i].Transform.Position()
		}
		if err := addChannel(gltfAnimPathTranslation, values, gltfAccessorTypeVec3); err != nil {
			return err
		}
	}

	if mask.Has(animator.ChannelRotation) {
		values := make([][4]float32, len(frames))
		var prev mgl32.Quat
		for i := range frames {
			q := frames[i].Transform.Quat()
			// Keep consecutive keys in the same hemisphere so slerp takes the short path.
			if i > 0 && prev.Dot(q) < 0 {
				q = q.Scale(-1)
			}
			prev = q
			values[i] = quatToXYZW(q)
		}
		if err := addChannel(gltfAnimPathRotation, values, gltfAccessorTypeVec4); err != nil {
			return err
		}
	}

	if mask.Has(animator.ChannelScale) {
		values := make([][3]float32, len(frames))
		for i := range frames {
			values[i] = frames[i].Transform.ScaleFactors()
		}
		if err := addChannel(gltfAnimPathScale, values, gltfAccessorTypeVec3); err != nil {
			return err
		}
	}
	return nil
}

// gltfNodeFromTransform writes a node's local transform as TRS. A static TSR node with
// rotation and non-uniform scale cannot be expressed as TRS and is written as a matrix.
func gltfNodeFromTransform(name string, t *transform.Transform, animated bool) gltfNode {
	gn := gltfNode{Name: name}
	pos, rot, scl := t.Position(), t.Rotation(), t.ScaleFactors()

	uniform := scl[0] == scl[1] && scl[1] == scl[2]
	if !animated && t.Order() == transform.OrderTSR && !uniform && rot != (mgl32.Vec3{}) {
		m := [16]float32(t.Matrix())
		gn.Matrix = &m
		return gn
	}

	if pos != (mgl32.Vec3{}) {
		p := [3]float32(pos)
		gn.Translation = &p
	}
	if rot != (mgl32.Vec3{}) {
		r := quatToXYZW(t.Quat())
		gn.Rotation = &r
	}
	if scl != (mgl32.Vec3{1, 1, 1}) {
		s := [3]float32(scl)
		gn.Scale = &s
	}
	return gn
}
