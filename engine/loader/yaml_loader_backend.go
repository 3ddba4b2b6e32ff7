package loader

import (
	"io"
	"os"
	"strings"

	"github.com/Carmen-Shannon/oxy-anim/common"
	"github.com/Carmen-Shannon/oxy-anim/engine/animator"
	"github.com/Carmen-Shannon/oxy-anim/engine/game_object"
	"github.com/Carmen-Shannon/oxy-anim/engine/transform"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// yamlLoaderBackendImpl is the implementation of yamlLoaderBackend.
type yamlLoaderBackendImpl struct {
	ticksPerSecond float32
}

// yamlLoaderBackend is a loaderBackend implementation for hand-authored YAML rig documents.
type yamlLoaderBackend interface {
	loaderBackend
}

var _ yamlLoaderBackend = &yamlLoaderBackendImpl{}

// newYAMLLoaderBackend creates a new YAML loader backend.
//
// Parameters:
//   - ticksPerSecond: the rate assigned to documents that do not declare one
//
// Returns:
//   - yamlLoaderBackend: the loader backend for YAML rig documents
func newYAMLLoaderBackend(ticksPerSecond float32) yamlLoaderBackend {
	return &yamlLoaderBackendImpl{ticksPerSecond: ticksPerSecond}
}

func (b *yamlLoaderBackendImpl) Load(path string) (*Asset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open %s", path)
	}
	defer f.Close()
	return b.LoadReader(f)
}

func (b *yamlLoaderBackendImpl) LoadReader(r io.Reader) (*Asset, error) {
	var doc yamlRig
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
		if err == io.EOF {
			return nil, errors.New("empty rig document")
		}
		return nil, errors.Wrap(err, "failed to decode rig document")
	}
	return b.decode(&doc)
}

func (b *yamlLoaderBackendImpl) Write(w io.Writer, asset *Asset) error {
	doc, err := b.encode(asset)
	if err != nil {
		return err
	}

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return errors.Wrap(err, "failed to encode rig document")
	}
	return enc.Close()
}

// decode turns a parsed document into an Asset, resolving track node names.
func (b *yamlLoaderBackendImpl) decode(doc *yamlRig) (*Asset, error) {
	asset := &Asset{
		Name:           doc.Name,
		TicksPerSecond: common.PositiveOr(doc.TicksPerSecond, b.ticksPerSecond),
		Loop:           doc.Loop,
	}

	byName := make(map[string]game_object.GameObject)
	for i := range doc.Nodes {
		root, err := decodeYAMLNode(&doc.Nodes[i], byName)
		if err != nil {
			return nil, err
		}
		asset.Roots = append(asset.Roots, root)
	}

	tl := animator.NewTimeline(animator.WithTimelineName(doc.Name))
	for _, tr := range doc.Tracks {
		node, ok := byName[tr.Node]
		if !ok {
			return nil, errors.Errorf("track references unknown node %q", tr.Node)
		}
		for _, ykf := range tr.KeyFrames {
			kf, err := decodeYAMLKeyFrame(node, ykf)
			if err != nil {
				return nil, errors.Wrapf(err, "node %q tick %d", tr.Node, ykf.Tick)
			}
			tl.AddKeyFrame(node, kf)
		}
	}
	asset.Timeline = tl

	return asset, nil
}

func decodeYAMLNode(yn *yamlNode, byName map[string]game_object.GameObject) (game_object.GameObject, error) {
	pos, err := vec3Field("position", yn.Position, mgl32.Vec3{})
	if err != nil {
		return nil, errors.Wrapf(err, "node %q", yn.Name)
	}
	rot, err := vec3Field("rotation", yn.Rotation, mgl32.Vec3{})
	if err != nil {
		return nil, errors.Wrapf(err, "node %q", yn.Name)
	}
	scl, err := vec3Field("scale", yn.Scale, mgl32.Vec3{1, 1, 1})
	if err != nil {
		return nil, errors.Wrapf(err, "node %q", yn.Name)
	}

	t := transform.New(pos, common.DegreesToRadians(rot), scl)
	t.SetOrder(transform.ParseOrder(yn.Order))

	opts := []game_object.GameObjectBuilderOption{
		game_object.WithName(yn.Name),
		game_object.WithTransform(t),
	}
	if yn.Enabled != nil {
		opts = append(opts, game_object.WithEnabled(*yn.Enabled))
	}
	switch len(yn.Color) {
	case 0:
	case 3:
		opts = append(opts, game_object.WithColor(yn.Color[0], yn.Color[1], yn.Color[2], 1))
	case 4:
		opts = append(opts, game_object.WithColor(yn.Color[0], yn.Color[1], yn.Color[2], yn.Color[3]))
	default:
		return nil, errors.Errorf("node %q: color needs 3 or 4 components, got %d", yn.Name, len(yn.Color))
	}

	node := game_object.NewGameObject(opts...)
	if yn.Name != "" {
		if _, dup := byName[yn.Name]; dup {
			return nil, errors.Errorf("duplicate node name %q", yn.Name)
		}
		byName[yn.Name] = node
	}

	for i := range yn.Children {
		child, err := decodeYAMLNode(&yn.Children[i], byName)
		if err != nil {
			return nil, err
		}
		node.Attach(child)
	}
	return node, nil
}

func decodeYAMLKeyFrame(node game_object.GameObject, ykf yamlKeyFrame) (animator.KeyFrame, error) {
	t := *node.Transform()
	var inferred animator.Channel

	if ykf.Position != nil {
		pos, err := vec3Field("position", ykf.Position, mgl32.Vec3{})
		if err != nil {
			return animator.KeyFrame{}, err
		}
		t.SetPosition(pos)
		inferred |= animator.ChannelTranslation
	}
	if ykf.Rotation != nil {
		rot, err := vec3Field("rotation", ykf.Rotation, mgl32.Vec3{})
		if err != nil {
			return animator.KeyFrame{}, err
		}
		t.SetRotation(common.DegreesToRadians(rot))
		inferred |= animator.ChannelRotation
	}
	if ykf.Scale != nil {
		scl, err := vec3Field("scale", ykf.Scale, mgl32.Vec3{1, 1, 1})
		if err != nil {
			return animator.KeyFrame{}, err
		}
		t.SetScale(scl)
		inferred |= animator.ChannelScale
	}

	channels := inferred
	if len(ykf.Channels) > 0 {
		channels = animator.ParseChannels(ykf.Channels...)
		if channels == animator.ChannelEmpty && !isEmptyChannelList(ykf.Channels) {
			return animator.KeyFrame{}, errors.Errorf("unknown channels %v", ykf.Channels)
		}
	}

	return animator.KeyFrame{
		Tick:      animator.Tick(ykf.Tick),
		Transform: t,
		Channels:  channels,
	}, nil
}

// encode turns an Asset into a document. Every tracked node must carry a name.
func (b *yamlLoaderBackendImpl) encode(asset *Asset) (*yamlRig, error) {
	doc := &yamlRig{
		Name:           asset.Name,
		TicksPerSecond: asset.TicksPerSecond,
		Loop:           asset.Loop,
	}
	for _, root := range asset.Roots {
		doc.Nodes = append(doc.Nodes, encodeYAMLNode(root))
	}

	if asset.Timeline == nil {
		return doc, nil
	}
	for _, target := range asset.Timeline.Targets() {
		if target.Name() == "" {
			return nil, errors.Errorf("cannot encode track of unnamed node %d", target.ID())
		}
		tr := yamlTrack{Node: target.Name()}
		for _, kf := range asset.Timeline.KeyFrames(target) {
			tr.KeyFrames = append(tr.KeyFrames, encodeYAMLKeyFrame(kf))
		}
		doc.Tracks = append(doc.Tracks, tr)
	}
	return doc, nil
}

func encodeYAMLNode(node game_object.GameObject) yamlNode {
	t := node.Transform()
	yn := yamlNode{Name: node.Name()}

	if p := t.Position(); p != (mgl32.Vec3{}) {
		yn.Position = p[:]
	}
	if r := t.Rotation(); r != (mgl32.Vec3{}) {
		deg := common.RadiansToDegrees(r)
		yn.Rotation = deg[:]
	}
	if s := t.ScaleFactors(); s != (mgl32.Vec3{1, 1, 1}) {
		yn.Scale = s[:]
	}
	if t.Order() != transform.OrderTSR {
		yn.Order = t.Order().String()
	}
	if c := node.Color(); c != (mgl32.Vec4{1, 1, 1, 1}) {
		yn.Color = c[:]
	}
	if !node.Enabled() {
		disabled := false
		yn.Enabled = &disabled
	}
	for _, child := range node.Children() {
		yn.Children = append(yn.Children, encodeYAMLNode(child))
	}
	return yn
}

func encodeYAMLKeyFrame(kf animator.KeyFrame) yamlKeyFrame {
	ykf := yamlKeyFrame{Tick: uint32(kf.Tick)}
	mask := kf.Channels
	if mask == animator.ChannelEmpty {
		ykf.Channels = []string{"empty"}
		mask = animator.ChannelAll
	}

	if mask.Has(animator.ChannelTranslation) {
		p := kf.Transform.Position()
		ykf.Position = p[:]
	}
	if mask.Has(animator.ChannelRotation) {
		deg := common.RadiansToDegrees(kf.Transform.Rotation())
		ykf.Rotation = deg[:]
	}
	if mask.Has(animator.ChannelScale) {
		s := kf.Transform.ScaleFactors()
		ykf.Scale = s[:]
	}
	return ykf
}

// vec3Field validates a 3-component list, returning def when it is absent.
func vec3Field(name string, v []float32, def mgl32.Vec3) (mgl32.Vec3, error) {
	switch len(v) {
	case 0:
		return def, nil
	case 3:
		return mgl32.Vec3{v[0], v[1], v[2]}, nil
	default:
		return def, errors.Errorf("%s needs 3 components, got %d", name, len(v))
	}
}

func isEmptyChannelList(names []string) bool {
	for _, n := range names {
		if !strings.EqualFold(strings.TrimSpace(n), "empty") {
			return false
		}
	}
	return true
}
