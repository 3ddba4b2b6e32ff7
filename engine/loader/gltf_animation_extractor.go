package loader

import (
	"sort"

	"github.com/Carmen-Shannon/oxy-anim/common"
	"github.com/Carmen-Shannon/oxy-anim/engine/animator"
	"github.com/Carmen-Shannon/oxy-anim/engine/game_object"
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/pkg/errors"
)

// gltfCurve is one sampled property of one node. Vectors are stored in the first three
// components; rotations as (x, y, z, w).
type gltfCurve struct {
	times  []float32
	values [][4]float32
	step   bool
}

// gltfNodeCurves groups the curves targeting a single node.
type gltfNodeCurves struct {
	translation *gltfCurve
	rotation    *gltfCurve
	scale       *gltfCurve
}

// gltfAnimationExtractorImpl is the implementation of the gltfAnimationExtractor interface.
type gltfAnimationExtractorImpl struct {
	parser gltfParser
}

// gltfAnimationExtractor converts a glTF animation into a Timeline.
//
// glTF keys each property of each node independently in seconds. The extractor takes
// the union of a node's key times, samples every animated property at each of them
// and emits one keyframe per time, so translation, rotation and scale stay in step
// on the shared tick grid.
type gltfAnimationExtractor interface {
	// ExtractTimeline extracts a single animation by index.
	//
	// Parameters:
	//   - animIndex: the index of the animation in the document
	//   - nodes: the scene nodes, indexed like the document's nodes
	//   - ticksPerSecond: the conversion rate from seconds to ticks
	//
	// Returns:
	//   - animator.Timeline: the extracted timeline
	//   - error: error if extraction fails
	ExtractTimeline(animIndex int, nodes []game_object.GameObject, ticksPerSecond float32) (animator.Timeline, error)
}

var _ gltfAnimationExtractor = &gltfAnimationExtractorImpl{}

// newGLTFAnimationExtractor creates a new animation extractor for a parsed document.
//
// Parameters:
//   - parser: the parser containing a loaded document
//
// Returns:
//   - gltfAnimationExtractor: the animation extractor
func newGLTFAnimationExtractor(parser gltfParser) gltfAnimationExtractor {
	return &gltfAnimationExtractorImpl{parser: parser}
}

func (e *gltfAnimationExtractorImpl) ExtractTimeline(animIndex int, nodes []game_object.GameObject, ticksPerSecond float32) (animator.Timeline, error) {
	doc := e.parser.Document()
	if doc == nil {
		return nil, errNoDocument
	}
	if animIndex < 0 || animIndex >= len(doc.Animations) {
		return nil, errors.Errorf("animation index %d out of range", animIndex)
	}
	if ticksPerSecond <= 0 {
		return nil, errors.Errorf("invalid ticks per second %v", ticksPerSecond)
	}

	anim := &doc.Animations[animIndex]
	curves := make(map[int]*gltfNodeCurves)

	for i := range anim.Channels {
		ch := &anim.Channels[i]

		// Channels without a node target (e.g. morph targets) are skipped.
		if ch.Target.Node == nil {
			continue
		}
		nodeIndex := *ch.Target.Node
		if nodeIndex < 0 || nodeIndex >= len(nodes) {
			return nil, errors.Errorf("animation %q channel %d: node %d out of range", anim.Name, i, nodeIndex)
		}
		if ch.Sampler < 0 || ch.Sampler >= len(anim.Samplers) {
			return nil, errors.Errorf("animation %q channel %d: invalid sampler index %d", anim.Name, i, ch.Sampler)
		}

		curve, err := e.readCurve(&anim.Samplers[ch.Sampler], ch.Target.Path)
		if err != nil {
			return nil, errors.Wrapf(err, "animation %q channel %d", anim.Name, i)
		}
		if curve == nil {
			continue
		}

		nc, ok := curves[nodeIndex]
		if !ok {
			nc = &gltfNodeCurves{}
			curves[nodeIndex] = nc
		}
		switch ch.Target.Path {
		case gltfAnimPathTranslation:
			nc.translation = curve
		case gltfAnimPathRotation:
			nc.rotation = curve
		case gltfAnimPathScale:
			nc.scale = curve
		}
	}

	name := anim.Name
	if name == "" {
		name = "animation_0"
	}
	tl := animator.NewTimeline(animator.WithTimelineName(name))

	indices := make([]int, 0, len(curves))
	for idx := range curves {
		indices = append(indices, idx)
	}
	sort.Ints(indices)

	for _, idx := range indices {
		for _, kf := range resampleNode(nodes[idx], curves[idx], ticksPerSecond) {
			tl.AddKeyFrame(nodes[idx], kf)
		}
	}
	return tl, nil
}

// readCurve loads a sampler's times and values for the given property. Unsupported
// properties yield a nil curve.
func (e *gltfAnimationExtractorImpl) readCurve(sampler *gltfAnimSampler, path string) (*gltfCurve, error) {
	var values [][4]float32
	switch path {
	case gltfAnimPathTranslation, gltfAnimPathScale:
		v3, err := e.parser.ReadVec3Accessor(sampler.Output)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to read %s values", path)
		}
		values = make([][4]float32, len(v3))
		for i, v := range v3 {
			values[i] = [4]float32{v[0], v[1], v[2], 0}
		}
	case gltfAnimPathRotation:
		v4, err := e.parser.ReadVec4Accessor(sampler.Output)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to read %s values", path)
		}
		values = v4
	default:
		return nil, nil
	}

	times, err := e.parser.ReadScalarAccessor(sampler.Input)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read timestamps")
	}
	if len(times) == 0 {
		return nil, nil
	}

	// Cubic spline samplers store (in-tangent, value, out-tangent) per key; keep the values.
	if sampler.Interpolation == gltfInterpolationCubicSpline {
		if len(values) != 3*len(times) {
			return nil, errors.Errorf("cubic spline output has %d values for %d keys", len(values), len(times))
		}
		kept := make([][4]float32, len(times))
		for i := range kept {
			kept[i] = values[3*i+1]
		}
		values = kept
	}

	n := min(len(times), len(values))
	return &gltfCurve{
		times:  times[:n],
		values: values[:n],
		step:   sampler.Interpolation == gltfInterpolationStep,
	}, nil
}

// sample evaluates the curve at time t, holding the first and last keys outside the range.
func (c *gltfCurve) sample(t float32, rotation bool) [4]float32 {
	n := len(c.times)
	if t <= c.times[0] {
		return c.values[0]
	}
	if t >= c.times[n-1] {
		return c.values[n-1]
	}

	i := sort.Search(n, func(i int) bool { return c.times[i] > t }) - 1
	if c.step {
		return c.values[i]
	}

	frac := (t - c.times[i]) / (c.times[i+1] - c.times[i])
	a, b := c.values[i], c.values[i+1]
	if rotation {
		q := mgl32.QuatSlerp(quatFromXYZW(a), quatFromXYZW(b), frac)
		return quatToXYZW(q)
	}
	return [4]float32{
		a[0] + (b[0]-a[0])*frac,
		a[1] + (b[1]-a[1])*frac,
		a[2] + (b[2]-a[2])*frac,
		0,
	}
}

// resampleNode emits one keyframe per distinct key time of the node's curves. Each
// keyframe starts from the node's rest transform and overrides the animated channels.
func resampleNode(node game_object.GameObject, nc *gltfNodeCurves, ticksPerSecond float32) []animator.KeyFrame {
	var times []float32
	var mask animator.Channel
	if nc.translation != nil {
		times = append(times, nc.translation.times...)
		mask |= animator.ChannelTranslation
	}
	if nc.rotation != nil {
		times = append(times, nc.rotation.times...)
		mask |= animator.ChannelRotation
	}
	if nc.scale != nil {
		times = append(times, nc.scale.times...)
		mask |= animator.ChannelScale
	}
	sort.Slice(times, func(i, j int) bool { return times[i] < times[j] })

	rest := *node.Transform()
	frames := make([]animator.KeyFrame, 0, len(times))
	var prevEuler mgl32.Vec3

	for i, t := range times {
		if i > 0 && t == times[i-1] {
			continue
		}

		pose := rest
		if nc.translation != nil {
			v := nc.translation.sample(t, false)
			pose.SetPosition(mgl32.Vec3{v[0], v[1], v[2]})
		}
		if nc.rotation != nil {
			euler := common.QuatToEuler(quatFromXYZW(nc.rotation.sample(t, true)))
			if len(frames) > 0 {
				euler = unwrapEuler(prevEuler, euler)
			}
			prevEuler = euler
			pose.SetRotation(euler)
		}
		if nc.scale != nil {
			v := nc.scale.sample(t, false)
			pose.SetScale(mgl32.Vec3{v[0], v[1], v[2]})
		}

		frames = append(frames, animator.KeyFrame{
			Tick:      secondsToTick(t, ticksPerSecond),
			Transform: pose,
			Channels:  mask,
		})
	}
	return frames
}

// unwrapEuler shifts each angle of cur by whole turns so it lies within half a turn of
// prev. Keyframes are blended per component, so a jump from +pi to -pi would otherwise
// spin the node the long way round.
func unwrapEuler(prev, cur mgl32.Vec3) mgl32.Vec3 {
	for i := range cur {
		for cur[i]-prev[i] > math32.Pi {
			cur[i] -= 2 * math32.Pi
		}
		for cur[i]-prev[i] < -math32.Pi {
			cur[i] += 2 * math32.Pi
		}
	}
	return cur
}

// secondsToTick rounds a time in seconds to the nearest tick. Negative times map to 0.
func secondsToTick(seconds, ticksPerSecond float32) animator.Tick {
	if seconds <= 0 {
		return 0
	}
	return animator.Tick(math32.Round(seconds * ticksPerSecond))
}
