package animator

import (
	"sort"
	"sync"

	"github.com/Carmen-Shannon/oxy-anim/engine/transform"
)

// Target is anything a timeline can drive: a node with an identity and a live transform.
// Tracks are keyed by the Target value itself, so implementations must be comparable,
// normally a pointer.
type Target interface {
	// ID returns the node's unique identifier.
	ID() uint64

	// Name returns the node's human-readable name.
	Name() string

	// Transform returns the node's live local transform.
	Transform() *transform.Transform
}

// track is the keyframe sequence of a single target, kept sorted by tick.
type track struct {
	target Target
	frames []KeyFrame
}

// timeline is the implementation of the Timeline interface.
type timeline struct {
	mu *sync.RWMutex

	name   string
	tracks map[Target]*track
	order  []Target

	maxTick Tick
}

// Timeline is a sparse per-node animation: each tracked node owns its own ordered
// list of keyframes, and playback writes interpolated transforms back into the
// nodes' live transforms.
//
// Nil targets are ignored by every method. Playback does not loop; wrapping time is
// left to the caller (see Animator).
type Timeline interface {
	// Name returns the timeline's name.
	Name() string

	// SetName sets the timeline's name.
	SetName(name string)

	// AddKeyFrame inserts a keyframe into the target's track, keeping the track
	// ordered by tick. A keyframe at an existing tick replaces the old one.
	//
	// Parameters:
	//   - target: the node to animate
	//   - kf: the keyframe to insert
	AddKeyFrame(target Target, kf KeyFrame)

	// AddKeyFrameAt snapshots the target's current transform into a keyframe at tick.
	//
	// Parameters:
	//   - target: the node to snapshot
	//   - tick: the tick to place the keyframe at
	//   - channels: the channels the keyframe drives
	AddKeyFrameAt(target Target, tick Tick, channels Channel)

	// RemoveKeyFrame deletes the keyframe at tick from the target's track.
	// A track left empty is dropped.
	//
	// Parameters:
	//   - target: the animated node
	//   - tick: the tick of the keyframe to delete
	//
	// Returns:
	//   - bool: true if a keyframe was removed
	RemoveKeyFrame(target Target, tick Tick) bool

	// RemoveTarget drops the target's whole track.
	//
	// Parameters:
	//   - target: the node to stop animating
	//
	// Returns:
	//   - bool: true if the target had a track
	RemoveTarget(target Target) bool

	// KeyFrames returns a copy of the target's ordered keyframes, or nil if it has none.
	//
	// Parameters:
	//   - target: the animated node
	//
	// Returns:
	//   - []KeyFrame: the keyframes ordered by tick
	KeyFrames(target Target) []KeyFrame

	// Targets returns the tracked nodes in the order they were first added.
	//
	// Returns:
	//   - []Target: the tracked nodes
	Targets() []Target

	// Len returns the number of tracked nodes.
	Len() int

	// MaxTick returns the largest keyframe tick across all tracks.
	MaxTick() Tick

	// Play poses every tracked node at time t (in ticks). Before a track's first
	// keyframe the first keyframe is held; at or after its last keyframe the last is
	// held. Channels written are the union of the bracketing keyframes' masks.
	//
	// Parameters:
	//   - t: the playback time in ticks
	Play(t float64)

	// Sample computes the pose of target at time t without writing it.
	//
	// Parameters:
	//   - target: the animated node
	//   - t: the playback time in ticks
	//
	// Returns:
	//   - transform.Transform: the sampled transform
	//   - Channel: the channels the sample drives
	//   - bool: false if the target has no keyframes
	Sample(target Target, t float64) (transform.Transform, Channel, bool)
}

var _ Timeline = &timeline{}

// NewTimeline creates an empty Timeline configured with the given options.
//
// Parameters:
//   - options: functional options to configure the timeline
//
// Returns:
//   - Timeline: the newly created timeline
func NewTimeline(options ...TimelineBuilderOption) Timeline {
	tl := &timeline{
		mu:     &sync.RWMutex{},
		tracks: make(map[Target]*track),
	}
	for _, option := range options {
		option(tl)
	}
	return tl
}

// FindKeyFrame returns the index of the last keyframe whose tick is at or before t,
// or -1 if t precedes every keyframe. frames must be ordered by tick. The scan is
// linear.
//
// Parameters:
//   - frames: keyframes ordered by tick
//   - t: the query time in ticks
//
// Returns:
//   - int: the index of the bracketing keyframe, or -1
func FindKeyFrame(frames []KeyFrame, t float64) int {
	idx := -1
	for i := range frames {
		if float64(frames[i].Tick) > t {
			break
		}
		idx = i
	}
	return idx
}

func (tl *timeline) Name() string {
	tl.mu.RLock()
	defer tl.mu.RUnlock()
	return tl.name
}

func (tl *timeline) SetName(name string) {
	tl.mu.Lock()
	defer tl.mu.Unlock()
	tl.name = name
}

func (tl *timeline) AddKeyFrame(target Target, kf KeyFrame) {
	if target == nil {
		return
	}
	tl.mu.Lock()
	defer tl.mu.Unlock()
	tl.insert(target, kf)
}

func (tl *timeline) AddKeyFrameAt(target Target, tick Tick, channels Channel) {
	if target == nil || target.Transform() == nil {
		return
	}
	kf := KeyFrame{
		Tick:      tick,
		Transform: *target.Transform(),
		Channels:  channels,
	}
	tl.mu.Lock()
	defer tl.mu.Unlock()
	tl.insert(target, kf)
}

func (tl *timeline) RemoveKeyFrame(target Target, tick Tick) bool {
	if target == nil {
		return false
	}
	tl.mu.Lock()
	defer tl.mu.Unlock()

	tr, ok := tl.tracks[target]
	if !ok {
		return false
	}
	i := sort.Search(len(tr.frames), func(i int) bool { return tr.frames[i].Tick >= tick })
	if i >= len(tr.frames) || tr.frames[i].Tick != tick {
		return false
	}
	tr.frames = append(tr.frames[:i], tr.frames[i+1:]...)
	if len(tr.frames) == 0 {
		tl.drop(target)
	}
	tl.recomputeMaxTick()
	return true
}

func (tl *timeline) RemoveTarget(target Target) bool {
	if target == nil {
		return false
	}
	tl.mu.Lock()
	defer tl.mu.Unlock()

	if _, ok := tl.tracks[target]; !ok {
		return false
	}
	tl.drop(target)
	tl.recomputeMaxTick()
	return true
}

func (tl *timeline) KeyFrames(target Target) []KeyFrame {
	if target == nil {
		return nil
	}
	tl.mu.RLock()
	defer tl.mu.RUnlock()

	tr, ok := tl.tracks[target]
	if !ok {
		return nil
	}
	out := make([]KeyFrame, len(tr.frames))
	copy(out, tr.frames)
	return out
}

func (tl *timeline) Targets() []Target {
	tl.mu.RLock()
	defer tl.mu.RUnlock()

	out := make([]Target, 0, len(tl.order))
	out = append(out, tl.order...)
	return out
}

func (tl *timeline) Len() int {
	tl.mu.RLock()
	defer tl.mu.RUnlock()
	return len(tl.order)
}

func (tl *timeline) MaxTick() Tick {
	tl.mu.RLock()
	defer tl.mu.RUnlock()
	return tl.maxTick
}

func (tl *timeline) Play(t float64) {
	tl.mu.RLock()
	defer tl.mu.RUnlock()

	for _, target := range tl.order {
		tr := tl.tracks[target]
		live := tr.target.Transform()
		if live == nil {
			continue
		}
		pose, mask, ok := sample(tr.frames, t)
		if !ok {
			continue
		}
		applyChannels(live, pose, mask)
	}
}

func (tl *timeline) Sample(target Target, t float64) (transform.Transform, Channel, bool) {
	if target == nil {
		return transform.Transform{}, ChannelEmpty, false
	}
	tl.mu.RLock()
	defer tl.mu.RUnlock()

	tr, ok := tl.tracks[target]
	if !ok {
		return transform.Transform{}, ChannelEmpty, false
	}
	return sample(tr.frames, t)
}

// sample picks the bracketing keyframes for t and interpolates between them.
func sample(frames []KeyFrame, t float64) (transform.Transform, Channel, bool) {
	if len(frames) == 0 {
		return transform.Transform{}, ChannelEmpty, false
	}

	i := FindKeyFrame(frames, t)
	switch {
	case i < 0:
		return frames[0].Transform, frames[0].Channels, true
	case i >= len(frames)-1:
		last := frames[len(frames)-1]
		return last.Transform, last.Channels, true
	}

	a, b := frames[i], frames[i+1]
	return Interpolate(a, b, t), a.Channels | b.Channels, true
}

// insert places kf into the target's track in tick order. Callers hold the write lock.
func (tl *timeline) insert(target Target, kf KeyFrame) {
	tr, ok := tl.tracks[target]
	if !ok {
		tr = &track{target: target}
		tl.tracks[target] = tr
		tl.order = append(tl.order, target)
	}

	i := sort.Search(len(tr.frames), func(i int) bool { return tr.frames[i].Tick >= kf.Tick })
	switch {
	case i < len(tr.frames) && tr.frames[i].Tick == kf.Tick:
		tr.frames[i] = kf
	default:
		tr.frames = append(tr.frames, KeyFrame{})
		copy(tr.frames[i+1:], tr.frames[i:])
		tr.frames[i] = kf
	}

	if kf.Tick > tl.maxTick {
		tl.maxTick = kf.Tick
	}
}

// drop removes a track and its slot in the registration order. Callers hold the write lock.
func (tl *timeline) drop(target Target) {
	delete(tl.tracks, target)
	for i, v := range tl.order {
		if v == target {
			tl.order = append(tl.order[:i], tl.order[i+1:]...)
			break
		}
	}
}

func (tl *timeline) recomputeMaxTick() {
	tl.maxTick = 0
	for _, tr := range tl.tracks {
		if n := len(tr.frames); n > 0 && tr.frames[n-1].Tick > tl.maxTick {
			tl.maxTick = tr.frames[n-1].Tick
		}
	}
}
