package animator

import (
	"sync"
	"sync/atomic"

	"github.com/Carmen-Shannon/oxy-anim/common"
)

// DefaultTicksPerSecond is the playback rate used when none is configured.
const DefaultTicksPerSecond float32 = 30

// animatorCount is an atomic counter used to generate unique animator IDs.
var animatorCount atomic.Uint64

// animator is the implementation of the Animator interface.
// It tracks playback time, speed and looping for a single Timeline.
type animator struct {
	mu *sync.Mutex

	id       uint64
	name     string
	timeline Timeline

	time           float64 // in ticks
	speed          float32
	ticksPerSecond float32
	loop           bool
	playing        bool
}

// Animator drives a Timeline over wall-clock time.
//
// PrepareFrame advances the playback clock by deltaTime * ticksPerSecond * speed
// and poses the timeline's nodes. When looping, time wraps at the timeline's MaxTick;
// otherwise it stops at MaxTick (or 0 when running backwards) and playback halts.
//
// An Animator owns the nodes of its Timeline for the duration of PrepareFrame, so
// separate animators may be advanced in parallel as long as their node sets are
// disjoint.
//
// Play, Stop and SetTime also pose the nodes. The Animator lock only guards its own
// clock, so callers that share the nodes with readers must serialize those calls,
// for example through scene.Scene.Apply.
type Animator interface {
	// ID returns the animator's unique identifier.
	//
	// Returns:
	//   - uint64: the animator ID
	ID() uint64

	// Name returns the animator's name.
	//
	// Returns:
	//   - string: the name
	Name() string

	// Timeline returns the driven Timeline.
	//
	// Returns:
	//   - Timeline: the timeline
	Timeline() Timeline

	// SetTimeline replaces the driven Timeline and rewinds to tick 0.
	//
	// Parameters:
	//   - tl: the new timeline
	SetTimeline(tl Timeline)

	// Play starts playback from tick 0 at normal speed and poses the first frame.
	//
	// Parameters:
	//   - loop: whether playback should wrap at the end of the timeline
	Play(loop bool)

	// Pause halts the playback clock without changing the pose.
	Pause()

	// Resume continues playback from the current time.
	Resume()

	// Stop halts playback and rewinds to tick 0, posing the first frame.
	Stop()

	// Playing reports whether the playback clock is running.
	//
	// Returns:
	//   - bool: true if playing
	Playing() bool

	// Looping reports whether playback wraps at the end of the timeline.
	//
	// Returns:
	//   - bool: true if looping
	Looping() bool

	// SetLooping changes the looping flag without restarting playback.
	//
	// Parameters:
	//   - loop: whether playback should wrap
	SetLooping(loop bool)

	// Time returns the current playback time in ticks.
	//
	// Returns:
	//   - float64: the playback time
	Time() float64

	// SetTime moves the playhead to t (in ticks) and poses that frame immediately.
	//
	// Parameters:
	//   - t: the new playback time in ticks
	SetTime(t float64)

	// Speed returns the playback speed multiplier.
	//
	// Returns:
	//   - float32: the speed (1.0 = normal)
	Speed() float32

	// SetSpeed sets the playback speed multiplier. Negative speeds play backwards.
	//
	// Parameters:
	//   - speed: the speed multiplier (1.0 = normal, 0.5 = half speed)
	SetSpeed(speed float32)

	// TicksPerSecond returns how many timeline ticks elapse per second at speed 1.
	//
	// Returns:
	//   - float32: the tick rate
	TicksPerSecond() float32

	// SetTicksPerSecond sets the tick rate. Non-positive values are ignored.
	//
	// Parameters:
	//   - tps: ticks per second
	SetTicksPerSecond(tps float32)

	// Duration returns the length of the timeline in seconds at speed 1.
	//
	// Returns:
	//   - float32: the duration in seconds
	Duration() float32

	// PrepareFrame advances the playback clock and poses the timeline.
	//
	// Parameters:
	//   - deltaTime: elapsed time since the last frame in seconds
	PrepareFrame(deltaTime float32)
}

var _ Animator = &animator{}

// NewAnimator creates a new Animator configured with the given options.
// Without WithTimeline an empty Timeline is created.
//
// Parameters:
//   - options: functional options to configure the animator
//
// Returns:
//   - Animator: the newly created animator
func NewAnimator(options ...AnimatorBuilderOption) Animator {
	a := &animator{
		mu:             &sync.Mutex{},
		id:             animatorCount.Add(1),
		speed:          1.0,
		ticksPerSecond: DefaultTicksPerSecond,
	}
	for _, option := range options {
		option(a)
	}
	if a.timeline == nil {
		a.timeline = NewTimeline(WithTimelineName(a.name))
	}
	if a.name == "" {
		a.name = a.timeline.Name()
	}
	return a
}

func (a *animator) ID() uint64 {
	return a.id
}

func (a *animator) Name() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.name
}

func (a *animator) Timeline() Timeline {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.timeline
}

func (a *animator) SetTimeline(tl Timeline) {
	if tl == nil {
		return
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	a.timeline = tl
	a.time = 0
}

func (a *animator) Play(loop bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.time = 0
	a.speed = 1.0
	a.loop = loop
	a.playing = true
	a.timeline.Play(a.time)
}

func (a *animator) Pause() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.playing = false
}

func (a *animator) Resume() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.playing = true
}

func (a *animator) Stop() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.playing = false
	a.time = 0
	a.timeline.Play(a.time)
}

func (a *animator) Playing() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.playing
}

func (a *animator) Looping() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.loop
}

func (a *animator) SetLooping(loop bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.loop = loop
}

func (a *animator) Time() float64 {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.time
}

func (a *animator) SetTime(t float64) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.time = t
	a.timeline.Play(a.time)
}

func (a *animator) Speed() float32 {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.speed
}

func (a *animator) SetSpeed(speed float32) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.speed = speed
}

func (a *animator) TicksPerSecond() float32 {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.ticksPerSecond
}

func (a *animator) SetTicksPerSecond(tps float32) {
	if tps <= 0 {
		return
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	a.ticksPerSecond = tps
}

func (a *animator) Duration() float32 {
	a.mu.Lock()
	defer a.mu.Unlock()
	return float32(a.timeline.MaxTick()) / a.ticksPerSecond
}

func (a *animator) PrepareFrame(deltaTime float32) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if !a.playing {
		return
	}

	a.time += float64(deltaTime * a.ticksPerSecond * a.speed)

	end := float64(a.timeline.MaxTick())
	switch {
	case a.loop && end > 0:
		if a.time >= end || a.time < 0 {
			a.time = float64(common.Wrap(float32(a.time), float32(end)))
		}
	case a.time >= end:
		a.time = end
		a.playing = false
	case a.time <= 0 && a.speed < 0:
		a.time = 0
		a.playing = false
	}

	a.timeline.Play(a.time)
}
