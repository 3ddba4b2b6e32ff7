package animator

import (
	"testing"

	"github.com/Carmen-Shannon/oxy-anim/engine/transform"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const tol = float32(1e-5)

type node struct {
	id   uint64
	name string
	tr   transform.Transform
}

func newNode(id uint64) *node {
	return &node{id: id, name: "node", tr: transform.Identity()}
}

func (n *node) ID() uint64 { return n.id }
func (n *node) Name() string { return n.name }
func (n *node) Transform() *transform.Transform { return &n.tr }

func at(x float32) transform.Transform {
	return transform.New(mgl32.Vec3{x, 0, 0}, mgl32.Vec3{}, mgl32.Vec3{1, 1, 1})
}

func key(tick Tick, x float32) KeyFrame {
	return KeyFrame{Tick: tick, Transform: at(x), Channels: ChannelAll}
}

func TestInterpolateExactTickReturnsKeyFrame(t *testing.T) {
	a := KeyFrame{Tick: 10, Transform: transform.New(mgl32.Vec3{1, 2, 3}, mgl32.Vec3{0.1, 0.2, 0.3}, mgl32.Vec3{1, 2, 1})}
	b := KeyFrame{Tick: 20, Transform: transform.New(mgl32.Vec3{5, 5, 5}, mgl32.Vec3{1, 1, 1}, mgl32.Vec3{3, 3, 3})}

	got := Interpolate(a, b, 10)
	assert.Equal(t, a.Transform.Position(), got.Position())
	assert.Equal(t, a.Transform.Rotation(), got.Rotation())
	assert.Equal(t, a.Transform.ScaleFactors(), got.ScaleFactors())
}

func TestInterpolateMidpointIsMean(t *testing.T) {
	a := KeyFrame{Tick: 0, Transform: transform.New(mgl32.Vec3{0, 2, 4}, mgl32.Vec3{0, 0, 1}, mgl32.Vec3{1, 1, 1})}
	b := KeyFrame{Tick: 10, Transform: transform.New(mgl32.Vec3{2, 4, 8}, mgl32.Vec3{1, 0, 0}, mgl32.Vec3{3, 1, 5})}

	got := Interpolate(a, b, 5)
	assert.True(t, mgl32.Vec3{1, 3, 6}.ApproxEqualThreshold(got.Position(), tol))
	assert.True(t, mgl32.Vec3{0.5, 0, 0.5}.ApproxEqualThreshold(got.Rotation(), tol))
	assert.True(t, mgl32.Vec3{2, 1, 3}.ApproxEqualThreshold(got.ScaleFactors(), tol))
}

func TestInterpolateBoundaries(t *testing.T) {
	a, b := key(10, 1), key(20, 2)

	// equal ticks return a
	eq := Interpolate(a, key(10, 9), 15)
	assert.Equal(t, a.Transform.Position(), eq.Position())
	// frac >= 1 returns b
	at := Interpolate(a, b, 20)
	assert.Equal(t, b.Transform.Position(), at.Position())
	past := Interpolate(a, b, 30)
	assert.Equal(t, b.Transform.Position(), past.Position())
	// frac < 0 returns b
	before := Interpolate(a, b, 5)
	assert.Equal(t, b.Transform.Position(), before.Position())
}

func TestFindKeyFrame(t *testing.T) {
	frames := []KeyFrame{key(0, 0), key(10, 1), key(20, 2)}
	assert.Equal(t, -1, FindKeyFrame(frames, -1))
	assert.Equal(t, 0, FindKeyFrame(frames, 0))
	assert.Equal(t, 0, FindKeyFrame(frames, 9.5))
	assert.Equal(t, 1, FindKeyFrame(frames, 10))
	assert.Equal(t, 2, FindKeyFrame(frames, 100))
	assert.Equal(t, -1, FindKeyFrame(nil, 3))
}

func TestTimelineKeepsTrackOrderedAndReplacesSameTick(t *testing.T) {
	n := newNode(1)
	tl := NewTimeline()
	tl.AddKeyFrame(n, key(20, 2))
	tl.AddKeyFrame(n, key(0, 0))
	tl.AddKeyFrame(n, key(10, 1))
	tl.AddKeyFrame(n, key(10, 5))

	frames := tl.KeyFrames(n)
	require.Len(t, frames, 3)
	assert.Equal(t, []Tick{0, 10, 20}, []Tick{frames[0].Tick, frames[1].Tick, frames[2].Tick})
	assert.Equal(t, float32(5), frames[1].Transform.Position()[0])
	assert.Equal(t, Tick(20), tl.MaxTick())
}

func TestTimelineIgnoresNilTarget(t *testing.T) {
	tl := NewTimeline()
	tl.AddKeyFrame(nil, key(5, 1))
	tl.AddKeyFrameAt(nil, 5, ChannelAll)
	assert.False(t, tl.RemoveKeyFrame(nil, 5))
	assert.Nil(t, tl.KeyFrames(nil))
	assert.Equal(t, 0, tl.Len())
	assert.NotPanics(t, func() { tl.Play(3) })
}

func TestTimelinePlayHoldsAndInterpolates(t *testing.T) {
	n := newNode(1)
	tl := NewTimeline(WithKeyFrames(n, key(10, 1), key(20, 3)))

	tl.Play(0)
	assert.Equal(t, float32(1), n.tr.Position()[0], "before first keyframe holds the first")

	tl.Play(15)
	assert.InDelta(t, 2, n.tr.Position()[0], 1e-6)

	tl.Play(20)
	assert.Equal(t, float32(3), n.tr.Position()[0], "at last keyframe")

	tl.Play(500)
	assert.Equal(t, float32(3), n.tr.Position()[0], "after last keyframe holds the last")
}

func TestTimelineSingleKeyFrame(t *testing.T) {
	n := newNode(1)
	tl := NewTimeline(WithKeyFrames(n, key(7, 4)))
	for _, tm := range []float64{0, 7, 100} {
		n.tr = transform.Identity()
		tl.Play(tm)
		assert.Equal(t, float32(4), n.tr.Position()[0])
	}
}

func TestTimelineChannelMask(t *testing.T) {
	n := newNode(1)
	n.tr.SetScale(mgl32.Vec3{2, 2, 2})

	a := KeyFrame{Tick: 0, Transform: transform.New(mgl32.Vec3{}, mgl32.Vec3{}, mgl32.Vec3{9, 9, 9}), Channels: ChannelRotation}
	b := KeyFrame{Tick: 10, Transform: transform.New(mgl32.Vec3{}, mgl32.Vec3{0, 1, 0}, mgl32.Vec3{9, 9, 9}), Channels: ChannelRotation}
	tl := NewTimeline(WithKeyFrames(n, a, b))

	n.tr.SetPosition(mgl32.Vec3{4, 0, 0})
	tl.Play(5)
	assert.Equal(t, mgl32.Vec3{4, 0, 0}, n.tr.Position(), "translation untouched")
	assert.Equal(t, mgl32.Vec3{2, 2, 2}, n.tr.ScaleFactors(), "scale untouched")
	assert.InDelta(t, 0.5, n.tr.Rotation()[1], 1e-6)
}

func TestTimelineEmptyMaskDrivesEverything(t *testing.T) {
	n := newNode(1)
	kf := KeyFrame{Tick: 0, Transform: transform.New(mgl32.Vec3{1, 1, 1}, mgl32.Vec3{0.2, 0, 0}, mgl32.Vec3{3, 3, 3})}
	tl := NewTimeline(WithKeyFrames(n, kf))
	tl.Play(0)
	assert.True(t, n.tr.Equal(kf.Transform, tol))
}

func TestTimelineAddKeyFrameAtSnapshots(t *testing.T) {
	n := newNode(1)
	tl := NewTimeline()

	n.tr.SetPosition(mgl32.Vec3{1, 0, 0})
	tl.AddKeyFrameAt(n, 0, ChannelAll)
	n.tr.SetPosition(mgl32.Vec3{3, 0, 0})
	tl.AddKeyFrameAt(n, 10, ChannelAll)

	tl.Play(5)
	assert.InDelta(t, 2, n.tr.Position()[0], 1e-6)
}

func TestTimelineRemove(t *testing.T) {
	n1, n2 := newNode(1), newNode(2)
	tl := NewTimeline(WithKeyFrames(n1, key(0, 0), key(30, 1)), WithKeyFrames(n2, key(10, 0)))

	assert.True(t, tl.RemoveKeyFrame(n1, 30))
	assert.False(t, tl.RemoveKeyFrame(n1, 30))
	assert.Equal(t, Tick(10), tl.MaxTick())

	assert.True(t, tl.RemoveKeyFrame(n2, 10))
	assert.Equal(t, 1, tl.Len())
	assert.True(t, tl.RemoveTarget(n1))
	assert.Equal(t, 0, tl.Len())
	assert.Equal(t, Tick(0), tl.MaxTick())
}

func TestTimelineTargetsInRegistrationOrder(t *testing.T) {
	n1, n2, n3 := newNode(3), newNode(1), newNode(2)
	tl := NewTimeline()
	tl.AddKeyFrame(n1, key(0, 0))
	tl.AddKeyFrame(n2, key(0, 0))
	tl.AddKeyFrame(n3, key(0, 0))
	tl.AddKeyFrame(n1, key(5, 0))

	var ids []uint64
	for _, target := range tl.Targets() {
		ids = append(ids, target.ID())
	}
	assert.Equal(t, []uint64{3, 1, 2}, ids)
}

func TestTimelineKeysTracksByTarget(t *testing.T) {
	a, b := newNode(7), newNode(7)
	tl := NewTimeline()
	tl.AddKeyFrame(a, key(0, 1))
	tl.AddKeyFrame(b, key(0, 2))

	require.Equal(t, 2, tl.Len())
	require.Len(t, tl.KeyFrames(a), 1)
	require.Len(t, tl.KeyFrames(b), 1)

	tl.Play(0)
	assert.Equal(t, float32(1), a.tr.Position().X())
	assert.Equal(t, float32(2), b.tr.Position().X())

	assert.True(t, tl.RemoveTarget(a))
	assert.Nil(t, tl.KeyFrames(a))
	assert.Len(t, tl.KeyFrames(b), 1)
}

func TestAnimatorLoops(t *testing.T) {
	n := newNode(1)
	tl := NewTimeline(WithKeyFrames(n, key(0, 0), key(10, 10)))
	a := NewAnimator(WithTimeline(tl), WithTicksPerSecond(10))

	a.Play(true)
	a.PrepareFrame(0.5)
	assert.InDelta(t, 5, a.Time(), 1e-4)
	assert.InDelta(t, 5, n.tr.Position()[0], 1e-4)

	a.PrepareFrame(0.7)
	assert.InDelta(t, 2, a.Time(), 1e-4)
	assert.True(t, a.Playing())
}

func TestAnimatorStopsAtEndWithoutLoop(t *testing.T) {
	n := newNode(1)
	tl := NewTimeline(WithKeyFrames(n, key(0, 0), key(10, 10)))
	a := NewAnimator(WithTimeline(tl), WithTicksPerSecond(10))

	a.Play(false)
	a.PrepareFrame(2)
	assert.Equal(t, float64(10), a.Time())
	assert.False(t, a.Playing())
	assert.Equal(t, float32(10), n.tr.Position()[0])

	a.PrepareFrame(1)
	assert.Equal(t, float64(10), a.Time(), "paused clock does not advance")
}

func TestAnimatorSpeedAndScrub(t *testing.T) {
	n := newNode(1)
	tl := NewTimeline(WithKeyFrames(n, key(0, 0), key(100, 100)))
	a := NewAnimator(WithTimeline(tl), WithTicksPerSecond(10))

	a.Play(false)
	a.SetSpeed(2)
	a.PrepareFrame(1)
	assert.InDelta(t, 20, a.Time(), 1e-4)

	a.SetTime(50)
	assert.InDelta(t, 50, n.tr.Position()[0], 1e-4)

	a.Pause()
	a.PrepareFrame(1)
	assert.InDelta(t, 50, a.Time(), 1e-4)
	a.Resume()
	a.PrepareFrame(1)
	assert.InDelta(t, 70, a.Time(), 1e-4)

	a.Stop()
	assert.Equal(t, float64(0), a.Time())
	assert.Equal(t, float32(0), n.tr.Position()[0])
	assert.InDelta(t, 10, a.Duration(), 1e-6)
}

func TestAnimatorDefaults(t *testing.T) {
	a := NewAnimator(WithName("walk"))
	assert.Equal(t, "walk", a.Name())
	assert.Equal(t, DefaultTicksPerSecond, a.TicksPerSecond())
	assert.NotNil(t, a.Timeline())
	assert.NotEqual(t, NewAnimator().ID(), a.ID())

	a.SetTicksPerSecond(-1)
	assert.Equal(t, DefaultTicksPerSecond, a.TicksPerSecond())
}

func TestChannels(t *testing.T) {
	assert.Equal(t, ChannelTranslation|ChannelScale, ParseChannels("translation", "Scale"))
	assert.Equal(t, ChannelAll, ParseChannels("all"))
	assert.Equal(t, ChannelEmpty, ParseChannels())
	assert.Equal(t, "translation|rotation|scale", ChannelAll.String())
	assert.Equal(t, "empty", ChannelEmpty.String())
}
