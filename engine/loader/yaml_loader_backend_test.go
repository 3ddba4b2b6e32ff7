package loader

import (
	"bytes"
	"strings"
	"testing"

	"github.com/Carmen-Shannon/oxy-anim/engine/animator"
	"github.com/Carmen-Shannon/oxy-anim/engine/transform"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const tol = float32(1e-4)

const walkerYAML = `
name: walker
ticks_per_second: 24
loop: true
nodes:
  - name: pelvis
    position: [0, 1, 0]
    color: [1, 0, 0]
    children:
      - name: torso
        rotation: [0, 0, 90]
        order: trs
        children:
          - name: head
            position: [0, 0.5, 0]
            scale: [0.5, 0.5, 0.5]
tracks:
  - node: pelvis
    keyframes:
      - {tick: 0, position: [0, 1, 0]}
      - {tick: 12, position: [0, 1.2, 0]}
  - node: torso
    keyframes:
      - {tick: 0, rotation: [0, 0, 0], channels: [rotation, scale]}
      - {tick: 24, rotation: [0, 0, 180]}
`

func decodeWalker(t *testing.T) *Asset {
	t.Helper()
	asset, err := newYAMLLoaderBackend(30).LoadReader(strings.NewReader(walkerYAML))
	require.NoError(t, err)
	return asset
}

func TestYAMLDecodesHierarchy(t *testing.T) {
	asset := decodeWalker(t)

	assert.Equal(t, "walker", asset.Name)
	assert.Equal(t, float32(24), asset.TicksPerSecond)
	assert.True(t, asset.Loop)
	require.Len(t, asset.Roots, 1)
	assert.Len(t, asset.Nodes(), 3)

	pelvis := asset.Find("pelvis")
	require.NotNil(t, pelvis)
	assert.Equal(t, mgl32.Vec3{0, 1, 0}, pelvis.Transform().Position())
	assert.Equal(t, mgl32.Vec4{1, 0, 0, 1}, pelvis.Color())

	torso := asset.Find("torso")
	require.NotNil(t, torso)
	assert.InDelta(t, mgl32.DegToRad(90), torso.Transform().Rotation().Z(), 1e-5)
	assert.Equal(t, transform.OrderTRS, torso.Transform().Order())

	head := asset.Find("head")
	require.NotNil(t, head)
	assert.Equal(t, mgl32.Vec3{0.5, 0.5, 0.5}, head.Transform().ScaleFactors())
	assert.Nil(t, asset.Find("tail"))
}

func TestYAMLDecodesTracks(t *testing.T) {
	asset := decodeWalker(t)
	tl := asset.Timeline

	assert.Equal(t, 2, tl.Len())
	assert.Equal(t, animator.Tick(24), tl.MaxTick())

	pelvisKeys := tl.KeyFrames(asset.Find("pelvis"))
	require.Len(t, pelvisKeys, 2)
	assert.Equal(t, animator.ChannelTranslation, pelvisKeys[1].Channels)
	assert.Equal(t, mgl32.Vec3{0, 1.2, 0}, pelvisKeys[1].Transform.Position())

	torsoKeys := tl.KeyFrames(asset.Find("torso"))
	require.Len(t, torsoKeys, 2)
	assert.Equal(t, animator.ChannelRotation|animator.ChannelScale, torsoKeys[0].Channels)
	assert.Equal(t, animator.ChannelRotation, torsoKeys[1].Channels)

	// omitted components keep the rest pose
	assert.Equal(t, transform.OrderTRS, torsoKeys[1].Transform.Order())
	assert.Equal(t, mgl32.Vec3{1, 1, 1}, torsoKeys[1].Transform.ScaleFactors())
}

func TestYAMLDefaultsTicksPerSecond(t *testing.T) {
	asset, err := newYAMLLoaderBackend(60).LoadReader(strings.NewReader("nodes:\n  - name: a\n"))
	require.NoError(t, err)
	assert.Equal(t, float32(60), asset.TicksPerSecond)
	assert.False(t, asset.Loop)
	assert.Equal(t, 0, asset.Timeline.Len())

	asset, err = newYAMLLoaderBackend(60).LoadReader(strings.NewReader("ticks_per_second: -5\nnodes:\n  - name: a\n"))
	require.NoError(t, err)
	assert.Equal(t, float32(60), asset.TicksPerSecond)
}

func TestYAMLRejectsBadDocuments(t *testing.T) {
	cases := map[string]string{
		"empty":          "",
		"unknown node":   "nodes:\n  - name: a\ntracks:\n  - node: b\n    keyframes: [{tick: 0}]\n",
		"short vector":   "nodes:\n  - name: a\n    position: [1, 2]\n",
		"duplicate name": "nodes:\n  - name: a\n  - name: a\n",
		"bad color":      "nodes:\n  - name: a\n    color: [1]\n",
		"bad channel":    "nodes:\n  - name: a\ntracks:\n  - node: a\n    keyframes: [{tick: 0, channels: [wobble]}]\n",
		"not yaml":       "nodes: [",
	}
	b := newYAMLLoaderBackend(30)
	for name, doc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := b.LoadReader(strings.NewReader(doc))
			assert.Error(t, err)
		})
	}
}

func TestYAMLRoundTrip(t *testing.T) {
	b := newYAMLLoaderBackend(30)
	original := decodeWalker(t)
	original.Find("head").SetEnabled(false)

	var buf bytes.Buffer
	require.NoError(t, b.Write(&buf, original))

	decoded, err := b.LoadReader(&buf)
	require.NoError(t, err)

	assert.Equal(t, original.Name, decoded.Name)
	assert.Equal(t, original.TicksPerSecond, decoded.TicksPerSecond)
	assert.Equal(t, original.Loop, decoded.Loop)
	assert.False(t, decoded.Find("head").Enabled())

	for _, name := range []string{"pelvis", "torso", "head"} {
		a, d := original.Find(name), decoded.Find(name)
		require.NotNil(t, d, name)
		assert.True(t, a.Transform().Equal(*d.Transform(), tol), name)
		assert.Equal(t, a.Color(), d.Color(), name)

		ak, dk := original.Timeline.KeyFrames(a), decoded.Timeline.KeyFrames(d)
		require.Len(t, dk, len(ak), name)
		for i := range ak {
			assert.Equal(t, ak[i].Tick, dk[i].Tick)
			assert.Equal(t, ak[i].Channels, dk[i].Channels)
			assert.True(t, ak[i].Transform.Position().ApproxEqualThreshold(dk[i].Transform.Position(), tol))
			assert.True(t, ak[i].Transform.Rotation().ApproxEqualThreshold(dk[i].Transform.Rotation(), tol))
		}
	}
}

func TestYAMLWriteRejectsUnnamedTrack(t *testing.T) {
	asset := decodeWalker(t)
	asset.Find("torso").SetName("")

	err := newYAMLLoaderBackend(30).Write(&bytes.Buffer{}, asset)
	assert.Error(t, err)
}
