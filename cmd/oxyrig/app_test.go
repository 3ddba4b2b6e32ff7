package main

import (
	"bytes"
	"path/filepath"
	"sync"
	"testing"

	"github.com/Carmen-Shannon/oxy-anim/common"
	"github.com/Carmen-Shannon/oxy-anim/engine/config"
	"github.com/Carmen-Shannon/oxy-anim/engine/loader"
	"github.com/Carmen-Shannon/oxy-anim/engine/rig"
	"github.com/Carmen-Shannon/oxy-anim/engine/scene"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func newTestApp(t *testing.T) *app {
	t.Helper()
	cfg := config.Default()
	cfg.Engine.UpdateWorkers = 1
	a, err := newApp(cfg)
	require.NoError(t, err)
	return a
}

func TestNewAppBuildsHumanoid(t *testing.T) {
	a := newTestApp(t)

	asset, anim, selected := a.current()
	assert.Equal(t, "humanoid", asset.Name)
	assert.Equal(t, 1, a.scene.Count())
	require.NotNil(t, selected)
	assert.Equal(t, rig.BonePelvis, selected.Name())
	assert.True(t, anim.Playing())
	assert.Same(t, anim, a.scene.Animator("humanoid"))
	assert.Len(t, a.scene.Lights(), 1)
}

func TestNewAppRejectsMissingRig(t *testing.T) {
	cfg := config.Default()
	cfg.Rig.Path = filepath.Join(t.TempDir(), "missing.yaml")
	_, err := newApp(cfg)
	assert.Error(t, err)
}

func TestKeyBindingsMoveSelectedNode(t *testing.T) {
	a := newTestApp(t)
	_, _, pelvis := a.current()
	start := pelvis.Transform().Position()

	assert.True(t, a.handleKeyDown(common.KeyD))
	assert.True(t, a.handleKeyDown(common.KeyW))
	assert.True(t, start.Add(mgl32.Vec3{0.1, 0.1, 0}).ApproxEqualThreshold(pelvis.Transform().Position(), 1e-6))

	assert.True(t, a.handleKeyDown(common.KeyE))
	assert.InDelta(t, 0.1, pelvis.Transform().Rotation().Y(), 1e-6)

	assert.False(t, a.handleKeyDown(uint32('Z')))
}

func TestKeyBindingsDriveCamera(t *testing.T) {
	a := newTestApp(t)
	before := a.camera.Rotation()
	assert.True(t, a.handleKeyDown(common.KeyUp))
	assert.NotEqual(t, before, a.camera.Rotation())

	pos := a.camera.Position()
	a.handleScroll(1)
	assert.NotEqual(t, pos, a.camera.Position())
}

func TestKeyBindingsControlPlayback(t *testing.T) {
	a := newTestApp(t)
	asset, anim, _ := a.current()

	a.handleKeyDown(common.KeyP)
	assert.False(t, anim.Playing())
	a.handleKeyDown(common.KeyP)
	assert.True(t, anim.Playing())

	anim.SetTime(7)
	a.handleKeyDown(common.KeyR)
	assert.Zero(t, anim.Time())

	a.handleKeyDown(common.KeyTab)
	_, _, selected := a.current()
	assert.Equal(t, rig.BoneTorso, selected.Name())

	// torso has no walk keys until one is snapshotted
	assert.Empty(t, asset.Timeline.KeyFrames(selected))
	anim.SetTime(3.2)
	a.handleKeyDown(common.KeySpace)
	keys := asset.Timeline.KeyFrames(selected)
	require.Len(t, keys, 1)
	assert.EqualValues(t, 3, keys[0].Tick)
}

func TestKeyBindingsRunAlongsideUpdate(t *testing.T) {
	a := newTestApp(t)
	_, anim, pelvis := a.current()

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		for i := 0; i < 200; i++ {
			for _, key := range []uint32{common.KeyP, common.KeyR, common.KeySpace, common.KeyD, common.KeyP} {
				a.handleKeyDown(key)
			}
		}
	}()
	go func() {
		defer wg.Done()
		for i := 0; i < 200; i++ {
			a.scene.Update(1.0 / 60)
			assert.Len(t, a.scene.Poses(), 11)
		}
	}()
	wg.Wait()

	assert.NotEmpty(t, anim.Timeline().KeyFrames(pelvis))
	assert.True(t, anim.Playing())
}

func TestSelectNextWraps(t *testing.T) {
	a := newTestApp(t)
	asset, _, _ := a.current()
	for range asset.Nodes() {
		a.handleKeyDown(common.KeyTab)
	}
	_, _, selected := a.current()
	assert.Equal(t, rig.BonePelvis, selected.Name())
}

func TestReloadSwapsRig(t *testing.T) {
	a := newTestApp(t)
	old, oldAnim, _ := a.current()

	a.reload(nil, errors.New("bad file"))
	asset, _, _ := a.current()
	assert.Same(t, old, asset)

	fresh := humanoidAsset(a.cfg)
	fresh.Name = "runner"
	a.reload(fresh, nil)

	asset, anim, selected := a.current()
	assert.Same(t, fresh, asset)
	assert.Equal(t, 1, a.scene.Count())
	assert.Nil(t, a.scene.Get(old.Roots[0].ID()))
	assert.Nil(t, a.scene.Animator(oldAnim.Name()))
	assert.Same(t, anim, a.scene.Animator("runner"))
	assert.Equal(t, rig.BonePelvis, selected.Name())
}

func TestDumpCommand(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, dumpCommand(config.Default(), []string{"-tick", "15"}, &out))

	var poses []scene.Pose
	require.NoError(t, yaml.Unmarshal(out.Bytes(), &poses))
	require.Len(t, poses, 11)
	assert.Equal(t, rig.BonePelvis, poses[0].Name)

	out.Reset()
	require.NoError(t, dumpCommand(config.Default(), []string{"-format", "json"}, &out))
	assert.Equal(t, byte('['), bytes.TrimSpace(out.Bytes())[0])

	out.Reset()
	require.NoError(t, dumpCommand(config.Default(), []string{"-format", "spew"}, &out))
	assert.Contains(t, out.String(), rig.BoneLowerLegR)

	assert.Error(t, dumpCommand(config.Default(), []string{"-format", "xml"}, &out))
}

func TestExportCommand(t *testing.T) {
	target := filepath.Join(t.TempDir(), "humanoid.glb")

	var out bytes.Buffer
	require.NoError(t, exportCommand(config.Default(), []string{"-out", target}, &out))
	assert.Contains(t, out.String(), "11 nodes")

	asset, err := loader.NewLoader().Load(target)
	require.NoError(t, err)
	assert.Len(t, asset.Nodes(), 11)
	assert.Equal(t, 8, asset.Timeline.Len())

	assert.Error(t, exportCommand(config.Default(), nil, &out))
}
