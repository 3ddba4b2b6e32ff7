package loader

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatFromPath(t *testing.T) {
	cases := map[string]Format{
		"rig.yaml":     FormatYAML,
		"rig.YML":      FormatYAML,
		"dir/rig.gltf": FormatGLTF,
		"rig.glb":      FormatGLB,
	}
	for path, want := range cases {
		got, err := FormatFromPath(path)
		require.NoError(t, err, path)
		assert.Equal(t, want, got, path)
	}

	_, err := FormatFromPath("rig.fbx")
	assert.Error(t, err)
}

func TestLoaderCachesByPath(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "walker.yaml")
	require.NoError(t, os.WriteFile(path, []byte(walkerYAML), 0o644))

	l := NewLoader()
	first, err := l.Load(path)
	require.NoError(t, err)
	second, err := l.Load(path)
	require.NoError(t, err)
	assert.Same(t, first, second)
	assert.Same(t, first, l.Get(path))
	assert.Len(t, l.Assets(), 1)

	assert.True(t, l.Invalidate(path))
	assert.False(t, l.Invalidate(path))
	assert.Nil(t, l.Get(path))

	third, err := l.Load(path)
	require.NoError(t, err)
	assert.NotSame(t, first, third)
}

func TestLoaderNamesAssetAfterFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "stick.yaml")
	require.NoError(t, os.WriteFile(path, []byte("nodes:\n  - name: a\n"), 0o644))

	asset, err := NewLoader(WithTicksPerSecond(12)).Load(path)
	require.NoError(t, err)
	assert.Equal(t, "stick", asset.Name)
	assert.Equal(t, float32(12), asset.TicksPerSecond)
	assert.NotNil(t, asset.Timeline)
}

func TestLoaderLoadErrors(t *testing.T) {
	l := NewLoader()

	_, err := l.Load("missing.yaml")
	assert.Error(t, err)

	_, err = l.Load("rig.obj")
	assert.Error(t, err)

	_, err = l.LoadReader("bad", strings.NewReader("nodes: ["), FormatYAML)
	assert.Error(t, err)
	assert.Nil(t, l.Get("bad"))
}

func TestLoaderSaveAndReloadAcrossFormats(t *testing.T) {
	dir := t.TempDir()
	l := NewLoader()
	asset := armAsset()

	for _, name := range []string{"arm.yaml", "arm.gltf", "arm.glb"} {
		path := filepath.Join(dir, name)
		require.NoError(t, l.Save(path, asset), name)
		assert.Same(t, asset, l.Get(path))

		loaded, err := l.Reload(path)
		require.NoError(t, err, name)
		assert.NotSame(t, asset, loaded)
		require.NotNil(t, loaded.Find("elbow"), name)
		assert.Equal(t, 2, loaded.Timeline.Len(), name)
		assert.Len(t, loaded.Timeline.KeyFrames(loaded.Find("elbow")), 3, name)
	}

	assert.Error(t, l.Save(filepath.Join(dir, "arm.txt"), asset))
	assert.Error(t, l.Save(filepath.Join(dir, "nil.yaml"), nil))
}

func TestLoaderWriteAndLoadReader(t *testing.T) {
	l := NewLoader()
	var buf bytes.Buffer
	require.NoError(t, l.Write(&buf, FormatYAML, armAsset()))

	asset, err := l.LoadReader("arm-stream", &buf, FormatYAML)
	require.NoError(t, err)
	assert.Equal(t, "arm", asset.Name)
	assert.Same(t, asset, l.Get("arm-stream"))
}

func TestWithAssetPrepopulatesCache(t *testing.T) {
	asset := armAsset()
	l := NewLoader(WithAsset("arm", asset), WithAsset("nil", nil))
	assert.Same(t, asset, l.Get("arm"))
	assert.Nil(t, l.Get("nil"))
}

func TestLoaderWatchReloadsOnWrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "walker.yaml")
	require.NoError(t, os.WriteFile(path, []byte(walkerYAML), 0o644))

	l := NewLoader()
	_, err := l.Load(path)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	changes := make(chan *Asset, 4)
	require.NoError(t, l.Watch(ctx, path, func(a *Asset, err error) {
		if err == nil {
			changes <- a
		}
	}))

	updated := strings.Replace(walkerYAML, "name: walker", "name: runner", 1)
	require.NoError(t, os.WriteFile(path, []byte(updated), 0o644))

	select {
	case a := <-changes:
		assert.Equal(t, "runner", a.Name)
		assert.Same(t, a, l.Get(path))
	case <-time.After(5 * time.Second):
		t.Fatal("no reload after write")
	}
}

func TestLoaderWatchRejectsUnknownFormat(t *testing.T) {
	err := NewLoader().Watch(context.Background(), "rig.obj", nil)
	assert.Error(t, err)
}
