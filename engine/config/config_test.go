package config

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())

	assert.Equal(t, 60.0, cfg.Engine.TickRate)
	assert.Equal(t, float32(30), cfg.Animation.TicksPerSecond)
	assert.True(t, cfg.Animation.Loop)
	assert.Equal(t, "127.0.0.1:8000", cfg.Server.Addr)
	assert.Equal(t, [3]float32{0, 0, 10}, cfg.Camera.Position)
	assert.Equal(t, float32(10), cfg.Light.OrbitRadius)
	assert.Empty(t, cfg.Rig.Path)
}

func TestReadOverlaysDefaults(t *testing.T) {
	src := `
[engine]
tick_rate = 120
profiling = true

[rig]
path = "walker.yaml"

[camera]
position = [1.0, 2.0, 3.0]

[server]
addr = ":9000"
`
	cfg, err := Read(strings.NewReader(src))
	require.NoError(t, err)

	assert.Equal(t, 120.0, cfg.Engine.TickRate)
	assert.True(t, cfg.Engine.Profiling)
	assert.Equal(t, "walker.yaml", cfg.Rig.Path)
	assert.Equal(t, [3]float32{1, 2, 3}, cfg.Camera.Position)
	assert.Equal(t, ":9000", cfg.Server.Addr)

	// untouched keys keep their defaults
	assert.Equal(t, 4, cfg.Engine.UpdateWorkers)
	assert.Equal(t, float32(60), cfg.Camera.FovDegrees)
	assert.Equal(t, "pelvis", cfg.Rig.Selected)
}

func TestReadRejectsBadInput(t *testing.T) {
	cases := map[string]string{
		"unknown key":   "[engine]\nwarp = 9\n",
		"bad tick rate": "[engine]\ntick_rate = 0\n",
		"bad clip":      "[camera]\nnear = 10.0\nfar = 1.0\n",
		"bad fov":       "[camera]\nfov_degrees = 180.0\n",
		"no addr":       "[server]\naddr = \"\"\n",
		"short walk":    "[animation]\nwalk_period = 1\n",
		"not toml":      "[engine\n",
	}
	for name, src := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Read(strings.NewReader(src))
			assert.Error(t, err)
		})
	}
}

func TestDisabledServerNeedsNoAddr(t *testing.T) {
	cfg, err := Read(strings.NewReader("[server]\nenabled = false\naddr = \"\"\n"))
	require.NoError(t, err)
	assert.False(t, cfg.Server.Enabled)
}

func TestWriteThenLoad(t *testing.T) {
	cfg := Default()
	cfg.Window.Enabled = true
	cfg.Animation.WalkPeriod = 48

	var buf bytes.Buffer
	require.NoError(t, cfg.Write(&buf))

	path := filepath.Join(t.TempDir(), "oxyrig.toml")
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o644))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)

	_, err = Load(filepath.Join(t.TempDir(), "missing.toml"))
	assert.Error(t, err)
}
