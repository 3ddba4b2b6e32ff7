// Package config holds the TOML-backed settings for the oxyrig runtime.
package config

import (
	"bufio"
	"io"
	"os"

	"github.com/pelletier/go-toml/v2"
	"github.com/pkg/errors"
)

// Config is the root of a configuration file. Every section is optional; missing
// values keep the defaults from Default.
type Config struct {
	Engine    EngineConfig    `toml:"engine"`
	Animation AnimationConfig `toml:"animation"`
	Rig       RigConfig       `toml:"rig"`
	Camera    CameraConfig    `toml:"camera"`
	Light     LightConfig     `toml:"light"`
	Window    WindowConfig    `toml:"window"`
	Server    ServerConfig    `toml:"server"`
}

// EngineConfig controls the fixed-rate update loop.
type EngineConfig struct {
	// TickRate is the number of engine updates per second.
	TickRate float64 `toml:"tick_rate"`
	// Profiling logs tick rate and memory statistics once per second.
	Profiling bool `toml:"profiling"`
	// UpdateWorkers caps the number of animators advanced in parallel.
	UpdateWorkers int `toml:"update_workers"`
}

// AnimationConfig sets playback defaults for loaded timelines.
type AnimationConfig struct {
	TicksPerSecond float32 `toml:"ticks_per_second"`
	Speed          float32 `toml:"speed"`
	Loop           bool    `toml:"loop"`
	AutoPlay       bool    `toml:"autoplay"`
	// WalkPeriod is the length in ticks of the built-in walk cycle.
	WalkPeriod uint32 `toml:"walk_period"`
}

// RigConfig selects the rig to animate. An empty Path builds the default humanoid.
type RigConfig struct {
	Path  string `toml:"path"`
	Watch bool   `toml:"watch"`
	// Selected names the node moved by the keyboard bindings.
	Selected string `toml:"selected"`
}

// CameraConfig describes the initial perspective camera.
type CameraConfig struct {
	FovDegrees float32    `toml:"fov_degrees"`
	Near       float32    `toml:"near"`
	Far        float32    `toml:"far"`
	Position   [3]float32 `toml:"position"`
	Rotation   [3]float32 `toml:"rotation"`
}

// LightConfig describes the orbiting scene light.
type LightConfig struct {
	OrbitRadius float32 `toml:"orbit_radius"`
	// OrbitSpeed is in radians per second; 0 keeps the light still.
	OrbitSpeed float32 `toml:"orbit_speed"`
}

// WindowConfig controls the optional input window.
type WindowConfig struct {
	Enabled bool   `toml:"enabled"`
	Title   string `toml:"title"`
	Width   int    `toml:"width"`
	Height  int    `toml:"height"`
}

// ServerConfig controls the pose server.
type ServerConfig struct {
	Enabled bool   `toml:"enabled"`
	Addr    string `toml:"addr"`
	// BroadcastRate is the number of frames per second pushed to websocket clients.
	BroadcastRate float64 `toml:"broadcast_rate"`
	// ClientQueue is the number of frames buffered per client before it is dropped.
	ClientQueue int `toml:"client_queue"`
}

// Default returns the configuration used when no file is given.
//
// Returns:
//   - *Config: a new configuration holding the defaults
func Default() *Config {
	return &Config{
		Engine: EngineConfig{
			TickRate:      60,
			UpdateWorkers: 4,
		},
		Animation: AnimationConfig{
			TicksPerSecond: 30,
			Speed:          1,
			Loop:           true,
			AutoPlay:       true,
			WalkPeriod:     30,
		},
		Rig: RigConfig{
			Watch:    true,
			Selected: "pelvis",
		},
		Camera: CameraConfig{
			FovDegrees: 60,
			Near:       0.3,
			Far:        1000,
			Position:   [3]float32{0, 0, 10},
			Rotation:   [3]float32{0.2, 0, 0},
		},
		Light: LightConfig{
			OrbitRadius: 10,
			OrbitSpeed:  1,
		},
		Window: WindowConfig{
			Title:  "oxyrig",
			Width:  640,
			Height: 480,
		},
		Server: ServerConfig{
			Enabled:       true,
			Addr:          "127.0.0.1:8000",
			BroadcastRate: 30,
			ClientQueue:   16,
		},
	}
}

// Load reads a TOML file over the defaults and validates the result.
//
// Parameters:
//   - path: the configuration file
//
// Returns:
//   - *Config: the merged configuration
//   - error: error if the file cannot be read, holds unknown keys, or fails validation
func Load(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open config %s", path)
	}
	defer f.Close()

	cfg, err := Read(bufio.NewReader(f))
	if err != nil {
		return nil, errors.Wrapf(err, "config %s", path)
	}
	return cfg, nil
}

// Read decodes TOML from r over the defaults and validates the result.
//
// Parameters:
//   - r: the TOML source
//
// Returns:
//   - *Config: the merged configuration
//   - error: error if decoding or validation fails
func Read(r io.Reader) (*Config, error) {
	cfg := Default()
	if err := toml.NewDecoder(r).DisallowUnknownFields().Decode(cfg); err != nil {
		return nil, errors.Wrap(err, "failed to decode config")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Write encodes the configuration as TOML.
//
// Parameters:
//   - w: the destination
//
// Returns:
//   - error: error if encoding fails
func (c *Config) Write(w io.Writer) error {
	if err := toml.NewEncoder(w).SetIndentTables(true).Encode(c); err != nil {
		return errors.Wrap(err, "failed to encode config")
	}
	return nil
}

// Validate reports the first setting that cannot be used.
//
// Returns:
//   - error: nil if the configuration is usable
func (c *Config) Validate() error {
	switch {
	case c.Engine.TickRate <= 0:
		return errors.Errorf("engine.tick_rate must be positive, got %v", c.Engine.TickRate)
	case c.Engine.UpdateWorkers < 1:
		return errors.Errorf("engine.update_workers must be at least 1, got %d", c.Engine.UpdateWorkers)
	case c.Animation.TicksPerSecond <= 0:
		return errors.Errorf("animation.ticks_per_second must be positive, got %v", c.Animation.TicksPerSecond)
	case c.Animation.WalkPeriod < 2:
		return errors.Errorf("animation.walk_period must be at least 2, got %d", c.Animation.WalkPeriod)
	case c.Camera.FovDegrees <= 0 || c.Camera.FovDegrees >= 180:
		return errors.Errorf("camera.fov_degrees must be in (0, 180), got %v", c.Camera.FovDegrees)
	case c.Camera.Near <= 0 || c.Camera.Far <= c.Camera.Near:
		return errors.Errorf("camera clip planes must satisfy 0 < near < far, got %v and %v", c.Camera.Near, c.Camera.Far)
	case c.Window.Width <= 0 || c.Window.Height <= 0:
		return errors.Errorf("window size must be positive, got %dx%d", c.Window.Width, c.Window.Height)
	case c.Server.Enabled && c.Server.Addr == "":
		return errors.New("server.addr is required when the server is enabled")
	case c.Server.BroadcastRate <= 0:
		return errors.Errorf("server.broadcast_rate must be positive, got %v", c.Server.BroadcastRate)
	case c.Server.ClientQueue < 1:
		return errors.Errorf("server.client_queue must be at least 1, got %d", c.Server.ClientQueue)
	}
	return nil
}
