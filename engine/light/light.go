package light

import (
	"sync"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// LightType identifies the kind of light source. It mirrors the w component of
// the light's homogeneous position.
type LightType int

const (
	// LightTypeDirectional represents a light at infinity (position w = 0). The
	// xyz of the position is the direction the light comes from.
	LightTypeDirectional LightType = iota

	// LightTypePoint represents a light at a finite position (position w = 1).
	LightTypePoint
)

// String returns "directional" or "point".
func (t LightType) String() string {
	if t == LightTypePoint {
		return "point"
	}
	return "directional"
}

// lightImpl is the implementation of the Light interface.
type lightImpl struct {
	mu *sync.RWMutex

	name     string
	ambient  mgl32.Vec4
	diffuse  mgl32.Vec4
	specular mgl32.Vec4
	position mgl32.Vec4
	enabled  bool
}

// Light is a fixed-function style light: ambient, diffuse and specular RGBA terms
// and a homogeneous position. Lights are scene-level entities handed to external
// renderers alongside the poses; this package does no shading itself.
type Light interface {
	// Name returns the light's name.
	//
	// Returns:
	//   - string: the name
	Name() string

	// Type returns the kind of light derived from the position's w component.
	//
	// Returns:
	//   - LightType: directional when w == 0, point otherwise
	Type() LightType

	// Ambient returns the ambient RGBA term.
	//
	// Returns:
	//   - mgl32.Vec4: the ambient color
	Ambient() mgl32.Vec4

	// Diffuse returns the diffuse RGBA term.
	//
	// Returns:
	//   - mgl32.Vec4: the diffuse color
	Diffuse() mgl32.Vec4

	// Specular returns the specular RGBA term.
	//
	// Returns:
	//   - mgl32.Vec4: the specular color
	Specular() mgl32.Vec4

	// Position returns the homogeneous position.
	//
	// Returns:
	//   - mgl32.Vec4: the position (w = 0 directional, w = 1 point)
	Position() mgl32.Vec4

	// Enabled returns whether the light contributes to the scene.
	//
	// Returns:
	//   - bool: true if enabled
	Enabled() bool

	// SetAmbient sets the ambient RGBA term.
	//
	// Parameters:
	//   - c: the color
	SetAmbient(c mgl32.Vec4)

	// SetDiffuse sets the diffuse RGBA term.
	//
	// Parameters:
	//   - c: the color
	SetDiffuse(c mgl32.Vec4)

	// SetSpecular sets the specular RGBA term.
	//
	// Parameters:
	//   - c: the color
	SetSpecular(c mgl32.Vec4)

	// SetPosition sets the homogeneous position.
	//
	// Parameters:
	//   - p: the position
	SetPosition(p mgl32.Vec4)

	// SetEnabled enables or disables the light.
	//
	// Parameters:
	//   - enabled: true to enable
	SetEnabled(enabled bool)

	// Orbit places the light on a horizontal circle around the Y axis:
	// x = radius * cos(t), z = radius * sin(t). The y and w components are kept.
	//
	// Parameters:
	//   - t: the angle in radians (usually elapsed seconds)
	//   - radius: the circle radius
	Orbit(t, radius float32)
}

var _ Light = &lightImpl{}

// NewLight creates a new Light with the classic defaults: a dim ambient term,
// a 0.6 grey diffuse term, white specular and a point position at (5, 5, 5).
//
// Parameters:
//   - opts: variadic list of LightBuilderOption functions to configure the light
//
// Returns:
//   - Light: a new Light instance
func NewLight(opts ...LightBuilderOption) Light {
	l := &lightImpl{
		mu:       &sync.RWMutex{},
		ambient:  mgl32.Vec4{0.01, 0.01, 0.01, 0.1},
		diffuse:  mgl32.Vec4{0.6, 0.6, 0.6, 1},
		specular: mgl32.Vec4{1, 1, 1, 1},
		position: mgl32.Vec4{5, 5, 5, 1},
		enabled:  true,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

func (l *lightImpl) Name() string {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.name
}

func (l *lightImpl) Type() LightType {
	l.mu.RLock()
	defer l.mu.RUnlock()
	if l.position[3] == 0 {
		return LightTypeDirectional
	}
	return LightTypePoint
}

func (l *lightImpl) Ambient() mgl32.Vec4 {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.ambient
}

func (l *lightImpl) Diffuse() mgl32.Vec4 {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.diffuse
}

func (l *lightImpl) Specular() mgl32.Vec4 {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.specular
}

func (l *lightImpl) Position() mgl32.Vec4 {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.position
}

func (l *lightImpl) Enabled() bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.enabled
}

func (l *lightImpl) SetAmbient(c mgl32.Vec4) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.ambient = c
}

func (l *lightImpl) SetDiffuse(c mgl32.Vec4) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.diffuse = c
}

func (l *lightImpl) SetSpecular(c mgl32.Vec4) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.specular = c
}

func (l *lightImpl) SetPosition(p mgl32.Vec4) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.position = p
}

func (l *lightImpl) SetEnabled(enabled bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.enabled = enabled
}

func (l *lightImpl) Orbit(t, radius float32) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.position[0] = radius * math32.Cos(t)
	l.position[2] = radius * math32.Sin(t)
}
