package light

import "github.com/go-gl/mathgl/mgl32"

// LightBuilderOption is a function that configures a Light instance during construction.
type LightBuilderOption func(*lightImpl)

// WithName is an option builder that names the light.
//
// Parameters:
//   - name: the name
//
// Returns:
//   - LightBuilderOption: a function that applies the name option to a lightImpl
func WithName(name string) LightBuilderOption {
	return func(l *lightImpl) {
		l.name = name
	}
}

// WithAmbient is an option builder that sets the ambient RGBA term.
//
// Parameters:
//   - r, g, b, a: color components
//
// Returns:
//   - LightBuilderOption: a function that applies the ambient option to a lightImpl
func WithAmbient(r, g, b, a float32) LightBuilderOption {
	return func(l *lightImpl) {
		l.ambient = mgl32.Vec4{r, g, b, a}
	}
}

// WithDiffuse is an option builder that sets the diffuse RGBA term.
//
// Parameters:
//   - r, g, b, a: color components
//
// Returns:
//   - LightBuilderOption: a function that applies the diffuse option to a lightImpl
func WithDiffuse(r, g, b, a float32) LightBuilderOption {
	return func(l *lightImpl) {
		l.diffuse = mgl32.Vec4{r, g, b, a}
	}
}

// WithSpecular is an option builder that sets the specular RGBA term.
//
// Parameters:
//   - r, g, b, a: color components
//
// Returns:
//   - LightBuilderOption: a function that applies the specular option to a lightImpl
func WithSpecular(r, g, b, a float32) LightBuilderOption {
	return func(l *lightImpl) {
		l.specular = mgl32.Vec4{r, g, b, a}
	}
}

// WithPosition is an option builder that makes the light a point light at (x, y, z).
//
// Parameters:
//   - x, y, z: position components
//
// Returns:
//   - LightBuilderOption: a function that applies the position option to a lightImpl
func WithPosition(x, y, z float32) LightBuilderOption {
	return func(l *lightImpl) {
		l.position = mgl32.Vec4{x, y, z, 1}
	}
}

// WithDirection is an option builder that makes the light directional, shining
// from the direction (x, y, z) toward the origin.
//
// Parameters:
//   - x, y, z: direction components
//
// Returns:
//   - LightBuilderOption: a function that applies the direction option to a lightImpl
func WithDirection(x, y, z float32) LightBuilderOption {
	return func(l *lightImpl) {
		d := mgl32.Vec3{x, y, z}
		if d.Len() > 0 {
			d = d.Normalize()
		}
		l.position = d.Vec4(0)
	}
}

// WithEnabled is an option builder that enables or disables the light.
//
// Parameters:
//   - enabled: true to enable
//
// Returns:
//   - LightBuilderOption: a function that applies the enabled option to a lightImpl
func WithEnabled(enabled bool) LightBuilderOption {
	return func(l *lightImpl) {
		l.enabled = enabled
	}
}
