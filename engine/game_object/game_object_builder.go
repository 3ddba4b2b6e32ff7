package game_object

import (
	"github.com/Carmen-Shannon/oxy-anim/engine/transform"
	"github.com/go-gl/mathgl/mgl32"
)

// GameObjectBuilderOption is a functional option for configuring a GameObject during construction.
type GameObjectBuilderOption func(*gameObject)

// WithName sets the name of the GameObject.
//
// Parameters:
//   - name: the name
//
// Returns:
//   - GameObjectBuilderOption: functional option to set the name
func WithName(name string) GameObjectBuilderOption {
	return func(obj *gameObject) {
		obj.name = name
	}
}

// WithEnabled sets whether the GameObject and its subtree are walked.
//
// Parameters:
//   - enabled: true to walk the object, false to skip it
//
// Returns:
//   - GameObjectBuilderOption: functional option to set the Enabled state
func WithEnabled(enabled bool) GameObjectBuilderOption {
	return func(obj *gameObject) {
		obj.enabled.Store(enabled)
	}
}

// WithPosition sets the initial position of the GameObject.
//
// Parameters:
//   - x: the x position
//   - y: the y position
//   - z: the z position
//
// Returns:
//   - GameObjectBuilderOption: functional option to set the initial position
func WithPosition(x, y, z float32) GameObjectBuilderOption {
	return func(obj *gameObject) {
		obj.transform.SetPosition(mgl32.Vec3{x, y, z})
	}
}

// WithRotation sets the initial Euler rotation of the GameObject in radians.
//
// Parameters:
//   - rx: pitch around X
//   - ry: yaw around Y
//   - rz: roll around Z
//
// Returns:
//   - GameObjectBuilderOption: functional option to set the initial rotation
func WithRotation(rx, ry, rz float32) GameObjectBuilderOption {
	return func(obj *gameObject) {
		obj.transform.SetRotation(mgl32.Vec3{rx, ry, rz})
	}
}

// WithScale sets the initial scale of the GameObject.
//
// Parameters:
//   - sx: the x scale factor
//   - sy: the y scale factor
//   - sz: the z scale factor
//
// Returns:
//   - GameObjectBuilderOption: functional option to set the initial scale
func WithScale(sx, sy, sz float32) GameObjectBuilderOption {
	return func(obj *gameObject) {
		obj.transform.SetScale(mgl32.Vec3{sx, sy, sz})
	}
}

// WithTransform replaces the GameObject's whole local transform.
//
// Parameters:
//   - t: the transform to copy in
//
// Returns:
//   - GameObjectBuilderOption: functional option to set the transform
func WithTransform(t transform.Transform) GameObjectBuilderOption {
	return func(obj *gameObject) {
		obj.transform = t
	}
}

// WithOrder sets how the local transform composes its components.
//
// Parameters:
//   - o: the composition order
//
// Returns:
//   - GameObjectBuilderOption: functional option to set the order
func WithOrder(o transform.Order) GameObjectBuilderOption {
	return func(obj *gameObject) {
		obj.transform.SetOrder(o)
	}
}

// WithColor sets the RGBA tint of the GameObject.
//
// Parameters:
//   - r, g, b, a: color components in [0, 1]
//
// Returns:
//   - GameObjectBuilderOption: functional option to set the color
func WithColor(r, g, b, a float32) GameObjectBuilderOption {
	return func(obj *gameObject) {
		obj.color = mgl32.Vec4{r, g, b, a}
	}
}

// WithDrawable attaches a Drawable to the GameObject.
//
// Parameters:
//   - d: the drawable
//
// Returns:
//   - GameObjectBuilderOption: functional option to set the drawable
func WithDrawable(d Drawable) GameObjectBuilderOption {
	return func(obj *gameObject) {
		obj.drawable = d
	}
}

// WithChildren attaches children in order. Nil children are skipped.
//
// Parameters:
//   - children: the nodes to attach
//
// Returns:
//   - GameObjectBuilderOption: functional option to attach children
func WithChildren(children ...GameObject) GameObjectBuilderOption {
	return func(obj *gameObject) {
		for _, c := range children {
			if c != nil {
				obj.children = append(obj.children, c)
			}
		}
	}
}
