package rig

import (
	"github.com/Carmen-Shannon/oxy-anim/engine/game_object"
	"github.com/go-gl/mathgl/mgl32"
)

// HumanoidBuilderOption is a functional option for configuring a Humanoid during construction.
type HumanoidBuilderOption func(*Humanoid)

// WithRootPosition moves the pelvis.
//
// Parameters:
//   - x: the x position
//   - y: the y position
//   - z: the z position
//
// Returns:
//   - HumanoidBuilderOption: functional option to place the rig
func WithRootPosition(x, y, z float32) HumanoidBuilderOption {
	return func(h *Humanoid) {
		h.root.Transform().SetPosition(mgl32.Vec3{x, y, z})
	}
}

// WithUniformScale scales the whole rig about the pelvis. Values <= 0 are ignored.
//
// Parameters:
//   - s: the scale factor
//
// Returns:
//   - HumanoidBuilderOption: functional option to scale the rig
func WithUniformScale(s float32) HumanoidBuilderOption {
	return func(h *Humanoid) {
		if s <= 0 {
			return
		}
		h.root.Transform().SetScale(mgl32.Vec3{s, s, s})
	}
}

// WithBoneColor overrides the color of one bone. Unknown bones are ignored.
//
// Parameters:
//   - name: the bone name
//   - r, g, b, a: the color components
//
// Returns:
//   - HumanoidBuilderOption: functional option to color a bone
func WithBoneColor(name string, r, g, b, a float32) HumanoidBuilderOption {
	return func(h *Humanoid) {
		if bone := h.bones[name]; bone != nil {
			bone.SetColor(mgl32.Vec4{r, g, b, a})
		}
	}
}

// WithDrawable attaches the same drawable to every bone.
//
// Parameters:
//   - d: the drawable
//
// Returns:
//   - HumanoidBuilderOption: functional option to make the rig drawable
func WithDrawable(d game_object.Drawable) HumanoidBuilderOption {
	return func(h *Humanoid) {
		for _, bone := range h.bones {
			bone.SetDrawable(d)
		}
	}
}
