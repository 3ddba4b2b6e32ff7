package rig

import (
	"github.com/Carmen-Shannon/oxy-anim/engine/game_object"
)

// Bone names of the humanoid rig.
const (
	BonePelvis    = "pelvis"
	BoneTorso     = "torso"
	BoneHead      = "head"
	BoneUpperArmL = "upper_arm.l"
	BoneLowerArmL = "lower_arm.l"
	BoneUpperArmR = "upper_arm.r"
	BoneLowerArmR = "lower_arm.r"
	BoneUpperLegL = "upper_leg.l"
	BoneLowerLegL = "lower_leg.l"
	BoneUpperLegR = "upper_leg.r"
	BoneLowerLegR = "lower_leg.r"
)

// boneSpec places one bone relative to its parent.
type boneSpec struct {
	name     string
	parent   string
	position [3]float32
	scale    [3]float32
	color    [4]float32
}

// humanoidLayout lists every bone parent-first. Units are meters with +Y up,
// the rig facing +Z, standing on the origin.
var humanoidLayout = []boneSpec{
	{BonePelvis, "", [3]float32{0, 0.95, 0}, [3]float32{0.3, 0.15, 0.2}, [4]float32{0.8, 0.8, 0.8, 1}},
	{BoneTorso, BonePelvis, [3]float32{0, 0.1, 0}, [3]float32{0.35, 0.5, 0.2}, [4]float32{0.2, 0.4, 0.8, 1}},
	{BoneHead, BoneTorso, [3]float32{0, 0.6, 0}, [3]float32{0.2, 0.25, 0.2}, [4]float32{0.9, 0.75, 0.6, 1}},
	{BoneUpperArmL, BoneTorso, [3]float32{-0.23, 0.48, 0}, [3]float32{0.1, 0.3, 0.1}, [4]float32{0.2, 0.4, 0.8, 1}},
	{BoneLowerArmL, BoneUpperArmL, [3]float32{0, -0.3, 0}, [3]float32{0.08, 0.28, 0.08}, [4]float32{0.9, 0.75, 0.6, 1}},
	{BoneUpperArmR, BoneTorso, [3]float32{0.23, 0.48, 0}, [3]float32{0.1, 0.3, 0.1}, [4]float32{0.2, 0.4, 0.8, 1}},
	{BoneLowerArmR, BoneUpperArmR, [3]float32{0, -0.3, 0}, [3]float32{0.08, 0.28, 0.08}, [4]float32{0.9, 0.75, 0.6, 1}},
	{BoneUpperLegL, BonePelvis, [3]float32{-0.1, -0.05, 0}, [3]float32{0.12, 0.42, 0.12}, [4]float32{0.25, 0.25, 0.3, 1}},
	{BoneLowerLegL, BoneUpperLegL, [3]float32{0, -0.42, 0}, [3]float32{0.1, 0.43, 0.1}, [4]float32{0.25, 0.25, 0.3, 1}},
	{BoneUpperLegR, BonePelvis, [3]float32{0.1, -0.05, 0}, [3]float32{0.12, 0.42, 0.12}, [4]float32{0.25, 0.25, 0.3, 1}},
	{BoneLowerLegR, BoneUpperLegR, [3]float32{0, -0.42, 0}, [3]float32{0.1, 0.43, 0.1}, [4]float32{0.25, 0.25, 0.3, 1}},
}

// Humanoid is a named-bone body hierarchy rooted at the pelvis.
type Humanoid struct {
	root  game_object.GameObject
	bones map[string]game_object.GameObject
	names []string
}

// NewHumanoid builds pelvis -> torso -> {head, arms}, pelvis -> legs.
// Each arm and leg is an upper bone with a lower bone attached below it.
//
// Bone transforms carry only placement. The per-bone display size is available
// through Extent and is not baked into the hierarchy, so scaling a limb for
// display does not scale its children.
//
// Parameters:
//   - options: functional options applied after the default layout is built
//
// Returns:
//   - *Humanoid: the new rig
func NewHumanoid(options ...HumanoidBuilderOption) *Humanoid {
	h := &Humanoid{
		bones: make(map[string]game_object.GameObject, len(humanoidLayout)),
	}

	for _, b := range humanoidLayout {
		bone := game_object.NewGameObject(
			game_object.WithName(b.name),
			game_object.WithPosition(b.position[0], b.position[1], b.position[2]),
			game_object.WithColor(b.color[0], b.color[1], b.color[2], b.color[3]),
		)
		h.bones[b.name] = bone
		h.names = append(h.names, b.name)

		if b.parent == "" {
			h.root = bone
			continue
		}
		h.bones[b.parent].Attach(bone)
	}

	for _, option := range options {
		option(h)
	}
	return h
}

// Root returns the pelvis.
func (h *Humanoid) Root() game_object.GameObject {
	return h.root
}

// Bone returns the named bone, or nil.
func (h *Humanoid) Bone(name string) game_object.GameObject {
	return h.bones[name]
}

// BoneNames returns every bone name, parents before children.
func (h *Humanoid) BoneNames() []string {
	out := make([]string, len(h.names))
	copy(out, h.names)
	return out
}

// Extent returns the display size of a bone's box, or zero for an unknown bone.
func Extent(name string) [3]float32 {
	for _, b := range humanoidLayout {
		if b.name == name {
			return b.scale
		}
	}
	return [3]float32{}
}
