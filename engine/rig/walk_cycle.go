package rig

import (
	"github.com/Carmen-Shannon/oxy-anim/engine/animator"
	"github.com/Carmen-Shannon/oxy-anim/engine/game_object"
	"github.com/go-gl/mathgl/mgl32"
)

// Swing amplitudes of the walk cycle, in radians about the X axis.
const (
	LegSwing  float32 = 0.5
	ArmSwing  float32 = 0.4
	KneeBend  float32 = 0.6
	ElbowBend float32 = 0.3
)

// WalkCycleName is the timeline name used by WalkCycle.
const WalkCycleName = "walk"

// walkPose is the X rotation of one bone at the start and at the middle of the cycle.
type walkPose struct {
	bone        string
	start, half float32
}

var walkPoses = []walkPose{
	{BoneUpperLegL, LegSwing, -LegSwing},
	{BoneUpperLegR, -LegSwing, LegSwing},
	{BoneLowerLegL, 0, KneeBend},
	{BoneLowerLegR, KneeBend, 0},
	{BoneUpperArmL, -ArmSwing, ArmSwing},
	{BoneUpperArmR, ArmSwing, -ArmSwing},
	{BoneLowerArmL, -ElbowBend, 0},
	{BoneLowerArmR, 0, -ElbowBend},
}

// WalkCycle builds a looping walk for h: every limb gets rotation-only keyframes at
// tick 0, period/2 and period, with the last key equal to the first so the cycle wraps
// without a jump. Opposite limbs swing in opposite directions.
//
// Parameters:
//   - h: the rig to animate (nil yields an empty timeline)
//   - period: the cycle length in ticks; values below 2 are raised to 2
//
// Returns:
//   - animator.Timeline: the walk timeline
func WalkCycle(h *Humanoid, period animator.Tick) animator.Timeline {
	tl := animator.NewTimeline(animator.WithTimelineName(WalkCycleName))
	if h == nil {
		return tl
	}
	if period < 2 {
		period = 2
	}

	for _, p := range walkPoses {
		bone := h.Bone(p.bone)
		if bone == nil {
			continue
		}
		tl.AddKeyFrame(bone, swingKey(bone, 0, p.start))
		tl.AddKeyFrame(bone, swingKey(bone, period/2, p.half))
		tl.AddKeyFrame(bone, swingKey(bone, period, p.start))
	}
	return tl
}

// NewWalkAnimator wraps WalkCycle in a looping, playing animator.
//
// Parameters:
//   - h: the rig to animate
//   - period: the cycle length in ticks
//   - options: extra animator options applied after the defaults
//
// Returns:
//   - animator.Animator: the animator
func NewWalkAnimator(h *Humanoid, period animator.Tick, options ...animator.AnimatorBuilderOption) animator.Animator {
	opts := append([]animator.AnimatorBuilderOption{
		animator.WithName(WalkCycleName),
		animator.WithTimeline(WalkCycle(h, period)),
		animator.WithLoop(true),
		animator.WithAutoPlay(),
	}, options...)
	return animator.NewAnimator(opts...)
}

// swingKey is the bone's rest transform rotated by angle about X.
func swingKey(bone game_object.GameObject, tick animator.Tick, angle float32) animator.KeyFrame {
	t := *bone.Transform()
	t.SetRotation(t.Rotation().Add(mgl32.Vec3{angle, 0, 0}))
	return animator.KeyFrame{
		Tick:      tick,
		Transform: t,
		Channels:  animator.ChannelRotation,
	}
}
