package animator

import (
	"strings"

	"github.com/Carmen-Shannon/oxy-anim/engine/transform"
)

// Tick is the discrete time unit keyframes are placed on.
type Tick uint32

// Channel is a bitmask naming which transform components a keyframe drives.
type Channel uint8

const (
	// ChannelEmpty drives nothing on its own. A keyframe pair whose combined mask is
	// empty is treated as a full snapshot and drives every channel.
	ChannelEmpty Channel = 0x0

	// ChannelTranslation drives the position.
	ChannelTranslation Channel = 0x1

	// ChannelRotation drives the Euler rotation.
	ChannelRotation Channel = 0x2

	// ChannelScale drives the scale.
	ChannelScale Channel = 0x4

	// ChannelAll drives position, rotation and scale.
	ChannelAll = ChannelTranslation | ChannelRotation | ChannelScale
)

// Has reports whether every bit of other is set in c.
func (c Channel) Has(other Channel) bool {
	return c&other == other
}

// String renders the mask as a "|" separated list, e.g. "translation|scale".
func (c Channel) String() string {
	if c == ChannelEmpty {
		return "empty"
	}
	var parts []string
	if c.Has(ChannelTranslation) {
		parts = append(parts, "translation")
	}
	if c.Has(ChannelRotation) {
		parts = append(parts, "rotation")
	}
	if c.Has(ChannelScale) {
		parts = append(parts, "scale")
	}
	return strings.Join(parts, "|")
}

// ParseChannels parses channel names ("translation", "rotation", "scale", "all",
// "empty") into a mask. Unknown names are ignored.
//
// Parameters:
//   - names: the channel names
//
// Returns:
//   - Channel: the combined mask
func ParseChannels(names ...string) Channel {
	var c Channel
	for _, name := range names {
		switch strings.ToLower(strings.TrimSpace(name)) {
		case "translation", "position", "t":
			c |= ChannelTranslation
		case "rotation", "r":
			c |= ChannelRotation
		case "scale", "s":
			c |= ChannelScale
		case "all":
			c |= ChannelAll
		}
	}
	return c
}

// KeyFrame pins a node's transform at a tick. Channels selects which components
// the keyframe drives during playback.
type KeyFrame struct {
	Tick      Tick
	Transform transform.Transform
	Channels  Channel
}

// Before orders keyframes by tick.
func (k KeyFrame) Before(other KeyFrame) bool {
	return k.Tick < other.Tick
}

// Interpolate returns the transform between keyframes a and b at time t (in ticks).
//
// If both keyframes share a tick, a's transform is returned. Otherwise the fraction
// (t - a.Tick) / (b.Tick - a.Tick) is computed; a fraction below 0 or at/above 1
// returns b's transform unchanged, and anything in between blends position, rotation
// and scale linearly and independently.
//
// Parameters:
//   - a: the earlier keyframe
//   - b: the later keyframe
//   - t: the query time in ticks
//
// Returns:
//   - transform.Transform: the interpolated transform
func Interpolate(a, b KeyFrame, t float64) transform.Transform {
	if a.Tick == b.Tick {
		return a.Transform
	}
	frac := (t - float64(a.Tick)) / (float64(b.Tick) - float64(a.Tick))
	if frac < 0 || frac >= 1 {
		return b.Transform
	}
	return transform.Lerp(a.Transform, b.Transform, float32(frac))
}

// applyChannels writes the channels of src selected by mask into dst.
// An empty mask writes everything.
func applyChannels(dst *transform.Transform, src transform.Transform, mask Channel) {
	if mask == ChannelEmpty {
		mask = ChannelAll
	}
	if mask == ChannelAll {
		dst.Set(src.Position(), src.Rotation(), src.ScaleFactors())
		return
	}

	pos, rot, scl := dst.Position(), dst.Rotation(), dst.ScaleFactors()
	if mask.Has(ChannelTranslation) {
		pos = src.Position()
	}
	if mask.Has(ChannelRotation) {
		rot = src.Rotation()
	}
	if mask.Has(ChannelScale) {
		scl = src.ScaleFactors()
	}
	dst.Set(pos, rot, scl)
}
