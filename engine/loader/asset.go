package loader

import (
	"github.com/Carmen-Shannon/oxy-anim/engine/animator"
	"github.com/Carmen-Shannon/oxy-anim/engine/game_object"
)

// Asset is a loaded rig: a forest of scene nodes and the timeline that animates them.
type Asset struct {
	// Name identifies the rig. Loaders default it to the file's base name.
	Name string

	// Roots are the top-level nodes in document order.
	Roots []game_object.GameObject

	// Timeline holds the keyframes. It is never nil for assets produced by a Loader.
	Timeline animator.Timeline

	// TicksPerSecond is the playback rate the keyframes were authored against.
	TicksPerSecond float32

	// Loop reports whether the animation is meant to repeat.
	Loop bool
}

// Find searches every root depth-first for a node with the given name.
//
// Parameters:
//   - name: the node name
//
// Returns:
//   - game_object.GameObject: the first match, or nil
func (a *Asset) Find(name string) game_object.GameObject {
	for _, root := range a.Roots {
		if found := root.Find(name); found != nil {
			return found
		}
	}
	return nil
}

// Nodes returns every node of the asset in depth-first order.
//
// Returns:
//   - []game_object.GameObject: the flattened node list
func (a *Asset) Nodes() []game_object.GameObject {
	var out []game_object.GameObject
	var visit func(n game_object.GameObject)
	visit = func(n game_object.GameObject) {
		out = append(out, n)
		for _, c := range n.Children() {
			visit(c)
		}
	}
	for _, root := range a.Roots {
		visit(root)
	}
	return out
}

// NewAnimator creates an Animator playing the asset's timeline at its authored rate.
// Extra options are applied after the asset defaults.
//
// Parameters:
//   - options: additional animator options
//
// Returns:
//   - animator.Animator: the new animator
func (a *Asset) NewAnimator(options ...animator.AnimatorBuilderOption) animator.Animator {
	opts := []animator.AnimatorBuilderOption{
		animator.WithName(a.Name),
		animator.WithTimeline(a.Timeline),
		animator.WithTicksPerSecond(a.TicksPerSecond),
		animator.WithLoop(a.Loop),
	}
	return animator.NewAnimator(append(opts, options...)...)
}
