package animator

// TimelineBuilderOption is a functional option for configuring a Timeline during construction.
type TimelineBuilderOption func(*timeline)

// WithTimelineName sets the Timeline's name.
//
// Parameters:
//   - name: the name
//
// Returns:
//   - TimelineBuilderOption: a function that applies the name option to a timeline
func WithTimelineName(name string) TimelineBuilderOption {
	return func(tl *timeline) {
		tl.name = name
	}
}

// WithKeyFrames pre-populates the target's track with keyframes.
//
// Parameters:
//   - target: the node to animate
//   - frames: the keyframes, in any order
//
// Returns:
//   - TimelineBuilderOption: a function that applies the keyframes to a timeline
func WithKeyFrames(target Target, frames ...KeyFrame) TimelineBuilderOption {
	return func(tl *timeline) {
		if target == nil {
			return
		}
		for _, kf := range frames {
			tl.insert(target, kf)
		}
	}
}
