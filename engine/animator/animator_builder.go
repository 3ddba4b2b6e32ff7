package animator

// AnimatorBuilderOption is a functional option for configuring an Animator during construction.
type AnimatorBuilderOption func(*animator)

// WithName sets the Animator's name.
//
// Parameters:
//   - name: the name
//
// Returns:
//   - AnimatorBuilderOption: a function that applies the name option to an animator
func WithName(name string) AnimatorBuilderOption {
	return func(a *animator) {
		a.name = name
	}
}

// WithTimeline assigns the Timeline the Animator drives.
//
// Parameters:
//   - tl: the timeline to drive
//
// Returns:
//   - AnimatorBuilderOption: a function that applies the timeline option to an animator
func WithTimeline(tl Timeline) AnimatorBuilderOption {
	return func(a *animator) {
		a.timeline = tl
	}
}

// WithTicksPerSecond sets the playback tick rate. Non-positive values keep the default.
//
// Parameters:
//   - tps: ticks per second
//
// Returns:
//   - AnimatorBuilderOption: a function that applies the tick rate option to an animator
func WithTicksPerSecond(tps float32) AnimatorBuilderOption {
	return func(a *animator) {
		if tps > 0 {
			a.ticksPerSecond = tps
		}
	}
}

// WithSpeed sets the initial playback speed multiplier.
//
// Parameters:
//   - speed: the speed multiplier
//
// Returns:
//   - AnimatorBuilderOption: a function that applies the speed option to an animator
func WithSpeed(speed float32) AnimatorBuilderOption {
	return func(a *animator) {
		a.speed = speed
	}
}

// WithLoop sets whether playback wraps at the end of the timeline.
//
// Parameters:
//   - loop: true to loop
//
// Returns:
//   - AnimatorBuilderOption: a function that applies the loop option to an animator
func WithLoop(loop bool) AnimatorBuilderOption {
	return func(a *animator) {
		a.loop = loop
	}
}

// WithAutoPlay starts the playback clock immediately, keeping the configured speed and loop flag.
//
// Returns:
//   - AnimatorBuilderOption: a function that starts playback on an animator
func WithAutoPlay() AnimatorBuilderOption {
	return func(a *animator) {
		a.playing = true
	}
}
