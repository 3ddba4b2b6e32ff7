package camera

// CameraControllerOption is a functional option for configuring a CameraController.
type CameraControllerOption func(*cameraControllerImpl)

// WithTurnStep sets the rotation applied per arrow key press.
//
// Parameters:
//   - radians: rotation per press
//
// Returns:
//   - CameraControllerOption: functional option to set the turn step
func WithTurnStep(radians float32) CameraControllerOption {
	return func(cc *cameraControllerImpl) {
		cc.turnStep = radians
	}
}

// WithDollyStep sets the distance moved per scroll notch.
//
// Parameters:
//   - distance: distance per notch
//
// Returns:
//   - CameraControllerOption: functional option to set the dolly step
func WithDollyStep(distance float32) CameraControllerOption {
	return func(cc *cameraControllerImpl) {
		cc.dollyStep = distance
	}
}
