package camera

import (
	"sync"

	"github.com/Carmen-Shannon/oxy-anim/common"
	"github.com/go-gl/mathgl/mgl32"
)

// CameraController maps key and scroll input onto a Camera: the arrow keys pitch
// and yaw the camera by one turn step and the scroll wheel dollies it along its
// viewing direction by one dolly step per notch.
type CameraController interface {
	// Camera returns the controlled camera.
	//
	// Returns:
	//   - Camera: the camera
	Camera() Camera

	// TurnStep returns the rotation applied per arrow key press, in radians.
	//
	// Returns:
	//   - float32: radians per press
	TurnStep() float32

	// DollyStep returns the distance moved per scroll notch.
	//
	// Returns:
	//   - float32: distance per notch
	DollyStep() float32

	// HandleKeyDown applies the camera binding for keyCode, if any.
	//
	// Parameters:
	//   - keyCode: the GLFW key code
	//
	// Returns:
	//   - bool: true if the key was handled
	HandleKeyDown(keyCode uint32) bool

	// HandleScroll dollies the camera. Positive deltas (wheel up) move toward the scene.
	//
	// Parameters:
	//   - delta: the scroll delta
	HandleScroll(delta float32)
}

type cameraControllerImpl struct {
	mu *sync.Mutex

	cam       Camera
	turnStep  float32
	dollyStep float32
}

var _ CameraController = &cameraControllerImpl{}

// NewCameraController creates a controller for cam with 0.1 radian turns and 0.1 unit dolly steps.
//
// Parameters:
//   - cam: the camera to control
//   - options: functional options to configure the controller
//
// Returns:
//   - CameraController: the newly created controller
func NewCameraController(cam Camera, options ...CameraControllerOption) CameraController {
	cc := &cameraControllerImpl{
		mu:        &sync.Mutex{},
		cam:       cam,
		turnStep:  0.1,
		dollyStep: 0.1,
	}
	for _, option := range options {
		option(cc)
	}
	return cc
}

func (cc *cameraControllerImpl) Camera() Camera {
	return cc.cam
}

func (cc *cameraControllerImpl) TurnStep() float32 {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.turnStep
}

func (cc *cameraControllerImpl) DollyStep() float32 {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.dollyStep
}

func (cc *cameraControllerImpl) HandleKeyDown(keyCode uint32) bool {
	if cc.cam == nil {
		return false
	}
	step := cc.TurnStep()
	switch keyCode {
	case common.KeyUp:
		cc.cam.Rotate(mgl32.Vec3{step, 0, 0})
	case common.KeyDown:
		cc.cam.Rotate(mgl32.Vec3{-step, 0, 0})
	case common.KeyLeft:
		cc.cam.Rotate(mgl32.Vec3{0, -step, 0})
	case common.KeyRight:
		cc.cam.Rotate(mgl32.Vec3{0, step, 0})
	default:
		return false
	}
	return true
}

func (cc *cameraControllerImpl) HandleScroll(delta float32) {
	if cc.cam == nil || delta == 0 {
		return
	}
	step := cc.DollyStep()
	if delta > 0 {
		cc.cam.Dolly(step)
	} else {
		cc.cam.Dolly(-step)
	}
}
