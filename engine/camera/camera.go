package camera

import (
	"sync"

	"github.com/Carmen-Shannon/oxy-anim/common"
	"github.com/Carmen-Shannon/oxy-anim/engine/transform"
	"github.com/go-gl/mathgl/mgl32"
)

type cameraImpl struct {
	mu *sync.Mutex

	transform transform.Transform

	fov    float32
	aspect float32
	near   float32
	far    float32

	viewMatrix           mgl32.Mat4
	projectionMatrix     mgl32.Mat4
	viewProjectionMatrix mgl32.Mat4
}

// Camera is a perspective camera placed by its own Transform.
//
// The camera looks down its negative forward axis: the view is built from
// eye = position, target = position - forward and up = forward x +X, where forward
// is the transform's Orientation. If that up vector degenerates, +Y is used.
type Camera interface {
	// Fov returns the vertical field of view in radians.
	//
	// Returns:
	//   - float32: field of view in radians
	Fov() float32

	// Aspect returns the aspect ratio (width / height).
	//
	// Returns:
	//   - float32: the aspect ratio
	Aspect() float32

	// Near returns the near clipping plane distance.
	//
	// Returns:
	//   - float32: near plane distance
	Near() float32

	// Far returns the far clipping plane distance.
	//
	// Returns:
	//   - float32: far plane distance
	Far() float32

	// Position returns the camera's world-space position.
	//
	// Returns:
	//   - mgl32.Vec3: the position
	Position() mgl32.Vec3

	// Rotation returns the camera's Euler rotation in radians.
	//
	// Returns:
	//   - mgl32.Vec3: the rotation (pitch, yaw, roll)
	Rotation() mgl32.Vec3

	// Orientation returns the camera's forward vector.
	//
	// Returns:
	//   - mgl32.Vec3: the forward vector
	Orientation() mgl32.Vec3

	// Transform returns a snapshot of the camera's transform.
	//
	// Returns:
	//   - transform.Transform: the transform copy
	Transform() transform.Transform

	// ViewMatrix returns the current view matrix.
	//
	// Returns:
	//   - mgl32.Mat4: the view matrix
	ViewMatrix() mgl32.Mat4

	// ProjectionMatrix returns the current projection matrix.
	//
	// Returns:
	//   - mgl32.Mat4: the projection matrix
	ProjectionMatrix() mgl32.Mat4

	// ViewProjectionMatrix returns projection * view.
	//
	// Returns:
	//   - mgl32.Mat4: the combined view-projection matrix
	ViewProjectionMatrix() mgl32.Mat4

	// Translate moves the camera by delta (additive).
	//
	// Parameters:
	//   - delta: the offset
	Translate(delta mgl32.Vec3)

	// Rotate adds delta (radians) to the camera's Euler rotation.
	//
	// Parameters:
	//   - delta: the rotation offset (pitch, yaw, roll)
	Rotate(delta mgl32.Vec3)

	// Dolly moves the camera along its viewing direction. Positive amounts move
	// toward what the camera looks at.
	//
	// Parameters:
	//   - amount: distance to move
	Dolly(amount float32)

	// SetPosition places the camera.
	//
	// Parameters:
	//   - p: the new position
	SetPosition(p mgl32.Vec3)

	// SetRotation replaces the camera's Euler rotation.
	//
	// Parameters:
	//   - r: the new rotation in radians
	SetRotation(r mgl32.Vec3)

	// SetFov sets the field of view in radians and recomputes matrices.
	//
	// Parameters:
	//   - fov: field of view in radians
	SetFov(fov float32)

	// SetAspect sets the aspect ratio (width / height) and recomputes matrices.
	// Non-positive values are ignored.
	//
	// Parameters:
	//   - aspect: the aspect ratio
	SetAspect(aspect float32)

	// SetNear sets the near clipping plane distance and recomputes matrices.
	//
	// Parameters:
	//   - near: near plane distance
	SetNear(near float32)

	// SetFar sets the far clipping plane distance and recomputes matrices.
	//
	// Parameters:
	//   - far: far plane distance
	SetFar(far float32)

	// Update recomputes the matrices from the current transform and lens settings.
	Update()
}

var _ Camera = &cameraImpl{}

// NewCamera creates a new Camera with default perspective settings: a 60 degree
// field of view, 4:3 aspect, near 0.3 and far 1000, placed at the origin.
//
// Parameters:
//   - options: functional options to configure the camera
//
// Returns:
//   - Camera: the newly created camera
func NewCamera(options ...CameraBuilderOption) Camera {
	c := &cameraImpl{
		mu:        &sync.Mutex{},
		transform: transform.Identity(),
		fov:       mgl32.DegToRad(60),
		aspect:    640.0 / 480.0,
		near:      0.3,
		far:       1000,
	}
	c.transform.SetOrder(transform.OrderTRS)
	for _, option := range options {
		option(c)
	}
	c.updateMatrices()
	return c
}

func (c *cameraImpl) Fov() float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.fov
}

func (c *cameraImpl) Aspect() float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.aspect
}

func (c *cameraImpl) Near() float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.near
}

func (c *cameraImpl) Far() float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.far
}

func (c *cameraImpl) Position() mgl32.Vec3 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.transform.Position()
}

func (c *cameraImpl) Rotation() mgl32.Vec3 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.transform.Rotation()
}

func (c *cameraImpl) Orientation() mgl32.Vec3 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.transform.Orientation()
}

func (c *cameraImpl) Transform() transform.Transform {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.transform
}

func (c *cameraImpl) ViewMatrix() mgl32.Mat4 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.viewMatrix
}

func (c *cameraImpl) ProjectionMatrix() mgl32.Mat4 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.projectionMatrix
}

func (c *cameraImpl) ViewProjectionMatrix() mgl32.Mat4 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.viewProjectionMatrix
}

func (c *cameraImpl) Translate(delta mgl32.Vec3) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.transform.Translate(delta)
	c.updateMatrices()
}

func (c *cameraImpl) Rotate(delta mgl32.Vec3) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.transform.Rotate(delta)
	c.updateMatrices()
}

func (c *cameraImpl) Dolly(amount float32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.transform.Translate(c.transform.Orientation().Mul(-amount))
	c.updateMatrices()
}

func (c *cameraImpl) SetPosition(p mgl32.Vec3) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.transform.SetPosition(p)
	c.updateMatrices()
}

func (c *cameraImpl) SetRotation(r mgl32.Vec3) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.transform.SetRotation(r)
	c.updateMatrices()
}

func (c *cameraImpl) SetFov(fov float32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.fov = fov
	c.updateMatrices()
}

func (c *cameraImpl) SetAspect(aspect float32) {
	if aspect <= 0 {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.aspect = aspect
	c.updateMatrices()
}

func (c *cameraImpl) SetNear(near float32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.near = near
	c.updateMatrices()
}

func (c *cameraImpl) SetFar(far float32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.far = far
	c.updateMatrices()
}

func (c *cameraImpl) Update() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.updateMatrices()
}

// updateMatrices recalculates the view, projection and view-projection matrices.
// Caller must hold the mutex.
func (c *cameraImpl) updateMatrices() {
	eye := c.transform.Position()
	forward := c.transform.Orientation()
	up := forward.Cross(common.AxisX)

	c.viewMatrix = common.LookAt(eye, eye.Sub(forward), up)
	c.projectionMatrix = mgl32.Perspective(c.fov, c.aspect, c.near, c.far)
	c.viewProjectionMatrix = c.projectionMatrix.Mul4(c.viewMatrix)
}
