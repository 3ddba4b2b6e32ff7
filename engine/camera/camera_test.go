package camera

import (
	"testing"

	"github.com/Carmen-Shannon/oxy-anim/common"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
)

const tol = float32(1e-4)

func TestNewCameraDefaults(t *testing.T) {
	c := NewCamera()
	assert.InDelta(t, mgl32.DegToRad(60), c.Fov(), 1e-6)
	assert.InDelta(t, 640.0/480.0, c.Aspect(), 1e-6)
	assert.Equal(t, float32(0.3), c.Near())
	assert.Equal(t, float32(1000), c.Far())
}

func TestViewLooksTowardNegativeForward(t *testing.T) {
	c := NewCamera(WithPosition(0, 0, 10))

	// The origin sits straight ahead of a camera at +10 Z with no rotation.
	origin := c.ViewMatrix().Mul4x1(mgl32.Vec4{0, 0, 0, 1})
	assert.InDelta(t, 0, origin[0], 1e-5)
	assert.InDelta(t, 0, origin[1], 1e-5)
	assert.InDelta(t, -10, origin[2], 1e-5)
}

func TestViewProjectionIsProjectionTimesView(t *testing.T) {
	c := NewCamera(WithPosition(1, 2, 10), WithRotation(0.2, 0.1, 0))
	want := c.ProjectionMatrix().Mul4(c.ViewMatrix())
	assert.True(t, want.ApproxEqualThreshold(c.ViewProjectionMatrix(), tol))
}

func TestDollyMovesTowardTarget(t *testing.T) {
	c := NewCamera(WithPosition(0, 0, 10))
	c.Dolly(1)
	assert.True(t, mgl32.Vec3{0, 0, 9}.ApproxEqualThreshold(c.Position(), tol), "%v", c.Position())
	c.Dolly(-2)
	assert.True(t, mgl32.Vec3{0, 0, 11}.ApproxEqualThreshold(c.Position(), tol), "%v", c.Position())
}

func TestSetAspectIgnoresNonPositive(t *testing.T) {
	c := NewCamera(WithAspect(2))
	c.SetAspect(0)
	assert.Equal(t, float32(2), c.Aspect())
	c.SetAspect(1.5)
	assert.Equal(t, float32(1.5), c.Aspect())
}

func TestDegenerateUpHasNoNaN(t *testing.T) {
	c := NewCamera(WithRotation(0, mgl32.DegToRad(90), 0))
	for _, v := range c.ViewMatrix() {
		assert.False(t, v != v)
	}
}

func TestCameraController(t *testing.T) {
	c := NewCamera(WithPosition(0, 0, 10))
	cc := NewCameraController(c, WithTurnStep(0.5), WithDollyStep(2))

	assert.True(t, cc.HandleKeyDown(common.KeyUp))
	assert.InDelta(t, 0.5, c.Rotation()[0], 1e-6)
	assert.True(t, cc.HandleKeyDown(common.KeyDown))
	assert.True(t, cc.HandleKeyDown(common.KeyRight))
	assert.InDelta(t, 0.5, c.Rotation()[1], 1e-6)
	assert.True(t, cc.HandleKeyDown(common.KeyLeft))
	assert.InDelta(t, 0, c.Rotation()[1], 1e-6)
	assert.False(t, cc.HandleKeyDown(common.KeyW))

	cc.HandleScroll(1)
	assert.True(t, mgl32.Vec3{0, 0, 8}.ApproxEqualThreshold(c.Position(), tol), "%v", c.Position())
	cc.HandleScroll(-3)
	assert.True(t, mgl32.Vec3{0, 0, 10}.ApproxEqualThreshold(c.Position(), tol), "%v", c.Position())
}
