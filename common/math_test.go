package common

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
)

func TestEulerQuatRoundTrip(t *testing.T) {
	cases := []mgl32.Vec3{
		{0, 0, 0},
		{0.3, -0.2, 0.1},
		{-1.2, 0.7, 2.5},
		{0, mgl32.DegToRad(45), 0},
	}
	for _, euler := range cases {
		got := QuatToEuler(EulerToQuat(euler))
		// Compare rotations rather than angles so equivalent decompositions pass.
		want := EulerToQuat(euler).Mat4()
		assert.True(t, want.ApproxEqualThreshold(EulerToQuat(got).Mat4(), 1e-4), "%v -> %v", euler, got)
	}
}

func TestEulerToQuatOrder(t *testing.T) {
	euler := mgl32.Vec3{0.4, 0.5, 0.6}
	want := mgl32.HomogRotate3DX(0.4).Mul4(mgl32.HomogRotate3DY(0.5)).Mul4(mgl32.HomogRotate3DZ(0.6))
	assert.True(t, want.ApproxEqualThreshold(EulerToQuat(euler).Mat4(), 1e-5))
}

func TestMix(t *testing.T) {
	a := mgl32.Vec3{1, 2, 3}
	b := mgl32.Vec3{3, 6, 9}
	assert.Equal(t, a, Mix(a, b, 0))
	assert.True(t, mgl32.Vec3{2, 4, 6}.ApproxEqualThreshold(Mix(a, b, 0.5), 1e-6))
}

func TestWrap(t *testing.T) {
	assert.InDelta(t, 2, Wrap(12, 10), 1e-6)
	assert.InDelta(t, 8, Wrap(-2, 10), 1e-6)
	assert.InDelta(t, 0, Wrap(10, 10), 1e-6)
	assert.Equal(t, float32(0), Wrap(5, 0))
}

func TestLookAtFallsBackWhenUpIsParallel(t *testing.T) {
	m := LookAt(mgl32.Vec3{0, 5, 0}, mgl32.Vec3{0, 0, 0}, mgl32.Vec3{0, 1, 0})
	for _, v := range m {
		assert.False(t, v != v, "NaN in view matrix")
	}
}

func TestPositiveOr(t *testing.T) {
	assert.Equal(t, float32(30), PositiveOr(float32(0), 30))
	assert.Equal(t, float32(30), PositiveOr(float32(-12), 30))
	assert.Equal(t, float32(24), PositiveOr(float32(24), 30))
	assert.Equal(t, 16, PositiveOr(0, 16))
}
