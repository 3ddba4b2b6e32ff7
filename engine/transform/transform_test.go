package transform

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const tol = float32(1e-5)

func assertMatEqual(t *testing.T, want, got mgl32.Mat4) {
	t.Helper()
	assert.True(t, want.ApproxEqualThreshold(got, tol), "want %v\ngot  %v", want, got)
}

func TestIdentity(t *testing.T) {
	id := Identity()
	assertMatEqual(t, mgl32.Ident4(), id.Matrix())
	assert.Equal(t, mgl32.Vec3{1, 1, 1}, id.ScaleFactors())
	assert.Equal(t, OrderTSR, id.Order())
}

func TestTranslateRotateScaleAreAdditive(t *testing.T) {
	tr := Identity()
	tr.Translate(mgl32.Vec3{1, 2, 3})
	tr.Translate(mgl32.Vec3{1, 0, 0})
	assert.Equal(t, mgl32.Vec3{2, 2, 3}, tr.Position())

	tr.Rotate(mgl32.Vec3{0, 0.5, 0})
	tr.Rotate(mgl32.Vec3{0, 0.25, 0})
	assert.InDelta(t, 0.75, tr.Rotation()[1], 1e-6)

	tr.Scale(mgl32.Vec3{1, 0, 0})
	assert.Equal(t, mgl32.Vec3{2, 1, 1}, tr.ScaleFactors())

	want := New(mgl32.Vec3{2, 2, 3}, mgl32.Vec3{0, 0.75, 0}, mgl32.Vec3{2, 1, 1})
	assertMatEqual(t, want.Matrix(), tr.Matrix())
}

func TestCompositionOrder(t *testing.T) {
	pos := mgl32.Vec3{1, 2, 3}
	rot := mgl32.Vec3{0, mgl32.DegToRad(90), 0}
	scl := mgl32.Vec3{2, 1, 1}

	tr := New(pos, rot, scl)
	T := mgl32.Translate3D(1, 2, 3)
	R := mgl32.HomogRotate3DY(mgl32.DegToRad(90))
	S := mgl32.Scale3D(2, 1, 1)

	assertMatEqual(t, T.Mul4(S).Mul4(R), tr.Matrix())

	tr.SetOrder(OrderTRS)
	assertMatEqual(t, T.Mul4(R).Mul4(S), tr.Matrix())
}

func TestOrientation(t *testing.T) {
	tr := Identity()
	assert.True(t, mgl32.Vec3{0, 0, 1}.ApproxEqualThreshold(tr.Orientation(), tol))

	tr.SetRotation(mgl32.Vec3{0, mgl32.DegToRad(90), 0})
	assert.True(t, mgl32.Vec3{1, 0, 0}.ApproxEqualThreshold(tr.Orientation(), tol), "%v", tr.Orientation())
}

func TestInverseMatrix(t *testing.T) {
	tr := New(mgl32.Vec3{3, -1, 2}, mgl32.Vec3{0.3, 0.2, 0.1}, mgl32.Vec3{2, 2, 2})
	assertMatEqual(t, mgl32.Ident4(), tr.Matrix().Mul4(tr.InverseMatrix()))

	singular := New(mgl32.Vec3{}, mgl32.Vec3{}, mgl32.Vec3{0, 1, 1})
	inv, ok := singular.TryInverse()
	require.False(t, ok)
	assertMatEqual(t, mgl32.Ident4(), inv)
}

func TestLerp(t *testing.T) {
	a := New(mgl32.Vec3{0, 0, 0}, mgl32.Vec3{0, 0, 0}, mgl32.Vec3{1, 1, 1})
	b := New(mgl32.Vec3{2, 4, 6}, mgl32.Vec3{1, 0, -1}, mgl32.Vec3{3, 3, 3})

	start := Lerp(a, b, 0)
	assert.Equal(t, a.Position(), start.Position())
	assert.Equal(t, a.Rotation(), start.Rotation())
	assert.Equal(t, a.ScaleFactors(), start.ScaleFactors())

	mid := Lerp(a, b, 0.5)
	assert.True(t, mid.Equal(New(mgl32.Vec3{1, 2, 3}, mgl32.Vec3{0.5, 0, -0.5}, mgl32.Vec3{2, 2, 2}), tol))

	b.SetOrder(OrderTRS)
	mixed := Lerp(a, b, 0.5)
	assert.Equal(t, OrderTSR, mixed.Order())
}

func TestCopyIsSnapshot(t *testing.T) {
	tr := Identity()
	snap := tr
	tr.Translate(mgl32.Vec3{1, 0, 0})
	assert.Equal(t, mgl32.Vec3{}, snap.Position())
	assertMatEqual(t, mgl32.Ident4(), snap.Matrix())
}

func TestParseOrder(t *testing.T) {
	assert.Equal(t, OrderTRS, ParseOrder("TRS"))
	assert.Equal(t, OrderTSR, ParseOrder("tsr"))
	assert.Equal(t, OrderTSR, ParseOrder("bogus"))
	assert.Equal(t, "trs", OrderTRS.String())
}
