// Package transform holds the position / Euler rotation / scale triple owned by every
// scene node, together with the 4x4 matrix derived from it.
package transform

import (
	"strings"

	"github.com/Carmen-Shannon/oxy-anim/common"
	"github.com/go-gl/mathgl/mgl32"
)

// Order selects how translation, rotation and scale are composed into the matrix.
type Order int

const (
	// OrderTSR composes translate, then scale, then rotate: M = T * S * R.
	// This is the order used when nodes are walked as a scene graph.
	OrderTSR Order = iota

	// OrderTRS composes translate, then rotate, then scale: M = T * R * S.
	// Cameras and free-standing objects use this order.
	OrderTRS
)

// String returns the short name of the order.
func (o Order) String() string {
	switch o {
	case OrderTRS:
		return "trs"
	default:
		return "tsr"
	}
}

// ParseOrder maps "trs" or "tsr" (case-insensitive) to an Order.
// Unknown names return OrderTSR.
func ParseOrder(name string) Order {
	if strings.EqualFold(name, "trs") {
		return OrderTRS
	}
	return OrderTSR
}

// Transform is a local transform: position, Euler rotation in radians (x = pitch,
// y = yaw, z = roll) and per-axis scale. The matrix is recomputed on every mutation,
// so reads never see a stale value.
//
// Transform is a value type. Copying one takes a snapshot. The zero value has zero
// scale and a zero matrix; build transforms with New or Identity.
type Transform struct {
	position mgl32.Vec3
	rotation mgl32.Vec3
	scale    mgl32.Vec3
	order    Order
	matrix   mgl32.Mat4
}

// Identity returns a transform at the origin with no rotation and unit scale.
//
// Returns:
//   - Transform: the identity transform
func Identity() Transform {
	return New(mgl32.Vec3{}, mgl32.Vec3{}, mgl32.Vec3{1, 1, 1})
}

// New creates a transform from its three components using OrderTSR.
//
// Parameters:
//   - position: the translation
//   - rotation: Euler angles in radians (pitch, yaw, roll)
//   - scale: per-axis scale factors
//
// Returns:
//   - Transform: the new transform with its matrix computed
func New(position, rotation, scale mgl32.Vec3) Transform {
	t := Transform{
		position: position,
		rotation: rotation,
		scale:    scale,
		order:    OrderTSR,
	}
	t.update()
	return t
}

// Lerp blends position, rotation and scale of a and b independently with frac.
// frac = 0 yields a and frac = 1 yields b. The result keeps a's composition order.
//
// Parameters:
//   - a: the start transform
//   - b: the end transform
//   - frac: the interpolation factor
//
// Returns:
//   - Transform: the blended transform
func Lerp(a, b Transform, frac float32) Transform {
	t := Transform{
		position: common.Mix(a.position, b.position, frac),
		rotation: common.Mix(a.rotation, b.rotation, frac),
		scale:    common.Mix(a.scale, b.scale, frac),
		order:    a.order,
	}
	t.update()
	return t
}

// Position returns the translation component.
func (t *Transform) Position() mgl32.Vec3 {
	return t.position
}

// Rotation returns the Euler rotation in radians.
func (t *Transform) Rotation() mgl32.Vec3 {
	return t.rotation
}

// ScaleFactors returns the per-axis scale.
func (t *Transform) ScaleFactors() mgl32.Vec3 {
	return t.scale
}

// Order returns the composition order.
func (t *Transform) Order() Order {
	return t.order
}

// Matrix returns the local matrix for the current components.
func (t *Transform) Matrix() mgl32.Mat4 {
	return t.matrix
}

// InverseMatrix returns the inverse of the local matrix, or identity if it is
// singular (for example a zero scale).
func (t *Transform) InverseMatrix() mgl32.Mat4 {
	inv, _ := common.Invert(t.matrix)
	return inv
}

// TryInverse is InverseMatrix with the singular case reported.
//
// Returns:
//   - mgl32.Mat4: the inverse, or identity if singular
//   - bool: false if the matrix could not be inverted
func (t *Transform) TryInverse() (mgl32.Mat4, bool) {
	return common.Invert(t.matrix)
}

// Quat returns the rotation as a normalized quaternion.
func (t *Transform) Quat() mgl32.Quat {
	return common.EulerToQuat(t.rotation)
}

// Orientation returns the forward vector: the rotation applied to +Z.
func (t *Transform) Orientation() mgl32.Vec3 {
	return t.Quat().Rotate(common.AxisZ)
}

// Translate adds delta to the position.
func (t *Transform) Translate(delta mgl32.Vec3) {
	t.position = t.position.Add(delta)
	t.update()
}

// Rotate adds delta (radians) to the Euler rotation.
func (t *Transform) Rotate(delta mgl32.Vec3) {
	t.rotation = t.rotation.Add(delta)
	t.update()
}

// Scale adds delta to the scale. It is additive, not multiplicative.
func (t *Transform) Scale(delta mgl32.Vec3) {
	t.scale = t.scale.Add(delta)
	t.update()
}

// SetPosition replaces the position.
func (t *Transform) SetPosition(p mgl32.Vec3) {
	t.position = p
	t.update()
}

// SetRotation replaces the Euler rotation (radians).
func (t *Transform) SetRotation(r mgl32.Vec3) {
	t.rotation = r
	t.update()
}

// SetScale replaces the scale.
func (t *Transform) SetScale(s mgl32.Vec3) {
	t.scale = s
	t.update()
}

// SetOrder changes the composition order.
func (t *Transform) SetOrder(o Order) {
	t.order = o
	t.update()
}

// Set replaces all three components at once.
func (t *Transform) Set(position, rotation, scale mgl32.Vec3) {
	t.position = position
	t.rotation = rotation
	t.scale = scale
	t.update()
}

// Equal reports whether every component of t and other is within eps.
func (t *Transform) Equal(other Transform, eps float32) bool {
	return t.position.ApproxEqualThreshold(other.position, eps) &&
		t.rotation.ApproxEqualThreshold(other.rotation, eps) &&
		t.scale.ApproxEqualThreshold(other.scale, eps)
}

func (t *Transform) update() {
	translation := mgl32.Translate3D(t.position[0], t.position[1], t.position[2])
	rotation := common.EulerToQuat(t.rotation).Mat4()
	scale := mgl32.Scale3D(t.scale[0], t.scale[1], t.scale[2])

	switch t.order {
	case OrderTRS:
		t.matrix = translation.Mul4(rotation).Mul4(scale)
	default:
		t.matrix = translation.Mul4(scale).Mul4(rotation)
	}
}
