package common

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// Epsilon is the default tolerance used when comparing float32 vectors and matrices.
const Epsilon float32 = 1e-5

var (
	// AxisX is the unit vector along the positive X axis.
	AxisX = mgl32.Vec3{1, 0, 0}
	// AxisY is the unit vector along the positive Y axis.
	AxisY = mgl32.Vec3{0, 1, 0}
	// AxisZ is the unit vector along the positive Z axis.
	AxisZ = mgl32.Vec3{0, 0, 1}
)

// EulerToQuat builds the rotation quaternion for a set of Euler angles in radians.
// The x component is pitch, y is yaw and z is roll. The result is the normalized
// product qPitch * qYaw * qRoll, each an axis-angle rotation about X, Y and Z.
//
// Parameters:
//   - euler: rotation angles in radians (pitch, yaw, roll)
//
// Returns:
//   - mgl32.Quat: the normalized rotation quaternion
func EulerToQuat(euler mgl32.Vec3) mgl32.Quat {
	pitch := mgl32.QuatRotate(euler[0], AxisX)
	yaw := mgl32.QuatRotate(euler[1], AxisY)
	roll := mgl32.QuatRotate(euler[2], AxisZ)
	return pitch.Mul(yaw).Mul(roll).Normalize()
}

// QuatToEuler decomposes a rotation quaternion back into Euler angles using the
// same pitch * yaw * roll convention as EulerToQuat. Near gimbal lock the roll is
// folded into the pitch and reported as zero.
//
// Parameters:
//   - q: the rotation quaternion (normalized internally)
//
// Returns:
//   - mgl32.Vec3: rotation angles in radians (pitch, yaw, roll)
func QuatToEuler(q mgl32.Quat) mgl32.Vec3 {
	m := q.Normalize().Mat4()

	// R = Rx * Ry * Rz, so R[0][2] = sin(yaw).
	sy := Clamp(m.At(0, 2), -1, 1)
	yaw := math32.Asin(sy)

	if math32.Abs(sy) < 1-Epsilon {
		pitch := math32.Atan2(-m.At(1, 2), m.At(2, 2))
		roll := math32.Atan2(-m.At(0, 1), m.At(0, 0))
		return mgl32.Vec3{pitch, yaw, roll}
	}

	pitch := math32.Atan2(m.At(2, 1), m.At(1, 1))
	return mgl32.Vec3{pitch, yaw, 0}
}

// Mix linearly interpolates between two vectors: a*(1-t) + b*t.
// t = 0 yields a exactly.
//
// Parameters:
//   - a: the start vector
//   - b: the end vector
//   - t: the interpolation factor
//
// Returns:
//   - mgl32.Vec3: the blended vector
func Mix(a, b mgl32.Vec3, t float32) mgl32.Vec3 {
	return a.Mul(1 - t).Add(b.Mul(t))
}

// Clamp limits v to the closed range [lo, hi].
func Clamp(v, lo, hi float32) float32 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Wrap folds v into the half-open range [0, period). Negative values wrap from the top.
// A non-positive period returns 0.
//
// Parameters:
//   - v: the value to wrap
//   - period: the length of the range
//
// Returns:
//   - float32: the wrapped value
func Wrap(v, period float32) float32 {
	if period <= 0 {
		return 0
	}
	r := math32.Mod(v, period)
	if r < 0 {
		r += period
	}
	return r
}

// DegreesToRadians converts each component of an Euler vector from degrees to radians.
func DegreesToRadians(v mgl32.Vec3) mgl32.Vec3 {
	return mgl32.Vec3{mgl32.DegToRad(v[0]), mgl32.DegToRad(v[1]), mgl32.DegToRad(v[2])}
}

// RadiansToDegrees converts each component of an Euler vector from radians to degrees.
func RadiansToDegrees(v mgl32.Vec3) mgl32.Vec3 {
	return mgl32.Vec3{mgl32.RadToDeg(v[0]), mgl32.RadToDeg(v[1]), mgl32.RadToDeg(v[2])}
}

// Invert returns the inverse of m. If m is singular the identity matrix is returned
// along with false.
//
// Parameters:
//   - m: the matrix to invert
//
// Returns:
//   - mgl32.Mat4: the inverse, or identity if m is singular
//   - bool: true if m was invertible
func Invert(m mgl32.Mat4) (mgl32.Mat4, bool) {
	if math32.Abs(m.Det()) < 1e-12 {
		return mgl32.Ident4(), false
	}
	return m.Inv(), true
}

// LookAt builds a right-handed view matrix looking from eye toward target.
// If up is parallel to the view direction it is replaced with +Y, or +Z when the
// view direction is itself vertical.
//
// Parameters:
//   - eye: the viewer position
//   - target: the point being looked at
//   - up: the desired up direction
//
// Returns:
//   - mgl32.Mat4: the view matrix
func LookAt(eye, target, up mgl32.Vec3) mgl32.Mat4 {
	dir := target.Sub(eye)
	if dir.Len() < Epsilon {
		dir = AxisZ.Mul(-1)
		target = eye.Add(dir)
	}
	if up.Len() < Epsilon || dir.Normalize().Cross(up.Normalize()).Len() < Epsilon {
		up = AxisY
		if dir.Normalize().Cross(up).Len() < Epsilon {
			up = AxisZ
		}
	}
	return mgl32.LookAtV(eye, target, up)
}
