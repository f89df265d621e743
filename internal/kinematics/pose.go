package kinematics

import (
	"math"

	"gonum.org/v1/gonum/num/quat"
	"gonum.org/v1/gonum/spatial/r3"
)

// Rotation is a 3D rotation stored as a unit quaternion.
type Rotation = r3.Rotation

// Pose is a rigid-body pose: position plus orientation. The orientation is
// kept unit-norm; construct poses with NewPose so the invariant holds.
type Pose struct {
	R Rotation
	T r3.Vec
}

// NewPose returns a pose with the orientation normalized.
func NewPose(r Rotation, t r3.Vec) Pose {
	return Pose{R: NormalizeRotation(r), T: t}
}

// IdentityRotation returns the identity rotation.
func IdentityRotation() Rotation {
	return Rotation(quat.Number{Real: 1})
}

// AxisAngle returns the rotation by angle about axis. The axis must be
// nonzero; it is normalized internally.
func AxisAngle(axis r3.Vec, angle float64) Rotation {
	return r3.NewRotation(angle, axis)
}

// Compose returns the rotation a∘b, i.e. b applied first.
func Compose(a, b Rotation) Rotation {
	return Rotation(quat.Mul(quat.Number(a), quat.Number(b)))
}

// Invert returns the inverse rotation.
func Invert(r Rotation) Rotation {
	return Rotation(quat.Conj(quat.Number(r)))
}

// NormalizeRotation rescales r to unit norm. A zero quaternion maps to the
// identity rather than NaN.
func NormalizeRotation(r Rotation) Rotation {
	q := quat.Number(r)
	n := quat.Abs(q)
	if n == 0 || math.IsNaN(n) || math.IsInf(n, 0) {
		return IdentityRotation()
	}
	return Rotation(quat.Scale(1/n, q))
}

// RotVec returns the rotation vector (axis times angle) of r, with the
// angle in [0, π].
func RotVec(r Rotation) r3.Vec {
	q := quat.Number(NormalizeRotation(r))
	if q.Real < 0 {
		q = quat.Scale(-1, q)
	}
	v := r3.Vec{X: q.Imag, Y: q.Jmag, Z: q.Kmag}
	s := r3.Norm(v)
	if s < 1e-300 {
		return r3.Vec{}
	}
	angle := 2 * math.Atan2(s, q.Real)
	return r3.Scale(angle/s, v)
}

// RotationDistance returns the relative rotation angle between a and b,
// in [0, π].
func RotationDistance(a, b Rotation) float64 {
	return r3.Norm(RotVec(Compose(Invert(a), b)))
}

// PoseErrors returns the position and orientation deviation of got from
// want: Euclidean distance and relative rotation angle.
func PoseErrors(got, want Pose) (pos, orient float64) {
	return r3.Norm(r3.Sub(got.T, want.T)), RotationDistance(got.R, want.R)
}

func finiteVec(v r3.Vec) bool {
	return finite(v.X) && finite(v.Y) && finite(v.Z)
}

func finite(x float64) bool {
	return !math.IsNaN(x) && !math.IsInf(x, 0)
}
