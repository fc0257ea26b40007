package linalg

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Quaternion is W + Xi + Yj + Zk. The algebra runs on mgl64.Quat; this type
// adds the error surface for division by zero.
type Quaternion struct {
	W, X, Y, Z float64
}

// FromQuat converts from mgl64.
func FromQuat(q mgl64.Quat) Quaternion {
	return Quaternion{q.W, q.V[0], q.V[1], q.V[2]}
}

func (q Quaternion) Quat() mgl64.Quat { return mgl64.Quat{W: q.W, V: mgl64.Vec3{q.X, q.Y, q.Z}} }

func (q Quaternion) Add(o Quaternion) Quaternion { return FromQuat(q.Quat().Add(o.Quat())) }
func (q Quaternion) Sub(o Quaternion) Quaternion { return FromQuat(q.Quat().Sub(o.Quat())) }
func (q Quaternion) Mul(o Quaternion) Quaternion { return FromQuat(q.Quat().Mul(o.Quat())) }
func (q Quaternion) Scale(s float64) Quaternion  { return FromQuat(q.Quat().Scale(s)) }
func (q Quaternion) Neg() Quaternion             { return q.Scale(-1) }
func (q Quaternion) Conjugate() Quaternion       { return FromQuat(q.Quat().Conjugate()) }
func (q Quaternion) Norm() float64               { return q.Quat().Len() }
func (q Quaternion) Vector() Vector3             { return Vector3{q.X, q.Y, q.Z} }
func (q Quaternion) String() string              { return fmt.Sprintf("(%g, %g, %g, %g)", q.W, q.X, q.Y, q.Z) }
func PureQuaternion(v Vector3) Quaternion        { return Quaternion{0, v.X, v.Y, v.Z} }
func (q Quaternion) ApproxEqual(o Quaternion, tol float64) bool {
	return math.Abs(q.W-o.W) < tol && math.Abs(q.X-o.X) < tol &&
		math.Abs(q.Y-o.Y) < tol && math.Abs(q.Z-o.Z) < tol
}

func (q Quaternion) isZero() bool { return q == Quaternion{} }

func (q Quaternion) Normalize() (Quaternion, error) {
	if q.isZero() {
		return Quaternion{}, ErrDivisionByZero
	}
	return FromQuat(q.Quat().Normalize()), nil
}

// Reciprocal returns q⁻¹ = q̄ / |q|².
func (q Quaternion) Reciprocal() (Quaternion, error) {
	if q.isZero() {
		return Quaternion{}, ErrDivisionByZero
	}
	return FromQuat(q.Quat().Inverse()), nil
}

// Div returns q·o⁻¹.
func (q Quaternion) Div(o Quaternion) (Quaternion, error) {
	r, err := o.Reciprocal()
	if err != nil {
		return Quaternion{}, err
	}
	return q.Mul(r), nil
}

// RotationMatrix returns the rotation matrix of the normalized q. The zero
// quaternion maps to the identity.
func (q Quaternion) RotationMatrix() Matrix3x3 {
	u, err := q.Normalize()
	if err != nil {
		return Identity()
	}
	return FromMat3(u.Quat().Mat4().Mat3())
}

// RotationQuaternion is a unit quaternion describing a rotation.
type RotationQuaternion struct {
	Quaternion
}

// NewRotationQuaternion builds the rotation of angle radians about axis. A zero
// axis yields the identity rotation.
func NewRotationQuaternion(angle float64, axis Vector3) RotationQuaternion {
	n, err := axis.Normalize()
	if err != nil {
		return RotationQuaternion{Quaternion{W: 1}}
	}
	return RotationQuaternion{FromQuat(mgl64.QuatRotate(angle, n.Vec()))}
}

// QuaternionFromMatrix converts a rotation matrix.
func QuaternionFromMatrix(m Matrix3x3) RotationQuaternion {
	q := FromQuat(mgl64.Mat4ToQuat(m.Mat4(Vector3{})))
	if u, err := q.Normalize(); err == nil {
		q = u
	}
	return RotationQuaternion{q}
}

// Axis returns the unit rotation axis, or the zero vector for the identity.
func (r RotationQuaternion) Axis() Vector3 {
	a, err := r.Vector().Normalize()
	if err != nil {
		return Vector3{}
	}
	if r.W < 0 {
		// q and -q are the same rotation; report the axis for the angle in [0, π]
		return a.Neg()
	}
	return a
}

// Angle returns the rotation angle in [0, π].
func (r RotationQuaternion) Angle() float64 {
	return 2 * math.Atan2(r.Vector().Length(), math.Abs(r.W))
}

// Rotate applies the rotation to v.
func (r RotationQuaternion) Rotate(v Vector3) Vector3 {
	return FromVec(r.Quat().Rotate(v.Vec()))
}

// Compose returns the rotation that applies o first and then r.
func (r RotationQuaternion) Compose(o RotationQuaternion) RotationQuaternion {
	return RotationQuaternion{r.Mul(o.Quaternion)}
}

func (r RotationQuaternion) Matrix() Matrix3x3 {
	return r.RotationMatrix()
}
