package linalg

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Matrix3x3 is a row-major 3x3 matrix. It holds either a rotation
// (orthonormal, det = +1) or an inertia tensor (symmetric, positive semi-definite).
type Matrix3x3 [3][3]float64

func Identity() Matrix3x3 {
	return Matrix3x3{{1, 0, 0}, {0, 1, 0}, {0, 0, 1}}
}

func Zero() Matrix3x3 {
	return Matrix3x3{}
}

func Diagonal(a, b, c float64) Matrix3x3 {
	return Matrix3x3{{a, 0, 0}, {0, b, 0}, {0, 0, c}}
}

// FromEuler builds the rotation Rx(phi)·Ry(theta)·Rz(psi).
func FromEuler(phi, theta, psi float64) Matrix3x3 {
	s1, c1 := math.Sincos(phi)
	s2, c2 := math.Sincos(theta)
	s3, c3 := math.Sincos(psi)
	return Matrix3x3{
		{c2 * c3, -c2 * s3, s2},
		{c1*s3 + c3*s1*s2, c1*c3 - s1*s2*s3, -c2 * s1},
		{s1*s3 - c1*c3*s2, c3*s1 + c1*s2*s3, c1 * c2},
	}
}

// Euler inverts FromEuler for a rotation matrix. At theta = ±π/2 the split
// between phi and psi is not unique; phi is then reported as zero.
func (m Matrix3x3) Euler() (phi, theta, psi float64) {
	theta = math.Asin(math.Max(-1, math.Min(1, m[0][2])))
	if math.Abs(m[0][2]) > 1-1e-12 {
		return 0, theta, math.Atan2(m[1][0], m[1][1])
	}
	return math.Atan2(-m[1][2], m[2][2]), theta, math.Atan2(-m[0][1], m[0][0])
}

// FromAxisAngle builds the rotation of angle radians about axis using
// Rodrigues' formula. The axis need not be normalized. A zero axis yields
// the identity: there is no rotation to describe.
func FromAxisAngle(axis Vector3, angle float64) Matrix3x3 {
	n, err := axis.Normalize()
	if err != nil {
		return Identity()
	}
	s, c := math.Sincos(angle)
	t := 1 - c
	x, y, z := n.X, n.Y, n.Z
	return Matrix3x3{
		{t*x*x + c, t*x*y - s*z, t*x*z + s*y},
		{t*x*y + s*z, t*y*y + c, t*y*z - s*x},
		{t*x*z - s*y, t*y*z + s*x, t*z*z + c},
	}
}

// FromAxis builds the rotation whose axis is the direction of v and whose
// angle is |v|.
func FromAxis(v Vector3) Matrix3x3 {
	return FromAxisAngle(v, v.Length())
}

func (m Matrix3x3) Add(o Matrix3x3) Matrix3x3 {
	var r Matrix3x3
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			r[i][j] = m[i][j] + o[i][j]
		}
	}
	return r
}

func (m Matrix3x3) Sub(o Matrix3x3) Matrix3x3 {
	return m.Add(o.Neg())
}

func (m Matrix3x3) Neg() Matrix3x3 {
	return m.Scale(-1)
}

func (m Matrix3x3) Scale(s float64) Matrix3x3 {
	var r Matrix3x3
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			r[i][j] = m[i][j] * s
		}
	}
	return r
}

// MulVec returns m·v.
func (m Matrix3x3) MulVec(v Vector3) Vector3 {
	return Vector3{
		m[0][0]*v.X + m[0][1]*v.Y + m[0][2]*v.Z,
		m[1][0]*v.X + m[1][1]*v.Y + m[1][2]*v.Z,
		m[2][0]*v.X + m[2][1]*v.Y + m[2][2]*v.Z,
	}
}

// Mul returns m·o.
func (m Matrix3x3) Mul(o Matrix3x3) Matrix3x3 {
	var r Matrix3x3
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			r[i][j] = m[i][0]*o[0][j] + m[i][1]*o[1][j] + m[i][2]*o[2][j]
		}
	}
	return r
}

func (m Matrix3x3) Transpose() Matrix3x3 {
	return Matrix3x3{
		{m[0][0], m[1][0], m[2][0]},
		{m[0][1], m[1][1], m[2][1]},
		{m[0][2], m[1][2], m[2][2]},
	}
}

func (m Matrix3x3) Det() float64 {
	return m[0][0]*(m[1][1]*m[2][2]-m[1][2]*m[2][1]) -
		m[0][1]*(m[1][0]*m[2][2]-m[1][2]*m[2][0]) +
		m[0][2]*(m[1][0]*m[2][1]-m[1][1]*m[2][0])
}

// Inverse returns m⁻¹ via the adjugate. It fails with ErrSingularMatrix when
// the determinant is zero or not finite.
func (m Matrix3x3) Inverse() (Matrix3x3, error) {
	d := m.Det()
	if d == 0 || !finite(d) {
		return Matrix3x3{}, ErrSingularMatrix
	}
	inv := 1 / d
	r := Matrix3x3{
		{m[1][1]*m[2][2] - m[1][2]*m[2][1], m[0][2]*m[2][1] - m[0][1]*m[2][2], m[0][1]*m[1][2] - m[0][2]*m[1][1]},
		{m[1][2]*m[2][0] - m[1][0]*m[2][2], m[0][0]*m[2][2] - m[0][2]*m[2][0], m[0][2]*m[1][0] - m[0][0]*m[1][2]},
		{m[1][0]*m[2][1] - m[1][1]*m[2][0], m[0][1]*m[2][0] - m[0][0]*m[2][1], m[0][0]*m[1][1] - m[0][1]*m[1][0]},
	}
	return r.Scale(inv), nil
}

// IsRotation reports whether m is orthonormal with determinant +1 within tol.
func (m Matrix3x3) IsRotation(tol float64) bool {
	return m.Transpose().Mul(m).ApproxEqual(Identity(), tol) && math.Abs(m.Det()-1) < tol
}

// OrthonormalDrift returns the largest entry of |mᵗm − 1|.
func (m Matrix3x3) OrthonormalDrift() float64 {
	d := m.Transpose().Mul(m).Sub(Identity())
	worst := 0.0
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			worst = math.Max(worst, math.Abs(d[i][j]))
		}
	}
	return worst
}

// Orthonormalize re-projects a drifted rotation onto the rotation group with
// Gram–Schmidt on the columns.
func (m Matrix3x3) Orthonormalize() (Matrix3x3, error) {
	c0, err := m.Col(0).Normalize()
	if err != nil {
		return m, err
	}
	c1 := m.Col(1)
	c1, err = c1.Sub(c0.Scale(c0.Dot(c1))).Normalize()
	if err != nil {
		return m, err
	}
	c2 := c0.Cross(c1)
	return FromColumns(c0, c1, c2), nil
}

func (m Matrix3x3) Row(i int) Vector3 { return Vector3{m[i][0], m[i][1], m[i][2]} }
func (m Matrix3x3) Col(j int) Vector3 { return Vector3{m[0][j], m[1][j], m[2][j]} }

func FromColumns(a, b, c Vector3) Matrix3x3 {
	return Matrix3x3{
		{a.X, b.X, c.X},
		{a.Y, b.Y, c.Y},
		{a.Z, b.Z, c.Z},
	}
}

// ApproxEqual reports whether every entry differs by less than tol.
func (m Matrix3x3) ApproxEqual(o Matrix3x3, tol float64) bool {
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			if math.Abs(m[i][j]-o[i][j]) >= tol {
				return false
			}
		}
	}
	return true
}

// Mat4 returns the homogeneous transform with m as the rotation block and t as
// the translation column. mgl64 matrices are column-major.
func (m Matrix3x3) Mat4(t Vector3) mgl64.Mat4 {
	return mgl64.Mat4{
		m[0][0], m[1][0], m[2][0], 0,
		m[0][1], m[1][1], m[2][1], 0,
		m[0][2], m[1][2], m[2][2], 0,
		t.X, t.Y, t.Z, 1,
	}
}

// Mat3 converts to mgl64's column-major layout.
func (m Matrix3x3) Mat3() mgl64.Mat3 {
	return mgl64.Mat3{
		m[0][0], m[1][0], m[2][0],
		m[0][1], m[1][1], m[2][1],
		m[0][2], m[1][2], m[2][2],
	}
}

// FromMat3 converts from mgl64's column-major layout.
func FromMat3(m mgl64.Mat3) Matrix3x3 {
	return Matrix3x3{
		{m.At(0, 0), m.At(0, 1), m.At(0, 2)},
		{m.At(1, 0), m.At(1, 1), m.At(1, 2)},
		{m.At(2, 0), m.At(2, 1), m.At(2, 2)},
	}
}

func (m Matrix3x3) String() string {
	return fmt.Sprintf("(%g, %g, %g)\n(%g, %g, %g)\n(%g, %g, %g)",
		m[0][0], m[0][1], m[0][2], m[1][0], m[1][1], m[1][2], m[2][0], m[2][1], m[2][2])
}
