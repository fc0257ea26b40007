package linalg

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Vector3 is a 3D vector.
type Vector3 struct {
	X, Y, Z float64
}

func (v Vector3) Add(o Vector3) Vector3   { return Vector3{v.X + o.X, v.Y + o.Y, v.Z + o.Z} }
func (v Vector3) Sub(o Vector3) Vector3   { return Vector3{v.X - o.X, v.Y - o.Y, v.Z - o.Z} }
func (v Vector3) Neg() Vector3            { return Vector3{-v.X, -v.Y, -v.Z} }
func (v Vector3) Scale(s float64) Vector3 { return Vector3{v.X * s, v.Y * s, v.Z * s} }
func (v Vector3) Dot(o Vector3) float64   { return v.X*o.X + v.Y*o.Y + v.Z*o.Z }
func (v Vector3) Length() float64         { return math.Sqrt(v.Dot(v)) }
func (v Vector3) Vec() mgl64.Vec3         { return mgl64.Vec3{v.X, v.Y, v.Z} }
func (v Vector3) String() string          { return fmt.Sprintf("(%g, %g, %g)", v.X, v.Y, v.Z) }
func FromVec(v mgl64.Vec3) Vector3        { return Vector3{v[0], v[1], v[2]} }
func (v Vector3) Component(i int) float64 { return [3]float64{v.X, v.Y, v.Z}[i] }
func (v Vector3) IsZero() bool            { return v.X == 0 && v.Y == 0 && v.Z == 0 }
func (v Vector3) IsFinite() bool          { return finite(v.X) && finite(v.Y) && finite(v.Z) }
func (v Vector3) Cross(o Vector3) Vector3 {
	return Vector3{v.Y*o.Z - v.Z*o.Y, v.Z*o.X - v.X*o.Z, v.X*o.Y - v.Y*o.X}
}

// Div divides every component by s.
func (v Vector3) Div(s float64) (Vector3, error) {
	if s == 0 {
		return Vector3{}, ErrDivisionByZero
	}
	return v.Scale(1 / s), nil
}

// Normalize returns the unit vector with the direction of v.
func (v Vector3) Normalize() (Vector3, error) {
	l := v.Length()
	if l == 0 {
		return Vector3{}, ErrZeroVector
	}
	return v.Scale(1 / l), nil
}

// Outer returns the outer product v ⊗ o.
func (v Vector3) Outer(o Vector3) Matrix3x3 {
	return Matrix3x3{
		{v.X * o.X, v.X * o.Y, v.X * o.Z},
		{v.Y * o.X, v.Y * o.Y, v.Y * o.Z},
		{v.Z * o.X, v.Z * o.Y, v.Z * o.Z},
	}
}

// AngleBetween returns the unsigned angle between v and o in [0, π].
func (v Vector3) AngleBetween(o Vector3) (float64, error) {
	l := v.Length() * o.Length()
	if l == 0 {
		return 0, ErrZeroVector
	}
	c := v.Dot(o) / l
	// roundoff can push the cosine slightly outside [-1, 1]
	c = math.Max(-1, math.Min(1, c))
	return math.Acos(c), nil
}

// ApproxEqual reports whether every component differs by less than tol.
func (v Vector3) ApproxEqual(o Vector3, tol float64) bool {
	return math.Abs(v.X-o.X) < tol && math.Abs(v.Y-o.Y) < tol && math.Abs(v.Z-o.Z) < tol
}

func finite(x float64) bool {
	return !math.IsNaN(x) && !math.IsInf(x, 0)
}
