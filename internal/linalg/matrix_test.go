package linalg

import (
	"errors"
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
)

var sampleMatrices = []Matrix3x3{
	{{2, 0, 0}, {0, 3, 0}, {0, 0, 4}},
	{{1, 2, 3}, {0, 1, 4}, {5, 6, 0}},
	{{4, -1, 0.5}, {-1, 3, 0.25}, {0.5, 0.25, 2}},
	FromEuler(0.3, -1.1, 2.4),
}

func TestMatrix3x3_TransposeInvolution(t *testing.T) {
	for _, m := range sampleMatrices {
		if got := m.Transpose().Transpose(); got != m {
			t.Errorf("transpose twice = %v, want %v", got, m)
		}
	}
}

func TestMatrix3x3_Inverse(t *testing.T) {
	for _, m := range sampleMatrices {
		inv, err := m.Inverse()
		if err != nil {
			t.Fatalf("Inverse(%v) failed: %v", m, err)
		}
		if got := m.Mul(inv); !got.ApproxEqual(Identity(), 1e-9) {
			t.Errorf("M*M^-1 = %v, want identity", got)
		}
	}
}

func TestMatrix3x3_InverseSingular(t *testing.T) {
	tests := []struct {
		name string
		m    Matrix3x3
	}{
		{"zero", Zero()},
		{"rank one", Vector3{1, 2, 3}.Outer(Vector3{1, 1, 1})},
		{"repeated row", Matrix3x3{{1, 2, 3}, {1, 2, 3}, {0, 0, 1}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := tt.m.Inverse(); !errors.Is(err, ErrSingularMatrix) {
				t.Errorf("Inverse error = %v, want ErrSingularMatrix", err)
			}
		})
	}
}

func TestMatrix3x3_Arithmetic(t *testing.T) {
	a := Matrix3x3{{1, 2, 3}, {4, 5, 6}, {7, 8, 9}}
	b := Diagonal(1, 2, 3)

	if got := a.Add(b); got != (Matrix3x3{{2, 2, 3}, {4, 7, 6}, {7, 8, 12}}) {
		t.Errorf("Add failed: got %v", got)
	}
	if got := a.Sub(a); got != Zero() {
		t.Errorf("Sub failed: got %v", got)
	}
	if got := a.Scale(2).Add(a.Neg()); got != a {
		t.Errorf("Scale/Neg failed: got %v", got)
	}
	if got := a.Mul(b); got != (Matrix3x3{{1, 4, 9}, {4, 10, 18}, {7, 16, 27}}) {
		t.Errorf("Mul failed: got %v", got)
	}
	if got := a.MulVec(Vector3{1, 0, -1}); got != (Vector3{-2, -2, -2}) {
		t.Errorf("MulVec failed: got %v", got)
	}
	if got := a.Mul(Identity()); got != a {
		t.Errorf("identity is not neutral: got %v", got)
	}
}

func TestFromAxisAngle(t *testing.T) {
	tests := []struct {
		name  string
		axis  Vector3
		angle float64
		in    Vector3
		want  Vector3
	}{
		{"zero angle", Vector3{1, 2, 3}, 0, Vector3{4, 5, 6}, Vector3{4, 5, 6}},
		{"quarter turn about z", Vector3{0, 0, 1}, math.Pi / 2, Vector3{1, 0, 0}, Vector3{0, 1, 0}},
		{"half turn about x", Vector3{2, 0, 0}, math.Pi, Vector3{0, 1, 0}, Vector3{0, -1, 0}},
		{"third turn about diagonal", Vector3{1, 1, 1}, 2 * math.Pi / 3, Vector3{1, 0, 0}, Vector3{0, 1, 0}},
		{"zero axis", Vector3{}, 1.5, Vector3{1, 2, 3}, Vector3{1, 2, 3}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := FromAxisAngle(tt.axis, tt.angle)
			if !r.IsRotation(1e-12) {
				t.Errorf("result is not a rotation: %v", r)
			}
			if got := r.MulVec(tt.in); !got.ApproxEqual(tt.want, 1e-9) {
				t.Errorf("rotate(%v) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}

	if got := FromAxisAngle(Vector3{0.3, -2, 1}, 0); !got.ApproxEqual(Identity(), 1e-15) {
		t.Errorf("FromAxisAngle(axis, 0) = %v, want identity", got)
	}
}

func TestFromAxisAngle_MatchesMathGL(t *testing.T) {
	axis := Vector3{0.3, -0.5, 0.8}
	for _, angle := range []float64{-2.5, -0.1, 0.7, 1.9, 3.1} {
		n, _ := axis.Normalize()
		want := mgl64.HomogRotate3D(angle, n.Vec())
		got := FromAxisAngle(axis, angle).Mat4(Vector3{})
		if !got.ApproxEqualThreshold(want, 1e-12) {
			t.Errorf("angle %v: got %v, want %v", angle, got, want)
		}
	}
}

func TestFromAxis(t *testing.T) {
	v := Vector3{0, 0, math.Pi / 2}
	if got := FromAxis(v); !got.ApproxEqual(FromAxisAngle(Vector3{0, 0, 1}, math.Pi/2), 1e-15) {
		t.Errorf("FromAxis = %v", got)
	}
	if got := FromAxis(Vector3{}); got != Identity() {
		t.Errorf("FromAxis(0) = %v, want identity", got)
	}
}

func TestFromEuler(t *testing.T) {
	r := FromEuler(0.4, -0.9, 2.2)
	if !r.IsRotation(1e-12) {
		t.Errorf("FromEuler is not a rotation: %v", r)
	}

	want := FromAxisAngle(Vector3{1, 0, 0}, 0.4).
		Mul(FromAxisAngle(Vector3{0, 1, 0}, -0.9)).
		Mul(FromAxisAngle(Vector3{0, 0, 1}, 2.2))
	if !r.ApproxEqual(want, 1e-12) {
		t.Errorf("FromEuler = %v, want Rx*Ry*Rz = %v", r, want)
	}
}

func TestMatrix3x3_Euler(t *testing.T) {
	tests := []struct {
		name            string
		phi, theta, psi float64
	}{
		{"identity", 0, 0, 0},
		{"generic", 0.4, -0.9, 2.2},
		{"negative", -2.5, 1.2, -0.3},
		{"gimbal up", 0, math.Pi / 2, 0.7},
		{"gimbal down", 0, -math.Pi / 2, -1.1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := FromEuler(tt.phi, tt.theta, tt.psi)
			phi, theta, psi := m.Euler()
			if got := FromEuler(phi, theta, psi); !got.ApproxEqual(m, 1e-9) {
				t.Errorf("FromEuler(Euler()) = %v, want %v", got, m)
			}
			if math.Abs(theta-tt.theta) > 1e-6 {
				t.Errorf("theta = %v, want %v", theta, tt.theta)
			}
		})
	}
}

func TestMatrix3x3_Orthonormalize(t *testing.T) {
	r := FromEuler(1, 2, 3)
	drifted := r.Add(Matrix3x3{{1e-4, 0, 0}, {0, -2e-4, 1e-4}, {0, 0, 3e-4}})
	if drifted.OrthonormalDrift() < 1e-5 {
		t.Fatalf("expected visible drift, got %v", drifted.OrthonormalDrift())
	}

	fixed, err := drifted.Orthonormalize()
	if err != nil {
		t.Fatalf("Orthonormalize failed: %v", err)
	}
	if !fixed.IsRotation(1e-12) {
		t.Errorf("orthonormalized matrix is not a rotation: %v", fixed)
	}
	if !fixed.ApproxEqual(r, 1e-3) {
		t.Errorf("orthonormalized matrix moved too far: %v", fixed)
	}
}

func TestMatrix3x3_Mat4(t *testing.T) {
	r := FromAxisAngle(Vector3{0, 1, 0}, 0.6)
	p := Vector3{1, -2, 3}
	m := r.Mat4(p)

	if got := m.Col(3); got != (mgl64.Vec4{1, -2, 3, 1}) {
		t.Errorf("translation column = %v", got)
	}

	v := Vector3{0.5, 0.25, -1}
	got := FromVec(m.Mul4x1(v.Vec().Vec4(1)).Vec3())
	want := r.MulVec(v).Add(p)
	if !got.ApproxEqual(want, 1e-12) {
		t.Errorf("transform(%v) = %v, want %v", v, got, want)
	}

	if !r.Mat3().ApproxEqualThreshold(m.Mat3(), 1e-15) {
		t.Error("Mat3 does not match rotation block of Mat4")
	}
	if got := FromMat3(r.Mat3()); got != r {
		t.Errorf("FromMat3(Mat3()) = %v, want %v", got, r)
	}
}
