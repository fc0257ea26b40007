package rigid

import (
	"errors"
	"math"
	"testing"

	"github.com/san-kum/airtime/internal/linalg"
)

func TestNewRigidBody_RejectsBadMass(t *testing.T) {
	for _, m := range []float64{0, -1, math.NaN(), math.Inf(1)} {
		_, err := NewRigidBody(linalg.Vector3{}, linalg.Identity(), m, linalg.Identity())
		if !errors.Is(err, ErrInvalidConstruction) {
			t.Errorf("mass %v: error = %v, want ErrInvalidConstruction", m, err)
		}
	}
}

func TestRigidBody_InertiaAtOwnFrame(t *testing.T) {
	inertia := linalg.Matrix3x3{{2, 0.1, 0}, {0.1, 3, -0.2}, {0, -0.2, 4}}
	rot := linalg.FromEuler(0.3, 1.1, -0.4)
	pos := linalg.Vector3{X: 1, Y: -2, Z: 0.5}

	rb, err := NewRigidBody(pos, rot, 1.5, inertia)
	if err != nil {
		t.Fatalf("NewRigidBody failed: %v", err)
	}
	if got := rb.InertiaTensorAt(pos, rot); got != inertia {
		t.Errorf("InertiaTensorAt(own pose) = %v, want %v exactly", got, inertia)
	}
}

func TestRigidBody_ParallelAxis(t *testing.T) {
	rb, err := NewRigidBody(linalg.Vector3{}, linalg.Identity(), 2, linalg.Identity())
	if err != nil {
		t.Fatalf("NewRigidBody failed: %v", err)
	}

	got := rb.InertiaTensorAt(linalg.Vector3{Z: 3}, linalg.Identity())
	want := linalg.Diagonal(19, 19, 1)
	if got != want {
		t.Errorf("InertiaTensorAt = %v, want %v", got, want)
	}

	off := rb.InertiaTensorAt(linalg.Vector3{X: 1, Y: 1}, linalg.Identity())
	if off[0][1] != -2 || off[1][0] != -2 {
		t.Errorf("off-diagonal products = %v, %v, want -2", off[0][1], off[1][0])
	}
}

func TestRigidBody_InertiaInRotatedAxes(t *testing.T) {
	rb, err := NewRigidBody(linalg.Vector3{}, linalg.Identity(), 1, linalg.Diagonal(1, 2, 3))
	if err != nil {
		t.Fatalf("NewRigidBody failed: %v", err)
	}

	quarter := linalg.FromAxisAngle(linalg.Vector3{Z: 1}, math.Pi/2)
	got := rb.InertiaTensorAt(linalg.Vector3{}, quarter)
	if want := linalg.Diagonal(2, 1, 3); !got.ApproxEqual(want, 1e-12) {
		t.Errorf("InertiaTensorAt = %v, want %v", got, want)
	}

	// Trace is invariant under the similarity transform.
	tilted := linalg.FromEuler(0.7, -0.3, 1.9)
	m := rb.InertiaTensorAt(linalg.Vector3{}, tilted)
	if tr := m[0][0] + m[1][1] + m[2][2]; math.Abs(tr-6) > 1e-12 {
		t.Errorf("trace = %v, want 6", tr)
	}
}
