package rigid

import (
	"errors"
	"math"
	"testing"

	"github.com/san-kum/airtime/internal/linalg"
)

func newSpinner(t *testing.T, inertia linalg.Matrix3x3, omega linalg.Vector3) *RotatingBody {
	t.Helper()
	body, err := NewRigidBody(linalg.Vector3{X: 1, Y: 2, Z: 3}, linalg.Identity(), 1, inertia)
	if err != nil {
		t.Fatalf("NewRigidBody failed: %v", err)
	}
	rb, err := NewRotatingBody(body, omega)
	if err != nil {
		t.Fatalf("NewRotatingBody failed: %v", err)
	}
	return rb
}

func TestRotatingBody_SphericalKeepsOmega(t *testing.T) {
	omega := linalg.Vector3{X: 0.3, Y: -1, Z: 2}
	rb := newSpinner(t, linalg.Diagonal(2, 2, 2), omega)

	for _, dt := range []float64{1e-3, 0.01, 0.5} {
		if err := rb.TimeStep(dt); err != nil {
			t.Fatalf("TimeStep(%v) failed: %v", dt, err)
		}
		if got := rb.AngularVelocity(); !got.ApproxEqual(omega, 1e-12) {
			t.Errorf("dt %v: omega = %v, want %v", dt, got, omega)
		}
	}
}

func TestRotatingBody_SteadySpinAccumulatesAngle(t *testing.T) {
	omega := linalg.Vector3{Z: 2}
	rb := newSpinner(t, linalg.Diagonal(1, 2, 3), omega)
	start := rb.Body().Position()

	const dt, steps = 0.01, 100
	for i := 0; i < steps; i++ {
		if err := rb.TimeStep(dt); err != nil {
			t.Fatalf("TimeStep failed: %v", err)
		}
	}

	want := linalg.FromAxisAngle(omega, 2*dt*steps)
	if got := rb.Body().Orientation(); !got.ApproxEqual(want, 1e-9) {
		t.Errorf("orientation = %v, want %v", got, want)
	}
	if got := rb.Body().Position(); !got.ApproxEqual(start, 1e-12) {
		t.Errorf("center of mass moved from %v to %v", start, got)
	}
	if got := rb.KineticEnergy(); math.Abs(got-6) > 1e-12 {
		t.Errorf("KineticEnergy = %v, want 6", got)
	}
	if got := rb.AngularMomentum(); !got.ApproxEqual(linalg.Vector3{Z: 6}, 1e-12) {
		t.Errorf("AngularMomentum = %v, want (0, 0, 6)", got)
	}
}

func TestRotatingBody_ZeroStepIsNoOp(t *testing.T) {
	omega := linalg.Vector3{X: 1, Y: 2, Z: 0.5}
	rb := newSpinner(t, linalg.Diagonal(1, 2, 3), omega)

	if err := rb.TimeStep(0); err != nil {
		t.Fatalf("TimeStep(0) failed: %v", err)
	}
	if rb.AngularVelocity() != omega {
		t.Errorf("omega changed: %v", rb.AngularVelocity())
	}
	if rb.Body().Orientation() != linalg.Identity() {
		t.Errorf("orientation changed: %v", rb.Body().Orientation())
	}
}

func TestRotatingBody_Errors(t *testing.T) {
	rb := newSpinner(t, linalg.Diagonal(1, 2, 3), linalg.Vector3{X: 1})
	for _, dt := range []float64{-0.01, math.NaN(), math.Inf(1)} {
		if err := rb.TimeStep(dt); !errors.Is(err, ErrInvalidTimeStep) {
			t.Errorf("dt %v: error = %v, want ErrInvalidTimeStep", dt, err)
		}
	}

	flat := newSpinner(t, linalg.Diagonal(1, 1, 0), linalg.Vector3{X: 1, Z: 1})
	before := flat.Body().Orientation()
	if err := flat.TimeStep(0.01); !errors.Is(err, ErrSingularMatrix) {
		t.Errorf("singular inertia error = %v, want ErrSingularMatrix", err)
	}
	if flat.Body().Orientation() != before {
		t.Error("failed step mutated the body")
	}

	if _, err := NewRotatingBody(nil, linalg.Vector3{}); !errors.Is(err, ErrInvalidConstruction) {
		t.Errorf("nil body error = %v, want ErrInvalidConstruction", err)
	}
}

func TestRotatingBody_AsymmetricEnergyDriftIsSmall(t *testing.T) {
	rb := newSpinner(t, linalg.Diagonal(1, 2, 3), linalg.Vector3{X: 0.1, Y: 0.2, Z: 1})
	e0 := rb.KineticEnergy()

	for i := 0; i < 1000; i++ {
		if err := rb.TimeStep(1e-4); err != nil {
			t.Fatalf("TimeStep failed: %v", err)
		}
	}
	if drift := math.Abs(rb.KineticEnergy()-e0) / e0; drift > 1e-3 {
		t.Errorf("relative energy drift = %v, want < 1e-3", drift)
	}
}
