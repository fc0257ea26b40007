package rigid

import (
	"fmt"

	"github.com/san-kum/airtime/internal/linalg"
)

// RotatingBody integrates torque-free rotation of a single rigid body.
type RotatingBody struct {
	body  *RigidBody
	omega linalg.Vector3
}

// NewRotatingBody wraps body with initial angular velocity omega in rad/s.
func NewRotatingBody(body *RigidBody, omega linalg.Vector3) (*RotatingBody, error) {
	if body == nil {
		return nil, fmt.Errorf("%w: rotating body needs a rigid body", ErrInvalidConstruction)
	}
	if !omega.IsFinite() {
		return nil, fmt.Errorf("%w: angular velocity must be finite, got %v", ErrInvalidConstruction, omega)
	}
	return &RotatingBody{body: body, omega: omega}, nil
}

func (rb *RotatingBody) Body() *RigidBody                { return rb.body }
func (rb *RotatingBody) AngularVelocity() linalg.Vector3 { return rb.omega }

// inertia is the tensor about the center of mass in the body's current axes.
func (rb *RotatingBody) inertia() linalg.Matrix3x3 {
	return rb.body.InertiaTensorAt(rb.body.CenterOfMass(), rb.body.Orientation())
}

// TimeStep advances by dt with an explicit first-order step of Euler's
// equations without external torque:
//
//	ω ← ω − dt·I⁻¹·(ω × (I·ω))
//
// then rotates the body by |ω|·dt about ω through its center of mass. A zero
// dt is a no-op. Energy and momentum drift slowly over long runs.
func (rb *RotatingBody) TimeStep(dt float64) error {
	if err := ValidateTimeStep(dt); err != nil {
		return err
	}
	if dt == 0 {
		return nil
	}

	cm := rb.body.CenterOfMass()
	i := rb.inertia()
	inv, err := i.Inverse()
	if err != nil {
		return fmt.Errorf("rotating body inertia: %w", err)
	}

	w := rb.omega
	w = w.Sub(inv.MulVec(w.Cross(i.MulVec(w))).Scale(dt))
	if !w.IsFinite() {
		return ErrDiverged
	}

	rb.omega = w
	rb.body.Rotate(cm, linalg.FromAxisAngle(w, w.Length()*dt))
	return nil
}

// KineticEnergy returns ½·ωᵗ·I·ω.
func (rb *RotatingBody) KineticEnergy() float64 {
	return 0.5 * rb.omega.Dot(rb.inertia().MulVec(rb.omega))
}

// AngularMomentum returns I·ω.
func (rb *RotatingBody) AngularMomentum() linalg.Vector3 {
	return rb.inertia().MulVec(rb.omega)
}

// Translate, Rotate and the mass properties forward to the wrapped body so a
// RotatingBody can sit inside a MultiBody.
func (rb *RotatingBody) Translate(v linalg.Vector3) { rb.body.Translate(v) }
func (rb *RotatingBody) Mass() float64              { return rb.body.Mass() }
func (rb *RotatingBody) CenterOfMass() linalg.Vector3 {
	return rb.body.CenterOfMass()
}

func (rb *RotatingBody) Rotate(pivot linalg.Vector3, r linalg.Matrix3x3) {
	rb.body.Rotate(pivot, r)
}

func (rb *RotatingBody) InertiaTensorAt(pos linalg.Vector3, rot linalg.Matrix3x3) linalg.Matrix3x3 {
	return rb.body.InertiaTensorAt(pos, rot)
}
