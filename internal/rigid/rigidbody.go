package rigid

import (
	"fmt"
	"math"

	"github.com/san-kum/airtime/internal/linalg"
)

// RigidBody is a Body with mass and an inertia tensor. The tensor is taken
// about the body's own position and expressed in its local axes; both mass
// properties are fixed at construction.
type RigidBody struct {
	Body
	mass    float64
	inertia linalg.Matrix3x3
}

// NewRigidBody returns a rigid body. The mass must be positive and finite.
func NewRigidBody(pos linalg.Vector3, rot linalg.Matrix3x3, mass float64, inertia linalg.Matrix3x3) (*RigidBody, error) {
	if mass <= 0 || math.IsNaN(mass) || math.IsInf(mass, 0) {
		return nil, fmt.Errorf("%w: mass must be positive and finite, got %v", ErrInvalidConstruction, mass)
	}
	return &RigidBody{Body: NewBody(pos, rot), mass: mass, inertia: inertia}, nil
}

func (r *RigidBody) Mass() float64                 { return r.mass }
func (r *RigidBody) BodyInertia() linalg.Matrix3x3 { return r.inertia }
func (r *RigidBody) CenterOfMass() linalg.Vector3  { return r.position }

// InertiaTensorAt returns the tensor seen from origin pos with orientation
// rot. The body tensor is carried over by the similarity transform
// ΔR·I·ΔRᵗ with ΔR = rot·orientationᵗ, then shifted with the parallel axis
// term m(|Δp|²·1 − Δp⊗Δp) for Δp = pos − position.
func (r *RigidBody) InertiaTensorAt(pos linalg.Vector3, rot linalg.Matrix3x3) linalg.Matrix3x3 {
	rotated := r.inertia
	if rot != r.orientation {
		dr := rot.Mul(r.orientation.Transpose())
		rotated = dr.Mul(r.inertia).Mul(dr.Transpose())
	}
	dp := pos.Sub(r.position)
	if dp.IsZero() {
		return rotated
	}
	shift := linalg.Identity().Scale(dp.Dot(dp)).Sub(dp.Outer(dp)).Scale(r.mass)
	return rotated.Add(shift)
}
