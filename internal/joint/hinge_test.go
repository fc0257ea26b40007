package joint_test

import (
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/airtime/internal/joint"
	"github.com/san-kum/airtime/internal/linalg"
	"github.com/san-kum/airtime/internal/rigid"
)

var zAxis = linalg.Vector3{Z: 1}

func mustBody(pos linalg.Vector3, mass float64, inertia linalg.Matrix3x3) *rigid.RigidBody {
	b, err := rigid.NewRigidBody(pos, linalg.Identity(), mass, inertia)
	Expect(err).NotTo(HaveOccurred())
	return b
}

func expectMatrix(got, want linalg.Matrix3x3, tol float64) {
	Expect(got.ApproxEqual(want, tol)).To(BeTrue(), "got\n%v\nwant\n%v", got, want)
}

func expectVector(got, want linalg.Vector3, tol float64) {
	Expect(got.ApproxEqual(want, tol)).To(BeTrue(), "got %v, want %v", got, want)
}

var _ = Describe("HingeJoint", func() {
	Describe("construction", func() {
		var a, b *rigid.RigidBody

		BeforeEach(func() {
			a = mustBody(linalg.Vector3{Z: 1}, 1, linalg.Identity())
			b = mustBody(linalg.Vector3{Z: -1}, 1, linalg.Identity())
		})

		It("rejects a missing body", func() {
			_, err := joint.NewHingeJoint(linalg.Vector3{}, linalg.Identity(), a, nil, zAxis, 0)
			Expect(err).To(MatchError(rigid.ErrInvalidConstruction))
		})

		It("rejects a body joined to itself", func() {
			_, err := joint.NewHingeJoint(linalg.Vector3{}, linalg.Identity(), a, a, zAxis, 0)
			Expect(err).To(MatchError(rigid.ErrInvalidConstruction))
		})

		It("rejects a zero axis", func() {
			_, err := joint.NewHingeJoint(linalg.Vector3{}, linalg.Identity(), a, b, linalg.Vector3{}, 0)
			Expect(err).To(MatchError(rigid.ErrInvalidConstruction))
			Expect(err).To(MatchError(rigid.ErrZeroVector))
		})

		It("rejects an axis off the pivot z axis", func() {
			for _, axis := range []linalg.Vector3{{Y: 1}, {X: 1, Z: 1}, {Z: -1}} {
				_, err := joint.NewHingeJoint(linalg.Vector3{}, linalg.Identity(), a, b, axis, 0)
				Expect(err).To(MatchError(rigid.ErrInvalidConstruction), "axis %v", axis)
			}
		})

		It("accepts an axis matching a rotated pivot", func() {
			rot := linalg.FromAxisAngle(linalg.Vector3{X: 1}, math.Pi/2)
			h, err := joint.NewHingeJoint(linalg.Vector3{}, rot, a, b, linalg.Vector3{Y: 2}, 0)
			Expect(err).NotTo(HaveOccurred())
			expectVector(h.Axis, linalg.Vector3{Y: 1}, 1e-15)
		})

		It("normalizes the axis and keeps the angle", func() {
			h, err := joint.NewHingeJoint(linalg.Vector3{}, linalg.Identity(), a, b, linalg.Vector3{Z: 3}, 0.7)
			Expect(err).NotTo(HaveOccurred())
			Expect(h.Axis).To(Equal(zAxis))
			Expect(h.Angle()).To(Equal(0.7))
			Expect(h.Mass()).To(BeZero())
			Expect(h.Drawables()).To(BeEmpty())
		})
	})

	Describe("bending an axisymmetric pair", func() {
		var (
			first, second *rigid.RigidBody
			h             *joint.HingeJoint
		)

		BeforeEach(func() {
			// Pivot inertias diag(2, 2, 0.5) and diag(11, 11, 1): the hinge
			// impulse splits the bend 2:1 between the bodies.
			first = mustBody(linalg.Vector3{Z: 1}, 1, linalg.Diagonal(1, 1, 0.5))
			second = mustBody(linalg.Vector3{Z: -2}, 2, linalg.Diagonal(3, 3, 1))
			var err error
			h, err = joint.NewHingeJoint(linalg.Vector3{}, linalg.Identity(), first, second, zAxis, 0)
			Expect(err).NotTo(HaveOccurred())
		})

		It("splits the rotation by inertia", func() {
			Expect(h.Bend(0.3)).To(Succeed())

			expectMatrix(first.Orientation(), linalg.FromAxisAngle(zAxis, -0.2), 1e-12)
			expectMatrix(second.Orientation(), linalg.FromAxisAngle(zAxis, 0.1), 1e-12)
			expectVector(first.Position(), linalg.Vector3{Z: 1}, 1e-12)
			expectVector(second.Position(), linalg.Vector3{Z: -2}, 1e-12)
			Expect(h.Angle()).To(BeNumerically("~", 0.3, 1e-15))
		})

		It("returns to the start after bending back", func() {
			Expect(h.Bend(0.8)).To(Succeed())
			Expect(h.Bend(-0.8)).To(Succeed())

			expectMatrix(first.Orientation(), linalg.Identity(), 1e-12)
			expectMatrix(second.Orientation(), linalg.Identity(), 1e-12)
			expectMatrix(h.Orientation(), linalg.Identity(), 1e-12)
			Expect(h.Angle()).To(BeNumerically("~", 0, 1e-15))
		})

		It("treats a zero bend as a no-op", func() {
			Expect(h.Bend(0)).To(Succeed())
			Expect(first.Orientation()).To(Equal(linalg.Identity()))
			Expect(second.Orientation()).To(Equal(linalg.Identity()))
			Expect(h.Angle()).To(BeZero())
		})

		It("rejects a non-finite bend without moving anything", func() {
			Expect(h.Bend(math.NaN())).To(MatchError(joint.ErrInvalidAngle))
			Expect(h.Bend(math.Inf(-1))).To(MatchError(joint.ErrInvalidAngle))
			Expect(first.Orientation()).To(Equal(linalg.Identity()))
			Expect(h.Angle()).To(BeZero())
		})
	})

	Describe("bending the gymnast", func() {
		var (
			trunk, limb *rigid.Shape
			h           *joint.HingeJoint
			pivot       = linalg.Vector3{X: 0.5, Y: -3.5, Z: 4}
		)

		build := func() {
			var err error
			trunk, err = rigid.NewCuboid(1, 8, 8, rigid.Color{G: 0.5, B: 1}, linalg.Vector3{}, linalg.Identity())
			Expect(err).NotTo(HaveOccurred())
			limb, err = rigid.NewCuboid(4, 1, 1, rigid.Color{G: 0.5}, linalg.Vector3{X: 2.5, Y: -3.5, Z: 4.5}, linalg.Identity())
			Expect(err).NotTo(HaveOccurred())
			h, err = joint.NewCylinderHinge(1, 1, rigid.Color{R: 1}, pivot, linalg.Identity(),
				limb.RigidBody, trunk.RigidBody, zAxis, math.Pi/2)
			Expect(err).NotTo(HaveOccurred())
		}

		BeforeEach(build)

		It("keeps the pivot and the attachment distances fixed", func() {
			dLimb := limb.Position().Sub(pivot).Length()
			dTrunk := trunk.Position().Sub(pivot).Length()

			for i := 0; i < 100; i++ {
				Expect(h.Bend(-0.01)).To(Succeed())
			}

			Expect(h.Position()).To(Equal(pivot))
			Expect(limb.Position().Sub(pivot).Length()).To(BeNumerically("~", dLimb, 1e-9))
			Expect(trunk.Position().Sub(pivot).Length()).To(BeNumerically("~", dTrunk, 1e-9))
			Expect(h.Angle()).To(BeNumerically("~", math.Pi/2-1, 1e-12))
		})

		It("produces exactly the requested relative rotation", func() {
			Expect(h.Bend(-0.01)).To(Succeed())

			relative := limb.Orientation().Transpose().Mul(trunk.Orientation())
			expectMatrix(relative, linalg.FromAxisAngle(h.Axis, -0.01), 1e-12)
			Expect(limb.Orientation().IsRotation(1e-12)).To(BeTrue())
			Expect(trunk.Orientation().IsRotation(1e-12)).To(BeTrue())
		})

		It("carries the marker with the pivot", func() {
			Expect(h.Bend(0.2)).To(Succeed())

			m := h.Marker()
			Expect(m).NotTo(BeNil())
			expectVector(m.Position(), pivot, 1e-12)
			expectMatrix(m.Orientation(), h.Orientation(), 1e-15)
		})

		// The pivot-frame inertia changes as the limb swings, so bending back
		// leaves an orientation error that grows with the square of the bend.
		It("undoes a bend only to second order", func() {
			roundTrip := func(theta float64) float64 {
				build()
				Expect(h.Bend(theta)).To(Succeed())
				Expect(h.Bend(-theta)).To(Succeed())
				Expect(h.Position()).To(Equal(pivot))
				Expect(h.Angle()).To(BeNumerically("~", math.Pi/2, 1e-12))
				worst := 0.0
				for i := 0; i < 3; i++ {
					for j := 0; j < 3; j++ {
						worst = math.Max(worst, math.Abs(limb.Orientation()[i][j]-linalg.Identity()[i][j]))
					}
				}
				return worst
			}

			Expect(roundTrip(1e-3)).To(BeNumerically("<", 1e-6))
			small, medium, large := roundTrip(0.1), roundTrip(0.5), roundTrip(1.0)
			Expect(small).To(BeNumerically("<", 2e-3))
			Expect(medium).To(BeNumerically(">", small))
			Expect(large).To(BeNumerically(">", medium))
			Expect(large).To(BeNumerically(">", 1e-3))
		})

		It("joins a multibody as a massive, drawable member", func() {
			mb, err := rigid.NewMultiBody(limb, trunk, h)
			Expect(err).NotTo(HaveOccurred())
			Expect(mb.Mass()).To(BeNumerically("~", 64+4+math.Pi, 1e-12))
			Expect(mb.Drawables()).To(HaveLen(3))
		})
	})

	Describe("degenerate configurations", func() {
		It("refuses a bend between identical bodies", func() {
			a := mustBody(linalg.Vector3{Z: 1}, 1, linalg.Diagonal(1, 1, 0.5))
			b := mustBody(linalg.Vector3{Z: 1}, 1, linalg.Diagonal(1, 1, 0.5))
			h, err := joint.NewHingeJoint(linalg.Vector3{}, linalg.Identity(), a, b, zAxis, 1)
			Expect(err).NotTo(HaveOccurred())

			Expect(h.Bend(0.1)).To(MatchError(joint.ErrDegenerateJoint))
			Expect(h.Angle()).To(Equal(1.0))
			Expect(a.Orientation()).To(Equal(linalg.Identity()))
			Expect(b.Orientation()).To(Equal(linalg.Identity()))
		})
	})

	Describe("drive", func() {
		var h *joint.HingeJoint

		BeforeEach(func() {
			first := mustBody(linalg.Vector3{Z: 1}, 1, linalg.Diagonal(1, 1, 0.5))
			second := mustBody(linalg.Vector3{Z: -2}, 2, linalg.Diagonal(3, 3, 1))
			var err error
			h, err = joint.NewHingeJoint(linalg.Vector3{}, linalg.Identity(), first, second, zAxis, 0)
			Expect(err).NotTo(HaveOccurred())
		})

		It("does nothing until configured", func() {
			Expect(h.TimeStep(0.1)).To(Succeed())
			Expect(h.Angle()).To(BeZero())
		})

		It("validates its parameters", func() {
			Expect(h.SetDrive(1, 0.5, 0.5)).To(MatchError(joint.ErrInvalidDrive))
			Expect(h.SetDrive(math.NaN(), 0, 1)).To(MatchError(joint.ErrInvalidDrive))
			Expect(h.TimeStep(-1)).To(MatchError(rigid.ErrInvalidTimeStep))
		})

		It("sweeps back and forth between the limits", func() {
			Expect(h.SetDrive(1, 0, 0.05)).To(Succeed())

			reversed := false
			for i := 0; i < 20; i++ {
				Expect(h.TimeStep(0.01)).To(Succeed())
				Expect(h.Angle()).To(BeNumerically(">=", -1e-12))
				Expect(h.Angle()).To(BeNumerically("<=", 0.05+1e-12))
				if h.DriveRate() < 0 {
					reversed = true
				}
			}
			Expect(reversed).To(BeTrue())
		})
	})
})

var _ = Describe("unsolved joints", func() {
	var a, b *rigid.RigidBody

	BeforeEach(func() {
		a = mustBody(linalg.Vector3{X: 1}, 1, linalg.Identity())
		b = mustBody(linalg.Vector3{X: -1}, 1, linalg.Identity())
	})

	It("reports saddle bends as not implemented", func() {
		s, err := joint.NewSaddleJoint(linalg.Vector3{}, linalg.Identity(), a, b, linalg.Vector3{X: 1}, linalg.Vector3{Y: 1})
		Expect(err).NotTo(HaveOccurred())
		Expect(s.Bend(0.1, 0.2)).To(MatchError(joint.ErrNotImplemented))
	})

	It("reports ball bends as not implemented", func() {
		j, err := joint.NewBallJoint(linalg.Vector3{}, linalg.Identity(), a, b)
		Expect(err).NotTo(HaveOccurred())
		Expect(j.Bend(0.1, 0.2, 0.3)).To(MatchError(joint.ErrNotImplemented))
	})
})
