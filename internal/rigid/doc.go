// Package rigid provides rigid-body state and dynamics.
//
// The package builds up from pose to dynamics:
//
//   - [Body]: position + orientation with rigid translate/rotate
//   - [RigidBody]: a Body with mass and a body-frame inertia tensor
//   - [MultiBody]: an ordered aggregate exposing composite mass properties
//   - [RotatingBody]: torque-free rotation integrated with Euler's equations
//   - [Shape]: a RigidBody with immutable [Geometry] for rendering
//
// # Stepping
//
// Aggregates implement [Stepper]; the driver calls TimeStep(dt) once per
// frame and reads [Drawable] transforms afterwards:
//
//	spin, _ := rigid.NewRotatingBody(shape.RigidBody, linalg.Vector3{X: 0.1, Y: 4})
//	for range frames {
//	    if err := spin.TimeStep(dt); err != nil {
//	        return err
//	    }
//	}
//
// # Thread Safety
//
// Nothing here is safe for concurrent use. Bodies shared between aggregates
// and joints are mutated in place; one simulation tick must finish before the
// next starts or any transform is read.
package rigid
