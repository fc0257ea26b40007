// Package linalg provides the 3D algebra used by the rigid-body engine.
//
// All types are small value types with float64 components:
//
//   - [Vector3]: 3-vector with the usual products
//   - [Matrix3x3]: row-major 3x3 matrix, used both for rotations and inertia tensors
//   - [Quaternion]: Hamilton quaternion (W scalar, X/Y/Z vector part)
//   - [RotationQuaternion]: unit quaternion built from an axis and an angle
//
// Operations that can fail numerically return an error instead of NaN:
//
//	n, err := v.Normalize()       // ErrZeroVector
//	inv, err := m.Inverse()        // ErrSingularMatrix
//
// Matrix3x3 and RotationQuaternion are interchangeable rotation representations,
// see [RotationQuaternion.Matrix] and [QuaternionFromMatrix].
package linalg
