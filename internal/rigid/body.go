package rigid

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/airtime/internal/linalg"
)

// Body is a pose in 3D space. The orientation is a rotation matrix mapping
// body-local axes to world axes.
type Body struct {
	position    linalg.Vector3
	orientation linalg.Matrix3x3
}

// NewBody returns a body at pos with orientation rot.
func NewBody(pos linalg.Vector3, rot linalg.Matrix3x3) Body {
	return Body{position: pos, orientation: rot}
}

// Origin returns a body at the origin with identity orientation.
func Origin() Body {
	return NewBody(linalg.Vector3{}, linalg.Identity())
}

func (b *Body) Position() linalg.Vector3      { return b.position }
func (b *Body) Orientation() linalg.Matrix3x3 { return b.orientation }
func (b *Body) Translate(v linalg.Vector3)    { b.position = b.position.Add(v) }
func (b *Body) WorldTransform() mgl64.Mat4    { return b.orientation.Mat4(b.position) }
func (b *Body) LocalToWorld(p linalg.Vector3) linalg.Vector3 {
	return b.orientation.MulVec(p).Add(b.position)
}

// Rotate applies r about pivot: the position swings around the pivot and r
// composes on the left of the orientation. r is assumed to be a rotation.
func (b *Body) Rotate(pivot linalg.Vector3, r linalg.Matrix3x3) {
	b.position = r.MulVec(b.position.Sub(pivot)).Add(pivot)
	b.orientation = r.Mul(b.orientation)
}

// Reorthonormalize removes accumulated roundoff from the orientation. Long
// runs that compose many small rotations should call it periodically.
func (b *Body) Reorthonormalize() error {
	r, err := b.orientation.Orthonormalize()
	if err != nil {
		return err
	}
	b.orientation = r
	return nil
}
