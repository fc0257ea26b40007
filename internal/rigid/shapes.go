package rigid

import (
	"fmt"
	"math"

	"github.com/san-kum/airtime/internal/linalg"
)

const segments = 24

// PrimitiveKind names the solid a shape was built from.
type PrimitiveKind int

const (
	MeshOnly PrimitiveKind = iota
	Box
	EllipticCylinder
	Ellipsoid
)

// Primitive is the analytic solid behind a shape's mesh, in body
// coordinates. Dims are full extents along local x, y and z.
type Primitive struct {
	Kind PrimitiveKind
	Dims [3]float64
}

// Shape is a simulated, renderable body: physics and geometry side by side.
type Shape struct {
	*RigidBody
	geometry  Geometry
	primitive Primitive
}

// NewShape pairs a rigid body with its mesh.
func NewShape(body *RigidBody, geometry Geometry) (*Shape, error) {
	if body == nil {
		return nil, fmt.Errorf("%w: shape needs a rigid body", ErrInvalidConstruction)
	}
	return &Shape{RigidBody: body, geometry: geometry}, nil
}

func (s *Shape) Mesh() Geometry       { return s.geometry }
func (s *Shape) Primitive() Primitive { return s.primitive }

// NewCuboid builds a unit-density box with edge lengths a, b, c.
func NewCuboid(a, b, c float64, color Color, pos linalg.Vector3, rot linalg.Matrix3x3) (*Shape, error) {
	if err := positiveDims(a, b, c); err != nil {
		return nil, err
	}
	m := a * b * c
	inertia := linalg.Diagonal((b*b+c*c)/12, (a*a+c*c)/12, (a*a+b*b)/12).Scale(m)

	x, y, z := a/2, b/2, c/2
	points := []linalg.Vector3{
		{X: -x, Y: -y, Z: z}, {X: x, Y: -y, Z: z}, {X: x, Y: y, Z: z}, {X: -x, Y: y, Z: z},
		{X: -x, Y: y, Z: -z}, {X: -x, Y: -y, Z: -z}, {X: x, Y: -y, Z: -z}, {X: x, Y: y, Z: -z},
	}
	triangles := [][3]int{
		{0, 2, 3}, {0, 1, 2}, {1, 7, 2}, {1, 6, 7}, {6, 5, 4}, {4, 7, 6},
		{3, 4, 5}, {3, 5, 0}, {3, 7, 4}, {3, 2, 7}, {0, 6, 1}, {0, 5, 6},
	}
	return buildShape(pos, rot, m, inertia, points, triangles, color, Primitive{Box, [3]float64{a, b, c}})
}

// NewCylinder builds an elliptic cylinder drawn with diameters a, b along the
// local x and y axes and height h along local z. Its mass is π·a·b·h, the
// volume of a cylinder with radii a and b, so the drawn solid is not of unit
// density; the inertia follows the same mass.
func NewCylinder(a, b, h float64, color Color, pos linalg.Vector3, rot linalg.Matrix3x3) (*Shape, error) {
	if err := positiveDims(a, b, h); err != nil {
		return nil, err
	}
	m := math.Pi * a * b * h
	inertia := linalg.Diagonal(b*b/4+h*h/3, a*a/4+h*h/3, (a*a+b*b)/4).Scale(m)

	x, y, z := a/2, b/2, h/2
	points := make([]linalg.Vector3, 0, 2*segments+2)
	for i := 0; i < segments; i++ {
		s, c := math.Sincos(2 * math.Pi * float64(i) / segments)
		points = append(points, linalg.Vector3{X: x * c, Y: y * s, Z: z})
	}
	for i := 0; i < segments; i++ {
		s, c := math.Sincos(2 * math.Pi * (float64(i) + 0.5) / segments)
		points = append(points, linalg.Vector3{X: x * c, Y: y * s, Z: -z})
	}
	top, bottom := 2*segments, 2*segments+1
	points = append(points, linalg.Vector3{Z: z}, linalg.Vector3{Z: -z})

	triangles := make([][3]int, 0, 4*segments)
	for i := 0; i < segments; i++ {
		next := (i + 1) % segments
		triangles = append(triangles,
			[3]int{next, i, i + segments},
			[3]int{i + segments, next + segments, next},
			[3]int{i, next, top},
			[3]int{next + segments, i + segments, bottom},
		)
	}
	return buildShape(pos, rot, m, inertia, points, triangles, color, Primitive{EllipticCylinder, [3]float64{a, b, h}})
}

// NewEllipsoid builds an ellipsoid drawn with diameters a, b, c. Its mass is
// ¾·π·a·b·c, which treats the dimensions as radii, so the drawn solid is not of
// unit density.
func NewEllipsoid(a, b, c float64, color Color, pos linalg.Vector3, rot linalg.Matrix3x3) (*Shape, error) {
	if err := positiveDims(a, b, c); err != nil {
		return nil, err
	}
	m := 0.75 * math.Pi * a * b * c
	inertia := linalg.Diagonal(b*b+c*c, a*a+c*c, a*a+b*b).Scale(0.4 * m)

	const rings = 12
	x, y, z := a/2, b/2, c/2
	points := make([]linalg.Vector3, 0, segments*rings)
	for i := 0; i < segments; i++ {
		for j := 0; j < rings; j++ {
			polar := math.Pi * float64(j) / (rings - 1)
			azimuth := 2 * math.Pi * (float64(i) + float64(j)/2) / segments
			sp, cp := math.Sincos(polar)
			sa, ca := math.Sincos(azimuth)
			points = append(points, linalg.Vector3{X: x * sp * ca, Y: y * sp * sa, Z: z * cp})
		}
	}
	triangles := make([][3]int, 0, 2*segments*rings)
	for i := 0; i < segments; i++ {
		ni := (i + 1) % segments
		for j := 0; j < rings; j++ {
			nj := (j + 1) % rings
			triangles = append(triangles,
				[3]int{ni*rings + j, i*rings + j, i*rings + nj},
				[3]int{ni*rings + nj, ni*rings + j, i*rings + nj},
			)
		}
	}
	return buildShape(pos, rot, m, inertia, points, triangles, color, Primitive{Ellipsoid, [3]float64{a, b, c}})
}

func buildShape(pos linalg.Vector3, rot linalg.Matrix3x3, mass float64, inertia linalg.Matrix3x3, points []linalg.Vector3, triangles [][3]int, color Color, prim Primitive) (*Shape, error) {
	body, err := NewRigidBody(pos, rot, mass, inertia)
	if err != nil {
		return nil, err
	}
	geometry, err := NewGeometry(points, triangles, color)
	if err != nil {
		return nil, err
	}
	shape, err := NewShape(body, geometry)
	if err != nil {
		return nil, err
	}
	shape.primitive = prim
	return shape, nil
}

func positiveDims(dims ...float64) error {
	for _, d := range dims {
		if d <= 0 || math.IsNaN(d) || math.IsInf(d, 0) {
			return fmt.Errorf("%w: dimensions must be positive and finite, got %v", ErrInvalidConstruction, dims)
		}
	}
	return nil
}
