package export

import (
	"bufio"
	"errors"
	"fmt"
	"io"

	"github.com/deadsy/sdfx/render"
	"github.com/deadsy/sdfx/sdf"
	v3 "github.com/deadsy/sdfx/vec/v3"
	"github.com/san-kum/airtime/internal/linalg"
	"github.com/san-kum/airtime/internal/rigid"
)

// DefaultMeshCells is the marching-cubes resolution along the longest side
// of the scene's bounding box.
const DefaultMeshCells = 96

var ErrNoSolids = errors.New("export: no drawable has a solid primitive")

// solid is a posed shape that knows its analytic primitive.
type solid interface {
	Primitive() rigid.Primitive
	Position() linalg.Vector3
	Orientation() linalg.Matrix3x3
}

// SceneSDF unions the primitives of every drawable into one signed distance
// field at their current poses. Mesh-only drawables are skipped.
func SceneSDF(drawables []rigid.Drawable) (sdf.SDF3, error) {
	var parts []sdf.SDF3
	for _, d := range drawables {
		s, ok := d.(solid)
		if !ok {
			continue
		}
		part, err := primitiveSDF(s.Primitive())
		if err != nil {
			return nil, err
		}
		if part == nil {
			continue
		}
		parts = append(parts, sdf.Transform3D(part, poseMatrix(s.Position(), s.Orientation())))
	}
	switch len(parts) {
	case 0:
		return nil, ErrNoSolids
	case 1:
		return parts[0], nil
	}
	return sdf.Union3D(parts...), nil
}

// primitiveSDF returns the solid centered at the origin in body coordinates,
// or nil for mesh-only shapes.
func primitiveSDF(p rigid.Primitive) (sdf.SDF3, error) {
	a, b, c := p.Dims[0], p.Dims[1], p.Dims[2]
	switch p.Kind {
	case rigid.Box:
		return sdf.Box3D(v3.Vec{X: a, Y: b, Z: c}, 0)
	case rigid.EllipticCylinder:
		if a == b {
			return sdf.Cylinder3D(c, a/2, 0)
		}
		s, err := sdf.Cylinder3D(c, 0.5, 0)
		if err != nil {
			return nil, err
		}
		return sdf.Transform3D(s, sdf.Scale3d(v3.Vec{X: a, Y: b, Z: 1})), nil
	case rigid.Ellipsoid:
		if a == b && b == c {
			return sdf.Sphere3D(a / 2)
		}
		s, err := sdf.Sphere3D(0.5)
		if err != nil {
			return nil, err
		}
		return sdf.Transform3D(s, sdf.Scale3d(v3.Vec{X: a, Y: b, Z: c})), nil
	}
	return nil, nil
}

// poseMatrix is translate(pos)·rot, with rot expressed as Rx·Ry·Rz.
func poseMatrix(pos linalg.Vector3, rot linalg.Matrix3x3) sdf.M44 {
	phi, theta, psi := rot.Euler()
	r := sdf.RotateX(phi).Mul(sdf.RotateY(theta)).Mul(sdf.RotateZ(psi))
	return sdf.Translate3d(v3.Vec{X: pos.X, Y: pos.Y, Z: pos.Z}).Mul(r)
}

// Triangle is one facet of a tessellated scene.
type Triangle struct {
	Normal   linalg.Vector3
	Vertices [3]linalg.Vector3
}

// Tessellate turns the scene's solids into triangles with marching cubes.
func Tessellate(drawables []rigid.Drawable, cells int) ([]Triangle, error) {
	if cells < 8 {
		return nil, fmt.Errorf("export: mesh resolution %d is too coarse", cells)
	}
	s, err := SceneSDF(drawables)
	if err != nil {
		return nil, err
	}

	mesh := render.ToTriangles(s, render.NewMarchingCubesUniform(cells))
	tris := make([]Triangle, 0, len(mesh))
	for _, tri := range mesh {
		n := tri.Normal()
		t := Triangle{Normal: linalg.Vector3{X: n.X, Y: n.Y, Z: n.Z}}
		for j := 0; j < 3; j++ {
			v := tri[j]
			t.Vertices[j] = linalg.Vector3{X: v.X, Y: v.Y, Z: v.Z}
		}
		tris = append(tris, t)
	}
	return tris, nil
}

// WriteSTL writes triangles as an ASCII STL solid.
func WriteSTL(w io.Writer, name string, tris []Triangle) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "solid %s\n", name)
	for _, t := range tris {
		fmt.Fprintf(bw, "  facet normal %g %g %g\n    outer loop\n", t.Normal.X, t.Normal.Y, t.Normal.Z)
		for _, v := range t.Vertices {
			fmt.Fprintf(bw, "      vertex %g %g %g\n", v.X, v.Y, v.Z)
		}
		fmt.Fprintf(bw, "    endloop\n  endfacet\n")
	}
	fmt.Fprintf(bw, "endsolid %s\n", name)
	return bw.Flush()
}
