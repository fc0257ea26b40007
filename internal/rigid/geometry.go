package rigid

import (
	"fmt"
	"math"

	"github.com/san-kum/airtime/internal/linalg"
)

// Color is a flat RGB color with components in [0, 1].
type Color struct {
	R, G, B float64
}

// Geometry is an immutable triangle mesh in body-local coordinates.
type Geometry struct {
	points    []linalg.Vector3
	triangles [][3]int
	color     Color
}

// NewGeometry validates and copies the mesh.
func NewGeometry(points []linalg.Vector3, triangles [][3]int, color Color) (Geometry, error) {
	if len(points) < 3 {
		return Geometry{}, fmt.Errorf("%w: geometry needs at least 3 points, got %d", ErrInvalidConstruction, len(points))
	}
	if len(triangles) == 0 {
		return Geometry{}, fmt.Errorf("%w: geometry needs at least one triangle", ErrInvalidConstruction)
	}
	for i, p := range points {
		if !p.IsFinite() {
			return Geometry{}, fmt.Errorf("%w: point %d is not finite", ErrInvalidConstruction, i)
		}
	}
	for i, tri := range triangles {
		for _, idx := range tri {
			if idx < 0 || idx >= len(points) {
				return Geometry{}, fmt.Errorf("%w: triangle %d references point %d of %d", ErrInvalidConstruction, i, idx, len(points))
			}
		}
		if tri[0] == tri[1] || tri[1] == tri[2] || tri[0] == tri[2] {
			return Geometry{}, fmt.Errorf("%w: triangle %d repeats a vertex", ErrInvalidConstruction, i)
		}
	}
	for _, c := range []float64{color.R, color.G, color.B} {
		if c < 0 || c > 1 || math.IsNaN(c) {
			return Geometry{}, fmt.Errorf("%w: color %+v out of range", ErrInvalidConstruction, color)
		}
	}

	g := Geometry{
		points:    make([]linalg.Vector3, len(points)),
		triangles: make([][3]int, len(triangles)),
		color:     color,
	}
	copy(g.points, points)
	copy(g.triangles, triangles)
	return g, nil
}

func (g Geometry) NumPoints() int             { return len(g.points) }
func (g Geometry) NumTriangles() int          { return len(g.triangles) }
func (g Geometry) Point(i int) linalg.Vector3 { return g.points[i] }
func (g Geometry) Triangle(i int) [3]int      { return g.triangles[i] }
func (g Geometry) Color() Color               { return g.color }

// Edges returns each triangle edge once, as index pairs with the smaller
// index first.
func (g Geometry) Edges() [][2]int {
	seen := make(map[[2]int]struct{}, len(g.triangles)*3)
	edges := make([][2]int, 0, len(g.triangles)*3/2)
	for _, tri := range g.triangles {
		for k := 0; k < 3; k++ {
			a, b := tri[k], tri[(k+1)%3]
			if a > b {
				a, b = b, a
			}
			e := [2]int{a, b}
			if _, ok := seen[e]; ok {
				continue
			}
			seen[e] = struct{}{}
			edges = append(edges, e)
		}
	}
	return edges
}

// FaceNormal returns the unnormalized normal (p1−p0)×(p2−p0) of triangle i.
func (g Geometry) FaceNormal(i int) linalg.Vector3 {
	t := g.triangles[i]
	p0 := g.points[t[0]]
	return g.points[t[1]].Sub(p0).Cross(g.points[t[2]].Sub(p0))
}
