package export

import (
	"bytes"
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/san-kum/airtime/internal/config"
	"github.com/san-kum/airtime/internal/linalg"
	"github.com/san-kum/airtime/internal/rigid"
	"github.com/san-kum/airtime/internal/scene"
)

func TestTessellate_PosedBox(t *testing.T) {
	rot := linalg.FromAxisAngle(linalg.Vector3{Z: 1}, math.Pi/2)
	box, err := rigid.NewCuboid(4, 1, 1, rigid.Color{R: 1}, linalg.Vector3{X: 1, Y: 2, Z: 3}, rot)
	if err != nil {
		t.Fatal(err)
	}

	tris, err := Tessellate([]rigid.Drawable{box}, 64)
	if err != nil {
		t.Fatalf("Tessellate failed: %v", err)
	}
	if len(tris) == 0 {
		t.Fatal("no triangles")
	}

	lo := linalg.Vector3{X: math.Inf(1), Y: math.Inf(1), Z: math.Inf(1)}
	hi := lo.Neg()
	for _, tri := range tris {
		for _, v := range tri.Vertices {
			lo = linalg.Vector3{X: math.Min(lo.X, v.X), Y: math.Min(lo.Y, v.Y), Z: math.Min(lo.Z, v.Z)}
			hi = linalg.Vector3{X: math.Max(hi.X, v.X), Y: math.Max(hi.Y, v.Y), Z: math.Max(hi.Z, v.Z)}
		}
	}

	// the long edge now runs along world y
	wantLo := linalg.Vector3{X: 0.5, Y: 0, Z: 2.5}
	wantHi := linalg.Vector3{X: 1.5, Y: 4, Z: 3.5}
	if !lo.ApproxEqual(wantLo, 0.15) || !hi.ApproxEqual(wantHi, 0.15) {
		t.Errorf("bounds = %v .. %v, want %v .. %v", lo, hi, wantLo, wantHi)
	}
}

func TestTessellate_Gymnast(t *testing.T) {
	g, err := scene.NewGymnast(config.DefaultConfig().Gymnast)
	if err != nil {
		t.Fatal(err)
	}
	tris, err := Tessellate(g.Drawables(), 48)
	if err != nil {
		t.Fatalf("Tessellate failed: %v", err)
	}
	if len(tris) < 100 {
		t.Errorf("only %d triangles for three solids", len(tris))
	}
}

func TestTessellate_Errors(t *testing.T) {
	if _, err := Tessellate(nil, 32); !errors.Is(err, ErrNoSolids) {
		t.Errorf("error = %v, want ErrNoSolids", err)
	}

	body, _ := rigid.NewRigidBody(linalg.Vector3{}, linalg.Identity(), 1, linalg.Identity())
	geom, _ := rigid.NewGeometry([]linalg.Vector3{{}, {X: 1}, {Y: 1}}, [][3]int{{0, 1, 2}}, rigid.Color{})
	meshOnly, err := rigid.NewShape(body, geom)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := Tessellate([]rigid.Drawable{meshOnly}, 32); !errors.Is(err, ErrNoSolids) {
		t.Errorf("mesh-only error = %v, want ErrNoSolids", err)
	}

	box, _ := rigid.NewCuboid(1, 1, 1, rigid.Color{}, linalg.Vector3{}, linalg.Identity())
	if _, err := Tessellate([]rigid.Drawable{box}, 2); err == nil {
		t.Error("expected error for coarse resolution")
	}
}

func TestWriteSTL(t *testing.T) {
	tris := []Triangle{{
		Normal:   linalg.Vector3{Z: 1},
		Vertices: [3]linalg.Vector3{{}, {X: 1}, {Y: 1}},
	}}
	var buf bytes.Buffer
	if err := WriteSTL(&buf, "pose", tris); err != nil {
		t.Fatalf("WriteSTL failed: %v", err)
	}
	out := buf.String()
	if !strings.HasPrefix(out, "solid pose\n") || !strings.HasSuffix(out, "endsolid pose\n") {
		t.Errorf("bad framing: %q", out)
	}
	if strings.Count(out, "vertex ") != 3 || !strings.Contains(out, "facet normal 0 0 1") {
		t.Errorf("bad facet: %q", out)
	}
}
