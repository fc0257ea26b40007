package export

import (
	"fmt"
	"strings"

	"github.com/san-kum/airtime/internal/analysis"
	"github.com/san-kum/airtime/internal/rigid"
	"github.com/san-kum/airtime/internal/viz"
)

// CanvasToSVG draws every lit dot of a braille canvas as a circle
func CanvasToSVG(canvas *viz.Canvas, scale float64) string {
	if canvas == nil {
		return ""
	}

	width := float64(canvas.Width) * scale * 2   // 2 sub-pixels per char
	height := float64(canvas.Height) * scale * 4 // 4 sub-pixels per char

	var sb strings.Builder

	// SVG header
	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%.0f" height="%.0f" viewBox="0 0 %.0f %.0f">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
<g fill="#00ff00">
`, width, height, width, height))

	dotRadius := scale * 0.4
	for y := 0; y < canvas.SubHeight(); y++ {
		for x := 0; x < canvas.SubWidth(); x++ {
			if canvas.IsSet(x, y) {
				fmt.Fprintf(&sb, `<circle cx="%.1f" cy="%.1f" r="%.1f"/>
`, float64(x)*scale+scale/2, float64(y)*scale+scale/2, dotRadius)
			}
		}
	}

	sb.WriteString("</g>\n</svg>")
	return sb.String()
}

// TrajectoryToSVG draws a phase portrait or any other 2D series as a path
func TrajectoryToSVG(points []analysis.Point, width, height int, strokeColor string) string {
	if len(points) < 2 {
		return ""
	}

	lo, hi := analysis.Extent(points)
	rangeX, rangeY := hi.X-lo.X, hi.Y-lo.Y

	var sb strings.Builder

	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
<path fill="none" stroke="%s" stroke-width="1.5" d="M`,
		width, height, width, height, strokeColor))

	for i, p := range points {
		x := (p.X - lo.X) / rangeX * float64(width)
		y := float64(height) - (p.Y-lo.Y)/rangeY*float64(height)

		if i == 0 {
			sb.WriteString(fmt.Sprintf("%.1f,%.1f", x, y))
		} else {
			sb.WriteString(fmt.Sprintf(" L%.1f,%.1f", x, y))
		}
	}

	sb.WriteString(`"/>
</svg>`)
	return sb.String()
}

// WireframeToSVG projects the triangle edges of each drawable through cam
// and draws them as lines in the drawable's color.
func WireframeToSVG(drawables []rigid.Drawable, cam *viz.Camera, width, height int) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
`, width, height, width, height)

	for _, d := range drawables {
		m := d.WorldTransform()
		mesh := d.Mesh()
		fmt.Fprintf(&sb, "<g stroke=\"%s\" stroke-width=\"1\">\n", colorHex(mesh.Color()))
		for _, e := range mesh.Edges() {
			a := m.Mul4x1(mesh.Point(e[0]).Vec().Vec4(1)).Vec3()
			b := m.Mul4x1(mesh.Point(e[1]).Vec().Vec4(1)).Vec3()
			x0, y0, _, ok0 := cam.Project(a, width, height)
			x1, y1, _, ok1 := cam.Project(b, width, height)
			if !ok0 || !ok1 {
				continue
			}
			fmt.Fprintf(&sb, "<line x1=\"%d\" y1=\"%d\" x2=\"%d\" y2=\"%d\"/>\n", x0, y0, x1, y1)
		}
		sb.WriteString("</g>\n")
	}

	sb.WriteString("</svg>")
	return sb.String()
}

func colorHex(c rigid.Color) string {
	channel := func(v float64) int { return int(min(max(v, 0), 1)*255 + 0.5) }
	return fmt.Sprintf("#%02x%02x%02x", channel(c.R), channel(c.G), channel(c.B))
}
