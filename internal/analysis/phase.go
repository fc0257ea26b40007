package analysis

import (
	"fmt"
	"strings"
)

// Point is one sample in a two-dimensional phase plane.
type Point struct{ X, Y float64 }

// PhasePortrait2D pairs two recorded series, for example ω_x against ω_y of
// a spinning box or a hinge angle against its rate.
type PhasePortrait2D struct {
	Points []Point
}

// NewPhasePortrait zips xs and ys, which must have equal length.
func NewPhasePortrait(xs, ys []float64) (*PhasePortrait2D, error) {
	if len(xs) != len(ys) {
		return nil, fmt.Errorf("analysis: phase portrait series differ in length: %d vs %d", len(xs), len(ys))
	}
	portrait := &PhasePortrait2D{Points: make([]Point, len(xs))}
	for i := range xs {
		portrait.Points[i] = Point{xs[i], ys[i]}
	}
	return portrait, nil
}

// ASCII plots the portrait on a width×height character grid, with axes
// where zero is in view. A nil or empty portrait renders as "".
func (p *PhasePortrait2D) ASCII(width, height int) string {
	if p == nil {
		return ""
	}
	return plotASCII(p.Points, width, height)
}

// Extent returns the bounding box of points grown by a tenth of its size on
// every side. A flat axis gets a unit size before padding.
func Extent(points []Point) (lo, hi Point) {
	if len(points) == 0 {
		return Point{}, Point{}
	}
	lo, hi = points[0], points[0]
	for _, p := range points[1:] {
		lo = Point{min(lo.X, p.X), min(lo.Y, p.Y)}
		hi = Point{max(hi.X, p.X), max(hi.Y, p.Y)}
	}
	pad := func(l, h float64) (float64, float64) {
		size := h - l
		if size == 0 {
			size = 1
		}
		return l - size*0.1, h + size*0.1
	}
	lo.X, hi.X = pad(lo.X, hi.X)
	lo.Y, hi.Y = pad(lo.Y, hi.Y)
	return lo, hi
}

func plotASCII(points []Point, width, height int) string {
	if len(points) == 0 || width < 2 || height < 2 {
		return ""
	}

	lo, hi := Extent(points)
	cell := func(v, lo, hi float64, n int) int { return int((v - lo) / (hi - lo) * float64(n-1)) }
	col := func(x float64) int { return cell(x, lo.X, hi.X, width) }
	row := func(y float64) int { return height - 1 - cell(y, lo.Y, hi.Y, height) }

	grid := make([][]rune, height)
	for r := range grid {
		grid[r] = []rune(strings.Repeat(" ", width))
	}
	put := func(r, c int, ch rune, over bool) {
		if r < 0 || r >= height || c < 0 || c >= width {
			return
		}
		if over || grid[r][c] == ' ' {
			grid[r][c] = ch
		}
	}

	for _, p := range points {
		put(row(p.Y), col(p.X), '•', true)
	}
	if lo.X <= 0 && hi.X >= 0 {
		for r := 0; r < height; r++ {
			put(r, col(0), '│', false)
		}
	}
	if lo.Y <= 0 && hi.Y >= 0 {
		for c := 0; c < width; c++ {
			put(row(0), c, '─', false)
		}
	}

	var sb strings.Builder
	for _, r := range grid {
		sb.WriteString(string(r))
		sb.WriteByte('\n')
	}
	return sb.String()
}

// PoincareSection holds the points where a trajectory crosses a level.
type PoincareSection struct {
	Points []Point
}

// NewPoincareSection samples (xs, ys) each time trigger crosses threshold
// upwards. The recorded point is interpolated linearly between the two
// samples that bracket the crossing.
func NewPoincareSection(trigger, xs, ys []float64, threshold float64) (*PoincareSection, error) {
	if len(trigger) != len(xs) || len(xs) != len(ys) {
		return nil, fmt.Errorf("analysis: poincare series differ in length: %d, %d, %d", len(trigger), len(xs), len(ys))
	}

	section := &PoincareSection{Points: make([]Point, 0)}
	for i := 1; i < len(trigger); i++ {
		prev, curr := trigger[i-1], trigger[i]
		if prev < threshold && curr >= threshold {
			frac := (threshold - prev) / (curr - prev)
			section.Points = append(section.Points, Point{
				X: xs[i-1] + frac*(xs[i]-xs[i-1]),
				Y: ys[i-1] + frac*(ys[i]-ys[i-1]),
			})
		}
	}
	return section, nil
}

// ASCII plots the crossings like a phase portrait.
func (s *PoincareSection) ASCII(width, height int) string {
	if s == nil || len(s.Points) == 0 {
		return "No crossings detected"
	}
	return plotASCII(s.Points, width, height)
}
