// Package optim searches parameter grids for the lowest-scoring point.
package optim

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"
)

var ErrNoFeasiblePoint = errors.New("optim: no grid point could be evaluated")

// Objective scores one grid point; lower is better. A returned error marks
// the point infeasible and the search moves on.
type Objective func(ctx context.Context, params map[string]float64) (float64, error)

type GridSearch struct {
	paramNames []string
	ranges     [][]float64
}

// NewGridSearch pairs each parameter with the values to try for it.
func NewGridSearch(params []string, ranges [][]float64) (*GridSearch, error) {
	if len(params) != len(ranges) {
		return nil, fmt.Errorf("optim: %d parameters but %d ranges", len(params), len(ranges))
	}
	for i, r := range ranges {
		if len(r) == 0 {
			return nil, fmt.Errorf("optim: parameter %s has no values", params[i])
		}
	}
	return &GridSearch{paramNames: params, ranges: ranges}, nil
}

// Size is the number of grid points.
func (g *GridSearch) Size() int {
	n := 1
	for _, r := range g.ranges {
		n *= len(r)
	}
	return n
}

// Result is the lowest-scoring point and how many points were tried.
type Result struct {
	Best       map[string]float64
	Score      float64
	Evaluated  int
	Infeasible int
}

// Search scores every grid point with objective. Context cancellation stops
// the search and returns ctx.Err().
func (g *GridSearch) Search(ctx context.Context, objective Objective) (*Result, error) {
	res := &Result{Score: math.Inf(1)}
	if err := g.searchRecursive(ctx, 0, make(map[string]float64), objective, res); err != nil {
		return nil, err
	}
	if res.Best == nil {
		return res, ErrNoFeasiblePoint
	}
	return res, nil
}

func (g *GridSearch) searchRecursive(ctx context.Context, depth int, current map[string]float64, objective Objective, res *Result) error {
	if depth == len(g.paramNames) {
		if err := ctx.Err(); err != nil {
			return err
		}
		score, err := objective(ctx, current)
		if err != nil || math.IsNaN(score) {
			res.Infeasible++
			return nil
		}
		res.Evaluated++
		if score < res.Score {
			res.Score = score
			res.Best = copyParams(current)
		}
		return nil
	}

	name := g.paramNames[depth]
	for _, val := range g.ranges[depth] {
		next := copyParams(current)
		next[name] = val
		if err := g.searchRecursive(ctx, depth+1, next, objective, res); err != nil {
			return err
		}
	}
	return nil
}

func copyParams(p map[string]float64) map[string]float64 {
	c := make(map[string]float64, len(p))
	for k, v := range p {
		c[k] = v
	}
	return c
}

// Linspace returns n evenly spaced values from lo to hi inclusive.
func Linspace(lo, hi float64, n int) []float64 {
	switch {
	case n <= 0:
		return nil
	case n == 1:
		return []float64{lo}
	}
	vs := make([]float64, n)
	step := (hi - lo) / float64(n-1)
	for i := range vs {
		vs[i] = lo + float64(i)*step
	}
	vs[n-1] = hi
	return vs
}

// Names returns the parameter names of p in sorted order.
func Names(p map[string]float64) []string {
	names := make([]string, 0, len(p))
	for k := range p {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}
