package treetune

import (
	"context"
	"fmt"
	"sort"
)

// Grid maps each parameter name to the list of values to try. The search
// evaluates the cartesian product of all lists.
//
// Usage example:
//
//	grid := Grid{
//	    "criterion":        {"gini", "entropy"},
//	    "max_depth":        {2, 4, 6, nil},
//	    "min_samples_leaf": {1, 5, 10},
//	}
type Grid map[string][]any

// Keys returns the parameter names in sorted order.
func (g Grid) Keys() []string {
	keys := make([]string, 0, len(g))
	for k := range g {
		keys = append(keys, k)
	}

	sort.Strings(keys)

	return keys
}

// Size is the number of combinations in the grid.
func (g Grid) Size() int {
	return g.space().Size()
}

// Candidates enumerates every combination. Keys are iterated in sorted
// order and the last key varies fastest. An empty Grid yields a single
// empty assignment (the estimator defaults); an empty value list is an
// error.
func (g Grid) Candidates() ([]Params, error) {
	for _, k := range g.Keys() {
		if len(g[k]) == 0 {
			return nil, fmt.Errorf("%w: %q has no values", ErrEmptyGrid, k)
		}
	}

	if len(g) == 0 {
		return []Params{{}}, nil
	}

	s := g.space()
	n := s.Size()
	out := make([]Params, n)

	for i := range out {
		out[i] = s.At(i)
	}

	return out, nil
}

func (g Grid) space() Space {
	s := make(Space, len(g))
	for k, v := range g {
		s[k] = Choice(v)
	}

	return s
}

// GridSearchCV exhaustively evaluates every combination of a Grid with
// stratified cross-validation.
type GridSearchCV struct {
	Factory Factory
	Grid    Grid
	Config  SearchConfig
}

// NewGridSearchCV returns a grid search over grid.
func NewGridSearchCV(factory Factory, grid Grid, config SearchConfig) *GridSearchCV {
	return &GridSearchCV{Factory: factory, Grid: grid, Config: config}
}

// Fit runs the search on the training data.
func (s *GridSearchCV) Fit(ctx context.Context, X [][]float64, y []int) (*SearchResult, error) {
	candidates, err := s.Grid.Candidates()
	if err != nil {
		return nil, err
	}

	ev, err := newEvaluator(StrategyGrid, s.Config, s.Factory, X, y)
	if err != nil {
		return nil, err
	}

	for i, params := range candidates {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		if _, err := ev.evaluate(ctx, PhaseEvaluation, i+1, len(candidates), params); err != nil {
			return nil, err
		}
	}

	return ev.finish(ctx)
}
