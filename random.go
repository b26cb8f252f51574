package treetune

import (
	"context"
	"fmt"
)

// RandomizedSearchCV evaluates a fixed budget of configurations sampled
// from a Space.
//
// When every dimension is finite (Choice or an integer ParameterRange) the
// configurations are drawn without replacement, and a budget larger than
// the space evaluates the whole space once. Otherwise each of the NIter
// configurations is drawn independently.
//
// Usage example:
//
//	search := NewRandomizedSearchCV(factory, Space{
//	    "criterion":        Choice{"gini", "entropy"},
//	    "max_depth":        ParameterRange[int]{Min: 2, Max: 20},
//	    "min_samples_leaf": ParameterRange[int]{Min: 1, Max: 50},
//	}, 20, DefaultSearchConfig())
//
//	result, err := search.Fit(ctx, X, y)
type RandomizedSearchCV struct {
	Factory Factory
	Space   Space
	NIter   int
	Config  SearchConfig
}

// NewRandomizedSearchCV returns a randomized search of nIter candidates.
func NewRandomizedSearchCV(factory Factory, space Space, nIter int, config SearchConfig) *RandomizedSearchCV {
	return &RandomizedSearchCV{Factory: factory, Space: space, NIter: nIter, Config: config}
}

// Candidates returns the configurations the search will evaluate. The
// draw is fully determined by Config.Seed.
func (s *RandomizedSearchCV) Candidates() ([]Params, error) {
	if s.NIter < 1 {
		return nil, fmt.Errorf("%w: n_iter must be positive, got %d", ErrInvalidConfig, s.NIter)
	}

	if err := s.Space.Validate(); err != nil {
		return nil, err
	}

	rng := newRand(s.Config.Seed)

	size := s.Space.Size()
	if size == 0 {
		out := make([]Params, s.NIter)
		for i := range out {
			out[i] = s.Space.Sample(rng)
		}

		return out, nil
	}

	if size <= s.NIter {
		out := make([]Params, size)
		for i, j := range rng.Perm(size) {
			out[i] = s.Space.At(j)
		}

		return out, nil
	}

	seen := make(map[int]struct{}, s.NIter)
	out := make([]Params, 0, s.NIter)

	for len(out) < s.NIter {
		j := rng.Intn(size)
		if _, dup := seen[j]; dup {
			continue
		}

		seen[j] = struct{}{}
		out = append(out, s.Space.At(j))
	}

	return out, nil
}

// Fit runs the search on the training data.
func (s *RandomizedSearchCV) Fit(ctx context.Context, X [][]float64, y []int) (*SearchResult, error) {
	candidates, err := s.Candidates()
	if err != nil {
		return nil, err
	}

	ev, err := newEvaluator(StrategyRandom, s.Config, s.Factory, X, y)
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
