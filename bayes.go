package treetune

import (
	"context"
	"fmt"
	"math"
)

// BayesConfig controls the sequential model-based part of BayesSearchCV.
//
// Default values recommendations:
// - InitialSamples: 5-10 (increase for a more stable initial model)
// - NumCandidates: 100-1000 (more = better choice per iteration, slower)
type BayesConfig struct {
	// InitialSamples is how many random points are evaluated before the
	// Gaussian process starts choosing.
	InitialSamples int

	// NumCandidates is how many random points the acquisition function
	// ranks at each iteration.
	NumCandidates int

	// AcquisitionFunc selects the next point. See UCB,
	// ProbabilityOfImprovement, ExpectedImprovement and ThompsonSampling.
	AcquisitionFunc AcquisitionFunc

	// AcqParams holds the parameters for the acquisition function.
	AcqParams AcquisitionParams

	// LengthScale is the RBF length scale over the unit hypercube.
	LengthScale float64

	// Noise is the observation noise added to the kernel diagonal.
	Noise float64
}

// DefaultBayesConfig returns a default configuration (UCB).
func DefaultBayesConfig() BayesConfig {
	return BayesConfig{
		InitialSamples:  5,
		NumCandidates:   200,
		AcquisitionFunc: UCB,
		AcqParams: AcquisitionParams{
			BestSoFar: math.MaxFloat64,
			Beta:      1.96,
			Xi:        0.01,
		},
		LengthScale: 0.25,
		Noise:       1e-4,
	}
}

// BayesSearchCV searches a Space with Bayesian optimization: a Gaussian
// process is fitted to the configurations evaluated so far and an
// acquisition function picks the next one.
//
// How it works:
// 1. Evaluates InitialSamples random configurations
// 2. For each following iteration:
//   - Draws NumCandidates random candidates not evaluated yet
//   - Predicts their objective (negated CV score) with the Gaussian process
//   - Evaluates the candidate with the lowest acquisition value
//   - Updates the model with the new result
//
// 3. Stops after NIter evaluations, or earlier when a finite space is
// exhausted
//
// Usage example:
//
//	search := NewBayesSearchCV(factory, Space{
//	    "max_depth":        ParameterRange[int]{Min: 2, Max: 30},
//	    "min_samples_leaf": ParameterRange[int]{Min: 1, Max: 100},
//	    "criterion":        Choice{"gini", "entropy"},
//	}, 30, DefaultSearchConfig())
//
//	search.Bayes.AcquisitionFunc = ExpectedImprovement
//	result, err := search.Fit(ctx, X, y)
type BayesSearchCV struct {
	Factory Factory
	Space   Space
	NIter   int
	Bayes   BayesConfig
	Config  SearchConfig
}

// NewBayesSearchCV returns a Bayesian search of nIter evaluations with
// DefaultBayesConfig.
func NewBayesSearchCV(factory Factory, space Space, nIter int, config SearchConfig) *BayesSearchCV {
	return &BayesSearchCV{
		Factory: factory,
		Space:   space,
		NIter:   nIter,
		Bayes:   DefaultBayesConfig(),
		Config:  config,
	}
}

// Fit runs the search on the training data.
func (s *BayesSearchCV) Fit(ctx context.Context, X [][]float64, y []int) (*SearchResult, error) {
	if s.NIter < 1 {
		return nil, fmt.Errorf("%w: n_iter must be positive, got %d", ErrInvalidConfig, s.NIter)
	}

	if err := s.Space.Validate(); err != nil {
		return nil, err
	}

	ev, err := newEvaluator(StrategyBayes, s.Config, s.Factory, X, y)
	if err != nil {
		return nil, err
	}

	cfg := s.Bayes
	if cfg.AcquisitionFunc == nil {
		cfg.AcquisitionFunc = UCB
	}

	if cfg.NumCandidates < 1 {
		cfg.NumCandidates = 1
	}

	rng := newRand(s.Config.Seed)
	if cfg.AcqParams.RandomState == nil {
		cfg.AcqParams.RandomState = newRand(s.Config.Seed + 1)
	}

	total := s.NIter
	if size := s.Space.Size(); size > 0 && size < total {
		total = size
	}

	gp := newGaussianProcess(cfg.LengthScale, cfg.Noise)
	seen := map[string]struct{}{}
	bestObjective := math.MaxFloat64

	// Draws a configuration not evaluated yet, giving up after a bounded
	// number of tries. Finite spaces are small enough for that to find
	// one while any remain.
	fresh := func() (Params, bool) {
		for try := 0; try < 100; try++ {
			p := s.Space.Sample(rng)
			if _, dup := seen[p.String()]; !dup {
				return p, true
			}
		}

		return nil, false
	}

	for i := 0; i < total; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		var (
			next  Params
			phase = PhaseInitialSampling
		)

		// Phase 1: initial random sampling.
		if i < cfg.InitialSamples || gp.Len() == 0 {
			next, _ = fresh()
		} else {
			// Phase 2: pick the most promising candidate.
			phase = PhaseOptimization
			cfg.AcqParams.BestSoFar = bestObjective
			bestAcquisition := math.Inf(1)

			for j := 0; j < cfg.NumCandidates; j++ {
				candidate, ok := fresh()
				if !ok {
					break
				}

				mean, variance := gp.Predict(s.Space.ToUnit(candidate))

				acquisition := cfg.AcquisitionFunc(mean, variance, cfg.AcqParams)
				if next == nil || acquisition < bestAcquisition {
					bestAcquisition = acquisition
					next = candidate
				}
			}
		}

		if next == nil {
			next = s.unseen(seen)
			if next == nil {
				break
			}
		}

		seen[next.String()] = struct{}{}

		score, err := ev.evaluate(ctx, phase, i+1, total, next)
		if err != nil {
			return nil, err
		}

		objective := -score
		if math.IsNaN(objective) {
			continue
		}

		gp.Update(s.Space.ToUnit(next), objective)

		if objective < bestObjective {
			bestObjective = objective
		}
	}

	return ev.finish(ctx)
}

// unseen scans a finite space for a point not evaluated yet.
func (s *BayesSearchCV) unseen(seen map[string]struct{}) Params {
	size := s.Space.Size()
	if size == 0 || size == math.MaxInt {
		return nil
	}

	for i := 0; i < size; i++ {
		p := s.Space.At(i)
		if _, dup := seen[p.String()]; !dup {
			return p
		}
	}

	return nil
}
