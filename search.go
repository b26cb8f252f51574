package treetune

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
)

// Strategy names.
const (
	StrategyGrid   = "grid"
	StrategyRandom = "random"
	StrategyBayes  = "bayes"
)

// Progress phases.
const (
	PhaseEvaluation      = "Evaluation"
	PhaseInitialSampling = "InitialSampling"
	PhaseOptimization    = "Optimization"
)

// evaluator is the cross-validation loop shared by every strategy: it
// scores candidates, accumulates CVResults, tracks the best candidate,
// reports progress and refits at the end.
type evaluator struct {
	strategy string
	config   SearchConfig
	factory  Factory
	scorer   Scorer
	folds    []Fold
	X        [][]float64
	y        []int
	results  *CVResults
	start    time.Time

	bestParams Params
	bestScore  float64
}

func newEvaluator(strategy string, config SearchConfig, factory Factory, X [][]float64, y []int) (*evaluator, error) {
	if factory == nil {
		return nil, fmt.Errorf("%w: nil factory", ErrInvalidConfig)
	}

	if len(X) == 0 {
		return nil, fmt.Errorf("%w: no training rows", ErrShapeMismatch)
	}

	if len(X) != len(y) {
		return nil, fmt.Errorf("%w: %d rows, %d labels", ErrShapeMismatch, len(X), len(y))
	}

	scorer, err := GetScorer(config.Scoring)
	if err != nil {
		return nil, err
	}

	folds, err := StratifiedKFold{NSplits: config.CV}.Split(y)
	if err != nil {
		return nil, err
	}

	return &evaluator{
		strategy:  strategy,
		config:    config,
		factory:   factory,
		scorer:    scorer,
		folds:     folds,
		X:         X,
		y:         y,
		results:   &CVResults{},
		start:     time.Now(),
		bestScore: math.Inf(-1),
	}, nil
}

// evaluate cross-validates params and returns its mean test score.
func (e *evaluator) evaluate(ctx context.Context, phase string, iteration, total int, params Params) (float64, error) {
	scores, err := CrossValidate(
		ctx,
		e.factory,
		params,
		e.X,
		e.y,
		e.folds,
		e.scorer,
		e.config.ReturnTrainScore,
		e.config.NJobs,
	)
	if err != nil {
		return 0, fmt.Errorf("%s search, candidate %d %s: %w", e.strategy, iteration, params, err)
	}

	e.results.add(params, scores, e.config.ReturnTrainScore)

	score := e.results.MeanTestScore[e.results.Len()-1]
	if score > e.bestScore {
		e.bestScore = score
		e.bestParams = params
	}

	e.sendProgress(phase, iteration, total, params, score)

	return score, nil
}

// sendProgress never blocks the search.
func (e *evaluator) sendProgress(phase string, iteration, total int, params Params, score float64) {
	if e.config.ProgressChan == nil {
		return
	}

	update := ProgressUpdate{
		Strategy:         e.strategy,
		Phase:            phase,
		CurrentIteration: iteration,
		TotalIterations:  total,
		CurrentParams:    params.Clone(),
		CurrentScore:     score,
		BestParams:       e.bestParams.Clone(),
		BestScore:        e.bestScore,
	}

	select {
	case e.config.ProgressChan <- update:
	default:
		// Skip update if channel is full.
	}
}

// finish ranks the results and, if configured, refits the best candidate
// on all training rows.
func (e *evaluator) finish(ctx context.Context) (*SearchResult, error) {
	if e.results.Len() == 0 {
		return nil, ErrEmptyGrid
	}

	e.results.rank()
	best := e.results.best()

	res := &SearchResult{
		RunID:      uuid.NewString(),
		Strategy:   e.strategy,
		Scoring:    e.config.Scoring,
		CVResults:  e.results,
		BestIndex:  best,
		BestParams: e.results.Params[best],
		BestScore:  e.results.MeanTestScore[best],
	}

	if e.config.Refit {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		est, err := e.factory(res.BestParams)
		if err != nil {
			return nil, fmt.Errorf("refit %s: %w", res.BestParams, err)
		}

		if err := est.Fit(e.X, e.y); err != nil {
			return nil, fmt.Errorf("refit %s: %w", res.BestParams, err)
		}

		res.BestEstimator = est
	}

	res.Elapsed = time.Since(e.start)

	return res, nil
}
