package treetune

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"
)

// Fold is one train/test partition of the sample indices.
type Fold struct {
	Train []int
	Test  []int
}

// FoldScore is the outcome of fitting and scoring one fold.
type FoldScore struct {
	Test    float64
	Train   float64
	FitTime time.Duration
}

// StratifiedKFold splits samples into NSplits folds that preserve the class
// proportions of y.
type StratifiedKFold struct {
	NSplits int

	// Shuffle permutes each class before assignment, using Seed.
	Shuffle bool
	Seed    int64
}

// Split returns NSplits folds. Samples of each class are dealt to the folds
// in turn, continuing where the previous class stopped, so fold sizes
// differ by at most one.
func (k StratifiedKFold) Split(y []int) ([]Fold, error) {
	if k.NSplits < 2 {
		return nil, fmt.Errorf("%w: need at least 2 folds, got %d", ErrInvalidConfig, k.NSplits)
	}

	if len(y) < k.NSplits {
		return nil, fmt.Errorf("%w: %d folds for %d samples", ErrInvalidConfig, k.NSplits, len(y))
	}

	byClass := map[int][]int{}
	for i, c := range y {
		byClass[c] = append(byClass[c], i)
	}

	classes := make([]int, 0, len(byClass))
	for c := range byClass {
		classes = append(classes, c)
	}

	sort.Ints(classes)

	rng := newRand(k.Seed)
	assign := make([]int, len(y))
	pos := 0

	for _, c := range classes {
		members := byClass[c]
		if k.Shuffle {
			rng.Shuffle(len(members), func(i, j int) {
				members[i], members[j] = members[j], members[i]
			})
		}

		for _, i := range members {
			assign[i] = pos % k.NSplits
			pos++
		}
	}

	folds := make([]Fold, k.NSplits)
	for i, f := range assign {
		for j := range folds {
			if j == f {
				folds[j].Test = append(folds[j].Test, i)
			} else {
				folds[j].Train = append(folds[j].Train, i)
			}
		}
	}

	return folds, nil
}

// CrossValidate fits a fresh estimator built from params on every fold's
// training indices and scores it on the fold's test indices (and, when
// withTrain is set, on the training indices too). At most nJobs folds are
// fitted at once. The first error cancels the remaining folds, except
// ErrSingleClass from the scorer: that fold's score is recorded as NaN.
func CrossValidate(
	ctx context.Context,
	factory Factory,
	params Params,
	X [][]float64,
	y []int,
	folds []Fold,
	scorer Scorer,
	withTrain bool,
	nJobs int,
) ([]FoldScore, error) {
	if len(X) != len(y) {
		return nil, fmt.Errorf("%w: %d rows, %d labels", ErrShapeMismatch, len(X), len(y))
	}

	scores := make([]FoldScore, len(folds))

	g, ctx := errgroup.WithContext(ctx)
	if nJobs < 1 {
		nJobs = 1
	}

	g.SetLimit(nJobs)

	for i, fold := range folds {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}

			est, err := factory(params)
			if err != nil {
				return fmt.Errorf("build estimator %s: %w", params, err)
			}

			xTrain, yTrain := take(X, y, fold.Train)
			xTest, yTest := take(X, y, fold.Test)

			start := time.Now()
			if err := est.Fit(xTrain, yTrain); err != nil {
				return fmt.Errorf("fit fold %d: %w", i, err)
			}

			scores[i].FitTime = time.Since(start)

			if scores[i].Test, err = foldScore(scorer, est, xTest, yTest); err != nil {
				return fmt.Errorf("score fold %d: %w", i, err)
			}

			if withTrain {
				if scores[i].Train, err = foldScore(scorer, est, xTrain, yTrain); err != nil {
					return fmt.Errorf("score fold %d train: %w", i, err)
				}
			}

			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return scores, nil
}

// foldScore scores est, mapping an undefined score to NaN.
func foldScore(scorer Scorer, est Classifier, X [][]float64, y []int) (float64, error) {
	score, err := scorer(est, X, y)
	if errors.Is(err, ErrSingleClass) {
		return math.NaN(), nil
	}

	return score, err
}
