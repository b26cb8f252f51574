package treetune

import (
	"fmt"
	"math/rand"
	"sort"
	"strings"
	"time"
)

//////
// Const, vars, types.
//////

// Params is one hyperparameter assignment, keyed by parameter name.
//
// Values are loosely typed, as a configuration file yields them: ints,
// floats, strings, bools, or nil (meaning "unset", e.g. an unlimited tree
// depth).
type Params map[string]any

// Classifier is the estimator contract every search drives.
//
// Labels are non-negative integers. PredictProba returns, for each row, one
// probability per class where the column index is the class label.
type Classifier interface {
	Fit(X [][]float64, y []int) error
	Predict(X [][]float64) ([]int, error)
	PredictProba(X [][]float64) ([][]float64, error)
}

// Factory builds a fresh, unfitted Classifier configured with params.
//
// A Factory is called once per fold and once more for the refit, so it must
// never return a shared instance. An unknown or invalid parameter must be
// reported as an error.
//
// Usage example:
//
//	factory := Factory(func(p Params) (Classifier, error) {
//	    return tree.FromParams(p)
//	})
type Factory func(params Params) (Classifier, error)

// ProgressUpdate represents the current state of a search.
type ProgressUpdate struct {
	// Strategy is the search that emitted the update (grid, random, bayes).
	Strategy string

	// Phase indicates the stage. Grid and randomized searches only report
	// "Evaluation"; Bayesian search reports "InitialSampling" then
	// "Optimization".
	Phase string

	// CurrentIteration is the 1-based index of the evaluated candidate.
	CurrentIteration int

	// TotalIterations is the number of candidates the search will evaluate.
	TotalIterations int

	// CurrentParams holds the parameters just evaluated.
	CurrentParams Params

	// CurrentScore is the mean cross-validated test score of CurrentParams.
	CurrentScore float64

	// BestParams holds the best parameters found so far.
	BestParams Params

	// BestScore holds the best mean test score found so far.
	BestScore float64
}

// SearchConfig holds the settings shared by every search strategy.
//
// Usage example:
//
//	config := DefaultSearchConfig()
//	config.Scoring = "roc_auc"
//	config.CV = 3
//
// Note:
// - Create separate configs for concurrent searches when ProgressChan is set.
type SearchConfig struct {
	// Scoring names the metric maximized by the search. See GetScorer.
	Scoring string

	// CV is the number of stratified folds. Must be at least 2.
	CV int

	// NJobs bounds how many folds are fitted concurrently. Values below 1
	// mean sequential evaluation.
	NJobs int

	// Refit, when true, fits the best configuration on the whole training
	// set and exposes it as SearchResult.BestEstimator.
	Refit bool

	// ReturnTrainScore records the score on the training folds as well.
	// PlotParam needs it.
	ReturnTrainScore bool

	// Seed drives every random choice made by the search. Two searches
	// with the same seed and inputs evaluate the same candidates.
	Seed int64

	// ProgressChan receives an update after every evaluated candidate.
	// Sends never block: an update is dropped when the channel is full.
	// If nil, no updates will be sent.
	ProgressChan chan<- ProgressUpdate
}

// SearchResult is the outcome of a search.
type SearchResult struct {
	// RunID uniquely identifies the search run.
	RunID string

	// Strategy is grid, random or bayes.
	Strategy string

	// Scoring is the metric the search maximized.
	Scoring string

	// CVResults holds one entry per evaluated configuration.
	CVResults *CVResults

	// BestIndex is the position of the best configuration in CVResults.
	BestIndex int

	// BestParams is CVResults.Params[BestIndex].
	BestParams Params

	// BestScore is the mean cross-validated test score of BestParams.
	BestScore float64

	// BestEstimator is BestParams refitted on the whole training set. Nil
	// when SearchConfig.Refit is false.
	BestEstimator Classifier

	// Elapsed is the wall-clock duration of the search, refit included.
	Elapsed time.Duration
}

//////
// Methods.
//////

// Keys returns the parameter names in sorted order.
func (p Params) Keys() []string {
	keys := make([]string, 0, len(p))
	for k := range p {
		keys = append(keys, k)
	}

	sort.Strings(keys)

	return keys
}

// Clone returns a shallow copy of p.
func (p Params) Clone() Params {
	out := make(Params, len(p))
	for k, v := range p {
		out[k] = v
	}

	return out
}

// String renders p with sorted keys, e.g. {criterion: gini, max_depth: 4}.
// Nil values render as None. The rendering is stable and doubles as a
// de-duplication key.
func (p Params) String() string {
	var b strings.Builder

	b.WriteByte('{')

	for i, k := range p.Keys() {
		if i > 0 {
			b.WriteString(", ")
		}

		fmt.Fprintf(&b, "%s: %s", k, formatValue(p[k]))
	}

	b.WriteByte('}')

	return b.String()
}

// Score evaluates BestEstimator on (X, y) with the search's scoring metric.
func (r *SearchResult) Score(X [][]float64, y []int) (float64, error) {
	if r.BestEstimator == nil {
		return 0, ErrNotFitted
	}

	scorer, err := GetScorer(r.Scoring)
	if err != nil {
		return 0, err
	}

	return scorer(r.BestEstimator, X, y)
}

//////
// Factory.
//////

// DefaultSearchConfig returns a default configuration: accuracy, 5 folds,
// refit with train scores, one fold per CPU and a time-based seed.
func DefaultSearchConfig() SearchConfig {
	return SearchConfig{
		Scoring:          "accuracy",
		CV:               5,
		NJobs:            defaultJobs(),
		Refit:            true,
		ReturnTrainScore: true,
		Seed:             time.Now().UnixNano(),
		ProgressChan:     nil, // Default to no progress updates.
	}
}

// newRand returns a source private to one search.
func newRand(seed int64) *rand.Rand {
	return rand.New(rand.NewSource(seed))
}
