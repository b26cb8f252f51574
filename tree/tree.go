// Package tree implements a CART decision-tree classifier.
//
// Features are real valued; categorical attributes are expected to be
// one-hot encoded beforehand. Labels are the integers 0..k-1.
package tree

import (
	"errors"
	"fmt"
	"math/rand"
	"slices"
)

var (
	// ErrNotFitted is returned by Predict before Fit.
	ErrNotFitted = errors.New("tree: classifier not fitted")

	// ErrShape is returned for empty or ragged inputs.
	ErrShape = errors.New("tree: shape mismatch")

	// ErrInvalidParam is returned for out-of-range hyperparameters.
	ErrInvalidParam = errors.New("tree: invalid hyperparameter")

	// ErrUnknownParam is returned by FromParams for a name it does not know.
	ErrUnknownParam = errors.New("tree: unknown hyperparameter")
)

// Split criteria.
const (
	Gini    = "gini"
	Entropy = "entropy"
)

// Classifier is a CART-style classifier with axis-aligned threshold splits
// (x <= threshold goes left).
type Classifier struct {
	// Hyperparameters
	Criterion           string  // "gini" (default) or "entropy"
	MaxDepth            int     // maximum depth (root depth = 0). 0 => no limit
	MinSamplesSplit     int     // minimum samples to attempt a split
	MinSamplesLeaf      int     // minimum samples required in each leaf
	MaxFeatures         int     // 0 => all features, >0 => features sampled per split
	MinImpurityDecrease float64 // minimal weighted impurity decrease to accept a split
	RandomState         int64   // seed for feature subsampling

	root      *node
	nClasses  int
	nFeatures int
}

type node struct {
	leaf      bool
	feature   int
	threshold float64
	left      *node
	right     *node

	n      int
	probas []float64
}

// Option configures a Classifier.
type Option func(*Classifier)

// WithCriterion sets the impurity measure, Gini or Entropy.
func WithCriterion(c string) Option { return func(t *Classifier) { t.Criterion = c } }

// WithMaxDepth caps the tree depth; 0 means unlimited.
func WithMaxDepth(d int) Option { return func(t *Classifier) { t.MaxDepth = d } }

// WithMinSamplesSplit sets the fewest samples a node needs to be split.
func WithMinSamplesSplit(n int) Option {
	return func(t *Classifier) { t.MinSamplesSplit = n }
}

// WithMinSamplesLeaf sets the fewest samples allowed in each child.
func WithMinSamplesLeaf(n int) Option {
	return func(t *Classifier) { t.MinSamplesLeaf = n }
}

// WithMaxFeatures sets how many features each node considers; 0 means all.
func WithMaxFeatures(k int) Option { return func(t *Classifier) { t.MaxFeatures = k } }

// WithMinImpurityDecrease sets the weighted gain a split must reach.
func WithMinImpurityDecrease(v float64) Option {
	return func(t *Classifier) { t.MinImpurityDecrease = v }
}

// WithRandomState seeds the feature sampling.
func WithRandomState(seed int64) Option {
	return func(t *Classifier) { t.RandomState = seed }
}

// New returns a classifier with the usual CART defaults: gini, unlimited
// depth, min_samples_split 2, min_samples_leaf 1, all features, seed 0.
func New(opts ...Option) *Classifier {
	t := &Classifier{
		Criterion:       Gini,
		MinSamplesSplit: 2,
		MinSamplesLeaf:  1,
	}

	for _, o := range opts {
		o(t)
	}

	return t
}

// Validate checks the hyperparameters.
func (t *Classifier) Validate() error {
	switch {
	case t.Criterion != Gini && t.Criterion != Entropy:
		return fmt.Errorf("%w: criterion %q", ErrInvalidParam, t.Criterion)
	case t.MaxDepth < 0:
		return fmt.Errorf("%w: max_depth %d", ErrInvalidParam, t.MaxDepth)
	case t.MinSamplesSplit < 2:
		return fmt.Errorf("%w: min_samples_split %d < 2", ErrInvalidParam, t.MinSamplesSplit)
	case t.MinSamplesLeaf < 1:
		return fmt.Errorf("%w: min_samples_leaf %d < 1", ErrInvalidParam, t.MinSamplesLeaf)
	case t.MaxFeatures < 0:
		return fmt.Errorf("%w: max_features %d", ErrInvalidParam, t.MaxFeatures)
	case t.MinImpurityDecrease < 0:
		return fmt.Errorf("%w: min_impurity_decrease %v", ErrInvalidParam, t.MinImpurityDecrease)
	}

	return nil
}

// Fit trains the tree on X (n x p) and labels y in 0..k-1.
func (t *Classifier) Fit(X [][]float64, y []int) error {
	if err := t.Validate(); err != nil {
		return err
	}

	if len(X) == 0 {
		return fmt.Errorf("%w: empty X", ErrShape)
	}

	if len(y) != len(X) {
		return fmt.Errorf("%w: %d rows, %d labels", ErrShape, len(X), len(y))
	}

	p := len(X[0])
	for i := range X {
		if len(X[i]) != p {
			return fmt.Errorf("%w: row %d has %d features, want %d", ErrShape, i, len(X[i]), p)
		}
	}

	nClasses := 0
	for i, c := range y {
		if c < 0 {
			return fmt.Errorf("%w: negative label %d at row %d", ErrShape, c, i)
		}

		nClasses = max(nClasses, c+1)
	}

	t.nClasses = nClasses
	t.nFeatures = p

	idx := make([]int, len(X))
	for i := range idx {
		idx[i] = i
	}

	b := &builder{
		t:       t,
		X:       X,
		y:       y,
		total:   float64(len(X)),
		rnd:     rand.New(rand.NewSource(t.RandomState)),
		buf:     make([]pair, len(X)),
		feats:   make([]int, p),
		impurer: impurityFunc(t.Criterion),
	}

	t.root = b.build(idx, 0)

	return nil
}

// Predict returns the majority class of the leaf each row falls in.
func (t *Classifier) Predict(X [][]float64) ([]int, error) {
	proba, err := t.PredictProba(X)
	if err != nil {
		return nil, err
	}

	out := make([]int, len(proba))
	for i, p := range proba {
		out[i] = argmax(p)
	}

	return out, nil
}

// PredictProba returns, for each row, the class distribution of its leaf.
// Column j is the probability of label j.
func (t *Classifier) PredictProba(X [][]float64) ([][]float64, error) {
	if t.root == nil {
		return nil, ErrNotFitted
	}

	out := make([][]float64, len(X))

	for i, row := range X {
		if len(row) != t.nFeatures {
			return nil, fmt.Errorf("%w: row %d has %d features, want %d", ErrShape, i, len(row), t.nFeatures)
		}

		n := t.root
		for !n.leaf {
			if row[n.feature] <= n.threshold {
				n = n.left
			} else {
				n = n.right
			}
		}

		out[i] = slices.Clone(n.probas)
	}

	return out, nil
}

// Depth is the depth of the fitted tree (a single leaf has depth 0).
func (t *Classifier) Depth() int {
	return depth(t.root)
}

// Leaves is the number of leaves of the fitted tree.
func (t *Classifier) Leaves() int {
	return leaves(t.root)
}

func depth(n *node) int {
	if n == nil || n.leaf {
		return 0
	}

	return 1 + max(depth(n.left), depth(n.right))
}

func leaves(n *node) int {
	if n == nil {
		return 0
	}

	if n.leaf {
		return 1
	}

	return leaves(n.left) + leaves(n.right)
}
