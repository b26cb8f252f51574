package treetune

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLabelMetrics(t *testing.T) {
	yTrue := []int{1, 1, 1, 0, 0, 0, 0, 0}
	yPred := []int{1, 1, 0, 1, 0, 0, 0, 0}

	assert.InDelta(t, 0.75, Accuracy(yTrue, yPred), 1e-12)

	prec, rec, f1 := PrecisionRecallF1(yTrue, yPred, 1)
	assert.InDelta(t, 2.0/3.0, prec, 1e-12)
	assert.InDelta(t, 2.0/3.0, rec, 1e-12)
	assert.InDelta(t, 2.0/3.0, f1, 1e-12)

	// (2/3 + 4/5) / 2
	assert.InDelta(t, (2.0/3.0+0.8)/2, BalancedAccuracy(yTrue, yPred), 1e-12)

	prec, rec, f1 = PrecisionRecallF1([]int{0, 0}, []int{0, 0}, 1)
	assert.Zero(t, prec)
	assert.Zero(t, rec)
	assert.Zero(t, f1)

	assert.Zero(t, Accuracy(nil, nil))
}

func TestROCAUC(t *testing.T) {
	auc, err := ROCAUC([]int{0, 0, 1, 1}, []float64{0.1, 0.2, 0.8, 0.9})
	require.NoError(t, err)
	assert.InDelta(t, 1.0, auc, 1e-12)

	auc, err = ROCAUC([]int{1, 1, 0, 0}, []float64{0.1, 0.2, 0.8, 0.9})
	require.NoError(t, err)
	assert.InDelta(t, 0.0, auc, 1e-12)

	// All scores tied: chance level.
	auc, err = ROCAUC([]int{0, 1, 0, 1}, []float64{0.5, 0.5, 0.5, 0.5})
	require.NoError(t, err)
	assert.InDelta(t, 0.5, auc, 1e-12)

	auc, err = ROCAUC([]int{0, 1, 1, 0}, []float64{0.1, 0.35, 0.4, 0.8})
	require.NoError(t, err)
	assert.InDelta(t, 0.5, auc, 1e-12)

	_, err = ROCAUC([]int{1, 1}, []float64{0.1, 0.2})
	assert.ErrorIs(t, err, ErrSingleClass)

	_, err = ROCAUC([]int{1}, []float64{0.1, 0.2})
	assert.ErrorIs(t, err, ErrShapeMismatch)
}

func TestGetScorer(t *testing.T) {
	X, y := lineData()
	clf := &thresholdClassifier{t: 0.5}

	for _, name := range ScorerNames() {
		scorer, err := GetScorer(name)
		require.NoError(t, err, name)

		score, err := scorer(clf, X, y)
		require.NoError(t, err, name)
		assert.InDelta(t, 1.0, score, 1e-12, name)
	}

	_, err := GetScorer("r2")
	assert.ErrorIs(t, err, ErrUnknownScorer)
}
