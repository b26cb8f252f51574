package tree

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func xor() ([][]float64, []int) {
	X := [][]float64{{0, 0}, {0, 1}, {1, 0}, {1, 1}, {0, 0}, {0, 1}, {1, 0}, {1, 1}}
	y := []int{0, 1, 1, 0, 0, 1, 1, 0}

	return X, y
}

// noisy draws n points in the unit square labelled by x0 + x1 > 1, with a
// tenth of the labels flipped.
func noisy(n int) ([][]float64, []int) {
	rnd := rand.New(rand.NewSource(42))
	X := make([][]float64, n)
	y := make([]int, n)

	for i := range X {
		X[i] = []float64{rnd.Float64(), rnd.Float64()}
		if X[i][0]+X[i][1] > 1 {
			y[i] = 1
		}

		if rnd.Float64() < 0.1 {
			y[i] = 1 - y[i]
		}
	}

	return X, y
}

func TestFitSeparable(t *testing.T) {
	X := [][]float64{{1}, {2}, {3}, {10}, {11}, {12}}
	y := []int{0, 0, 0, 1, 1, 1}

	clf := New()
	require.NoError(t, clf.Fit(X, y))

	assert.Equal(t, 1, clf.Depth())
	assert.Equal(t, 2, clf.Leaves())

	pred, err := clf.Predict([][]float64{{0}, {6}, {7}, {100}})
	require.NoError(t, err)
	assert.Equal(t, []int{0, 0, 1, 1}, pred)
}

func TestFitExtremeThresholds(t *testing.T) {
	a := math.Nextafter(1, 2)
	b := math.Nextafter(a, 2)
	top := math.Nextafter(math.MaxFloat64, 0)

	for name, vals := range map[string][2]float64{
		"adjacent":     {a, b},
		"wide":         {-1e308, 1e308},
		"near max":     {1e308, math.MaxFloat64},
		"max neighbor": {top, math.MaxFloat64},
	} {
		X := [][]float64{{vals[0]}, {vals[0]}, {vals[1]}, {vals[1]}}
		y := []int{0, 0, 1, 1}

		clf := New(WithMinSamplesLeaf(2))
		require.NoError(t, clf.Fit(X, y), name)

		assert.Equal(t, 1, clf.Depth(), name)
		assert.Equal(t, 2, clf.Leaves(), name)

		pred, err := clf.Predict(X)
		require.NoError(t, err, name)
		assert.Equal(t, y, pred, name)

		proba, err := clf.PredictProba(X)
		require.NoError(t, err, name)

		for _, p := range proba {
			assert.InDelta(t, 1.0, p[0]+p[1], 1e-12, name)
		}
	}
}

func TestMidpoint(t *testing.T) {
	a := math.Nextafter(1, 2)
	b := math.Nextafter(a, 2)

	assert.Equal(t, a, midpoint(a, b))
	assert.Equal(t, 0.0, midpoint(-1e308, 1e308))
	assert.Equal(t, 1.5, midpoint(1, 2))

	m := midpoint(1e308, math.MaxFloat64)
	assert.False(t, math.IsInf(m, 0))
	assert.GreaterOrEqual(t, m, 1e308)
	assert.Less(t, m, math.MaxFloat64)
}

func TestFitXOR(t *testing.T) {
	X, y := xor()

	for _, criterion := range []string{Gini, Entropy} {
		clf := New(WithCriterion(criterion))
		require.NoError(t, clf.Fit(X, y))

		pred, err := clf.Predict(X)
		require.NoError(t, err)
		assert.Equal(t, y, pred, criterion)
		assert.Equal(t, 2, clf.Depth(), criterion)
	}

	// A stump cannot separate XOR.
	stump := New(WithMaxDepth(1))
	require.NoError(t, stump.Fit(X, y))
	assert.Equal(t, 1, stump.Depth())
}

func TestFitLimits(t *testing.T) {
	X, y := noisy(300)

	full := New()
	require.NoError(t, full.Fit(X, y))

	for _, d := range []int{1, 2, 3, 5} {
		clf := New(WithMaxDepth(d))
		require.NoError(t, clf.Fit(X, y))
		assert.LessOrEqual(t, clf.Depth(), d)
	}

	leafy := New(WithMinSamplesLeaf(20))
	require.NoError(t, leafy.Fit(X, y))
	assert.Less(t, leafy.Leaves(), full.Leaves())
	assert.LessOrEqual(t, leafy.Leaves(), 300/20)

	split := New(WithMinSamplesSplit(100))
	require.NoError(t, split.Fit(X, y))
	assert.Less(t, split.Leaves(), full.Leaves())

	decrease := New(WithMinImpurityDecrease(0.5))
	require.NoError(t, decrease.Fit(X, y))
	assert.Equal(t, 1, decrease.Leaves())

	// Same seed, same tree.
	a := New(WithMaxFeatures(1), WithRandomState(3))
	b := New(WithMaxFeatures(1), WithRandomState(3))
	require.NoError(t, a.Fit(X, y))
	require.NoError(t, b.Fit(X, y))
	assert.Equal(t, a.root, b.root)
}

func TestPredictProba(t *testing.T) {
	X, y := noisy(200)

	clf := New(WithMaxDepth(3))
	require.NoError(t, clf.Fit(X, y))

	proba, err := clf.PredictProba(X)
	require.NoError(t, err)
	require.Len(t, proba, len(X))

	pred, err := clf.Predict(X)
	require.NoError(t, err)

	for i, p := range proba {
		require.Len(t, p, 2)
		assert.InDelta(t, 1.0, p[0]+p[1], 1e-12)
		assert.GreaterOrEqual(t, p[pred[i]], p[1-pred[i]])
	}

	// Returned rows are copies.
	proba[0][0] = 42
	again, err := clf.PredictProba(X[:1])
	require.NoError(t, err)
	assert.NotEqual(t, 42.0, again[0][0])
}

func TestErrors(t *testing.T) {
	clf := New()

	_, err := clf.Predict([][]float64{{1}})
	assert.ErrorIs(t, err, ErrNotFitted)

	assert.ErrorIs(t, clf.Fit(nil, nil), ErrShape)
	assert.ErrorIs(t, clf.Fit([][]float64{{1}, {2}}, []int{0}), ErrShape)
	assert.ErrorIs(t, clf.Fit([][]float64{{1}, {2, 3}}, []int{0, 1}), ErrShape)
	assert.ErrorIs(t, clf.Fit([][]float64{{1}}, []int{-1}), ErrShape)

	require.NoError(t, clf.Fit([][]float64{{1}, {2}}, []int{0, 1}))
	_, err = clf.Predict([][]float64{{1, 2}})
	assert.ErrorIs(t, err, ErrShape)

	for _, bad := range []*Classifier{
		New(WithCriterion("mse")),
		New(WithMaxDepth(-1)),
		New(WithMinSamplesSplit(1)),
		New(WithMinSamplesLeaf(0)),
		New(WithMaxFeatures(-2)),
		New(WithMinImpurityDecrease(-0.1)),
	} {
		assert.ErrorIs(t, bad.Fit([][]float64{{1}}, []int{0}), ErrInvalidParam)
	}
}

func TestFromParams(t *testing.T) {
	clf, err := FromParams(map[string]any{
		ParamCriterion:           "Entropy",
		ParamMaxDepth:            "8",
		ParamMinSamplesSplit:     int64(4),
		ParamMinSamplesLeaf:      2.0,
		ParamMaxFeatures:         "None",
		ParamMinImpurityDecrease: "0.001",
		ParamRandomState:         7,
	})
	require.NoError(t, err)

	assert.Equal(t, Entropy, clf.Criterion)
	assert.Equal(t, 8, clf.MaxDepth)
	assert.Equal(t, 4, clf.MinSamplesSplit)
	assert.Equal(t, 2, clf.MinSamplesLeaf)
	assert.Equal(t, 0, clf.MaxFeatures)
	assert.Equal(t, 0.001, clf.MinImpurityDecrease)
	assert.Equal(t, int64(7), clf.RandomState)

	p := clf.Params()
	assert.Nil(t, p[ParamMaxFeatures])
	assert.Equal(t, 8, p[ParamMaxDepth])

	back, err := FromParams(p)
	require.NoError(t, err)
	assert.Equal(t, clf, back)

	clf, err = FromParams(map[string]any{ParamMaxDepth: nil})
	require.NoError(t, err)
	assert.Equal(t, New(), clf)

	_, err = FromParams(map[string]any{"splitter": "best"})
	assert.ErrorIs(t, err, ErrUnknownParam)

	_, err = FromParams(map[string]any{ParamMaxDepth: "deep"})
	assert.ErrorIs(t, err, ErrInvalidParam)

	_, err = FromParams(map[string]any{ParamMinSamplesLeaf: 0})
	assert.ErrorIs(t, err, ErrInvalidParam)
}
