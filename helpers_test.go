package treetune

import (
	"errors"
	"fmt"

	"github.com/spf13/cast"
)

// thresholdClassifier predicts 1 when the first feature exceeds "t". It
// ignores training data, so its CV score depends on "t" alone.
type thresholdClassifier struct {
	t float64
}

func (c *thresholdClassifier) Fit(X [][]float64, y []int) error {
	if len(X) != len(y) {
		return errors.New("shape")
	}

	return nil
}

func (c *thresholdClassifier) Predict(X [][]float64) ([]int, error) {
	out := make([]int, len(X))
	for i, row := range X {
		if row[0] > c.t {
			out[i] = 1
		}
	}

	return out, nil
}

func (c *thresholdClassifier) PredictProba(X [][]float64) ([][]float64, error) {
	pred, _ := c.Predict(X)
	out := make([][]float64, len(X))

	for i, p := range pred {
		out[i] = []float64{float64(1 - p), float64(p)}
	}

	return out, nil
}

func thresholdFactory(p Params) (Classifier, error) {
	for k := range p {
		if k != "t" {
			return nil, fmt.Errorf("unknown param %q", k)
		}
	}

	t, err := cast.ToFloat64E(p["t"])
	if err != nil {
		return nil, err
	}

	return &thresholdClassifier{t: t}, nil
}

// lineData is 100 points x = i/100 labelled 1 when x > 0.5.
func lineData() ([][]float64, []int) {
	X := make([][]float64, 100)
	y := make([]int, 100)

	for i := range X {
		X[i] = []float64{float64(i) / 100}
		if i > 50 {
			y[i] = 1
		}
	}

	return X, y
}

func testConfig() SearchConfig {
	config := DefaultSearchConfig()
	config.Seed = 7
	config.NJobs = 2

	return config
}
