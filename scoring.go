package treetune

import (
	"fmt"
	"sort"

	"gonum.org/v1/gonum/integrate"
	"gonum.org/v1/gonum/stat"
)

// Scorer evaluates a fitted classifier on (X, y). Higher is better.
type Scorer func(clf Classifier, X [][]float64, y []int) (float64, error)

// Scorer names accepted by GetScorer.
const (
	ScoringAccuracy         = "accuracy"
	ScoringBalancedAccuracy = "balanced_accuracy"
	ScoringPrecision        = "precision"
	ScoringRecall           = "recall"
	ScoringF1               = "f1"
	ScoringROCAUC           = "roc_auc"
)

// ScorerNames lists the metrics GetScorer knows, sorted.
func ScorerNames() []string {
	names := make([]string, 0, len(labelScorers)+1)
	for k := range labelScorers {
		names = append(names, k)
	}

	names = append(names, ScoringROCAUC)
	sort.Strings(names)

	return names
}

var labelScorers = map[string]func(yTrue, yPred []int) float64{
	ScoringAccuracy:         Accuracy,
	ScoringBalancedAccuracy: BalancedAccuracy,
	ScoringPrecision: func(yTrue, yPred []int) float64 {
		p, _, _ := PrecisionRecallF1(yTrue, yPred, 1)
		return p
	},
	ScoringRecall: func(yTrue, yPred []int) float64 {
		_, r, _ := PrecisionRecallF1(yTrue, yPred, 1)
		return r
	},
	ScoringF1: func(yTrue, yPred []int) float64 {
		_, _, f := PrecisionRecallF1(yTrue, yPred, 1)
		return f
	},
}

// GetScorer returns the Scorer registered under name. precision, recall,
// f1 and roc_auc treat label 1 as the positive class.
func GetScorer(name string) (Scorer, error) {
	if name == ScoringROCAUC {
		return func(clf Classifier, X [][]float64, y []int) (float64, error) {
			proba, err := clf.PredictProba(X)
			if err != nil {
				return 0, err
			}

			pos := make([]float64, len(proba))
			for i, p := range proba {
				if len(p) > 1 {
					pos[i] = p[1]
				}
			}

			return ROCAUC(y, pos)
		}, nil
	}

	metric, ok := labelScorers[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q (known: %v)", ErrUnknownScorer, name, ScorerNames())
	}

	return func(clf Classifier, X [][]float64, y []int) (float64, error) {
		pred, err := clf.Predict(X)
		if err != nil {
			return 0, err
		}

		if len(pred) != len(y) {
			return 0, fmt.Errorf("%w: %d predictions, %d labels", ErrShapeMismatch, len(pred), len(y))
		}

		return metric(y, pred), nil
	}, nil
}

// Accuracy is the fraction of exact matches.
func Accuracy(yTrue, yPred []int) float64 {
	if len(yTrue) == 0 {
		return 0
	}

	c := 0
	for i := range yTrue {
		if yTrue[i] == yPred[i] {
			c++
		}
	}

	return float64(c) / float64(len(yTrue))
}

// BalancedAccuracy is the mean per-class recall over the classes in yTrue.
func BalancedAccuracy(yTrue, yPred []int) float64 {
	total := map[int]int{}
	hit := map[int]int{}

	for i, c := range yTrue {
		total[c]++
		if yPred[i] == c {
			hit[c]++
		}
	}

	if len(total) == 0 {
		return 0
	}

	var sum float64
	for c, n := range total {
		sum += float64(hit[c]) / float64(n)
	}

	return sum / float64(len(total))
}

// PrecisionRecallF1 computes the binary metrics for the positive label.
// Undefined ratios (no predicted or no actual positives) are 0.
func PrecisionRecallF1(yTrue, yPred []int, positive int) (prec, rec, f1 float64) {
	tp, fp, fn := 0, 0, 0

	for i := range yTrue {
		switch {
		case yPred[i] == positive && yTrue[i] == positive:
			tp++
		case yPred[i] == positive:
			fp++
		case yTrue[i] == positive:
			fn++
		}
	}

	if tp+fp > 0 {
		prec = float64(tp) / float64(tp+fp)
	}

	if tp+fn > 0 {
		rec = float64(tp) / float64(tp+fn)
	}

	if prec+rec > 0 {
		f1 = 2 * prec * rec / (prec + rec)
	}

	return prec, rec, f1
}

// ROCAUC is the area under the ROC curve of scores against the binary
// labels yTrue (1 is positive).
func ROCAUC(yTrue []int, scores []float64) (float64, error) {
	if len(yTrue) != len(scores) {
		return 0, fmt.Errorf("%w: %d labels, %d scores", ErrShapeMismatch, len(yTrue), len(scores))
	}

	ys := make([]float64, len(scores))
	copy(ys, scores)

	classes := make([]bool, len(yTrue))
	npos := 0

	for i, c := range yTrue {
		classes[i] = c == 1
		if classes[i] {
			npos++
		}
	}

	if npos == 0 || npos == len(yTrue) {
		return 0, ErrSingleClass
	}

	stat.SortWeightedLabeled(ys, classes, nil)
	tpr, fpr, _ := stat.ROC(nil, ys, classes, nil)

	return integrate.Trapezoidal(fpr, tpr), nil
}
