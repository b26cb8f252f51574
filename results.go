package treetune

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/stat"
)

// Column names understood by CVResults.Column, besides param_<name> and
// split<k>_test_score / split<k>_train_score.
const (
	ColParams         = "params"
	ColMeanTestScore  = "mean_test_score"
	ColStdTestScore   = "std_test_score"
	ColMeanTrainScore = "mean_train_score"
	ColStdTrainScore  = "std_train_score"
	ColRankTestScore  = "rank_test_score"
	ColMeanFitTime    = "mean_fit_time"
	ColStdFitTime     = "std_fit_time"

	paramPrefix = "param_"
)

// CVResults aggregates, for every evaluated configuration, its parameters
// and cross-validated scores. Every populated column has Len() entries;
// the train columns stay empty when train scores were not requested.
type CVResults struct {
	Params []Params

	MeanTestScore  []float64
	StdTestScore   []float64
	MeanTrainScore []float64
	StdTrainScore  []float64

	// SplitTestScores[i][k] is the score of configuration i on fold k.
	SplitTestScores  [][]float64
	SplitTrainScores [][]float64

	// Fit times are in seconds.
	MeanFitTime []float64
	StdFitTime  []float64

	// RankTestScore is 1 for the best mean test score. Ties share the
	// lowest rank, and the next rank skips accordingly. NaN means rank
	// last, tied with each other.
	RankTestScore []int
}

// Len is the number of evaluated configurations.
func (r *CVResults) Len() int {
	return len(r.Params)
}

// ParamNames returns every parameter name seen across configurations,
// sorted.
func (r *CVResults) ParamNames() []string {
	seen := map[string]struct{}{}
	for _, p := range r.Params {
		for k := range p {
			seen[k] = struct{}{}
		}
	}

	names := make([]string, 0, len(seen))
	for k := range seen {
		names = append(names, k)
	}

	sort.Strings(names)

	return names
}

// Column returns the named column as loosely typed values. param_<name>
// yields nil where a configuration did not set name.
func (r *CVResults) Column(key string) ([]any, error) {
	if name, ok := strings.CutPrefix(key, paramPrefix); ok {
		found := false
		out := make([]any, r.Len())

		for i, p := range r.Params {
			if v, ok := p[name]; ok {
				out[i] = v
				found = true
			}
		}

		if !found {
			return nil, fmt.Errorf("%w: %q", ErrUnknownColumn, key)
		}

		return out, nil
	}

	if key == ColParams {
		out := make([]any, r.Len())
		for i, p := range r.Params {
			out[i] = p
		}

		return out, nil
	}

	if key == ColRankTestScore {
		out := make([]any, len(r.RankTestScore))
		for i, v := range r.RankTestScore {
			out[i] = v
		}

		return out, nil
	}

	floats, err := r.Floats(key)
	if err != nil {
		return nil, err
	}

	out := make([]any, len(floats))
	for i, v := range floats {
		out[i] = v
	}

	return out, nil
}

// Floats returns a numeric score or time column.
func (r *CVResults) Floats(key string) ([]float64, error) {
	var col []float64

	switch key {
	case ColMeanTestScore:
		col = r.MeanTestScore
	case ColStdTestScore:
		col = r.StdTestScore
	case ColMeanTrainScore:
		col = r.MeanTrainScore
	case ColStdTrainScore:
		col = r.StdTrainScore
	case ColMeanFitTime:
		col = r.MeanFitTime
	case ColStdFitTime:
		col = r.StdFitTime
	default:
		split, ok := r.splitColumn(key)
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownColumn, key)
		}

		col = split
	}

	if col == nil && r.Len() > 0 {
		return nil, fmt.Errorf("%w: %q was not recorded", ErrUnknownColumn, key)
	}

	return col, nil
}

// splitColumn resolves split<k>_test_score and split<k>_train_score.
func (r *CVResults) splitColumn(key string) ([]float64, bool) {
	rest, ok := strings.CutPrefix(key, "split")
	if !ok {
		return nil, false
	}

	var (
		src    [][]float64
		digits string
	)

	switch {
	case strings.HasSuffix(rest, "_test_score"):
		src, digits = r.SplitTestScores, strings.TrimSuffix(rest, "_test_score")
	case strings.HasSuffix(rest, "_train_score"):
		src, digits = r.SplitTrainScores, strings.TrimSuffix(rest, "_train_score")
	default:
		return nil, false
	}

	k, err := strconv.Atoi(digits)
	if err != nil || k < 0 || len(src) == 0 {
		return nil, false
	}

	out := make([]float64, len(src))
	for i, row := range src {
		if k >= len(row) {
			return nil, false
		}

		out[i] = row[k]
	}

	return out, true
}

// add appends one configuration's fold scores.
func (r *CVResults) add(params Params, scores []FoldScore, withTrain bool) {
	test := make([]float64, len(scores))
	train := make([]float64, len(scores))
	fit := make([]float64, len(scores))

	for i, s := range scores {
		test[i] = s.Test
		train[i] = s.Train
		fit[i] = s.FitTime.Seconds()
	}

	r.Params = append(r.Params, params)

	mean, std := stat.PopMeanStdDev(test, nil)
	r.MeanTestScore = append(r.MeanTestScore, mean)
	r.StdTestScore = append(r.StdTestScore, std)
	r.SplitTestScores = append(r.SplitTestScores, test)

	if withTrain {
		mean, std = stat.PopMeanStdDev(train, nil)
		r.MeanTrainScore = append(r.MeanTrainScore, mean)
		r.StdTrainScore = append(r.StdTrainScore, std)
		r.SplitTrainScores = append(r.SplitTrainScores, train)
	}

	mean, std = stat.PopMeanStdDev(fit, nil)
	r.MeanFitTime = append(r.MeanFitTime, mean)
	r.StdFitTime = append(r.StdFitTime, std)
}

// rank recomputes RankTestScore with "min" ranking on descending mean test
// score, NaN last.
func (r *CVResults) rank() {
	n := r.Len()
	order := make([]int, n)

	for i := range order {
		order[i] = i
	}

	sort.SliceStable(order, func(a, b int) bool {
		sa, sb := r.MeanTestScore[order[a]], r.MeanTestScore[order[b]]
		if math.IsNaN(sb) {
			return !math.IsNaN(sa)
		}

		return sa > sb
	})

	r.RankTestScore = make([]int, n)

	for pos, i := range order {
		if pos > 0 && sameScore(r.MeanTestScore[i], r.MeanTestScore[order[pos-1]]) {
			r.RankTestScore[i] = r.RankTestScore[order[pos-1]]
			continue
		}

		r.RankTestScore[i] = pos + 1
	}
}

func sameScore(a, b float64) bool {
	return a == b || (math.IsNaN(a) && math.IsNaN(b))
}

// best returns the first configuration holding rank 1.
func (r *CVResults) best() int {
	for i, rk := range r.RankTestScore {
		if rk == 1 {
			return i
		}
	}

	return -1
}
