package treetune

import (
	"fmt"
	"image/color"
	"io"
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

var (
	trainColor = color.RGBA{R: 31, G: 119, B: 180, A: 255}
	testColor  = color.RGBA{R: 255, G: 127, B: 14, A: 255}
)

// PlotParam renders the mean train and test scores of every configuration
// against the value of parameter name, and prints the best observed mean
// test score to w.
//
// results must hold the columns param_<name>, mean_train_score and
// mean_test_score with equal lengths, so the search must have run with
// ReturnTrainScore. Numeric parameters get a numeric x axis; categorical
// ones, or numeric ones mixed with None, get one tick per distinct value.
//
// The figure is written to path as PNG (or any extension gonum/plot
// supports). An empty path only prints.
func PlotParam(w io.Writer, name string, results *CVResults, path string) error {
	values, err := results.Column(paramPrefix + name)
	if err != nil {
		return err
	}

	train, err := results.Floats(ColMeanTrainScore)
	if err != nil {
		return err
	}

	test, err := results.Floats(ColMeanTestScore)
	if err != nil {
		return err
	}

	if len(values) != len(train) || len(values) != len(test) {
		return fmt.Errorf(
			"%w: %d values, %d train scores, %d test scores",
			ErrShapeMismatch, len(values), len(train), len(test),
		)
	}

	if len(test) == 0 {
		return fmt.Errorf("%w: no configurations to plot", ErrEmptyGrid)
	}

	if path != "" {
		if err := renderScatter(name, values, train, test, path); err != nil {
			return fmt.Errorf("plot %s: %w", name, err)
		}
	}

	_, err = fmt.Fprintf(w, "Best test score: %.4f\n", maxScore(test))

	return err
}

// maxScore is the largest score that is not NaN, or NaN if none is.
func maxScore(scores []float64) float64 {
	finite := make([]float64, 0, len(scores))
	for _, s := range scores {
		if !math.IsNaN(s) {
			finite = append(finite, s)
		}
	}

	if len(finite) == 0 {
		return math.NaN()
	}

	return floats.Max(finite)
}

func renderScatter(name string, values []any, train, test []float64, path string) error {
	xs, labels := axisPositions(values)

	trainXY := make(plotter.XYs, 0, len(xs))
	testXY := make(plotter.XYs, 0, len(xs))

	// NaN scores have no position on the y axis.
	for i, x := range xs {
		if !math.IsNaN(train[i]) {
			trainXY = append(trainXY, plotter.XY{X: x, Y: train[i]})
		}

		if !math.IsNaN(test[i]) {
			testXY = append(testXY, plotter.XY{X: x, Y: test[i]})
		}
	}

	p := plot.New()
	p.Title.Text = fmt.Sprintf("%s vs mean CV score", name)
	p.X.Label.Text = name
	p.Y.Label.Text = "mean score"

	trainScatter, err := plotter.NewScatter(trainXY)
	if err != nil {
		return err
	}

	trainScatter.GlyphStyle.Color = trainColor
	trainScatter.GlyphStyle.Shape = draw.CircleGlyph{}

	testScatter, err := plotter.NewScatter(testXY)
	if err != nil {
		return err
	}

	testScatter.GlyphStyle.Color = testColor
	testScatter.GlyphStyle.Shape = draw.TriangleGlyph{}

	p.Add(plotter.NewGrid(), trainScatter, testScatter)
	p.Legend.Add("train", trainScatter)
	p.Legend.Add("test", testScatter)
	p.Legend.Top = true

	if labels != nil {
		p.NominalX(labels...)
	}

	return p.Save(6*vg.Inch, 4*vg.Inch, path)
}

// axisPositions maps parameter values to x coordinates. labels is nil for
// a purely numeric axis; otherwise x is the index into labels, with
// numeric labels first in ascending order.
func axisPositions(values []any) (xs []float64, labels []string) {
	xs = make([]float64, len(values))
	numeric := true

	for i, v := range values {
		f, ok := toFloat(v)
		if !ok {
			numeric = false
			break
		}

		xs[i] = f
	}

	if numeric {
		return xs, nil
	}

	type label struct {
		text    string
		num     float64
		numeric bool
	}

	uniq := map[string]label{}
	for _, v := range values {
		f, ok := toFloat(v)
		uniq[formatValue(v)] = label{text: formatValue(v), num: f, numeric: ok}
	}

	sorted := make([]label, 0, len(uniq))
	for _, l := range uniq {
		sorted = append(sorted, l)
	}

	sort.Slice(sorted, func(a, b int) bool {
		la, lb := sorted[a], sorted[b]
		if la.numeric != lb.numeric {
			return la.numeric
		}

		if la.numeric && la.num != lb.num {
			return la.num < lb.num
		}

		return la.text < lb.text
	})

	pos := make(map[string]float64, len(sorted))
	labels = make([]string, len(sorted))

	for i, l := range sorted {
		labels[i] = l.text
		pos[l.text] = float64(i)
	}

	for i, v := range values {
		xs[i] = pos[formatValue(v)]
	}

	return xs, labels
}
