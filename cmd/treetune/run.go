package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/thalesfsp/treetune"
	"github.com/thalesfsp/treetune/dataset"
	"github.com/thalesfsp/treetune/internal/config"
	"github.com/thalesfsp/treetune/tree"
)

// searcher is what every strategy's search type implements.
type searcher interface {
	Fit(ctx context.Context, X [][]float64, y []int) (*treetune.SearchResult, error)
}

// run walks the tuning session: load, encode, split, baseline, the
// configured searches, and the final comparison on the validation rows.
func run(ctx context.Context, cfg *config.Config, logger *slog.Logger, out io.Writer) error {
	frame, err := dataset.LoadCSV(cfg.DataPath)
	if err != nil {
		return fmt.Errorf("load data: %w", err)
	}

	if err := dataset.CheckCensus(frame); err != nil {
		logger.Warn("input does not follow the census-income layout", "error", err)
	}

	ds, err := dataset.Prepare(frame, cfg.Drop, cfg.EncodeOptions())
	if err != nil {
		return fmt.Errorf("encode data: %w", err)
	}

	train, valid, err := dataset.TrainTestSplit(ds, cfg.SplitOptions())
	if err != nil {
		return fmt.Errorf("split data: %w", err)
	}

	logger.Info(
		"dataset ready",
		"rows", ds.Len(),
		"features", len(ds.Features),
		"train_rows", train.Len(),
		"validation_rows", valid.Len(),
		"positive", ds.Classes[1],
	)

	scorer, err := treetune.GetScorer(cfg.Scoring)
	if err != nil {
		return err
	}

	if err := baseline(out, cfg, scorer, train, valid); err != nil {
		return err
	}

	plots := len(cfg.PlotParams) > 0 && cfg.OutputDir != ""
	if plots {
		if err := os.MkdirAll(cfg.OutputDir, 0o755); err != nil {
			return fmt.Errorf("create output dir: %w", err)
		}
	}

	progress := make(chan treetune.ProgressUpdate, 64)
	drained := make(chan struct{})

	go func() {
		defer close(drained)

		for u := range progress {
			logger.Debug(
				"candidate evaluated",
				"strategy", u.Strategy,
				"phase", u.Phase,
				"iteration", u.CurrentIteration,
				"total", u.TotalIterations,
				"params", u.CurrentParams.String(),
				"score", u.CurrentScore,
				"best_score", u.BestScore,
			)
		}
	}()

	defer func() {
		close(progress)
		<-drained
	}()

	searchConfig := treetune.SearchConfig{
		Scoring:          cfg.Scoring,
		CV:               cfg.CVFolds,
		NJobs:            cfg.NJobs,
		Refit:            true,
		ReturnTrainScore: true,
		Seed:             cfg.Seed,
		ProgressChan:     progress,
	}

	var rows []treetune.NamedResult

	for _, strategy := range cfg.Strategies {
		search, err := newSearch(strategy, cfg, searchConfig)
		if err != nil {
			return err
		}

		logger.Info("search starting", "strategy", strategy)

		res, err := search.Fit(ctx, train.X, train.Y)
		if err != nil {
			return fmt.Errorf("%s search: %w", strategy, err)
		}

		score, err := res.Score(valid.X, valid.Y)
		if err != nil {
			return fmt.Errorf("%s search: validation: %w", strategy, err)
		}

		logger.Info(
			"search finished",
			"strategy", strategy,
			"run_id", res.RunID,
			"candidates", res.CVResults.Len(),
			"best_score", res.BestScore,
			"validation_score", score,
			"elapsed", res.Elapsed,
		)

		section(out, fmt.Sprintf("%s search: top %d of %d configurations", strategy, cfg.TopN, res.CVResults.Len()))

		if err := treetune.Report(out, res.CVResults, cfg.TopN); err != nil {
			return err
		}

		for _, name := range cfg.PlotParams {
			if !slices.Contains(res.CVResults.ParamNames(), name) {
				continue
			}

			path := ""
			if plots {
				path = filepath.Join(cfg.OutputDir, fmt.Sprintf("%s_%s.png", strategy, name))
			}

			fmt.Fprintf(out, "%s: ", name)

			if err := treetune.PlotParam(out, name, res.CVResults, path); err != nil {
				return err
			}
		}

		fmt.Fprintf(out, "Validation %s of best model: %.4f\n", cfg.Scoring, score)

		rows = append(rows, treetune.NamedResult{Name: strategy, Result: res, ValidationScore: score})
	}

	if len(rows) == 0 {
		return nil
	}

	section(out, "comparison")

	if err := treetune.Summary(out, rows); err != nil {
		return err
	}

	best := rows[0]
	for _, r := range rows[1:] {
		if r.ValidationScore > best.ValidationScore {
			best = r
		}
	}

	section(out, fmt.Sprintf("best model on held-out data (%s search)", best.Name))

	return evaluate(out, best.Result.BestEstimator, valid)
}

func newSearch(strategy string, cfg *config.Config, sc treetune.SearchConfig) (searcher, error) {
	factory := treeFactory(cfg.Seed)

	switch strategy {
	case treetune.StrategyGrid:
		return treetune.NewGridSearchCV(factory, cfg.SearchGrid(), sc), nil
	case treetune.StrategyRandom:
		space, err := cfg.RandomSpace()
		if err != nil {
			return nil, err
		}

		return treetune.NewRandomizedSearchCV(factory, space, cfg.Random.NIter, sc), nil
	case treetune.StrategyBayes:
		space, err := cfg.BayesSpace()
		if err != nil {
			return nil, err
		}

		acq, ok := treetune.AcquisitionByName(cfg.Bayes.Acquisition)
		if !ok {
			return nil, fmt.Errorf("unknown acquisition %q", cfg.Bayes.Acquisition)
		}

		search := treetune.NewBayesSearchCV(factory, space, cfg.Bayes.NIter, sc)
		search.Bayes.InitialSamples = cfg.Bayes.InitialSamples
		search.Bayes.NumCandidates = cfg.Bayes.NumCandidates
		search.Bayes.AcquisitionFunc = acq
		search.Bayes.AcqParams.Beta = cfg.Bayes.Beta
		search.Bayes.AcqParams.Xi = cfg.Bayes.Xi

		return search, nil
	default:
		return nil, fmt.Errorf("unknown strategy %q", strategy)
	}
}

// treeFactory builds decision trees seeded with seed unless the
// configuration sets random_state itself.
func treeFactory(seed int64) treetune.Factory {
	return func(p treetune.Params) (treetune.Classifier, error) {
		params := p.Clone()
		if _, ok := params[tree.ParamRandomState]; !ok {
			params[tree.ParamRandomState] = seed
		}

		return tree.FromParams(params)
	}
}

func baseline(out io.Writer, cfg *config.Config, scorer treetune.Scorer, train, valid *dataset.Dataset) error {
	clf := tree.New(tree.WithRandomState(cfg.Seed))
	if err := clf.Fit(train.X, train.Y); err != nil {
		return fmt.Errorf("baseline: %w", err)
	}

	trainScore, err := scorer(clf, train.X, train.Y)
	if err != nil {
		return fmt.Errorf("baseline: %w", err)
	}

	validScore, err := scorer(clf, valid.X, valid.Y)
	if err != nil {
		return fmt.Errorf("baseline: %w", err)
	}

	section(out, "baseline decision tree (default hyperparameters)")
	fmt.Fprintf(out, "Train %s: %.4f\nValidation %s: %.4f\nDepth: %d, leaves: %d\n",
		cfg.Scoring, trainScore, cfg.Scoring, validScore, clf.Depth(), clf.Leaves())

	return nil
}

// evaluate prints the held-out metrics of clf.
func evaluate(out io.Writer, clf treetune.Classifier, valid *dataset.Dataset) error {
	pred, err := clf.Predict(valid.X)
	if err != nil {
		return err
	}

	proba, err := clf.PredictProba(valid.X)
	if err != nil {
		return err
	}

	pos := make([]float64, len(proba))
	for i, p := range proba {
		if len(p) > 1 {
			pos[i] = p[1]
		}
	}

	prec, rec, f1 := treetune.PrecisionRecallF1(valid.Y, pred, 1)

	fmt.Fprintf(out, "Accuracy:          %.4f\n", treetune.Accuracy(valid.Y, pred))
	fmt.Fprintf(out, "Balanced accuracy: %.4f\n", treetune.BalancedAccuracy(valid.Y, pred))
	fmt.Fprintf(out, "Precision (%s): %.4f\n", valid.Classes[1], prec)
	fmt.Fprintf(out, "Recall (%s):    %.4f\n", valid.Classes[1], rec)
	fmt.Fprintf(out, "F1 (%s):        %.4f\n", valid.Classes[1], f1)

	if auc, err := treetune.ROCAUC(valid.Y, pos); err == nil {
		fmt.Fprintf(out, "ROC AUC:           %.4f\n", auc)
	}

	return nil
}

func section(out io.Writer, title string) {
	fmt.Fprintf(out, "\n%s\n%s\n", title, strings.Repeat("=", len(title)))
}
