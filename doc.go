// Package treetune provides cross-validated hyperparameter search for
// classifiers: exhaustive grid search, randomized search and Bayesian
// optimization with Gaussian Processes, plus the reporting and plotting
// helpers to compare them.
//
// # Features
//
// The package includes the following key features:
//
//   - Grid search: evaluates every combination of a Grid
//   - Randomized search: a fixed budget of configurations drawn from a
//     Space, without replacement when the space is finite
//   - Bayesian optimization: a Gaussian Process surrogate over the unit
//     hypercube picks each next configuration through an acquisition
//     function (UCB, PI, EI, Thompson Sampling)
//   - Stratified k-fold cross-validation with folds fitted concurrently
//   - Scorers: accuracy, balanced_accuracy, precision, recall, f1, roc_auc
//   - Results in the familiar cv_results layout (param_<name>,
//     mean_test_score, rank_test_score, ...)
//   - Progress Monitoring: updates after every candidate via channels
//   - Reproducible: every random choice derives from SearchConfig.Seed
//
// # Estimators
//
// Searches drive any Classifier through a Factory that builds a fresh,
// configured instance per fold:
//
//	factory := func(p treetune.Params) (treetune.Classifier, error) {
//	    return tree.FromParams(p)
//	}
//
// # Grid search
//
//	grid := treetune.Grid{
//	    "criterion": {"gini", "entropy"},
//	    "max_depth": {2, 4, 8, nil},
//	}
//
//	result, err := treetune.NewGridSearchCV(factory, grid, config).Fit(ctx, X, y)
//
// # Randomized search
//
//	space := treetune.Space{
//	    "criterion":        treetune.Choice{"gini", "entropy"},
//	    "max_depth":        treetune.ParameterRange[int]{Min: 2, Max: 20},
//	    "min_samples_leaf": treetune.ParameterRange[int]{Min: 1, Max: 50},
//	}
//
//	result, err := treetune.NewRandomizedSearchCV(factory, space, 20, config).Fit(ctx, X, y)
//
// # Bayesian optimization
//
//	search := treetune.NewBayesSearchCV(factory, space, 20, config)
//	search.Bayes.AcquisitionFunc = treetune.ExpectedImprovement
//
//	result, err := search.Fit(ctx, X, y)
//
// The search minimizes the negated mean CV score. Recommended settings:
//   - NIter: 20-100
//   - InitialSamples: 5-10
//   - NumCandidates: 100-1000
//
// # Reporting
//
//	treetune.Report(os.Stdout, result.CVResults, 3)
//	treetune.PlotParam(os.Stdout, "max_depth", result.CVResults, "max_depth.png")
//
// # Thread Safety
//
//   - Searches are safe to run concurrently with different configs
//   - The Gaussian Process model uses an RWMutex
//   - Progress channel sends never block the search
//   - No random source is shared between goroutines
package treetune
