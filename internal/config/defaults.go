package config

import (
	"runtime"

	"github.com/thalesfsp/treetune"
	"github.com/thalesfsp/treetune/dataset"
)

// AllStrategies lists the searches in the order the CLI runs them.
var AllStrategies = []string{
	treetune.StrategyGrid,
	treetune.StrategyRandom,
	treetune.StrategyBayes,
}

// Default returns the configuration used for any value the file and the
// environment leave unset: the census-income layout, a 20% stratified
// validation split, 5-fold accuracy, and the search spaces below.
func Default() *Config {
	return &Config{
		DataPath:   "data/adult.csv",
		OutputDir:  "plots",
		Label:      dataset.CensusLabel,
		Positive:   dataset.CensusPositive,
		Drop:       []string{dataset.CensusIdentifier},
		TestSize:   0.2,
		CVFolds:    5,
		Scoring:    treetune.ScoringAccuracy,
		NJobs:      runtime.NumCPU(),
		TopN:       3,
		Strategies: AllStrategies,
		PlotParams: []string{"max_depth", "min_samples_leaf"},
		Grid: map[string][]any{
			"criterion":        {"gini", "entropy"},
			"max_depth":        {2, 4, 6, 8, 10, 12},
			"min_samples_leaf": {1, 5, 10, 20},
		},
		Random: RandomConfig{
			NIter: 20,
			Params: map[string]DimensionConfig{
				"criterion":         {Type: "choice", Values: []any{"gini", "entropy"}},
				"max_depth":         {Type: "int", Min: 2, Max: 20},
				"min_samples_leaf":  {Type: "int", Min: 1, Max: 50},
				"min_samples_split": {Type: "int", Min: 2, Max: 50},
			},
		},
		Bayes: BayesConfig{
			NIter:          20,
			InitialSamples: 5,
			NumCandidates:  200,
			Acquisition:    treetune.AcquisitionUCB,
			Beta:           1.96,
			Xi:             0.01,
			Params: map[string]DimensionConfig{
				"criterion":         {Type: "choice", Values: []any{"gini", "entropy"}},
				"max_depth":         {Type: "int", Min: 2, Max: 20},
				"min_samples_leaf":  {Type: "int", Min: 1, Max: 50},
				"min_samples_split": {Type: "int", Min: 2, Max: 50},
			},
		},
		LogLevel:  "info",
		LogFormat: "text",
	}
}
