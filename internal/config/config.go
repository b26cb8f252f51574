package config

import (
	"errors"
	"fmt"
	"os"
	"slices"
	"strings"

	"github.com/spf13/cast"
	"gopkg.in/yaml.v3"

	"github.com/thalesfsp/treetune"
	"github.com/thalesfsp/treetune/dataset"
)

const (
	EnvConfigPath = "TREETUNE_CONFIG"
	EnvDataPath   = "TREETUNE_DATA_PATH"
	EnvOutputDir  = "TREETUNE_OUTPUT_DIR"
	EnvScoring    = "TREETUNE_SCORING"
	EnvSeed       = "TREETUNE_SEED"
	EnvCVFolds    = "TREETUNE_CV_FOLDS"
	EnvNJobs      = "TREETUNE_N_JOBS"
	EnvTopN       = "TREETUNE_TOP_N"
	EnvLogLevel   = "TREETUNE_LOG_LEVEL"
	EnvLogFormat  = "TREETUNE_LOG_FORMAT"
)

// ErrInvalid is returned by Validate.
var ErrInvalid = errors.New("config: invalid")

// Config is the root configuration of the treetune CLI.
type Config struct {
	DataPath  string   `yaml:"data_path"`
	OutputDir string   `yaml:"output_dir"`
	Label     string   `yaml:"label"`
	Positive  string   `yaml:"positive"`
	Drop      []string `yaml:"drop_columns"`
	DropFirst bool     `yaml:"drop_first"`

	TestSize float64 `yaml:"test_size"`
	Seed     int64   `yaml:"seed"`
	CVFolds  int     `yaml:"cv_folds"`
	Scoring  string  `yaml:"scoring"`
	NJobs    int     `yaml:"n_jobs"`
	TopN     int     `yaml:"top_n"`

	Strategies []string `yaml:"strategies"`
	PlotParams []string `yaml:"plot_params"`

	Grid   map[string][]any `yaml:"grid"`
	Random RandomConfig     `yaml:"random"`
	Bayes  BayesConfig      `yaml:"bayes"`

	LogLevel  string `yaml:"log_level"`
	LogFormat string `yaml:"log_format"`
}

// RandomConfig declares the randomized search.
type RandomConfig struct {
	NIter  int                        `yaml:"n_iter"`
	Params map[string]DimensionConfig `yaml:"params"`
}

// BayesConfig declares the Bayesian search.
type BayesConfig struct {
	NIter          int                        `yaml:"n_iter"`
	InitialSamples int                        `yaml:"initial_samples"`
	NumCandidates  int                        `yaml:"num_candidates"`
	Acquisition    string                     `yaml:"acquisition"`
	Beta           float64                    `yaml:"beta"`
	Xi             float64                    `yaml:"xi"`
	Params         map[string]DimensionConfig `yaml:"params"`
}

// DimensionConfig declares one search dimension:
//
//	max_depth:   {type: int, min: 2, max: 20}
//	criterion:   {type: choice, values: [gini, entropy]}
//	min_impurity_decrease: {type: float, min: 1.0e-6, max: 1.0e-2, log: true}
type DimensionConfig struct {
	Type   string `yaml:"type"`
	Values []any  `yaml:"values"`
	Min    any    `yaml:"min"`
	Max    any    `yaml:"max"`
	Log    bool   `yaml:"log"`
}

// Load reads the YAML file at path (skipped when path is empty), applies
// environment overrides, fills defaults and validates the result.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	if path == "" {
		path = os.Getenv(EnvConfigPath)
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}

		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
	}

	if err := cfg.loadEnv(); err != nil {
		return nil, err
	}

	cfg.finalize()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) loadEnv() error {
	envOverride(&c.DataPath, EnvDataPath)
	envOverride(&c.OutputDir, EnvOutputDir)
	envOverride(&c.Scoring, EnvScoring)
	envOverride(&c.LogLevel, EnvLogLevel)
	envOverride(&c.LogFormat, EnvLogFormat)

	if v := os.Getenv(EnvSeed); v != "" {
		seed, err := cast.ToInt64E(v)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvSeed, err)
		}

		c.Seed = seed
	}

	for env, dst := range map[string]*int{
		EnvCVFolds: &c.CVFolds,
		EnvNJobs:   &c.NJobs,
		EnvTopN:    &c.TopN,
	} {
		if err := envOverrideInt(dst, env); err != nil {
			return err
		}
	}

	return nil
}

func (c *Config) finalize() {
	d := Default()

	if c.DataPath == "" {
		c.DataPath = d.DataPath
	}
	if c.OutputDir == "" {
		c.OutputDir = d.OutputDir
	}
	if c.Label == "" {
		c.Label = d.Label
		if c.Positive == "" {
			c.Positive = d.Positive
		}
	}
	if c.Drop == nil {
		c.Drop = d.Drop
	}
	if c.TestSize == 0 {
		c.TestSize = d.TestSize
	}
	if c.CVFolds == 0 {
		c.CVFolds = d.CVFolds
	}
	if c.Scoring == "" {
		c.Scoring = d.Scoring
	}
	if c.NJobs == 0 {
		c.NJobs = d.NJobs
	}
	if c.TopN == 0 {
		c.TopN = d.TopN
	}
	if len(c.Strategies) == 0 {
		c.Strategies = d.Strategies
	}
	if c.PlotParams == nil {
		c.PlotParams = d.PlotParams
	}
	if c.Grid == nil {
		c.Grid = d.Grid
	}
	if c.Random.NIter == 0 {
		c.Random.NIter = d.Random.NIter
	}
	if c.Random.Params == nil {
		c.Random.Params = d.Random.Params
	}
	if c.Bayes.NIter == 0 {
		c.Bayes.NIter = d.Bayes.NIter
	}
	if c.Bayes.InitialSamples == 0 {
		c.Bayes.InitialSamples = d.Bayes.InitialSamples
	}
	if c.Bayes.NumCandidates == 0 {
		c.Bayes.NumCandidates = d.Bayes.NumCandidates
	}
	if c.Bayes.Acquisition == "" {
		c.Bayes.Acquisition = d.Bayes.Acquisition
	}
	if c.Bayes.Beta == 0 {
		c.Bayes.Beta = d.Bayes.Beta
	}
	if c.Bayes.Xi == 0 {
		c.Bayes.Xi = d.Bayes.Xi
	}
	if c.Bayes.Params == nil {
		c.Bayes.Params = d.Bayes.Params
	}
	if c.LogLevel == "" {
		c.LogLevel = d.LogLevel
	}
	if c.LogFormat == "" {
		c.LogFormat = d.LogFormat
	}
}

// Validate checks values the searches would otherwise reject late.
func (c *Config) Validate() error {
	if c.TestSize <= 0 || c.TestSize >= 1 {
		return fmt.Errorf("%w: test_size %v not in (0, 1)", ErrInvalid, c.TestSize)
	}

	if c.CVFolds < 2 {
		return fmt.Errorf("%w: cv_folds %d < 2", ErrInvalid, c.CVFolds)
	}

	if _, err := treetune.GetScorer(c.Scoring); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}

	for _, s := range c.Strategies {
		if !slices.Contains(AllStrategies, s) {
			return fmt.Errorf("%w: strategy %q (known: %v)", ErrInvalid, s, AllStrategies)
		}
	}

	if _, ok := treetune.AcquisitionByName(c.Bayes.Acquisition); !ok {
		return fmt.Errorf("%w: acquisition %q", ErrInvalid, c.Bayes.Acquisition)
	}

	if _, err := c.RandomSpace(); err != nil {
		return fmt.Errorf("%w: random: %v", ErrInvalid, err)
	}

	if _, err := c.BayesSpace(); err != nil {
		return fmt.Errorf("%w: bayes: %v", ErrInvalid, err)
	}

	return nil
}

// SearchGrid returns the grid search space.
func (c *Config) SearchGrid() treetune.Grid {
	return treetune.Grid(c.Grid)
}

// RandomSpace returns the randomized search space.
func (c *Config) RandomSpace() (treetune.Space, error) {
	return buildSpace(c.Random.Params)
}

// BayesSpace returns the Bayesian search space.
func (c *Config) BayesSpace() (treetune.Space, error) {
	return buildSpace(c.Bayes.Params)
}

// EncodeOptions returns the dataset encoding settings.
func (c *Config) EncodeOptions() dataset.EncodeOptions {
	return dataset.EncodeOptions{Label: c.Label, Positive: c.Positive, DropFirst: c.DropFirst}
}

// SplitOptions returns the train/validation split settings.
func (c *Config) SplitOptions() dataset.SplitOptions {
	return dataset.SplitOptions{TestSize: c.TestSize, Seed: c.Seed, Stratify: true}
}

// Dimension converts the declaration into a search dimension.
func (d DimensionConfig) Dimension() (treetune.Dimension, error) {
	var dim treetune.Dimension

	switch strings.ToLower(d.Type) {
	case "choice", "categorical":
		dim = treetune.Choice(d.Values)
	case "int", "integer":
		lo, err := cast.ToIntE(d.Min)
		if err != nil {
			return nil, fmt.Errorf("min: %w", err)
		}

		hi, err := cast.ToIntE(d.Max)
		if err != nil {
			return nil, fmt.Errorf("max: %w", err)
		}

		dim = treetune.ParameterRange[int]{Min: lo, Max: hi, Log: d.Log}
	case "float", "real", "uniform":
		lo, err := cast.ToFloat64E(d.Min)
		if err != nil {
			return nil, fmt.Errorf("min: %w", err)
		}

		hi, err := cast.ToFloat64E(d.Max)
		if err != nil {
			return nil, fmt.Errorf("max: %w", err)
		}

		dim = treetune.ParameterRange[float64]{Min: lo, Max: hi, Log: d.Log}
	default:
		return nil, fmt.Errorf("unknown dimension type %q", d.Type)
	}

	if err := dim.Validate(); err != nil {
		return nil, err
	}

	return dim, nil
}

func buildSpace(decl map[string]DimensionConfig) (treetune.Space, error) {
	space := make(treetune.Space, len(decl))

	for name, d := range decl {
		dim, err := d.Dimension()
		if err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}

		space[name] = dim
	}

	return space, nil
}

func envOverride(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func envOverrideInt(dst *int, key string) error {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}

	n, err := cast.ToIntE(v)
	if err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}

	*dst = n

	return nil
}
