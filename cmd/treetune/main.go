package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/thalesfsp/treetune/internal/config"
	"github.com/thalesfsp/treetune/internal/logger"
)

func main() {
	boot := logger.New(os.Stderr, "info", "text")

	cfg, err := loadConfig(os.Args[1:])
	if err != nil {
		boot.Error("treetune config", "error", err)
		os.Exit(1)
	}

	logger := logger.Init(os.Stderr, cfg.LogLevel, cfg.LogFormat)
	logger.Info(
		"treetune starting",
		"data", cfg.DataPath,
		"scoring", cfg.Scoring,
		"cv", cfg.CVFolds,
		"strategies", cfg.Strategies,
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger, os.Stdout); err != nil {
		logger.Error("treetune failed", "error", err)
		stop()
		os.Exit(1)
	}

	logger.Info("treetune finished")
}

// loadConfig parses the command line, loads the configuration it points to
// and applies the flag overrides before validating.
func loadConfig(args []string) (*config.Config, error) {
	fs := flag.NewFlagSet("treetune", flag.ContinueOnError)

	var (
		configPath = fs.String("config", "", "YAML configuration file (or "+config.EnvConfigPath+")")
		dataPath   = fs.String("data", "", "census-income CSV, overrides data_path")
		outDir     = fs.String("out", "", "directory for plots, overrides output_dir")
		topN       = fs.Int("top", 0, "configurations reported per search, overrides top_n")
		strategies = fs.String("strategies", "", "comma-separated searches to run: grid,random,bayes")
	)

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		return nil, fmt.Errorf("config load failed: %w", err)
	}

	if *dataPath != "" {
		cfg.DataPath = *dataPath
	}

	if *outDir != "" {
		cfg.OutputDir = *outDir
	}

	if *topN > 0 {
		cfg.TopN = *topN
	}

	if *strategies != "" {
		cfg.Strategies = strings.Split(*strategies, ",")
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config invalid: %w", err)
	}

	return cfg, nil
}
