package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thalesfsp/treetune/internal/config"
)

func clearConfigEnv(t *testing.T) {
	t.Helper()

	for _, k := range []string{
		config.EnvConfigPath, config.EnvDataPath, config.EnvOutputDir, config.EnvScoring, config.EnvSeed,
		config.EnvCVFolds, config.EnvNJobs, config.EnvTopN, config.EnvLogLevel, config.EnvLogFormat,
	} {
		t.Setenv(k, "")
	}
}

func TestLoadConfig(t *testing.T) {
	clearConfigEnv(t)

	cfg, err := loadConfig(nil)
	require.NoError(t, err)
	assert.Equal(t, config.Default().DataPath, cfg.DataPath)

	cfg, err = loadConfig([]string{
		"-data", "census.csv",
		"-out", "plots",
		"-top", "3",
		"-strategies", "grid,bayes",
	})
	require.NoError(t, err)
	assert.Equal(t, "census.csv", cfg.DataPath)
	assert.Equal(t, "plots", cfg.OutputDir)
	assert.Equal(t, 3, cfg.TopN)
	assert.Equal(t, []string{"grid", "bayes"}, cfg.Strategies)
}

func TestLoadConfigErrors(t *testing.T) {
	clearConfigEnv(t)

	_, err := loadConfig([]string{"-strategies", "grid,hyperband"})
	assert.ErrorIs(t, err, config.ErrInvalid)
	assert.ErrorContains(t, err, "config invalid")

	_, err = loadConfig([]string{"-config", "does-not-exist.yaml"})
	assert.ErrorContains(t, err, "config load failed")

	_, err = loadConfig([]string{"-top", "many"})
	assert.Error(t, err)
}
