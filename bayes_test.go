package treetune

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBayesSearchCV(t *testing.T) {
	X, y := lineData()

	// Using default configuration (UCB)
	search := NewBayesSearchCV(thresholdFactory, Space{
		"t": ParameterRange[float64]{Min: 0, Max: 1},
	}, 15, testConfig())

	result, err := search.Fit(context.Background(), X, y)
	require.NoError(t, err)

	assert.Equal(t, 15, result.CVResults.Len())
	assert.Equal(t, StrategyBayes, result.Strategy)

	for _, p := range result.CVResults.Params {
		assert.GreaterOrEqual(t, p["t"].(float64), 0.0)
		assert.LessOrEqual(t, p["t"].(float64), 1.0)
	}

	// Anything in [0.3, 0.7] scores at least 0.8.
	assert.GreaterOrEqual(t, result.BestScore, 0.8)
}

func TestBayesSearchCVAcquisitionFunctions(t *testing.T) {
	X, y := lineData()

	for name, acq := range map[string]AcquisitionFunc{
		AcquisitionUCB:      UCB,
		AcquisitionPI:       ProbabilityOfImprovement,
		AcquisitionEI:       ExpectedImprovement,
		AcquisitionThompson: ThompsonSampling,
	} {
		t.Run(name, func(t *testing.T) {
			search := NewBayesSearchCV(thresholdFactory, Space{
				"t": ParameterRange[float64]{Min: 0, Max: 1},
			}, 8, testConfig())

			search.Bayes.InitialSamples = 3
			search.Bayes.NumCandidates = 50
			search.Bayes.AcquisitionFunc = acq

			result, err := search.Fit(context.Background(), X, y)
			require.NoError(t, err)
			assert.Equal(t, 8, result.CVResults.Len())
		})
	}
}

func TestBayesSearchCVExhaustsFiniteSpace(t *testing.T) {
	X, y := lineData()

	search := NewBayesSearchCV(thresholdFactory, Space{
		"t": Choice{0.3, 0.5, 0.7},
	}, 10, testConfig())

	result, err := search.Fit(context.Background(), X, y)
	require.NoError(t, err)

	// Never evaluates a point twice.
	assert.Equal(t, 3, result.CVResults.Len())
	assert.Equal(t, 3, distinct(t, result.CVResults.Params))
	assert.Equal(t, Params{"t": 0.5}, result.BestParams)
}

func TestBayesSearchCVChannel(t *testing.T) {
	X, y := lineData()

	config := testConfig()

	// Create a bidirectional channel for progress updates
	progressChan := make(chan ProgressUpdate, 8)

	// Assign the channel to config (will be automatically converted to send-only)
	config.ProgressChan = progressChan

	var (
		counter int32
		phases  sync.Map
		wg      sync.WaitGroup
	)

	wg.Add(1)

	// Start a goroutine to handle progress updates.
	go func() {
		defer wg.Done()

		for update := range progressChan {
			atomic.AddInt32(&counter, 1)
			phases.Store(update.Phase, true)
		}
	}()

	search := NewBayesSearchCV(thresholdFactory, Space{
		"t": ParameterRange[float64]{Min: 0, Max: 1},
	}, 8, config)

	search.Bayes.InitialSamples = 3

	result, err := search.Fit(context.Background(), X, y)
	require.NoError(t, err)

	close(progressChan)
	wg.Wait()

	// Ensure events where emitted.
	assert.Greater(t, atomic.LoadInt32(&counter), int32(0))

	_, ok := phases.Load(PhaseInitialSampling)
	assert.True(t, ok)

	_, ok = phases.Load(PhaseOptimization)
	assert.True(t, ok)

	assert.Equal(t, 8, result.CVResults.Len())
}

func TestBayesSearchCVInvalid(t *testing.T) {
	X, y := lineData()

	_, err := NewBayesSearchCV(thresholdFactory, Space{"t": Choice{0.5}}, 0, testConfig()).Fit(context.Background(), X, y)
	assert.ErrorIs(t, err, ErrInvalidConfig)

	_, err = NewBayesSearchCV(thresholdFactory, Space{"t": Choice{}}, 3, testConfig()).Fit(context.Background(), X, y)
	assert.ErrorIs(t, err, ErrEmptyGrid)
}
