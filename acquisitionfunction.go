package treetune

import (
	"math"
	"math/rand"
)

// AcquisitionFunc scores a candidate from the surrogate's prediction. The
// Bayesian search minimizes the negated CV score, so mean is "lower is
// better" and the candidate with the lowest acquisition value is evaluated
// next.
//
// Parameters:
// - mean: The predicted objective at a point (lower is better)
// - variance: The predicted variance/uncertainty at that point
// - params: Additional parameters needed by specific acquisition functions
//
// Built-in acquisition functions:
// - UCB: confidence bound
// - ProbabilityOfImprovement: Probability of finding better value
// - ExpectedImprovement: Expected magnitude of improvement
// - ThompsonSampling: Random sampling from posterior
type AcquisitionFunc func(mean, variance float64, params AcquisitionParams) float64

// AcquisitionParams holds the knobs of the acquisition functions.
type AcquisitionParams struct {
	// Beta weighs uncertainty in UCB. Higher values explore more.
	// Typical values range from 0.1 to 5.0, with 1.96 a good default.
	Beta float64

	// Xi is the minimum improvement PI and EI look for.
	// Typical values range from 0.0 to 0.1.
	Xi float64

	// BestSoFar is the lowest objective observed so far. The search keeps
	// it up to date; it must start at math.MaxFloat64.
	BestSoFar float64

	// RandomState is used by Thompson Sampling. Do not share it between
	// searches.
	RandomState *rand.Rand
}

// Acquisition function names accepted by AcquisitionByName.
const (
	AcquisitionUCB      = "ucb"
	AcquisitionPI       = "pi"
	AcquisitionEI       = "ei"
	AcquisitionThompson = "thompson"
)

// AcquisitionByName maps a configuration name to its function.
func AcquisitionByName(name string) (AcquisitionFunc, bool) {
	switch name {
	case AcquisitionUCB, "":
		return UCB, true
	case AcquisitionPI:
		return ProbabilityOfImprovement, true
	case AcquisitionEI:
		return ExpectedImprovement, true
	case AcquisitionThompson:
		return ThompsonSampling, true
	default:
		return nil, false
	}
}

// UCB implements the confidence bound acquisition function for
// minimization: the optimistic (lower) bound mean - Beta*stddev.
//
// When to use:
// - General purpose, works well in most cases
// - When you want direct control over exploration-exploitation trade-off
//
// Example:
//
//	params := AcquisitionParams{Beta: 2.0}
//	value := UCB(-0.82, 0.001, params)
func UCB(mean, variance float64, params AcquisitionParams) float64 {
	return mean - params.Beta*math.Sqrt(variance)
}

// ProbabilityOfImprovement returns the negated probability that a point
// beats BestSoFar by at least Xi.
//
// When to use:
// - When you want to be conservative in exploring new points
// - When being "probably better" matters more than "how much better"
func ProbabilityOfImprovement(mean, variance float64, params AcquisitionParams) float64 {
	improvement := params.BestSoFar - mean - params.Xi

	sigma := math.Sqrt(variance)
	if sigma == 0 {
		if improvement > 0 {
			return -1
		}

		return 0
	}

	return -normalCDF(improvement / sigma)
}

// ExpectedImprovement returns the negated expected improvement over
// BestSoFar - Xi.
//
// When to use:
// - Most commonly used acquisition function
// - When the magnitude of improvement matters
func ExpectedImprovement(mean, variance float64, params AcquisitionParams) float64 {
	improvement := params.BestSoFar - mean - params.Xi

	sigma := math.Sqrt(variance)
	if sigma == 0 {
		return -math.Max(improvement, 0)
	}

	z := improvement / sigma

	return -(improvement*normalCDF(z) + sigma*normalPDF(z))
}

// ThompsonSampling draws one sample from the posterior at the point.
//
// Warning:
// - RandomState must be initialized.
func ThompsonSampling(mean, variance float64, params AcquisitionParams) float64 {
	return mean + math.Sqrt(variance)*params.RandomState.NormFloat64()
}
