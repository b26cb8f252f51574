package treetune

import (
	"math"
	"sync"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

//////
// Const, vars, types.
//////

// gaussianProcess implements a thread-safe Gaussian Process regression model
// over points of the unit hypercube. It predicts the objective of untested
// hyperparameter combinations from the ones already cross-validated.
//
// Fields:
// - mu: RWMutex for thread-safe access to all fields
// - X: Observed input points (each point is a slice of float64)
// - Y: Observed objective values at each input point
// - sigma: RBF length scale
// - noise: Diagonal jitter added to the kernel matrix (observation noise)
//
// The posterior (Cholesky factor and weights) is recomputed on Update, so
// Predict only costs two triangular solves.
//
// Thread safety:
// - All fields are protected by the RWMutex
// - Uses RLock for Predict, Lock for Update
type gaussianProcess struct {
	// mu protects access to all fields
	mu sync.RWMutex

	// X stores the input points (encoded hyperparameter combinations)
	X [][]float64

	// Y stores the observed values at each point in X
	Y []float64

	// sigma is the kernel length scale.
	// Larger values = smoother interpolation
	// Smaller values = more local influence
	sigma float64

	// noise is added to the kernel diagonal.
	noise float64

	// Posterior state, valid when chol != nil.
	chol  *mat.Cholesky
	alpha *mat.VecDense
	yMean float64
	yStd  float64
}

//////
// Methods.
//////

// rbf is the Radial Basis Function kernel:
//
//	k(x1, x2) = exp(-sum((x1 - x2)^2) / (2 * sigma^2))
//
// Caller must hold gp.mu.
func (gp *gaussianProcess) rbf(x1, x2 []float64) float64 {
	var sum float64

	for i := range x1 {
		diff := x1[i] - x2[i]

		sum += diff * diff
	}

	return math.Exp(-sum / (2 * gp.sigma * gp.sigma))
}

// Predict returns the posterior mean and variance of the objective at x.
//
// Mathematical details:
// - Targets are standardized before fitting; mean and variance are mapped
//   back to the original scale
// - mean = yMean + yStd * k*ᵀ K⁻¹ y
// - variance = yStd² * (1 - k*ᵀ K⁻¹ k*)
// - Returns (0, 1) if no observations exist
//
// Thread safety:
// - Uses read lock; concurrent predictions are allowed.
func (gp *gaussianProcess) Predict(x []float64) (mean, variance float64) {
	gp.mu.RLock()
	defer gp.mu.RUnlock()

	// Handle case with no observations
	if len(gp.X) == 0 || gp.chol == nil {
		return 0, 1
	}

	n := len(gp.X)
	k := mat.NewVecDense(n, nil)

	for i := range gp.X {
		k.SetVec(i, gp.rbf(x, gp.X[i]))
	}

	mean = gp.yMean + gp.yStd*mat.Dot(k, gp.alpha)

	var v mat.VecDense
	if err := gp.chol.SolveVecTo(&v, k); err != nil {
		return mean, gp.yStd * gp.yStd
	}

	variance = 1 - mat.Dot(k, &v)
	if variance < 1e-12 {
		variance = 1e-12
	}

	return mean, variance * gp.yStd * gp.yStd
}

// Update adds a new observation and refits the posterior.
//
// Important notes:
// - Creates a deep copy of input slice x to prevent external modifications
// - O(n³) in the number of observations; searches stay well below the
//   sizes where this matters
//
// Thread safety:
// - Protected by write mutex (gp.mu)
func (gp *gaussianProcess) Update(x []float64, y float64) {
	gp.mu.Lock()
	defer gp.mu.Unlock()

	// Create deep copy of input to prevent external modifications
	newX := make([]float64, len(x))
	copy(newX, x)

	// Append new observation to our training data
	gp.X = append(gp.X, newX)
	gp.Y = append(gp.Y, y)

	gp.refit()
}

// refit recomputes the posterior. Caller must hold the write lock.
func (gp *gaussianProcess) refit() {
	n := len(gp.X)
	if n == 0 {
		gp.chol = nil
		return
	}

	gp.yMean, gp.yStd = stat.PopMeanStdDev(gp.Y, nil)
	if gp.yStd == 0 || math.IsNaN(gp.yStd) {
		gp.yStd = 1
	}

	K := mat.NewSymDense(n, nil)
	for i := 0; i < n; i++ {
		for j := i; j < n; j++ {
			v := gp.rbf(gp.X[i], gp.X[j])
			if i == j {
				v += gp.noise
			}

			K.SetSym(i, j, v)
		}
	}

	var chol mat.Cholesky
	if ok := chol.Factorize(K); !ok {
		gp.chol = nil
		return
	}

	y := mat.NewVecDense(n, nil)
	for i, v := range gp.Y {
		y.SetVec(i, (v-gp.yMean)/gp.yStd)
	}

	alpha := mat.NewVecDense(n, nil)
	if err := chol.SolveVecTo(alpha, y); err != nil {
		gp.chol = nil
		return
	}

	gp.chol = &chol
	gp.alpha = alpha
}

// Len is the number of observations.
func (gp *gaussianProcess) Len() int {
	gp.mu.RLock()
	defer gp.mu.RUnlock()

	return len(gp.X)
}

//////
// Factory.
//////

// newGaussianProcess creates a model with the given length scale and noise.
// Non-positive values fall back to 0.25 and 1e-6.
func newGaussianProcess(sigma, noise float64) *gaussianProcess {
	if sigma <= 0 {
		sigma = 0.25
	}

	if noise <= 0 {
		noise = 1e-6
	}

	return &gaussianProcess{
		sigma: sigma,
		noise: noise,
	}
}
