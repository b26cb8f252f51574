package treetune

import (
	"fmt"
	"math"
	"runtime"
	"strconv"
)

//////
// Helper functions.
//////

// Helper function used by PI and EI to compute the cumulative distribution
// function of the standard normal distribution.
//
// Returns:
// - Probability that a standard normal random variable is less than x.
func normalCDF(x float64) float64 {
	return 0.5 * (1.0 + math.Erf(x/math.Sqrt2))
}

// Helper function used by EI to compute the probability density function
// of the standard normal distribution.
//
// Returns:
// - Value of the standard normal PDF at x.
func normalPDF(x float64) float64 {
	return math.Exp(-x*x/2.0) / math.Sqrt(2.0*math.Pi)
}

// formatValue renders a parameter value the way reports print it.
func formatValue(v any) string {
	switch t := v.(type) {
	case nil:
		return "None"
	case float64:
		return strconv.FormatFloat(t, 'g', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(t), 'g', -1, 32)
	default:
		return fmt.Sprint(t)
	}
}

// sameValue compares two parameter values by their rendering, so that a
// YAML int 3 and an int64 3 are the same value.
func sameValue(a, b any) bool {
	return formatValue(a) == formatValue(b)
}

// take gathers the rows of X and y at idx.
func take(X [][]float64, y []int, idx []int) ([][]float64, []int) {
	xs := make([][]float64, len(idx))
	ys := make([]int, len(idx))

	for i, j := range idx {
		xs[i] = X[j]
		ys[i] = y[j]
	}

	return xs, ys
}

// defaultJobs is one concurrent fold per CPU.
func defaultJobs() int {
	return runtime.NumCPU()
}
