package treetune

import (
	"fmt"
	"math"
	"math/rand"
	"sort"

	"golang.org/x/exp/constraints"
)

//////
// Const, vars, types.
//////

// Dimension is one axis of a search space. Randomized search draws from it;
// Bayesian search additionally maps its values to and from the unit interval
// where the Gaussian process works.
type Dimension interface {
	// Sample draws one value.
	Sample(rng *rand.Rand) any

	// Size is the number of distinct values, or 0 for a continuous axis.
	Size() int

	// Value returns the i-th distinct value of a finite axis.
	Value(i int) any

	// ToUnit maps a value of this axis into [0, 1].
	ToUnit(v any) float64

	// FromUnit maps u in [0, 1] back to the closest value of this axis.
	FromUnit(u float64) any

	// Validate reports a malformed axis.
	Validate() error
}

// Space maps parameter names to the dimension they are drawn from.
type Space map[string]Dimension

// Choice is a categorical dimension: values are drawn uniformly from the
// list. A nil entry is a valid value (e.g. an unlimited max_depth).
//
// Usage example:
//
//	space := Space{
//	    "criterion": Choice{"gini", "entropy"},
//	    "max_depth": Choice{4, 8, nil},
//	}
type Choice []any

// ParameterRange defines an inclusive numeric range for a hyperparameter.
//
// Type Parameter:
//   - T: The numeric type for this parameter range. Integer types are drawn
//     uniformly among the integers of [Min, Max]; float types uniformly on
//     [Min, Max].
//
// Fields:
// - Min: The minimum (inclusive) value for this hyperparameter
// - Max: The maximum (inclusive) value for this hyperparameter
// - Log: Draw uniformly in log space; requires Min > 0
//
// Usage:
//
//	// Example 1: tree depth from 2 to 20
//	depth := ParameterRange[int]{Min: 2, Max: 20}
//
//	// Example 2: impurity decrease from 1e-5 to 1e-1, log-uniform
//	decrease := ParameterRange[float64]{Min: 1e-5, Max: 1e-1, Log: true}
//
// Validation:
// - Min must be less than or equal to Max
// - The range is inclusive of both Min and Max values
type ParameterRange[T constraints.Integer | constraints.Float] struct {
	// Min defines the minimum allowed value (inclusive).
	Min T

	// Max defines the maximum allowed value (inclusive).
	Max T

	// Log switches to log-uniform sampling.
	Log bool
}

//////
// Choice.
//////

// Sample implements Dimension.
func (c Choice) Sample(rng *rand.Rand) any {
	return c[rng.Intn(len(c))]
}

// Size implements Dimension.
func (c Choice) Size() int { return len(c) }

// Value implements Dimension.
func (c Choice) Value(i int) any { return c[i] }

// ToUnit places the i-th of n choices at i/(n-1). Unknown values map to 0.
func (c Choice) ToUnit(v any) float64 {
	if len(c) < 2 {
		return 0.5
	}

	for i, cv := range c {
		if sameValue(cv, v) {
			return float64(i) / float64(len(c)-1)
		}
	}

	return 0
}

// FromUnit implements Dimension.
func (c Choice) FromUnit(u float64) any {
	if len(c) == 1 {
		return c[0]
	}

	return c[int(math.Round(clamp01(u)*float64(len(c)-1)))]
}

// Validate implements Dimension.
func (c Choice) Validate() error {
	if len(c) == 0 {
		return fmt.Errorf("%w: choice without values", ErrEmptyGrid)
	}

	return nil
}

//////
// ParameterRange.
//////

// Sample implements Dimension.
func (r ParameterRange[T]) Sample(rng *rand.Rand) any {
	if isInteger[T]() {
		if r.Log {
			return r.FromUnit(rng.Float64())
		}

		min := int64(r.Min)
		max := int64(r.Max)

		return T(min + rng.Int63n(max-min+1))
	}

	return r.FromUnit(rng.Float64())
}

// Size implements Dimension.
func (r ParameterRange[T]) Size() int {
	if !isInteger[T]() {
		return 0
	}

	return int(int64(r.Max)-int64(r.Min)) + 1
}

// Value implements Dimension.
func (r ParameterRange[T]) Value(i int) any {
	return T(int64(r.Min) + int64(i))
}

// ToUnit implements Dimension.
func (r ParameterRange[T]) ToUnit(v any) float64 {
	x, ok := toFloat(v)
	if t, own := v.(T); own {
		x, ok = float64(t), true
	}

	if !ok || r.Max == r.Min {
		return 0
	}

	lo, hi := float64(r.Min), float64(r.Max)
	if r.Log {
		return clamp01((math.Log(x) - math.Log(lo)) / (math.Log(hi) - math.Log(lo)))
	}

	return clamp01((x - lo) / (hi - lo))
}

// FromUnit implements Dimension.
func (r ParameterRange[T]) FromUnit(u float64) any {
	u = clamp01(u)
	lo, hi := float64(r.Min), float64(r.Max)

	var x float64
	if r.Log {
		x = math.Exp(math.Log(lo) + u*(math.Log(hi)-math.Log(lo)))
	} else {
		x = lo + u*(hi-lo)
	}

	if isInteger[T]() {
		x = math.Round(x)
	}

	x = math.Min(math.Max(x, lo), hi)

	return T(x)
}

// Validate implements Dimension.
func (r ParameterRange[T]) Validate() error {
	if r.Min > r.Max {
		return fmt.Errorf("%w: min %v > max %v", ErrInvalidRange, r.Min, r.Max)
	}

	if r.Log && r.Min <= 0 {
		return fmt.Errorf("%w: log range needs min > 0, got %v", ErrInvalidRange, r.Min)
	}

	return nil
}

//////
// Space.
//////

// Keys returns the parameter names in sorted order.
func (s Space) Keys() []string {
	keys := make([]string, 0, len(s))
	for k := range s {
		keys = append(keys, k)
	}

	sort.Strings(keys)

	return keys
}

// Validate checks every dimension.
func (s Space) Validate() error {
	if len(s) == 0 {
		return ErrEmptyGrid
	}

	for _, k := range s.Keys() {
		if s[k] == nil {
			return fmt.Errorf("%w: %q has no dimension", ErrEmptyGrid, k)
		}

		if err := s[k].Validate(); err != nil {
			return fmt.Errorf("%s: %w", k, err)
		}
	}

	return nil
}

// Sample draws one value per dimension.
func (s Space) Sample(rng *rand.Rand) Params {
	p := make(Params, len(s))
	for _, k := range s.Keys() {
		p[k] = s[k].Sample(rng)
	}

	return p
}

// Size is the number of distinct points in the space, or 0 when any
// dimension is continuous. Sizes that overflow an int report math.MaxInt.
func (s Space) Size() int {
	total := 1

	for _, d := range s {
		n := d.Size()
		if n == 0 {
			return 0
		}

		if total > math.MaxInt/n {
			return math.MaxInt
		}

		total *= n
	}

	return total
}

// At decodes the i-th point of a finite space. The last key in sorted order
// varies fastest, matching the order of Grid.Candidates.
func (s Space) At(i int) Params {
	keys := s.Keys()
	p := make(Params, len(keys))

	for j := len(keys) - 1; j >= 0; j-- {
		d := s[keys[j]]
		n := d.Size()
		p[keys[j]] = d.Value(i % n)
		i /= n
	}

	return p
}

// ToUnit encodes p as a point of the unit hypercube, one coordinate per
// dimension in sorted key order.
func (s Space) ToUnit(p Params) []float64 {
	keys := s.Keys()
	x := make([]float64, len(keys))

	for i, k := range keys {
		x[i] = s[k].ToUnit(p[k])
	}

	return x
}

//////
// Helpers.
//////

// isInteger reports whether T is an integer type. Converting one half
// truncates to zero only for integers, which also covers named types such
// as `type Rate float64`.
func isInteger[T constraints.Integer | constraints.Float]() bool {
	half := 0.5

	return T(half) == 0
}

// toFloat converts a numeric parameter value.
func toFloat(v any) (float64, bool) {
	switch t := v.(type) {
	case int:
		return float64(t), true
	case int8:
		return float64(t), true
	case int16:
		return float64(t), true
	case int32:
		return float64(t), true
	case int64:
		return float64(t), true
	case uint:
		return float64(t), true
	case uint8:
		return float64(t), true
	case uint16:
		return float64(t), true
	case uint32:
		return float64(t), true
	case uint64:
		return float64(t), true
	case float32:
		return float64(t), true
	case float64:
		return t, true
	default:
		return 0, false
	}
}

func clamp01(u float64) float64 {
	return math.Min(math.Max(u, 0), 1)
}
