package tree

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cast"
)

// Hyperparameter names understood by FromParams and Params.
const (
	ParamCriterion           = "criterion"
	ParamMaxDepth            = "max_depth"
	ParamMinSamplesSplit     = "min_samples_split"
	ParamMinSamplesLeaf      = "min_samples_leaf"
	ParamMaxFeatures         = "max_features"
	ParamMinImpurityDecrease = "min_impurity_decrease"
	ParamRandomState         = "random_state"
)

// FromParams builds a classifier from loosely typed hyperparameters, as a
// search or a YAML file provides them. Missing names keep the New
// defaults; nil (or "none") for max_depth and max_features means no limit.
func FromParams(params map[string]any) (*Classifier, error) {
	t := New()

	names := make([]string, 0, len(params))
	for k := range params {
		names = append(names, k)
	}

	sort.Strings(names)

	for _, name := range names {
		if err := t.set(name, params[name]); err != nil {
			return nil, err
		}
	}

	if err := t.Validate(); err != nil {
		return nil, err
	}

	return t, nil
}

// Params returns the hyperparameters in the form FromParams accepts.
func (t *Classifier) Params() map[string]any {
	return map[string]any{
		ParamCriterion:           t.Criterion,
		ParamMaxDepth:            noneIfZero(t.MaxDepth),
		ParamMinSamplesSplit:     t.MinSamplesSplit,
		ParamMinSamplesLeaf:      t.MinSamplesLeaf,
		ParamMaxFeatures:         noneIfZero(t.MaxFeatures),
		ParamMinImpurityDecrease: t.MinImpurityDecrease,
		ParamRandomState:         t.RandomState,
	}
}

func (t *Classifier) set(name string, v any) error {
	var err error

	switch name {
	case ParamCriterion:
		t.Criterion, err = cast.ToStringE(v)
		t.Criterion = strings.ToLower(t.Criterion)
	case ParamMaxDepth:
		t.MaxDepth, err = optionalInt(v)
	case ParamMinSamplesSplit:
		t.MinSamplesSplit, err = cast.ToIntE(v)
	case ParamMinSamplesLeaf:
		t.MinSamplesLeaf, err = cast.ToIntE(v)
	case ParamMaxFeatures:
		t.MaxFeatures, err = optionalInt(v)
	case ParamMinImpurityDecrease:
		t.MinImpurityDecrease, err = cast.ToFloat64E(v)
	case ParamRandomState:
		t.RandomState, err = cast.ToInt64E(v)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownParam, name)
	}

	if err != nil {
		return fmt.Errorf("%w: %s=%v: %v", ErrInvalidParam, name, v, err)
	}

	return nil
}

// optionalInt maps nil and "none" to 0 (no limit).
func optionalInt(v any) (int, error) {
	if v == nil {
		return 0, nil
	}

	if s, ok := v.(string); ok && strings.EqualFold(s, "none") {
		return 0, nil
	}

	return cast.ToIntE(v)
}

func noneIfZero(n int) any {
	if n == 0 {
		return nil
	}

	return n
}
