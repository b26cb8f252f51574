package treetune

import "errors"

var (
	// ErrEmptyGrid is returned when a grid or space has no values to try.
	ErrEmptyGrid = errors.New("treetune: empty search space")

	// ErrInvalidRange is returned for a range with Min > Max, or a log
	// range that is not strictly positive.
	ErrInvalidRange = errors.New("treetune: invalid parameter range")

	// ErrShapeMismatch is returned when X and y, or result columns, do not
	// have matching lengths.
	ErrShapeMismatch = errors.New("treetune: shape mismatch")

	// ErrUnknownScorer is returned by GetScorer for an unknown metric name.
	ErrUnknownScorer = errors.New("treetune: unknown scorer")

	// ErrUnknownColumn is returned by CVResults.Column for an unknown key.
	ErrUnknownColumn = errors.New("treetune: unknown result column")

	// ErrNotFitted is returned when a refitted estimator is required but
	// the search ran with Refit disabled.
	ErrNotFitted = errors.New("treetune: estimator not fitted")

	// ErrSingleClass is returned by ROCAUC when y holds a single class.
	ErrSingleClass = errors.New("treetune: only one class present in y")

	// ErrInvalidConfig is returned for an unusable SearchConfig.
	ErrInvalidConfig = errors.New("treetune: invalid search configuration")
)
