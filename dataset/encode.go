package dataset

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Dataset is a numeric feature matrix with integer class labels.
type Dataset struct {
	X        [][]float64
	Y        []int
	Features []string

	// Classes[k] is the original label value encoded as k.
	Classes []string
}

// Len is the number of rows.
func (d *Dataset) Len() int { return len(d.X) }

// EncodeOptions controls Encode.
type EncodeOptions struct {
	// Label is the target column.
	Label string

	// Positive is the label value encoded as 1. Empty means the second
	// value in sorted order.
	Positive string

	// DropFirst omits the first category of every one-hot encoded column.
	DropFirst bool
}

// Encode turns a Frame into a Dataset. Columns whose every value parses as
// a number are kept as is; the others are one-hot encoded into one
// <column>_<value> feature per category, categories in sorted order. The
// label column must hold exactly two distinct values. A trailing '.' on a
// label value is ignored (">50K." and ">50K" are the same class).
func Encode(f *Frame, opts EncodeOptions) (*Dataset, error) {
	labelIdx, err := f.Index(opts.Label)
	if err != nil {
		return nil, err
	}

	y, classes, err := encodeLabel(f, labelIdx, opts.Positive)
	if err != nil {
		return nil, err
	}

	ds := &Dataset{
		X:       make([][]float64, f.Len()),
		Y:       y,
		Classes: classes,
	}

	for i := range ds.X {
		ds.X[i] = make([]float64, 0, len(f.Header))
	}

	for j, name := range f.Header {
		if j == labelIdx {
			continue
		}

		if nums, ok := numericColumn(f, j); ok {
			ds.Features = append(ds.Features, name)
			for i, v := range nums {
				ds.X[i] = append(ds.X[i], v)
			}

			continue
		}

		cats := categories(f, j)
		if opts.DropFirst && len(cats) > 0 {
			cats = cats[1:]
		}

		pos := make(map[string]int, len(cats))
		for k, c := range cats {
			pos[c] = k
			ds.Features = append(ds.Features, name+"_"+c)
		}

		for i, row := range f.Rows {
			oh := make([]float64, len(cats))
			if k, ok := pos[row[j]]; ok {
				oh[k] = 1
			}

			ds.X[i] = append(ds.X[i], oh...)
		}
	}

	return ds, nil
}

func encodeLabel(f *Frame, j int, positive string) ([]int, []string, error) {
	values := make([]string, f.Len())
	seen := map[string]struct{}{}

	for i, row := range f.Rows {
		values[i] = strings.TrimSuffix(row[j], ".")
		seen[values[i]] = struct{}{}
	}

	distinct := make([]string, 0, len(seen))
	for v := range seen {
		distinct = append(distinct, v)
	}

	sort.Strings(distinct)

	if len(distinct) != 2 {
		return nil, nil, fmt.Errorf("%w: %q has %d distinct values %v, want 2", ErrLabel, f.Header[j], len(distinct), distinct)
	}

	if positive == "" {
		positive = distinct[1]
	}

	positive = strings.TrimSuffix(positive, ".")

	if _, ok := seen[positive]; !ok {
		return nil, nil, fmt.Errorf("%w: positive value %q not in %v", ErrLabel, positive, distinct)
	}

	negative := distinct[0]
	if negative == positive {
		negative = distinct[1]
	}

	y := make([]int, len(values))
	for i, v := range values {
		if v == positive {
			y[i] = 1
		}
	}

	return y, []string{negative, positive}, nil
}

func numericColumn(f *Frame, j int) ([]float64, bool) {
	out := make([]float64, f.Len())

	for i, row := range f.Rows {
		v, err := strconv.ParseFloat(row[j], 64)
		if err != nil {
			return nil, false
		}

		out[i] = v
	}

	return out, true
}

func categories(f *Frame, j int) []string {
	seen := map[string]struct{}{}
	for _, row := range f.Rows {
		seen[row[j]] = struct{}{}
	}

	out := make([]string, 0, len(seen))
	for c := range seen {
		out = append(out, c)
	}

	sort.Strings(out)

	return out
}
