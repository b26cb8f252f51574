package dataset

import (
	"fmt"
	"slices"
)

// Census-income ("adult") layout.
const (
	CensusLabel      = "income"
	CensusPositive   = ">50K"
	CensusIdentifier = "fnlwgt"
)

// CensusColumns are the 15 columns of the census-income CSV, in file order.
var CensusColumns = []string{
	"age",
	"workclass",
	CensusIdentifier,
	"education",
	"education.num",
	"marital.status",
	"occupation",
	"relationship",
	"race",
	"sex",
	"capital.gain",
	"capital.loss",
	"hours.per.week",
	"native.country",
	CensusLabel,
}

// CheckCensus reports the census columns missing from f.
func CheckCensus(f *Frame) error {
	var missing []string

	for _, c := range CensusColumns {
		if !slices.Contains(f.Header, c) {
			missing = append(missing, c)
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("%w: census layout lacks %v", ErrUnknownColumn, missing)
	}

	return nil
}

// LoadCensus reads a census-income CSV, drops the identifier column and
// one-hot encodes the rest with income > 50K as the positive class.
func LoadCensus(path string) (*Dataset, error) {
	frame, err := LoadCSV(path)
	if err != nil {
		return nil, err
	}

	if err := CheckCensus(frame); err != nil {
		return nil, err
	}

	return Prepare(frame, []string{CensusIdentifier}, EncodeOptions{
		Label:    CensusLabel,
		Positive: CensusPositive,
	})
}

// Prepare drops the given columns and encodes what remains.
func Prepare(frame *Frame, drop []string, opts EncodeOptions) (*Dataset, error) {
	if len(drop) > 0 {
		var err error
		if frame, err = frame.Drop(drop...); err != nil {
			return nil, err
		}
	}

	return Encode(frame, opts)
}
