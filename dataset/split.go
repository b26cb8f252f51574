package dataset

import (
	"fmt"
	"math"
	"math/rand"
	"sort"
)

// SplitOptions controls TrainTestSplit.
type SplitOptions struct {
	// TestSize is the fraction of rows held out, in (0, 1).
	TestSize float64

	// Seed makes the shuffle reproducible.
	Seed int64

	// Stratify keeps the class proportions equal in both parts.
	Stratify bool
}

// TrainTestSplit shuffles ds and holds out a TestSize fraction of it.
// Without stratification the test part has ceil(TestSize*n) rows; with it,
// each class contributes round(TestSize*count) rows. Both parts must end
// up non-empty.
func TrainTestSplit(ds *Dataset, opts SplitOptions) (train, test *Dataset, err error) {
	if opts.TestSize <= 0 || opts.TestSize >= 1 {
		return nil, nil, fmt.Errorf("%w: test size %v not in (0, 1)", ErrSplit, opts.TestSize)
	}

	n := ds.Len()
	rng := rand.New(rand.NewSource(opts.Seed))

	var trainIdx, testIdx []int

	if opts.Stratify {
		byClass := map[int][]int{}
		for i, c := range ds.Y {
			byClass[c] = append(byClass[c], i)
		}

		classes := make([]int, 0, len(byClass))
		for c := range byClass {
			classes = append(classes, c)
		}

		sort.Ints(classes)

		for _, c := range classes {
			members := byClass[c]
			rng.Shuffle(len(members), func(i, j int) { members[i], members[j] = members[j], members[i] })

			k := int(math.Round(opts.TestSize * float64(len(members))))
			testIdx = append(testIdx, members[:k]...)
			trainIdx = append(trainIdx, members[k:]...)
		}

		// Interleave classes again.
		rng.Shuffle(len(testIdx), func(i, j int) { testIdx[i], testIdx[j] = testIdx[j], testIdx[i] })
		rng.Shuffle(len(trainIdx), func(i, j int) { trainIdx[i], trainIdx[j] = trainIdx[j], trainIdx[i] })
	} else {
		perm := rng.Perm(n)
		k := int(math.Ceil(opts.TestSize * float64(n)))
		testIdx, trainIdx = perm[:k], perm[k:]
	}

	if len(trainIdx) == 0 || len(testIdx) == 0 {
		return nil, nil, fmt.Errorf("%w: %d rows give %d train and %d test rows", ErrSplit, n, len(trainIdx), len(testIdx))
	}

	return ds.subset(trainIdx), ds.subset(testIdx), nil
}

func (d *Dataset) subset(idx []int) *Dataset {
	out := &Dataset{
		X:        make([][]float64, len(idx)),
		Y:        make([]int, len(idx)),
		Features: d.Features,
		Classes:  d.Classes,
	}

	for k, i := range idx {
		out.X[k] = d.X[i]
		out.Y[k] = d.Y[i]
	}

	return out
}
