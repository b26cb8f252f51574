package tree

import (
	"cmp"
	"math"
	"math/rand"
	"slices"
)

// pair is a feature value and its sample index.
type pair struct {
	v float64
	i int
}

// builder holds the state of one Fit.
type builder struct {
	t       *Classifier
	X       [][]float64
	y       []int
	total   float64
	rnd     *rand.Rand
	buf     []pair
	feats   []int
	impurer func(counts []int, n int) float64
}

// split is the best split found for a node.
type split struct {
	feature   int
	threshold float64
	gain      float64
	nLeft     int
}

func (b *builder) build(idx []int, depth int) *node {
	t := b.t
	counts := b.counts(idx)
	n := &node{leaf: true, n: len(idx), probas: probas(counts, len(idx))}

	// make leaf if pure or too few samples or depth reached
	if isPure(counts) ||
		len(idx) < t.MinSamplesSplit ||
		len(idx) < 2*t.MinSamplesLeaf ||
		(t.MaxDepth > 0 && depth >= t.MaxDepth) {
		return n
	}

	parent := b.impurer(counts, len(idx))
	best := split{feature: -1, gain: math.Inf(-1)}

	for _, f := range b.features() {
		if s, ok := b.bestSplit(idx, f, counts, parent); ok && s.gain > best.gain {
			best = s
		}
	}

	if best.feature < 0 {
		return n
	}

	// weighted impurity decrease, as a fraction of the whole training set
	if float64(len(idx))/b.total*best.gain+1e-12 < t.MinImpurityDecrease {
		return n
	}

	left := make([]int, 0, best.nLeft)
	right := make([]int, 0, len(idx)-best.nLeft)

	for _, i := range idx {
		if b.X[i][best.feature] <= best.threshold {
			left = append(left, i)
		} else {
			right = append(right, i)
		}
	}

	if len(left) == 0 || len(right) == 0 {
		return n
	}

	n.leaf = false
	n.feature = best.feature
	n.threshold = best.threshold
	n.left = b.build(left, depth+1)
	n.right = b.build(right, depth+1)

	return n
}

// features returns the candidate features for one node: all of them, or
// MaxFeatures drawn without replacement.
func (b *builder) features() []int {
	p := len(b.feats)
	for j := range b.feats {
		b.feats[j] = j
	}

	k := b.t.MaxFeatures
	if k <= 0 || k >= p {
		return b.feats
	}

	for i := 0; i < k; i++ {
		j := i + b.rnd.Intn(p-i)
		b.feats[i], b.feats[j] = b.feats[j], b.feats[i]
	}

	return b.feats[:k]
}

// bestSplit sweeps the sorted values of feature f and returns the threshold
// with the largest impurity decrease that leaves at least MinSamplesLeaf
// samples on each side.
func (b *builder) bestSplit(idx []int, f int, counts []int, parent float64) (split, bool) {
	vals := b.buf[:len(idx)]
	for k, i := range idx {
		vals[k] = pair{v: b.X[i][f], i: i}
	}

	slices.SortFunc(vals, func(a, c pair) int { return cmp.Compare(a.v, c.v) })

	if vals[0].v == vals[len(vals)-1].v {
		return split{}, false
	}

	n := len(vals)
	minLeaf := b.t.MinSamplesLeaf
	left := make([]int, len(counts))
	right := slices.Clone(counts)
	best := split{feature: -1, gain: math.Inf(-1)}

	for k := 0; k < n-1; k++ {
		c := b.y[vals[k].i]
		left[c]++
		right[c]--

		nl := k + 1
		nr := n - nl

		if vals[k].v == vals[k+1].v || nl < minLeaf || nr < minLeaf {
			continue
		}

		child := (float64(nl)*b.impurer(left, nl) + float64(nr)*b.impurer(right, nr)) / float64(n)
		if gain := parent - child; gain > best.gain {
			best = split{
				feature:   f,
				threshold: midpoint(vals[k].v, vals[k+1].v),
				gain:      gain,
				nLeft:     nl,
			}
		}
	}

	return best, best.feature >= 0
}

// midpoint returns a threshold t with lo <= t < hi. Halving each side first
// keeps the sum finite near ±MaxFloat64; adjacent doubles fall back to lo.
func midpoint(lo, hi float64) float64 {
	m := lo/2 + hi/2
	if m >= hi || m < lo || math.IsInf(m, 0) {
		return lo
	}

	return m
}

func (b *builder) counts(idx []int) []int {
	counts := make([]int, b.t.nClasses)
	for _, i := range idx {
		counts[b.y[i]]++
	}

	return counts
}

func impurityFunc(criterion string) func(counts []int, n int) float64 {
	if criterion == Entropy {
		return entropy
	}

	return gini
}

func gini(counts []int, n int) float64 {
	if n == 0 {
		return 0
	}

	s := 1.0
	for _, c := range counts {
		p := float64(c) / float64(n)
		s -= p * p
	}

	return s
}

func entropy(counts []int, n int) float64 {
	if n == 0 {
		return 0
	}

	var s float64
	for _, c := range counts {
		if c == 0 {
			continue
		}

		p := float64(c) / float64(n)
		s -= p * math.Log2(p)
	}

	return s
}

func isPure(counts []int) bool {
	nonZero := 0
	for _, c := range counts {
		if c > 0 {
			nonZero++
		}
	}

	return nonZero <= 1
}

func probas(counts []int, n int) []float64 {
	out := make([]float64, len(counts))
	if n == 0 {
		return out
	}

	for i, c := range counts {
		out[i] = float64(c) / float64(n)
	}

	return out
}

func argmax(xs []float64) int {
	best := 0
	for i := 1; i < len(xs); i++ {
		if xs[i] > xs[best] {
			best = i
		}
	}

	return best
}
