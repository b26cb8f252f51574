package treetune

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChoice(t *testing.T) {
	c := Choice{"gini", "entropy", nil}

	require.NoError(t, c.Validate())
	assert.Equal(t, 3, c.Size())
	assert.Equal(t, 0.5, c.ToUnit("entropy"))
	assert.Equal(t, 1.0, c.ToUnit(nil))
	assert.Nil(t, c.FromUnit(0.9))
	assert.Equal(t, "gini", c.FromUnit(-1))

	assert.ErrorIs(t, Choice{}.Validate(), ErrEmptyGrid)
}

func TestParameterRange(t *testing.T) {
	rng := rand.New(rand.NewSource(1))

	depth := ParameterRange[int]{Min: 2, Max: 4}
	require.NoError(t, depth.Validate())
	assert.Equal(t, 3, depth.Size())
	assert.Equal(t, 3, depth.Value(1))
	assert.Equal(t, 0.5, depth.ToUnit(3))
	assert.Equal(t, 4, depth.FromUnit(0.9))

	for i := 0; i < 100; i++ {
		v := depth.Sample(rng).(int)
		assert.True(t, v >= 2 && v <= 4)
	}

	rate := ParameterRange[float64]{Min: 1e-3, Max: 1e-1, Log: true}
	require.NoError(t, rate.Validate())
	assert.Zero(t, rate.Size())
	assert.InDelta(t, 1e-2, rate.FromUnit(0.5).(float64), 1e-12)
	assert.InDelta(t, 0.5, rate.ToUnit(1e-2), 1e-12)

	assert.ErrorIs(t, ParameterRange[int]{Min: 3, Max: 1}.Validate(), ErrInvalidRange)
	assert.ErrorIs(t, ParameterRange[float64]{Min: 0, Max: 1, Log: true}.Validate(), ErrInvalidRange)
}

type fraction float64

type level int

func TestParameterRangeNamedTypes(t *testing.T) {
	rng := rand.New(rand.NewSource(1))

	share := ParameterRange[fraction]{Min: 0.1, Max: 0.4}
	require.NoError(t, share.Validate())
	assert.Zero(t, share.Size())

	fractional := false

	for i := 0; i < 100; i++ {
		v := share.Sample(rng).(fraction)
		assert.True(t, v >= 0.1 && v <= 0.4)

		if v != fraction(math.Round(float64(v))) {
			fractional = true
		}
	}

	assert.True(t, fractional)
	assert.InDelta(t, 0.25, float64(share.FromUnit(0.5).(fraction)), 1e-12)
	assert.InDelta(t, 0.5, share.ToUnit(fraction(0.25)), 1e-12)

	levels := ParameterRange[level]{Min: 1, Max: 3}
	assert.Equal(t, 3, levels.Size())
	assert.Equal(t, level(2), levels.Value(1))
	assert.Equal(t, 1.0, levels.ToUnit(level(3)))
}

func TestSpace(t *testing.T) {
	s := Space{
		"criterion": Choice{"gini", "entropy"},
		"max_depth": ParameterRange[int]{Min: 1, Max: 3},
	}

	require.NoError(t, s.Validate())
	assert.Equal(t, 6, s.Size())

	// Matches the order of the equivalent grid.
	candidates, err := Grid{
		"criterion": {"gini", "entropy"},
		"max_depth": {1, 2, 3},
	}.Candidates()
	require.NoError(t, err)

	for i, want := range candidates {
		assert.Equal(t, want, s.At(i))
	}

	assert.Equal(t, []float64{1, 0.5}, s.ToUnit(Params{"criterion": "entropy", "max_depth": 2}))

	s["t"] = ParameterRange[float64]{Min: 0, Max: 1}
	assert.Zero(t, s.Size())

	huge := Space{}
	for _, k := range []string{"a", "b", "c", "d"} {
		huge[k] = ParameterRange[int]{Min: 0, Max: math.MaxInt32}
	}

	assert.Equal(t, math.MaxInt, huge.Size())

	assert.ErrorIs(t, Space{}.Validate(), ErrEmptyGrid)
	assert.ErrorIs(t, Space{"a": nil}.Validate(), ErrEmptyGrid)
}
