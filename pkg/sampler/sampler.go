// Package sampler provides the randomness primitives used by the generator.
// Every draw goes through an explicit *rand.Rand so runs can be seeded and
// independent generators can run in parallel without shared state.
package sampler

import (
	"fmt"
	"math/rand/v2"

	"gonum.org/v1/gonum/stat/distuv"
)

// Weighted picks values from a fixed categorical distribution given as
// (value, weight) pairs. Weights don't need to sum to one.
type Weighted[T any] struct {
	values []T
	dist   distuv.Categorical
}

// NewWeighted builds a sampler over values with the given weights. It fails
// on empty input, mismatched lengths or non-positive total weight.
func NewWeighted[T any](values []T, weights []float64, rng *rand.Rand) (*Weighted[T], error) {
	if len(values) == 0 {
		return nil, fmt.Errorf("weighted sampler: no values")
	}
	if len(values) != len(weights) {
		return nil, fmt.Errorf("weighted sampler: %d values but %d weights", len(values), len(weights))
	}
	var total float64
	for _, w := range weights {
		if w < 0 {
			return nil, fmt.Errorf("weighted sampler: negative weight %v", w)
		}
		total += w
	}
	if total <= 0 {
		return nil, fmt.Errorf("weighted sampler: total weight must be positive")
	}
	return &Weighted[T]{
		values: values,
		dist:   distuv.NewCategorical(weights, rng),
	}, nil
}

// Pick draws one value.
func (w *Weighted[T]) Pick() T {
	return w.values[int(w.dist.Rand())]
}

// Gamma draws from a Gamma distribution parameterized by shape and scale
// (mean = shape * scale), matching the latency model of the session
// generator.
func Gamma(rng *rand.Rand, shape, scale float64) float64 {
	g := distuv.Gamma{Alpha: shape, Beta: 1 / scale, Src: rng}
	return g.Rand()
}

// Exponential draws from an exponential distribution with the given mean.
func Exponential(rng *rand.Rand, mean float64) float64 {
	e := distuv.Exponential{Rate: 1 / mean, Src: rng}
	return e.Rand()
}

// IntBetween returns a uniform integer in [lo, hi] inclusive.
func IntBetween(rng *rand.Rand, lo, hi int) int {
	return lo + rng.IntN(hi-lo+1)
}

// FloatBetween returns a uniform float64 in [lo, hi).
func FloatBetween(rng *rand.Rand, lo, hi float64) float64 {
	return lo + rng.Float64()*(hi-lo)
}
