package testutil

import (
	"math"
	"math/rand"
)

// UniformGrid returns n contiguous bins of equal width starting at start.
func UniformGrid(start, width float64, n int) (lo, hi []float64) {
	lo = make([]float64, n)
	hi = make([]float64, n)
	for i := range lo {
		lo[i] = start + float64(i)*width
		hi[i] = start + float64(i+1)*width
	}
	return lo, hi
}

// PoissonCounts draws n Poisson-distributed counts with the given mean from
// a fixed seed.
func PoissonCounts(seed int64, mean float64, n int) []float64 {
	rng := rand.New(rand.NewSource(seed))
	limit := math.Exp(-mean)
	out := make([]float64, n)
	for i := range out {
		k, p := 0, rng.Float64()
		for p > limit {
			k++
			p *= rng.Float64()
		}
		out[i] = float64(k)
	}
	return out
}

// Flat returns a slice of length n filled with value.
func Flat(value float64, n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = value
	}
	return out
}

// Ramp returns 0, 1, ..., n-1 as float64.
func Ramp(n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = float64(i)
	}
	return out
}
