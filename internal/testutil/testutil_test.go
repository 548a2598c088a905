package testutil

import (
	"errors"
	"math"
	"testing"
)

func TestUniformGridContiguous(t *testing.T) {
	lo, hi := UniformGrid(0.5, 0.25, 8)
	if len(lo) != 8 || len(hi) != 8 {
		t.Fatalf("len = %d/%d, want 8", len(lo), len(hi))
	}
	for i := 1; i < len(lo); i++ {
		if lo[i] != hi[i-1] {
			t.Fatalf("bin %d starts at %v, previous ends at %v", i, lo[i], hi[i-1])
		}
	}
}

func TestPoissonCountsReproducible(t *testing.T) {
	a := PoissonCounts(7, 12, 256)
	b := PoissonCounts(7, 12, 256)
	RequireSliceEqual(t, a, b)

	total := 0.0
	for i, v := range a {
		if v < 0 || v != math.Trunc(v) {
			t.Fatalf("index %d: %v is not a count", i, v)
		}
		total += v
	}
	if mean := total / 256; math.Abs(mean-12) > 1.5 {
		t.Fatalf("mean = %v, want about 12", mean)
	}
}

func TestFlatAndRamp(t *testing.T) {
	RequireSliceEqual(t, Flat(2, 3), []float64{2, 2, 2})
	RequireSliceEqual(t, Ramp(4), []float64{0, 1, 2, 3})
}

func TestRequirePoisson(t *testing.T) {
	RequirePoisson(t, []float64{0, 4, 9}, []float64{0, 2, 3}, 1e-15)
}

func TestRequirePanicIs(t *testing.T) {
	sentinel := errors.New("boom")
	RequirePanicIs(t, func() { panic(sentinel) }, func(err error) bool { return errors.Is(err, sentinel) })
}
