package testutil

import (
	"math"
	"slices"
	"testing"
)

// RequireSliceNearlyEqual fails t if got and want differ in length or if
// any element pair exceeds eps (absolute tolerance).
func RequireSliceNearlyEqual(t *testing.T, got, want []float64, eps float64) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("length mismatch: got %d (%v), want %d (%v)", len(got), got, len(want), want)
	}
	for i := range got {
		if diff := math.Abs(got[i] - want[i]); diff > eps {
			t.Fatalf("index %d: got %v, want %v (diff %v > eps %v)", i, got[i], want[i], diff, eps)
		}
	}
}

// RequireFinite fails t if any element is NaN or Inf.
func RequireFinite(t *testing.T, data []float64) {
	t.Helper()
	for i, v := range data {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			t.Fatalf("index %d: non-finite value %v", i, v)
		}
	}
}

// RequireSliceEqual fails t unless got and want are element-wise identical.
func RequireSliceEqual[T comparable](t *testing.T, got, want []T) {
	t.Helper()
	if !slices.Equal(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}

// RequirePoisson fails t unless err[i] == sqrt(counts[i]) within eps.
func RequirePoisson(t *testing.T, counts, err []float64, eps float64) {
	t.Helper()
	want := make([]float64, len(counts))
	for i, c := range counts {
		want[i] = math.Sqrt(c)
	}
	RequireSliceNearlyEqual(t, err, want, eps)
}

// RequirePanicIs runs fn and fails t unless it panics with an error for
// which match returns true.
func RequirePanicIs(t *testing.T, fn func(), match func(error) bool) {
	t.Helper()
	defer func() {
		t.Helper()
		r := recover()
		if r == nil {
			t.Fatal("expected panic")
		}
		err, ok := r.(error)
		if !ok {
			t.Fatalf("panic value %v (%T) is not an error", r, r)
		}
		if !match(err) {
			t.Fatalf("unexpected panic error: %v", err)
		}
	}()
	fn()
}
