package spectrum

import (
	"errors"
	"testing"

	"github.com/cwbudde/algo-xspec/internal/testutil"
	"github.com/cwbudde/algo-xspec/xray/units"
)

func testHistogram() Histogram {
	return Histogram{
		BinLo:  []float64{1, 2, 4},
		BinHi:  []float64{2, 4, 8},
		Counts: []float64{4, 16, 36},
		Err:    []float64{2, 4, 6},
		Unit:   units.KeV,
	}
}

func TestHistogramBasics(t *testing.T) {
	h := testHistogram()
	if h.Len() != 3 {
		t.Fatalf("Len = %d, want 3", h.Len())
	}
	if h.Sum() != 56 {
		t.Fatalf("Sum = %v, want 56", h.Sum())
	}
	testutil.RequireSliceEqual(t, h.Mid(), []float64{1.5, 3, 6})
	testutil.RequireSliceEqual(t, h.Widths(), []float64{1, 2, 4})
}

func TestHistogramPerUnitWidth(t *testing.T) {
	got := testHistogram().PerUnitWidth()
	testutil.RequireSliceEqual(t, got.Counts, []float64{4, 8, 9})
	testutil.RequireSliceEqual(t, got.Err, []float64{2, 2, 1.5})
}

func TestHistogramInWavelength(t *testing.T) {
	h := testHistogram()
	got, err := h.In(units.Angstrom)
	if err != nil {
		t.Fatal(err)
	}
	if got.Unit != units.Angstrom {
		t.Fatalf("unit = %q", got.Unit)
	}
	testutil.RequireSliceNearlyEqual(t, got.BinLo, []float64{units.HC / 8, units.HC / 4, units.HC / 2}, 1e-12)
	testutil.RequireSliceNearlyEqual(t, got.BinHi, []float64{units.HC / 4, units.HC / 2, units.HC}, 1e-12)
	testutil.RequireSliceEqual(t, got.Counts, []float64{36, 16, 4})
	testutil.RequireSliceEqual(t, got.Err, []float64{6, 4, 2})

	back, err := got.In(units.KeV)
	if err != nil {
		t.Fatal(err)
	}
	testutil.RequireSliceNearlyEqual(t, back.BinLo, h.BinLo, 1e-12)
	testutil.RequireSliceEqual(t, back.Counts, h.Counts)
}

func TestHistogramInSameUnitCopies(t *testing.T) {
	h := testHistogram()
	got, err := h.In(units.KeV)
	if err != nil {
		t.Fatal(err)
	}
	got.Counts[0] = -1
	if h.Counts[0] != 4 {
		t.Fatal("In shares counts with the receiver")
	}
}

func TestHistogramSubtract(t *testing.T) {
	h := testHistogram()
	other := Histogram{Counts: []float64{1, 1, 1}, Err: []float64{1.5, 3, 8}}
	got, err := h.Subtract(other)
	if err != nil {
		t.Fatal(err)
	}
	testutil.RequireSliceEqual(t, got.Counts, []float64{3, 15, 35})
	testutil.RequireSliceNearlyEqual(t, got.Err, []float64{2.5, 5, 10}, 1e-12)

	if _, err := h.Subtract(Histogram{Counts: []float64{1}, Err: []float64{1}}); !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("err = %v, want ErrInvalidArgument", err)
	}
}

func TestHistogramScale(t *testing.T) {
	h := testHistogram()
	h.Scale(0.25)
	testutil.RequireSliceEqual(t, h.Counts, []float64{1, 4, 9})
	testutil.RequireSliceEqual(t, h.Err, []float64{0.5, 1, 1.5})
}
