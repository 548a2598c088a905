package spectrum

import (
	"fmt"
	"slices"

	"github.com/cwbudde/algo-vecmath"

	"github.com/cwbudde/algo-xspec/xray/units"
)

// Histogram is a binned counts histogram with Poisson-style errors.
type Histogram struct {
	BinLo  []float64
	BinHi  []float64
	Counts []float64
	Err    []float64
	Unit   units.Unit
}

// Len returns the number of output bins.
func (h Histogram) Len() int { return len(h.Counts) }

// Sum returns the summed counts over all bins.
func (h Histogram) Sum() float64 { return sum(h.Counts) }

// Mid returns the bin midpoints.
func (h Histogram) Mid() []float64 { return midpoints(h.BinLo, h.BinHi) }

// Widths returns hi - lo for every bin.
func (h Histogram) Widths() []float64 {
	out := make([]float64, len(h.BinLo))
	for i := range out {
		out[i] = h.BinHi[i] - h.BinLo[i]
	}
	return out
}

// In returns h on the grid of unit u. Converting between energy and
// wavelength reverses the bin order, and counts and errors follow their bins.
func (h Histogram) In(u units.Unit) (Histogram, error) {
	lo, hi, err := units.ConvertEdges(h.BinLo, h.BinHi, h.Unit, u)
	if err != nil {
		return Histogram{}, fmt.Errorf("spectrum: converting histogram: %w", err)
	}
	out := Histogram{BinLo: lo, BinHi: hi, Unit: u}
	if h.Unit.Axis() == u.Axis() {
		out.Counts = slices.Clone(h.Counts)
		out.Err = slices.Clone(h.Err)
	} else {
		out.Counts = units.ReverseFloat64s(h.Counts)
		out.Err = units.ReverseFloat64s(h.Err)
	}
	return out, nil
}

// PerUnitWidth returns h with counts and errors divided by the bin widths.
func (h Histogram) PerUnitWidth() Histogram {
	w := h.Widths()
	out := Histogram{
		BinLo:  slices.Clone(h.BinLo),
		BinHi:  slices.Clone(h.BinHi),
		Counts: make([]float64, len(h.Counts)),
		Err:    make([]float64, len(h.Err)),
		Unit:   h.Unit,
	}
	for i := range w {
		out.Counts[i] = h.Counts[i] / w[i]
		out.Err[i] = h.Err[i] / w[i]
	}
	return out
}

// Subtract returns h - other bin by bin with errors added in quadrature.
// Both histograms must share the same bins.
func (h Histogram) Subtract(other Histogram) (Histogram, error) {
	if other.Len() != h.Len() || len(other.Err) != len(h.Err) {
		return Histogram{}, fmt.Errorf("%w: subtracting %d bins from %d bins", ErrInvalidArgument, other.Len(), h.Len())
	}
	out := Histogram{
		BinLo:  slices.Clone(h.BinLo),
		BinHi:  slices.Clone(h.BinHi),
		Counts: make([]float64, h.Len()),
		Err:    make([]float64, h.Len()),
		Unit:   h.Unit,
	}
	for i := range out.Counts {
		out.Counts[i] = h.Counts[i] - other.Counts[i]
	}
	vecmath.Magnitude(out.Err, h.Err, other.Err)
	return out, nil
}

// Scale multiplies counts and errors by f in place.
func (h Histogram) Scale(f float64) {
	vecmath.ScaleBlockInPlace(h.Counts, f)
	vecmath.ScaleBlockInPlace(h.Err, f)
}
