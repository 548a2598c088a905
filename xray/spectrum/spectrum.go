package spectrum

import (
	"fmt"
	"math"
	"slices"

	"github.com/cwbudde/algo-xspec/xray/units"
)

// Spectrum is a binned photon-count spectrum as read from disk.
type Spectrum struct {
	BinLo    []float64
	BinHi    []float64
	Counts   []float64
	Exposure float64 // seconds
	Unit     units.Unit
}

// Len returns the number of channels.
func (s Spectrum) Len() int { return len(s.Counts) }

// Validate checks array lengths, the unit, the counts and the ordering of
// the bin grid.
func (s Spectrum) Validate() error {
	return validateGrid(s.BinLo, s.BinHi, s.Counts, s.Unit)
}

// Clone returns a deep copy of s.
func (s Spectrum) Clone() Spectrum {
	return Spectrum{
		BinLo:    slices.Clone(s.BinLo),
		BinHi:    slices.Clone(s.BinHi),
		Counts:   slices.Clone(s.Counts),
		Exposure: s.Exposure,
		Unit:     s.Unit,
	}
}

// Mid returns the bin midpoints in the native unit.
func (s Spectrum) Mid() []float64 {
	return midpoints(s.BinLo, s.BinHi)
}

// MidIn returns the bin midpoints converted to u, in channel order.
func (s Spectrum) MidIn(u units.Unit) ([]float64, error) {
	mid := s.Mid()
	for i, m := range mid {
		v, err := units.Convert(m, s.Unit, u)
		if err != nil {
			return nil, err
		}
		mid[i] = v
	}
	return mid, nil
}

// TotalCounts returns the sum of all channel counts.
func (s Spectrum) TotalCounts() float64 {
	return sum(s.Counts)
}

func validateGrid(lo, hi, counts []float64, u units.Unit) error {
	if len(lo) != len(hi) || len(lo) != len(counts) {
		return fmt.Errorf("%w: bin_lo=%d bin_hi=%d counts=%d", ErrInvalidSpectrum, len(lo), len(hi), len(counts))
	}
	if !u.Valid() {
		return fmt.Errorf("%w: unit %q", ErrInvalidSpectrum, string(u))
	}

	for i, c := range counts {
		if c < 0 || math.IsNaN(c) || math.IsInf(c, 0) {
			return fmt.Errorf("%w: channel %d has counts %v", ErrInvalidSpectrum, i, c)
		}
		if !(lo[i] < hi[i]) {
			return fmt.Errorf("%w: channel %d has edges [%v, %v]", ErrInvalidSpectrum, i, lo[i], hi[i])
		}
	}

	if len(lo) < 2 {
		return nil
	}
	ascending := lo[1] > lo[0]
	for i := 1; i < len(lo); i++ {
		if (lo[i] > lo[i-1]) != ascending || lo[i] == lo[i-1] {
			return fmt.Errorf("%w: bins not monotonic at channel %d", ErrInvalidSpectrum, i)
		}
	}
	return nil
}

func midpoints(lo, hi []float64) []float64 {
	out := make([]float64, len(lo))
	for i := range out {
		out[i] = 0.5 * (lo[i] + hi[i])
	}
	return out
}
