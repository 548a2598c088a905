package spectrum

import (
	"fmt"
	"math"
	"slices"

	"github.com/cwbudde/algo-xspec/xray/units"
)

// Background is a background count histogram on the same grid as a source
// spectrum.
type Background struct {
	BinLo  []float64
	BinHi  []float64
	Counts []float64
	Unit   units.Unit

	// Backscal scales background counts to the source extraction area.
	Backscal float64
	Exposure float64
}

// Validate checks the grid like [Spectrum.Validate] and requires a finite,
// positive backscal.
func (bg *Background) Validate() error {
	if err := validateGrid(bg.BinLo, bg.BinHi, bg.Counts, bg.Unit); err != nil {
		return err
	}
	if !(bg.Backscal > 0) || math.IsInf(bg.Backscal, 0) {
		return fmt.Errorf("%w: backscal %v", ErrInvalidSpectrum, bg.Backscal)
	}
	return nil
}

// Clone returns a deep copy of bg.
func (bg *Background) Clone() *Background {
	c := *bg
	c.BinLo = slices.Clone(bg.BinLo)
	c.BinHi = slices.Clone(bg.BinHi)
	c.Counts = slices.Clone(bg.Counts)
	return &c
}

// BinBackground applies a source notice mask and grouping to the background
// counts. Errors are the Poisson errors of the summed raw counts. With
// usebackscal, counts and errors are both multiplied by Backscal.
func (bg *Background) BinBackground(notice []bool, binning []int, usebackscal bool) (Histogram, error) {
	h, err := rebin(bg.BinLo, bg.BinHi, bg.Counts, bg.Unit, notice, binning)
	if err != nil {
		return Histogram{}, err
	}
	if usebackscal {
		h.Scale(bg.Backscal)
	}
	return h, nil
}
