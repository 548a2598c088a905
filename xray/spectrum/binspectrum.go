package spectrum

import (
	"fmt"
	"math"
	"slices"

	"github.com/cwbudde/algo-xspec/xray/group"
	"github.com/cwbudde/algo-xspec/xray/units"
)

// BinSpectrum is a spectrum under analysis: the loaded record plus a notice
// mask, a channel grouping and an optional background.
//
// BinSpectrum is not safe for concurrent use. Grouping and notice calls must
// not overlap with reads of the binned counts.
type BinSpectrum struct {
	Spectrum

	notice  []bool
	binning []int
	bkg     *Background
}

// New wraps s for analysis. The whole spectrum is noticed and no grouping is
// applied. s is copied.
func New(s Spectrum) (*BinSpectrum, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}
	b := &BinSpectrum{Spectrum: s.Clone()}
	b.NoticeAll()
	b.ResetBinning()
	return b, nil
}

// NoticeRange notices only the channels lying entirely inside the range
// spanned by bmin and bmax. Bounds may be given in any spectral unit and
// in either order. The previous mask is discarded. An empty selection is not
// an error.
func (b *BinSpectrum) NoticeRange(bmin, bmax units.Quantity) error {
	v0, err := bmin.To(b.Unit)
	if err != nil {
		return fmt.Errorf("%w: notice bound %v: %w", ErrInvalidArgument, bmin, err)
	}
	v1, err := bmax.To(b.Unit)
	if err != nil {
		return fmt.Errorf("%w: notice bound %v: %w", ErrInvalidArgument, bmax, err)
	}
	lo, hi := math.Min(v0, v1), math.Max(v0, v1)

	for i := range b.notice {
		b.notice[i] = b.BinLo[i] >= lo && b.BinHi[i] <= hi
	}
	return nil
}

// NoticeAll notices every channel.
func (b *BinSpectrum) NoticeAll() {
	b.notice = make([]bool, b.Len())
	for i := range b.notice {
		b.notice[i] = true
	}
}

// Notice returns a copy of the notice mask.
func (b *BinSpectrum) Notice() []bool { return slices.Clone(b.notice) }

// NoticedChannels returns the number of noticed channels.
func (b *BinSpectrum) NoticedChannels() int {
	n := 0
	for _, ok := range b.notice {
		if ok {
			n++
		}
	}
	return n
}

// NoticedCounts returns the summed counts of the noticed channels.
func (b *BinSpectrum) NoticedCounts() float64 {
	total := 0.0
	for i, ok := range b.notice {
		if ok {
			total += b.Counts[i]
		}
	}
	return total
}

// ResetBinning removes any grouping.
func (b *BinSpectrum) ResetBinning() {
	b.binning = make([]int, b.Len())
}

// Binning returns a copy of the group ids.
func (b *BinSpectrum) Binning() []int { return slices.Clone(b.binning) }

// Grouped reports whether a grouping is applied (any nonzero id).
func (b *BinSpectrum) Grouped() bool { return !group.Ungrouped(b.binning) }

// SetBinning replaces the grouping. ids must have one entry per channel,
// start at 0, and step by exactly 1 from one contiguous group to the next.
func (b *BinSpectrum) SetBinning(ids []int) error {
	if len(ids) != b.Len() {
		return fmt.Errorf("%w: binning has %d entries for %d channels", ErrInvalidArgument, len(ids), b.Len())
	}
	if err := group.Validate(ids); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidArgument, err)
	}
	b.binning = slices.Clone(ids)
	return nil
}

// GroupChannels groups the spectrum by a constant factor n > 1.
func (b *BinSpectrum) GroupChannels(n int) error {
	ids, err := group.Channels(b.Len(), n)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidArgument, err)
	}
	b.binning = ids
	return nil
}

// GroupMinCounts groups the spectrum so that every bin holds at least mc raw
// counts. The notice mask is ignored.
func (b *BinSpectrum) GroupMinCounts(mc float64) error {
	ids, err := group.MinCounts(b.Counts, mc)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidArgument, err)
	}
	b.binning = ids
	return nil
}

// GroupChannels groups s by a constant factor n.
func GroupChannels(s *BinSpectrum, n int) error { return s.GroupChannels(n) }

// GroupMinCounts groups s with at least mc counts per bin.
func GroupMinCounts(s *BinSpectrum, mc float64) error { return s.GroupMinCounts(mc) }

// BinnedCounts returns the histogram of the noticed region.
//
// Without a grouping every noticed channel is one bin; with a grouping the
// noticed channels of each group are summed. Errors are Poisson. When bkgsub
// is set and a background is assigned, the co-binned background (scaled by
// its backscal if usebackscal is set) is subtracted and the errors are added
// in quadrature. Without a background bkgsub is ignored.
func (b *BinSpectrum) BinnedCounts(bkgsub, usebackscal bool) (Histogram, error) {
	h, err := rebin(b.BinLo, b.BinHi, b.Counts, b.Unit, b.notice, b.binning)
	if err != nil {
		return Histogram{}, err
	}
	if !bkgsub || b.bkg == nil {
		return h, nil
	}

	bh, err := b.bkg.BinBackground(b.notice, b.binning, usebackscal)
	if err != nil {
		return Histogram{}, err
	}
	return h.Subtract(bh)
}

// GroupedCounts returns the grouped histogram of the noticed region. It
// fails with [ErrNotGrouped] when no grouping is applied.
func (b *BinSpectrum) GroupedCounts() (Histogram, error) {
	if !b.Grouped() {
		return Histogram{}, ErrNotGrouped
	}
	return aggregate(b.BinLo, b.BinHi, b.Counts, b.Unit, b.notice, b.binning), nil
}

// AssignBackground attaches a copy of bkg. bkg must be valid and its bin
// edges and unit must match the spectrum exactly.
func (b *BinSpectrum) AssignBackground(bkg *Background) error {
	if bkg == nil {
		return fmt.Errorf("%w: nil background", ErrInvalidArgument)
	}
	if err := bkg.Validate(); err != nil {
		return fmt.Errorf("background: %w", err)
	}
	if bkg.Unit != b.Unit {
		return fmt.Errorf("%w: %q vs %q", ErrMismatchedUnit, bkg.Unit, b.Unit)
	}
	if !slices.Equal(bkg.BinLo, b.BinLo) || !slices.Equal(bkg.BinHi, b.BinHi) {
		return ErrMismatchedGrid
	}
	if len(bkg.Counts) != b.Len() {
		return fmt.Errorf("%w: background has %d channels, spectrum %d", ErrMismatchedGrid, len(bkg.Counts), b.Len())
	}
	b.bkg = bkg.Clone()
	return nil
}

// Background returns a copy of the assigned background or nil.
func (b *BinSpectrum) Background() *Background {
	if b.bkg == nil {
		return nil
	}
	return b.bkg.Clone()
}

// BinBackground returns the background binned like the spectrum.
func (b *BinSpectrum) BinBackground(usebackscal bool) (Histogram, error) {
	if b.bkg == nil {
		return Histogram{}, ErrNoBackground
	}
	return b.bkg.BinBackground(b.notice, b.binning, usebackscal)
}
