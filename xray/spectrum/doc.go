// Package spectrum holds binned X-ray count spectra and the bookkeeping used
// to analyze them: a notice mask selecting channels, a channel grouping, and
// an optional background on the same grid.
//
// The package does not read files. Loaders produce a [Spectrum] record which
// [New] wraps into a [BinSpectrum]:
//
//	s, err := spectrum.New(rec)
//	if err != nil {
//		return err
//	}
//	_ = s.NoticeRange(units.Q(0.5, "keV"), units.Q(7, "keV"))
//	_ = s.GroupMinCounts(20)
//	h, err := s.BinnedCounts(true, true)
//
// # Errors
//
// Bad input wraps [ErrInvalidArgument], calls made in the wrong state wrap
// [ErrPreconditionNotMet]. Aggregation that loses or duplicates counts is a
// defect in this package and panics with an error wrapping
// [ErrInvariantViolation].
package spectrum
