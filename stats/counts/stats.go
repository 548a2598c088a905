package counts

import (
	"math"

	"github.com/cwbudde/algo-vecmath"

	"github.com/cwbudde/algo-xspec/xray/spectrum"
)

// Stats holds summary statistics of a binned counts histogram. Positions
// (centroid, spread, median) are in the histogram's unit.
type Stats struct {
	BinCount int
	Sum      float64
	Max      float64
	MaxBin   int
	Min      float64
	MinBin   int
	Average  float64
	SumErr   float64 // quadrature sum of the bin errors
	SNR      float64 // Sum / SumErr
	Centroid float64 // counts-weighted mean bin midpoint
	Spread   float64 // counts-weighted standard deviation around the centroid
	Median   float64 // position below which half of the counts lie
	MinWidth float64
	MaxWidth float64
}

// Calculate computes all statistics of h. Bins with negative counts (as can
// appear after background subtraction) are included as they are.
func Calculate(h spectrum.Histogram) Stats {
	n := h.Len()
	if n == 0 {
		return Stats{}
	}

	var s Stats
	s.BinCount = n
	s.Sum = vecmath.Sum(h.Counts)
	s.Average = s.Sum / float64(n)

	s.Min, s.Max = h.Counts[0], h.Counts[0]
	for i, v := range h.Counts {
		if v > s.Max {
			s.Max = v
			s.MaxBin = i
		}
		if v < s.Min {
			s.Min = v
			s.MinBin = i
		}
	}

	errSq := 0.0
	for _, e := range h.Err {
		errSq += e * e
	}
	s.SumErr = math.Sqrt(errSq)
	if s.SumErr > 0 {
		s.SNR = s.Sum / s.SumErr
	}

	widths := h.Widths()
	s.MinWidth, s.MaxWidth = widths[0], widths[0]
	for _, w := range widths[1:] {
		s.MinWidth = math.Min(s.MinWidth, w)
		s.MaxWidth = math.Max(s.MaxWidth, w)
	}

	mid := h.Mid()
	s.Centroid = centroid(mid, h.Counts, s.Sum)
	s.Spread = spread(mid, h.Counts, s.Centroid, s.Sum)
	s.Median = quantile(h, 0.5, s.Sum)
	return s
}

// Centroid returns the counts-weighted mean bin midpoint.
//
//	centroid = sum(mid_i * c_i) / sum(c_i)
func Centroid(h spectrum.Histogram) float64 {
	return centroid(h.Mid(), h.Counts, h.Sum())
}

func centroid(mid, counts []float64, total float64) float64 {
	if len(counts) == 0 || total == 0 {
		return 0
	}
	return vecmath.DotProduct(mid, counts) / total
}

func spread(mid, counts []float64, cent, total float64) float64 {
	if len(counts) == 0 || total == 0 {
		return 0
	}
	sq := 0.0
	for i, c := range counts {
		d := mid[i] - cent
		sq += d * d * c
	}
	if sq < 0 {
		return 0
	}
	return math.Sqrt(sq / total)
}

// Quantile returns the position below which the fraction q (0..1) of the
// counts lies, interpolating linearly inside the crossing bin.
func Quantile(h spectrum.Histogram, q float64) float64 {
	return quantile(h, q, h.Sum())
}

func quantile(h spectrum.Histogram, q, total float64) float64 {
	n := h.Len()
	if n == 0 || total <= 0 {
		return 0
	}
	q = math.Max(0, math.Min(1, q))
	target := q * total
	cum := 0.0
	for i, c := range h.Counts {
		if c > 0 && cum+c >= target {
			frac := (target - cum) / c
			return h.BinLo[i] + frac*(h.BinHi[i]-h.BinLo[i])
		}
		cum += c
	}
	return h.BinHi[n-1]
}
