package spectrum

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-vecmath"

	"github.com/cwbudde/algo-xspec/xray/group"
	"github.com/cwbudde/algo-xspec/xray/units"
)

// sumTolerance bounds the relative rounding difference allowed between the
// grouped total and the noticed total. Integer counts always sum exactly.
const sumTolerance = 1e-12

func sum(x []float64) float64 {
	if len(x) == 0 {
		return 0
	}
	return vecmath.Sum(x)
}

// poisson returns sqrt(c) for every element.
func poisson(counts []float64) []float64 {
	out := make([]float64, len(counts))
	for i, c := range counts {
		out[i] = math.Sqrt(c)
	}
	return out
}

// rebin applies a notice mask and a grouping to a count array. An all-zero
// grouping returns the noticed channels unchanged.
func rebin(lo, hi, counts []float64, u units.Unit, notice []bool, binning []int) (Histogram, error) {
	n := len(counts)
	if len(lo) != n || len(hi) != n || len(notice) != n || len(binning) != n {
		return Histogram{}, fmt.Errorf("%w: rebin lengths lo=%d hi=%d counts=%d notice=%d binning=%d",
			ErrInvalidArgument, len(lo), len(hi), n, len(notice), len(binning))
	}

	if group.Ungrouped(binning) {
		return noticed(lo, hi, counts, u, notice), nil
	}
	return aggregate(lo, hi, counts, u, notice, binning), nil
}

func noticed(lo, hi, counts []float64, u units.Unit, notice []bool) Histogram {
	h := Histogram{Unit: u}
	for i, ok := range notice {
		if !ok {
			continue
		}
		h.BinLo = append(h.BinLo, lo[i])
		h.BinHi = append(h.BinHi, hi[i])
		h.Counts = append(h.Counts, counts[i])
	}
	h.Err = poisson(h.Counts)
	return h
}

// aggregate sums the noticed channels of every group id between the lowest
// and highest noticed id. A group takes bin_lo from its first noticed channel
// and bin_hi from its last.
func aggregate(lo, hi, counts []float64, u units.Unit, notice []bool, binning []int) Histogram {
	minID, maxID := 0, -1
	first := true
	noticedTotal := 0.0
	for i, ok := range notice {
		if !ok {
			continue
		}
		id := binning[i]
		if first || id < minID {
			minID = id
		}
		if first || id > maxID {
			maxID = id
		}
		first = false
		noticedTotal += counts[i]
	}
	if first {
		return Histogram{Unit: u, BinLo: []float64{}, BinHi: []float64{}, Counts: []float64{}, Err: []float64{}}
	}

	ngroups := maxID - minID + 1
	h := Histogram{
		BinLo:  make([]float64, ngroups),
		BinHi:  make([]float64, ngroups),
		Counts: make([]float64, ngroups),
		Unit:   u,
	}
	seen := make([]bool, ngroups)
	for i, ok := range notice {
		if !ok {
			continue
		}
		g := binning[i] - minID
		if !seen[g] {
			h.BinLo[g] = lo[i]
			seen[g] = true
		}
		h.BinHi[g] = hi[i]
		h.Counts[g] += counts[i]
	}

	for g, ok := range seen {
		if !ok {
			invariantf("group id %d has no noticed channels", g+minID)
		}
	}
	if got := sum(h.Counts); math.Abs(got-noticedTotal) > sumTolerance*math.Max(1, math.Abs(noticedTotal)) {
		invariantf("grouped counts sum to %v, noticed counts sum to %v", got, noticedTotal)
	}

	h.Err = poisson(h.Counts)
	return h
}
