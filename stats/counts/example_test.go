package counts_test

import (
	"fmt"

	countstats "github.com/cwbudde/algo-xspec/stats/counts"
	"github.com/cwbudde/algo-xspec/xray/spectrum"
	"github.com/cwbudde/algo-xspec/xray/units"
)

func ExampleCalculate() {
	h := spectrum.Histogram{
		BinLo:  []float64{1, 2, 3},
		BinHi:  []float64{2, 3, 4},
		Counts: []float64{4, 16, 4},
		Err:    []float64{2, 4, 2},
		Unit:   units.KeV,
	}
	s := countstats.Calculate(h)
	fmt.Printf("sum=%.0f centroid=%.1f median=%.1f\n", s.Sum, s.Centroid, s.Median)

	// Output:
	// sum=24 centroid=2.5 median=2.5
}
