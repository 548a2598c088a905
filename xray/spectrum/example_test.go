package spectrum_test

import (
	"fmt"

	"github.com/cwbudde/algo-xspec/xray/spectrum"
	"github.com/cwbudde/algo-xspec/xray/units"
)

func ExampleBinSpectrum_BinnedCounts() {
	s, err := spectrum.New(spectrum.Spectrum{
		BinLo:  []float64{1, 2, 3, 4, 5, 6, 7},
		BinHi:  []float64{2, 3, 4, 5, 6, 7, 8},
		Counts: []float64{1, 3, 5, 7, 9, 11, 4},
		Unit:   units.KeV,
	})
	if err != nil {
		panic(err)
	}
	if err := s.GroupChannels(3); err != nil {
		panic(err)
	}

	h, err := s.BinnedCounts(false, false)
	if err != nil {
		panic(err)
	}
	for i := range h.Counts {
		fmt.Printf("[%g, %g) %g ± %g\n", h.BinLo[i], h.BinHi[i], h.Counts[i], h.Err[i])
	}

	// Output:
	// [1, 4) 9 ± 3
	// [4, 7) 27 ± 5.196152422706632
	// [7, 8) 4 ± 2
}

func ExampleBinSpectrum_NoticeRange() {
	s, err := spectrum.New(spectrum.Spectrum{
		BinLo:  []float64{1, 2, 3, 4},
		BinHi:  []float64{2, 3, 4, 5},
		Counts: []float64{10, 20, 30, 40},
		Unit:   units.KeV,
	})
	if err != nil {
		panic(err)
	}

	if err := s.NoticeRange(units.Q(4, "keV"), units.Q(2, "keV")); err != nil {
		panic(err)
	}
	fmt.Println(s.Notice(), s.NoticedCounts())

	// Output:
	// [false true true false] 50
}

func ExampleBinSpectrum_AssignBackground() {
	s, err := spectrum.New(spectrum.Spectrum{
		BinLo:  []float64{1, 2},
		BinHi:  []float64{2, 3},
		Counts: []float64{16, 25},
		Unit:   units.KeV,
	})
	if err != nil {
		panic(err)
	}
	bkg := &spectrum.Background{
		BinLo:    []float64{1, 2},
		BinHi:    []float64{2, 3},
		Counts:   []float64{4, 8},
		Unit:     units.KeV,
		Backscal: 0.25,
	}
	if err := s.AssignBackground(bkg); err != nil {
		panic(err)
	}

	h, err := s.BinnedCounts(true, true)
	if err != nil {
		panic(err)
	}
	fmt.Println(h.Counts)

	// Output:
	// [15 23]
}
