package plot

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"gonum.org/v1/plot/vg"

	"github.com/cwbudde/algo-xspec/internal/testutil"
	"github.com/cwbudde/algo-xspec/xray/spectrum"
	"github.com/cwbudde/algo-xspec/xray/units"
)

func testHistogram() spectrum.Histogram {
	return spectrum.Histogram{
		BinLo:  []float64{1, 2, 4},
		BinHi:  []float64{2, 4, 8},
		Counts: []float64{9, 16, 4},
		Err:    []float64{3, 4, 2},
		Unit:   units.KeV,
	}
}

func TestYLabel(t *testing.T) {
	if got := ApplyOptions().YLabel(); got != "Counts per bin" {
		t.Fatalf("per-bin label = %q", got)
	}
	if got := ApplyOptions(WithPerBin(false), WithXUnit(units.Angstrom)).YLabel(); got != "Counts Angstrom^-1" {
		t.Fatalf("per-width label = %q", got)
	}
}

func TestWithXUnitIgnoresInvalid(t *testing.T) {
	if cfg := ApplyOptions(WithXUnit("nm")); cfg.XUnit != units.KeV {
		t.Fatalf("x unit = %q, want keV", cfg.XUnit)
	}
}

func TestPreparePerUnitWidth(t *testing.T) {
	got, err := Prepare(testHistogram(), ApplyOptions(WithPerBin(false)))
	if err != nil {
		t.Fatal(err)
	}
	testutil.RequireSliceEqual(t, got.Counts, []float64{9, 8, 1})
	testutil.RequireSliceEqual(t, got.Err, []float64{3, 2, 0.5})
}

func TestPrepareWavelengthReversesBins(t *testing.T) {
	got, err := Prepare(testHistogram(), ApplyOptions(WithXUnit(units.Angstrom)))
	if err != nil {
		t.Fatal(err)
	}
	testutil.RequireSliceEqual(t, got.Counts, []float64{4, 16, 9})
	for i := 1; i < got.Len(); i++ {
		if got.BinLo[i] <= got.BinLo[i-1] {
			t.Fatalf("wavelength bins not ascending: %v", got.BinLo)
		}
	}
}

func TestSteps(t *testing.T) {
	xys := steps(testHistogram())
	if len(xys) != 4 {
		t.Fatalf("len = %d, want 4", len(xys))
	}
	if xys[3].X != 8 || xys[3].Y != 4 {
		t.Fatalf("closing vertex = %+v", xys[3])
	}
}

func TestCounts(t *testing.T) {
	p, err := Counts(testHistogram(), WithTitle("HEG -1"), WithPerBin(false))
	if err != nil {
		t.Fatal(err)
	}
	if p.Title.Text != "HEG -1" {
		t.Fatalf("title = %q", p.Title.Text)
	}
	if p.X.Label.Text != "keV" || p.Y.Label.Text != "Counts keV^-1" {
		t.Fatalf("labels = %q / %q", p.X.Label.Text, p.Y.Label.Text)
	}

	var buf bytes.Buffer
	if err := WriteTo(&buf, p, "png", 4*vg.Inch, 3*vg.Inch); err != nil {
		t.Fatal(err)
	}
	if !bytes.HasPrefix(buf.Bytes(), []byte("\x89PNG")) {
		t.Fatal("output is not a PNG")
	}
}

func TestCountsEmpty(t *testing.T) {
	if _, err := Counts(spectrum.Histogram{Unit: units.KeV}); !errors.Is(err, ErrEmptyHistogram) {
		t.Fatalf("err = %v, want ErrEmptyHistogram", err)
	}
}

func TestSave(t *testing.T) {
	p, err := Counts(testHistogram())
	if err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(t.TempDir(), "counts.svg")
	if err := Save(p, path, 4*vg.Inch, 3*vg.Inch); err != nil {
		t.Fatal(err)
	}
	info, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	if info.Size() == 0 {
		t.Fatal("empty plot file")
	}
}
