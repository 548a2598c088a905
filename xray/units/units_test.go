package units

import (
	"errors"
	"math"
	"testing"
)

func TestParseAliases(t *testing.T) {
	tests := []struct {
		name string
		want Unit
	}{
		{"kev", KeV},
		{"keV", KeV},
		{"Angstroms", Angstrom},
		{"Angstrom", Angstrom},
		{"Angs", Angstrom},
		{"angstroms", Angstrom},
		{"angstrom", Angstrom},
		{"angs", Angstrom},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse(tt.name)
			if err != nil {
				t.Fatalf("Parse(%q) error: %v", tt.name, err)
			}
			if got != tt.want {
				t.Fatalf("Parse(%q) = %q, want %q", tt.name, got, tt.want)
			}
		})
	}
}

func TestParseRejectsUnknown(t *testing.T) {
	for _, name := range []string{"", "KEV", "nm", "eV", "ANGS"} {
		if _, err := Parse(name); !errors.Is(err, ErrUnknownUnit) {
			t.Fatalf("Parse(%q) err = %v, want ErrUnknownUnit", name, err)
		}
	}
}

func TestAliasesCoverTable(t *testing.T) {
	if got := len(Aliases(KeV)) + len(Aliases(Angstrom)); got != len(aliases) {
		t.Fatalf("alias count = %d, want %d", got, len(aliases))
	}
}

func TestConvertRoundTrip(t *testing.T) {
	for _, e := range []float64{0.5, 1, 2.5, 7} {
		l, err := Convert(e, KeV, Angstrom)
		if err != nil {
			t.Fatal(err)
		}
		back, err := Convert(l, Angstrom, KeV)
		if err != nil {
			t.Fatal(err)
		}
		if math.Abs(back-e) > 1e-12 {
			t.Fatalf("round trip %v -> %v -> %v", e, l, back)
		}
	}

	l, _ := Convert(1, KeV, Angstrom)
	if math.Abs(l-HC) > 1e-12 {
		t.Fatalf("1 keV = %v Angstrom, want %v", l, HC)
	}
}

func TestConvertSameAxis(t *testing.T) {
	got, err := Convert(3, KeV, KeV)
	if err != nil || got != 3 {
		t.Fatalf("Convert same axis = %v, %v", got, err)
	}
}

func TestConvertZero(t *testing.T) {
	got, err := Convert(0, Angstrom, KeV)
	if err != nil {
		t.Fatal(err)
	}
	if !math.IsInf(got, 1) {
		t.Fatalf("Convert(0) = %v, want +Inf", got)
	}
}

func TestConvertEdgesReverses(t *testing.T) {
	lo := []float64{1, 2, 3}
	hi := []float64{2, 3, 4}
	newLo, newHi, err := ConvertEdges(lo, hi, Angstrom, KeV)
	if err != nil {
		t.Fatal(err)
	}

	wantLo := []float64{HC / 4, HC / 3, HC / 2}
	wantHi := []float64{HC / 3, HC / 2, HC / 1}
	for i := range wantLo {
		if math.Abs(newLo[i]-wantLo[i]) > 1e-12 || math.Abs(newHi[i]-wantHi[i]) > 1e-12 {
			t.Fatalf("bin %d = [%v, %v], want [%v, %v]", i, newLo[i], newHi[i], wantLo[i], wantHi[i])
		}
		if newLo[i] >= newHi[i] {
			t.Fatalf("bin %d not ascending: [%v, %v]", i, newLo[i], newHi[i])
		}
	}
	for i := 1; i < len(newLo); i++ {
		if math.Abs(newLo[i]-newHi[i-1]) > 1e-12 {
			t.Fatalf("bins %d and %d not contiguous", i-1, i)
		}
	}
}

func TestConvertEdgesErrors(t *testing.T) {
	if _, _, err := ConvertEdges([]float64{1}, nil, KeV, KeV); err == nil {
		t.Fatal("expected length mismatch error")
	}
	if _, _, err := ConvertEdges(nil, nil, Unit("nm"), KeV); !errors.Is(err, ErrUnknownUnit) {
		t.Fatalf("err = %v, want ErrUnknownUnit", err)
	}
}

func TestQuantity(t *testing.T) {
	q := Q(12.398419843320026, "angs")
	got, err := q.To(KeV)
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(got-1) > 1e-12 {
		t.Fatalf("q.To(keV) = %v, want 1", got)
	}

	if _, err := Q(1, "nm").To(KeV); !errors.Is(err, ErrUnknownUnit) {
		t.Fatalf("err = %v, want ErrUnknownUnit", err)
	}
}

func TestReverseFloat64s(t *testing.T) {
	got := ReverseFloat64s([]float64{1, 2, 3})
	want := []float64{3, 2, 1}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v, want %v", got, want)
		}
	}
}
