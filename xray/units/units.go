package units

import (
	"errors"
	"fmt"
	"math"
)

// HC is Planck's constant times the speed of light in keV·Angstrom.
const HC = 12.398419843320026

// ErrUnknownUnit is returned when a unit name is not in the alias table.
var ErrUnknownUnit = errors.New("units: unknown spectral unit")

// Axis identifies the physical quantity a spectral grid is measured in.
type Axis int

const (
	// Energy grids are measured in keV.
	Energy Axis = iota + 1
	// Wavelength grids are measured in Angstrom.
	Wavelength
)

// String returns the axis name.
func (a Axis) String() string {
	switch a {
	case Energy:
		return "energy"
	case Wavelength:
		return "wavelength"
	default:
		return fmt.Sprintf("Axis(%d)", int(a))
	}
}

// Unit is a canonical spectral unit.
type Unit string

// Canonical units.
const (
	KeV      Unit = "keV"
	Angstrom Unit = "Angstrom"
)

// aliases maps every accepted unit spelling to its canonical unit.
var aliases = map[string]Unit{
	"kev":       KeV,
	"keV":       KeV,
	"Angstroms": Angstrom,
	"Angstrom":  Angstrom,
	"Angs":      Angstrom,
	"angstroms": Angstrom,
	"angstrom":  Angstrom,
	"angs":      Angstrom,
}

// Parse resolves a unit name to its canonical unit.
func Parse(name string) (Unit, error) {
	u, ok := aliases[name]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownUnit, name)
	}
	return u, nil
}

// MustParse is like [Parse] but panics on unknown names.
func MustParse(name string) Unit {
	u, err := Parse(name)
	if err != nil {
		panic(err)
	}
	return u
}

// Aliases returns the accepted spellings for u.
func Aliases(u Unit) []string {
	var out []string
	for _, name := range aliasOrder {
		if aliases[name] == u {
			out = append(out, name)
		}
	}
	return out
}

var aliasOrder = []string{"kev", "keV", "Angstroms", "Angstrom", "Angs", "angstroms", "angstrom", "angs"}

// Valid reports whether u is a canonical unit.
func (u Unit) Valid() bool {
	return u == KeV || u == Angstrom
}

// Axis returns the axis u measures.
func (u Unit) Axis() Axis {
	switch u {
	case KeV:
		return Energy
	case Angstrom:
		return Wavelength
	default:
		return 0
	}
}

// Convert converts v from one unit to another using the spectral
// equivalence E = hc/λ. Converting zero across axes yields +Inf.
func Convert(v float64, from, to Unit) (float64, error) {
	if !from.Valid() {
		return 0, fmt.Errorf("%w: %q", ErrUnknownUnit, string(from))
	}
	if !to.Valid() {
		return 0, fmt.Errorf("%w: %q", ErrUnknownUnit, string(to))
	}
	if from == to {
		return v, nil
	}
	if v == 0 {
		return math.Inf(1), nil
	}
	return HC / v, nil
}

// ConvertEdges converts a bin grid between units.
//
// On the same axis the edges are copied unchanged. Across axes the grid is
// reversed, and the converted upper edges become the new lower edges, so
// per-channel arrays parallel to the grid must be reversed with
// [ReverseFloat64s] to stay aligned.
func ConvertEdges(lo, hi []float64, from, to Unit) (newLo, newHi []float64, err error) {
	if len(lo) != len(hi) {
		return nil, nil, fmt.Errorf("units: edge length mismatch: %d vs %d", len(lo), len(hi))
	}
	if !from.Valid() {
		return nil, nil, fmt.Errorf("%w: %q", ErrUnknownUnit, string(from))
	}
	if !to.Valid() {
		return nil, nil, fmt.Errorf("%w: %q", ErrUnknownUnit, string(to))
	}

	n := len(lo)
	newLo = make([]float64, n)
	newHi = make([]float64, n)
	if from == to {
		copy(newLo, lo)
		copy(newHi, hi)
		return newLo, newHi, nil
	}

	for i := range n {
		j := n - 1 - i
		newLo[i], _ = Convert(hi[j], from, to)
		newHi[i], _ = Convert(lo[j], from, to)
	}
	return newLo, newHi, nil
}

// ReverseFloat64s returns a reversed copy of x.
func ReverseFloat64s(x []float64) []float64 {
	out := make([]float64, len(x))
	for i, v := range x {
		out[len(x)-1-i] = v
	}
	return out
}

// Quantity is a value with a spectral unit.
type Quantity struct {
	Value float64
	Unit  Unit
}

// Q builds a quantity, resolving the unit alias. Unknown aliases are kept
// verbatim so that conversion reports them.
func Q(v float64, unit string) Quantity {
	u, err := Parse(unit)
	if err != nil {
		u = Unit(unit)
	}
	return Quantity{Value: v, Unit: u}
}

// To converts q to the given unit.
func (q Quantity) To(u Unit) (float64, error) {
	return Convert(q.Value, q.Unit, u)
}

// String formats the quantity as "<value> <unit>".
func (q Quantity) String() string {
	return fmt.Sprintf("%g %s", q.Value, q.Unit)
}
