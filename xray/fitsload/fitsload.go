package fitsload

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/astrogo/fitsio"
	"go.uber.org/zap"

	"github.com/cwbudde/algo-xspec/xray/spectrum"
	"github.com/cwbudde/algo-xspec/xray/units"
)

// Errors returned by the loaders.
var (
	ErrNotTable         = errors.New("fitsload: HDU is not a table")
	ErrMissingHDU       = errors.New("fitsload: HDU not found")
	ErrMissingColumn    = errors.New("fitsload: missing column")
	ErrMissingKeyword   = errors.New("fitsload: missing header keyword")
	ErrNotNumeric       = errors.New("fitsload: value is not numeric")
	ErrUnknownFormat    = errors.New("fitsload: unknown spectrum format")
	ErrUnknownTelescope = errors.New("fitsload: unknown telescope")
)

// Column and keyword names.
const (
	colBinLo    = "BIN_LO"
	colBinHi    = "BIN_HI"
	colCounts   = "COUNTS"
	colBkgUp    = "BACKGROUND_UP"
	colBkgDown  = "BACKGROUND_DOWN"
	keyExposure = "EXPOSURE"
	keyBackscal = "BACKSCAL"
	keyBackscUp = "BACKSCUP"
	keyBackscDn = "BACKSCDN"
)

// OpenSpectrum reads a source spectrum from the file at path.
func OpenSpectrum(path string, opts ...Option) (spectrum.Spectrum, error) {
	f, err := os.Open(path)
	if err != nil {
		return spectrum.Spectrum{}, fmt.Errorf("fitsload: %w", err)
	}
	defer f.Close()

	return ReadSpectrum(f, opts...)
}

// ReadSpectrum reads a source spectrum with BIN_LO, BIN_HI and COUNTS
// columns. The EXPOSURE keyword is optional.
func ReadSpectrum(r io.Reader, opts ...Option) (spectrum.Spectrum, error) {
	cfg := ApplyOptions(opts...)
	defaultUnit, err := formatUnit(cfg.Format)
	if err != nil {
		return spectrum.Spectrum{}, err
	}

	tbl, err := readTable(r, cfg.HDU, colBinLo, colBinHi, colCounts)
	if err != nil {
		return spectrum.Spectrum{}, err
	}
	unit, err := tbl.unit(colBinLo, defaultUnit)
	if err != nil {
		return spectrum.Spectrum{}, err
	}
	exposure, _ := tbl.keyword(keyExposure)

	cfg.Logger.Debug("read source spectrum",
		zap.String("format", string(cfg.Format)),
		zap.Int("channels", len(tbl.cols[colCounts])),
		zap.String("unit", string(unit)),
		zap.Float64("exposure", exposure),
	)

	return buildSpectrum(tbl.cols[colBinLo], tbl.cols[colBinHi], tbl.cols[colCounts], unit, exposure, cfg)
}

// OpenBackground reads a background spectrum from the file at path.
func OpenBackground(path string, opts ...Option) (*spectrum.Background, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("fitsload: %w", err)
	}
	defer f.Close()

	return ReadBackground(f, opts...)
}

// ReadBackground reads a background spectrum.
//
// HETG files sum the BACKGROUND_UP and BACKGROUND_DOWN columns and scale by
// BACKSCAL / (BACKSCUP + BACKSCDN). Other telescopes read COUNTS and scale
// by 1 / BACKSCAL, or 1 when the keyword is unusable.
func ReadBackground(r io.Reader, opts ...Option) (*spectrum.Background, error) {
	cfg := ApplyOptions(opts...)

	var (
		tbl      *table
		counts   []float64
		backscal float64
		err      error
	)
	switch cfg.Telescope {
	case TelescopeHETG:
		tbl, err = readTable(r, cfg.HDU, colBinLo, colBinHi, colBkgUp, colBkgDown)
		if err != nil {
			return nil, err
		}
		counts = addColumns(tbl.cols[colBkgUp], tbl.cols[colBkgDown])
		backscal, err = hetgBackscal(tbl.keyword)
		if err != nil {
			return nil, err
		}
	case TelescopeACIS, TelescopeOther:
		tbl, err = readTable(r, cfg.HDU, colBinLo, colBinHi, colCounts)
		if err != nil {
			return nil, err
		}
		counts = tbl.cols[colCounts]
		backscal = otherBackscal(tbl.keyword)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownTelescope, cfg.Telescope)
	}

	defaultUnit := units.KeV
	if cfg.Telescope == TelescopeHETG {
		defaultUnit = units.Angstrom
	}
	unit, err := tbl.unit(colBinLo, defaultUnit)
	if err != nil {
		return nil, err
	}
	exposure, _ := tbl.keyword(keyExposure)

	cfg.Logger.Debug("read background spectrum",
		zap.String("telescope", string(cfg.Telescope)),
		zap.Int("channels", len(counts)),
		zap.String("unit", string(unit)),
		zap.Float64("backscal", backscal),
	)

	return buildBackground(tbl.cols[colBinLo], tbl.cols[colBinHi], counts, unit, exposure, backscal, cfg)
}

func formatUnit(f Format) (units.Unit, error) {
	switch f {
	case FormatChandraHETG:
		return units.Angstrom, nil
	case FormatGeneric:
		return units.KeV, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownFormat, f)
	}
}

// toNative converts a wavelength grid to keV unless native units were
// requested. Channel order is reversed with the grid.
func toNative(lo, hi, counts []float64, u units.Unit, cfg Config) ([]float64, []float64, []float64, units.Unit, error) {
	if cfg.NativeUnits || u.Axis() != units.Wavelength {
		return lo, hi, counts, u, nil
	}
	newLo, newHi, err := units.ConvertEdges(lo, hi, u, units.KeV)
	if err != nil {
		return nil, nil, nil, "", fmt.Errorf("fitsload: %w", err)
	}
	return newLo, newHi, units.ReverseFloat64s(counts), units.KeV, nil
}

func buildSpectrum(lo, hi, counts []float64, u units.Unit, exposure float64, cfg Config) (spectrum.Spectrum, error) {
	lo, hi, counts, u, err := toNative(lo, hi, counts, u, cfg)
	if err != nil {
		return spectrum.Spectrum{}, err
	}
	s := spectrum.Spectrum{BinLo: lo, BinHi: hi, Counts: counts, Exposure: exposure, Unit: u}
	if err := s.Validate(); err != nil {
		return spectrum.Spectrum{}, fmt.Errorf("fitsload: %w", err)
	}
	return s, nil
}

func buildBackground(lo, hi, counts []float64, u units.Unit, exposure, backscal float64, cfg Config) (*spectrum.Background, error) {
	lo, hi, counts, u, err := toNative(lo, hi, counts, u, cfg)
	if err != nil {
		return nil, err
	}
	bg := &spectrum.Background{BinLo: lo, BinHi: hi, Counts: counts, Unit: u, Backscal: backscal, Exposure: exposure}
	if err := bg.Validate(); err != nil {
		return nil, fmt.Errorf("fitsload: %w", err)
	}
	return bg, nil
}

// hetgBackscal returns BACKSCAL / (BACKSCUP + BACKSCDN), the source area
// over the combined background area. All three keywords are required.
func hetgBackscal(keyword func(string) (float64, error)) (float64, error) {
	src, err := keyword(keyBackscal)
	if err != nil {
		return 0, err
	}
	up, err := keyword(keyBackscUp)
	if err != nil {
		return 0, err
	}
	down, err := keyword(keyBackscDn)
	if err != nil {
		return 0, err
	}
	if up+down == 0 {
		return 0, fmt.Errorf("%w: %s + %s is zero", ErrNotNumeric, keyBackscUp, keyBackscDn)
	}
	return src / (up + down), nil
}

// otherBackscal returns 1 / BACKSCAL, falling back to 1 when the keyword is
// missing, not numeric or zero.
func otherBackscal(keyword func(string) (float64, error)) float64 {
	v, err := keyword(keyBackscal)
	if err != nil || v == 0 {
		return 1
	}
	return 1 / v
}

func addColumns(a, b []float64) []float64 {
	out := make([]float64, len(a))
	for i := range out {
		out[i] = a[i] + b[i]
	}
	return out
}

// table holds the numeric columns and header of one FITS table extension.
type table struct {
	cols   map[string][]float64
	units  map[string]string
	header *fitsio.Header
}

func readTable(r io.Reader, hdu int, names ...string) (*table, error) {
	f, err := fitsio.Open(r)
	if err != nil {
		return nil, fmt.Errorf("fitsload: opening FITS stream: %w", err)
	}
	defer f.Close()

	if hdu < 0 || hdu >= len(f.HDUs()) {
		return nil, fmt.Errorf("%w: index %d of %d", ErrMissingHDU, hdu, len(f.HDUs()))
	}
	t, ok := f.HDU(hdu).(*fitsio.Table)
	if !ok {
		return nil, fmt.Errorf("%w: index %d", ErrNotTable, hdu)
	}

	tbl := &table{
		cols:   make(map[string][]float64, len(names)),
		units:  make(map[string]string, len(names)),
		header: t.Header(),
	}
	for _, name := range names {
		i := t.Index(name)
		if i < 0 {
			return nil, fmt.Errorf("%w: %s", ErrMissingColumn, name)
		}
		tbl.units[name] = t.Cols()[i].Unit
		tbl.cols[name] = make([]float64, 0, t.NumRows())
	}

	rows, err := t.Read(0, t.NumRows())
	if err != nil {
		return nil, fmt.Errorf("fitsload: reading rows: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		row := make(map[string]any)
		if err := rows.Scan(&row); err != nil {
			return nil, fmt.Errorf("fitsload: scanning row: %w", err)
		}
		for _, name := range names {
			v, err := toFloat64(row[name])
			if err != nil {
				return nil, fmt.Errorf("fitsload: column %s: %w", name, err)
			}
			tbl.cols[name] = append(tbl.cols[name], v)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("fitsload: reading rows: %w", err)
	}
	return tbl, nil
}

// unit resolves the unit of a column, using def when the column has none.
func (t *table) unit(col string, def units.Unit) (units.Unit, error) {
	name := t.units[col]
	if name == "" {
		return def, nil
	}
	u, err := units.Parse(name)
	if err != nil {
		return "", fmt.Errorf("fitsload: column %s: %w", col, err)
	}
	return u, nil
}

// keyword returns a numeric header keyword.
func (t *table) keyword(name string) (float64, error) {
	card := t.header.Get(name)
	if card == nil {
		return 0, fmt.Errorf("%w: %s", ErrMissingKeyword, name)
	}
	v, err := toFloat64(card.Value)
	if err != nil {
		return 0, fmt.Errorf("fitsload: keyword %s: %w", name, err)
	}
	return v, nil
}
