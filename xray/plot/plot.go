package plot

import (
	"errors"
	"fmt"
	"io"

	gonumplot "gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/cwbudde/algo-xspec/xray/spectrum"
	"github.com/cwbudde/algo-xspec/xray/units"
)

// ErrEmptyHistogram is returned when there is nothing to draw.
var ErrEmptyHistogram = errors.New("plot: histogram has no bins")

// Config defines how a counts histogram is drawn.
type Config struct {
	XUnit  units.Unit
	PerBin bool
	Title  string
}

// Option mutates a Config.
type Option func(*Config)

// DefaultConfig draws counts per bin against energy in keV.
func DefaultConfig() Config {
	return Config{XUnit: units.KeV, PerBin: true}
}

// WithXUnit sets the unit of the x axis.
func WithXUnit(u units.Unit) Option {
	return func(cfg *Config) {
		if u.Valid() {
			cfg.XUnit = u
		}
	}
}

// WithPerBin selects counts per bin (true) or counts per unit of x (false).
func WithPerBin(perBin bool) Option {
	return func(cfg *Config) {
		cfg.PerBin = perBin
	}
}

// WithTitle sets the plot title.
func WithTitle(title string) Option {
	return func(cfg *Config) {
		cfg.Title = title
	}
}

// ApplyOptions applies zero or more options to the default config.
func ApplyOptions(opts ...Option) Config {
	cfg := DefaultConfig()
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	return cfg
}

// YLabel returns the y-axis label for cfg.
func (cfg Config) YLabel() string {
	if cfg.PerBin {
		return "Counts per bin"
	}
	return fmt.Sprintf("Counts %s^-1", cfg.XUnit)
}

// Prepare converts h to the configured x unit and, unless counts per bin
// were requested, divides by the bin widths.
func Prepare(h spectrum.Histogram, cfg Config) (spectrum.Histogram, error) {
	out, err := h.In(cfg.XUnit)
	if err != nil {
		return spectrum.Histogram{}, err
	}
	if !cfg.PerBin {
		out = out.PerUnitWidth()
	}
	return out, nil
}

// Counts draws h as a post-step line over the lower bin edges with error
// bars at the bin midpoints.
func Counts(h spectrum.Histogram, opts ...Option) (*gonumplot.Plot, error) {
	cfg := ApplyOptions(opts...)
	if h.Len() == 0 {
		return nil, ErrEmptyHistogram
	}

	ph, err := Prepare(h, cfg)
	if err != nil {
		return nil, fmt.Errorf("plot: %w", err)
	}

	p := gonumplot.New()
	p.Title.Text = cfg.Title
	p.X.Label.Text = string(cfg.XUnit)
	p.Y.Label.Text = cfg.YLabel()

	line, err := plotter.NewLine(steps(ph))
	if err != nil {
		return nil, fmt.Errorf("plot: step line: %w", err)
	}
	line.StepStyle = plotter.PostStep

	bars, err := plotter.NewYErrorBars(errorBars{x: ph.Mid(), y: ph.Counts, err: ph.Err})
	if err != nil {
		return nil, fmt.Errorf("plot: error bars: %w", err)
	}

	p.Add(line, bars)
	return p, nil
}

// Save writes p to path. The format follows the file extension.
func Save(p *gonumplot.Plot, path string, width, height vg.Length) error {
	if err := p.Save(width, height, path); err != nil {
		return fmt.Errorf("plot: saving %s: %w", path, err)
	}
	return nil
}

// WriteTo renders p in the given format ("png", "svg", "pdf", ...) to w.
func WriteTo(w io.Writer, p *gonumplot.Plot, format string, width, height vg.Length) error {
	wt, err := p.WriterTo(width, height, format)
	if err != nil {
		return fmt.Errorf("plot: %w", err)
	}
	if _, err := wt.WriteTo(w); err != nil {
		return fmt.Errorf("plot: %w", err)
	}
	return nil
}

// steps returns the vertices of a post-step line: one per lower edge plus
// the upper edge of the last bin.
func steps(h spectrum.Histogram) plotter.XYs {
	n := h.Len()
	xys := make(plotter.XYs, n+1)
	for i := range n {
		xys[i].X = h.BinLo[i]
		xys[i].Y = h.Counts[i]
	}
	xys[n].X = h.BinHi[n-1]
	xys[n].Y = h.Counts[n-1]
	return xys
}

type errorBars struct {
	x, y, err []float64
}

func (e errorBars) Len() int { return len(e.x) }

func (e errorBars) XY(i int) (x, y float64) { return e.x[i], e.y[i] }

func (e errorBars) YError(i int) (lo, hi float64) { return e.err[i], e.err[i] }
