// Package config reads binning session files.
//
// A session file names a source spectrum, an optional background, the
// noticed range, the grouping policy and where products go:
//
//	source:
//	  path: obs_heg_m1.pha
//	  format: chandra_hetg
//	background:
//	  path: obs_heg_m1_bkg.pha
//	  telescope: HETG
//	  hdu: 1
//	notice: {min: 0.5, max: 7, unit: keV}
//	grouping: {policy: mincounts, value: 20}
//	subtract_background: true
//	use_backscal: true
//	plot: {output: counts.png, xunit: Angstrom, per_bin: false}
//	store: {path: products.db}
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/cwbudde/algo-xspec/internal/logging"
	"github.com/cwbudde/algo-xspec/xray/fitsload"
	"github.com/cwbudde/algo-xspec/xray/units"
)

// ErrInvalidConfig is returned for session files that cannot be run.
var ErrInvalidConfig = errors.New("config: invalid session")

// Grouping policies.
const (
	PolicyNone      = "none"
	PolicyChannels  = "channels"
	PolicyMinCounts = "mincounts"
)

// Config is a binning session.
type Config struct {
	Source             Source      `yaml:"source"`
	Background         *Background `yaml:"background,omitempty"`
	Notice             *Notice     `yaml:"notice,omitempty"`
	Grouping           Grouping    `yaml:"grouping"`
	SubtractBackground bool        `yaml:"subtract_background"` // ignored without a background
	UseBackscal        bool        `yaml:"use_backscal"`
	Plot               *Plot       `yaml:"plot,omitempty"`
	Store              Store       `yaml:"store"`
	Log                Log         `yaml:"log"`
}

// Source locates the source spectrum.
type Source struct {
	Path   string `yaml:"path"`
	Format string `yaml:"format"`
	HDU    int    `yaml:"hdu,omitempty"`
}

// Background locates the background spectrum. HDU is independent of the
// source HDU.
type Background struct {
	Path      string `yaml:"path"`
	Telescope string `yaml:"telescope"`
	HDU       int    `yaml:"hdu,omitempty"`
}

// Notice is an exclusive selection range. Min and Max may be given in
// either order.
type Notice struct {
	Min  float64 `yaml:"min"`
	Max  float64 `yaml:"max"`
	Unit string  `yaml:"unit"`
}

// Grouping selects how channels are combined. Value is the factor for
// "channels" and the minimum counts for "mincounts".
type Grouping struct {
	Policy string  `yaml:"policy"`
	Value  float64 `yaml:"value,omitempty"`
}

// Plot describes an optional counts plot. Width and height are in inches.
type Plot struct {
	Output string  `yaml:"output"`
	XUnit  string  `yaml:"xunit"`
	PerBin bool    `yaml:"per_bin"`
	Title  string  `yaml:"title,omitempty"`
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`
}

// Store names the product database. An empty path disables storing.
type Store struct {
	Path string `yaml:"path"`
}

// Log configures logging.
type Log struct {
	Mode    string `yaml:"mode"`
	Verbose bool   `yaml:"verbose"`
}

// Default returns a session with every optional part switched off.
func Default() Config {
	return Config{
		Source:      Source{Format: string(fitsload.FormatChandraHETG)},
		Grouping:    Grouping{Policy: PolicyNone},
		UseBackscal: true,
		Log:         Log{Mode: logging.ModeDevelopment},
	}
}

// DefaultPlot returns the plot settings a plot section starts from; keys
// it omits keep these values.
func DefaultPlot() Plot {
	return Plot{XUnit: string(units.KeV), PerBin: true, Width: 6, Height: 4}
}

// Load decodes a session from r on top of Default. Unknown keys are
// rejected.
func Load(r io.Reader) (Config, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return Config{}, fmt.Errorf("config: reading: %w", err)
	}

	cfg := Default()
	var doc yaml.Node
	if err := yaml.Unmarshal(b, &doc); err != nil {
		return Config{}, fmt.Errorf("config: decoding: %w", err)
	}
	// yaml decodes into an existing pointee, so a present plot section is
	// seeded with the plot defaults while an absent one stays nil.
	if hasKey(&doc, "plot") {
		p := DefaultPlot()
		cfg.Plot = &p
	}

	dec := yaml.NewDecoder(bytes.NewReader(b))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("config: decoding: %w", err)
	}
	cfg.fillDefaults()
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func hasKey(doc *yaml.Node, key string) bool {
	if doc.Kind != yaml.DocumentNode || len(doc.Content) == 0 {
		return false
	}
	m := doc.Content[0]
	if m.Kind != yaml.MappingNode {
		return false
	}
	for i := 0; i+1 < len(m.Content); i += 2 {
		if m.Content[i].Value == key {
			return true
		}
	}
	return false
}

// LoadFile reads a session file. Relative paths inside it are resolved
// against the file's directory.
func LoadFile(path string) (Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: %w", err)
	}
	cfg, err := Load(bytes.NewReader(b))
	if err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	cfg.resolve(filepath.Dir(path))
	return cfg, nil
}

func (c *Config) fillDefaults() {
	if c.Grouping.Policy == "" {
		c.Grouping.Policy = PolicyNone
	}
	if c.Source.Format == "" {
		c.Source.Format = string(fitsload.FormatChandraHETG)
	}
	if c.Background != nil && c.Background.Telescope == "" {
		c.Background.Telescope = string(fitsload.TelescopeHETG)
	}
	if c.Plot != nil {
		def := DefaultPlot()
		if c.Plot.XUnit == "" {
			c.Plot.XUnit = def.XUnit
		}
		if c.Plot.Width == 0 {
			c.Plot.Width = def.Width
		}
		if c.Plot.Height == 0 {
			c.Plot.Height = def.Height
		}
	}
}

func (c *Config) resolve(dir string) {
	join := func(p string) string {
		if p == "" || filepath.IsAbs(p) {
			return p
		}
		return filepath.Join(dir, p)
	}
	c.Source.Path = join(c.Source.Path)
	if c.Background != nil {
		c.Background.Path = join(c.Background.Path)
	}
	if c.Plot != nil {
		c.Plot.Output = join(c.Plot.Output)
	}
	c.Store.Path = join(c.Store.Path)
}

// Validate reports the first problem that would stop the session from
// running.
func (c Config) Validate() error {
	if c.Source.Path == "" {
		return fmt.Errorf("%w: source.path is required", ErrInvalidConfig)
	}
	switch fitsload.Format(c.Source.Format) {
	case fitsload.FormatChandraHETG, fitsload.FormatGeneric:
	default:
		return fmt.Errorf("%w: source.format %q", ErrInvalidConfig, c.Source.Format)
	}
	if c.Source.HDU < 0 {
		return fmt.Errorf("%w: source.hdu %d", ErrInvalidConfig, c.Source.HDU)
	}

	if c.Background != nil {
		if c.Background.Path == "" {
			return fmt.Errorf("%w: background.path is required", ErrInvalidConfig)
		}
		switch fitsload.Telescope(c.Background.Telescope) {
		case fitsload.TelescopeHETG, fitsload.TelescopeACIS, fitsload.TelescopeOther:
		default:
			return fmt.Errorf("%w: background.telescope %q", ErrInvalidConfig, c.Background.Telescope)
		}
		if c.Background.HDU < 0 {
			return fmt.Errorf("%w: background.hdu %d", ErrInvalidConfig, c.Background.HDU)
		}
	}

	if c.Notice != nil {
		if _, err := units.Parse(c.Notice.Unit); err != nil {
			return fmt.Errorf("%w: notice.unit: %w", ErrInvalidConfig, err)
		}
		if !finite(c.Notice.Min) || !finite(c.Notice.Max) {
			return fmt.Errorf("%w: notice bounds must be finite", ErrInvalidConfig)
		}
	}

	switch c.Grouping.Policy {
	case PolicyNone:
	case PolicyChannels:
		if c.Grouping.Value <= 1 || c.Grouping.Value != math.Trunc(c.Grouping.Value) {
			return fmt.Errorf("%w: grouping.value must be an integer > 1, got %v", ErrInvalidConfig, c.Grouping.Value)
		}
	case PolicyMinCounts:
		if !(c.Grouping.Value > 0) || !finite(c.Grouping.Value) {
			return fmt.Errorf("%w: grouping.value must be > 0, got %v", ErrInvalidConfig, c.Grouping.Value)
		}
	default:
		return fmt.Errorf("%w: grouping.policy %q", ErrInvalidConfig, c.Grouping.Policy)
	}

	if c.Plot != nil {
		if c.Plot.Output == "" {
			return fmt.Errorf("%w: plot.output is required", ErrInvalidConfig)
		}
		if _, err := units.Parse(c.Plot.XUnit); err != nil {
			return fmt.Errorf("%w: plot.xunit: %w", ErrInvalidConfig, err)
		}
		if c.Plot.Width <= 0 || c.Plot.Height <= 0 {
			return fmt.Errorf("%w: plot size must be positive", ErrInvalidConfig)
		}
	}
	return nil
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
