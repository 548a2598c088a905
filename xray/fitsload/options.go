package fitsload

import "go.uber.org/zap"

// Format selects the layout of a source spectrum file.
type Format string

// Supported source formats.
const (
	FormatChandraHETG Format = "chandra_hetg"
	FormatGeneric     Format = "generic"
)

// Telescope selects the layout of a background spectrum file.
type Telescope string

// Supported background layouts.
const (
	TelescopeHETG  Telescope = "HETG"
	TelescopeACIS  Telescope = "ACIS"
	TelescopeOther Telescope = "other"
)

// Config defines how spectrum files are read.
type Config struct {
	Format      Format
	Telescope   Telescope
	HDU         int
	NativeUnits bool
	Logger      *zap.Logger
}

// Option mutates a Config.
type Option func(*Config)

// DefaultConfig reads Chandra HETG files from the first extension and
// converts wavelength grids to keV.
func DefaultConfig() Config {
	return Config{
		Format:    FormatChandraHETG,
		Telescope: TelescopeHETG,
		HDU:       1,
		Logger:    zap.NewNop(),
	}
}

// WithFormat sets the source file format.
func WithFormat(f Format) Option {
	return func(cfg *Config) {
		if f != "" {
			cfg.Format = f
		}
	}
}

// WithTelescope sets the background file layout.
func WithTelescope(t Telescope) Option {
	return func(cfg *Config) {
		if t != "" {
			cfg.Telescope = t
		}
	}
}

// WithHDU sets the index of the table extension to read.
func WithHDU(i int) Option {
	return func(cfg *Config) {
		if i > 0 {
			cfg.HDU = i
		}
	}
}

// WithNativeUnits keeps wavelength grids in Angstrom instead of converting
// them to keV.
func WithNativeUnits() Option {
	return func(cfg *Config) {
		cfg.NativeUnits = true
	}
}

// WithLogger sets the logger used for debug output.
func WithLogger(l *zap.Logger) Option {
	return func(cfg *Config) {
		if l != nil {
			cfg.Logger = l
		}
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
