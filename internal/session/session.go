// Package session runs a binning session described by a config file:
// load, notice, group, bin, and optionally plot and store the result.
package session

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"gonum.org/v1/plot/vg"

	"github.com/cwbudde/algo-xspec/internal/config"
	"github.com/cwbudde/algo-xspec/internal/store"
	countstats "github.com/cwbudde/algo-xspec/stats/counts"
	"github.com/cwbudde/algo-xspec/xray/fitsload"
	"github.com/cwbudde/algo-xspec/xray/plot"
	"github.com/cwbudde/algo-xspec/xray/spectrum"
	"github.com/cwbudde/algo-xspec/xray/units"
)

// Inputs are the loaded files of a session. Background is nil when the
// session has none.
type Inputs struct {
	Source     spectrum.Spectrum
	Background *spectrum.Background
}

// Result describes a finished session.
type Result struct {
	Histogram spectrum.Histogram
	Stats     countstats.Stats
	Channels  int
	Noticed   int
	Grouping  string
	PlotPath  string
	ProductID uuid.UUID
}

// Run loads the files named in cfg and processes them.
func Run(ctx context.Context, cfg config.Config, logger *zap.Logger) (Result, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	in, err := Load(ctx, cfg, logger)
	if err != nil {
		return Result{}, err
	}
	return Process(ctx, cfg, in, logger)
}

// Load reads the source and background files concurrently.
func Load(ctx context.Context, cfg config.Config, logger *zap.Logger) (Inputs, error) {
	var in Inputs
	g, _ := errgroup.WithContext(ctx)

	g.Go(func() error {
		s, err := fitsload.OpenSpectrum(cfg.Source.Path,
			fitsload.WithFormat(fitsload.Format(cfg.Source.Format)),
			fitsload.WithHDU(cfg.Source.HDU),
			fitsload.WithLogger(logger),
		)
		if err != nil {
			return fmt.Errorf("session: source %s: %w", cfg.Source.Path, err)
		}
		in.Source = s
		return nil
	})

	if cfg.Background != nil {
		g.Go(func() error {
			bg, err := fitsload.OpenBackground(cfg.Background.Path,
				fitsload.WithTelescope(fitsload.Telescope(cfg.Background.Telescope)),
				fitsload.WithHDU(cfg.Background.HDU),
				fitsload.WithLogger(logger),
			)
			if err != nil {
				return fmt.Errorf("session: background %s: %w", cfg.Background.Path, err)
			}
			in.Background = bg
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return Inputs{}, err
	}
	return in, nil
}

// Process bins already loaded inputs according to cfg.
func Process(ctx context.Context, cfg config.Config, in Inputs, logger *zap.Logger) (Result, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	b, err := Prepare(cfg, in)
	if err != nil {
		return Result{}, err
	}
	if cfg.SubtractBackground && in.Background == nil {
		logger.Warn("background subtraction requested without a background; using source counts",
			zap.String("source", cfg.Source.Path))
	}

	h, err := b.BinnedCounts(cfg.SubtractBackground, cfg.UseBackscal)
	if err != nil {
		return Result{}, fmt.Errorf("session: binning: %w", err)
	}

	res := Result{
		Histogram: h,
		Stats:     countstats.Calculate(h),
		Channels:  b.Len(),
		Noticed:   b.NoticedChannels(),
		Grouping:  Describe(cfg.Grouping),
	}
	logger.Info("binned spectrum",
		zap.String("source", cfg.Source.Path),
		zap.String("grouping", res.Grouping),
		zap.Int("channels", res.Channels),
		zap.Int("noticed", res.Noticed),
		zap.Int("bins", h.Len()),
		zap.Float64("counts", res.Stats.Sum),
		zap.Bool("bkgsub", cfg.SubtractBackground && in.Background != nil),
	)

	if cfg.Plot != nil {
		if err := writePlot(*cfg.Plot, h, filepath.Base(cfg.Source.Path)); err != nil {
			return Result{}, err
		}
		res.PlotPath = cfg.Plot.Output
		logger.Info("wrote plot", zap.String("path", res.PlotPath))
	}

	if cfg.Store.Path != "" {
		id, err := save(ctx, cfg, h)
		if err != nil {
			return Result{}, err
		}
		res.ProductID = id
		logger.Info("stored product", zap.String("id", id.String()), zap.String("db", cfg.Store.Path))
	}
	return res, nil
}

// Prepare wraps the inputs in a BinSpectrum with the background, notice
// range and grouping of cfg applied.
func Prepare(cfg config.Config, in Inputs) (*spectrum.BinSpectrum, error) {
	b, err := spectrum.New(in.Source)
	if err != nil {
		return nil, fmt.Errorf("session: %w", err)
	}
	if in.Background != nil {
		if err := b.AssignBackground(in.Background); err != nil {
			return nil, fmt.Errorf("session: background: %w", err)
		}
	}
	if n := cfg.Notice; n != nil {
		if err := b.NoticeRange(units.Q(n.Min, n.Unit), units.Q(n.Max, n.Unit)); err != nil {
			return nil, fmt.Errorf("session: notice: %w", err)
		}
	}

	switch cfg.Grouping.Policy {
	case config.PolicyChannels:
		err = b.GroupChannels(int(cfg.Grouping.Value))
	case config.PolicyMinCounts:
		err = b.GroupMinCounts(cfg.Grouping.Value)
	case config.PolicyNone, "":
	default:
		err = fmt.Errorf("%w: policy %q", config.ErrInvalidConfig, cfg.Grouping.Policy)
	}
	if err != nil {
		return nil, fmt.Errorf("session: grouping: %w", err)
	}
	return b, nil
}

// Describe formats a grouping policy for logs and stored products.
func Describe(g config.Grouping) string {
	switch g.Policy {
	case "", config.PolicyNone:
		return config.PolicyNone
	default:
		return g.Policy + " " + strconv.FormatFloat(g.Value, 'g', -1, 64)
	}
}

func writePlot(pc config.Plot, h spectrum.Histogram, title string) error {
	xunit, err := units.Parse(pc.XUnit)
	if err != nil {
		return fmt.Errorf("session: plot: %w", err)
	}
	if pc.Title != "" {
		title = pc.Title
	}
	if err := os.MkdirAll(filepath.Dir(pc.Output), 0o755); err != nil {
		return fmt.Errorf("session: plot: %w", err)
	}
	p, err := plot.Counts(h, plot.WithXUnit(xunit), plot.WithPerBin(pc.PerBin), plot.WithTitle(title))
	if err != nil {
		return fmt.Errorf("session: %w", err)
	}
	return plot.Save(p, pc.Output, vg.Length(pc.Width)*vg.Inch, vg.Length(pc.Height)*vg.Inch)
}

func save(ctx context.Context, cfg config.Config, h spectrum.Histogram) (uuid.UUID, error) {
	st, err := store.Open(cfg.Store.Path)
	if err != nil {
		return uuid.Nil, fmt.Errorf("session: %w", err)
	}
	defer st.Close()

	id, err := st.Save(ctx, store.Product{
		Source:      cfg.Source.Path,
		Grouping:    Describe(cfg.Grouping),
		BkgSub:      cfg.SubtractBackground,
		UseBackscal: cfg.UseBackscal,
		Histogram:   h,
	})
	if err != nil {
		return uuid.Nil, fmt.Errorf("session: %w", err)
	}
	return id, nil
}
