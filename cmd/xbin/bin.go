package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/cwbudde/algo-xspec/internal/config"
	"github.com/cwbudde/algo-xspec/internal/session"
	countstats "github.com/cwbudde/algo-xspec/stats/counts"
	"github.com/cwbudde/algo-xspec/xray/spectrum"
)

// binFlags are the flags shared by the counts and plot commands.
type binFlags struct {
	format      string
	hdu         int
	background  string
	bkgHDU      int
	telescope   string
	min, max    float64
	unit        string
	group       string
	value       float64
	bkgsub      bool
	usebackscal bool
	store       string
}

func (f *binFlags) register(fs *pflag.FlagSet) {
	fs.StringVar(&f.format, "format", "chandra_hetg", "source format: chandra_hetg or generic")
	fs.IntVar(&f.hdu, "hdu", 1, "index of the spectrum table extension")
	fs.StringVar(&f.background, "background", "", "background spectrum file")
	fs.IntVar(&f.bkgHDU, "background-hdu", 1, "index of the background table extension")
	fs.StringVar(&f.telescope, "telescope", "HETG", "background layout: HETG, ACIS or other")
	fs.Float64Var(&f.min, "min", 0, "lower notice bound")
	fs.Float64Var(&f.max, "max", 0, "upper notice bound")
	fs.StringVar(&f.unit, "unit", "keV", "unit of the notice bounds")
	fs.StringVar(&f.group, "group", config.PolicyNone, "grouping policy: none, channels or mincounts")
	fs.Float64Var(&f.value, "value", 0, "grouping factor or minimum counts")
	fs.BoolVar(&f.bkgsub, "bkgsub", false, "subtract the background")
	fs.BoolVar(&f.usebackscal, "backscal", true, "scale the background by its backscal")
	fs.StringVar(&f.store, "store", "", "save the binned product to this database")
}

// config maps the flags onto a session. The notice range is only set when
// --min or --max was given.
func (f *binFlags) config(fs *pflag.FlagSet, source string) (config.Config, error) {
	cfg := config.Default()
	cfg.Source = config.Source{Path: source, Format: f.format, HDU: f.hdu}
	if f.background != "" {
		cfg.Background = &config.Background{Path: f.background, Telescope: f.telescope, HDU: f.bkgHDU}
	}
	if fs.Changed("min") || fs.Changed("max") {
		cfg.Notice = &config.Notice{Min: f.min, Max: f.max, Unit: f.unit}
	}
	cfg.Grouping = config.Grouping{Policy: f.group, Value: f.value}
	cfg.SubtractBackground = f.bkgsub
	cfg.UseBackscal = f.usebackscal
	cfg.Store.Path = f.store
	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}

func newCountsCmd(a *app) *cobra.Command {
	var f binFlags
	cmd := &cobra.Command{
		Use:   "counts <spectrum>",
		Short: "Print the binned counts of a spectrum",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := f.config(cmd.Flags(), args[0])
			if err != nil {
				return err
			}
			res, err := session.Run(cmd.Context(), cfg, a.logger)
			if err != nil {
				return err
			}
			return printCounts(cmd.OutOrStdout(), res.Histogram, res.Stats)
		},
	}
	f.register(cmd.Flags())
	return cmd
}

func newRunCmd(a *app) *cobra.Command {
	var path string
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run a binning session file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.LoadFile(path)
			if err != nil {
				return err
			}
			res, err := session.Run(cmd.Context(), cfg, a.logger)
			if err != nil {
				return err
			}
			return printSummary(cmd.OutOrStdout(), res)
		},
	}
	cmd.Flags().StringVarP(&path, "config", "c", "session.yaml", "session file")
	return cmd
}

func printCounts(w io.Writer, h spectrum.Histogram, s countstats.Stats) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintf(tw, "Bin\tLo [%s]\tHi [%s]\tCounts\tError\t\n", h.Unit, h.Unit)
	for i := range h.Len() {
		fmt.Fprintf(tw, "%d\t%.6g\t%.6g\t%.6g\t%.4g\t\n", i, h.BinLo[i], h.BinHi[i], h.Counts[i], h.Err[i])
	}
	if err := tw.Flush(); err != nil {
		return fmt.Errorf("writing table: %w", err)
	}
	_, err := fmt.Fprintf(w, "\n%d bins, %.6g counts, S/N %.3g, centroid %.4g %s\n",
		s.BinCount, s.Sum, s.SNR, s.Centroid, h.Unit)
	return err
}

func printSummary(w io.Writer, res session.Result) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "Channels\t%d\n", res.Channels)
	fmt.Fprintf(tw, "Noticed\t%d\n", res.Noticed)
	fmt.Fprintf(tw, "Grouping\t%s\n", res.Grouping)
	fmt.Fprintf(tw, "Bins\t%d\n", res.Stats.BinCount)
	fmt.Fprintf(tw, "Counts\t%.6g\n", res.Stats.Sum)
	fmt.Fprintf(tw, "S/N\t%.3g\n", res.Stats.SNR)
	fmt.Fprintf(tw, "Centroid\t%.4g %s\n", res.Stats.Centroid, res.Histogram.Unit)
	fmt.Fprintf(tw, "Median\t%.4g %s\n", res.Stats.Median, res.Histogram.Unit)
	if res.PlotPath != "" {
		fmt.Fprintf(tw, "Plot\t%s\n", res.PlotPath)
	}
	if res.ProductID != uuid.Nil {
		fmt.Fprintf(tw, "Product\t%s\n", res.ProductID)
	}
	if err := tw.Flush(); err != nil {
		return fmt.Errorf("writing summary: %w", err)
	}
	return nil
}
