package main

import (
	"github.com/spf13/cobra"

	"github.com/cwbudde/algo-xspec/internal/config"
	"github.com/cwbudde/algo-xspec/internal/session"
)

func newPlotCmd(a *app) *cobra.Command {
	var (
		f binFlags
		p = config.DefaultPlot()
	)
	cmd := &cobra.Command{
		Use:   "plot <spectrum>",
		Short: "Plot the binned counts of a spectrum",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := f.config(cmd.Flags(), args[0])
			if err != nil {
				return err
			}
			pc := p
			cfg.Plot = &pc
			if err := cfg.Validate(); err != nil {
				return err
			}
			res, err := session.Run(cmd.Context(), cfg, a.logger)
			if err != nil {
				return err
			}
			cmd.Printf("wrote %s (%d bins)\n", res.PlotPath, res.Histogram.Len())
			return nil
		},
	}
	f.register(cmd.Flags())
	cmd.Flags().StringVarP(&p.Output, "output", "o", "counts.png", "output file; the extension selects the format")
	cmd.Flags().StringVar(&p.XUnit, "xunit", p.XUnit, "x-axis unit: keV or Angstrom")
	cmd.Flags().BoolVar(&p.PerBin, "per-bin", p.PerBin, "plot counts per bin instead of per unit of x")
	cmd.Flags().StringVar(&p.Title, "title", "", "plot title (default: file name)")
	cmd.Flags().Float64Var(&p.Width, "width", p.Width, "width in inches")
	cmd.Flags().Float64Var(&p.Height, "height", p.Height, "height in inches")
	return cmd
}
