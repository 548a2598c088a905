package main

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/cwbudde/algo-xspec/internal/logging"
)

var version = "dev"

// app carries the state shared by all subcommands.
type app struct {
	verbose bool
	logMode string
	logger  *zap.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{logger: zap.NewNop()}

	root := &cobra.Command{
		Use:           "xbin",
		Short:         "Group and bin X-ray count spectra",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			l, err := logging.New(a.logMode, a.verbose)
			if err != nil {
				return err
			}
			a.logger = l
			return nil
		},
		PersistentPostRun: func(_ *cobra.Command, _ []string) {
			logging.Sync(a.logger)
		},
	}
	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "enable debug logging")
	root.PersistentFlags().StringVar(&a.logMode, "log-mode", logging.ModeDevelopment, "log format: development, production or nop")

	root.AddCommand(
		newRunCmd(a),
		newCountsCmd(a),
		newPlotCmd(a),
		newListCmd(a),
		newVersionCmd(),
	)
	return root
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version number",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			cmd.Printf("xbin version %s\n", version)
		},
	}
}
