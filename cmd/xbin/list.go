package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/cwbudde/algo-xspec/internal/store"
)

func newListCmd(a *app) *cobra.Command {
	var path string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List stored binned products",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			st, err := store.Open(path)
			if err != nil {
				return err
			}
			defer st.Close()

			products, err := st.List(cmd.Context())
			if err != nil {
				return err
			}
			a.logger.Debug("listed products", zap.String("db", path), zap.Int("count", len(products)))

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintf(tw, "ID\tSource\tGrouping\tBkgSub\tBins\tUnit\tCreated\n")
			for _, p := range products {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%t\t%d\t%s\t%s\n",
					p.ID, p.Source, p.Grouping, p.BkgSub, p.Bins, p.Unit, p.CreatedAt.Format("2006-01-02 15:04:05"))
			}
			return tw.Flush()
		},
	}
	cmd.Flags().StringVar(&path, "store", "products.db", "product database")
	return cmd
}
