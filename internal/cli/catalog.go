package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/yungbote/neurobridge-coach/internal/catalog"
)

func newCatalogCmd() *cobra.Command {
	var (
		path   string
		format string
	)
	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "List the barrier catalog",
		Long:  "Loads and validates a barrier catalog, then lists its barriers.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cat, err := catalog.Load(path)
			if err != nil {
				return err
			}
			all := cat.All()
			if format == "json" {
				return writeJSON(cmd, all)
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tNAME\tCATEGORY\tLEVERS")
			for _, b := range all {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%d\n", b.ID, b.Name, b.Category, len(b.EffectiveLevers))
			}
			return tw.Flush()
		},
	}
	cmd.Flags().StringVar(&path, "catalog", "", "Path to a barrier catalog YAML (default: embedded)")
	cmd.Flags().StringVarP(&format, "format", "f", "text", "Output format (text|json)")
	return cmd
}
