package cli

import (
	"github.com/spf13/cobra"

	"github.com/yungbote/neurobridge-coach/internal/app"
)

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return writeJSON(cmd, map[string]string{
				"name":    app.ServiceName,
				"version": app.Version,
			})
		},
	}
}
