package cli

import (
	"os"

	"github.com/spf13/cobra"
)

// NewRootCmd builds the coach command tree. Each call returns a fresh tree so
// flag state never leaks between invocations.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "coach",
		Short:         "Message triage and intervention service for student coaching",
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	root.AddCommand(
		newServeCmd(),
		newScanCmd(),
		newCatalogCmd(),
		newRewardCmd(),
		newStaffTokenCmd(),
		newVersionCmd(),
	)
	return root
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
