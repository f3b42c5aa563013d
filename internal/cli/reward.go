package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/yungbote/neurobridge-coach/internal/rewards"
)

func newRewardCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "reward",
		Short: "Issue or check play-break reward codes",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "issue",
			Short: "Print a fresh reward code",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				code, _ := rewards.NewIssuer().Issue()
				fmt.Fprintln(cmd.OutOrStdout(), code)
				return nil
			},
		},
		&cobra.Command{
			Use:   "validate <code>",
			Short: "Check a reward code's format and freshness",
			Long:  "Exit code 0 if the code is valid, 1 otherwise. The reward ledger is not consulted.",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				if !rewards.NewIssuer().Validate(args[0]) {
					return fmt.Errorf("invalid or expired reward code")
				}
				fmt.Fprintln(cmd.OutOrStdout(), "valid")
				return nil
			},
		},
	)
	return cmd
}
