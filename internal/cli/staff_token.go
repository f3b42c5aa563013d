package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/yungbote/neurobridge-coach/internal/http/middleware"
	"github.com/yungbote/neurobridge-coach/internal/platform/envutil"
)

func newStaffTokenCmd() *cobra.Command {
	var ttl time.Duration
	cmd := &cobra.Command{
		Use:   "staff-token <reviewer-id>",
		Short: "Mint a staff JWT for the review API",
		Long: "Signs a staff-role token with STAFF_JWT_SECRET for use against\n" +
			"/api/staff. Intended for local development and break-glass access.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			secret := envutil.String("STAFF_JWT_SECRET", "")
			if secret == "" {
				return fmt.Errorf("STAFF_JWT_SECRET is not set")
			}
			tok, err := middleware.IssueStaffToken(secret, args[0], ttl)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), tok)
			return nil
		},
	}
	cmd.Flags().DurationVar(&ttl, "ttl", 8*time.Hour, "Token lifetime")
	return cmd
}
