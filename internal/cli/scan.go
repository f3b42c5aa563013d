package cli

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/yungbote/neurobridge-coach/internal/agefilter"
	"github.com/yungbote/neurobridge-coach/internal/barriers"
	"github.com/yungbote/neurobridge-coach/internal/catalog"
	"github.com/yungbote/neurobridge-coach/internal/domain/coach"
	"github.com/yungbote/neurobridge-coach/internal/intervention"
	"github.com/yungbote/neurobridge-coach/internal/safeguarding"
	"github.com/yungbote/neurobridge-coach/internal/services"
)

type scanOptions struct {
	age         int
	catalogPath string
	neglect     bool
}

// scanReport is the offline triage of a single message. Nothing is persisted
// and no one is notified.
type scanReport struct {
	Safeguarding safeguarding.Result      `json:"safeguarding"`
	Threshold    int                      `json:"threshold"`
	Barriers     []scanBarrier            `json:"barriers"`
	Intervention *coach.InterventionLever `json:"intervention,omitempty"`
	Reply        string                   `json:"reply"`
	OffenseRisks []string                 `json:"offense_risks,omitempty"`
	TrustedAdult string                   `json:"trusted_adult,omitempty"`
}

type scanBarrier struct {
	ID         string  `json:"id"`
	Name       string  `json:"name"`
	Confidence float64 `json:"confidence"`
}

func newScanCmd() *cobra.Command {
	opts := &scanOptions{}
	cmd := &cobra.Command{
		Use:   "scan <message>",
		Short: "Triage a message offline and print the result as JSON",
		Long: "Runs the safeguarding scan, barrier detection and intervention\n" +
			"selection for one message without touching the database.\n" +
			"Useful for tuning the barrier catalog.",
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScan(cmd, opts, strings.Join(args, " "))
		},
	}
	cmd.Flags().IntVar(&opts.age, "age", 12, "Student age (3-25)")
	cmd.Flags().StringVar(&opts.catalogPath, "catalog", "", "Path to a barrier catalog YAML (default: embedded)")
	cmd.Flags().BoolVar(&opts.neglect, "neglect", false, "Enable the neglect detector")
	return cmd
}

func runScan(cmd *cobra.Command, opts *scanOptions, message string) error {
	sctx := &coach.StudentContext{Age: opts.age}
	if err := sctx.Validate(); err != nil {
		return err
	}
	cat, err := catalog.Load(opts.catalogPath)
	if err != nil {
		return err
	}
	adjuster, err := agefilter.NewDefault()
	if err != nil {
		return err
	}
	var scanOpts []safeguarding.Option
	if opts.neglect {
		scanOpts = append(scanOpts, safeguarding.WithNeglectDetector())
	}

	report := scanReport{
		Safeguarding: safeguarding.NewScanner(scanOpts...).Scan(message, opts.age),
		Threshold:    safeguarding.AgeThreshold(opts.age),
		Barriers:     []scanBarrier{},
	}
	if report.Safeguarding.Detected {
		report.TrustedAdult = adjuster.SafeguardingResponse(opts.age)
	}
	if report.Safeguarding.Severity >= safeguarding.ShortCircuitSeverity {
		report.Reply = safeguarding.ResponseFor(report.Safeguarding.Severity)
		return writeJSON(cmd, report)
	}

	ranked := barriers.NewDetector(cat).Detect(message, sctx)
	for _, d := range ranked {
		report.Barriers = append(report.Barriers, scanBarrier{ID: d.Barrier.ID, Name: d.Barrier.Name, Confidence: d.Confidence})
	}
	report.Intervention = intervention.NewSelector().Select(ranked, sctx)
	reply := intervention.OpeningLine(report.Intervention)
	if reply == "" {
		reply = services.GenericPrompt
	}
	report.Reply = adjuster.AdjustLanguage(reply, opts.age)
	report.OffenseRisks = adjuster.OffenseRisks(report.Reply, opts.age)
	return writeJSON(cmd, report)
}

func writeJSON(cmd *cobra.Command, v any) error {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encode output: %w", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(out))
	return nil
}
