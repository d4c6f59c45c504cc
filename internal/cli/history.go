package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/meteoci/regress/internal/store"
)

// HistoryOptions holds flags for the history command.
type HistoryOptions struct {
	*RootOptions
	Database  string
	Cleanings bool
}

// NewHistoryCommand creates the history command.
func NewHistoryCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &HistoryOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show the run ledger",
		Long: `Show recorded case runs (or cleaning applications with --cleanings)
from the ledger database, in logical-clock order.

Examples:
  regress history --db history.db
  regress history --db history.db --cleanings
  regress history --db history.db --format json`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHistory(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to the run ledger database (required)")
	cmd.Flags().BoolVar(&opts.Cleanings, "cleanings", false, "show cleaning records instead of runs")
	_ = cmd.MarkFlagRequired("db")

	return cmd
}

func runHistory(opts *HistoryOptions, cmd *cobra.Command) error {
	if _, err := os.Stat(opts.Database); err != nil {
		return WrapExitError(ExitCommandError, "ledger database not found", err)
	}
	ledger, err := store.Open(opts.Database)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to open run ledger", err)
	}
	defer ledger.Close()

	out := cmd.OutOrStdout()

	if opts.Cleanings {
		recs, err := ledger.Cleanings(cmd.Context())
		if err != nil {
			return WrapExitError(ExitCommandError, "failed to read ledger", err)
		}
		if opts.Format == "json" {
			return json.NewEncoder(out).Encode(recs)
		}
		for _, rec := range recs {
			fmt.Fprintf(out, "%6d  %-20s rule=%-12s dry_run=%v\n", rec.Seq, rec.CaseID, rec.Rule, rec.DryRun)
		}
		return nil
	}

	recs, err := ledger.Runs(cmd.Context())
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to read ledger", err)
	}
	if opts.Format == "json" {
		return json.NewEncoder(out).Encode(recs)
	}
	for _, rec := range recs {
		fmt.Fprintf(out, "%6d  %-20s host=%-12s status=%-8s %s\n",
			rec.Seq, rec.CaseID, rec.Host, rec.Status, strings.Join(rec.Argv, " "))
	}
	return nil
}
