package cli

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/meteoci/regress/internal/cleaning"
	"github.com/meteoci/regress/internal/store"
)

// CleanOptions holds flags for the clean command.
type CleanOptions struct {
	*RootOptions
	ConfigFile string
	RulesFile  string
	Database   string
	Dry        bool
}

// NewCleanCommand creates the clean command.
func NewCleanCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &CleanOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "clean [files...]",
		Short: "Apply cleaning rules to generated test output",
		Long: `Apply the cleaning rules to every discovered per-case output
configuration file, then ask the workflow scheduler to remove the
corresponding suites.

With no file arguments the per-case configurations are discovered under
the suite's test directory. Dry-run reports what would be removed and
never contacts the scheduler. Scheduler removal is best-effort: an
unavailable backend degrades to a warning, local cleanup stands.

Examples:
  regress clean -c config.toml --dry
  regress clean -c config.toml --rules config_files/cleaning.toml
  regress clean -c config.toml ttr_tests/case1/config.toml`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runClean(opts, args, cmd)
		},
	}

	cmd.Flags().StringVarP(&opts.ConfigFile, "config", "c", "", "path to the suite configuration (required)")
	cmd.Flags().StringVar(&opts.RulesFile, "rules", "config_files/cleaning.toml", "path to the cleaning-rule document")
	cmd.Flags().StringVar(&opts.Database, "db", "", "path to the run ledger database (optional)")
	cmd.Flags().BoolVarP(&opts.Dry, "dry", "d", false, "report removals without applying them")
	_ = cmd.MarkFlagRequired("config")

	return cmd
}

func runClean(opts *CleanOptions, files []string, cmd *cobra.Command) error {
	s, err := loadSuite(opts.ConfigFile)
	if err != nil {
		return err
	}

	if len(files) == 0 {
		files, err = filepath.Glob(filepath.Join(s.TestDir, "*", "config.toml"))
		if err != nil {
			return WrapExitError(ExitCommandError, "failed to discover case configurations", err)
		}
	}

	engine := &cleaning.Engine{RulesPath: opts.RulesFile}
	if opts.Database != "" {
		ledger, err := store.Open(opts.Database)
		if err != nil {
			return WrapExitError(ExitCommandError, "failed to open run ledger", err)
		}
		defer ledger.Close()
		engine.Ledger = ledger
	}

	processed, err := engine.Remove(cmd.Context(), files, opts.Dry)
	if err != nil {
		return WrapExitError(ExitCommandError, "cleaning failed", err)
	}
	if !processed {
		fmt.Fprintln(cmd.OutOrStdout(), "nothing to clean")
	}
	return nil
}
