package cli

import (
	"errors"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/meteoci/regress/internal/store"
	"github.com/meteoci/regress/internal/suite"
)

// RunOptions holds flags for the run command.
type RunOptions struct {
	*RootOptions
	ConfigFile string
	Database   string
	Dry        bool
	Program    string

	// Launcher allows overriding the process launcher (for testing).
	// If nil, an ExecLauncher for --program is used.
	Launcher suite.Launcher
}

// NewRunCommand creates the run command.
func NewRunCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &RunOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Resolve the selection and launch every runnable case",
		Long: `Resolve the case selection, stage model binaries when the suite
declares a binary dependency, and launch one model invocation per
runnable case.

Cases without a host, or whose host cannot be resolved, are excluded
with a warning. A selection entry naming an unregistered case aborts
the run.

Examples:
  regress run -c config.toml
  regress run -c config.toml --dry
  regress run -c config.toml --db history.db`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSuite(opts, cmd)
		},
	}

	cmd.Flags().StringVarP(&opts.ConfigFile, "config", "c", "", "path to the suite configuration (required)")
	cmd.Flags().StringVar(&opts.Database, "db", "", "path to the run ledger database (optional)")
	cmd.Flags().BoolVarP(&opts.Dry, "dry", "d", false, "print commands without launching")
	cmd.Flags().StringVar(&opts.Program, "program", "tactus", "model-execution program")
	_ = cmd.MarkFlagRequired("config")

	return cmd
}

func runSuite(opts *RunOptions, cmd *cobra.Command) error {
	s, err := loadSuite(opts.ConfigFile)
	if err != nil {
		return err
	}

	s.Provisioner = provisionerFromConfig(s.Config, opts.Dry)
	s.Launcher = opts.Launcher
	if s.Launcher == nil {
		s.Launcher = &suite.ExecLauncher{Program: opts.Program, Stdout: os.Stdout, Stderr: os.Stderr}
	}

	if opts.Database != "" {
		ledger, err := store.Open(opts.Database)
		if err != nil {
			return WrapExitError(ExitCommandError, "failed to open run ledger", err)
		}
		defer ledger.Close()
		s.Ledger = ledger
	}

	if err := s.Configure(); err != nil {
		return WrapExitError(ExitCommandError, "failed to read base configurations", err)
	}

	slog.Info("running suite", "cases", len(s.Selection), "dry", opts.Dry)
	if err := s.Run(cmd.Context(), opts.Dry); err != nil {
		var notFound *suite.CaseNotFoundError
		if errors.As(err, &notFound) {
			return WrapExitError(ExitFailure, "selection references unregistered case", err)
		}
		return WrapExitError(ExitFailure, "run failed", err)
	}
	return nil
}
