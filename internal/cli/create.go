package cli

import (
	"fmt"
	"os"
	"sort"

	"github.com/spf13/cobra"

	"github.com/meteoci/regress/internal/suite"
)

// CreateOptions holds flags for the create command.
type CreateOptions struct {
	*RootOptions
	ConfigFile string
	Program    string

	// Launcher allows overriding the process launcher (for testing).
	Launcher suite.Launcher
}

// NewCreateCommand creates the create command.
func NewCreateCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &CreateOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Render base configurations via the model program",
		Long: `Invoke the external model-execution program to render per-host base
configurations into the configs directory, then read them back to index
them by domain name.

Example:
  regress create -c config.toml`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCreate(opts, cmd)
		},
	}

	cmd.Flags().StringVarP(&opts.ConfigFile, "config", "c", "", "path to the suite configuration (required)")
	cmd.Flags().StringVar(&opts.Program, "program", "tactus", "model-execution program")
	_ = cmd.MarkFlagRequired("config")

	return cmd
}

func runCreate(opts *CreateOptions, cmd *cobra.Command) error {
	s, err := loadSuite(opts.ConfigFile)
	if err != nil {
		return err
	}

	s.Launcher = opts.Launcher
	if s.Launcher == nil {
		s.Launcher = &suite.ExecLauncher{Program: opts.Program, Stdout: os.Stdout, Stderr: os.Stderr}
	}

	if err := s.Create(cmd.Context()); err != nil {
		return WrapExitError(ExitFailure, "failed to render base configurations", err)
	}
	if err := s.Configure(); err != nil {
		return WrapExitError(ExitCommandError, "failed to read base configurations", err)
	}

	names := make([]string, 0, len(s.BaseConfigs))
	for name := range s.BaseConfigs {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", name, s.BaseConfigs[name])
	}
	return nil
}
