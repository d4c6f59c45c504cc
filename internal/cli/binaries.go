package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/meteoci/regress/internal/binaries"
	"github.com/meteoci/regress/internal/suite"
)

// BinariesOptions holds flags for the binaries command.
type BinariesOptions struct {
	*RootOptions
	ConfigFile string
	Dry        bool
}

// NewBinariesCommand creates the binaries command.
func NewBinariesCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &BinariesOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "binaries",
		Short: "Stage model binaries for every test-matrix variant",
		Long: `Ensure the model binary archives the suite depends on are staged and
extracted. The ial.tests matrix expands into one binary target per
compiler/precision variant; each target is provisioned independently,
so one missing archive never blocks the others.

Examples:
  regress binaries -c config.toml
  regress binaries -c config.toml --dry`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBinaries(opts, cmd)
		},
	}

	cmd.Flags().StringVarP(&opts.ConfigFile, "config", "c", "", "path to the suite configuration (required)")
	cmd.Flags().BoolVarP(&opts.Dry, "dry", "d", false, "verify presence without downloading or extracting")
	_ = cmd.MarkFlagRequired("config")

	return cmd
}

func runBinaries(opts *BinariesOptions, cmd *cobra.Command) error {
	s, err := loadSuite(opts.ConfigFile)
	if err != nil {
		return err
	}

	base := provisionerFromConfig(s.Config, opts.Dry)
	if base == nil {
		return NewExitError(ExitCommandError, "configuration has no ial section")
	}

	ial, _ := s.Config.Section("ial")
	targets := suite.ExpandTests(ial)
	if len(targets) == 0 {
		// No test matrix declared: provision the base target alone.
		targets = []suite.BinaryTarget{{BinDir: base.IAL.BinDir}}
	}

	unavailable := 0
	for _, target := range targets {
		p := &binaries.Provisioner{IAL: base.IAL, Store: base.Store, DryRun: base.DryRun}
		p.IAL.BinDir = target.BinDir
		if err := p.Ensure(cmd.Context()); err != nil {
			if binaries.IsArtifactUnavailable(err) {
				fmt.Fprintf(cmd.ErrOrStderr(), "unavailable: %s (%v)\n", target.BinDir, err)
				unavailable++
				continue
			}
			return WrapExitError(ExitFailure, "provisioning failed", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "staged: %s\n", target.BinDir)
	}

	if unavailable == len(targets) {
		return NewExitError(ExitFailure, "no binary target could be provisioned")
	}
	return nil
}
