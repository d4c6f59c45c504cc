package cli

import (
	"bytes"
	"encoding/json"

	"github.com/spf13/cobra"
)

// ListOptions holds flags for the list command.
type ListOptions struct {
	*RootOptions
	ConfigFile string
}

// listPayload is the JSON shape of the list output.
type listPayload struct {
	Version   string              `json:"version,omitempty"`
	Cases     map[string]listCase `json:"cases"`
	Selection []string            `json:"selection"`
}

type listCase struct {
	Host   string   `json:"host,omitempty"`
	Subtag string   `json:"subtag,omitempty"`
	Extra  []string `json:"extra,omitempty"`
}

// NewListCommand creates the list command.
func NewListCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ListOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List registered cases and the resolved selection",
		Long: `List the case registry after selection resolution.

Subtag expansions are shown as synthesized cases alongside their base
cases. The selection is the concrete run plan.

Example:
  regress list -c config.toml
  regress list -c config.toml --format json`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runList(opts, cmd)
		},
	}

	cmd.Flags().StringVarP(&opts.ConfigFile, "config", "c", "", "path to the suite configuration (required)")
	_ = cmd.MarkFlagRequired("config")

	return cmd
}

func runList(opts *ListOptions, cmd *cobra.Command) error {
	s, err := loadSuite(opts.ConfigFile)
	if err != nil {
		return err
	}

	if opts.Format == "json" {
		payload := listPayload{
			Version:   s.Version,
			Cases:     map[string]listCase{},
			Selection: s.Selection,
		}
		for _, id := range s.Registry.IDs() {
			c, _ := s.Registry.Get(id)
			payload.Cases[id] = listCase{Host: c.Host, Subtag: c.Subtag, Extra: c.Extra}
		}
		return json.NewEncoder(cmd.OutOrStdout()).Encode(payload)
	}

	var buf bytes.Buffer
	s.List(&buf)
	_, err = cmd.OutOrStdout().Write(buf.Bytes())
	return err
}
