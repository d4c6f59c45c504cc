package suite

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/meteoci/regress/internal/binaries"
	"github.com/meteoci/regress/internal/config"
	"github.com/meteoci/regress/internal/store"
)

// Default locations relative to the invocation directory.
const (
	defaultConfigsDir = "x_configs"
	defaultTestDir    = "ttr_tests"
)

// Suite owns one run of the regression suite: the resolved case registry
// and selection, the working directories, and the collaborators that
// launch the model program, stage binaries and record history.
type Suite struct {
	Registry  *Registry
	Selection []string

	// TestDir is the working directory for this run, qualified with the
	// model version tag when one could be derived.
	TestDir string

	// ConfigsDir is where the model program renders base configurations.
	ConfigsDir string

	// Version is the model version tag ("tag_v1.2.3", "branch_dev", ...).
	Version string

	// BaseConfigs maps a rendered configuration name to its file path,
	// filled by Configure.
	BaseConfigs map[string]string

	Config      *config.Document
	Launcher    Launcher
	Provisioner *binaries.Provisioner
	Ledger      *store.Store
}

// FromConfig builds a suite from a validated configuration document:
// registers the static case table, resolves selection with subtag
// expansion, and derives the version-qualified working directory.
//
// Resolution mutates the registry before anything else reads it; callers
// get the suite back only after resolution has fully completed.
func FromConfig(doc *config.Document) (*Suite, error) {
	casesSection, ok := doc.Section("cases")
	if !ok {
		return nil, config.NewMissingKeyError("cases")
	}
	registry, err := RegistryFromConfig(casesSection)
	if err != nil {
		return nil, err
	}

	selection := ResolveSelection(Definitions{
		Selection: doc.GetStringSlice("general.selection"),
		Subtags:   parseSubtags(doc),
		Cases:     registry,
	})

	configsDir := doc.GetString("general.configs_dir")
	if configsDir == "" {
		configsDir = defaultConfigsDir
	}

	s := &Suite{
		Registry:   registry,
		Selection:  selection,
		ConfigsDir: configsDir,
		Config:     doc,
	}

	if depFile := doc.GetString("general.dependency_file"); depFile != "" {
		version, err := ModelVersion(depFile)
		if err != nil {
			slog.Warn("could not derive model version", "file", depFile, "error", err)
		} else {
			s.Version = version
		}
	}

	testDir := doc.GetString("general.test_dir")
	if testDir == "" {
		testDir = defaultTestDir
	}
	if s.Version != "" {
		testDir = fmt.Sprintf("%s_%s", testDir, s.Version)
	}
	s.TestDir = testDir

	return s, nil
}

// parseSubtags reads general.subtags, preserving declaration order.
// TOML arrays of tables decode as []map[string]any, in-memory overlays
// may carry []any; both shapes are accepted.
func parseSubtags(doc *config.Document) []map[string][]string {
	raw, ok := doc.Get("general.subtags")
	if !ok {
		return nil
	}
	var entries []map[string]any
	switch items := raw.(type) {
	case []map[string]any:
		entries = items
	case []any:
		for _, item := range items {
			if entry, ok := item.(map[string]any); ok {
				entries = append(entries, entry)
			}
		}
	default:
		return nil
	}
	var out []map[string][]string
	for _, entry := range entries {
		rule := make(map[string][]string, len(entry))
		for name, overlays := range entry {
			rule[name] = toStringSlice(overlays)
		}
		out = append(out, rule)
	}
	return out
}

// List renders the registry and the resolved selection.
func (s *Suite) List(w io.Writer) {
	fmt.Fprintf(w, "Model version: %s\n", orDash(s.Version))
	fmt.Fprintln(w, "Registered cases:")
	for _, id := range s.Registry.IDs() {
		c, _ := s.Registry.Get(id)
		fmt.Fprintf(w, "  %-20s host=%-12s subtag=%-8s extra=%s\n",
			id, orDash(c.Host), orDash(c.Subtag), formatExtra(c.Extra))
	}
	fmt.Fprintln(w, "Selection:")
	for _, id := range s.Selection {
		fmt.Fprintf(w, "  %s\n", id)
	}
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func formatExtra(extra []string) string {
	if len(extra) == 0 {
		return "[]"
	}
	return "[" + strings.Join(extra, ",") + "]"
}

// Create invokes the external model program to render per-host base
// configurations into the configs directory.
func (s *Suite) Create(ctx context.Context) error {
	if err := os.MkdirAll(s.ConfigsDir, 0o755); err != nil {
		return fmt.Errorf("create configs dir: %w", err)
	}
	if err := s.Launcher.Launch(ctx, []string{"configurations", s.ConfigsDir}); err != nil {
		return fmt.Errorf("render base configurations: %w", err)
	}
	return nil
}

// Configure reads back the rendered base configurations, indexing them by
// domain name. Unreadable files are logged and skipped.
func (s *Suite) Configure() error {
	matches, err := filepath.Glob(filepath.Join(s.ConfigsDir, "*.toml"))
	if err != nil {
		return fmt.Errorf("scan configs dir: %w", err)
	}
	s.BaseConfigs = map[string]string{}
	for _, path := range matches {
		doc, err := config.Load(path)
		if err != nil {
			slog.Warn("skipping unreadable base configuration", "file", path, "error", err)
			continue
		}
		name := doc.GetString("domain.name")
		if name == "" {
			slog.Warn("base configuration has no domain name", "file", path)
			continue
		}
		s.BaseConfigs[name] = path
	}
	if len(s.BaseConfigs) == 0 {
		slog.Warn("no base configurations found", "dir", s.ConfigsDir)
	}
	return nil
}

// Run launches every runnable selected case.
//
// Prepare runs first as the pre-flight: a selection entry with no
// registry record propagates as a CaseNotFoundError before any case is
// launched or any directory is created. Cases without a host or with an
// unresolved host are skipped with a log line. When binary provisioning
// fails with ArtifactUnavailable, the binary-dependent cases are skipped
// but the run itself continues and completes. A launch failure is
// contained to its case.
func (s *Suite) Run(ctx context.Context, dryRun bool) error {
	if _, err := s.Prepare(); err != nil {
		return err
	}

	if err := os.MkdirAll(s.TestDir, 0o755); err != nil {
		return fmt.Errorf("create test dir: %w", err)
	}

	binariesReady := true
	if s.Provisioner != nil {
		if err := s.Provisioner.Ensure(ctx); err != nil {
			if !binaries.IsArtifactUnavailable(err) {
				return err
			}
			slog.Warn("binaries unavailable, dependent cases will be skipped", "error", err)
			binariesReady = false
		}
	}

	for _, id := range s.Selection {
		// Every ID passed the Prepare pre-flight above.
		c, _ := s.Registry.Get(id)
		if c.Host == "" {
			slog.Info("case has no host, not runnable", "case", id)
			continue
		}
		if c.Hostname == "" {
			slog.Warn("case host unresolved, excluded", "case", id, "host", c.Host)
			continue
		}
		if s.Provisioner != nil && !binariesReady {
			slog.Warn("case skipped, binaries unavailable", "case", id)
			s.record(ctx, id, c, nil, store.StatusSkipped)
			continue
		}

		argv, err := s.Cmd(id, s.modifications(id, c), s.baseFor(c), c.Extra)
		if err != nil {
			slog.Error("could not synthesize command", "case", id, "error", err)
			s.record(ctx, id, c, nil, store.StatusFailed)
			continue
		}

		if dryRun {
			slog.Info("would launch", "case", id, "cmd", strings.Join(argv, " "))
			s.record(ctx, id, c, argv, store.StatusDryRun)
			continue
		}

		slog.Info("launching case", "case", id, "host", c.Hostname)
		if err := s.Launcher.Launch(ctx, argv); err != nil {
			slog.Error("case failed", "case", id, "error", err)
			s.record(ctx, id, c, argv, store.StatusFailed)
			continue
		}
		s.record(ctx, id, c, argv, store.StatusOK)
	}
	return nil
}

// modifications builds the per-case overlay document serialized next to
// the invocation.
func (s *Suite) modifications(id string, c *Case) *config.Document {
	general := map[string]any{"case": id}
	if c.Subtag != "" {
		general["subtag"] = c.Subtag
	}
	return config.New(map[string]any{
		"general": general,
		"host": map[string]any{
			"name":   c.Hostname,
			"domain": c.Hostdomain,
		},
	})
}

// baseFor picks the base configuration reference for a case: the rendered
// per-host configuration when one exists, else the suite's own document.
func (s *Suite) baseFor(c *Case) string {
	if path, ok := s.BaseConfigs[c.Hostname]; ok {
		return path
	}
	return s.Config.Path()
}

func (s *Suite) record(ctx context.Context, id string, c *Case, argv []string, status string) {
	if s.Ledger == nil {
		return
	}
	if argv == nil {
		argv = []string{}
	}
	if _, err := s.Ledger.RecordRun(ctx, id, c.Host, argv, status); err != nil {
		slog.Warn("failed to record run", "case", id, "error", err)
	}
}
