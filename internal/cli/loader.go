package cli

import (
	"log/slog"
	"os"

	"github.com/meteoci/regress/internal/binaries"
	"github.com/meteoci/regress/internal/config"
	"github.com/meteoci/regress/internal/suite"
)

// defaultHostsFile is consulted when general.hosts_file is not set.
const defaultHostsFile = "hosts.yaml"

// loadSuite loads and validates the configuration document, builds the
// suite (resolving selection and subtag expansion), and annotates cases
// with host metadata. Host-resolution misses are warnings: those cases
// stay registered but are excluded from the runnable set.
func loadSuite(configPath string) (*suite.Suite, error) {
	doc, err := config.Load(configPath)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "failed to load configuration", err)
	}
	if err := doc.Validate(); err != nil {
		return nil, WrapExitError(ExitCommandError, "invalid configuration", err)
	}

	s, err := suite.FromConfig(doc)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "failed to build suite", err)
	}

	hostsFile := doc.GetString("general.hosts_file")
	if hostsFile == "" {
		hostsFile = defaultHostsFile
	}
	if _, err := os.Stat(hostsFile); err == nil {
		table, err := suite.LoadHostTable(hostsFile)
		if err != nil {
			return nil, WrapExitError(ExitCommandError, "failed to load host table", err)
		}
		for _, miss := range s.UpdateHostnames(table) {
			slog.Warn("host unresolved, case excluded", "case", miss.CaseID, "host", miss.Host)
		}
	} else {
		slog.Debug("no host table found", "file", hostsFile)
	}

	return s, nil
}

// provisionerFromConfig binds a binary provisioner from the ial section,
// or nil when the suite has no binary dependency declared.
func provisionerFromConfig(doc *config.Document, dryRun bool) *binaries.Provisioner {
	ial, ok := doc.Section("ial")
	if !ok {
		return nil
	}
	p := &binaries.Provisioner{
		IAL: binaries.IAL{
			Hash:         stringOr(ial, "ial_hash"),
			BinDir:       stringOr(ial, "bindir"),
			BuildTarPath: stringOr(ial, "build_tar_path"),
		},
		DryRun: dryRun,
	}
	if base := stringOr(ial, "artifact_store"); base != "" {
		p.Store = binaries.NewHTTPStore(base)
	}
	return p
}

func stringOr(m map[string]any, key string) string {
	s, _ := m[key].(string)
	return s
}
