package cli

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meteoci/regress/internal/store"
	"github.com/meteoci/regress/internal/testutil"
)

// runFixture writes a runnable suite configuration plus its host table
// into a temp dir and returns the config path and the test dir.
func runFixture(t *testing.T, selection string) (string, string) {
	t.Helper()
	dir := t.TempDir()
	testDir := filepath.Join(dir, "ttr_tests")
	hosts := filepath.Join(dir, "hosts.yaml")
	require.NoError(t, os.WriteFile(hosts, []byte(`
atos:
  config_name: atos.meteo.fr
  domain_name: meteo.fr
`), 0o644))

	cfg := writeConfig(t, `
[general]
selection = `+selection+`
test_dir = "`+testDir+`"
hosts_file = "`+hosts+`"

[cases.alaro]
host = "atos"
extra = ["long"]

[cases.arome]
host = "orphan"

[cases.hostless]
`)
	return cfg, testDir
}

func testCommand() *cobra.Command {
	cmd := &cobra.Command{}
	cmd.SetContext(context.Background())
	return cmd
}

func TestRun_LaunchesRunnableCasesOnly(t *testing.T) {
	cfg, testDir := runFixture(t, `["alaro", "arome", "hostless"]`)
	launcher := &testutil.RecordingLauncher{}
	opts := &RunOptions{
		RootOptions: &RootOptions{Format: "text"},
		ConfigFile:  cfg,
		Launcher:    launcher,
	}

	require.NoError(t, runSuite(opts, testCommand()))

	calls := launcher.Calls()
	require.Len(t, calls, 1, "unresolved and hostless cases are excluded")
	assert.Equal(t, []string{"case", cfg, filepath.Join(testDir, "modifs_alaro.toml"), "long"}, calls[0])
	assert.FileExists(t, filepath.Join(testDir, "modifs_alaro.toml"))
}

func TestRun_DryLaunchesNothing(t *testing.T) {
	cfg, _ := runFixture(t, `["alaro"]`)
	launcher := &testutil.RecordingLauncher{}
	opts := &RunOptions{
		RootOptions: &RootOptions{Format: "text"},
		ConfigFile:  cfg,
		Dry:         true,
		Launcher:    launcher,
	}

	require.NoError(t, runSuite(opts, testCommand()))
	assert.Empty(t, launcher.Calls())
}

func TestRun_RecordsToLedger(t *testing.T) {
	cfg, _ := runFixture(t, `["alaro"]`)
	db := filepath.Join(t.TempDir(), "history.db")
	opts := &RunOptions{
		RootOptions: &RootOptions{Format: "text"},
		ConfigFile:  cfg,
		Database:    db,
		Launcher:    &testutil.RecordingLauncher{},
	}

	require.NoError(t, runSuite(opts, testCommand()))

	ledger, err := store.Open(db)
	require.NoError(t, err)
	defer ledger.Close()
	runs, err := ledger.Runs(context.Background())
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, "alaro", runs[0].CaseID)
	assert.Equal(t, store.StatusOK, runs[0].Status)
}

func TestRun_UnregisteredSelectionFails(t *testing.T) {
	cfg, _ := runFixture(t, `["alaro", "ghost"]`)
	opts := &RunOptions{
		RootOptions: &RootOptions{Format: "text"},
		ConfigFile:  cfg,
		Launcher:    &testutil.RecordingLauncher{},
	}

	err := runSuite(opts, testCommand())

	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
}
