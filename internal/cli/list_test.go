package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const listSuiteConfig = `
[general]
selection = ["alaro"]

[[general.subtags]]
a = ["opt1"]

[cases.alaro]
host = "atos"
extra = ["long"]

[cases.arome]
host = "atos"

[cases.hostless]
`

func writeConfig(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))
	return path
}

// execute runs the CLI with the given args and returns stdout.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	root := NewRootCommand()
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestList_TextOutput(t *testing.T) {
	cfg := writeConfig(t, listSuiteConfig)

	out, err := execute(t, "list", "-c", cfg)

	require.NoError(t, err)
	g := goldie.New(t)
	g.Assert(t, "list", []byte(out))
}

func TestList_JSONOutput(t *testing.T) {
	cfg := writeConfig(t, listSuiteConfig)

	out, err := execute(t, "list", "-c", cfg, "--format", "json")
	require.NoError(t, err)

	var payload listPayload
	require.NoError(t, json.Unmarshal([]byte(out), &payload))
	assert.Equal(t, []string{"alaro", "aalaro"}, payload.Selection)
	assert.Equal(t, "atos", payload.Cases["alaro"].Host)
	assert.Equal(t, "a", payload.Cases["aalaro"].Subtag)
	assert.Equal(t, []string{"long", "opt1"}, payload.Cases["aalaro"].Extra)
	assert.Contains(t, payload.Cases, "hostless")
}

func TestList_MissingConfig(t *testing.T) {
	_, err := execute(t, "list", "-c", filepath.Join(t.TempDir(), "absent.toml"))

	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestRoot_RejectsUnknownFormat(t *testing.T) {
	cfg := writeConfig(t, listSuiteConfig)

	_, err := execute(t, "list", "-c", cfg, "--format", "yaml")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid format")
}
