package suite

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meteoci/regress/internal/config"
)

func TestCmd(t *testing.T) {
	s := &Suite{TestDir: t.TempDir()}
	modifs := config.New(map[string]any{"general": map[string]any{"case": "case1"}})

	cmd, err := s.Cmd("case1", modifs, "B", []string{"foo.toml"})

	require.NoError(t, err)
	require.Len(t, cmd, 4)
	assert.Equal(t, "case", cmd[0])
	assert.Equal(t, "B", cmd[1])
	assert.Contains(t, cmd[2], "modifs_case1.toml")
	assert.Equal(t, "foo.toml", cmd[3])

	// The modifications file was written exactly where the vector says.
	raw, err := os.ReadFile(cmd[2])
	require.NoError(t, err)
	assert.Contains(t, string(raw), "case1")
}

func TestCmd_ExtraOrderPreserved(t *testing.T) {
	s := &Suite{TestDir: t.TempDir()}

	cmd, err := s.Cmd("c", config.New(nil), "base.toml", []string{"z.toml", "a.toml", "m.toml"})

	require.NoError(t, err)
	assert.Equal(t, []string{"z.toml", "a.toml", "m.toml"}, cmd[3:])
}

func TestCmd_NoExtras(t *testing.T) {
	s := &Suite{TestDir: t.TempDir()}

	cmd, err := s.Cmd("c", config.New(nil), "base.toml", nil)

	require.NoError(t, err)
	assert.Equal(t, []string{"case", "base.toml", filepath.Join(s.TestDir, "modifs_c.toml")}, cmd)
}

func TestCmd_UnwritableDir(t *testing.T) {
	s := &Suite{TestDir: filepath.Join(t.TempDir(), "does", "not", "exist")}

	_, err := s.Cmd("c", config.New(nil), "base.toml", nil)

	assert.Error(t, err, "the modifications write failing is attributed to the case")
}
