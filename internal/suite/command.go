package suite

import (
	"fmt"
	"path/filepath"

	"github.com/meteoci/regress/internal/config"
)

// Cmd synthesizes the invocation argument vector for one case.
//
// The modifications overlay is serialized to modifs_<caseID>.toml inside
// the suite's test directory; that write happens exactly once per call,
// before anything else can fail. The returned vector is
//
//	["case", base, <modifs-path>, extra...]
//
// handed to the process launcher as discrete arguments. No shell is ever
// involved, so whitespace or metacharacters in paths cannot change the
// command.
func (s *Suite) Cmd(caseID string, modifs *config.Document, base string, extra []string) ([]string, error) {
	modifsPath := filepath.Join(s.TestDir, fmt.Sprintf("modifs_%s.toml", caseID))
	if err := modifs.SaveAs(modifsPath); err != nil {
		return nil, fmt.Errorf("case %s: %w", caseID, err)
	}

	cmd := make([]string, 0, 3+len(extra))
	cmd = append(cmd, "case", base, modifsPath)
	cmd = append(cmd, extra...)
	return cmd, nil
}
