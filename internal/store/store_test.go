package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meteoci/regress/internal/testutil"
)

func openTestStore(t *testing.T, path string) *Store {
	t.Helper()
	s, err := Open(path, WithIDGenerator(testutil.NewSequentialIDGenerator("id")))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestOpen_Idempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ledger.db")

	s1 := openTestStore(t, path)
	require.NoError(t, s1.Close())

	s2 := openTestStore(t, path)
	require.NoError(t, s2.Close())
}

func TestRecordRun_RoundTrip(t *testing.T) {
	s := openTestStore(t, filepath.Join(t.TempDir(), "ledger.db"))
	ctx := context.Background()

	rec, err := s.RecordRun(ctx, "alaro", "atos", []string{"case", "cfg.toml", "modifs_alaro.toml"}, StatusOK)
	require.NoError(t, err)
	assert.Equal(t, "id-1", rec.ID)
	assert.Equal(t, int64(1), rec.Seq)

	runs, err := s.Runs(ctx)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, rec, runs[0])
}

func TestRecordCleaning_RoundTrip(t *testing.T) {
	s := openTestStore(t, filepath.Join(t.TempDir(), "ledger.db"))
	ctx := context.Background()

	_, err := s.RecordCleaning(ctx, "alaro", "old_output", true)
	require.NoError(t, err)
	_, err = s.RecordCleaning(ctx, "arome", "workdirs", false)
	require.NoError(t, err)

	cleanings, err := s.Cleanings(ctx)
	require.NoError(t, err)
	require.Len(t, cleanings, 2)
	assert.Equal(t, "alaro", cleanings[0].CaseID)
	assert.True(t, cleanings[0].DryRun)
	assert.Equal(t, "arome", cleanings[1].CaseID)
	assert.False(t, cleanings[1].DryRun)
}

func TestSeq_SharedAcrossTables(t *testing.T) {
	s := openTestStore(t, filepath.Join(t.TempDir(), "ledger.db"))
	ctx := context.Background()

	run, err := s.RecordRun(ctx, "alaro", "atos", []string{"case"}, StatusDryRun)
	require.NoError(t, err)
	cleaning, err := s.RecordCleaning(ctx, "alaro", "old_output", false)
	require.NoError(t, err)

	assert.Equal(t, int64(1), run.Seq)
	assert.Equal(t, int64(2), cleaning.Seq, "one logical clock spans both tables")
}

func TestSeq_ResumesAfterReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ledger.db")
	ctx := context.Background()

	s1 := openTestStore(t, path)
	_, err := s1.RecordRun(ctx, "alaro", "atos", []string{"case"}, StatusOK)
	require.NoError(t, err)
	_, err = s1.RecordCleaning(ctx, "alaro", "old_output", false)
	require.NoError(t, err)
	require.NoError(t, s1.Close())

	s2 := openTestStore(t, path)
	rec, err := s2.RecordRun(ctx, "arome", "belenos", []string{"case"}, StatusFailed)
	require.NoError(t, err)
	assert.Equal(t, int64(3), rec.Seq)
}

func TestRuns_OrderedBySeq(t *testing.T) {
	s := openTestStore(t, filepath.Join(t.TempDir(), "ledger.db"))
	ctx := context.Background()

	for _, id := range []string{"c", "a", "b"} {
		_, err := s.RecordRun(ctx, id, "atos", []string{"case"}, StatusOK)
		require.NoError(t, err)
	}

	runs, err := s.Runs(ctx)
	require.NoError(t, err)
	require.Len(t, runs, 3)
	assert.Equal(t, "c", runs[0].CaseID)
	assert.Equal(t, "a", runs[1].CaseID)
	assert.Equal(t, "b", runs[2].CaseID)
}

func TestRuns_EmptyLedger(t *testing.T) {
	s := openTestStore(t, filepath.Join(t.TempDir(), "ledger.db"))

	runs, err := s.Runs(context.Background())
	require.NoError(t, err)
	assert.Empty(t, runs)
}
