package store

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
)

// RunRecord is one recorded case invocation.
type RunRecord struct {
	ID     string   `json:"id"`
	CaseID string   `json:"case_id"`
	Host   string   `json:"host"`
	Argv   []string `json:"argv"`
	Status string   `json:"status"`
	Seq    int64    `json:"seq"`
}

// CleaningRecord is one recorded (case, rule) cleaning application.
type CleaningRecord struct {
	ID     string `json:"id"`
	CaseID string `json:"case_id"`
	Rule   string `json:"rule"`
	DryRun bool   `json:"dry_run"`
	Seq    int64  `json:"seq"`
}

// Run statuses recorded in the ledger.
const (
	StatusOK      = "ok"
	StatusFailed  = "failed"
	StatusDryRun  = "dry-run"
	StatusSkipped = "skipped"
)

// uuidGenerator produces UUIDv7 row IDs, time-ordered for readability.
type uuidGenerator struct{}

func (uuidGenerator) Generate() string {
	return uuid.Must(uuid.NewV7()).String()
}

// RecordRun appends a run record and returns it with ID and seq assigned.
func (s *Store) RecordRun(ctx context.Context, caseID, host string, argv []string, status string) (RunRecord, error) {
	rec := RunRecord{
		ID:     s.ids.Generate(),
		CaseID: caseID,
		Host:   host,
		Argv:   argv,
		Status: status,
		Seq:    s.nextSeq(),
	}
	argvJSON, err := json.Marshal(rec.Argv)
	if err != nil {
		return RunRecord{}, fmt.Errorf("record run: %w", err)
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO runs (id, case_id, host, argv, status, seq)
		VALUES (?, ?, ?, ?, ?, ?)
	`, rec.ID, rec.CaseID, rec.Host, string(argvJSON), rec.Status, rec.Seq)
	if err != nil {
		return RunRecord{}, fmt.Errorf("record run: %w", err)
	}
	return rec, nil
}

// RecordCleaning appends a cleaning record.
func (s *Store) RecordCleaning(ctx context.Context, caseID, rule string, dryRun bool) (CleaningRecord, error) {
	rec := CleaningRecord{
		ID:     s.ids.Generate(),
		CaseID: caseID,
		Rule:   rule,
		DryRun: dryRun,
		Seq:    s.nextSeq(),
	}
	dry := 0
	if rec.DryRun {
		dry = 1
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO cleanings (id, case_id, rule, dry_run, seq)
		VALUES (?, ?, ?, ?, ?)
	`, rec.ID, rec.CaseID, rec.Rule, dry, rec.Seq)
	if err != nil {
		return CleaningRecord{}, fmt.Errorf("record cleaning: %w", err)
	}
	return rec, nil
}

// Runs lists run records ordered by seq.
func (s *Store) Runs(ctx context.Context) ([]RunRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, case_id, host, argv, status, seq
		FROM runs
		ORDER BY seq ASC, id ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	var out []RunRecord
	for rows.Next() {
		var rec RunRecord
		var argvJSON string
		if err := rows.Scan(&rec.ID, &rec.CaseID, &rec.Host, &argvJSON, &rec.Status, &rec.Seq); err != nil {
			return nil, fmt.Errorf("list runs: %w", err)
		}
		if err := json.Unmarshal([]byte(argvJSON), &rec.Argv); err != nil {
			return nil, fmt.Errorf("list runs: decode argv: %w", err)
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

// Cleanings lists cleaning records ordered by seq.
func (s *Store) Cleanings(ctx context.Context) ([]CleaningRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, case_id, rule, dry_run, seq
		FROM cleanings
		ORDER BY seq ASC, id ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("list cleanings: %w", err)
	}
	defer rows.Close()

	var out []CleaningRecord
	for rows.Next() {
		var rec CleaningRecord
		var dry int
		if err := rows.Scan(&rec.ID, &rec.CaseID, &rec.Rule, &dry, &rec.Seq); err != nil {
			return nil, fmt.Errorf("list cleanings: %w", err)
		}
		rec.DryRun = dry != 0
		out = append(out, rec)
	}
	return out, rows.Err()
}
