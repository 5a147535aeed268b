package state

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/leapstack-labs/normaudit/pkg/core"
)

// timeFormat is fixed width so stored timestamps sort chronologically.
const timeFormat = "2006-01-02T15:04:05.000000000Z07:00"

// RecordRun stores result as a new run. The run time is the audit
// timestamp when present, otherwise the current time.
func (s *SQLiteStore) RecordRun(ctx context.Context, result *core.AuditResult) (*Run, error) {
	if s.db == nil {
		return nil, fmt.Errorf("database not opened")
	}

	auditedAt := s.now().UTC()
	if ts := result.Metadata.Timestamp; ts != nil {
		parsed, err := time.Parse(time.RFC3339, *ts)
		if err != nil {
			return nil, fmt.Errorf("invalid audit timestamp %q: %w", *ts, err)
		}
		auditedAt = parsed.UTC()
	}

	counts := result.CountBySeverity()
	run := &Run{
		ID:           s.newID(),
		SchemaPath:   result.Metadata.SchemaPath,
		AuditedAt:    auditedAt,
		ModelCount:   result.Metadata.ModelCount,
		InfoCount:    counts[core.SeverityInfo],
		WarningCount: counts[core.SeverityWarning],
		Findings:     result.Findings,
	}
	if run.Findings == nil {
		run.Findings = []core.Finding{}
	}

	findings, err := json.Marshal(run.Findings)
	if err != nil {
		return nil, fmt.Errorf("failed to encode findings: %w", err)
	}

	s.logger.Debug("recording audit run",
		slog.String("id", run.ID),
		slog.String("schema", run.SchemaPath),
		slog.Int("findings", run.FindingCount()))

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO audit_runs (id, schema_path, audited_at, model_count, info_count, warning_count, findings)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		run.ID, run.SchemaPath, run.AuditedAt.Format(timeFormat),
		run.ModelCount, run.InfoCount, run.WarningCount, string(findings),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to record run: %w", err)
	}
	return run, nil
}

// ListRuns returns up to limit runs, newest first, without findings.
func (s *SQLiteStore) ListRuns(ctx context.Context, limit int) ([]*Run, error) {
	if s.db == nil {
		return nil, fmt.Errorf("database not opened")
	}
	if limit <= 0 {
		limit = -1 // SQLite: no limit
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, schema_path, audited_at, model_count, info_count, warning_count
		 FROM audit_runs ORDER BY audited_at DESC, rowid DESC LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer func() { _ = rows.Close() }()

	runs := []*Run{}
	for rows.Next() {
		run := &Run{}
		var auditedAt string
		if err := rows.Scan(&run.ID, &run.SchemaPath, &auditedAt, &run.ModelCount, &run.InfoCount, &run.WarningCount); err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		if run.AuditedAt, err = parseTime(auditedAt); err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	return runs, nil
}

// GetRun retrieves a run and its findings by ID.
func (s *SQLiteStore) GetRun(ctx context.Context, id string) (*Run, error) {
	if s.db == nil {
		return nil, fmt.Errorf("database not opened")
	}

	run := &Run{}
	var auditedAt, findings string
	err := s.db.QueryRowContext(ctx,
		`SELECT id, schema_path, audited_at, model_count, info_count, warning_count, findings
		 FROM audit_runs WHERE id = ?`,
		id,
	).Scan(&run.ID, &run.SchemaPath, &auditedAt, &run.ModelCount, &run.InfoCount, &run.WarningCount, &findings)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrRunNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get run: %w", err)
	}

	if run.AuditedAt, err = parseTime(auditedAt); err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(findings), &run.Findings); err != nil {
		return nil, fmt.Errorf("failed to decode findings of run %s: %w", id, err)
	}
	return run, nil
}

func parseTime(s string) (time.Time, error) {
	t, err := time.Parse(timeFormat, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid stored timestamp %q: %w", s, err)
	}
	return t, nil
}
