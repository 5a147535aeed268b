// Package state records audit history in SQLite.
// It tracks each audit run with its finding counts and findings.
package state

import (
	"context"
	"errors"
	"time"

	"github.com/leapstack-labs/normaudit/pkg/core"
)

// ErrRunNotFound is returned when a run ID is not in the store.
var ErrRunNotFound = errors.New("run not found")

// Run is one recorded audit.
type Run struct {
	ID           string         `json:"id"`
	SchemaPath   string         `json:"schemaPath"`
	AuditedAt    time.Time      `json:"auditedAt"`
	ModelCount   int            `json:"modelCount"`
	InfoCount    int            `json:"infoCount"`
	WarningCount int            `json:"warningCount"`
	Findings     []core.Finding `json:"findings,omitempty"`
}

// FindingCount returns the total number of findings in the run.
func (r *Run) FindingCount() int {
	return r.InfoCount + r.WarningCount
}

// Store persists audit runs.
type Store interface {
	// RecordRun stores result and returns the recorded run.
	RecordRun(ctx context.Context, result *core.AuditResult) (*Run, error)

	// ListRuns returns up to limit runs, newest first, without findings.
	// A limit of zero or less returns every run.
	ListRuns(ctx context.Context, limit int) ([]*Run, error)

	// GetRun returns a run with its findings.
	GetRun(ctx context.Context, id string) (*Run, error)

	Close() error
}
