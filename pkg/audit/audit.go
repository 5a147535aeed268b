// Package audit is the entry point of the normalization engine.
//
// Run turns a contract and optional invariants into an AuditResult: it
// normalizes the contract, derives keys and dependencies, runs the rule
// suite and fills in run metadata. Run has no side effects and is safe to
// call concurrently.
package audit

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/leapstack-labs/normaudit/pkg/contract"
	"github.com/leapstack-labs/normaudit/pkg/core"
	"github.com/leapstack-labs/normaudit/pkg/lint"

	// registers the rule suite
	_ "github.com/leapstack-labs/normaudit/pkg/lint/rules"
)

// Options configures an audit run.
type Options struct {
	// SchemaPath is reported in the result metadata.
	SchemaPath string

	// Timestamp is reported in RFC 3339 UTC form; nil reports null.
	Timestamp *time.Time

	// Lint selects rules and severity overrides; nil runs every rule at its default severity.
	Lint *lint.Config

	// Rules replaces the registered rule suite when non-nil.
	Rules []lint.Rule

	// Logger receives debug output; nil discards it.
	Logger *slog.Logger
}

// Run audits c against inv.
// The only error is a duplicate model name in c.
func Run(c *core.Contract, inv *core.Invariants, opts Options) (*core.AuditResult, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	normalized, err := contract.Normalize(c)
	if err != nil {
		return nil, fmt.Errorf("invalid contract: %w", err)
	}

	analyzerOpts := []lint.Option{lint.WithLogger(logger)}
	if opts.Rules != nil {
		analyzerOpts = append(analyzerOpts, lint.WithRules(opts.Rules))
	}
	analyzer := lint.NewAnalyzer(opts.Lint, analyzerOpts...)
	findings := analyzer.Analyze(lint.NewContext(normalized, inv))

	result := &core.AuditResult{
		Contract: *normalized,
		Findings: findings,
		Metadata: core.AuditMetadata{
			SchemaPath:   opts.SchemaPath,
			Timestamp:    FormatTimestamp(opts.Timestamp),
			ModelCount:   len(normalized.Models),
			FindingCount: len(findings),
		},
	}

	logger.Debug("audit complete",
		"schema", opts.SchemaPath,
		"models", result.Metadata.ModelCount,
		"findings", result.Metadata.FindingCount)
	return result, nil
}

// FormatTimestamp renders t as RFC 3339 in UTC, or nil when t is nil.
func FormatTimestamp(t *time.Time) *string {
	if t == nil {
		return nil
	}
	return core.Ptr(t.UTC().Format(time.RFC3339))
}
