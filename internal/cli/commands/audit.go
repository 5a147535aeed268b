package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"golang.org/x/sync/errgroup"

	"github.com/leapstack-labs/normaudit/internal/cli/config"
	"github.com/leapstack-labs/normaudit/internal/cli/output"
	"github.com/leapstack-labs/normaudit/internal/state"
	"github.com/leapstack-labs/normaudit/pkg/audit"
	"github.com/leapstack-labs/normaudit/pkg/core"
	"github.com/leapstack-labs/normaudit/pkg/invariants"
	"github.com/leapstack-labs/normaudit/pkg/lint"
	"github.com/leapstack-labs/normaudit/pkg/report"
	"github.com/leapstack-labs/normaudit/pkg/schema"

	// registers the .prisma, .sql and .ddl builders
	_ "github.com/leapstack-labs/normaudit/pkg/schema/formats"
)

// FindingsError is returned when an audit reports findings at or above the
// configured fail-on level.
type FindingsError struct {
	Threshold core.Severity
	Count     int
}

func (e *FindingsError) Error() string {
	return fmt.Sprintf("%d finding(s) at or above %s", e.Count, e.Threshold)
}

// AddAuditFlags registers the audit flags on fs.
func AddAuditFlags(fs *pflag.FlagSet) {
	fs.StringSliceP("schema", "s", nil, "Schema file to audit (.prisma, .sql, .ddl); repeatable")
	fs.StringP("invariants", "i", "", "Invariants file declaring functional dependencies (JSON or YAML)")
	fs.String("out", "", "Write the report to a file instead of stdout")
	fs.String("fail-on", "", "Exit with code 1 on findings at or above this level (none|info|warning)")
	fs.Bool("no-timestamp", false, "Omit the audit timestamp for reproducible output")
	fs.BoolP("watch", "w", false, "Re-run the audit when the schema or invariants change")
	fs.StringSlice("disable", nil, "Disable a rule by code; repeatable")
}

// NewAuditCommand creates the audit command.
func NewAuditCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "audit",
		Short: "Audit schemas for normalization problems",
		Long: `Audit one or more schemas for normal-form violations and schema-quality issues.

Keys and functional dependencies are derived from the schema's constraints and
from an optional invariants file. Findings are reported as text or JSON.`,
		Example: `  # Audit a Prisma schema
  normaudit audit --schema prisma/schema.prisma

  # Audit DDL with declared invariants, failing CI on warnings
  normaudit audit -s schema.sql -i invariants.yaml --fail-on warning

  # Machine-readable, reproducible output
  normaudit audit -s schema.sql --format json --no-timestamp --pretty`,
		Args: cobra.NoArgs,
		RunE: RunAudit,
	}
	AddAuditFlags(cmd.Flags())
	_ = cmd.MarkFlagFilename("schema", "prisma", "sql", "ddl")
	_ = cmd.MarkFlagFilename("invariants", "json", "yaml", "yml")
	return cmd
}

// RunAudit runs the audit described by the command's config.
func RunAudit(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	cfg := config.GetConfig(ctx)
	a, err := newAuditor(cfg, config.GetLogger(ctx))
	if err != nil {
		return err
	}
	r := output.NewRenderer(cmd.OutOrStdout(), cmd.ErrOrStderr(), cfg.NoColor)

	if cfg.Watch {
		return runWatch(ctx, a, r)
	}
	return a.runOnce(ctx, r)
}

// auditor runs audits for one configuration.
type auditor struct {
	cfg    *config.Config
	lint   *lint.Config
	logger *slog.Logger
	now    func() time.Time
}

func newAuditor(cfg *config.Config, logger *slog.Logger) (*auditor, error) {
	if len(cfg.Schemas) == 0 {
		return nil, fmt.Errorf("no schema given: pass --schema or set schemas in normaudit.yaml")
	}
	lintCfg, err := cfg.LintConfig()
	if err != nil {
		return nil, err
	}
	return &auditor{cfg: cfg, lint: lintCfg, logger: logger, now: time.Now}, nil
}

// runOnce audits every schema, writes the report, records history and
// applies the fail-on threshold.
func (a *auditor) runOnce(ctx context.Context, r *output.Renderer) error {
	results, err := a.auditAll(ctx)
	if err != nil {
		return err
	}
	if err := a.write(r, results); err != nil {
		return err
	}
	if err := a.record(ctx, results); err != nil {
		return err
	}
	return a.checkThreshold(results)
}

// auditAll audits the configured schemas concurrently. Results keep
// argument order.
func (a *auditor) auditAll(ctx context.Context) ([]*core.AuditResult, error) {
	var inv *core.Invariants
	if a.cfg.Invariants != "" {
		var err error
		inv, err = invariants.Load(a.cfg.Invariants)
		if err != nil {
			return nil, err
		}
	}

	var ts *time.Time
	if !a.cfg.NoTimestamp {
		now := a.now()
		ts = &now
	}

	results := make([]*core.AuditResult, len(a.cfg.Schemas))
	g, ctx := errgroup.WithContext(ctx)
	for i, path := range a.cfg.Schemas {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			c, err := schema.Load(path)
			if err != nil {
				return err
			}
			result, err := audit.Run(c, inv, audit.Options{
				SchemaPath: path,
				Timestamp:  ts,
				Lint:       a.lint,
				Logger:     a.logger,
			})
			if err != nil {
				return fmt.Errorf("%s: %w", path, err)
			}
			results[i] = result
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// write renders results to --out or stdout. A single schema is reported as
// one JSON object, several as an array.
func (a *auditor) write(r *output.Renderer, results []*core.AuditResult) error {
	if a.cfg.Out != "" {
		f, err := os.Create(a.cfg.Out)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer func() { _ = f.Close() }()
		if err := a.render(f, results, false); err != nil {
			return fmt.Errorf("failed to write report: %w", err)
		}
		a.logger.Debug("report written", "path", a.cfg.Out)
		return f.Close()
	}
	if err := a.render(r.Writer(), results, r.Color()); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	return nil
}

func (a *auditor) render(w io.Writer, results []*core.AuditResult, color bool) error {
	if a.cfg.Format == config.FormatJSON {
		if len(results) == 1 {
			return report.WriteJSON(w, results[0], a.cfg.Pretty)
		}
		return report.WriteJSON(w, results, a.cfg.Pretty)
	}
	return report.WriteText(w, results, report.TextOptions{Color: color})
}

// record stores results in the history database when one is configured.
func (a *auditor) record(ctx context.Context, results []*core.AuditResult) error {
	if a.cfg.History.Path == "" {
		return nil
	}
	store := state.NewSQLiteStore(a.logger)
	if err := store.Open(a.cfg.History.Path); err != nil {
		return fmt.Errorf("failed to open history database: %w", err)
	}
	defer func() { _ = store.Close() }()

	for _, result := range results {
		if _, err := store.RecordRun(ctx, result); err != nil {
			return fmt.Errorf("failed to record audit run: %w", err)
		}
	}
	return nil
}

func (a *auditor) checkThreshold(results []*core.AuditResult) error {
	threshold, ok := core.ParseSeverity(a.cfg.FailOn)
	if !ok {
		return nil
	}
	count := 0
	for _, result := range results {
		for _, f := range result.Findings {
			if f.Severity.AtLeast(threshold) {
				count++
			}
		}
	}
	if count == 0 {
		return nil
	}
	return &FindingsError{Threshold: threshold, Count: count}
}
