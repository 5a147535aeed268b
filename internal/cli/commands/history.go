package commands

import (
	"fmt"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/leapstack-labs/normaudit/internal/cli/config"
	"github.com/leapstack-labs/normaudit/internal/cli/output"
	"github.com/leapstack-labs/normaudit/internal/state"
	"github.com/leapstack-labs/normaudit/pkg/report"
)

// HistoryOptions holds options for the history command.
type HistoryOptions struct {
	Limit int
}

// NewHistoryCommand creates the history command.
func NewHistoryCommand() *cobra.Command {
	opts := &HistoryOptions{}
	cmd := &cobra.Command{
		Use:   "history [run-id]",
		Short: "Show recorded audit runs",
		Long: `Show audit runs recorded with --history-db, newest first.

Pass a run ID to print that run including its findings.`,
		Example: `  # Record an audit, then list runs
  normaudit --schema schema.sql --history-db .normaudit/history.db
  normaudit history --history-db .normaudit/history.db

  # Last five runs as JSON
  normaudit history --history-db .normaudit/history.db --limit 5 --format json`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHistory(cmd, args, opts)
		},
	}

	cmd.Flags().IntVarP(&opts.Limit, "limit", "n", 20, "Maximum number of runs to show (0 for all)")

	return cmd
}

func runHistory(cmd *cobra.Command, args []string, opts *HistoryOptions) error {
	ctx := cmd.Context()
	cfg := config.GetConfig(ctx)
	if cfg.History.Path == "" {
		return fmt.Errorf("no history database: pass --history-db or set history.path in normaudit.yaml")
	}

	store := state.NewSQLiteStore(config.GetLogger(ctx))
	if err := store.Open(cfg.History.Path); err != nil {
		return fmt.Errorf("failed to open history database: %w", err)
	}
	defer func() { _ = store.Close() }()

	r := output.NewRenderer(cmd.OutOrStdout(), cmd.ErrOrStderr(), cfg.NoColor)

	if len(args) == 1 {
		run, err := store.GetRun(ctx, args[0])
		if err != nil {
			return err
		}
		if cfg.Format == config.FormatJSON {
			return report.WriteJSON(r.Writer(), run, cfg.Pretty)
		}
		renderRunsTable(r, []*state.Run{run})
		for _, f := range run.Findings {
			r.Printf("  %s %s %s: %s\n",
				r.Styles().Severity(f.Severity).Render(f.Severity.String()), f.Rule, f.Model, f.Message)
		}
		return nil
	}

	runs, err := store.ListRuns(ctx, opts.Limit)
	if err != nil {
		return err
	}
	if cfg.Format == config.FormatJSON {
		if runs == nil {
			runs = []*state.Run{}
		}
		return report.WriteJSON(r.Writer(), runs, cfg.Pretty)
	}
	if len(runs) == 0 {
		r.Println("No audit runs recorded.")
		return nil
	}
	renderRunsTable(r, runs)
	return nil
}

func renderRunsTable(r *output.Renderer, runs []*state.Run) {
	t := table.NewWriter()
	t.SetOutputMirror(r.Writer())
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"ID", "Audited", "Schema", "Models", "Warnings", "Info"})
	for _, run := range runs {
		t.AppendRow(table.Row{
			run.ID,
			run.AuditedAt.UTC().Format(time.RFC3339),
			run.SchemaPath,
			run.ModelCount,
			run.WarningCount,
			run.InfoCount,
		})
	}
	t.Render()
}
