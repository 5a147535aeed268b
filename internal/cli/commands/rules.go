package commands

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/leapstack-labs/normaudit/internal/cli/config"
	"github.com/leapstack-labs/normaudit/internal/cli/output"
	"github.com/leapstack-labs/normaudit/pkg/core"
	"github.com/leapstack-labs/normaudit/pkg/lint"

	// registers the rule suite
	_ "github.com/leapstack-labs/normaudit/pkg/lint/rules"
)

// RulesOptions holds options for the rules command.
type RulesOptions struct {
	Group   string // Filter by group
	Verbose bool   // Show descriptions in the listing
}

// NewRulesCommand creates the rules command.
func NewRulesCommand() *cobra.Command {
	opts := &RulesOptions{}
	cmd := &cobra.Command{
		Use:   "rules [rule-code]",
		Short: "List available audit rules",
		Long: `List all audit rules with their normal form and default severity.

Pass a rule code to see its full documentation, including why it matters,
examples and how to fix it. Rule codes are case-insensitive.`,
		Example: `  # List all rules
  normaudit rules

  # Show details for a specific rule
  normaudit rules NF3_VIOLATION

  # List 1NF heuristics only
  normaudit rules --group nf1

  # Output as JSON
  normaudit rules --format json`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.GetConfig(cmd.Context())
			r := output.NewRenderer(cmd.OutOrStdout(), cmd.ErrOrStderr(), cfg.NoColor)
			if len(args) > 0 {
				return showRule(r, args[0], cfg.Format)
			}
			return listRules(r, opts, cfg.Format)
		},
	}

	cmd.Flags().StringVarP(&opts.Group, "group", "g", "", "Filter by group (nf1, nf2, nf3, invariant, quality)")
	cmd.Flags().BoolVarP(&opts.Verbose, "verbose", "V", false, "Show rule descriptions")

	return cmd
}

func ruleInfos(group string) []core.RuleInfo {
	rules := lint.GetAll()
	if group != "" {
		rules = lint.GetByGroup(strings.ToLower(group))
	}
	infos := make([]core.RuleInfo, 0, len(rules))
	for _, rule := range rules {
		infos = append(infos, lint.GetRuleInfo(rule))
	}
	return infos
}

func listRules(r *output.Renderer, opts *RulesOptions, format string) error {
	rules := ruleInfos(opts.Group)
	if format == config.FormatJSON {
		return listRulesJSON(r, rules)
	}
	return listRulesText(r, rules, opts.Verbose)
}

// listRulesText outputs rules as a table.
func listRulesText(r *output.Renderer, rules []core.RuleInfo, verbose bool) error {
	styles := r.Styles()

	r.Println(styles.Header.Render(fmt.Sprintf("Audit Rules (%d)", len(rules))))
	r.Println("")

	t := table.NewWriter()
	t.SetOutputMirror(r.Writer())
	t.SetStyle(table.StyleLight)

	header := table.Row{"Code", "Form", "Severity", "Name"}
	if verbose {
		header = append(header, "Description")
	}
	t.AppendHeader(header)

	for _, rule := range rules {
		row := table.Row{
			rule.ID,
			rule.NormalForm,
			styles.Severity(rule.DefaultSeverity).Render(rule.DefaultSeverity.String()),
			rule.Name,
		}
		if verbose {
			row = append(row, rule.Description)
		}
		t.AppendRow(row)
	}
	t.Render()

	r.Println("")
	r.Println(styles.Muted.Render("Use 'normaudit rules <rule-code>' for detailed documentation"))
	return nil
}

// RulesJSONOutput is the JSON output structure for rules listing.
type RulesJSONOutput struct {
	Rules []core.RuleInfo `json:"rules"`
	Count int             `json:"count"`
}

// listRulesJSON outputs rules in JSON format.
func listRulesJSON(r *output.Renderer, rules []core.RuleInfo) error {
	enc := json.NewEncoder(r.Writer())
	enc.SetIndent("", "  ")
	return enc.Encode(RulesJSONOutput{Rules: rules, Count: len(rules)})
}

func showRule(r *output.Renderer, ruleID string, format string) error {
	rule, ok := lint.GetByID(core.RuleCode(strings.ToUpper(strings.TrimSpace(ruleID))))
	if !ok {
		return fmt.Errorf("rule %q not found", ruleID)
	}
	info := lint.GetRuleInfo(rule)

	if format == config.FormatJSON {
		enc := json.NewEncoder(r.Writer())
		enc.SetIndent("", "  ")
		return enc.Encode(info)
	}
	showRuleText(r, &info)
	return nil
}

// showRuleText displays detailed rule info in text format.
func showRuleText(r *output.Renderer, rule *core.RuleInfo) {
	styles := r.Styles()

	r.Println(styles.Header.Render(fmt.Sprintf("%s - %s", rule.ID, rule.Name)))
	r.Println("")

	r.Printf("  %s: %s\n", styles.Bold.Render("Group"), rule.Group)
	r.Printf("  %s: %s\n", styles.Bold.Render("Normal form"), rule.NormalForm)
	r.Printf("  %s: %s\n", styles.Bold.Render("Severity"), rule.DefaultSeverity.String())
	r.Println("")

	r.Println(styles.Bold.Render("Description"))
	r.Println("  " + rule.Description)

	sections := []struct {
		title string
		body  string
	}{
		{"Why This Matters", rule.Rationale},
		{"Bad Example", rule.BadExample},
		{"Good Example", rule.GoodExample},
		{"How to Fix", rule.Fix},
	}
	for _, s := range sections {
		if s.body == "" {
			continue
		}
		r.Println("")
		r.Println(styles.Bold.Render(s.title))
		for _, line := range strings.Split(s.body, "\n") {
			r.Println("  " + line)
		}
	}
}
