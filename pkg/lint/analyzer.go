package lint

import (
	"log/slog"

	"github.com/leapstack-labs/normaudit/pkg/core"
)

// Analyzer runs lint rules against an analysis context.
type Analyzer struct {
	config *Config
	rules  []Rule
	logger *slog.Logger
}

// Option configures an Analyzer.
type Option func(*Analyzer)

// WithRules replaces the registered rule set.
func WithRules(rules []Rule) Option {
	return func(a *Analyzer) {
		a.rules = rules
	}
}

// WithLogger sets the logger used for per-rule debug output.
func WithLogger(logger *slog.Logger) Option {
	return func(a *Analyzer) {
		if logger != nil {
			a.logger = logger
		}
	}
}

// NewAnalyzer creates a new analyzer with optional configuration.
// Without WithRules it runs every rule of the global registry.
func NewAnalyzer(config *Config, opts ...Option) *Analyzer {
	if config == nil {
		config = NewConfig()
	}
	a := &Analyzer{
		config: config,
		logger: slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(a)
	}
	if a.rules == nil {
		a.rules = GetAll()
	}
	return a
}

// Analyze runs every enabled rule and returns the aggregated findings.
func (a *Analyzer) Analyze(ctx *Context) []core.Finding {
	if ctx == nil {
		return []core.Finding{}
	}

	findings := []core.Finding{}
	for _, rule := range a.rules {
		// Skip disabled rules
		if a.config.IsDisabled(rule.ID()) {
			a.logger.Debug("rule disabled", "rule", rule.ID())
			continue
		}

		found := Apply(rule, ctx, a.config)
		if len(found) > 0 {
			a.logger.Debug("rule reported findings", "rule", rule.ID(), "count", len(found))
		}
		findings = append(findings, found...)
	}

	SortFindings(findings)
	return findings
}

// Apply runs a single rule and stamps its code, normal form and
// (possibly overridden) severity onto each finding.
func Apply(rule Rule, ctx *Context, config *Config) []core.Finding {
	found := rule.Check(ctx)
	sev := config.GetSeverity(rule.ID(), rule.DefaultSeverity())
	for i := range found {
		found[i].Rule = rule.ID()
		found[i].NormalForm = rule.NormalForm()
		found[i].Severity = sev
	}
	return found
}
