package lint

import "github.com/leapstack-labs/normaudit/pkg/core"

// Rule is the interface all audit rules implement.
type Rule interface {
	// ID returns the rule code, e.g. "NF1_JSON_RELATION_SUSPECTED"
	ID() core.RuleCode

	// Name returns the human-readable name, e.g. "json-relation"
	Name() string

	// Group returns the category, e.g. "nf1", "quality"
	Group() string

	// NormalForm returns the normal form findings are reported under
	NormalForm() core.NormalForm

	// Description returns a human-readable description
	Description() string

	// DefaultSeverity returns the default severity for this rule
	DefaultSeverity() core.Severity

	// Check analyzes the context and returns findings.
	// Only Model, Field, Message and Fix need to be set; the analyzer
	// stamps the rule code, normal form and severity.
	Check(ctx *Context) []core.Finding
}

// Check is the function signature for rule checks.
type Check func(ctx *Context) []core.Finding

// RuleDef is a data-driven rule definition.
type RuleDef struct {
	ID          core.RuleCode   // Rule code, e.g. "FK_MISSING_INDEX"
	Name        string          // Human-readable name, e.g. "fk-missing-index"
	Group       string          // Category: "nf1", "nf2", "nf3", "invariant", "quality"
	NormalForm  core.NormalForm // Normal form findings belong to
	Description string          // Human-readable description
	Severity    core.Severity   // Default severity
	Check       Check           // The check function

	// Documentation fields
	Rationale   string
	BadExample  string
	GoodExample string
	Fix         string
}

// GetRuleInfo extracts metadata from a Rule for documentation/tooling.
func GetRuleInfo(r Rule) core.RuleInfo {
	info := core.RuleInfo{
		ID:              r.ID(),
		Name:            r.Name(),
		Group:           r.Group(),
		NormalForm:      r.NormalForm(),
		Description:     r.Description(),
		DefaultSeverity: r.DefaultSeverity(),
	}
	if d, ok := r.(interface{ Def() RuleDef }); ok {
		def := d.Def()
		info.Rationale = def.Rationale
		info.BadExample = def.BadExample
		info.GoodExample = def.GoodExample
		info.Fix = def.Fix
	}
	return info
}

// definedRule adapts a RuleDef to the Rule interface.
type definedRule struct {
	def RuleDef
}

// FromDef wraps a RuleDef so it implements Rule.
func FromDef(def RuleDef) Rule {
	return &definedRule{def: def}
}

func (r *definedRule) ID() core.RuleCode              { return r.def.ID }
func (r *definedRule) Name() string                   { return r.def.Name }
func (r *definedRule) Group() string                  { return r.def.Group }
func (r *definedRule) NormalForm() core.NormalForm    { return r.def.NormalForm }
func (r *definedRule) Description() string            { return r.def.Description }
func (r *definedRule) DefaultSeverity() core.Severity { return r.def.Severity }

func (r *definedRule) Check(ctx *Context) []core.Finding {
	if r.def.Check == nil {
		return nil
	}
	return r.def.Check(ctx)
}

// Def returns the underlying RuleDef.
func (r *definedRule) Def() RuleDef {
	return r.def
}

// FieldMatch reports whether a field should be flagged.
type FieldMatch func(m *ModelContext, f core.FieldContract) bool

// FieldFormat renders the message and fix for a flagged field.
type FieldFormat func(m *ModelContext, f core.FieldContract) (message, fix string)

// PerField builds a Check that runs match over every field of every model
// and emits one finding per matching field.
func PerField(match FieldMatch, format FieldFormat) Check {
	return func(ctx *Context) []core.Finding {
		var findings []core.Finding
		for _, m := range ctx.Models() {
			for _, f := range m.Model.Fields {
				if !match(m, f) {
					continue
				}
				msg, fix := format(m, f)
				findings = append(findings, core.Finding{
					Model:   m.Name(),
					Field:   core.Ptr(f.Name),
					Message: msg,
					Fix:     optional(fix),
				})
			}
		}
		return findings
	}
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return core.Ptr(s)
}
