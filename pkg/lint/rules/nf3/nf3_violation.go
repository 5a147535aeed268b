package nf3

import (
	"fmt"
	"strings"

	"github.com/leapstack-labs/normaudit/pkg/core"
	"github.com/leapstack-labs/normaudit/pkg/lint"
)

func init() {
	lint.Register(TransitiveDependency)
}

// TransitiveDependency flags non-key fields determined by other non-key fields.
var TransitiveDependency = lint.RuleDef{
	ID:          core.RuleNF3Violation,
	Name:        "transitive-dependency",
	Group:       "nf3",
	NormalForm:  core.NormalForm3NF,
	Description: "Non-key field determines another non-key field.",
	Severity:    core.SeverityWarning,
	Check:       checkTransitiveDependency,
	Rationale:   "If zip determines city and neither is a key, city depends on the key only through zip. Every row repeats the zip to city mapping, and updates can make it inconsistent.",
	BadExample:  "address(id PK, zip, city) with invariant zip -> city",
	GoodExample: "address(id PK, zip FK) and zip_codes(zip PK, city)",
	Fix:         "Move the determined fields into a model keyed by the determinant.",
}

func checkTransitiveDependency(ctx *lint.Context) []core.Finding {
	var findings []core.Finding

	for _, m := range ctx.Models() {
		for _, dep := range m.Dependencies {
			if len(dep.Determinant) == 0 || referencesUnknown(ctx, m, dep) {
				continue
			}
			if anyKeyField(m, dep.Determinant) {
				continue
			}
			dependents := localDependents(dep)
			if len(dependents) == 0 || anyKeyField(m, dependents) {
				continue
			}

			findings = append(findings, core.Finding{
				Model: m.Name(),
				Field: core.Ptr(dependents[0]),
				Message: fmt.Sprintf("Non-key field(s) (%s) determine non-key field(s) (%s) in '%s'",
					core.FieldList(dep.Determinant), strings.Join(dependents, ","), m.Name()),
				Fix: core.Ptr(fmt.Sprintf("Move (%s) into a separate model keyed by (%s) and reference it",
					strings.Join(dependents, ","), core.FieldList(dep.Determinant))),
			})
		}
	}

	return findings
}

func anyKeyField(m *lint.ModelContext, names []string) bool {
	for _, n := range names {
		if m.IsKeyField(n) {
			return true
		}
	}
	return false
}
