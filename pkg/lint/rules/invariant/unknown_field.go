package invariant

import (
	"fmt"

	"github.com/leapstack-labs/normaudit/pkg/core"
	"github.com/leapstack-labs/normaudit/pkg/lint"
)

func init() {
	lint.Register(UnknownField)
}

// UnknownField flags dependency fields missing from their model.
var UnknownField = lint.RuleDef{
	ID:          core.RuleInvUnknownField,
	Name:        "unknown-field",
	Group:       "invariant",
	NormalForm:  core.NormalForm3NF,
	Description: "Invariant references a field that does not exist on its model.",
	Severity:    core.SeverityWarning,
	Check:       checkUnknownField,
	Rationale:   "A dependency over a missing field cannot be reasoned about; normal-form checks skip it.",
	Fix:         "Correct the field name or remove the dependency.",
}

// checkUnknownField reports each unknown field once per model, in order of first reference.
func checkUnknownField(ctx *lint.Context) []core.Finding {
	inv := ctx.Invariants()
	if inv.IsEmpty() {
		return nil
	}

	var findings []core.Finding
	for _, name := range inv.ModelNames() {
		m, ok := ctx.Model(name)
		if !ok {
			continue
		}

		reported := make(map[string]bool)
		for _, dep := range inv.Models[name].FunctionalDependencies {
			unknown := append(m.UnknownFields(dep.Determinant), ctx.UnknownDependents(m, dep.Dependent)...)
			for _, field := range unknown {
				if reported[field] {
					continue
				}
				reported[field] = true
				findings = append(findings, core.Finding{
					Model:   name,
					Field:   core.Ptr(field),
					Message: fmt.Sprintf("Invariant references unknown field '%s' on model '%s'", field, name),
					Fix:     core.Ptr(fmt.Sprintf("Use a field declared on '%s' or remove '%s' from the dependency", name, field)),
				})
			}
		}
	}
	return findings
}
