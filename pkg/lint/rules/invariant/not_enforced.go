package invariant

import (
	"fmt"

	"github.com/leapstack-labs/normaudit/pkg/core"
	"github.com/leapstack-labs/normaudit/pkg/keys"
	"github.com/leapstack-labs/normaudit/pkg/lint"
)

func init() {
	lint.Register(DeterminantNotEnforced)
}

// DeterminantNotEnforced flags declared determinants that the database cannot keep unique.
var DeterminantNotEnforced = lint.RuleDef{
	ID:          core.RuleInvNotEnforced,
	Name:        "determinant-not-enforced",
	Group:       "invariant",
	NormalForm:  core.NormalForm3NF,
	Description: "No primary key or unique constraint backs the determinant of a declared dependency.",
	Severity:    core.SeverityWarning,
	Check:       checkDeterminantNotEnforced,
	Rationale:   "A functional dependency only holds if rows sharing a determinant value agree on the dependents. Without a key over the determinant, nothing in the database guarantees that.",
	BadExample:  "invariant sku -> price on product(id PK, sku, price)",
	GoodExample: "product(id PK, sku UNIQUE, price)",
	Fix:         "Add a unique constraint covering the determinant.",
}

func checkDeterminantNotEnforced(ctx *lint.Context) []core.Finding {
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

		for _, dep := range inv.Models[name].FunctionalDependencies {
			if len(dep.Determinant) == 0 || len(m.UnknownFields(dep.Determinant)) > 0 {
				continue
			}
			if keys.Covers(m.Keys, dep.Determinant) {
				continue
			}
			findings = append(findings, core.Finding{
				Model: name,
				Field: core.Ptr(dep.Determinant[0]),
				Message: fmt.Sprintf("Determinant (%s) of declared dependency on '%s' is not backed by a primary key or unique constraint",
					core.FieldList(dep.Determinant), name),
				Fix: core.Ptr(fmt.Sprintf("Add a unique constraint on (%s) to '%s'", core.FieldList(dep.Determinant), name)),
			})
		}
	}
	return findings
}
