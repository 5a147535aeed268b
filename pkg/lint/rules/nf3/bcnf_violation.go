package nf3

import (
	"fmt"

	"github.com/leapstack-labs/normaudit/pkg/core"
	"github.com/leapstack-labs/normaudit/pkg/keys"
	"github.com/leapstack-labs/normaudit/pkg/lint"
)

func init() {
	lint.Register(NonKeyDeterminant)
}

// NonKeyDeterminant flags declared dependencies whose determinant is not a candidate key.
var NonKeyDeterminant = lint.RuleDef{
	ID:          core.RuleBCNFViolation,
	Name:        "non-key-determinant",
	Group:       "nf3",
	NormalForm:  core.NormalFormBCNF,
	Description: "Declared dependency has a determinant that is not a candidate key.",
	Severity:    core.SeverityWarning,
	Check:       checkNonKeyDeterminant,
	Rationale:   "Boyce-Codd normal form requires every determinant to be a candidate key. Otherwise the same determinant value can appear in several rows and its dependents must be kept in sync.",
	BadExample:  "booking(room, slot, instructor) with invariant instructor -> room",
	GoodExample: "instructor_rooms(instructor PK, room) and booking(slot, instructor)",
	Fix:         "Declare the determinant unique or decompose the model on the dependency.",
}

func checkNonKeyDeterminant(ctx *lint.Context) []core.Finding {
	var findings []core.Finding

	for _, m := range ctx.Models() {
		for _, dep := range m.Dependencies {
			if dep.Source != core.SourceInvariant || len(dep.Determinant) == 0 {
				continue
			}
			if referencesUnknown(ctx, m, dep) || keys.Matches(m.Keys, dep.Determinant) {
				continue
			}
			dependents := localDependents(dep)
			if len(dependents) == 0 {
				continue
			}

			findings = append(findings, core.Finding{
				Model: m.Name(),
				Field: core.Ptr(dependents[0]),
				Message: fmt.Sprintf("Determinant (%s) of '%s' is not a candidate key but determines (%s)",
					core.FieldList(dep.Determinant), m.Name(), core.FieldList(dependents)),
				Fix: core.Ptr(fmt.Sprintf("Add a unique constraint on (%s) or split (%s) into its own model",
					core.FieldList(dep.Determinant), core.FieldList(append(append([]string(nil), dep.Determinant...), dependents...)))),
			})
		}
	}

	return findings
}
