package invariant

import (
	"fmt"

	"github.com/leapstack-labs/normaudit/pkg/core"
	"github.com/leapstack-labs/normaudit/pkg/lint"
)

func init() {
	lint.Register(UnknownModel)
}

// UnknownModel flags invariants declared for models missing from the schema.
var UnknownModel = lint.RuleDef{
	ID:          core.RuleInvUnknownModel,
	Name:        "unknown-model",
	Group:       "invariant",
	NormalForm:  core.NormalForm3NF,
	Description: "Invariants reference a model that does not exist in the schema.",
	Severity:    core.SeverityWarning,
	Check:       checkUnknownModel,
	Rationale:   "Dependencies declared for a missing model are never checked, usually because of a typo or a renamed model.",
	Fix:         "Rename the invariants entry to an existing model or remove it.",
}

func checkUnknownModel(ctx *lint.Context) []core.Finding {
	inv := ctx.Invariants()
	if inv.IsEmpty() {
		return nil
	}

	var findings []core.Finding
	for _, name := range inv.ModelNames() {
		if _, ok := ctx.Model(name); ok {
			continue
		}
		findings = append(findings, core.Finding{
			Model:   name,
			Message: fmt.Sprintf("Invariants declare dependencies for unknown model '%s'", name),
			Fix:     core.Ptr(fmt.Sprintf("Rename '%s' to an existing model or remove it from the invariants file", name)),
		})
	}
	return findings
}
