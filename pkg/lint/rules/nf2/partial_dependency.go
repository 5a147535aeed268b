package nf2

import (
	"fmt"

	"github.com/leapstack-labs/normaudit/pkg/core"
	"github.com/leapstack-labs/normaudit/pkg/keys"
	"github.com/leapstack-labs/normaudit/pkg/lint"
)

func init() {
	lint.Register(PartialDependency)
}

// PartialDependency flags foreign keys over a proper subset of a composite primary key.
var PartialDependency = lint.RuleDef{
	ID:          core.RuleNF2PartialDep,
	Name:        "partial-dependency",
	Group:       "nf2",
	NormalForm:  core.NormalForm2NF,
	Description: "Part of a composite primary key references another model; non-key fields may depend on that part alone.",
	Severity:    core.SeverityWarning,
	Check:       checkPartialDependency,
	Rationale:   "When a subset of the primary key identifies a row elsewhere, attributes describing that row often end up here, depending on only part of the key.",
	BadExample:  "model Enrollment {\n  studentId   Int\n  courseId    Int\n  studentName String\n  @@id([studentId, courseId])\n}",
	GoodExample: "model Enrollment {\n  studentId Int\n  courseId  Int\n  grade     String\n  @@id([studentId, courseId])\n}",
	Fix:         "Move attributes that depend only on the referenced part of the key into the referenced model.",
}

func checkPartialDependency(ctx *lint.Context) []core.Finding {
	var findings []core.Finding

	for _, m := range ctx.Models() {
		pk, ok := m.PrimaryKey()
		if !ok || len(pk.Fields) < 2 {
			continue
		}
		pkSet := keys.NewSet(pk.Fields...)

		hasNonKey := false
		for _, f := range m.Model.Fields {
			if !pkSet.Has(f.Name) {
				hasNonKey = true
				break
			}
		}
		if !hasNonKey {
			continue
		}

		// one finding per distinct determinant set
		reported := make(map[string]bool)
		for _, dep := range m.Dependencies {
			if dep.Source != core.SourceFK || len(dep.Determinant) == 0 {
				continue
			}
			det := keys.NewSet(dep.Determinant...)
			if !det.IsProperSubsetOf(pkSet) {
				continue
			}
			id := core.FieldList(det.Sorted())
			if reported[id] {
				continue
			}
			reported[id] = true

			findings = append(findings, core.Finding{
				Model: m.Name(),
				Message: fmt.Sprintf("Foreign key (%s) covers only part of the composite primary key (%s) of '%s'; non-key fields may depend on it alone",
					core.FieldList(dep.Determinant), core.FieldList(pk.Fields), m.Name()),
				Fix: core.Ptr(fmt.Sprintf("Move fields that depend only on (%s) into the referenced model",
					core.FieldList(dep.Determinant))),
			})
		}
	}

	return findings
}
