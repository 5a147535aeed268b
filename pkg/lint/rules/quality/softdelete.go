package quality

import (
	"fmt"
	"slices"

	"github.com/leapstack-labs/normaudit/pkg/core"
	"github.com/leapstack-labs/normaudit/pkg/lint"
)

func init() {
	lint.Register(SoftDeleteMissingInUnique)
	lint.Register(SoftDeleteAtWithoutBy)
	lint.Register(SoftDeleteByWithoutAt)
}

// Soft-delete marker names, snake_case and camelCase.
var (
	deletedAtNames = []string{"deleted_at", "deletedAt"}
	deletedByNames = []string{"deleted_by", "deletedBy"}
)

// SoftDeleteMissingInUnique flags unique constraints that ignore the soft-delete marker.
var SoftDeleteMissingInUnique = lint.RuleDef{
	ID:          core.RuleSoftDeleteUnique,
	Name:        "softdelete-missing-in-unique",
	Group:       "quality",
	NormalForm:  core.NormalFormSchema,
	Description: "Unique constraint on a soft-deleted model does not include the deletion timestamp.",
	Severity:    core.SeverityWarning,
	Check:       checkSoftDeleteMissingInUnique,
	Rationale:   "Soft-deleted rows still occupy unique values, so a value cannot be reused after its row is deleted.",
	BadExample:  "CREATE TABLE users (id int PRIMARY KEY, email text UNIQUE, deleted_at timestamp);",
	GoodExample: "CREATE TABLE users (id int PRIMARY KEY, email text, deleted_at timestamp, UNIQUE (email, deleted_at));",
	Fix:         "Include the deletion timestamp in the unique constraint or use a partial unique index.",
}

// SoftDeleteAtWithoutBy flags a deletion timestamp without a deleting actor.
var SoftDeleteAtWithoutBy = lint.RuleDef{
	ID:          core.RuleSoftDeleteAtNoBy,
	Name:        "softdelete-at-without-by",
	Group:       "quality",
	NormalForm:  core.NormalFormSchema,
	Description: "Model has a deletion timestamp but no field recording who deleted the row.",
	Severity:    core.SeverityInfo,
	Check:       checkSoftDeleteAtWithoutBy,
	Fix:         "Add a deleted_by field next to deleted_at.",
}

// SoftDeleteByWithoutAt flags a deleting actor without a deletion timestamp.
var SoftDeleteByWithoutAt = lint.RuleDef{
	ID:          core.RuleSoftDeleteByNoAt,
	Name:        "softdelete-by-without-at",
	Group:       "quality",
	NormalForm:  core.NormalFormSchema,
	Description: "Model records who deleted a row but not when.",
	Severity:    core.SeverityWarning,
	Check:       checkSoftDeleteByWithoutAt,
	Fix:         "Add a nullable deleted_at timestamp next to deleted_by.",
}

// findField returns the first field of m named like one of names.
func findField(m *core.ModelContract, names []string) (core.FieldContract, bool) {
	for _, n := range names {
		if f, ok := m.Field(n); ok {
			return *f, true
		}
	}
	return core.FieldContract{}, false
}

func checkSoftDeleteMissingInUnique(ctx *lint.Context) []core.Finding {
	var findings []core.Finding

	for _, m := range ctx.Models() {
		marker, ok := findField(m.Model, deletedAtNames)
		if !ok || marker.Type != core.FieldTypeDateTime {
			continue
		}
		for _, u := range m.Model.UniqueConstraints {
			if slices.Contains(u.Fields, marker.Name) {
				continue
			}
			fields := core.FieldList(u.Fields)
			findings = append(findings, core.Finding{
				Model: m.Name(),
				Field: core.Ptr(fields),
				Message: fmt.Sprintf("Unique constraint (%s) on soft-deleted model '%s' does not include '%s'",
					fields, m.Name(), marker.Name),
				Fix: core.Ptr(fmt.Sprintf("Add '%s' to the unique constraint (%s) or make it a partial index excluding deleted rows",
					marker.Name, fields)),
			})
		}
	}

	return findings
}

func checkSoftDeleteAtWithoutBy(ctx *lint.Context) []core.Finding {
	var findings []core.Finding
	for _, m := range ctx.Models() {
		at, hasAt := findField(m.Model, deletedAtNames)
		_, hasBy := findField(m.Model, deletedByNames)
		if !hasAt || hasBy {
			continue
		}
		findings = append(findings, core.Finding{
			Model:   m.Name(),
			Field:   core.Ptr(at.Name),
			Message: fmt.Sprintf("Model '%s' has '%s' but no deleted_by field", m.Name(), at.Name),
			Fix:     core.Ptr(fmt.Sprintf("Add a nullable '%s' field recording who deleted the row", pairName(at.Name, "by"))),
		})
	}
	return findings
}

func checkSoftDeleteByWithoutAt(ctx *lint.Context) []core.Finding {
	var findings []core.Finding
	for _, m := range ctx.Models() {
		by, hasBy := findField(m.Model, deletedByNames)
		_, hasAt := findField(m.Model, deletedAtNames)
		if !hasBy || hasAt {
			continue
		}
		findings = append(findings, core.Finding{
			Model:   m.Name(),
			Field:   core.Ptr(by.Name),
			Message: fmt.Sprintf("Model '%s' has '%s' but no deleted_at field", m.Name(), by.Name),
			Fix:     core.Ptr(fmt.Sprintf("Add a nullable '%s' timestamp recording when the row was deleted", pairName(by.Name, "at"))),
		})
	}
	return findings
}

// pairName returns the partner marker name in the same naming style as name.
func pairName(name, suffix string) string {
	if name == "deleted_at" || name == "deleted_by" {
		return "deleted_" + suffix
	}
	if suffix == "at" {
		return "deletedAt"
	}
	return "deletedBy"
}
