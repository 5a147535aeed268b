package nf1

import (
	"fmt"

	"github.com/leapstack-labs/normaudit/pkg/core"
	"github.com/leapstack-labs/normaudit/pkg/lint"
)

func init() {
	lint.Register(JSONRelation)
}

// JSONRelation flags JSON fields, which often store a nested relation.
var JSONRelation = lint.RuleDef{
	ID:          core.RuleNF1JSONRelation,
	Name:        "json-relation",
	Group:       "nf1",
	NormalForm:  core.NormalForm1NF,
	Description: "JSON field may hold a nested relation instead of atomic values.",
	Severity:    core.SeverityInfo,
	Check:       lint.PerField(isJSONField, formatJSONRelation),
	Rationale:   "A JSON document is a non-atomic value. When it holds lists or objects with their own identity, the data is a relation that cannot be constrained or indexed.",
	BadExample:  "model Order {\n  id    Int  @id\n  items Json\n}",
	GoodExample: "model OrderItem {\n  orderId Int\n  sku     String\n  @@id([orderId, sku])\n}",
	Fix:         "Move structured data into a related model keyed by the owning primary key.",
}

func isJSONField(_ *lint.ModelContext, f core.FieldContract) bool {
	return f.Type == core.FieldTypeJSON
}

func formatJSONRelation(m *lint.ModelContext, f core.FieldContract) (string, string) {
	return fmt.Sprintf("Field '%s.%s' is stored as JSON and may hide a nested relation", m.Name(), f.Name),
		fmt.Sprintf("If '%s' holds repeating or structured values, move them into a related model referencing %s", f.Name, m.Name())
}
