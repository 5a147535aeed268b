package quality

import (
	"fmt"

	"github.com/leapstack-labs/normaudit/pkg/core"
	"github.com/leapstack-labs/normaudit/pkg/keys"
	"github.com/leapstack-labs/normaudit/pkg/lint"
)

func init() {
	lint.Register(FKMissingIndex)
}

// FKMissingIndex flags foreign keys that no index can serve.
var FKMissingIndex = lint.RuleDef{
	ID:          core.RuleFKMissingIndex,
	Name:        "fk-missing-index",
	Group:       "quality",
	NormalForm:  core.NormalFormSchema,
	Description: "Foreign key fields are not the leftmost prefix of any primary key, unique constraint or index.",
	Severity:    core.SeverityWarning,
	Check:       checkFKMissingIndex,
	Rationale:   "Joins on the foreign key and referential checks on delete scan the whole table unless an index starts with the foreign key fields.",
	BadExample:  "model Post {\n  id       Int @id\n  authorId Int\n  author   User @relation(fields: [authorId], references: [id])\n}",
	GoodExample: "model Post {\n  id       Int @id\n  authorId Int\n  author   User @relation(fields: [authorId], references: [id])\n  @@index([authorId])\n}",
	Fix:         "Add an index whose leading fields are the foreign key fields.",
}

func checkFKMissingIndex(ctx *lint.Context) []core.Finding {
	var findings []core.Finding

	for _, m := range ctx.Models() {
		for _, fk := range m.Model.ForeignKeys {
			if len(fk.Fields) == 0 || isIndexed(m.Model, fk.Fields) {
				continue
			}
			fields := core.FieldList(fk.Fields)
			findings = append(findings, core.Finding{
				Model:   m.Name(),
				Field:   core.Ptr(fields),
				Message: fmt.Sprintf("Foreign key (%s) on '%s' referencing '%s' has no supporting index", fields, m.Name(), fk.ReferencedModel),
				Fix:     core.Ptr(fmt.Sprintf("Add an index on (%s)", fields)),
			})
		}
	}

	return findings
}

// isIndexed reports whether fields are a leftmost prefix of the primary key,
// a unique constraint or an index of m.
func isIndexed(m *core.ModelContract, fields []string) bool {
	if m.PrimaryKey != nil && keys.IsLeftmostPrefix(fields, m.PrimaryKey.Fields) {
		return true
	}
	for _, u := range m.UniqueConstraints {
		if keys.IsLeftmostPrefix(fields, u.Fields) {
			return true
		}
	}
	for _, idx := range m.Indexes {
		if keys.IsLeftmostPrefix(fields, idx.Fields) {
			return true
		}
	}
	return false
}
