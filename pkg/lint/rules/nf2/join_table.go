package nf2

import (
	"fmt"
	"strings"

	"github.com/leapstack-labs/normaudit/pkg/core"
	"github.com/leapstack-labs/normaudit/pkg/keys"
	"github.com/leapstack-labs/normaudit/pkg/lint"
)

func init() {
	lint.Register(JoinTableAttribute)
}

// JoinTableAttribute flags extra attributes on pure join tables.
var JoinTableAttribute = lint.RuleDef{
	ID:          core.RuleNF2JoinTableAttr,
	Name:        "join-table-attribute",
	Group:       "nf2",
	NormalForm:  core.NormalForm2NF,
	Description: "Join table carries attributes that are neither key nor foreign-key fields.",
	Severity:    core.SeverityWarning,
	Check:       checkJoinTableAttribute,
	Rationale:   "A table whose primary key is made entirely of foreign keys is an association. Extra columns frequently duplicate data of one side of the association.",
	BadExample:  "model PostTag {\n  postId  Int\n  tagId   Int\n  tagName String\n  @@id([postId, tagId])\n}",
	GoodExample: "model PostTag {\n  postId Int\n  tagId  Int\n  @@id([postId, tagId])\n}",
	Fix:         "Keep attributes of the association only when they depend on the whole key; move the rest to the referenced models.",
}

func checkJoinTableAttribute(ctx *lint.Context) []core.Finding {
	var findings []core.Finding

	for _, m := range ctx.Models() {
		pk, ok := m.PrimaryKey()
		if !ok || len(pk.Fields) < 2 {
			continue
		}

		allFK := true
		for _, f := range pk.Fields {
			if !m.IsForeignKeyField(f) {
				allFK = false
				break
			}
		}
		if !allFK {
			continue
		}

		pkSet := keys.NewSet(pk.Fields...)
		var extra []string
		for _, f := range m.Model.Fields {
			if !pkSet.Has(f.Name) && !m.IsForeignKeyField(f.Name) {
				extra = append(extra, f.Name)
			}
		}
		if len(extra) == 0 {
			continue
		}

		findings = append(findings, core.Finding{
			Model: m.Name(),
			Message: fmt.Sprintf("Join table '%s' carries non-key attributes: %s",
				m.Name(), strings.Join(extra, ", ")),
			Fix: core.Ptr(fmt.Sprintf("Check that %s depend on the whole key (%s); otherwise move them to the referenced model",
				strings.Join(extra, ", "), core.FieldList(pk.Fields))),
		})
	}

	return findings
}
