package nf1

import (
	"fmt"
	"strings"

	"github.com/leapstack-labs/normaudit/pkg/core"
	"github.com/leapstack-labs/normaudit/pkg/lint"
)

func init() {
	lint.Register(RepeatingGroup)
}

// RepeatingGroup flags numbered fields that repeat one attribute.
var RepeatingGroup = lint.RuleDef{
	ID:          core.RuleNF1RepeatingGroup,
	Name:        "repeating-group",
	Group:       "nf1",
	NormalForm:  core.NormalForm1NF,
	Description: "Numbered fields form a repeating group.",
	Severity:    core.SeverityInfo,
	Check:       checkRepeatingGroup,
	Rationale:   "Columns like phone1, phone2, phone3 encode a list in the table shape. The schema caps the list length and queries must repeat every predicate.",
	BadExample:  "CREATE TABLE contacts (id int PRIMARY KEY, phone1 text, phone2 text);",
	GoodExample: "CREATE TABLE contact_phones (contact_id int, position int, phone text, PRIMARY KEY (contact_id, position));",
	Fix:         "Move the repeated attribute into a child table with one row per value.",
}

// checkRepeatingGroup emits one finding per model per base name with two or more members.
func checkRepeatingGroup(ctx *lint.Context) []core.Finding {
	var findings []core.Finding

	for _, m := range ctx.Models() {
		groups := make(map[string][]string)
		var order []string
		for _, f := range m.Model.Fields {
			base, ok := splitNumberSuffix(f.Name)
			if !ok {
				continue
			}
			if _, seen := groups[base]; !seen {
				order = append(order, base)
			}
			groups[base] = append(groups[base], f.Name)
		}

		for _, base := range order {
			members := groups[base]
			if len(members) < 2 {
				continue
			}
			findings = append(findings, core.Finding{
				Model: m.Name(),
				Message: fmt.Sprintf("Fields %s of '%s' form a repeating group '%s'",
					strings.Join(members, ", "), m.Name(), base),
				Fix: core.Ptr(fmt.Sprintf("Move '%s' values into a child model with one row per value", base)),
			})
		}
	}

	return findings
}
