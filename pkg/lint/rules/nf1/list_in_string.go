package nf1

import (
	"fmt"
	"strings"

	"github.com/leapstack-labs/normaudit/pkg/core"
	"github.com/leapstack-labs/normaudit/pkg/lint"
)

func init() {
	lint.Register(ListInString)
}

// ListInString flags String fields named like collections.
var ListInString = lint.RuleDef{
	ID:          core.RuleNF1ListInString,
	Name:        "list-in-string",
	Group:       "nf1",
	NormalForm:  core.NormalForm1NF,
	Description: "String field name suggests it stores a delimited list.",
	Severity:    core.SeverityInfo,
	Check:       lint.PerField(isListInString, formatListInString),
	Rationale:   "Comma-separated values in a single column violate atomicity: members cannot be referenced, deduplicated or indexed individually.",
	BadExample:  "CREATE TABLE posts (id int PRIMARY KEY, tag_ids text);",
	GoodExample: "CREATE TABLE post_tags (post_id int, tag_id int, PRIMARY KEY (post_id, tag_id));",
	Fix:         "Store each member as its own row in a related table.",
}

// collectionWords are trailing name words that suggest a collection.
var collectionWords = map[string]bool{
	"ids": true, "list": true, "csv": true, "array": true, "set": true,
	"tags": true, "items": true, "values": true, "codes": true,
	"emails": true, "phones": true, "numbers": true, "roles": true,
	"permissions": true, "categories": true, "keywords": true, "urls": true,
}

// collectionSuffixes catch spellings the word split misses, e.g. "tagIDs".
var collectionSuffixes = []string{"Ids", "IDs", "_ids", "List", "_list"}

func isListInString(_ *lint.ModelContext, f core.FieldContract) bool {
	if f.Type != core.FieldTypeString || f.IsList {
		return false
	}
	if collectionWords[lastWord(f.Name)] {
		return true
	}
	for _, suffix := range collectionSuffixes {
		if strings.HasSuffix(f.Name, suffix) && len(f.Name) > len(suffix) {
			return true
		}
	}
	return false
}

func formatListInString(m *lint.ModelContext, f core.FieldContract) (string, string) {
	return fmt.Sprintf("Field '%s.%s' is a String whose name suggests a list of values", m.Name(), f.Name),
		fmt.Sprintf("Store each value of '%s' as a row in a related model (or use a native list type)", f.Name)
}
