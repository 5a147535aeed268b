package lint

import (
	"sort"

	"github.com/leapstack-labs/normaudit/pkg/core"
)

// SortFindings orders findings by model, normal-form rank, rule code,
// field (model-level findings first) and message. The sort is stable.
func SortFindings(findings []core.Finding) {
	sort.SliceStable(findings, func(i, j int) bool {
		return lessFinding(findings[i], findings[j])
	})
}

func lessFinding(a, b core.Finding) bool {
	if a.Model != b.Model {
		return a.Model < b.Model
	}
	if ra, rb := a.NormalForm.Rank(), b.NormalForm.Rank(); ra != rb {
		return ra < rb
	}
	if a.Rule != b.Rule {
		return a.Rule < b.Rule
	}
	if (a.Field == nil) != (b.Field == nil) {
		return a.Field == nil
	}
	if a.Field != nil && *a.Field != *b.Field {
		return *a.Field < *b.Field
	}
	return a.Message < b.Message
}
