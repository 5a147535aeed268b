package nf3

import (
	"github.com/leapstack-labs/normaudit/pkg/core"
	"github.com/leapstack-labs/normaudit/pkg/fd"
	"github.com/leapstack-labs/normaudit/pkg/keys"
	"github.com/leapstack-labs/normaudit/pkg/lint"
)

// localDependents returns the dependents of dep that name fields of the model,
// excluding those already in the determinant.
func localDependents(dep core.FunctionalDependency) []string {
	det := keys.NewSet(dep.Determinant...)
	var out []string
	for _, d := range fd.LocalFields(dep.Dependent) {
		if !det.Has(d) {
			out = append(out, d)
		}
	}
	return out
}

// referencesUnknown reports whether dep names a field the model does not declare.
// Such dependencies are reported by the invariant rules instead.
func referencesUnknown(ctx *lint.Context, m *lint.ModelContext, dep core.FunctionalDependency) bool {
	return len(m.UnknownFields(dep.Determinant)) > 0 ||
		len(ctx.UnknownDependents(m, dep.Dependent)) > 0
}
