// Package fd derives functional dependencies from a contract and declared invariants.
//
// Only directly stated dependencies are produced: primary key and unique
// constraints determine the rest of their row, foreign keys determine the
// referenced row, and invariants contribute their entries verbatim. No closure
// or transitive derivation is computed.
package fd

import (
	"github.com/leapstack-labs/normaudit/pkg/core"
	"github.com/leapstack-labs/normaudit/pkg/keys"
)

// Infer returns schema-derived dependencies for every model in contract order,
// followed by invariant dependencies (models sorted by name, entries in declared order).
func Infer(c *core.Contract, inv *core.Invariants) []core.FunctionalDependency {
	var fds []core.FunctionalDependency
	if c != nil {
		for i := range c.Models {
			fds = append(fds, ForModel(&c.Models[i])...)
		}
	}
	return append(fds, FromInvariants(inv)...)
}

// ForModel returns the pk, unique and fk dependencies of one model.
// Dependencies with an empty dependent set are omitted.
func ForModel(m *core.ModelContract) []core.FunctionalDependency {
	var fds []core.FunctionalDependency

	if m.PrimaryKey != nil && len(m.PrimaryKey.Fields) > 0 {
		if rest := fieldsExcept(m, keys.NewSet(m.PrimaryKey.Fields...)); len(rest) > 0 {
			fds = append(fds, core.FunctionalDependency{
				Model:       m.Name,
				Determinant: append([]string(nil), m.PrimaryKey.Fields...),
				Dependent:   rest,
				Source:      core.SourcePK,
			})
		}
	}

	for _, u := range m.UniqueConstraints {
		if len(u.Fields) == 0 {
			continue
		}
		if rest := fieldsExcept(m, keys.NewSet(u.Fields...)); len(rest) > 0 {
			fds = append(fds, core.FunctionalDependency{
				Model:       m.Name,
				Determinant: append([]string(nil), u.Fields...),
				Dependent:   rest,
				Source:      core.SourceUnique,
			})
		}
	}

	for _, fk := range m.ForeignKeys {
		if len(fk.Fields) == 0 || len(fk.ReferencedFields) == 0 {
			continue
		}
		dependent := make([]string, len(fk.ReferencedFields))
		for i, rf := range fk.ReferencedFields {
			dependent[i] = QualifiedField(fk.ReferencedModel, rf)
		}
		fds = append(fds, core.FunctionalDependency{
			Model:       m.Name,
			Determinant: append([]string(nil), fk.Fields...),
			Dependent:   dependent,
			Source:      core.SourceFK,
		})
	}

	return fds
}

// FromInvariants returns one invariant-sourced dependency per declared entry.
// Entries are not validated against the contract.
func FromInvariants(inv *core.Invariants) []core.FunctionalDependency {
	var fds []core.FunctionalDependency
	for _, model := range inv.ModelNames() {
		for _, d := range inv.Models[model].FunctionalDependencies {
			fds = append(fds, core.FunctionalDependency{
				Model:       model,
				Determinant: append([]string(nil), d.Determinant...),
				Dependent:   append([]string(nil), d.Dependent...),
				Source:      core.SourceInvariant,
				Note:        d.Note,
			})
		}
	}
	return fds
}

// ByModel groups dependencies by model, preserving order within each model.
func ByModel(fds []core.FunctionalDependency) map[string][]core.FunctionalDependency {
	out := make(map[string][]core.FunctionalDependency)
	for _, d := range fds {
		out[d.Model] = append(out[d.Model], d)
	}
	return out
}

func fieldsExcept(m *core.ModelContract, exclude keys.Set) []string {
	var rest []string
	for _, f := range m.Fields {
		if !exclude.Has(f.Name) {
			rest = append(rest, f.Name)
		}
	}
	return rest
}
