package contract

import (
	"slices"
	"sort"
	"strings"

	"github.com/leapstack-labs/normaudit/pkg/core"
)

// Normalize returns a deep copy of c in canonical order.
//
// Models are sorted by name and fields by name; unique constraints, indexes and
// foreign keys are sorted by their comma-joined field list. Duplicate foreign
// keys are merged, composite flags are recomputed, referential actions default
// to NoAction and nil slices become empty.
// The input is never modified.
func Normalize(c *core.Contract) (*core.Contract, error) {
	out := &core.Contract{Models: []core.ModelContract{}}
	if c == nil {
		return out, nil
	}

	seen := make(map[string]bool, len(c.Models))
	for _, m := range c.Models {
		if seen[m.Name] {
			return nil, &DuplicateModelError{Name: m.Name}
		}
		seen[m.Name] = true
		out.Models = append(out.Models, normalizeModel(m))
	}

	sort.SliceStable(out.Models, func(i, j int) bool {
		return out.Models[i].Name < out.Models[j].Name
	})
	return out, nil
}

func normalizeModel(m core.ModelContract) core.ModelContract {
	nm := core.ModelContract{
		Name:              m.Name,
		Fields:            slices.Clone(m.Fields),
		UniqueConstraints: make([]core.UniqueConstraint, 0, len(m.UniqueConstraints)),
		Indexes:           make([]core.IndexConstraint, 0, len(m.Indexes)),
		ForeignKeys:       make([]core.ForeignKeyConstraint, 0, len(m.ForeignKeys)),
	}
	if nm.Fields == nil {
		nm.Fields = []core.FieldContract{}
	}
	sort.SliceStable(nm.Fields, func(i, j int) bool {
		return nm.Fields[i].Name < nm.Fields[j].Name
	})

	if m.PrimaryKey != nil && len(m.PrimaryKey.Fields) > 0 {
		nm.PrimaryKey = &core.PrimaryKeyConstraint{
			Fields:      slices.Clone(m.PrimaryKey.Fields),
			IsComposite: len(m.PrimaryKey.Fields) > 1,
			Name:        m.PrimaryKey.Name,
		}
	}

	for _, u := range m.UniqueConstraints {
		nm.UniqueConstraints = append(nm.UniqueConstraints, core.UniqueConstraint{
			Fields:      slices.Clone(u.Fields),
			IsComposite: len(u.Fields) > 1,
			Name:        u.Name,
		})
	}
	sort.SliceStable(nm.UniqueConstraints, func(i, j int) bool {
		a, b := nm.UniqueConstraints[i], nm.UniqueConstraints[j]
		return lessByFields(a.Fields, b.Fields, a.Name, b.Name)
	})

	for _, idx := range m.Indexes {
		nm.Indexes = append(nm.Indexes, core.IndexConstraint{
			Fields: slices.Clone(idx.Fields),
			Name:   idx.Name,
		})
	}
	sort.SliceStable(nm.Indexes, func(i, j int) bool {
		a, b := nm.Indexes[i], nm.Indexes[j]
		return lessByFields(a.Fields, b.Fields, a.Name, b.Name)
	})

	for _, fk := range m.ForeignKeys {
		nm.ForeignKeys = append(nm.ForeignKeys, core.ForeignKeyConstraint{
			Fields:           slices.Clone(fk.Fields),
			ReferencedModel:  fk.ReferencedModel,
			ReferencedFields: slices.Clone(fk.ReferencedFields),
			OnDelete:         fk.OnDelete.OrDefault(),
			OnUpdate:         fk.OnUpdate.OrDefault(),
			Name:             fk.Name,
		})
	}
	sort.SliceStable(nm.ForeignKeys, func(i, j int) bool {
		a, b := nm.ForeignKeys[i], nm.ForeignKeys[j]
		if ka, kb := core.FieldList(a.Fields), core.FieldList(b.Fields); ka != kb {
			return ka < kb
		}
		if a.ReferencedModel != b.ReferencedModel {
			return a.ReferencedModel < b.ReferencedModel
		}
		if ra, rb := core.FieldList(a.ReferencedFields), core.FieldList(b.ReferencedFields); ra != rb {
			return ra < rb
		}
		return a.Name < b.Name
	})
	nm.ForeignKeys = dedupeForeignKeys(nm.ForeignKeys)

	return nm
}

// dedupeForeignKeys merges sorted foreign keys that share fields, referenced
// model and referenced fields. The merged key keeps the first name and the
// first action other than NoAction.
func dedupeForeignKeys(fks []core.ForeignKeyConstraint) []core.ForeignKeyConstraint {
	out := fks[:0]
	for _, fk := range fks {
		if n := len(out); n > 0 && sameReference(out[n-1], fk) {
			prev := &out[n-1]
			if prev.Name == "" {
				prev.Name = fk.Name
			}
			if prev.OnDelete == core.ActionNoAction {
				prev.OnDelete = fk.OnDelete
			}
			if prev.OnUpdate == core.ActionNoAction {
				prev.OnUpdate = fk.OnUpdate
			}
			continue
		}
		out = append(out, fk)
	}
	return out
}

func sameReference(a, b core.ForeignKeyConstraint) bool {
	return a.ReferencedModel == b.ReferencedModel &&
		slices.Equal(a.Fields, b.Fields) &&
		slices.Equal(a.ReferencedFields, b.ReferencedFields)
}

func lessByFields(a, b []string, nameA, nameB string) bool {
	if c := strings.Compare(core.FieldList(a), core.FieldList(b)); c != 0 {
		return c < 0
	}
	return nameA < nameB
}
