// Package keys extracts declared candidate keys and answers set questions about them.
//
// Only declared keys are returned: the primary key and each unique constraint.
// Keys implied by other constraints are not inferred.
package keys

import "github.com/leapstack-labs/normaudit/pkg/core"

// Extract returns the candidate keys of the named model.
// An unknown model has no keys.
func Extract(c *core.Contract, model string) []core.CandidateKey {
	m, ok := c.Model(model)
	if !ok {
		return nil
	}
	return ForModel(m)
}

// ForModel returns the primary key (source pk) followed by every unique
// constraint (source unique), in declaration order.
func ForModel(m *core.ModelContract) []core.CandidateKey {
	var ks []core.CandidateKey
	if m.PrimaryKey != nil && len(m.PrimaryKey.Fields) > 0 {
		ks = append(ks, core.CandidateKey{
			Model:  m.Name,
			Fields: append([]string(nil), m.PrimaryKey.Fields...),
			Source: core.SourcePK,
		})
	}
	for _, u := range m.UniqueConstraints {
		if len(u.Fields) == 0 {
			continue
		}
		ks = append(ks, core.CandidateKey{
			Model:  m.Name,
			Fields: append([]string(nil), u.Fields...),
			Source: core.SourceUnique,
		})
	}
	return ks
}

// PrimaryKey returns the pk-sourced key, if any.
func PrimaryKey(ks []core.CandidateKey) (core.CandidateKey, bool) {
	for _, k := range ks {
		if k.Source == core.SourcePK {
			return k, true
		}
	}
	return core.CandidateKey{}, false
}

// Fields returns the set of fields that belong to at least one key.
func Fields(ks []core.CandidateKey) Set {
	s := make(Set)
	for _, k := range ks {
		s.Add(k.Fields...)
	}
	return s
}

// Matches reports whether fields equal, as a set, the fields of some key.
func Matches(ks []core.CandidateKey, fields []string) bool {
	want := NewSet(fields...)
	for _, k := range ks {
		if NewSet(k.Fields...).Equal(want) {
			return true
		}
	}
	return false
}

// Covers reports whether fields contain every field of some key,
// i.e. whether fields form a superkey of a declared key.
func Covers(ks []core.CandidateKey, fields []string) bool {
	have := NewSet(fields...)
	for _, k := range ks {
		if have.ContainsAll(k.Fields) {
			return true
		}
	}
	return false
}
