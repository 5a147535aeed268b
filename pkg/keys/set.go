package keys

import "sort"

// Set is an unordered set of field names.
type Set map[string]struct{}

// NewSet returns a set holding fields.
func NewSet(fields ...string) Set {
	s := make(Set, len(fields))
	s.Add(fields...)
	return s
}

// Add inserts fields into the set.
func (s Set) Add(fields ...string) {
	for _, f := range fields {
		s[f] = struct{}{}
	}
}

// Has reports whether f is in the set.
func (s Set) Has(f string) bool {
	_, ok := s[f]
	return ok
}

// ContainsAll reports whether every field is in the set.
func (s Set) ContainsAll(fields []string) bool {
	for _, f := range fields {
		if !s.Has(f) {
			return false
		}
	}
	return true
}

// ContainsAny reports whether at least one field is in the set.
func (s Set) ContainsAny(fields []string) bool {
	for _, f := range fields {
		if s.Has(f) {
			return true
		}
	}
	return false
}

// Equal reports whether both sets hold the same fields.
func (s Set) Equal(o Set) bool {
	if len(s) != len(o) {
		return false
	}
	for f := range s {
		if !o.Has(f) {
			return false
		}
	}
	return true
}

// IsProperSubsetOf reports whether s is a proper subset of o.
func (s Set) IsProperSubsetOf(o Set) bool {
	if len(s) >= len(o) {
		return false
	}
	for f := range s {
		if !o.Has(f) {
			return false
		}
	}
	return true
}

// Sorted returns the fields in sorted order.
func (s Set) Sorted() []string {
	out := make([]string, 0, len(s))
	for f := range s {
		out = append(out, f)
	}
	sort.Strings(out)
	return out
}

// IsLeftmostPrefix reports whether prefix equals, element for element,
// the first len(prefix) entries of fields.
func IsLeftmostPrefix(prefix, fields []string) bool {
	if len(prefix) == 0 || len(prefix) > len(fields) {
		return false
	}
	for i := range prefix {
		if prefix[i] != fields[i] {
			return false
		}
	}
	return true
}
