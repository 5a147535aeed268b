package core

import "sort"

// =============================================================================
// Functional dependencies and candidate keys
// =============================================================================

// DependencySource records where a functional dependency came from.
type DependencySource string

// Dependency sources.
const (
	SourcePK        DependencySource = "pk"
	SourceUnique    DependencySource = "unique"
	SourceFK        DependencySource = "fk"
	SourceInvariant DependencySource = "invariant"
)

// FunctionalDependency asserts that Determinant determines Dependent on Model.
// FK-sourced dependents are "Model.field" tokens naming the referenced row.
type FunctionalDependency struct {
	Model       string           `json:"model"`
	Determinant []string         `json:"determinant"`
	Dependent   []string         `json:"dependent"`
	Source      DependencySource `json:"source"`
	Note        string           `json:"note,omitempty"`
}

// CandidateKey is a declared field set that uniquely identifies a row.
type CandidateKey struct {
	Model  string           `json:"model"`
	Fields []string         `json:"fields"`
	Source DependencySource `json:"source"`
}

// =============================================================================
// Invariants
// =============================================================================

// Invariants are functional dependencies declared outside the schema, keyed by model name.
type Invariants struct {
	Models map[string]ModelInvariants
}

// ModelInvariants holds the declared dependencies of one model.
type ModelInvariants struct {
	FunctionalDependencies []DeclaredDependency `json:"functionalDependencies,omitempty" mapstructure:"functionalDependencies"`
}

// DeclaredDependency is one functional dependency from an invariants file.
type DeclaredDependency struct {
	Determinant []string `json:"determinant" mapstructure:"determinant"`
	Dependent   []string `json:"dependent" mapstructure:"dependent"`
	Note        string   `json:"note,omitempty" mapstructure:"note"`
}

// ModelNames returns the declared model names in sorted order.
func (inv *Invariants) ModelNames() []string {
	if inv == nil {
		return nil
	}
	names := make([]string, 0, len(inv.Models))
	for name := range inv.Models {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// IsEmpty reports whether no dependencies are declared.
func (inv *Invariants) IsEmpty() bool {
	return inv == nil || len(inv.Models) == 0
}
