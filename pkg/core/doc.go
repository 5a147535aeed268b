// Package core defines the shared language of normaudit.
//
// This package contains:
//   - The constraint contract (Contract, ModelContract, FieldContract and constraints)
//   - Derived facts (FunctionalDependency, CandidateKey)
//   - Declared invariants (Invariants)
//   - Audit output (Finding, AuditResult) and their enums
//
// The Golden Rule: pkg/core imports ONLY stdlib.
// All other packages depend on core, not the reverse.
package core
