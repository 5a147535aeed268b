// Package rules provides the normalization audit rule implementations.
//
// Rules are organized by what they check:
//   - nf1: first normal form heuristics (NF1_*)
//   - nf2: second normal form checks (NF2_*)
//   - nf3: third and Boyce-Codd normal form checks (NF3_VIOLATION, BCNF_VIOLATION)
//   - invariant: declared invariant validation (INVARIANT_*)
//   - quality: schema-quality checks (FK_MISSING_INDEX, SOFTDELETE_*)
//
// To register all rules with the global lint registry, import this package
// with a blank identifier:
//
//	import _ "github.com/leapstack-labs/normaudit/pkg/lint/rules"
//
// Individual groups can also be imported:
//
//	import _ "github.com/leapstack-labs/normaudit/pkg/lint/rules/nf1"
package rules
