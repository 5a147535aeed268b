// Package nf2 provides second-normal-form checks.
//
// Both rules apply only to models with a composite primary key:
//
//   - NF2_PARTIAL_DEPENDENCY_SUSPECTED: a foreign key covers part of the primary key
//   - NF2_JOIN_TABLE_DUPLICATED_ATTR_SUSPECTED: a join table carries extra attributes
package nf2
