// Package nf3 provides third-normal-form and Boyce-Codd checks.
//
// Both rules consume the merged dependency set of each model:
//
//   - NF3_VIOLATION: a non-key field set determines another non-key field
//   - BCNF_VIOLATION: a declared dependency whose determinant is not a candidate key
//
// BCNF_VIOLATION considers invariant-declared dependencies only.
// Dependencies that name fields missing from the model are skipped here;
// the invariant rules report them.
package nf3
