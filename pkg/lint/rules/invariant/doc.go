// Package invariant validates declared invariants against the contract.
//
//   - INVARIANT_UNKNOWN_MODEL: invariants name a model the schema lacks
//   - INVARIANT_UNKNOWN_FIELD: a dependency references a field the model lacks
//   - INVARIANT_DETERMINANT_NOT_ENFORCED: no primary key or unique constraint backs the determinant
//
// All findings are reported under 3NF.
package invariant
