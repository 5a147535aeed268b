// Package contract builds and normalizes constraint contracts.
//
// Schema parsers implement Builder and use the lookup tables in this package
// (CanonicalSQLType, CanonicalPrismaType, ParseAction) so that both input
// formats agree on field types and referential actions. Normalize produces
// the deterministic form every analysis stage consumes.
package contract
