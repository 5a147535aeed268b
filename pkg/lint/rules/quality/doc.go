// Package quality provides schema-quality rules that are not tied to a normal form.
//
//   - FK_MISSING_INDEX: foreign key fields are not a leftmost prefix of any key or index
//   - SOFTDELETE_MISSING_IN_UNIQUE: unique constraint ignores the soft-delete marker
//   - SOFTDELETE_AT_WITHOUT_BY: deleted_at without deleted_by
//   - SOFTDELETE_BY_WITHOUT_AT: deleted_by without deleted_at
package quality
