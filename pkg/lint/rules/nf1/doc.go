// Package nf1 provides first-normal-form heuristics.
//
// These rules look only at field names and types:
//
//   - NF1_JSON_RELATION_SUSPECTED: JSON field that may hide a nested relation
//   - NF1_LIST_IN_STRING_SUSPECTED: String field whose name suggests a delimited list
//   - NF1_REPEATING_GROUP_SUSPECTED: numbered fields (phone1, phone2) forming a repeating group
package nf1
