// Package lint provides the audit rule framework.
//
// # Architecture
//
// The lint package has two layers:
//
//  1. Root package (pkg/lint/): the Rule contract, the registry, analyzer
//     configuration, the analysis Context and finding aggregation
//  2. Rule groups (pkg/lint/rules/...): one package per normal form plus
//     invariant validation and schema quality
//
// # Rule Registration
//
// Rules are registered via init() functions when their packages are imported:
//
//	import _ "github.com/leapstack-labs/normaudit/pkg/lint/rules"
//
// # Rule Groups
//
//   - nf1: 1NF heuristics (JSON relations, lists in strings, repeating groups)
//   - nf2: 2NF checks on composite primary keys
//   - nf3: 3NF and BCNF checks over functional dependencies
//   - invariant: validation of declared invariants against the contract
//   - quality: schema-quality checks (FK indexes, soft delete)
//
// # Configuration
//
// Use Config to control which rules are enabled and their severity:
//
//	config := lint.NewConfig()
//	config.Disable(core.RuleNF1JSONRelation)
//	config.SetSeverity(core.RuleFKMissingIndex, core.SeverityInfo)
//
// # Creating Custom Rules
//
// Describe the rule with a RuleDef and register it:
//
//	func init() {
//		lint.Register(lint.RuleDef{
//			ID:          "MY_RULE",
//			Name:        "my-rule",
//			Group:       "custom",
//			NormalForm:  core.NormalFormSchema,
//			Description: "My custom rule description",
//			Severity:    core.SeverityWarning,
//			Check:       checkMyRule,
//		})
//	}
//
// Rules that inspect one field at a time can use PerField to pair a
// predicate with a message formatter.
package lint
