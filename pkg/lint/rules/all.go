package rules

// Import all rule subpackages to register them with the global registry.
// This file triggers all init() functions in the rule packages.
import (
	// Import rule groups - each registers its rules via init()
	_ "github.com/leapstack-labs/normaudit/pkg/lint/rules/invariant"
	_ "github.com/leapstack-labs/normaudit/pkg/lint/rules/nf1"
	_ "github.com/leapstack-labs/normaudit/pkg/lint/rules/nf2"
	_ "github.com/leapstack-labs/normaudit/pkg/lint/rules/nf3"
	_ "github.com/leapstack-labs/normaudit/pkg/lint/rules/quality"
)
