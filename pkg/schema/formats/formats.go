// Package formats registers every built-in schema format with pkg/schema.
package formats

import (
	// Blank imports trigger init() functions that register builders.
	_ "github.com/leapstack-labs/normaudit/pkg/schema/ddl"    // registers .sql, .ddl
	_ "github.com/leapstack-labs/normaudit/pkg/schema/prisma" // registers .prisma
)
