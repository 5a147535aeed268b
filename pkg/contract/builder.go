package contract

import (
	"fmt"

	"github.com/leapstack-labs/normaudit/pkg/core"
)

// Builder turns raw schema text into a contract.
// Implementations return *schema.ParseError style errors for malformed input.
type Builder interface {
	// Format returns the schema format name, e.g. "sql" or "prisma".
	Format() string

	// Build parses src (read from filename) into a contract.
	Build(filename string, src []byte) (*core.Contract, error)
}

// DuplicateModelError is returned when two models share a name.
type DuplicateModelError struct {
	Name string
}

func (e *DuplicateModelError) Error() string {
	return fmt.Sprintf("duplicate model %q", e.Name)
}
