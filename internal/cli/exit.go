package cli

import (
	"errors"

	"github.com/leapstack-labs/normaudit/internal/cli/commands"
	"github.com/leapstack-labs/normaudit/pkg/invariants"
	"github.com/leapstack-labs/normaudit/pkg/schema"
)

// Process exit codes.
const (
	ExitOK       = 0
	ExitFindings = 1 // findings at or above --fail-on
	ExitUsage    = 2 // bad flags, unreadable files, invalid configuration
	ExitParse    = 3 // malformed schema or invariants
)

// ExitError carries an explicit exit code.
type ExitError struct {
	Code int
	Err  error
}

func (e *ExitError) Error() string {
	if e.Err == nil {
		return "exit status"
	}
	return e.Err.Error()
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

// ExitCode maps an error returned by a command to a process exit code.
func ExitCode(err error) int {
	if err == nil {
		return ExitOK
	}

	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}

	var findingsErr *commands.FindingsError
	if errors.As(err, &findingsErr) {
		return ExitFindings
	}

	var schemaErr *schema.ParseError
	var invErr *invariants.ParseError
	if errors.As(err, &schemaErr) || errors.As(err, &invErr) {
		return ExitParse
	}

	return ExitUsage
}
