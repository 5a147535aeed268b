// Package schema detects schema formats and builds constraint contracts from files.
//
// Format packages register a contract.Builder per file extension from init().
// Import pkg/schema/formats to register every built-in format:
//
//	import _ "github.com/leapstack-labs/normaudit/pkg/schema/formats"
package schema

import (
	"fmt"
	"os"

	"github.com/leapstack-labs/normaudit/pkg/contract"
	"github.com/leapstack-labs/normaudit/pkg/core"
)

// Load reads the schema at path and builds its normalized contract.
// Malformed input yields a *ParseError; unreadable files and unknown
// extensions yield other errors.
func Load(path string) (*core.Contract, error) {
	b, err := ForPath(path)
	if err != nil {
		return nil, err
	}

	src, err := os.ReadFile(path) //nolint:gosec // path is user-provided CLI input
	if err != nil {
		return nil, fmt.Errorf("failed to read schema: %w", err)
	}
	return Build(b, path, src)
}

// Build runs b over src and normalizes the result.
func Build(b contract.Builder, path string, src []byte) (*core.Contract, error) {
	c, err := b.Build(path, src)
	if err != nil {
		return nil, NewParseError(path, err)
	}

	normalized, err := contract.Normalize(c)
	if err != nil {
		return nil, NewParseError(path, err)
	}
	return normalized, nil
}
