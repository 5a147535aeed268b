// Package invariants loads declared functional dependencies from JSON or YAML.
//
// The document shape is
//
//	{ "<Model>": { "functionalDependencies": [ { "determinant": [...], "dependent": [...], "note": "..." } ] } }
//
// Unknown keys, wrong types and empty determinant or dependent lists are
// rejected with a *ParseError. References to models or fields missing from
// the schema are not errors; the audit reports them as findings.
package invariants

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-viper/mapstructure/v2"
	"gopkg.in/yaml.v3"

	"github.com/leapstack-labs/normaudit/pkg/core"
)

// ParseError is returned for a malformed or structurally invalid invariants file.
type ParseError struct {
	File    string
	Message string
	Err     error
}

func (e *ParseError) Error() string {
	if e.File == "" {
		return "invalid invariants: " + e.Message
	}
	return fmt.Sprintf("invalid invariants file %s: %s", e.File, e.Message)
}

// Unwrap returns the underlying decode error, if any.
func (e *ParseError) Unwrap() error {
	return e.Err
}

// Load reads and parses the invariants file at path.
func Load(path string) (*core.Invariants, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path is user-provided CLI input
	if err != nil {
		return nil, fmt.Errorf("failed to read invariants file: %w", err)
	}
	return Parse(path, data)
}

// Parse decodes data as YAML when filename ends in .yaml or .yml, otherwise as JSON.
func Parse(filename string, data []byte) (*core.Invariants, error) {
	raw, err := decodeDocument(filename, data)
	if err != nil {
		return nil, &ParseError{File: filename, Message: err.Error(), Err: err}
	}
	if raw == nil {
		return &core.Invariants{Models: map[string]core.ModelInvariants{}}, nil
	}
	if _, ok := raw.(map[string]any); !ok {
		return nil, &ParseError{File: filename, Message: fmt.Sprintf("top level must be an object keyed by model name, got %s", kindOf(raw))}
	}

	models := make(map[string]core.ModelInvariants)
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:      &models,
		ErrorUnused: true,
		TagName:     "mapstructure",
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create decoder: %w", err)
	}
	if err := decoder.Decode(raw); err != nil {
		return nil, &ParseError{File: filename, Message: err.Error(), Err: err}
	}

	inv := &core.Invariants{Models: models}
	if err := Validate(inv); err != nil {
		return nil, &ParseError{File: filename, Message: err.Error(), Err: err}
	}
	return inv, nil
}

// Validate checks the structural rules a decoder cannot express.
func Validate(inv *core.Invariants) error {
	for _, model := range inv.ModelNames() {
		if strings.TrimSpace(model) == "" {
			return fmt.Errorf("model name must not be empty")
		}
		for i, d := range inv.Models[model].FunctionalDependencies {
			where := fmt.Sprintf("%s.functionalDependencies[%d]", model, i)
			if err := checkFieldList(d.Determinant); err != nil {
				return fmt.Errorf("%s: determinant %w", where, err)
			}
			if err := checkFieldList(d.Dependent); err != nil {
				return fmt.Errorf("%s: dependent %w", where, err)
			}
		}
	}
	return nil
}

func checkFieldList(fields []string) error {
	if len(fields) == 0 {
		return fmt.Errorf("must not be empty")
	}
	for _, f := range fields {
		if strings.TrimSpace(f) == "" {
			return fmt.Errorf("must not contain empty field names")
		}
	}
	return nil
}

func decodeDocument(filename string, data []byte) (any, error) {
	var raw any
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return nil, err
		}
	default:
		if len(bytes.TrimSpace(data)) == 0 {
			return nil, fmt.Errorf("empty document")
		}
		if err := json.Unmarshal(data, &raw); err != nil {
			return nil, err
		}
	}
	return raw, nil
}

func kindOf(v any) string {
	switch v.(type) {
	case []any:
		return "array"
	case string:
		return "string"
	case bool:
		return "boolean"
	case float64, int, int64, uint64:
		return "number"
	default:
		return fmt.Sprintf("%T", v)
	}
}
