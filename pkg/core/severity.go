package core

import (
	"fmt"
	"strings"
)

// =============================================================================
// Severity
// =============================================================================

// Severity indicates the importance of a finding.
// Levels are ordered: SeverityInfo < SeverityWarning.
type Severity int

// Severity levels for findings.
const (
	// SeverityInfo indicates a heuristic hint worth reviewing.
	SeverityInfo Severity = iota
	// SeverityWarning indicates a likely defect in the schema.
	SeverityWarning
)

// String returns the string representation of the severity.
func (s Severity) String() string {
	switch s {
	case SeverityInfo:
		return "info"
	case SeverityWarning:
		return "warning"
	default:
		return "unknown"
	}
}

// AtLeast reports whether s is as severe as threshold.
func (s Severity) AtLeast(threshold Severity) bool {
	return s >= threshold
}

// MarshalText implements encoding.TextMarshaler.
func (s Severity) MarshalText() ([]byte, error) {
	switch s {
	case SeverityInfo, SeverityWarning:
		return []byte(s.String()), nil
	default:
		return nil, fmt.Errorf("invalid severity %d", int(s))
	}
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *Severity) UnmarshalText(text []byte) error {
	sev, ok := ParseSeverity(string(text))
	if !ok {
		return fmt.Errorf("invalid severity %q", string(text))
	}
	*s = sev
	return nil
}

// ParseSeverity converts a string to a Severity value.
// Returns the severity and true if valid, or SeverityWarning and false if invalid.
func ParseSeverity(s string) (Severity, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "info":
		return SeverityInfo, true
	case "warning", "warn":
		return SeverityWarning, true
	default:
		return SeverityWarning, false
	}
}

// Severities returns all severity levels in ascending order.
func Severities() []Severity {
	return []Severity{SeverityInfo, SeverityWarning}
}

// =============================================================================
// NormalForm
// =============================================================================

// NormalForm is the normal form (or the schema-quality bucket) a finding belongs to.
type NormalForm string

// Normal forms in rank order.
const (
	NormalForm1NF    NormalForm = "1NF"
	NormalForm2NF    NormalForm = "2NF"
	NormalForm3NF    NormalForm = "3NF"
	NormalFormBCNF   NormalForm = "BCNF"
	NormalFormSchema NormalForm = "SCHEMA"
)

// Rank returns the position of the normal form in report order.
// Unknown values sort last.
func (n NormalForm) Rank() int {
	switch n {
	case NormalForm1NF:
		return 0
	case NormalForm2NF:
		return 1
	case NormalForm3NF:
		return 2
	case NormalFormBCNF:
		return 3
	case NormalFormSchema:
		return 4
	default:
		return 5
	}
}

// =============================================================================
// RuleInfo
// =============================================================================

// RuleInfo provides metadata about an audit rule for documentation/tooling.
// This is a DTO (Data Transfer Object) - it carries data without behavior.
type RuleInfo struct {
	ID              RuleCode   `json:"id"`
	Name            string     `json:"name"`
	Group           string     `json:"group"`
	NormalForm      NormalForm `json:"normalForm"`
	Description     string     `json:"description"`
	DefaultSeverity Severity   `json:"defaultSeverity"`

	// Documentation fields
	Rationale   string `json:"rationale,omitempty"`
	BadExample  string `json:"badExample,omitempty"`
	GoodExample string `json:"goodExample,omitempty"`
	Fix         string `json:"fix,omitempty"`
}
