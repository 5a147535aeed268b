package lint

import (
	"fmt"
	"sort"
	"strings"

	"github.com/leapstack-labs/normaudit/pkg/core"
)

// Config controls which rules are enabled and their severity.
type Config struct {
	// DisabledRules contains rule IDs to skip
	DisabledRules map[core.RuleCode]bool

	// SeverityOverrides changes the default severity of rules
	SeverityOverrides map[core.RuleCode]core.Severity
}

// NewConfig creates a default configuration with all rules enabled.
func NewConfig() *Config {
	return &Config{
		DisabledRules:     make(map[core.RuleCode]bool),
		SeverityOverrides: make(map[core.RuleCode]core.Severity),
	}
}

// UnknownRuleError is returned when configuration names a rule that does not exist.
type UnknownRuleError struct {
	Rule string
}

func (e *UnknownRuleError) Error() string {
	return fmt.Sprintf("unknown rule %q", e.Rule)
}

// ConfigFromSettings builds a Config from the string settings of a config file or flags.
// Rule codes are matched case-insensitively.
func ConfigFromSettings(disabled []string, severities map[string]string) (*Config, error) {
	cfg := NewConfig()
	for _, id := range disabled {
		code, err := parseRuleCode(id)
		if err != nil {
			return nil, err
		}
		cfg.Disable(code)
	}

	// sorted for a deterministic first error
	ids := make([]string, 0, len(severities))
	for id := range severities {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	for _, id := range ids {
		code, err := parseRuleCode(id)
		if err != nil {
			return nil, err
		}
		sev, ok := core.ParseSeverity(severities[id])
		if !ok {
			return nil, fmt.Errorf("rule %s: invalid severity %q (expected info or warning)", code, severities[id])
		}
		cfg.SetSeverity(code, sev)
	}
	return cfg, nil
}

func parseRuleCode(s string) (core.RuleCode, error) {
	code := core.RuleCode(strings.ToUpper(strings.TrimSpace(s)))
	if !code.IsKnown() {
		return "", &UnknownRuleError{Rule: s}
	}
	return code, nil
}

// IsDisabled returns true if the rule should be skipped.
func (c *Config) IsDisabled(ruleID core.RuleCode) bool {
	if c == nil {
		return false
	}
	return c.DisabledRules[ruleID]
}

// GetSeverity returns the severity for a rule, applying any override.
func (c *Config) GetSeverity(ruleID core.RuleCode, defaultSeverity core.Severity) core.Severity {
	if c != nil {
		if sev, ok := c.SeverityOverrides[ruleID]; ok {
			return sev
		}
	}
	return defaultSeverity
}

// Disable disables a rule by ID.
func (c *Config) Disable(ruleID core.RuleCode) *Config {
	c.DisabledRules[ruleID] = true
	return c
}

// SetSeverity overrides the severity for a rule.
func (c *Config) SetSeverity(ruleID core.RuleCode, severity core.Severity) *Config {
	c.SeverityOverrides[ruleID] = severity
	return c
}
