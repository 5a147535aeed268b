package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/leapstack-labs/normaudit/pkg/lint"
)

// ErrInvalid is wrapped by every validation error.
var ErrInvalid = errors.New("invalid configuration")

// normalize lower-cases enumerated settings.
func (c *Config) normalize() {
	c.Format = strings.ToLower(strings.TrimSpace(c.Format))
	c.FailOn = strings.ToLower(strings.TrimSpace(c.FailOn))
	if c.Format == "" {
		c.Format = DefaultFormat
	}
	if c.FailOn == "" {
		c.FailOn = DefaultFailOn
	}
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	switch c.Format {
	case FormatText, FormatJSON:
	default:
		return fmt.Errorf("%w: unknown format %q (expected json or text)", ErrInvalid, c.Format)
	}

	switch c.FailOn {
	case FailOnNone, FailOnInfo, FailOnWarning:
	default:
		return fmt.Errorf("%w: unknown fail-on level %q (expected none, info or warning)", ErrInvalid, c.FailOn)
	}

	if _, err := c.LintConfig(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	return nil
}

// LintConfig converts the lint settings into a rule configuration.
func (c *Config) LintConfig() (*lint.Config, error) {
	return lint.ConfigFromSettings(c.Lint.Disabled, c.Lint.Severity)
}
