// Package config provides configuration management for the normaudit CLI.
//
// Settings are layered with koanf: built-in defaults, a normaudit.yaml file,
// NORMAUDIT_* environment variables and finally explicitly set flags.
package config

// Config holds all CLI configuration options.
type Config struct {
	Schemas     []string      `koanf:"schemas"`
	Invariants  string        `koanf:"invariants"`
	Format      string        `koanf:"format"`
	Out         string        `koanf:"out"`
	FailOn      string        `koanf:"fail_on"`
	Pretty      bool          `koanf:"pretty"`
	NoTimestamp bool          `koanf:"no_timestamp"`
	NoColor     bool          `koanf:"no_color"`
	Watch       bool          `koanf:"watch"`
	Verbose     bool          `koanf:"verbose"`
	Lint        LintConfig    `koanf:"lint"`
	History     HistoryConfig `koanf:"history"`

	// ConfigFile is the file the settings were read from, if any.
	ConfigFile string `koanf:"-"`
}

// LintConfig selects rules and overrides their severity.
type LintConfig struct {
	Disabled []string          `koanf:"disabled"`
	Severity map[string]string `koanf:"severity"`
}

// HistoryConfig configures the audit history database.
type HistoryConfig struct {
	Path string `koanf:"path"`
}

// Output formats.
const (
	FormatText = "text"
	FormatJSON = "json"
)

// Fail-on levels. FailOnNone never fails on findings.
const (
	FailOnNone    = "none"
	FailOnInfo    = "info"
	FailOnWarning = "warning"
)

// Default configuration values.
const (
	DefaultFormat = FormatText
	DefaultFailOn = FailOnNone
)

// Config file names, in lookup order.
var configFileNames = []string{"normaudit.yaml", "normaudit.yml"}
