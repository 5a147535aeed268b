package config

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/normaudit/internal/testutil"
	"github.com/leapstack-labs/normaudit/pkg/core"
)

// newFlagSet mirrors the flags registered by the root command.
func newFlagSet(t *testing.T, args ...string) *pflag.FlagSet {
	t.Helper()
	fs := pflag.NewFlagSet("normaudit", pflag.ContinueOnError)
	fs.String("config", "", "")
	fs.StringSlice("schema", nil, "")
	fs.String("invariants", "", "")
	fs.String("format", "", "")
	fs.String("out", "", "")
	fs.String("fail-on", "", "")
	fs.Bool("no-timestamp", false, "")
	fs.Bool("pretty", false, "")
	fs.Bool("watch", false, "")
	fs.Bool("no-color", false, "")
	fs.Bool("verbose", false, "")
	fs.StringSlice("disable", nil, "")
	fs.String("history-db", "", "")
	require.NoError(t, fs.Parse(args))
	return fs
}

func writeConfig(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, "normaudit.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load("", newFlagSet(t))
	require.NoError(t, err)

	assert.Equal(t, FormatText, cfg.Format)
	assert.Equal(t, FailOnNone, cfg.FailOn)
	assert.False(t, cfg.Pretty)
	assert.Empty(t, cfg.Schemas)
	assert.Empty(t, cfg.ConfigFile)
}

func TestLoad_Precedence(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	writeConfig(t, dir, `
format: json
fail_on: info
pretty: true
`)

	t.Run("file over defaults", func(t *testing.T) {
		cfg, err := Load("", newFlagSet(t))
		require.NoError(t, err)
		assert.Equal(t, FormatJSON, cfg.Format)
		assert.Equal(t, FailOnInfo, cfg.FailOn)
		assert.True(t, cfg.Pretty)
	})

	t.Run("env over file", func(t *testing.T) {
		t.Setenv("NORMAUDIT_FAIL_ON", "warning")
		cfg, err := Load("", newFlagSet(t))
		require.NoError(t, err)
		assert.Equal(t, FailOnWarning, cfg.FailOn)
		assert.Equal(t, FormatJSON, cfg.Format)
	})

	t.Run("flags over env", func(t *testing.T) {
		t.Setenv("NORMAUDIT_FORMAT", "json")
		cfg, err := Load("", newFlagSet(t, "--format", "text"))
		require.NoError(t, err)
		assert.Equal(t, FormatText, cfg.Format)
	})

	t.Run("unchanged flags do not override", func(t *testing.T) {
		cfg, err := Load("", newFlagSet(t, "--verbose"))
		require.NoError(t, err)
		assert.True(t, cfg.Pretty)
		assert.True(t, cfg.Verbose)
	})
}

func TestLoad_FlagKeyMapping(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load("", newFlagSet(t,
		"--schema", "a.prisma",
		"--schema", "b.sql",
		"--disable", "NF1_REPEATING_GROUP_SUSPECTED",
		"--history-db", "runs.db",
		"--no-timestamp",
	))
	require.NoError(t, err)

	assert.Equal(t, []string{"a.prisma", "b.sql"}, cfg.Schemas)
	assert.Equal(t, []string{"NF1_REPEATING_GROUP_SUSPECTED"}, cfg.Lint.Disabled)
	assert.Equal(t, "runs.db", cfg.History.Path)
	assert.True(t, cfg.NoTimestamp)
}

func TestLoad_NestedEnvKeys(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("NORMAUDIT_HISTORY__PATH", "/var/lib/normaudit.db")

	cfg, err := Load("", newFlagSet(t))
	require.NoError(t, err)
	assert.Equal(t, "/var/lib/normaudit.db", cfg.History.Path)
}

func TestLoad_ConfigFileSearchAndPaths(t *testing.T) {
	root := t.TempDir()
	nested := filepath.Join(root, "a", "b")
	require.NoError(t, os.MkdirAll(nested, 0o750))
	path := writeConfig(t, root, `
schemas:
  - schema.prisma
invariants: invariants.yaml
history:
  path: /abs/history.db
lint:
  disabled: [NF1_REPEATING_GROUP_SUSPECTED]
  severity:
    nf3_violation: info
`)
	t.Chdir(nested)

	cfg, err := Load("", newFlagSet(t))
	require.NoError(t, err)

	assert.Equal(t, path, cfg.ConfigFile)
	assert.Equal(t, []string{filepath.Join(root, "schema.prisma")}, cfg.Schemas)
	assert.Equal(t, filepath.Join(root, "invariants.yaml"), cfg.Invariants)
	assert.Equal(t, "/abs/history.db", cfg.History.Path)
	assert.Equal(t, map[string]string{"nf3_violation": "info"}, cfg.Lint.Severity)

	lc, err := cfg.LintConfig()
	require.NoError(t, err)
	assert.True(t, lc.IsDisabled(core.RuleNF1RepeatingGroup))
	assert.Equal(t, core.SeverityInfo, lc.GetSeverity(core.RuleNF3Violation, core.SeverityWarning))

	t.Run("flag paths stay relative to the working directory", func(t *testing.T) {
		cfg, err := Load("", newFlagSet(t, "--invariants", "local.json"))
		require.NoError(t, err)
		assert.Equal(t, "local.json", cfg.Invariants)
	})
}

func TestLoad_ExplicitConfigFile(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(t.TempDir())
	path := filepath.Join(dir, "custom.yml")
	require.NoError(t, os.WriteFile(path, []byte("format: json\n"), 0o600))

	cfg, err := Load(path, newFlagSet(t, "--config", path))
	require.NoError(t, err)
	assert.Equal(t, FormatJSON, cfg.Format)
	assert.Equal(t, path, cfg.ConfigFile)
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name    string
		config  string
		args    []string
		env     map[string]string
		invalid bool
	}{
		{
			name:    "unknown format",
			args:    []string{"--format", "xml"},
			invalid: true,
		},
		{
			name:    "unknown fail-on level",
			env:     map[string]string{"NORMAUDIT_FAIL_ON": "error"},
			invalid: true,
		},
		{
			name:    "unknown disabled rule",
			args:    []string{"--disable", "NOPE"},
			invalid: true,
		},
		{
			name:    "bad severity override",
			config:  "lint:\n  severity:\n    NF1_REPEATING_GROUP_SUSPECTED: loud\n",
			invalid: true,
		},
		{
			name:   "malformed yaml",
			config: "format: [json\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			t.Chdir(dir)
			if tt.config != "" {
				writeConfig(t, dir, tt.config)
			}
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			_, err := Load("", newFlagSet(t, tt.args...))
			require.Error(t, err)
			assert.Equal(t, tt.invalid, errors.Is(err, ErrInvalid))
		})
	}
}

func TestLoad_MissingExplicitConfigFile(t *testing.T) {
	t.Chdir(t.TempDir())
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"), nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "error reading config file")
}

func TestContextHelpers(t *testing.T) {
	ctx := context.Background()

	assert.NotNil(t, GetLogger(ctx))
	assert.Equal(t, FormatText, GetConfig(ctx).Format)

	logger := testutil.NewTestLogger(t)
	cfg := &Config{Format: FormatJSON}
	ctx = WithConfig(WithLogger(ctx, logger), cfg)

	assert.Same(t, logger, GetLogger(ctx))
	assert.Same(t, cfg, GetConfig(ctx))
}
