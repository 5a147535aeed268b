package cli

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/normaudit/internal/cli/commands"
	"github.com/leapstack-labs/normaudit/internal/cli/testutil"
	"github.com/leapstack-labs/normaudit/pkg/core"
	"github.com/leapstack-labs/normaudit/pkg/invariants"
	"github.com/leapstack-labs/normaudit/pkg/schema"
)

// run executes the root command in dir and returns the exit code and output.
func run(t *testing.T, dir string, args ...string) (code int, stdout, stderr string) {
	t.Helper()
	t.Chdir(dir)

	out := &bytes.Buffer{}
	errOut := &bytes.Buffer{}
	cmd := NewRootCmd()
	cmd.SetOut(out)
	cmd.SetErr(errOut)
	code = execute(cmd, args, errOut)
	return code, out.String(), errOut.String()
}

func TestExecute_ExitCodes(t *testing.T) {
	dir := testutil.SetupTestProject(t, map[string]string{
		"clean.sql":     testutil.CleanSQL,
		"fk.sql":        testutil.UnindexedFKSQL,
		"broken.prisma": testutil.MalformedPrisma,
		"bad.json":      "{",
		"empty.json":    "{}",
		"notes.txt":     "hello",
	})

	tests := []struct {
		name string
		args []string
		want int
	}{
		{"clean schema", []string{"--schema", "clean.sql"}, ExitOK},
		{"findings below default threshold", []string{"--schema", "fk.sql"}, ExitOK},
		{"findings at threshold", []string{"--schema", "fk.sql", "--fail-on", "warning"}, ExitFindings},
		{"findings above threshold", []string{"--schema", "fk.sql", "--fail-on", "info"}, ExitFindings},
		{"disabled rule", []string{"-s", "fk.sql", "--disable", "FK_MISSING_INDEX", "--fail-on", "info"}, ExitOK},
		{"audit subcommand", []string{"audit", "--schema", "fk.sql", "--fail-on", "warning"}, ExitFindings},
		{"empty invariants", []string{"--schema", "clean.sql", "--invariants", "empty.json"}, ExitOK},
		{"malformed schema", []string{"--schema", "broken.prisma"}, ExitParse},
		{"malformed invariants", []string{"--schema", "clean.sql", "--invariants", "bad.json"}, ExitParse},
		{"unsupported format", []string{"--schema", "notes.txt"}, ExitUsage},
		{"missing schema file", []string{"--schema", "missing.sql"}, ExitUsage},
		{"missing invariants file", []string{"--schema", "clean.sql", "--invariants", "missing.json"}, ExitUsage},
		{"no schema", []string{}, ExitUsage},
		{"unknown flag", []string{"--bogus"}, ExitUsage},
		{"invalid format", []string{"--schema", "clean.sql", "--format", "xml"}, ExitUsage},
		{"unknown disabled rule", []string{"--schema", "clean.sql", "--disable", "NOPE"}, ExitUsage},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, _, stderr := run(t, dir, tt.args...)
			assert.Equal(t, tt.want, code, "stderr: %s", stderr)
			if tt.want >= ExitUsage {
				assert.Contains(t, stderr, "Error:")
			}
		})
	}
}

func TestExecute_TextReport(t *testing.T) {
	dir := testutil.SetupTestProject(t, map[string]string{"fk.sql": testutil.UnindexedFKSQL})

	code, stdout, _ := run(t, dir, "--schema", "fk.sql", "--no-timestamp")
	require.Equal(t, ExitOK, code)

	assert.Contains(t, stdout, "Schema: fk.sql")
	assert.Contains(t, stdout, "FK_MISSING_INDEX")
	assert.NotContains(t, stdout, "Audited:")
	testutil.AssertNoANSI(t, stdout)
}

func TestExecute_JSONReport(t *testing.T) {
	dir := testutil.SetupTestProject(t, map[string]string{
		"clean.sql": testutil.CleanSQL,
		"fk.sql":    testutil.UnindexedFKSQL,
	})

	t.Run("single schema is an object", func(t *testing.T) {
		code, stdout, _ := run(t, dir, "--schema", "fk.sql", "--format", "json", "--no-timestamp")
		require.Equal(t, ExitOK, code)

		var result map[string]any
		require.NoError(t, json.Unmarshal([]byte(stdout), &result))
		metadata := result["metadata"].(map[string]any)
		assert.Equal(t, "fk.sql", metadata["schemaPath"])
		assert.Nil(t, metadata["timestamp"])
	})

	t.Run("several schemas are an array in argument order", func(t *testing.T) {
		code, stdout, _ := run(t, dir, "-s", "fk.sql", "-s", "clean.sql", "-f", "json", "--no-timestamp")
		require.Equal(t, ExitOK, code)

		var results []core.AuditResult
		require.NoError(t, json.Unmarshal([]byte(stdout), &results))
		require.Len(t, results, 2)
		assert.Equal(t, "fk.sql", results[0].Metadata.SchemaPath)
		assert.Equal(t, "clean.sql", results[1].Metadata.SchemaPath)
		assert.Empty(t, results[1].Findings)
	})

	t.Run("output is reproducible", func(t *testing.T) {
		_, first, _ := run(t, dir, "--schema", "fk.sql", "--format", "json", "--no-timestamp", "--pretty")
		_, second, _ := run(t, dir, "--schema", "fk.sql", "--format", "json", "--no-timestamp", "--pretty")
		assert.Equal(t, first, second)
	})
}

func TestExecute_OutFile(t *testing.T) {
	dir := testutil.SetupTestProject(t, map[string]string{"fk.sql": testutil.UnindexedFKSQL})
	out := filepath.Join(dir, "report.json")

	code, stdout, _ := run(t, dir, "--schema", "fk.sql", "--format", "json", "--out", out)
	require.Equal(t, ExitOK, code)
	assert.Empty(t, stdout)

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"rule":"FK_MISSING_INDEX"`)
	assert.Contains(t, string(data), `"timestamp":"`)
}

func TestExecute_ConfigFile(t *testing.T) {
	dir := testutil.SetupTestProject(t, map[string]string{
		"db/fk.sql": testutil.UnindexedFKSQL,
		"normaudit.yaml": `schemas:
  - db/fk.sql
fail_on: warning
`,
	})

	code, _, _ := run(t, dir)
	assert.Equal(t, ExitFindings, code)

	code, _, _ = run(t, dir, "--fail-on", "none")
	assert.Equal(t, ExitOK, code)
}

func TestExecute_History(t *testing.T) {
	dir := testutil.SetupTestProject(t, map[string]string{"fk.sql": testutil.UnindexedFKSQL})
	db := filepath.Join(dir, ".normaudit", "history.db")

	for range 2 {
		code, _, stderr := run(t, dir, "--schema", "fk.sql", "--history-db", db)
		require.Equal(t, ExitOK, code, stderr)
	}

	code, stdout, stderr := run(t, dir, "history", "--history-db", db, "--format", "json")
	require.Equal(t, ExitOK, code, stderr)

	var runs []struct {
		ID           string `json:"id"`
		SchemaPath   string `json:"schemaPath"`
		WarningCount int    `json:"warningCount"`
	}
	require.NoError(t, json.Unmarshal([]byte(stdout), &runs))
	require.Len(t, runs, 2)
	assert.Equal(t, "fk.sql", runs[0].SchemaPath)
	assert.Positive(t, runs[0].WarningCount)

	code, stdout, stderr = run(t, dir, "history", runs[0].ID, "--history-db", db)
	require.Equal(t, ExitOK, code, stderr)
	assert.Contains(t, stdout, runs[0].ID)
	assert.Contains(t, stdout, "FK_MISSING_INDEX")

	code, _, _ = run(t, dir, "history", "no-such-run", "--history-db", db)
	assert.Equal(t, ExitUsage, code)
}

func TestExecute_Subcommands(t *testing.T) {
	dir := t.TempDir()

	code, stdout, _ := run(t, dir, "version")
	assert.Equal(t, ExitOK, code)
	assert.Contains(t, stdout, "normaudit v"+Version)

	code, stdout, _ = run(t, dir, "rules", "--format", "json")
	assert.Equal(t, ExitOK, code)
	assert.Contains(t, stdout, `"NF3_VIOLATION"`)

	code, stdout, _ = run(t, dir, "completion", "bash")
	assert.Equal(t, ExitOK, code)
	assert.Contains(t, stdout, "normaudit")
}

func TestExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, ExitOK},
		{"explicit", &ExitError{Code: 7, Err: errors.New("boom")}, 7},
		{"findings", &commands.FindingsError{Threshold: core.SeverityWarning, Count: 2}, ExitFindings},
		{"schema parse error", &schema.ParseError{File: "a.sql", Message: "bad"}, ExitParse},
		{"wrapped schema parse error", fmt.Errorf("audit: %w", &schema.ParseError{File: "a.sql"}), ExitParse},
		{"invariants parse error", &invariants.ParseError{File: "inv.json", Message: "bad"}, ExitParse},
		{"unsupported format", &schema.UnsupportedFormatError{Path: "a.txt", Ext: ".txt"}, ExitUsage},
		{"missing file", fmt.Errorf("failed to read schema: %w", os.ErrNotExist), ExitUsage},
		{"other", assert.AnError, ExitUsage},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExitCode(tt.err))
		})
	}
}

func TestExitError(t *testing.T) {
	err := &ExitError{Code: ExitUsage, Err: assert.AnError}
	assert.Equal(t, assert.AnError.Error(), err.Error())
	assert.ErrorIs(t, err, assert.AnError)
	assert.Equal(t, "exit status", (&ExitError{Code: 1}).Error())
}
