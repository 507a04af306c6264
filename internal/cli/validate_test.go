package cli

import (
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidate_Valid(t *testing.T) {
	path := writeScript(t, t.TempDir(), "active.yaml", activeScript)

	out, err := execute(t, testRootOptions("text"), NewValidateCommand, path)
	require.NoError(t, err)
	assert.Equal(t, "✓ active valid (4 clause(s))\n", out)
}

func TestValidate_ValidJSON(t *testing.T) {
	path := writeScript(t, t.TempDir(), "active.yaml", activeScript)

	out, err := execute(t, testRootOptions("json"), NewValidateCommand, path)
	require.NoError(t, err)

	newGoldie(t).Assert(t, "validate_json", []byte(out))
}

func TestValidate_ExampleScripts(t *testing.T) {
	for _, name := range []string{"recent_orders.yaml", "vip_names.cue"} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join("..", "..", "testdata", "scripts", name)
			_, err := execute(t, testRootOptions("text"), NewValidateCommand, path)
			require.NoError(t, err)
		})
	}
}

func TestValidate_ReportsAllErrors(t *testing.T) {
	path := writeScript(t, t.TempDir(), "empty.yaml", "name: empty\ndialect: oracle\nclauses: []\n")

	out, err := execute(t, testRootOptions("json"), NewValidateCommand, path)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, err.Error(), "2 error(s)")

	var resp struct {
		Status string           `json:"status"`
		Data   ValidationResult `json:"data"`
		Error  *CLIError        `json:"error"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "error", resp.Status)
	assert.False(t, resp.Data.Valid)
	require.Len(t, resp.Data.Errors, 2)
	assert.Equal(t, "E211", resp.Data.Errors[0].Code)
	assert.Equal(t, "E212", resp.Data.Errors[1].Code)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "E211", resp.Error.Code)
}

func TestValidate_InvalidIdentifierText(t *testing.T) {
	path := writeScript(t, t.TempDir(), "bad.yaml", `name: bad
clauses:
  - select: {column: "first name"}
  - from: {table: users}
`)

	out, err := execute(t, testRootOptions("text"), NewValidateCommand, path)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, out, "✗ Validation failed")
	assert.Contains(t, out, "line 3")
	assert.Contains(t, out, "E214")
	assert.Contains(t, out, `"first name" is not a valid identifier`)
}

func TestValidate_NotFound(t *testing.T) {
	out, err := execute(t, testRootOptions("text"), NewValidateCommand, "/nonexistent/script.yaml")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, err.Error(), "E005")
	assert.Contains(t, out, "not found")
}

func TestValidate_LoadErrorKeepsPosition(t *testing.T) {
	path := writeScript(t, t.TempDir(), "bad.yaml", "clauses:\n  - select\n  - merge: {table: users}\n")

	out, err := execute(t, testRootOptions("text"), NewValidateCommand, path)
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, out, "Error [E203]")
}

func TestValidate_UnsupportedExtension(t *testing.T) {
	path := writeScript(t, t.TempDir(), "query.sql", "SELECT 1")

	out, err := execute(t, testRootOptions("text"), NewValidateCommand, path)
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, out, "Error [E201]")
}
