package cli

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const passingScenario = `name: inline_active
description: Inline clauses against the fixture schema.
dialect: sqlite
check: true
clauses:
  - select: [{column: id}, {column: name}]
  - from: {table: users}
  - where: {column: status}
  - eq: active
expect:
  sql: "SELECT id, name FROM users WHERE status = 'active'"
`

const failingScenario = `name: wrong_sql
description: Expects a statement the clauses do not build.
clauses:
  - select
  - from: {table: users}
expect:
  sql: "SELECT id FROM users"
`

func TestTest_ConformanceScenarios(t *testing.T) {
	dir := filepath.Join("..", "..", DefaultScenariosDir)

	out, err := execute(t, testRootOptions("text"), NewTestCommand, dir)
	require.NoError(t, err, out)
	assert.Contains(t, out, "✓ active_users")
	assert.Contains(t, out, "✓ mysql_full_join_strict")
	assert.Contains(t, out, "0 failed")
	assert.Contains(t, out, "✓ All scenarios passed")
}

func TestTest_Filter(t *testing.T) {
	dir := filepath.Join("..", "..", DefaultScenariosDir)

	out, err := execute(t, testRootOptions("json"), NewTestCommand, "--filter", "mysql_*", dir)
	require.NoError(t, err)

	var resp struct {
		Status string     `json:"status"`
		Data   TestResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, 3, resp.Data.Total)
	for _, s := range resp.Data.Scenarios {
		assert.True(t, s.Pass, s.Name)
		assert.Contains(t, s.Name, "mysql_")
	}
}

func TestTest_InvalidFilter(t *testing.T) {
	_, err := execute(t, testRootOptions("text"), NewTestCommand, "--filter", "[", t.TempDir())
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestTest_Failure(t *testing.T) {
	dir := t.TempDir()
	writeScript(t, dir, "ok.yaml", passingScenario)
	writeScript(t, dir, "wrong.yaml", failingScenario)

	out, err := execute(t, testRootOptions("text"), NewTestCommand, dir)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, out, "✓ inline_active")
	assert.Contains(t, out, "✗ wrong_sql")
	assert.Contains(t, out, "  Assertion failed: sql")
	assert.Contains(t, out, `  Actual: "SELECT * FROM users"`)
	assert.Contains(t, out, "Test Summary: 1 passed, 1 failed, 2 total")
}

func TestTest_FailureJSON(t *testing.T) {
	dir := t.TempDir()
	writeScript(t, dir, "wrong.yaml", failingScenario)

	out, err := execute(t, testRootOptions("json"), NewTestCommand, dir)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))

	var resp struct {
		Status  string     `json:"status"`
		Data    TestResult `json:"data"`
		Error   *CLIError  `json:"error"`
		TraceID string     `json:"trace_id"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "error", resp.Status)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "E_TEST_FAILED", resp.Error.Code)
	assert.Equal(t, 1, resp.Data.Failed)
	assert.Equal(t, "SELECT * FROM users", resp.Data.Scenarios[0].SQL)
	assert.Equal(t, "test-trace-default", resp.TraceID)
}

func TestTest_LoadError(t *testing.T) {
	dir := t.TempDir()
	writeScript(t, dir, "broken.yaml", "name: broken\n")

	out, err := execute(t, testRootOptions("text"), NewTestCommand, dir)
	require.Error(t, err)
	assert.Contains(t, out, "✗ broken.yaml")
	assert.Contains(t, out, "failed to load scenario")
}

func TestTest_UpdateThenCompareGolden(t *testing.T) {
	dir := t.TempDir()
	writeScript(t, dir, "active.yaml", passingScenario)

	_, err := execute(t, testRootOptions("text"), NewTestCommand, "--update", dir)
	require.NoError(t, err)

	goldenPath := filepath.Join(dir, "golden", "active.golden")
	data, err := os.ReadFile(goldenPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"scenario_name":"inline_active"`)
	assert.Contains(t, string(data), `"sql":"SELECT id, name FROM users WHERE status = 'active'"`)

	out, err := execute(t, testRootOptions("text"), NewTestCommand, dir)
	require.NoError(t, err, out)
	assert.Contains(t, out, "✓ inline_active")

	require.NoError(t, os.WriteFile(goldenPath, []byte(`{"scenario_name":"inline_active"}`), 0644))
	out, err = execute(t, testRootOptions("text"), NewTestCommand, dir)
	require.Error(t, err)
	assert.Contains(t, out, "does not match golden file")
}

func TestTest_ScriptsBaseDir(t *testing.T) {
	dir := t.TempDir()
	writeScript(t, dir, "scenarios/orders.yaml", `name: orders
description: Script resolved against --scripts.
script: recent_orders.yaml
expect:
  primary_kind: SELECT
`)

	scripts := filepath.Join("..", "..", "testdata", "scripts")
	out, err := execute(t, testRootOptions("text"), NewTestCommand, "--scripts", scripts, filepath.Join(dir, "scenarios"))
	require.NoError(t, err, out)
	assert.Contains(t, out, "✓ orders")
}

func TestTest_EmptyDirectory(t *testing.T) {
	out, err := execute(t, testRootOptions("text"), NewTestCommand, t.TempDir())
	require.NoError(t, err)
	assert.Contains(t, out, "No scenarios found.")
}

func TestTest_MissingDirectory(t *testing.T) {
	out, err := execute(t, testRootOptions("text"), NewTestCommand, "/nonexistent/scenarios")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, out, "scenarios directory not found")
}

func TestFindScenarioFiles(t *testing.T) {
	dir := t.TempDir()
	writeScript(t, dir, "b.yaml", "")
	writeScript(t, dir, "a.yml", "")
	writeScript(t, dir, "notes.txt", "")
	writeScript(t, dir, "golden/a.golden", "")

	files, err := findScenarioFiles(dir, "")
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(dir, "a.yml"), filepath.Join(dir, "b.yaml")}, files)

	files, err = findScenarioFiles(dir, "b")
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(dir, "b.yaml")}, files)
}

func TestGoldenFilePath(t *testing.T) {
	assert.Equal(t, filepath.Join("s", "golden", "x.golden"), goldenFilePath(filepath.Join("s", "x.yaml")))
}
