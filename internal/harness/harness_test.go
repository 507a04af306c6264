package harness

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parse(t *testing.T, content string) *Scenario {
	t.Helper()
	scenario, err := ParseScenario([]byte(content))
	require.NoError(t, err)
	return scenario
}

func TestRun_Passing(t *testing.T) {
	scenario := parse(t, `
name: passing
description: "Simple select"
clauses:
  - select: [{column: id}]
  - from: {table: users}
  - where: {column: age}
  - between: [18, 30]
expect:
  sql: "SELECT id FROM users WHERE age BETWEEN 18 AND 30"
  primary_kind: select
  history: [select, from, where, between]
`)

	result, err := Run(scenario)
	require.NoError(t, err)

	assert.True(t, result.Pass, result.Errors)
	assert.Empty(t, result.Errors)
	assert.Equal(t, "ansi", result.Dialect)
	assert.Equal(t, "SELECT", result.PrimaryKind)
	assert.Len(t, result.Fingerprint, 64)
	assert.Empty(t, result.ErrorCode)
	assert.Nil(t, result.Plan)
}

func TestRun_SQLMismatch(t *testing.T) {
	scenario := parse(t, `
name: mismatch
description: "Wrong expectation"
clauses: [select, {from: {table: users}}]
expect:
  sql: "SELECT id FROM users"
`)

	result, err := Run(scenario)
	require.NoError(t, err)

	assert.False(t, result.Pass)
	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0], "Assertion failed: sql")
	assert.Contains(t, result.Errors[0], `Actual: "SELECT * FROM users"`)
}

func TestRun_DialectPrecedence(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "q.yaml", "dialect: mysql\nclauses: [select, {from: {table: t}}, {limit: [1, 2]}]\n")

	fromScript := parse(t, "name: s\ndescription: d\nscript: "+dir+"/q.yaml\nexpect: {sql: \"SELECT * FROM t LIMIT 2, 1\"}\n")
	result, err := Run(fromScript)
	require.NoError(t, err)
	assert.Equal(t, "mysql", result.Dialect)
	assert.True(t, result.Pass, result.Errors)

	overridden := parse(t, "name: s\ndescription: d\ndialect: postgres\nscript: "+dir+"/q.yaml\nexpect: {sql: \"SELECT * FROM t LIMIT 1 OFFSET 2\"}\n")
	result, err = Run(overridden)
	require.NoError(t, err)
	assert.Equal(t, "postgres", result.Dialect)
	assert.True(t, result.Pass, result.Errors)
}

func TestRun_UnknownDialectIsAnError(t *testing.T) {
	scenario := parse(t, "name: s\ndescription: d\ndialect: oracle\nclauses: [select]\nexpect: {sql: x}\n")

	_, err := Run(scenario)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `scenario "s"`)
}

func TestRun_NilScenario(t *testing.T) {
	_, err := Run(nil)
	require.Error(t, err)
}

func TestRun_ExpectedBuildError(t *testing.T) {
	scenario := parse(t, `
name: strict_empty_keychain
description: "Comparison with nothing to compare"
strict: true
clauses: [select, {eq: 1}]
expect:
  error: EMPTY_KEYCHAIN
  history: [SELECT]
`)

	result, err := Run(scenario)
	require.NoError(t, err)

	assert.True(t, result.Pass, result.Errors)
	assert.Equal(t, "EMPTY_KEYCHAIN", result.ErrorCode)
	assert.Empty(t, result.Fingerprint)
}

func TestRun_ExpectedLoadError(t *testing.T) {
	scenario := parse(t, `
name: bad_date
description: "Unparseable date"
clauses: [{eq: {date: tomorrow}}]
expect:
  error: E205
`)

	result, err := Run(scenario)
	require.NoError(t, err)

	assert.True(t, result.Pass, result.Errors)
	assert.Equal(t, "E205", result.ErrorCode)
	assert.Empty(t, result.History)
}

func TestRun_UnexpectedError(t *testing.T) {
	scenario := parse(t, `
name: rejected
description: "Validator rejects LIMIT"
clauses: [select, {limit: -1}]
expect:
  sql: "SELECT *"
`)

	result, err := Run(scenario)
	require.NoError(t, err)

	assert.False(t, result.Pass)
	assert.Equal(t, "INVALID_ARGUMENT", result.ErrorCode)
	require.Len(t, result.Errors, 1, "statement assertions are skipped after an unexpected error")
	assert.Contains(t, result.Errors[0], "Expected: no error")
}

func TestRun_ErrorExpectedButBuildSucceeded(t *testing.T) {
	scenario := parse(t, "name: s\ndescription: d\nclauses: [select]\nexpect: {error: MISSING_TEMPLATE}\n")

	result, err := Run(scenario)
	require.NoError(t, err)

	assert.False(t, result.Pass)
	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0], "Actual: no error")
}

func TestRun_Check(t *testing.T) {
	good := parse(t, `
name: checked
description: "Prepares against the fixture"
dialect: sqlite
check: true
clauses: [select, {from: {table: users}}, {where: {column: id}}, {eq: 1}]
expect:
  sql: "SELECT * FROM users WHERE id = 1"
`)
	result, err := Run(good)
	require.NoError(t, err)
	assert.True(t, result.Pass, result.Errors)
	assert.NotEmpty(t, result.Plan)

	bad := parse(t, `
name: unchecked
description: "Unknown table"
dialect: sqlite
check: true
clauses: [select, {from: {table: nowhere}}]
expect:
  sql: "SELECT * FROM nowhere"
`)
	result, err = Run(bad)
	require.NoError(t, err)
	assert.False(t, result.Pass)
	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0], "Assertion failed: check")
	assert.Contains(t, result.Errors[0], "no such table")
}

func TestRun_Deterministic(t *testing.T) {
	content := `
name: deterministic
description: "Same input, same output"
clauses:
  - insert: [{row: {b: 1, a: 2}}]
  - to: {table: t}
expect:
  primary_kind: INSERT
`
	first, err := Run(parse(t, content))
	require.NoError(t, err)
	second, err := Run(parse(t, content))
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, "INSERT INTO t (b, a) VALUES (1, 2)", first.SQL)
}

func TestHarness_WithLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	h := New(WithLogger(logger))
	result, err := h.Run(context.Background(), parse(t, "name: logged\ndescription: d\nclauses: [select]\nexpect: {sql: \"SELECT *\"}\n"))
	require.NoError(t, err)
	assert.True(t, result.Pass)

	out := buf.String()
	assert.Contains(t, out, "scenario completed")
	assert.Contains(t, out, "scenario=logged")
	assert.Contains(t, out, "clause submitted")
}

func TestResult_AddError(t *testing.T) {
	result := NewResult()
	assert.True(t, result.Pass)

	result.AddError("first")
	result.AddError("second")

	assert.False(t, result.Pass)
	assert.Equal(t, []string{"first", "second"}, result.Errors)
}
