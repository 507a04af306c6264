package compiler

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/sqlchain/internal/ir"
)

func expectedOrdersClauses() []ir.Clause {
	return []ir.Clause{
		{Kind: ir.KindSelect, Args: []ir.Arg{
			ir.ColumnRef{Table: "o", Name: "id"},
			ir.Call{Function: ir.KindCount, Args: []ir.Operand{ir.ColumnRef{Table: "i", Name: "id"}}, Alias: "items"},
		}},
		{Kind: ir.KindFrom, Args: []ir.Arg{ir.TableRef{Name: "orders", Alias: "o"}}},
		{Kind: ir.KindLeftJoin, Args: []ir.Arg{ir.TableRef{Name: "order_items", Alias: "i"}}},
		{Kind: ir.KindOn, Args: []ir.Arg{ir.ColumnRef{Table: "o", Name: "id"}, ir.ColumnRef{Table: "i", Name: "order_id"}}},
		{Kind: ir.KindWhere, Args: []ir.Arg{ir.ColumnRef{Table: "o", Name: "status"}}},
		{Kind: ir.KindEQ, Args: []ir.Arg{ir.String("paid"), ir.String("shipped")}},
		{Kind: ir.KindAnd},
		{Kind: ir.KindWhere, Args: []ir.Arg{ir.ColumnRef{Table: "o", Name: "created_at"}}},
		{Kind: ir.KindGT, Args: []ir.Arg{ir.Date(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))}},
		{Kind: ir.KindGroupBy, Args: []ir.Arg{ir.ColumnRef{Table: "o", Name: "id"}}},
		{Kind: ir.KindOrderBy, Args: []ir.Arg{ir.SortKey{Column: ir.ColumnRef{Table: "o", Name: "created_at"}, Desc: true}}},
		{Kind: ir.KindLimit, Args: []ir.Arg{ir.Int(10)}},
	}
}

func TestLoadFile_YAMLAndCUEAgree(t *testing.T) {
	for _, name := range []string{"orders.yaml", "orders.cue"} {
		t.Run(name, func(t *testing.T) {
			script, err := LoadFile(filepath.Join("testdata", name))
			require.NoError(t, err)

			assert.Equal(t, "recent-orders", script.Name)
			assert.Equal(t, "Orders placed by active users, newest first.", script.Description)
			assert.Equal(t, "sqlite", script.Dialect)
			assert.Equal(t, expectedOrdersClauses(), script.Clauses)
			assert.True(t, script.Position(0).IsValid())
			assert.Equal(t, name, script.Position(0).File)
		})
	}
}

func TestLoad_ArgumentShapes(t *testing.T) {
	src := `
clauses:
  - insert:
      - row: {b: 2, a: "x", c: null}
      - row: {d: {date: "2024-05-06 07:08:09"}}
  - to: {table: t}
  - where:
      scope: or
      items: [{column: a}, {column: b}]
  - eq: {scope: and, items: [1, 2.5, true]}
  - union: {query: [select, {from: {table: u}}]}
  - order by: [{sort: name}]
`
	script, err := Load("shapes.yaml", []byte(src), FormatYAML)
	require.NoError(t, err)
	require.Len(t, script.Clauses, 6)

	assert.Equal(t, "shapes", script.Name)
	assert.Equal(t, []ir.Arg{
		ir.Row{{Column: "b", Value: ir.Int(2)}, {Column: "a", Value: ir.String("x")}, {Column: "c", Value: ir.Null{}}},
		ir.Row{{Column: "d", Value: ir.Date(time.Date(2024, 5, 6, 7, 8, 9, 0, time.UTC))}},
	}, script.Clauses[0].Args)
	assert.Equal(t, []ir.Arg{ir.AnyOf(ir.Col("a"), ir.Col("b"))}, script.Clauses[2].Args)
	assert.Equal(t, []ir.Arg{ir.AllOf(ir.Int(1), ir.Float(2.5), ir.Bool(true))}, script.Clauses[3].Args)
	assert.Equal(t, []ir.Arg{ir.Subquery{Clauses: []ir.Clause{
		{Kind: ir.KindSelect},
		{Kind: ir.KindFrom, Args: []ir.Arg{ir.Table("u")}},
	}}}, script.Clauses[4].Args)
	assert.Equal(t, []ir.Arg{ir.SortKey{Column: ir.Col("name")}}, script.Clauses[5].Args)
}

func TestLoad_NamedQueryReference(t *testing.T) {
	src := `
queries:
  inner:
    - select
    - from: {table: b}
  outer:
    - select
    - from: {table: a}
    - union: {ref: inner}
clauses:
  - select
  - from: {table: c}
  - union all: {ref: outer}
`
	script, err := Load("refs.yaml", []byte(src), FormatYAML)
	require.NoError(t, err)

	inner := ir.Subquery{Clauses: []ir.Clause{
		{Kind: ir.KindSelect},
		{Kind: ir.KindFrom, Args: []ir.Arg{ir.Table("b")}},
	}}
	outer := ir.Subquery{Clauses: []ir.Clause{
		{Kind: ir.KindSelect},
		{Kind: ir.KindFrom, Args: []ir.Arg{ir.Table("a")}},
		{Kind: ir.KindUnion, Args: []ir.Arg{inner}},
	}}
	assert.Equal(t, []ir.Arg{outer}, script.Clauses[2].Args)
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name   string
		format Format
		src    string
		code   string
	}{
		{"yaml syntax", FormatYAML, "clauses: [", ErrSourceSyntax},
		{"cue syntax", FormatCUE, "clauses: [", ErrSourceSyntax},
		{"empty", FormatYAML, "", ErrMalformedScript},
		{"top-level list", FormatYAML, "- select", ErrMalformedScript},
		{"unknown field", FormatYAML, "clauses: []\nextra: 1", ErrMalformedScript},
		{"missing clauses", FormatYAML, "name: x", ErrMalformedScript},
		{"unknown kind", FormatYAML, "clauses: [merge]", ErrUnknownKind},
		{"two keys", FormatYAML, "clauses: [{select: [], from: []}]", ErrMalformedScript},
		{"nested list", FormatYAML, "clauses: [{eq: [[1, 2]]}]", ErrBadArgument},
		{"unknown arg keys", FormatYAML, "clauses: [{from: {name: t}}]", ErrBadArgument},
		{"extra column key", FormatYAML, "clauses: [{where: {column: a, size: 3}}]", ErrBadArgument},
		{"bad scope", FormatYAML, "clauses: [{where: {scope: xor, items: []}}]", ErrBadArgument},
		{"not a function", FormatYAML, "clauses: [{select: {call: where}}]", ErrBadArgument},
		{"bad date", FormatYAML, "clauses: [{eq: {date: tomorrow}}]", ErrBadValue},
		{"unknown ref", FormatYAML, "clauses: [{union: {ref: nope}}]", ErrUnknownReference},
		{"incomplete cue", FormatCUE, "clauses: [{limit: int}]", ErrSourceSyntax},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load("bad", []byte(tt.src), tt.format)
			require.Error(t, err)

			var loadErr *LoadError
			require.ErrorAs(t, err, &loadErr)
			assert.Equal(t, tt.code, loadErr.Code, err.Error())
		})
	}
}

func TestLoad_ErrorPosition(t *testing.T) {
	src := "clauses:\n  - select\n  - frum: {table: t}\n"
	_, err := Load("pos.yaml", []byte(src), FormatYAML)
	require.Error(t, err)

	var loadErr *LoadError
	require.ErrorAs(t, err, &loadErr)
	assert.Equal(t, 3, loadErr.Pos.Line)
	assert.Contains(t, err.Error(), "pos.yaml:3:")
	assert.Contains(t, err.Error(), "clauses[1]")
}

func TestFormatFor(t *testing.T) {
	f, err := FormatFor("a/b.yml")
	require.NoError(t, err)
	assert.Equal(t, FormatYAML, f)

	f, err = FormatFor("x.cue")
	require.NoError(t, err)
	assert.Equal(t, FormatCUE, f)

	_, err = FormatFor("x.json")
	require.Error(t, err)
}

func TestLoadFile_Missing(t *testing.T) {
	_, err := LoadFile(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read script")
}

func TestLoadErrorFormat(t *testing.T) {
	err := &LoadError{Code: ErrBadArgument, Field: "clauses[0]", Message: "bad"}
	assert.Equal(t, "[E204] clauses[0]: bad", err.Error())

	err.Pos = Position{File: "s.yaml", Line: 2, Column: 5}
	assert.Equal(t, "s.yaml:2:5: [E204] clauses[0]: bad", err.Error())
}
