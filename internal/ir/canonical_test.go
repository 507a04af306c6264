package ir

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarshalCanonicalBasic(t *testing.T) {
	tests := []struct {
		name     string
		input    any
		expected string
	}{
		{"nil", nil, "null"},
		{"string", "hello", `"hello"`},
		{"int", 42, "42"},
		{"int64", int64(-100), "-100"},
		{"bool", true, "true"},
		{"float", 1.5, "1.5"},
		{"empty array", []any{}, "[]"},
		{"empty object", map[string]any{}, "{}"},
		{"value int", Int(7), "7"},
		{"value null", Null{}, "null"},
		{"value string", String("x"), `"x"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := MarshalCanonical(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, string(result))
		})
	}
}

func TestMarshalCanonicalSortedKeys(t *testing.T) {
	result, err := MarshalCanonical(map[string]any{
		"zebra": 1,
		"alpha": 2,
		"beta":  map[string]any{"y": 1, "x": 2},
	})
	require.NoError(t, err)
	assert.Equal(t, `{"alpha":2,"beta":{"x":2,"y":1},"zebra":1}`, string(result))
}

func TestMarshalCanonicalUTF16Ordering(t *testing.T) {
	// U+1F600 encodes as surrogates 0xD83D 0xDE00, which sort before U+FFFD
	// in UTF-16 but after it in UTF-8.
	result, err := MarshalCanonical(map[string]any{
		"\uFFFD":     1,
		"\U0001F600": 2,
	})
	require.NoError(t, err)
	assert.Equal(t, "{\"\U0001F600\":2,\"\uFFFD\":1}", string(result))
}

func TestMarshalCanonicalNoHTMLEscape(t *testing.T) {
	result, err := MarshalCanonical("a < b && c > d")
	require.NoError(t, err)
	assert.Equal(t, `"a < b && c > d"`, string(result))
}

func TestMarshalCanonicalNFCNormalization(t *testing.T) {
	// "e" + combining acute accent normalizes to the precomposed form.
	decomposed, err := MarshalCanonical("cafe\u0301")
	require.NoError(t, err)
	assert.Equal(t, "\"caf\u00e9\"", string(decomposed))
}

func TestMarshalCanonicalClauses(t *testing.T) {
	clauses := []Clause{
		{Kind: KindWhere, Args: []Arg{ColumnRef{Table: "u", Name: "id"}}},
		{Kind: KindEQ, Args: []Arg{Int(1)}},
	}

	result, err := MarshalCanonical(clauses)
	require.NoError(t, err)
	assert.Equal(t,
		`[{"args":[{"column":"id","table":"u"}],"kind":"WHERE"},{"args":[1],"kind":"EQ"}]`,
		string(result))
}

func TestMarshalCanonicalRejectsUnsupported(t *testing.T) {
	_, err := MarshalCanonical(struct{}{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported type")
}

func TestDescribeArg(t *testing.T) {
	tests := []struct {
		name string
		arg  Arg
		want any
	}{
		{"column", Col("a"), map[string]any{"column": "a"}},
		{"aliased table", TableRef{Name: "users", Alias: "u"}, map[string]any{"table": "users", "alias": "u"}},
		{"scope", AnyOf(Col("a"), Int(1)), map[string]any{
			"scope": "OR",
			"items": []any{map[string]any{"column": "a"}, int64(1)},
		}},
		{"sort", SortKey{Column: Col("a"), Desc: true}, map[string]any{
			"sort": map[string]any{"column": "a"},
			"desc": true,
		}},
		{"row", Row{{Column: "a", Value: String("x")}}, map[string]any{
			"row": []any{[]any{"a", "x"}},
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DescribeArg(tt.arg))
		})
	}
}
