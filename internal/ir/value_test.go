package ir

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValueOf(t *testing.T) {
	ts := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name  string
		input any
		want  Value
	}{
		{"nil", nil, Null{}},
		{"string", "a", String("a")},
		{"bool", false, Bool(false)},
		{"int", 3, Int(3)},
		{"int32", int32(-3), Int(-3)},
		{"uint8", uint8(9), Int(9)},
		{"float32", float32(0.5), Float(0.5)},
		{"float64", 2.25, Float(2.25)},
		{"time", ts, Date(ts)},
		{"value passthrough", Int(5), Int(5)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ValueOf(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestValueOfRejectsUnsupported(t *testing.T) {
	_, err := ValueOf([]int{1})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported literal type")

	assert.Panics(t, func() { MustValue(struct{}{}) })
}

func TestValues(t *testing.T) {
	args := Values(1, "x", nil)
	assert.Equal(t, []Arg{Int(1), String("x"), Null{}}, args)
}

func TestGoValue(t *testing.T) {
	ts := time.Date(2024, 3, 1, 14, 30, 0, 0, time.FixedZone("CET", 3600))

	assert.Nil(t, GoValue(Null{}))
	assert.Equal(t, "s", GoValue(String("s")))
	assert.Equal(t, int64(4), GoValue(Int(4)))
	assert.Equal(t, "0.1", GoValue(Float(0.1)))
	assert.Equal(t, true, GoValue(Bool(true)))
	assert.Equal(t, "2024-03-01 13:30:00", GoValue(Date(ts)))
}

func TestRowAccessors(t *testing.T) {
	r := Row{{Column: "b", Value: Int(2)}, {Column: "a", Value: Int(1)}}

	assert.Equal(t, []string{"b", "a"}, r.Keys())

	v, ok := r.Get("a")
	assert.True(t, ok)
	assert.Equal(t, Int(1), v)

	_, ok = r.Get("missing")
	assert.False(t, ok)
}

func TestStatementString(t *testing.T) {
	s := Statement{PrimaryKind: KindDelete, Body: "DELETE FROM t"}
	assert.Equal(t, "DELETE FROM t", s.String())
}
