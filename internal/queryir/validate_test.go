package queryir

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/sqlchain/internal/ir"
)

func TestDefault_Accepts(t *testing.T) {
	v := Default()

	tests := []struct {
		name string
		kind ir.ClauseKind
		args []ir.Arg
	}{
		{"select star", ir.KindSelect, nil},
		{"select columns and calls", ir.KindSelect, []ir.Arg{ir.Col("a"), ir.Call{Function: ir.KindCount}}},
		{"from tables", ir.KindFrom, []ir.Arg{ir.Table("a"), ir.TableRef{Name: "b", Alias: "x"}}},
		{"where scope", ir.KindWhere, []ir.Arg{ir.AnyOf(ir.Col("a"), ir.AllOf(ir.Col("b")))}},
		{"eq values", ir.KindEQ, ir.Values(1, "x", nil)},
		{"eq value scope", ir.KindEQ, []ir.Arg{ir.AnyOf(ir.Int(1), ir.Int(2))}},
		{"between", ir.KindBetween, ir.Values(1, 2)},
		{"in", ir.KindIn, ir.Values("a")},
		{"null", ir.KindNull, nil},
		{"insert rows", ir.KindInsert, []ir.Arg{ir.Row{{Column: "a", Value: ir.Int(1)}}, ir.Row{}}},
		{"to", ir.KindTo, []ir.Arg{ir.Table("t")}},
		{"set", ir.KindSet, []ir.Arg{ir.Row{{Column: "a", Value: ir.Int(1)}}}},
		{"on pairs", ir.KindOn, []ir.Arg{ir.Col("a"), ir.Col("b")}},
		{"using", ir.KindUsing, []ir.Arg{ir.Col("id")}},
		{"union statement", ir.KindUnion, []ir.Arg{ir.Statement{Body: "SELECT 1"}}},
		{"exists subquery", ir.KindExists, []ir.Arg{ir.Subquery{}}},
		{"order by", ir.KindOrderBy, []ir.Arg{ir.Col("a"), ir.SortKey{Column: ir.Col("b"), Desc: true}}},
		{"limit", ir.KindLimit, ir.Values(10, 5)},
		{"having", ir.KindHaving, nil},
		{"not", ir.KindNot, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.NoError(t, v.Validate(tt.kind, tt.args))
		})
	}
}

func TestDefault_Rejects(t *testing.T) {
	v := Default()

	tests := []struct {
		name      string
		kind      ir.ClauseKind
		args      []ir.Arg
		wantIndex int
		contains  string
	}{
		{"from without tables", ir.KindFrom, nil, -1, "at least 1"},
		{"from literal", ir.KindFrom, ir.Values(1), 0, "expected table reference"},
		{"empty table name", ir.KindFrom, []ir.Arg{ir.Table("")}, 0, "table name is empty"},
		{"where literal", ir.KindWhere, ir.Values("a"), 0, "expected column, call or logical scope"},
		{"where scope with literal", ir.KindWhere, []ir.Arg{ir.AnyOf(ir.Int(1))}, 0, "in scope"},
		{"scope with bad operator", ir.KindWhere, []ir.Arg{ir.NewScope(ir.KindNot, ir.Col("a"))}, 0, "AND or OR"},
		{"eq nan", ir.KindEQ, []ir.Arg{ir.Float(math.NaN())}, 0, "float must be finite"},
		{"gt infinity in scope", ir.KindGT, []ir.Arg{ir.AnyOf(ir.Int(1), ir.Float(math.Inf(1)))}, 0, "in scope: float must be finite"},
		{"in negative infinity", ir.KindIn, []ir.Arg{ir.Int(1), ir.Float(math.Inf(-1))}, 1, "float must be finite"},
		{"insert nan field", ir.KindInsert, []ir.Arg{ir.Row{{Column: "score", Value: ir.Float(math.NaN())}}}, 0, "score: float must be finite"},
		{"between arity", ir.KindBetween, ir.Values(1), -1, "exactly 2"},
		{"between scope", ir.KindBetween, []ir.Arg{ir.AnyOf(ir.Int(1)), ir.Int(2)}, 0, "not allowed"},
		{"null with args", ir.KindNull, ir.Values(1), -1, "no arguments"},
		{"and with args", ir.KindAnd, []ir.Arg{ir.Col("a")}, -1, "no arguments"},
		{"insert literal", ir.KindInsert, ir.Values(1), 0, "expected row"},
		{"set empty row", ir.KindSet, []ir.Arg{ir.Row{}}, 0, "no fields"},
		{"on odd", ir.KindOn, []ir.Arg{ir.Col("a")}, -1, "column pairs"},
		{"union literal", ir.KindUnion, ir.Values("x"), 0, "statement or subquery"},
		{"limit negative", ir.KindLimit, ir.Values(-1), 0, "negative"},
		{"limit too many", ir.KindLimit, ir.Values(1, 2, 3), -1, "count and optional offset"},
		{"limit string", ir.KindLimit, ir.Values("10"), 0, "expected integer"},
		{"select table", ir.KindSelect, []ir.Arg{ir.Table("t")}, 0, "column or function call"},
		{"select non-function call", ir.KindSelect, []ir.Arg{ir.Call{Function: ir.KindWhere}}, 0, "not a function"},
		{"join two tables", ir.KindJoin, []ir.Arg{ir.Table("a"), ir.Table("b")}, -1, "exactly 1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Validate(tt.kind, tt.args)
			require.Error(t, err)

			var se *ShapeError
			require.True(t, errors.As(err, &se))
			assert.Equal(t, tt.kind, se.Kind)
			assert.Equal(t, tt.wantIndex, se.Index)
			assert.Contains(t, err.Error(), tt.contains)
		})
	}
}

func TestValidators_NilAndMissing(t *testing.T) {
	var v Validators
	assert.NoError(t, v.Validate(ir.KindFrom, nil))

	assert.NoError(t, Default().Validate(ir.KindCount, ir.Values(1, 2)))
}

func TestDefault_ReturnsFreshMap(t *testing.T) {
	a := Default()
	delete(a, ir.KindFrom)

	b := Default()
	assert.Error(t, b.Validate(ir.KindFrom, nil))
}

func TestShapeError_Message(t *testing.T) {
	err := &ShapeError{Kind: ir.KindFrom, Index: 2, Message: "bad"}
	assert.Equal(t, "FROM argument 2: bad", err.Error())

	err = &ShapeError{Kind: ir.KindFrom, Index: -1, Message: "bad"}
	assert.Equal(t, "FROM: bad", err.Error())
}
