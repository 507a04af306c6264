package queryir

import (
	"fmt"
	"math"

	"github.com/roach88/sqlchain/internal/ir"
)

// ShapeError reports arguments that do not fit the shape a clause kind
// accepts.
type ShapeError struct {
	Kind    ir.ClauseKind
	Index   int // offending argument, -1 when the error concerns arity
	Message string
}

func (e *ShapeError) Error() string {
	if e.Index >= 0 {
		return fmt.Sprintf("%s argument %d: %s", e.Kind, e.Index, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// Validator checks the arguments of one submission.
type Validator func(args ...ir.Arg) error

// Validators maps clause kinds to validators. Absence means "no validation".
type Validators map[ir.ClauseKind]Validator

// Validate runs the validator registered for kind, if any.
func (v Validators) Validate(kind ir.ClauseKind, args []ir.Arg) error {
	if v == nil {
		return nil
	}
	fn, ok := v[kind]
	if !ok {
		return nil
	}
	return fn(args...)
}

// Default returns the standard validator set. The returned map is fresh;
// callers may add or remove entries.
func Default() Validators {
	v := Validators{
		ir.KindSelect:     each(ir.KindSelect, isSelection),
		ir.KindFrom:       atLeast(ir.KindFrom, 1, isTable),
		ir.KindWhere:      atLeast(ir.KindWhere, 1, isTarget),
		ir.KindNull:       none(ir.KindNull),
		ir.KindBetween:    exactly(ir.KindBetween, 2, isPlainOperand),
		ir.KindIn:         atLeast(ir.KindIn, 1, isPlainOperand),
		ir.KindAnd:        none(ir.KindAnd),
		ir.KindOr:         none(ir.KindOr),
		ir.KindNot:        none(ir.KindNot),
		ir.KindInsert:     atLeast(ir.KindInsert, 1, isRow),
		ir.KindTo:         exactly(ir.KindTo, 1, isTable),
		ir.KindUpdate:     atLeast(ir.KindUpdate, 1, isTable),
		ir.KindSet:        exactly(ir.KindSet, 1, isNonEmptyRow),
		ir.KindDelete:     none(ir.KindDelete),
		ir.KindOn:         validateOn,
		ir.KindUsing:      exactly(ir.KindUsing, 1, isColumn),
		ir.KindUnion:      atLeast(ir.KindUnion, 1, isQuery),
		ir.KindUnionAll:   atLeast(ir.KindUnionAll, 1, isQuery),
		ir.KindExists:     exactly(ir.KindExists, 1, isQuery),
		ir.KindGroupBy:    atLeast(ir.KindGroupBy, 1, isColumn),
		ir.KindOrderBy:    atLeast(ir.KindOrderBy, 1, isSortable),
		ir.KindHaving:     each(ir.KindHaving, isOperand),
		ir.KindLimit:      validateLimit,
		ir.KindOpenParen:  none(ir.KindOpenParen),
		ir.KindCloseParen: none(ir.KindCloseParen),
	}
	for _, kind := range []ir.ClauseKind{ir.KindEQ, ir.KindLT, ir.KindGT, ir.KindLike} {
		v[kind] = atLeast(kind, 1, isOperand)
	}
	for _, kind := range []ir.ClauseKind{ir.KindJoin, ir.KindLeftJoin, ir.KindRightJoin, ir.KindFullJoin} {
		v[kind] = exactly(kind, 1, isTable)
	}
	return v
}

// check returns "" when the argument is acceptable, otherwise a reason.
type check func(a ir.Arg) string

func each(kind ir.ClauseKind, c check) Validator {
	return func(args ...ir.Arg) error {
		for i, a := range args {
			if reason := c(a); reason != "" {
				return &ShapeError{Kind: kind, Index: i, Message: reason}
			}
		}
		return nil
	}
}

func atLeast(kind ir.ClauseKind, n int, c check) Validator {
	return func(args ...ir.Arg) error {
		if len(args) < n {
			return &ShapeError{Kind: kind, Index: -1, Message: fmt.Sprintf("expected at least %d argument(s), got %d", n, len(args))}
		}
		return each(kind, c)(args...)
	}
}

func exactly(kind ir.ClauseKind, n int, c check) Validator {
	return func(args ...ir.Arg) error {
		if len(args) != n {
			return &ShapeError{Kind: kind, Index: -1, Message: fmt.Sprintf("expected exactly %d argument(s), got %d", n, len(args))}
		}
		return each(kind, c)(args...)
	}
}

func none(kind ir.ClauseKind) Validator {
	return func(args ...ir.Arg) error {
		if len(args) != 0 {
			return &ShapeError{Kind: kind, Index: -1, Message: fmt.Sprintf("takes no arguments, got %d", len(args))}
		}
		return nil
	}
}

func validateOn(args ...ir.Arg) error {
	if len(args) < 2 || len(args)%2 != 0 {
		return &ShapeError{Kind: ir.KindOn, Index: -1, Message: fmt.Sprintf("expected column pairs, got %d argument(s)", len(args))}
	}
	return each(ir.KindOn, isColumn)(args...)
}

func validateLimit(args ...ir.Arg) error {
	if len(args) < 1 || len(args) > 2 {
		return &ShapeError{Kind: ir.KindLimit, Index: -1, Message: fmt.Sprintf("expected count and optional offset, got %d argument(s)", len(args))}
	}
	return each(ir.KindLimit, func(a ir.Arg) string {
		n, ok := a.(ir.Int)
		if !ok {
			return fmt.Sprintf("expected integer, got %T", a)
		}
		if n < 0 {
			return "must not be negative"
		}
		return ""
	})(args...)
}

func isTable(a ir.Arg) string {
	t, ok := a.(ir.TableRef)
	if !ok {
		return fmt.Sprintf("expected table reference, got %T", a)
	}
	if t.Name == "" {
		return "table name is empty"
	}
	return ""
}

func isColumn(a ir.Arg) string {
	c, ok := a.(ir.ColumnRef)
	if !ok {
		return fmt.Sprintf("expected column reference, got %T", a)
	}
	if c.Name == "" {
		return "column name is empty"
	}
	return ""
}

func isSortable(a ir.Arg) string {
	if s, ok := a.(ir.SortKey); ok {
		return isColumn(s.Column)
	}
	return isColumn(a)
}

func isSelection(a ir.Arg) string {
	switch v := a.(type) {
	case ir.ColumnRef:
		return isColumn(v)
	case ir.Call:
		return checkCall(v)
	default:
		return fmt.Sprintf("expected column or function call, got %T", a)
	}
}

func checkCall(c ir.Call) string {
	if !c.Function.IsFunction() {
		return fmt.Sprintf("%s is not a function", c.Function)
	}
	for _, nested := range c.Args {
		if call, ok := nested.(ir.Call); ok {
			if reason := checkCall(call); reason != "" {
				return reason
			}
		}
		if _, ok := nested.(*ir.LogicalScope); ok {
			return "function arguments cannot be logical scopes"
		}
	}
	return ""
}

// isTarget accepts columns, calls, and logical scopes whose items are
// themselves targets.
func isTarget(a ir.Arg) string {
	switch v := a.(type) {
	case ir.ColumnRef:
		return isColumn(v)
	case ir.Call:
		return checkCall(v)
	case *ir.LogicalScope:
		if v == nil {
			return "nil logical scope"
		}
		if !v.Operator.IsLogical() {
			return fmt.Sprintf("scope operator must be AND or OR, got %s", v.Operator)
		}
		for _, item := range v.Items {
			if reason := isTarget(item); reason != "" {
				return "in scope: " + reason
			}
		}
		return ""
	default:
		return fmt.Sprintf("expected column, call or logical scope, got %T", a)
	}
}

func isOperand(a ir.Arg) string {
	switch v := a.(type) {
	case *ir.LogicalScope:
		if v == nil {
			return "nil logical scope"
		}
		if !v.Operator.IsLogical() {
			return fmt.Sprintf("scope operator must be AND or OR, got %s", v.Operator)
		}
		for _, item := range v.Items {
			if reason := isOperand(item); reason != "" {
				return "in scope: " + reason
			}
		}
		return ""
	case ir.Float:
		return isFinite(v)
	case ir.Operand:
		return ""
	default:
		return fmt.Sprintf("expected literal, column or scope, got %T", a)
	}
}

// isFinite rejects NaN and infinities, which have no SQL literal.
func isFinite(f ir.Float) string {
	if math.IsNaN(float64(f)) || math.IsInf(float64(f), 0) {
		return fmt.Sprintf("float must be finite, got %v", float64(f))
	}
	return ""
}

func rowValues(r ir.Row) string {
	for _, field := range r {
		if f, ok := field.Value.(ir.Float); ok {
			if reason := isFinite(f); reason != "" {
				return field.Column + ": " + reason
			}
		}
	}
	return ""
}

func isPlainOperand(a ir.Arg) string {
	if _, ok := a.(*ir.LogicalScope); ok {
		return "logical scope not allowed here"
	}
	return isOperand(a)
}

func isRow(a ir.Arg) string {
	r, ok := a.(ir.Row)
	if !ok {
		return fmt.Sprintf("expected row, got %T", a)
	}
	return rowValues(r)
}

func isNonEmptyRow(a ir.Arg) string {
	r, ok := a.(ir.Row)
	if !ok {
		return fmt.Sprintf("expected row, got %T", a)
	}
	if len(r) == 0 {
		return "row has no fields"
	}
	return rowValues(r)
}

func isQuery(a ir.Arg) string {
	switch a.(type) {
	case ir.Statement, ir.Subquery:
		return ""
	default:
		return fmt.Sprintf("expected statement or subquery, got %T", a)
	}
}
