package querysql

import (
	"fmt"
	"strings"

	"github.com/roach88/sqlchain/internal/dialect"
	"github.com/roach88/sqlchain/internal/ir"
)

// tablesHandler renders table arguments into kind's template, one template
// argument per table. UPDATE renders tables without their alias.
func tablesHandler(withAlias bool) handler {
	return func(b *Builder, kind ir.ClauseKind, args []ir.Arg) error {
		tables := make([]string, 0, len(args))
		for _, a := range args {
			t, ok := a.(ir.TableRef)
			if !ok {
				continue
			}
			tables = append(tables, FormatTable(t, withAlias))
		}
		return b.pushRendered(kind, dialect.Options{}, tables...)
	}
}

// handleSelect renders the selection list, "*" when it is empty.
func (b *Builder) handleSelect(kind ir.ClauseKind, args []ir.Arg) error {
	if len(args) == 0 {
		return b.pushRendered(kind, dialect.Options{}, "*")
	}
	items := make([]string, 0, len(args))
	for _, a := range args {
		text, err := b.formatSelection(a)
		if err != nil {
			return err
		}
		items = append(items, text)
	}
	return b.pushRendered(kind, dialect.Options{}, items...)
}

// handleOn renders join conditions from consecutive column pairs.
func (b *Builder) handleOn(kind ir.ClauseKind, args []ir.Arg) error {
	columns := make([]string, 0, len(args))
	for _, a := range args {
		if c, ok := a.(ir.ColumnRef); ok {
			columns = append(columns, FormatColumn(c))
		}
	}
	return b.pushRendered(kind, dialect.Options{}, columns...)
}

// handleUsing renders the single shared join column.
func (b *Builder) handleUsing(kind ir.ClauseKind, args []ir.Arg) error {
	if len(args) == 0 {
		return b.pushRendered(kind, dialect.Options{})
	}
	c, ok := args[0].(ir.ColumnRef)
	if !ok {
		return newInvariantViolation(kind, "USING expects a column, got %T", args[0])
	}
	return b.pushRendered(kind, dialect.Options{}, c.Name)
}

// handleUnion renders one "UNION <query>" fragment per query argument.
func (b *Builder) handleUnion(kind ir.ClauseKind, args []ir.Arg) error {
	for _, a := range args {
		text, err := b.formatArg(a)
		if err != nil {
			return err
		}
		if err := b.pushRendered(kind, dialect.Options{}, text); err != nil {
			return err
		}
	}
	return nil
}

// handleDefault formats every argument and renders kind's template once.
func (b *Builder) handleDefault(kind ir.ClauseKind, args []ir.Arg) error {
	formatted := make([]string, 0, len(args))
	for _, a := range args {
		text, err := b.formatArg(a)
		if err != nil {
			return err
		}
		formatted = append(formatted, text)
	}
	return b.pushRendered(kind, dialect.Options{}, formatted...)
}

// formatArg renders any argument in operand position.
func (b *Builder) formatArg(a ir.Arg) (string, error) {
	switch v := a.(type) {
	case ir.Value:
		return EscapeValue(v), nil
	case ir.ColumnRef:
		return FormatColumn(v), nil
	case ir.TableRef:
		return FormatTable(v, true), nil
	case ir.SortKey:
		return FormatSortKey(v), nil
	case ir.Call:
		return b.formatCall(v), nil
	case *ir.LogicalScope:
		return b.formatScope(v), nil
	case ir.Row:
		return formatAssignments(v), nil
	case ir.Statement:
		return v.Body, nil
	case ir.Subquery:
		stmt, err := b.buildSubquery(v)
		if err != nil {
			return "", err
		}
		return stmt.Body, nil
	case nil:
		return "", newInvariantViolation(ir.KindUndefined, "nil argument")
	default:
		return "", newInvariantViolation(ir.KindUndefined, "unsupported argument %T", a)
	}
}

// formatTarget renders a plain key chain target for a template's property.
func (b *Builder) formatTarget(t ir.Target) string {
	switch v := t.(type) {
	case ir.ColumnRef:
		return FormatColumn(v)
	case ir.Call:
		return b.formatCall(v)
	case *ir.LogicalScope:
		return b.formatScope(v)
	}
	return ""
}

// formatOperand renders a comparison value. Literals are escaped; columns
// and calls are rendered as expressions.
func (b *Builder) formatOperand(o ir.Operand) string {
	switch v := o.(type) {
	case ir.Value:
		return EscapeValue(v)
	case ir.ColumnRef:
		return FormatColumn(v)
	case ir.Call:
		return b.formatCall(v)
	case *ir.LogicalScope:
		return b.formatScope(v)
	}
	return ""
}

// formatScope renders a scope outside a comparison as a parenthesized
// operand list, "(a AND b)".
func (b *Builder) formatScope(s *ir.LogicalScope) string {
	if s == nil {
		return ""
	}
	word := "AND"
	if s.Operator == ir.KindOr {
		word = "OR"
	}
	if kw, err := b.render(s.Operator, dialect.Options{}); err == nil && kw != "" {
		word = kw
	}
	parts := make([]string, len(s.Items))
	for i, item := range s.Items {
		parts[i] = b.formatOperand(item)
	}
	return "(" + strings.Join(parts, " "+word+" ") + ")"
}

// buildSubquery builds a nested clause stream with a child builder.
func (b *Builder) buildSubquery(q ir.Subquery) (ir.Statement, error) {
	child := b.child()
	if err := child.SubmitAll(q.Clauses); err != nil {
		return ir.Statement{}, fmt.Errorf("subquery: %w", err)
	}
	return child.Build(), nil
}

// formatAssignments renders "col = value, col = value".
func formatAssignments(r ir.Row) string {
	parts := make([]string, len(r))
	for i, f := range r {
		parts[i] = f.Column + " = " + EscapeValue(valueOrNull(f.Value))
	}
	return strings.Join(parts, ", ")
}

func valueOrNull(v ir.Value) ir.Value {
	if v == nil {
		return ir.Null{}
	}
	return v
}
