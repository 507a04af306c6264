package compiler

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/roach88/sqlchain/internal/ir"
)

// converter turns nodes into clauses and arguments. named holds the
// script's named queries; resolved memoizes their conversion.
type converter struct {
	named    map[string]*node
	resolved map[string][]ir.Clause
}

// clauseList converts a list of single-key clause mappings.
//
//	- select: [{column: id}]
//	- where: {column: status}
//	- and
func (c *converter) clauseList(path string, n *node) ([]ir.Clause, []Position, error) {
	if n.kind != listNode {
		return nil, nil, &LoadError{
			Code:    ErrMalformedScript,
			Field:   path,
			Message: fmt.Sprintf("expected list of clauses, got %s", n.describe()),
			Pos:     n.pos,
		}
	}
	clauses := make([]ir.Clause, 0, len(n.items))
	positions := make([]Position, 0, len(n.items))
	for i, item := range n.items {
		cl, err := c.clause(fmt.Sprintf("%s[%d]", path, i), item)
		if err != nil {
			return nil, nil, err
		}
		clauses = append(clauses, cl)
		positions = append(positions, item.pos)
	}
	return clauses, positions, nil
}

func (c *converter) clause(path string, n *node) (ir.Clause, error) {
	var (
		name  string
		value *node
	)
	switch n.kind {
	case scalarNode:
		s, ok := n.scalar.(string)
		if !ok {
			return ir.Clause{}, &LoadError{Code: ErrMalformedScript, Field: path, Message: "clause must be a kind name or a single-key mapping", Pos: n.pos}
		}
		name = s
	case mapNode:
		if len(n.fields) != 1 {
			return ir.Clause{}, &LoadError{
				Code:    ErrMalformedScript,
				Field:   path,
				Message: fmt.Sprintf("clause mapping must have exactly one key, got %d", len(n.fields)),
				Pos:     n.pos,
			}
		}
		name, value = n.fields[0].key, n.fields[0].value
	default:
		return ir.Clause{}, &LoadError{Code: ErrMalformedScript, Field: path, Message: "clause must be a kind name or a single-key mapping", Pos: n.pos}
	}

	kind, err := ir.ParseClauseKind(name)
	if err != nil {
		return ir.Clause{}, &LoadError{Code: ErrUnknownKind, Field: path, Message: err.Error(), Pos: n.pos}
	}

	cl := ir.Clause{Kind: kind}
	if value == nil || (value.kind == scalarNode && value.scalar == nil) {
		return cl, nil
	}

	items := []*node{value}
	if value.kind == listNode {
		items = value.items
	}
	for i, item := range items {
		a, err := c.arg(fmt.Sprintf("%s.%s[%d]", path, strings.ToLower(kind.String()), i), item)
		if err != nil {
			return ir.Clause{}, err
		}
		cl.Args = append(cl.Args, a)
	}
	return cl, nil
}

// arg converts one argument. Scalars are literals; mappings are recognized
// by their distinguishing key.
func (c *converter) arg(path string, n *node) (ir.Arg, error) {
	switch n.kind {
	case scalarNode:
		return c.literal(path, n)
	case listNode:
		return nil, &LoadError{Code: ErrBadArgument, Field: path, Message: "nested lists are not arguments; wrap values in {scope: or, items: [...]}", Pos: n.pos}
	}

	switch {
	case has(n, "column"):
		return c.column(path, n)
	case has(n, "table"):
		return c.table(path, n)
	case has(n, "scope"):
		return c.scope(path, n)
	case has(n, "call"):
		return c.call(path, n)
	case has(n, "row"):
		return c.row(path, n)
	case has(n, "sort"):
		return c.sort(path, n)
	case has(n, "date"):
		return c.date(path, n)
	case has(n, "query"):
		return c.query(path, n)
	case has(n, "ref"):
		return c.ref(path, n)
	}
	keys := make([]string, len(n.fields))
	for i, f := range n.fields {
		keys[i] = f.key
	}
	return nil, &LoadError{Code: ErrBadArgument, Field: path, Message: fmt.Sprintf("unrecognized argument keys %v", keys), Pos: n.pos}
}

func has(n *node, key string) bool {
	_, ok := n.get(key)
	return ok
}

// operand converts an argument that must sit in operand position.
func (c *converter) operand(path string, n *node) (ir.Operand, error) {
	a, err := c.arg(path, n)
	if err != nil {
		return nil, err
	}
	op, ok := a.(ir.Operand)
	if !ok {
		return nil, &LoadError{Code: ErrBadArgument, Field: path, Message: fmt.Sprintf("%T cannot be used as an operand", a), Pos: n.pos}
	}
	return op, nil
}

func (c *converter) literal(path string, n *node) (ir.Value, error) {
	v, err := ir.ValueOf(n.scalar)
	if err != nil {
		return nil, &LoadError{Code: ErrBadValue, Field: path, Message: err.Error(), Pos: n.pos}
	}
	return v, nil
}

// strictKeys rejects keys outside allowed.
func strictKeys(path string, n *node, allowed ...string) error {
	for _, f := range n.fields {
		if !slices.Contains(allowed, f.key) {
			return &LoadError{
				Code:    ErrBadArgument,
				Field:   path + "." + f.key,
				Message: fmt.Sprintf("unexpected key (want %s)", strings.Join(allowed, ", ")),
				Pos:     f.value.pos,
			}
		}
	}
	return nil
}

// stringField reads an optional string-valued key.
func stringField(path string, n *node, key string) (string, error) {
	v, ok := n.get(key)
	if !ok {
		return "", nil
	}
	s, ok := scalarString(v)
	if !ok {
		return "", &LoadError{Code: ErrBadArgument, Field: path + "." + key, Message: "expected string", Pos: v.pos}
	}
	return s, nil
}

func (c *converter) column(path string, n *node) (ir.ColumnRef, error) {
	if err := strictKeys(path, n, "column", "table", "alias"); err != nil {
		return ir.ColumnRef{}, err
	}
	var (
		col ir.ColumnRef
		err error
	)
	if col.Name, err = stringField(path, n, "column"); err != nil {
		return col, err
	}
	if col.Table, err = stringField(path, n, "table"); err != nil {
		return col, err
	}
	if col.Alias, err = stringField(path, n, "alias"); err != nil {
		return col, err
	}
	return col, nil
}

func (c *converter) table(path string, n *node) (ir.TableRef, error) {
	if err := strictKeys(path, n, "table", "alias"); err != nil {
		return ir.TableRef{}, err
	}
	var (
		t   ir.TableRef
		err error
	)
	if t.Name, err = stringField(path, n, "table"); err != nil {
		return t, err
	}
	if t.Alias, err = stringField(path, n, "alias"); err != nil {
		return t, err
	}
	return t, nil
}

func (c *converter) scope(path string, n *node) (*ir.LogicalScope, error) {
	if err := strictKeys(path, n, "scope", "items"); err != nil {
		return nil, err
	}
	opName, err := stringField(path, n, "scope")
	if err != nil {
		return nil, err
	}
	op, err := ir.ParseClauseKind(opName)
	if err != nil || !op.IsLogical() {
		return nil, &LoadError{Code: ErrBadArgument, Field: path + ".scope", Message: fmt.Sprintf("scope must be and or or, got %q", opName), Pos: n.pos}
	}

	scope := ir.NewScope(op)
	items, ok := n.get("items")
	if !ok {
		return scope, nil
	}
	if items.kind != listNode {
		return nil, &LoadError{Code: ErrBadArgument, Field: path + ".items", Message: "expected list", Pos: items.pos}
	}
	for i, item := range items.items {
		o, err := c.operand(fmt.Sprintf("%s.items[%d]", path, i), item)
		if err != nil {
			return nil, err
		}
		scope.Items = append(scope.Items, o)
	}
	return scope, nil
}

func (c *converter) call(path string, n *node) (ir.Call, error) {
	if err := strictKeys(path, n, "call", "args", "alias"); err != nil {
		return ir.Call{}, err
	}
	name, err := stringField(path, n, "call")
	if err != nil {
		return ir.Call{}, err
	}
	fn, err := ir.ParseClauseKind(name)
	if err != nil || !fn.IsFunction() {
		return ir.Call{}, &LoadError{Code: ErrBadArgument, Field: path + ".call", Message: fmt.Sprintf("%q is not a render function", name), Pos: n.pos}
	}

	call := ir.Call{Function: fn}
	if call.Alias, err = stringField(path, n, "alias"); err != nil {
		return call, err
	}
	if args, ok := n.get("args"); ok {
		list := []*node{args}
		if args.kind == listNode {
			list = args.items
		}
		for i, item := range list {
			o, err := c.operand(fmt.Sprintf("%s.args[%d]", path, i), item)
			if err != nil {
				return call, err
			}
			call.Args = append(call.Args, o)
		}
	}
	return call, nil
}

func (c *converter) row(path string, n *node) (ir.Row, error) {
	if err := strictKeys(path, n, "row"); err != nil {
		return nil, err
	}
	body, _ := n.get("row")
	if body.kind == scalarNode && body.scalar == nil {
		return ir.Row{}, nil
	}
	if body.kind != mapNode {
		return nil, &LoadError{Code: ErrBadArgument, Field: path + ".row", Message: "expected mapping of column to value", Pos: body.pos}
	}
	row := make(ir.Row, 0, len(body.fields))
	for _, f := range body.fields {
		fieldPath := path + ".row." + f.key
		var (
			v   ir.Value
			err error
		)
		switch {
		case f.value.kind == scalarNode:
			v, err = c.literal(fieldPath, f.value)
		case f.value.kind == mapNode && has(f.value, "date"):
			v, err = c.date(fieldPath, f.value)
		default:
			err = &LoadError{Code: ErrBadValue, Field: fieldPath, Message: "row values must be literals", Pos: f.value.pos}
		}
		if err != nil {
			return nil, err
		}
		row = append(row, ir.Field{Column: f.key, Value: v})
	}
	return row, nil
}

func (c *converter) sort(path string, n *node) (ir.SortKey, error) {
	if err := strictKeys(path, n, "sort", "desc"); err != nil {
		return ir.SortKey{}, err
	}
	body, _ := n.get("sort")
	var (
		key ir.SortKey
		err error
	)
	switch body.kind {
	case scalarNode:
		name, ok := scalarString(body)
		if !ok {
			return key, &LoadError{Code: ErrBadArgument, Field: path + ".sort", Message: "expected column name or column mapping", Pos: body.pos}
		}
		key.Column = ir.Col(name)
	case mapNode:
		if key.Column, err = c.column(path+".sort", body); err != nil {
			return key, err
		}
	default:
		return key, &LoadError{Code: ErrBadArgument, Field: path + ".sort", Message: "expected column name or column mapping", Pos: body.pos}
	}
	if desc, ok := n.get("desc"); ok {
		b, ok := desc.scalar.(bool)
		if desc.kind != scalarNode || !ok {
			return key, &LoadError{Code: ErrBadArgument, Field: path + ".desc", Message: "expected boolean", Pos: desc.pos}
		}
		key.Desc = b
	}
	return key, nil
}

// dateLayouts are tried in order.
var dateLayouts = []string{time.RFC3339Nano, ir.DateLayout, time.DateOnly}

func (c *converter) date(path string, n *node) (ir.Date, error) {
	if err := strictKeys(path, n, "date"); err != nil {
		return ir.Date{}, err
	}
	s, err := stringField(path, n, "date")
	if err != nil {
		return ir.Date{}, err
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return ir.Date(t), nil
		}
	}
	return ir.Date{}, &LoadError{
		Code:    ErrBadValue,
		Field:   path + ".date",
		Message: fmt.Sprintf("cannot parse %q as RFC 3339, %q or %q", s, ir.DateLayout, time.DateOnly),
		Pos:     n.pos,
	}
}

func (c *converter) query(path string, n *node) (ir.Subquery, error) {
	if err := strictKeys(path, n, "query"); err != nil {
		return ir.Subquery{}, err
	}
	body, _ := n.get("query")
	clauses, _, err := c.clauseList(path+".query", body)
	if err != nil {
		return ir.Subquery{}, err
	}
	return ir.Subquery{Clauses: clauses}, nil
}

// ref expands a named query into a subquery. Cycles were rejected before
// conversion started, so the recursion terminates.
func (c *converter) ref(path string, n *node) (ir.Subquery, error) {
	if err := strictKeys(path, n, "ref"); err != nil {
		return ir.Subquery{}, err
	}
	name, err := stringField(path, n, "ref")
	if err != nil {
		return ir.Subquery{}, err
	}
	if clauses, ok := c.resolved[name]; ok {
		return ir.Subquery{Clauses: clauses}, nil
	}
	body, ok := c.named[name]
	if !ok {
		return ir.Subquery{}, &LoadError{Code: ErrUnknownReference, Field: path + ".ref", Message: fmt.Sprintf("no query named %q", name), Pos: n.pos}
	}
	clauses, _, err := c.clauseList("queries."+name, body)
	if err != nil {
		return ir.Subquery{}, err
	}
	c.resolved[name] = clauses
	return ir.Subquery{Clauses: clauses}, nil
}
