package ir

// Arg is anything a submission may carry as an argument.
//
// This is a sealed interface - only types in this package implement it.
// Handlers dispatch on the concrete type with exhaustive type switches.
type Arg interface {
	arg() // Marker method - seals interface to this package
}

// Operand is anything that may sit on the value side of a comparison:
// literals, columns, calls, and logical scopes.
type Operand interface {
	Arg
	operand()
}

// Target is anything a comparison may be applied to: a column, a call, or a
// logical scope grouping further targets. The pending key chain only ever
// holds Targets.
type Target interface {
	Operand
	target()
}

// ColumnRef references a column, optionally qualified by its owning table
// and optionally aliased.
//
// Example:
//
//	ColumnRef{Table: "u", Name: "email", Alias: "mail"}
//
// renders as "u.email" in conditions and "u.email AS mail" in selections.
type ColumnRef struct {
	Name  string
	Table string
	Alias string
}

func (ColumnRef) arg()     {}
func (ColumnRef) operand() {}
func (ColumnRef) target()  {}

// Col is a shorthand constructor for an unqualified column.
func Col(name string) ColumnRef {
	return ColumnRef{Name: name}
}

// TableRef references a table with an optional alias.
type TableRef struct {
	Name  string
	Alias string
}

func (TableRef) arg() {}

// Table is a shorthand constructor for an unaliased table.
func Table(name string) TableRef {
	return TableRef{Name: name}
}

// LogicalScope is a group of operands combined by AND or OR.
//
// In target position (WHERE arguments, key chain entries) its items are
// Targets; in value position (comparison arguments) its items are the values
// each target is compared against, so
//
//	WHERE a EQ (1 OR 2)
//
// expands to "a = 1 OR a = 2".
//
// A scope is mutable only while it is the open tail of the key chain: the
// WHERE submission following AND/OR appends to it.
type LogicalScope struct {
	Operator ClauseKind
	Items    []Operand
}

func (*LogicalScope) arg()     {}
func (*LogicalScope) operand() {}
func (*LogicalScope) target()  {}

// NewScope creates a logical scope. operator must be KindAnd or KindOr.
func NewScope(operator ClauseKind, items ...Operand) *LogicalScope {
	return &LogicalScope{Operator: operator, Items: items}
}

// AnyOf is shorthand for an OR scope.
func AnyOf(items ...Operand) *LogicalScope {
	return NewScope(KindOr, items...)
}

// AllOf is shorthand for an AND scope.
func AllOf(items ...Operand) *LogicalScope {
	return NewScope(KindAnd, items...)
}

// Call is a render-function application, e.g. COUNT(id) or MAX(price).
// Args may nest further calls.
type Call struct {
	Function ClauseKind
	Args     []Operand
	Alias    string
}

func (Call) arg()     {}
func (Call) operand() {}
func (Call) target()  {}

// Field is a single column assignment within a Row.
type Field struct {
	Column string
	Value  Value
}

// Row is an ordered set of column assignments. Order is significant: INSERT
// derives its column list from first-seen field order across rows.
type Row []Field

func (Row) arg() {}

// Keys returns the column names in field order.
func (r Row) Keys() []string {
	keys := make([]string, len(r))
	for i, f := range r {
		keys[i] = f.Column
	}
	return keys
}

// Get returns the value assigned to column and whether it was present.
func (r Row) Get(column string) (Value, bool) {
	for _, f := range r {
		if f.Column == column {
			return f.Value, true
		}
	}
	return nil, false
}

// SortKey is an ORDER BY entry.
type SortKey struct {
	Column ColumnRef
	Desc   bool
}

func (SortKey) arg() {}

// Clause is a single (kind, arguments) submission, in call order.
type Clause struct {
	Kind ClauseKind
	Args []Arg
}

// Subquery is a nested clause stream built into its own statement by a child
// builder sharing the parent's registries. Used by UNION and EXISTS.
type Subquery struct {
	Clauses []Clause
}

func (Subquery) arg() {}
