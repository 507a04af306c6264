package querysql

import (
	"strings"

	"github.com/roach88/sqlchain/internal/dialect"
	"github.com/roach88/sqlchain/internal/ir"
)

// handleCondition renders a comparison against every target in the key
// chain. The key chain is left in place so a following AND/OR and another
// comparison reuse it ("a = 1 OR a > 5").
func (b *Builder) handleCondition(kind ir.ClauseKind, args []ir.Arg) error {
	if len(b.keychain) == 0 {
		if b.strict {
			b.logger.Warn("comparison without key chain", "kind", kind)
			return &BuildError{
				Code:    ErrCodeEmptyKeyChain,
				Kind:    kind,
				Message: "comparison submitted with no pending WHERE targets",
			}
		}
		return nil
	}

	r := &renderer{b: b, kind: kind, negation: b.negated()}
	cond := r.chain(b.keychain, operandsOf(args))
	if err := r.err(); err != nil {
		return err
	}
	b.push(Group(cond.fragments))
	return nil
}

// handleIn renders "target IN (...)" against the key chain, or the bare
// "IN (...)" fragment when nothing is pending. IN is never multi-valued:
// its value list is one fixed-shape argument.
func (b *Builder) handleIn(kind ir.ClauseKind, args []ir.Arg) error {
	negation := b.negated()
	if len(b.keychain) == 0 {
		values := make([]string, 0, len(args))
		for _, a := range args {
			text, err := b.formatArg(a)
			if err != nil {
				return err
			}
			values = append(values, text)
		}
		return b.pushRendered(kind, dialect.Options{Negation: negation}, values...)
	}
	return b.handleCondition(kind, args)
}

// isMultiValued reports whether a comparison expands into one atomic
// comparison per value.
func isMultiValued(kind ir.ClauseKind, values []ir.Operand) bool {
	switch kind {
	case ir.KindEQ, ir.KindLT, ir.KindGT, ir.KindLike:
	default:
		return false
	}
	if len(values) > 1 {
		return true
	}
	if len(values) == 1 {
		_, isScope := values[0].(*ir.LogicalScope)
		return isScope
	}
	return false
}

func operandsOf(args []ir.Arg) []ir.Operand {
	out := make([]ir.Operand, 0, len(args))
	for _, a := range args {
		if op, ok := a.(ir.Operand); ok && !isNilScope(op) {
			out = append(out, op)
		}
	}
	return out
}

// isNilScope reports whether a is a typed nil *ir.LogicalScope. Validation
// rejects these; without a validator they are skipped.
func isNilScope(a ir.Arg) bool {
	scope, ok := a.(*ir.LogicalScope)
	return ok && scope == nil
}

// condition is a rendered boolean expression. compound is true when it is
// two or more conditions joined by AND/OR, and so needs parentheses when it
// becomes one member of a larger join.
type condition struct {
	fragments []Fragment
	compound  bool
}

func (c condition) empty() bool {
	return len(c.fragments) == 0
}

// member is a condition together with the operator joining it to the
// member before it.
type member struct {
	cond condition
	op   ir.ClauseKind
}

// renderer expands one comparison submission. Missing templates are
// collected rather than returned at each step; err reports the first one in
// strict mode.
type renderer struct {
	b        *Builder
	kind     ir.ClauseKind
	negation bool
	missing  []ir.ClauseKind
}

func (r *renderer) err() error {
	if len(r.missing) == 0 || !r.b.strict {
		return nil
	}
	r.b.logger.Warn("missing template", "kind", r.kind, "missing", r.missing[0])
	return newMissingTemplate(r.kind, r.missing[0])
}

// chain renders the top-level key chain. Entries after the first are joined
// by their own scope operator; plain targets default to AND.
func (r *renderer) chain(keychain []ir.Target, values []ir.Operand) condition {
	members := make([]member, 0, len(keychain))
	for _, key := range keychain {
		op := ir.KindAnd
		if scope, ok := key.(*ir.LogicalScope); ok && scope != nil {
			op = scope.Operator
		}
		members = append(members, member{cond: r.key(key, values), op: op})
	}
	return r.join(members)
}

// key renders one target against the value list, choosing the single- or
// multi-valued strategy.
func (r *renderer) key(key ir.Target, values []ir.Operand) condition {
	if scope, ok := key.(*ir.LogicalScope); ok {
		return r.targetScope(scope, values)
	}
	if !isMultiValued(r.kind, values) {
		return r.atom(key, values...)
	}

	// Multi-valued plain target: one comparison per value, value scopes
	// recursing with the target as the shared key.
	members := make([]member, 0, len(values))
	for _, v := range values {
		var cond condition
		if scope, ok := v.(*ir.LogicalScope); ok {
			cond = r.valueScope(key, scope)
		} else {
			cond = r.atom(key, v)
		}
		members = append(members, member{cond: cond, op: ir.KindOr})
	}
	return r.join(members)
}

// targetScope expands a scope of targets against the shared value list,
// joining the results with the scope's operator.
func (r *renderer) targetScope(scope *ir.LogicalScope, values []ir.Operand) condition {
	if scope == nil {
		return condition{}
	}
	members := make([]member, 0, len(scope.Items))
	for _, item := range scope.Items {
		target, ok := item.(ir.Target)
		if !ok {
			continue
		}
		members = append(members, member{cond: r.key(target, values), op: scope.Operator})
	}
	return r.join(members)
}

// valueScope compares key against each item of a value scope, realizing
// "a = (x OR y)" as "a = x OR a = y".
func (r *renderer) valueScope(key ir.Target, scope *ir.LogicalScope) condition {
	if scope == nil {
		return condition{}
	}
	members := make([]member, 0, len(scope.Items))
	for _, item := range scope.Items {
		var cond condition
		if nested, ok := item.(*ir.LogicalScope); ok {
			cond = r.valueScope(key, nested)
		} else {
			cond = r.atom(key, item)
		}
		members = append(members, member{cond: cond, op: scope.Operator})
	}
	return r.join(members)
}

// atom applies the comparison template once to a plain target. Values are
// escaped here and nowhere earlier.
func (r *renderer) atom(key ir.Target, values ...ir.Operand) condition {
	tpl, ok := r.b.templates[r.kind]
	if !ok {
		r.missing = append(r.missing, r.kind)
		return condition{}
	}
	formatted := make([]string, len(values))
	for i, v := range values {
		formatted[i] = r.b.formatOperand(v)
	}
	opts := dialect.Options{Negation: r.negation, Property: r.b.formatTarget(key)}
	return condition{fragments: []Fragment{Text(tpl(opts)(formatted...))}}
}

// join combines members, re-injecting each member's operator keyword before
// it. Under negation every operator is flipped (De Morgan). Empty members
// are dropped; a single remaining member is returned unchanged.
func (r *renderer) join(members []member) condition {
	kept := members[:0:0]
	for _, m := range members {
		if !m.cond.empty() {
			kept = append(kept, m)
		}
	}
	switch len(kept) {
	case 0:
		return condition{}
	case 1:
		return kept[0].cond
	}

	var out []Fragment
	for i, m := range kept {
		if i > 0 {
			if kw := r.keyword(m.op); kw != "" {
				out = append(out, Text(kw))
			}
		}
		out = append(out, parenthesize(m.cond))
	}
	return condition{fragments: out, compound: true}
}

// keyword renders a joining operator through the template registry.
func (r *renderer) keyword(op ir.ClauseKind) string {
	if r.negation {
		op = flip(op)
	}
	tpl, ok := r.b.templates[op]
	if !ok {
		r.missing = append(r.missing, op)
		return ""
	}
	return tpl(dialect.Options{})()
}

func flip(op ir.ClauseKind) ir.ClauseKind {
	switch op {
	case ir.KindAnd:
		return ir.KindOr
	case ir.KindOr:
		return ir.KindAnd
	}
	return op
}

// parenthesize wraps a compound condition so it stays one operand of the
// enclosing join.
func parenthesize(c condition) Fragment {
	if !c.compound {
		return Group(c.fragments)
	}
	return Text("(" + strings.Join(Flatten(c.fragments), " ") + ")")
}
