package querysql

import (
	"github.com/roach88/sqlchain/internal/dialect"
	"github.com/roach88/sqlchain/internal/ir"
)

// handleWhere collects condition targets into the key chain.
//
// When the previous two submissions were WHERE then AND/OR, the targets are
// merged into the scope that AND/OR just opened. Otherwise the key chain is
// replaced wholesale, and the WHERE keyword is emitted the first time only.
// A WHERE directly after HAVING never emits the keyword: it supplies the
// HAVING condition's targets.
func (b *Builder) handleWhere(kind ir.ClauseKind, args []ir.Arg) error {
	targets := mergeWithAnd(targetsOf(args))

	prev, penultimate := b.history.Last(1), b.history.Last(2)
	if prev.IsLogical() && penultimate == ir.KindWhere {
		if len(b.keychain) == 0 {
			return newInvariantViolation(kind, "%s after WHERE %s found an empty key chain", kind, prev)
		}
		scope, ok := b.keychain[len(b.keychain)-1].(*ir.LogicalScope)
		if !ok {
			return newInvariantViolation(kind, "key chain head %T should be a logical scope", b.keychain[len(b.keychain)-1])
		}
		for _, t := range targets {
			scope.Items = append(scope.Items, t)
		}
		return nil
	}

	if !b.whereEmitted && prev != ir.KindHaving {
		if err := b.pushRendered(ir.KindWhere, dialect.Options{}); err != nil {
			return err
		}
		b.whereEmitted = true
	}
	b.keychain = targets
	return nil
}

// handleLogical opens a new scope when AND/OR follows WHERE; anywhere else
// the operator is rendered as a plain keyword.
func (b *Builder) handleLogical(kind ir.ClauseKind, _ []ir.Arg) error {
	if b.history.Last(1) == ir.KindWhere {
		b.keychain = append(b.keychain, ir.NewScope(kind))
		return nil
	}
	return b.pushRendered(kind, dialect.Options{})
}

// targetsOf keeps the condition targets among args. Validation rejects
// anything else before this point; without a validator, other shapes and
// nil scopes are dropped.
func targetsOf(args []ir.Arg) []ir.Target {
	targets := make([]ir.Target, 0, len(args))
	for _, a := range args {
		if t, ok := a.(ir.Target); ok && !isNilScope(t) {
			targets = append(targets, t)
		}
	}
	return targets
}

// mergeWithAnd folds several targets from one submission into a single AND
// scope, so "WHERE a, b" means "a AND b".
func mergeWithAnd(targets []ir.Target) []ir.Target {
	if len(targets) <= 1 {
		return targets
	}
	items := make([]ir.Operand, len(targets))
	for i, t := range targets {
		items[i] = t
	}
	return []ir.Target{ir.AllOf(items...)}
}
