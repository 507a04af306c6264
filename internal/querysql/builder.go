package querysql

import (
	"fmt"
	"io"
	"log/slog"
	"slices"

	"github.com/roach88/sqlchain/internal/dialect"
	"github.com/roach88/sqlchain/internal/ir"
	"github.com/roach88/sqlchain/internal/queryir"
)

// handler processes one submission. Handlers run after validation and
// before the kind is appended to the history, so history.Last(1) is the
// previous submission.
type handler func(b *Builder, kind ir.ClauseKind, args []ir.Arg) error

// Builder assembles one statement from a stream of clause submissions.
//
// A Builder is created per statement and is not safe for concurrent use.
type Builder struct {
	templates  dialect.Templates
	functions  dialect.Functions
	validators queryir.Validators
	logger     *slog.Logger
	strict     bool

	handlers [ir.NumKinds]handler

	history   History
	keychain  []ir.Target
	fragments []Fragment

	primary      ir.ClauseKind
	primarySet   bool
	whereEmitted bool
	pendingNot   bool
}

// Option configures a Builder.
type Option func(*Builder)

// WithValidators replaces the default validator set. Pass nil to disable
// validation entirely.
func WithValidators(v queryir.Validators) Option {
	return func(b *Builder) {
		b.validators = v
	}
}

// WithLogger sets the logger submissions are traced to at debug level.
func WithLogger(logger *slog.Logger) Option {
	return func(b *Builder) {
		if logger != nil {
			b.logger = logger
		}
	}
}

// WithStrict makes unknown clauses, missing templates, and comparisons with
// an empty key chain fail instead of rendering nothing.
func WithStrict(strict bool) Option {
	return func(b *Builder) {
		b.strict = strict
	}
}

// NewBuilder creates a builder over the given template and render-function
// registries. Validation uses queryir.Default unless overridden.
func NewBuilder(templates dialect.Templates, functions dialect.Functions, opts ...Option) *Builder {
	b := &Builder{
		templates:  templates,
		functions:  functions,
		validators: queryir.Default(),
		logger:     slog.New(slog.NewTextHandler(io.Discard, nil)),
		handlers:   newHandlerTable(),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// NewDialectBuilder creates a builder over a registered dialect's registries.
func NewDialectBuilder(d *dialect.Dialect, opts ...Option) *Builder {
	return NewBuilder(d.Templates, d.Functions, opts...)
}

// newHandlerTable builds the fixed kind → handler table. Kinds without an
// entry (NOT, render functions) are recorded in the history only.
func newHandlerTable() [ir.NumKinds]handler {
	var t [ir.NumKinds]handler

	t[ir.KindSelect] = (*Builder).handleSelect
	t[ir.KindInsert] = (*Builder).handleInsert
	t[ir.KindUpdate] = tablesHandler(false)
	t[ir.KindDelete] = (*Builder).handleDefault
	t[ir.KindFrom] = tablesHandler(true)
	t[ir.KindTo] = (*Builder).handleTo
	t[ir.KindSet] = (*Builder).handleSet

	t[ir.KindWhere] = (*Builder).handleWhere
	t[ir.KindAnd] = (*Builder).handleLogical
	t[ir.KindOr] = (*Builder).handleLogical

	for _, kind := range []ir.ClauseKind{ir.KindEQ, ir.KindLT, ir.KindGT, ir.KindLike, ir.KindNull, ir.KindBetween} {
		t[kind] = (*Builder).handleCondition
	}
	t[ir.KindIn] = (*Builder).handleIn

	for _, kind := range []ir.ClauseKind{ir.KindJoin, ir.KindLeftJoin, ir.KindRightJoin, ir.KindFullJoin} {
		t[kind] = tablesHandler(true)
	}
	t[ir.KindOn] = (*Builder).handleOn
	t[ir.KindUsing] = (*Builder).handleUsing
	t[ir.KindUnion] = (*Builder).handleUnion
	t[ir.KindUnionAll] = (*Builder).handleUnion

	for _, kind := range []ir.ClauseKind{
		ir.KindOpenParen, ir.KindCloseParen, ir.KindExists,
		ir.KindHaving, ir.KindOrderBy, ir.KindGroupBy, ir.KindLimit,
	} {
		t[kind] = (*Builder).handleDefault
	}
	return t
}

// Submit processes one clause submission.
//
// The first submission fixes the statement's primary kind. If a validator
// is registered for kind it runs first; a rejection aborts the submission
// with an INVALID_ARGUMENT error. Kinds with no handler are silent no-ops
// (UNKNOWN_CLAUSE in strict mode, except NOT, which only marks the
// history). Successful submissions are appended to the history whether or
// not a handler ran. Rejected submissions are not, so the history length
// counts accepted submissions rather than calls.
func (b *Builder) Submit(kind ir.ClauseKind, args ...ir.Arg) error {
	var h handler
	if int(kind) < len(b.handlers) {
		h = b.handlers[kind]
	}

	if !b.primarySet {
		b.primary = kind
		b.primarySet = true
	}

	if err := b.validators.Validate(kind, args); err != nil {
		b.logger.Debug("submission rejected", "kind", kind, "error", err)
		return newInvalidArgument(kind, err)
	}

	if h == nil && b.strict && kind != ir.KindNot {
		b.logger.Warn("unknown clause", "kind", kind)
		return &BuildError{
			Code:    ErrCodeUnknownClause,
			Kind:    kind,
			Message: fmt.Sprintf("no handler for %s", kind),
		}
	}

	if h != nil {
		if err := h(b, kind, args); err != nil {
			b.logger.Debug("submission failed", "kind", kind, "error", err)
			return err
		}
	}

	b.history.Append(kind)
	b.trackNegation(kind)
	b.logger.Debug("clause submitted",
		"kind", kind,
		"handled", h != nil,
		"history_len", b.history.Len(),
	)
	return nil
}

// SubmitAll submits clauses in order, stopping at the first error.
func (b *Builder) SubmitAll(clauses []ir.Clause) error {
	for i, c := range clauses {
		if err := b.Submit(c.Kind, c.Args...); err != nil {
			return &ClauseError{Index: i, Err: err}
		}
	}
	return nil
}

// Build flattens the accumulated fragments into the statement body.
// It never fails and may be called any number of times; with no intervening
// submissions it returns the same statement.
func (b *Builder) Build() ir.Statement {
	return ir.Statement{
		PrimaryKind: b.primary,
		Body:        Join(b.fragments),
	}
}

// History returns a copy of the submitted kinds in order.
func (b *Builder) History() []ir.ClauseKind {
	return b.history.Kinds()
}

// KeyChain returns a copy of the pending condition targets.
func (b *Builder) KeyChain() []ir.Target {
	return slices.Clone(b.keychain)
}

// child creates a builder for a subquery sharing this builder's registries
// and configuration.
func (b *Builder) child() *Builder {
	return NewBuilder(b.templates, b.functions,
		WithValidators(b.validators),
		WithLogger(b.logger),
		WithStrict(b.strict),
	)
}

// push appends fragments in order.
func (b *Builder) push(fragments ...Fragment) {
	b.fragments = append(b.fragments, fragments...)
}

// insertBeforeLast splices a fragment in front of the most recently pushed
// one. This is the single exception to append-only fragment building.
func (b *Builder) insertBeforeLast(f Fragment) {
	if len(b.fragments) == 0 {
		b.fragments = append(b.fragments, f)
		return
	}
	b.fragments = slices.Insert(b.fragments, len(b.fragments)-1, f)
}

// template looks up the template for kind. A missing template is reported
// through ok; in strict mode it is also an error.
func (b *Builder) template(kind ir.ClauseKind) (tpl dialect.Template, ok bool, err error) {
	tpl, ok = b.templates[kind]
	if !ok && b.strict {
		b.logger.Warn("missing template", "kind", kind)
		return nil, false, newMissingTemplate(kind, kind)
	}
	return tpl, ok, nil
}

// render applies kind's template and returns the text, or "" when the
// template is missing.
func (b *Builder) render(kind ir.ClauseKind, opts dialect.Options, args ...string) (string, error) {
	tpl, ok, err := b.template(kind)
	if err != nil || !ok {
		return "", err
	}
	return tpl(opts)(args...), nil
}

// pushRendered renders kind's template and pushes the result.
func (b *Builder) pushRendered(kind ir.ClauseKind, opts dialect.Options, args ...string) error {
	text, err := b.render(kind, opts, args...)
	if err != nil {
		return err
	}
	if text != "" {
		b.push(Text(text))
	}
	return nil
}

// trackNegation keeps a submitted NOT pending across the WHERE, AND and OR
// submissions that build a key chain, until any other clause consumes or
// clears it.
func (b *Builder) trackNegation(kind ir.ClauseKind) {
	switch kind {
	case ir.KindNot:
		b.pendingNot = true
	case ir.KindWhere, ir.KindAnd, ir.KindOr:
	default:
		b.pendingNot = false
	}
}

// negated reports whether the comparison being submitted is negated: a NOT
// was accepted with only key chain clauses between it and the comparison.
func (b *Builder) negated() bool {
	return b.pendingNot
}
	return b.history.Last(1) == ir.KindWhere && b.history.Last(2) == ir.KindNot
}
