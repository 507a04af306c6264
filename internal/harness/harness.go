package harness

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/roach88/sqlchain/internal/compiler"
	"github.com/roach88/sqlchain/internal/dialect"
	"github.com/roach88/sqlchain/internal/ir"
	"github.com/roach88/sqlchain/internal/querysql"
	"github.com/roach88/sqlchain/internal/sqlcheck"
)

// Harness runs scenarios. Each run builds with a fresh builder, and
// scenarios that ask for a check get a fresh SQLite checker, so scenarios
// never observe each other.
type Harness struct {
	logger *slog.Logger
}

// Option configures a Harness.
type Option func(*Harness)

// WithLogger sets the logger used for the harness and the builders it
// creates.
func WithLogger(logger *slog.Logger) Option {
	return func(h *Harness) {
		if logger != nil {
			h.logger = logger
		}
	}
}

// New creates a harness. Without options it logs nowhere.
func New(opts ...Option) *Harness {
	h := &Harness{logger: slog.New(slog.NewTextHandler(io.Discard, nil))}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Run executes a test scenario with a silent harness and returns the result.
func Run(scenario *Scenario) (*Result, error) {
	return New().Run(context.Background(), scenario)
}

// Run executes a test scenario and returns the result.
//
// Execution flow:
//  1. Compile the script or inline clauses
//  2. Resolve the dialect (scenario, then script, then ansi)
//  3. Submit every clause to a fresh builder
//  4. Fingerprint and optionally check the statement against SQLite
//  5. Compare the outcome with the scenario's expectations
//
// Script and build errors are outcomes compared against expect.error. The
// returned error is reserved for problems that make the scenario itself
// unrunnable: an unknown dialect or a checker that fails to open.
func (h *Harness) Run(ctx context.Context, scenario *Scenario) (*Result, error) {
	if scenario == nil {
		return nil, fmt.Errorf("scenario is nil")
	}
	result := NewResult()
	logger := h.logger.With("scenario", scenario.Name)

	outcome, err := h.build(ctx, scenario, result)
	if err != nil {
		return nil, err
	}
	if outcome != nil {
		result.ErrorCode = errorCode(outcome)
		logger.Debug("build stopped", "error", outcome, "code", result.ErrorCode)
	}

	for _, msg := range EvaluateAssertions(result, scenario.Expect, outcome) {
		result.AddError(msg)
	}

	logger.Debug("scenario completed",
		"dialect", result.Dialect,
		"pass", result.Pass,
		"errors", len(result.Errors),
	)
	return result, nil
}

// build fills result with the statement and history. A returned outcome is
// the error that stopped the build; a returned err means the scenario could
// not run at all.
func (h *Harness) build(ctx context.Context, scenario *Scenario, result *Result) (outcome, err error) {
	script, loadErr := scenario.LoadScript()
	if loadErr != nil {
		result.Dialect = scenario.Dialect
		return loadErr, nil
	}

	name := scenario.Dialect
	if name == "" {
		name = script.Dialect
	}
	d, err := dialect.Lookup(name)
	if err != nil {
		return nil, fmt.Errorf("scenario %q: %w", scenario.Name, err)
	}
	result.Dialect = d.Name

	b := querysql.NewDialectBuilder(d,
		querysql.WithStrict(scenario.Strict),
		querysql.WithLogger(h.logger),
	)
	submitErr := b.SubmitAll(script.Clauses)

	stmt := b.Build()
	result.SQL = stmt.Body
	for _, k := range b.History() {
		result.History = append(result.History, k.String())
	}
	if len(script.Clauses) > 0 {
		result.PrimaryKind = stmt.PrimaryKind.String()
	}
	if submitErr != nil {
		return submitErr, nil
	}

	result.Fingerprint, err = ir.Fingerprint(stmt)
	if err != nil {
		return nil, err
	}

	if scenario.Check {
		if err := h.check(ctx, stmt, result); err != nil {
			return nil, err
		}
	}
	return nil, nil
}

// check prepares stmt against the fixture schema. A rejected statement is
// an assertion failure; a checker that cannot open is returned.
func (h *Harness) check(ctx context.Context, stmt ir.Statement, result *Result) error {
	checker, err := sqlcheck.Open()
	if err != nil {
		return fmt.Errorf("failed to open checker: %w", err)
	}
	defer checker.Close()

	plan, err := checker.Plan(ctx, stmt)
	if err != nil {
		if sqlcheck.IsRejected(err) {
			result.AddError((&AssertionError{
				Type:     "check",
				Expected: "statement prepares against the fixture schema",
				Actual:   err.Error(),
				SQL:      stmt.Body,
			}).Error())
			return nil
		}
		return err
	}
	result.Plan = plan
	return nil
}

// errorCode extracts the machine-readable code from a build or load error.
func errorCode(err error) string {
	var buildErr *querysql.BuildError
	if errors.As(err, &buildErr) {
		return string(buildErr.Code)
	}
	var loadErr *compiler.LoadError
	if errors.As(err, &loadErr) {
		return loadErr.Code
	}
	return ""
}
