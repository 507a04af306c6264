package sqlcheck

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"

	_ "github.com/mattn/go-sqlite3"

	"github.com/roach88/sqlchain/internal/ir"
)

//go:embed schema.sql
var fixtureSQL string

// Checker verifies statements by preparing them against an in-memory SQLite
// database. Preparing parses and resolves names without executing anything.
type Checker struct {
	db *sql.DB
}

// Option configures a Checker.
type Option func(*options)

type options struct {
	fixture bool
	schemas []string
}

// WithSchema applies additional DDL after the fixture schema.
func WithSchema(ddl string) Option {
	return func(o *options) {
		o.schemas = append(o.schemas, ddl)
	}
}

// WithoutFixture skips the built-in fixture schema.
func WithoutFixture() Option {
	return func(o *options) {
		o.fixture = false
	}
}

// Open creates a checker over a fresh in-memory database.
//
// The database is configured with:
//   - a single connection, so every statement sees the same :memory: schema
//   - foreign key enforcement
//
// Each Checker owns its own database; checkers never share state.
func Open(opts ...Option) (*Checker, error) {
	o := options{fixture: true}
	for _, opt := range opts {
		opt(&o)
	}

	db, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Every connection to :memory: is a separate database.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := applyPragmas(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply pragmas: %w", err)
	}

	schemas := o.schemas
	if o.fixture {
		schemas = append([]string{fixtureSQL}, schemas...)
	}
	for i, ddl := range schemas {
		if _, err := db.Exec(ddl); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to apply schema %d: %w", i, err)
		}
	}

	return &Checker{db: db}, nil
}

// Close closes the database connection.
func (c *Checker) Close() error {
	if c.db == nil {
		return nil
	}
	return c.db.Close()
}

// CheckError reports a statement SQLite refused to prepare.
type CheckError struct {
	Statement ir.Statement
	Err       error
}

func (e *CheckError) Error() string {
	return fmt.Sprintf("statement rejected: %v\n  %s", e.Err, e.Statement.Body)
}

func (e *CheckError) Unwrap() error {
	return e.Err
}

// IsRejected reports whether err is a CheckError.
func IsRejected(err error) bool {
	var ce *CheckError
	return errors.As(err, &ce)
}

// Check prepares the statement and discards it. A statement SQLite cannot
// parse, or that names unknown tables or columns, returns a *CheckError.
func (c *Checker) Check(ctx context.Context, stmt ir.Statement) error {
	if stmt.Body == "" {
		return &CheckError{Statement: stmt, Err: errors.New("empty statement")}
	}
	prepared, err := c.db.PrepareContext(ctx, stmt.Body)
	if err != nil {
		return &CheckError{Statement: stmt, Err: err}
	}
	return prepared.Close()
}

// Plan returns SQLite's query plan for the statement, one line per step.
func (c *Checker) Plan(ctx context.Context, stmt ir.Statement) ([]string, error) {
	if err := c.Check(ctx, stmt); err != nil {
		return nil, err
	}

	rows, err := c.db.QueryContext(ctx, "EXPLAIN QUERY PLAN "+stmt.Body)
	if err != nil {
		return nil, &CheckError{Statement: stmt, Err: err}
	}
	defer rows.Close()

	var plan []string
	for rows.Next() {
		var (
			id, parent, notused int
			detail              string
		)
		if err := rows.Scan(&id, &parent, &notused, &detail); err != nil {
			return nil, fmt.Errorf("scan plan row: %w", err)
		}
		plan = append(plan, detail)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate plan rows: %w", err)
	}
	return plan, nil
}

// Tables lists the tables statements may reference, in name order.
func (c *Checker) Tables(ctx context.Context) ([]string, error) {
	rows, err := c.db.QueryContext(ctx,
		"SELECT name FROM sqlite_master WHERE type = 'table' AND name NOT LIKE 'sqlite_%' ORDER BY name COLLATE BINARY")
	if err != nil {
		return nil, fmt.Errorf("list tables: %w", err)
	}
	defer rows.Close()

	var tables []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("scan table name: %w", err)
		}
		tables = append(tables, name)
	}
	return tables, rows.Err()
}

// applyPragmas sets required SQLite configuration.
func applyPragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA foreign_keys = ON",
	}

	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			return fmt.Errorf("failed to execute %q: %w", pragma, err)
		}
	}

	return nil
}
