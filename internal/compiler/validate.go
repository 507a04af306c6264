package compiler

import (
	"fmt"
	"regexp"

	"github.com/roach88/sqlchain/internal/dialect"
	"github.com/roach88/sqlchain/internal/ir"
	"github.com/roach88/sqlchain/internal/queryir"
)

// Validation error codes (E210-E219)
const (
	ErrClauseShape       = "E210" // arguments rejected by the kind's validator
	ErrUnknownDialect    = "E211" // script names an unregistered dialect
	ErrEmptyScript       = "E212" // script has no clauses
	ErrNoEffect          = "E213" // kind is recorded but renders nothing
	ErrInvalidIdentifier = "E214" // table, column or alias is not an identifier
)

// ValidationError represents a script validation error.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code"`
	Line    int    `json:"line,omitempty"`
}

// Error implements the error interface.
func (e ValidationError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("[%s] line %d: %s: %s", e.Code, e.Line, e.Field, e.Message)
	}
	return fmt.Sprintf("[%s] %s: %s", e.Code, e.Field, e.Message)
}

// Validate checks a compiled script without building it.
// Returns all errors found (does not fail-fast). Subqueries are checked
// recursively. A nil validator set uses queryir.Default.
func Validate(s *Script, validators queryir.Validators) []ValidationError {
	if validators == nil {
		validators = queryir.Default()
	}
	var errs []ValidationError

	// E211: dialect must be registered
	if s.Dialect != "" {
		if _, err := dialect.Lookup(s.Dialect); err != nil {
			errs = append(errs, ValidationError{
				Field:   "dialect",
				Message: err.Error(),
				Code:    ErrUnknownDialect,
			})
		}
	}

	// E212: at least one clause
	if len(s.Clauses) == 0 {
		errs = append(errs, ValidationError{
			Field:   "clauses",
			Message: "script has no clauses",
			Code:    ErrEmptyScript,
		})
	}

	for i, c := range s.Clauses {
		line := s.Position(i).Line
		errs = append(errs, validateClause(fmt.Sprintf("clauses[%d]", i), line, c, validators)...)
	}
	return errs
}

func validateClause(path string, line int, c ir.Clause, validators queryir.Validators) []ValidationError {
	var errs []ValidationError

	// E210: argument shapes
	if err := validators.Validate(c.Kind, c.Args); err != nil {
		errs = append(errs, ValidationError{
			Field:   path,
			Message: err.Error(),
			Code:    ErrClauseShape,
			Line:    line,
		})
	}

	// E213: function kinds are only meaningful inside calls
	if c.Kind.IsFunction() {
		errs = append(errs, ValidationError{
			Field:   path,
			Message: fmt.Sprintf("%s is a render function; use {call: %s} inside SELECT or WHERE", c.Kind, c.Kind),
			Code:    ErrNoEffect,
			Line:    line,
		})
	}

	for j, a := range c.Args {
		argPath := fmt.Sprintf("%s.args[%d]", path, j)
		errs = append(errs, validateIdentifiers(argPath, line, a)...)

		if sub, ok := a.(ir.Subquery); ok {
			for k, nested := range sub.Clauses {
				errs = append(errs, validateClause(fmt.Sprintf("%s.query[%d]", argPath, k), line, nested, validators)...)
			}
		}
	}
	return errs
}

// identifierPattern matches plain SQL identifiers. Names are rendered into
// statements verbatim, so anything else is rejected here.
var identifierPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_$]*$`)

// isValidIdentifier reports whether name may be rendered unquoted. The
// column name "*" is allowed.
func isValidIdentifier(name string) bool {
	return identifierPattern.MatchString(name)
}

// validateIdentifiers checks every name reachable from an argument.
func validateIdentifiers(path string, line int, a ir.Arg) []ValidationError {
	var errs []ValidationError
	check := func(field, name string, allowStar bool) {
		if name == "" || (allowStar && name == "*") || isValidIdentifier(name) {
			return
		}
		errs = append(errs, ValidationError{
			Field:   path + "." + field,
			Message: fmt.Sprintf("%q is not a valid identifier", name),
			Code:    ErrInvalidIdentifier,
			Line:    line,
		})
	}

	switch v := a.(type) {
	case ir.ColumnRef:
		check("column", v.Name, true)
		check("table", v.Table, false)
		check("alias", v.Alias, false)
	case ir.TableRef:
		check("table", v.Name, false)
		check("alias", v.Alias, false)
	case ir.SortKey:
		errs = append(errs, validateIdentifiers(path+".sort", line, v.Column)...)
	case ir.Call:
		check("alias", v.Alias, false)
		for i, nested := range v.Args {
			errs = append(errs, validateIdentifiers(fmt.Sprintf("%s.args[%d]", path, i), line, nested)...)
		}
	case *ir.LogicalScope:
		for i, item := range v.Items {
			errs = append(errs, validateIdentifiers(fmt.Sprintf("%s.items[%d]", path, i), line, item)...)
		}
	case ir.Row:
		for _, f := range v {
			check("row."+f.Column, f.Column, false)
		}
	}
	return errs
}
