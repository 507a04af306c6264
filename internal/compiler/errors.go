package compiler

import (
	"fmt"

	"cuelang.org/go/cue/errors"
	"cuelang.org/go/cue/token"
)

// Load error codes (E200-E219)
const (
	ErrSourceSyntax      = "E200" // YAML or CUE did not parse
	ErrUnsupportedFormat = "E201" // unknown script file extension
	ErrMalformedScript   = "E202" // script document has the wrong structure
	ErrUnknownKind       = "E203" // clause key is not a clause kind
	ErrBadArgument       = "E204" // argument shape not recognized
	ErrBadValue          = "E205" // literal could not be converted
	ErrUnknownReference  = "E206" // {ref: name} names no query
	ErrReferenceCycle    = "E207" // named queries reference each other
)

// Position locates a node in its source file. Line and Column are 1-based;
// zero means unknown.
type Position struct {
	File   string `json:"file,omitempty"`
	Line   int    `json:"line,omitempty"`
	Column int    `json:"column,omitempty"`
}

// IsValid reports whether the position carries a line.
func (p Position) IsValid() bool {
	return p.Line > 0
}

func (p Position) String() string {
	if p.File == "" {
		return fmt.Sprintf("%d:%d", p.Line, p.Column)
	}
	return fmt.Sprintf("%s:%d:%d", p.File, p.Line, p.Column)
}

func positionOf(pos token.Pos) Position {
	if !pos.IsValid() {
		return Position{}
	}
	return Position{File: pos.Filename(), Line: pos.Line(), Column: pos.Column()}
}

// LoadError represents a script loading error with source position.
type LoadError struct {
	Code    string
	Field   string
	Message string
	Pos     Position
}

func (e *LoadError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s: [%s] %s: %s", e.Pos, e.Code, e.Field, e.Message)
	}
	return fmt.Sprintf("[%s] %s: %s", e.Code, e.Field, e.Message)
}

// formatCUEError extracts position info from CUE errors.
func formatCUEError(err error) error {
	if err == nil {
		return nil
	}

	// CUE errors may contain multiple errors
	errs := errors.Errors(err)
	if len(errs) == 0 {
		return err
	}

	firstErr := errs[0]
	loadErr := &LoadError{
		Code:    ErrSourceSyntax,
		Field:   "cue",
		Message: firstErr.Error(),
	}
	if positions := errors.Positions(firstErr); len(positions) > 0 {
		loadErr.Pos = positionOf(positions[0])
	}
	return loadErr
}
