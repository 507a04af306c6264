package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/roach88/sqlchain/internal/compiler"
	"github.com/roach88/sqlchain/internal/dialect"
)

// LoadError represents an error that occurred while loading a script or
// resolving what to build it with.
type LoadError struct {
	Code    string
	Message string
	Pos     compiler.Position // script position if available
}

func (e *LoadError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s: %s: %s", e.Pos, e.Code, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Error code constants - unified across all CLI commands. Script and build
// errors keep the codes their packages assign (E2xx, MISSING_TEMPLATE, ...).
const (
	ErrCodeGeneric        = "E001" // Generic/unknown error
	ErrCodeNotFound       = "E005" // Path not found
	ErrCodeWriteFailed    = "E007" // File write error
	ErrCodeUnknownDialect = "E008" // Dialect not registered
	ErrCodeCheckerFailed  = "E009" // SQLite checker could not start
	ErrCodeRejected       = "E300" // SQLite refused the statement
)

// LoadScript reads and compiles a script file.
func LoadScript(path string) (*FileScript, error) {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return nil, &LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("script not found: %s", path)}
	}
	if err != nil {
		return nil, &LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("error accessing script: %v", err)}
	}
	if info.IsDir() {
		return nil, &LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("not a file: %s", path)}
	}

	script, err := compiler.LoadFile(path)
	if err != nil {
		return nil, convertLoadError(err)
	}
	return &FileScript{Path: path, Script: script}, nil
}

// FileScript is a compiled script and the file it came from.
type FileScript struct {
	Path string
	*compiler.Script
}

// resolveDialect picks the dialect: the flag wins, then the script's own
// choice, then the default.
func resolveDialect(flag string, script *compiler.Script) (*dialect.Dialect, error) {
	name := flag
	if name == "" {
		name = script.Dialect
	}
	d, err := dialect.Lookup(name)
	if err != nil {
		return nil, &LoadError{Code: ErrCodeUnknownDialect, Message: err.Error()}
	}
	return d, nil
}

// convertLoadError converts a compiler error to a LoadError with position info.
func convertLoadError(err error) *LoadError {
	var scriptErr *compiler.LoadError
	if errors.As(err, &scriptErr) {
		msg := scriptErr.Message
		if scriptErr.Field != "" {
			msg = scriptErr.Field + ": " + msg
		}
		return &LoadError{
			Code:    scriptErr.Code,
			Message: msg,
			Pos:     scriptErr.Pos,
		}
	}
	return &LoadError{
		Code:    ErrCodeGeneric,
		Message: err.Error(),
	}
}

// errorParts extracts the error code and message from an error.
func errorParts(err error) (string, string) {
	var loadErr *LoadError
	if errors.As(err, &loadErr) {
		return loadErr.Code, loadErr.Message
	}
	return ErrCodeGeneric, err.Error()
}
