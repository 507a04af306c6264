package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/sqlchain/internal/compiler"
)

// ValidationResult holds validation results.
type ValidationResult struct {
	Name    string                     `json:"name"`
	Clauses int                        `json:"clauses"`
	Valid   bool                       `json:"valid"`
	Errors  []compiler.ValidationError `json:"errors,omitempty"`
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate <script>",
		Short: "Validate a query script without building it",
		Long: `Validate a YAML or CUE query script without building it.

Checks every clause's arguments against its shape rules, descending into
subqueries, and reports all problems at once: unknown dialects, invalid
identifiers, and function kinds used as clauses. Faster than build for
development feedback, and reports more than the first error.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true, // Don't print usage on errors
		SilenceErrors: true, // Don't print errors - we handle our own error output
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(rootOpts, args[0], cmd)
		},
	}

	return cmd
}

func runValidate(opts *RootOptions, path string, cmd *cobra.Command) error {
	formatter := opts.formatter(cmd)

	fs, err := LoadScript(path)
	if err != nil {
		return outputCommandError(formatter, err)
	}

	formatter.VerboseLog("Validating %s (%d clause(s))", fs.Name, len(fs.Clauses))

	errs := compiler.Validate(fs.Script, nil)
	opts.Logger().Debug("script validated", "script", fs.Name, "errors", len(errs))

	result := ValidationResult{
		Name:    fs.Name,
		Clauses: len(fs.Clauses),
		Valid:   len(errs) == 0,
		Errors:  errs,
	}
	if len(errs) > 0 {
		return outputValidationErrors(formatter, result)
	}
	return outputValidateSuccess(formatter, result)
}

// outputValidateSuccess outputs successful validation results.
func outputValidateSuccess(formatter *OutputFormatter, result ValidationResult) error {
	if formatter.Format == "json" {
		return formatter.Success(result)
	}

	fmt.Fprintf(formatter.Writer, "✓ %s valid (%d clause(s))\n", result.Name, result.Clauses)
	return nil
}

// outputValidationErrors outputs multiple validation errors.
func outputValidationErrors(formatter *OutputFormatter, result ValidationResult) error {
	errs := result.Errors
	if formatter.Format == "json" {
		if err := formatter.Reject(errs[0].Code, errs[0].Message, result); err != nil {
			return err
		}

		// Validation failures = exit code 1 (test/validation failure)
		return NewExitError(ExitFailure, fmt.Sprintf("validation failed with %d error(s)", len(errs)))
	}

	// Text format
	fmt.Fprintln(formatter.Writer, "✗ Validation failed")
	fmt.Fprintln(formatter.Writer)

	for _, err := range errs {
		if err.Line > 0 {
			fmt.Fprintf(formatter.Writer, "line %d\n", err.Line)
		}
		fmt.Fprintf(formatter.Writer, "  %s: %s: %s\n\n", err.Code, err.Field, err.Message)
	}

	// Validation failures = exit code 1 (test/validation failure)
	return NewExitError(ExitFailure, fmt.Sprintf("validation failed with %d error(s)", len(errs)))
}
