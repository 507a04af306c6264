package cli

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/roach88/sqlchain/internal/dialect"
	"github.com/roach88/sqlchain/internal/sqlcheck"
)

// CheckOptions holds flags for the check command.
type CheckOptions struct {
	*RootOptions
	Dialect   string
	Strict    bool
	Schemas   []string // extra DDL files
	NoFixture bool     // skip the built-in fixture schema
	Plan      bool     // include SQLite's query plan
}

// CheckResult is a built statement plus what SQLite made of it.
type CheckResult struct {
	*BuildResult
	Valid bool     `json:"valid"`
	Plan  []string `json:"plan,omitempty"`
}

// NewCheckCommand creates the check command.
func NewCheckCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &CheckOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "check <script>",
		Short: "Build a script and prepare the statement against SQLite",
		Long: `Build a query script and prepare the statement against an in-memory
SQLite database.

Preparing parses the statement and resolves every table and column without
executing anything. The database starts from a built-in fixture schema;
--schema adds DDL files on top, and --no-fixture starts empty.

Without --dialect the script's dialect is used, else sqlite.

Exit codes:
  0 - Statement built and prepared
  1 - A clause was rejected, or SQLite refused the statement
  2 - Command error (missing script, unreadable schema, etc.)`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(cmd.Context(), opts, args[0], cmd)
		},
	}

	addBuildFlags(cmd, &opts.Dialect, &opts.Strict)
	cmd.Flags().StringArrayVar(&opts.Schemas, "schema", nil, "DDL file applied after the fixture (repeatable)")
	cmd.Flags().BoolVar(&opts.NoFixture, "no-fixture", false, "start from an empty database")
	cmd.Flags().BoolVar(&opts.Plan, "plan", false, "print SQLite's query plan")

	return cmd
}

func runCheck(ctx context.Context, opts *CheckOptions, path string, cmd *cobra.Command) error {
	if ctx == nil {
		ctx = context.Background()
	}
	formatter := opts.formatter(cmd)
	logger := opts.Logger()

	fs, err := LoadScript(path)
	if err != nil {
		return outputCommandError(formatter, err)
	}

	name := opts.Dialect
	if name == "" && fs.Dialect == "" {
		name = dialect.SQLite.Name
	}
	d, err := resolveDialect(name, fs.Script)
	if err != nil {
		return outputCommandError(formatter, err)
	}

	checkerOpts, err := schemaOptions(opts)
	if err != nil {
		return outputCommandError(formatter, err)
	}

	built, stmt, err := buildStatement(fs, d, opts.Strict, logger)
	if err != nil {
		return outputBuildError(formatter, fs, err)
	}

	checker, err := sqlcheck.Open(checkerOpts...)
	if err != nil {
		return outputCommandError(formatter, &LoadError{Code: ErrCodeCheckerFailed, Message: err.Error()})
	}
	defer checker.Close()

	result := CheckResult{BuildResult: built, Valid: true}
	if opts.Plan {
		result.Plan, err = checker.Plan(ctx, stmt)
	} else {
		err = checker.Check(ctx, stmt)
	}

	var rejected *sqlcheck.CheckError
	if errors.As(err, &rejected) {
		logger.Debug("statement rejected", "script", fs.Name, "error", rejected.Err)
		result.Valid = false
		return outputCheckRejected(formatter, result, rejected)
	}
	if err != nil {
		return outputCommandError(formatter, err)
	}

	logger.Debug("statement accepted", "script", fs.Name, "dialect", d.Name)
	return outputCheckSuccess(formatter, result)
}

// schemaOptions reads the --schema files into checker options.
func schemaOptions(opts *CheckOptions) ([]sqlcheck.Option, error) {
	var out []sqlcheck.Option
	if opts.NoFixture {
		out = append(out, sqlcheck.WithoutFixture())
	}
	for _, path := range opts.Schemas {
		ddl, err := os.ReadFile(path)
		if err != nil {
			return nil, &LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("reading schema: %v", err)}
		}
		out = append(out, sqlcheck.WithSchema(string(ddl)))
	}
	return out, nil
}

func outputCheckSuccess(formatter *OutputFormatter, result CheckResult) error {
	if formatter.Format == "json" {
		return formatter.Success(result)
	}

	fmt.Fprintln(formatter.Writer, result.SQL)
	fmt.Fprintf(formatter.Writer, "✓ %s prepares against SQLite\n", result.Name)
	for _, step := range result.Plan {
		fmt.Fprintf(formatter.Writer, "  %s\n", step)
	}
	return nil
}

func outputCheckRejected(formatter *OutputFormatter, result CheckResult, rejected *sqlcheck.CheckError) error {
	if formatter.Format == "json" {
		if err := formatter.Reject(ErrCodeRejected, rejected.Err.Error(), result); err != nil {
			return err
		}
	} else {
		fmt.Fprintln(formatter.Writer, result.SQL)
		fmt.Fprintf(formatter.Writer, "✗ %s rejected by SQLite\n", result.Name)
		fmt.Fprintf(formatter.Writer, "  %s: %v\n", ErrCodeRejected, rejected.Err)
	}
	return WrapExitError(ExitFailure, "statement rejected", rejected)
}
