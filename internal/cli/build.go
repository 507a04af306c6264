package cli

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/roach88/sqlchain/internal/dialect"
	"github.com/roach88/sqlchain/internal/ir"
	"github.com/roach88/sqlchain/internal/querysql"
)

// BuildOptions holds flags for the build command.
type BuildOptions struct {
	*RootOptions
	Dialect string // overrides the script's dialect
	Strict  bool   // silent no-ops become errors
	Output  string // output file path
}

// BuildResult describes a built statement.
type BuildResult struct {
	Name        string   `json:"name"`
	Dialect     string   `json:"dialect"`
	PrimaryKind string   `json:"primary_kind"`
	SQL         string   `json:"sql"`
	Fingerprint string   `json:"fingerprint"`
	History     []string `json:"history"`
}

// NewBuildCommand creates the build command.
func NewBuildCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &BuildOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "build <script>",
		Short: "Build the SQL statement for a query script",
		Long: `Build the SQL statement for a YAML or CUE query script.

Clauses are submitted in order to a builder for the chosen dialect. The
statement and its fingerprint are printed; --output also writes the
statement to a file.

Exit codes:
  0 - Statement built
  1 - A clause was rejected while building
  2 - Command error (missing script, parse error, unknown dialect, etc.)`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true, // Don't print usage on errors - we handle our own error output
		SilenceErrors: true, // Don't print errors - we handle our own error output
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBuild(opts, args[0], cmd)
		},
	}

	addBuildFlags(cmd, &opts.Dialect, &opts.Strict)
	cmd.Flags().StringVarP(&opts.Output, "output", "o", "", "write the statement to this file")

	return cmd
}

// addBuildFlags registers the flags shared by every command that builds.
func addBuildFlags(cmd *cobra.Command, dialectName *string, strict *bool) {
	cmd.Flags().StringVar(dialectName, "dialect", "", fmt.Sprintf("dialect to build for, one of %v (default: the script's, else %s)", dialect.Names(), dialect.DefaultName))
	cmd.Flags().BoolVar(strict, "strict", false, "fail on clauses that would otherwise be skipped")
}

func runBuild(opts *BuildOptions, path string, cmd *cobra.Command) error {
	formatter := opts.formatter(cmd)

	fs, err := LoadScript(path)
	if err != nil {
		return outputCommandError(formatter, err)
	}
	d, err := resolveDialect(opts.Dialect, fs.Script)
	if err != nil {
		return outputCommandError(formatter, err)
	}

	formatter.VerboseLog("Building %s (%d clause(s)) for %s", fs.Name, len(fs.Clauses), d.Name)

	result, _, err := buildStatement(fs, d, opts.Strict, opts.Logger())
	if err != nil {
		return outputBuildError(formatter, fs, err)
	}

	if opts.Output != "" {
		if err := os.WriteFile(opts.Output, []byte(result.SQL+"\n"), 0644); err != nil {
			return outputCommandError(formatter, &LoadError{
				Code:    ErrCodeWriteFailed,
				Message: fmt.Sprintf("writing %s: %v", opts.Output, err),
			})
		}
	}

	return outputBuildSuccess(formatter, result, opts.Output)
}

// buildStatement submits the script's clauses to a fresh builder for d.
// On a rejected clause the partial result is returned with the error.
func buildStatement(fs *FileScript, d *dialect.Dialect, strict bool, logger *slog.Logger) (*BuildResult, ir.Statement, error) {
	b := querysql.NewDialectBuilder(d,
		querysql.WithStrict(strict),
		querysql.WithLogger(logger),
	)
	submitErr := b.SubmitAll(fs.Clauses)
	stmt := b.Build()

	result := &BuildResult{
		Name:        fs.Name,
		Dialect:     d.Name,
		PrimaryKind: stmt.PrimaryKind.String(),
		SQL:         stmt.Body,
		History:     []string{},
	}
	for _, k := range b.History() {
		result.History = append(result.History, k.String())
	}
	if submitErr != nil {
		return result, stmt, submitErr
	}

	fingerprint, err := ir.Fingerprint(stmt)
	if err != nil {
		return result, stmt, err
	}
	result.Fingerprint = fingerprint

	logger.Debug("statement built",
		"script", fs.Name,
		"dialect", d.Name,
		"primary_kind", result.PrimaryKind,
		"fingerprint", fingerprint,
	)
	return result, stmt, nil
}

// outputBuildSuccess prints the statement.
func outputBuildSuccess(formatter *OutputFormatter, result *BuildResult, outputFile string) error {
	if formatter.Format == "json" {
		return formatter.Success(result)
	}

	fmt.Fprintln(formatter.Writer, result.SQL)
	fmt.Fprintf(formatter.Writer, "-- fingerprint: %s\n", result.Fingerprint)
	if outputFile != "" {
		fmt.Fprintf(formatter.Writer, "-- wrote %s\n", outputFile)
	}
	return nil
}

// outputBuildError reports a clause the builder rejected. The clause's
// source position is included when the script recorded one.
func outputBuildError(formatter *OutputFormatter, fs *FileScript, err error) error {
	code, message := ErrCodeGeneric, err.Error()
	var buildErr *querysql.BuildError
	if errors.As(err, &buildErr) {
		code = string(buildErr.Code)
	}

	var details interface{}
	var clauseErr *querysql.ClauseError
	if errors.As(err, &clauseErr) {
		idx := clauseErr.Index
		if pos := fs.Position(idx); pos.IsValid() {
			details = map[string]interface{}{"clause": idx, "position": pos.String()}
			message = fmt.Sprintf("%s: %s", pos, message)
		} else {
			details = map[string]interface{}{"clause": idx}
		}
	}

	_ = formatter.Error(code, message, details)
	// A rejected clause is a failure of the script, not of the command (exit code 1)
	return WrapExitError(ExitFailure, "build failed", err)
}

// outputCommandError reports an error that stopped the command before it
// could do its work (exit code 2).
func outputCommandError(formatter *OutputFormatter, err error) error {
	code, message := errorParts(err)
	_ = formatter.Error(code, message, nil)
	return NewExitError(ExitCommandError, fmt.Sprintf("%s: %s", code, message))
}
