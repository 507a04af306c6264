package harness

import (
	"fmt"
	"slices"
	"strings"
)

// Assertion types, as they appear in failure messages.
const (
	AssertSQL         = "sql"
	AssertContains    = "contains"
	AssertPrimaryKind = "primary_kind"
	AssertHistory     = "history"
	AssertError       = "error"
)

// AssertionError is returned when an assertion fails.
// It includes detailed context to help debug the failure.
type AssertionError struct {
	Type     string // Assertion type for categorization
	Expected string // Human-readable expected outcome
	Actual   string // Human-readable actual outcome
	SQL      string // Built statement for debugging context
}

// Error implements the error interface.
func (e *AssertionError) Error() string {
	var buf strings.Builder

	fmt.Fprintf(&buf, "Assertion failed: %s\n", e.Type)
	fmt.Fprintf(&buf, "  Expected: %s\n", e.Expected)
	fmt.Fprintf(&buf, "  Actual: %s\n", e.Actual)

	if e.SQL != "" {
		fmt.Fprintf(&buf, "\nStatement:\n  %s\n", e.SQL)
	}

	return buf.String()
}

func assertSQL(result *Result, expected string) error {
	if result.SQL == expected {
		return nil
	}
	return &AssertionError{
		Type:     AssertSQL,
		Expected: fmt.Sprintf("%q", expected),
		Actual:   fmt.Sprintf("%q", result.SQL),
	}
}

func assertContains(result *Result, fragments []string) error {
	var missing []string
	for _, f := range fragments {
		if !strings.Contains(result.SQL, f) {
			missing = append(missing, fmt.Sprintf("%q", f))
		}
	}
	if len(missing) == 0 {
		return nil
	}
	return &AssertionError{
		Type:     AssertContains,
		Expected: "statement containing " + strings.Join(missing, ", "),
		Actual:   "not found",
		SQL:      result.SQL,
	}
}

func assertPrimaryKind(result *Result, expected string) error {
	if strings.EqualFold(result.PrimaryKind, expected) {
		return nil
	}
	return &AssertionError{
		Type:     AssertPrimaryKind,
		Expected: expected,
		Actual:   orNone(result.PrimaryKind),
		SQL:      result.SQL,
	}
}

// assertHistory compares kind names case-insensitively, so scenarios may
// write "select" or "SELECT".
func assertHistory(result *Result, expected []string) error {
	match := slices.EqualFunc(result.History, expected, strings.EqualFold)
	if match {
		return nil
	}
	return &AssertionError{
		Type:     AssertHistory,
		Expected: "[" + strings.Join(expected, " ") + "]",
		Actual:   "[" + strings.Join(result.History, " ") + "]",
		SQL:      result.SQL,
	}
}

func assertError(result *Result, expected string, outcome error) error {
	if outcome != nil && result.ErrorCode == expected {
		return nil
	}
	actual := "no error"
	if outcome != nil {
		actual = fmt.Sprintf("%s (%v)", orNone(result.ErrorCode), outcome)
	}
	return &AssertionError{
		Type:     AssertError,
		Expected: expected,
		Actual:   actual,
		SQL:      result.SQL,
	}
}

func orNone(s string) string {
	if s == "" {
		return "<none>"
	}
	return s
}

// EvaluateAssertions checks every expectation against the result.
// outcome is the error that stopped the build, or nil.
// Returns a slice of error messages for failed assertions.
//
// An outcome that the scenario did not expect is itself a failure; in that
// case the statement assertions are skipped, since the statement is partial.
func EvaluateAssertions(result *Result, expect Expect, outcome error) []string {
	var errs []string
	add := func(err error) {
		if err != nil {
			errs = append(errs, err.Error())
		}
	}

	if expect.Error != "" {
		add(assertError(result, expect.Error, outcome))
	} else if outcome != nil {
		add(&AssertionError{
			Type:     AssertError,
			Expected: "no error",
			Actual:   outcome.Error(),
			SQL:      result.SQL,
		})
		return errs
	}

	if expect.SQL != "" {
		add(assertSQL(result, expect.SQL))
	}
	if len(expect.Contains) > 0 {
		add(assertContains(result, expect.Contains))
	}
	if expect.PrimaryKind != "" {
		add(assertPrimaryKind(result, expect.PrimaryKind))
	}
	if len(expect.History) > 0 {
		add(assertHistory(result, expect.History))
	}

	return errs
}
