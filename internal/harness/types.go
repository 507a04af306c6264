package harness

// Result is the outcome of a test scenario execution.
type Result struct {
	// Pass indicates overall test success.
	// True if every expectation matched.
	Pass bool `json:"pass"`

	// Dialect is the dialect the statement was built for.
	Dialect string `json:"dialect"`

	// SQL is the built statement body. Empty when the build stopped early.
	SQL string `json:"sql"`

	// PrimaryKind is the name of the statement's primary kind.
	PrimaryKind string `json:"primary_kind,omitempty"`

	// Fingerprint is the statement's content hash.
	Fingerprint string `json:"fingerprint,omitempty"`

	// History lists the accepted clause kinds in order.
	History []string `json:"history"`

	// Plan holds SQLite's query plan when the scenario asked for a check.
	Plan []string `json:"plan,omitempty"`

	// ErrorCode is the code of the error that stopped the build, if any.
	ErrorCode string `json:"error_code,omitempty"`

	// Errors contains assertion failure messages.
	// Empty if Pass is true.
	Errors []string `json:"errors,omitempty"`
}

// NewResult creates a new passing result.
// Used as the starting point for test execution.
func NewResult() *Result {
	return &Result{
		Pass:    true,
		History: []string{},
		Errors:  []string{},
	}
}

// AddError adds a validation error and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}
