package ir

// Statement is the result of a build.
//
// PrimaryKind is fixed by the first submission and never changes. Body is
// the flattened, space-joined fragment list at the time Build was called.
type Statement struct {
	PrimaryKind ClauseKind `json:"primary_kind"`
	Body        string     `json:"body"`
}

func (Statement) arg() {}

// String returns the statement body.
func (s Statement) String() string {
	return s.Body
}
