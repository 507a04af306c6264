package querysql

import (
	"slices"

	"github.com/roach88/sqlchain/internal/ir"
)

// History is the append-only log of submitted clause kinds.
// Handlers only ever look at its last one or two entries.
type History struct {
	kinds []ir.ClauseKind
}

// Append records a submission.
func (h *History) Append(kind ir.ClauseKind) {
	h.kinds = append(h.kinds, kind)
}

// Len returns the number of recorded submissions.
func (h *History) Len() int {
	return len(h.kinds)
}

// Last returns the n-th most recent kind: Last(1) is the previous
// submission, Last(2) the one before it. Returns KindUndefined when the log
// is shorter than n.
func (h *History) Last(n int) ir.ClauseKind {
	if n < 1 || n > len(h.kinds) {
		return ir.KindUndefined
	}
	return h.kinds[len(h.kinds)-n]
}

// Kinds returns a copy of the log in submission order.
func (h *History) Kinds() []ir.ClauseKind {
	return slices.Clone(h.kinds)
}
