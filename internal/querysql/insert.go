package querysql

import (
	"strings"

	"github.com/roach88/sqlchain/internal/dialect"
	"github.com/roach88/sqlchain/internal/ir"
)

// handleInsert renders "(cols) VALUES (..), (..)". The column list is the
// union of every row's keys in first-seen order; a row missing a column
// gets NULL in that position.
func (b *Builder) handleInsert(kind ir.ClauseKind, args []ir.Arg) error {
	rows := make([]ir.Row, 0, len(args))
	for _, a := range args {
		if r, ok := a.(ir.Row); ok {
			rows = append(rows, r)
		}
	}

	columns := unionKeys(rows)
	tuples := make([]string, len(rows))
	for i, r := range rows {
		values := make([]string, len(columns))
		for j, col := range columns {
			v, _ := r.Get(col)
			values[j] = EscapeValue(valueOrNull(v))
		}
		tuples[i] = "(" + strings.Join(values, ", ") + ")"
	}

	return b.pushRendered(kind, dialect.Options{},
		strings.Join(columns, ", "),
		strings.Join(tuples, ", "),
	)
}

// handleTo renders the INSERT target and splices it in front of the values
// fragment. It only acts directly after INSERT.
func (b *Builder) handleTo(kind ir.ClauseKind, args []ir.Arg) error {
	if b.history.Last(1) != ir.KindInsert {
		b.logger.Debug("TO ignored outside INSERT", "previous", b.history.Last(1))
		return nil
	}
	tables := make([]string, 0, len(args))
	for _, a := range args {
		if t, ok := a.(ir.TableRef); ok {
			tables = append(tables, FormatTable(t, false))
		}
	}
	text, err := b.render(kind, dialect.Options{}, tables...)
	if err != nil || text == "" {
		return err
	}
	b.insertBeforeLast(Text(text))
	return nil
}

// handleSet renders the UPDATE assignment list.
func (b *Builder) handleSet(kind ir.ClauseKind, args []ir.Arg) error {
	var assignments []string
	for _, a := range args {
		if r, ok := a.(ir.Row); ok && len(r) > 0 {
			assignments = append(assignments, formatAssignments(r))
		}
	}
	return b.pushRendered(kind, dialect.Options{}, assignments...)
}

func unionKeys(rows []ir.Row) []string {
	seen := make(map[string]bool)
	var keys []string
	for _, r := range rows {
		for _, k := range r.Keys() {
			if !seen[k] {
				seen[k] = true
				keys = append(keys, k)
			}
		}
	}
	return keys
}
