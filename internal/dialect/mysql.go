package dialect

import (
	"strings"

	"github.com/roach88/sqlchain/internal/ir"
)

func init() {
	Register(MySQL)
}

// MySQL renders "!=" for negated equality, uses the "LIMIT offset, count"
// form, and has no FULL JOIN: a FULL_JOIN submission renders as nothing.
var MySQL = extend("mysql", ANSI, Templates{
	ir.KindEQ:       comparison("=", "!="),
	ir.KindLimit:    mysqlLimit,
	ir.KindFullJoin: nil,
}, Functions{
	ir.KindUpper: function("UCASE", false),
	ir.KindLower: function("LCASE", false),
})

func mysqlLimit(Options) func(...string) string {
	return func(args ...string) string {
		if len(args) > 1 {
			return "LIMIT " + strings.Join([]string{args[1], args[0]}, ", ")
		}
		return "LIMIT " + arg(args, 0)
	}
}
