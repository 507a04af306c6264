package dialect

import "github.com/roach88/sqlchain/internal/ir"

func init() {
	Register(Postgres)
}

// Postgres spells the outer join out in full.
var Postgres = extend("postgres", ANSI, Templates{
	ir.KindFullJoin: list("FULL OUTER JOIN"),
}, nil)
