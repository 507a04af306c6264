package dialect

import "github.com/roach88/sqlchain/internal/ir"

func init() {
	Register(ANSI)
}

// ANSI is the base dialect. Other dialects copy and override it.
var ANSI = &Dialect{
	Name: "ansi",
	Templates: Templates{
		ir.KindSelect:     list("SELECT"),
		ir.KindInsert:     insertValues,
		ir.KindTo:         list("INSERT INTO"),
		ir.KindUpdate:     list("UPDATE"),
		ir.KindSet:        list("SET"),
		ir.KindDelete:     keyword("DELETE"),
		ir.KindFrom:       list("FROM"),
		ir.KindWhere:      keyword("WHERE"),
		ir.KindAnd:        keyword("AND"),
		ir.KindOr:         keyword("OR"),
		ir.KindEQ:         comparison("=", "<>"),
		ir.KindLT:         comparison("<", ">="),
		ir.KindGT:         comparison(">", "<="),
		ir.KindLike:       comparison("LIKE", "NOT LIKE"),
		ir.KindNull:       isNull,
		ir.KindBetween:    between,
		ir.KindIn:         in,
		ir.KindJoin:       list("JOIN"),
		ir.KindLeftJoin:   list("LEFT JOIN"),
		ir.KindRightJoin:  list("RIGHT JOIN"),
		ir.KindFullJoin:   list("FULL JOIN"),
		ir.KindOn:         on,
		ir.KindUsing:      wrapped("USING"),
		ir.KindUnion:      spaced("UNION"),
		ir.KindUnionAll:   spaced("UNION ALL"),
		ir.KindGroupBy:    list("GROUP BY"),
		ir.KindOrderBy:    list("ORDER BY"),
		ir.KindHaving:     spaced("HAVING"),
		ir.KindLimit:      limitOffset,
		ir.KindExists:     wrapped("EXISTS"),
		ir.KindOpenParen:  keyword("("),
		ir.KindCloseParen: keyword(")"),
	},
	Functions: Functions{
		ir.KindCount: function("COUNT", true),
		ir.KindMax:   function("MAX", false),
		ir.KindMin:   function("MIN", false),
		ir.KindSum:   function("SUM", false),
		ir.KindAvg:   function("AVG", false),
		ir.KindUpper: function("UPPER", false),
		ir.KindLower: function("LOWER", false),
	},
}
