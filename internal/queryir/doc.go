// Package queryir validates the shape of clause arguments before they reach
// the builder.
//
// The builder consumes (kind, arguments) pairs from a front end. Arguments
// are ir.Arg values - a sealed union of literals, column and table
// references, logical scopes, calls, rows, sort keys and subqueries - and
// each clause kind accepts only some of those shapes:
//
//	Kind        Accepted arguments
//	----        ------------------
//	SELECT      ColumnRef | Call        (zero means "*")
//	FROM        TableRef, at least one
//	WHERE       Target, at least one
//	EQ/LT/GT    Operand, at least one
//	LIKE        Operand, at least one
//	NULL        none
//	BETWEEN     exactly two non-scope operands
//	IN          non-scope operands, at least one
//	INSERT      Row, at least one
//	TO          exactly one TableRef
//	SET         exactly one non-empty Row
//	JOIN*       exactly one TableRef
//	ON          ColumnRef pairs
//	USING       exactly one ColumnRef
//	UNION*      Statement | Subquery, at least one
//	EXISTS      exactly one Statement | Subquery
//	LIMIT       one or two non-negative Int
//
// Validation is optional: a kind with no registered validator is accepted
// as-is. Validators never mutate their arguments.
package queryir
