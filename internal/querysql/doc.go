// Package querysql assembles a single SQL statement from a linear stream of
// typed clause submissions.
//
// ARCHITECTURE:
//
//	[front end] --(kind, args)--> Builder.Submit --> handler --> fragments
//	                                   |                 |
//	                                history          key chain
//	                                                     |
//	                      comparison --> condition renderer --> fragments
//
//	Builder.Build --> flatten fragments --> Statement{PrimaryKind, Body}
//
// The same clause kind can mean different things depending on what came
// before it, so every submission is appended to an append-only history and
// handlers inspect its last one or two entries:
//
//	WHERE a                      key chain = [a], emits "WHERE" once
//	WHERE a, AND                 key chain = [a, AND()]  (scope opened)
//	WHERE a, AND, WHERE b        key chain = [a, AND(b)] (merged)
//	WHERE a, EQ 1, AND           plain "AND" keyword
//	NOT, WHERE a, EQ 1           negated comparison
//	NOT, WHERE a, AND, WHERE b   NOT still pending for the next comparison
//	INSERT rows, TO t            "INSERT INTO t" spliced before the values
//
// COMPARISONS:
//
// A comparison (EQ, LT, GT, LIKE, NULL, BETWEEN) is rendered against every
// target in the pending key chain. It is multi-valued when it carries more
// than one value, or a single logical-scope value, and its operator is one
// of EQ, LT, GT, LIKE. Multi-valued comparisons expand into one atomic
// comparison per value:
//
//	WHERE a, EQ [1, 2, 3]        a = 1 OR a = 2 OR a = 3
//	WHERE a, EQ [AllOf(1, 2)]    a = 1 AND a = 2
//	WHERE AnyOf(a, b), EQ [1]    a = 1 OR b = 1
//
// Under negation every atom is negated and every joiner flipped, so the
// rendered text is the De Morgan form of NOT(condition):
//
//	NOT, WHERE a, EQ [1, 2]      a <> 1 AND a <> 2
//
// Compound members of a larger join are parenthesized; a sole top-level
// member is not. Nothing wraps the top-level expansion itself, so next to a
// plain AND/OR keyword the caller supplies the grouping with OPEN and CLOSE:
//
//	WHERE a, EQ [1, 2], AND, WHERE b, EQ 3
//	    a = 1 OR a = 2 AND b = 3
//	WHERE c, EQ 0, AND, OPEN, WHERE a, EQ [1, 2], CLOSE, AND, WHERE b, EQ 3
//	    c = 0 AND ( a = 1 OR a = 2 ) AND b = 3
//
// ERRORS:
//
// Submit fails with INVALID_ARGUMENT when a validator rejects the arguments
// and with INVARIANT_VIOLATION when a WHERE merge finds no open scope. An
// unknown clause, a missing template, and a comparison with an empty key
// chain are silent no-ops unless the builder is strict.
//
// A Builder is single-owner mutable state and is not safe for concurrent
// use. Template, function and validator registries are read-only and may be
// shared by any number of builders.
package querysql
