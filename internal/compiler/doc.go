// Package compiler turns query scripts into clause streams.
//
// A script is a YAML or CUE document:
//
//	name: active-users
//	dialect: sqlite
//	queries:
//	  archived:
//	    - select
//	    - from: {table: archived_users}
//	clauses:
//	  - select: [{column: id}, {column: name, alias: n}]
//	  - from: {table: users, alias: u}
//	  - where: {column: status}
//	  - eq: active
//	  - union: {ref: archived}
//
// Each clause is a kind name, or a single-key mapping from kind name to its
// arguments (one argument, or a list). Argument shapes:
//
//	scalar                       literal
//	{column, table?, alias?}     column reference
//	{table, alias?}              table reference
//	{scope: and|or, items}       logical scope
//	{call, args?, alias?}        render function
//	{row: {col: value, ...}}     row (field order kept)
//	{sort, desc?}                ORDER BY key
//	{date}                       timestamp literal
//	{query: [clauses]}           inline subquery
//	{ref: name}                  named query from queries:
//
// Both formats decode into one ordered node tree before conversion, so the
// two front ends accept exactly the same scripts. Errors carry a code and a
// source position.
package compiler
