// Package sqlcheck verifies built statements against SQLite.
//
// A Checker owns a private in-memory database seeded with a fixture schema
// (users, orders, order_items, products, ...). Check prepares a statement
// without executing it, so syntax errors and unknown tables or columns are
// reported while nothing is ever written.
//
// Only statements built with a SQLite-compatible dialect are expected to
// pass; MySQL's "LIMIT offset, count" happens to parse, other dialect
// differences may not.
package sqlcheck
