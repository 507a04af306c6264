// Package harness provides conformance testing for the clause builder.
//
// A scenario feeds one clause stream, from a script file or written inline,
// through a fresh builder and asserts on the statement it produces.
//
// # Scenario Format
//
// Scenarios are defined in YAML files with the following structure:
//
//	name: active_users
//	description: "What this scenario validates"
//	dialect: sqlite            # optional; overrides the script's dialect
//	strict: false              # optional; silent no-ops become errors
//	check: true                # optional; prepare against the SQLite fixture
//	clauses:                   # or: script: ../scripts/orders.yaml
//	  - select: [{column: id}]
//	  - from: {table: users}
//	  - where: {column: status}
//	  - eq: active
//	expect:
//	  sql: "SELECT id FROM users WHERE status = 'active'"
//	  contains: ["WHERE status"]
//	  primary_kind: SELECT
//	  history: [SELECT, FROM, WHERE, EQ]
//	  error: MISSING_TEMPLATE  # builder or script error code
//
// Unknown fields are rejected, so a misspelled key fails loudly instead of
// silently dropping an expectation.
//
// # Golden Files
//
// RunWithGolden serializes a Snapshot of the result (dialect, statement,
// fingerprint, history) as canonical JSON and compares it with
// testdata/golden/<name>.golden. Run the tests with -update to rewrite them.
//
// # Usage
//
//	scenarios, err := harness.LoadDir("testdata/scenarios")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	for _, s := range scenarios {
//	    result, err := harness.Run(s)
//	    ...
//	}
package harness
