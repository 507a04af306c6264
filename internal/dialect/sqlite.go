package dialect

func init() {
	Register(SQLite)
}

// SQLite shares ANSI text. Statements built with it are what the sqlcheck
// package prepares.
var SQLite = extend("sqlite", ANSI, nil, nil)
