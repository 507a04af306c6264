package dialect

import "strings"

// keyword renders a fixed keyword regardless of options or arguments.
func keyword(word string) Template {
	return func(Options) func(...string) string {
		return func(...string) string { return word }
	}
}

// list renders "<word> a, b, c".
func list(word string) Template {
	return func(Options) func(...string) string {
		return func(args ...string) string {
			if len(args) == 0 {
				return word
			}
			return word + " " + strings.Join(args, ", ")
		}
	}
}

// wrapped renders "<word> (a, b, c)".
func wrapped(word string) Template {
	return func(Options) func(...string) string {
		return func(args ...string) string {
			return word + " (" + strings.Join(args, ", ") + ")"
		}
	}
}

// comparison renders "<property> <op> <value>", switching to negOp under
// negation.
func comparison(op, negOp string) Template {
	return func(opts Options) func(...string) string {
		operator := op
		if opts.Negation {
			operator = negOp
		}
		return func(args ...string) string {
			return opts.Property + " " + operator + " " + strings.Join(args, ", ")
		}
	}
}

func isNull(opts Options) func(...string) string {
	return func(...string) string {
		if opts.Negation {
			return opts.Property + " IS NOT NULL"
		}
		return opts.Property + " IS NULL"
	}
}

func between(opts Options) func(...string) string {
	return func(args ...string) string {
		var b strings.Builder
		b.WriteString(opts.Property)
		if opts.Negation {
			b.WriteString(" NOT")
		}
		b.WriteString(" BETWEEN ")
		b.WriteString(arg(args, 0))
		b.WriteString(" AND ")
		b.WriteString(arg(args, 1))
		return b.String()
	}
}

// in renders "<property> [NOT] IN (a, b)". Without a property the bare
// "[NOT] IN (a, b)" form is produced.
func in(opts Options) func(...string) string {
	return func(args ...string) string {
		var parts []string
		if opts.Property != "" {
			parts = append(parts, opts.Property)
		}
		if opts.Negation {
			parts = append(parts, "NOT")
		}
		parts = append(parts, "IN ("+strings.Join(args, ", ")+")")
		return strings.Join(parts, " ")
	}
}

// insertValues renders "(<columns>) VALUES <tuples>".
func insertValues(Options) func(...string) string {
	return func(args ...string) string {
		return "(" + arg(args, 0) + ") VALUES " + arg(args, 1)
	}
}

// on renders "ON a = b AND c = d" from consecutive column pairs. A trailing
// unpaired column is rendered alone.
func on(Options) func(...string) string {
	return func(args ...string) string {
		var pairs []string
		for i := 0; i < len(args); i += 2 {
			if i+1 < len(args) {
				pairs = append(pairs, args[i]+" = "+args[i+1])
			} else {
				pairs = append(pairs, args[i])
			}
		}
		return "ON " + strings.Join(pairs, " AND ")
	}
}

// spaced renders "<word> a b c".
func spaced(word string) Template {
	return func(Options) func(...string) string {
		return func(args ...string) string {
			return strings.Join(append([]string{word}, args...), " ")
		}
	}
}

// limitOffset renders "LIMIT <count> [OFFSET <offset>]".
func limitOffset(Options) func(...string) string {
	return func(args ...string) string {
		out := "LIMIT " + arg(args, 0)
		if len(args) > 1 {
			out += " OFFSET " + args[1]
		}
		return out
	}
}

// function renders "NAME(a, b)"; with no arguments, "NAME(*)" when star is
// set and "NAME()" otherwise.
func function(name string, star bool) RenderFunc {
	return func(args ...string) string {
		if len(args) == 0 && star {
			return name + "(*)"
		}
		return name + "(" + strings.Join(args, ", ") + ")"
	}
}

func arg(args []string, i int) string {
	if i < len(args) {
		return args[i]
	}
	return ""
}
