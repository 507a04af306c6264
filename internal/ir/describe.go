package ir

// DescribeArg returns a plain JSON-friendly description of an argument.
// The shape mirrors the query-script argument syntax, so a described clause
// stream reads like the script it came from.
func DescribeArg(a Arg) any {
	switch v := a.(type) {
	case Value:
		if d, ok := v.(Date); ok {
			return map[string]any{"date": GoValue(d)}
		}
		return GoValue(v)
	case ColumnRef:
		m := map[string]any{"column": v.Name}
		if v.Table != "" {
			m["table"] = v.Table
		}
		if v.Alias != "" {
			m["alias"] = v.Alias
		}
		return m
	case TableRef:
		m := map[string]any{"table": v.Name}
		if v.Alias != "" {
			m["alias"] = v.Alias
		}
		return m
	case *LogicalScope:
		items := make([]any, len(v.Items))
		for i, item := range v.Items {
			items[i] = DescribeArg(item)
		}
		return map[string]any{"scope": v.Operator.String(), "items": items}
	case Call:
		args := make([]any, len(v.Args))
		for i, item := range v.Args {
			args[i] = DescribeArg(item)
		}
		m := map[string]any{"call": v.Function.String(), "args": args}
		if v.Alias != "" {
			m["alias"] = v.Alias
		}
		return m
	case Row:
		fields := make([]any, len(v))
		for i, f := range v {
			fields[i] = []any{f.Column, GoValue(f.Value)}
		}
		return map[string]any{"row": fields}
	case SortKey:
		return map[string]any{"sort": DescribeArg(v.Column), "desc": v.Desc}
	case Subquery:
		clauses := make([]any, len(v.Clauses))
		for i, c := range v.Clauses {
			clauses[i] = describeClause(c)
		}
		return map[string]any{"query": clauses}
	case Statement:
		return map[string]any{"statement": v.Body, "primary_kind": v.PrimaryKind.String()}
	default:
		return nil
	}
}

func describeClause(c Clause) map[string]any {
	args := make([]any, len(c.Args))
	for i, a := range c.Args {
		args[i] = DescribeArg(a)
	}
	return map[string]any{"kind": c.Kind.String(), "args": args}
}

// DescribeClauses describes a clause stream in submission order.
func DescribeClauses(clauses []Clause) []any {
	out := make([]any, len(clauses))
	for i, c := range clauses {
		out[i] = describeClause(c)
	}
	return out
}
