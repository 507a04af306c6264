package querysql

import (
	"strings"

	"github.com/roach88/sqlchain/internal/ir"
)

// formatSelection renders one SELECT list entry. Columns and calls carry
// their alias here and nowhere else.
func (b *Builder) formatSelection(a ir.Arg) (string, error) {
	switch v := a.(type) {
	case ir.ColumnRef:
		return FormatAliasedColumn(v), nil
	case ir.Call:
		text := b.formatCall(v)
		if v.Alias != "" {
			text += " AS " + v.Alias
		}
		return text, nil
	}
	return b.formatArg(a)
}

// formatCall renders a function application through the render-function
// registry. A function the dialect does not define renders generically as
// "KIND(args)".
func (b *Builder) formatCall(c ir.Call) string {
	args := make([]string, len(c.Args))
	for i, a := range c.Args {
		args[i] = b.formatOperand(a)
	}
	if fn, ok := b.functions[c.Function]; ok {
		return fn(args...)
	}
	b.logger.Debug("render function not in registry", "function", c.Function)
	return c.Function.String() + "(" + strings.Join(args, ", ") + ")"
}
