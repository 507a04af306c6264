package querysql

import (
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/roach88/sqlchain/internal/ir"
)

// FormatColumn renders a column reference as "table.name", or "name" when
// unqualified. Aliases are not rendered.
func FormatColumn(c ir.ColumnRef) string {
	if c.Table == "" {
		return c.Name
	}
	return c.Table + "." + c.Name
}

// FormatAliasedColumn renders a column for a selection list:
// "table.name AS alias".
func FormatAliasedColumn(c ir.ColumnRef) string {
	if c.Alias == "" {
		return FormatColumn(c)
	}
	return FormatColumn(c) + " AS " + c.Alias
}

// FormatTable renders a table reference, "name alias" when withAlias is set
// and an alias exists.
func FormatTable(t ir.TableRef, withAlias bool) string {
	if withAlias && t.Alias != "" {
		return t.Name + " " + t.Alias
	}
	return t.Name
}

// FormatSortKey renders an ORDER BY entry.
func FormatSortKey(s ir.SortKey) string {
	if s.Desc {
		return FormatColumn(s.Column) + " DESC"
	}
	return FormatColumn(s.Column)
}

// EscapeValue renders a literal as dialect-safe SQL text.
//
//	String  'it''s'      single quotes doubled
//	Int     42
//	Float   1.5          shortest round-trip form, NULL when not finite
//	Bool    TRUE / FALSE
//	Date    '2024-01-02 15:04:05'  (UTC)
//	Null    NULL
func EscapeValue(v ir.Value) string {
	switch val := v.(type) {
	case ir.Null:
		return "NULL"
	case ir.String:
		return quote(string(val))
	case ir.Int:
		return strconv.FormatInt(int64(val), 10)
	case ir.Float:
		f := float64(val)
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return "NULL"
		}
		return strconv.FormatFloat(f, 'g', -1, 64)
	case ir.Bool:
		if val {
			return "TRUE"
		}
		return "FALSE"
	case ir.Date:
		return quote(time.Time(val).UTC().Format(ir.DateLayout))
	default:
		return "NULL"
	}
}

func quote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}
