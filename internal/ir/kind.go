package ir

import (
	"fmt"
	"strings"
)

// ClauseKind identifies what a submission contributes to a statement.
//
// The set is closed: NumKinds bounds every value, which lets the builder
// dispatch through a fixed-size table instead of a map.
type ClauseKind uint8

const (
	KindUndefined ClauseKind = iota

	// Statement heads.
	KindSelect
	KindInsert
	KindUpdate
	KindDelete

	// Structural clauses.
	KindFrom
	KindTo
	KindSet
	KindJoin
	KindLeftJoin
	KindRightJoin
	KindFullJoin
	KindOn
	KindUsing
	KindUnion
	KindUnionAll
	KindGroupBy
	KindOrderBy
	KindHaving
	KindLimit
	KindExists
	KindOpenParen
	KindCloseParen

	// WHERE family.
	KindWhere
	KindAnd
	KindOr
	KindNot

	// Comparisons.
	KindEQ
	KindLT
	KindGT
	KindLike
	KindNull
	KindBetween
	KindIn

	// Render functions (selection only).
	KindCount
	KindMax
	KindMin
	KindSum
	KindAvg
	KindUpper
	KindLower

	// kindLimit bounds the enumeration. Keep last.
	kindLimit
)

// NumKinds is the number of defined clause kinds, including KindUndefined.
const NumKinds = int(kindLimit)

var kindNames = [NumKinds]string{
	KindUndefined:  "UNDEFINED",
	KindSelect:     "SELECT",
	KindInsert:     "INSERT",
	KindUpdate:     "UPDATE",
	KindDelete:     "DELETE",
	KindFrom:       "FROM",
	KindTo:         "TO",
	KindSet:        "SET",
	KindJoin:       "JOIN",
	KindLeftJoin:   "LEFT_JOIN",
	KindRightJoin:  "RIGHT_JOIN",
	KindFullJoin:   "FULL_JOIN",
	KindOn:         "ON",
	KindUsing:      "USING",
	KindUnion:      "UNION",
	KindUnionAll:   "UNION_ALL",
	KindGroupBy:    "GROUP_BY",
	KindOrderBy:    "ORDER_BY",
	KindHaving:     "HAVING",
	KindLimit:      "LIMIT",
	KindExists:     "EXISTS",
	KindOpenParen:  "OPEN_PAREN",
	KindCloseParen: "CLOSE_PAREN",
	KindWhere:      "WHERE",
	KindAnd:        "AND",
	KindOr:         "OR",
	KindNot:        "NOT",
	KindEQ:         "EQ",
	KindLT:         "LT",
	KindGT:         "GT",
	KindLike:       "LIKE",
	KindNull:       "NULL",
	KindBetween:    "BETWEEN",
	KindIn:         "IN",
	KindCount:      "COUNT",
	KindMax:        "MAX",
	KindMin:        "MIN",
	KindSum:        "SUM",
	KindAvg:        "AVG",
	KindUpper:      "UPPER",
	KindLower:      "LOWER",
}

// String returns the canonical upper-snake name of the kind.
func (k ClauseKind) String() string {
	if int(k) >= NumKinds {
		return fmt.Sprintf("ClauseKind(%d)", uint8(k))
	}
	return kindNames[k]
}

// Valid reports whether k is a defined, non-undefined kind.
func (k ClauseKind) Valid() bool {
	return k > KindUndefined && int(k) < NumKinds
}

// IsLogical reports whether k combines conditions (AND, OR).
func (k ClauseKind) IsLogical() bool {
	return k == KindAnd || k == KindOr
}

// IsComparison reports whether k is rendered against the pending key chain.
func (k ClauseKind) IsComparison() bool {
	switch k {
	case KindEQ, KindLT, KindGT, KindLike, KindNull, KindBetween:
		return true
	}
	return false
}

// IsFunction reports whether k names a selection render function.
func (k ClauseKind) IsFunction() bool {
	return k >= KindCount && k <= KindLower
}

// ParseClauseKind resolves a kind from its name. Matching ignores case and
// treats spaces and hyphens as underscores, so "left join" and "LEFT-JOIN"
// both resolve to KindLeftJoin.
func ParseClauseKind(name string) (ClauseKind, error) {
	normalized := strings.ToUpper(strings.TrimSpace(name))
	normalized = strings.NewReplacer(" ", "_", "-", "_").Replace(normalized)
	for i := 1; i < NumKinds; i++ {
		if kindNames[i] == normalized {
			return ClauseKind(i), nil
		}
	}
	return KindUndefined, fmt.Errorf("unknown clause kind %q", name)
}

// MarshalText implements encoding.TextMarshaler.
func (k ClauseKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (k *ClauseKind) UnmarshalText(data []byte) error {
	parsed, err := ParseClauseKind(string(data))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}
