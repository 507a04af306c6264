package ir

import (
	"fmt"
	"strconv"
	"time"
)

// Value is a sealed interface over caller-supplied scalar literals.
// Only Null, String, Int, Float, Bool, and Date implement it.
//
// Values are immutable and carried unescaped through the builder; they are
// escaped exactly once, when a template consumes them.
type Value interface {
	Operand
	value() // Sealed - only these types implement it
}

// Null represents SQL NULL.
type Null struct{}

// String represents a text literal.
type String string

// Int represents an integer literal.
type Int int64

// Float represents a floating point literal.
type Float float64

// Bool represents a boolean literal.
type Bool bool

// Date represents a timestamp literal. Rendering uses UTC.
type Date time.Time

func (Null) arg()       {}
func (Null) operand()   {}
func (Null) value()     {}
func (String) arg()     {}
func (String) operand() {}
func (String) value()   {}
func (Int) arg()        {}
func (Int) operand()    {}
func (Int) value()      {}
func (Float) arg()      {}
func (Float) operand()  {}
func (Float) value()    {}
func (Bool) arg()       {}
func (Bool) operand()   {}
func (Bool) value()     {}
func (Date) arg()       {}
func (Date) operand()   {}
func (Date) value()     {}

// DateLayout is the text layout Date literals render with.
const DateLayout = "2006-01-02 15:04:05"

// ValueOf converts a Go scalar into a Value.
// Accepts nil, string, bool, every int and float width, time.Time, and
// Values themselves. Anything else is an error.
func ValueOf(v any) (Value, error) {
	switch val := v.(type) {
	case nil:
		return Null{}, nil
	case Value:
		return val, nil
	case string:
		return String(val), nil
	case bool:
		return Bool(val), nil
	case int:
		return Int(val), nil
	case int8:
		return Int(val), nil
	case int16:
		return Int(val), nil
	case int32:
		return Int(val), nil
	case int64:
		return Int(val), nil
	case uint:
		return Int(val), nil
	case uint8:
		return Int(val), nil
	case uint16:
		return Int(val), nil
	case uint32:
		return Int(val), nil
	case float32:
		return Float(val), nil
	case float64:
		return Float(val), nil
	case time.Time:
		return Date(val), nil
	default:
		return nil, fmt.Errorf("unsupported literal type: %T", v)
	}
}

// MustValue is ValueOf for tests and static fixtures. It panics on error.
func MustValue(v any) Value {
	val, err := ValueOf(v)
	if err != nil {
		panic(err)
	}
	return val
}

// Values converts each element with MustValue.
func Values(vs ...any) []Arg {
	args := make([]Arg, len(vs))
	for i, v := range vs {
		args[i] = MustValue(v)
	}
	return args
}

// GoValue returns the plain Go representation of v, used for canonical
// encoding and JSON output.
func GoValue(v Value) any {
	switch val := v.(type) {
	case Null:
		return nil
	case String:
		return string(val)
	case Int:
		return int64(val)
	case Float:
		return strconv.FormatFloat(float64(val), 'g', -1, 64)
	case Bool:
		return bool(val)
	case Date:
		return time.Time(val).UTC().Format(DateLayout)
	default:
		return nil
	}
}
