package interpreter

import (
	"strings"

	"github.com/cockroachdb/apd/v3"
)

type ValueKind int

const (
	ValNone ValueKind = iota
	ValBool
	ValString
	ValDecimal
	ValInteger
	ValCallable
)

func (k ValueKind) String() string {
	switch k {
	case ValNone:
		return "none"
	case ValBool:
		return "bool"
	case ValString:
		return "string"
	case ValDecimal:
		return "decimal"
	case ValInteger:
		return "integer"
	case ValCallable:
		return "function"
	default:
		return "unknown"
	}
}

// Value is a tagged union over the language's runtime values. Dec and Int
// are never mutated once a Value holds them; arithmetic always allocates.
type Value struct {
	Kind ValueKind
	Bool bool
	Str  string
	Dec  *apd.Decimal
	Int  *apd.BigInt
	Fn   Callable
}

func NoneValue() Value                  { return Value{Kind: ValNone} }
func BoolValue(b bool) Value            { return Value{Kind: ValBool, Bool: b} }
func StringValue(s string) Value        { return Value{Kind: ValString, Str: s} }
func DecimalValue(d *apd.Decimal) Value { return Value{Kind: ValDecimal, Dec: d} }
func IntegerValue(n *apd.BigInt) Value  { return Value{Kind: ValInteger, Int: n} }
func IntValue(n int64) Value            { return IntegerValue(apd.NewBigInt(n)) }
func CallableValue(fn Callable) Value   { return Value{Kind: ValCallable, Fn: fn} }

func (v Value) isNumber() bool            { return v.Kind == ValDecimal || v.Kind == ValInteger }
func (v Value) bothIntegers(o Value) bool { return v.Kind == ValInteger && o.Kind == ValInteger }

// Truthy reports whether v counts as true in a condition: only none and
// false are falsy.
func (v Value) Truthy() bool {
	switch v.Kind {
	case ValNone:
		return false
	case ValBool:
		return v.Bool
	default:
		return true
	}
}

// String renders v the way print shows it.
func (v Value) String() string {
	switch v.Kind {
	case ValBool:
		if v.Bool {
			return "true"
		}
		return "false"
	case ValString:
		return v.Str
	case ValDecimal:
		return formatDecimal(v.Dec)
	case ValInteger:
		return v.Int.String()
	case ValCallable:
		return v.Fn.String()
	default:
		return "None"
	}
}

// formatDecimal prints plain notation with trailing fractional zeros and a
// bare trailing point removed: 3.0 -> 3, 3.50 -> 3.5.
func formatDecimal(d *apd.Decimal) string {
	s := d.Text('f')
	if strings.Contains(s, ".") {
		s = strings.TrimRight(s, "0")
		s = strings.TrimSuffix(s, ".")
	}
	if s == "-0" {
		return "0"
	}
	return s
}

// toDecimal widens an integer operand; decimals pass through.
func toDecimal(v Value) *apd.Decimal {
	if v.Kind == ValDecimal {
		return v.Dec
	}
	return apd.NewWithBigInt(v.Int, 0)
}

func valuesEqual(a, b Value) bool {
	if a.Kind == ValNone || b.Kind == ValNone {
		return a.Kind == b.Kind
	}
	if a.isNumber() && b.isNumber() {
		if a.bothIntegers(b) {
			return a.Int.Cmp(b.Int) == 0
		}
		return toDecimal(a).Cmp(toDecimal(b)) == 0
	}
	if a.Kind != b.Kind {
		return false
	}
	switch a.Kind {
	case ValBool:
		return a.Bool == b.Bool
	case ValString:
		return a.Str == b.Str
	case ValCallable:
		return a.Fn == b.Fn
	default:
		return false
	}
}
