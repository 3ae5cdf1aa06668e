package interpreter

import (
	"testing"

	"github.com/cockroachdb/apd/v3"
)

func dec(t *testing.T, s string) Value {
	t.Helper()
	d, _, err := apd.NewFromString(s)
	if err != nil {
		t.Fatalf("bad decimal %q: %v", s, err)
	}
	return DecimalValue(d)
}

func TestFormatDecimal(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"3.0", "3"},
		{"3.50", "3.5"},
		{"-0.0", "0"},
		{"0.001", "0.001"},
		{"100", "100"},
		{"1E+2", "100"},
		{"-2.500", "-2.5"},
	}
	for _, tt := range tests {
		if got := dec(t, tt.in).String(); got != tt.want {
			t.Errorf("%s: got %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestDivideDecimal_RoundsHalfEven(t *testing.T) {
	tests := []struct {
		x, y  string
		scale int32
		want  string
	}{
		{"1", "8", 2, "0.12"},
		{"3", "8", 2, "0.38"},
		{"-1", "8", 2, "-0.12"},
		{"2", "3", 4, "0.6667"},
		{"1", "3", 4, "0.3333"},
		{"1.0", "4", 10, "0.25"},
		{"6", "2.0", 10, "3"},
		{"1", "0.001", 2, "1000"},
		{"0", "-5", 3, "0"},
	}
	for _, tt := range tests {
		got, err := divideDecimal(dec(t, tt.x).Dec, dec(t, tt.y).Dec, tt.scale)
		if err != nil {
			t.Fatalf("%s/%s: %v", tt.x, tt.y, err)
		}
		if s := formatDecimal(got); s != tt.want {
			t.Errorf("%s/%s @%d: got %s, want %s", tt.x, tt.y, tt.scale, s, tt.want)
		}
	}

	if _, err := divideDecimal(dec(t, "1").Dec, dec(t, "0.00").Dec, 2); err != errDivisionByZero {
		t.Fatalf("got %v, want division by zero", err)
	}
}

func TestArithmetic(t *testing.T) {
	tests := []struct {
		l    Value
		op   string
		r    Value
		want string
		kind ValueKind
	}{
		{IntValue(1), "+", IntValue(2), "3", ValInteger},
		{IntValue(7), "/", IntValue(2), "3", ValInteger},
		{IntValue(-7), "/", IntValue(2), "-3", ValInteger},
		{IntValue(7), "%", IntValue(-3), "1", ValInteger},
		{IntValue(-7), "%", IntValue(3), "-1", ValInteger},
		{IntValue(1), "+", dec(t, "0.5"), "1.5", ValDecimal},
		{dec(t, "1.50"), "+", IntValue(1), "2.5", ValDecimal},
		{dec(t, "0.1"), "+", dec(t, "0.2"), "0.3", ValDecimal},
		{dec(t, "1.5"), "*", dec(t, "1.5"), "2.25", ValDecimal},
		{dec(t, "5"), "-", IntValue(7), "-2", ValDecimal},
		{IntValue(2), "^", IntValue(10), "1024", ValInteger},
		{IntValue(2), "^", IntValue(-2), "0.25", ValDecimal},
		{dec(t, "1.5"), "^", IntValue(2), "2.25", ValDecimal},
		{dec(t, "1.5"), "^", IntValue(0), "1", ValDecimal},
		{StringValue("a"), "*", StringValue("b"), "ab", ValString},
	}
	for _, tt := range tests {
		got, err := arithmetic(tt.op, tt.l, tt.r, DefaultDivisionScale)
		if err != nil {
			t.Errorf("%s %s %s: %v", tt.l, tt.op, tt.r, err)
			continue
		}
		if got.String() != tt.want || got.Kind != tt.kind {
			t.Errorf("%s %s %s: got %s (%s), want %s (%s)", tt.l, tt.op, tt.r, got, got.Kind, tt.want, tt.kind)
		}
	}
}

func TestArithmetic_Errors(t *testing.T) {
	tests := []struct {
		l    Value
		op   string
		r    Value
		want error
	}{
		{IntValue(1), "+", StringValue("a"), errOperandsNumbers},
		{StringValue("a"), "+", StringValue("b"), errOperandsNumbers},
		{StringValue("a"), "*", IntValue(2), errOperandsNumbers},
		{NoneValue(), "-", IntValue(1), errOperandsNumbers},
		{IntValue(1), "/", IntValue(0), errDivisionByZero},
		{dec(t, "1.0"), "/", IntValue(0), errDivisionByZero},
		{IntValue(1), "%", IntValue(0), errDivisionByZero},
		{dec(t, "1.5"), "%", IntValue(1), errModuloIntegers},
		{IntValue(2), "^", dec(t, "0.5"), errExponentInteger},
		{IntValue(2), "^", IntValue(65537), errExponentLarge},
		{IntValue(0), "^", IntValue(-1), errDivisionByZero},
	}
	for _, tt := range tests {
		_, err := arithmetic(tt.op, tt.l, tt.r, DefaultDivisionScale)
		if err != tt.want {
			t.Errorf("%s %s %s: got %v, want %v", tt.l, tt.op, tt.r, err, tt.want)
		}
	}
}

func TestCompareAndEquality(t *testing.T) {
	lt, err := compare("<", IntValue(1), dec(t, "1.5"))
	if err != nil || !lt.Bool {
		t.Fatalf("1 < 1.5: got %v, %v", lt, err)
	}
	if _, err := compare(">", StringValue("a"), StringValue("b")); err != errOperandsNumbers {
		t.Fatalf("string comparison: got %v", err)
	}

	equal := []struct {
		a, b Value
		want bool
	}{
		{dec(t, "2.0"), dec(t, "2.00"), true},
		{dec(t, "2.0"), IntValue(2), true},
		{NoneValue(), NoneValue(), true},
		{NoneValue(), BoolValue(false), false},
		{IntValue(1), StringValue("1"), false},
		{StringValue("a"), StringValue("a"), true},
		{BoolValue(true), BoolValue(true), true},
	}
	for _, tt := range equal {
		if got := valuesEqual(tt.a, tt.b); got != tt.want {
			t.Errorf("%s == %s: got %v", tt.a, tt.b, got)
		}
	}
}

func TestTruthy(t *testing.T) {
	falsy := []Value{NoneValue(), BoolValue(false)}
	truthy := []Value{BoolValue(true), IntValue(0), dec(t, "0.0"), StringValue("")}
	for _, v := range falsy {
		if v.Truthy() {
			t.Errorf("%s should be falsy", v)
		}
	}
	for _, v := range truthy {
		if !v.Truthy() {
			t.Errorf("%q should be truthy", v.String())
		}
	}
}

func TestArithmetic_LargeExponents(t *testing.T) {
	tiny, err := arithmetic("^", dec(t, "0.001"), IntValue(65536), DefaultDivisionScale)
	if err != nil {
		t.Fatalf("0.001 ^ 65536: %v", err)
	}
	if tiny.Dec.Exponent != -196608 || tiny.Dec.Coeff.Cmp(bigOne) != 0 {
		t.Fatalf("0.001 ^ 65536: got coefficient %s exponent %d", tiny.Dec.Coeff.String(), tiny.Dec.Exponent)
	}
	if valuesEqual(tiny, IntValue(0)) {
		t.Fatal("0.001 ^ 65536 must not equal 0")
	}

	big, err := arithmetic("^", IntValue(10), IntValue(65536), DefaultDivisionScale)
	if err != nil {
		t.Fatal(err)
	}
	sq, err := arithmetic("*", big, big, DefaultDivisionScale)
	if err != nil {
		t.Fatal(err)
	}
	sum, err := arithmetic("+", sq, dec(t, "0.5"), DefaultDivisionScale)
	if err != nil {
		t.Fatalf("big * big + 0.5: %v", err)
	}
	if sum.Kind != ValDecimal || sum.Dec.Exponent != -1 {
		t.Fatalf("got %s with exponent %d", sum.Kind, sum.Dec.Exponent)
	}
	gt, err := compare(">", sum, IntValue(0))
	if err != nil || !gt.Bool {
		t.Fatalf("big * big + 0.5 > 0: got %v, %v", gt, err)
	}
	diff, err := arithmetic("-", sum, sq, DefaultDivisionScale)
	if err != nil || diff.String() != "0.5" {
		t.Fatalf("(big * big + 0.5) - big * big: got %v, %v", diff, err)
	}
}

func TestArithmetic_NumberOutOfRange(t *testing.T) {
	huge, err := arithmetic("^", IntValue(2), IntValue(65536), DefaultDivisionScale)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := arithmetic("^", huge, IntValue(65536), DefaultDivisionScale); err != errNumberRange {
		t.Fatalf("(2 ^ 65536) ^ 65536: got %v, want %v", err, errNumberRange)
	}

	edge := DecimalValue(apd.New(1, -2000000000))
	if _, err := arithmetic("*", edge, edge, DefaultDivisionScale); err != errNumberRange {
		t.Fatalf("exponent overflow on *: got %v", err)
	}
	if _, err := arithmetic("^", dec(t, "0.1"), IntValue(65536), DefaultDivisionScale); err != nil {
		t.Fatalf("0.1 ^ 65536 is in range: %v", err)
	}
	if _, err := arithmetic("^", edge, IntValue(2), DefaultDivisionScale); err != errNumberRange {
		t.Fatalf("exponent overflow on ^: got %v", err)
	}
}
