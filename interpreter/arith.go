package interpreter

import (
	"errors"
	"math"

	"github.com/cockroachdb/apd/v3"
)

// DefaultDivisionScale is the number of fractional digits kept by decimal
// division before trailing zeros are stripped.
const DefaultDivisionScale = 100

// maxExponent bounds |n| in x ^ n.
const maxExponent = 65536

// maxPowerBits bounds the coefficient size of a power result, estimated as
// bits(base) * n before any work is done.
const maxPowerBits = 1 << 24

var (
	errOperandsNumbers = errors.New("Operands must be numbers.")
	errOperandNumber   = errors.New("Operand must be a number.")
	errDivisionByZero  = errors.New("Division by zero.")
	errModuloIntegers  = errors.New("Operands of '%' must be integers.")
	errExponentInteger = errors.New("Exponent must be an integer.")
	errExponentLarge   = errors.New("Exponent too large.")
	errNumberRange     = errors.New("Number out of range.")
)

var (
	bigOne = apd.NewBigInt(1)
	bigTwo = apd.NewBigInt(2)
	bigTen = apd.NewBigInt(10)
)

// arithmetic applies one of + - * / % ^ to already evaluated operands.
func arithmetic(op string, l, r Value, scale int32) (Value, error) {
	switch op {
	case "+":
		return numeric(l, r, (*apd.BigInt).Add, addDecimal)
	case "-":
		return numeric(l, r, (*apd.BigInt).Sub, subDecimal)
	case "*":
		if l.Kind == ValString && r.Kind == ValString {
			return StringValue(l.Str + r.Str), nil
		}
		return numeric(l, r, (*apd.BigInt).Mul, mulDecimal)
	case "/":
		return divide(l, r, scale)
	case "%":
		return modulo(l, r)
	case "^":
		return power(l, r, scale)
	}
	return Value{}, errors.New("unknown operator " + op)
}

type bigOp func(z, x, y *apd.BigInt) *apd.BigInt
type decOp func(x, y *apd.Decimal) (*apd.Decimal, error)

func numeric(l, r Value, ints bigOp, decs decOp) (Value, error) {
	if !l.isNumber() || !r.isNumber() {
		return Value{}, errOperandsNumbers
	}
	if l.bothIntegers(r) {
		return IntegerValue(ints(new(apd.BigInt), l.Int, r.Int)), nil
	}
	d, err := decs(toDecimal(l), toDecimal(r))
	if err != nil {
		return Value{}, err
	}
	return DecimalValue(d), nil
}

// Decimal + - * work on the coefficients directly: apd.Context rejects
// any result whose adjusted exponent leaves ±apd.MaxExponent.

func signedCoeff(d *apd.Decimal) *apd.BigInt {
	n := new(apd.BigInt).Set(&d.Coeff)
	if d.Negative {
		n.Neg(n)
	}
	return n
}

func fromSigned(n *apd.BigInt, exp int64) (*apd.Decimal, error) {
	if exp < math.MinInt32 || exp > math.MaxInt32 {
		return nil, errNumberRange
	}
	d := apd.NewWithBigInt(n, 0)
	d.Exponent = int32(exp)
	return d, nil
}

// aligned returns the signed coefficients of x and y scaled to their
// common (smaller) exponent.
func aligned(x, y *apd.Decimal) (*apd.BigInt, *apd.BigInt, int64) {
	a, b := signedCoeff(x), signedCoeff(y)
	ex, ey := int64(x.Exponent), int64(y.Exponent)
	switch {
	case ex > ey:
		a.Mul(a, pow10(ex-ey))
		return a, b, ey
	case ey > ex:
		b.Mul(b, pow10(ey-ex))
	}
	return a, b, ex
}

func addDecimal(x, y *apd.Decimal) (*apd.Decimal, error) {
	a, b, exp := aligned(x, y)
	return fromSigned(a.Add(a, b), exp)
}

func subDecimal(x, y *apd.Decimal) (*apd.Decimal, error) {
	a, b, exp := aligned(x, y)
	return fromSigned(a.Sub(a, b), exp)
}

func mulDecimal(x, y *apd.Decimal) (*apd.Decimal, error) {
	n := new(apd.BigInt).Mul(signedCoeff(x), signedCoeff(y))
	return fromSigned(n, int64(x.Exponent)+int64(y.Exponent))
}

func divide(l, r Value, scale int32) (Value, error) {
	if !l.isNumber() || !r.isNumber() {
		return Value{}, errOperandsNumbers
	}
	if l.bothIntegers(r) {
		if r.Int.Sign() == 0 {
			return Value{}, errDivisionByZero
		}
		return IntegerValue(new(apd.BigInt).Quo(l.Int, r.Int)), nil
	}
	d, err := divideDecimal(toDecimal(l), toDecimal(r), scale)
	if err != nil {
		return Value{}, err
	}
	return DecimalValue(d), nil
}

// divideDecimal computes x / y rounded half-even to scale fractional
// digits, with trailing zeros removed.
func divideDecimal(x, y *apd.Decimal, scale int32) (*apd.Decimal, error) {
	if y.IsZero() {
		return nil, errDivisionByZero
	}
	num := new(apd.BigInt).Set(&x.Coeff)
	den := new(apd.BigInt).Set(&y.Coeff)

	// x/y * 10^scale == num * 10^shift / den
	shift := int64(x.Exponent) - int64(y.Exponent) + int64(scale)
	if shift >= 0 {
		num.Mul(num, pow10(shift))
	} else {
		den.Mul(den, pow10(-shift))
	}

	quo, rem := new(apd.BigInt), new(apd.BigInt)
	quo.QuoRem(num, den, rem)
	half := new(apd.BigInt).Mul(rem, bigTwo).Cmp(den)
	if half > 0 || (half == 0 && new(apd.BigInt).Rem(quo, bigTwo).Sign() != 0) {
		quo.Add(quo, bigOne)
	}

	d := new(apd.Decimal)
	d.Coeff.Set(quo)
	d.Exponent = -scale
	d.Negative = x.Negative != y.Negative && quo.Sign() != 0
	d.Reduce(d)
	return d, nil
}

func pow10(n int64) *apd.BigInt {
	return new(apd.BigInt).Exp(bigTen, apd.NewBigInt(n), nil)
}

func modulo(l, r Value) (Value, error) {
	if !l.bothIntegers(r) {
		return Value{}, errModuloIntegers
	}
	if r.Int.Sign() == 0 {
		return Value{}, errDivisionByZero
	}
	return IntegerValue(new(apd.BigInt).Rem(l.Int, r.Int)), nil
}

func power(base, exp Value, scale int32) (Value, error) {
	if !base.isNumber() {
		return Value{}, errOperandsNumbers
	}
	if exp.Kind != ValInteger {
		if exp.Kind == ValDecimal {
			return Value{}, errExponentInteger
		}
		return Value{}, errOperandsNumbers
	}
	limit := apd.NewBigInt(maxExponent)
	if new(apd.BigInt).Abs(exp.Int).Cmp(limit) > 0 {
		return Value{}, errExponentLarge
	}
	n := exp.Int.Int64()
	if tooLarge(base, n) {
		return Value{}, errNumberRange
	}

	if n >= 0 {
		if base.Kind == ValInteger {
			return IntegerValue(new(apd.BigInt).Exp(base.Int, apd.NewBigInt(n), nil)), nil
		}
		d, err := decimalPow(base.Dec, n)
		if err != nil {
			return Value{}, err
		}
		return DecimalValue(d), nil
	}

	d, err := decimalPow(toDecimal(base), -n)
	if err != nil {
		return Value{}, err
	}
	inv, err := divideDecimal(apd.New(1, 0), d, scale)
	if err != nil {
		return Value{}, err
	}
	return DecimalValue(inv), nil
}

// tooLarge reports whether base ^ n would exceed maxPowerBits or push the
// decimal exponent out of int32 range.
func tooLarge(base Value, n int64) bool {
	if n < 0 {
		n = -n
	}
	var bits int64
	if base.Kind == ValInteger {
		bits = int64(new(apd.BigInt).Abs(base.Int).BitLen())
	} else {
		bits = int64(base.Dec.Coeff.BitLen())
		exp := int64(base.Dec.Exponent) * n
		if exp < math.MinInt32 || exp > math.MaxInt32 {
			return true
		}
	}
	return bits*n > maxPowerBits
}

// decimalPow raises x to a non-negative integer power by repeated squaring.
func decimalPow(x *apd.Decimal, n int64) (*apd.Decimal, error) {
	result := apd.New(1, 0)
	sq := new(apd.Decimal).Set(x)
	for n > 0 {
		if n&1 == 1 {
			next, err := mulDecimal(result, sq)
			if err != nil {
				return nil, err
			}
			result = next
		}
		n >>= 1
		if n > 0 {
			next, err := mulDecimal(sq, sq)
			if err != nil {
				return nil, err
			}
			sq = next
		}
	}
	return result, nil
}

func negate(v Value) (Value, error) {
	switch v.Kind {
	case ValInteger:
		return IntegerValue(new(apd.BigInt).Neg(v.Int)), nil
	case ValDecimal:
		return DecimalValue(new(apd.Decimal).Neg(v.Dec)), nil
	default:
		return Value{}, errOperandNumber
	}
}

// compare orders two numbers exactly; the integer side of a mixed pair is
// widened to a decimal.
func compare(op string, l, r Value) (Value, error) {
	if !l.isNumber() || !r.isNumber() {
		return Value{}, errOperandsNumbers
	}
	var c int
	if l.bothIntegers(r) {
		c = l.Int.Cmp(r.Int)
	} else {
		c = toDecimal(l).Cmp(toDecimal(r))
	}
	switch op {
	case "<":
		return BoolValue(c < 0), nil
	case "<=":
		return BoolValue(c <= 0), nil
	case ">":
		return BoolValue(c > 0), nil
	default:
		return BoolValue(c >= 0), nil
	}
}
