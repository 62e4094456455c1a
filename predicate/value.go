package predicate

import (
	"log/slog"
	"math"
	"strconv"
	"strings"
)

// Kind is one of the four numeric representations an attribute may have.
type Kind uint8

const (
	Int    Kind = iota // 32-bit signed integer
	Long               // 64-bit signed integer
	Float              // 32-bit float
	Double             // 64-bit float
)

// String returns the kind name as shown to users.
func (k Kind) String() string {
	switch k {
	case Int:
		return "Integer"
	case Long:
		return "Long"
	case Float:
		return "Float"
	case Double:
		return "Double"
	default:
		return "Kind(" + strconv.Itoa(int(k)) + ")"
	}
}

// Integral reports whether k holds whole numbers.
func (k Kind) Integral() bool { return k == Int || k == Long }

// Value is a number tagged with its [Kind]. Integral values are held exactly
// in i, floating values in f.
type Value struct {
	f    float64
	i    int64
	kind Kind
}

// IntValue returns an [Int] value.
func IntValue(v int32) Value { return Value{kind: Int, i: int64(v)} }

// LongValue returns a [Long] value.
func LongValue(v int64) Value { return Value{kind: Long, i: v} }

// FloatValue returns a [Float] value.
func FloatValue(v float32) Value { return Value{kind: Float, f: float64(v)} }

// DoubleValue returns a [Double] value.
func DoubleValue(v float64) Value { return Value{kind: Double, f: v} }

// Parse converts raw to a value of kind k. Surrounding whitespace is
// ignored. Malformed or out-of-range input fails with [ErrIncorrectValue].
func (k Kind) Parse(raw string) (Value, error) {
	s := strings.TrimSpace(raw)

	fail := func(err error) (Value, error) {
		return Value{}, ErrIncorrectValue.Wrap(err).With(
			slog.String("value", raw),
			slog.String("kind", k.String()),
		)
	}

	switch k {
	case Int:
		v, err := strconv.ParseInt(s, 10, 32)
		if err != nil {
			return fail(err)
		}

		return IntValue(int32(v)), nil

	case Long:
		v, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return fail(err)
		}

		return LongValue(v), nil

	case Float:
		v, err := strconv.ParseFloat(s, 32)
		if err != nil {
			return fail(err)
		}

		return FloatValue(float32(v)), nil

	case Double:
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return fail(err)
		}

		return DoubleValue(v), nil

	default:
		return Value{}, ErrIncorrectValue.Detail("unknown kind " + k.String())
	}
}

// Kind returns the kind of v.
func (v Value) Kind() Kind { return v.kind }

// Float64 returns v converted to float64.
func (v Value) Float64() float64 {
	if v.kind.Integral() {
		return float64(v.i)
	}

	return v.f
}

// Int64 returns v converted to int64, truncating any fraction.
func (v Value) Int64() int64 {
	if v.kind.Integral() {
		return v.i
	}

	return int64(v.f)
}

// String formats v so that parsing it with v.Kind() yields an equal value.
func (v Value) String() string {
	switch v.kind {
	case Int, Long:
		return strconv.FormatInt(v.i, 10)
	case Float:
		return strconv.FormatFloat(v.f, 'g', -1, 32)
	default:
		return strconv.FormatFloat(v.f, 'g', -1, 64)
	}
}

// Compare returns the sign of v - w: -1, 0 or +1. Two integral values are
// compared exactly. Otherwise both are compared as float64. The second
// result is false if either operand is NaN.
func (v Value) Compare(w Value) (int, bool) {
	if v.kind.Integral() && w.kind.Integral() {
		switch {
		case v.i < w.i:
			return -1, true
		case v.i > w.i:
			return +1, true
		default:
			return 0, true
		}
	}

	a, b := v.Float64(), w.Float64()
	if math.IsNaN(a) || math.IsNaN(b) {
		return 0, false
	}

	switch {
	case a < b:
		return -1, true
	case a > b:
		return +1, true
	default:
		return 0, true
	}
}
