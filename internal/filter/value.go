package filter

import (
	"math"
	"strconv"
	"strings"
)

// Value is a sealed interface over the scalar values a filter can compare:
// String, Number, and Bool. Values come from two places: literals written in
// an expression and fields read from a HAR entry.
type Value interface {
	value() // Sealed
	String() string
}

// String is a text value.
type String string

func (String) value() {}

func (s String) String() string { return string(s) }

// Number is a numeric value. All numbers are float64, including HTTP
// status codes and byte sizes.
type Number float64

func (Number) value() {}

// String formats n without an exponent or trailing zeros, so 200 reads
// "200" and 1.5 reads "1.5".
func (n Number) String() string {
	return strconv.FormatFloat(float64(n), 'f', -1, 64)
}

// Bool is a boolean value.
type Bool bool

func (Bool) value() {}

func (b Bool) String() string { return strconv.FormatBool(bool(b)) }

// epsilon is the difference between 1.0 and the next representable float64.
// Numbers closer than this compare equal.
const epsilon = 2.220446049250313e-16

// ParseValue interprets a literal from an expression.
//
// Resolution order:
//  1. "..." or '...' becomes a String with the quotes removed
//  2. exactly true or false becomes a Bool
//  3. anything that parses as a float becomes a Number
//  4. everything else is an unquoted String
//
// The input is trimmed first.
func ParseValue(s string) Value {
	s = strings.TrimSpace(s)

	if len(s) >= 2 {
		if (s[0] == '"' && s[len(s)-1] == '"') || (s[0] == '\'' && s[len(s)-1] == '\'') {
			return String(s[1 : len(s)-1])
		}
	}

	switch s {
	case "true":
		return Bool(true)
	case "false":
		return Bool(false)
	}

	if n, ok := parseNumber(s); ok {
		return Number(n)
	}

	return String(s)
}

// Equal reports whether a and b are equal.
//
// Same-variant values compare directly (numbers within epsilon). A String
// compared with a Number is parsed as a number; if that fails they differ.
// All other cross-variant pairs differ.
func Equal(a, b Value) bool {
	switch a := a.(type) {
	case String:
		switch b := b.(type) {
		case String:
			return a == b
		case Number:
			n, ok := parseNumber(string(a))
			return ok && closeEnough(n, float64(b))
		}
	case Number:
		switch b := b.(type) {
		case Number:
			return closeEnough(float64(a), float64(b))
		case String:
			n, ok := parseNumber(string(b))
			return ok && closeEnough(float64(a), n)
		}
	case Bool:
		if b, ok := b.(Bool); ok {
			return a == b
		}
	}
	return false
}

// Greater reports whether a > b. Strings order lexicographically by byte,
// numbers numerically, and a String compared with a Number is parsed as a
// number first. Bools and mismatched variants are never ordered.
func Greater(a, b Value) bool {
	x, y, kind := orderable(a, b)
	switch kind {
	case orderString:
		return x.s > y.s
	case orderNumber:
		return x.n > y.n
	}
	return false
}

// Less reports whether a < b, with the same rules as Greater.
func Less(a, b Value) bool {
	x, y, kind := orderable(a, b)
	switch kind {
	case orderString:
		return x.s < y.s
	case orderNumber:
		return x.n < y.n
	}
	return false
}

// GreaterOrEqual reports Equal(a, b) || Greater(a, b).
func GreaterOrEqual(a, b Value) bool {
	return Equal(a, b) || Greater(a, b)
}

// LessOrEqual reports Equal(a, b) || Less(a, b).
func LessOrEqual(a, b Value) bool {
	return Equal(a, b) || Less(a, b)
}

// Truthy reports the boolean interpretation of v: a Bool is itself, a
// Number is true when non-zero, and a String is true when non-empty.
func Truthy(v Value) bool {
	switch v := v.(type) {
	case Bool:
		return bool(v)
	case Number:
		return v != 0
	case String:
		return v != ""
	}
	return false
}

type orderKind int

const (
	orderNone orderKind = iota
	orderString
	orderNumber
)

type operand struct {
	s string
	n float64
}

// orderable resolves a and b to a common ordered domain.
func orderable(a, b Value) (operand, operand, orderKind) {
	switch a := a.(type) {
	case String:
		switch b := b.(type) {
		case String:
			return operand{s: string(a)}, operand{s: string(b)}, orderString
		case Number:
			if n, ok := parseNumber(string(a)); ok {
				return operand{n: n}, operand{n: float64(b)}, orderNumber
			}
		}
	case Number:
		switch b := b.(type) {
		case Number:
			return operand{n: float64(a)}, operand{n: float64(b)}, orderNumber
		case String:
			if n, ok := parseNumber(string(b)); ok {
				return operand{n: float64(a)}, operand{n: n}, orderNumber
			}
		}
	}
	return operand{}, operand{}, orderNone
}

// parseNumber accepts decimal float syntax only. Digit separators and hex
// literals stay strings.
func parseNumber(s string) (float64, bool) {
	if strings.ContainsRune(s, '_') {
		return 0, false
	}
	digits := strings.TrimLeft(s, "+-")
	if len(digits) >= 2 && digits[0] == '0' && (digits[1] == 'x' || digits[1] == 'X') {
		return 0, false
	}
	n, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}

func closeEnough(a, b float64) bool {
	return math.Abs(a-b) < epsilon
}
