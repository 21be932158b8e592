package expressions

import (
	"strconv"
	"strings"
)

// SetKind distinguishes the three SET symbol types of conditional assembly.
type SetKind int

const (
	SetA SetKind = iota // arithmetic, signed 32-bit
	SetB                // boolean
	SetC                // character
)

func (k SetKind) String() string {
	switch k {
	case SetA:
		return "A"
	case SetB:
		return "B"
	case SetC:
		return "C"
	}
	return "?"
}

// Value is a tagged union over the three SET value types.
type Value struct {
	Kind SetKind
	A    int32
	B    bool
	C    string
}

func AVal(v int32) Value  { return Value{Kind: SetA, A: v} }
func BVal(v bool) Value   { return Value{Kind: SetB, B: v} }
func CVal(v string) Value { return Value{Kind: SetC, C: v} }

// Number converts the value to its arithmetic interpretation. Character
// values convert like HLASM does: a string of decimal digits (optionally
// signed) yields its numeric value, anything else yields zero with ok false.
func (v Value) Number() (int32, bool) {
	switch v.Kind {
	case SetA:
		return v.A, true
	case SetB:
		if v.B {
			return 1, true
		}
		return 0, true
	case SetC:
		s := strings.TrimSpace(v.C)
		if s == "" {
			return 0, false
		}
		n, err := strconv.ParseInt(s, 10, 32)
		if err != nil {
			return 0, false
		}
		return int32(n), true
	}
	return 0, false
}

// Bool converts the value to its boolean interpretation (nonzero is true).
func (v Value) Bool() bool {
	switch v.Kind {
	case SetB:
		return v.B
	default:
		n, _ := v.Number()
		return n != 0
	}
}

// Char converts the value to its character interpretation.
func (v Value) Char() string {
	switch v.Kind {
	case SetA:
		return strconv.FormatInt(int64(v.A), 10)
	case SetB:
		if v.B {
			return "1"
		}
		return "0"
	case SetC:
		return v.C
	}
	return ""
}
