package datadef

import (
	"strings"

	"github.com/hlasmtools/hlasm-ls/diagnostics"
)

// Check answers whether the operand is well formed: modifier values within
// the registry bounds and, when checkNominal is set, a valid nominal value
// for the type. Failures are appended to diags; processing continues.
func (t *Type) Check(op *Operand, diags *diagnostics.Sink, checkNominal bool) bool {
	ok := t.checkModifiers(op, diags)

	if checkNominal && op.Nominal.Present {
		if (op.Nominal.Kind == NominalString) != (t.Nominal == NominalString) {
			diags.Add(diagnostics.Errors.D010(t.TypeStr, op.Nominal.Rng))
			return false
		}
		if !t.check(t, op, diags) {
			ok = false
		}
	}
	return ok
}

func (t *Type) checkModifiers(op *Operand, diags *diagnostics.Sink) bool {
	ok := true

	if op.Length.Present {
		if op.BitLength {
			// bit-length modifier is rejected where not applicable, except
			// that type B always accepts it
			if !t.BitLengthBound.Applicable && t.TypeChar != 'B' {
				diags.Add(diagnostics.Errors.D022("bit length", t.TypeStr, op.Length.Rng))
				ok = false
			} else if !inBound(op.Length.Value, t.BitLengthBound) {
				diags.Add(diagnostics.Errors.D021("bit length", t.TypeStr, t.BitLengthBound.Min, t.BitLengthBound.Max, op.Length.Rng))
				ok = false
			}
		} else if !inBound(op.Length.Value, t.LengthBound) {
			diags.Add(diagnostics.Errors.D021("length", t.TypeStr, t.LengthBound.Min, t.LengthBound.Max, op.Length.Rng))
			ok = false
		}
	}

	if op.Scale.Present {
		if !t.ScaleBound.Applicable {
			diags.Add(diagnostics.Errors.D022("scale", t.TypeStr, op.Scale.Rng))
			ok = false
		} else if !inBound(op.Scale.Value, t.ScaleBound) {
			diags.Add(diagnostics.Errors.D021("scale", t.TypeStr, t.ScaleBound.Min, t.ScaleBound.Max, op.Scale.Rng))
			ok = false
		}
	}

	if op.Exponent.Present {
		if !t.ExponentBound.Applicable {
			diags.Add(diagnostics.Errors.D022("exponent", t.TypeStr, op.Exponent.Rng))
			ok = false
		} else if !inBound(op.Exponent.Value, t.ExponentBound) {
			diags.Add(diagnostics.Errors.D021("exponent", t.TypeStr, t.ExponentBound.Min, t.ExponentBound.Max, op.Exponent.Rng))
			ok = false
		}
	}

	return ok
}

func inBound(v int64, spec ModifierSpec) bool {
	return v >= spec.Min && v <= spec.Max
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

func isSymbolStart(c byte) bool {
	return c >= 'A' && c <= 'Z' || c >= 'a' && c <= 'z' || c == '@' || c == '#' || c == '$' || c == '_'
}

// numberSpec parameterizes the shared numeric-list validator: which sign
// characters open an element and whether decimal point and exponent are
// part of the grammar.
type numberSpec struct {
	signs    string
	exponent bool
	dot      bool
}

var (
	fixedPointSpec = numberSpec{signs: "U+-", exponent: true, dot: true}
	decimalSpec    = numberSpec{signs: "+-"}
	floatSpec      = numberSpec{signs: "+-", exponent: true, dot: true}
)

func scanNumber(s string, i *int, spec numberSpec) bool {
	if *i < len(s) && strings.IndexByte(spec.signs, s[*i]) >= 0 {
		*i++
	}
	digits := 0
	seenDot := false
	for *i < len(s) {
		c := s[*i]
		switch {
		case isDigit(c):
			digits++
			*i++
		case c == '.' && spec.dot && !seenDot:
			seenDot = true
			*i++
		default:
			return digits > 0
		}
	}
	return digits > 0
}

func scanExponent(s string, i *int) bool {
	*i++ // consume the E
	if *i < len(s) && (s[*i] == '+' || s[*i] == '-') {
		*i++
	}
	digits := 0
	for *i < len(s) && isDigit(s[*i]) {
		digits++
		*i++
	}
	return digits > 0
}

// checkNumberList validates a comma-separated list of numbers. Empty
// strings, empty elements and trailing commas are errors.
func checkNumberList(nom string, spec numberSpec) bool {
	if nom == "" {
		return false
	}
	i := 0
	for i < len(nom) {
		if !scanNumber(nom, &i, spec) {
			return false
		}
		if i >= len(nom) {
			break
		}
		if spec.exponent && nom[i] == 'E' {
			if !scanExponent(nom, &i) {
				return false
			}
			if i >= len(nom) {
				break
			}
		}
		if nom[i] != ',' {
			return false
		}
		i++
	}
	return nom[len(nom)-1] != ','
}

func checkAny(*Type, *Operand, *diagnostics.Sink) bool { return true }

func checkBitString(t *Type, op *Operand, diags *diagnostics.Sink) bool {
	nom := op.Nominal.String
	if nom == "" {
		diags.Add(diagnostics.Errors.D010(t.TypeStr, op.Nominal.Rng))
		return false
	}
	for _, part := range strings.Split(nom, ",") {
		if part == "" {
			diags.Add(diagnostics.Errors.D010(t.TypeStr, op.Nominal.Rng))
			return false
		}
		for i := 0; i < len(part); i++ {
			if part[i] != '0' && part[i] != '1' {
				diags.Add(diagnostics.Errors.D010(t.TypeStr, op.Nominal.Rng))
				return false
			}
		}
	}
	return true
}

func checkHex(t *Type, op *Operand, diags *diagnostics.Sink) bool {
	nom := op.Nominal.String
	if nom == "" {
		diags.Add(diagnostics.Errors.D010(t.TypeStr, op.Nominal.Rng))
		return false
	}
	for _, part := range strings.Split(nom, ",") {
		if part == "" {
			diags.Add(diagnostics.Errors.D010(t.TypeStr, op.Nominal.Rng))
			return false
		}
		for i := 0; i < len(part); i++ {
			c := part[i]
			if !isDigit(c) && !(c >= 'A' && c <= 'F') && !(c >= 'a' && c <= 'f') {
				diags.Add(diagnostics.Errors.D010(t.TypeStr, op.Nominal.Rng))
				return false
			}
		}
	}
	return true
}

const (
	shiftOut = 0x0E
	shiftIn  = 0x0F
)

func checkGraphic(t *Type, op *Operand, diags *diagnostics.Sink) bool {
	nom := op.Nominal.String
	if len(nom) < 2 || nom[0] != shiftOut || nom[len(nom)-1] != shiftIn || (len(nom)-2)%2 != 0 {
		diags.Add(diagnostics.Errors.D010(t.TypeStr, op.Nominal.Rng))
		return false
	}
	return true
}

func checkFixedPoint(t *Type, op *Operand, diags *diagnostics.Sink) bool {
	// TODO detect truncation overflow of the assembled value
	if !checkNumberList(op.Nominal.String, fixedPointSpec) {
		diags.Add(diagnostics.Errors.D010(t.TypeStr, op.Nominal.Rng))
		return false
	}
	return true
}

func checkDecimal(t *Type, op *Operand, diags *diagnostics.Sink) bool {
	// TODO detect truncation overflow of the assembled value
	if !checkNumberList(op.Nominal.String, decimalSpec) {
		diags.Add(diagnostics.Errors.D010(t.TypeStr, op.Nominal.Rng))
		return false
	}
	return true
}

func checkFloat(t *Type, op *Operand, diags *diagnostics.Sink) bool {
	if !checkNumberList(op.Nominal.String, floatSpec) {
		diags.Add(diagnostics.Errors.D010(t.TypeStr, op.Nominal.Rng))
		return false
	}
	return true
}

func checkExprList(t *Type, op *Operand, diags *diagnostics.Sink) bool {
	if len(op.Nominal.Exprs) == 0 {
		diags.Add(diagnostics.Errors.D010(t.TypeStr, op.Nominal.Rng))
		return false
	}
	for _, e := range op.Nominal.Exprs {
		if strings.TrimSpace(e.Text) == "" {
			diags.Add(diagnostics.Errors.D010(t.TypeStr, e.Rng))
			return false
		}
	}
	return true
}

func checkSingleSymbol(t *Type, op *Operand, diags *diagnostics.Sink) bool {
	if !checkExprList(t, op, diags) {
		return false
	}
	for _, e := range op.Nominal.Exprs {
		if !isSymbolName(strings.TrimSpace(e.Text)) {
			diags.Add(diagnostics.Errors.D030(t.TypeStr, e.Rng))
			return false
		}
	}
	return true
}

func isSymbolName(s string) bool {
	if s == "" || !isSymbolStart(s[0]) {
		return false
	}
	for i := 1; i < len(s); i++ {
		if !isSymbolStart(s[i]) && !isDigit(s[i]) {
			return false
		}
	}
	return true
}
