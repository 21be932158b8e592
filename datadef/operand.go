package datadef

import "github.com/hlasmtools/hlasm-ls/diagnostics"

// NominalKind is the syntactic kind of a nominal value.
type NominalKind int

const (
	NominalString NominalKind = iota
	NominalExpressions
)

// Modifier is one optional numeric modifier of a data-definition operand.
type Modifier struct {
	Present bool
	Value   int64
	Rng     diagnostics.TextRange
}

// ExprElem is one element of an expression-list nominal value. The engine
// keeps the raw text; address range checking happens downstream where
// symbol values are known.
type ExprElem struct {
	Text string
	Rng  diagnostics.TextRange
}

// NominalValue is the literal content of a DC/DS operand.
type NominalValue struct {
	Present bool
	Kind    NominalKind
	String  string
	Exprs   []ExprElem
	Rng     diagnostics.TextRange
}

// Operand is one parsed data-definition operand.
type Operand struct {
	TypeChar  byte
	Extension byte
	TypeRng   diagnostics.TextRange

	Dup         Modifier
	ProgramType Modifier
	Length      Modifier
	BitLength   bool // Length is a bit-length modifier (L.n)
	Scale       Modifier
	Exponent    Modifier

	Nominal NominalValue
	Rng     diagnostics.TextRange
}

// TypeString renders the operand's type code including its extension.
func (op *Operand) TypeString() string {
	if op.Extension != 0 {
		return string(rune(op.TypeChar)) + string(rune(op.Extension))
	}
	return string(rune(op.TypeChar))
}
