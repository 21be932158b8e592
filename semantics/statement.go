package semantics

import (
	"github.com/hlasmtools/hlasm-ls/diagnostics"
	"github.com/hlasmtools/hlasm-ls/expressions"
	"github.com/hlasmtools/hlasm-ls/ids"
)

// LabelKind classifies the name field of a statement.
type LabelKind int

const (
	LabelEmpty LabelKind = iota
	LabelOrdinary
	LabelVariable
	LabelSequence
)

// VarRef is a variable symbol reference, optionally subscripted.
type VarRef struct {
	Name      ids.Id
	Subscript []expressions.Node
	Rng       diagnostics.TextRange
}

// SeqSym references a sequence symbol (.LABEL).
type SeqSym struct {
	Name ids.Id
	Rng  diagnostics.TextRange
}

// Label is the name field of a statement.
type Label struct {
	Kind LabelKind
	Name ids.Id  // ordinary label name
	Var  *VarRef // variable label, Kind == LabelVariable
	Seq  SeqSym  // sequence label, Kind == LabelSequence
	Rng  diagnostics.TextRange
}

// OperandKind classifies one operand of a statement. CA operand kinds
// mirror the conditional-assembly grammar; text operands carry the raw
// field for instructions whose operands the engine does not interpret.
type OperandKind int

const (
	OperandEmpty OperandKind = iota
	OperandCAExpr
	OperandCAVar
	OperandCASeq
	OperandCABranch
	OperandText
)

type Operand struct {
	Kind OperandKind
	Expr expressions.Node // CAExpr, and the condition of CABranch
	Var  *VarRef          // CAVar
	Seq  SeqSym           // CASeq and the target of CABranch
	Text string
	Rng  diagnostics.TextRange
}

// Statement is one parsed logical line. The raw operand field is retained
// so deferred fields can be re-parsed after macro parameter substitution.
type Statement struct {
	Label        Label
	Instruction  ids.Id
	InstrText    string
	InstrRng     diagnostics.TextRange
	Operands     []Operand
	OperandField string
	OperandRng   diagnostics.TextRange
	Rng          diagnostics.TextRange
}

// Clone copies the statement for long-lived capture (macro and COPY
// bodies). Operand slices are copied; expression trees are immutable and
// shared.
func (s *Statement) Clone() *Statement {
	c := *s
	c.Operands = append([]Operand(nil), s.Operands...)
	return &c
}
