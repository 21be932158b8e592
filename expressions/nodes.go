package expressions

import (
	"github.com/hlasmtools/hlasm-ls/diagnostics"
	"github.com/hlasmtools/hlasm-ls/ids"
)

// Node is one node of a CA expression tree. Trees are produced by the
// parser front end and evaluated by an Evaluator.
type Node interface {
	Range() diagnostics.TextRange
	evaluate(e *Evaluator) Value
}

// Number is an integer literal.
type Number struct {
	Value int32
	Rng   diagnostics.TextRange
}

func (n *Number) Range() diagnostics.TextRange { return n.Rng }
func (n *Number) evaluate(*Evaluator) Value    { return AVal(n.Value) }

// Str is a character literal ('...').
type Str struct {
	Value string
	Rng   diagnostics.TextRange
}

func (n *Str) Range() diagnostics.TextRange { return n.Rng }
func (n *Str) evaluate(*Evaluator) Value    { return CVal(n.Value) }

// VarRef reads a variable symbol, optionally subscripted.
type VarRef struct {
	Name      ids.Id
	Subscript Node // nil for scalar access
	Rng       diagnostics.TextRange
}

func (n *VarRef) Range() diagnostics.TextRange { return n.Rng }

func (n *VarRef) evaluate(e *Evaluator) Value {
	idx := 0
	if n.Subscript != nil {
		idx = int(e.Number(n.Subscript))
	}
	v, ok := e.Env.VariableValue(n.Name, idx)
	if !ok {
		e.Diags.Add(diagnostics.Errors.E012("undefined variable symbol", n.Rng))
		return AVal(0)
	}
	return v
}

// SymRef names an ordinary symbol inside a CA expression. Its value is the
// symbol's absolute value when known.
type SymRef struct {
	Name ids.Id
	Rng  diagnostics.TextRange
}

func (n *SymRef) Range() diagnostics.TextRange { return n.Rng }

func (n *SymRef) evaluate(e *Evaluator) Value {
	v, ok := e.Env.SymbolValue(n.Name)
	if !ok {
		e.Diags.Add(diagnostics.Errors.E012("undefined ordinary symbol", n.Rng))
		return AVal(0)
	}
	return AVal(v)
}

// Attribute is a data attribute reference such as L'SYM or T'SYM.
type Attribute struct {
	Attr   byte // L, I, S, T, K, N
	Symbol ids.Id
	Rng    diagnostics.TextRange
}

func (n *Attribute) Range() diagnostics.TextRange { return n.Rng }

func (n *Attribute) evaluate(e *Evaluator) Value {
	v, ok := e.Env.SymbolAttribute(n.Attr, n.Symbol)
	if !ok {
		e.Diags.Add(diagnostics.Errors.E012("undefined symbol attribute", n.Rng))
		return AVal(0)
	}
	if n.Attr == 'T' {
		return CVal(string(rune(v)))
	}
	return AVal(v)
}

type UnaryOp int

const (
	OpNeg UnaryOp = iota
	OpPlus
	OpNot
)

type Unary struct {
	Op      UnaryOp
	Operand Node
	Rng     diagnostics.TextRange
}

func (n *Unary) Range() diagnostics.TextRange { return n.Rng }

func (n *Unary) evaluate(e *Evaluator) Value {
	switch n.Op {
	case OpNeg:
		return AVal(-e.Number(n.Operand))
	case OpPlus:
		return AVal(e.Number(n.Operand))
	case OpNot:
		return BVal(!e.Bool(n.Operand))
	}
	panic("expressions: unknown unary operator")
}

type BinaryOp int

const (
	OpAdd BinaryOp = iota
	OpSub
	OpMul
	OpDiv
	OpEQ
	OpNE
	OpLT
	OpGT
	OpLE
	OpGE
	OpAnd
	OpOr
	OpConcat
)

type Binary struct {
	Op   BinaryOp
	L, R Node
	Rng  diagnostics.TextRange
}

func (n *Binary) Range() diagnostics.TextRange { return n.Rng }

func (n *Binary) evaluate(e *Evaluator) Value {
	switch n.Op {
	case OpAdd:
		return AVal(e.Number(n.L) + e.Number(n.R))
	case OpSub:
		return AVal(e.Number(n.L) - e.Number(n.R))
	case OpMul:
		return AVal(e.Number(n.L) * e.Number(n.R))
	case OpDiv:
		r := e.Number(n.R)
		if r == 0 {
			// division by zero yields zero in conditional assembly
			return AVal(0)
		}
		return AVal(e.Number(n.L) / r)
	case OpAnd:
		return BVal(e.Bool(n.L) && e.Bool(n.R))
	case OpOr:
		return BVal(e.Bool(n.L) || e.Bool(n.R))
	case OpConcat:
		return CVal(e.Evaluate(n.L).Char() + e.Evaluate(n.R).Char())
	}

	l, r := e.Evaluate(n.L), e.Evaluate(n.R)
	var cmp int
	if l.Kind == SetC && r.Kind == SetC {
		switch {
		case l.C < r.C:
			cmp = -1
		case l.C > r.C:
			cmp = 1
		}
	} else {
		ln, _ := l.Number()
		rn, _ := r.Number()
		switch {
		case ln < rn:
			cmp = -1
		case ln > rn:
			cmp = 1
		}
	}

	switch n.Op {
	case OpEQ:
		return BVal(cmp == 0)
	case OpNE:
		return BVal(cmp != 0)
	case OpLT:
		return BVal(cmp < 0)
	case OpGT:
		return BVal(cmp > 0)
	case OpLE:
		return BVal(cmp <= 0)
	case OpGE:
		return BVal(cmp >= 0)
	}
	panic("expressions: unknown binary operator")
}
