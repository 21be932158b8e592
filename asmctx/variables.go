package asmctx

import (
	"github.com/hlasmtools/hlasm-ls/expressions"
	"github.com/hlasmtools/hlasm-ls/ids"
)

// SetSymbol is the value store of one SET variable: scalar or a sparse
// 1-based indexed array of one SET kind.
type SetSymbol struct {
	Kind   expressions.SetKind
	Scalar bool
	Values map[int]expressions.Value
}

func NewSetSymbol(kind expressions.SetKind, scalar bool) *SetSymbol {
	return &SetSymbol{Kind: kind, Scalar: scalar, Values: make(map[int]expressions.Value)}
}

// Get reads the value at idx (0 for scalar access). Unset entries read as
// the zero value of the symbol's kind.
func (s *SetSymbol) Get(idx int) expressions.Value {
	if v, ok := s.Values[idx]; ok {
		return v
	}
	switch s.Kind {
	case expressions.SetA:
		return expressions.AVal(0)
	case expressions.SetB:
		return expressions.BVal(false)
	default:
		return expressions.CVal("")
	}
}

func (s *SetSymbol) Set(idx int, v expressions.Value) {
	s.Values[idx] = v
}

// MacroParam is the bound value of one macro parameter in an invocation.
type MacroParam struct {
	Value string
}

// Variable is a variable symbol: exactly one of Set and Param is non-nil.
type Variable struct {
	Name  ids.Id
	Set   *SetSymbol
	Param *MacroParam
}

// CodeScope is one entry of the scope stack: the opencode scope at the
// bottom, one scope per active macro invocation above it. Each scope has
// its own variables and its own branch counter.
type CodeScope struct {
	Variables     map[ids.Id]*Variable
	ThisMacro     *MacroInvocation
	BranchCounter int32
}

func newCodeScope(inv *MacroInvocation, branchCounter int32) *CodeScope {
	return &CodeScope{
		Variables:     make(map[ids.Id]*Variable),
		ThisMacro:     inv,
		BranchCounter: branchCounter,
	}
}
