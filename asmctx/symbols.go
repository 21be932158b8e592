package asmctx

import (
	"github.com/hlasmtools/hlasm-ls/diagnostics"
	"github.com/hlasmtools/hlasm-ls/ids"
)

// SymbolValueKind distinguishes absolute from relocatable symbol values.
type SymbolValueKind int

const (
	SymbolAbsolute SymbolValueKind = iota
	SymbolRelocatable
)

// OrdinarySymbol is an assembly label with its value and data attributes
// (L, I, S, T, ...).
type OrdinarySymbol struct {
	Name       ids.Id
	Kind       SymbolValueKind
	Value      int32 // absolute value, or offset for relocatable symbols
	Section    ids.Id
	Attributes map[byte]int32
	Location   diagnostics.Location
}

func (s *OrdinarySymbol) Attribute(attr byte) (int32, bool) {
	v, ok := s.Attributes[attr]
	return v, ok
}

// AddOrdinarySymbol defines a symbol; the first definition wins.
func (c *Context) AddOrdinarySymbol(sym *OrdinarySymbol) bool {
	if _, ok := c.OrdinarySymbols[sym.Name]; ok {
		return false
	}
	c.OrdinarySymbols[sym.Name] = sym
	return true
}

func (c *Context) GetOrdinarySymbol(name ids.Id) *OrdinarySymbol {
	return c.OrdinarySymbols[name]
}
