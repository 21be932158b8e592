package asmctx

import (
	"github.com/hlasmtools/hlasm-ls/diagnostics"
	"github.com/hlasmtools/hlasm-ls/ids"
)

// Occurrence is one appearance of a named symbol in a file.
type Occurrence struct {
	Name ids.Id
	Rng  diagnostics.TextRange
	File string
}

// SymbolInfo is a resolved cross-reference entry: the defining occurrence
// plus rendered value lines for hover, and every use site.
type SymbolInfo struct {
	Definition  Occurrence
	Value       []string
	Occurrences []Occurrence
}

// LSPContext accumulates cross-reference data for the editor front end.
// Ordinary-symbol definitions and occurrences are deferred during the run
// and resolved by the manager after the drive loop.
type LSPContext struct {
	DeferredOrdDefs []Occurrence
	DeferredOrdOccs []Occurrence

	OrdSymbols map[ids.Id]*SymbolInfo

	MacroDefs     []Occurrence
	SeqSymbolDefs []Occurrence
	SeqSymbolRefs []Occurrence
}

func newLSPContext() *LSPContext {
	return &LSPContext{OrdSymbols: make(map[ids.Id]*SymbolInfo)}
}

func (l *LSPContext) DeferOrdinaryDefinition(occ Occurrence) {
	l.DeferredOrdDefs = append(l.DeferredOrdDefs, occ)
}

func (l *LSPContext) DeferOrdinaryOccurrence(occ Occurrence) {
	l.DeferredOrdOccs = append(l.DeferredOrdOccs, occ)
}
