package processing

import (
	"sync/atomic"

	"github.com/hlasmtools/hlasm-ls/asmctx"
	"github.com/hlasmtools/hlasm-ls/diagnostics"
	"github.com/hlasmtools/hlasm-ls/ids"
	"github.com/hlasmtools/hlasm-ls/library"
	"github.com/hlasmtools/hlasm-ls/parser"
	"github.com/hlasmtools/hlasm-ls/util"
)

// Manager couples statement providers and processors: it drives the main
// loop, routes each fetched statement to the top processor and implements
// the capability interfaces processors reach back into (branching, state
// listening, attribute lookahead).
type Manager struct {
	ctx    *asmctx.Context
	diags  *diagnostics.Sink
	parser *parser.Parser
	libs   library.Provider

	opencode *OpencodeProvider
	copyProv *CopyProvider
	provs    []Provider
	procs    []Processor
}

func NewManager(ctx *asmctx.Context, diags *diagnostics.Sink, p *parser.Parser, libs library.Provider, source string) *Manager {
	m := &Manager{
		ctx:    ctx,
		diags:  diags,
		parser: p,
		libs:   libs,
	}
	m.opencode = NewOpencodeProvider(ctx, p, source)
	m.copyProv = NewCopyProvider(ctx)
	m.provs = []Provider{
		NewMacroProvider(ctx, p),
		m.copyProv,
		m.opencode,
	}
	m.procs = []Processor{newOrdinaryProcessor(ctx, diags, p, libs, m, m, m)}
	return m
}

// StartProcessing runs the drive loop until every processor finished or
// cancel is raised. The deferred cross-reference flush is skipped on
// cancellation.
func (m *Manager) StartProcessing(cancel *atomic.Bool) {
	for len(m.procs) > 0 {
		if cancel != nil && cancel.Load() {
			return
		}

		proc := m.procs[len(m.procs)-1]
		prov := m.findProvider()

		if (prov.Finished() && proc.TerminalCondition(prov.Kind())) || proc.Finished() {
			m.finishProcessor()
			continue
		}

		prov.ProcessNext(proc)
	}
	m.addOrdSymDefs()
}

// findProvider selects the highest-priority unfinished provider.
func (m *Manager) findProvider() Provider {
	for _, prov := range m.provs {
		if !prov.Finished() {
			return prov
		}
	}
	return m.provs[len(m.provs)-1]
}

func (m *Manager) finishProcessor() {
	top := m.procs[len(m.procs)-1]
	top.EndProcessing()
	m.procs = m.procs[:len(m.procs)-1]
}

// --- StateListener ---

func (m *Manager) StartMacroDefinition(start MacrodefStartData) {
	m.ctx.PushStatementProcessing(asmctx.ProcessingMacro)
	m.procs = append(m.procs, newMacrodefProcessor(m.ctx, m.diags, m.parser, m, start))
}

func (m *Manager) FinishMacroDefinition(result MacrodefResult) {
	m.ctx.PopStatementProcessing()
	if result.Invalid {
		return
	}
	m.ctx.AddMacro(result.Macro)
	m.ctx.LSP.MacroDefs = append(m.ctx.LSP.MacroDefs, asmctx.Occurrence{
		Name: result.Macro.Name,
		Rng:  diagnostics.TextRange{Start: result.Macro.Location.Pos, End: result.Macro.Location.Pos},
		File: result.Macro.Location.File,
	})
}

func (m *Manager) StartLookahead(start LookaheadStartData) {
	m.ctx.PushStatementProcessing(asmctx.ProcessingLookahead)
	m.procs = append(m.procs, newLookaheadProcessor(m.ctx, m, start))
}

func (m *Manager) FinishLookahead(result LookaheadResult) {
	m.ctx.PopStatementProcessing()
	if result.Success {
		m.JumpInStatements(result.Target, result.TargetRng)
		return
	}

	// restore the cursor, then consume one statement with the empty
	// processor so a retried lookahead cannot loop forever
	m.PerformOpencodeJump(result.Position, result.Snapshot)
	m.findProvider().ProcessNext(emptyProcessor{})

	m.diags.Add(diagnostics.Errors.E047(m.ctx.Ids.Text(result.Target), result.TargetRng))
}

// StartCopyMember captures a fetched member body. Member parsing runs as a
// nested synchronous sub-loop; the member registers before this returns.
func (m *Manager) StartCopyMember(start CopyStartData) {
	m.ctx.PushStatementProcessing(asmctx.ProcessingCopy)
	proc := newCopyProcessor(m, start)
	for _, stmt := range m.parser.ParseSource(start.Source) {
		proc.ProcessStatement(stmt)
	}
	proc.EndProcessing()
}

func (m *Manager) FinishCopyMember(result CopyResult) {
	m.ctx.PopStatementProcessing()
	member := result.Member
	if result.Invalid {
		member = &asmctx.CopyMember{Name: result.Member.Name, Location: result.Member.Location}
	}
	m.ctx.AddCopyMember(member)
}

// --- BranchingProvider ---

// JumpInStatements re-seats the statement stream on a sequence symbol. An
// unknown symbol in opencode spawns a lookahead; in a macro it diagnoses.
func (m *Manager) JumpInStatements(target ids.Id, rng diagnostics.TextRange) {
	symbol := m.ctx.GetSequenceSymbol(target)
	if symbol == nil {
		if m.ctx.IsInMacro() {
			m.diags.Add(diagnostics.Errors.E047(m.ctx.Ids.Text(target), rng))
			return
		}
		pos, snap := m.currentStatementPosition()
		m.StartLookahead(LookaheadStartData{
			Target:    target,
			TargetRng: rng,
			Position:  pos,
			Snapshot:  snap,
		})
		return
	}

	if symbol.InMacro {
		if !m.ctx.IsInMacro() {
			panic("processing: macro sequence symbol outside of macro")
		}
		m.ctx.CurrentMacro().CurrentStatement = symbol.MacroOffset
	} else {
		m.PerformOpencodeJump(symbol.Stmt, symbol.Snapshot)
	}

	m.ctx.LSP.SeqSymbolRefs = append(m.ctx.LSP.SeqSymbolRefs, asmctx.Occurrence{Name: target, Rng: rng, File: m.ctx.File})

	if m.ctx.DecrementBranchCounter() {
		// runaway protection: the scope that exhausted its counter ends
		if m.ctx.IsInMacro() {
			m.ctx.LeaveMacro()
		} else {
			util.Log.Debug("branch counter exhausted in opencode, stopping")
			m.opencode.Terminate()
		}
	}
}

// RegisterSequenceSymbol records an opencode sequence symbol at the
// current statement. Macro-body symbols were collected at definition time.
func (m *Manager) RegisterSequenceSymbol(target ids.Id, rng diagnostics.TextRange) {
	if m.ctx.IsInMacro() {
		return
	}

	symbol := m.ctx.GetSequenceSymbol(target)
	newSymbol := m.createOpencodeSequenceSymbol(target, rng)

	if symbol == nil {
		m.ctx.AddOpencodeSequenceSymbol(newSymbol)
		m.ctx.LSP.SeqSymbolDefs = append(m.ctx.LSP.SeqSymbolDefs, asmctx.Occurrence{Name: target, Rng: rng, File: m.ctx.File})
	} else if !symbol.SamePosition(newSymbol) {
		m.diags.Add(diagnostics.Errors.E045(m.ctx.Ids.Text(target), rng))
	}
}

// createOpencodeSequenceSymbol pins the statement currently being
// processed: position and snapshot re-deliver that statement on jump.
func (m *Manager) createOpencodeSequenceSymbol(name ids.Id, rng diagnostics.TextRange) *asmctx.SequenceSymbol {
	snap := m.ctx.CreateSnapshot()
	if n := len(snap.CopyFrames); n > 0 {
		snap.CopyFrames[n-1].StatementOffset--
	} else {
		snap.Position = m.ctx.Source.Current
	}
	return &asmctx.SequenceSymbol{
		Name:     name,
		Position: rng.Start,
		Stmt:     snap.Position,
		Snapshot: snap,
		Location: diagnostics.Location{File: m.ctx.File, Pos: rng.Start},
	}
}

func (m *Manager) currentStatementPosition() (asmctx.SourcePosition, asmctx.Snapshot) {
	sym := m.createOpencodeSequenceSymbol(ids.Empty, diagnostics.TextRange{})
	return sym.Stmt, sym.Snapshot
}

// PerformOpencodeJump rewinds the opencode reader and restores the COPY
// frame stack from a snapshot.
func (m *Manager) PerformOpencodeJump(pos asmctx.SourcePosition, snap asmctx.Snapshot) {
	m.opencode.RewindInput(pos)
	m.ctx.ApplySnapshot(snap)
}

// --- AttributeProvider ---

// ResolveForwardAttributeReferences scans ahead for definitions of the
// referenced symbols, then restores the exact prior cursor. The macro
// provider is not consulted: attribute lookahead is never relevant inside
// macro bodies.
func (m *Manager) ResolveForwardAttributeReferences(refs []ids.Id) {
	if len(refs) == 0 {
		return
	}

	proc := newAttributeLookaheadProcessor(m.ctx, m.diags, m.parser, refs)

	pos := m.ctx.Source.Position
	current := m.ctx.Source.Current
	snap := m.ctx.CreateSnapshot()

	for {
		var prov Provider = m.opencode
		if !m.copyProv.Finished() {
			prov = m.copyProv
		}
		if prov.Finished() || proc.Finished() {
			break
		}
		prov.ProcessNext(proc)
	}

	m.PerformOpencodeJump(pos, snap)
	m.ctx.Source.Current = current
}

// addOrdSymDefs flushes the deferred ordinary-symbol definitions and
// occurrences into the cross-reference tables.
func (m *Manager) addOrdSymDefs() {
	lsp := m.ctx.LSP

	remaining := lsp.DeferredOrdOccs[:0]
	for _, def := range lsp.DeferredOrdDefs {
		sym := m.ctx.GetOrdinarySymbol(def.Name)
		if sym == nil {
			continue
		}
		lsp.OrdSymbols[def.Name] = &asmctx.SymbolInfo{
			Definition: def,
			Value:      renderSymbolValue(m.ctx, sym),
		}
	}
	for _, occ := range lsp.DeferredOrdOccs {
		info, ok := lsp.OrdSymbols[occ.Name]
		if !ok {
			sym := m.ctx.GetOrdinarySymbol(occ.Name)
			if sym == nil {
				remaining = append(remaining, occ)
				continue
			}
			info = &asmctx.SymbolInfo{
				Definition: asmctx.Occurrence{Name: occ.Name, File: sym.Location.File, Rng: diagnostics.TextRange{Start: sym.Location.Pos, End: sym.Location.Pos}},
				Value:      renderSymbolValue(m.ctx, sym),
			}
			lsp.OrdSymbols[occ.Name] = info
		}
		info.Occurrences = append(info.Occurrences, occ)
	}
	lsp.DeferredOrdOccs = remaining
	lsp.DeferredOrdDefs = nil
}
