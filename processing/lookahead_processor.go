package processing

import (
	"github.com/hlasmtools/hlasm-ls/asmctx"
	"github.com/hlasmtools/hlasm-ls/datadef"
	"github.com/hlasmtools/hlasm-ls/diagnostics"
	"github.com/hlasmtools/hlasm-ls/ids"
	"github.com/hlasmtools/hlasm-ls/parser"
	"github.com/hlasmtools/hlasm-ls/semantics"
)

// lookaheadProcessor scans forward for a named sequence symbol. Sequence
// labels passed on the way register as opencode symbols, so that the
// eventual jump resolves through the regular path. On exhaustion without a
// match the saved snapshot rolls the cursor back.
type lookaheadProcessor struct {
	ctx       *asmctx.Context
	branching BranchingProvider
	listener  StateListener
	start     LookaheadStartData

	success bool
	done    bool
}

func newLookaheadProcessor(ctx *asmctx.Context, m *Manager, start LookaheadStartData) *lookaheadProcessor {
	return &lookaheadProcessor{ctx: ctx, branching: m, listener: m, start: start}
}

func (p *lookaheadProcessor) Kind() ProcessorKind { return ProcLookahead }

func (p *lookaheadProcessor) Finished() bool { return p.done }

func (p *lookaheadProcessor) TerminalCondition(prov ProviderKind) bool {
	// lookahead is driven by the copy and opencode providers only
	return prov == ProviderCopy || prov == ProviderOpencode
}

func (p *lookaheadProcessor) ProcessStatement(stmt *semantics.Statement) {
	if stmt.Label.Kind != semantics.LabelSequence {
		return
	}
	p.branching.RegisterSequenceSymbol(stmt.Label.Seq.Name, stmt.Label.Seq.Rng)
	if stmt.Label.Seq.Name == p.start.Target {
		p.success = true
		p.done = true
	}
}

func (p *lookaheadProcessor) EndProcessing() {
	p.listener.FinishLookahead(LookaheadResult{
		Success:   p.success,
		Target:    p.start.Target,
		TargetRng: p.start.TargetRng,
		Position:  p.start.Position,
		Snapshot:  p.start.Snapshot,
	})
}

// attributeLookaheadProcessor scans forward for definitions of ordinary
// symbols whose attributes were referenced before their defining
// statement. It never runs off the processor stack; the manager drives it
// in a nested sub-loop with snapshot rollback.
type attributeLookaheadProcessor struct {
	ctx    *asmctx.Context
	diags  *diagnostics.Sink
	parser *parser.Parser
	refs   map[ids.Id]bool

	dcID ids.Id
	dsID ids.Id
}

func newAttributeLookaheadProcessor(ctx *asmctx.Context, diags *diagnostics.Sink, p *parser.Parser, refs []ids.Id) *attributeLookaheadProcessor {
	set := make(map[ids.Id]bool, len(refs))
	for _, r := range refs {
		set[r] = true
	}
	return &attributeLookaheadProcessor{
		ctx:    ctx,
		diags:  diags,
		parser: p,
		refs:   set,
		dcID:   ctx.Ids.Add("DC"),
		dsID:   ctx.Ids.Add("DS"),
	}
}

func (p *attributeLookaheadProcessor) Kind() ProcessorKind { return ProcLookahead }

func (p *attributeLookaheadProcessor) Finished() bool { return len(p.refs) == 0 }

func (p *attributeLookaheadProcessor) TerminalCondition(prov ProviderKind) bool {
	return prov == ProviderCopy || prov == ProviderOpencode
}

func (p *attributeLookaheadProcessor) ProcessStatement(stmt *semantics.Statement) {
	if stmt.Label.Kind != semantics.LabelOrdinary || !p.refs[stmt.Label.Name] {
		return
	}

	sym := &asmctx.OrdinarySymbol{
		Name:       stmt.Label.Name,
		Kind:       asmctx.SymbolRelocatable,
		Attributes: map[byte]int32{'T': 'U'},
		Location:   diagnostics.Location{File: p.ctx.File, Pos: stmt.Label.Rng.Start},
	}

	if stmt.Instruction == p.dcID || stmt.Instruction == p.dsID {
		// length and type attributes come from the first operand; the
		// diagnostics of this pre-scan are discarded, the statement will
		// be checked again when regular processing reaches it
		scratch := diagnostics.NewSink()
		saved := p.parser.Diags
		p.parser.Diags = scratch
		ops := p.parser.ParseDataDefOperands(stmt.OperandField, stmt.OperandRng)
		p.parser.Diags = saved

		if len(ops) > 0 && ops[0] != nil {
			t := datadef.TypeOf(ops[0].TypeChar, ops[0].Extension)
			sym.Attributes['L'] = int32(firstConstantLength(t, ops[0]))
			sym.Attributes['T'] = int32(ops[0].TypeChar)
		}
	}

	p.ctx.AddOrdinarySymbol(sym)
	delete(p.refs, stmt.Label.Name)
}

func (p *attributeLookaheadProcessor) EndProcessing() {}
