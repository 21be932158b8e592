package processing

import (
	"strings"

	"github.com/hlasmtools/hlasm-ls/asmctx"
	"github.com/hlasmtools/hlasm-ls/diagnostics"
	"github.com/hlasmtools/hlasm-ls/ids"
	"github.com/hlasmtools/hlasm-ls/parser"
	"github.com/hlasmtools/hlasm-ls/semantics"
)

// macrodefProcessor captures a macro definition: the prototype statement,
// then every body statement until the matching MEND, tracking nested
// MACRO/MEND pairs and collecting sequence symbol offsets.
type macrodefProcessor struct {
	ctx      *asmctx.Context
	diags    *diagnostics.Sink
	listener StateListener
	start    MacrodefStartData

	macroID ids.Id
	mendID  ids.Id

	expectPrototype bool
	invalid         bool
	nest            int
	finished        bool

	name       ids.Id
	nameParam  ids.Id
	params     []asmctx.MacroArg
	body       []*semantics.Statement
	seqSymbols map[ids.Id]int
	location   diagnostics.Location
}

func newMacrodefProcessor(ctx *asmctx.Context, diags *diagnostics.Sink, p *parser.Parser, listener StateListener, start MacrodefStartData) *macrodefProcessor {
	return &macrodefProcessor{
		ctx:             ctx,
		diags:           diags,
		listener:        listener,
		start:           start,
		macroID:         ctx.Ids.Add("MACRO"),
		mendID:          ctx.Ids.Add("MEND"),
		expectPrototype: true,
		nest:            1,
		seqSymbols:      make(map[ids.Id]int),
	}
}

func (p *macrodefProcessor) Kind() ProcessorKind { return ProcMacrodef }

func (p *macrodefProcessor) Finished() bool { return p.finished }

func (p *macrodefProcessor) TerminalCondition(prov ProviderKind) bool {
	// end of input terminates an unmatched definition
	return prov == ProviderOpencode
}

func (p *macrodefProcessor) ProcessStatement(stmt *semantics.Statement) {
	if p.expectPrototype {
		p.processPrototype(stmt)
		return
	}

	switch stmt.Instruction {
	case p.macroID:
		p.nest++
	case p.mendID:
		p.nest--
		if p.nest == 0 {
			p.finished = true
			return
		}
	}

	if p.nest == 1 && stmt.Label.Kind == semantics.LabelSequence {
		name := stmt.Label.Seq.Name
		if prev, ok := p.seqSymbols[name]; ok && prev != len(p.body) {
			p.diags.Add(diagnostics.Errors.E045(p.ctx.Ids.Text(name), stmt.Label.Seq.Rng))
		} else {
			p.seqSymbols[name] = len(p.body)
		}
	}

	p.body = append(p.body, stmt.Clone())
}

func (p *macrodefProcessor) processPrototype(stmt *semantics.Statement) {
	p.expectPrototype = false

	if stmt.Instruction == ids.Empty {
		p.invalid = true
		return
	}
	p.name = stmt.Instruction
	p.location = diagnostics.Location{File: p.ctx.File, Pos: stmt.Rng.Start}

	if stmt.Label.Kind == semantics.LabelVariable && stmt.Label.Var != nil {
		p.nameParam = stmt.Label.Var.Name
	} else if stmt.Label.Kind != semantics.LabelEmpty {
		p.diags.Add(diagnostics.Warnings.W010("Name field", stmt.Label.Rng))
	}

	for _, op := range stmt.Operands {
		text := strings.TrimSpace(op.Text)
		if text == "" || text[0] != '&' {
			continue
		}
		if eq := strings.IndexByte(text, '='); eq > 0 {
			p.params = append(p.params, asmctx.MacroArg{
				Name:    p.ctx.Ids.Add(text[1:eq]),
				Keyword: true,
				Default: text[eq+1:],
			})
		} else {
			p.params = append(p.params, asmctx.MacroArg{Name: p.ctx.Ids.Add(text[1:])})
		}
	}
}

func (p *macrodefProcessor) EndProcessing() {
	p.listener.FinishMacroDefinition(MacrodefResult{
		Invalid: p.invalid,
		Macro: &asmctx.Macro{
			Name:       p.name,
			NameParam:  p.nameParam,
			Params:     p.params,
			Body:       p.body,
			SeqSymbols: p.seqSymbols,
			Location:   p.location,
		},
	})
}
