package processing

import (
	"github.com/hlasmtools/hlasm-ls/asmctx"
	"github.com/hlasmtools/hlasm-ls/parser"
	"github.com/hlasmtools/hlasm-ls/semantics"
)

// OpencodeProvider owns the parsed source unit and the opencode cursor. It
// supports rewinding for CA jumps and snapshot round trips.
type OpencodeProvider struct {
	ctx        *asmctx.Context
	stmts      []*semantics.Statement
	terminated bool
}

func NewOpencodeProvider(ctx *asmctx.Context, p *parser.Parser, source string) *OpencodeProvider {
	prov := &OpencodeProvider{
		ctx:   ctx,
		stmts: p.ParseSource(source),
	}
	ctx.Source.Position = asmctx.SourcePosition{}
	return prov
}

func (p *OpencodeProvider) Kind() ProviderKind { return ProviderOpencode }

func (p *OpencodeProvider) Finished() bool {
	return p.terminated || p.ctx.Source.Position.StatementIndex >= len(p.stmts)
}

func (p *OpencodeProvider) ProcessNext(proc Processor) {
	idx := p.ctx.Source.Position.StatementIndex
	stmt := p.stmts[idx]

	p.ctx.Source.Current = asmctx.SourcePosition{StatementIndex: idx, Line: stmt.Rng.Start.Line}
	next := asmctx.SourcePosition{StatementIndex: idx + 1}
	if idx+1 < len(p.stmts) {
		next.Line = p.stmts[idx+1].Rng.Start.Line
	}
	p.ctx.Source.Position = next

	proc.ProcessStatement(stmt)
}

// RewindInput re-seats the cursor on a previously captured position.
func (p *OpencodeProvider) RewindInput(pos asmctx.SourcePosition) {
	p.ctx.Source.Position = pos
	p.terminated = false
}

// Terminate marks the provider exhausted; used when the opencode branch
// counter runs out.
func (p *OpencodeProvider) Terminate() {
	p.terminated = true
}
