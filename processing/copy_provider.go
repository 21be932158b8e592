package processing

import "github.com/hlasmtools/hlasm-ls/asmctx"

// CopyProvider replays the bodies of registered COPY members off the
// context's copy frame stack. A replayed statement may itself be a COPY,
// which pushes another frame.
type CopyProvider struct {
	ctx *asmctx.Context
}

func NewCopyProvider(ctx *asmctx.Context) *CopyProvider {
	return &CopyProvider{ctx: ctx}
}

func (p *CopyProvider) Kind() ProviderKind { return ProviderCopy }

func (p *CopyProvider) Finished() bool {
	p.trim()
	return len(p.ctx.Source.CopyStack) == 0
}

// trim pops frames whose member body is exhausted.
func (p *CopyProvider) trim() {
	stack := p.ctx.Source.CopyStack
	for len(stack) > 0 {
		frame := stack[len(stack)-1]
		member := p.ctx.GetCopyMember(frame.Member)
		if member != nil && frame.StatementOffset < len(member.Body) {
			break
		}
		stack = stack[:len(stack)-1]
	}
	p.ctx.Source.CopyStack = stack
}

func (p *CopyProvider) ProcessNext(proc Processor) {
	p.trim()
	stack := p.ctx.Source.CopyStack
	if len(stack) == 0 {
		panic("processing: copy provider drained")
	}
	frame := &stack[len(stack)-1]
	member := p.ctx.GetCopyMember(frame.Member)
	stmt := member.Body[frame.StatementOffset]
	frame.StatementOffset++

	proc.ProcessStatement(stmt)
}
