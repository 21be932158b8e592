package processing

import (
	"github.com/hlasmtools/hlasm-ls/asmctx"
	"github.com/hlasmtools/hlasm-ls/semantics"
)

// copyProcessor captures a COPY member body statement by statement. Nested
// COPY statements are captured as-is and resolved during replay.
type copyProcessor struct {
	listener StateListener
	start    CopyStartData
	body     []*semantics.Statement
}

func newCopyProcessor(listener StateListener, start CopyStartData) *copyProcessor {
	return &copyProcessor{listener: listener, start: start}
}

func (p *copyProcessor) Kind() ProcessorKind { return ProcCopy }

func (p *copyProcessor) Finished() bool { return false }

func (p *copyProcessor) TerminalCondition(ProviderKind) bool { return true }

func (p *copyProcessor) ProcessStatement(stmt *semantics.Statement) {
	p.body = append(p.body, stmt.Clone())
}

func (p *copyProcessor) EndProcessing() {
	p.listener.FinishCopyMember(CopyResult{
		Member: &asmctx.CopyMember{
			Name:     p.start.Member,
			Body:     p.body,
			Location: p.start.Location,
		},
	})
}
