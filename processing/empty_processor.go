package processing

import "github.com/hlasmtools/hlasm-ls/semantics"

// emptyProcessor swallows exactly one statement. The manager uses it after
// a failed lookahead to guarantee forward progress.
type emptyProcessor struct{}

func (emptyProcessor) Kind() ProcessorKind                  { return ProcEmpty }
func (emptyProcessor) Finished() bool                       { return true }
func (emptyProcessor) TerminalCondition(ProviderKind) bool  { return true }
func (emptyProcessor) ProcessStatement(*semantics.Statement) {}
func (emptyProcessor) EndProcessing()                       {}
