package processing

import (
	"github.com/hlasmtools/hlasm-ls/asmctx"
	"github.com/hlasmtools/hlasm-ls/diagnostics"
	"github.com/hlasmtools/hlasm-ls/ids"
	"github.com/hlasmtools/hlasm-ls/semantics"
)

// ProviderKind identifies a statement source. The numeric order is the
// selection priority: macro bodies before COPY bodies before opencode.
type ProviderKind int

const (
	ProviderMacro ProviderKind = iota
	ProviderCopy
	ProviderOpencode
)

// Provider is a pull source of logical statements.
type Provider interface {
	Kind() ProviderKind
	Finished() bool
	// ProcessNext fetches the next statement and delivers it to proc.
	ProcessNext(proc Processor)
}

// ProcessorKind identifies a statement consumer state.
type ProcessorKind int

const (
	ProcOrdinary ProcessorKind = iota
	ProcMacrodef
	ProcCopy
	ProcLookahead
	ProcEmpty
)

// Processor consumes statements under one processing state.
type Processor interface {
	Kind() ProcessorKind
	Finished() bool
	// TerminalCondition reports whether exhaustion of the given provider
	// ends this processor.
	TerminalCondition(prov ProviderKind) bool
	ProcessStatement(stmt *semantics.Statement)
	EndProcessing()
}

// BranchingProvider is the capability processors use to register sequence
// symbols and request CA jumps. The manager implements it.
type BranchingProvider interface {
	JumpInStatements(target ids.Id, rng diagnostics.TextRange)
	RegisterSequenceSymbol(target ids.Id, rng diagnostics.TextRange)
}

// StateListener is the capability processors use to open and close nested
// processing states. The manager implements it. StartMacroDefinition and
// StartLookahead push a processor whose Finish call runs once it reports
// Finished; StartCopyMember captures the member synchronously, and
// FinishCopyMember runs before it returns.
type StateListener interface {
	StartMacroDefinition(start MacrodefStartData)
	FinishMacroDefinition(result MacrodefResult)
	StartLookahead(start LookaheadStartData)
	FinishLookahead(result LookaheadResult)
	StartCopyMember(start CopyStartData)
	FinishCopyMember(result CopyResult)
}

// AttributeProvider resolves forward references to ordinary-symbol
// attributes by scanning ahead with snapshot rollback.
type AttributeProvider interface {
	ResolveForwardAttributeReferences(refs []ids.Id)
}

// MacrodefStartData opens macro-definition capture. External definitions
// come from the macro library rather than inline MACRO statements.
type MacrodefStartData struct {
	IsExternal   bool
	ExternalName ids.Id
}

// MacrodefResult is the completed capture.
type MacrodefResult struct {
	Invalid bool
	Macro   *asmctx.Macro
}

// LookaheadStartData opens a forward scan for a sequence symbol. Position
// and Snapshot locate the statement to fall back to on failure.
type LookaheadStartData struct {
	Target    ids.Id
	TargetRng diagnostics.TextRange
	Position  asmctx.SourcePosition
	Snapshot  asmctx.Snapshot
}

// LookaheadResult reports the scan outcome.
type LookaheadResult struct {
	Success   bool
	Target    ids.Id
	TargetRng diagnostics.TextRange
	Position  asmctx.SourcePosition
	Snapshot  asmctx.Snapshot
}

// CopyStartData opens capture of a fetched COPY member.
type CopyStartData struct {
	Member   ids.Id
	Source   string
	Location diagnostics.Location
}

// CopyResult is the completed member body.
type CopyResult struct {
	Invalid bool
	Member  *asmctx.CopyMember
}
