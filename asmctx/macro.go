package asmctx

import (
	"github.com/hlasmtools/hlasm-ls/diagnostics"
	"github.com/hlasmtools/hlasm-ls/ids"
	"github.com/hlasmtools/hlasm-ls/semantics"
)

// MacroArg describes one symbolic parameter of a macro prototype.
type MacroArg struct {
	Name    ids.Id
	Keyword bool
	Default string
}

// Macro is a completed, immutable macro definition shared by name.
type Macro struct {
	Name      ids.Id
	NameParam ids.Id
	Params    []MacroArg
	Body      []*semantics.Statement
	// SeqSymbols maps each sequence symbol in the body to its statement
	// offset.
	SeqSymbols map[ids.Id]int
	Location   diagnostics.Location
}

// MacroInvocation is one active expansion of a macro.
type MacroInvocation struct {
	Def *Macro
	// CurrentStatement indexes the next body statement to expand.
	CurrentStatement int
	// Args binds parameter names (and the name parameter) to actual values.
	Args map[ids.Id]string
}

// CopyMember is a completed, immutable COPY member body shared by name.
type CopyMember struct {
	Name     ids.Id
	Body     []*semantics.Statement
	Location diagnostics.Location
}
