package asmctx

import (
	"github.com/hlasmtools/hlasm-ls/expressions"
	"github.com/hlasmtools/hlasm-ls/ids"
	"github.com/hlasmtools/hlasm-ls/semantics"
)

// ProcessingKind tags what the engine is currently doing with statements.
type ProcessingKind int

const (
	ProcessingOrdinary ProcessingKind = iota
	ProcessingCopy
	ProcessingMacro
	ProcessingLookahead
)

// DefaultBranchCounter limits CA branches per scope unless ACTR overrides
// it, mirroring the assembler's runaway protection.
const DefaultBranchCounter = 4096

// Context is the mutable state of one analysis run: interner, symbol
// tables, macro and COPY registries, reader state, branch counters and the
// LSP cross-reference store. It is owned by the processing manager and
// mutated by exactly one processor at a time.
type Context struct {
	Ids *ids.Storage

	File string

	globals map[ids.Id]*Variable
	scopes  []*CodeScope

	Macros      map[ids.Id]*Macro
	CopyMembers map[ids.Id]*CopyMember

	OrdinarySymbols map[ids.Id]*OrdinarySymbol

	opencodeSeqSymbols map[ids.Id]*SequenceSymbol

	Source Source

	procKinds []ProcessingKind

	LSP *LSPContext

	BranchCounterLimit int32
}

func NewContext(file string) *Context {
	c := &Context{
		Ids:                ids.NewStorage(),
		File:               file,
		globals:            make(map[ids.Id]*Variable),
		Macros:             make(map[ids.Id]*Macro),
		CopyMembers:        make(map[ids.Id]*CopyMember),
		OrdinarySymbols:    make(map[ids.Id]*OrdinarySymbol),
		opencodeSeqSymbols: make(map[ids.Id]*SequenceSymbol),
		LSP:                newLSPContext(),
		BranchCounterLimit: DefaultBranchCounter,
	}
	c.scopes = []*CodeScope{newCodeScope(nil, c.BranchCounterLimit)}
	c.procKinds = []ProcessingKind{ProcessingOrdinary}
	return c
}

// --- scope stack ---

func (c *Context) CurrentScope() *CodeScope {
	return c.scopes[len(c.scopes)-1]
}

func (c *Context) IsInMacro() bool {
	return c.CurrentScope().ThisMacro != nil
}

func (c *Context) CurrentMacro() *MacroInvocation {
	return c.CurrentScope().ThisMacro
}

// EnterMacro pushes a scope for an invocation of def.
func (c *Context) EnterMacro(def *Macro, args map[ids.Id]string) *MacroInvocation {
	inv := &MacroInvocation{Def: def, Args: args}
	scope := newCodeScope(inv, c.BranchCounterLimit)
	for name, value := range args {
		scope.Variables[name] = &Variable{Name: name, Param: &MacroParam{Value: value}}
	}
	c.scopes = append(c.scopes, scope)
	return inv
}

// LeaveMacro pops the innermost macro scope.
func (c *Context) LeaveMacro() {
	if len(c.scopes) <= 1 {
		panic("asmctx: LeaveMacro outside of macro")
	}
	c.scopes = c.scopes[:len(c.scopes)-1]
}

// --- variables ---

// GetVarSym finds a variable bound in the current scope. Globals are
// visible only in scopes that declared them with GBL*.
func (c *Context) GetVarSym(name ids.Id) *Variable {
	return c.CurrentScope().Variables[name]
}

// CreateLocalVariable declares a SET symbol in the current scope.
func (c *Context) CreateLocalVariable(name ids.Id, kind expressions.SetKind, scalar bool) *Variable {
	v := &Variable{Name: name, Set: NewSetSymbol(kind, scalar)}
	c.CurrentScope().Variables[name] = v
	return v
}

// CreateGlobalVariable binds a global SET symbol into the current scope,
// creating the shared storage on first declaration.
func (c *Context) CreateGlobalVariable(name ids.Id, kind expressions.SetKind, scalar bool) *Variable {
	v, ok := c.globals[name]
	if !ok {
		v = &Variable{Name: name, Set: NewSetSymbol(kind, scalar)}
		c.globals[name] = v
	}
	c.CurrentScope().Variables[name] = v
	return v
}

// --- macro and COPY registries ---

func (c *Context) AddMacro(m *Macro) {
	c.Macros[m.Name] = m
}

func (c *Context) GetMacro(name ids.Id) *Macro {
	return c.Macros[name]
}

func (c *Context) AddCopyMember(m *CopyMember) {
	c.CopyMembers[m.Name] = m
}

func (c *Context) GetCopyMember(name ids.Id) *CopyMember {
	return c.CopyMembers[name]
}

// EnterCopyMember pushes a replay frame for a registered member.
func (c *Context) EnterCopyMember(name ids.Id) {
	c.Source.CopyStack = append(c.Source.CopyStack, CopyFrame{Member: name})
}

// --- sequence symbols ---

// GetSequenceSymbol resolves a sequence symbol in the current scope: the
// active macro's table inside a macro, the opencode table otherwise.
func (c *Context) GetSequenceSymbol(name ids.Id) *SequenceSymbol {
	if inv := c.CurrentMacro(); inv != nil {
		if off, ok := inv.Def.SeqSymbols[name]; ok {
			return &SequenceSymbol{Name: name, InMacro: true, MacroOffset: off}
		}
		return nil
	}
	return c.opencodeSeqSymbols[name]
}

func (c *Context) AddOpencodeSequenceSymbol(sym *SequenceSymbol) {
	c.opencodeSeqSymbols[sym.Name] = sym
}

// --- branch counter ---

// SetBranchCounter sets the counter of the current scope (ACTR).
func (c *Context) SetBranchCounter(n int32) {
	c.CurrentScope().BranchCounter = n
}

// DecrementBranchCounter decrements the current scope's counter and
// reports whether the limit tripped (counter would drop below zero).
func (c *Context) DecrementBranchCounter() bool {
	s := c.CurrentScope()
	s.BranchCounter--
	return s.BranchCounter < 0
}

func (c *Context) BranchCounter() int32 {
	return c.CurrentScope().BranchCounter
}

// --- processing kind stack ---

func (c *Context) PushStatementProcessing(kind ProcessingKind) {
	c.procKinds = append(c.procKinds, kind)
}

func (c *Context) PopStatementProcessing() {
	if len(c.procKinds) <= 1 {
		panic("asmctx: processing kind stack underflow")
	}
	c.procKinds = c.procKinds[:len(c.procKinds)-1]
}

func (c *Context) CurrentProcessingKind() ProcessingKind {
	return c.procKinds[len(c.procKinds)-1]
}

// --- expressions.Environment ---

// VariableValue implements expressions.Environment over the scope stack.
func (c *Context) VariableValue(name ids.Id, subscript int) (expressions.Value, bool) {
	v := c.GetVarSym(name)
	if v == nil {
		return expressions.Value{}, false
	}
	if v.Param != nil {
		return expressions.CVal(v.Param.Value), true
	}
	return v.Set.Get(subscript), true
}

// SymbolValue implements expressions.Environment over the ordinary symbol
// table.
func (c *Context) SymbolValue(name ids.Id) (int32, bool) {
	sym := c.GetOrdinarySymbol(name)
	if sym == nil {
		return 0, false
	}
	return sym.Value, true
}

// SymbolAttribute implements expressions.Environment; the processing layer
// wraps it to add forward-reference lookahead.
func (c *Context) SymbolAttribute(attr byte, name ids.Id) (int32, bool) {
	sym := c.GetOrdinarySymbol(name)
	if sym == nil {
		return 0, false
	}
	return sym.Attribute(attr)
}

var _ expressions.Environment = (*Context)(nil)

// Statements is a captured immutable statement block.
type Statements = []*semantics.Statement
