package asmctx_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hlasmtools/hlasm-ls/asmctx"
	"github.com/hlasmtools/hlasm-ls/expressions"
)

func TestSnapshotRoundTrip(t *testing.T) {
	ctx := asmctx.NewContext("test.hlasm")
	ctx.Source.Position = asmctx.SourcePosition{StatementIndex: 7, Line: 12}
	ctx.Source.CopyStack = []asmctx.CopyFrame{
		{Member: ctx.Ids.Add("MEM1"), StatementOffset: 2},
	}

	snap := ctx.CreateSnapshot()

	// applying a snapshot of the current state is a no-op
	ctx.ApplySnapshot(snap)
	assert.Equal(t, asmctx.SourcePosition{StatementIndex: 7, Line: 12}, ctx.Source.Position)
	require.Len(t, ctx.Source.CopyStack, 1)
	assert.Equal(t, 2, ctx.Source.CopyStack[0].StatementOffset)

	// mutate, then restore
	ctx.Source.Position = asmctx.SourcePosition{StatementIndex: 99}
	ctx.Source.CopyStack = nil
	ctx.ApplySnapshot(snap)
	assert.Equal(t, asmctx.SourcePosition{StatementIndex: 7, Line: 12}, ctx.Source.Position)
	require.Len(t, ctx.Source.CopyStack, 1)
}

func TestSnapshotsAreValues(t *testing.T) {
	ctx := asmctx.NewContext("test.hlasm")
	ctx.Source.CopyStack = []asmctx.CopyFrame{{Member: ctx.Ids.Add("M"), StatementOffset: 1}}

	snap := ctx.CreateSnapshot()
	clone := snap.Clone()

	ctx.Source.CopyStack[0].StatementOffset = 5
	assert.Equal(t, 1, snap.CopyFrames[0].StatementOffset)
	assert.Equal(t, 1, clone.CopyFrames[0].StatementOffset)
	assert.True(t, snap.Equal(clone))
}

func TestScopeStackAndVariables(t *testing.T) {
	ctx := asmctx.NewContext("test.hlasm")
	x := ctx.Ids.Add("X")
	g := ctx.Ids.Add("G")

	ctx.CreateLocalVariable(x, expressions.SetA, true)
	shared := ctx.CreateGlobalVariable(g, expressions.SetC, true)

	assert.NotNil(t, ctx.GetVarSym(x))
	assert.NotNil(t, ctx.GetVarSym(g))

	// a macro scope hides opencode locals; globals become visible once
	// the scope declares them, and share their storage
	def := &asmctx.Macro{Name: ctx.Ids.Add("M")}
	ctx.EnterMacro(def, nil)
	assert.True(t, ctx.IsInMacro())
	assert.Nil(t, ctx.GetVarSym(x))
	assert.Nil(t, ctx.GetVarSym(g))

	linked := ctx.CreateGlobalVariable(g, expressions.SetC, true)
	assert.Same(t, shared, linked)

	ctx.LeaveMacro()
	assert.False(t, ctx.IsInMacro())
	assert.NotNil(t, ctx.GetVarSym(x))
}

func TestBranchCounterPerScope(t *testing.T) {
	ctx := asmctx.NewContext("test.hlasm")
	ctx.SetBranchCounter(2)

	assert.False(t, ctx.DecrementBranchCounter())
	assert.False(t, ctx.DecrementBranchCounter())
	assert.True(t, ctx.DecrementBranchCounter())

	// a fresh macro scope gets its own counter
	ctx2 := asmctx.NewContext("test.hlasm")
	ctx2.SetBranchCounter(0)
	ctx2.EnterMacro(&asmctx.Macro{Name: ctx2.Ids.Add("M")}, nil)
	assert.Equal(t, int32(asmctx.DefaultBranchCounter), ctx2.BranchCounter())
	ctx2.LeaveMacro()
	assert.Equal(t, int32(0), ctx2.BranchCounter())
}

func TestSetSymbolSparseArray(t *testing.T) {
	s := asmctx.NewSetSymbol(expressions.SetA, false)
	s.Set(1, expressions.AVal(10))
	s.Set(3, expressions.AVal(30))

	assert.Equal(t, int32(10), s.Get(1).A)
	assert.Equal(t, int32(0), s.Get(2).A)
	assert.Equal(t, int32(30), s.Get(3).A)
}

func TestSequenceSymbolIdentity(t *testing.T) {
	ctx := asmctx.NewContext("test.hlasm")
	name := ctx.Ids.Add("L")

	a := &asmctx.SequenceSymbol{Name: name, Stmt: asmctx.SourcePosition{StatementIndex: 1}}
	b := &asmctx.SequenceSymbol{Name: name, Stmt: asmctx.SourcePosition{StatementIndex: 1}}
	c := &asmctx.SequenceSymbol{Name: name, Stmt: asmctx.SourcePosition{StatementIndex: 2}}

	assert.True(t, a.SamePosition(b))
	assert.False(t, a.SamePosition(c))
}
