package processing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hlasmtools/hlasm-ls/asmctx"
	"github.com/hlasmtools/hlasm-ls/diagnostics"
	"github.com/hlasmtools/hlasm-ls/library"
	"github.com/hlasmtools/hlasm-ls/parser"
)

func newTestManager(source string) (*Manager, *asmctx.Context, *diagnostics.Sink) {
	ctx := asmctx.NewContext("test.hlasm")
	sink := diagnostics.NewSink()
	p := parser.New(ctx.Ids, sink)
	return NewManager(ctx, sink, p, library.Empty, source), ctx, sink
}

func TestBackwardJumpLoopEndsWhenCounterRunsOut(t *testing.T) {
	m, ctx, sink := newTestManager(`
         ACTR  2
.B       ANOP
         AGO   .B
`)

	m.StartProcessing(nil)

	assert.Empty(t, sink.Diagnostics())
	// two jumps were granted, the third tripped the counter
	assert.Equal(t, int32(-1), ctx.BranchCounter())
}

func TestFailedLookaheadConsumesOneStatement(t *testing.T) {
	m, _, sink := newTestManager(`
         AGO   .MISSING
         AGO   .MISSING
`)

	m.StartProcessing(nil)

	// each failed lookahead reports once and consumes its own statement,
	// so both statements diagnose and the loop terminates
	codes := []string{}
	for _, d := range sink.Diagnostics() {
		codes = append(codes, d.Code)
	}
	assert.Equal(t, []string{"E047", "E047"}, codes)
}

func TestProcessorStackReturnsToOrdinary(t *testing.T) {
	m, ctx, sink := newTestManager(`
         MACRO
         NOOP
         MEND
`)

	m.StartProcessing(nil)

	assert.Empty(t, sink.Diagnostics())
	require.Len(t, m.procs, 0)
	id, ok := ctx.Ids.Find("NOOP")
	require.True(t, ok)
	assert.NotNil(t, ctx.GetMacro(id))
}

func TestRegisteredSequenceSymbolSurvivesRewind(t *testing.T) {
	m, ctx, _ := newTestManager(`
.A       ANOP
         ANOP
`)

	m.StartProcessing(nil)

	id, ok := ctx.Ids.Find("A")
	require.True(t, ok)
	sym := ctx.GetSequenceSymbol(id)
	require.NotNil(t, sym)
	assert.False(t, sym.InMacro)

	// jumping to the recorded snapshot re-seats the opencode cursor on
	// the labeled statement
	m.PerformOpencodeJump(sym.Stmt, sym.Snapshot)
	assert.Equal(t, sym.Stmt, ctx.Source.Position)
}
