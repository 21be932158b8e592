package analyzer

import (
	"sync/atomic"

	"github.com/hlasmtools/hlasm-ls/asmctx"
	"github.com/hlasmtools/hlasm-ls/diagnostics"
	"github.com/hlasmtools/hlasm-ls/library"
	"github.com/hlasmtools/hlasm-ls/parser"
	"github.com/hlasmtools/hlasm-ls/processing"
)

// Options configures one analysis run.
type Options struct {
	// FileName names the source unit in locations and cross references.
	FileName string
	// Libraries resolves COPY members and external macros; nil means none.
	Libraries library.Provider
	// Cancel stops the drive loop between statements when raised.
	Cancel *atomic.Bool
	// BranchCounterLimit overrides the default ACTR limit when positive.
	BranchCounterLimit int32
}

// Result is the outcome of one analysis run: diagnostics plus the final
// context with symbol tables and cross references.
type Result struct {
	Diagnostics []diagnostics.Diagnostic
	Context     *asmctx.Context
}

// Analyze runs the full statement processing pipeline over source.
func Analyze(source string, opts Options) *Result {
	ctx := asmctx.NewContext(opts.FileName)
	if opts.BranchCounterLimit > 0 {
		ctx.BranchCounterLimit = opts.BranchCounterLimit
		ctx.SetBranchCounter(opts.BranchCounterLimit)
	}

	sink := diagnostics.NewSink()
	p := parser.New(ctx.Ids, sink)

	libs := opts.Libraries
	if libs == nil {
		libs = library.Empty
	}

	mngr := processing.NewManager(ctx, sink, p, libs, source)
	mngr.StartProcessing(opts.Cancel)

	return &Result{
		Diagnostics: sink.Diagnostics(),
		Context:     ctx,
	}
}
