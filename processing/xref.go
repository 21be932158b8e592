package processing

import (
	"strconv"

	"github.com/hlasmtools/hlasm-ls/asmctx"
)

// renderSymbolValue builds the hover lines of an ordinary symbol: its
// value kind and the defined data attributes.
func renderSymbolValue(ctx *asmctx.Context, sym *asmctx.OrdinarySymbol) []string {
	var lines []string
	switch sym.Kind {
	case asmctx.SymbolAbsolute:
		lines = append(lines, strconv.FormatInt(int64(sym.Value), 10), "Absolute Symbol")
	case asmctx.SymbolRelocatable:
		lines = append(lines, ctx.Ids.Text(sym.Section)+"+"+strconv.FormatInt(int64(sym.Value), 10), "Relocatable Symbol")
	}
	for _, attr := range []byte{'L', 'I', 'S'} {
		if v, ok := sym.Attribute(attr); ok {
			lines = append(lines, string(rune(attr))+": "+strconv.FormatInt(int64(v), 10))
		}
	}
	if v, ok := sym.Attribute('T'); ok {
		lines = append(lines, "T: "+string(rune(v)))
	}
	return lines
}
