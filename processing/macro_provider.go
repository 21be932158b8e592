package processing

import (
	"strconv"
	"strings"

	"github.com/hlasmtools/hlasm-ls/asmctx"
	"github.com/hlasmtools/hlasm-ls/diagnostics"
	"github.com/hlasmtools/hlasm-ls/expressions"
	"github.com/hlasmtools/hlasm-ls/ids"
	"github.com/hlasmtools/hlasm-ls/parser"
	"github.com/hlasmtools/hlasm-ls/semantics"
)

// MacroProvider expands the top-of-stack macro invocation. Parameter and
// SET symbol substitution happens while a statement is fetched; deferred
// fields are re-parsed afterwards.
type MacroProvider struct {
	ctx    *asmctx.Context
	parser *parser.Parser
}

func NewMacroProvider(ctx *asmctx.Context, p *parser.Parser) *MacroProvider {
	return &MacroProvider{ctx: ctx, parser: p}
}

func (p *MacroProvider) Kind() ProviderKind { return ProviderMacro }

func (p *MacroProvider) Finished() bool {
	// exhausted invocations end here; MEXIT and the branch counter end
	// them elsewhere
	for p.ctx.IsInMacro() {
		inv := p.ctx.CurrentMacro()
		if inv.CurrentStatement < len(inv.Def.Body) {
			return false
		}
		p.ctx.LeaveMacro()
	}
	return true
}

func (p *MacroProvider) ProcessNext(proc Processor) {
	inv := p.ctx.CurrentMacro()
	stmt := inv.Def.Body[inv.CurrentStatement]
	inv.CurrentStatement++

	proc.ProcessStatement(p.substitute(stmt))
}

// substitute rewrites a body statement with the current variable values:
// the label field, then the operand field, which is re-parsed.
func (p *MacroProvider) substitute(stmt *semantics.Statement) *semantics.Statement {
	out := stmt.Clone()

	// SET/LCL/GBL labels are assignment targets; they stay variable
	// references for the CA processor to resolve
	if out.Label.Kind == semantics.LabelVariable && out.Label.Var != nil &&
		!p.parser.IsCAInstruction(stmt.Instruction) {
		text := p.variableText(out.Label.Var.Name, literalIndex(out.Label.Var))
		out.Label = p.relabel(text, out.Label.Rng)
	}

	if strings.ContainsRune(out.OperandField, '&') {
		out.OperandField = p.substituteText(out.OperandField)
		p.parser.ParseFields(out)
	}
	return out
}

func (p *MacroProvider) relabel(text string, rng diagnostics.TextRange) semantics.Label {
	switch {
	case text == "":
		return semantics.Label{Kind: semantics.LabelEmpty, Rng: rng}
	case text[0] == '.':
		return semantics.Label{
			Kind: semantics.LabelSequence,
			Seq:  semantics.SeqSym{Name: p.parser.Ids.Add(text[1:]), Rng: rng},
			Rng:  rng,
		}
	default:
		return semantics.Label{Kind: semantics.LabelOrdinary, Name: p.parser.Ids.Add(text), Rng: rng}
	}
}

// substituteText replaces &NAME and &NAME(n) references with their values;
// && is the literal ampersand and a trailing '.' closes a reference.
func (p *MacroProvider) substituteText(text string) string {
	var b strings.Builder
	i := 0
	for i < len(text) {
		c := text[i]
		if c != '&' {
			b.WriteByte(c)
			i++
			continue
		}
		if i+1 < len(text) && text[i+1] == '&' {
			b.WriteByte('&')
			i += 2
			continue
		}
		start := i
		i++
		nameStart := i
		for i < len(text) && isVarNameChar(text[i]) {
			i++
		}
		if i == nameStart {
			b.WriteByte('&')
			continue
		}
		name, ok := p.parser.Ids.Find(text[nameStart:i])
		if !ok || p.ctx.GetVarSym(name) == nil {
			// leave unknown references untouched
			b.WriteString(text[start:i])
			continue
		}
		idx := 0
		if i < len(text) && text[i] == '(' {
			sub, next, ok := literalSubscript(text, i)
			if !ok {
				// computed subscript: keep the reference so the re-parse
				// sees it; the subscript text is substituted next
				b.WriteString(text[start:i])
				continue
			}
			idx = sub
			i = next
		}
		b.WriteString(p.variableText(name, idx))
		if i < len(text) && text[i] == '.' {
			// concatenation dot
			i++
		}
	}
	return b.String()
}

func (p *MacroProvider) variableText(name ids.Id, idx int) string {
	v := p.ctx.GetVarSym(name)
	if v == nil {
		return ""
	}
	if v.Param != nil {
		return v.Param.Value
	}
	return v.Set.Get(idx).Char()
}

// literalSubscript reads a literal (n) subscript; computed subscripts are
// left in place for expression evaluation.
func literalSubscript(text string, open int) (int, int, bool) {
	i := open + 1
	start := i
	for i < len(text) && text[i] >= '0' && text[i] <= '9' {
		i++
	}
	if i == start || i >= len(text) || text[i] != ')' {
		return 0, 0, false
	}
	n, err := strconv.Atoi(text[start:i])
	if err != nil {
		return 0, 0, false
	}
	return n, i + 1, true
}

func literalIndex(v *semantics.VarRef) int {
	if len(v.Subscript) != 1 {
		return 0
	}
	if num, ok := v.Subscript[0].(*expressions.Number); ok {
		return int(num.Value)
	}
	return 0
}

func isVarNameChar(c byte) bool {
	return c >= 'A' && c <= 'Z' || c >= 'a' && c <= 'z' || c >= '0' && c <= '9' ||
		c == '@' || c == '#' || c == '$' || c == '_'
}
