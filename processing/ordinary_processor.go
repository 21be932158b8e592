package processing

import (
	"strings"

	"github.com/hlasmtools/hlasm-ls/asmctx"
	"github.com/hlasmtools/hlasm-ls/datadef"
	"github.com/hlasmtools/hlasm-ls/diagnostics"
	"github.com/hlasmtools/hlasm-ls/expressions"
	"github.com/hlasmtools/hlasm-ls/ids"
	"github.com/hlasmtools/hlasm-ls/library"
	"github.com/hlasmtools/hlasm-ls/parser"
	"github.com/hlasmtools/hlasm-ls/semantics"
	"github.com/hlasmtools/hlasm-ls/util"
)

// ordinaryProcessor consumes statements in the default processing state:
// it routes CA instructions to the CA processor, resolves COPY includes,
// checks DC/DS operands, expands macro calls and defines ordinary symbols.
type ordinaryProcessor struct {
	ctx       *asmctx.Context
	diags     *diagnostics.Sink
	parser    *parser.Parser
	libs      library.Provider
	branching BranchingProvider
	listener  StateListener

	ca *caProcessor

	copyID ids.Id
	dcID   ids.Id
	dsID   ids.Id

	locationCounter int32
}

func newOrdinaryProcessor(ctx *asmctx.Context, diags *diagnostics.Sink, p *parser.Parser, libs library.Provider, branching BranchingProvider, listener StateListener, attrs AttributeProvider) *ordinaryProcessor {
	eval := expressions.NewEvaluator(&attributeEnv{ctx: ctx, attrs: attrs}, diags)
	return &ordinaryProcessor{
		ctx:       ctx,
		diags:     diags,
		parser:    p,
		libs:      libs,
		branching: branching,
		listener:  listener,
		ca:        newCAProcessor(ctx, diags, eval, branching, listener),
		copyID:    ctx.Ids.Add("COPY"),
		dcID:      ctx.Ids.Add("DC"),
		dsID:      ctx.Ids.Add("DS"),
	}
}

// attributeEnv augments the context environment with forward-reference
// attribute lookahead.
type attributeEnv struct {
	ctx   *asmctx.Context
	attrs AttributeProvider
}

func (e *attributeEnv) VariableValue(name ids.Id, subscript int) (expressions.Value, bool) {
	return e.ctx.VariableValue(name, subscript)
}

func (e *attributeEnv) SymbolValue(name ids.Id) (int32, bool) {
	return e.ctx.SymbolValue(name)
}

func (e *attributeEnv) SymbolAttribute(attr byte, name ids.Id) (int32, bool) {
	if v, ok := e.ctx.SymbolAttribute(attr, name); ok {
		return v, ok
	}
	e.attrs.ResolveForwardAttributeReferences([]ids.Id{name})
	return e.ctx.SymbolAttribute(attr, name)
}

func (p *ordinaryProcessor) Kind() ProcessorKind { return ProcOrdinary }

func (p *ordinaryProcessor) Finished() bool { return false }

func (p *ordinaryProcessor) TerminalCondition(prov ProviderKind) bool {
	return prov == ProviderOpencode
}

func (p *ordinaryProcessor) EndProcessing() {}

func (p *ordinaryProcessor) ProcessStatement(stmt *semantics.Statement) {
	if p.ca.Handles(stmt.Instruction) {
		p.ca.Process(stmt)
		return
	}

	p.registerSeqSym(stmt)

	switch stmt.Instruction {
	case p.copyID:
		p.processCopy(stmt)
	case p.dcID:
		p.processDataDef(stmt, true)
	case p.dsID:
		p.processDataDef(stmt, false)
	default:
		if def := p.ctx.GetMacro(stmt.Instruction); def != nil {
			p.callMacro(stmt, def)
			return
		}
		p.processMachine(stmt)
	}
}

func (p *ordinaryProcessor) registerSeqSym(stmt *semantics.Statement) {
	if stmt.Label.Kind == semantics.LabelSequence {
		p.branching.RegisterSequenceSymbol(stmt.Label.Seq.Name, stmt.Label.Seq.Rng)
	}
}

// processCopy resolves a COPY statement: an unregistered member is fetched
// from the library and captured, then the registered body replays via the
// copy provider.
func (p *ordinaryProcessor) processCopy(stmt *semantics.Statement) {
	if len(stmt.Operands) != 1 || stmt.Operands[0].Kind != semantics.OperandText {
		p.diags.Add(diagnostics.Errors.E022("COPY", stmt.InstrRng))
		return
	}
	op := stmt.Operands[0]
	name := strings.TrimSpace(op.Text)
	member := p.ctx.Ids.Add(name)

	if p.ctx.GetCopyMember(member) == nil {
		text, ok := p.libs.Fetch(name)
		if !ok {
			p.diags.Add(diagnostics.Errors.E058(name, op.Rng))
			return
		}
		util.Log.WithField("member", name).Debug("capturing copy member")
		p.listener.StartCopyMember(CopyStartData{
			Member:   member,
			Source:   text,
			Location: diagnostics.Location{File: name, Pos: diagnostics.TextPosition{}},
		})
	}

	p.ctx.EnterCopyMember(member)
}

// processDataDef checks DC/DS operands against the type registry, sums the
// emitted length and defines the label with its data attributes.
func (p *ordinaryProcessor) processDataDef(stmt *semantics.Statement, isDC bool) {
	ops := p.parser.ParseDataDefOperands(stmt.OperandField, stmt.OperandRng)
	if len(ops) == 0 {
		p.diags.Add(diagnostics.Errors.E022("data definition", stmt.InstrRng))
		return
	}

	var total uint64
	var firstUnit uint64
	var firstType byte
	for i, op := range ops {
		if op == nil {
			continue
		}
		t := datadef.TypeOf(op.TypeChar, op.Extension)

		if isDC && !op.Nominal.Present {
			p.diags.Add(diagnostics.Errors.D016(t.TypeStr, op.Rng))
			continue
		}

		t.Check(op, p.diags, op.Nominal.Present)
		total += t.OperandLength(op)
		if i == 0 {
			firstUnit = firstConstantLength(t, op)
			firstType = op.TypeChar
		}
	}

	if stmt.Label.Kind == semantics.LabelOrdinary {
		p.defineSymbol(stmt.Label.Name, stmt.Label.Rng, &asmctx.OrdinarySymbol{
			Name:    stmt.Label.Name,
			Kind:    asmctx.SymbolRelocatable,
			Value:   p.locationCounter,
			Section: ids.Empty,
			Attributes: map[byte]int32{
				'L': int32(firstUnit),
				'T': int32(firstType),
			},
			Location: diagnostics.Location{File: p.ctx.File, Pos: stmt.Label.Rng.Start},
		})
	}

	p.locationCounter += int32(total)
}

// callMacro binds the prototype parameters to the call operands and enters
// the invocation; the macro provider takes over on the next iteration.
func (p *ordinaryProcessor) callMacro(stmt *semantics.Statement, def *asmctx.Macro) {
	args := make(map[ids.Id]string)

	for _, param := range def.Params {
		if param.Keyword {
			args[param.Name] = param.Default
		}
	}

	positional := 0
	var positionals []asmctx.MacroArg
	for _, param := range def.Params {
		if !param.Keyword {
			positionals = append(positionals, param)
		}
	}

	for _, op := range stmt.Operands {
		if op.Kind == semantics.OperandEmpty {
			positional++
			continue
		}
		text := op.Text
		if name, value, ok := keywordArg(text); ok {
			if id, found := p.ctx.Ids.Find(name); found {
				if paramByName(def.Params, id) != nil {
					args[id] = value
					continue
				}
			}
		}
		if positional < len(positionals) {
			args[positionals[positional].Name] = text
		}
		positional++
	}

	if def.NameParam != ids.Empty && stmt.Label.Kind == semantics.LabelOrdinary {
		args[def.NameParam] = p.ctx.Ids.Text(stmt.Label.Name)
	}

	p.ctx.LSP.DeferOrdinaryOccurrence(asmctx.Occurrence{Name: def.Name, Rng: stmt.InstrRng, File: p.ctx.File})
	p.ctx.EnterMacro(def, args)
}

// processMachine handles everything else: a labeled statement defines a
// relocatable symbol; the instruction itself is outside this engine's
// scope.
func (p *ordinaryProcessor) processMachine(stmt *semantics.Statement) {
	if stmt.Label.Kind == semantics.LabelOrdinary {
		p.defineSymbol(stmt.Label.Name, stmt.Label.Rng, &asmctx.OrdinarySymbol{
			Name:       stmt.Label.Name,
			Kind:       asmctx.SymbolRelocatable,
			Value:      p.locationCounter,
			Attributes: map[byte]int32{'T': 'I'},
			Location:   diagnostics.Location{File: p.ctx.File, Pos: stmt.Label.Rng.Start},
		})
	}
	if stmt.Instruction != ids.Empty {
		p.locationCounter += 4
	}
}

func (p *ordinaryProcessor) defineSymbol(name ids.Id, rng diagnostics.TextRange, sym *asmctx.OrdinarySymbol) {
	p.ctx.AddOrdinarySymbol(sym)
	p.ctx.LSP.DeferOrdinaryDefinition(asmctx.Occurrence{Name: name, Rng: rng, File: p.ctx.File})
}

// firstConstantLength is the length attribute of a data definition: the
// explicit length modifier, or the assembled length of the first constant
// of the nominal value.
func firstConstantLength(t *datadef.Type, op *datadef.Operand) uint64 {
	if op.Length.Present && !op.BitLength {
		return uint64(op.Length.Value)
	}
	nom := op.Nominal
	if !nom.Present {
		return t.NominalLength(&nom)
	}
	if nom.Kind == datadef.NominalString {
		s := nom.String
		if i := strings.IndexByte(s, ','); i >= 0 {
			s = s[:i]
		}
		first := datadef.NominalValue{Present: true, Kind: nom.Kind, String: s}
		return t.NominalLength(&first)
	}
	if len(nom.Exprs) > 1 {
		first := datadef.NominalValue{Present: true, Kind: nom.Kind, Exprs: nom.Exprs[:1]}
		return t.NominalLength(&first)
	}
	return t.NominalLength(&nom)
}

func keywordArg(text string) (name, value string, ok bool) {
	if len(text) == 0 || text[0] == '\'' {
		return "", "", false
	}
	eq := strings.IndexByte(text, '=')
	if eq <= 0 {
		return "", "", false
	}
	name = strings.TrimPrefix(text[:eq], "&")
	return name, text[eq+1:], true
}

func paramByName(params []asmctx.MacroArg, name ids.Id) *asmctx.MacroArg {
	for i := range params {
		if params[i].Name == name {
			return &params[i]
		}
	}
	return nil
}
