package processing

import (
	"github.com/hlasmtools/hlasm-ls/asmctx"
	"github.com/hlasmtools/hlasm-ls/diagnostics"
	"github.com/hlasmtools/hlasm-ls/expressions"
	"github.com/hlasmtools/hlasm-ls/ids"
	"github.com/hlasmtools/hlasm-ls/semantics"
)

// caProcessor interprets the conditional-assembly directives. It is
// invoked from within the ordinary processor; instruction names dispatch
// through a per-context table of handlers built at start.
type caProcessor struct {
	ctx       *asmctx.Context
	diags     *diagnostics.Sink
	eval      *expressions.Evaluator
	branching BranchingProvider
	listener  StateListener

	table map[ids.Id]func(stmt *semantics.Statement)
}

func newCAProcessor(ctx *asmctx.Context, diags *diagnostics.Sink, eval *expressions.Evaluator, branching BranchingProvider, listener StateListener) *caProcessor {
	p := &caProcessor{
		ctx:       ctx,
		diags:     diags,
		eval:      eval,
		branching: branching,
		listener:  listener,
	}
	p.table = p.createTable()
	return p
}

func (p *caProcessor) createTable() map[ids.Id]func(stmt *semantics.Statement) {
	add := p.ctx.Ids.Add
	return map[ids.Id]func(stmt *semantics.Statement){
		add("SETA"):   func(s *semantics.Statement) { p.processSET(s, expressions.SetA) },
		add("SETB"):   func(s *semantics.Statement) { p.processSET(s, expressions.SetB) },
		add("SETC"):   func(s *semantics.Statement) { p.processSET(s, expressions.SetC) },
		add("LCLA"):   func(s *semantics.Statement) { p.processGBLLCL(s, expressions.SetA, false) },
		add("LCLB"):   func(s *semantics.Statement) { p.processGBLLCL(s, expressions.SetB, false) },
		add("LCLC"):   func(s *semantics.Statement) { p.processGBLLCL(s, expressions.SetC, false) },
		add("GBLA"):   func(s *semantics.Statement) { p.processGBLLCL(s, expressions.SetA, true) },
		add("GBLB"):   func(s *semantics.Statement) { p.processGBLLCL(s, expressions.SetB, true) },
		add("GBLC"):   func(s *semantics.Statement) { p.processGBLLCL(s, expressions.SetC, true) },
		add("ANOP"):   p.processANOP,
		add("ACTR"):   p.processACTR,
		add("AGO"):    p.processAGO,
		add("AIF"):    p.processAIF,
		add("MACRO"):  p.processMACRO,
		add("MEND"):   p.processMEND,
		add("MEXIT"):  p.processMEXIT,
		add("AREAD"):  p.processAREAD,
		add("ASPACE"): p.processASPACE,
		add("AEJECT"): p.processAEJECT,
		ids.Empty:     p.processEmpty,
	}
}

// Handles reports whether instr dispatches through the CA table.
func (p *caProcessor) Handles(instr ids.Id) bool {
	_, ok := p.table[instr]
	return ok
}

func (p *caProcessor) Process(stmt *semantics.Statement) {
	p.table[stmt.Instruction](stmt)
}

// registerSeqSym records the statement's sequence label; any other
// non-empty label on a CA statement is ignored with a warning.
func (p *caProcessor) registerSeqSym(stmt *semantics.Statement) {
	switch stmt.Label.Kind {
	case semantics.LabelSequence:
		p.branching.RegisterSequenceSymbol(stmt.Label.Seq.Name, stmt.Label.Seq.Rng)
	case semantics.LabelEmpty:
	default:
		p.diags.Add(diagnostics.Warnings.W010("Name field", stmt.Label.Rng))
	}
}

// testSymbolForAssignment validates the target of a SET assignment: not a
// macro parameter, at most one subscript with value >= 1 and, when the
// variable exists, a matching SET kind and scalarity.
func (p *caProcessor) testSymbolForAssignment(symbol *semantics.VarRef, kind expressions.SetKind) (setSym *asmctx.SetSymbol, idx int, ok bool) {
	idx = -1

	varSym := p.ctx.GetVarSym(symbol.Name)

	if varSym != nil && varSym.Param != nil {
		p.diags.Add(diagnostics.Errors.E030("symbolic parameter", symbol.Rng))
		return nil, 0, false
	}

	if len(symbol.Subscript) > 1 {
		p.diags.Add(diagnostics.Errors.E020("variable symbol subscript", symbol.Rng))
		return nil, 0, false
	}
	if len(symbol.Subscript) == 1 {
		idx = int(p.eval.Number(symbol.Subscript[0]))
		if idx < 1 {
			p.diags.Add(diagnostics.Errors.E012("subscript value has to be 1 or more", symbol.Rng))
			return nil, 0, false
		}
	}

	if varSym == nil {
		return nil, idx, true
	}

	set := varSym.Set
	if set == nil {
		panic("processing: variable symbol with no value store")
	}
	if set.Kind != kind {
		p.diags.Add(diagnostics.Errors.E013("wrong type of variable symbol", symbol.Rng))
		return nil, 0, false
	}
	if (set.Scalar && len(symbol.Subscript) == 1) || (!set.Scalar && len(symbol.Subscript) == 0) {
		p.diags.Add(diagnostics.Errors.E013("subscript error", symbol.Rng))
		return nil, 0, false
	}

	return set, idx, true
}

func (p *caProcessor) prepareSET(stmt *semantics.Statement, kind expressions.SetKind) (setSym *asmctx.SetSymbol, idx int, values []expressions.Value, ok bool) {
	if stmt.Label.Kind != semantics.LabelVariable {
		p.diags.Add(diagnostics.Errors.E010("label", stmt.Label.Rng))
		return nil, 0, nil, false
	}
	symbol := stmt.Label.Var

	setSym, idx, ok = p.testSymbolForAssignment(symbol, kind)
	if !ok {
		return nil, 0, nil, false
	}

	hasOperand := false
	for _, op := range stmt.Operands {
		if op.Kind == semantics.OperandEmpty {
			continue
		}
		hasOperand = true

		var value expressions.Value
		switch op.Kind {
		case semantics.OperandCAExpr:
			value = p.eval.Evaluate(op.Expr)
		case semantics.OperandCAVar:
			value = p.eval.Evaluate(varRefNode(op.Var))
		default:
			p.diags.Add(diagnostics.Errors.E012("SET instruction", op.Rng))
			return nil, 0, nil, false
		}
		values = append(values, convertValue(value, kind))
	}

	if !hasOperand {
		p.diags.Add(diagnostics.Errors.E022("SET instruction", stmt.InstrRng))
		return nil, 0, nil, false
	}

	if setSym == nil {
		// undeclared SET symbols spring into existence in the current scope
		scalar := len(symbol.Subscript) == 0
		setSym = p.ctx.CreateLocalVariable(symbol.Name, kind, scalar).Set
	}
	return setSym, idx, values, true
}

func (p *caProcessor) processSET(stmt *semantics.Statement, kind expressions.SetKind) {
	setSym, idx, values, ok := p.prepareSET(stmt, kind)
	if !ok {
		return
	}

	if idx < 0 {
		// scalar assignment
		setSym.Set(0, values[0])
		return
	}
	for k, value := range values {
		setSym.Set(idx+k, value)
	}
}

func (p *caProcessor) processGBLLCL(stmt *semantics.Statement, kind expressions.SetKind, global bool) {
	var names []ids.Id
	var scalars []bool

	hasOperand := false
	for _, op := range stmt.Operands {
		if op.Kind == semantics.OperandEmpty {
			continue
		}
		hasOperand = true

		if op.Kind != semantics.OperandCAVar {
			p.diags.Add(diagnostics.Errors.E010("operand", op.Rng))
			return
		}
		id := op.Var.Name

		if existing := p.ctx.GetVarSym(id); existing != nil {
			if existing.Set != nil {
				p.diags.Add(diagnostics.Errors.E051(p.ctx.Ids.Text(id), op.Rng))
			} else {
				p.diags.Add(diagnostics.Errors.E052(p.ctx.Ids.Text(id), op.Rng))
			}
			continue
		}
		if containsId(names, id) {
			p.diags.Add(diagnostics.Errors.E051(p.ctx.Ids.Text(id), op.Rng))
			continue
		}
		names = append(names, id)
		scalars = append(scalars, len(op.Var.Subscript) == 0)
	}

	if !hasOperand {
		p.diags.Add(diagnostics.Errors.E022("variable symbol definition", stmt.InstrRng))
		return
	}

	if stmt.Label.Kind != semantics.LabelEmpty {
		p.diags.Add(diagnostics.Warnings.W010("Label field", stmt.Label.Rng))
	}

	for i, name := range names {
		if global {
			p.ctx.CreateGlobalVariable(name, kind, scalars[i])
		} else {
			p.ctx.CreateLocalVariable(name, kind, scalars[i])
		}
	}
}

func (p *caProcessor) processANOP(stmt *semantics.Statement) {
	p.registerSeqSym(stmt)
}

func (p *caProcessor) prepareACTR(stmt *semantics.Statement) (int32, bool) {
	if len(stmt.Operands) != 1 {
		p.diags.Add(diagnostics.Errors.E020("operand", stmt.InstrRng))
		return 0, false
	}

	op := stmt.Operands[0]
	switch op.Kind {
	case semantics.OperandCAExpr:
		return p.eval.Number(op.Expr), true
	case semantics.OperandCAVar:
		return p.eval.Number(varRefNode(op.Var)), true
	default:
		p.diags.Add(diagnostics.Errors.E010("operand", op.Rng))
		return 0, false
	}
}

func (p *caProcessor) processACTR(stmt *semantics.Statement) {
	p.registerSeqSym(stmt)

	if ctr, ok := p.prepareACTR(stmt); ok {
		// negative or zero values are accepted; the next jump trips the
		// decrement-and-check
		p.ctx.SetBranchCounter(ctr)
	}
}

func (p *caProcessor) prepareAGO(stmt *semantics.Statement) (branch int32, targets []semantics.SeqSym, ok bool) {
	if len(stmt.Operands) == 0 {
		p.diags.Add(diagnostics.Errors.E022("AGO", stmt.InstrRng))
		return 0, nil, false
	}

	for _, op := range stmt.Operands {
		if op.Kind == semantics.OperandEmpty {
			p.diags.Add(diagnostics.Errors.E010("operand", op.Rng))
			return 0, nil, false
		}
	}

	first := stmt.Operands[0]
	switch first.Kind {
	case semantics.OperandCASeq:
		if len(stmt.Operands) != 1 {
			p.diags.Add(diagnostics.Errors.E010("operand", first.Rng))
			return 0, nil, false
		}
		return 1, []semantics.SeqSym{first.Seq}, true

	case semantics.OperandCABranch:
		branch = p.eval.Number(first.Expr)
		targets = append(targets, first.Seq)
		for _, op := range stmt.Operands[1:] {
			if op.Kind != semantics.OperandCASeq {
				p.diags.Add(diagnostics.Errors.E010("operand", op.Rng))
				return 0, nil, false
			}
			targets = append(targets, op.Seq)
		}
		return branch, targets, true
	}
	return 0, nil, true
}

func (p *caProcessor) processAGO(stmt *semantics.Statement) {
	p.registerSeqSym(stmt)

	branch, targets, ok := p.prepareAGO(stmt)
	if !ok {
		return
	}

	if branch > 0 && int(branch) <= len(targets) {
		target := targets[branch-1]
		p.branching.JumpInStatements(target.Name, target.Rng)
	}
}

func (p *caProcessor) prepareAIF(stmt *semantics.Statement) (condition bool, target semantics.SeqSym, ok bool) {
	if len(stmt.Operands) == 0 {
		p.diags.Add(diagnostics.Errors.E022("AIF", stmt.InstrRng))
		return false, semantics.SeqSym{}, false
	}

	hasOperand := false
	for i, op := range stmt.Operands {
		if op.Kind == semantics.OperandEmpty {
			// one trailing empty operand is tolerated
			if i == len(stmt.Operands)-1 {
				continue
			}
			p.diags.Add(diagnostics.Errors.E010("operand", op.Rng))
			return false, semantics.SeqSym{}, false
		}
		hasOperand = true

		if op.Kind != semantics.OperandCABranch {
			p.diags.Add(diagnostics.Errors.E010("operand", op.Rng))
			return false, semantics.SeqSym{}, false
		}

		// the first true condition wins; later conditions are not evaluated
		if !condition {
			condition = p.eval.Bool(op.Expr)
			target = op.Seq
		}
	}

	if !hasOperand {
		p.diags.Add(diagnostics.Errors.E022("variable symbol definition", stmt.InstrRng))
		return false, semantics.SeqSym{}, false
	}
	return condition, target, true
}

func (p *caProcessor) processAIF(stmt *semantics.Statement) {
	p.registerSeqSym(stmt)

	condition, target, ok := p.prepareAIF(stmt)
	if !ok {
		return
	}

	if condition {
		p.branching.JumpInStatements(target.Name, target.Rng)
	}
}

func (p *caProcessor) processMACRO(stmt *semantics.Statement) {
	p.registerSeqSym(stmt)
	p.listener.StartMacroDefinition(MacrodefStartData{})
}

func (p *caProcessor) processMEND(stmt *semantics.Statement) {
	if !p.ctx.IsInMacro() {
		p.diags.Add(diagnostics.Errors.E054(stmt.Rng))
	}
}

func (p *caProcessor) processMEXIT(stmt *semantics.Statement) {
	if !p.ctx.IsInMacro() {
		p.diags.Add(diagnostics.Errors.E054(stmt.Rng))
		return
	}
	p.ctx.LeaveMacro()
}

func (p *caProcessor) processAREAD(*semantics.Statement) {
	// TODO AREAD semantics
}

func (p *caProcessor) processASPACE(*semantics.Statement) {
	// TODO ASPACE semantics
}

func (p *caProcessor) processAEJECT(*semantics.Statement) {
	// TODO AEJECT semantics
}

func (p *caProcessor) processEmpty(*semantics.Statement) {}

func varRefNode(v *semantics.VarRef) expressions.Node {
	var sub expressions.Node
	if len(v.Subscript) == 1 {
		sub = v.Subscript[0]
	}
	return &expressions.VarRef{Name: v.Name, Subscript: sub, Rng: v.Rng}
}

func convertValue(v expressions.Value, kind expressions.SetKind) expressions.Value {
	switch kind {
	case expressions.SetA:
		n, _ := v.Number()
		return expressions.AVal(n)
	case expressions.SetB:
		return expressions.BVal(v.Bool())
	default:
		return expressions.CVal(v.Char())
	}
}

func containsId(list []ids.Id, id ids.Id) bool {
	for _, v := range list {
		if v == id {
			return true
		}
	}
	return false
}
