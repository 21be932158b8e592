package expressions

import (
	"github.com/hlasmtools/hlasm-ls/diagnostics"
	"github.com/hlasmtools/hlasm-ls/ids"
)

// Environment supplies symbol state to expression evaluation. The assembly
// context implements it; tests may provide fakes.
type Environment interface {
	// VariableValue reads a variable symbol. subscript is 0 for scalar
	// access, 1-based otherwise.
	VariableValue(name ids.Id, subscript int) (Value, bool)
	// SymbolValue reads the absolute value of an ordinary symbol.
	SymbolValue(name ids.Id) (int32, bool)
	// SymbolAttribute reads a data attribute (L, I, S, T, K, N) of a symbol.
	SymbolAttribute(attr byte, name ids.Id) (int32, bool)
}

// Evaluator evaluates CA expression trees to typed SET values. Evaluation
// never fails; malformed operations yield a zero value after appending a
// diagnostic to the sink.
type Evaluator struct {
	Env   Environment
	Diags *diagnostics.Sink
}

func NewEvaluator(env Environment, diags *diagnostics.Sink) *Evaluator {
	return &Evaluator{Env: env, Diags: diags}
}

func (e *Evaluator) Evaluate(n Node) Value {
	if n == nil {
		return AVal(0)
	}
	return n.evaluate(e)
}

// Number evaluates n and converts the result to its arithmetic value.
func (e *Evaluator) Number(n Node) int32 {
	v := e.Evaluate(n)
	num, ok := v.Number()
	if !ok {
		e.Diags.Add(diagnostics.Errors.E013("cannot convert value to arithmetic", n.Range()))
		return 0
	}
	return num
}

// Bool evaluates n and converts the result to its boolean value.
func (e *Evaluator) Bool(n Node) bool {
	return e.Evaluate(n).Bool()
}
