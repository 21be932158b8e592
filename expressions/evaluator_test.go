package expressions_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/hlasmtools/hlasm-ls/diagnostics"
	"github.com/hlasmtools/hlasm-ls/expressions"
	"github.com/hlasmtools/hlasm-ls/ids"
)

type fakeEnv struct {
	vars  map[ids.Id]expressions.Value
	attrs map[byte]int32
}

func (e *fakeEnv) VariableValue(name ids.Id, subscript int) (expressions.Value, bool) {
	v, ok := e.vars[name]
	return v, ok
}

func (e *fakeEnv) SymbolValue(ids.Id) (int32, bool) { return 0, false }

func (e *fakeEnv) SymbolAttribute(attr byte, name ids.Id) (int32, bool) {
	v, ok := e.attrs[attr]
	return v, ok
}

func newEvaluator(env *fakeEnv) (*expressions.Evaluator, *diagnostics.Sink) {
	sink := diagnostics.NewSink()
	return expressions.NewEvaluator(env, sink), sink
}

func num(v int32) expressions.Node { return &expressions.Number{Value: v} }
func str(s string) expressions.Node { return &expressions.Str{Value: s} }

func TestArithmetic(t *testing.T) {
	e, sink := newEvaluator(&fakeEnv{})

	sum := &expressions.Binary{Op: expressions.OpAdd, L: num(2), R: num(3)}
	assert.Equal(t, int32(5), e.Number(sum))

	prod := &expressions.Binary{Op: expressions.OpMul, L: num(4), R: num(-3)}
	assert.Equal(t, int32(-12), e.Number(prod))

	div := &expressions.Binary{Op: expressions.OpDiv, L: num(7), R: num(2)}
	assert.Equal(t, int32(3), e.Number(div))

	// division by zero yields zero, not a fault
	zero := &expressions.Binary{Op: expressions.OpDiv, L: num(7), R: num(0)}
	assert.Equal(t, int32(0), e.Number(zero))

	assert.Empty(t, sink.Diagnostics())
}

func TestComparisonAndLogic(t *testing.T) {
	e, _ := newEvaluator(&fakeEnv{})

	lt := &expressions.Binary{Op: expressions.OpLT, L: num(1), R: num(2)}
	assert.True(t, e.Bool(lt))

	and := &expressions.Binary{Op: expressions.OpAnd, L: lt, R: &expressions.Binary{Op: expressions.OpEQ, L: num(5), R: num(5)}}
	assert.True(t, e.Bool(and))

	not := &expressions.Unary{Op: expressions.OpNot, Operand: lt}
	assert.False(t, e.Bool(not))
}

func TestCharacterComparisonComparesStrings(t *testing.T) {
	e, _ := newEvaluator(&fakeEnv{})

	eq := &expressions.Binary{Op: expressions.OpEQ, L: str("HI"), R: str("HI")}
	assert.True(t, e.Bool(eq))

	lt := &expressions.Binary{Op: expressions.OpLT, L: str("ABC"), R: str("ABD")}
	assert.True(t, e.Bool(lt))
}

func TestConcatenation(t *testing.T) {
	e, _ := newEvaluator(&fakeEnv{})

	cat := &expressions.Binary{Op: expressions.OpConcat, L: str("AB"), R: num(7)}
	assert.Equal(t, "AB7", e.Evaluate(cat).Char())
}

func TestConversions(t *testing.T) {
	n, ok := expressions.CVal("42").Number()
	assert.True(t, ok)
	assert.Equal(t, int32(42), n)

	_, ok = expressions.CVal("NaN").Number()
	assert.False(t, ok)

	assert.Equal(t, "1", expressions.BVal(true).Char())
	assert.Equal(t, "-7", expressions.AVal(-7).Char())
	assert.True(t, expressions.AVal(3).Bool())
	assert.False(t, expressions.AVal(0).Bool())
}

func TestUndefinedVariableDiagnoses(t *testing.T) {
	storage := ids.NewStorage()
	e, sink := newEvaluator(&fakeEnv{vars: map[ids.Id]expressions.Value{}})

	ref := &expressions.VarRef{Name: storage.Add("MISSING")}
	assert.Equal(t, int32(0), e.Number(ref))
	assert.NotEmpty(t, sink.Diagnostics())
	assert.Equal(t, "E012", sink.Diagnostics()[0].Code)
}

func TestVariableLookup(t *testing.T) {
	storage := ids.NewStorage()
	id := storage.Add("X")
	e, sink := newEvaluator(&fakeEnv{vars: map[ids.Id]expressions.Value{id: expressions.AVal(11)}})

	ref := &expressions.VarRef{Name: id}
	assert.Equal(t, int32(11), e.Number(ref))
	assert.Empty(t, sink.Diagnostics())
}
