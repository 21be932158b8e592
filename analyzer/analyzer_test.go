package analyzer_test

import (
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hlasmtools/hlasm-ls/analyzer"
	"github.com/hlasmtools/hlasm-ls/expressions"
	"github.com/hlasmtools/hlasm-ls/library"
)

func analyze(t *testing.T, source string) *analyzer.Result {
	t.Helper()
	return analyzer.Analyze(source, analyzer.Options{FileName: "test.hlasm"})
}

func diagnosticCodes(r *analyzer.Result) []string {
	var codes []string
	for _, d := range r.Diagnostics {
		codes = append(codes, d.Code)
	}
	return codes
}

func variableA(t *testing.T, r *analyzer.Result, name string, subscript int) int32 {
	t.Helper()
	id, ok := r.Context.Ids.Find(name)
	require.True(t, ok, "variable %s never interned", name)
	v, ok := r.Context.VariableValue(id, subscript)
	require.True(t, ok, "variable %s not defined", name)
	n, _ := v.Number()
	return n
}

func TestSetScalarThenArray(t *testing.T) {
	result := analyze(t, `
         LCLA  &I
&I       SETA  5
&ARR(1)  SETA  10
&ARR(3)  SETA  30
`)

	assert.Empty(t, diagnosticCodes(result))
	assert.Equal(t, int32(5), variableA(t, result, "I", 0))
	assert.Equal(t, int32(10), variableA(t, result, "ARR", 1))
	assert.Equal(t, int32(30), variableA(t, result, "ARR", 3))

	// the array is sparse, unset entries read as zero
	assert.Equal(t, int32(0), variableA(t, result, "ARR", 2))
}

func TestSetKindConflict(t *testing.T) {
	result := analyze(t, `
&X       SETA  1
&X       SETC  'HI'
`)

	require.Equal(t, []string{"E013"}, diagnosticCodes(result))
	assert.Equal(t, int32(1), variableA(t, result, "X", 0))
}

func TestScalarVersusIndexedMismatch(t *testing.T) {
	result := analyze(t, `
&X       SETA  1
&X(2)    SETA  2
`)

	require.Equal(t, []string{"E013"}, diagnosticCodes(result))
}

func TestSetSubscriptMustBePositive(t *testing.T) {
	result := analyze(t, `
&ARR(0)  SETA  1
`)

	require.Equal(t, []string{"E012"}, diagnosticCodes(result))
}

func TestSetWithoutOperandIsMissingOperand(t *testing.T) {
	result := analyze(t, `
&X       SETA
`)

	require.Equal(t, []string{"E022"}, diagnosticCodes(result))
}

func TestSetWithNonVariableLabel(t *testing.T) {
	result := analyze(t, `
LBL      SETA  1
`)

	require.Equal(t, []string{"E010"}, diagnosticCodes(result))
}

func TestComputedAGO(t *testing.T) {
	result := analyze(t, `
         AGO   (2).L1,.L2,.L3
.L2      ANOP
`)

	assert.Empty(t, diagnosticCodes(result))
	// one successful jump decrements the opencode branch counter
	assert.Equal(t, result.Context.BranchCounterLimit-1, result.Context.BranchCounter())
}

func TestComputedAGOOutOfRangeDoesNotJump(t *testing.T) {
	result := analyze(t, `
         AGO   (5).L1,.L2
.L1      ANOP
.L2      ANOP
`)

	assert.Empty(t, diagnosticCodes(result))
	assert.Equal(t, result.Context.BranchCounterLimit, result.Context.BranchCounter())
}

func TestForwardSequenceSymbolViaLookahead(t *testing.T) {
	result := analyze(t, `
         AGO   .LATER
&X       SETA  1
.LATER   ANOP
`)

	assert.Empty(t, diagnosticCodes(result))

	// the jump skipped the assignment
	id, ok := result.Context.Ids.Find("X")
	require.True(t, ok)
	_, defined := result.Context.VariableValue(id, 0)
	assert.False(t, defined)
}

func TestFailedLookaheadDiagnosesAndContinues(t *testing.T) {
	result := analyze(t, `
         AGO   .NOPE
&X       SETA  1
`)

	require.Equal(t, []string{"E047"}, diagnosticCodes(result))

	// processing continued after the failed jump
	assert.Equal(t, int32(1), variableA(t, result, "X", 0))
}

func TestAIFShortCircuit(t *testing.T) {
	result := analyze(t, `
&A       SETA  1
         AIF   (&A EQ 2).X,(&A EQ 1).Y
&SKIP    SETA  9
.Y       ANOP
.X       ANOP
`)

	assert.Empty(t, diagnosticCodes(result))

	id, ok := result.Context.Ids.Find("SKIP")
	require.True(t, ok)
	_, defined := result.Context.VariableValue(id, 0)
	assert.False(t, defined)
}

func TestAIFAllFalseFallsThrough(t *testing.T) {
	result := analyze(t, `
&A       SETA  1
         AIF   (&A EQ 2).X
&B       SETA  3
.X       ANOP
`)

	assert.Empty(t, diagnosticCodes(result))
	assert.Equal(t, int32(3), variableA(t, result, "B", 0))
}

func TestDuplicateSequenceSymbol(t *testing.T) {
	result := analyze(t, `
.L       ANOP
.L       ANOP
`)

	require.Equal(t, []string{"E045"}, diagnosticCodes(result))
}

func TestDCValidationScenario(t *testing.T) {
	result := analyze(t, `
         DC   F'1,-2E3,+4.5'
         DC   P'12,-345'
         DC   H'1,'
`)

	require.Equal(t, []string{"D010"}, diagnosticCodes(result))
	assert.Equal(t, 3, result.Diagnostics[0].Range.Start.Line)
}

func TestDCDefinesLengthAttribute(t *testing.T) {
	result := analyze(t, `
DATA     DC    F'1'
&L       SETA  L'DATA
`)

	assert.Empty(t, diagnosticCodes(result))
	assert.Equal(t, int32(4), variableA(t, result, "L", 0))
}

func TestForwardAttributeReferenceViaLookahead(t *testing.T) {
	result := analyze(t, `
&L       SETA  L'DATA
DATA     DC    FD'1'
`)

	assert.Empty(t, diagnosticCodes(result))
	assert.Equal(t, int32(8), variableA(t, result, "L", 0))
}

func TestLclGblDeclarations(t *testing.T) {
	result := analyze(t, `
         LCLA  &A
         LCLA  &A
`)
	require.Equal(t, []string{"E051"}, diagnosticCodes(result))

	result = analyze(t, `
         LCLA  &A,&A
`)
	require.Equal(t, []string{"E051"}, diagnosticCodes(result))

	result = analyze(t, `
LBL      LCLB  &B
`)
	require.Equal(t, []string{"W010"}, diagnosticCodes(result))
}

func TestMisplacedMendAndMexit(t *testing.T) {
	result := analyze(t, "         MEND\n")
	require.Equal(t, []string{"E054"}, diagnosticCodes(result))

	result = analyze(t, "         MEXIT\n")
	require.Equal(t, []string{"E054"}, diagnosticCodes(result))
}

func TestMacroDefinitionAndExpansion(t *testing.T) {
	result := analyze(t, `
         MACRO
         INCR  &X
&R       SETA  &X+1
         MEND
         INCR  5
`)

	assert.Empty(t, diagnosticCodes(result))

	// the macro registered under its prototype name
	id, ok := result.Context.Ids.Find("INCR")
	require.True(t, ok)
	require.NotNil(t, result.Context.GetMacro(id))
}

func TestMacroGlobalsSurviveExpansion(t *testing.T) {
	result := analyze(t, `
         GBLA  &CNT
         MACRO
         BUMP
         GBLA  &CNT
&CNT     SETA  &CNT+1
         MEND
         BUMP
         BUMP
`)

	assert.Empty(t, diagnosticCodes(result))
	assert.Equal(t, int32(2), variableA(t, result, "CNT", 0))
}

func TestMacroBranchCounterTerminatesRunawayLoop(t *testing.T) {
	result := analyze(t, `
         GBLA  &CNT
         MACRO
         LOOPM
         GBLA  &CNT
         ACTR  1
.TOP     ANOP
&CNT     SETA  &CNT+1
         AGO   .TOP
         MEND
         LOOPM
`)

	assert.Empty(t, diagnosticCodes(result))
	// one jump is granted before the counter trips and ends the invocation
	assert.Equal(t, int32(2), variableA(t, result, "CNT", 0))
}

func TestMacroSequenceSymbolLoop(t *testing.T) {
	result := analyze(t, `
         GBLA  &N
         MACRO
         COUNT3
         GBLA  &N
&N       SETA  0
.TOP     ANOP
&N       SETA  &N+1
         AIF   (&N LT 3).TOP
         MEND
         COUNT3
`)

	assert.Empty(t, diagnosticCodes(result))
	assert.Equal(t, int32(3), variableA(t, result, "N", 0))
}

func TestSetaToMacroParameterRejected(t *testing.T) {
	result := analyze(t, `
         MACRO
         BAD   &P
&P       SETA  1
         MEND
         BAD   7
`)

	require.Equal(t, []string{"E030"}, diagnosticCodes(result))
}

func TestCopyMemberExpansion(t *testing.T) {
	libs := library.MapProvider{
		"CPY1": "&C       SETA  7\n",
	}
	result := analyzer.Analyze("         COPY  CPY1\n", analyzer.Options{
		FileName:  "test.hlasm",
		Libraries: libs,
	})

	assert.Empty(t, diagnosticCodes(result))
	assert.Equal(t, int32(7), variableA(t, result, "C", 0))
}

func TestNestedCopyMembers(t *testing.T) {
	libs := library.MapProvider{
		"OUTER": "&A       SETA  1\n         COPY  INNER\n",
		"INNER": "&B       SETA  2\n",
	}
	result := analyzer.Analyze("         COPY  OUTER\n", analyzer.Options{
		FileName:  "test.hlasm",
		Libraries: libs,
	})

	assert.Empty(t, diagnosticCodes(result))
	assert.Equal(t, int32(1), variableA(t, result, "A", 0))
	assert.Equal(t, int32(2), variableA(t, result, "B", 0))
}

func TestMissingCopyMember(t *testing.T) {
	result := analyze(t, "         COPY  NOSUCH\n")
	require.Equal(t, []string{"E058"}, diagnosticCodes(result))
}

func TestActrAcceptsNegativeValues(t *testing.T) {
	result := analyze(t, `
         ACTR  -1
.A       ANOP
         AGO   .A
`)

	// the first jump trips the exhausted counter; opencode processing
	// stops without a diagnostic
	assert.Empty(t, diagnosticCodes(result))
}

func TestCancellationStopsProcessing(t *testing.T) {
	var cancel atomic.Bool
	cancel.Store(true)

	result := analyzer.Analyze("&X       SETA  1\n", analyzer.Options{
		FileName: "test.hlasm",
		Cancel:   &cancel,
	})

	assert.Empty(t, result.Diagnostics)
	if id, ok := result.Context.Ids.Find("X"); ok {
		_, defined := result.Context.VariableValue(id, 0)
		assert.False(t, defined, "no statement was processed")
	}
}

func TestSetbBooleanExpression(t *testing.T) {
	result := analyze(t, `
&B       SETB  (1 EQ 1)
&C       SETB  (2 LT 1)
`)

	assert.Empty(t, diagnosticCodes(result))

	idB, _ := result.Context.Ids.Find("B")
	v, ok := result.Context.VariableValue(idB, 0)
	require.True(t, ok)
	assert.Equal(t, expressions.SetB, v.Kind)
	assert.True(t, v.B)

	idC, _ := result.Context.Ids.Find("C")
	v, ok = result.Context.VariableValue(idC, 0)
	require.True(t, ok)
	assert.False(t, v.B)
}

func TestSetcCharacterValues(t *testing.T) {
	result := analyze(t, `
&S       SETC  'HELLO'
&T       SETC  '&S'.'!'
`)

	assert.Empty(t, diagnosticCodes(result))

	idT, _ := result.Context.Ids.Find("T")
	v, ok := result.Context.VariableValue(idT, 0)
	require.True(t, ok)
	assert.Equal(t, "HELLO!", v.C)
}

func TestOrdinarySymbolCrossReferenceFlush(t *testing.T) {
	result := analyze(t, `
DATA     DC    F'1,2'
`)

	assert.Empty(t, diagnosticCodes(result))

	id, ok := result.Context.Ids.Find("DATA")
	require.True(t, ok)
	info := result.Context.LSP.OrdSymbols[id]
	require.NotNil(t, info, "deferred definition was flushed")
	assert.Contains(t, info.Value, "Relocatable Symbol")
	assert.Contains(t, info.Value, "L: 4")
}
