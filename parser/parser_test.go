package parser_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hlasmtools/hlasm-ls/diagnostics"
	"github.com/hlasmtools/hlasm-ls/ids"
	"github.com/hlasmtools/hlasm-ls/parser"
	"github.com/hlasmtools/hlasm-ls/semantics"
)

func newParser() (*parser.Parser, *diagnostics.Sink, *ids.Storage) {
	storage := ids.NewStorage()
	sink := diagnostics.NewSink()
	return parser.New(storage, sink), sink, storage
}

func TestLabelFieldKinds(t *testing.T) {
	p, _, storage := newParser()

	stmt := p.ParseLine("LABEL    LR    1,2", 0)
	require.NotNil(t, stmt)
	assert.Equal(t, semantics.LabelOrdinary, stmt.Label.Kind)
	name, _ := storage.Find("LABEL")
	assert.Equal(t, name, stmt.Label.Name)

	stmt = p.ParseLine(".SEQ     ANOP", 0)
	require.NotNil(t, stmt)
	assert.Equal(t, semantics.LabelSequence, stmt.Label.Kind)

	stmt = p.ParseLine("&VAR     SETA  1", 0)
	require.NotNil(t, stmt)
	assert.Equal(t, semantics.LabelVariable, stmt.Label.Kind)

	stmt = p.ParseLine("         LR    1,2", 0)
	require.NotNil(t, stmt)
	assert.Equal(t, semantics.LabelEmpty, stmt.Label.Kind)
}

func TestCommentAndBlankLines(t *testing.T) {
	p, _, _ := newParser()

	assert.Nil(t, p.ParseLine("* a comment", 0))
	assert.Nil(t, p.ParseLine(".* internal comment", 0))
	assert.Nil(t, p.ParseLine("   ", 0))
	assert.Nil(t, p.ParseLine("", 0))
}

func TestSubscriptedVariableLabel(t *testing.T) {
	p, _, storage := newParser()

	stmt := p.ParseLine("&ARR(3)  SETA  5", 0)
	require.NotNil(t, stmt)
	require.Equal(t, semantics.LabelVariable, stmt.Label.Kind)
	name, _ := storage.Find("ARR")
	assert.Equal(t, name, stmt.Label.Var.Name)
	assert.Len(t, stmt.Label.Var.Subscript, 1)
}

func TestCAOperandClassification(t *testing.T) {
	p, _, _ := newParser()

	stmt := p.ParseLine("         AGO   (2).L1,.L2,.L3", 0)
	require.NotNil(t, stmt)
	require.Len(t, stmt.Operands, 3)
	assert.Equal(t, semantics.OperandCABranch, stmt.Operands[0].Kind)
	assert.Equal(t, semantics.OperandCASeq, stmt.Operands[1].Kind)
	assert.Equal(t, semantics.OperandCASeq, stmt.Operands[2].Kind)

	stmt = p.ParseLine("         AIF   (&A EQ 1).X", 0)
	require.NotNil(t, stmt)
	require.Len(t, stmt.Operands, 1)
	assert.Equal(t, semantics.OperandCABranch, stmt.Operands[0].Kind)

	stmt = p.ParseLine("         LCLA  &A,&B", 0)
	require.NotNil(t, stmt)
	require.Len(t, stmt.Operands, 2)
	assert.Equal(t, semantics.OperandCAVar, stmt.Operands[0].Kind)
	assert.Equal(t, semantics.OperandCAVar, stmt.Operands[1].Kind)
}

func TestQuotedStringsProtectCommas(t *testing.T) {
	p, _, _ := newParser()

	stmt := p.ParseLine("&C       SETC  'A,B'", 0)
	require.NotNil(t, stmt)
	require.Len(t, stmt.Operands, 1)
	assert.Equal(t, semantics.OperandCAExpr, stmt.Operands[0].Kind)
}

func TestRemarksAreDropped(t *testing.T) {
	p, _, _ := newParser()

	stmt := p.ParseLine("         AGO   .X  remark text here", 0)
	require.NotNil(t, stmt)
	assert.Equal(t, ".X", stmt.OperandField)
}

func TestDataDefOperandParsing(t *testing.T) {
	p, sink, _ := newParser()

	ops := p.ParseDataDefOperands("3FL4'1'", diagnostics.TextRange{})
	require.Len(t, ops, 1)
	require.NotNil(t, ops[0])
	assert.Equal(t, byte('F'), ops[0].TypeChar)
	assert.True(t, ops[0].Dup.Present)
	assert.Equal(t, int64(3), ops[0].Dup.Value)
	assert.True(t, ops[0].Length.Present)
	assert.Equal(t, int64(4), ops[0].Length.Value)
	assert.True(t, ops[0].Nominal.Present)
	assert.Equal(t, "1", ops[0].Nominal.String)
	assert.Empty(t, sink.Diagnostics())
}

func TestDataDefExtension(t *testing.T) {
	p, _, _ := newParser()

	ops := p.ParseDataDefOperands("FD'7'", diagnostics.TextRange{})
	require.Len(t, ops, 1)
	require.NotNil(t, ops[0])
	assert.Equal(t, byte('F'), ops[0].TypeChar)
	assert.Equal(t, byte('D'), ops[0].Extension)
}

func TestDataDefBitLengthModifier(t *testing.T) {
	p, _, _ := newParser()

	ops := p.ParseDataDefOperands("BL.12'10101'", diagnostics.TextRange{})
	require.Len(t, ops, 1)
	require.NotNil(t, ops[0])
	assert.True(t, ops[0].BitLength)
	assert.Equal(t, int64(12), ops[0].Length.Value)
}

func TestDataDefExpressionNominal(t *testing.T) {
	p, _, _ := newParser()

	ops := p.ParseDataDefOperands("A(1,2,SYM)", diagnostics.TextRange{})
	require.Len(t, ops, 1)
	require.NotNil(t, ops[0])
	require.Len(t, ops[0].Nominal.Exprs, 3)
	assert.Equal(t, "SYM", ops[0].Nominal.Exprs[2].Text)
}

func TestDataDefMultipleOperands(t *testing.T) {
	p, _, _ := newParser()

	// the quote after D delimits the nominal, it is not an attribute
	ops := p.ParseDataDefOperands("D'1.5,2.5',H'1'", diagnostics.TextRange{})
	require.Len(t, ops, 2)
	require.NotNil(t, ops[0])
	require.NotNil(t, ops[1])
	assert.Equal(t, byte('D'), ops[0].TypeChar)
	assert.Equal(t, "1.5,2.5", ops[0].Nominal.String)
	assert.Equal(t, byte('H'), ops[1].TypeChar)
}

func TestDataDefUnknownType(t *testing.T) {
	p, sink, _ := newParser()

	ops := p.ParseDataDefOperands("W'1'", diagnostics.TextRange{})
	require.Len(t, ops, 1)
	assert.Nil(t, ops[0])
	require.NotEmpty(t, sink.Diagnostics())
	assert.Equal(t, "D012", sink.Diagnostics()[0].Code)
}

func TestExpressionParsingThroughStatement(t *testing.T) {
	p, sink, _ := newParser()

	stmt := p.ParseLine("&A       SETA  (1+2)*3", 0)
	require.NotNil(t, stmt)
	require.Len(t, stmt.Operands, 1)
	assert.Equal(t, semantics.OperandCAExpr, stmt.Operands[0].Kind)
	assert.NotNil(t, stmt.Operands[0].Expr)
	assert.Empty(t, sink.Diagnostics())
}

func TestSelfDefiningTerms(t *testing.T) {
	p, sink, _ := newParser()

	stmt := p.ParseLine("&A       SETA  X'1F'+B'101'", 0)
	require.NotNil(t, stmt)
	require.Len(t, stmt.Operands, 1)
	assert.Equal(t, semantics.OperandCAExpr, stmt.Operands[0].Kind)
	assert.Empty(t, sink.Diagnostics())
}

func TestAttributeReference(t *testing.T) {
	p, sink, _ := newParser()

	stmt := p.ParseLine("&L       SETA  L'DATA", 0)
	require.NotNil(t, stmt)
	require.Len(t, stmt.Operands, 1)
	assert.Equal(t, semantics.OperandCAExpr, stmt.Operands[0].Kind)
	assert.Empty(t, sink.Diagnostics())
}
