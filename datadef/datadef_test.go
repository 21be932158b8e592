package datadef_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hlasmtools/hlasm-ls/datadef"
	"github.com/hlasmtools/hlasm-ls/diagnostics"
)

func stringNominal(s string) datadef.NominalValue {
	return datadef.NominalValue{Present: true, Kind: datadef.NominalString, String: s}
}

func exprNominal(elems ...string) datadef.NominalValue {
	nom := datadef.NominalValue{Present: true, Kind: datadef.NominalExpressions}
	for _, e := range elems {
		nom.Exprs = append(nom.Exprs, datadef.ExprElem{Text: e})
	}
	return nom
}

func TestNominalLengths(t *testing.T) {
	cases := []struct {
		typeChar  byte
		extension byte
		nominal   string
		expected  uint64
	}{
		{'B', 0, "101", 1},
		{'B', 0, "10000000,1", 2},
		{'C', 0, "HELLO", 5},
		{'X', 0, "FF", 1},
		{'X', 0, "FFF,A", 3},
		{'H', 0, "1,2,3", 6},
		{'F', 0, "1,-2E3,+4.5", 12},
		{'F', 'D', "7", 8},
		{'P', 0, "12345", 3},
		{'P', 0, "12,-345", 4},
		{'Z', 0, "12345", 5},
		{'Z', 0, "+12,-34", 4},
		{'E', 0, "1.5", 4},
		{'D', 0, "1.5,2.5", 16},
		{'L', 0, "3.14", 16},
	}

	for _, tc := range cases {
		typ := datadef.TypeOf(tc.typeChar, tc.extension)
		require.NotNil(t, typ, "type %c%c", tc.typeChar, tc.extension)
		nom := stringNominal(tc.nominal)
		assert.Equal(t, tc.expected, typ.NominalLength(&nom),
			"%s'%s'", typ.TypeStr, tc.nominal)
	}
}

func TestNominalLengthIsAdditiveOverCommaLists(t *testing.T) {
	for _, typeChar := range []byte{'B', 'X', 'P', 'Z', 'F', 'H'} {
		typ := datadef.TypeOf(typeChar, 0)
		require.NotNil(t, typ)

		left := stringNominal("101")
		right := stringNominal("11")
		both := stringNominal("101,11")
		assert.Equal(t, typ.NominalLength(&left)+typ.NominalLength(&right), typ.NominalLength(&both),
			"type %c", typeChar)
	}
}

func TestNominalLengthOfAddressTypes(t *testing.T) {
	a := datadef.TypeOf('A', 0)
	nom := exprNominal("1", "2", "SYM")
	assert.Equal(t, uint64(12), a.NominalLength(&nom))

	y := datadef.TypeOf('Y', 0)
	nom = exprNominal("SYM")
	assert.Equal(t, uint64(2), y.NominalLength(&nom))
}

func TestAbsentNominalUsesImplicitLength(t *testing.T) {
	absent := datadef.NominalValue{}

	assert.Equal(t, uint64(4), datadef.TypeOf('F', 0).NominalLength(&absent))
	assert.Equal(t, uint64(16), datadef.TypeOf('L', 0).NominalLength(&absent))
	assert.Equal(t, uint64(1), datadef.TypeOf('P', 0).NominalLength(&absent))
	assert.Equal(t, uint64(1), datadef.TypeOf('Z', 0).NominalLength(&absent))
}

func TestFixedPointNominalValidation(t *testing.T) {
	cases := []struct {
		nominal string
		valid   bool
	}{
		{"1", true},
		{"U1", true},
		{"+1,-2", true},
		{"1.5E3", true},
		{"-2E-3", true},
		{"", false},
		{"1,", false},
		{"1,,2", false},
		{"ABC", false},
		{"1E", false},
	}

	typ := datadef.TypeOf('F', 0)
	for _, tc := range cases {
		sink := diagnostics.NewSink()
		op := &datadef.Operand{TypeChar: 'F', Nominal: stringNominal(tc.nominal)}
		ok := typ.Check(op, sink, true)
		assert.Equal(t, tc.valid, ok, "F'%s'", tc.nominal)
		if !tc.valid {
			require.NotEmpty(t, sink.Diagnostics(), "F'%s'", tc.nominal)
			assert.Equal(t, "D010", sink.Diagnostics()[0].Code)
		}
	}
}

func TestPackedZonedNominalValidation(t *testing.T) {
	cases := []struct {
		nominal string
		valid   bool
	}{
		{"123", true},
		{"+1,-2", true},
		{"1.5", false}, // no decimal point in packed/zoned
		{"U1", false},  // no unsigned marker
		{"1E3", false}, // no exponent
		{"1,", false},
		{"", false},
	}

	for _, typeChar := range []byte{'P', 'Z'} {
		typ := datadef.TypeOf(typeChar, 0)
		for _, tc := range cases {
			sink := diagnostics.NewSink()
			op := &datadef.Operand{TypeChar: typeChar, Nominal: stringNominal(tc.nominal)}
			assert.Equal(t, tc.valid, typ.Check(op, sink, true), "%c'%s'", typeChar, tc.nominal)
		}
	}
}

func TestBitAndHexNominalValidation(t *testing.T) {
	b := datadef.TypeOf('B', 0)
	x := datadef.TypeOf('X', 0)

	for _, tc := range []struct {
		nominal string
		valid   bool
	}{
		{"0101", true},
		{"1,0", true},
		{"102", false},
		{"", false},
		{"1,,1", false},
	} {
		sink := diagnostics.NewSink()
		op := &datadef.Operand{TypeChar: 'B', Nominal: stringNominal(tc.nominal)}
		assert.Equal(t, tc.valid, b.Check(op, sink, true), "B'%s'", tc.nominal)
	}

	for _, tc := range []struct {
		nominal string
		valid   bool
	}{
		{"FF", true},
		{"0a1B,9", true},
		{"G1", false},
		{"", false},
	} {
		sink := diagnostics.NewSink()
		op := &datadef.Operand{TypeChar: 'X', Nominal: stringNominal(tc.nominal)}
		assert.Equal(t, tc.valid, x.Check(op, sink, true), "X'%s'", tc.nominal)
	}
}

func TestGraphicNominalValidation(t *testing.T) {
	typ := datadef.TypeOf('G', 0)

	sink := diagnostics.NewSink()
	op := &datadef.Operand{TypeChar: 'G', Nominal: stringNominal("\x0eAB\x0f")}
	assert.True(t, typ.Check(op, sink, true))
	assert.Equal(t, uint64(2), typ.NominalLength(&op.Nominal))

	sink = diagnostics.NewSink()
	op = &datadef.Operand{TypeChar: 'G', Nominal: stringNominal("\x0eABC\x0f")}
	assert.False(t, typ.Check(op, sink, true), "odd inner byte count")

	sink = diagnostics.NewSink()
	op = &datadef.Operand{TypeChar: 'G', Nominal: stringNominal("AB")}
	assert.False(t, typ.Check(op, sink, true), "missing shift-out/shift-in")
}

func TestSingleSymbolTypes(t *testing.T) {
	v := datadef.TypeOf('V', 0)

	sink := diagnostics.NewSink()
	op := &datadef.Operand{TypeChar: 'V', Nominal: exprNominal("EXTSYM")}
	assert.True(t, v.Check(op, sink, true))

	sink = diagnostics.NewSink()
	op = &datadef.Operand{TypeChar: 'V', Nominal: exprNominal("1+2")}
	assert.False(t, v.Check(op, sink, true))
	require.NotEmpty(t, sink.Diagnostics())
	assert.Equal(t, "D030", sink.Diagnostics()[0].Code)
}

func TestLengthModifierBounds(t *testing.T) {
	f := datadef.TypeOf('F', 0)

	sink := diagnostics.NewSink()
	op := &datadef.Operand{TypeChar: 'F', Length: datadef.Modifier{Present: true, Value: 8}}
	assert.True(t, f.Check(op, sink, false))

	sink = diagnostics.NewSink()
	op = &datadef.Operand{TypeChar: 'F', Length: datadef.Modifier{Present: true, Value: 9}}
	assert.False(t, f.Check(op, sink, false))
	require.NotEmpty(t, sink.Diagnostics())
	assert.Equal(t, "D021", sink.Diagnostics()[0].Code)

	// RD constrains the length modifier to exactly 8
	rd := datadef.TypeOf('R', 'D')
	sink = diagnostics.NewSink()
	op = &datadef.Operand{TypeChar: 'R', Extension: 'D', Length: datadef.Modifier{Present: true, Value: 4}}
	assert.False(t, rd.Check(op, sink, false))

	sink = diagnostics.NewSink()
	op = &datadef.Operand{TypeChar: 'R', Extension: 'D', Length: datadef.Modifier{Present: true, Value: 8}}
	assert.True(t, rd.Check(op, sink, false))
}

func TestScaleNotApplicable(t *testing.T) {
	p := datadef.TypeOf('P', 0)

	sink := diagnostics.NewSink()
	op := &datadef.Operand{TypeChar: 'P', Scale: datadef.Modifier{Present: true, Value: 2}}
	assert.False(t, p.Check(op, sink, false))
	require.NotEmpty(t, sink.Diagnostics())
	assert.Equal(t, "D022", sink.Diagnostics()[0].Code)
}

func TestBitLengthModifier(t *testing.T) {
	// V rejects a bit length; B accepts one
	v := datadef.TypeOf('V', 0)
	sink := diagnostics.NewSink()
	op := &datadef.Operand{TypeChar: 'V', Length: datadef.Modifier{Present: true, Value: 12}, BitLength: true}
	assert.False(t, v.Check(op, sink, false))

	b := datadef.TypeOf('B', 0)
	sink = diagnostics.NewSink()
	op = &datadef.Operand{TypeChar: 'B', Length: datadef.Modifier{Present: true, Value: 12}, BitLength: true}
	assert.True(t, b.Check(op, sink, false))
}

func TestOperandLengthWithDuplication(t *testing.T) {
	f := datadef.TypeOf('F', 0)

	op := &datadef.Operand{
		TypeChar: 'F',
		Dup:      datadef.Modifier{Present: true, Value: 3},
		Nominal:  stringNominal("1"),
	}
	assert.Equal(t, uint64(12), f.OperandLength(op))

	op = &datadef.Operand{
		TypeChar: 'F',
		Length:   datadef.Modifier{Present: true, Value: 2},
		Nominal:  stringNominal("1"),
	}
	assert.Equal(t, uint64(2), f.OperandLength(op))
}

func TestUnknownType(t *testing.T) {
	assert.Nil(t, datadef.TypeOf('W', 0))
	assert.Nil(t, datadef.TypeOf('F', 'X'))
}
