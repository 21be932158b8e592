package datadef

import "github.com/hlasmtools/hlasm-ls/diagnostics"

// ModifierSpec is a closed interval bound on one modifier, or "not
// applicable" for types that reject the modifier entirely.
type ModifierSpec struct {
	Min, Max   int64
	Applicable bool
}

func bound(lo, hi int64) ModifierSpec { return ModifierSpec{Min: lo, Max: hi, Applicable: true} }
func notApplicable() ModifierSpec     { return ModifierSpec{} }

// Type is one entry of the data-definition type registry: modifier bounds,
// alignment, implicit length, nominal-value kind, validation rule and
// length rule for one (type char, extension char) pair.
type Type struct {
	TypeChar  byte
	Extension byte
	TypeStr   string

	LengthBound    ModifierSpec
	BitLengthBound ModifierSpec
	ScaleBound     ModifierSpec
	ExponentBound  ModifierSpec

	Nominal   NominalKind
	Alignment int   // byte alignment, 0 for none
	Implicit  int64 // implicit length in bytes
	// ImplicitAsNeeded marks types whose length exists only as a function
	// of the nominal value (B, C, G, X, P, Z); absent nominal yields 1.
	ImplicitAsNeeded bool

	SingleSymbol bool // nominal elements must each be one ordinary symbol

	check         func(t *Type, op *Operand, diags *diagnostics.Sink) bool
	nominalLength func(t *Type, nom *NominalValue) uint64
}

var registry = map[[2]byte]*Type{}

func register(t *Type) {
	t.TypeStr = string(rune(t.TypeChar))
	if t.Extension != 0 {
		t.TypeStr += string(rune(t.Extension))
	}
	registry[[2]byte{t.TypeChar, t.Extension}] = t
}

// TypeOf finds the registry entry for a type code and extension. A nil
// result means the type code does not exist.
func TypeOf(typeChar, extension byte) *Type {
	return registry[[2]byte{typeChar, extension}]
}

func init() {
	// string types
	register(&Type{TypeChar: 'B',
		LengthBound: bound(1, 256), BitLengthBound: bound(1, 2048),
		ScaleBound: notApplicable(), ExponentBound: notApplicable(),
		Nominal: NominalString, ImplicitAsNeeded: true,
		check: checkBitString, nominalLength: lengthBitString})
	for _, ext := range []byte{0, 'A', 'E'} {
		register(&Type{TypeChar: 'C', Extension: ext,
			LengthBound: bound(1, 256), BitLengthBound: bound(1, 2048),
			ScaleBound: notApplicable(), ExponentBound: notApplicable(),
			Nominal: NominalString, ImplicitAsNeeded: true,
			check: checkAny, nominalLength: lengthChar})
	}
	register(&Type{TypeChar: 'C', Extension: 'U',
		LengthBound: bound(2, 256), BitLengthBound: notApplicable(),
		ScaleBound: notApplicable(), ExponentBound: notApplicable(),
		Nominal: NominalString, ImplicitAsNeeded: true,
		check: checkAny, nominalLength: lengthUTF})
	register(&Type{TypeChar: 'G',
		LengthBound: bound(2, 256), BitLengthBound: notApplicable(),
		ScaleBound: notApplicable(), ExponentBound: notApplicable(),
		Nominal: NominalString, ImplicitAsNeeded: true,
		check: checkGraphic, nominalLength: lengthGraphic})
	register(&Type{TypeChar: 'X',
		LengthBound: bound(1, 256), BitLengthBound: bound(1, 2048),
		ScaleBound: notApplicable(), ExponentBound: notApplicable(),
		Nominal: NominalString, ImplicitAsNeeded: true,
		check: checkHex, nominalLength: lengthHex})

	// fixed point: H, F, FD
	fixed := func(typeChar, ext byte, width int64) {
		register(&Type{TypeChar: typeChar, Extension: ext,
			LengthBound: bound(1, 8), BitLengthBound: bound(1, 64),
			ScaleBound: bound(-187, 346), ExponentBound: bound(-85, 75),
			Nominal: NominalString, Alignment: int(width), Implicit: width,
			check: checkFixedPoint, nominalLength: lengthByWidth})
	}
	fixed('H', 0, 2)
	fixed('F', 0, 4)
	fixed('F', 'D', 8)

	// packed and zoned decimal
	for _, tc := range []byte{'P', 'Z'} {
		t := &Type{TypeChar: tc,
			LengthBound: bound(1, 16), BitLengthBound: bound(1, 128),
			ScaleBound: notApplicable(), ExponentBound: notApplicable(),
			Nominal: NominalString, ImplicitAsNeeded: true,
			check: checkDecimal}
		if tc == 'P' {
			t.nominalLength = lengthPacked
		} else {
			t.nominalLength = lengthZoned
		}
		register(t)
	}

	// address constants: A, AD, Y
	register(&Type{TypeChar: 'A',
		LengthBound: bound(1, 4), BitLengthBound: bound(1, 128),
		ScaleBound: notApplicable(), ExponentBound: notApplicable(),
		Nominal: NominalExpressions, Alignment: 4, Implicit: 4,
		check: checkExprList, nominalLength: lengthByImplicit})
	register(&Type{TypeChar: 'A', Extension: 'D',
		LengthBound: bound(1, 8), BitLengthBound: bound(1, 128),
		ScaleBound: notApplicable(), ExponentBound: notApplicable(),
		Nominal: NominalExpressions, Alignment: 8, Implicit: 8,
		check: checkExprList, nominalLength: lengthByImplicit})
	register(&Type{TypeChar: 'Y',
		LengthBound: bound(1, 2), BitLengthBound: bound(1, 16),
		ScaleBound: notApplicable(), ExponentBound: notApplicable(),
		Nominal: NominalExpressions, Alignment: 2, Implicit: 2,
		check: checkExprList, nominalLength: lengthByImplicit})

	// base-displacement address constants: S, SY
	register(&Type{TypeChar: 'S',
		LengthBound: bound(2, 2), BitLengthBound: notApplicable(),
		ScaleBound: notApplicable(), ExponentBound: notApplicable(),
		Nominal: NominalExpressions, Alignment: 2, Implicit: 2,
		check: checkExprList, nominalLength: lengthByImplicit})
	register(&Type{TypeChar: 'S', Extension: 'Y',
		LengthBound: bound(3, 3), BitLengthBound: notApplicable(),
		ScaleBound: notApplicable(), ExponentBound: notApplicable(),
		Nominal: NominalExpressions, Alignment: 1, Implicit: 3,
		check: checkExprList, nominalLength: lengthByImplicit})

	// single-symbol types: R, RD, V, VD, Q, QD, QY, J, JD
	single := func(typeChar, ext byte, lb ModifierSpec, align int, implicit int64) {
		register(&Type{TypeChar: typeChar, Extension: ext,
			LengthBound: lb, BitLengthBound: notApplicable(),
			ScaleBound: notApplicable(), ExponentBound: notApplicable(),
			Nominal: NominalExpressions, Alignment: align, Implicit: implicit,
			SingleSymbol: true,
			check:        checkSingleSymbol, nominalLength: lengthByImplicit})
	}
	single('R', 0, bound(3, 4), 4, 4)
	single('R', 'D', bound(8, 8), 8, 8)
	single('V', 0, bound(3, 4), 4, 4)
	single('V', 'D', bound(8, 8), 8, 8)
	single('Q', 0, bound(1, 4), 4, 4)
	single('Q', 'D', bound(1, 8), 8, 8)
	single('Q', 'Y', bound(3, 3), 1, 3)
	single('J', 0, bound(2, 4), 4, 4)
	single('J', 'D', bound(8, 8), 8, 8)

	// floating point: E, D, L families share one validator
	float := func(typeChar, ext byte, lb ModifierSpec, scale ModifierSpec, exp ModifierSpec, align int, width int64) {
		register(&Type{TypeChar: typeChar, Extension: ext,
			LengthBound: lb, BitLengthBound: bound(1, 8*width),
			ScaleBound: scale, ExponentBound: exp,
			Nominal: NominalString, Alignment: align, Implicit: width,
			check: checkFloat, nominalLength: lengthByWidth})
	}
	hfpScale := bound(0, 14)
	hfpExp := bound(-85, 75)
	float('E', 0, bound(1, 8), hfpScale, hfpExp, 4, 4)
	float('E', 'H', bound(1, 8), hfpScale, hfpExp, 4, 4)
	float('E', 'D', bound(4, 4), notApplicable(), notApplicable(), 4, 4)
	float('E', 'B', bound(4, 4), notApplicable(), notApplicable(), 4, 4)
	float('D', 0, bound(1, 8), hfpScale, hfpExp, 8, 8)
	float('D', 'H', bound(1, 8), hfpScale, hfpExp, 8, 8)
	float('D', 'B', bound(8, 8), notApplicable(), notApplicable(), 8, 8)
	float('D', 'D', bound(8, 8), notApplicable(), notApplicable(), 8, 8)
	float('L', 0, bound(1, 16), hfpScale, hfpExp, 8, 16)
	float('L', 'H', bound(1, 16), hfpScale, hfpExp, 8, 16)
	float('L', 'Q', bound(16, 16), hfpScale, hfpExp, 16, 16)
	float('L', 'D', bound(16, 16), notApplicable(), notApplicable(), 8, 16)
	float('L', 'B', bound(16, 16), notApplicable(), notApplicable(), 8, 16)
}
