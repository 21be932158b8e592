package datadef

import "strings"

// NominalLength computes how many bytes the nominal value occupies when
// assembled. An absent nominal yields the type's implicit length (one byte
// for the as-needed types).
func (t *Type) NominalLength(nom *NominalValue) uint64 {
	if !nom.Present {
		if t.ImplicitAsNeeded {
			return 1
		}
		return uint64(t.Implicit)
	}
	return t.nominalLength(t, nom)
}

// OperandLength computes the emitted byte length of the whole operand: the
// explicit length modifier when given, otherwise the nominal length, times
// the duplication factor.
func (t *Type) OperandLength(op *Operand) uint64 {
	var unit uint64
	switch {
	case op.Length.Present && !op.BitLength:
		unit = uint64(op.Length.Value)
	case op.Length.Present && op.BitLength:
		unit = uint64(op.Length.Value+7) / 8
	default:
		unit = t.NominalLength(&op.Nominal)
	}
	if op.Dup.Present {
		return uint64(op.Dup.Value) * unit
	}
	return unit
}

func lengthBitString(t *Type, nom *NominalValue) uint64 {
	var bytes uint64
	for _, part := range strings.Split(nom.String, ",") {
		bytes += uint64(len(part)+7) / 8
	}
	return bytes
}

func lengthChar(t *Type, nom *NominalValue) uint64 {
	return uint64(len(nom.String))
}

func lengthUTF(t *Type, nom *NominalValue) uint64 {
	// UTF-16 encoding, two bytes per character
	return 2 * uint64(len([]rune(nom.String)))
}

func lengthGraphic(t *Type, nom *NominalValue) uint64 {
	if len(nom.String) < 2 {
		return 0
	}
	return uint64(len(nom.String) - 2)
}

func lengthHex(t *Type, nom *NominalValue) uint64 {
	var bytes uint64
	for _, part := range strings.Split(nom.String, ",") {
		bytes += uint64(len(part)+1) / 2
	}
	return bytes
}

func lengthByWidth(t *Type, nom *NominalValue) uint64 {
	constants := uint64(strings.Count(nom.String, ",") + 1)
	return uint64(t.Implicit) * constants
}

func lengthPacked(t *Type, nom *NominalValue) uint64 {
	var bytes uint64
	// a trailing 4-bit sign nibble is assembled into each constant
	halfbytes := uint64(1)
	for i := 0; i < len(nom.String); i++ {
		c := nom.String[i]
		switch {
		case c == ',':
			bytes += (halfbytes + 1) / 2
			halfbytes = 1
		case isDigit(c):
			halfbytes++
		}
	}
	bytes += (halfbytes + 1) / 2
	return bytes
}

func lengthZoned(t *Type, nom *NominalValue) uint64 {
	var digits uint64
	for i := 0; i < len(nom.String); i++ {
		if isDigit(nom.String[i]) {
			digits++
		}
	}
	return digits
}

func lengthByImplicit(t *Type, nom *NominalValue) uint64 {
	return uint64(t.Implicit) * uint64(len(nom.Exprs))
}
