package diagnostics

import "strconv"

const source = "HLASM Analyzer"

// Errors groups the error diagnostic constructors, keyed by the HLASM
// message code each produces.
type analysisError struct{}

var Errors analysisError

func (analysisError) E010(kind string, r TextRange) Diagnostic {
	return Diagnostic{
		Code:     "E010",
		Range:    r,
		Message:  "Unexpected " + kind,
		Source:   source,
		Severity: Error,
	}
}

func (analysisError) E012(message string, r TextRange) Diagnostic {
	return Diagnostic{
		Code:     "E012",
		Range:    r,
		Message:  "Wrong format of variable symbol: " + message,
		Source:   source,
		Severity: Error,
	}
}

func (analysisError) E013(message string, r TextRange) Diagnostic {
	return Diagnostic{
		Code:     "E013",
		Range:    r,
		Message:  "Inconsistent format of using variable symbol: " + message,
		Source:   source,
		Severity: Error,
	}
}

func (analysisError) E020(kind string, r TextRange) Diagnostic {
	return Diagnostic{
		Code:     "E020",
		Range:    r,
		Message:  "Too many operands of " + kind,
		Source:   source,
		Severity: Error,
	}
}

func (analysisError) E022(kind string, r TextRange) Diagnostic {
	return Diagnostic{
		Code:     "E022",
		Range:    r,
		Message:  "Missing operand of " + kind,
		Source:   source,
		Severity: Error,
	}
}

func (analysisError) E030(kind string, r TextRange) Diagnostic {
	return Diagnostic{
		Code:     "E030",
		Range:    r,
		Message:  "Cannot assign value to " + kind,
		Source:   source,
		Severity: Error,
	}
}

func (analysisError) E045(name string, r TextRange) Diagnostic {
	return Diagnostic{
		Code:     "E045",
		Range:    r,
		Message:  "Sequence symbol " + name + " already defined at a different position",
		Source:   source,
		Severity: Error,
	}
}

func (analysisError) E047(name string, r TextRange) Diagnostic {
	return Diagnostic{
		Code:     "E047",
		Range:    r,
		Message:  "Sequence symbol " + name + " not found",
		Source:   source,
		Severity: Error,
	}
}

func (analysisError) E049(name string, r TextRange) Diagnostic {
	return Diagnostic{
		Code:     "E049",
		Range:    r,
		Message:  "Operand " + name + " is not a sequence symbol",
		Source:   source,
		Severity: Error,
	}
}

func (analysisError) E051(name string, r TextRange) Diagnostic {
	return Diagnostic{
		Code:     "E051",
		Range:    r,
		Message:  "Duplicate SET symbol declaration, symbol " + name + " already declared",
		Source:   source,
		Severity: Error,
	}
}

func (analysisError) E052(name string, r TextRange) Diagnostic {
	return Diagnostic{
		Code:     "E052",
		Range:    r,
		Message:  "Macro parameter with name " + name + " already declared",
		Source:   source,
		Severity: Error,
	}
}

func (analysisError) E054(r TextRange) Diagnostic {
	return Diagnostic{
		Code:     "E054",
		Range:    r,
		Message:  "Statement is not allowed outside of a macro definition",
		Source:   source,
		Severity: Error,
	}
}

func (analysisError) E058(name string, r TextRange) Diagnostic {
	return Diagnostic{
		Code:     "E058",
		Range:    r,
		Message:  "Copy member " + name + " could not be found",
		Source:   source,
		Severity: Error,
	}
}

func (analysisError) D010(typeStr string, r TextRange) Diagnostic {
	return Diagnostic{
		Code:     "D010",
		Range:    r,
		Message:  "Wrong format of nominal value of type " + typeStr,
		Source:   source,
		Severity: Error,
	}
}

func (analysisError) D012(r TextRange) Diagnostic {
	return Diagnostic{
		Code:     "D012",
		Range:    r,
		Message:  "Unknown type of data definition",
		Source:   source,
		Severity: Error,
	}
}

func (analysisError) D016(typeStr string, r TextRange) Diagnostic {
	return Diagnostic{
		Code:     "D016",
		Range:    r,
		Message:  "Nominal value expected for type " + typeStr,
		Source:   source,
		Severity: Error,
	}
}

func (analysisError) D021(modifier, typeStr string, lo, hi int64, r TextRange) Diagnostic {
	return Diagnostic{
		Code:     "D021",
		Range:    r,
		Message:  "Value of " + modifier + " modifier of type " + typeStr + " must be in range " + strconv.FormatInt(lo, 10) + " to " + strconv.FormatInt(hi, 10),
		Source:   source,
		Severity: Error,
	}
}

func (analysisError) D022(modifier, typeStr string, r TextRange) Diagnostic {
	return Diagnostic{
		Code:     "D022",
		Range:    r,
		Message:  modifier + " modifier not allowed with type " + typeStr,
		Source:   source,
		Severity: Error,
	}
}

func (analysisError) D030(typeStr string, r TextRange) Diagnostic {
	return Diagnostic{
		Code:     "D030",
		Range:    r,
		Message:  "Single ordinary symbol expected in nominal value of type " + typeStr,
		Source:   source,
		Severity: Error,
	}
}

// Warnings groups the warning diagnostic constructors.
type analysisWarning struct{}

var Warnings analysisWarning

func (analysisWarning) W010(field string, r TextRange) Diagnostic {
	return Diagnostic{
		Code:     "W010",
		Range:    r,
		Message:  field + " not expected, it is ignored",
		Source:   source,
		Severity: Warning,
	}
}
