package parser

import (
	"strings"

	"github.com/hlasmtools/hlasm-ls/diagnostics"
	"github.com/hlasmtools/hlasm-ls/ids"
	"github.com/hlasmtools/hlasm-ls/semantics"
)

// Parser is the statement front end: it turns source text into logical
// statements with a typed label field, an interned instruction name and a
// classified operand list. It also serves as the fields parser used to
// re-parse deferred operand fields after macro substitution.
type Parser struct {
	Ids   *ids.Storage
	Diags *diagnostics.Sink

	caInstructions map[ids.Id]bool
}

func New(storage *ids.Storage, diags *diagnostics.Sink) *Parser {
	p := &Parser{
		Ids:            storage,
		Diags:          diags,
		caInstructions: make(map[ids.Id]bool),
	}
	for _, name := range []string{
		"SETA", "SETB", "SETC",
		"LCLA", "LCLB", "LCLC", "GBLA", "GBLB", "GBLC",
		"ANOP", "ACTR", "AGO", "AIF",
		"MACRO", "MEND", "MEXIT",
		"AREAD", "ASPACE", "AEJECT",
	} {
		p.caInstructions[storage.Add(name)] = true
	}
	return p
}

// IsCAInstruction reports whether id names a conditional-assembly
// instruction whose operands follow the CA grammar.
func (p *Parser) IsCAInstruction(id ids.Id) bool {
	return p.caInstructions[id]
}

// ParseSource parses the whole source unit into statements, one per
// non-comment logical line. Blank and comment lines yield no statement.
func (p *Parser) ParseSource(text string) []*semantics.Statement {
	var stmts []*semantics.Statement
	for i, line := range strings.Split(text, "\n") {
		line = strings.TrimRight(line, "\r")
		if stmt := p.ParseLine(line, i); stmt != nil {
			stmts = append(stmts, stmt)
		}
	}
	return stmts
}

// ParseLine parses one logical line. Lines whose first column is '*' (or
// ".*" for internal comments) are comments.
func (p *Parser) ParseLine(line string, lineNo int) *semantics.Statement {
	if strings.TrimSpace(line) == "" {
		return nil
	}
	if line[0] == '*' || strings.HasPrefix(line, ".*") {
		return nil
	}

	stmt := &semantics.Statement{
		Rng: rangeOf(lineNo, 0, len(line)),
	}

	pos := 0
	labelText := ""
	if line[0] != ' ' && line[0] != '\t' {
		labelText, pos = nextToken(line, 0)
	}
	stmt.Label = p.parseLabel(labelText, lineNo)

	instrText, pos := nextToken(line, pos)
	stmt.InstrText = instrText
	stmt.InstrRng = rangeOf(lineNo, pos-len(instrText), pos)
	if instrText != "" {
		stmt.Instruction = p.Ids.Add(instrText)
	}

	fieldStart := skipBlanks(line, pos)
	fieldEnd := endOfOperandField(line, fieldStart)
	stmt.OperandField = line[fieldStart:fieldEnd]
	stmt.OperandRng = rangeOf(lineNo, fieldStart, fieldEnd)

	p.ParseFields(stmt)
	return stmt
}

// ParseFields (re-)classifies the operand field of a statement. The macro
// provider calls it again after parameter substitution rewrites the field.
func (p *Parser) ParseFields(stmt *semantics.Statement) {
	if p.IsCAInstruction(stmt.Instruction) {
		stmt.Operands = p.parseCAOperands(stmt.OperandField, stmt.OperandRng)
		return
	}
	stmt.Operands = p.parseTextOperands(stmt.OperandField, stmt.OperandRng)
}

func (p *Parser) parseLabel(text string, lineNo int) semantics.Label {
	rng := rangeOf(lineNo, 0, len(text))
	switch {
	case text == "":
		return semantics.Label{Kind: semantics.LabelEmpty, Rng: rng}
	case text[0] == '.':
		return semantics.Label{
			Kind: semantics.LabelSequence,
			Seq:  semantics.SeqSym{Name: p.Ids.Add(text[1:]), Rng: rng},
			Rng:  rng,
		}
	case text[0] == '&':
		v := p.parseVarRef(text, rng)
		if v == nil {
			return semantics.Label{Kind: semantics.LabelEmpty, Rng: rng}
		}
		return semantics.Label{Kind: semantics.LabelVariable, Var: v, Rng: rng}
	default:
		return semantics.Label{Kind: semantics.LabelOrdinary, Name: p.Ids.Add(text), Rng: rng}
	}
}

func (p *Parser) parseTextOperands(field string, rng diagnostics.TextRange) []semantics.Operand {
	var ops []semantics.Operand
	for _, span := range splitOperands(field) {
		ops = append(ops, semantics.Operand{
			Kind: operandKindOfText(span.text),
			Text: span.text,
			Rng:  subRange(rng, span.start, span.end),
		})
	}
	return ops
}

func operandKindOfText(text string) semantics.OperandKind {
	if text == "" {
		return semantics.OperandEmpty
	}
	return semantics.OperandText
}

type span struct {
	text       string
	start, end int
}

// splitOperands splits an operand field at commas that are outside quoted
// strings and parentheses. An empty field yields no operands.
func splitOperands(field string) []span {
	if field == "" {
		return nil
	}
	var spans []span
	depth := 0
	inQuote := false
	start := 0
	for i := 0; i < len(field); i++ {
		c := field[i]
		switch {
		case inQuote:
			if c == '\'' {
				if i+1 < len(field) && field[i+1] == '\'' {
					i++
				} else {
					inQuote = false
				}
			}
		case c == '\'':
			// attribute references (L'SYM) do not open a string
			if !isAttributePrefix(field, i) {
				inQuote = true
			}
		case c == '(':
			depth++
		case c == ')':
			depth--
		case c == ',' && depth == 0:
			spans = append(spans, span{text: field[start:i], start: start, end: i})
			start = i + 1
		}
	}
	spans = append(spans, span{text: field[start:], start: start, end: len(field)})
	return spans
}

// isAttributePrefix reports whether the quote at index i follows a data
// attribute character (L'X, T'X, ...), in which case it is not a string
// delimiter.
func isAttributePrefix(s string, i int) bool {
	if i == 0 {
		return false
	}
	c := s[i-1]
	switch c {
	case 'L', 'l', 'T', 't', 'K', 'k', 'N', 'n', 'S', 's', 'I', 'i', 'D', 'd', 'O', 'o':
	default:
		return false
	}
	// the attribute char must not terminate a longer name
	if i >= 2 {
		prev := s[i-2]
		if isNameChar(prev) || prev == '&' {
			return false
		}
	}
	return true
}

func nextToken(line string, pos int) (string, int) {
	pos = skipBlanks(line, pos)
	start := pos
	for pos < len(line) && line[pos] != ' ' && line[pos] != '\t' {
		pos++
	}
	return line[start:pos], pos
}

func skipBlanks(line string, pos int) int {
	for pos < len(line) && (line[pos] == ' ' || line[pos] == '\t') {
		pos++
	}
	return pos
}

// endOfOperandField finds the end of the operand field: the first blank
// outside quotes and parentheses starts the remarks field.
func endOfOperandField(line string, start int) int {
	depth := 0
	inQuote := false
	for i := start; i < len(line); i++ {
		c := line[i]
		switch {
		case inQuote:
			if c == '\'' {
				if i+1 < len(line) && line[i+1] == '\'' {
					i++
				} else {
					inQuote = false
				}
			}
		case c == '\'':
			if !isAttributePrefix(line, i) {
				inQuote = true
			}
		case c == '(':
			depth++
		case c == ')':
			depth--
		case (c == ' ' || c == '\t') && depth == 0:
			return i
		}
	}
	return len(line)
}

func isNameChar(c byte) bool {
	return c >= 'A' && c <= 'Z' || c >= 'a' && c <= 'z' || c >= '0' && c <= '9' ||
		c == '@' || c == '#' || c == '$' || c == '_'
}

func rangeOf(line, startChar, endChar int) diagnostics.TextRange {
	return diagnostics.TextRange{
		Start: diagnostics.TextPosition{Line: line, Char: startChar},
		End:   diagnostics.TextPosition{Line: line, Char: endChar},
	}
}

func subRange(base diagnostics.TextRange, start, end int) diagnostics.TextRange {
	return diagnostics.TextRange{
		Start: diagnostics.TextPosition{Line: base.Start.Line, Char: base.Start.Char + start},
		End:   diagnostics.TextPosition{Line: base.Start.Line, Char: base.Start.Char + end},
	}
}
