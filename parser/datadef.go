package parser

import (
	"strconv"
	"strings"

	"github.com/hlasmtools/hlasm-ls/datadef"
	"github.com/hlasmtools/hlasm-ls/diagnostics"
)

// ParseDataDefOperands parses the operand field of a DC/DS statement into
// data-definition operands. Malformed operands yield nil entries after
// diagnosing.
func (p *Parser) ParseDataDefOperands(field string, rng diagnostics.TextRange) []*datadef.Operand {
	var ops []*datadef.Operand
	for _, sp := range splitDataDefOperands(field) {
		ops = append(ops, p.parseDataDefOperand(sp.text, subRange(rng, sp.start, sp.end)))
	}
	return ops
}

// splitDataDefOperands splits a DC/DS operand field at top-level commas.
// Unlike CA operand fields, a quote at the top level of a data-definition
// operand always delimits its nominal string, never an attribute
// reference, so the generic splitter cannot be used here.
func splitDataDefOperands(field string) []span {
	if field == "" {
		return nil
	}
	var spans []span
	start := 0
	i := 0
	for i < len(field) {
		switch field[i] {
		case ',':
			spans = append(spans, span{text: field[start:i], start: start, end: i})
			i++
			start = i
		case '\'':
			_, end, ok := scanQuoted(field, i)
			if !ok {
				i = len(field)
				break
			}
			i = end
		case '(':
			close := matchParen(field, i)
			if close < 0 {
				i = len(field)
				break
			}
			i = close + 1
		default:
			i++
		}
	}
	spans = append(spans, span{text: field[start:], start: start, end: len(field)})
	return spans
}

func (p *Parser) parseDataDefOperand(text string, rng diagnostics.TextRange) *datadef.Operand {
	if strings.TrimSpace(text) == "" {
		p.Diags.Add(diagnostics.Errors.E022("data definition", rng))
		return nil
	}

	op := &datadef.Operand{Rng: rng}
	i := 0

	// duplication factor: digits or a parenthesized expression
	if isDigitByte(text[i]) {
		start := i
		for i < len(text) && isDigitByte(text[i]) {
			i++
		}
		v, _ := strconv.ParseInt(text[start:i], 10, 64)
		op.Dup = datadef.Modifier{Present: true, Value: v, Rng: subRange(rng, start, i)}
	} else if text[i] == '(' {
		close := matchParen(text, i)
		if close < 0 {
			p.Diags.Add(diagnostics.Errors.D010("data definition", rng))
			return nil
		}
		// expression duplication factors are resolved at assembly time;
		// the checker only validates literal ones
		i = close + 1
	}

	if i >= len(text) || !isLetter(text[i]) {
		p.Diags.Add(diagnostics.Errors.D012(subRange(rng, i, len(text))))
		return nil
	}
	typeStart := i
	op.TypeChar = upper(text[i])
	i++
	if i < len(text) && isLetter(text[i]) && datadef.TypeOf(op.TypeChar, upper(text[i])) != nil {
		op.Extension = upper(text[i])
		i++
	}
	op.TypeRng = subRange(rng, typeStart, i)

	if datadef.TypeOf(op.TypeChar, op.Extension) == nil {
		p.Diags.Add(diagnostics.Errors.D012(op.TypeRng))
		return nil
	}

	// modifiers: P program type, L length (L. bit length), S scale, E exponent
	for i < len(text) {
		c := upper(text[i])
		if c != 'P' && c != 'L' && c != 'S' && c != 'E' {
			break
		}
		// a modifier letter must introduce a number, a '.', or '('
		if i+1 >= len(text) || !(isDigitByte(text[i+1]) || text[i+1] == '+' || text[i+1] == '-' || text[i+1] == '.' || text[i+1] == '(') {
			break
		}
		i++
		bit := false
		if c == 'L' && i < len(text) && text[i] == '.' {
			bit = true
			i++
		}
		mod, next, ok := p.parseModifierValue(text, i, rng)
		if !ok {
			p.Diags.Add(diagnostics.Errors.D010("data definition", subRange(rng, i, len(text))))
			return nil
		}
		i = next
		switch c {
		case 'P':
			op.ProgramType = mod
		case 'L':
			op.Length = mod
			op.BitLength = bit
		case 'S':
			op.Scale = mod
		case 'E':
			op.Exponent = mod
		}
	}

	// nominal value
	if i < len(text) {
		switch text[i] {
		case '\'':
			payload, end, ok := scanQuoted(text, i)
			if !ok {
				p.Diags.Add(diagnostics.Errors.D010("data definition", subRange(rng, i, len(text))))
				return nil
			}
			op.Nominal = datadef.NominalValue{
				Present: true,
				Kind:    datadef.NominalString,
				String:  payload,
				Rng:     subRange(rng, i, end),
			}
			i = end
		case '(':
			close := matchParen(text, i)
			if close < 0 {
				p.Diags.Add(diagnostics.Errors.D010("data definition", subRange(rng, i, len(text))))
				return nil
			}
			nom := datadef.NominalValue{
				Present: true,
				Kind:    datadef.NominalExpressions,
				Rng:     subRange(rng, i, close+1),
			}
			for _, sp := range splitOperands(text[i+1 : close]) {
				nom.Exprs = append(nom.Exprs, datadef.ExprElem{
					Text: sp.text,
					Rng:  subRange(rng, i+1+sp.start, i+1+sp.end),
				})
			}
			op.Nominal = nom
			i = close + 1
		}
	}

	if i < len(text) {
		p.Diags.Add(diagnostics.Errors.D010("data definition", subRange(rng, i, len(text))))
		return nil
	}
	return op
}

func (p *Parser) parseModifierValue(text string, i int, rng diagnostics.TextRange) (datadef.Modifier, int, bool) {
	if i < len(text) && text[i] == '(' {
		close := matchParen(text, i)
		if close < 0 {
			return datadef.Modifier{}, i, false
		}
		// expression modifiers are left to assembly-time evaluation
		return datadef.Modifier{}, close + 1, true
	}
	start := i
	if i < len(text) && (text[i] == '+' || text[i] == '-') {
		i++
	}
	digits := 0
	for i < len(text) && isDigitByte(text[i]) {
		i++
		digits++
	}
	if digits == 0 {
		return datadef.Modifier{}, i, false
	}
	v, _ := strconv.ParseInt(text[start:i], 10, 64)
	return datadef.Modifier{Present: true, Value: v, Rng: subRange(rng, start, i)}, i, true
}

// scanQuoted reads a quoted nominal value starting at the opening quote,
// un-doubling embedded quotes.
func scanQuoted(text string, i int) (string, int, bool) {
	var b strings.Builder
	i++
	for i < len(text) {
		c := text[i]
		if c == '\'' {
			if i+1 < len(text) && text[i+1] == '\'' {
				b.WriteByte('\'')
				i += 2
				continue
			}
			return b.String(), i + 1, true
		}
		b.WriteByte(c)
		i++
	}
	return "", i, false
}

func isDigitByte(c byte) bool { return c >= '0' && c <= '9' }
func isLetter(c byte) bool    { return c >= 'A' && c <= 'Z' || c >= 'a' && c <= 'z' }
func upper(c byte) byte {
	if c >= 'a' && c <= 'z' {
		return c - 'a' + 'A'
	}
	return c
}
