package parser

import (
	"strconv"
	"strings"

	"github.com/hlasmtools/hlasm-ls/diagnostics"
	"github.com/hlasmtools/hlasm-ls/expressions"
)

// parseExpression parses one CA expression into an evaluation tree. On a
// syntax error it diagnoses and yields a zero literal so evaluation can
// continue.
func (p *Parser) parseExpression(text string, rng diagnostics.TextRange) expressions.Node {
	ep := &exprParser{p: p, s: text, rng: rng}
	node := ep.orExpr()
	ep.skipSpaces()
	if node == nil || ep.pos < len(ep.s) {
		p.Diags.Add(diagnostics.Errors.E012("invalid expression", rng))
		return &expressions.Number{Rng: rng}
	}
	return node
}

type exprParser struct {
	p   *Parser
	s   string
	pos int
	rng diagnostics.TextRange
}

func (e *exprParser) at(i int) byte {
	if i >= len(e.s) {
		return 0
	}
	return e.s[i]
}

func (e *exprParser) skipSpaces() {
	for e.pos < len(e.s) && (e.s[e.pos] == ' ' || e.s[e.pos] == '\t') {
		e.pos++
	}
}

func (e *exprParser) rangeFrom(start int) diagnostics.TextRange {
	return subRange(e.rng, start, e.pos)
}

// keyword consumes a word operator (EQ, AND, ...) when it is next.
func (e *exprParser) keyword(words ...string) (string, bool) {
	e.skipSpaces()
	start := e.pos
	if start >= len(e.s) || !isNameChar(e.s[start]) {
		return "", false
	}
	end := start
	for end < len(e.s) && isNameChar(e.s[end]) {
		end++
	}
	word := strings.ToUpper(e.s[start:end])
	for _, w := range words {
		if word == w {
			e.pos = end
			return word, true
		}
	}
	return "", false
}

func (e *exprParser) orExpr() expressions.Node {
	start := e.pos
	node := e.andExpr()
	for node != nil {
		if _, ok := e.keyword("OR"); !ok {
			break
		}
		r := e.andExpr()
		if r == nil {
			return nil
		}
		node = &expressions.Binary{Op: expressions.OpOr, L: node, R: r, Rng: e.rangeFrom(start)}
	}
	return node
}

func (e *exprParser) andExpr() expressions.Node {
	start := e.pos
	node := e.notExpr()
	for node != nil {
		if _, ok := e.keyword("AND"); !ok {
			break
		}
		r := e.notExpr()
		if r == nil {
			return nil
		}
		node = &expressions.Binary{Op: expressions.OpAnd, L: node, R: r, Rng: e.rangeFrom(start)}
	}
	return node
}

func (e *exprParser) notExpr() expressions.Node {
	start := e.pos
	if _, ok := e.keyword("NOT"); ok {
		operand := e.notExpr()
		if operand == nil {
			return nil
		}
		return &expressions.Unary{Op: expressions.OpNot, Operand: operand, Rng: e.rangeFrom(start)}
	}
	return e.relExpr()
}

var relOps = map[string]expressions.BinaryOp{
	"EQ": expressions.OpEQ,
	"NE": expressions.OpNE,
	"LT": expressions.OpLT,
	"GT": expressions.OpGT,
	"LE": expressions.OpLE,
	"GE": expressions.OpGE,
}

func (e *exprParser) relExpr() expressions.Node {
	start := e.pos
	node := e.arith()
	if node == nil {
		return nil
	}
	if word, ok := e.keyword("EQ", "NE", "LT", "GT", "LE", "GE"); ok {
		r := e.arith()
		if r == nil {
			return nil
		}
		node = &expressions.Binary{Op: relOps[word], L: node, R: r, Rng: e.rangeFrom(start)}
	}
	return node
}

func (e *exprParser) arith() expressions.Node {
	start := e.pos
	node := e.term()
	for node != nil {
		e.skipSpaces()
		var op expressions.BinaryOp
		switch e.at(e.pos) {
		case '+':
			op = expressions.OpAdd
		case '-':
			op = expressions.OpSub
		default:
			return node
		}
		e.pos++
		r := e.term()
		if r == nil {
			return nil
		}
		node = &expressions.Binary{Op: op, L: node, R: r, Rng: e.rangeFrom(start)}
	}
	return node
}

func (e *exprParser) term() expressions.Node {
	start := e.pos
	node := e.concat()
	for node != nil {
		e.skipSpaces()
		var op expressions.BinaryOp
		switch e.at(e.pos) {
		case '*':
			op = expressions.OpMul
		case '/':
			op = expressions.OpDiv
		default:
			return node
		}
		e.pos++
		r := e.concat()
		if r == nil {
			return nil
		}
		node = &expressions.Binary{Op: op, L: node, R: r, Rng: e.rangeFrom(start)}
	}
	return node
}

// concat handles the '.' concatenation operator of character expressions.
func (e *exprParser) concat() expressions.Node {
	start := e.pos
	node := e.factor()
	for node != nil && e.at(e.pos) == '.' && isFactorStart(e.at(e.pos+1)) {
		e.pos++
		r := e.factor()
		if r == nil {
			return nil
		}
		node = &expressions.Binary{Op: expressions.OpConcat, L: node, R: r, Rng: e.rangeFrom(start)}
	}
	return node
}

func isFactorStart(c byte) bool {
	return c == '\'' || c == '&' || c == '(' || isNameChar(c)
}

func (e *exprParser) factor() expressions.Node {
	e.skipSpaces()
	start := e.pos
	switch c := e.at(e.pos); {
	case c == '+':
		e.pos++
		operand := e.factor()
		if operand == nil {
			return nil
		}
		return &expressions.Unary{Op: expressions.OpPlus, Operand: operand, Rng: e.rangeFrom(start)}
	case c == '-':
		e.pos++
		operand := e.factor()
		if operand == nil {
			return nil
		}
		return &expressions.Unary{Op: expressions.OpNeg, Operand: operand, Rng: e.rangeFrom(start)}
	case c == '(':
		close := matchParen(e.s, e.pos)
		if close < 0 {
			return nil
		}
		inner := e.p.parseExpression(e.s[e.pos+1:close], subRange(e.rng, e.pos+1, close))
		e.pos = close + 1
		return inner
	case c == '\'':
		return e.stringLiteral()
	case c == '&':
		v, consumed := e.p.tryParseVarRef(e.s[e.pos:], subRange(e.rng, e.pos, len(e.s)))
		if v == nil {
			return nil
		}
		e.pos += consumed
		var sub expressions.Node
		if len(v.Subscript) == 1 {
			sub = v.Subscript[0]
		}
		return &expressions.VarRef{Name: v.Name, Subscript: sub, Rng: e.rangeFrom(start)}
	case c >= '0' && c <= '9':
		end := e.pos
		for end < len(e.s) && e.s[end] >= '0' && e.s[end] <= '9' {
			end++
		}
		n, err := strconv.ParseInt(e.s[e.pos:end], 10, 32)
		if err != nil {
			return nil
		}
		e.pos = end
		return &expressions.Number{Value: int32(n), Rng: e.rangeFrom(start)}
	case isNameChar(c):
		return e.nameTerm()
	}
	return nil
}

// stringLiteral parses a quoted string. Variable references inside the
// quotes substitute their values, so the result is a concatenation chain
// when the literal mentions any.
func (e *exprParser) stringLiteral() expressions.Node {
	start := e.pos
	e.pos++ // opening quote
	var parts []expressions.Node
	var b strings.Builder
	flush := func() {
		if b.Len() > 0 {
			parts = append(parts, &expressions.Str{Value: b.String(), Rng: e.rangeFrom(start)})
			b.Reset()
		}
	}
	for e.pos < len(e.s) {
		c := e.s[e.pos]
		switch {
		case c == '\'':
			if e.at(e.pos+1) == '\'' {
				b.WriteByte('\'')
				e.pos += 2
				continue
			}
			e.pos++
			flush()
			if len(parts) == 0 {
				return &expressions.Str{Rng: e.rangeFrom(start)}
			}
			node := parts[0]
			for _, part := range parts[1:] {
				node = &expressions.Binary{Op: expressions.OpConcat, L: node, R: part, Rng: e.rangeFrom(start)}
			}
			return node
		case c == '&':
			if e.at(e.pos+1) == '&' {
				b.WriteByte('&')
				e.pos += 2
				continue
			}
			v, consumed := e.p.tryParseVarRef(e.s[e.pos:], subRange(e.rng, e.pos, len(e.s)))
			if v == nil {
				b.WriteByte('&')
				e.pos++
				continue
			}
			e.pos += consumed
			if e.at(e.pos) == '.' {
				// the dot closes the reference
				e.pos++
			}
			flush()
			var sub expressions.Node
			if len(v.Subscript) == 1 {
				sub = v.Subscript[0]
			}
			parts = append(parts, &expressions.VarRef{Name: v.Name, Subscript: sub, Rng: v.Rng})
		default:
			b.WriteByte(c)
			e.pos++
		}
	}
	return nil // unterminated
}

// nameTerm parses an ordinary symbol reference, a self-defining term
// (B'101', X'1F', C'A') or an attribute reference (L'SYM).
func (e *exprParser) nameTerm() expressions.Node {
	start := e.pos
	end := e.pos
	for end < len(e.s) && isNameChar(e.s[end]) {
		end++
	}
	name := e.s[e.pos:end]

	if len(name) == 1 && e.at(end) == '\'' {
		switch upper := name[0] &^ 0x20; upper {
		case 'B', 'X', 'C':
			e.pos = end
			lit := e.stringLiteral()
			str, ok := lit.(*expressions.Str)
			if !ok {
				return nil
			}
			v, err := selfDefiningTerm(upper, str.Value)
			if err {
				return nil
			}
			return &expressions.Number{Value: v, Rng: e.rangeFrom(start)}
		case 'L', 'T', 'K', 'N', 'S', 'I', 'D', 'O':
			// attribute reference
			i := end + 1
			symStart := i
			for i < len(e.s) && isNameChar(e.s[i]) {
				i++
			}
			if i == symStart {
				return nil
			}
			sym := e.p.Ids.Add(e.s[symStart:i])
			e.pos = i
			return &expressions.Attribute{Attr: upper, Symbol: sym, Rng: e.rangeFrom(start)}
		}
	}

	e.pos = end
	return &expressions.SymRef{Name: e.p.Ids.Add(name), Rng: e.rangeFrom(start)}
}

func selfDefiningTerm(kind byte, payload string) (int32, bool) {
	switch kind {
	case 'B':
		n, err := strconv.ParseInt(payload, 2, 32)
		return int32(n), err != nil
	case 'X':
		n, err := strconv.ParseInt(payload, 16, 32)
		return int32(n), err != nil
	case 'C':
		var v int32
		for i := 0; i < len(payload); i++ {
			v = v<<8 | int32(payload[i])
		}
		return v, false
	}
	return 0, true
}
