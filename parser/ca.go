package parser

import (
	"strings"

	"github.com/hlasmtools/hlasm-ls/diagnostics"
	"github.com/hlasmtools/hlasm-ls/semantics"
)

// parseCAOperands classifies each operand of a conditional-assembly
// statement as EMPTY, SEQ, BRANCH, VAR or EXPR.
func (p *Parser) parseCAOperands(field string, rng diagnostics.TextRange) []semantics.Operand {
	var ops []semantics.Operand
	for _, sp := range splitOperands(field) {
		ops = append(ops, p.parseCAOperand(sp.text, subRange(rng, sp.start, sp.end)))
	}
	return ops
}

func (p *Parser) parseCAOperand(text string, rng diagnostics.TextRange) semantics.Operand {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return semantics.Operand{Kind: semantics.OperandEmpty, Text: text, Rng: rng}
	}

	if trimmed[0] == '.' {
		name := trimmed[1:]
		if isName(name) {
			return semantics.Operand{
				Kind: semantics.OperandCASeq,
				Seq:  semantics.SeqSym{Name: p.Ids.Add(name), Rng: rng},
				Text: text,
				Rng:  rng,
			}
		}
	}

	if trimmed[0] == '(' {
		if close := matchParen(trimmed, 0); close > 0 && close+1 < len(trimmed) && trimmed[close+1] == '.' {
			// branch operand: (expression).SEQSYM
			name := trimmed[close+2:]
			if isName(name) {
				expr := p.parseExpression(trimmed[1:close], subRange(rng, 1, close))
				return semantics.Operand{
					Kind: semantics.OperandCABranch,
					Expr: expr,
					Seq:  semantics.SeqSym{Name: p.Ids.Add(name), Rng: subRange(rng, close+1, len(trimmed))},
					Text: text,
					Rng:  rng,
				}
			}
		}
	}

	if trimmed[0] == '&' {
		if v, consumed := p.tryParseVarRef(trimmed, rng); v != nil && consumed == len(trimmed) {
			return semantics.Operand{Kind: semantics.OperandCAVar, Var: v, Text: text, Rng: rng}
		}
	}

	return semantics.Operand{
		Kind: semantics.OperandCAExpr,
		Expr: p.parseExpression(trimmed, rng),
		Text: text,
		Rng:  rng,
	}
}

// parseVarRef parses a full variable reference (&NAME or &NAME(subscript));
// nil when text is not exactly one reference.
func (p *Parser) parseVarRef(text string, rng diagnostics.TextRange) *semantics.VarRef {
	v, consumed := p.tryParseVarRef(text, rng)
	if v == nil || consumed != len(text) {
		p.Diags.Add(diagnostics.Errors.E012("invalid variable symbol reference", rng))
		return nil
	}
	return v
}

// tryParseVarRef parses a leading variable reference and reports how many
// bytes it consumed.
func (p *Parser) tryParseVarRef(text string, rng diagnostics.TextRange) (*semantics.VarRef, int) {
	if len(text) < 2 || text[0] != '&' {
		return nil, 0
	}
	i := 1
	for i < len(text) && isNameChar(text[i]) {
		i++
	}
	if i == 1 {
		return nil, 0
	}
	v := &semantics.VarRef{Name: p.Ids.Add(text[1:i]), Rng: rng}
	if i < len(text) && text[i] == '(' {
		close := matchParen(text, i)
		if close < 0 {
			return nil, 0
		}
		for _, sp := range splitOperands(text[i+1 : close]) {
			sub := p.parseExpression(sp.text, subRange(rng, i+1+sp.start, i+1+sp.end))
			v.Subscript = append(v.Subscript, sub)
		}
		i = close + 1
	}
	return v, i
}

// matchParen returns the index of the parenthesis closing the one at open,
// or -1. Quoted strings are opaque.
func matchParen(s string, open int) int {
	depth := 0
	inQuote := false
	for i := open; i < len(s); i++ {
		c := s[i]
		switch {
		case inQuote:
			if c == '\'' {
				if i+1 < len(s) && s[i+1] == '\'' {
					i++
				} else {
					inQuote = false
				}
			}
		case c == '\'':
			if !isAttributePrefix(s, i) {
				inQuote = true
			}
		case c == '(':
			depth++
		case c == ')':
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}

func isName(s string) bool {
	if s == "" || (s[0] >= '0' && s[0] <= '9') {
		return false
	}
	for i := 0; i < len(s); i++ {
		if !isNameChar(s[i]) {
			return false
		}
	}
	return true
}
