package parser

import (
	"astgen/internal/ast"
	"astgen/internal/diag"
	"astgen/internal/token"
)

// parseType parses `Name`, `Name<T, ...>` and any `?` suffixes.
func (p *Parser) parseType() (*ast.TypeExpr, bool) {
	if !p.at(token.Ident) {
		p.err(diag.SynExpectType, "expected type, got \""+p.lx.Peek().Text+"\"")
		return nil, false
	}
	name := p.advance()
	t := &ast.TypeExpr{Name: name.Text, Span: name.Span}

	if p.at(token.Lt) {
		p.advance()
		for {
			arg, ok := p.parseType()
			if !ok {
				return nil, false
			}
			t.Args = append(t.Args, arg)
			if !p.at(token.Comma) {
				break
			}
			p.advance()
		}
		gt, ok := p.expect(token.Gt, diag.SynExpectRAngle, "expected '>' to close type arguments")
		if !ok {
			return nil, false
		}
		t.Span = t.Span.Cover(gt.Span)
	}

	for p.at(token.Question) {
		q := p.advance()
		t.Optional++
		t.Span = t.Span.Cover(q.Span)
	}
	return t, true
}
