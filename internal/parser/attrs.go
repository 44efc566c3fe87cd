package parser

import (
	"strconv"

	"astgen/internal/ast"
	"astgen/internal/diag"
	"astgen/internal/token"
)

// parseAttrs parses zero or more `@name` / `@name(args)` attributes.
func (p *Parser) parseAttrs() ([]ast.Attr, bool) {
	var attrs []ast.Attr
	for p.at(token.At) {
		at := p.advance()
		name, ok := p.parseIdent()
		if !ok {
			return nil, false
		}
		attr := ast.Attr{Name: name.Text, Span: at.Span.Cover(name.Span)}
		if p.at(token.LParen) {
			p.advance()
			for !p.at(token.RParen) {
				arg, ok := p.parseAttrArg()
				if !ok {
					return nil, false
				}
				attr.Args = append(attr.Args, arg)
				if !p.at(token.Comma) {
					break
				}
				p.advance()
			}
			rp, ok := p.expect(token.RParen, diag.SynExpectRParen, "expected ')' after attribute arguments")
			if !ok {
				return nil, false
			}
			attr.Span = attr.Span.Cover(rp.Span)
		}
		attrs = append(attrs, attr)
	}
	return attrs, true
}

func (p *Parser) parseAttrArg() (ast.AttrArg, bool) {
	first, ok := p.parseLit()
	if !ok {
		return ast.AttrArg{}, false
	}
	if first.Kind == ast.LitIdent && p.at(token.Assign) {
		p.advance()
		value, ok := p.parseLit()
		if !ok {
			return ast.AttrArg{}, false
		}
		return ast.AttrArg{Key: first.Text, Value: value, Span: first.Span.Cover(value.Span)}, true
	}
	return ast.AttrArg{Value: first, Span: first.Span}, true
}

func (p *Parser) parseLit() (ast.Lit, bool) {
	tok := p.lx.Peek()
	switch tok.Kind {
	case token.Ident, token.KwType, token.KwEnum:
		p.advance()
		return ast.Lit{Kind: ast.LitIdent, Text: tok.Text, Value: tok.Text, Span: tok.Span}, true
	case token.IntLit:
		p.advance()
		return ast.Lit{Kind: ast.LitInt, Text: tok.Text, Value: tok.Text, Span: tok.Span}, true
	case token.StringLit:
		p.advance()
		value, err := strconv.Unquote(tok.Text)
		if err != nil {
			p.report(diag.SynUnexpectedToken, diag.SevError, tok.Span, "invalid string literal "+tok.Text)
			return ast.Lit{}, false
		}
		return ast.Lit{Kind: ast.LitString, Text: tok.Text, Value: value, Span: tok.Span}, true
	default:
		p.err(diag.SynUnexpectedToken, "expected identifier, integer or string, got \""+tok.Text+"\"")
		return ast.Lit{}, false
	}
}
