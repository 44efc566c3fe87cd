package parser

import (
	"astgen/internal/ast"
	"astgen/internal/diag"
	"astgen/internal/token"
)

// parseStructItem parses
//
//	type Name = { field: Type, ... }
func (p *Parser) parseStructItem() (*ast.Item, bool) {
	kw := p.advance()
	name, ok := p.parseIdent()
	if !ok {
		return nil, false
	}
	if _, ok = p.expect(token.Assign, diag.SynExpectEquals, "expected '=' after type name"); !ok {
		return nil, false
	}
	if _, ok = p.expect(token.LBrace, diag.SynExpectBody, "expected '{' for type body"); !ok {
		return nil, false
	}

	item := &ast.Item{Kind: ast.ItemStruct, Name: name.Text, NameSpan: name.Span}
	for !p.atOr(token.RBrace, token.EOF) {
		field, ok := p.parseField()
		if !ok {
			return nil, false
		}
		item.Fields = append(item.Fields, field)
		if !p.at(token.Comma) {
			break
		}
		p.advance()
	}

	rb, ok := p.expect(token.RBrace, diag.SynExpectRBrace, "expected '}' after type body")
	if !ok {
		return nil, false
	}
	item.Span = kw.Span.Cover(rb.Span)
	p.eatSemicolon(item)
	return item, true
}

// parseEnumItem parses
//
//	enum Name = { A, B(Box<T>), C = 4 }
//	enum Name: u16 = { ... }
func (p *Parser) parseEnumItem() (*ast.Item, bool) {
	kw := p.advance()
	name, ok := p.parseIdent()
	if !ok {
		return nil, false
	}
	item := &ast.Item{Kind: ast.ItemEnum, Name: name.Text, NameSpan: name.Span}

	if p.at(token.Colon) {
		p.advance()
		repr, ok := p.parseIdent()
		if !ok {
			return nil, false
		}
		item.Repr = &ast.Ident{Name: repr.Text, Span: repr.Span}
	}
	if _, ok = p.expect(token.Assign, diag.SynExpectEquals, "expected '=' after enum name"); !ok {
		return nil, false
	}
	if _, ok = p.expect(token.LBrace, diag.SynExpectBody, "expected '{' for enum body"); !ok {
		return nil, false
	}

	for !p.atOr(token.RBrace, token.EOF) {
		variant, ok := p.parseVariant()
		if !ok {
			return nil, false
		}
		item.Variants = append(item.Variants, variant)
		if !p.at(token.Comma) {
			break
		}
		p.advance()
	}

	rb, ok := p.expect(token.RBrace, diag.SynExpectRBrace, "expected '}' after enum body")
	if !ok {
		return nil, false
	}
	item.Span = kw.Span.Cover(rb.Span)
	p.eatSemicolon(item)
	return item, true
}

func (p *Parser) eatSemicolon(item *ast.Item) {
	if p.at(token.Semicolon) {
		item.Span = item.Span.Cover(p.advance().Span)
	}
}

func (p *Parser) parseField() (*ast.Field, bool) {
	doc := token.DocText(p.lx.Peek().Leading)
	attrs, ok := p.parseAttrs()
	if !ok {
		return nil, false
	}
	if len(attrs) > 0 && doc == "" {
		doc = token.DocText(p.lx.Peek().Leading)
	}
	name, ok := p.parseIdent()
	if !ok {
		return nil, false
	}
	if _, ok = p.expect(token.Colon, diag.SynExpectColon, "expected ':' after field name"); !ok {
		return nil, false
	}
	typ, ok := p.parseType()
	if !ok {
		return nil, false
	}
	span := name.Span.Cover(typ.Span)
	if len(attrs) > 0 {
		span = attrs[0].Span.Cover(span)
	}
	return &ast.Field{Name: name.Text, Type: typ, Attrs: attrs, Doc: doc, Span: span}, true
}

func (p *Parser) parseVariant() (*ast.Variant, bool) {
	doc := token.DocText(p.lx.Peek().Leading)
	attrs, ok := p.parseAttrs()
	if !ok {
		return nil, false
	}
	if len(attrs) > 0 && doc == "" {
		doc = token.DocText(p.lx.Peek().Leading)
	}
	name, ok := p.parseIdent()
	if !ok {
		return nil, false
	}
	v := &ast.Variant{Name: name.Text, Attrs: attrs, Doc: doc, Span: name.Span}
	if len(attrs) > 0 {
		v.Span = attrs[0].Span.Cover(v.Span)
	}

	if p.at(token.LParen) {
		p.advance()
		payload, ok := p.parseType()
		if !ok {
			return nil, false
		}
		rp, ok := p.expect(token.RParen, diag.SynExpectRParen, "expected ')' after variant payload")
		if !ok {
			return nil, false
		}
		v.Payload = payload
		v.Span = v.Span.Cover(rp.Span)
	}

	if p.at(token.Assign) {
		p.advance()
		tok, ok := p.expect(token.IntLit, diag.SynExpectInteger, "expected integer discriminant")
		if !ok {
			return nil, false
		}
		v.Discr = &ast.Lit{Kind: ast.LitInt, Text: tok.Text, Value: tok.Text, Span: tok.Span}
		v.Span = v.Span.Cover(tok.Span)
	}
	return v, true
}
