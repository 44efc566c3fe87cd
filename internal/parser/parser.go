package parser

import (
	"slices"

	"astgen/internal/ast"
	"astgen/internal/diag"
	"astgen/internal/lexer"
	"astgen/internal/source"
	"astgen/internal/token"
)

type Options struct {
	MaxErrors     uint
	CurrentErrors uint
	Reporter      diag.Reporter
}

// Enough reports whether the error limit has been reached.
func (o *Options) Enough() bool {
	if o.MaxErrors == 0 {
		return false
	}
	return o.CurrentErrors >= o.MaxErrors
}

// Parser holds the state for one definition file.
type Parser struct {
	lx       *lexer.Lexer
	file     *ast.File
	opts     Options
	lastSpan source.Span
}

// ParseFile parses every item of the file behind lx. Errors are reported
// through opts.Reporter; the returned tree contains the items that parsed.
func ParseFile(file *source.File, lx *lexer.Lexer, opts Options) *ast.File {
	p := Parser{
		lx:       lx,
		file:     &ast.File{ID: file.ID, Path: file.Path},
		opts:     opts,
		lastSpan: lx.EmptySpan(),
	}
	p.parseItems()
	return p.file
}

func (p *Parser) at(k token.Kind) bool {
	return p.lx.Peek().Kind == k
}

func (p *Parser) atOr(kinds ...token.Kind) bool {
	return slices.Contains(kinds, p.lx.Peek().Kind)
}

func (p *Parser) parseItems() {
	for !p.at(token.EOF) {
		item, ok := p.parseItem()
		if !ok {
			p.resyncTop()
			continue
		}
		p.file.Items = append(p.file.Items, item)
	}
}

// parseItem dispatches on the first token after the attribute list.
func (p *Parser) parseItem() (*ast.Item, bool) {
	doc := token.DocText(p.lx.Peek().Leading)
	attrs, ok := p.parseAttrs()
	if !ok {
		return nil, false
	}
	if len(attrs) > 0 && doc == "" {
		doc = token.DocText(p.lx.Peek().Leading)
	}

	var (
		item *ast.Item
	)
	switch p.lx.Peek().Kind {
	case token.KwType:
		item, ok = p.parseStructItem()
	case token.KwEnum:
		item, ok = p.parseEnumItem()
	default:
		p.err(diag.SynUnexpectedTopLevel, "expected 'type' or 'enum', got \""+p.lx.Peek().Text+"\"")
		return nil, false
	}
	if !ok {
		return nil, false
	}
	item.Attrs = attrs
	item.Doc = doc
	if len(attrs) > 0 {
		item.Span = attrs[0].Span.Cover(item.Span)
	}
	return item, true
}

// resyncTop skips to the next item starter after an error.
func (p *Parser) resyncTop() {
	for !p.atOr(token.EOF, token.KwType, token.KwEnum, token.At) {
		p.advance()
	}
}
