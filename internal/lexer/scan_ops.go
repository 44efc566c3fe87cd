package lexer

import (
	"astgen/internal/diag"
	"astgen/internal/token"
)

func (lx *Lexer) scanOperatorOrPunct() token.Token {
	start := lx.cursor.Mark()
	emit := func(k token.Kind) token.Token {
		sp := lx.cursor.SpanFrom(start)
		return token.Token{
			Kind: k,
			Span: sp,
			Text: string(lx.file.Content[sp.Start:sp.End]),
		}
	}

	switch lx.cursor.Bump() {
	case '=':
		return emit(token.Assign)
	case ':':
		return emit(token.Colon)
	case ',':
		return emit(token.Comma)
	case ';':
		return emit(token.Semicolon)
	case '?':
		return emit(token.Question)
	case '@':
		return emit(token.At)
	case '(':
		return emit(token.LParen)
	case ')':
		return emit(token.RParen)
	case '{':
		return emit(token.LBrace)
	case '}':
		return emit(token.RBrace)
	case '<':
		return emit(token.Lt)
	case '>':
		return emit(token.Gt)
	default:
		sp := lx.cursor.SpanFrom(start)
		lx.errLex(diag.LexUnknownChar, sp, "unknown character")
		return token.Token{Kind: token.Invalid, Span: sp, Text: string(lx.file.Content[sp.Start:sp.End])}
	}
}
