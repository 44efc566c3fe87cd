package lexer

import (
	"astgen/internal/diag"
	"astgen/internal/token"
)

// scanNumber accepts decimal and 0x/0b/0o integers with '_' separators.
// Discriminants and attribute arguments are integers only.
func (lx *Lexer) scanNumber() token.Token {
	start := lx.cursor.Mark()

	digit := isDec
	if b0, b1, ok := lx.cursor.Peek2(); ok && b0 == '0' {
		prefixed := true
		switch b1 {
		case 'x', 'X':
			digit = isHex
		case 'b', 'B':
			digit = func(b byte) bool { return b == '0' || b == '1' }
		case 'o', 'O':
			digit = func(b byte) bool { return b >= '0' && b <= '7' }
		default:
			prefixed = false
		}
		if prefixed {
			lx.cursor.Bump()
			lx.cursor.Bump()
			if !digit(lx.cursor.Peek()) {
				sp := lx.cursor.SpanFrom(start)
				lx.errLex(diag.LexBadNumber, sp, "expected digits after base prefix")
				return token.Token{Kind: token.Invalid, Span: sp, Text: string(lx.file.Content[sp.Start:sp.End])}
			}
		}
	}

	for digit(lx.cursor.Peek()) || lx.cursor.Peek() == '_' {
		lx.cursor.Bump()
	}

	if b := lx.cursor.Peek(); isIdentStartByte(b) || b == '.' {
		for isIdentContinueByte(lx.cursor.Peek()) || lx.cursor.Peek() == '.' {
			lx.cursor.Bump()
		}
		sp := lx.cursor.SpanFrom(start)
		lx.errLex(diag.LexBadNumber, sp, "malformed integer literal")
		return token.Token{Kind: token.Invalid, Span: sp, Text: string(lx.file.Content[sp.Start:sp.End])}
	}

	sp := lx.cursor.SpanFrom(start)
	return token.Token{Kind: token.IntLit, Span: sp, Text: string(lx.file.Content[sp.Start:sp.End])}
}
