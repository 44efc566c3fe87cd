package token

import (
	"strings"

	"astgen/internal/source"
)

type TriviaKind uint8

const (
	TriviaSpace TriviaKind = iota
	TriviaNewline
	TriviaLineComment
	TriviaBlockComment
	TriviaDocLine
)

type Trivia struct {
	Kind TriviaKind
	Span source.Span
	Text string
}

// DocText joins the `///` lines of leading trivia into a doc comment body.
// A blank line or a regular comment between doc lines and the token resets it.
func DocText(leading []Trivia) string {
	var lines []string
	newlines := 0
	for _, tr := range leading {
		switch tr.Kind {
		case TriviaDocLine:
			if newlines > 1 {
				lines = lines[:0]
			}
			newlines = 0
			lines = append(lines, strings.TrimSpace(strings.TrimPrefix(tr.Text, "///")))
		case TriviaNewline:
			newlines += len(tr.Text)
		case TriviaLineComment, TriviaBlockComment:
			lines = lines[:0]
		}
	}
	if newlines > 1 {
		return ""
	}
	return strings.Join(lines, "\n")
}
