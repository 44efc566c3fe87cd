package token

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLookupKeyword(t *testing.T) {
	k, ok := LookupKeyword("type")
	require.True(t, ok)
	require.Equal(t, KwType, k)

	_, ok = LookupKeyword("Type")
	require.False(t, ok)
}

func TestDocText(t *testing.T) {
	leading := []Trivia{
		{Kind: TriviaDocLine, Text: "/// Binary expression."},
		{Kind: TriviaNewline, Text: "\n"},
		{Kind: TriviaDocLine, Text: "///   a + b"},
		{Kind: TriviaNewline, Text: "\n"},
	}
	require.Equal(t, "Binary expression.\na + b", DocText(leading))

	detached := append(append([]Trivia{}, leading...), Trivia{Kind: TriviaNewline, Text: "\n"})
	require.Equal(t, "", DocText(detached))

	commented := []Trivia{
		{Kind: TriviaDocLine, Text: "/// stale"},
		{Kind: TriviaNewline, Text: "\n"},
		{Kind: TriviaLineComment, Text: "// note"},
		{Kind: TriviaNewline, Text: "\n"},
	}
	require.Equal(t, "", DocText(commented))
}
