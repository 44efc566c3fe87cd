package diag

import (
	"testing"

	"github.com/stretchr/testify/require"

	"astgen/internal/source"
)

func TestBag_LimitAndSort(t *testing.T) {
	bag := NewBag(2)
	r := BagReporter{Bag: bag}
	r.Report(SynExpectType, SevError, source.Span{Start: 9, End: 10}, "late", nil)
	r.Report(ExpUnknownAttr, SevWarning, source.Span{Start: 1, End: 2}, "early", nil)
	r.Report(LexUnknownChar, SevError, source.Span{Start: 0, End: 1}, "dropped", nil)

	require.Equal(t, 2, bag.Len())
	require.True(t, bag.HasErrors())
	require.Len(t, bag.Errors(), 1)

	bag.Sort()
	require.Equal(t, "early", bag.Items()[0].Message)
}

func TestCode_ID(t *testing.T) {
	require.Equal(t, "LEX1001", LexUnknownChar.ID())
	require.Equal(t, "SYN2003", SynExpectIdentifier.ID())
	require.Equal(t, "EXP2501", ExpUnknownAttr.ID())
	require.Equal(t, "Unknown error", Code(42).Title())
}

func TestDiagnostic_Format(t *testing.T) {
	fs := source.NewFileSet()
	id := fs.AddVirtual("a.astdef", []byte("type\nX"))
	d := Diagnostic{Severity: SevError, Code: SynExpectEquals, Message: "expected '='", Primary: source.Span{File: id, Start: 5, End: 6}}
	require.Equal(t, "a.astdef:2:1: ERROR [SYN2004] expected '='", d.Format(fs))
}
