package testkit

import (
	"testing"

	"github.com/pmezard/go-difflib/difflib"
)

// AssertText fails with a unified diff when got differs from want.
func AssertText(t testing.TB, want, got string) {
	t.Helper()
	if want == got {
		return
	}
	diff, _ := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(want),
		B:        difflib.SplitLines(got),
		FromFile: "want",
		ToFile:   "got",
		Context:  5,
	})
	t.Error(diff)
}
