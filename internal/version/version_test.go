package version

import (
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
)

func withVersion(t *testing.T, v, commit, date string) {
	t.Helper()
	origVersion, origCommit, origDate, origNoColor := Version, GitCommit, BuildDate, color.NoColor
	Version, GitCommit, BuildDate = v, commit, date
	color.NoColor = true
	t.Cleanup(func() {
		Version, GitCommit, BuildDate, color.NoColor = origVersion, origCommit, origDate, origNoColor
	})
}

func TestColoredWithoutColor(t *testing.T) {
	withVersion(t, "1.2.3-rc1", "", "")
	assert.Equal(t, "1.2.3-rc1", Colored())
	assert.Equal(t, "astgen 1.2.3-rc1", String())
}

func TestStringIncludesBuildInfo(t *testing.T) {
	withVersion(t, "1.2.3", "abc123", "2024-01-15T10:30:00Z")
	assert.Equal(t, "astgen 1.2.3 (abc123) built 2024-01-15T10:30:00Z", String())
}

func TestColoredKeepsNonSemver(t *testing.T) {
	withVersion(t, "devel", "", "")
	assert.Equal(t, "devel", Colored())
}
