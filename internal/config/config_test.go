package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"astgen/internal/config"
)

func writeConfig(t *testing.T, dir, body string) string {
	t.Helper()
	p := filepath.Join(dir, config.FileName)
	require.NoError(t, os.WriteFile(p, []byte(body), 0o600))
	return p
}

func TestDefaultIsValid(t *testing.T) {
	cfg := config.Default()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, config.DefaultDefinitions, cfg.Definitions)
	assert.Equal(t, "x86_64-linux-gnu", cfg.Target)
	assert.False(t, cfg.NoFormat)
}

func TestLoadOverlaysDefinedKeys(t *testing.T) {
	dir := t.TempDir()
	p := writeConfig(t, dir, `
[definitions]
files = ["defs/a.astdef", "defs/b.astdef"]

[output]
package = "syntax"
schema = "out/schema.yaml"

[layout]
target = "wasm32"

[format]
enabled = false

[run]
jobs = 3
`)
	cfg, err := config.Load(p)
	require.NoError(t, err)
	assert.Equal(t, dir, cfg.Root)
	assert.Equal(t, p, cfg.Path)
	assert.Equal(t, []string{"defs/a.astdef", "defs/b.astdef"}, cfg.Definitions)
	assert.Equal(t, "syntax", cfg.Package)
	assert.Equal(t, "ast", cfg.OutDir, "undefined keys keep defaults")
	assert.Equal(t, "ast/layout.msgpack", cfg.LayoutData)
	assert.Equal(t, "out/schema.yaml", cfg.SchemaPath)
	assert.Equal(t, "wasm32", cfg.Target)
	assert.True(t, cfg.NoFormat)
	assert.Equal(t, 3, cfg.Jobs)
}

func TestLoadEmptyLayoutDataSelectsInfo(t *testing.T) {
	p := writeConfig(t, t.TempDir(), "[output]\nlayout_data = \"\"\n")
	cfg, err := config.Load(p)
	require.NoError(t, err)
	assert.Empty(t, cfg.LayoutData)
}

func TestLoadRejects(t *testing.T) {
	cases := map[string]string{
		"unknown key":   "[output]\ndirectory = \"x\"\n",
		"bad target":    "[layout]\ntarget = \"sparc\"\n",
		"no files":      "[definitions]\nfiles = []\n",
		"escaping path": "[definitions]\nfiles = [\"../outside.astdef\"]\n",
		"bad package":   "[output]\npackage = \"my-ast\"\n",
		"syntax":        "[output\n",
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := config.Load(writeConfig(t, t.TempDir(), body))
			assert.Error(t, err)
		})
	}
	_, err := config.Load(writeConfig(t, t.TempDir(), "[layout]\ntarget = \"sparc\"\n"))
	assert.ErrorIs(t, err, config.ErrUnknownTarget)
}

func TestResolveFindsNearestFile(t *testing.T) {
	root := t.TempDir()
	writeConfig(t, root, "[output]\ndir = \"gen\"\n")
	nested := filepath.Join(root, "a", "b")
	require.NoError(t, os.MkdirAll(nested, 0o755))

	cfg, err := config.Resolve("", nested)
	require.NoError(t, err)
	assert.Equal(t, "gen", cfg.OutDir)
	assert.Equal(t, root, cfg.Root)
}

func TestResolveFallsBackToDefaults(t *testing.T) {
	dir := t.TempDir()
	cfg, err := config.Resolve("", dir)
	require.NoError(t, err)
	assert.Equal(t, dir, cfg.Root)
	assert.Empty(t, cfg.Path)
	assert.Equal(t, config.DefaultDefinitions, cfg.Definitions)
}
