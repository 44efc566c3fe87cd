package symbols_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"astgen/internal/defs"
	"astgen/internal/loader"
	"astgen/internal/symbols"
)

func module(path string, names ...string) *loader.Module {
	m := &loader.Module{Path: path}
	for _, n := range names {
		m.Items = append(m.Items, defs.TypeDef{
			ID:     defs.NoTypeID,
			Name:   n,
			Module: path,
			Fields: []defs.Field{{Name: "x", Type: defs.Named("Other")}},
		})
	}
	return m
}

func TestBuildAssignsDenseIDs(t *testing.T) {
	mods := []*loader.Module{module("a", "A", "B"), module("b"), module("c", "C")}
	table, err := symbols.Build(context.Background(), mods)
	require.NoError(t, err)
	require.Equal(t, 3, table.Len())

	seen := make(map[defs.TypeID]bool)
	for id, def := range table.All() {
		assert.Equal(t, id, def.ID)
		assert.False(t, seen[id])
		seen[id] = true
		got, ok := table.Lookup(def.Name)
		require.True(t, ok)
		assert.Equal(t, id, got)
	}
	for i := range table.Len() {
		assert.True(t, seen[defs.TypeID(i)], "id %d skipped", i)
	}

	id, _ := table.Lookup("C")
	assert.Equal(t, defs.TypeID(2), id)
	assert.Equal(t, []string{"A", "B", "C"}, table.Names())
}

func TestBuildCopiesModuleItems(t *testing.T) {
	mods := []*loader.Module{module("a", "A")}
	table, err := symbols.Build(context.Background(), mods)
	require.NoError(t, err)

	table.Def(0).Fields[0].Type.ID = 7
	assert.Equal(t, defs.NoTypeID, mods[0].Items[0].Fields[0].Type.ID)
	assert.Equal(t, defs.NoTypeID, mods[0].Items[0].ID)
}

func TestBuildRejectsDuplicates(t *testing.T) {
	_, err := symbols.Build(context.Background(), []*loader.Module{module("a", "A"), module("b", "A")})
	var dup *symbols.DuplicateNameError
	require.ErrorAs(t, err, &dup)
	assert.Equal(t, "A", dup.Name)
	assert.Equal(t, "b", dup.Module)
	assert.Equal(t, "a", dup.FirstModule)
	assert.False(t, dup.Reserved)
}

func TestBuildRejectsPrimitiveNames(t *testing.T) {
	_, err := symbols.Build(context.Background(), []*loader.Module{module("a", "u32")})
	var dup *symbols.DuplicateNameError
	require.ErrorAs(t, err, &dup)
	assert.True(t, dup.Reserved)
	assert.Contains(t, err.Error(), "reserved")
}
