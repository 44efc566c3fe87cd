package schema_test

import (
	"bytes"
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"astgen/internal/defs"
	"astgen/internal/schema"
	"astgen/internal/testkit"
)

const src = testkit.SpanDef + `
/// A bare name.
@visit
type Ident = { span: Span, name: str }
@visit
type Number = { span: Span, value: f64 }
@visit
enum Expression = { Ident(Box<Ident>), Number(Box<Number>) }
enum Op: u16 = { Add, Sub = 4 }
`

func TestLowerIndexesEveryType(t *testing.T) {
	s := testkit.Compile(t, src)
	require.Equal(t, 5, s.Len())

	seen := make(map[defs.TypeID]bool)
	for id, def := range s.All() {
		assert.Equal(t, id, def.ID)
		got, ok := s.Lookup(def.Name)
		require.True(t, ok)
		assert.Same(t, def, got)
		seen[id] = true
		require.NotNil(t, def.Layout, def.Name)
	}
	assert.Len(t, seen, s.Len())
	assert.Nil(t, s.Def(defs.TypeID(s.Len())))

	_, ok := s.Lookup("Missing")
	assert.False(t, ok)
	assert.Equal(t, "x86_64-linux-gnu", s.Target().Triple)
}

func TestRefDef(t *testing.T) {
	s := testkit.Compile(t, src)
	expr, _ := s.Lookup("Expression")
	ident := s.RefDef(expr.Variants[0].Payload)
	require.NotNil(t, ident)
	assert.Equal(t, "Ident", ident.Name)

	id, _ := s.Lookup("Ident")
	assert.Nil(t, s.RefDef(id.Fields[1].Type))
}

func TestEncodeJSON(t *testing.T) {
	s := testkit.Compile(t, src)
	var buf bytes.Buffer
	require.NoError(t, schema.Encode(&buf, s, schema.FormatJSON))

	var doc struct {
		Target string `json:"target"`
		Types  []struct {
			Name     string `json:"name"`
			Kind     string `json:"kind"`
			Doc      string `json:"doc"`
			Repr     string `json:"repr"`
			Variants []struct {
				Name  string `json:"name"`
				Discr uint64 `json:"discriminant"`
			} `json:"variants"`
			Layout struct {
				Size  int `json:"size"`
				Align int `json:"align"`
			} `json:"layout"`
		} `json:"types"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &doc))
	assert.Equal(t, "x86_64-linux-gnu", doc.Target)
	require.Len(t, doc.Types, 5)
	assert.Equal(t, "Ident", doc.Types[1].Name)
	assert.Equal(t, "A bare name.", doc.Types[1].Doc)
	assert.Equal(t, 24, doc.Types[1].Layout.Size)

	op := doc.Types[4]
	assert.Equal(t, "enum", op.Kind)
	assert.Equal(t, "u16", op.Repr)
	require.Len(t, op.Variants, 2)
	assert.Equal(t, uint64(4), op.Variants[1].Discr)
}

func TestEncodeYAMLMatchesJSON(t *testing.T) {
	s := testkit.Compile(t, src)
	var jbuf, ybuf bytes.Buffer
	require.NoError(t, schema.Encode(&jbuf, s, schema.FormatJSON))
	require.NoError(t, schema.Encode(&ybuf, s, schema.FormatYAML))

	var fromJSON, fromYAML map[string]any
	require.NoError(t, json.Unmarshal(jbuf.Bytes(), &fromJSON))
	require.NoError(t, yaml.Unmarshal(ybuf.Bytes(), &fromYAML))
	assert.Equal(t, fromJSON["target"], fromYAML["target"])
	assert.Len(t, fromYAML["types"], len(fromJSON["types"].([]any)))
}

func TestEncodeIsDeterministic(t *testing.T) {
	var a, b bytes.Buffer
	require.NoError(t, schema.Encode(&a, testkit.Compile(t, src), schema.FormatJSON))
	require.NoError(t, schema.Encode(&b, testkit.Compile(t, src), schema.FormatJSON))
	testkit.AssertText(t, a.String(), b.String())
}

func TestFormatFor(t *testing.T) {
	assert.Equal(t, schema.FormatYAML, schema.FormatFor("out/schema.yaml"))
	assert.Equal(t, schema.FormatYAML, schema.FormatFor("schema.YML"))
	assert.Equal(t, schema.FormatJSON, schema.FormatFor("schema.json"))
	assert.Equal(t, schema.FormatJSON, schema.FormatFor("schema"))
}
