package parser_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"astgen/internal/ast"
	"astgen/internal/diag"
	"astgen/internal/lexer"
	"astgen/internal/parser"
	"astgen/internal/source"
	"astgen/internal/testkit"
)

func parse(t *testing.T, input string) (*ast.File, *diag.Bag) {
	t.Helper()
	fs := source.NewFileSet()
	file := fs.Get(fs.AddVirtual("test.astdef", []byte(input)))
	bag := diag.NewBag(0)
	rep := diag.BagReporter{Bag: bag}
	lx := lexer.New(file, lexer.Options{Reporter: rep})
	return parser.ParseFile(file, lx, parser.Options{Reporter: rep}), bag
}

func TestParseStruct(t *testing.T) {
	f, bag := parse(t, `
/// A binary expression.
@visit
type BinaryExpression = {
	span: Span,
	/// Left operand.
	left: Expression,
	@visit right: Box<Expression>?,
	items: Vec<Box<Item>>,
}`)
	require.False(t, bag.HasErrors(), "%v", bag.Items())
	require.Len(t, f.Items, 1)

	item := f.Items[0]
	assert.Equal(t, ast.ItemStruct, item.Kind)
	assert.Equal(t, "BinaryExpression", item.Name)
	assert.Equal(t, "A binary expression.", item.Doc)
	require.Len(t, item.Attrs, 1)
	assert.Equal(t, "visit", item.Attrs[0].Name)

	require.Len(t, item.Fields, 4)
	assert.Equal(t, "Left operand.", item.Fields[1].Doc)
	assert.Equal(t, "Box<Expression>?", item.Fields[2].Type.String())
	assert.Equal(t, 1, item.Fields[2].Type.Optional)
	require.Len(t, item.Fields[2].Attrs, 1)
	assert.Equal(t, "Vec<Box<Item>>", item.Fields[3].Type.String())
}

func TestParseEnum(t *testing.T) {
	f, bag := parse(t, `
@inherit(Literal)
enum Expression: u8 = {
	Binary(Box<BinaryExpression>) = 0,
	Unary(Box<UnaryExpression>) = 1,
	Empty = 64
};`)
	require.False(t, bag.HasErrors(), "%v", bag.Items())
	require.Len(t, f.Items, 1)

	item := f.Items[0]
	assert.Equal(t, ast.ItemEnum, item.Kind)
	require.NotNil(t, item.Repr)
	assert.Equal(t, "u8", item.Repr.Name)
	require.Len(t, item.Attrs, 1)
	require.Len(t, item.Attrs[0].Args, 1)
	assert.Equal(t, "Literal", item.Attrs[0].Args[0].Value.Value)

	require.Len(t, item.Variants, 3)
	assert.Equal(t, "Box<BinaryExpression>", item.Variants[0].Payload.String())
	assert.Equal(t, "0", item.Variants[0].Discr.Text)
	assert.Nil(t, item.Variants[2].Payload)
	assert.Equal(t, "64", item.Variants[2].Discr.Text)
}

func TestParseAttrArgs(t *testing.T) {
	f, bag := parse(t, `@expect_layout(size = 16, align = 8) @interchangeable("group") type A = { a: u64, b: u64 }`)
	require.False(t, bag.HasErrors(), "%v", bag.Items())
	require.Len(t, f.Items, 1)

	attrs := f.Items[0].Attrs
	require.Len(t, attrs, 2)
	require.Len(t, attrs[0].Args, 2)
	assert.Equal(t, "size", attrs[0].Args[0].Key)
	assert.Equal(t, ast.LitInt, attrs[0].Args[0].Value.Kind)
	assert.Equal(t, "16", attrs[0].Args[0].Value.Value)
	assert.Equal(t, ast.LitString, attrs[1].Args[0].Value.Kind)
	assert.Equal(t, "group", attrs[1].Args[0].Value.Value)
}

func TestParseRecoversAtNextItem(t *testing.T) {
	f, bag := parse(t, `
type Broken = { a u8 }
type Fine = { a: u8 }
enum AlsoFine = { X }
`)
	require.True(t, bag.HasErrors())
	assert.Equal(t, diag.SynExpectColon, bag.Errors()[0].Code)

	require.Len(t, f.Items, 2)
	assert.Equal(t, "Fine", f.Items[0].Name)
	assert.Equal(t, "AlsoFine", f.Items[1].Name)
}

func TestParseUnexpectedTopLevel(t *testing.T) {
	_, bag := parse(t, `struct A {}`)
	require.True(t, bag.HasErrors())
	assert.Equal(t, diag.SynUnexpectedTopLevel, bag.Errors()[0].Code)
}

func TestParseMissingCloseBrace(t *testing.T) {
	_, bag := parse(t, `type A = { a: u8`)
	require.True(t, bag.HasErrors())
	assert.Equal(t, diag.SynExpectRBrace, bag.Errors()[0].Code)
}

func TestParseSpanInvariants(t *testing.T) {
	input := `type Span = { start: u32, end: u32 }
@visit
type Ident = { span: Span, name: str }
enum Op: u16 = { Add = 1, Sub }
@visit enum Expression = { Ident(Box<Ident>), Missing }
`
	fs := source.NewFileSet()
	file := fs.Get(fs.AddVirtual("spans.astdef", []byte(input)))
	bag := diag.NewBag(0)
	rep := diag.BagReporter{Bag: bag}
	f := parser.ParseFile(file, lexer.New(file, lexer.Options{Reporter: rep}), parser.Options{Reporter: rep})
	require.False(t, bag.HasErrors(), "%v", bag.Items())
	require.NoError(t, testkit.CheckSpanInvariants(f, file))
}
