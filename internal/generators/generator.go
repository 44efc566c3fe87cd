// Package generators turns a linked, laid-out schema into derived Go source
// and layout data. Every generator reads only the schema and produces one
// Output; none of them touches the filesystem.
package generators

import (
	"context"
	"path"

	"astgen/internal/schema"
)

// OutputKind says what the writer should do with an Output.
type OutputKind uint8

const (
	// OutputNone means the generator produced nothing for this schema.
	OutputNone OutputKind = iota
	// OutputInfo is human-readable text; it is reported, never written.
	OutputInfo
	// OutputData is a binary artifact written verbatim.
	OutputData
	// OutputStream is Go source written and then formatted.
	OutputStream
)

func (k OutputKind) String() string {
	switch k {
	case OutputInfo:
		return "info"
	case OutputData:
		return "data"
	case OutputStream:
		return "source"
	default:
		return "none"
	}
}

// Output is the result of one generator run. Path is relative to the
// output root and empty for OutputNone and OutputInfo.
type Output struct {
	Kind  OutputKind
	Path  string
	Bytes []byte
}

// Named tags an Output with the generator that produced it.
type Named struct {
	Generator string
	Output
}

// Generator derives one artifact from a schema.
type Generator interface {
	Name() string
	Run(ctx context.Context, s *schema.Schema) (Output, error)
}

// Options are shared by the source generators.
type Options struct {
	// Dir is the output directory of generated sources, relative to the root.
	Dir string
	// Package is the Go package name of generated sources.
	Package string
	// LayoutData is the path of the layout table; empty selects text output.
	LayoutData string
}

const (
	DefaultDir     = "ast"
	DefaultPackage = "ast"
)

func (o Options) dir() string {
	if o.Dir == "" {
		return DefaultDir
	}
	return o.Dir
}

func (o Options) pkg() string {
	if o.Package == "" {
		return DefaultPackage
	}
	return o.Package
}

func (o Options) file(name string) string {
	return path.Join(o.dir(), name)
}

// All returns every generator in the fixed run order.
func All(opts Options) []Generator {
	return []Generator{
		AssertLayouts{Options: opts},
		Types{Options: opts},
		Kind{Options: opts},
		Builder{Options: opts},
		Span{Options: opts},
		Visit{Options: opts},
		VisitMut{Options: opts},
	}
}

func stream(p string, w *codeWriter) Output {
	return Output{Kind: OutputStream, Path: p, Bytes: w.bytes()}
}
