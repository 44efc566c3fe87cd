package generators

import (
	"fmt"
	"strings"
)

const generatedHeader = "// Code generated by astgen. DO NOT EDIT.\n"

// codeWriter accumulates Go source with tab indentation.
type codeWriter struct {
	buf    strings.Builder
	indent int
}

func newFile(pkg string, imports ...string) *codeWriter {
	w := &codeWriter{}
	w.buf.WriteString(generatedHeader)
	w.buf.WriteString("\n")
	fmt.Fprintf(&w.buf, "package %s\n", pkg)
	switch len(imports) {
	case 0:
	case 1:
		fmt.Fprintf(&w.buf, "\nimport %q\n", imports[0])
	default:
		w.buf.WriteString("\nimport (\n")
		for _, imp := range imports {
			fmt.Fprintf(&w.buf, "\t%q\n", imp)
		}
		w.buf.WriteString(")\n")
	}
	return w
}

// line writes one indented line built with fmt.Fprintf.
func (w *codeWriter) line(format string, args ...any) {
	w.buf.WriteString(strings.Repeat("\t", w.indent))
	fmt.Fprintf(&w.buf, format, args...)
	w.buf.WriteByte('\n')
}

// raw writes text as one indented line without interpreting verbs.
func (w *codeWriter) raw(text string) {
	w.buf.WriteString(strings.Repeat("\t", w.indent))
	w.buf.WriteString(text)
	w.buf.WriteByte('\n')
}

// open writes a line and indents what follows.
func (w *codeWriter) open(format string, args ...any) {
	w.line(format, args...)
	w.indent++
}

// close dedents and writes the closing line, "}" by default.
func (w *codeWriter) close(closing ...string) {
	w.indent--
	if len(closing) > 0 {
		w.raw(closing[0])
		return
	}
	w.line("}")
}

func (w *codeWriter) blank() { w.buf.WriteByte('\n') }

// doc writes text as a comment block; name prefixes a missing doc.
func (w *codeWriter) doc(text, fallback string) {
	if text == "" {
		text = fallback
	}
	if text == "" {
		return
	}
	for _, l := range strings.Split(text, "\n") {
		if l == "" {
			w.line("//")
			continue
		}
		w.line("// %s", l)
	}
}

func (w *codeWriter) bytes() []byte { return []byte(w.buf.String()) }
