package loader

import (
	"fmt"
	"strings"

	"astgen/internal/diag"
	"astgen/internal/source"
)

// ParseError reports a malformed definition file.
type ParseError struct {
	Path        string
	Diagnostics []diag.Diagnostic

	files *source.FileSet
}

func (e *ParseError) Error() string {
	if e == nil {
		return "<nil>"
	}
	if len(e.Diagnostics) == 0 {
		return fmt.Sprintf("parse %s: malformed definition file", e.Path)
	}
	msg := e.Diagnostics[0].Format(e.files)
	if n := len(e.Diagnostics) - 1; n > 0 {
		msg += fmt.Sprintf(" (and %d more)", n)
	}
	return "parse error: " + msg
}

// Detail renders every diagnostic, one per line.
func (e *ParseError) Detail() string {
	var sb strings.Builder
	for _, d := range e.Diagnostics {
		sb.WriteString(d.Format(e.files))
		sb.WriteByte('\n')
	}
	return sb.String()
}
