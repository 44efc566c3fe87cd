package diag

import (
	"fmt"

	"astgen/internal/source"
)

type Note struct {
	Span source.Span
	Msg  string
}

type Diagnostic struct {
	Severity Severity
	Code     Code
	Message  string
	Primary  source.Span
	Notes    []Note
}

// Format renders d as "path:line:col: SEVERITY [CODE] message".
func (d Diagnostic) Format(fs *source.FileSet) string {
	pos := d.Primary.String()
	if fs != nil {
		pos = fs.Position(d.Primary)
	}
	return fmt.Sprintf("%s: %s [%s] %s", pos, d.Severity, d.Code.ID(), d.Message)
}
