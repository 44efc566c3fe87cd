package output

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"

	"golang.org/x/tools/imports"
)

// Formatter rewrites one generated Go file in memory.
type Formatter interface {
	Name() string
	Format(ctx context.Context, path string, src []byte) ([]byte, error)
}

// Imports formats in process with goimports rules.
type Imports struct{}

func (Imports) Name() string { return "goimports" }

func (Imports) Format(_ context.Context, path string, src []byte) ([]byte, error) {
	return imports.Process(path, src, &imports.Options{
		Comments:   true,
		TabIndent:  true,
		TabWidth:   8,
		FormatOnly: true,
	})
}

// Command pipes the source through an external formatter such as gofmt or
// gofumpt that reads stdin and writes stdout.
type Command struct {
	Argv []string
}

func (c Command) Name() string { return strings.Join(c.Argv, " ") }

func (c Command) Format(ctx context.Context, path string, src []byte) ([]byte, error) {
	if len(c.Argv) == 0 {
		return nil, fmt.Errorf("format %s: empty formatter command", path)
	}
	cmd := exec.CommandContext(ctx, c.Argv[0], c.Argv[1:]...) //nolint:gosec // formatter comes from the project config
	cmd.Stdin = bytes.NewReader(src)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		msg := strings.TrimSpace(stderr.String())
		if msg == "" {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %s", err, msg)
	}
	return stdout.Bytes(), nil
}

// NewFormatter returns Command for a non-empty argv and Imports otherwise.
func NewFormatter(argv []string) Formatter {
	if len(argv) == 0 {
		return Imports{}
	}
	return Command{Argv: argv}
}
