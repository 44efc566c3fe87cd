// Package loader reads definition files, parses them and expands every item
// into a defs.TypeDef with normalized markers and shape-derived metadata.
package loader

import (
	"context"
	"fmt"
	"io/fs"
	"os"

	"astgen/internal/ast"
	"astgen/internal/defs"
	"astgen/internal/diag"
	"astgen/internal/fsutil"
	"astgen/internal/lexer"
	"astgen/internal/parser"
	"astgen/internal/source"
	"astgen/internal/trace"
)

// Module is one parsed definition file. It is never mutated after Load.
type Module struct {
	Path   string
	File   source.FileID
	Syntax *ast.File
	Items  []defs.TypeDef
}

// Options configures Load.
type Options struct {
	// FS is the filesystem paths are resolved in. Defaults to os.DirFS(Root).
	FS fs.FS
	// Root is used when FS is nil. Defaults to ".".
	Root string
	// Files receives every loaded file. A fresh set is used when nil.
	Files *source.FileSet
	// MaxDiagnostics bounds diagnostics collected per file; 0 is unbounded.
	MaxDiagnostics int
}

func (o *Options) fsys() fs.FS {
	if o.FS != nil {
		return o.FS
	}
	root := o.Root
	if root == "" {
		root = "."
	}
	return os.DirFS(root)
}

// Load reads, parses and expands every path in order. The first file with
// an error diagnostic aborts the load with a *ParseError; read failures are
// *fsutil.IOError.
func Load(ctx context.Context, paths []string, opts Options) ([]*Module, error) {
	span, ctx := trace.Start(ctx, trace.ScopePass, "load")
	fsys := opts.fsys()
	files := opts.Files
	if files == nil {
		files = source.NewFileSet()
	}

	modules := make([]*Module, 0, len(paths))
	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			span.Fail(err)
			return nil, err
		}
		mod, err := loadOne(ctx, fsys, files, path, opts.MaxDiagnostics)
		if err != nil {
			span.Fail(err)
			return nil, err
		}
		modules = append(modules, mod)
	}
	span.WithExtra("files", fmt.Sprint(len(modules))).End("")
	return modules, nil
}

func loadOne(ctx context.Context, fsys fs.FS, files *source.FileSet, path string, maxDiags int) (*Module, error) {
	span, _ := trace.Start(ctx, trace.ScopeModule, "load:"+path)

	id, err := files.Load(fsys, path)
	if err != nil {
		ioErr := &fsutil.IOError{Op: "read", Path: path, Err: err}
		span.Fail(ioErr)
		return nil, ioErr
	}
	file := files.Get(id)

	bag := diag.NewBag(maxDiags)
	rep := diag.BagReporter{Bag: bag}
	lx := lexer.New(file, lexer.Options{Reporter: rep})
	syntax := parser.ParseFile(file, lx, parser.Options{Reporter: rep})

	var items []defs.TypeDef
	if !bag.HasErrors() {
		x := expander{module: path, rep: rep}
		items = x.file(syntax)
	}
	if bag.HasErrors() {
		bag.Sort()
		perr := &ParseError{Path: path, Diagnostics: bag.Errors(), files: files}
		span.Fail(perr)
		return nil, perr
	}

	span.WithExtra("items", fmt.Sprint(len(items))).End("")
	return &Module{Path: path, File: id, Syntax: syntax, Items: items}, nil
}
