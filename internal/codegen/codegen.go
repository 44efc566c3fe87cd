// Package codegen wires loading, symbol building, passes and generators
// into one run. Nothing is written unless every stage succeeded.
package codegen

import (
	"context"
	"fmt"
	"io/fs"

	"astgen/internal/config"
	"astgen/internal/generators"
	"astgen/internal/layout"
	"astgen/internal/loader"
	"astgen/internal/observ"
	"astgen/internal/output"
	"astgen/internal/passes"
	"astgen/internal/schema"
	"astgen/internal/source"
	"astgen/internal/symbols"
	"astgen/internal/trace"
)

// Codegen collects definition files, passes and generators.
type Codegen struct {
	files  []string
	fsys   fs.FS
	root   string
	target layout.Target
	passes []passes.Pass
	gens   []generators.Generator
	timer  *observ.Timer
	set    *source.FileSet
}

// Result is a successful generation.
type Result struct {
	Schema  *schema.Schema
	Outputs []generators.Named
	Files   *source.FileSet
}

// New returns an empty Codegen for the default target.
func New() *Codegen {
	return &Codegen{target: layout.X86_64LinuxGNU()}
}

// AddFile appends a definition file; files load in the order added.
func (c *Codegen) AddFile(path string) *Codegen {
	c.files = append(c.files, path)
	return c
}

// FS sets the filesystem definition files are read from.
func (c *Codegen) FS(fsys fs.FS) *Codegen {
	c.fsys = fsys
	return c
}

// Root sets the directory definition files are read from when no FS is set.
func (c *Codegen) Root(dir string) *Codegen {
	c.root = dir
	return c
}

// Target sets the layout target of the schema.
func (c *Codegen) Target(t layout.Target) *Codegen {
	c.target = t
	return c
}

// Pass appends a pass; passes run in the order added.
func (c *Codegen) Pass(p passes.Pass) *Codegen {
	c.passes = append(c.passes, p)
	return c
}

// Gen appends a generator; generators run in the order added.
func (c *Codegen) Gen(g generators.Generator) *Codegen {
	c.gens = append(c.gens, g)
	return c
}

// Timer records phase timings into t.
func (c *Codegen) Timer(t *observ.Timer) *Codegen {
	c.timer = t
	return c
}

// Files shares a file set so callers can render positions afterwards.
func (c *Codegen) Files(set *source.FileSet) *Codegen {
	c.set = set
	return c
}

// Generate runs every stage in order and stops at the first error.
func (c *Codegen) Generate(ctx context.Context) (*Result, error) {
	span, ctx := trace.Start(ctx, trace.ScopeRun, "generate")
	res, err := c.generate(ctx)
	if err != nil {
		span.Fail(err)
		return nil, err
	}
	span.WithExtra("types", fmt.Sprint(res.Schema.Len())).
		WithExtra("outputs", fmt.Sprint(len(res.Outputs))).
		End("")
	return res, nil
}

func (c *Codegen) generate(ctx context.Context) (*Result, error) {
	set := c.set
	if set == nil {
		set = source.NewFileSet()
	}

	done := c.timer.Track("load")
	modules, err := loader.Load(ctx, c.files, loader.Options{FS: c.fsys, Root: c.root, Files: set})
	done(fmt.Sprintf("%d files", len(c.files)))
	if err != nil {
		return nil, err
	}

	done = c.timer.Track("symbols")
	table, err := symbols.Build(ctx, modules)
	done("")
	if err != nil {
		return nil, err
	}

	for _, p := range c.passes {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		done = c.timer.Track(p.Name())
		err := p.Run(ctx, table)
		done("")
		if err != nil {
			return nil, err
		}
	}

	done = c.timer.Track("schema")
	s := schema.Lower(table, c.target)
	done(fmt.Sprintf("%d types", s.Len()))

	outputs := make([]generators.Named, 0, len(c.gens))
	for _, g := range c.gens {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		done = c.timer.Track("gen:" + g.Name())
		out, err := g.Run(ctx, s)
		done(out.Kind.String())
		if err != nil {
			return nil, err
		}
		outputs = append(outputs, generators.Named{Generator: g.Name(), Output: out})
	}
	return &Result{Schema: s, Outputs: outputs, Files: set}, nil
}

// Default registers the configured definition files, the linker, the
// layout pass and every generator in the fixed order.
func Default(cfg config.Config) (*Codegen, error) {
	target, ok := layout.LookupTarget(cfg.Target)
	if !ok {
		return nil, fmt.Errorf("%w %q", config.ErrUnknownTarget, cfg.Target)
	}
	c := New().Root(cfg.Root).Target(target)
	for _, f := range cfg.Definitions {
		c.AddFile(f)
	}
	c.Pass(passes.Linker{}).Pass(passes.CalcLayout{Target: target})
	for _, g := range generators.All(generators.Options{
		Dir:        cfg.OutDir,
		Package:    cfg.Package,
		LayoutData: cfg.LayoutData,
	}) {
		c.Gen(g)
	}
	return c, nil
}

// RunOptions are the per-invocation switches layered over a Config.
type RunOptions struct {
	DryRun bool
	// NoFormat disables formatting in addition to the config's setting.
	NoFormat bool
	// SchemaPath overrides the config's schema output when set.
	SchemaPath string
	// Jobs overrides the config's concurrency when positive.
	Jobs int
	// FS replaces reading definitions from cfg.Root.
	FS    fs.FS
	Timer *observ.Timer
	Files *source.FileSet
}

// Report is the outcome of Run.
type Report struct {
	Result *Result
	Output *output.Report
}

// Run generates from cfg and commits the outputs under cfg.Root.
func Run(ctx context.Context, cfg config.Config, opts RunOptions) (*Report, error) {
	c, err := Default(cfg)
	if err != nil {
		return nil, err
	}
	if opts.FS != nil {
		c.FS(opts.FS)
	}
	c.Timer(opts.Timer).Files(opts.Files)

	res, err := c.Generate(ctx)
	if err != nil {
		return nil, err
	}

	schemaPath := cfg.SchemaPath
	if opts.SchemaPath != "" {
		schemaPath = opts.SchemaPath
	}
	jobs := cfg.Jobs
	if opts.Jobs > 0 {
		jobs = opts.Jobs
	}
	w := output.New(output.Options{
		Root:       cfg.Root,
		Jobs:       jobs,
		DryRun:     opts.DryRun,
		NoFormat:   opts.NoFormat || cfg.NoFormat,
		Formatter:  output.NewFormatter(cfg.FormatCommand),
		SchemaPath: schemaPath,
	})
	done := opts.Timer.Track("write")
	rep, err := w.Write(ctx, res.Outputs, res.Schema)
	done("")
	if err != nil {
		return nil, err
	}
	return &Report{Result: res, Output: rep}, nil
}
