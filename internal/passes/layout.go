package passes

import (
	"context"
	"fmt"

	"astgen/internal/layout"
	"astgen/internal/symbols"
	"astgen/internal/trace"
)

// CalcLayout attaches a LayoutInfo to every definition and verifies that
// layout-interchangeable families agree. It requires a linked table.
type CalcLayout struct {
	Target layout.Target
}

func (CalcLayout) Name() string { return "layout" }

func (c CalcLayout) Run(ctx context.Context, table *symbols.Table) error {
	span, ctx := trace.Start(ctx, trace.ScopePass, c.Name())
	target := c.Target
	if target.Triple == "" {
		target = layout.X86_64LinuxGNU()
	}
	eng := layout.New(target, table)

	for id, def := range table.All() {
		tspan, _ := trace.Start(ctx, trace.ScopeType, def.Name)
		l, err := eng.LayoutOf(id)
		if err != nil {
			tspan.Fail(err)
			span.Fail(err)
			return err
		}
		def.Layout = l.Info()
		tspan.End(fmt.Sprintf("size=%d align=%d", l.Size, l.Align))
	}

	families := layout.Families(table.All())
	for _, fam := range families {
		if err := layout.CheckFamily(fam, table); err != nil {
			span.Fail(err)
			return err
		}
	}
	span.WithExtra("target", target.Triple).
		WithExtra("families", fmt.Sprint(len(families))).
		End("")
	return nil
}
