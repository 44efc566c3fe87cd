package symbols

import (
	"context"
	"fmt"

	"astgen/internal/loader"
	"astgen/internal/trace"
)

// Build assigns every item of every module the next TypeID, in module then
// item order, and indexes it by name. Module items are copied; the modules
// themselves are left untouched.
func Build(ctx context.Context, modules []*loader.Module) (*Table, error) {
	span, _ := trace.Start(ctx, trace.ScopePass, "symbols")

	var total uint
	for _, m := range modules {
		total += uint(len(m.Items))
	}
	table := NewTable(total)

	for _, m := range modules {
		for i := range m.Items {
			if _, err := table.Insert(m.Items[i].Clone()); err != nil {
				span.Fail(err)
				return nil, err
			}
		}
	}
	span.WithExtra("types", fmt.Sprint(table.Len())).End("")
	return table, nil
}
