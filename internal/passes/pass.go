// Package passes holds the pipeline passes that run over the symbol table
// between loading and schema lowering: linking, then layout.
package passes

import (
	"context"

	"astgen/internal/symbols"
)

// Pass mutates the definitions of a fully populated table in place.
type Pass interface {
	Name() string
	Run(ctx context.Context, table *symbols.Table) error
}
