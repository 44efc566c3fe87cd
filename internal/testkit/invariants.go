// Package testkit holds helpers shared by astgen tests.
package testkit

import (
	"fmt"

	"fortio.org/safecast"

	"astgen/internal/ast"
	"astgen/internal/source"
)

// CheckSpanInvariants runs a minimal set of span invariants on a parsed file:
// 1) every item span is non-empty and within the file content
// 2) every field and variant span lies within its item span
// 3) item spans do not overlap and appear in source order
func CheckSpanInvariants(f *ast.File, sf *source.File) error {
	if f == nil || sf == nil {
		return fmt.Errorf("nil file")
	}
	lenContent, err := safecast.Conv[uint32](len(sf.Content))
	if err != nil {
		return fmt.Errorf("len content overflow: %w", err)
	}

	var prevEnd uint32
	for _, item := range f.Items {
		sp := item.Span
		if sp.End <= sp.Start {
			return fmt.Errorf("empty item span for %s: %v", item.Name, sp)
		}
		if sp.File != sf.ID {
			return fmt.Errorf("item span file mismatch: got=%d want=%d", sp.File, sf.ID)
		}
		if sp.End > lenContent {
			return fmt.Errorf("item %s span end beyond content: %d > %d", item.Name, sp.End, lenContent)
		}
		if sp.Start < prevEnd {
			return fmt.Errorf("item %s span %v overlaps the previous item", item.Name, sp)
		}
		prevEnd = sp.End

		inside := func(kind, name string, member source.Span) error {
			if member.Start < sp.Start || member.End > sp.End {
				return fmt.Errorf("%s %s.%s span %v is outside item span %v", kind, item.Name, name, member, sp)
			}
			return nil
		}
		for _, f := range item.Fields {
			if err := inside("field", f.Name, f.Span); err != nil {
				return err
			}
		}
		for _, v := range item.Variants {
			if err := inside("variant", v.Name, v.Span); err != nil {
				return err
			}
		}
	}
	return nil
}
