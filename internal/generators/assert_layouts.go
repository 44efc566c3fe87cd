package generators

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/vmihailenco/msgpack/v5"

	"astgen/internal/defs"
	"astgen/internal/layout"
	"astgen/internal/schema"
	"astgen/internal/trace"
)

// LayoutTableVersion is bumped whenever LayoutTable changes shape.
const LayoutTableVersion uint16 = 1

// LayoutTable is the data artifact of AssertLayouts.
type LayoutTable struct {
	Version  uint16         `msgpack:"version"`
	Target   string         `msgpack:"target"`
	PtrSize  int            `msgpack:"ptr_size"`
	Types    []LayoutRecord `msgpack:"types"`
	Families []FamilyRecord `msgpack:"families"`
}

// LayoutRecord is the verified layout of one definition.
type LayoutRecord struct {
	ID            uint32 `msgpack:"id"`
	Name          string `msgpack:"name"`
	Kind          string `msgpack:"kind"`
	Size          int    `msgpack:"size"`
	Align         int    `msgpack:"align"`
	FieldOffsets  []int  `msgpack:"field_offsets,omitempty"`
	HasTag        bool   `msgpack:"has_tag,omitempty"`
	TagOffset     int    `msgpack:"tag_offset,omitempty"`
	TagSize       int    `msgpack:"tag_size,omitempty"`
	PayloadOffset int    `msgpack:"payload_offset,omitempty"`
}

// FamilyRecord is one layout-interchangeable family.
type FamilyRecord struct {
	Name    string   `msgpack:"name"`
	Members []string `msgpack:"members"`
}

// ReadLayoutTable decodes a table written by AssertLayouts.
func ReadLayoutTable(r io.Reader) (*LayoutTable, error) {
	var t LayoutTable
	if err := msgpack.NewDecoder(r).Decode(&t); err != nil {
		return nil, fmt.Errorf("decode layout table: %w", err)
	}
	if t.Version != LayoutTableVersion {
		return nil, fmt.Errorf("layout table version %d, want %d", t.Version, LayoutTableVersion)
	}
	return &t, nil
}

// AssertLayouts re-validates every computed layout against its own
// invariants, the family rules and @expect_layout.
type AssertLayouts struct {
	Options Options
}

func (AssertLayouts) Name() string { return "assert_layouts" }

func (g AssertLayouts) Run(ctx context.Context, s *schema.Schema) (Output, error) {
	span, _ := trace.Start(ctx, trace.ScopeModule, "gen:"+g.Name())
	eng := layout.New(s.Target(), s)

	tbl := LayoutTable{
		Version: LayoutTableVersion,
		Target:  s.Target().Triple,
		PtrSize: s.Target().PtrSize,
		Types:   make([]LayoutRecord, 0, s.Len()),
	}
	for id, def := range s.All() {
		if err := g.check(eng, def); err != nil {
			span.Fail(err)
			return Output{}, err
		}
		l := def.Layout
		tbl.Types = append(tbl.Types, LayoutRecord{
			ID:            uint32(id),
			Name:          def.Name,
			Kind:          def.Kind.String(),
			Size:          l.Size,
			Align:         l.Align,
			FieldOffsets:  l.FieldOffsets,
			HasTag:        l.HasTag,
			TagOffset:     l.TagOffset,
			TagSize:       l.TagSize,
			PayloadOffset: l.PayloadOffset,
		})
	}
	for _, fam := range layout.Families(s.All()) {
		if err := layout.CheckFamily(fam, s); err != nil {
			gerr := &GeneratorError{Generator: g.Name(), Msg: err.Error(), Err: err}
			span.Fail(gerr)
			return Output{}, gerr
		}
		rec := FamilyRecord{Name: fam.Name}
		for _, m := range fam.Members {
			rec.Members = append(rec.Members, s.Def(m).Name)
		}
		tbl.Families = append(tbl.Families, rec)
	}

	span.WithExtra("types", fmt.Sprint(len(tbl.Types))).End("")
	if g.Options.LayoutData == "" {
		return Output{Kind: OutputInfo, Bytes: []byte(renderLayoutTable(&tbl))}, nil
	}
	var buf bytes.Buffer
	if err := msgpack.NewEncoder(&buf).Encode(&tbl); err != nil {
		return Output{}, &GeneratorError{Generator: g.Name(), Msg: "encode layout table", Err: err}
	}
	return Output{Kind: OutputData, Path: g.Options.LayoutData, Bytes: buf.Bytes()}, nil
}

func (g AssertLayouts) check(eng *layout.Engine, def *defs.TypeDef) error {
	l := def.Layout
	fail := func(format string, args ...any) error {
		return genErrorf(g.Name(), def.Name, format, args...)
	}
	if l == nil {
		return fail("no layout was computed")
	}
	if l.Align <= 0 || l.Align&(l.Align-1) != 0 {
		return fail("alignment %d is not a power of two", l.Align)
	}
	if l.Size%l.Align != 0 {
		return fail("size %d is not a multiple of alignment %d", l.Size, l.Align)
	}

	if def.IsStruct() {
		if len(l.FieldOffsets) != len(def.Fields) {
			return fail("%d field offsets for %d fields", len(l.FieldOffsets), len(def.Fields))
		}
		for i := range def.Fields {
			f := &def.Fields[i]
			fl, err := eng.RefLayout(f.Type)
			if err != nil {
				return &GeneratorError{Generator: g.Name(), Type: def.Name, Msg: err.Error(), Err: err}
			}
			off := l.FieldOffsets[i]
			if off+fl.Size > l.Size {
				return fail("field %s at offset %d (size %d) exceeds size %d", f.Name, off, fl.Size, l.Size)
			}
			if !def.Markers.Packed && off%fl.Align != 0 {
				return fail("field %s at offset %d is not %d-aligned", f.Name, off, fl.Align)
			}
		}
	} else if l.HasTag {
		if l.TagOffset+l.TagSize > l.Size {
			return fail("tag at offset %d (size %d) exceeds size %d", l.TagOffset, l.TagSize, l.Size)
		}
		if def.Meta.HasPayload && l.PayloadOffset < l.TagOffset+l.TagSize {
			return fail("payload offset %d overlaps the tag", l.PayloadOffset)
		}
	}

	if e := def.Markers.Expect; e != nil {
		if e.Size != 0 && e.Size != l.Size {
			return fail("@expect_layout size %d, computed %d", e.Size, l.Size)
		}
		if e.Align != 0 && e.Align != l.Align {
			return fail("@expect_layout align %d, computed %d", e.Align, l.Align)
		}
	}
	return nil
}

func renderLayoutTable(t *LayoutTable) string {
	tw := table.NewWriter()
	tw.SetTitle("layouts for " + t.Target)
	tw.AppendHeader(table.Row{"ID", "Type", "Kind", "Size", "Align", "Offsets"})
	for _, r := range t.Types {
		offsets := fmt.Sprint(r.FieldOffsets)
		if r.HasTag {
			offsets = fmt.Sprintf("tag %d/%d payload %d", r.TagOffset, r.TagSize, r.PayloadOffset)
		}
		tw.AppendRow(table.Row{r.ID, r.Name, r.Kind, r.Size, r.Align, offsets})
	}
	var sb strings.Builder
	sb.WriteString(tw.Render())
	sb.WriteByte('\n')
	for _, f := range t.Families {
		fmt.Fprintf(&sb, "family %s: %s\n", f.Name, strings.Join(f.Members, ", "))
	}
	return sb.String()
}
