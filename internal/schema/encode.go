package schema

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/goccy/go-json"
	"gopkg.in/yaml.v3"

	"astgen/internal/defs"
)

// Format is a schema interchange encoding.
type Format uint8

const (
	FormatJSON Format = iota
	FormatYAML
)

func (f Format) String() string {
	if f == FormatYAML {
		return "yaml"
	}
	return "json"
}

// FormatFor picks the encoding from a file extension; JSON is the default.
func FormatFor(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatJSON
	}
}

// Encode writes the canonical pretty-printed interchange form of s.
func Encode(w io.Writer, s *Schema, format Format) error {
	doc := document(s)
	switch format {
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(doc); err != nil {
			return fmt.Errorf("encode schema yaml: %w", err)
		}
		return enc.Close()
	default:
		data, err := json.MarshalIndent(doc, "", "  ")
		if err != nil {
			return fmt.Errorf("encode schema json: %w", err)
		}
		data = append(data, '\n')
		_, err = w.Write(data)
		return err
	}
}

type schemaDoc struct {
	Target string    `json:"target" yaml:"target"`
	Types  []typeDoc `json:"types" yaml:"types"`
}

type typeDoc struct {
	ID       defs.TypeID  `json:"id" yaml:"id"`
	Name     string       `json:"name" yaml:"name"`
	Kind     string       `json:"kind" yaml:"kind"`
	Module   string       `json:"module" yaml:"module"`
	Doc      string       `json:"doc,omitempty" yaml:"doc,omitempty"`
	Repr     string       `json:"repr,omitempty" yaml:"repr,omitempty"`
	Markers  markersDoc   `json:"markers" yaml:"markers"`
	Meta     metaDoc      `json:"meta" yaml:"meta"`
	Inherits []string     `json:"inherits,omitempty" yaml:"inherits,omitempty"`
	Fields   []fieldDoc   `json:"fields,omitempty" yaml:"fields,omitempty"`
	Variants []variantDoc `json:"variants,omitempty" yaml:"variants,omitempty"`
	Layout   *layoutDoc   `json:"layout,omitempty" yaml:"layout,omitempty"`
}

type markersDoc struct {
	Visit           bool     `json:"visit,omitempty" yaml:"visit,omitempty"`
	Span            bool     `json:"span,omitempty" yaml:"span,omitempty"`
	Skip            string   `json:"skip,omitempty" yaml:"skip,omitempty"`
	Interchangeable []string `json:"interchangeable,omitempty" yaml:"interchangeable,omitempty"`
	ExpectSize      int      `json:"expect_size,omitempty" yaml:"expect_size,omitempty"`
	ExpectAlign     int      `json:"expect_align,omitempty" yaml:"expect_align,omitempty"`
	Packed          bool     `json:"packed,omitempty" yaml:"packed,omitempty"`
	Align           int      `json:"align,omitempty" yaml:"align,omitempty"`
}

type metaDoc struct {
	HasSpanField bool `json:"has_span_field" yaml:"has_span_field"`
	Traversable  bool `json:"traversable" yaml:"traversable"`
	UnitOnly     bool `json:"unit_only,omitempty" yaml:"unit_only,omitempty"`
	HasPayload   bool `json:"has_payload,omitempty" yaml:"has_payload,omitempty"`
}

type fieldDoc struct {
	Name    string       `json:"name" yaml:"name"`
	Type    string       `json:"type" yaml:"type"`
	TypeID  *defs.TypeID `json:"type_id,omitempty" yaml:"type_id,omitempty"`
	Doc     string       `json:"doc,omitempty" yaml:"doc,omitempty"`
	Skip    string       `json:"skip,omitempty" yaml:"skip,omitempty"`
	Default bool         `json:"default,omitempty" yaml:"default,omitempty"`
}

type variantDoc struct {
	Name      string       `json:"name" yaml:"name"`
	Discr     uint64       `json:"discriminant" yaml:"discriminant"`
	Payload   string       `json:"payload,omitempty" yaml:"payload,omitempty"`
	PayloadID *defs.TypeID `json:"payload_id,omitempty" yaml:"payload_id,omitempty"`
	From      string       `json:"inherited_from,omitempty" yaml:"inherited_from,omitempty"`
	Doc       string       `json:"doc,omitempty" yaml:"doc,omitempty"`
}

type layoutDoc struct {
	Size          int   `json:"size" yaml:"size"`
	Align         int   `json:"align" yaml:"align"`
	FieldOffsets  []int `json:"field_offsets,omitempty" yaml:"field_offsets,omitempty,flow"`
	TagOffset     *int  `json:"tag_offset,omitempty" yaml:"tag_offset,omitempty"`
	TagSize       int   `json:"tag_size,omitempty" yaml:"tag_size,omitempty"`
	PayloadOffset int   `json:"payload_offset,omitempty" yaml:"payload_offset,omitempty"`
}

func targetID(ref *defs.TypeRef) *defs.TypeID {
	id := ref.Target()
	if !id.IsValid() {
		return nil
	}
	return &id
}

func document(s *Schema) schemaDoc {
	doc := schemaDoc{Target: s.target.Triple, Types: make([]typeDoc, 0, s.Len())}
	for id, def := range s.All() {
		td := typeDoc{
			ID:     id,
			Name:   def.Name,
			Kind:   def.Kind.String(),
			Module: def.Module,
			Doc:    def.Doc,
			Markers: markersDoc{
				Visit:           def.Markers.Visit,
				Span:            def.Markers.Span,
				Skip:            def.Markers.Skip.String(),
				Interchangeable: def.Markers.Interchangeable,
				Packed:          def.Markers.Packed,
				Align:           def.Markers.Align,
			},
			Meta: metaDoc{
				HasSpanField: def.Meta.HasSpanField,
				Traversable:  def.Meta.Traversable,
				UnitOnly:     def.Meta.UnitOnly,
				HasPayload:   def.Meta.HasPayload,
			},
		}
		if def.IsEnum() {
			td.Repr = def.Repr.String()
		}
		if e := def.Markers.Expect; e != nil {
			td.Markers.ExpectSize = e.Size
			td.Markers.ExpectAlign = e.Align
		}
		for _, p := range def.Inherits {
			td.Inherits = append(td.Inherits, s.Def(p).Name)
		}
		for _, f := range def.Fields {
			td.Fields = append(td.Fields, fieldDoc{
				Name:    f.Name,
				Type:    f.Type.String(),
				TypeID:  targetID(f.Type),
				Doc:     f.Doc,
				Skip:    f.Markers.Skip.String(),
				Default: f.Markers.Default,
			})
		}
		for _, v := range def.Variants {
			vd := variantDoc{Name: v.Name, Discr: v.Discr, Doc: v.Doc}
			if v.Payload != nil {
				vd.Payload = v.Payload.String()
				vd.PayloadID = targetID(v.Payload)
			}
			if v.Inherited() {
				vd.From = s.Def(v.From).Name
			}
			td.Variants = append(td.Variants, vd)
		}
		if l := def.Layout; l != nil {
			ld := &layoutDoc{Size: l.Size, Align: l.Align, FieldOffsets: l.FieldOffsets}
			if l.HasTag {
				off := l.TagOffset
				ld.TagOffset = &off
				ld.TagSize = l.TagSize
				ld.PayloadOffset = l.PayloadOffset
			}
			td.Layout = ld
		}
		doc.Types = append(doc.Types, td)
	}
	return doc
}
