package report

import (
	"fmt"
	"io"

	"github.com/gogpu/gputypes"

	"glsllayout/glsl"
)

var vertexFormatNames = map[gputypes.VertexFormat]string{
	gputypes.VertexFormatFloat32:   "float32",
	gputypes.VertexFormatFloat32x2: "float32x2",
	gputypes.VertexFormatFloat32x3: "float32x3",
	gputypes.VertexFormatFloat32x4: "float32x4",
	gputypes.VertexFormatSint32:    "sint32",
	gputypes.VertexFormatSint32x2:  "sint32x2",
	gputypes.VertexFormatSint32x3:  "sint32x3",
	gputypes.VertexFormatSint32x4:  "sint32x4",
	gputypes.VertexFormatUint32:    "uint32",
	gputypes.VertexFormatUint32x2:  "uint32x2",
	gputypes.VertexFormatUint32x3:  "uint32x3",
	gputypes.VertexFormatUint32x4:  "uint32x4",
}

// TypeInfo is the layout of one type under every rule.
type TypeInfo struct {
	Name          string `json:"name"`
	ID            uint32 `json:"id"`
	AlignScalar   uint32 `json:"align_scalar"`
	AlignStd430   uint32 `json:"align_std430"`
	AlignStd140   uint32 `json:"align_std140"`
	ArrayStd140   uint32 `json:"array_align_std140"`
	Size          uint32 `json:"size"`
	Format        string `json:"vk_format"`
	FormatCode    uint32 `json:"vk_format_code"`
	VertexFormat  string `json:"vertex_format,omitempty"`
	HasLayout     bool   `json:"has_layout"`
	ComponentKind string `json:"component_kind,omitempty"`
}

// Describe evaluates t under every rule. Opaque types yield a TypeInfo
// with HasLayout unset.
func Describe(t glsl.Type) TypeInfo {
	info := TypeInfo{
		Name:       t.String(),
		ID:         uint32(t),
		Format:     glsl.WireFormatOf(t).String(),
		FormatCode: uint32(glsl.WireFormatOf(t)),
	}
	if vf, ok := glsl.VertexFormatOf(t); ok {
		info.VertexFormat = vertexFormatNames[vf]
	}
	if !t.IsValue() {
		return info
	}
	info.HasLayout = true
	info.AlignScalar = glsl.MustAlignOf(t, glsl.RuleScalar, false)
	info.AlignStd430 = glsl.MustAlignOf(t, glsl.RuleBase, false)
	info.AlignStd140 = glsl.MustAlignOf(t, glsl.RuleExtended, false)
	info.ArrayStd140 = glsl.MustAlignOf(t, glsl.RuleExtended, true)
	info.Size = glsl.MustSizeOf(t, glsl.RuleBase)
	switch t.Kind() {
	case glsl.KindFloat:
		info.ComponentKind = "float"
	case glsl.KindSint:
		info.ComponentKind = "sint"
	case glsl.KindUint:
		info.ComponentKind = "uint"
	}
	return info
}

var typeHeaders = []string{"type", "id", "scalar", "std430", "std140", "std140[]", "size", "vk format"}

var typeNumeric = map[int]bool{1: true, 2: true, 3: true, 4: true, 5: true, 6: true}

func typeRow(info TypeInfo) []string {
	if !info.HasLayout {
		return []string{info.Name, u32(info.ID), "-", "-", "-", "-", "-", info.Format}
	}
	return []string{
		info.Name, u32(info.ID),
		u32(info.AlignScalar), u32(info.AlignStd430), u32(info.AlignStd140), u32(info.ArrayStd140),
		u32(info.Size), info.Format,
	}
}

// WriteTypes renders a table row per type.
func WriteTypes(w io.Writer, types []glsl.Type, opts Options) error {
	s := newStyles(opts)
	rows := make([][]string, 0, len(types))
	for _, t := range types {
		rows = append(rows, typeRow(Describe(t)))
	}
	_, err := fmt.Fprintln(w, s.table(typeHeaders, typeNumeric, rows).Render())
	return err
}

// WriteTypesJSON writes the same data as WriteTypes as a JSON array.
func WriteTypesJSON(w io.Writer, types []glsl.Type) error {
	out := make([]TypeInfo, 0, len(types))
	for _, t := range types {
		out = append(out, Describe(t))
	}
	return writeJSON(w, out)
}
