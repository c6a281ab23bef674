package report

import (
	"fmt"
	"io"

	"glsllayout/glsl"
)

// FileLayouts is everything computed for one block file.
type FileLayouts struct {
	Path    string
	Rule    glsl.Rule
	Cached  bool
	Layouts []*glsl.StructLayout
}

type memberJSON struct {
	Name        string      `json:"name"`
	Type        string      `json:"type"`
	Offset      uint32      `json:"offset"`
	Align       uint32      `json:"align"`
	Size        uint32      `json:"size"`
	ArrayLen    uint32      `json:"array_len,omitempty"`
	ArrayStride uint32      `json:"array_stride,omitempty"`
	Struct      *structJSON `json:"struct,omitempty"`
}

type structJSON struct {
	Name    string       `json:"name"`
	Rule    string       `json:"rule"`
	Align   uint32       `json:"align"`
	Size    uint32       `json:"size"`
	Members []memberJSON `json:"members"`
}

type fileJSON struct {
	Path    string       `json:"path"`
	Rule    string       `json:"rule"`
	Cached  bool         `json:"cached"`
	Structs []structJSON `json:"structs"`
}

func toStructJSON(l *glsl.StructLayout) structJSON {
	out := structJSON{
		Name:    l.Name,
		Rule:    l.Rule.String(),
		Align:   l.Align,
		Size:    l.Size,
		Members: make([]memberJSON, len(l.Members)),
	}
	for i, m := range l.Members {
		mj := memberJSON{
			Name:        m.Name,
			Type:        memberType(m),
			Offset:      m.Offset,
			Align:       m.Align,
			Size:        m.Size,
			ArrayLen:    m.ArrayLen,
			ArrayStride: m.ArrayStride,
		}
		if m.Struct != nil {
			nested := toStructJSON(m.Struct)
			mj.Struct = &nested
		}
		out.Members[i] = mj
	}
	return out
}

func memberType(m glsl.MemberLayout) string {
	name := m.Type.String()
	if m.Struct != nil {
		name = m.Struct.Name
	}
	if m.ArrayLen > 0 {
		name = fmt.Sprintf("%s[%d]", name, m.ArrayLen)
	}
	return name
}

// WriteLayoutsJSON writes one JSON document covering every file.
func WriteLayoutsJSON(w io.Writer, files []FileLayouts) error {
	out := make([]fileJSON, 0, len(files))
	for _, f := range files {
		fj := fileJSON{Path: f.Path, Rule: f.Rule.String(), Cached: f.Cached, Structs: make([]structJSON, 0, len(f.Layouts))}
		for _, l := range f.Layouts {
			fj.Structs = append(fj.Structs, toStructJSON(l))
		}
		out = append(out, fj)
	}
	return writeJSON(w, out)
}

var layoutHeaders = []string{"offset", "member", "type", "align", "size", "stride"}

var layoutNumeric = map[int]bool{0: true, 3: true, 4: true, 5: true}

// WriteLayouts renders a heading and a member table per struct.
func WriteLayouts(w io.Writer, files []FileLayouts, opts Options) error {
	s := newStyles(opts)
	nameWidth := opts.nameWidth()
	for fi, f := range files {
		if fi > 0 {
			if _, err := fmt.Fprintln(w); err != nil {
				return err
			}
		}
		note := ""
		if f.Cached {
			note = " (cached)"
		}
		if _, err := fmt.Fprintf(w, "%s %s\n", s.title.Sprint(f.Path), s.comment.Sprintf("[%s]%s", f.Rule, note)); err != nil {
			return err
		}
		for _, l := range f.Layouts {
			rows := make([][]string, 0, len(l.Members))
			for _, m := range l.Members {
				stride := ""
				if m.ArrayLen > 0 {
					stride = u32(m.ArrayStride)
				}
				rows = append(rows, []string{
					u32(m.Offset),
					truncate(m.Name, nameWidth),
					truncate(memberType(m), nameWidth),
					u32(m.Align), u32(m.Size), stride,
				})
			}
			heading := fmt.Sprintf("struct %s  align %d  size %d", truncate(l.Name, nameWidth), l.Align, l.Size)
			if _, err := fmt.Fprintf(w, "\n%s\n%s\n", s.title.Sprint(heading), s.table(layoutHeaders, layoutNumeric, rows).Render()); err != nil {
				return err
			}
		}
	}
	return nil
}
