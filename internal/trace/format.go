package trace

import (
	"encoding/json"
	"fmt"
	"maps"
	"slices"
	"strings"
)

// Format selects how events are serialized.
type Format uint8

const (
	FormatAuto   Format = iota // pick from the output path
	FormatText                 // one human-readable line per event
	FormatNDJSON               // one JSON object per line
)

var formatNames = enumNames{FormatAuto: "auto", FormatText: "text", FormatNDJSON: "ndjson"}

// ParseFormat converts a format name to Format. "json" is accepted for
// FormatNDJSON and the empty string for FormatAuto.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "":
		return FormatAuto, nil
	case "json":
		return FormatNDJSON, nil
	}
	if v, ok := formatNames.parse(s); ok {
		return Format(v), nil
	}
	return FormatAuto, fmt.Errorf("invalid trace format: %q (expected: %s)", s, formatNames.expected())
}

// FormatEvent serializes ev as one newline-terminated record.
func FormatEvent(ev *Event, format Format) []byte {
	if format == FormatNDJSON {
		return appendJSON(nil, ev)
	}
	return appendText(nil, ev)
}

type jsonEvent struct {
	Time     string            `json:"time"`
	Seq      uint64            `json:"seq"`
	Kind     string            `json:"kind"`
	Scope    string            `json:"scope"`
	SpanID   uint64            `json:"span_id,omitempty"`
	ParentID uint64            `json:"parent_id,omitempty"`
	Name     string            `json:"name"`
	Detail   string            `json:"detail,omitempty"`
	Extra    map[string]string `json:"extra,omitempty"`
}

func appendJSON(dst []byte, ev *Event) []byte {
	data, err := json.Marshal(jsonEvent{
		Time:     ev.Time.Format("2006-01-02T15:04:05.000000Z07:00"),
		Seq:      ev.Seq,
		Kind:     ev.Kind.String(),
		Scope:    ev.Scope.String(),
		SpanID:   ev.SpanID,
		ParentID: ev.ParentID,
		Name:     ev.Name,
		Detail:   ev.Detail,
		Extra:    ev.Extra,
	})
	if err != nil {
		return fmt.Appendf(dst, "{\"seq\":%d,\"error\":%q}\n", ev.Seq, err.Error())
	}
	return append(append(dst, data...), '\n')
}

var kindGlyphs = enumNames{
	KindSpanBegin: "→ ",
	KindSpanEnd:   "← ",
	KindPoint:     "• ",
	KindHeartbeat: "♡ ",
	KindError:     "✗ ",
}

// appendText renders
//
//	[15:04:05.000000] #seq <indent>→ name (detail) {k=v, ...}
//
// with two spaces of indent per scope below ScopeCommand.
func appendText(dst []byte, ev *Event) []byte {
	dst = fmt.Appendf(dst, "[%s] #%-5d ", ev.Time.Format("15:04:05.000000"), ev.Seq)
	for range max(int(ev.Scope)-int(ScopeCommand), 0) {
		dst = append(dst, "  "...)
	}
	if int(ev.Kind) < len(kindGlyphs) {
		dst = append(dst, kindGlyphs[ev.Kind]...)
	}
	dst = append(dst, ev.Name...)
	if ev.Detail != "" {
		dst = fmt.Appendf(dst, " (%s)", ev.Detail)
	}
	if len(ev.Extra) > 0 {
		pairs := make([]string, 0, len(ev.Extra))
		for _, k := range slices.Sorted(maps.Keys(ev.Extra)) {
			pairs = append(pairs, k+"="+ev.Extra[k])
		}
		dst = fmt.Appendf(dst, " {%s}", strings.Join(pairs, ", "))
	}
	return append(dst, '\n')
}
