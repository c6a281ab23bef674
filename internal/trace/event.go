package trace

import "time"

// Kind represents the type of trace event.
type Kind uint8

const (
	// KindSpanBegin marks the start of a logical operation.
	KindSpanBegin Kind = iota + 1
	// KindSpanEnd marks the end of a logical operation.
	KindSpanEnd
	// KindPoint represents an instant event.
	KindPoint
	KindHeartbeat // periodic liveness signal
	// KindError reports a failed span. Error events pass LevelError.
	KindError
)

var kindNames = enumNames{
	KindSpanBegin: "begin",
	KindSpanEnd:   "end",
	KindPoint:     "point",
	KindHeartbeat: "heartbeat",
	KindError:     "error",
}

func (k Kind) String() string { return kindNames.name(uint8(k)) }

// Scope indicates the granularity level of the event.
// Lower numeric values represent coarser events.
type Scope uint8

const (
	// ScopeCommand covers a whole CLI invocation.
	ScopeCommand Scope = iota + 1
	// ScopeFile covers loading and evaluating one block file.
	ScopeFile
	// ScopeStruct covers the layout of one struct.
	ScopeStruct
	ScopeMember // per-member placement
)

var scopeNames = enumNames{
	ScopeCommand: "command",
	ScopeFile:    "file",
	ScopeStruct:  "struct",
	ScopeMember:  "member",
}

func (s Scope) String() string { return scopeNames.name(uint8(s)) }

// Event represents a single trace event.
type Event struct {
	Time     time.Time         // wall-clock timestamp
	Seq      uint64            // global sequence number (monotonic)
	Kind     Kind              // event kind
	Scope    Scope             // granularity level
	SpanID   uint64            // unique span identifier
	ParentID uint64            // parent span (0 if root)
	Name     string            // e.g. "file:a.toml", "struct:Scene"
	Detail   string            // optional detail message
	Extra    map[string]string // extensible key-value pairs
}
