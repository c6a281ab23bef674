package trace

import "fmt"

// Level controls tracing verbosity.
type Level uint8

const (
	// LevelOff disables tracing.
	LevelOff    Level = iota // no tracing
	LevelError               // failed spans only
	LevelPhase               // command + file boundaries
	LevelDetail              // struct-level events
	LevelDebug               // everything including members
)

var levelNames = enumNames{
	LevelOff:    "off",
	LevelError:  "error",
	LevelPhase:  "phase",
	LevelDetail: "detail",
	LevelDebug:  "debug",
}

// String returns the flag spelling of l.
func (l Level) String() string { return levelNames.name(uint8(l)) }

// ParseLevel converts a --trace-level value to a Level.
func ParseLevel(s string) (Level, error) {
	if v, ok := levelNames.parse(s); ok {
		return Level(v), nil
	}
	return LevelOff, fmt.Errorf("invalid trace level: %q (expected: %s)", s, levelNames.expected())
}

// scopeLimit is the finest scope each level records.
var scopeLimit = [...]Scope{LevelPhase: ScopeFile, LevelDetail: ScopeStruct, LevelDebug: ScopeMember}

// ShouldEmit reports whether spans and points of scope are recorded at l.
func (l Level) ShouldEmit(scope Scope) bool {
	return int(l) < len(scopeLimit) && scope <= scopeLimit[l]
}

// Admits reports whether a tracer at this level records ev. Heartbeats
// pass any enabled level and error events pass LevelError and above.
func (l Level) Admits(ev *Event) bool {
	switch ev.Kind {
	case KindHeartbeat:
		return l > LevelOff
	case KindError:
		return l >= LevelError
	default:
		return l.ShouldEmit(ev.Scope)
	}
}

// gate holds the level shared by every Tracer implementation.
type gate struct {
	level Level
}

// Level returns the configured level.
func (g gate) Level() Level { return g.level }

// Enabled returns true if tracing is active.
func (g gate) Enabled() bool { return g.level > LevelOff }
