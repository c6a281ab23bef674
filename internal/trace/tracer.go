package trace

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"
)

// DefaultRingSize is the ring capacity used when Config.RingSize is unset.
const DefaultRingSize = 4096

// Tracer is the main interface for emitting trace events.
type Tracer interface {
	// Emit records a trace event. Must be goroutine-safe.
	Emit(ev *Event)

	// Flush ensures all buffered events are written.
	Flush() error

	// Close flushes and releases resources.
	Close() error

	// Level returns the current tracing level.
	Level() Level

	// Enabled returns true if tracing is active (Level > LevelOff).
	Enabled() bool
}

// StorageMode determines how events are stored.
type StorageMode uint8

const (
	ModeStream StorageMode = iota + 1 // immediate write
	ModeRing                          // circular buffer
	ModeBoth                          // stream + ring
)

var modeNames = enumNames{ModeStream: "stream", ModeRing: "ring", ModeBoth: "both"}

// String returns the flag spelling of m.
func (m StorageMode) String() string { return modeNames.name(uint8(m)) }

// ParseMode converts a --trace-mode value to StorageMode.
func ParseMode(s string) (StorageMode, error) {
	if v, ok := modeNames.parse(s); ok {
		return StorageMode(v), nil
	}
	return ModeStream, fmt.Errorf("invalid storage mode: %q (expected: %s)", s, modeNames.expected())
}

// Config holds tracer configuration.
type Config struct {
	Level      Level         // tracing level
	Mode       StorageMode   // storage mode
	Format     Format        // output format (FormatAuto picks from OutputPath)
	Output     io.Writer     // for stream mode (if nil, use OutputPath)
	OutputPath string        // alternative: file path ("-" for stderr)
	RingSize   int           // for ring mode (default DefaultRingSize)
	Heartbeat  time.Duration // heartbeat interval (0 = disabled)
}

// New builds the tracer described by cfg. LevelOff yields Nop.
//
// In ModeRing an Output or OutputPath receives the retained events when the
// tracer is closed; without one the ring is only reachable in process.
func New(cfg Config) (Tracer, error) {
	if cfg.Level == LevelOff {
		return Nop, nil
	}
	if cfg.Mode < ModeStream || cfg.Mode > ModeBoth {
		return nil, fmt.Errorf("unknown storage mode: %v", cfg.Mode)
	}
	if cfg.RingSize <= 0 {
		cfg.RingSize = DefaultRingSize
	}
	if cfg.Mode == ModeRing && cfg.Output == nil && cfg.OutputPath == "" {
		return NewRingTracer(cfg.RingSize, cfg.Level), nil
	}

	w, err := openOutput(cfg)
	if err != nil {
		return nil, err
	}
	format := cfg.resolveFormat()
	switch cfg.Mode {
	case ModeRing:
		return NewRingTracer(cfg.RingSize, cfg.Level).DumpOnClose(w, format), nil
	case ModeBoth:
		return NewMultiTracer(cfg.Level, NewStreamTracer(w, cfg.Level, format), NewRingTracer(cfg.RingSize, cfg.Level)), nil
	}
	return NewStreamTracer(w, cfg.Level, format), nil
}

func (cfg Config) resolveFormat() Format {
	if cfg.Format != FormatAuto {
		return cfg.Format
	}
	switch filepath.Ext(cfg.OutputPath) {
	case ".ndjson", ".jsonl":
		return FormatNDJSON
	default:
		return FormatText
	}
}

func openOutput(cfg Config) (io.Writer, error) {
	if cfg.Output != nil {
		return cfg.Output, nil
	}
	if cfg.OutputPath == "" || cfg.OutputPath == "-" {
		return os.Stderr, nil
	}
	f, err := os.Create(cfg.OutputPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open trace output: %w", err)
	}
	return f, nil
}
