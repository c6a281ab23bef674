package trace

import (
	"bufio"
	"io"
	"os"
	"sync"
)

// StreamTracer writes events to an io.Writer as they happen. Output is
// buffered; heartbeats and errors flush immediately so a stuck or failing
// run is visible without waiting for Close.
type StreamTracer struct {
	gate
	mu     sync.Mutex
	dst    io.Writer
	bw     *bufio.Writer
	format Format
}

// NewStreamTracer creates a new StreamTracer.
func NewStreamTracer(w io.Writer, level Level, format Format) *StreamTracer {
	if format == FormatAuto {
		format = FormatText
	}
	return &StreamTracer{
		gate:   gate{level: level},
		dst:    w,
		bw:     bufio.NewWriter(w),
		format: format,
	}
}

// Emit writes an event to the output.
func (t *StreamTracer) Emit(ev *Event) {
	if !t.level.Admits(ev) {
		return
	}
	ev.Seq = NextSeq()
	data := FormatEvent(ev, t.format)

	t.mu.Lock()
	defer t.mu.Unlock()
	// Trace output is best effort; a broken pipe must not fail the command.
	_, _ = t.bw.Write(data)
	if ev.Kind == KindHeartbeat || ev.Kind == KindError {
		_ = t.bw.Flush()
	}
}

// Flush writes buffered events through to the destination.
func (t *StreamTracer) Flush() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.bw.Flush()
}

// Close flushes and closes the destination unless it is a standard stream.
func (t *StreamTracer) Close() error {
	if err := t.Flush(); err != nil {
		return err
	}
	return closeOutput(t.dst)
}

func closeOutput(w io.Writer) error {
	if w == nil || w == os.Stderr || w == os.Stdout {
		return nil
	}
	if closer, ok := w.(io.Closer); ok {
		return closer.Close()
	}
	return nil
}
