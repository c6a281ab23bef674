package trace

import (
	"bufio"
	"io"
	"sync"
)

// RingTracer keeps the last N events in memory. With a dump destination
// it writes them out on Close, which makes it a flight recorder for runs
// too noisy to stream.
type RingTracer struct {
	gate
	mu     sync.Mutex
	events []Event
	total  uint64 // events ever stored

	dump       io.Writer
	dumpFormat Format
}

// NewRingTracer creates a new RingTracer with specified capacity.
func NewRingTracer(capacity int, level Level) *RingTracer {
	if capacity <= 0 {
		capacity = DefaultRingSize
	}
	return &RingTracer{
		gate:   gate{level: level},
		events: make([]Event, capacity),
	}
}

// DumpOnClose makes Close write the retained events to w and then close w.
func (t *RingTracer) DumpOnClose(w io.Writer, format Format) *RingTracer {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.dump, t.dumpFormat = w, format
	return t
}

// Emit stores ev, overwriting the oldest event when full.
func (t *RingTracer) Emit(ev *Event) {
	if !t.level.Admits(ev) {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	stored := *ev
	stored.Seq = NextSeq()
	t.events[t.total%uint64(len(t.events))] = stored
	t.total++
}

// Snapshot returns a copy of the retained events, oldest first.
func (t *RingTracer) Snapshot() []Event {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.snapshotLocked()
}

func (t *RingTracer) snapshotLocked() []Event {
	capacity := uint64(len(t.events))
	if t.total <= capacity {
		return append([]Event(nil), t.events[:t.total]...)
	}
	start := t.total % capacity
	out := make([]Event, 0, capacity)
	out = append(out, t.events[start:]...)
	return append(out, t.events[:start]...)
}

// Dropped returns how many events were overwritten.
func (t *RingTracer) Dropped() uint64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.total - min(t.total, uint64(len(t.events)))
}

// Dump writes the retained events to w in the given format.
func (t *RingTracer) Dump(w io.Writer, format Format) error {
	return writeEvents(w, t.Snapshot(), format)
}

func writeEvents(w io.Writer, events []Event, format Format) error {
	bw := bufio.NewWriter(w)
	for i := range events {
		if _, err := bw.Write(FormatEvent(&events[i], format)); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// Flush is a no-op; events stay in memory until Close.
func (t *RingTracer) Flush() error {
	return nil
}

// Close dumps the retained events when a destination was set.
func (t *RingTracer) Close() error {
	t.mu.Lock()
	dst, format := t.dump, t.dumpFormat
	t.dump = nil
	events := t.snapshotLocked()
	t.mu.Unlock()

	if dst == nil {
		return nil
	}
	if err := writeEvents(dst, events, format); err != nil {
		_ = closeOutput(dst)
		return err
	}
	return closeOutput(dst)
}
