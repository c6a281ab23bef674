package trace

import (
	"context"
	"strconv"
	"time"
)

// Heartbeat emits KindHeartbeat events at a fixed interval. A trace that
// keeps beating without new span ends points at a stuck file.
type Heartbeat struct {
	stop context.CancelFunc
	done chan struct{}
}

// StartHeartbeat begins beating on tracer. It returns nil when tracing is
// off or interval is not positive; Stop accepts the nil value.
func StartHeartbeat(tracer Tracer, interval time.Duration) *Heartbeat {
	if tracer == nil || !tracer.Enabled() || interval <= 0 {
		return nil
	}
	ctx, cancel := context.WithCancel(context.Background())
	h := &Heartbeat{stop: cancel, done: make(chan struct{})}
	go func() {
		defer close(h.done)
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for beat := uint64(1); ; beat++ {
			select {
			case <-ctx.Done():
				return
			case now := <-ticker.C:
				tracer.Emit(&Event{
					Time:   now,
					Kind:   KindHeartbeat,
					Scope:  ScopeCommand,
					Name:   "heartbeat",
					Detail: "#" + strconv.FormatUint(beat, 10),
				})
			}
		}
	}()
	return h
}

// Stop ends the heartbeat and waits for its goroutine. It may be called
// more than once.
func (h *Heartbeat) Stop() {
	if h == nil {
		return
	}
	h.stop()
	<-h.done
}
