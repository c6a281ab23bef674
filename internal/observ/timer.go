// Package observ measures where a command spends its time.
package observ

import (
	"cmp"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"
)

// slowest is how many individual phases Summary lists.
const slowest = 5

// Phase records one timed step. Group collects phases of the same kind,
// such as every "parse" across a batch of files.
type Phase struct {
	Group string
	Name  string
	Start time.Time
	Dur   time.Duration
	Note  string
}

// Timer tracks phases started by concurrent workers. The nil Timer
// records nothing, so callers need not check whether timing is on.
type Timer struct {
	mu     sync.Mutex
	phases []Phase
}

// NewTimer creates a new empty Timer.
func NewTimer() *Timer { return &Timer{phases: make([]Phase, 0, 16)} }

// Begin starts a phase and returns a handle for End.
func (t *Timer) Begin(group, name string) int {
	if t == nil {
		return -1
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	t.phases = append(t.phases, Phase{Group: group, Name: name, Start: time.Now()})
	return len(t.phases) - 1
}

// End finishes the phase with the given handle. Unknown handles are ignored.
func (t *Timer) End(idx int, note string) {
	if t == nil {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	if idx < 0 || idx >= len(t.phases) {
		return
	}
	p := &t.phases[idx]
	p.Dur = time.Since(p.Start)
	p.Note = note
}

// PhaseReport is the serialisable form of one phase.
type PhaseReport struct {
	Group      string  `json:"group"`
	Name       string  `json:"name"`
	DurationMS float64 `json:"duration_ms"`
	Note       string  `json:"note,omitempty"`
}

// GroupReport sums the phases of one group.
type GroupReport struct {
	Group   string  `json:"group"`
	Count   int     `json:"count"`
	TotalMS float64 `json:"total_ms"`
	MaxMS   float64 `json:"max_ms"`
}

// Report is the serialisable form of a Timer. Phases run in parallel, so
// the group totals may exceed WallMS, the span from the first start to
// the last end.
type Report struct {
	WallMS float64       `json:"wall_ms"`
	Groups []GroupReport `json:"groups"`
	Phases []PhaseReport `json:"phases"`
}

// Report returns phases in start order and groups in first-seen order.
func (t *Timer) Report() Report {
	if t == nil {
		return Report{}
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	if len(t.phases) == 0 {
		return Report{}
	}

	var report Report
	groupIdx := make(map[string]int)
	first, last := t.phases[0].Start, t.phases[0].Start
	for _, p := range t.phases {
		first = minTime(first, p.Start)
		last = maxTime(last, p.Start.Add(p.Dur))

		ms := toMillis(p.Dur)
		report.Phases = append(report.Phases, PhaseReport{Group: p.Group, Name: p.Name, DurationMS: ms, Note: p.Note})

		i, ok := groupIdx[p.Group]
		if !ok {
			i = len(report.Groups)
			groupIdx[p.Group] = i
			report.Groups = append(report.Groups, GroupReport{Group: p.Group})
		}
		g := &report.Groups[i]
		g.Count++
		g.TotalMS += ms
		g.MaxMS = max(g.MaxMS, ms)
	}
	report.WallMS = toMillis(last.Sub(first))
	return report
}

// Summary renders group totals, the slowest phases and the wall time.
func (t *Timer) Summary() string {
	report := t.Report()
	var sb strings.Builder
	sb.WriteString("timings:\n")
	for _, g := range report.Groups {
		fmt.Fprintf(&sb, "  %-10s %4d x  total %8.2f ms  max %8.2f ms\n", g.Group, g.Count, g.TotalMS, g.MaxMS)
	}
	if len(report.Phases) > 1 {
		phases := slices.Clone(report.Phases)
		slices.SortStableFunc(phases, func(a, b PhaseReport) int {
			return cmp.Compare(b.DurationMS, a.DurationMS)
		})
		sb.WriteString("slowest:\n")
		for _, p := range phases[:min(slowest, len(phases))] {
			fmt.Fprintf(&sb, "  %8.2f ms  %s %s", p.DurationMS, p.Group, p.Name)
			if p.Note != "" {
				sb.WriteString("  // " + p.Note)
			}
			sb.WriteString("\n")
		}
	}
	fmt.Fprintf(&sb, "  %-10s %8.2f ms\n", "wall", report.WallMS)
	return sb.String()
}

func toMillis(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}

func minTime(a, b time.Time) time.Time {
	if b.Before(a) {
		return b
	}
	return a
}

func maxTime(a, b time.Time) time.Time {
	if b.After(a) {
		return b
	}
	return a
}
