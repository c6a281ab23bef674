// Package ui renders batch progress in the terminal.
package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"glsllayout/internal/pipeline"
)

// maxRows bounds the file list; active and failed files are shown first.
const maxRows = 12

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("7"))
	dimStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	okStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	failStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	activeStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
	pendingStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("7"))
)

type progressModel struct {
	title   string
	events  <-chan pipeline.Event
	spinner spinner.Model
	bar     progress.Model
	files   []fileState
	byPath  map[string]int
	width   int
	done    bool
}

type fileState struct {
	path    string
	stage   pipeline.Stage
	status  pipeline.Status
	elapsed time.Duration
	structs int
	err     string
}

func (f fileState) final() bool {
	switch f.status {
	case pipeline.StatusDone, pipeline.StatusCached, pipeline.StatusError:
		return true
	}
	return false
}

// weight is the share of a file's work finished so far.
func (f fileState) weight() float64 {
	switch {
	case f.final():
		return 1
	case f.status != pipeline.StatusWorking:
		return 0
	case f.stage == pipeline.StageLayout:
		return 0.7
	default:
		return 0.3
	}
}

type eventMsg pipeline.Event
type doneMsg struct{}

// NewProgressModel returns a Bubble Tea model that renders per-file
// progress until events is closed.
func NewProgressModel(title string, files []string, events <-chan pipeline.Event) tea.Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = activeStyle

	bar := progress.New(progress.WithDefaultGradient())
	bar.Width = 76

	states := make([]fileState, len(files))
	byPath := make(map[string]int, len(files))
	for i, file := range files {
		states[i] = fileState{path: file, status: pipeline.StatusQueued}
		byPath[file] = i
	}
	return &progressModel{
		title:   title,
		events:  events,
		spinner: sp,
		bar:     bar,
		files:   states,
		byPath:  byPath,
		width:   80,
	}
}

func (m *progressModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.listenForEvent())
}

func (m *progressModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case eventMsg:
		cmd := m.applyEvent(pipeline.Event(msg))
		return m, tea.Batch(cmd, m.listenForEvent())
	case doneMsg:
		m.done = true
		return m, tea.Quit
	case spinner.TickMsg:
		if m.done {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case tea.WindowSizeMsg:
		if msg.Width > 0 {
			m.width = msg.Width
			m.bar.Width = max(10, msg.Width-4)
		}
		return m, nil
	case progress.FrameMsg:
		model, cmd := m.bar.Update(msg)
		m.bar = model.(progress.Model)
		return m, cmd
	}
	return m, nil
}

func (m *progressModel) listenForEvent() tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-m.events
		if !ok {
			return doneMsg{}
		}
		return eventMsg(ev)
	}
}

func (m *progressModel) applyEvent(ev pipeline.Event) tea.Cmd {
	idx, ok := m.byPath[ev.File]
	if !ok {
		return nil
	}
	f := &m.files[idx]
	f.stage, f.status = ev.Stage, ev.Status
	if ev.Elapsed > 0 {
		f.elapsed = ev.Elapsed
	}
	if ev.Structs > 0 {
		f.structs = ev.Structs
	}
	if ev.Err != nil {
		f.err = ev.Err.Error()
	}
	return m.bar.SetPercent(m.fraction())
}

func (m *progressModel) fraction() float64 {
	if len(m.files) == 0 {
		return 1
	}
	total := 0.0
	for _, f := range m.files {
		total += f.weight()
	}
	return total / float64(len(m.files))
}

type tally struct {
	finished, structs, cached, failed int
}

func (m *progressModel) tally() tally {
	var t tally
	for _, f := range m.files {
		if f.final() {
			t.finished++
		}
		t.structs += f.structs
		switch f.status {
		case pipeline.StatusCached:
			t.cached++
		case pipeline.StatusError:
			t.failed++
		}
	}
	return t
}

func (m *progressModel) View() string {
	if len(m.files) == 0 {
		return ""
	}
	t := m.tally()
	header := fmt.Sprintf("%s (%d/%d)", m.title, t.finished, len(m.files))
	if m.done {
		header = "done: " + header
	} else {
		header = m.spinner.View() + " " + header
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render(header))
	b.WriteString("\n\n")

	const labelWidth = 10
	nameWidth := max(20, m.width-labelWidth-20)
	rows := m.visibleRows()
	for _, idx := range rows {
		f := m.files[idx]
		label := fmt.Sprintf("%*s", labelWidth, statusLabel(f.stage, f.status))
		fmt.Fprintf(&b, "  %s %s", styleFor(f.status).Render(label), truncate(f.path, nameWidth))
		if note := fileNote(f); note != "" {
			b.WriteString("  " + dimStyle.Render(note))
		}
		b.WriteString("\n")
		if f.err != "" {
			b.WriteString(strings.Repeat(" ", labelWidth+3))
			b.WriteString(failStyle.Render(truncate(f.err, max(20, m.width-labelWidth-4))))
			b.WriteString("\n")
		}
	}
	if hidden := len(m.files) - len(rows); hidden > 0 {
		b.WriteString(dimStyle.Render(fmt.Sprintf("  ... and %d more", hidden)))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	if m.done {
		b.WriteString(m.bar.ViewAs(1.0))
	} else {
		b.WriteString(m.bar.View())
	}
	b.WriteString("\n")
	b.WriteString(dimStyle.Render(fmt.Sprintf("%d structs, %d cached, %d failed", t.structs, t.cached, t.failed)))
	b.WriteString("\n")
	return b.String()
}

// visibleRows returns up to maxRows file indexes: working and failed files
// first, then the rest, each group in input order.
func (m *progressModel) visibleRows() []int {
	rows := make([]int, 0, min(len(m.files), maxRows))
	rank := func(f fileState) int {
		switch f.status {
		case pipeline.StatusWorking:
			return 0
		case pipeline.StatusError:
			return 1
		default:
			return 2
		}
	}
	for r := 0; r <= 2 && len(rows) < maxRows; r++ {
		for i, f := range m.files {
			if rank(f) == r {
				rows = append(rows, i)
				if len(rows) == maxRows {
					break
				}
			}
		}
	}
	return rows
}

func fileNote(f fileState) string {
	if !f.final() || f.status == pipeline.StatusError {
		return ""
	}
	noun := "structs"
	if f.structs == 1 {
		noun = "struct"
	}
	return fmt.Sprintf("%d %s, %.1f ms", f.structs, noun, float64(f.elapsed)/float64(time.Millisecond))
}

func statusLabel(stage pipeline.Stage, status pipeline.Status) string {
	if status != pipeline.StatusWorking {
		return string(status)
	}
	switch stage {
	case pipeline.StageLoad:
		return "loading"
	case pipeline.StageLayout:
		return "computing"
	default:
		return "working"
	}
}

func styleFor(status pipeline.Status) lipgloss.Style {
	switch status {
	case pipeline.StatusDone, pipeline.StatusCached:
		return okStyle
	case pipeline.StatusError:
		return failStyle
	case pipeline.StatusWorking:
		return activeStyle
	default:
		return pendingStyle
	}
}

func truncate(value string, width int) string {
	if width <= 0 || runewidth.StringWidth(value) <= width {
		return value
	}
	if width <= 3 {
		return runewidth.Truncate(value, width, "")
	}
	return runewidth.Truncate(value, width-3, "...")
}
