// Package report renders types and struct layouts as terminal tables or
// JSON.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"
)

// Options control pretty output.
type Options struct {
	Color bool
	// Width bounds name columns; 0 means 80.
	Width int
}

func (o Options) nameWidth() int {
	w := o.Width
	if w <= 0 {
		w = 80
	}
	return max(16, w/3)
}

type styles struct {
	header  lipgloss.Style
	cell    lipgloss.Style
	number  lipgloss.Style
	border  lipgloss.Style
	title   *color.Color
	comment *color.Color
}

func newStyles(opts Options) styles {
	s := styles{
		header:  lipgloss.NewStyle().Bold(true).Padding(0, 1),
		cell:    lipgloss.NewStyle().Padding(0, 1),
		number:  lipgloss.NewStyle().Padding(0, 1).Align(lipgloss.Right),
		border:  lipgloss.NewStyle(),
		title:   color.New(color.FgCyan, color.Bold),
		comment: color.New(color.Faint),
	}
	if opts.Color {
		s.header = s.header.Foreground(lipgloss.Color("6"))
		s.border = s.border.Foreground(lipgloss.Color("8"))
		s.title.EnableColor()
		s.comment.EnableColor()
	} else {
		s.header = s.header.UnsetBold()
		s.title.DisableColor()
		s.comment.DisableColor()
	}
	return s
}

func (s styles) table(headers []string, numeric map[int]bool, rows [][]string) *table.Table {
	return table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(s.border).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(s.cellStyle(numeric))
}

// cellStyle picks the style for a table cell. The header is row 0 and data
// rows start at 1.
func (s styles) cellStyle(numeric map[int]bool) func(row, col int) lipgloss.Style {
	return func(row, col int) lipgloss.Style {
		switch {
		case row == 0:
			return s.header
		case numeric[col]:
			return s.number
		default:
			return s.cell
		}
	}
}

func u32(v uint32) string { return strconv.FormatUint(uint64(v), 10) }

func truncate(value string, width int) string {
	if width <= 0 || runewidth.StringWidth(value) <= width {
		return value
	}
	if width <= 3 {
		return runewidth.Truncate(value, width, "")
	}
	return runewidth.Truncate(value, width-3, "...")
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}
	return nil
}
