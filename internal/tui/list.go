package tui

import (
	"fmt"
	"strings"

	"github.com/Zuo-Peng/caralog/internal/search"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
)

// linesPerItem is the number of terminal lines each row occupies.
const linesPerItem = 2

// renderList renders the left panel: matching rows with scrolling.
func (m model) renderList(width, height int) string {
	if len(m.results) == 0 {
		return lipgloss.NewStyle().
			Foreground(colorDim).
			Width(width).
			Height(height).
			Align(lipgloss.Center, lipgloss.Center).
			Render("No rows")
	}

	var lines []string
	for i, r := range m.results {
		if i < m.listOffset {
			continue
		}
		if len(lines)+linesPerItem > height {
			break
		}
		lines = append(lines, formatResultLine(r, width, i == m.cursor)...)
	}

	// Pad remaining lines
	for len(lines) < height {
		lines = append(lines, strings.Repeat(" ", width))
	}

	return strings.Join(lines, "\n")
}

func typeStyle(logType string) lipgloss.Style {
	if s, ok := styleLogTypes[logType]; ok {
		return s
	}
	return styleLogTypeOther
}

// formatResultLine formats a single row as two lines:
//
//	line 1: [>] #id  type  date
//	line 2:    snippet (dimmed)
func formatResultLine(r search.Result, width int, selected bool) []string {
	// short date from the ISO timestamp (e.g. "2023-03-14T..." -> "2023-03-14")
	date := "-"
	if r.Row.Timestamp.Valid {
		date = r.Row.Timestamp.String
		if len(date) >= 10 {
			date = date[:10]
		}
	}

	line1 := fmt.Sprintf("#%d %s %s", r.Row.ID, typeStyle(r.Row.LogType).Render(r.Row.LogType), date)
	if selected {
		line1 = styleListSelected.Render("> ") + line1
	} else {
		line1 = "  " + line1
	}

	// Line 2: snippet (dimmed, indented)
	snippet := strings.ReplaceAll(r.Snippet, "\n", " ")
	snippet = strings.ReplaceAll(snippet, "\t", " ")
	snippet = strings.ReplaceAll(snippet, ">>>", "")
	snippet = strings.ReplaceAll(snippet, "<<<", "")
	snippetMax := width - 4 // indent
	if snippetMax < 0 {
		snippetMax = 0
	}
	if runewidth.StringWidth(snippet) > snippetMax {
		snippet = runewidth.Truncate(snippet, snippetMax, "")
	}
	line2 := "    " + lipgloss.NewStyle().Foreground(colorDim).Render(snippet)

	return []string{line1, line2}
}

// adjustListScroll keeps the cursor visible within the list panel.
func (m *model) adjustListScroll() {
	visible := m.lay.visibleRows()
	if m.cursor < m.listOffset {
		m.listOffset = m.cursor
	}
	if m.cursor >= m.listOffset+visible {
		m.listOffset = m.cursor - visible + 1
	}
}
