package tui

import (
	"github.com/Zuo-Peng/caralog/internal/logsdb"
	"github.com/Zuo-Peng/caralog/internal/render"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
)

// previewRenderedMsg is sent when an async preview render completes.
type previewRenderedMsg struct {
	rowID   int64
	content string
	hitLine int
	err     error
}

// loadPreviewCmd returns a tea.Cmd that renders the row preview async.
func loadPreviewCmd(db *logsdb.DB, rowID int64, query string, width int) tea.Cmd {
	return func() tea.Msg {
		content, hitLine, err := render.RenderRow(db, rowID, render.Options{
			Context: 5,
			Width:   width,
			Query:   query,
		})
		return previewRenderedMsg{
			rowID:   rowID,
			content: content,
			hitLine: hitLine,
			err:     err,
		}
	}
}

// newViewport creates a new viewport model with the given dimensions.
func newViewport(width, height int) viewport.Model {
	vp := viewport.New(width, height)
	vp.Style = stylePanelBorder
	return vp
}
