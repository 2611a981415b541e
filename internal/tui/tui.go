package tui

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/Zuo-Peng/caralog/internal/logsdb"
	"github.com/Zuo-Peng/caralog/internal/open"
	"github.com/Zuo-Peng/caralog/internal/search"
	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

const debounceDelay = 200 * time.Millisecond

// message types

type searchResultMsg struct {
	query   string
	results []search.Result
	err     error
}

type debounceTickMsg struct {
	query string
}

// model

type model struct {
	db          *logsdb.DB
	searchOpts  search.Options
	query       string
	results     []search.Result
	cursor      int
	listOffset  int
	filterInput textinput.Model
	preview     viewport.Model
	previewID   int64 // row currently rendered in the preview, 0 = none
	lay         layout
	ready       bool
	quitting    bool
	selected    *logsdb.LogRow
	openSource  bool // selected row should be opened in $EDITOR instead of copied
}

func initialModel(db *logsdb.DB, opts search.Options) model {
	ti := textinput.New()
	ti.Placeholder = "Filter..."
	ti.Focus()
	ti.SetValue(opts.Query)
	ti.Prompt = "> "
	ti.PromptStyle = styleInputPrompt
	ti.TextStyle = styleInput
	ti.CharLimit = 256

	return model{
		db:          db,
		searchOpts:  opts,
		query:       opts.Query,
		filterInput: ti,
		preview:     viewport.New(0, 0),
		lay:         newLayout(0, 0),
	}
}

// Run starts the row browser and blocks until it exits. A row picked with
// Enter is copied as JSON to the clipboard; one picked with C-o is opened in
// the export at sourcePath.
func Run(db *logsdb.DB, sourcePath string, opts search.Options) error {
	m := initialModel(db, opts)
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion())
	finalModel, err := p.Run()
	if err != nil {
		return fmt.Errorf("tui: %w", err)
	}

	fm := finalModel.(model)
	switch {
	case fm.selected == nil:
		return nil
	case fm.openSource:
		return open.OpenEntry(db, sourcePath, fm.selected.ID)
	default:
		return copyRow(*fm.selected)
	}
}

func rowJSON(r logsdb.LogRow) (string, error) {
	b, err := json.Marshal(r)
	if err != nil {
		return "", fmt.Errorf("encode row %d: %w", r.ID, err)
	}
	return string(b), nil
}

// copyRow puts the row JSON on the clipboard, falling back to stdout.
func copyRow(r logsdb.LogRow) error {
	out, err := rowJSON(r)
	if err != nil {
		return err
	}
	if err := clipboard.WriteAll(out); err != nil {
		fmt.Println(out)
		return nil
	}
	fmt.Printf("Copied to clipboard: %s\n", out)
	return nil
}

// Init triggers the initial list load.
func (m model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.doSearch(m.query))
}

// Update handles messages.
func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.lay = newLayout(msg.Width, msg.Height)
		m.ready = true
		m.preview = newViewport(m.lay.previewW, m.lay.panelH)
		m.previewID = 0
		return m, m.loadCurrentPreview()

	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.MouseMsg:
		return m.handleMouse(msg)

	case debounceTickMsg:
		// stale ticks belong to an older filter value
		if msg.query != m.query {
			return m, nil
		}
		return m, m.doSearch(msg.query)

	case searchResultMsg:
		return m.applyResults(msg)

	case previewRenderedMsg:
		return m.applyPreview(msg), nil
	}
	return m, nil
}

func (m model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	half := m.lay.panelH / 2

	switch {
	case key.Matches(msg, keys.Quit):
		m.quitting = true
		return m, tea.Quit

	case key.Matches(msg, keys.Copy), key.Matches(msg, keys.Open):
		if r, ok := m.current(); ok {
			m.selected = &r.Row
			m.openSource = key.Matches(msg, keys.Open)
			m.quitting = true
			return m, tea.Quit
		}
		return m, nil

	case key.Matches(msg, keys.Up):
		return m.moveCursor(m.cursor - 1)
	case key.Matches(msg, keys.Down):
		return m.moveCursor(m.cursor + 1)

	case key.Matches(msg, keys.PreviewUp):
		m.preview.LineUp(half)
		return m, nil
	case key.Matches(msg, keys.PreviewDn):
		m.preview.LineDown(half)
		return m, nil
	case key.Matches(msg, keys.PageUp):
		m.preview.LineUp(m.lay.panelH)
		return m, nil
	case key.Matches(msg, keys.PageDown):
		m.preview.LineDown(m.lay.panelH)
		return m, nil
	}

	// everything else edits the filter
	var cmd tea.Cmd
	m.filterInput, cmd = m.filterInput.Update(msg)
	if q := m.filterInput.Value(); q != m.query {
		m.query = q
		return m, tea.Batch(cmd, m.scheduleDebouncedSearch(q))
	}
	return m, cmd
}

// handleMouse moves the selection with the wheel or a click over the list and
// scrolls the preview with the wheel over it.
func (m model) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	if !m.ready || len(m.results) == 0 {
		return m, nil
	}

	if idx, ok := m.lay.rowAt(msg.X, msg.Y, m.listOffset); ok {
		switch {
		case msg.Button == tea.MouseButtonWheelUp:
			return m.moveCursor(m.cursor - 1)
		case msg.Button == tea.MouseButtonWheelDown:
			return m.moveCursor(m.cursor + 1)
		case msg.Button == tea.MouseButtonLeft && msg.Action == tea.MouseActionPress:
			return m.moveCursor(idx)
		}
		return m, nil
	}

	if m.lay.overPreview(msg.X) && (msg.Button == tea.MouseButtonWheelUp || msg.Button == tea.MouseButtonWheelDown) {
		var cmd tea.Cmd
		m.preview, cmd = m.preview.Update(msg)
		return m, cmd
	}
	return m, nil
}

// moveCursor selects row idx when it exists and loads its preview.
func (m model) moveCursor(idx int) (tea.Model, tea.Cmd) {
	if idx < 0 || idx >= len(m.results) || idx == m.cursor {
		return m, nil
	}
	m.cursor = idx
	m.adjustListScroll()
	return m, m.loadCurrentPreview()
}

func (m model) applyResults(msg searchResultMsg) (tea.Model, tea.Cmd) {
	if msg.query != m.query {
		return m, nil
	}
	m.cursor = 0
	m.listOffset = 0
	m.previewID = 0
	m.results = msg.results
	switch {
	case msg.err != nil:
		m.results = nil
		m.preview.SetContent("Error: " + msg.err.Error())
	case len(m.results) == 0:
		m.preview.SetContent("")
	}
	return m, m.loadCurrentPreview()
}

// applyPreview shows a rendered preview if it is for the row under the cursor.
func (m model) applyPreview(msg previewRenderedMsg) model {
	r, ok := m.current()
	if !ok || r.Row.ID != msg.rowID || msg.rowID == m.previewID {
		return m
	}
	switch {
	case msg.err != nil:
		m.preview.SetContent("Preview error: " + msg.err.Error())
	default:
		m.preview.SetContent(msg.content)
		m.preview.GotoTop()
		if msg.hitLine > 0 {
			m.preview.SetYOffset(msg.hitLine)
		}
	}
	m.previewID = msg.rowID
	return m
}

func (m model) current() (search.Result, bool) {
	if m.cursor < 0 || m.cursor >= len(m.results) {
		return search.Result{}, false
	}
	return m.results[m.cursor], true
}

// View renders the full TUI.
func (m model) View() string {
	if m.quitting || !m.ready {
		return ""
	}

	list := stylePanelBorder.
		Width(m.lay.listW).
		Height(m.lay.panelH).
		Render(m.renderList(m.lay.listW, m.lay.panelH))

	m.preview.Width = m.lay.previewW
	m.preview.Height = m.lay.panelH
	preview := styleActiveBorder.
		Width(m.lay.previewW).
		Height(m.lay.panelH).
		Render(m.preview.View())

	return lipgloss.JoinVertical(lipgloss.Left,
		m.filterInput.View(),
		lipgloss.JoinHorizontal(lipgloss.Top, list, preview),
		m.statusBar(),
	)
}

// statusBar lists the row count and the key help.
func (m model) statusBar() string {
	parts := []string{fmt.Sprintf("%d rows", len(m.results))}
	for _, b := range []key.Binding{keys.Up, keys.Down, keys.PreviewDn, keys.Copy, keys.Open, keys.Quit} {
		h := b.Help()
		parts = append(parts, h.Key+" "+h.Desc)
	}
	return styleStatusBar.Render(strings.Join(parts, " | "))
}

func (m model) doSearch(query string) tea.Cmd {
	db := m.db
	opts := m.searchOpts
	opts.Query = query
	return func() tea.Msg {
		results, err := search.Search(db, opts)
		return searchResultMsg{query: query, results: results, err: err}
	}
}

func (m model) scheduleDebouncedSearch(query string) tea.Cmd {
	return tea.Tick(debounceDelay, func(time.Time) tea.Msg {
		return debounceTickMsg{query: query}
	})
}

func (m model) loadCurrentPreview() tea.Cmd {
	r, ok := m.current()
	if !ok || r.Row.ID == m.previewID {
		return nil
	}
	return loadPreviewCmd(m.db, r.Row.ID, m.query, m.lay.previewW)
}
