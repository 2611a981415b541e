package tui

import (
	"database/sql"
	"strings"
	"testing"

	"github.com/Zuo-Peng/caralog/internal/logsdb"
	"github.com/Zuo-Peng/caralog/internal/search"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func result(id int64, logType, ts, snippet string) search.Result {
	return search.Result{
		Row: logsdb.LogRow{
			ID:        id,
			LogType:   logType,
			Timestamp: sql.NullString{String: ts, Valid: ts != ""},
		},
		Snippet: snippet,
	}
}

func TestFormatResultLine(t *testing.T) {
	lines := formatResultLine(result(7, "food", "2023-03-14T08:26:53.589Z", ">>>Rice<<< and beans"), 40, false)
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], "#7")
	assert.Contains(t, lines[0], "food")
	assert.Contains(t, lines[0], "2023-03-14")
	assert.NotContains(t, lines[0], "08:26")
	assert.True(t, strings.HasPrefix(lines[0], "  "))
	assert.Contains(t, lines[1], "Rice and beans")
	assert.NotContains(t, lines[1], ">>>")

	lines = formatResultLine(result(8, "mood", "", strings.Repeat("x", 100)), 20, true)
	assert.Contains(t, lines[0], "#8 ")
	assert.Contains(t, lines[0], " -")
	assert.NotContains(t, lines[1], strings.Repeat("x", 17))
}

func TestAdjustListScroll(t *testing.T) {
	m := model{cursor: 12, lay: layout{panelH: 10}} // 5 visible rows
	m.adjustListScroll()
	assert.Equal(t, 8, m.listOffset)

	m.cursor = 3
	m.adjustListScroll()
	assert.Equal(t, 3, m.listOffset)
}

func TestLayout(t *testing.T) {
	l := newLayout(100, 30)
	assert.Equal(t, layout{listW: 36, previewW: 56, panelH: 24}, l)
	assert.Equal(t, 12, l.visibleRows())

	idx, ok := l.rowAt(5, 2, 2)
	assert.True(t, ok)
	assert.Equal(t, 2, idx)

	idx, ok = l.rowAt(5, 7, 2)
	assert.True(t, ok)
	assert.Equal(t, 4, idx)

	_, ok = l.rowAt(5, 0, 0)
	assert.False(t, ok)
	_, ok = l.rowAt(37, 5, 0)
	assert.False(t, ok)

	assert.True(t, l.overPreview(80))
	assert.False(t, l.overPreview(10))

	// tiny terminals clamp to the minimum panel sizes
	assert.Equal(t, layout{listW: 20, previewW: 20, panelH: 5}, newLayout(10, 3))
}

func TestUpdate_MouseSelectsRow(t *testing.T) {
	m := initialModel(nil, search.Options{})
	next, _ := m.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	m = next.(model)
	m.results = []search.Result{result(1, "mood", "", ""), result(2, "mood", "", ""), result(3, "mood", "", "")}

	next, cmd := m.Update(tea.MouseMsg{X: 5, Y: 4, Button: tea.MouseButtonLeft, Action: tea.MouseActionPress})
	m = next.(model)
	assert.Equal(t, 1, m.cursor)
	assert.NotNil(t, cmd)

	next, _ = m.Update(tea.MouseMsg{X: 5, Y: 4, Button: tea.MouseButtonWheelDown})
	assert.Equal(t, 2, next.(model).cursor)

	// wheel past the last row stays put
	next, _ = next.(model).Update(tea.MouseMsg{X: 5, Y: 4, Button: tea.MouseButtonWheelDown})
	assert.Equal(t, 2, next.(model).cursor)
}

func TestStatusBar(t *testing.T) {
	m := initialModel(nil, search.Options{})
	m.results = []search.Result{result(1, "mood", "", "")}
	bar := m.statusBar()
	assert.Contains(t, bar, "1 rows")
	assert.Contains(t, bar, "enter copy row json")
	assert.Contains(t, bar, "C-o open source entry")
}

func TestUpdate_SearchResultsAndSelection(t *testing.T) {
	m := initialModel(nil, search.Options{Query: "rice"})
	results := []search.Result{result(1, "food", "", "rice"), result(2, "food", "", "rice")}

	// stale results for another query are dropped
	next, _ := m.Update(searchResultMsg{query: "other", results: results})
	assert.Empty(t, next.(model).results)

	next, cmd := m.Update(searchResultMsg{query: "rice", results: results})
	m = next.(model)
	assert.Len(t, m.results, 2)
	assert.NotNil(t, cmd)

	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyDown})
	m = next.(model)
	assert.Equal(t, 1, m.cursor)

	next, cmd = m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = next.(model)
	require.NotNil(t, m.selected)
	assert.Equal(t, int64(2), m.selected.ID)
	assert.False(t, m.openSource)
	assert.True(t, m.quitting)
	assert.NotNil(t, cmd)
}

func TestUpdate_OpenSource(t *testing.T) {
	m := initialModel(nil, search.Options{})
	m.results = []search.Result{result(5, "stool", "", "")}

	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyCtrlO})
	m = next.(model)
	require.NotNil(t, m.selected)
	assert.Equal(t, int64(5), m.selected.ID)
	assert.True(t, m.openSource)
}

func TestUpdate_StalePreviewIgnored(t *testing.T) {
	m := initialModel(nil, search.Options{})
	m.results = []search.Result{result(1, "mood", "", ""), result(2, "mood", "", "")}

	next, _ := m.Update(previewRenderedMsg{rowID: 2, content: "stale"})
	assert.Equal(t, int64(0), next.(model).previewID)

	next, _ = m.Update(previewRenderedMsg{rowID: 1, content: "row one"})
	assert.Equal(t, int64(1), next.(model).previewID)
}

func TestRowJSON(t *testing.T) {
	r := logsdb.LogRow{
		ID:      3,
		LogType: "food",
		LogText: sql.NullString{String: "Tea", Valid: true},
		Tags:    sql.NullString{String: `[]`, Valid: true},
	}
	out, err := rowJSON(r)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"id": 3,
		"logType": "food",
		"timestamp": null,
		"logText": "Tea",
		"stoolType": null,
		"stoolVolume": null,
		"suckScore": null,
		"tags": []
	}`, out)
}
