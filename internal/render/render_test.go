package render

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/Zuo-Peng/caralog/internal/decode"
	"github.com/Zuo-Peng/caralog/internal/logsdb"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func str(s string) *string  { return &s }
func f64(v float64) *float64 { return &v }

func seedDB(t *testing.T, rows ...decode.Row) *logsdb.DB {
	t.Helper()
	db, err := logsdb.Open(filepath.Join(t.TempDir(), "logs.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	w, err := db.Begin(uuid.New())
	require.NoError(t, err)
	for i, r := range rows {
		require.NoError(t, w.Write(r, logsdb.Provenance{EntryID: "e", LineNumber: i + 1}))
	}
	require.NoError(t, w.Commit())
	return db
}

func stripANSI(s string) string {
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		if s[i] == '\033' {
			for i < len(s) && s[i] != 'm' {
				i++
			}
			continue
		}
		b.WriteByte(s[i])
	}
	return b.String()
}

func TestRenderRow(t *testing.T) {
	db := seedDB(t,
		decode.Row{LogType: "mood", LogText: str("first")},
		decode.Row{LogType: "mood", LogText: str("second")},
		decode.Row{
			LogType:     "stool",
			Timestamp:   str("2023-03-14T08:26:53.589Z"),
			StoolType:   str("smooth-log"),
			StoolVolume: f64(1.5),
			Tags:        []string{"low", "medium"},
		},
		decode.Row{LogType: "additionalSymptoms", LogText: str("tired\nand sore"), SuckScore: f64(4)},
		decode.Row{LogType: "mood", LogText: str("fifth")},
	)

	out, hitLine, err := RenderRow(db, 3, Options{Context: 1})
	require.NoError(t, err)

	lines := strings.Split(stripANSI(out), "\n")
	assert.Equal(t, "... (1 rows before) ...", lines[0])
	assert.Equal(t, 4, hitLine)
	assert.Equal(t, ">> #3 stool > 2023-03-14T08:26:53.589Z <<", lines[hitLine])

	plain := stripANSI(out)
	assert.Contains(t, plain, "#2 mood > -")
	assert.Contains(t, plain, "  stoolType: smooth-log")
	assert.Contains(t, plain, "  stoolVolume: 1.5")
	assert.Contains(t, plain, "  tags: [low, medium]")
	assert.Contains(t, plain, "  suckScore: 4")
	assert.Contains(t, plain, "  tired\n  and sore")
	assert.Contains(t, plain, "... (1 rows after) ...")
	assert.NotContains(t, plain, "first")
}

func TestRenderRow_NotFound(t *testing.T) {
	db := seedDB(t, decode.Row{LogType: "mood"})
	_, _, err := RenderRow(db, 9, Options{})
	assert.EqualError(t, err, "row not found: 9")
}

func TestHighlightKeywords(t *testing.T) {
	got := highlightKeywords("Rice and rice", "RICE")
	assert.Equal(t, colorBoldRed+"Rice"+colorReset+" and "+colorBoldRed+"rice"+colorReset, got)
	assert.Equal(t, "plain", highlightKeywords("plain", ""))
}

func TestWrapLine(t *testing.T) {
	assert.Equal(t, []string{"abcd", "ef"}, wrapLine("abcdef", 4))
	assert.Equal(t, []string{"abcdef"}, wrapLine("abcdef", 0))
	assert.Equal(t, []string{""}, wrapLine("", 4))
	// escape sequences take no columns
	assert.Equal(t, []string{colorDim + "abc" + colorReset}, wrapLine(colorDim+"abc"+colorReset, 3))
	// wide runes count double
	assert.Equal(t, []string{"日本", "語"}, wrapLine("日本語", 4))
}
