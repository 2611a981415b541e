package search

import (
	"path/filepath"
	"testing"

	"github.com/Zuo-Peng/caralog/internal/decode"
	"github.com/Zuo-Peng/caralog/internal/logsdb"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func str(s string) *string { return &s }

func seedDB(t *testing.T) *logsdb.DB {
	t.Helper()
	db, err := logsdb.Open(filepath.Join(t.TempDir(), "logs.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	w, err := db.Begin(uuid.New())
	require.NoError(t, err)
	rows := []decode.Row{
		{LogType: "food", Timestamp: str("2023-01-02T08:00:00.000Z"), LogText: str("Porridge"), Tags: []string{"oats", "milk"}},
		{LogType: "stool", Timestamp: str("2023-01-05T09:00:00.000Z"), Tags: []string{"low"}},
		{LogType: "mood", Timestamp: str("2023-02-01T10:00:00.000Z"), LogText: str("felt fine after porridge")},
		{LogType: "food", LogText: str("100% juice_box"), Tags: []string{}},
	}
	for i, r := range rows {
		require.NoError(t, w.Write(r, logsdb.Provenance{EntryID: "e", LineNumber: i + 1}))
	}
	require.NoError(t, w.Commit())
	return db
}

func ids(results []Result) []int64 {
	var out []int64
	for _, r := range results {
		out = append(out, r.Row.ID)
	}
	return out
}

func TestSearch_MatchesTextAndTags(t *testing.T) {
	db := seedDB(t)

	res, err := Search(db, Options{Query: "porridge"})
	require.NoError(t, err)
	assert.Equal(t, []int64{1, 3}, ids(res))
	assert.Equal(t, ">>>Porridge<<<", res[0].Snippet)

	res, err = Search(db, Options{Query: "oats"})
	require.NoError(t, err)
	assert.Equal(t, []int64{1}, ids(res))
	assert.Contains(t, res[0].Snippet, ">>>oats<<<")
}

func TestSearch_Filters(t *testing.T) {
	db := seedDB(t)

	res, err := Search(db, Options{Query: "porridge", LogType: "mood"})
	require.NoError(t, err)
	assert.Equal(t, []int64{3}, ids(res))

	res, err = ListAll(db, Options{Since: "2023-01-03"})
	require.NoError(t, err)
	assert.Equal(t, []int64{2, 3}, ids(res))

	res, err = ListAll(db, Options{LogType: "food", Limit: 1})
	require.NoError(t, err)
	assert.Equal(t, []int64{1}, ids(res))
}

func TestSearch_EscapesWildcards(t *testing.T) {
	db := seedDB(t)

	res, err := Search(db, Options{Query: "0%"})
	require.NoError(t, err)
	assert.Equal(t, []int64{4}, ids(res))

	res, err = Search(db, Options{Query: "t_f"})
	require.NoError(t, err)
	assert.Empty(t, res)
}

func TestSearch_EmptyQueryListsAll(t *testing.T) {
	db := seedDB(t)

	res, err := Search(db, Options{})
	require.NoError(t, err)
	assert.Equal(t, []int64{1, 2, 3, 4}, ids(res))
	assert.Equal(t, `["low"]`, res[1].Snippet)
}

func TestMakeSnippet(t *testing.T) {
	assert.Equal(t, "abc", makeSnippet("abc", "zzz", 5))
	assert.Equal(t, "abcdef...", makeSnippet("abcdefghij", "zzz", 3))
	assert.Equal(t, "...cd>>>EF<<<gh...", makeSnippet("abcdEFghij", "ef", 2))
}
