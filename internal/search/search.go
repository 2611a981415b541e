package search

import (
	"fmt"
	"strings"

	"github.com/Zuo-Peng/caralog/internal/logsdb"
)

type Result struct {
	Row     logsdb.LogRow
	Snippet string
}

type Options struct {
	Query   string
	LogType string // "" = all
	Since   string // "" = no filter, e.g. "2024-01-01"
	Limit   int
}

const defaultLimit = 100

// makeSnippet extracts a snippet around the first occurrence of query in text.
func makeSnippet(text, query string, contextChars int) string {
	lower := strings.ToLower(text)
	qLower := strings.ToLower(query)
	idx := strings.Index(lower, qLower)
	if query == "" || idx < 0 {
		// no match, return head
		if len([]rune(text)) > contextChars*2 {
			return string([]rune(text)[:contextChars*2]) + "..."
		}
		return text
	}
	runes := []rune(text)
	qRunes := []rune(query)
	// find rune position of idx
	runePos := len([]rune(text[:idx]))
	start := runePos - contextChars
	if start < 0 {
		start = 0
	}
	end := runePos + len(qRunes) + contextChars
	if end > len(runes) {
		end = len(runes)
	}
	prefix := ""
	suffix := ""
	if start > 0 {
		prefix = "..."
	}
	if end < len(runes) {
		suffix = "..."
	}
	// wrap the matched part with markers
	snippet := string(runes[start:runePos]) +
		">>>" + string(runes[runePos:runePos+len(qRunes)]) + "<<<" +
		string(runes[runePos+len(qRunes):end])
	return prefix + snippet + suffix
}

// Search returns rows whose logText or tags contain the query, in storage
// order. An empty query behaves like ListAll.
func Search(db *logsdb.DB, opts Options) ([]Result, error) {
	if opts.Query == "" {
		return ListAll(db, opts)
	}
	conditions := []string{"(logText LIKE ? ESCAPE '\\' OR tags LIKE ? ESCAPE '\\')"}
	pattern := "%" + escapeLike(opts.Query) + "%"
	args := []any{pattern, pattern}
	return query(db, opts, conditions, args)
}

// ListAll returns rows matching the type and date filters, in storage order.
func ListAll(db *logsdb.DB, opts Options) ([]Result, error) {
	return query(db, opts, nil, nil)
}

func query(db *logsdb.DB, opts Options, conditions []string, args []any) ([]Result, error) {
	if opts.Limit <= 0 {
		opts.Limit = defaultLimit
	}

	// type filter
	if opts.LogType != "" {
		conditions = append(conditions, "logType = ?")
		args = append(args, opts.LogType)
	}

	// since filter; rows without a timestamp never match
	if opts.Since != "" {
		conditions = append(conditions, "timestamp >= ?")
		args = append(args, opts.Since)
	}

	where := "1 = 1"
	if len(conditions) > 0 {
		where = strings.Join(conditions, " AND ")
	}

	q := fmt.Sprintf(`
		SELECT %s
		FROM logs
		WHERE %s
		ORDER BY rowid
		LIMIT ?
	`, logsdb.RowColumns(), where)
	args = append(args, opts.Limit)

	rows, err := db.Raw().Query(q, args...)
	if err != nil {
		return nil, fmt.Errorf("search query: %w", err)
	}
	defer rows.Close()

	logRows, err := logsdb.ScanRows(rows)
	if err != nil {
		return nil, err
	}

	results := make([]Result, 0, len(logRows))
	for _, r := range logRows {
		results = append(results, Result{Row: r, Snippet: snippetFor(r, opts.Query)})
	}
	return results, nil
}

// snippetFor prefers the log text; rows matched only by tag show their tags.
func snippetFor(r logsdb.LogRow, query string) string {
	text := r.LogText.String
	if query != "" && !strings.Contains(strings.ToLower(text), strings.ToLower(query)) && r.Tags.Valid {
		text = r.Tags.String
	}
	if text == "" && r.Tags.Valid {
		text = r.Tags.String
	}
	return makeSnippet(text, query, 30)
}

func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}
