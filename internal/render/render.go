package render

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/Zuo-Peng/caralog/internal/logsdb"
	"github.com/mattn/go-runewidth"
)

const (
	colorReset   = "\033[0m"
	colorType    = "\033[1;34m" // bold blue
	colorField   = "\033[36m"   // cyan
	colorDim     = "\033[2m"
	colorHit     = "\033[43m"   // yellow background
	colorBoldRed = "\033[1;31m" // bold red for keyword highlights
)

type Options struct {
	Context int    // rows before/after the hit to show
	Width   int    // wrap width (0 = no wrap)
	Query   string // search query for keyword highlighting
}

// highlightKeywords wraps case-insensitive matches of query terms in bold red ANSI codes.
func highlightKeywords(text, query string) string {
	terms := strings.Fields(query)
	if len(terms) == 0 {
		return text
	}
	for _, term := range terms {
		lower := strings.ToLower(term)
		i := 0
		for i < len(text) {
			idx := strings.Index(strings.ToLower(text[i:]), lower)
			if idx < 0 {
				break
			}
			pos := i + idx
			orig := text[pos : pos+len(term)]
			replacement := colorBoldRed + orig + colorReset
			text = text[:pos] + replacement + text[pos+len(term):]
			i = pos + len(replacement)
		}
	}
	return text
}

// indentLines prepends each line of text with the given prefix.
func indentLines(text, prefix string) string {
	lines := strings.Split(text, "\n")
	for i, l := range lines {
		lines[i] = prefix + l
	}
	return strings.Join(lines, "\n")
}

// wrapLine breaks a single line into multiple lines that fit within maxWidth
// visible columns, correctly skipping ANSI escape sequences when measuring width.
func wrapLine(line string, maxWidth int) []string {
	if maxWidth <= 0 {
		return []string{line}
	}

	var result []string
	var cur strings.Builder
	visW := 0

	i := 0
	for i < len(line) {
		// check for ANSI escape sequence: ESC[ ... m
		if i+1 < len(line) && line[i] == '\033' && line[i+1] == '[' {
			j := i + 2
			for j < len(line) && line[j] != 'm' {
				j++
			}
			if j < len(line) {
				j++ // include 'm'
			}
			cur.WriteString(line[i:j])
			i = j
			continue
		}

		r, size := utf8.DecodeRuneInString(line[i:])
		rw := runewidth.RuneWidth(r)

		if visW+rw > maxWidth {
			result = append(result, cur.String())
			cur.Reset()
			visW = 0
		}

		cur.WriteRune(r)
		visW += rw
		i += size
	}

	if cur.Len() > 0 {
		result = append(result, cur.String())
	}

	if len(result) == 0 {
		return []string{""}
	}
	return result
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// fieldLines lists the populated columns of a row, one "name: value" per line.
func fieldLines(r logsdb.LogRow) ([]string, error) {
	var lines []string
	if r.StoolType.Valid {
		lines = append(lines, "stoolType: "+r.StoolType.String)
	}
	if r.StoolVolume.Valid {
		lines = append(lines, "stoolVolume: "+formatFloat(r.StoolVolume.Float64))
	}
	if r.SuckScore.Valid {
		lines = append(lines, "suckScore: "+formatFloat(r.SuckScore.Float64))
	}
	if r.Tags.Valid {
		tags, err := r.TagList()
		if err != nil {
			return nil, err
		}
		lines = append(lines, "tags: ["+strings.Join(tags, ", ")+"]")
	}
	return lines, nil
}

// RenderRow renders a stored row with its neighbours and returns the content,
// the 0-based line number of the hit row header (-1 if no hit), and any error.
func RenderRow(db *logsdb.DB, rowID int64, opts Options) (string, int, error) {
	if opts.Context == 0 {
		opts.Context = 3
	}
	if opts.Context < 0 {
		opts.Context = 0
	}

	rows, hitIdx, before, after, err := db.GetRowsWindow(rowID, opts.Context)
	if err != nil {
		return "", -1, fmt.Errorf("get rows: %w", err)
	}
	if hitIdx < 0 {
		return "", -1, fmt.Errorf("row not found: %d", rowID)
	}

	var b strings.Builder
	hitLine := -1
	lineCount := 0
	separator := colorDim + strings.Repeat("-", 50) + colorReset

	// helper to track line count; wraps long lines if Width is set
	writeLine := func(s string) {
		for _, wl := range wrapLine(s, opts.Width) {
			b.WriteString(wl)
			b.WriteString("\n")
			lineCount++
		}
	}

	if before > 0 {
		writeLine(fmt.Sprintf("%s... (%d rows before) ...%s", colorDim, before, colorReset))
	}

	for i, r := range rows {
		isHit := i == hitIdx

		if i > 0 {
			writeLine(separator)
		}

		ts := "-"
		if r.Timestamp.Valid {
			ts = r.Timestamp.String
		}
		if isHit {
			hitLine = lineCount
			writeLine(fmt.Sprintf("%s>> #%d %s > %s <<%s", colorHit, r.ID, r.LogType, ts, colorReset))
		} else {
			writeLine(fmt.Sprintf("%s#%d %s >%s %s%s%s", colorType, r.ID, r.LogType, colorReset, colorDim, ts, colorReset))
		}

		if r.LogText.Valid && r.LogText.String != "" {
			text := highlightKeywords(r.LogText.String, opts.Query)
			for _, tl := range strings.Split(indentLines(text, "  "), "\n") {
				writeLine(tl)
			}
		}

		fields, err := fieldLines(r)
		if err != nil {
			return "", -1, err
		}
		for _, f := range fields {
			name, value, _ := strings.Cut(f, ": ")
			writeLine(fmt.Sprintf("  %s%s:%s %s", colorField, name, colorReset, highlightKeywords(value, opts.Query)))
		}
	}

	if after > 0 {
		writeLine(fmt.Sprintf("%s... (%d rows after) ...%s", colorDim, after, colorReset))
	}

	return b.String(), hitLine, nil
}
