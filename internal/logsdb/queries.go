package logsdb

import (
	"database/sql"
	"encoding/json"
	"fmt"
)

// LogRow is a stored log row as read back, keyed by its rowid.
type LogRow struct {
	ID          int64
	LogType     string
	Timestamp   sql.NullString
	LogText     sql.NullString
	StoolType   sql.NullString
	StoolVolume sql.NullFloat64
	SuckScore   sql.NullFloat64
	Tags        sql.NullString
}

const rowColumns = "rowid, logType, timestamp, logText, stoolType, stoolVolume, suckScore, tags"

type scanner interface {
	Scan(dest ...any) error
}

func scanRow(s scanner) (LogRow, error) {
	var r LogRow
	err := s.Scan(&r.ID, &r.LogType, &r.Timestamp, &r.LogText, &r.StoolType, &r.StoolVolume, &r.SuckScore, &r.Tags)
	return r, err
}

// ScanRows reads every row from a query selecting rowColumns.
func ScanRows(rows *sql.Rows) ([]LogRow, error) {
	var out []LogRow
	for rows.Next() {
		r, err := scanRow(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// RowColumns is the column list accepted by ScanRows.
func RowColumns() string { return rowColumns }

// TagList decodes the stored JSON tag array. A NULL column yields nil.
func (r LogRow) TagList() ([]string, error) {
	if !r.Tags.Valid {
		return nil, nil
	}
	var tags []string
	if err := json.Unmarshal([]byte(r.Tags.String), &tags); err != nil {
		return nil, fmt.Errorf("decode tags of row %d: %w", r.ID, err)
	}
	return tags, nil
}

// MarshalJSON renders NULL columns as JSON null and tags as an array.
func (r LogRow) MarshalJSON() ([]byte, error) {
	tags, err := r.TagList()
	if err != nil {
		return nil, err
	}
	return json.Marshal(struct {
		ID          int64    `json:"id"`
		LogType     string   `json:"logType"`
		Timestamp   *string  `json:"timestamp"`
		LogText     *string  `json:"logText"`
		StoolType   *string  `json:"stoolType"`
		StoolVolume *float64 `json:"stoolVolume"`
		SuckScore   *float64 `json:"suckScore"`
		Tags        []string `json:"tags"`
	}{
		ID:          r.ID,
		LogType:     r.LogType,
		Timestamp:   nullStr(r.Timestamp),
		LogText:     nullStr(r.LogText),
		StoolType:   nullStr(r.StoolType),
		StoolVolume: nullF64(r.StoolVolume),
		SuckScore:   nullF64(r.SuckScore),
		Tags:        tags,
	})
}

func nullStr(s sql.NullString) *string {
	if !s.Valid {
		return nil
	}
	return &s.String
}

func nullF64(f sql.NullFloat64) *float64 {
	if !f.Valid {
		return nil
	}
	return &f.Float64
}

func (d *DB) RowCount() (int, error) {
	var n int
	err := d.db.QueryRow("SELECT COUNT(*) FROM logs").Scan(&n)
	return n, err
}

type TypeCount struct {
	LogType string
	Count   int
}

// CountByType returns row counts per logType, largest first.
func (d *DB) CountByType() ([]TypeCount, error) {
	rows, err := d.db.Query("SELECT logType, COUNT(*) AS n FROM logs GROUP BY logType ORDER BY n DESC, logType")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var counts []TypeCount
	for rows.Next() {
		var c TypeCount
		if err := rows.Scan(&c.LogType, &c.Count); err != nil {
			return nil, err
		}
		counts = append(counts, c)
	}
	return counts, rows.Err()
}

// GetRow returns the row with the given id, or nil if there is none.
func (d *DB) GetRow(id int64) (*LogRow, error) {
	r, err := scanRow(d.db.QueryRow("SELECT "+rowColumns+" FROM logs WHERE rowid = ?", id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &r, nil
}

// GetSource returns where a row came from, or nil if it is unknown.
func (d *DB) GetSource(id int64) (*Provenance, error) {
	var p Provenance
	err := d.db.QueryRow(
		"SELECT entry_id, line_number FROM log_sources WHERE row_id = ?", id,
	).Scan(&p.EntryID, &p.LineNumber)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// GetRowsWindow returns up to context rows on each side of the hit row, in
// storage order. hitIdx is the hit's index in the returned slice (-1 if the
// hit does not exist); before and after count the rows left out.
func (d *DB) GetRowsWindow(hitID int64, context int) (rows []LogRow, hitIdx, before, after int, err error) {
	if context < 0 {
		context = 0
	}

	res, err := d.db.Query(
		"SELECT "+rowColumns+" FROM logs WHERE rowid < ? ORDER BY rowid DESC LIMIT ?",
		hitID, context,
	)
	if err != nil {
		return nil, -1, 0, 0, err
	}
	head, err := ScanRows(res)
	res.Close()
	if err != nil {
		return nil, -1, 0, 0, err
	}
	for i := len(head) - 1; i >= 0; i-- {
		rows = append(rows, head[i])
	}

	res, err = d.db.Query(
		"SELECT "+rowColumns+" FROM logs WHERE rowid >= ? ORDER BY rowid LIMIT ?",
		hitID, context+1,
	)
	if err != nil {
		return nil, -1, 0, 0, err
	}
	tail, err := ScanRows(res)
	res.Close()
	if err != nil {
		return nil, -1, 0, 0, err
	}
	rows = append(rows, tail...)

	hitIdx = -1
	for i, r := range rows {
		if r.ID == hitID {
			hitIdx = i
			break
		}
	}

	if len(rows) > 0 {
		if err := d.db.QueryRow("SELECT COUNT(*) FROM logs WHERE rowid < ?", rows[0].ID).Scan(&before); err != nil {
			return nil, -1, 0, 0, err
		}
		if err := d.db.QueryRow("SELECT COUNT(*) FROM logs WHERE rowid > ?", rows[len(rows)-1].ID).Scan(&after); err != nil {
			return nil, -1, 0, 0, err
		}
	}
	return rows, hitIdx, before, after, nil
}

// RunInfo describes the last committed migration run.
type RunInfo struct {
	RunID      string
	FinishedAt string
	RowCount   string
}

// LastRun returns the metadata of the last committed run, or nil if none.
func (d *DB) LastRun() (*RunInfo, error) {
	rows, err := d.db.Query("SELECT key, value FROM meta WHERE key IN ('run_id', 'finished_at', 'row_count')")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var info RunInfo
	found := false
	for rows.Next() {
		var k, v string
		if err := rows.Scan(&k, &v); err != nil {
			return nil, err
		}
		found = true
		switch k {
		case "run_id":
			info.RunID = v
		case "finished_at":
			info.FinishedAt = v
		case "row_count":
			info.RowCount = v
		}
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if !found {
		return nil, nil
	}
	return &info, nil
}
