package logsdb

import (
	"database/sql"
	"fmt"
	"strconv"
	"time"

	"github.com/Zuo-Peng/caralog/internal/decode"
	"github.com/google/uuid"
)

// Provenance ties a written row back to its source entry.
type Provenance struct {
	EntryID    string
	LineNumber int
}

// Writer inserts rows inside one transaction. Nothing is visible until Commit.
type Writer struct {
	tx      *sql.Tx
	logStmt *sql.Stmt
	srcStmt *sql.Stmt
	runID   uuid.UUID
	count   int
}

func (d *DB) Begin(runID uuid.UUID) (*Writer, error) {
	tx, err := d.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("begin: %w", err)
	}

	logStmt, err := tx.Prepare(
		`INSERT INTO logs (logType, timestamp, logText, stoolType, stoolVolume, suckScore, tags)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
	)
	if err != nil {
		tx.Rollback()
		return nil, fmt.Errorf("prepare logs insert: %w", err)
	}

	srcStmt, err := tx.Prepare(
		`INSERT INTO log_sources (row_id, entry_id, line_number) VALUES (?, ?, ?)`,
	)
	if err != nil {
		logStmt.Close()
		tx.Rollback()
		return nil, fmt.Errorf("prepare log_sources insert: %w", err)
	}

	return &Writer{tx: tx, logStmt: logStmt, srcStmt: srcStmt, runID: runID}, nil
}

// Write inserts one row and its provenance.
func (w *Writer) Write(row decode.Row, prov Provenance) error {
	tags, err := row.TagsJSON()
	if err != nil {
		return fmt.Errorf("encode tags: %w", err)
	}

	res, err := w.logStmt.Exec(
		row.LogType,
		row.Timestamp,
		row.LogText,
		row.StoolType,
		row.StoolVolume,
		row.SuckScore,
		tags,
	)
	if err != nil {
		return fmt.Errorf("insert log: %w", err)
	}
	rowID, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("row id: %w", err)
	}
	if _, err := w.srcStmt.Exec(rowID, prov.EntryID, prov.LineNumber); err != nil {
		return fmt.Errorf("insert log source: %w", err)
	}
	w.count++
	return nil
}

// Commit records run metadata and makes all written rows visible.
func (w *Writer) Commit() error {
	defer w.closeStmts()

	meta := map[string]string{
		"run_id":      w.runID.String(),
		"finished_at": time.Now().UTC().Format(time.RFC3339),
		"row_count":   strconv.Itoa(w.count),
	}
	for k, v := range meta {
		if _, err := w.tx.Exec("INSERT OR REPLACE INTO meta (key, value) VALUES (?, ?)", k, v); err != nil {
			w.tx.Rollback()
			return fmt.Errorf("write run meta: %w", err)
		}
	}
	return w.tx.Commit()
}

// Rollback discards every row written so far. Safe to call after Commit.
func (w *Writer) Rollback() error {
	w.closeStmts()
	err := w.tx.Rollback()
	if err == sql.ErrTxDone {
		return nil
	}
	return err
}

func (w *Writer) closeStmts() {
	w.logStmt.Close()
	w.srcStmt.Close()
}
