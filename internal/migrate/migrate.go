// Package migrate runs one migration pass from the tracking export into the
// normalized logs table.
package migrate

import (
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/Zuo-Peng/caralog/internal/config"
	"github.com/Zuo-Peng/caralog/internal/decode"
	"github.com/Zuo-Peng/caralog/internal/logsdb"
	"github.com/Zuo-Peng/caralog/internal/source"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Source yields entries in export order and io.EOF at the end.
type Source interface {
	Next() (*source.Entry, error)
}

type Sink interface {
	Write(row decode.Row, prov logsdb.Provenance) error
}

type Stats struct {
	Read    int
	Deleted int
	Written int
	ByType  map[string]int
}

func (s Stats) String() string {
	types := make([]string, 0, len(s.ByType))
	for t := range s.ByType {
		types = append(types, t)
	}
	sort.Strings(types)

	parts := make([]string, 0, len(types))
	for _, t := range types {
		parts = append(parts, fmt.Sprintf("%s=%d", t, s.ByType[t]))
	}

	out := fmt.Sprintf("read=%d deleted=%d written=%d", s.Read, s.Deleted, s.Written)
	if len(parts) > 0 {
		out += " (" + strings.Join(parts, " ") + ")"
	}
	return out
}

// EntryError wraps a decode failure with the entry that caused it.
type EntryError struct {
	Line     int
	EntryID  string
	Category string
	Err      error
}

func (e *EntryError) Error() string {
	return fmt.Sprintf("entry %s (line %d, %s): %v", e.EntryID, e.Line, e.Category, e.Err)
}

func (e *EntryError) Unwrap() error { return e.Err }

// Run drains src into sink. Deleted entries are skipped. The first read,
// decode or write error aborts the pass; rows already handed to sink are
// the caller's to discard.
func Run(src Source, sink Sink, logger *zap.Logger) (Stats, error) {
	stats := Stats{ByType: make(map[string]int)}

	for {
		e, err := src.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return stats, fmt.Errorf("read: %w", err)
		}
		stats.Read++

		if e.Deleted {
			stats.Deleted++
			logger.Debug("skip deleted entry", zap.String("entry_id", e.ID), zap.Int("line", e.Line))
			continue
		}

		logger.Debug("classify entry", zap.Int("line", e.Line), zap.String("category", e.Category))
		row, err := decode.Classify(e)
		if err != nil {
			logger.Error("decode failed", zap.String("entry_id", e.ID), zap.Int("line", e.Line), zap.Error(err))
			return stats, &EntryError{Line: e.Line, EntryID: e.ID, Category: e.Category, Err: err}
		}

		if err := sink.Write(row, logsdb.Provenance{EntryID: e.ID, LineNumber: e.Line}); err != nil {
			return stats, fmt.Errorf("write entry %s: %w", e.ID, err)
		}
		stats.Written++
		stats.ByType[row.LogType]++
	}

	return stats, nil
}

// Migrate replaces the contents of the logs database with a fresh pass over
// the export. On any error the logs table is left empty.
func Migrate(cfg *config.Config, logger *zap.Logger) (Stats, error) {
	start := time.Now()

	reader, err := source.Open(cfg.SourcePath)
	if err != nil {
		return Stats{}, fmt.Errorf("open source: %w", err)
	}
	defer reader.Close()

	db, err := logsdb.Open(cfg.DBPath)
	if err != nil {
		return Stats{}, fmt.Errorf("open db: %w", err)
	}
	defer db.Close()

	if err := db.Reset(); err != nil {
		return Stats{}, fmt.Errorf("reset: %w", err)
	}

	runID := uuid.New()
	logger = logger.With(zap.String("run_id", runID.String()))
	logger.Info("migration started",
		zap.String("source", cfg.SourcePath),
		zap.String("db", cfg.DBPath))

	w, err := db.Begin(runID)
	if err != nil {
		return Stats{}, err
	}
	defer w.Rollback()

	stats, err := Run(reader, w, logger)
	if err != nil {
		logger.Warn("migration aborted", zap.Int("read", stats.Read), zap.Int("written", stats.Written))
		return stats, err
	}

	if err := w.Commit(); err != nil {
		return stats, fmt.Errorf("commit: %w", err)
	}

	logger.Info("migration finished",
		zap.Int("read", stats.Read),
		zap.Int("deleted", stats.Deleted),
		zap.Int("written", stats.Written),
		zap.Duration("elapsed", time.Since(start)))
	return stats, nil
}
