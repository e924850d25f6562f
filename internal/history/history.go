// Package history records per-dwarf stress samples from every snapshot in a
// SQLite database.
package history

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/f3rmion/dfscope/internal/df"
	_ "modernc.org/sqlite"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// recordTimeout bounds a single snapshot insert made from a swap hook.
const recordTimeout = 10 * time.Second

// Sample is one dwarf's state in one snapshot.
type Sample struct {
	Generation uint64    `json:"generation"`
	RecordedAt time.Time `json:"recorded_at"`
	DwarfID    int32     `json:"dwarf_id"`
	Name       string    `json:"name"`
	Stress     int32     `json:"stress"`
	Happiness  string    `json:"happiness"`
	Mood       string    `json:"mood"`
	Curse      string    `json:"curse"`
}

// Store persists samples.
type Store struct {
	db  *sql.DB
	log *slog.Logger
}

// Open opens (creating if needed) the database at path and applies the
// embedded migrations.
func Open(ctx context.Context, path string, log *slog.Logger) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("history path is required")
	}
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	dsn := filepath.Clean(path) + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=synchronous(NORMAL)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening history db: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("pinging history db: %w", err)
	}
	if err := applyMigrations(ctx, db, migrationsFS, "migrations"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}
	return &Store{db: db, log: log}, nil
}

// Close closes the database.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Record inserts one sample per dwarf in snap. Recording the same
// generation twice replaces the earlier rows.
func (s *Store) Record(ctx context.Context, snap *df.Snapshot) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning insert: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `INSERT OR REPLACE INTO samples (
    generation, recorded_at, dwarf_id, name, stress, happiness, mood, curse
) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	at := snap.BuiltAt.UTC().UnixMilli()
	for _, d := range snap.Dwarves {
		if _, err := stmt.ExecContext(ctx,
			int64(snap.Generation), at, d.ID, d.FullName(),
			d.StressLevel, d.Happiness, d.Mood.Name, d.Curse.String(),
		); err != nil {
			return fmt.Errorf("inserting sample for dwarf %d: %w", d.ID, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing samples: %w", err)
	}
	return nil
}

// Observe records snap, logging rather than returning failures. Partial
// snapshots are skipped. It is meant to be registered as a swap hook.
func (s *Store) Observe(snap *df.Snapshot) {
	if snap.Partial {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), recordTimeout)
	defer cancel()
	if err := s.Record(ctx, snap); err != nil {
		s.log.Error("recording history", "generation", snap.Generation, "error", err)
		return
	}
	s.log.Debug("recorded history", "generation", snap.Generation, "dwarves", len(snap.Dwarves))
}

// List returns up to limit samples for a dwarf, newest first. A limit of
// zero or less returns every sample.
func (s *Store) List(ctx context.Context, dwarfID int32, limit int) ([]Sample, error) {
	if limit <= 0 {
		limit = -1
	}
	rows, err := s.db.QueryContext(ctx, `SELECT generation, recorded_at, dwarf_id, name, stress, happiness, mood, curse
FROM samples
WHERE dwarf_id = ?
ORDER BY recorded_at DESC, generation DESC
LIMIT ?`, dwarfID, limit)
	if err != nil {
		return nil, fmt.Errorf("querying samples: %w", err)
	}
	defer rows.Close()

	var out []Sample
	for rows.Next() {
		var (
			smp Sample
			gen int64
			at  int64
		)
		if err := rows.Scan(&gen, &at, &smp.DwarfID, &smp.Name, &smp.Stress, &smp.Happiness, &smp.Mood, &smp.Curse); err != nil {
			return nil, fmt.Errorf("scanning sample: %w", err)
		}
		smp.Generation = uint64(gen)
		smp.RecordedAt = time.UnixMilli(at).UTC()
		out = append(out, smp)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("reading samples: %w", err)
	}
	return out, nil
}
