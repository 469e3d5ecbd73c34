package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"
)

// Production is one finished pipeline run.
type Production struct {
	ID              int64
	RunID           string
	ProjectName     string
	ProjectDir      string
	Platform        string
	FinalPath       string
	DurationSeconds float64
	CompletedAt     time.Time
}

// Store manages catalog persistence backed by SQLite.
type Store struct {
	db   *sql.DB
	path string
}

// Open initializes or connects to the catalog database.
func Open(path string) (*Store, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, errors.New("catalog path required")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create catalog directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	store := &Store{db: db, path: path}
	if err := store.initSchema(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}

	return store, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Path returns the database file location.
func (s *Store) Path() string {
	return s.path
}

// RecordCompletion inserts a finished production and returns its row id.
// A zero CompletedAt is stamped with the current time.
func (s *Store) RecordCompletion(ctx context.Context, p Production) (int64, error) {
	if strings.TrimSpace(p.ProjectName) == "" {
		return 0, errors.New("record completion: project name required")
	}
	if strings.TrimSpace(p.FinalPath) == "" {
		return 0, errors.New("record completion: final path required")
	}
	completedAt := p.CompletedAt
	if completedAt.IsZero() {
		completedAt = time.Now().UTC()
	}

	res, err := s.db.ExecContext(
		ctx,
		`INSERT INTO productions (
            run_id, project_name, project_dir, platform,
            final_path, duration_seconds, completed_at
        ) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		p.RunID,
		p.ProjectName,
		p.ProjectDir,
		p.Platform,
		p.FinalPath,
		p.DurationSeconds,
		completedAt.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return 0, fmt.Errorf("insert production: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("last insert id: %w", err)
	}
	return id, nil
}

// Recent returns the most recently completed productions, newest first.
// A non-positive limit returns up to 20 rows.
func (s *Store) Recent(ctx context.Context, limit int) ([]Production, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.QueryContext(
		ctx,
		`SELECT id, run_id, project_name, project_dir, platform,
            final_path, duration_seconds, completed_at
         FROM productions
         ORDER BY completed_at DESC, id DESC
         LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("query recent productions: %w", err)
	}
	defer rows.Close()

	var out []Production
	for rows.Next() {
		var (
			p           Production
			completedAt string
		)
		if err := rows.Scan(
			&p.ID, &p.RunID, &p.ProjectName, &p.ProjectDir, &p.Platform,
			&p.FinalPath, &p.DurationSeconds, &completedAt,
		); err != nil {
			return nil, fmt.Errorf("scan production: %w", err)
		}
		if parsed, err := time.Parse(time.RFC3339Nano, completedAt); err == nil {
			p.CompletedAt = parsed
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate productions: %w", err)
	}
	return out, nil
}
