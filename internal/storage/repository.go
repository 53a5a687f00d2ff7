package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"time"

	_ "modernc.org/sqlite"
)

// UIPreferences are the display toggles persisted between sessions.
type UIPreferences struct {
	RelativeTime bool
	ShowHelpBar  bool
	SplitRatio   float64
}

const (
	MinSplitRatio = 0.25
	MaxSplitRatio = 0.75
)

func DefaultUIPreferences() UIPreferences {
	return UIPreferences{RelativeTime: true, ShowHelpBar: true, SplitRatio: 0.45}
}

type Repository struct {
	db *sql.DB
}

func NewRepository(path string) (*Repository, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	return &Repository{db: db}, nil
}

func (r *Repository) Close() error {
	if r == nil || r.db == nil {
		return nil
	}
	return r.db.Close()
}

func (r *Repository) Init(ctx context.Context) error {
	const schema = `
CREATE TABLE IF NOT EXISTS ui_preferences (
  key TEXT PRIMARY KEY,
  value TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS last_view (
  workspace TEXT PRIMARY KEY,
  title TEXT NOT NULL,
  updated_at TEXT NOT NULL
);
`
	_, err := r.db.ExecContext(ctx, schema)
	if err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	return nil
}

func (r *Repository) SaveUIPreferences(ctx context.Context, prefs UIPreferences) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, `
INSERT INTO ui_preferences (key, value)
VALUES (?, ?)
ON CONFLICT(key) DO UPDATE SET value=excluded.value
`)
	if err != nil {
		return fmt.Errorf("prepare preference statement: %w", err)
	}
	defer stmt.Close()

	values := map[string]string{
		"relative_time": strconv.FormatBool(prefs.RelativeTime),
		"show_help_bar": strconv.FormatBool(prefs.ShowHelpBar),
		"split_ratio":   strconv.FormatFloat(ClampSplitRatio(prefs.SplitRatio), 'f', 2, 64),
	}
	for key, value := range values {
		if _, err := stmt.ExecContext(ctx, key, value); err != nil {
			return fmt.Errorf("save preference %s: %w", key, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

// LoadUIPreferences returns the stored preferences, with defaults for any key
// that is missing or unparsable.
func (r *Repository) LoadUIPreferences(ctx context.Context) (UIPreferences, error) {
	prefs := DefaultUIPreferences()

	rows, err := r.db.QueryContext(ctx, `SELECT key, value FROM ui_preferences`)
	if err != nil {
		return prefs, fmt.Errorf("query preferences: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return prefs, fmt.Errorf("scan preference: %w", err)
		}
		switch key {
		case "relative_time":
			if b, err := strconv.ParseBool(value); err == nil {
				prefs.RelativeTime = b
			}
		case "show_help_bar":
			if b, err := strconv.ParseBool(value); err == nil {
				prefs.ShowHelpBar = b
			}
		case "split_ratio":
			if f, err := strconv.ParseFloat(value, 64); err == nil {
				prefs.SplitRatio = ClampSplitRatio(f)
			}
		}
	}
	if err := rows.Err(); err != nil {
		return prefs, fmt.Errorf("rows iteration: %w", err)
	}
	return prefs, nil
}

func (r *Repository) SaveLastView(ctx context.Context, workspace, title string) error {
	_, err := r.db.ExecContext(ctx, `
INSERT INTO last_view (workspace, title, updated_at)
VALUES (?, ?, ?)
ON CONFLICT(workspace) DO UPDATE SET
  title=excluded.title,
  updated_at=excluded.updated_at
`, workspace, title, time.Now().UTC().Format(time.RFC3339Nano))
	if err != nil {
		return fmt.Errorf("save last view for %s: %w", workspace, err)
	}
	return nil
}

// LastView returns the title of the view last active in workspace. ok is false
// when nothing has been stored yet.
func (r *Repository) LastView(ctx context.Context, workspace string) (string, bool, error) {
	var title string
	err := r.db.QueryRowContext(ctx, `SELECT title FROM last_view WHERE workspace = ?`, workspace).Scan(&title)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("load last view for %s: %w", workspace, err)
	}
	return title, true, nil
}

func ClampSplitRatio(v float64) float64 {
	if v < MinSplitRatio {
		return MinSplitRatio
	}
	if v > MaxSplitRatio {
		return MaxSplitRatio
	}
	return v
}
