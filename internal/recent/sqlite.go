package recent

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS recent_bots (
	bot_id        TEXT PRIMARY KEY,
	bot_name      TEXT NOT NULL DEFAULT '',
	meeting_url   TEXT NOT NULL DEFAULT '',
	created_at    INTEGER NOT NULL DEFAULT 0,
	first_seen    INTEGER NOT NULL,
	last_accessed INTEGER NOT NULL,
	access_count  INTEGER NOT NULL DEFAULT 1
);
CREATE INDEX IF NOT EXISTS idx_recent_bots_last_accessed ON recent_bots (last_accessed);
`

const upsertSQL = `
INSERT INTO recent_bots (bot_id, bot_name, meeting_url, created_at, first_seen, last_accessed, access_count)
VALUES (?, ?, ?, ?, ?, ?, 1)
ON CONFLICT (bot_id) DO UPDATE SET
	bot_name      = CASE WHEN excluded.bot_name <> '' THEN excluded.bot_name ELSE recent_bots.bot_name END,
	meeting_url   = CASE WHEN excluded.meeting_url <> '' THEN excluded.meeting_url ELSE recent_bots.meeting_url END,
	created_at    = CASE WHEN excluded.created_at <> 0 THEN excluded.created_at ELSE recent_bots.created_at END,
	last_accessed = excluded.last_accessed,
	access_count  = recent_bots.access_count + 1
`

const selectColumns = `SELECT bot_id, bot_name, meeting_url, created_at, first_seen, last_accessed, access_count FROM recent_bots`

// DefaultSQLitePath returns ~/.meeting-mcp/recent.db.
func DefaultSQLitePath() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".meeting-mcp", "recent.db")
}

// SQLiteStore keeps records in a local SQLite file. It uses a single
// connection, so writes from concurrent tool calls are serialized.
type SQLiteStore struct {
	db *sql.DB
}

// OpenSQLite opens or creates the database at path.
func OpenSQLite(ctx context.Context, path string) (*SQLiteStore, error) {
	if path == "" {
		path = DefaultSQLitePath()
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, fmt.Errorf("create store directory: %w", err)
	}

	dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)", path)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}
	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Upsert(ctx context.Context, rec Record) error {
	if rec.BotID == "" {
		return errors.New("bot id is required")
	}
	rec = stamp(rec)
	_, err := s.db.ExecContext(ctx, upsertSQL,
		rec.BotID, rec.BotName, rec.MeetingURL, toMillis(rec.CreatedAt),
		toMillis(rec.FirstSeen), toMillis(rec.LastAccessed))
	if err != nil {
		return fmt.Errorf("upsert %s: %w", rec.BotID, err)
	}
	return nil
}

func (s *SQLiteStore) Get(ctx context.Context, botID string) (Record, error) {
	row := s.db.QueryRowContext(ctx, selectColumns+` WHERE bot_id = ?`, botID)
	rec, err := scanRecord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Record{}, ErrNotFound
	}
	if err != nil {
		return Record{}, fmt.Errorf("get %s: %w", botID, err)
	}
	return rec, nil
}

func (s *SQLiteStore) List(ctx context.Context, order Order, limit int) ([]Record, error) {
	orderBy := ` ORDER BY last_accessed DESC, bot_id`
	if order == OrderAccessed {
		orderBy = ` ORDER BY access_count DESC, last_accessed DESC, bot_id`
	}
	if limit <= 0 {
		limit = -1
	}

	rows, err := s.db.QueryContext(ctx, selectColumns+orderBy+` LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("list records: %w", err)
	}
	defer rows.Close()

	var out []Record
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("scan record: %w", err)
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

func (s *SQLiteStore) Delete(ctx context.Context, botID string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM recent_bots WHERE bot_id = ?`, botID); err != nil {
		return fmt.Errorf("delete %s: %w", botID, err)
	}
	return nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRecord(row scanner) (Record, error) {
	var rec Record
	var created, first, last int64
	err := row.Scan(&rec.BotID, &rec.BotName, &rec.MeetingURL, &created, &first, &last, &rec.AccessCount)
	if err != nil {
		return Record{}, err
	}
	rec.CreatedAt = fromMillis(created)
	rec.FirstSeen = fromMillis(first)
	rec.LastAccessed = fromMillis(last)
	return rec, nil
}

func toMillis(t time.Time) int64 {
	if t.IsZero() {
		return 0
	}
	return t.UnixMilli()
}

func fromMillis(ms int64) time.Time {
	if ms == 0 {
		return time.Time{}
	}
	return time.UnixMilli(ms).UTC()
}
