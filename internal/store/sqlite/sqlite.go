package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/openroom/openroom-server/internal/store"
)

const schema = `
CREATE TABLE IF NOT EXISTS bans (
	origin     TEXT PRIMARY KEY,
	expires_at INTEGER NOT NULL,
	created_at INTEGER NOT NULL
);
`

// SQLiteStore implements store.BanStore on a local SQLite file, so ban
// records survive process restarts. Every mutation commits before the call
// returns.
type SQLiteStore struct {
	db *sql.DB
}

var _ store.BanStore = (*SQLiteStore)(nil)

// New creates a new SQLite ban store at dbPath and applies the schema.
func New(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// SQLite works best with a single connection.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// IsBanned purges expired entries for the origin, then reports whether an
// unexpired ban remains.
func (s *SQLiteStore) IsBanned(ctx context.Context, origin string) (bool, error) {
	now := time.Now().UnixMilli()

	if _, err := s.db.ExecContext(ctx,
		`DELETE FROM bans WHERE origin = ? AND expires_at <= ?`, origin, now); err != nil {
		return false, fmt.Errorf("purge expired ban: %w", err)
	}

	var n int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(1) FROM bans WHERE origin = ? AND expires_at > ?`, origin, now).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("query ban: %w", err)
	}
	return n > 0, nil
}

// Ban upserts a ban record for the origin and returns its expiry.
func (s *SQLiteStore) Ban(ctx context.Context, origin string, duration time.Duration) (time.Time, error) {
	now := time.Now()
	expiresAt := now.Add(duration)

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO bans (origin, expires_at, created_at)
		VALUES (?, ?, ?)
		ON CONFLICT(origin) DO UPDATE SET expires_at = excluded.expires_at
	`, origin, expiresAt.UnixMilli(), now.UnixMilli())
	if err != nil {
		return time.Time{}, fmt.Errorf("insert ban: %w", err)
	}
	return expiresAt, nil
}

// Unban removes any ban record for the origin.
func (s *SQLiteStore) Unban(ctx context.Context, origin string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM bans WHERE origin = ?`, origin); err != nil {
		return fmt.Errorf("delete ban: %w", err)
	}
	return nil
}

// List returns all ban records, including not-yet-purged expired ones.
// Used for inspection and tests.
func (s *SQLiteStore) List(ctx context.Context) ([]store.Ban, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT origin, expires_at, created_at FROM bans ORDER BY created_at`)
	if err != nil {
		return nil, fmt.Errorf("query bans: %w", err)
	}
	defer rows.Close()

	var bans []store.Ban
	for rows.Next() {
		var (
			origin    string
			expiresMs int64
			createdMs int64
		)
		if err := rows.Scan(&origin, &expiresMs, &createdMs); err != nil {
			return nil, fmt.Errorf("scan ban: %w", err)
		}
		bans = append(bans, store.Ban{
			Origin:    origin,
			ExpiresAt: time.UnixMilli(expiresMs),
			CreatedAt: time.UnixMilli(createdMs),
		})
	}
	return bans, rows.Err()
}
