package cache

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/segmentio/encoding/json"

	dbutil "github.com/llehouerou/reel/internal/db"
	"github.com/llehouerou/reel/internal/tmdb"
)

// SQLiteBackend stores pages in a table of the application database.
type SQLiteBackend struct {
	db  *sql.DB
	now func() time.Time
}

// NewSQLite creates the page_cache table in db if needed. The database is
// owned by the caller; Close does not close it.
func NewSQLite(db *sql.DB) (*SQLiteBackend, error) {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS page_cache (
			key TEXT PRIMARY KEY,
			payload BLOB NOT NULL,
			expires_at INTEGER NOT NULL
		);

		CREATE INDEX IF NOT EXISTS idx_page_cache_expires ON page_cache(expires_at);
	`)
	if err != nil {
		return nil, err
	}
	return &SQLiteBackend{db: db, now: time.Now}, nil
}

func (b *SQLiteBackend) Get(ctx context.Context, key string) (tmdb.ResultPage, bool, error) {
	var payload []byte
	err := b.db.QueryRowContext(ctx,
		`SELECT payload FROM page_cache WHERE key = ? AND expires_at > ?`,
		key, b.now().UnixMilli(),
	).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return tmdb.ResultPage{}, false, nil
	}
	if err != nil {
		return tmdb.ResultPage{}, false, err
	}

	var page tmdb.ResultPage
	if err := json.Unmarshal(payload, &page); err != nil {
		return tmdb.ResultPage{}, false, err
	}
	return page, true, nil
}

// Set stores page and drops expired entries in the same transaction.
func (b *SQLiteBackend) Set(ctx context.Context, key string, page tmdb.ResultPage, ttl time.Duration) error {
	payload, err := json.Marshal(page)
	if err != nil {
		return err
	}
	now := b.now()

	return dbutil.WithTx(ctx, b.db, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx,
			`DELETE FROM page_cache WHERE expires_at <= ?`, now.UnixMilli(),
		); err != nil {
			return err
		}
		_, err := tx.ExecContext(ctx, `
			INSERT INTO page_cache (key, payload, expires_at)
			VALUES (?, ?, ?)
			ON CONFLICT(key) DO UPDATE SET
				payload = excluded.payload,
				expires_at = excluded.expires_at
		`, key, payload, now.Add(ttl).UnixMilli())
		return err
	})
}

func (b *SQLiteBackend) Close() error { return nil }
