package store

import (
	"context"
	"database/sql"
	"errors"
)

// MySQLStore persists snapshots in a single `snapshots` table, one row per
// key.  The payload column holds the JSON-encoded state; last_saved_ms is
// kept alongside for operational queries and is not read back by the
// application (the state carries its own lastUpdated stamp).
type MySQLStore struct {
	db *sql.DB
}

// NewMySQLStore constructs a MySQLStore with the given DB handle.
func NewMySQLStore(db *sql.DB) *MySQLStore {
	return &MySQLStore{db: db}
}

// EnsureSchema creates the snapshots table when it does not exist yet.
// Called once at startup, before the first Load.
func (s *MySQLStore) EnsureSchema(ctx context.Context) error {
	const q = `CREATE TABLE IF NOT EXISTS snapshots (
	             snapshot_key  VARCHAR(128) NOT NULL PRIMARY KEY,
	             payload       LONGTEXT     NOT NULL,
	             last_saved_ms BIGINT       NOT NULL
	           )`
	_, err := s.db.ExecContext(ctx, q)
	return err
}

// Load returns the payload stored under key, or ErrSnapshotNotFound.
func (s *MySQLStore) Load(ctx context.Context, key string) ([]byte, error) {
	const q = `SELECT payload FROM snapshots WHERE snapshot_key = ?`
	var payload []byte
	err := s.db.QueryRowContext(ctx, q, key).Scan(&payload)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrSnapshotNotFound
		}
		return nil, err
	}
	return payload, nil
}

// Save upserts the payload under key.  The write is synchronous; when it
// returns nil the snapshot row is committed.
func (s *MySQLStore) Save(ctx context.Context, key string, payload []byte) error {
	const q = `INSERT INTO snapshots (snapshot_key, payload, last_saved_ms)
	           VALUES (?, ?, UNIX_TIMESTAMP(NOW(3)) * 1000)
	           ON DUPLICATE KEY UPDATE payload = VALUES(payload),
	                                   last_saved_ms = VALUES(last_saved_ms)`
	_, err := s.db.ExecContext(ctx, q, key, payload)
	return err
}
