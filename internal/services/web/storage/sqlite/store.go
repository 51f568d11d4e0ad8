package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	sqlitemigrate "github.com/gdresist/optimizer/internal/platform/storage/sqlitemigrate"
	webstorage "github.com/gdresist/optimizer/internal/services/web/storage"
	"github.com/gdresist/optimizer/internal/services/web/storage/sqlite/migrations"
	_ "modernc.org/sqlite"
)

// Store provides SQLite-backed persistence for client state.
type Store struct {
	sqlDB *sql.DB
	now   func() time.Time
}

var _ webstorage.Store = (*Store)(nil)

// Open opens and migrates a client state SQLite store.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}

	cleanPath := filepath.Clean(path)
	dsn := cleanPath + "?_journal_mode=WAL&_foreign_keys=ON&_busy_timeout=5000&_synchronous=NORMAL"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}

	store := &Store{sqlDB: sqlDB, now: time.Now}
	if err := store.runMigrations(context.Background()); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return store, nil
}

// Close releases the underlying SQLite connection.
func (s *Store) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

// Get reads one client value.
func (s *Store) Get(ctx context.Context, clientID, key string) (string, bool, error) {
	if s == nil || s.sqlDB == nil {
		return "", false, fmt.Errorf("storage is not configured")
	}
	clientID, key, err := normalize(clientID, key)
	if err != nil {
		return "", false, err
	}

	var value string
	err = s.sqlDB.QueryRowContext(
		ctx,
		`SELECT value FROM client_state WHERE client_id = ? AND key = ?`,
		clientID,
		key,
	).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("get client state: %w", err)
	}
	return value, true, nil
}

// Set upserts one client value.
func (s *Store) Set(ctx context.Context, clientID, key, value string) error {
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}
	clientID, key, err := normalize(clientID, key)
	if err != nil {
		return err
	}

	_, err = s.sqlDB.ExecContext(
		ctx,
		`INSERT INTO client_state (client_id, key, value, updated_at)
		 VALUES (?, ?, ?, ?)
		 ON CONFLICT(client_id, key) DO UPDATE SET
		    value = excluded.value,
		    updated_at = excluded.updated_at`,
		clientID,
		key,
		value,
		s.now().UTC().UnixMilli(),
	)
	if err != nil {
		return fmt.Errorf("put client state: %w", err)
	}
	return nil
}

// Delete removes one client value.
func (s *Store) Delete(ctx context.Context, clientID, key string) error {
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}
	clientID, key, err := normalize(clientID, key)
	if err != nil {
		return err
	}
	if _, err := s.sqlDB.ExecContext(
		ctx,
		`DELETE FROM client_state WHERE client_id = ? AND key = ?`,
		clientID,
		key,
	); err != nil {
		return fmt.Errorf("delete client state: %w", err)
	}
	return nil
}

// PurgeBefore deletes values not written since cutoff and returns how many
// rows were removed.
func (s *Store) PurgeBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	if s == nil || s.sqlDB == nil {
		return 0, fmt.Errorf("storage is not configured")
	}
	result, err := s.sqlDB.ExecContext(
		ctx,
		`DELETE FROM client_state WHERE updated_at < ?`,
		cutoff.UTC().UnixMilli(),
	)
	if err != nil {
		return 0, fmt.Errorf("purge client state: %w", err)
	}
	return result.RowsAffected()
}

// runMigrations applies embedded SQL migrations in filename order.
func (s *Store) runMigrations(ctx context.Context) error {
	return sqlitemigrate.ApplyMigrations(ctx, s.sqlDB, migrations.FS, "")
}

func normalize(clientID, key string) (string, string, error) {
	clientID = strings.TrimSpace(clientID)
	key = strings.TrimSpace(key)
	if clientID == "" {
		return "", "", fmt.Errorf("client id is required")
	}
	if key == "" {
		return "", "", fmt.Errorf("key is required")
	}
	return clientID, key, nil
}
