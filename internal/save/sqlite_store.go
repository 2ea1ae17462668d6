package save

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

	"idlerpg/internal/progression"
)

const (
	timeFormat  = time.RFC3339Nano
	defaultSlot = "default"
)

// SQLiteStore keeps the state in a single-row saves table. Rejected rows are
// moved into save_backups.
type SQLiteStore struct {
	sqlDB *sql.DB
	slot  string
	now   func() time.Time
}

// OpenSQLite opens or creates the database at path.
func OpenSQLite(path string) (*SQLiteStore, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}
	cleanPath := filepath.Clean(path)
	if err := os.MkdirAll(filepath.Dir(cleanPath), 0o755); err != nil {
		return nil, fmt.Errorf("create database directory: %w", err)
	}

	dsn := "file:" + cleanPath + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)&_pragma=synchronous(NORMAL)"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	sqlDB.SetMaxOpenConns(1)

	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if err := createSchemas(sqlDB); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("create schemas: %w", err)
	}

	return &SQLiteStore{
		sqlDB: sqlDB,
		slot:  defaultSlot,
		now:   time.Now,
	}, nil
}

func createSchemas(db *sql.DB) error {
	schemas := []string{
		`CREATE TABLE IF NOT EXISTS saves (
			slot TEXT PRIMARY KEY,
			version INTEGER NOT NULL,
			payload TEXT NOT NULL,
			updated_at TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS save_backups (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			slot TEXT NOT NULL,
			payload TEXT NOT NULL,
			reason TEXT NOT NULL,
			moved_at TEXT NOT NULL
		);`,
	}
	for _, query := range schemas {
		if _, err := db.Exec(query); err != nil {
			return err
		}
	}
	return nil
}

func (s *SQLiteStore) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

func (s *SQLiteStore) Load(ctx context.Context) (*progression.GameState, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var payload string
	row := s.sqlDB.QueryRowContext(ctx, `SELECT payload FROM saves WHERE slot = ?`, s.slot)
	if err := row.Scan(&payload); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNoSave
		}
		return nil, fmt.Errorf("read save: %w", err)
	}

	st, err := decode([]byte(payload))
	if err == nil {
		return st, nil
	}
	if !rejected(err) {
		return nil, err
	}
	if mvErr := s.moveAside(ctx, reason(err)); mvErr != nil {
		return nil, errors.Join(err, mvErr)
	}
	return nil, fmt.Errorf("%w (kept in save_backups)", err)
}

func (s *SQLiteStore) Save(ctx context.Context, st *progression.GameState) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	b, err := encode(st)
	if err != nil {
		return fmt.Errorf("encode save: %w", err)
	}
	_, err = s.sqlDB.ExecContext(ctx, `
		INSERT INTO saves (slot, version, payload, updated_at) VALUES (?, ?, ?, ?)
		ON CONFLICT(slot) DO UPDATE SET
			version = excluded.version,
			payload = excluded.payload,
			updated_at = excluded.updated_at`,
		s.slot, st.Version, string(b), s.now().UTC().Format(timeFormat))
	if err != nil {
		return fmt.Errorf("write save: %w", err)
	}
	return nil
}

func (s *SQLiteStore) Discard(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	var n int
	if err := s.sqlDB.QueryRowContext(ctx, `SELECT COUNT(*) FROM saves WHERE slot = ?`, s.slot).Scan(&n); err != nil {
		return "", fmt.Errorf("count saves: %w", err)
	}
	if n == 0 {
		return "", ErrNoSave
	}
	if err := s.moveAside(ctx, "discarded"); err != nil {
		return "", err
	}
	return "save_backups", nil
}

func (s *SQLiteStore) moveAside(ctx context.Context, why string) error {
	tx, err := s.sqlDB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO save_backups (slot, payload, reason, moved_at)
		SELECT slot, payload, ?, ? FROM saves WHERE slot = ?`,
		why, s.now().UTC().Format(timeFormat), s.slot); err != nil {
		return fmt.Errorf("copy save to backups: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM saves WHERE slot = ?`, s.slot); err != nil {
		return fmt.Errorf("delete save: %w", err)
	}
	return tx.Commit()
}

// Backups returns how many rows have been moved aside.
func (s *SQLiteStore) Backups(ctx context.Context) (int, error) {
	var n int
	err := s.sqlDB.QueryRowContext(ctx, `SELECT COUNT(*) FROM save_backups WHERE slot = ?`, s.slot).Scan(&n)
	return n, err
}

var _ Store = (*SQLiteStore)(nil)
