package journal

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"

	// SQLite driver using pure Go implementation
	_ "modernc.org/sqlite"
)

// SQLiteConfig configures the SQLite storage backend.
type SQLiteConfig struct {
	// Path to the SQLite database file
	Path string `yaml:"path" mapstructure:"path"`

	// JournalMode sets the SQLite journal mode (WAL, DELETE, TRUNCATE, etc.)
	JournalMode string `yaml:"journal_mode" mapstructure:"journal_mode"`

	// Synchronous sets the synchronous flag (OFF, NORMAL, FULL, EXTRA)
	Synchronous string `yaml:"synchronous" mapstructure:"synchronous"`

	// BusyTimeout is the timeout for acquiring locks in milliseconds
	BusyTimeout int `yaml:"busy_timeout" mapstructure:"busy_timeout"`

	// MaxConnections is the max number of database connections
	MaxConnections int `yaml:"max_connections" mapstructure:"max_connections"`
}

// DefaultSQLiteConfig returns default configuration.
func DefaultSQLiteConfig() SQLiteConfig {
	return SQLiteConfig{
		Path:           "journal.db",
		JournalMode:    "WAL",
		Synchronous:    "NORMAL",
		BusyTimeout:    5000,
		MaxConnections: 4,
	}
}

// SQLiteBackend implements StorageBackend with one row per key, so
// snapshots can be inspected with standard SQLite tools.
type SQLiteBackend struct {
	db     *sql.DB
	config SQLiteConfig
	mu     sync.RWMutex
	closed bool

	upsertStmt *sql.Stmt
	selectStmt *sql.Stmt
	deleteStmt *sql.Stmt
	existsStmt *sql.Stmt
}

// NewSQLiteBackend opens (creating if needed) the database at config.Path.
func NewSQLiteBackend(config SQLiteConfig) (*SQLiteBackend, error) {
	defaults := DefaultSQLiteConfig()
	if config.Path == "" {
		config.Path = defaults.Path
	}
	if config.JournalMode == "" {
		config.JournalMode = defaults.JournalMode
	}
	if config.Synchronous == "" {
		config.Synchronous = defaults.Synchronous
	}
	if config.BusyTimeout <= 0 {
		config.BusyTimeout = defaults.BusyTimeout
	}
	if config.MaxConnections <= 0 {
		config.MaxConnections = defaults.MaxConnections
	}

	dsn := fmt.Sprintf("file:%s?_pragma=journal_mode(%s)&_pragma=synchronous(%s)&_pragma=busy_timeout(%d)",
		config.Path, config.JournalMode, config.Synchronous, config.BusyTimeout)

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open SQLite database: %w", err)
	}
	db.SetMaxOpenConns(config.MaxConnections)

	backend := &SQLiteBackend{db: db, config: config}
	if err := backend.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}
	if err := backend.prepareStatements(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to prepare statements: %w", err)
	}
	return backend, nil
}

func (s *SQLiteBackend) initSchema() error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS snapshots (
			key TEXT PRIMARY KEY,
			data BLOB NOT NULL,
			created_at INTEGER NOT NULL,
			updated_at INTEGER NOT NULL,
			size INTEGER NOT NULL
		);`)
	return err
}

func (s *SQLiteBackend) prepareStatements() error {
	var err error
	s.upsertStmt, err = s.db.Prepare(`
		INSERT INTO snapshots (key, data, created_at, updated_at, size)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET
			data = excluded.data,
			updated_at = excluded.updated_at,
			size = excluded.size`)
	if err != nil {
		return err
	}
	if s.selectStmt, err = s.db.Prepare(`SELECT data FROM snapshots WHERE key = ?`); err != nil {
		return err
	}
	if s.deleteStmt, err = s.db.Prepare(`DELETE FROM snapshots WHERE key = ?`); err != nil {
		return err
	}
	s.existsStmt, err = s.db.Prepare(`SELECT 1 FROM snapshots WHERE key = ? LIMIT 1`)
	return err
}

var errBackendClosed = errors.New("backend is closed")

func (s *SQLiteBackend) Read(ctx context.Context, key string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return nil, errBackendClosed
	}

	var data []byte
	err := s.selectStmt.QueryRowContext(ctx, key).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, errNotFound(key)
	}
	if err != nil {
		return nil, fmt.Errorf("sqlite: read %q: %w", key, err)
	}
	return data, nil
}

func (s *SQLiteBackend) Write(ctx context.Context, key string, data []byte) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return errBackendClosed
	}

	now := time.Now().UnixNano()
	if _, err := s.upsertStmt.ExecContext(ctx, key, data, now, now, len(data)); err != nil {
		return fmt.Errorf("sqlite: write %q: %w", key, err)
	}
	return nil
}

func (s *SQLiteBackend) Delete(ctx context.Context, key string) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return errBackendClosed
	}

	if _, err := s.deleteStmt.ExecContext(ctx, key); err != nil {
		return fmt.Errorf("sqlite: delete %q: %w", key, err)
	}
	return nil
}

func (s *SQLiteBackend) List(ctx context.Context, prefix string) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return nil, errBackendClosed
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT key FROM snapshots WHERE substr(key, 1, length(?)) = ? ORDER BY key`, prefix, prefix)
	if err != nil {
		return nil, fmt.Errorf("sqlite: list %q: %w", prefix, err)
	}
	defer rows.Close()

	var keys []string
	for rows.Next() {
		var key string
		if err := rows.Scan(&key); err != nil {
			return nil, err
		}
		keys = append(keys, key)
	}
	return keys, rows.Err()
}

func (s *SQLiteBackend) Exists(ctx context.Context, key string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return false, errBackendClosed
	}

	var one int
	err := s.existsStmt.QueryRowContext(ctx, key).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("sqlite: exists %q: %w", key, err)
	}
	return true, nil
}

// Size returns the stored byte size of key.
func (s *SQLiteBackend) Size(ctx context.Context, key string) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return 0, errBackendClosed
	}

	var size int64
	err := s.db.QueryRowContext(ctx, `SELECT size FROM snapshots WHERE key = ?`, key).Scan(&size)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, errNotFound(key)
	}
	return size, err
}

func (s *SQLiteBackend) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true

	for _, stmt := range []*sql.Stmt{s.upsertStmt, s.selectStmt, s.deleteStmt, s.existsStmt} {
		if stmt != nil {
			stmt.Close()
		}
	}
	return s.db.Close()
}
