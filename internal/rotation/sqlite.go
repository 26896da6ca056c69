package rotation

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"time"

	"zombiezen.com/go/sqlite"
	"zombiezen.com/go/sqlite/sqlitex"
)

const sqliteSchema = `CREATE TABLE IF NOT EXISTS rotation_states (
	key TEXT PRIMARY KEY,
	value TEXT NOT NULL,
	updated_at INTEGER NOT NULL
)`

const sqliteAdvanceQuery = `INSERT INTO rotation_states (key, value, updated_at)
VALUES (?, '1', ?)
ON CONFLICT (key) DO UPDATE SET
	value = CASE
		WHEN rotation_states.value GLOB '[0-9]*'
			AND rotation_states.value NOT GLOB '*[^0-9]*'
			AND length(rotation_states.value) <= 18
			AND CAST(rotation_states.value AS INTEGER) < ?
		THEN CAST(CAST(rotation_states.value AS INTEGER) + 1 AS TEXT)
		ELSE '1'
	END,
	updated_at = excluded.updated_at
RETURNING value`

// SQLiteStore keeps rotation state in an embedded SQLite database. It holds a
// single connection, so every call is serialised by a mutex.
type SQLiteStore struct {
	conn *sqlite.Conn
	mu   sync.Mutex
}

var (
	_ Store    = (*SQLiteStore)(nil)
	_ Advancer = (*SQLiteStore)(nil)
)

// OpenSQLiteStore opens or creates the database at path and ensures the schema exists.
func OpenSQLiteStore(path string) (*SQLiteStore, error) {
	conn, err := sqlite.OpenConn(path, sqlite.OpenCreate|sqlite.OpenReadWrite|sqlite.OpenWAL)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database: %w", err)
	}

	if err := sqlitex.ExecuteTransient(conn, sqliteSchema, nil); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("failed to create rotation schema: %w", err)
	}

	return &SQLiteStore{conn: conn}, nil
}

// Close closes the underlying connection.
func (s *SQLiteStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.conn.Close()
}

// Get implements Store.
func (s *SQLiteStore) Get(ctx context.Context, key string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.conn.SetInterrupt(ctx.Done())
	defer s.conn.SetInterrupt(nil)

	return s.get(key)
}

// Set implements Store.
func (s *SQLiteStore) Set(ctx context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.conn.SetInterrupt(ctx.Done())
	defer s.conn.SetInterrupt(nil)

	err := sqlitex.Execute(s.conn, `INSERT INTO rotation_states (key, value, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT (key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		&sqlitex.ExecOptions{Args: []any{key, value, time.Now().Unix()}})
	if err != nil {
		return fmt.Errorf("failed to set rotation state: %w (key=%s)", err, key)
	}

	return nil
}

// Create implements Store.
func (s *SQLiteStore) Create(ctx context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.conn.SetInterrupt(ctx.Done())
	defer s.conn.SetInterrupt(nil)

	err := sqlitex.Execute(s.conn, `INSERT INTO rotation_states (key, value, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT (key) DO NOTHING`,
		&sqlitex.ExecOptions{Args: []any{key, value, time.Now().Unix()}})
	if err != nil {
		return fmt.Errorf("failed to create rotation state: %w (key=%s)", err, key)
	}

	if s.conn.Changes() > 0 {
		return nil
	}

	stored, _, err := s.get(key)
	if err != nil {
		return err
	}

	if stored != value {
		return ErrDuplicateKey
	}

	return nil
}

// Advance implements Advancer with a single upsert statement.
func (s *SQLiteStore) Advance(ctx context.Context, key string, limit int) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.conn.SetInterrupt(ctx.Done())
	defer s.conn.SetInterrupt(nil)

	var value string

	err := sqlitex.Execute(s.conn, sqliteAdvanceQuery, &sqlitex.ExecOptions{
		Args: []any{key, time.Now().Unix(), limit},
		ResultFunc: func(stmt *sqlite.Stmt) error {
			value = stmt.ColumnText(0)
			return nil
		},
	})
	if err != nil {
		return 0, fmt.Errorf("failed to advance rotation index: %w (key=%s)", err, key)
	}

	next, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("invalid rotation index %q: %w (key=%s)", value, err, key)
	}

	return next, nil
}

func (s *SQLiteStore) get(key string) (string, bool, error) {
	var (
		value string
		found bool
	)

	err := sqlitex.Execute(s.conn, `SELECT value FROM rotation_states WHERE key = ?`,
		&sqlitex.ExecOptions{
			Args: []any{key},
			ResultFunc: func(stmt *sqlite.Stmt) error {
				value = stmt.ColumnText(0)
				found = true
				return nil
			},
		})
	if err != nil {
		return "", false, fmt.Errorf("failed to get rotation state: %w (key=%s)", err, key)
	}

	return value, found, nil
}
