// Package store keeps program settings, the rule set first of all, in a small
// sqlite database.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
	"zombiezen.com/go/sqlite"
	"zombiezen.com/go/sqlite/sqlitex"

	"fontswap/rules"
)

// RulesKey is the settings key rule set is stored under.
const RulesKey = "rules"

const schema = `
CREATE TABLE IF NOT EXISTS settings (
	key     TEXT PRIMARY KEY,
	value   TEXT NOT NULL,
	updated INTEGER NOT NULL
);
`

// ErrClosed is returned by operations on closed store.
var ErrClosed = errors.New("settings store is closed")

// Store is a key-value settings storage. It is safe for concurrent use, all
// access is serialized over single connection.
type Store struct {
	mu   sync.Mutex
	conn *sqlite.Conn
	path string
	log  *zap.Logger
}

// Open opens (creating when necessary) settings database at path. Use
// ":memory:" for transient store.
func Open(path string, log *zap.Logger) (*Store, error) {
	if log == nil {
		log = zap.NewNop()
	}

	flags := []sqlite.OpenFlags{sqlite.OpenReadWrite, sqlite.OpenCreate}
	if path == ":memory:" {
		flags = append(flags, sqlite.OpenMemory)
	}
	conn, err := sqlite.OpenConn(path, flags...)
	if err != nil {
		return nil, fmt.Errorf("unable to open settings store (%s): %w", path, err)
	}
	if err := sqlitex.ExecuteScript(conn, schema, nil); err != nil {
		conn.Close()
		return nil, fmt.Errorf("unable to prepare settings store (%s): %w", path, err)
	}

	log = log.Named("store")
	log.Debug("Settings store opened", zap.String("path", path))
	return &Store{conn: conn, path: path, log: log}, nil
}

// Path returns location of the database.
func (s *Store) Path() string {
	return s.path
}

// Close releases database connection. It is safe to call Close more than once.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.conn == nil {
		return nil
	}
	err := s.conn.Close()
	s.conn = nil
	return err
}

// withConn runs fn holding the lock with connection interruptible by ctx.
func (s *Store) withConn(ctx context.Context, fn func(conn *sqlite.Conn) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.conn == nil {
		return ErrClosed
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	s.conn.SetInterrupt(ctx.Done())
	defer s.conn.SetInterrupt(nil)

	return fn(s.conn)
}

// Get returns value stored under key and whether it was found.
func (s *Store) Get(ctx context.Context, key string) (value string, found bool, err error) {
	err = s.withConn(ctx, func(conn *sqlite.Conn) error {
		return sqlitex.Execute(conn, `SELECT value FROM settings WHERE key = ?`,
			&sqlitex.ExecOptions{
				Args: []any{key},
				ResultFunc: func(stmt *sqlite.Stmt) error {
					value, found = stmt.ColumnText(0), true
					return nil
				},
			})
	})
	if err != nil {
		return "", false, fmt.Errorf("unable to read setting %q: %w", key, err)
	}
	return value, found, nil
}

// Put stores value under key replacing previous one.
func (s *Store) Put(ctx context.Context, key, value string) error {
	err := s.withConn(ctx, func(conn *sqlite.Conn) error {
		return sqlitex.Execute(conn,
			`INSERT INTO settings (key, value, updated) VALUES (?, ?, ?)
			 ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated = excluded.updated`,
			&sqlitex.ExecOptions{Args: []any{key, value, time.Now().Unix()}})
	})
	if err != nil {
		return fmt.Errorf("unable to write setting %q: %w", key, err)
	}
	return nil
}

// Delete removes key, absent key is not an error.
func (s *Store) Delete(ctx context.Context, key string) error {
	err := s.withConn(ctx, func(conn *sqlite.Conn) error {
		return sqlitex.Execute(conn, `DELETE FROM settings WHERE key = ?`,
			&sqlitex.ExecOptions{Args: []any{key}})
	})
	if err != nil {
		return fmt.Errorf("unable to delete setting %q: %w", key, err)
	}
	return nil
}

// Load returns stored rule set, or default one when nothing has been saved
// yet. Stored data is migrated: well-formed resolved rules keep their
// variants, anything else becomes legacy rule.
func (s *Store) Load(ctx context.Context) (rules.RuleSet, error) {
	value, found, err := s.Get(ctx, RulesKey)
	if err != nil {
		return rules.RuleSet{}, err
	}
	if !found {
		s.log.Debug("No stored rules, using defaults")
		return rules.Defaults(), nil
	}

	var rs rules.RuleSet
	if err := json.Unmarshal([]byte(value), &rs); err != nil {
		return rules.RuleSet{}, fmt.Errorf("stored rules are damaged: %w", err)
	}
	s.log.Debug("Rules loaded", zap.Int("count", len(rs.Rules)))
	return rs, nil
}

// Save persists rule set including resolved variants.
func (s *Store) Save(ctx context.Context, rs rules.RuleSet) error {
	data, err := json.Marshal(rs)
	if err != nil {
		return fmt.Errorf("unable to encode rules: %w", err)
	}
	if err := s.Put(ctx, RulesKey, string(data)); err != nil {
		return err
	}
	s.log.Debug("Rules saved", zap.Int("count", len(rs.Rules)))
	return nil
}

// Reset forgets stored rules and returns defaults.
func (s *Store) Reset(ctx context.Context) (rules.RuleSet, error) {
	if err := s.Delete(ctx, RulesKey); err != nil {
		return rules.RuleSet{}, err
	}
	return rules.Defaults(), nil
}
