package store

import (
	"fmt"
	"time"

	"go.uber.org/zap"
	"zombiezen.com/go/sqlite"
	"zombiezen.com/go/sqlite/sqlitex"

	"kshim/values"
)

const schema = `
CREATE TABLE IF NOT EXISTS theme_mods (
	key   TEXT PRIMARY KEY,
	value TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS options (
	key   TEXT PRIMARY KEY,
	value TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS transients (
	key     TEXT PRIMARY KEY,
	value   TEXT NOT NULL,
	expires INTEGER NOT NULL
);
`

// DB is SQLite database holding host stores. Values of key-value tables are
// kept serialized (see values.Encode).
// NOTE: presently not to be used concurrently!
type DB struct {
	conn *sqlite.Conn
	log  *zap.Logger
	now  func() time.Time
}

// OpenDB opens (creating if necessary) database at path. Empty path or
// ":memory:" opens private in-memory database.
func OpenDB(path string, log *zap.Logger) (*DB, error) {
	if log == nil {
		log = zap.NewNop()
	}

	var (
		conn *sqlite.Conn
		err  error
	)
	if len(path) == 0 || path == ":memory:" {
		conn, err = sqlite.OpenConn(":memory:", sqlite.OpenReadWrite, sqlite.OpenMemory)
	} else {
		conn, err = sqlite.OpenConn(path, sqlite.OpenReadWrite, sqlite.OpenCreate, sqlite.OpenWAL)
	}
	if err != nil {
		return nil, fmt.Errorf("unable to open store database '%s': %w", path, err)
	}
	if err := sqlitex.ExecuteScript(conn, schema, nil); err != nil {
		conn.Close()
		return nil, fmt.Errorf("unable to prepare store schema: %w", err)
	}
	log.Debug("Store opened", zap.String("path", path))
	return &DB{conn: conn, log: log.Named("store"), now: time.Now}, nil
}

func (db *DB) Close() error {
	if db == nil || db.conn == nil {
		return nil
	}
	return db.conn.Close()
}

// Settings returns theme settings view of the database.
func (db *DB) Settings() Settings {
	return &table{db: db, name: "theme_mods"}
}

// Options returns site options view of the database.
func (db *DB) Options() Options {
	return &table{db: db, name: "options"}
}

// Transients returns TTL cache view of the database.
func (db *DB) Transients() Transients {
	return &transients{db: db}
}

// PurgeExpired removes expired transients and returns number of removed rows.
func (db *DB) PurgeExpired() (int, error) {
	err := sqlitex.Execute(db.conn, `DELETE FROM transients WHERE expires <= ?`,
		&sqlitex.ExecOptions{Args: []any{db.now().UnixNano()}})
	if err != nil {
		return 0, fmt.Errorf("unable to purge transients: %w", err)
	}
	return db.conn.Changes(), nil
}

type table struct {
	db   *DB
	name string
}

func (t *table) Get(key string) (any, bool, error) {
	var (
		data  string
		found bool
	)
	err := sqlitex.Execute(t.db.conn, `SELECT value FROM `+t.name+` WHERE key = ?`,
		&sqlitex.ExecOptions{
			Args: []any{key},
			ResultFunc: func(stmt *sqlite.Stmt) error {
				data, found = stmt.ColumnText(0), true
				return nil
			},
		})
	if err != nil {
		return nil, false, fmt.Errorf("unable to read %s[%s]: %w", t.name, key, err)
	}
	if !found {
		return nil, false, nil
	}
	v, err := values.Decode([]byte(data))
	if err != nil {
		return nil, false, fmt.Errorf("unable to decode %s[%s]: %w", t.name, key, err)
	}
	return v, true, nil
}

func (t *table) Set(key string, value any) error {
	data, err := values.Encode(value)
	if err != nil {
		return fmt.Errorf("unable to encode %s[%s]: %w", t.name, key, err)
	}
	err = sqlitex.Execute(t.db.conn,
		`INSERT INTO `+t.name+` (key, value) VALUES (?, ?) ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
		&sqlitex.ExecOptions{Args: []any{key, string(data)}})
	if err != nil {
		return fmt.Errorf("unable to write %s[%s]: %w", t.name, key, err)
	}
	t.db.log.Debug("Value stored", zap.String("table", t.name), zap.String("key", key))
	return nil
}

func (t *table) Delete(key string) error {
	err := sqlitex.Execute(t.db.conn, `DELETE FROM `+t.name+` WHERE key = ?`,
		&sqlitex.ExecOptions{Args: []any{key}})
	if err != nil {
		return fmt.Errorf("unable to delete %s[%s]: %w", t.name, key, err)
	}
	return nil
}

type transients struct {
	db *DB
}

func (t *transients) Get(key string) (string, bool, error) {
	var (
		value string
		found bool
	)
	err := sqlitex.Execute(t.db.conn, `SELECT value FROM transients WHERE key = ? AND expires > ?`,
		&sqlitex.ExecOptions{
			Args: []any{key, t.db.now().UnixNano()},
			ResultFunc: func(stmt *sqlite.Stmt) error {
				value, found = stmt.ColumnText(0), true
				return nil
			},
		})
	if err != nil {
		return "", false, fmt.Errorf("unable to read transient %s: %w", key, err)
	}
	return value, found, nil
}

func (t *transients) Set(key, value string, ttl time.Duration) error {
	err := sqlitex.Execute(t.db.conn,
		`INSERT INTO transients (key, value, expires) VALUES (?, ?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value, expires = excluded.expires`,
		&sqlitex.ExecOptions{Args: []any{key, value, t.db.now().Add(ttl).UnixNano()}})
	if err != nil {
		return fmt.Errorf("unable to write transient %s: %w", key, err)
	}
	return nil
}
