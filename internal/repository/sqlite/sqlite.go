// Package sqlite implements the repository interfaces on an embedded SQLite
// database. It is the development and test store; production uses MongoDB.
//
// The driver is modernc.org/sqlite, registered as "sqlite"; it needs no cgo.
//
// Blogs are documents with embedded likes and comments. Here they are split
// into three tables and re-assembled on read; Save rewrites the child rows in
// one transaction so a blog is always stored whole.
package sqlite

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	migratesqlite "github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/rs/xid"
	sqlitedriver "modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"github.com/sakif/donation-hub/internal/apperror"
)

//go:embed migrations/*.sql
var migrations embed.FS

// DB wraps a sql.DB connection pool and hands out the per-table stores.
type DB struct {
	conn *sql.DB
}

// New opens the SQLite database at dbPath and migrates it to the latest
// schema.
//
// dbPath examples:
//   - "data/donation-hub.db" → file-based database (persistent)
//   - ":memory:"             → in-memory database (tests)
func New(dbPath string) (*DB, error) {
	conn, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("sqlite: opening database: %w", err)
	}

	// One connection: every ":memory:" connection is a separate database,
	// and SQLite serialises writers anyway.
	conn.SetMaxOpenConns(1)

	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: pinging database: %w", err)
	}

	if _, err := conn.Exec("PRAGMA foreign_keys=ON"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: enabling foreign keys: %w", err)
	}

	db := &DB{conn: conn}
	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: running migrations: %w", err)
	}

	return db, nil
}

// Close closes the database connection pool.
func (db *DB) Close() error {
	return db.conn.Close()
}

// Ping checks the database is reachable.
func (db *DB) Ping() error {
	return db.conn.Ping()
}

// Users returns the user store.
func (db *DB) Users() *UserDB { return &UserDB{conn: db.conn} }

// Blogs returns the blog store.
func (db *DB) Blogs() *BlogDB { return &BlogDB{conn: db.conn} }

// Resources returns the resource store.
func (db *DB) Resources() *ResourceDB { return &ResourceDB{conn: db.conn} }

// migrate applies the embedded migrations with golang-migrate.
//
// The returned *migrate.Migrate is not closed: its database driver owns
// db.conn and would close it.
func (db *DB) migrate() error {
	src, err := iofs.New(migrations, "migrations")
	if err != nil {
		return fmt.Errorf("loading embedded migrations: %w", err)
	}

	driver, err := migratesqlite.WithInstance(db.conn, &migratesqlite.Config{})
	if err != nil {
		return fmt.Errorf("creating migrate driver: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", src, "sqlite", driver)
	if err != nil {
		return fmt.Errorf("creating migrator: %w", err)
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("applying migrations: %w", err)
	}
	return nil
}

// parseID rejects ids that are not xids before they reach a query, so a
// malformed id is reported as such and not as "not found".
func parseID(resource, id string) error {
	if _, err := xid.FromString(id); err != nil {
		return apperror.InvalidID(resource, id)
	}
	return nil
}

func newID() string {
	return xid.New().String()
}

func isUniqueViolation(err error) bool {
	var se *sqlitedriver.Error
	return errors.As(err, &se) && se.Code() == sqlite3.SQLITE_CONSTRAINT_UNIQUE
}

// rowScanner is satisfied by both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}
