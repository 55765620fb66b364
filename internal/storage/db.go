// ABOUTME: SQL database connection and lifecycle management.
// ABOUTME: SQLite via modernc.org/sqlite (pure Go) and PostgreSQL via pgx.
package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	sq "github.com/Masterminds/squirrel"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
)

// Dialect selects SQL flavour details such as placeholders and DDL.
type Dialect string

const (
	DialectSQLite   Dialect = "sqlite"
	DialectPostgres Dialect = "postgres"
)

// DB wraps a SQL connection pool for either dialect.
type DB struct {
	db      *sqlx.DB
	dialect Dialect
	sb      sq.StatementBuilderType
}

var _ Repository = (*DB)(nil)

// Open opens or creates a SQLite database at the given path.
func Open(dbPath string) (*DB, error) {
	// Ensure parent directory exists
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0750); err != nil {
		return nil, fmt.Errorf("create data directory: %w", err)
	}

	x, err := sqlx.Open("sqlite", sqliteDSN(dbPath))
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	// One connection serializes writers and keeps per-connection pragmas stable.
	x.SetMaxOpenConns(1)

	if err := x.Ping(); err != nil {
		_ = x.Close()
		return nil, fmt.Errorf("open database: %w", err)
	}

	// Set file permissions
	if err := os.Chmod(dbPath, 0600); err != nil && !os.IsNotExist(err) {
		_ = x.Close()
		return nil, fmt.Errorf("set database permissions: %w", err)
	}

	d := newDB(x, DialectSQLite)

	if err := d.initSchema(context.Background()); err != nil {
		_ = x.Close()
		return nil, fmt.Errorf("initialize schema: %w", err)
	}

	return d, nil
}

// OpenPostgres connects to a PostgreSQL database and ensures the schema exists.
func OpenPostgres(ctx context.Context, databaseURL string) (*DB, error) {
	x, err := sqlx.ConnectContext(ctx, "pgx", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	x.SetMaxOpenConns(10)
	x.SetMaxIdleConns(5)
	x.SetConnMaxLifetime(30 * time.Minute)

	d := newDB(x, DialectPostgres)
	if err := d.initSchema(ctx); err != nil {
		_ = x.Close()
		return nil, fmt.Errorf("initialize schema: %w", err)
	}
	return d, nil
}

func newDB(x *sqlx.DB, dialect Dialect) *DB {
	var placeholder sq.PlaceholderFormat = sq.Question
	if dialect == DialectPostgres {
		placeholder = sq.Dollar
	}
	return &DB{
		db:      x,
		dialect: dialect,
		sb:      sq.StatementBuilder.PlaceholderFormat(placeholder),
	}
}

// forUpdate locks the selected rows until the transaction ends. SQLite
// transactions begin IMMEDIATE and already hold the write lock.
func (d *DB) forUpdate(b sq.SelectBuilder) sq.SelectBuilder {
	if d.dialect == DialectPostgres {
		return b.Suffix("FOR UPDATE")
	}
	return b
}

// sqliteDSN applies pragmas on every new connection, not just the first.
func sqliteDSN(dbPath string) string {
	return fmt.Sprintf(
		"file:%s?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)&_pragma=synchronous(NORMAL)&_txlock=immediate",
		dbPath,
	)
}

// DataDir returns the default data directory following XDG spec.
func DataDir() string {
	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		home, _ := os.UserHomeDir()
		dataHome = filepath.Join(home, ".local", "share")
	}
	return filepath.Join(dataHome, "gymlog")
}

// Close closes the database connection.
func (d *DB) Close() error {
	if d.db != nil {
		return d.db.Close()
	}
	return nil
}
