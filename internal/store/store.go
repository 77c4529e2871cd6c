package store

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"
	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"

	// Postgres driver registered as "pgx".
	_ "github.com/jackc/pgx/v5/stdlib"
	// Pure Go SQLite driver (no CGO).
	_ "modernc.org/sqlite"
)

// Supported drivers.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Store holds the database handle and provides access to repositories.
type Store struct {
	db      *sqlx.DB
	dialect string
	log     logrus.FieldLogger
}

// Option configures Open.
type Option func(*openOptions)

type openOptions struct {
	driver string
	log    logrus.FieldLogger
}

// WithDriver selects the database driver (DriverSQLite or DriverPostgres).
func WithDriver(driver string) Option {
	return func(o *openOptions) { o.driver = driver }
}

// WithLogger sets the logger used for migration and reset messages.
func WithLogger(l logrus.FieldLogger) Option {
	return func(o *openOptions) { o.log = l }
}

// Open connects to the database at dsn, applies recommended pragmas for
// SQLite and runs auto-migration.
func Open(dsn string, opts ...Option) (*Store, error) {
	o := openOptions{driver: DriverSQLite}
	for _, opt := range opts {
		opt(&o)
	}
	if o.log == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		o.log = l
	}

	var (
		sqlDriver   string
		dialectName string
	)
	switch o.driver {
	case DriverSQLite, "":
		sqlDriver, dialectName = "sqlite", dialect.SQLite
	case DriverPostgres:
		sqlDriver, dialectName = "pgx", dialect.Postgres
	default:
		return nil, InvalidInput("driver", "unsupported database driver %q", o.driver)
	}

	db, err := sql.Open(sqlDriver, dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if dialectName == dialect.SQLite {
		if err := applyPragmas(db); err != nil {
			db.Close()
			return nil, fmt.Errorf("apply pragmas: %w", err)
		}
	}

	if err := migrate(context.Background(), entsql.OpenDB(dialectName, db)); err != nil {
		db.Close()
		return nil, fmt.Errorf("auto-migrate: %w", err)
	}
	o.log.WithField("driver", o.driver).Debug("database schema up to date")

	return &Store{
		db:      sqlx.NewDb(db, sqlDriver),
		dialect: dialectName,
		log:     o.log,
	}, nil
}

// DB returns the underlying *sql.DB for raw queries.
func (s *Store) DB() *sql.DB {
	return s.db.DB
}

// Dialect returns the ent dialect name in use.
func (s *Store) Dialect() string {
	return s.dialect
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// ProgressRepo returns a ProgressRepo backed by this store.
func (s *Store) ProgressRepo() ProgressRepo {
	return &progressRepo{db: s.db, dialect: s.dialect}
}

// SessionRepo returns a SessionRepo backed by this store.
func (s *Store) SessionRepo() SessionRepo {
	return &sessionRepo{db: s.db, dialect: s.dialect}
}

// ItemRepo returns an ItemRepo backed by this store.
func (s *Store) ItemRepo() ItemRepo {
	return &itemRepo{db: s.db, dialect: s.dialect}
}

// Reset deletes all progress records and study sessions in one transaction.
// Catalog items and topic weights are kept.
func (s *Store) Reset(ctx context.Context) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin reset: %w", err)
	}
	b := builder(s.dialect)
	for _, table := range []string{progressTable, sessionTable} {
		query, args := b.Delete(table).Query()
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			tx.Rollback()
			return fmt.Errorf("clear %s: %w", table, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit reset: %w", err)
	}
	s.log.Info("learner progress and sessions cleared")
	return nil
}

// applyPragmas configures SQLite for optimal single-user performance.
func applyPragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA foreign_keys = ON",
		"PRAGMA synchronous = NORMAL",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			return fmt.Errorf("%s: %w", p, err)
		}
	}
	return nil
}

// DefaultDBPath resolves the database file path in priority order:
// 1. CRAMKIT_DB environment variable
// 2. $XDG_DATA_HOME/cramkit/cramkit.db
// 3. ~/.local/share/cramkit/cramkit.db
func DefaultDBPath() (string, error) {
	if p := os.Getenv("CRAMKIT_DB"); p != "" {
		return p, EnsureDir(p)
	}

	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		dataHome = filepath.Join(home, ".local", "share")
	}

	p := filepath.Join(dataHome, "cramkit", "cramkit.db")
	return p, EnsureDir(p)
}

// EnsureDir creates the parent directory of path if it doesn't exist.
func EnsureDir(path string) error {
	dir := filepath.Dir(path)
	return os.MkdirAll(dir, 0o755)
}
