package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "github.com/go-sql-driver/mysql"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/mysqldialect"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	_ "modernc.org/sqlite"

	"github.com/alexisbeaulieu97/signin/internal/logger"
	"github.com/alexisbeaulieu97/signin/internal/ports"
	apperrors "github.com/alexisbeaulieu97/signin/pkg/errors"
)

// Supported database types.
const (
	TypeSQLite   = "sqlite"
	TypePostgres = "postgres"
	TypeMySQL    = "mysql"
)

const (
	defaultMaxOpenConns    = 10
	defaultMaxIdleConns    = 10
	defaultConnMaxLifetime = 5 * time.Minute
)

// Options selects the database to open.
type Options struct {
	Type   string
	DSN    string
	Logger ports.Logger
}

// Store owns the database handle.
type Store struct {
	db     *bun.DB
	dbType string
	logger ports.Logger
}

// Open connects to the database, applies pending migrations and returns a
// ready Store. Callers must Close it.
func Open(ctx context.Context, opts Options) (*Store, error) {
	log := opts.Logger
	if log == nil {
		log = logger.NewNoOp()
	}
	log = log.With("component", "store", "db_type", opts.Type)

	driverName, err := driverFor(opts.Type)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(opts.DSN) == "" {
		return nil, apperrors.NewValidationError("database.dsn", "must not be empty", nil)
	}

	start := time.Now()
	sqlDB, err := sql.Open(driverName, opts.DSN)
	if err != nil {
		return nil, apperrors.NewStoreError("open", err)
	}
	configurePool(sqlDB, opts.Type, opts.DSN)

	db := createBunDB(sqlDB, opts.Type)
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, apperrors.NewStoreError("ping", err)
	}
	log.Debug(ctx, "database opened", "duration", time.Since(start).String())

	if err := runMigrations(ctx, db, opts.Type, log); err != nil {
		_ = db.Close()
		return nil, err
	}

	return &Store{db: db, dbType: opts.Type, logger: log}, nil
}

// Close releases the underlying connection pool.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Ping checks the connection.
func (s *Store) Ping(ctx context.Context) error {
	return apperrors.NewStoreError("ping", s.db.PingContext(ctx))
}

// Type reports the database type the store was opened with.
func (s *Store) Type() string {
	return s.dbType
}

// Users returns the user repository backed by this store.
func (s *Store) Users() *Users {
	return &Users{db: s.db, logger: s.logger}
}

func driverFor(dbType string) (string, error) {
	switch dbType {
	case TypeSQLite:
		return "sqlite", nil
	case TypePostgres:
		// The pgx stdlib package registers itself as "pgx".
		return "pgx", nil
	case TypeMySQL:
		return "mysql", nil
	default:
		return "", apperrors.NewValidationError("database.type", fmt.Sprintf("unsupported database type %q", dbType), nil)
	}
}

func configurePool(sqlDB *sql.DB, dbType, dsn string) {
	maxOpen, maxIdle := defaultMaxOpenConns, defaultMaxIdleConns

	// In-memory SQLite databases are per connection unless shared, and
	// shared caches lock at table level; one connection keeps both sane.
	if dbType == TypeSQLite && (dsn == ":memory:" || strings.Contains(dsn, "mode=memory")) {
		maxOpen, maxIdle = 1, 1
	}

	sqlDB.SetMaxOpenConns(maxOpen)
	sqlDB.SetMaxIdleConns(maxIdle)
	sqlDB.SetConnMaxLifetime(defaultConnMaxLifetime)
}

func createBunDB(sqlDB *sql.DB, dbType string) *bun.DB {
	switch dbType {
	case TypePostgres:
		return bun.NewDB(sqlDB, pgdialect.New())
	case TypeMySQL:
		return bun.NewDB(sqlDB, mysqldialect.New())
	default:
		return bun.NewDB(sqlDB, sqlitedialect.New())
	}
}
