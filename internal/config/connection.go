package config

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"  // postgres driver
	_ "modernc.org/sqlite" // sqlite driver

	"github.com/AntonStoeckl/assertdb-go/assertdb/dbsource"
)

var ErrOpeningDatabaseFailed = errors.New("opening the database failed")

const (
	defaultMaxConnLifetime = time.Hour
	defaultMaxConnIdleTime = time.Minute * 5
	defaultConnectTimeout  = time.Second * 5
)

// Connection is an open database together with the Source reading from it.
type Connection struct {
	Source dbsource.Source
	close  func() error
}

// Close closes the underlying database handle.
func (c *Connection) Close() error {
	return c.close()
}

// Open validates the configuration, connects with the configured adapter and verifies the connection.
// The SQLite adapter selects the sqlite3 query dialect; options are applied after that.
func Open(ctx context.Context, cfg Config, options ...dbsource.Option) (*Connection, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	switch cfg.Adapter {
	case AdapterPGX:
		return openPGXPool(ctx, cfg, options)
	case AdapterSQLX:
		return openSQLX(ctx, cfg, options)
	case AdapterSQLite:
		options = append([]dbsource.Option{dbsource.WithDialect(dbsource.DialectSQLite3)}, options...)
		return openSQLDB(ctx, "sqlite", cfg, options)
	default:
		return openSQLDB(ctx, "postgres", cfg, options)
	}
}

func openPGXPool(ctx context.Context, cfg Config, options []dbsource.Option) (*Connection, error) {
	dbConfig, err := pgxpool.ParseConfig(cfg.DSN)
	if err != nil {
		return nil, errors.Join(ErrOpeningDatabaseFailed, err)
	}

	dbConfig.MaxConns = int32(min(cfg.MaxOpenConns, 1<<16)) //nolint:gosec // bounded above
	dbConfig.MaxConnLifetime = defaultMaxConnLifetime
	dbConfig.MaxConnIdleTime = defaultMaxConnIdleTime
	dbConfig.ConnConfig.ConnectTimeout = defaultConnectTimeout

	pool, err := pgxpool.NewWithConfig(ctx, dbConfig)
	if err != nil {
		return nil, errors.Join(ErrOpeningDatabaseFailed, err)
	}

	if pingErr := pool.Ping(ctx); pingErr != nil {
		pool.Close()
		return nil, errors.Join(ErrOpeningDatabaseFailed, pingErr)
	}

	source, err := dbsource.NewSourceFromPGXPool(pool, options...)
	if err != nil {
		pool.Close()
		return nil, err
	}

	return &Connection{
		Source: source,
		close: func() error {
			pool.Close()
			return nil
		},
	}, nil
}

func openSQLDB(ctx context.Context, driverName string, cfg Config, options []dbsource.Option) (*Connection, error) {
	db, err := sql.Open(driverName, cfg.DSN)
	if err != nil {
		return nil, errors.Join(ErrOpeningDatabaseFailed, err)
	}

	configurePool(db, cfg)

	if pingErr := db.PingContext(ctx); pingErr != nil {
		_ = db.Close() // ignore error
		return nil, errors.Join(ErrOpeningDatabaseFailed, fmt.Errorf("%s: %w", driverName, pingErr))
	}

	source, err := dbsource.NewSourceFromSQLDB(db, options...)
	if err != nil {
		_ = db.Close() // ignore error
		return nil, err
	}

	return &Connection{Source: source, close: db.Close}, nil
}

func openSQLX(ctx context.Context, cfg Config, options []dbsource.Option) (*Connection, error) {
	db, err := sqlx.Open("postgres", cfg.DSN)
	if err != nil {
		return nil, errors.Join(ErrOpeningDatabaseFailed, err)
	}

	configurePool(db.DB, cfg)

	if pingErr := db.PingContext(ctx); pingErr != nil {
		_ = db.Close() // ignore error
		return nil, errors.Join(ErrOpeningDatabaseFailed, pingErr)
	}

	source, err := dbsource.NewSourceFromSQLX(db, options...)
	if err != nil {
		_ = db.Close() // ignore error
		return nil, err
	}

	return &Connection{Source: source, close: db.Close}, nil
}

func configurePool(db *sql.DB, cfg Config) {
	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxOpenConns)
	db.SetConnMaxLifetime(defaultMaxConnLifetime)
	db.SetConnMaxIdleTime(defaultMaxConnIdleTime)
}
