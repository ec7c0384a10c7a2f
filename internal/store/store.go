// Package store is the persistence layer: a pooled database/sql gateway
// with MySQL and PostgreSQL dialects, and an in-memory backend with the
// same repository contract.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net"
	"net/url"
	"strconv"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/google/uuid"

	"task-manager/internal/config"
	"task-manager/internal/models"
)

var (
	ErrNotFound   = errors.New("not found")
	ErrEmailTaken = errors.New("email already registered")
)

// Store is everything the HTTP layer needs from persistence.
type Store interface {
	Ping(ctx context.Context) error
	Close() error

	ListTasks(ctx context.Context, owner uuid.UUID) ([]models.Task, error)
	CreateTask(ctx context.Context, task *models.Task) error
	UpdateTask(ctx context.Context, task *models.Task) error
	DeleteTask(ctx context.Context, id, owner uuid.UUID) error

	CreateUser(ctx context.Context, user *models.User) error
	FindUserByEmail(ctx context.Context, email string) (*models.User, error)
}

// DB wraps a pooled *sql.DB. SQL passed to it uses ? placeholders, which
// are rebound for the dialect in use. Caller values are always bound as
// parameters.
type DB struct {
	sql     *sql.DB
	dialect dialect
	now     func() time.Time
}

// Open returns the backend selected by cfg.DBDriver.
func Open(ctx context.Context, cfg *config.Config) (Store, error) {
	if cfg.DBDriver == config.DriverMemory {
		return NewMemory(), nil
	}

	d, err := dialectFor(cfg.DBDriver)
	if err != nil {
		return nil, err
	}

	conn, err := sql.Open(d.driverName(), DSN(cfg))
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", cfg.DBDriver, err)
	}
	conn.SetMaxOpenConns(cfg.DBPoolLimit)
	conn.SetMaxIdleConns(cfg.DBPoolLimit)

	db := newDB(conn, d)
	if err := db.Ping(ctx); err != nil {
		conn.Close()
		return nil, err
	}
	return db, nil
}

func newDB(conn *sql.DB, d dialect) *DB {
	return &DB{sql: conn, dialect: d, now: storedNow}
}

// storedNow is the current time at the precision DATETIME(6) and
// TIMESTAMPTZ keep, so values handed back match what a later read returns.
func storedNow() time.Time {
	return time.Now().UTC().Truncate(time.Microsecond)
}

// DSN builds the driver connection string. DATABASE_URL wins when set.
func DSN(cfg *config.Config) string {
	if cfg.DatabaseURL != "" {
		return cfg.DatabaseURL
	}

	switch cfg.DBDriver {
	case config.DriverPostgres:
		u := url.URL{
			Scheme:   "postgres",
			User:     url.UserPassword(cfg.DBUser, cfg.DBPassword),
			Host:     net.JoinHostPort(cfg.DBHost, strconv.Itoa(cfg.DBPort)),
			Path:     "/" + cfg.DBName,
			RawQuery: "sslmode=disable&TimeZone=UTC",
		}
		return u.String()
	default:
		mc := mysql.NewConfig()
		mc.User = cfg.DBUser
		mc.Passwd = cfg.DBPassword
		mc.Net = "tcp"
		mc.Addr = net.JoinHostPort(cfg.DBHost, strconv.Itoa(cfg.DBPort))
		mc.DBName = cfg.DBName
		mc.ParseTime = true
		mc.Loc = time.UTC
		return mc.FormatDSN()
	}
}

func (db *DB) Ping(ctx context.Context) error {
	if err := db.sql.PingContext(ctx); err != nil {
		return fmt.Errorf("ping database: %w", err)
	}
	return nil
}

func (db *DB) Close() error {
	return db.sql.Close()
}

func (db *DB) Exec(ctx context.Context, query string, args ...any) (sql.Result, error) {
	return db.sql.ExecContext(ctx, db.dialect.rebind(query), args...)
}

func (db *DB) Query(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	return db.sql.QueryContext(ctx, db.dialect.rebind(query), args...)
}

func (db *DB) QueryRow(ctx context.Context, query string, args ...any) *sql.Row {
	return db.sql.QueryRowContext(ctx, db.dialect.rebind(query), args...)
}
