// Package db owns the shared GORM connection for postgres and the local sqlite mode.
package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/Jcpastelariagourmet/jcpastelariagourmet-sub000/pkg/config"
	"github.com/Jcpastelariagourmet/jcpastelariagourmet-sub000/pkg/logger"
)

var ErrMissingDSN = errors.New("database DSN is required")

type Client struct {
	conn *gorm.DB
}

// Pinger is the health check surface.
type Pinger interface {
	Ping(ctx context.Context) error
}

// New opens the pool. useSQLite selects cfg.SQLitePath instead of cfg.DSN.
func New(ctx context.Context, cfg config.DBConfig, useSQLite bool, logg *logger.Logger) (*Client, error) {
	dialector, err := dialectorFor(cfg, useSQLite)
	if err != nil {
		return nil, err
	}
	conn, err := gorm.Open(dialector, &gorm.Config{
		Logger:                 newQueryLogger(logg, cfg.SlowQuery),
		SkipDefaultTransaction: true,
	})
	if err != nil {
		return nil, fmt.Errorf("open db connection: %w", err)
	}
	sqlDB, err := conn.DB()
	if err != nil {
		return nil, fmt.Errorf("sql db handle: %w", err)
	}
	tunePool(sqlDB, cfg)

	logg.Info(logg.WithField(ctx, "driver", conn.Dialector.Name()), "db.connected")
	return &Client{conn: conn}, nil
}

// NewFromConn wraps an already open connection.
func NewFromConn(conn *gorm.DB) *Client {
	return &Client{conn: conn}
}

func dialectorFor(cfg config.DBConfig, useSQLite bool) (gorm.Dialector, error) {
	if useSQLite {
		return sqlite.Open(cfg.SQLitePath), nil
	}
	if cfg.DSN == "" {
		return nil, ErrMissingDSN
	}
	return postgres.New(postgres.Config{DSN: cfg.DSN, PreferSimpleProtocol: true}), nil
}

// tunePool leaves database/sql defaults in place for zero values.
func tunePool(sqlDB *sql.DB, cfg config.DBConfig) {
	if n := cfg.MaxOpenConns; n > 0 {
		sqlDB.SetMaxOpenConns(n)
	}
	if n := cfg.MaxIdleConns; n > 0 {
		sqlDB.SetMaxIdleConns(n)
	}
	if d := cfg.ConnMaxLifetime; d > 0 {
		sqlDB.SetConnMaxLifetime(d)
	}
	if d := cfg.ConnMaxIdleTime; d > 0 {
		sqlDB.SetConnMaxIdleTime(d)
	}
}

func (c *Client) DB() *gorm.DB { return c.conn }

// SQL exposes the pooled handle for goose.
func (c *Client) SQL() (*sql.DB, error) { return c.conn.DB() }

// Dialect is "postgres" or "sqlite".
func (c *Client) Dialect() string { return c.conn.Dialector.Name() }

func (c *Client) Ping(ctx context.Context) error {
	sqlDB, err := c.conn.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func (c *Client) Close() error {
	sqlDB, err := c.conn.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// WithTx runs fn in a transaction. A returned error or a panic rolls back.
func (c *Client) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return c.conn.WithContext(ctx).Transaction(fn)
}
