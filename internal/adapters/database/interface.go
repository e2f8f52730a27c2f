// Package database defines the connections result rows are read from.
package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// Adapter defines the database adapter interface.
type Adapter interface {
	// Connect establishes a database connection.
	Connect(ctx context.Context) error

	// Disconnect closes the database connection.
	Disconnect(ctx context.Context) error

	// Execute executes a SQL statement.
	Execute(ctx context.Context, query string, args ...any) (sql.Result, error)

	// Query executes a query and returns its result set as a row cursor.
	Query(ctx context.Context, query string, args ...any) (*Rows, error)

	// Ping checks the database connection.
	Ping(ctx context.Context) error

	// GetDialect returns the SQL dialect.
	GetDialect() SQLDialect
}

// SQLDialect represents a SQL dialect.
type SQLDialect string

const (
	// PostgreSQL dialect.
	PostgreSQL SQLDialect = "postgres"
	// MySQL dialect.
	MySQL SQLDialect = "mysql"
	// SQLite dialect.
	SQLite SQLDialect = "sqlite"
)

// Config holds database connection configuration.
type Config struct {
	Provider       string
	URL            string
	MaxConnections int
	MaxIdleTime    int // seconds
	ConnectTimeout int // seconds
}

// DefaultConnectTimeout applies when Config.ConnectTimeout is zero.
const DefaultConnectTimeout = 10 * time.Second

func (c Config) connectTimeout() time.Duration {
	if c.ConnectTimeout <= 0 {
		return DefaultConnectTimeout
	}
	return time.Duration(c.ConnectTimeout) * time.Second
}

// Conn holds the pool shared by the driver-specific adapters. Adapters
// embed it and implement Connect and GetDialect themselves.
type Conn struct {
	db     *sql.DB
	Config Config
}

// Attach pings db within the configured timeout, applies pool settings and
// takes ownership of it. db is closed when the ping fails.
func (c *Conn) Attach(ctx context.Context, db *sql.DB) error {
	if c.Config.MaxConnections > 0 {
		db.SetMaxOpenConns(c.Config.MaxConnections)
		db.SetMaxIdleConns(max(c.Config.MaxConnections/2, 1))
	}
	db.SetConnMaxIdleTime(time.Duration(c.Config.MaxIdleTime) * time.Second)

	ctx, cancel := context.WithTimeout(ctx, c.Config.connectTimeout())
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return fmt.Errorf("failed to ping database: %w", err)
	}
	c.db = db
	return nil
}

// DB returns the underlying pool, or nil before Connect.
func (c *Conn) DB() *sql.DB {
	return c.db
}

// Disconnect closes the database connection.
func (c *Conn) Disconnect(ctx context.Context) error {
	if c.db == nil {
		return nil
	}
	err := c.db.Close()
	c.db = nil
	return err
}

// Execute executes a statement without returning rows.
func (c *Conn) Execute(ctx context.Context, query string, args ...any) (sql.Result, error) {
	if c.db == nil {
		return nil, ErrNotConnected
	}
	return c.db.ExecContext(ctx, query, args...)
}

// Query executes a query that returns rows.
func (c *Conn) Query(ctx context.Context, query string, args ...any) (*Rows, error) {
	if c.db == nil {
		return nil, ErrNotConnected
	}
	rows, err := c.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query failed: %w", err)
	}
	return NewRows(rows)
}

// Ping checks if the database connection is alive.
func (c *Conn) Ping(ctx context.Context) error {
	if c.db == nil {
		return ErrNotConnected
	}
	return c.db.PingContext(ctx)
}
