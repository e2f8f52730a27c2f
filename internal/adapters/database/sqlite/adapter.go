// Package sqlite implements the SQLite database adapter.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	_ "github.com/mattn/go-sqlite3" // SQLite driver

	"github.com/satishbabariya/rowmap/internal/adapters/database"
)

// Adapter implements database.Adapter for SQLite.
type Adapter struct {
	database.Conn
}

// New creates a new SQLite adapter. The URL is a file path, a file: URI or
// ":memory:", optionally prefixed with "sqlite://".
func New(config database.Config) *Adapter {
	return &Adapter{Conn: database.Conn{Config: config}}
}

// Connect opens the database file.
func (a *Adapter) Connect(ctx context.Context) error {
	db, err := sql.Open("sqlite3", strings.TrimPrefix(a.Config.URL, "sqlite://"))
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	if err := a.Attach(ctx, db); err != nil {
		return err
	}
	// An in-memory database lives in a single connection.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	return nil
}

// GetDialect returns the SQL dialect.
func (a *Adapter) GetDialect() database.SQLDialect {
	return database.SQLite
}

var _ database.Adapter = (*Adapter)(nil)
