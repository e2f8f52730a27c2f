// Package postgres implements the PostgreSQL database adapter.
package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/lib/pq"

	"github.com/satishbabariya/rowmap/internal/adapters/database"
)

// Adapter implements database.Adapter for PostgreSQL.
type Adapter struct {
	database.Conn
}

// New creates a new PostgreSQL adapter. The URL may be a postgres:// URL
// or a key=value connection string.
func New(config database.Config) *Adapter {
	return &Adapter{Conn: database.Conn{Config: config}}
}

// Connect establishes a connection to the PostgreSQL server.
func (a *Adapter) Connect(ctx context.Context) error {
	dsn, err := DSN(a.Config.URL)
	if err != nil {
		return err
	}
	connector, err := pq.NewConnector(dsn)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	return a.Attach(ctx, sql.OpenDB(connector))
}

// GetDialect returns the SQL dialect.
func (a *Adapter) GetDialect() database.SQLDialect {
	return database.PostgreSQL
}

// DSN converts a postgres:// or postgresql:// URL into a libpq connection
// string. Other input is returned as is.
func DSN(url string) (string, error) {
	if !strings.HasPrefix(url, "postgres://") && !strings.HasPrefix(url, "postgresql://") {
		return url, nil
	}
	dsn, err := pq.ParseURL(url)
	if err != nil {
		return "", fmt.Errorf("invalid database url: %w", err)
	}
	return dsn, nil
}

var _ database.Adapter = (*Adapter)(nil)
