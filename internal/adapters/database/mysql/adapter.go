// Package mysql implements the MySQL database adapter.
package mysql

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/go-sql-driver/mysql"

	"github.com/satishbabariya/rowmap/internal/adapters/database"
)

// Adapter implements database.Adapter for MySQL.
type Adapter struct {
	database.Conn
}

// New creates a new MySQL adapter. The URL is a go-sql-driver DSN such as
// "user:pass@tcp(localhost:3306)/shop", optionally prefixed with "mysql://".
func New(config database.Config) *Adapter {
	return &Adapter{Conn: database.Conn{Config: config}}
}

// Connect establishes a connection to the MySQL server.
func (a *Adapter) Connect(ctx context.Context) error {
	cfg, err := ParseConfig(a.Config.URL)
	if err != nil {
		return err
	}
	connector, err := mysql.NewConnector(cfg)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	return a.Attach(ctx, sql.OpenDB(connector))
}

// GetDialect returns the SQL dialect.
func (a *Adapter) GetDialect() database.SQLDialect {
	return database.MySQL
}

// ParseConfig parses a DSN. DATETIME columns are always decoded to
// time.Time so they coerce like the other drivers' timestamps.
func ParseConfig(url string) (*mysql.Config, error) {
	cfg, err := mysql.ParseDSN(strings.TrimPrefix(url, "mysql://"))
	if err != nil {
		return nil, fmt.Errorf("invalid database url: %w", err)
	}
	cfg.ParseTime = true
	return cfg, nil
}

var _ database.Adapter = (*Adapter)(nil)
