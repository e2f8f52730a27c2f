// Package adapters selects a database adapter for a provider name.
package adapters

import (
	"fmt"
	"strings"

	"github.com/satishbabariya/rowmap/internal/adapters/database"
	"github.com/satishbabariya/rowmap/internal/adapters/database/mysql"
	"github.com/satishbabariya/rowmap/internal/adapters/database/postgres"
	"github.com/satishbabariya/rowmap/internal/adapters/database/sqlite"
)

// New returns an unconnected adapter for cfg. An empty provider is
// inferred from the URL scheme.
func New(cfg database.Config) (database.Adapter, error) {
	provider := strings.ToLower(cfg.Provider)
	if provider == "" {
		provider = Infer(cfg.URL)
	}
	switch provider {
	case "sqlite", "sqlite3":
		return sqlite.New(cfg), nil
	case "postgres", "postgresql":
		return postgres.New(cfg), nil
	case "mysql":
		return mysql.New(cfg), nil
	case "":
		return nil, fmt.Errorf("no database provider configured")
	default:
		return nil, fmt.Errorf("unsupported database provider: %s", cfg.Provider)
	}
}

// Infer guesses the provider of a connection URL.
func Infer(url string) string {
	switch {
	case strings.HasPrefix(url, "postgres://"), strings.HasPrefix(url, "postgresql://"):
		return "postgres"
	case strings.HasPrefix(url, "mysql://"), strings.Contains(url, "@tcp("):
		return "mysql"
	case strings.HasPrefix(url, "sqlite://"), strings.HasPrefix(url, "file:"),
		url == ":memory:", strings.HasSuffix(url, ".db"), strings.HasSuffix(url, ".sqlite"):
		return "sqlite"
	}
	return ""
}
