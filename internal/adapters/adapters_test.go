package adapters

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/satishbabariya/rowmap/internal/adapters/database"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		cfg     database.Config
		dialect database.SQLDialect
		wantErr string
	}{
		{"sqlite", database.Config{Provider: "sqlite", URL: ":memory:"}, database.SQLite, ""},
		{"postgresql alias", database.Config{Provider: "postgresql"}, database.PostgreSQL, ""},
		{"mysql", database.Config{Provider: "MySQL"}, database.MySQL, ""},
		{"inferred postgres", database.Config{URL: "postgres://localhost/shop"}, database.PostgreSQL, ""},
		{"inferred mysql", database.Config{URL: "root@tcp(localhost:3306)/shop"}, database.MySQL, ""},
		{"inferred sqlite", database.Config{URL: "orders.db"}, database.SQLite, ""},
		{"unknown", database.Config{Provider: "oracle"}, "", "unsupported database provider: oracle"},
		{"missing", database.Config{URL: "whatever"}, "", "no database provider configured"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, err := New(tt.cfg)
			if tt.wantErr != "" {
				assert.EqualError(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.dialect, a.GetDialect())
		})
	}
}
