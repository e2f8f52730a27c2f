package client

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/satishbabariya/rowmap/internal/adapters/database"
	"github.com/satishbabariya/rowmap/internal/adapters/database/sqlite"
	"github.com/satishbabariya/rowmap/internal/core/coerce"
	"github.com/satishbabariya/rowmap/internal/core/mapping/domain"
	"github.com/satishbabariya/rowmap/internal/core/model"
	"github.com/satishbabariya/rowmap/internal/core/schema"
)

type Order struct {
	ID         int64   `db:"OID,id"`
	TotalPrice float64 `db:"OPRICE"`
}

type mockAdapter struct {
	mock.Mock
}

func (m *mockAdapter) Connect(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func (m *mockAdapter) Disconnect(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func (m *mockAdapter) Execute(ctx context.Context, query string, args ...any) (sql.Result, error) {
	ret := m.Called(ctx, query)
	res, _ := ret.Get(0).(sql.Result)
	return res, ret.Error(1)
}

func (m *mockAdapter) Query(ctx context.Context, query string, args ...any) (*database.Rows, error) {
	ret := m.Called(ctx, query)
	rows, _ := ret.Get(0).(*database.Rows)
	return rows, ret.Error(1)
}

func (m *mockAdapter) Ping(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func (m *mockAdapter) GetDialect() database.SQLDialect {
	return database.SQLite
}

func newClient(t *testing.T, opts ...Option) *Client {
	t.Helper()
	ctx := context.Background()
	c := New(sqlite.New(database.Config{URL: ":memory:"}), opts...)
	require.NoError(t, c.Connect(ctx))
	t.Cleanup(func() { c.Disconnect(ctx) })

	for _, stmt := range []string{
		`CREATE TABLE orders (oid INTEGER PRIMARY KEY, oprice REAL NOT NULL)`,
		`CREATE TABLE items (oid INTEGER NOT NULL, iname TEXT NOT NULL, qty INTEGER)`,
		`INSERT INTO orders VALUES (7, 25.0), (8, 40.0)`,
		`INSERT INTO items VALUES (7, 'Loafers', 1), (7, 'Laces', 2), (8, 'Boots', NULL)`,
	} {
		_, err := c.Adapter().Execute(ctx, stmt)
		require.NoError(t, err)
	}
	return c
}

const itemsQuery = `SELECT o.oid AS oid, o.oprice AS oprice, i.iname AS iname, i.qty AS qty
	FROM orders o JOIN items i ON i.oid = o.oid ORDER BY o.oid, i.iname DESC`

func registerOrderItems(t *testing.T, c *Client) {
	t.Helper()
	order, err := RegisterStruct[Order](c)
	require.NoError(t, err)
	require.NoError(t, c.Register(domain.NewMappingDefinition("OrderItems",
		domain.EntityResult{Type: order},
		domain.ColumnResult{Column: "INAME"},
		domain.ColumnResult{Column: "QTY", Type: coerce.Optional(coerce.Int)},
	)))
}

func TestQueryMapped(t *testing.T) {
	c := newClient(t, WithLogQueries(true))
	registerOrderItems(t, c)

	s := c.NewSession()
	defer s.Close()

	tuples, err := s.QueryMappedAll(context.Background(), "OrderItems", itemsQuery)
	require.NoError(t, err)
	require.Len(t, tuples, 3)

	assert.Equal(t, &Order{ID: 7, TotalPrice: 25}, tuples[0].At(0).Value)
	assert.Equal(t, "Loafers", tuples[0].At(1).Value)
	assert.Equal(t, int32(1), tuples[0].At(2).Value)
	assert.Same(t, tuples[0].At(0).Value, tuples[1].At(0).Value)
	assert.Equal(t, &Order{ID: 8, TotalPrice: 40}, tuples[2].At(0).Value)
	assert.Nil(t, tuples[2].At(2).Value)
	assert.Equal(t, 2, s.Scope().Len())

	again, err := s.QueryMappedAll(context.Background(), "OrderItems", itemsQuery)
	require.NoError(t, err)
	assert.Same(t, tuples[0].At(0).Value, again[0].At(0).Value)
}

func TestQueryMappedBreakReleasesRows(t *testing.T) {
	c := newClient(t)
	registerOrderItems(t, c)
	s := c.NewSession()

	n := 0
	for _, err := range s.QueryMapped(context.Background(), "OrderItems", itemsQuery) {
		require.NoError(t, err)
		n++
		break
	}
	assert.Equal(t, 1, n)

	// The single sqlite connection is free again.
	tuples, err := s.QueryMappedAll(context.Background(), "OrderItems", itemsQuery+" LIMIT 1")
	require.NoError(t, err)
	assert.Len(t, tuples, 1)
}

func TestQueryMappedRowErrors(t *testing.T) {
	c := newClient(t)
	registerOrderItems(t, c)
	s := c.NewSession()

	var errs []error
	var ok int
	for _, err := range s.QueryMapped(context.Background(), "OrderItems",
		`SELECT oid, oprice, CASE WHEN oid = 7 THEN 'x' ELSE NULL END AS iname FROM orders ORDER BY oid`) {
		if err != nil {
			errs = append(errs, err)
			continue
		}
		ok++
	}
	assert.Equal(t, 0, ok)
	require.Len(t, errs, 2)
	assert.True(t, IsMissingColumn(errs[0]))
}

func TestQueryMappedUnknownMapping(t *testing.T) {
	c := newClient(t)
	_, err := c.NewSession().QueryMappedAll(context.Background(), "nope", "SELECT 1")
	assert.True(t, IsUnknownMapping(err))
}

func TestQueryMappedQueryError(t *testing.T) {
	boom := errors.New("syntax error")
	adapter := &mockAdapter{}
	adapter.On("Query", mock.Anything, "SELEKT").Return(nil, boom)

	c := New(adapter, WithQueryTimeout(time.Second))
	require.NoError(t, c.Register(domain.NewMappingDefinition("scalar", domain.ColumnResult{Column: "a"})))

	_, err := c.NewSession().QueryMappedAll(context.Background(), "scalar", "SELEKT")
	assert.ErrorIs(t, err, ErrQuery)
	assert.ErrorIs(t, err, boom)
	adapter.AssertExpectations(t)
}

func TestConnectError(t *testing.T) {
	adapter := &mockAdapter{}
	adapter.On("Connect", mock.Anything).Return(errors.New("refused"))

	err := New(adapter).Connect(context.Background())
	assert.True(t, IsConnection(err))
	assert.ErrorContains(t, err, "refused")
}

func TestWithSchema(t *testing.T) {
	src := `
model Order {
  id         BigInt @id @map("OID")
  totalPrice Float  @map("OPRICE")
}

mapping Orders {
  entity Order
}
`
	sch, err := schema.Read("orders.rowmap", strings.NewReader(src))
	require.NoError(t, err)

	c := newClient(t, WithSchema(sch))
	assert.Equal(t, []string{"Order"}, c.Catalog().Names())

	tuples, err := c.NewSession().QueryMappedAll(context.Background(), "Orders", `SELECT oid, oprice FROM orders ORDER BY oid`)
	require.NoError(t, err)
	require.Len(t, tuples, 2)
	assert.Equal(t, "Order{id:8, totalPrice:40}", tuples[1].Value().(*model.Record).String())
}

func TestConfigOptions(t *testing.T) {
	config := DefaultConfig()
	assert.Equal(t, 30*time.Second, config.QueryTimeout)
	assert.False(t, config.LogQueries)

	ApplyOptions(config, WithQueryTimeout(time.Minute), WithLogQueries(true))
	assert.Equal(t, time.Minute, config.QueryTimeout)
	assert.True(t, config.LogQueries)
}
