package database

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCategoryOf(t *testing.T) {
	tests := []struct {
		databaseType string
		want         category
	}{
		{"DECIMAL(10,2)", categoryDecimal},
		{"numeric", categoryDecimal},
		{"BIGINT", categoryInteger},
		{"INT4", categoryInteger},
		{"UNSIGNED INT", categoryInteger},
		{"DOUBLE PRECISION", categoryFloat},
		{"BOOLEAN", categoryBoolean},
		{"VARCHAR(255)", categoryText},
		{"BYTEA", categoryBinary},
		{"", categoryAny},
		{"GEOMETRY", categoryAny},
	}
	for _, tt := range tests {
		t.Run(tt.databaseType, func(t *testing.T) {
			assert.Equal(t, tt.want, categoryOf(tt.databaseType))
		})
	}
}

func TestDecode(t *testing.T) {
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	tests := []struct {
		name string
		in   any
		cat  category
		want any
	}{
		{"null", nil, categoryText, nil},
		{"text bytes", []byte("Loafers"), categoryText, "Loafers"},
		{"untyped bytes", []byte{0x01}, categoryAny, []byte{0x01}},
		{"blob", []byte{0xde, 0xad}, categoryBinary, []byte{0xde, 0xad}},
		{"blob string", "ab", categoryBinary, []byte("ab")},
		{"integer bytes", []byte("42"), categoryInteger, int64(42)},
		{"float bytes", []byte("2.5"), categoryFloat, 2.5},
		{"boolean bytes", []byte("t"), categoryBoolean, true},
		{"boolean int", int64(0), categoryBoolean, false},
		{"int passthrough", int64(7), categoryInteger, int64(7)},
		{"time passthrough", now, categoryAny, now},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := decode(tt.in, tt.cat)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDecodeDecimal(t *testing.T) {
	for _, in := range []any{[]byte("25.50"), "25.50", 25.5} {
		got, err := decode(in, categoryDecimal)
		require.NoError(t, err)
		d, ok := got.(decimal.Decimal)
		require.True(t, ok, "%T", got)
		assert.True(t, d.Equal(decimal.RequireFromString("25.5")), d.String())
	}

	got, err := decode(int64(3), categoryDecimal)
	require.NoError(t, err)
	assert.True(t, got.(decimal.Decimal).Equal(decimal.NewFromInt(3)))
}

func TestDecodeErrors(t *testing.T) {
	tests := []struct {
		name string
		in   any
		cat  category
		msg  string
	}{
		{"decimal", []byte("abc"), categoryDecimal, `invalid decimal "abc"`},
		{"integer", []byte("1.5"), categoryInteger, `invalid integer "1.5"`},
		{"float", "x", categoryFloat, `invalid float "x"`},
		{"boolean", []byte("maybe"), categoryBoolean, `invalid boolean "maybe"`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := decode(tt.in, tt.cat)
			assert.ErrorContains(t, err, tt.msg)
		})
	}
}

func TestConnNotConnected(t *testing.T) {
	var c Conn
	ctx := context.Background()

	_, err := c.Query(ctx, "SELECT 1")
	assert.ErrorIs(t, err, ErrNotConnected)
	_, err = c.Execute(ctx, "SELECT 1")
	assert.ErrorIs(t, err, ErrNotConnected)
	assert.ErrorIs(t, c.Ping(ctx), ErrNotConnected)
	assert.NoError(t, c.Disconnect(ctx))
	assert.Nil(t, c.DB())
}

func TestConnectTimeoutDefault(t *testing.T) {
	assert.Equal(t, DefaultConnectTimeout, Config{}.connectTimeout())
	assert.Equal(t, 3*time.Second, Config{ConnectTimeout: 3}.connectTimeout())
}
