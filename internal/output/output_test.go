package output

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/pterm/pterm"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/satishbabariya/rowmap/internal/core/coerce"
	"github.com/satishbabariya/rowmap/internal/core/mapping/domain"
	"github.com/satishbabariya/rowmap/internal/core/model"
)

type Order struct {
	ID    int64 `db:",id"`
	Total decimal.Decimal
}

func fixture(t *testing.T) (*domain.MappingDefinition, []domain.ResultTuple) {
	t.Helper()
	item, err := model.Dynamic("Item", []model.Field{
		{Name: "sku", Type: coerce.Of(coerce.String), IsID: true},
		{Name: "qty", Type: coerce.Of(coerce.Int)},
	})
	require.NoError(t, err)
	rec := item.New()
	require.NoError(t, item.Set(rec, "sku", "A-1"))
	require.NoError(t, item.Set(rec, "qty", int32(2)))

	order := model.MustStruct[Order]()
	def := domain.NewMappingDefinition("items",
		domain.EntityResult{Type: order},
		domain.EntityResult{Type: item},
		domain.ColumnResult{Column: "NOTE"},
	)
	tuples := []domain.ResultTuple{
		domain.NewResultTuple(
			domain.Element{Value: &Order{ID: 7, Total: decimal.RequireFromString("25.5")}, Kind: domain.EntityKind, Status: domain.Tracked},
			domain.Element{Value: rec, Kind: domain.EntityKind, Status: domain.Tracked},
			domain.Element{Value: nil, Kind: domain.ScalarKind},
		),
	}
	return def, tuples
}

func TestParseFormat(t *testing.T) {
	for _, name := range []string{"table", "JSON", " yaml ", "dump"} {
		_, err := ParseFormat(name)
		assert.NoError(t, err, name)
	}
	_, err := ParseFormat("xml")
	assert.ErrorContains(t, err, `unknown output format "xml"`)
}

func TestHeaders(t *testing.T) {
	def, _ := fixture(t)
	assert.Equal(t, []string{"Order", "Item", "NOTE"}, Headers(def))
}

func TestRenderTable(t *testing.T) {
	pterm.DisableStyling()
	defer pterm.EnableStyling()

	def, tuples := fixture(t)
	var buf bytes.Buffer
	require.NoError(t, Render(&buf, Table, def, tuples))
	out := buf.String()
	assert.Contains(t, out, "Order")
	assert.Contains(t, out, "NOTE")
	assert.Contains(t, out, "Order{ID:7 Total:25.5}")
	assert.Contains(t, out, "Item{sku:A-1, qty:2}")
	assert.Contains(t, out, "NULL")
}

func TestRenderJSON(t *testing.T) {
	def, tuples := fixture(t)
	var buf bytes.Buffer
	require.NoError(t, Render(&buf, JSON, def, tuples))

	var got [][]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	require.Len(t, got, 1)
	assert.Equal(t, map[string]any{"ID": 7.0, "Total": "25.5"}, got[0][0])
	assert.Equal(t, map[string]any{"sku": "A-1", "qty": 2.0}, got[0][1])
	assert.Nil(t, got[0][2])
}

func TestRenderYAML(t *testing.T) {
	def, tuples := fixture(t)
	var buf bytes.Buffer
	require.NoError(t, Render(&buf, YAML, def, tuples))
	assert.Contains(t, buf.String(), "sku: A-1\n")

	var raw [][]any
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &raw))
	require.Len(t, raw, 1)
	require.Len(t, raw[0], 3)
	assert.Equal(t, map[string]any{"sku": "A-1", "qty": 2}, raw[0][1])
	assert.Nil(t, raw[0][2])
}

func TestRenderDump(t *testing.T) {
	def, tuples := fixture(t)
	var buf bytes.Buffer
	require.NoError(t, Render(&buf, Dump, def, tuples))
	out := buf.String()
	assert.Contains(t, out, "tuple 1:")
	assert.Contains(t, out, "entity tracked")
	assert.Contains(t, out, "column untracked")
	assert.Contains(t, out, "ID: (int64) 7")
}

func TestCell(t *testing.T) {
	assert.Equal(t, "NULL", Cell(nil))
	assert.Equal(t, "0x0102", Cell([]byte{1, 2}))
	assert.Equal(t, "42", Cell(int64(42)))
	assert.Equal(t, "1.5", Cell(decimal.RequireFromString("1.5")))
}

func TestRenderUnknownFormat(t *testing.T) {
	def, tuples := fixture(t)
	assert.Error(t, Render(&bytes.Buffer{}, Format("xml"), def, tuples))
}
