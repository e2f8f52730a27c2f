package model

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/satishbabariya/rowmap/internal/core/coerce"
)

type order struct {
	ID         int64   `db:"OID,id"`
	TotalPrice float64 `db:"OPRICE"`
	Note       *string
	Placed     time.Time
	Amount     decimal.Decimal
	internal   int
	Skipped    string `db:"-"`
}

type product struct {
	ID   int32 `db:"PID,id"`
	Name string
}

type book struct {
	product
	ISBN string `db:"isbn"`
}

func TestStruct(t *testing.T) {
	typ, err := Struct[order]()
	require.NoError(t, err)
	assert.Equal(t, "order", typ.Name)

	fields := typ.Fields()
	require.Len(t, fields, 5)
	assert.Equal(t, Field{Name: "id", Column: "oid", Type: coerce.Of(coerce.BigInt), IsID: true, index: []int{0}}, fields[0])
	assert.Equal(t, "totalPrice", fields[1].Name)
	assert.Equal(t, "oprice", fields[1].Column)
	assert.Equal(t, coerce.Optional(coerce.String), fields[2].Type)
	assert.Equal(t, "note", fields[2].Column)
	assert.Equal(t, coerce.Of(coerce.DateTime), fields[3].Type)
	assert.Equal(t, coerce.Of(coerce.Decimal), fields[4].Type)

	ids := typ.IDFields()
	require.Len(t, ids, 1)
	assert.Equal(t, "id", ids[0].Name)
}

func TestStructRejectsUnsupportedFields(t *testing.T) {
	type bad struct {
		Tags []string
	}
	_, err := Struct[bad]()
	assert.Error(t, err)

	_, err = Struct[int]()
	assert.Error(t, err)
}

func TestStructSetAndGet(t *testing.T) {
	typ := MustStruct[order]()
	obj := typ.New()
	require.IsType(t, &order{}, obj)

	require.NoError(t, typ.Set(obj, "id", int64(7)))
	require.NoError(t, typ.Set(obj, "totalPrice", 25.0))
	require.NoError(t, typ.Set(obj, "note", "gift"))

	o := obj.(*order)
	assert.Equal(t, int64(7), o.ID)
	assert.Equal(t, 25.0, o.TotalPrice)
	require.NotNil(t, o.Note)
	assert.Equal(t, "gift", *o.Note)

	got, err := typ.Get(obj, "note")
	require.NoError(t, err)
	assert.Equal(t, "gift", got)

	require.NoError(t, typ.Set(obj, "note", nil))
	assert.Nil(t, o.Note)

	assert.Error(t, typ.Set(obj, "missing", 1))
	assert.Error(t, typ.Set(obj, "id", "seven"))
	assert.Error(t, typ.Set(&product{}, "id", int64(1)))
}

func TestAttributeName(t *testing.T) {
	cases := map[string]string{
		"ID":         "id",
		"TotalPrice": "totalPrice",
		"URLPath":    "urlPath",
		"name":       "name",
		"X":          "x",
	}
	for in, want := range cases {
		assert.Equal(t, want, attributeName(in), in)
	}
}

func TestStructInheritance(t *testing.T) {
	parent := MustStruct[product](WithDiscriminator("PRODUCT"))
	child, err := Struct[book](Extends(parent), WithDiscriminator("BOOK"))
	require.NoError(t, err)

	assert.Same(t, parent, child.Parent())
	assert.Same(t, parent, child.Root())
	assert.True(t, child.Is(parent))
	assert.False(t, parent.Is(child))

	found, ok := parent.Subtype("BOOK")
	require.True(t, ok)
	assert.Same(t, child, found)

	found, ok = parent.Subtype("PRODUCT")
	require.True(t, ok)
	assert.Same(t, parent, found)

	_, ok = parent.Subtype("DVD")
	assert.False(t, ok)

	obj := child.New()
	require.NoError(t, child.Set(obj, "id", int32(3)))
	require.NoError(t, child.Set(obj, "isbn", "978-0"))
	assert.Equal(t, int32(3), obj.(*book).ID)
}

func TestDiscriminatorClash(t *testing.T) {
	parent, err := Dynamic("Product", []Field{{Name: "id", Type: coerce.Of(coerce.BigInt), IsID: true}})
	require.NoError(t, err)
	_, err = Dynamic("Book", nil, Extends(parent), WithDiscriminator("B"))
	require.NoError(t, err)
	_, err = Dynamic("Brochure", nil, Extends(parent), WithDiscriminator("B"))
	assert.Error(t, err)
}

func TestDynamic(t *testing.T) {
	typ, err := Dynamic("Order", []Field{
		{Name: "id", Column: "OID", Type: coerce.Of(coerce.BigInt), IsID: true},
		{Name: "totalPrice", Column: "OPRICE", Type: coerce.Optional(coerce.Float)},
		{Name: "label", Type: coerce.Of(coerce.String)},
	})
	require.NoError(t, err)

	obj := typ.New()
	rec, ok := obj.(*Record)
	require.True(t, ok)
	assert.Same(t, typ, rec.Type())
	assert.Equal(t, 3, rec.Len())

	v, _ := rec.Get("id")
	assert.Equal(t, int64(0), v)
	v, _ = rec.Get("totalPrice")
	assert.Nil(t, v)
	v, _ = rec.Get("label")
	assert.Equal(t, "", v)

	require.NoError(t, typ.Set(obj, "id", int64(7)))
	require.NoError(t, typ.Set(obj, "totalPrice", 25.0))
	assert.Equal(t, "Order{id:7, totalPrice:25, label:}", rec.String())

	data, err := json.Marshal(rec)
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":7,"totalPrice":25,"label":""}`, string(data))

	_, ok = rec.Get("nope")
	assert.False(t, ok)
}

func TestDynamicValidation(t *testing.T) {
	_, err := Dynamic("", nil)
	assert.Error(t, err)

	_, err = Dynamic("T", []Field{{Name: "a", Type: coerce.Of(coerce.Int)}, {Name: "a", Type: coerce.Of(coerce.Int)}})
	assert.Error(t, err)

	_, err = Dynamic("T", []Field{{Name: "a"}})
	assert.Error(t, err)

	structParent := MustStruct[product]()
	_, err = Dynamic("T", nil, Extends(structParent))
	assert.Error(t, err)
}

type purchaseOrder struct {
	ID    int64
	Total int32
}

func newPurchaseOrder(id int64, total int32) *purchaseOrder {
	return &purchaseOrder{ID: id, Total: total}
}

func TestFunc(t *testing.T) {
	c, err := Func(newPurchaseOrder)
	require.NoError(t, err)
	assert.Equal(t, []coerce.Type{coerce.Of(coerce.BigInt), coerce.Of(coerce.Int)}, c.Params)
	assert.Equal(t, "model.purchaseOrder(BigInt, Int)", c.String())

	obj, err := c.Invoke([]any{int64(7), int32(25)})
	require.NoError(t, err)
	assert.Equal(t, &purchaseOrder{ID: 7, Total: 25}, obj)

	_, err = c.Invoke([]any{int64(7)})
	assert.Error(t, err)

	_, err = c.Invoke([]any{"7", int32(1)})
	assert.Error(t, err)
}

func TestFuncPropagatesErrors(t *testing.T) {
	boom := errors.New("boom")
	c := MustFunc(func(total int64) (*purchaseOrder, error) {
		if total < 0 {
			return nil, boom
		}
		return &purchaseOrder{Total: int32(total)}, nil
	})

	_, err := c.Invoke([]any{int64(-1)})
	assert.ErrorIs(t, err, boom)

	obj, err := c.Invoke([]any{int64(3)})
	require.NoError(t, err)
	assert.Equal(t, int32(3), obj.(*purchaseOrder).Total)
}

func TestFuncRejectsBadSignatures(t *testing.T) {
	_, err := Func(42)
	assert.Error(t, err)
	_, err = Func(func(...int64) *purchaseOrder { return nil })
	assert.Error(t, err)
	_, err = Func(func(int64) {})
	assert.Error(t, err)
	_, err = Func(func(int64) (int, int) { return 0, 0 })
	assert.Error(t, err)
	_, err = Func(func([]string) int { return 0 })
	assert.Error(t, err)
}

func TestConstructorResolution(t *testing.T) {
	typ, err := Dynamic("PurchaseOrder", []Field{
		{Name: "id", Column: "OID", Type: coerce.Of(coerce.BigInt), IsID: true},
		{Name: "total", Column: "PTOTAL", Type: coerce.Of(coerce.BigInt)},
	})
	require.NoError(t, err)

	full, err := FieldConstructor(typ, "id", "total")
	require.NoError(t, err)
	require.NoError(t, typ.AddConstructor(full))

	totalOnly, err := FieldConstructor(typ, "total")
	require.NoError(t, err)
	require.NoError(t, typ.AddConstructor(totalOnly))

	dup, err := FieldConstructor(typ, "id")
	require.NoError(t, err)
	assert.Error(t, typ.AddConstructor(dup), "same parameter sequence as total-only")

	_, err = FieldConstructor(typ, "nope")
	assert.Error(t, err)

	c, ok := typ.Constructor([]coerce.Type{coerce.Of(coerce.BigInt), coerce.Of(coerce.BigInt)})
	require.True(t, ok)
	assert.Same(t, full, c)

	c, ok = typ.Constructor([]coerce.Type{coerce.Of(coerce.BigInt)})
	require.True(t, ok)
	assert.Same(t, totalOnly, c)

	_, ok = typ.Constructor([]coerce.Type{coerce.Of(coerce.Int)})
	assert.False(t, ok)

	_, ok = typ.Constructor([]coerce.Type{coerce.Optional(coerce.BigInt)})
	assert.False(t, ok)

	obj, err := full.Invoke([]any{int64(7), int64(25)})
	require.NoError(t, err)
	assert.Equal(t, "PurchaseOrder{id:7, total:25}", obj.(*Record).String())
	assert.Len(t, typ.Constructors(), 2)
}

func TestCatalog(t *testing.T) {
	c := NewCatalog()
	typ := MustStruct[order](WithName("Order"))
	require.NoError(t, c.Add(typ))
	require.NoError(t, c.Add(MustStruct[product](WithName("Product"))))
	assert.Error(t, c.Add(typ))

	got, err := c.Get("Order")
	require.NoError(t, err)
	assert.Same(t, typ, got)

	_, err = c.Get("Missing")
	assert.ErrorIs(t, err, ErrUnknownType)

	assert.Equal(t, []string{"Order", "Product"}, c.Names())
}
