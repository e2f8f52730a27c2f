package database

import (
	"bytes"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/satishbabariya/rowmap/internal/core/mapping/domain"
)

// ErrNotConnected is returned by adapter calls made before Connect.
var ErrNotConnected = errors.New("database not connected")

// category groups database column types by how their driver values decode.
type category int

const (
	categoryAny category = iota
	categoryInteger
	categoryFloat
	categoryDecimal
	categoryBoolean
	categoryText
	categoryBinary
)

var typeCategories = map[string]category{
	"INT": categoryInteger, "INTEGER": categoryInteger, "BIGINT": categoryInteger,
	"SMALLINT": categoryInteger, "TINYINT": categoryInteger, "MEDIUMINT": categoryInteger,
	"INT2": categoryInteger, "INT4": categoryInteger, "INT8": categoryInteger,
	"UNSIGNED INT": categoryInteger, "UNSIGNED BIGINT": categoryInteger,
	"UNSIGNED SMALLINT": categoryInteger, "UNSIGNED TINYINT": categoryInteger,

	"REAL": categoryFloat, "FLOAT": categoryFloat, "DOUBLE": categoryFloat,
	"FLOAT4": categoryFloat, "FLOAT8": categoryFloat, "DOUBLE PRECISION": categoryFloat,

	"DECIMAL": categoryDecimal, "NUMERIC": categoryDecimal, "MONEY": categoryDecimal,

	"BOOL": categoryBoolean, "BOOLEAN": categoryBoolean,

	"TEXT": categoryText, "VARCHAR": categoryText, "CHAR": categoryText, "BPCHAR": categoryText,
	"NVARCHAR": categoryText, "NCHAR": categoryText, "CHARACTER": categoryText,
	"CHARACTER VARYING": categoryText, "TINYTEXT": categoryText, "MEDIUMTEXT": categoryText,
	"LONGTEXT": categoryText, "UUID": categoryText, "JSON": categoryText, "JSONB": categoryText,
	"ENUM": categoryText, "CLOB": categoryText,

	"BLOB": categoryBinary, "BYTEA": categoryBinary, "BINARY": categoryBinary,
	"VARBINARY": categoryBinary, "TINYBLOB": categoryBinary, "MEDIUMBLOB": categoryBinary,
	"LONGBLOB": categoryBinary,
}

// categoryOf maps a driver type name like "DECIMAL(10,2)" to its category.
func categoryOf(databaseType string) category {
	name := strings.ToUpper(strings.TrimSpace(databaseType))
	if i := strings.IndexByte(name, '('); i >= 0 {
		name = strings.TrimSpace(name[:i])
	}
	return typeCategories[name]
}

// Rows is a forward-only cursor over a query result. It yields every row
// as a domain.RawRow and satisfies the engine's RowSource.
type Rows struct {
	rows       *sql.Rows
	columns    []string
	categories []category
	current    domain.RawRow
	err        error
	closed     bool
}

// NewRows wraps rows. The cursor owns rows and closes it once exhausted.
func NewRows(rows *sql.Rows) (*Rows, error) {
	types, err := rows.ColumnTypes()
	if err != nil {
		rows.Close()
		return nil, fmt.Errorf("failed to read column types: %w", err)
	}
	r := &Rows{
		rows:       rows,
		columns:    make([]string, len(types)),
		categories: make([]category, len(types)),
	}
	for i, ct := range types {
		r.columns[i] = ct.Name()
		r.categories[i] = categoryOf(ct.DatabaseTypeName())
	}
	return r, nil
}

// Columns returns the result column names as reported by the driver.
func (r *Rows) Columns() []string {
	return append([]string(nil), r.columns...)
}

// Next advances to the next row. It returns false at the end of the
// result or on the first error; Err tells the two apart.
func (r *Rows) Next() bool {
	if r.closed {
		return false
	}
	if !r.rows.Next() {
		r.finish(r.rows.Err())
		return false
	}

	raw := make([]any, len(r.columns))
	dest := make([]any, len(raw))
	for i := range raw {
		dest[i] = &raw[i]
	}
	if err := r.rows.Scan(dest...); err != nil {
		r.finish(fmt.Errorf("failed to scan row: %w", err))
		return false
	}
	for i, v := range raw {
		decoded, err := decode(v, r.categories[i])
		if err != nil {
			r.finish(fmt.Errorf("column %s: %w", r.columns[i], err))
			return false
		}
		raw[i] = decoded
	}
	row, err := domain.NewRawRow(r.columns, raw)
	if err != nil {
		r.finish(err)
		return false
	}
	r.current = row
	return true
}

// Row returns the row Next advanced to.
func (r *Rows) Row() domain.RawRow {
	return r.current
}

// Err returns the error that ended iteration, if any.
func (r *Rows) Err() error {
	return r.err
}

// Close releases the result set. It is safe to call more than once.
func (r *Rows) Close() error {
	if r.closed {
		return nil
	}
	r.closed = true
	return r.rows.Close()
}

func (r *Rows) finish(err error) {
	if r.err == nil {
		r.err = err
	}
	if cerr := r.Close(); cerr != nil && r.err == nil {
		r.err = cerr
	}
}

// decode turns a driver value into a raw scalar according to the declared
// column type. Drivers disagree on representation: text often arrives as
// bytes, and DECIMAL as bytes, strings or floats.
func decode(v any, c category) (any, error) {
	switch x := v.(type) {
	case nil:
		return nil, nil
	case []byte:
		return decodeText(string(x), x, c)
	case string:
		if c == categoryBinary {
			return []byte(x), nil
		}
		return decodeText(x, nil, c)
	case int64:
		switch c {
		case categoryDecimal:
			return decimal.NewFromInt(x), nil
		case categoryBoolean:
			return x != 0, nil
		}
	case float64:
		if c == categoryDecimal {
			return decimal.NewFromFloat(x), nil
		}
	}
	return v, nil
}

func decodeText(s string, b []byte, c category) (any, error) {
	switch c {
	case categoryDecimal:
		d, err := decimal.NewFromString(s)
		if err != nil {
			return nil, fmt.Errorf("invalid decimal %q: %w", s, err)
		}
		return d, nil
	case categoryInteger:
		n, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid integer %q: %w", s, err)
		}
		return n, nil
	case categoryFloat:
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid float %q: %w", s, err)
		}
		return f, nil
	case categoryBoolean:
		switch strings.ToLower(s) {
		case "1", "t", "true", "y", "yes", "on":
			return true, nil
		case "0", "f", "false", "n", "no", "off":
			return false, nil
		}
		return nil, fmt.Errorf("invalid boolean %q", s)
	case categoryBinary, categoryAny:
		if b != nil {
			return bytes.Clone(b), nil
		}
		return s, nil
	}
	return s, nil
}
