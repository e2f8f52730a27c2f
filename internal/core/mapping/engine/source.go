package engine

import (
	"errors"

	"github.com/satishbabariya/rowmap/internal/core/mapping/domain"
)

// ErrSourceConsumed is reported when a single-pass row sequence is ranged
// over a second time.
var ErrSourceConsumed = errors.New("rowmap: row source already consumed")

// RowSource is a single-pass cursor over raw rows. Next advances to the
// next row and reports whether one is available; Err reports the error
// that stopped iteration, if any.
type RowSource interface {
	Next() bool
	Row() domain.RawRow
	Err() error
}

// SliceSource is an in-memory RowSource.
type SliceSource struct {
	rows []domain.RawRow
	pos  int
}

// NewSliceSource creates a source over rows.
func NewSliceSource(rows ...domain.RawRow) *SliceSource {
	return &SliceSource{rows: rows, pos: -1}
}

// Next implements RowSource.
func (s *SliceSource) Next() bool {
	if s.pos+1 >= len(s.rows) {
		s.pos = len(s.rows)
		return false
	}
	s.pos++
	return true
}

// Row implements RowSource.
func (s *SliceSource) Row() domain.RawRow {
	return s.rows[s.pos]
}

// Err implements RowSource.
func (s *SliceSource) Err() error {
	return nil
}
