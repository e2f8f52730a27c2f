package client

import (
	"context"
	"fmt"
	"iter"

	"github.com/google/uuid"

	"github.com/satishbabariya/rowmap/internal/core/mapping/domain"
	"github.com/satishbabariya/rowmap/internal/core/mapping/engine"
	"github.com/satishbabariya/rowmap/internal/core/mapping/identity"
	"github.com/satishbabariya/rowmap/internal/debug"
)

// Session runs mapped queries against one identity scope.
type Session struct {
	client  *Client
	session *engine.Session
}

// ID returns the session identifier.
func (s *Session) ID() uuid.UUID {
	return s.session.ID()
}

// Scope returns the session's identity scope.
func (s *Session) Scope() *identity.Scope {
	return s.session.Scope()
}

// QueryMapped executes query when iteration starts and yields one tuple
// per result row, mapped under the named mapping. A row that fails to
// map yields its error and iteration continues; a query or cursor error
// yields once and ends the sequence. Breaking out of the loop releases the
// result set.
func (s *Session) QueryMapped(ctx context.Context, mapping, query string, args ...any) iter.Seq2[domain.ResultTuple, error] {
	return func(yield func(domain.ResultTuple, error) bool) {
		def, err := s.client.Registry().Lookup(mapping)
		if err != nil {
			yield(domain.ResultTuple{}, err)
			return
		}

		if timeout := s.client.config.QueryTimeout; timeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, timeout)
			defer cancel()
		}
		if s.client.config.LogQueries {
			debug.Component("client").Debug("query", "session", s.ID().String(), "mapping", mapping, "sql", query, "args", len(args))
		}

		rows, err := s.client.adapter.Query(ctx, query, args...)
		if err != nil {
			yield(domain.ResultTuple{}, fmt.Errorf("%w: %w", ErrQuery, err))
			return
		}
		defer rows.Close()

		for tuple, err := range s.session.MapDefinition(def, rows) {
			if !yield(tuple, err) {
				return
			}
		}
	}
}

// QueryMappedAll runs QueryMapped and collects every tuple. It stops at
// the first error and returns the tuples mapped before it.
func (s *Session) QueryMappedAll(ctx context.Context, mapping, query string, args ...any) ([]domain.ResultTuple, error) {
	return engine.Collect(s.QueryMapped(ctx, mapping, query, args...))
}

// MapRow maps a row obtained elsewhere within this session.
func (s *Session) MapRow(mapping string, row domain.RawRow) (domain.ResultTuple, error) {
	return s.session.MapRow(mapping, row)
}

// Close ends the session and discards its identity scope.
func (s *Session) Close() {
	s.session.Close()
}
